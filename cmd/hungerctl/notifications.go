package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNotificationsCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Read the notification inbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			notifications, err := opts.newClient().Notifications(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range notifications {
				marker := " "
				if !n.IsRead {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s  (%s)\n", marker, n.CreatedAt.Local().Format("Jan 02 15:04"), n.Content, n.ID)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.newClient().MarkNotificationRead(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "marked read")
			return nil
		},
	})
	return cmd
}
