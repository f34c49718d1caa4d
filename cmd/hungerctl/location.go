package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hungertracker/hungerd/pkg/client"
)

func newLocationCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Share your location and see where friends are",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newLocationUpdateCommand(opts))
	cmd.AddCommand(newLocationShareCommand(opts))
	cmd.AddCommand(newLocationFriendsCommand(opts))
	return cmd
}

func newLocationUpdateCommand(opts *globalOptions) *cobra.Command {
	var (
		latitude    float64
		longitude   float64
		displayName string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Push your current coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.newClient().UpdateLocation(cmd.Context(), latitude, longitude, displayName); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "location updated")
			return nil
		},
	}

	cmd.Flags().Float64Var(&latitude, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&longitude, "lon", 0, "Longitude")
	cmd.Flags().StringVar(&displayName, "name", "", "Optional display location (e.g. a neighborhood)")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func newLocationShareCommand(opts *globalOptions) *cobra.Command {
	var allowList []string

	cmd := &cobra.Command{
		Use:   "share <invisible|all_friends|select_friends>",
		Short: "Switch who can see your location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locations, err := opts.newClient().SetSharingMode(cmd.Context(), args[0], allowList)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sharing mode set to %s\n", args[0])
			printLocations(cmd, locations)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&allowList, "allow", nil, "User ids allowed to see your location (select_friends mode)")
	return cmd
}

func newLocationFriendsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "friends",
		Short: "Show friend locations you are allowed to see",
		RunE: func(cmd *cobra.Command, args []string) error {
			locations, err := opts.newClient().FriendLocations(cmd.Context())
			if err != nil {
				return err
			}
			printLocations(cmd, locations)
			return nil
		},
	}
}

func printLocations(cmd *cobra.Command, locations []client.FriendLocation) {
	for _, l := range locations {
		name := l.DisplayName
		if name == "" {
			name = fmt.Sprintf("%.4f,%.4f", l.Latitude, l.Longitude)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (updated %s)\n", l.UserID, name, l.UpdatedAt.Local().Format("Jan 02 15:04"))
	}
}
