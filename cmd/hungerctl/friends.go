package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hungertracker/hungerd/pkg/client"
)

func newFriendsCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Manage friendships",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newFriendsListCommand(opts))
	cmd.AddCommand(newFriendsRequestCommand(opts))
	cmd.AddCommand(newFriendsAcceptCommand(opts))
	cmd.AddCommand(newFriendsRejectCommand(opts))
	return cmd
}

func newFriendsListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List friendships in every status",
		RunE: func(cmd *cobra.Command, args []string) error {
			friendships, err := opts.newClient().Friends(cmd.Context())
			if err != nil {
				return err
			}
			for _, f := range friendships {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s -> %s  [%s]\n", f.ID, f.Sender, f.Receiver, f.Status)
			}
			return nil
		},
	}
}

func newFriendsRequestCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "request <user-id>",
		Short: "Send a friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			friendship, err := opts.newClient().SendFriendRequest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "request sent (%s)\n", friendship.ID)
			return nil
		},
	}
}

func newFriendsAcceptCommand(opts *globalOptions) *cobra.Command {
	return respondCommand(opts, "accept", client.FriendshipAccepted)
}

func newFriendsRejectCommand(opts *globalOptions) *cobra.Command {
	return respondCommand(opts, "reject", client.FriendshipRejected)
}

func respondCommand(opts *globalOptions, verb, action string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <friendship-id>",
		Short: verb + " a pending friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			friendship, err := opts.newClient().RespondToFriendRequest(cmd.Context(), args[0], action)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "friendship %s is now %s\n", friendship.ID, friendship.Status)
			return nil
		},
	}
}
