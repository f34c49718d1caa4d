package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newProfileCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit the logged-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newProfileShowCommand(opts))
	cmd.AddCommand(newProfileEditCommand(opts))
	cmd.AddCommand(newProfileImageCommand(opts))
	cmd.AddCommand(newProfileHungryCommand(opts))
	return cmd
}

func newProfileShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := opts.newClient().Me(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", profile.Username, profile.Name)
			if profile.Bio != "" {
				fmt.Fprintf(out, "bio: %s\n", profile.Bio)
			}
			fmt.Fprintf(out, "friends: %d  posts: %d  hungry: %v\n", profile.FriendCount, profile.PostCount, profile.IsHungry)
			if profile.LastAte != nil {
				fmt.Fprintf(out, "last ate: %s\n", profile.LastAte.Local())
			}
			return nil
		},
	}
}

func newProfileEditCommand(opts *globalOptions) *cobra.Command {
	var name, username, bio string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Update name, username, or bio",
		RunE: func(cmd *cobra.Command, args []string) error {
			var update struct {
				name, username, bio *string
			}
			if cmd.Flags().Changed("name") {
				update.name = &name
			}
			if cmd.Flags().Changed("username") {
				update.username = &username
			}
			if cmd.Flags().Changed("bio") {
				update.bio = &bio
			}
			if update.name == nil && update.username == nil && update.bio == nil {
				return cmd.Help()
			}

			profile, err := opts.newClient().UpdateProfile(cmd.Context(), profileUpdate(update.name, update.username, update.bio))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile updated: %s\n", profile.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&username, "username", "", "Public username")
	cmd.Flags().StringVar(&bio, "bio", "", "Profile bio")
	return cmd
}

func newProfileImageCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "image <file>",
		Short: "Upload a profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer file.Close()

			url, err := opts.newClient().UploadProfileImage(cmd.Context(), filepath.Base(args[0]), file)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}

func newProfileHungryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hungry",
		Short: "Toggle the hungry flag",
		RunE: func(cmd *cobra.Command, args []string) error {
			hungry, err := opts.newClient().ToggleHungry(cmd.Context())
			if err != nil {
				return err
			}
			if hungry {
				fmt.Fprintln(cmd.OutOrStdout(), "you are now hungry; your friends have been notified")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "you are no longer hungry")
			}
			return nil
		},
	}
}
