package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newFeedCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Browse and post to the food feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return newFeedListCommand(opts).RunE(cmd, args)
		},
	}

	cmd.AddCommand(newFeedListCommand(opts))
	cmd.AddCommand(newFeedPostCommand(opts))
	cmd.AddCommand(newFeedCommentsCommand(opts))
	cmd.AddCommand(newFeedCommentCommand(opts))
	return cmd
}

func newFeedListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := opts.newClient().Feed(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range posts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  @%s  %s\n", p.CreatedAt.Local().Format("Jan 02 15:04"), p.Username, p.Caption)
				fmt.Fprintf(cmd.OutOrStdout(), "    %s  (%s)\n", p.Image, p.ID)
			}
			return nil
		},
	}
}

func newFeedPostCommand(opts *globalOptions) *cobra.Command {
	var caption string

	cmd := &cobra.Command{
		Use:   "post <image-file>",
		Short: "Post a food photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer file.Close()

			post, err := opts.newClient().CreatePost(cmd.Context(), filepath.Base(args[0]), file, caption)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "posted %s\n", post.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&caption, "caption", "", "Optional caption")
	return cmd
}

func newFeedCommentsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "comments <post-id>",
		Short: "List the comments on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comments, err := opts.newClient().Comments(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, c := range comments {
				fmt.Fprintf(cmd.OutOrStdout(), "@%s: %s\n", c.Username, c.Body)
			}
			return nil
		},
	}
}

func newFeedCommentCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <post-id> <text>",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comment, err := opts.newClient().AddComment(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "comment added (%s)\n", comment.ID)
			return nil
		},
	}
}
