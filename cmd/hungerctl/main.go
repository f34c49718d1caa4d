// hungerctl is a command line client for a HungerTracker server. It drives
// the same API surface the mobile app uses: phone verification, sessions,
// the feed, friends, and location sharing.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts globalOptions

	cmd := &cobra.Command{
		Use:           "hungerctl",
		Short:         "Command line client for a HungerTracker server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.serverURL, "server", envOr("HUNGERCTL_SERVER", "http://localhost:8080"), "Base URL of the HungerTracker server")
	cmd.PersistentFlags().StringVar(&opts.credentialsPath, "credentials", envOr("HUNGERCTL_CREDENTIALS", defaultCredentialsPath()), "Path to the stored session tokens")

	cmd.AddCommand(newAuthCommand(&opts))
	cmd.AddCommand(newProfileCommand(&opts))
	cmd.AddCommand(newFriendsCommand(&opts))
	cmd.AddCommand(newFeedCommand(&opts))
	cmd.AddCommand(newLocationCommand(&opts))
	cmd.AddCommand(newNotificationsCommand(&opts))
	return cmd
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hungerctl/credentials.yaml"
	}
	return home + "/.hungerctl/credentials.yaml"
}
