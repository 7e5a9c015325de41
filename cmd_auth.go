package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/spacereport/pkg/auth"
)

var authReset bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with the chat platform",
	Long: `Runs the OAuth flow and caches the token under the config directory.
Use --reset to discard a cached token and authenticate from scratch.`,
	RunE: runAuth,
}

func init() {
	authCmd.Flags().BoolVar(&authReset, "reset", false, "discard the cached token first")
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	if authReset {
		if err := auth.ResetToken(); err != nil {
			return fmt.Errorf("resetting token: %w", err)
		}
	}
	if _, err := auth.GetChatService(cmd.Context()); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	fmt.Println("Authentication successful.")
	return nil
}
