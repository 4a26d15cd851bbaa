package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "authgate",
	Short: "Session-based login service with user and admin roles",
	Long: `authgate serves a small web application with signup, login, a profile
page and an admin panel that promotes or demotes users.

Configuration is read from the environment (and an optional .env file).`,
	SilenceUsage: true,
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// shutdown signals.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
