package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/99minutos/authgate/internal/core/service"
	"github.com/99minutos/authgate/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the bootstrap administrator and demo accounts",
	Long: `Insert the bootstrap administrator and the demo accounts into the
configured credential store. Accounts that already exist are left untouched.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	log := initLogger(cfg)

	b, err := openBackends(ctx, cfg, logger.Component("backends"))
	if err != nil {
		return err
	}
	defer func() { _ = b.Close(ctx) }()

	created, err := service.Seed(ctx, b.users, service.DefaultSeed(cfg.Auth.BootstrapAdmin), logger.Component("seed"))
	if err != nil {
		return err
	}
	log.Info().Int("created", created).Msg("seed complete")
	fmt.Fprintf(cmd.OutOrStdout(), "%d account(s) created\n", created)
	return nil
}
