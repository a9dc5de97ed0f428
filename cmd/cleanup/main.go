package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/database"
	"github.com/sevalink/marketplace_server/internal/pkg/logger"
	"github.com/sevalink/marketplace_server/internal/repository"
	"github.com/sevalink/marketplace_server/internal/service"
)

// Maintainer runs the sweeps behind each command.
type Maintainer interface {
	PurgeConnections(ctx context.Context, retention time.Duration, dryRun bool) (*service.MaintenanceResult, error)
	ExpireOrders(ctx context.Context, after time.Duration, dryRun bool) (*service.MaintenanceResult, error)
}

type options struct {
	configPath string
	dryRun     bool
	retention  time.Duration
	after      time.Duration
}

type connectFunc func(opts *options) (Maintainer, *config.Config, error)

func main() {
	if err := newRootCmd(connect).Execute(); err != nil {
		os.Exit(1)
	}
}

func connect(opts *options) (Maintainer, *config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Setup(cfg.Log)

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return service.NewMaintenanceService(
		repository.NewEntitlementRepository(db),
		repository.NewPaymentOrderRepository(db),
	), cfg, nil
}

func newRootCmd(connectFn connectFunc) *cobra.Command {
	opts := &options{}

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}

	root := &cobra.Command{
		Use:          "cleanup",
		Short:        "Marketplace maintenance sweeps",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfig, "path to config.yaml")
	root.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", true, "only report what would change")

	purge := &cobra.Command{
		Use:   "purge-connections",
		Short: "Delete lapsed connections whose review was already requested",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.retention <= 0 {
				return fmt.Errorf("--retention must be positive")
			}
			m, _, err := connectFn(opts)
			if err != nil {
				return err
			}
			result, err := m.PurgeConnections(cmd.Context(), opts.retention, opts.dryRun)
			if err != nil {
				return err
			}
			report(cmd.OutOrStdout(), "connections", result)
			return nil
		},
	}
	purge.Flags().DurationVar(&opts.retention, "retention", 30*24*time.Hour, "keep lapsed connections for this long after expiry")

	expire := &cobra.Command{
		Use:   "expire-orders",
		Short: "Mark checkouts left open past the window as abandoned",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, cfg, err := connectFn(opts)
			if err != nil {
				return err
			}
			after := opts.after
			if after <= 0 && cfg != nil {
				after = time.Duration(cfg.Payment.AbandonAfterMins) * time.Minute
			}
			if after <= 0 {
				return fmt.Errorf("--after must be positive")
			}
			result, err := m.ExpireOrders(cmd.Context(), after, opts.dryRun)
			if err != nil {
				return err
			}
			report(cmd.OutOrStdout(), "orders", result)
			return nil
		},
	}
	expire.Flags().DurationVar(&opts.after, "after", 0, "abandon window (defaults to payment.abandon_after_minutes)")

	root.AddCommand(purge, expire)
	return root
}

func report(w io.Writer, what string, result *service.MaintenanceResult) {
	if result.DryRun {
		fmt.Fprintf(w, "dry run: %d %s would be affected (run with --dry-run=false to apply)\n", result.Matched, what)
		return
	}
	fmt.Fprintf(w, "%d of %d %s affected\n", result.Affected, result.Matched, what)
	log.Info().Str("target", what).Int64("matched", result.Matched).Int64("affected", result.Affected).Msg("cleanup finished")
}
