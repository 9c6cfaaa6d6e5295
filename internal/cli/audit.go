package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/events"
	redisClient "github.com/ElPoteRD/CuentaClaras-sub000/shared/redis"
	"github.com/spf13/cobra"
)

func newAuditCommand(opts *options) *cobra.Command {
	var group, consumer string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Follow the ledger event stream and log every event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rc, err := redisClient.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
			if err != nil {
				return err
			}
			defer rc.Close()

			sub := events.NewSubscriber(rc.Client, events.SubscriberConfig{
				Group:    group,
				Consumer: consumer,
				Handler:  auditHandler(logger),
				Logger:   logger,
			})
			if err := sub.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	host, _ := os.Hostname()
	cmd.Flags().StringVar(&group, "group", "cuentaclaras-audit", "consumer group name")
	cmd.Flags().StringVar(&consumer, "consumer", "audit-"+host, "consumer name within the group")
	return cmd
}

// auditHandler logs each event with its decoded payload. Balance updates are
// logged at info with the new balance so drift can be traced per account.
func auditHandler(logger *slog.Logger) events.Handler {
	return func(ctx context.Context, event events.Event) error {
		attrs := []any{"type", event.Type, "at", event.Timestamp}
		if event.Type == events.BalanceUpdated {
			var b events.BalanceUpdatedEvent
			if err := event.Decode(&b); err != nil {
				return err
			}
			attrs = append(attrs,
				"accountId", b.AccountID,
				"balance", b.NewBalance.StringFixed(2),
				"change", b.Change.StringFixed(2),
			)
		} else {
			attrs = append(attrs, "data", event.Data)
		}
		logger.InfoContext(ctx, "ledger event", attrs...)
		return nil
	}
}
