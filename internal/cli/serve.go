package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/command"
	"github.com/ElPoteRD/CuentaClaras-sub000/internal/config"
	"github.com/ElPoteRD/CuentaClaras-sub000/internal/handler"
	"github.com/ElPoteRD/CuentaClaras-sub000/internal/ledger"
	"github.com/ElPoteRD/CuentaClaras-sub000/internal/query"
	"github.com/ElPoteRD/CuentaClaras-sub000/internal/repository"
	"github.com/ElPoteRD/CuentaClaras-sub000/migrations"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/events"
	redisClient "github.com/ElPoteRD/CuentaClaras-sub000/shared/redis"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *options) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) error {
	db, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrate {
		if err := migrations.Apply(ctx, db); err != nil {
			return err
		}
	}

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Redis backs the view cache and the event stream. Without it the API
	// still serves every request from PostgreSQL.
	var rdb *goredis.Client
	var publisher command.EventPublisher = events.Nop{}
	if rc, err := redisClient.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		logger.Warn("redis unavailable, caching and events disabled", "addr", cfg.RedisAddr, "error", err)
	} else {
		defer rc.Close()
		rdb = rc.Client
		publisher = events.NewPublisher(rdb)
	}

	// --- CQRS wiring ---
	users := repository.NewUserWriteRepository(db)
	profiles := repository.NewUserReadRepository(db)
	accountWrites := repository.NewAccountWriteRepository(db)
	accountReads := repository.NewAccountReadRepository(db)
	transactionReads := repository.NewTransactionReadRepository(db, rdb, cfg.CacheTTL)
	categories := repository.NewCategoryRepository(db, rdb, cfg.CacheTTL)
	goals := repository.NewGoalRepository(db)
	opinions := repository.NewOpinionRepository(db)
	reports := repository.NewReportRepository(pool)
	book := ledger.New(repository.NewLedgerRepository(db))

	accountCmds := command.NewAccountCommandService(accountWrites, users, book, transactionReads, publisher)
	transactionCmds := command.NewTransactionCommandService(book, categories, transactionReads, publisher)
	categoryCmds := command.NewCategoryCommandService(categories)
	goalCmds := command.NewGoalCommandService(goals, accountWrites)
	opinionCmds := command.NewOpinionCommandService(opinions)
	userCmds := command.NewUserCommandService(users, publisher, cfg.BcryptCost)

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.Handlers{
		Accounts:     handler.NewAccountHandler(accountCmds, query.NewAccountQueryService(accountReads)),
		Transactions: handler.NewTransactionHandler(transactionCmds, query.NewTransactionQueryService(transactionReads)),
		Categories:   handler.NewCategoryHandler(categoryCmds, query.NewCategoryQueryService(categories)),
		Goals:        handler.NewGoalHandler(goalCmds, query.NewGoalQueryService(goals)),
		Opinions:     handler.NewOpinionHandler(opinionCmds, query.NewOpinionQueryService(opinions)),
		Auth:         handler.NewAuthHandler(query.NewAuthQueryService(users, profiles, cfg.JWTSecret, cfg.TokenTTL)),
		Users:        handler.NewUserHandler(userCmds),
		Reports:      handler.NewReportHandler(query.NewReportQueryService(reports, accountReads)),
	}, handler.RouterConfig{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
		DB:          db,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
