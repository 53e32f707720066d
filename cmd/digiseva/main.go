// Command digiseva runs the citizen portal, the cleanup worker, and schema
// migration from a single binary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/digitalseva/portal/internal/blob"
	"github.com/digitalseva/portal/internal/config"
	"github.com/digitalseva/portal/internal/database"
	"github.com/digitalseva/portal/internal/identity"
	"github.com/digitalseva/portal/internal/portal"
	"github.com/digitalseva/portal/internal/queue"
	"github.com/digitalseva/portal/internal/repository"
	"github.com/digitalseva/portal/internal/web"
	"github.com/digitalseva/portal/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "digiseva: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "digiseva",
		Short:        "Digital Seva citizen service portal",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newServeCmd(),
		newWorkerCmd(),
		newMigrateCmd(),
	)
	return cmd
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			pool, err := database.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()
			if err := database.EnsureSchema(ctx, pool); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}

			store, err := blob.New(cfg)
			if err != nil {
				return fmt.Errorf("init blob store: %w", err)
			}
			if err := store.EnsureBucket(ctx); err != nil {
				return fmt.Errorf("ensure bucket: %w", err)
			}

			provider, err := identity.NewClient(identity.Config{
				BaseURL: cfg.AuthURL,
				APIKey:  cfg.AuthAPIKey,
			})
			if err != nil {
				return fmt.Errorf("init identity client: %w", err)
			}

			asynqClient := asynq.NewClient(asynq.RedisClientOpt{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			defer asynqClient.Close()
			cleaner := queue.NewClient(asynqClient)

			users := repository.NewUsers(pool)
			services := repository.NewServices(pool)
			apps := repository.NewApplications(pool)

			server, err := web.New(cfg,
				portal.NewAuth(provider, users, cfg.AdminEmails, log),
				portal.NewCatalog(services),
				portal.NewSubmissions(services, apps, store, cleaner, log),
				portal.NewAdmin(apps, users),
				portal.NewTracker(apps),
				identity.NewVerifier(cfg.AuthJWTSecret),
				log,
			)
			if err != nil {
				return fmt.Errorf("init server: %w", err)
			}
			return server.Run(ctx)
		},
	}
}

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the blob cleanup worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := blob.New(cfg)
			if err != nil {
				return fmt.Errorf("init blob store: %w", err)
			}

			server := asynq.NewServer(asynq.RedisClientOpt{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			}, asynq.Config{
				Concurrency: cfg.WorkerCount,
			})
			processor := worker.NewProcessor(store, log)

			go func() {
				<-ctx.Done()
				server.Shutdown()
			}()

			log.Info().Int("concurrency", cfg.WorkerCount).Msg("worker starting")
			if err := server.Run(processor.Handler()); err != nil {
				return fmt.Errorf("worker stopped: %w", err)
			}
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create database tables and the documents bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			pool, err := database.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()
			if err := database.EnsureSchema(ctx, pool); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}

			store, err := blob.New(cfg)
			if err != nil {
				return fmt.Errorf("init blob store: %w", err)
			}
			if err := store.EnsureBucket(ctx); err != nil {
				return fmt.Errorf("ensure bucket: %w", err)
			}

			log.Info().Msg("schema and bucket ready")
			return nil
		},
	}
}
