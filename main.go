package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"citas-medicas-server/internal/cardvault"
	"citas-medicas-server/internal/config"
	"citas-medicas-server/internal/logging"
	"citas-medicas-server/internal/routes"
	"citas-medicas-server/internal/store"
	"citas-medicas-server/internal/store/memstore"
	"citas-medicas-server/internal/store/sqlstore"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "citas-medicas-server",
		Short:         "Medical appointment API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(pingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var inMemory bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(inMemory)
		},
	}
	cmd.Flags().BoolVar(&inMemory, "memory", false, "use the in-process store instead of MySQL")
	return cmd
}

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured database is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			s, err := sqlstore.Open(cfg.Database, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			if err := s.Ping(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			logger.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.Name).Msg("database reachable")
			return nil
		},
	}
}

// bootstrap loads .env and the configuration and builds the process logger.
func bootstrap() (*config.Config, zerolog.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn().Err(envErr).Msg("could not read .env file")
	}
	return cfg, logger, nil
}

func runServer(inMemory bool) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	var s store.Store
	if inMemory {
		logger.Warn().Msg("using in-memory store; data is lost on exit")
		s = memstore.New()
	} else {
		db, err := sqlstore.Open(cfg.Database, logger)
		if err != nil {
			return err
		}
		s = db
	}
	defer s.Close()

	key, err := cfg.PaymentKey()
	if err != nil {
		return err
	}
	vault, err := cardvault.New(key)
	if err != nil {
		return err
	}
	if !vault.Enabled() {
		logger.Warn().Msg("PAYMENT_ENCRYPTION_KEY not set: card numbers and security codes are stored in plaintext")
	}

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.NewRouter(cfg, routes.Deps{Store: s, Vault: vault, Logger: logger})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.Environment).
			Str("appointment_policy", string(cfg.Policy())).
			Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
