package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/fixtures/internal/config"
	"github.com/ehr/fixtures/internal/platform/auth"
	"github.com/ehr/fixtures/internal/platform/middleware"
	"github.com/ehr/fixtures/internal/platform/sandbox"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a generated dataset over HTTP for previewing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServer(cfg, newLogger(cmd.OutOrStdout(), cfg))
		},
	}
	addGenerationFlags(cmd)
	cmd.Flags().String("port", "8000", "HTTP port")
	cmd.Flags().String("schedule", "", "Cron schedule for regenerating the dataset, e.g. @hourly")
	return cmd
}

// newServer builds the echo instance and seeds the first dataset.
func newServer(cfg *config.Config, logger zerolog.Logger) (*echo.Echo, *sandbox.SeedHandler, error) {
	sc, err := seedConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	var mutate []echo.MiddlewareFunc
	if cfg.SandboxSigningKey != "" {
		mutate = append(mutate, auth.JWTMiddleware(jwtConfig(cfg)))
	} else {
		logger.Warn().Msg("SANDBOX_SIGNING_KEY is not set; seed and reset are open to any caller")
	}

	h := sandbox.NewSeedHandler(sc, logger)
	h.RegisterRoutes(e.Group("/api/v1/sandbox"), mutate...)

	if _, err := h.Seed(context.Background(), sc); err != nil {
		return nil, nil, err
	}
	return e, h, nil
}

func jwtConfig(cfg *config.Config) auth.JWTConfig {
	return auth.JWTConfig{
		Issuer:     cfg.SandboxIssuer,
		SigningKey: []byte(cfg.SandboxSigningKey),
	}
}

func runServer(cfg *config.Config, logger zerolog.Logger) error {
	e, h, err := newServer(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.RegenerateSchedule != "" {
		refresher, err := sandbox.NewRefresher(h, cfg.RegenerateSchedule, logger)
		if err != nil {
			return err
		}
		refresher.Start()
		defer func() { <-refresher.Stop().Done() }()
		logger.Info().Str("schedule", cfg.RegenerateSchedule).Msg("scheduled regeneration enabled")
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
