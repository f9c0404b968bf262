package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/fixtures/internal/config"
	"github.com/ehr/fixtures/internal/platform/auth"
	"github.com/ehr/fixtures/internal/platform/sandbox"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ehr-fixtures",
		Short:        "Synthetic users, medical staff and patients for hospital app development",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("env-file", "", "Env file to load before reading the environment (default .env if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(loadCmd())
	rootCmd.AddCommand(tokenCmd())
	return rootCmd
}

// loadConfig resolves configuration for cmd, letting its explicitly set flags
// override the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		w = zerolog.ConsoleWriter{Out: w}
	}
	logger := zerolog.New(w).With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

// seedConfig turns the generation settings of cfg into a SeedConfig.
func seedConfig(cfg *config.Config) (sandbox.SeedConfig, error) {
	ref, err := cfg.Reference()
	if err != nil {
		return sandbox.SeedConfig{}, err
	}
	sc := sandbox.SeedConfig{
		Doctors:       cfg.Doctors,
		Patients:      cfg.Patients,
		Seed:          cfg.Seed,
		ReferenceDate: ref,
	}
	if cfg.PasswordHasher == config.HasherBcrypt {
		h, err := auth.NewBcryptHasher(cfg.BcryptCost)
		if err != nil {
			return sandbox.SeedConfig{}, err
		}
		sc.Hasher = h
	}
	return sc, nil
}

func addGenerationFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("doctors", 10, "Number of medical staff (each gets one user)")
	f.Int("patients", 100, "Number of patients (each gets one user)")
	f.Int64("seed", 0, "Random seed; 0 picks one from the clock. Output repeats exactly only with --hasher=plain, since bcrypt salts are random")
	f.String("reference-date", "", "Date (YYYY-MM-DD) ages and appointment dates are computed from; default today")
	f.String("hasher", config.HasherBcrypt, "Password hasher: bcrypt or plain")
	f.Int("bcrypt-cost", 4, "bcrypt cost when --hasher=bcrypt")
}
