package main

import (
	"github.com/spf13/cobra"

	"github.com/ehr/fixtures/internal/config"
	"github.com/ehr/fixtures/internal/platform/export"
	"github.com/ehr/fixtures/internal/platform/sandbox"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate users, medicalStaff and patients documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.OutOrStdout(), cfg)

			sc, err := seedConfig(cfg)
			if err != nil {
				return err
			}
			if cfg.Seed != 0 && cfg.PasswordHasher == config.HasherBcrypt {
				logger.Warn().Int64("seed", cfg.Seed).Msg("bcrypt salts are random; password_hash differs between runs with the same seed, use --hasher=plain for identical output")
			}
			seeder := sandbox.NewSeeder(sc)
			result, err := seeder.Generate(cmd.Context())
			if err != nil {
				return err
			}

			paths, err := export.WriteDataset(cfg.OutputDir, cfg.OutputFormat, seeder.Dataset())
			if err != nil {
				return err
			}

			logger.Info().
				Int("users", result.Users).
				Int("medical_staff", result.MedicalStaff).
				Int("patients", result.Patients).
				Int("medical_records", result.MedicalRecords).
				Int("appointments", result.Appointments).
				Int64("seed", result.Seed).
				Str("reference_date", result.ReferenceDate).
				Strs("documents", paths).
				Dur("duration", result.Duration).
				Msg("fixtures generated")
			return nil
		},
	}
	addGenerationFlags(cmd)
	cmd.Flags().String("out", ".", "Directory the documents are written to")
	cmd.Flags().String("format", export.FormatJSON, "Document format: json or yaml")
	return cmd
}
