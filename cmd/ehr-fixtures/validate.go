package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ehr/fixtures/internal/domain/fixtures"
	"github.com/ehr/fixtures/internal/platform/export"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check previously generated documents for consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.OutOrStdout(), cfg)

			ds, err := export.ReadDataset(cfg.OutputDir, cfg.OutputFormat)
			if err != nil {
				return err
			}

			err = ds.Validate()
			var verr *fixtures.ValidationError
			if errors.As(err, &verr) {
				for _, v := range verr.Violations {
					logger.Error().Str("violation", v).Msg("invalid fixture")
				}
				return fmt.Errorf("%s: %d violation(s)", cfg.OutputDir, len(verr.Violations))
			}
			if err != nil {
				return err
			}

			logger.Info().
				Str("dir", cfg.OutputDir).
				Int("users", len(ds.Users)).
				Int("medical_staff", len(ds.MedicalStaff)).
				Int("patients", len(ds.Patients)).
				Msg("fixtures valid")
			return nil
		},
	}
	addDocumentFlags(cmd)
	return cmd
}

// addDocumentFlags registers the flags that locate an existing document set.
func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().String("dir", ".", "Directory holding the documents")
	cmd.Flags().String("format", export.FormatJSON, "Document format: json or yaml")
}
