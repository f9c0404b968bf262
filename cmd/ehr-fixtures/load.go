package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ehr/fixtures/internal/platform/db"
	"github.com/ehr/fixtures/internal/platform/export"
	"github.com/ehr/fixtures/internal/platform/mongostore"
)

func loadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load generated documents into a database",
	}
	cmd.AddCommand(loadMongoCmd())
	cmd.AddCommand(loadPostgresCmd())
	return cmd
}

func loadMongoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mongo",
		Short: "Insert the documents into the users, medical_staff and patient collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.OutOrStdout(), cfg)
			drop, _ := cmd.Flags().GetBool("drop")

			ds, err := export.ReadDataset(cfg.OutputDir, cfg.OutputFormat)
			if err != nil {
				return err
			}
			if err := ds.Validate(); err != nil {
				return err
			}

			ctx := context.Background()
			client, err := mongostore.Connect(ctx, cfg.MongoURI)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())
			logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to mongo")

			loader := mongostore.NewLoader(mongostore.NewDatabase(client.Database(cfg.MongoDatabase)), logger)
			_, err = loader.Load(ctx, ds, mongostore.LoadOptions{Drop: drop})
			return err
		},
	}
	addDocumentFlags(cmd)
	cmd.Flags().String("uri", "mongodb://localhost:27017", "MongoDB connection URI")
	cmd.Flags().String("database", "ehr", "MongoDB database name")
	cmd.Flags().Bool("drop", false, "Drop the collections before inserting")
	return cmd
}

func loadPostgresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postgres",
		Short: "Copy the documents into the users, medical_staff and patients tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.OutOrStdout(), cfg)
			truncate, _ := cmd.Flags().GetBool("truncate")

			ds, err := export.ReadDataset(cfg.OutputDir, cfg.OutputFormat)
			if err != nil {
				return err
			}
			if err := ds.Validate(); err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()
			logger.Info().Msg("connected to database")

			if _, err := db.NewLoader(pool, logger).Load(ctx, ds, db.LoadOptions{Truncate: truncate}); err != nil {
				return err
			}
			logger.Debug().Interface("pool", db.GetPoolStats(pool)).Msg("pool stats")
			return nil
		},
	}
	addDocumentFlags(cmd)
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL (default $DATABASE_URL)")
	cmd.Flags().Bool("truncate", false, "Empty the tables before copying")
	return cmd
}
