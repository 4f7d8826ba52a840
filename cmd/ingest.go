package cmd

import (
	"context"
	"fmt"

	"github.com/opencivic/civic311/internal/config"
	"github.com/opencivic/civic311/internal/logging"
	"github.com/opencivic/civic311/internal/mongodb"
	"github.com/opencivic/civic311/internal/pipeline"
	"github.com/opencivic/civic311/internal/socrata"
	"github.com/spf13/cobra"
)

// ingestCmd runs stage 1 of the pipeline: one bounded fetch from the
// source API, then a full refresh of the raw snapshot collection.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch the latest service requests and refresh the raw snapshot",
	Long: `Fetch up to the configured number of service-request records from the
Socrata endpoint and load them into the raw collection, replacing
whatever snapshot is there.

The document store connection string is read from the
MONGO_CONNECTION_STRING environment variable. Source domain, dataset id,
fetch limit and collection names have documented defaults and can be
overridden through the environment as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		// The connection string must be present before any network
		// or store call is attempted
		if err := config.ValidateMongoConfig(cfg); err != nil {
			return err
		}

		logging.Info("starting ingestion",
			"domain", cfg.Socrata.Domain,
			"dataset_id", cfg.Socrata.DatasetID,
			"fetch_limit", cfg.Socrata.FetchLimit)

		ctx := context.Background()

		fetcher := socrata.NewClient(cfg.Socrata)

		store, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(ctx); err != nil {
				logging.Error("failed to close store connection", "error", err)
			}
		}()

		if err := pipeline.Ingest(ctx, cfg, fetcher, store); err != nil {
			return err
		}

		logging.Info("ingestion complete")
		return nil
	},
}
