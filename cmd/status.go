package cmd

import (
	"context"
	"fmt"

	"github.com/opencivic/civic311/internal/config"
	"github.com/opencivic/civic311/internal/logging"
	"github.com/opencivic/civic311/internal/mongodb"
	"github.com/spf13/cobra"
)

// statusCmd reports how many documents each pipeline collection holds,
// which is the quickest way to tell whether the stages have run.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show document counts for the raw and mart collections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if err := config.ValidateMongoConfig(cfg); err != nil {
			return err
		}

		ctx := context.Background()

		store, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(ctx); err != nil {
				logging.Error("failed to close store connection", "error", err)
			}
		}()

		rawCount, err := store.Count(ctx, cfg.Mongo.RawCollection)
		if err != nil {
			return err
		}

		martCount, err := store.Count(ctx, cfg.Mongo.MartCollection)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d documents\n", cfg.Mongo.RawCollection, rawCount)
		fmt.Printf("%s: %d documents\n", cfg.Mongo.MartCollection, martCount)

		return nil
	},
}
