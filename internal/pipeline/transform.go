package pipeline

import (
	"context"
	"fmt"

	"github.com/opencivic/civic311/internal/aggregate"
	"github.com/opencivic/civic311/internal/config"
	"github.com/opencivic/civic311/internal/logging"
	"github.com/opencivic/civic311/pkg/models"
)

// Engine selects where the grouped count runs. Both engines honor the
// same projection/filter/group contract, so they are interchangeable.
const (
	// EngineLocal loads the full snapshot and aggregates in-process.
	EngineLocal = "local"
	// EngineServer delegates the grouping to the document store's
	// aggregation pipeline.
	EngineServer = "server"
)

// SnapshotStore is everything the transform stage needs from the
// document store: the full raw scan, the delegated aggregation, and the
// replaceable mart write.
type SnapshotStore interface {
	Replacer
	LoadRaw(ctx context.Context, collection string) ([]models.RawRequestRecord, error)
	SummarizeDaily(ctx context.Context, collection string) ([]models.DailySummary, error)
}

// Transform runs stage 2: aggregate the raw snapshot as it exists right
// now and fully refresh the mart collection with the result. An empty or
// stale raw snapshot produces an empty or stale mart; avoiding that is
// scheduling, not logic.
func Transform(ctx context.Context, cfg *config.Config, store SnapshotStore, engine string) error {
	var rows []models.DailySummary

	switch engine {
	case EngineLocal:
		records, err := store.LoadRaw(ctx, cfg.Mongo.RawCollection)
		if err != nil {
			return fmt.Errorf("failed to load raw snapshot: %w", err)
		}
		logging.Info("loaded raw snapshot",
			"collection", cfg.Mongo.RawCollection,
			"records", len(records))
		rows = aggregate.Summarize(records)
	case EngineServer:
		var err error
		rows, err = store.SummarizeDaily(ctx, cfg.Mongo.RawCollection)
		if err != nil {
			return fmt.Errorf("delegated aggregation failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown aggregation engine %q (want %q or %q)", engine, EngineLocal, EngineServer)
	}

	docs := make([]interface{}, len(rows))
	for i, row := range rows {
		docs[i] = row
	}

	result, err := store.ReplaceAll(ctx, cfg.Mongo.MartCollection, docs)
	if err != nil {
		return fmt.Errorf("failed to refresh mart collection: %w", err)
	}

	logging.Info("mart refreshed",
		"collection", cfg.Mongo.MartCollection,
		"engine", engine,
		"deleted", result.Deleted,
		"inserted", result.Inserted)

	return nil
}
