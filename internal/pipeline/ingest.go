// Package pipeline wires the two batch stages together. The stages
// share no runtime state: ingest writes the raw snapshot, transform
// reads it back and writes the mart, and the only coupling between them
// is the persisted collection content.
package pipeline

import (
	"context"
	"fmt"

	"github.com/opencivic/civic311/internal/config"
	"github.com/opencivic/civic311/internal/logging"
	"github.com/opencivic/civic311/internal/mongodb"
	"github.com/opencivic/civic311/pkg/models"
)

// Fetcher retrieves up to limit records from the remote source in a
// single call.
type Fetcher interface {
	Fetch(ctx context.Context, limit int) ([]models.RawRequestRecord, error)
}

// Replacer is the write side of a replaceable collection: every write
// wholly supersedes the previous contents.
type Replacer interface {
	ReplaceAll(ctx context.Context, collection string, docs []interface{}) (mongodb.ReplaceResult, error)
}

// Ingest runs stage 1: one bounded fetch from the source, then a full
// refresh of the raw collection. An empty fetch result is nothing to do,
// not an error; the raw snapshot is left untouched.
func Ingest(ctx context.Context, cfg *config.Config, fetcher Fetcher, store Replacer) error {
	records, err := fetcher.Fetch(ctx, cfg.Socrata.FetchLimit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		logging.Info("no data fetched from source, nothing to do")
		return nil
	}

	docs := make([]interface{}, len(records))
	for i, record := range records {
		docs[i] = record
	}

	result, err := store.ReplaceAll(ctx, cfg.Mongo.RawCollection, docs)
	if err != nil {
		return fmt.Errorf("failed to refresh raw collection: %w", err)
	}

	logging.Info("raw snapshot refreshed",
		"collection", cfg.Mongo.RawCollection,
		"deleted", result.Deleted,
		"inserted", result.Inserted)

	return nil
}
