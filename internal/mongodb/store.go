// Package mongodb provides the document store backing both pipeline
// stages: the raw snapshot collection and the daily mart collection.
// Both collections share one contract: each write wholly replaces the
// previous contents.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/opencivic/civic311/internal/logging"
	"github.com/opencivic/civic311/pkg/models"
)

// ErrUnreachable marks a store that failed its liveness check. It is
// fatal to the run.
var ErrUnreachable = errors.New("document store unreachable")

// Store wraps a connected MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// ReplaceResult reports what a full-refresh write did, for observability.
type ReplaceResult struct {
	Deleted  int64
	Inserted int64
}

// Connect establishes a connection to the document store and verifies it
// with a ping before any data operation. The caller owns the returned
// Store and must Close it on every exit path.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	logging.Info("connecting to document store",
		"uri", logging.MaskSensitive(uri),
		"database", database)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	// Cheap liveness check, the equivalent of pinging the primary
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		// Best effort: release whatever the driver opened
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	logging.Info("document store connection successful")

	return &Store{
		client: client,
		db:     client.Database(database),
	}, nil
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	logging.Debug("closing document store connection")
	return s.client.Disconnect(ctx)
}

// ReplaceAll deletes every document in the collection, then inserts the
// given documents. The two operations are sequential and not atomic: a
// crash between them leaves the collection empty until the next run.
// That window is an accepted property of the full-refresh design, and
// the next scheduled run repairs it.
func (s *Store) ReplaceAll(ctx context.Context, collection string, docs []interface{}) (ReplaceResult, error) {
	coll := s.db.Collection(collection)

	deleteResult, err := coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return ReplaceResult{}, fmt.Errorf("failed to delete existing documents from %q: %w", collection, err)
	}

	result := ReplaceResult{Deleted: deleteResult.DeletedCount}

	if len(docs) == 0 {
		return result, nil
	}

	insertResult, err := coll.InsertMany(ctx, docs)
	if err != nil {
		return result, fmt.Errorf("failed to insert documents into %q: %w", collection, err)
	}
	result.Inserted = int64(len(insertResult.InsertedIDs))

	return result, nil
}

// LoadRaw reads the entire raw snapshot. The transform stage operates on
// the whole collection; there is no incremental or windowed read.
func (s *Store) LoadRaw(ctx context.Context, collection string) ([]models.RawRequestRecord, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %q: %w", collection, err)
	}

	var records []models.RawRequestRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode documents from %q: %w", collection, err)
	}

	return records, nil
}

// Count returns the number of documents in a collection.
func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	count, err := s.db.Collection(collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count documents in %q: %w", collection, err)
	}
	return count, nil
}

// SummarizeDaily pushes the daily grouping down to the store's
// aggregation pipeline instead of computing it in-process. It honors the
// same contract as the local engine: project the three fields, drop
// null categories, truncate the timestamp to its day, and count per
// (day, category, status) tuple.
func (s *Store) SummarizeDaily(ctx context.Context, collection string) ([]models.DailySummary, error) {
	pipeline := dailySummaryPipeline()

	cursor, err := s.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregation over %q failed: %w", collection, err)
	}

	var rows []models.DailySummary
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode aggregation results: %w", err)
	}

	return rows, nil
}

// dailySummaryPipeline builds the server-side counterpart of the local
// aggregation engine, honoring the same skip rules: a record counts only
// when issue_type is a string (null and missing excluded, empty string
// kept) and open_date_time is a string that parses as a timestamp.
// Grouping and counting are commutative and associative, so the server
// is free to partition the scan however it likes without changing the
// result set.
func dailySummaryPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		// Keep only records whose category and timestamp are strings;
		// null and missing values match neither
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "issue_type", Value: bson.D{{Key: "$type", Value: "string"}}},
			{Key: "open_date_time", Value: bson.D{{Key: "$type", Value: "string"}}},
		}}},
		// Day-truncate the timestamp. Unparseable values become null
		// instead of aborting the run, the same records the local
		// engine skips
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "request_date", Value: bson.D{
				{Key: "$dateTrunc", Value: bson.D{
					{Key: "date", Value: bson.D{
						{Key: "$convert", Value: bson.D{
							{Key: "input", Value: "$open_date_time"},
							{Key: "to", Value: "date"},
							{Key: "onError", Value: nil},
							{Key: "onNull", Value: nil},
						}},
					}},
					{Key: "unit", Value: "day"},
				}},
			}},
		}}},
		// Drop records whose timestamp did not parse
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "request_date", Value: bson.D{{Key: "$ne", Value: nil}}},
		}}},
		// Group on (day-truncated timestamp, category, status)
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "request_date", Value: "$request_date"},
				{Key: "category", Value: "$issue_type"},
				{Key: "status", Value: "$current_status"},
			}},
			{Key: "number_of_requests", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		// Flatten the group key into mart row shape
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "request_date", Value: "$_id.request_date"},
			{Key: "category", Value: "$_id.category"},
			{Key: "status", Value: "$_id.status"},
			{Key: "number_of_requests", Value: 1},
		}}},
		// Stable output order so repeated runs compare identically
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "request_date", Value: 1},
			{Key: "category", Value: 1},
			{Key: "status", Value: 1},
		}}},
	}
}
