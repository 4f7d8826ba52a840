// Package aggregate derives the daily mart rows from a raw snapshot.
package aggregate

import (
	"sort"
	"time"

	"github.com/opencivic/civic311/internal/logging"
	"github.com/opencivic/civic311/pkg/models"
)

// groupKey identifies one mart row within a run.
type groupKey struct {
	requestDate time.Time
	category    string
	status      string
}

// Summarize computes the daily summary of a raw snapshot: each record is
// projected to (creation date, category, status), records without a
// category are dropped, the date is truncated to its UTC day, and the
// remainder is counted per (day, category, status) tuple.
//
// The output depends only on the snapshot contents: rows come back
// sorted by date, category and status, so repeated runs over the same
// snapshot produce an identical row set regardless of input order.
func Summarize(records []models.RawRequestRecord) []models.DailySummary {
	counts := make(map[groupKey]int64)
	skipped := 0

	for _, record := range records {
		category, ok := record.IssueType()
		if !ok {
			// Null or missing category contributes no summary row
			continue
		}

		openedAt, ok := record.OpenDateTime()
		if !ok {
			skipped++
			continue
		}

		key := groupKey{
			requestDate: truncateToDay(openedAt),
			category:    category,
			status:      record.CurrentStatus(),
		}
		counts[key]++
	}

	if skipped > 0 {
		logging.Warn("skipped records without a parseable open_date_time",
			"count", skipped)
	}

	rows := make([]models.DailySummary, 0, len(counts))
	for key, count := range counts {
		rows = append(rows, models.DailySummary{
			RequestDate:      key.requestDate,
			Category:         key.category,
			Status:           key.status,
			NumberOfRequests: count,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].RequestDate.Equal(rows[j].RequestDate) {
			return rows[i].RequestDate.Before(rows[j].RequestDate)
		}
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].Status < rows[j].Status
	})

	return rows
}

// truncateToDay rounds a timestamp down to midnight UTC of its calendar day.
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
