// Package models defines data structures shared across the application.
package models

import (
	"time"
)

// Timestamp layouts accepted for open_date_time. Socrata floating
// timestamps carry no offset; offset-less values are taken as UTC.
var openDateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

// RawRequestRecord is one service request as returned by the source API.
// Fields beyond the three the pipeline reads pass through unvalidated,
// so the record is kept as a loose document rather than a fixed struct.
type RawRequestRecord map[string]interface{}

// OpenDateTime parses the record's open_date_time field. It returns
// false when the field is absent, null, or not a recognizable timestamp.
func (r RawRequestRecord) OpenDateTime() (time.Time, bool) {
	raw, ok := r["open_date_time"].(string)
	if !ok || raw == "" {
		return time.Time{}, false
	}
	for _, layout := range openDateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// IssueType returns the record's issue_type field. It returns false only
// when the field is absent, null, or not a string; such records
// contribute to no summary row. An empty string is a legitimate category
// value and is kept.
func (r RawRequestRecord) IssueType() (string, bool) {
	v, ok := r["issue_type"].(string)
	return v, ok
}

// CurrentStatus returns the record's current_status field, or the empty
// string when it is absent.
func (r RawRequestRecord) CurrentStatus() string {
	v, _ := r["current_status"].(string)
	return v
}

// DailySummary is one row of the daily mart: the number of service
// requests opened on a given day for one category and status. Within a
// single transform run the (RequestDate, Category, Status) tuple is
// unique.
type DailySummary struct {
	// RequestDate is the request's opening timestamp truncated to
	// midnight UTC of its calendar day.
	RequestDate time.Time `bson:"request_date" json:"request_date"`

	// Category is the source issue_type.
	Category string `bson:"category" json:"category"`

	// Status is the source current_status.
	Status string `bson:"status" json:"status"`

	// NumberOfRequests is the count of raw records mapping to this
	// tuple; always at least 1.
	NumberOfRequests int64 `bson:"number_of_requests" json:"number_of_requests"`
}
