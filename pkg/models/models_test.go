package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOpenDateTime(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		want   time.Time
		wantOK bool
	}{
		{
			name:   "Socrata floating timestamp",
			value:  "2024-01-01T08:00:00",
			want:   time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "Floating timestamp with milliseconds",
			value:  "2024-01-01T08:00:00.000",
			want:   time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "RFC3339 with offset normalizes to UTC",
			value:  "2024-01-01T08:00:00-06:00",
			want:   time.Date(2024, time.January, 1, 14, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "Unparseable value",
			value:  "01/01/2024",
			wantOK: false,
		},
		{
			name:   "Null value",
			value:  nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := RawRequestRecord{"open_date_time": tt.value}
			got, ok := record.OpenDateTime()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got))
			}
		})
	}
}

func TestIssueType(t *testing.T) {
	category, ok := RawRequestRecord{"issue_type": "Pothole"}.IssueType()
	assert.True(t, ok)
	assert.Equal(t, "Pothole", category)

	// An empty string is a present, legitimate category
	category, ok = RawRequestRecord{"issue_type": ""}.IssueType()
	assert.True(t, ok)
	assert.Equal(t, "", category)

	_, ok = RawRequestRecord{"issue_type": nil}.IssueType()
	assert.False(t, ok)

	_, ok = RawRequestRecord{}.IssueType()
	assert.False(t, ok)
}
