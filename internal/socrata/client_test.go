package socrata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at a local test server instead of a
// real Socrata domain.
func newTestClient(server *httptest.Server, appToken string) *Client {
	return &Client{
		httpClient: server.Client(),
		baseURL:    server.URL + "/resource/test-data.json",
		appToken:   appToken,
	}
}

func TestFetch(t *testing.T) {
	var gotLimit string
	var gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("$limit")
		gotToken = r.Header.Get("X-App-Token")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"open_date_time": "2024-01-01T08:00:00", "issue_type": "Pothole", "current_status": "Open", "street": "Main St"},
			{"open_date_time": "2024-01-02T09:00:00", "issue_type": null, "current_status": "Closed"}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server, "token-123")

	records, err := client.Fetch(context.Background(), 500)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Query bound and auth header reach the server
	assert.Equal(t, "500", gotLimit)
	assert.Equal(t, "token-123", gotToken)

	// Known fields are reachable through the typed accessors
	category, ok := records[0].IssueType()
	assert.True(t, ok)
	assert.Equal(t, "Pothole", category)
	assert.Equal(t, "Open", records[0].CurrentStatus())

	// Additional source fields pass through untouched
	assert.Equal(t, "Main St", records[0]["street"])

	// Null issue_type reports as absent
	_, ok = records[1].IssueType()
	assert.False(t, ok)
}

func TestFetchEmptyDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server, "")

	records, err := client.Fetch(context.Background(), 100)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "Server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "internal error", http.StatusInternalServerError)
			},
		},
		{
			name: "Malformed response body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"not": "an array"`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := newTestClient(server, "")

			records, err := client.Fetch(context.Background(), 100)
			assert.Nil(t, records)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFetch)
		})
	}
}

func TestFetchTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newTestClient(server, "")

	_, err := client.Fetch(context.Background(), 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetch)
}
