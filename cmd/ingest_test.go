package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Without a connection string the run must fail during configuration
// validation, before the source client or store connection exists.
func TestIngestRequiresConnectionString(t *testing.T) {
	origURI := os.Getenv("MONGO_CONNECTION_STRING")
	defer func() {
		require.NoError(t, os.Setenv("MONGO_CONNECTION_STRING", origURI))
	}()
	require.NoError(t, os.Unsetenv("MONGO_CONNECTION_STRING"))

	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetOut(&stderr)
	rootCmd.SetArgs([]string{"ingest"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_CONNECTION_STRING")
}

// The ingest stage takes no positional arguments; everything else is
// configuration.
func TestIngestRejectsPositionalArguments(t *testing.T) {
	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetOut(&stderr)
	rootCmd.SetArgs([]string{"ingest", "unexpected"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
