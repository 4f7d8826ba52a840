// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application.
type Config struct {
	Socrata SocrataConfig
	Mongo   MongoConfig
}

// SocrataConfig holds source API specific configuration.
type SocrataConfig struct {
	Domain     string
	DatasetID  string
	AppToken   string
	FetchLimit int
}

// MongoConfig holds document store specific configuration.
type MongoConfig struct {
	URI            string
	Database       string
	RawCollection  string
	MartCollection string
}

// Defaults for every parameter except the connection string, which has
// no safe default and must come from the environment.
const (
	DefaultSocrataDomain  = "data.kcmo.org"
	DefaultDatasetID      = "d4px-6rwg"
	DefaultFetchLimit     = 10000
	DefaultDatabase       = "kc_311_db"
	DefaultRawCollection  = "raw_requests"
	DefaultMartCollection = "mart_daily_summary"
)

// LoadConfig initializes and loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func LoadConfig() (*Config, error) {
	// Load .env if present; a missing file is not an error
	_ = godotenv.Load()

	// Initialize Viper for environment variables
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Map specific environment variables
	v.BindEnv("socrata.domain", "SOCRATA_DOMAIN")
	v.BindEnv("socrata.dataset_id", "SOCRATA_DATASET_ID")
	v.BindEnv("socrata.app_token", "SOCRATA_APP_TOKEN")
	v.BindEnv("socrata.fetch_limit", "SOCRATA_FETCH_LIMIT")
	v.BindEnv("mongo.uri", "MONGO_CONNECTION_STRING")
	v.BindEnv("mongo.database", "MONGO_DATABASE")
	v.BindEnv("mongo.raw_collection", "MONGO_RAW_COLLECTION")
	v.BindEnv("mongo.mart_collection", "MONGO_MART_COLLECTION")

	// Documented defaults; each one can be overridden per environment
	v.SetDefault("socrata.domain", DefaultSocrataDomain)
	v.SetDefault("socrata.dataset_id", DefaultDatasetID)
	v.SetDefault("socrata.fetch_limit", DefaultFetchLimit)
	v.SetDefault("mongo.database", DefaultDatabase)
	v.SetDefault("mongo.raw_collection", DefaultRawCollection)
	v.SetDefault("mongo.mart_collection", DefaultMartCollection)

	// Create config structure
	config := &Config{
		Socrata: SocrataConfig{
			Domain:     v.GetString("socrata.domain"),
			DatasetID:  v.GetString("socrata.dataset_id"),
			AppToken:   v.GetString("socrata.app_token"),
			FetchLimit: v.GetInt("socrata.fetch_limit"),
		},
		Mongo: MongoConfig{
			URI:            v.GetString("mongo.uri"),
			Database:       v.GetString("mongo.database"),
			RawCollection:  v.GetString("mongo.raw_collection"),
			MartCollection: v.GetString("mongo.mart_collection"),
		},
	}

	if config.Socrata.FetchLimit <= 0 {
		return nil, fmt.Errorf("SOCRATA_FETCH_LIMIT must be a positive integer")
	}

	return config, nil
}

// ValidateMongoConfig ensures the document store connection string is
// present. The ingest and status commands require it before any network
// or store call is attempted; the transform command takes it as an
// argument instead.
func ValidateMongoConfig(config *Config) error {
	var missingVars []string

	if config.Mongo.URI == "" {
		missingVars = append(missingVars, "MONGO_CONNECTION_STRING")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}
