package config

import (
	"reflect"
	"strings"
	"time"

	"stock-importer/core/audit"
	"stock-importer/core/database"
	"stock-importer/core/logger"
	"stock-importer/core/progress"
	"stock-importer/core/server"
	"stock-importer/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the upload archive (S3/MinIO).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Import holds tuning knobs for the import pipeline.
	Import ImportConfig `mapstructure:"import"`
	// Progress holds configuration for the progress store.
	Progress progress.Config `mapstructure:"progress"`
	// Audit holds configuration for the activity sink.
	Audit audit.Config `mapstructure:"audit"`
}

// ImportConfig holds configuration for ingestion, matching and emission.
type ImportConfig struct {
	// BatchSize is the number of rows persisted per round trip.
	BatchSize int `mapstructure:"batch_size" default:"500"`
	// CatalogTTL is how long a loaded catalog snapshot is reused by the matcher.
	CatalogTTL time.Duration `mapstructure:"catalog_ttl" default:"30s"`
	// FulfillmentKeywords mark orders whose logistics are run by the marketplace.
	FulfillmentKeywords []string `mapstructure:"fulfillment_keywords" default:"full,fulfillment,fullfilment"`
	// ArchiveUploads stores every uploaded spreadsheet in object storage.
	ArchiveUploads bool `mapstructure:"archive_uploads" default:"false"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. IMPORT_BATCH_SIZE -> import.batch_size)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
