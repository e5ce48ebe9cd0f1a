// Package config provides configuration management for the importer.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: connection details (mysql, postgres or sqlite)
//   - Storage: S3/MinIO credentials for the upload archive
//   - Log: Logging level and format
//   - Import: batch size, catalog cache TTL, fulfillment keywords
//   - Progress: memory or Redis progress store
//   - Audit: activity sink (log or Kafka)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Import.BatchSize)
package config
