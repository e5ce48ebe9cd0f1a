// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the few
// operations the importer needs. This abstraction supports both AWS S3 and
// self-hosted MinIO instances.
//
// # Archive
//
// Archive stores the original spreadsheet of every upload under
// imports/<batch id>/<filename>, creating the bucket on first use. Archiving is
// best effort from the pipeline's point of view: a failure is logged, never fatal.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	archive := storage.NewArchive(client, config.Bucket, config.Region)
//	key, err := archive.Store(ctx, batchID, "orders.xlsx", content)
package storage
