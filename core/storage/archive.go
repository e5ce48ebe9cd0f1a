package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/minio/minio-go/v7"
)

// Archive keeps a copy of every uploaded spreadsheet under imports/<batch>/<filename>.
type Archive struct {
	client Client
	bucket string
	region string

	once      sync.Once
	bucketErr error
}

// NewArchive creates an archive writing into the given bucket.
func NewArchive(client Client, bucket, region string) *Archive {
	return &Archive{client: client, bucket: bucket, region: region}
}

// Store uploads the file content and returns the object key.
func (a *Archive) Store(ctx context.Context, batchID, filename string, content []byte) (string, error) {
	if err := a.ensureBucket(ctx); err != nil {
		return "", err
	}

	key := ObjectKey(batchID, filename)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType(filename),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive upload %s: %w", key, err)
	}
	return key, nil
}

// ObjectKey builds the object key for an archived upload.
func ObjectKey(batchID, filename string) string {
	name := path.Base(filename)
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return path.Join("imports", batchID, name)
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	a.once.Do(func() {
		exists, err := a.client.BucketExists(ctx, a.bucket)
		if err != nil {
			a.bucketErr = fmt.Errorf("failed to check bucket existence: %w", err)
			return
		}
		if exists {
			return
		}
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
			a.bucketErr = fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
		}
	})
	return a.bucketErr
}

func contentType(filename string) string {
	switch path.Ext(filename) {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
