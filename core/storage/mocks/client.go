package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
)

// Client is a testify mock of storage.Client. PutObject also keeps the
// uploaded bytes per object key so tests can inspect what was archived.
type Client struct {
	mock.Mock

	mu      sync.Mutex
	objects map[string][]byte
}

func (m *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *Client) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucketName, opts).Error(0)
}

func (m *Client) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	args := m.Called(ctx, bucketName, objectName, body, objectSize, opts)
	if args.Error(1) == nil {
		m.mu.Lock()
		if m.objects == nil {
			m.objects = make(map[string][]byte)
		}
		m.objects[objectName] = body
		m.mu.Unlock()
	}
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

// Object returns the bytes stored under key by a successful PutObject.
func (m *Client) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	return b, ok
}
