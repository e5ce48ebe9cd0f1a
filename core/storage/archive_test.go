package storage_test

import (
	"context"
	"errors"
	"testing"

	"stock-importer/core/storage"
	"stock-importer/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestArchive_Store(t *testing.T) {
	t.Run("Creates bucket once", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "imports").Return(false, nil).Once()
		mockClient.On("MakeBucket", mock.Anything, "imports", mock.Anything).Return(nil).Once()
		mockClient.On("PutObject", mock.Anything, "imports", mock.Anything, mock.Anything, int64(5), mock.Anything).
			Return(minio.UploadInfo{}, nil)

		archive := storage.NewArchive(mockClient, "imports", "")

		key, err := archive.Store(context.Background(), "batch-1", "orders.xlsx", []byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, "imports/batch-1/orders.xlsx", key)

		_, err = archive.Store(context.Background(), "batch-2", "orders.xlsx", []byte("world"))
		require.NoError(t, err)

		body, ok := mockClient.Object("imports/batch-2/orders.xlsx")
		require.True(t, ok)
		assert.Equal(t, "world", string(body))

		mockClient.AssertExpectations(t)
		mockClient.AssertNumberOfCalls(t, "BucketExists", 1)
	})

	t.Run("Put failure is returned", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "imports").Return(true, nil)
		mockClient.On("PutObject", mock.Anything, "imports", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("boom"))

		archive := storage.NewArchive(mockClient, "imports", "")
		_, err := archive.Store(context.Background(), "batch-1", "orders.csv", []byte("x"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "boom")

		_, ok := mockClient.Object("imports/batch-1/orders.csv")
		assert.False(t, ok)
	})
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "imports/b/file.csv", storage.ObjectKey("b", "../../file.csv"))
	assert.Equal(t, "imports/b/upload", storage.ObjectKey("b", ""))
}
