package checks

import (
	"context"
	"errors"
	"testing"

	"diffing-research/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func objectsChan(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestCheckStorage(t *testing.T) {
	t.Run("Bucket Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "diffing").Return(false, nil)

		report, err := CheckStorage(context.Background(), client, "diffing")
		require.NoError(t, err)
		assert.False(t, report.Exists)
		client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Counts Snapshots", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "diffing").Return(true, nil)
		client.On("ListObjects", mock.Anything, "diffing", minio.ListObjectsOptions{Prefix: SnapshotPrefix, Recursive: true}).
			Return(objectsChan("snapshots/table/a.json", "snapshots/plain/b.json"))

		report, err := CheckStorage(context.Background(), client, "diffing")
		require.NoError(t, err)
		assert.True(t, report.Exists)
		assert.Equal(t, 2, report.Snapshots)
	})

	t.Run("Bucket Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "diffing").Return(false, errors.New("unreachable"))

		_, err := CheckStorage(context.Background(), client, "diffing")
		assert.Error(t, err)
	})
}

func TestFixStorage(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "diffing").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "diffing", minio.MakeBucketOptions{Region: "eu"}).Return(nil)

	require.NoError(t, FixStorage(context.Background(), client, "diffing", "eu", zap.NewNop()))
	client.AssertExpectations(t)
}
