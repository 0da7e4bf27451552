package storage_test

import (
	"context"
	"errors"
	"testing"

	"watchstate/core/storage"
	"watchstate/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr bool
	}{
		{"ValidConfig", storage.Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "watchstate", Region: "us-east-1"}, false},
		{"EndpointWithHTTP", storage.Config{Endpoint: "http://localhost:9000", AccessKey: "k", SecretKey: "s"}, false},
		{"EndpointWithHTTPS", storage.Config{Endpoint: "https://s3.amazonaws.com/", AccessKey: "k", SecretKey: "s"}, false},
		{"EmptyEndpoint", storage.Config{Endpoint: "http://"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := storage.NewClient(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "watchstate").Return(true, nil)

		require.NoError(t, storage.EnsureBucket(ctx, client, "watchstate", ""))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Created", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "watchstate").Return(false, nil)
		client.On("MakeBucket", ctx, "watchstate", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		require.NoError(t, storage.EnsureBucket(ctx, client, "watchstate", "eu-west-1"))
		client.AssertExpectations(t)
	})

	t.Run("Check Fails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "watchstate").Return(false, errors.New("denied"))

		assert.ErrorContains(t, storage.EnsureBucket(ctx, client, "watchstate", ""), "denied")
	})
}

func TestListKeys(t *testing.T) {
	ctx := context.Background()

	objects := make(chan minio.ObjectInfo, 2)
	objects <- minio.ObjectInfo{Key: "backups/a.json"}
	objects <- minio.ObjectInfo{Key: "backups/b.json"}
	close(objects)

	client := new(mocks.Client)
	client.On("ListObjects", ctx, "watchstate", minio.ListObjectsOptions{Prefix: "backups/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(objects))

	keys, err := storage.ListKeys(ctx, client, "watchstate", "backups/")
	require.NoError(t, err)
	assert.Equal(t, []string{"backups/a.json", "backups/b.json"}, keys)
}
