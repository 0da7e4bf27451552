package checks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"watchstate/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// KeepObject is the placeholder written to materialize an empty prefix.
const KeepObject = ".keep"

// CheckStructure verifies the bucket exists and returns the prefixes that hold no
// objects.
func CheckStructure(ctx context.Context, client storage.Client, bucket string, prefixes []string) ([]string, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	missing := []string{}
	for _, prefix := range prefixes {
		opts := minio.ListObjectsOptions{
			Prefix:    folder(prefix),
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for obj := range client.ListObjects(ctx, bucket, opts) {
			if obj.Err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
			}
			found = true
			break
		}

		if !found {
			missing = append(missing, prefix)
		}
	}

	return missing, nil
}

// FixStructure creates the bucket when needed and a placeholder under each missing
// prefix.
func FixStructure(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger, missing []string) error {
	if err := storage.EnsureBucket(ctx, client, bucket, ""); err != nil {
		return err
	}

	for _, prefix := range missing {
		key := folder(prefix) + KeepObject
		_, err := client.PutObject(ctx, bucket, key, bytes.NewReader(nil), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create prefix", zap.String("prefix", prefix), zap.Error(err))
			return err
		}
		logger.Info("Created missing prefix", zap.String("prefix", prefix))
	}
	return nil
}

func folder(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	return prefix + "/"
}
