// Package storage wraps the MinIO client for S3 compatible object storage.
//
// Backups of the watch-state database are written to and restored from a bucket through
// the Client interface, which core/storage/mocks implements for tests.
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil { ... }
//	keys, err := storage.ListKeys(ctx, client, cfg.Storage.Bucket, "backups/")
package storage
