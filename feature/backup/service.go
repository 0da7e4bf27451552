package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"watchstate/core/reconcile"
	"watchstate/core/server"
	"watchstate/core/state"
	"watchstate/core/storage"
	"watchstate/feature/backup/models"
	"watchstate/feature/history"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var (
	// ErrInvalidKey is returned for keys outside the backup prefix.
	ErrInvalidKey = errors.New("invalid backup key")
	// ErrUnsupportedVersion is returned for documents written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported backup version")
)

// Service exports and restores the history through object storage.
type Service struct {
	history *history.Service
	client  storage.Client
	bucket  string
	prefix  string
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a backup service writing under prefix in bucket.
func NewService(hist *history.Service, client storage.Client, bucket, prefix string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "backups"
	}
	return &Service{
		history: hist,
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		logger:  logger,
		now:     time.Now,
	}
}

// Prefix returns the object prefix backups are written under.
func (s *Service) Prefix() string {
	return s.prefix
}

// Create writes every stored record into a new backup object.
func (s *Service) Create(ctx context.Context) (*models.Info, error) {
	records, err := s.history.Store().GetAll(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	created := s.now().UTC()
	doc := models.Document{
		Version:   models.FormatVersion,
		CreatedAt: created,
		Backends:  server.BackendNames(s.history.Backends()),
		Records:   records,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	if err := storage.EnsureBucket(ctx, s.client, s.bucket, ""); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s-%s.json", s.prefix, created.Format("20060102T150405Z"), uuid.NewString()[:8])
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload backup %s: %w", key, err)
	}

	s.logger.Info("Backup created", zap.String("key", key), zap.Int("records", len(records)), zap.Int("bytes", len(body)))
	return &models.Info{Key: key, Size: int64(len(body)), Records: len(records), LastModified: created}, nil
}

// List returns the stored backups, newest first.
func (s *Service) List(ctx context.Context) ([]models.Info, error) {
	var out []models.Info
	opts := minio.ListObjectsOptions{Prefix: s.prefix + "/", Recursive: true}
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list backups: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		out = append(out, models.Info{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastModified.Equal(out[j].LastModified) {
			return out[i].LastModified.After(out[j].LastModified)
		}
		return out[i].Key > out[j].Key
	})
	return out, nil
}

// Load downloads and decodes a backup document.
func (s *Service) Load(ctx context.Context, key string) (*models.Document, error) {
	key, err := s.cleanKey(key)
	if err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download backup %s: %w", key, err)
	}
	defer obj.Close()

	var doc models.Document
	if err := json.NewDecoder(obj).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode backup %s: %w", key, err)
	}
	if doc.Version > models.FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	return &doc, nil
}

// Restore merges a backup into the history. Records are matched by identity, so a
// restore into a populated database updates instead of duplicating. With metadataOnly
// the watch state of existing records is left untouched.
func (s *Service) Restore(ctx context.Context, key string, metadataOnly bool) (*models.RestoreReport, error) {
	doc, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	opts := reconcile.AddOptions{Policy: state.Trusted}
	if metadataOnly {
		opts.Policy = state.MetadataOnly
	}

	result, skipped, err := s.history.Merge(ctx, doc.Records, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to restore backup %s: %w", key, err)
	}

	report := &models.RestoreReport{
		Key:      key,
		Records:  len(doc.Records),
		Skipped:  skipped,
		Added:    result.Movie.Added + result.Episode.Added,
		Updated:  result.Movie.Updated + result.Episode.Updated,
		Failed:   result.Failed(),
		Metadata: metadataOnly,
	}
	s.logger.Info("Backup restored",
		zap.String("key", key),
		zap.Int("records", report.Records),
		zap.Int("added", report.Added),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped))
	return report, nil
}

// cleanKey accepts a full key or a bare file name and keeps it under the prefix.
func (s *Service) cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if !strings.Contains(key, "/") {
		key = path.Join(s.prefix, key)
	}
	if !strings.HasPrefix(key, s.prefix+"/") {
		return "", fmt.Errorf("%w: %q is outside %s/", ErrInvalidKey, key, s.prefix)
	}
	return key, nil
}
