package integrity

import (
	"context"
	"errors"

	"watchstate/core/storage"
	historymodels "watchstate/feature/history/models"
	ignoremodels "watchstate/feature/ignore/models"
	"watchstate/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrStorageDisabled is returned by storage checks when no object storage is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

// Models are the tables the schema check verifies.
var Models = []any{
	historymodels.State{},
	historymodels.StateIdentity{},
	ignoremodels.IgnoreRule{},
}

// Report is the combined result of every check.
type Report struct {
	Healthy bool                 `json:"healthy"`
	Schema  *checks.SchemaReport `json:"schema,omitempty"`
	Storage *StorageReport       `json:"storage,omitempty"`
	Errors  map[string]string    `json:"errors,omitempty"`
}

// StorageReport is the result of the storage layout check.
type StorageReport struct {
	Bucket  string   `json:"bucket"`
	Missing []string `json:"missing"`
}

// Service handles integrity checks.
type Service struct {
	client   storage.Client
	bucket   string
	prefixes []string
	db       *gorm.DB
	models   []any
	logger   *zap.Logger
}

// NewService creates a new integrity service. client may be nil when object storage
// is not configured; prefixes are the object prefixes that must exist in bucket.
func NewService(client storage.Client, bucket string, prefixes []string, db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:   client,
		bucket:   bucket,
		prefixes: prefixes,
		db:       db,
		models:   Models,
		logger:   logger,
	}
}

// CheckSchema verifies the database tables against the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, s.models...)
}

// CheckStructure returns the missing storage prefixes.
func (s *Service) CheckStructure(ctx context.Context) (*StorageReport, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	missing, err := checks.CheckStructure(ctx, s.client, s.bucket, s.prefixes)
	if err != nil {
		return nil, err
	}
	return &StorageReport{Bucket: s.bucket, Missing: missing}, nil
}

// FixStructure creates the bucket and the missing prefixes.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	if s.client == nil {
		return ErrStorageDisabled
	}
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// Run performs every check. Check failures are collected in the report.
func (s *Service) Run(ctx context.Context) *Report {
	report := &Report{Healthy: true, Errors: map[string]string{}}

	if schema, err := s.CheckSchema(); err != nil {
		report.Errors["schema"] = err.Error()
		report.Healthy = false
	} else {
		report.Schema = schema
		report.Healthy = report.Healthy && schema.Matched
	}

	switch st, err := s.CheckStructure(ctx); {
	case errors.Is(err, ErrStorageDisabled):
	case err != nil:
		report.Errors["storage"] = err.Error()
		report.Healthy = false
	default:
		report.Storage = st
		report.Healthy = report.Healthy && len(st.Missing) == 0
	}

	if len(report.Errors) == 0 {
		report.Errors = nil
	}
	return report
}
