package ignore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"watchstate/core/guid"
	"watchstate/feature/ignore/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrExists is returned when the rule is already stored.
	ErrExists = errors.New("ignore rule already exists")
	// ErrNotFound is returned when removing an unknown rule.
	ErrNotFound = errors.New("ignore rule not found")
)

// Service manages the ignore list.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
	cache  *listCache
}

// NewService creates a Service. ttl bounds how long List serves a cached copy; zero
// reads the database every time.
func NewService(db *gorm.DB, logger *zap.Logger, ttl time.Duration) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, logger: logger, cache: newListCache(ttl)}
}

// Migrate creates the ignore table.
func (s *Service) Migrate() error {
	return s.db.AutoMigrate(&models.IgnoreRule{})
}

// List returns the ignore list keyed by rule key.
func (s *Service) List(ctx context.Context) (guid.IgnoreList, error) {
	return s.cache.get(ctx, s.load)
}

func (s *Service) load(ctx context.Context) (guid.IgnoreList, error) {
	rows, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	list := make(guid.IgnoreList, len(rows))
	for _, row := range rows {
		list[row.Key] = row.CreatedAt
	}
	s.logger.Debug("Loaded ignore list", zap.Int("rules", len(list)))
	return list, nil
}

// All returns every stored rule ordered by key.
func (s *Service) All(ctx context.Context) ([]models.IgnoreRule, error) {
	var rows []models.IgnoreRule
	if err := s.db.WithContext(ctx).Order("rule_key").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load ignore rules: %w", err)
	}
	return rows, nil
}

// Add validates and stores a rule.
func (s *Service) Add(ctx context.Context, rule guid.Rule) (*models.IgnoreRule, error) {
	rule.Type = strings.ToLower(strings.TrimSpace(rule.Type))
	rule.Source = strings.ToLower(strings.TrimSpace(rule.Source))
	rule.ID = strings.TrimSpace(rule.ID)
	rule.Scope = strings.TrimSpace(rule.Scope)
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	row := models.FromRule(rule)
	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.IgnoreRule{}).Where("rule_key = ?", row.Key).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: %s", ErrExists, row.Key)
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to store ignore rule: %w", err)
	}
	s.cache.invalidate()

	s.logger.Info("Added ignore rule", zap.String("key", row.Key))
	return &row, nil
}

// Remove deletes the rule with the given key.
func (s *Service) Remove(ctx context.Context, key string) error {
	rule, err := guid.ParseRule(key)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Where("rule_key = ?", rule.Key()).Delete(&models.IgnoreRule{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove ignore rule: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	s.cache.invalidate()

	s.logger.Info("Removed ignore rule", zap.String("key", rule.Key()))
	return nil
}
