package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"watchstate/core/reconcile"
	"watchstate/core/state"
	"watchstate/feature/history/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store persists records in the states table and their lookup pointers in
// state_identities. It implements reconcile.Store and reconcile.Committer.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

var (
	_ reconcile.Store     = (*Store)(nil)
	_ reconcile.Committer = (*Store)(nil)
)

// NewStore creates a Store.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Migrate creates the history tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&models.State{}, &models.StateIdentity{})
}

// Get finds a record by primary key, or by any shared pointer when e has no ID.
func (s *Store) Get(ctx context.Context, e *state.Entity) (*state.Entity, error) {
	db := s.db.WithContext(ctx)

	var row models.State
	var err error
	if e.ID > 0 {
		err = db.First(&row, e.ID).Error
	} else {
		pointers := e.Pointers()
		if len(pointers) == 0 {
			return nil, nil
		}
		ids := db.Model(&models.StateIdentity{}).Select("state_id").Where("pointer IN ?", pointers)
		err = db.Where("id IN (?)", ids).Order("id").First(&row).Error
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.ToEntity()
}

// GetByID returns a record by primary key, or nil.
func (s *Store) GetByID(ctx context.Context, id int64) (*state.Entity, error) {
	return s.Get(ctx, &state.Entity{ID: id})
}

// GetAll returns every record updated after since, oldest id first.
func (s *Store) GetAll(ctx context.Context, since time.Time) ([]*state.Entity, error) {
	query := s.db.WithContext(ctx).Order("id")
	if !since.IsZero() {
		query = query.Where("updated > ?", since.Unix())
	}

	var rows []models.State
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows)
}

// Find returns one page of records matching q and the total number of matches.
func (s *Store) Find(ctx context.Context, q models.ListQuery) ([]*state.Entity, int64, error) {
	q = q.Normalize()

	filter := func(db *gorm.DB) *gorm.DB {
		if q.Type != "" {
			db = db.Where("type = ?", q.Type)
		}
		if q.Watched != nil {
			db = db.Where("watched = ?", *q.Watched)
		}
		if q.Since > 0 {
			db = db.Where("updated > ?", q.Since)
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.State{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.State
	err := s.db.WithContext(ctx).Scopes(filter).
		Order("updated DESC, id DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	entities, err := toEntities(rows)
	return entities, total, err
}

// Insert persists a new record.
func (s *Store) Insert(ctx context.Context, e *state.Entity) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insert(tx, e)
	})
}

// Update persists changes to an existing record.
func (s *Store) Update(ctx context.Context, e *state.Entity) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return update(tx, e)
	})
}

// Remove deletes a record and its pointers.
func (s *Store) Remove(ctx context.Context, e *state.Entity) (bool, error) {
	if e.ID == 0 {
		return false, state.ErrNoPrimaryID
	}

	var removed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("state_id = ?", e.ID).Delete(&models.StateIdentity{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.State{}, e.ID)
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected > 0
		return nil
	})
	return removed, err
}

// Commit writes the batch in one transaction. Each record runs in its own savepoint, so
// a failing record is rolled back and counted without aborting the others.
func (s *Store) Commit(ctx context.Context, entities []*state.Entity) (reconcile.CommitResult, error) {
	var result reconcile.CommitResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entities {
			counter := result.For(e.Type)
			isNew := e.ID == 0

			err := tx.Transaction(func(sp *gorm.DB) error {
				if isNew {
					return insert(sp, e)
				}
				return update(sp, e)
			})

			switch {
			case err != nil:
				if isNew {
					e.ID = 0
				}
				counter.Failed++
				s.logger.Error("Failed to write record", append(e.LogFields(), zap.Error(err))...)
			case isNew:
				counter.Added++
			default:
				counter.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("commit transaction: %w", err)
	}
	return result, nil
}

// Count returns the number of stored records per type.
func (s *Store) Count(ctx context.Context) (map[state.Type]int64, error) {
	var rows []struct {
		Type  string
		Total int64
	}
	err := s.db.WithContext(ctx).Model(&models.State{}).
		Select("type, COUNT(*) AS total").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[state.Type]int64, len(rows))
	for _, r := range rows {
		counts[state.Type(r.Type)] = r.Total
	}
	return counts, nil
}

func insert(tx *gorm.DB, e *state.Entity) error {
	if e.ID != 0 {
		return state.ErrHasPrimaryID
	}
	if err := e.Validate(); err != nil {
		return err
	}

	row, err := models.FromEntity(e)
	if err != nil {
		return err
	}
	if err := tx.Create(&row).Error; err != nil {
		return err
	}

	e.ID = row.ID
	if err := writeIdentities(tx, e); err != nil {
		return err
	}
	e.Snapshot()
	return nil
}

func update(tx *gorm.DB, e *state.Entity) error {
	if e.ID == 0 {
		return state.ErrNoPrimaryID
	}
	if err := e.Validate(); err != nil {
		return err
	}

	row, err := models.FromEntity(e)
	if err != nil {
		return err
	}

	res := tx.Model(&models.State{}).Where("id = ?", e.ID).Updates(map[string]any{
		"type":       row.Type,
		"updated":    row.Updated,
		"watched":    row.Watched,
		"via":        row.Via,
		"title":      row.Title,
		"year":       row.Year,
		"season":     row.Season,
		"episode":    row.Episode,
		"parent":     row.Parent,
		"guids":      row.Guids,
		"metadata":   row.Metadata,
		"extra":      row.Extra,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("state %d: %w", e.ID, gorm.ErrRecordNotFound)
	}

	if err := tx.Where("state_id = ?", e.ID).Delete(&models.StateIdentity{}).Error; err != nil {
		return err
	}
	if err := writeIdentities(tx, e); err != nil {
		return err
	}
	e.Snapshot()
	return nil
}

func writeIdentities(tx *gorm.DB, e *state.Entity) error {
	rows := models.Identities(e)
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func toEntities(rows []models.State) ([]*state.Entity, error) {
	out := make([]*state.Entity, 0, len(rows))
	for _, row := range rows {
		e, err := row.ToEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
