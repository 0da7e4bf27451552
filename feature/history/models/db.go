package models

import (
	"encoding/json"
	"fmt"
	"time"

	"watchstate/core/guid"
	"watchstate/core/state"

	"gorm.io/datatypes"
)

// State is one canonical watch-state record.
type State struct {
	ID        int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Type      string         `gorm:"column:type;size:16;not null;index"`
	Updated   int64          `gorm:"column:updated;not null;index"`
	Watched   bool           `gorm:"column:watched;not null;default:false"`
	Via       string         `gorm:"column:via;size:64;not null;default:''"`
	Title     string         `gorm:"column:title;size:255;not null;default:''"`
	Year      int            `gorm:"column:year;not null;default:0"`
	Season    int            `gorm:"column:season;not null;default:0"`
	Episode   int            `gorm:"column:episode;not null;default:0"`
	Parent    datatypes.JSON `gorm:"column:parent"`
	Guids     datatypes.JSON `gorm:"column:guids"`
	Metadata  datatypes.JSON `gorm:"column:metadata"`
	Extra     datatypes.JSON `gorm:"column:extra"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (State) TableName() string {
	return "states"
}

// StateIdentity is one lookup pointer of a state, see state.Entity.Pointers.
type StateIdentity struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement"`
	StateID int64  `gorm:"column:state_id;not null;index"`
	Pointer string `gorm:"column:pointer;size:255;not null;index"`
}

// TableName overrides the table name.
func (StateIdentity) TableName() string {
	return "state_identities"
}

// FromEntity converts a record into its row.
func FromEntity(e *state.Entity) (State, error) {
	row := State{
		ID:      e.ID,
		Type:    string(e.Type),
		Updated: e.Updated,
		Watched: e.Watched,
		Via:     e.Via,
		Title:   e.Title,
		Year:    e.Year,
		Season:  e.Season,
		Episode: e.Episode,
	}

	var err error
	if row.Parent, err = encode(e.Parent); err != nil {
		return row, fmt.Errorf("parent: %w", err)
	}
	if row.Guids, err = encode(e.Guids); err != nil {
		return row, fmt.Errorf("guids: %w", err)
	}
	if row.Metadata, err = encode(e.Metadata); err != nil {
		return row, fmt.Errorf("metadata: %w", err)
	}
	if row.Extra, err = encode(e.Extra); err != nil {
		return row, fmt.Errorf("extra: %w", err)
	}
	return row, nil
}

// ToEntity converts a row into a record snapshotted as persisted.
func (s State) ToEntity() (*state.Entity, error) {
	e := &state.Entity{
		ID:      s.ID,
		Type:    state.Type(s.Type),
		Updated: s.Updated,
		Watched: s.Watched,
		Via:     s.Via,
		Title:   s.Title,
		Year:    s.Year,
		Season:  s.Season,
		Episode: s.Episode,
	}

	if err := decode(s.Parent, &e.Parent); err != nil {
		return nil, fmt.Errorf("state %d parent: %w", s.ID, err)
	}
	if err := decode(s.Guids, &e.Guids); err != nil {
		return nil, fmt.Errorf("state %d guids: %w", s.ID, err)
	}
	if err := decode(s.Metadata, &e.Metadata); err != nil {
		return nil, fmt.Errorf("state %d metadata: %w", s.ID, err)
	}
	if err := decode(s.Extra, &e.Extra); err != nil {
		return nil, fmt.Errorf("state %d extra: %w", s.ID, err)
	}

	// Empty sets come back as nil so a round trip compares equal.
	if len(e.Parent) == 0 {
		e.Parent = nil
	}
	if len(e.Guids) == 0 {
		e.Guids = nil
	}
	if len(e.Metadata) == 0 {
		e.Metadata = nil
	}
	if len(e.Extra) == 0 {
		e.Extra = nil
	}
	return e.Snapshot(), nil
}

// Identities returns the pointer rows of a record.
func Identities(e *state.Entity) []StateIdentity {
	pointers := e.Pointers()
	rows := make([]StateIdentity, 0, len(pointers))
	for _, p := range pointers {
		rows = append(rows, StateIdentity{StateID: e.ID, Pointer: p})
	}
	return rows
}

func encode(v any) (datatypes.JSON, error) {
	switch t := v.(type) {
	case guid.Set:
		if len(t) == 0 {
			return datatypes.JSON("{}"), nil
		}
	case map[string]state.Metadata:
		if len(t) == 0 {
			return datatypes.JSON("{}"), nil
		}
	case map[string]state.Extra:
		if len(t) == 0 {
			return datatypes.JSON("{}"), nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func decode(raw datatypes.JSON, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
