package models

import (
	"time"

	"watchstate/core/state"
)

// FormatVersion is the version written into new backup documents.
const FormatVersion = 1

// Document is the JSON body of one backup object.
type Document struct {
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	Backends  []string        `json:"backends"`
	Records   []*state.Entity `json:"records"`
}

// Info describes a stored backup object.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	Records      int       `json:"records,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// RestoreReport summarizes a restore.
type RestoreReport struct {
	Key      string `json:"key"`
	Records  int    `json:"records"`
	Skipped  int    `json:"skipped"`
	Added    int    `json:"added"`
	Updated  int    `json:"updated"`
	Failed   int    `json:"failed"`
	Metadata bool   `json:"metadata_only"`
}
