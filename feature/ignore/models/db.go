package models

import (
	"time"

	"watchstate/core/guid"
)

// IgnoreRule is one persisted ignore rule.
type IgnoreRule struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Key       string    `gorm:"column:rule_key;size:255;not null;uniqueIndex" json:"key"`
	Type      string    `gorm:"column:type;size:16;not null" json:"type"`
	Source    string    `gorm:"column:source;size:16;not null" json:"source"`
	ExtID     string    `gorm:"column:ext_id;size:128;not null" json:"id_value"`
	Scope     string    `gorm:"column:scope;size:128;not null;default:''" json:"scope,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name.
func (IgnoreRule) TableName() string {
	return "ignore_rules"
}

// FromRule converts a resolver rule into its row.
func FromRule(r guid.Rule) IgnoreRule {
	return IgnoreRule{
		Key:    r.Key(),
		Type:   r.Type,
		Source: r.Source,
		ExtID:  r.ID,
		Scope:  r.Scope,
	}
}

// Rule converts the row back into a resolver rule.
func (r IgnoreRule) Rule() guid.Rule {
	return guid.Rule{Type: r.Type, Source: r.Source, ID: r.ExtID, Scope: r.Scope}
}

// CreateRequest is the body of the create endpoint.
type CreateRequest struct {
	Type   string `json:"type" example:"movie"`
	Source string `json:"source" example:"tmdb"`
	ID     string `json:"id" example:"278"`
	// Scope limits the rule to one backend item by its native id.
	Scope string `json:"scope,omitempty"`
}
