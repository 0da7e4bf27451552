// Package models holds the backup document and report types.
package models
