// Package models holds the history tables and the observation wire format.
package models
