package server

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"watchstate/core/guid"
)

// SyncConfig describes the backends this instance reconciles.
type SyncConfig struct {
	// Backends lists the known backends as "name=kind" pairs separated by commas,
	// e.g. "home=plex,office=jellyfin". Kind selects the id support table.
	Backends string `mapstructure:"backends" default:""`
	// IgnoreCacheSeconds is how long the ignore list is cached between lookups.
	IgnoreCacheSeconds int `mapstructure:"ignore_cache_seconds" default:"60"`
	// BackupPrefix is the object prefix backups are written under.
	BackupPrefix string `mapstructure:"backup_prefix" default:"backups"`
}

// ParseBackends returns the configured backends keyed by name.
func (c SyncConfig) ParseBackends() (map[string]string, error) {
	backends := make(map[string]string)
	for _, entry := range strings.Split(c.Backends, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, kind, ok := strings.Cut(entry, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		kind = strings.ToLower(strings.TrimSpace(kind))
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid backend entry %q, expected name=kind", entry)
		}
		if !guid.IsValidKind(kind) {
			return nil, fmt.Errorf("backend %q has unsupported kind %q", name, kind)
		}
		if _, dup := backends[name]; dup {
			return nil, fmt.Errorf("backend %q is declared twice", name)
		}
		backends[name] = kind
	}
	return backends, nil
}

// BackendNames returns the configured backend names, sorted.
func BackendNames(backends map[string]string) []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IgnoreCacheTTL returns the ignore list cache lifetime. Zero disables caching.
func (c SyncConfig) IgnoreCacheTTL() time.Duration {
	if c.IgnoreCacheSeconds <= 0 {
		return 0
	}
	return time.Duration(c.IgnoreCacheSeconds) * time.Second
}
