package guid

import (
	"regexp"
	"sort"
	"strings"

	"watchstate/core/utils"

	"go.uber.org/zap"
)

// Mode selects whether Resolve reports what it drops.
type Mode int

const (
	// ModeSilent drops malformed input without logging.
	ModeSilent Mode = iota
	// ModeLog logs ambiguous mappings, duplicates and parse failures.
	ModeLog
)

var (
	imdbPattern    = regexp.MustCompile(`^tt\d+$`)
	numericPattern = regexp.MustCompile(`^\d+$`)
)

// Context describes the item whose ids are being resolved. It is used for scoped ignore
// rules and for log fields.
type Context struct {
	Type     string
	NativeID string
	Title    string
}

// Options configures a Resolver.
type Options struct {
	// Backend is the name of the backend the raw ids come from.
	Backend string
	// Table maps raw keys to canonical sources. Defaults to DefaultTable.
	Table Table
	// Ignore is the user's ignore list. May be nil.
	Ignore IgnoreList
	// Logger receives notices in ModeLog. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Resolver converts raw backend id dictionaries into canonical sets.
// A Resolver is immutable and safe for concurrent use.
type Resolver struct {
	backend string
	table   Table
	ignore  IgnoreList
	logger  *zap.Logger
}

// NewResolver creates a resolver for one backend.
func NewResolver(opts Options) *Resolver {
	table := opts.Table
	if table == nil {
		table = DefaultTable()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		backend: opts.Backend,
		table:   table,
		ignore:  opts.Ignore,
		logger:  logger.With(zap.String("backend", opts.Backend)),
	}
}

// Backend returns the backend name the resolver was built for.
func (r *Resolver) Backend() string {
	return r.backend
}

// Resolve folds raw into a canonical set. It never fails: unsupported keys, empty and
// malformed values and ignored ids are dropped.
func (r *Resolver) Resolve(raw map[string]any, ctx Context, mode Mode) Set {
	out := make(Set, len(raw))
	if len(raw) == 0 {
		return out
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		source, ok := r.table.Lookup(key)
		if !ok {
			if mode == ModeLog {
				r.logger.Debug("Unsupported id source", r.fields(ctx, zap.String("key", key))...)
			}
			continue
		}

		if raw[key] == nil {
			continue
		}
		value := strings.TrimSpace(utils.ToString(raw[key]))
		if value == "" {
			continue
		}

		value, ok = normalize(source, value)
		if !ok {
			if mode == ModeLog {
				r.logger.Info("Unable to parse external id",
					r.fields(ctx, zap.String("source", source), zap.String("value", utils.ToString(raw[key])))...)
			}
			continue
		}

		if r.ignore.Matches(ctx.Type, source, value, ctx.NativeID) {
			if mode == ModeLog {
				r.logger.Debug("Ignoring external id",
					r.fields(ctx, zap.String("source", source), zap.String("value", value))...)
			}
			continue
		}

		prev, exists := out[source]
		if !exists {
			out[source] = value
			continue
		}
		if prev == value {
			continue
		}

		if numericPattern.MatchString(prev) && numericPattern.MatchString(value) {
			if numericLess(value, prev) {
				out[source] = value
			}
			if mode == ModeLog {
				r.logger.Info("Conflicting numeric ids, keeping the smaller one",
					r.fields(ctx, zap.String("source", source), zap.String("kept", out[source]),
						zap.Strings("values", []string{prev, value}))...)
			}
			continue
		}

		if mode == ModeLog {
			r.logger.Warn("Conflicting ids, keeping the first one",
				r.fields(ctx, zap.String("source", source), zap.String("kept", prev), zap.String("discarded", value))...)
		}
	}

	return out
}

// Parse resolves raw silently.
func (r *Resolver) Parse(raw map[string]any, ctx Context) Set {
	return r.Resolve(raw, ctx, ModeSilent)
}

// Get resolves raw and logs what it drops.
func (r *Resolver) Get(raw map[string]any, ctx Context) Set {
	return r.Resolve(raw, ctx, ModeLog)
}

// Has reports whether raw contains at least one usable id.
func (r *Resolver) Has(raw map[string]any, ctx Context) bool {
	return len(r.Parse(raw, ctx)) >= 1
}

// Identity resolves raw like Get, and falls back to a virtual id derived from the backend
// name and the native id when nothing else is available.
func (r *Resolver) Identity(raw map[string]any, ctx Context) Set {
	ids := r.Get(raw, ctx)
	if len(ids) > 0 {
		return ids
	}
	if v := Virtual(r.backend, ctx.NativeID); v != "" {
		ids[SourceVirtual] = v
	}
	return ids
}

// Virtual builds the fallback id for a backend item, or "" when either part is missing.
func Virtual(backend, nativeID string) string {
	if backend == "" || nativeID == "" {
		return ""
	}
	return backend + "/" + nativeID
}

func (r *Resolver) fields(ctx Context, extra ...zap.Field) []zap.Field {
	fields := make([]zap.Field, 0, len(extra)+3)
	if ctx.Type != "" {
		fields = append(fields, zap.String("type", ctx.Type))
	}
	if ctx.NativeID != "" {
		fields = append(fields, zap.String("id", ctx.NativeID))
	}
	if ctx.Title != "" {
		fields = append(fields, zap.String("title", ctx.Title))
	}
	return append(fields, extra...)
}

// normalize validates a value for its source.
func normalize(source, value string) (string, bool) {
	switch source {
	case SourceIMDB:
		value = strings.ToLower(value)
		return value, imdbPattern.MatchString(value)
	case SourceVirtual:
		return value, true
	default:
		return value, numericPattern.MatchString(value)
	}
}

// numericLess compares two digit strings of any length by value.
func numericLess(a, b string) bool {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
