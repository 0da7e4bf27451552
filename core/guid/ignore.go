package guid

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrInvalidRule is returned for malformed ignore rules and keys.
var ErrInvalidRule = errors.New("invalid ignore rule")

// Rule suppresses one external id observation. An empty Scope applies the rule to every
// item; otherwise only to the backend item with that native id.
type Rule struct {
	Type   string
	Source string
	ID     string
	Scope  string
}

// Key renders the rule as "type://source:id" or "type://source:id?id=scope".
func (r Rule) Key() string {
	key := fmt.Sprintf("%s://%s:%s", strings.ToLower(r.Type), strings.ToLower(r.Source), r.ID)
	if r.Scope != "" {
		key += "?id=" + url.QueryEscape(r.Scope)
	}
	return key
}

// Validate checks that the rule names a type, a canonical source and an id.
func (r Rule) Validate() error {
	if r.Type == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidRule)
	}
	if !IsSupported(strings.ToLower(r.Source)) {
		return fmt.Errorf("%w: unsupported source %q", ErrInvalidRule, r.Source)
	}
	if r.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRule)
	}
	return nil
}

// ParseRule parses a key produced by Rule.Key.
func ParseRule(key string) (Rule, error) {
	typ, rest, ok := strings.Cut(strings.TrimSpace(key), "://")
	if !ok || typ == "" {
		return Rule{}, fmt.Errorf("%w: %q, expected type://source:id", ErrInvalidRule, key)
	}

	rest, rawQuery, _ := strings.Cut(rest, "?")
	source, id, ok := strings.Cut(rest, ":")
	if !ok {
		return Rule{}, fmt.Errorf("%w: %q, missing id", ErrInvalidRule, key)
	}

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %q: %v", ErrInvalidRule, key, err)
	}

	rule := Rule{
		Type:   strings.ToLower(typ),
		Source: strings.ToLower(source),
		ID:     id,
		Scope:  query.Get("id"),
	}
	if err := rule.Validate(); err != nil {
		return Rule{}, err
	}
	return rule, nil
}

// IgnoreList holds ignore rule keys and the time each rule was added.
type IgnoreList map[string]time.Time

// Matches reports whether an id is ignored globally or for the given native item.
func (l IgnoreList) Matches(typ, source, id, nativeID string) bool {
	if len(l) == 0 {
		return false
	}
	rule := Rule{Type: typ, Source: source, ID: id}
	if _, ok := l[rule.Key()]; ok {
		return true
	}
	if nativeID == "" {
		return false
	}
	rule.Scope = nativeID
	_, ok := l[rule.Key()]
	return ok
}
