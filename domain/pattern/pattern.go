// Package pattern implements the regular-expression-based identifier
// classifiers of spec §4.2: the named pattern catalog used to recognize
// dynamic-key formats (UUID, MongoDB ObjectId, ULID, numeric id, prefixed
// id, custom), and the promotion confidence decision built on top of it.
package pattern

import (
	"regexp"

	"docsynth/domain/core"
)

// Name identifies a catalog pattern.
type Name string

const (
	UUID             Name = "UUID"
	MongoDBObjectID  Name = "MONGODB_OBJECTID"
	ULID             Name = "ULID"
	NumericID        Name = "NUMERIC_ID"
	PrefixedID       Name = "PREFIXED_ID"
	Custom           Name = "CUSTOM"
	HighCardinality  Name = "HIGH_CARDINALITY" // synthetic marker, never matched directly
)

// Pattern is a named, compiled, full-string-anchored identifier classifier.
type Pattern struct {
	Name Name
	expr *regexp.Regexp
}

// MatchRatio returns the fraction of keys that fully match the pattern.
func (p Pattern) MatchRatio(keys []string) float64 {
	if len(keys) == 0 {
		return 0
	}
	matched := 0
	for _, k := range keys {
		if p.expr.MatchString(k) {
			matched++
		}
	}
	return float64(matched) / float64(len(keys))
}

// Matches reports whether a single key fully matches the pattern.
func (p Pattern) Matches(key string) bool {
	return p.expr.MatchString(key)
}

// Compile builds a Pattern from a name and a regex body, anchoring it to
// match the full string (spec §4.2: "anchored full-string match").
func Compile(name Name, body string) (Pattern, error) {
	expr, err := regexp.Compile("^(?:" + body + ")$")
	if err != nil {
		return Pattern{}, core.ErrInvalidRegex
	}
	return Pattern{Name: name, expr: expr}, nil
}

// mustCompile panics on error; used only for the built-in catalog, whose
// regular expressions are constants known to compile.
func mustCompile(name Name, body string) Pattern {
	p, err := Compile(name, body)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultCatalog returns the built-in pattern catalog spec §4.2 and §6 name:
// UUID, 24-hex MongoDB ObjectId, ULID, numeric id, and a common prefixed-id
// shape ({user|doc|item|order}_<alnum>, matching the generator's own key
// shapes in §4.8.1 so round-tripping generated data re-detects as dynamic).
func DefaultCatalog() []Pattern {
	return []Pattern{
		mustCompile(UUID, `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`),
		mustCompile(MongoDBObjectID, `[0-9a-fA-F]{24}`),
		mustCompile(ULID, `[0-9A-HJKMNP-TV-Z]{26}`),
		mustCompile(NumericID, `[0-9]{1,18}`),
		mustCompile(PrefixedID, `(user|doc|item|order)_[a-z0-9]{6,32}`),
	}
}

// Catalog bundles a set of patterns and finds the best match for a key set.
type Catalog struct {
	Patterns []Pattern
}

// NewCatalog validates and wraps a pattern set (spec §4.4 config validation:
// duplicate names are rejected).
func NewCatalog(patterns []Pattern) (*Catalog, error) {
	seen := make(map[Name]bool, len(patterns))
	for _, p := range patterns {
		if seen[p.Name] {
			return nil, core.ErrDuplicatePattern
		}
		seen[p.Name] = true
	}
	return &Catalog{Patterns: patterns}, nil
}

// BestMatch finds the pattern with the highest MatchRatio over keys.
func (c *Catalog) BestMatch(keys []string) (Pattern, float64) {
	var best Pattern
	bestRatio := -1.0
	for _, p := range c.Patterns {
		ratio := p.MatchRatio(keys)
		if ratio > bestRatio {
			best = p
			bestRatio = ratio
		}
	}
	if bestRatio < 0 {
		return Pattern{}, 0
	}
	return best, bestRatio
}
