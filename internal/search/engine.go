// Package search implements query and filter evaluation over the store.
//
// Every function here is a pure computation over read-only data: a text
// query is a case-insensitive substring match against a fixed set of
// per-kind fields, filters are case-insensitive exact matches against
// enum fields, and the two combine with logical AND. Results keep the
// collection's insertion order and are never truncated, so the match
// count always equals the length of the returned slice. An unknown
// filter value simply matches nothing; it is never an error.
package search

import (
	"strings"

	"github.com/fyrsmithlabs/kbd/internal/store"
)

// Engine evaluates searches against a loaded store.
type Engine struct {
	store *store.Store
}

// NewEngine creates an engine over the given store.
func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s}
}

// Store returns the underlying store for direct id lookups.
func (e *Engine) Store() *store.Store { return e.store }

// matchQuery reports whether any field contains q case-insensitively.
// An empty query matches everything.
func matchQuery(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// matchFilter reports whether value satisfies an exact-match filter.
// An empty filter imposes no constraint.
func matchFilter(filter, value string) bool {
	return filter == "" || strings.EqualFold(filter, value)
}

// BestPractices returns every best practice matching the query and filters.
func (e *Engine) BestPractices(query, category, difficulty string) []store.BestPractice {
	results := []store.BestPractice{}
	for _, bp := range e.store.BestPractices() {
		if !matchFilter(category, bp.Category) || !matchFilter(difficulty, bp.Difficulty) {
			continue
		}
		if !matchQuery(query, bp.Title, bp.Description, bp.Rationale, strings.Join(bp.Tags, " ")) {
			continue
		}
		results = append(results, bp)
	}
	return results
}

// Snippets returns every snippet matching the query and language filter.
// Language "any" means no constraint, matching the dataset's enumeration.
func (e *Engine) Snippets(query, language string) []store.Snippet {
	if language == store.LanguageAny {
		language = ""
	}
	results := []store.Snippet{}
	for _, sn := range e.store.Snippets() {
		if !matchFilter(language, sn.Language) {
			continue
		}
		if !matchQuery(query, sn.Title, sn.Description, sn.UseCase, strings.Join(sn.Tags, " ")) {
			continue
		}
		results = append(results, sn)
	}
	return results
}

// Troubleshooting returns every guide matching the query and category filter.
func (e *Engine) Troubleshooting(query, category string) []store.TroubleshootingGuide {
	results := []store.TroubleshootingGuide{}
	for _, g := range e.store.Troubleshooting() {
		if !matchFilter(category, g.Category) {
			continue
		}
		if !matchQuery(query, g.Title, strings.Join(g.Symptoms, " "), strings.Join(g.Causes, " "), strings.Join(g.Tags, " ")) {
			continue
		}
		results = append(results, g)
	}
	return results
}

// Tips returns every tip matching the category filter.
func (e *Engine) Tips(category string) []store.Tip {
	results := []store.Tip{}
	for _, t := range e.store.Tips() {
		if !matchFilter(category, t.Category) {
			continue
		}
		results = append(results, t)
	}
	return results
}

// TipsForFeature returns tips whose category, title, or tags mention the
// feature, case-insensitively.
func (e *Engine) TipsForFeature(feature string) []store.Tip {
	feature = strings.ToLower(feature)
	results := []store.Tip{}
	for _, t := range e.store.Tips() {
		if strings.Contains(strings.ToLower(t.Category), feature) ||
			strings.Contains(strings.ToLower(t.Title), feature) ||
			strings.Contains(strings.ToLower(strings.Join(t.Tags, " ")), feature) {
			results = append(results, t)
		}
	}
	return results
}

// NormalizeFeature canonicalizes a feature name the way governance entries
// are keyed: lowercase with hyphen separators.
func NormalizeFeature(feature string) string {
	f := strings.ToLower(strings.TrimSpace(feature))
	f = strings.ReplaceAll(f, " ", "-")
	f = strings.ReplaceAll(f, "_", "-")
	return f
}

// Governance finds the governance entry for a feature name. The name is
// normalized first; an exact feature-key match wins, then a substring
// match against feature keys, then a substring match against display
// names. Returns store.ErrNotFound when nothing matches.
func (e *Engine) Governance(feature string) (store.GovernanceEntry, error) {
	key := NormalizeFeature(feature)
	if key == "" {
		return store.GovernanceEntry{}, store.ErrNotFound
	}
	if entry, err := e.store.GovernanceEntry(key); err == nil {
		return entry, nil
	}
	for _, entry := range e.store.Governance() {
		if strings.Contains(entry.Feature, key) {
			return entry, nil
		}
	}
	for _, entry := range e.store.Governance() {
		if strings.Contains(strings.ToLower(entry.DisplayName), key) {
			return entry, nil
		}
	}
	return store.GovernanceEntry{}, store.ErrNotFound
}
