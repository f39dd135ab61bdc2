// Package store holds the in-memory knowledge base collections.
//
// All collections are loaded exactly once at startup and never mutated
// afterwards, so concurrent reads need no locking. Any load failure is
// fatal: the caller must not serve traffic with a partially loaded store.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no record matches the requested id or feature.
var ErrNotFound = errors.New("record not found")

// Dataset file names expected inside the data directory.
const (
	bestPracticesFile   = "best_practices.json"
	snippetsFile        = "snippets.json"
	troubleshootingFile = "troubleshooting.json"
	tipsFile            = "tips.json"
	governanceFile      = "governance.json"
)

// Store provides indexed, read-only access to the knowledge base.
type Store struct {
	bestPractices   []BestPractice
	snippets        []Snippet
	troubleshooting []TroubleshootingGuide
	tips            []Tip
	governance      []GovernanceEntry

	bestPracticeByID    map[string]int
	snippetByID         map[string]int
	troubleshootingByID map[string]int
	tipByID             map[string]int
	governanceByFeature map[string]int
}

// Load reads all dataset files from dir and builds the id indexes.
//
// Every file must exist, parse, and contain unique ids within its
// collection; otherwise Load returns an error and the store must be
// considered unusable.
func Load(dir string) (*Store, error) {
	s := &Store{}

	if err := loadFile(dir, bestPracticesFile, &s.bestPractices); err != nil {
		return nil, err
	}
	if err := loadFile(dir, snippetsFile, &s.snippets); err != nil {
		return nil, err
	}
	if err := loadFile(dir, troubleshootingFile, &s.troubleshooting); err != nil {
		return nil, err
	}
	if err := loadFile(dir, tipsFile, &s.tips); err != nil {
		return nil, err
	}
	if err := loadFile(dir, governanceFile, &s.governance); err != nil {
		return nil, err
	}

	var err error
	if s.bestPracticeByID, err = indexByID(bestPracticesFile, s.bestPractices, func(r BestPractice) string { return r.ID }); err != nil {
		return nil, err
	}
	if s.snippetByID, err = indexByID(snippetsFile, s.snippets, func(r Snippet) string { return r.ID }); err != nil {
		return nil, err
	}
	if s.troubleshootingByID, err = indexByID(troubleshootingFile, s.troubleshooting, func(r TroubleshootingGuide) string { return r.ID }); err != nil {
		return nil, err
	}
	if s.tipByID, err = indexByID(tipsFile, s.tips, func(r Tip) string { return r.ID }); err != nil {
		return nil, err
	}
	if s.governanceByFeature, err = indexByID(governanceFile, s.governance, func(r GovernanceEntry) string { return r.Feature }); err != nil {
		return nil, err
	}

	return s, nil
}

func loadFile[T any](dir, name string, out *[]T) error {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dataset %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return nil
}

func indexByID[T any](file string, records []T, key func(T) string) (map[string]int, error) {
	idx := make(map[string]int, len(records))
	for i, r := range records {
		id := key(r)
		if id == "" {
			return nil, fmt.Errorf("dataset %s: record %d has empty id", file, i)
		}
		if _, dup := idx[id]; dup {
			return nil, fmt.Errorf("dataset %s: duplicate id %q", file, id)
		}
		idx[id] = i
	}
	return idx, nil
}

// BestPractices returns all best practices in file order.
func (s *Store) BestPractices() []BestPractice { return s.bestPractices }

// Snippets returns all snippets in file order.
func (s *Store) Snippets() []Snippet { return s.snippets }

// Troubleshooting returns all troubleshooting guides in file order.
func (s *Store) Troubleshooting() []TroubleshootingGuide { return s.troubleshooting }

// Tips returns all tips in file order.
func (s *Store) Tips() []Tip { return s.tips }

// Governance returns all governance entries in file order.
func (s *Store) Governance() []GovernanceEntry { return s.governance }

// BestPractice looks up a best practice by id.
func (s *Store) BestPractice(id string) (BestPractice, error) {
	if i, ok := s.bestPracticeByID[id]; ok {
		return s.bestPractices[i], nil
	}
	return BestPractice{}, fmt.Errorf("best practice %q: %w", id, ErrNotFound)
}

// Snippet looks up a snippet by id.
func (s *Store) Snippet(id string) (Snippet, error) {
	if i, ok := s.snippetByID[id]; ok {
		return s.snippets[i], nil
	}
	return Snippet{}, fmt.Errorf("snippet %q: %w", id, ErrNotFound)
}

// TroubleshootingGuide looks up a troubleshooting guide by id.
func (s *Store) TroubleshootingGuide(id string) (TroubleshootingGuide, error) {
	if i, ok := s.troubleshootingByID[id]; ok {
		return s.troubleshooting[i], nil
	}
	return TroubleshootingGuide{}, fmt.Errorf("troubleshooting guide %q: %w", id, ErrNotFound)
}

// Tip looks up a tip by id.
func (s *Store) Tip(id string) (Tip, error) {
	if i, ok := s.tipByID[id]; ok {
		return s.tips[i], nil
	}
	return Tip{}, fmt.Errorf("tip %q: %w", id, ErrNotFound)
}

// GovernanceEntry looks up a governance entry by its canonical feature key.
func (s *Store) GovernanceEntry(feature string) (GovernanceEntry, error) {
	if i, ok := s.governanceByFeature[feature]; ok {
		return s.governance[i], nil
	}
	return GovernanceEntry{}, fmt.Errorf("governance entry %q: %w", feature, ErrNotFound)
}

// Counts returns the number of records per collection, for startup logging
// and the health endpoint.
func (s *Store) Counts() map[string]int {
	return map[string]int{
		"best_practices":  len(s.bestPractices),
		"snippets":        len(s.snippets),
		"troubleshooting": len(s.troubleshooting),
		"tips":            len(s.tips),
		"governance":      len(s.governance),
	}
}
