package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDataset writes one dataset file into dir.
func writeDataset(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// writeFixtures writes a minimal but complete data directory.
func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeDataset(t, dir, bestPracticesFile, `[
		{"id": "bp-1", "title": "First practice", "category": "topics", "difficulty": "beginner", "tags": ["topics"]},
		{"id": "bp-2", "title": "Second practice", "category": "connectors", "difficulty": "advanced", "tags": ["connectors"]}
	]`)
	writeDataset(t, dir, snippetsFile, `[
		{"id": "snip-1", "title": "Format date", "language": "power-fx", "category": "formatting", "code": "Text(Now())"}
	]`)
	writeDataset(t, dir, troubleshootingFile, `[
		{"id": "ts-1", "title": "Topic not firing", "category": "topics",
		 "symptoms": ["fallback fires"], "causes": ["overlap"],
		 "steps": [{"step": 1, "action": "check triggers", "details": "look for overlap"}]}
	]`)
	writeDataset(t, dir, tipsFile, `[
		{"id": "tip-1", "title": "Use the tracking panel", "category": "testing", "tip": "Open it"}
	]`)
	writeDataset(t, dir, governanceFile, `[
		{"feature": "http-connector", "display_name": "HTTP Connector", "minimum_zone": "yellow",
		 "zones": {"green": {"available": false, "reason": "not allowed"}, "yellow": {"available": true}}}
	]`)

	return dir
}

func TestLoad(t *testing.T) {
	s, err := Load(writeFixtures(t))
	require.NoError(t, err)

	assert.Len(t, s.BestPractices(), 2)
	assert.Len(t, s.Snippets(), 1)
	assert.Len(t, s.Troubleshooting(), 1)
	assert.Len(t, s.Tips(), 1)
	assert.Len(t, s.Governance(), 1)

	// Collections keep file order.
	assert.Equal(t, "bp-1", s.BestPractices()[0].ID)
	assert.Equal(t, "bp-2", s.BestPractices()[1].ID)
}

func TestLoadMissingFile(t *testing.T) {
	dir := writeFixtures(t)
	require.NoError(t, os.Remove(filepath.Join(dir, tipsFile)))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), tipsFile)
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := writeFixtures(t)
	writeDataset(t, dir, snippetsFile, `{"not": "an array"`)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), snippetsFile)
}

func TestLoadDuplicateID(t *testing.T) {
	dir := writeFixtures(t)
	writeDataset(t, dir, bestPracticesFile, `[
		{"id": "bp-1", "title": "One"},
		{"id": "bp-1", "title": "Two"}
	]`)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate id "bp-1"`)
}

func TestLoadEmptyID(t *testing.T) {
	dir := writeFixtures(t)
	writeDataset(t, dir, tipsFile, `[{"id": "", "title": "No id"}]`)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty id")
}

func TestLookups(t *testing.T) {
	s, err := Load(writeFixtures(t))
	require.NoError(t, err)

	bp, err := s.BestPractice("bp-2")
	require.NoError(t, err)
	assert.Equal(t, "Second practice", bp.Title)

	sn, err := s.Snippet("snip-1")
	require.NoError(t, err)
	assert.Equal(t, "power-fx", sn.Language)

	g, err := s.TroubleshootingGuide("ts-1")
	require.NoError(t, err)
	require.Len(t, g.Steps, 1)
	assert.Equal(t, 1, g.Steps[0].Step)

	tip, err := s.Tip("tip-1")
	require.NoError(t, err)
	assert.Equal(t, "testing", tip.Category)

	entry, err := s.GovernanceEntry("http-connector")
	require.NoError(t, err)
	assert.Equal(t, "yellow", entry.MinimumZone)
	assert.False(t, entry.Zones["green"].Available)
}

func TestLookupNotFound(t *testing.T) {
	s, err := Load(writeFixtures(t))
	require.NoError(t, err)

	_, err = s.BestPractice("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Snippet("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.TroubleshootingGuide("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Tip("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GovernanceEntry("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCounts(t *testing.T) {
	s, err := Load(writeFixtures(t))
	require.NoError(t, err)

	counts := s.Counts()
	assert.Equal(t, 2, counts["best_practices"])
	assert.Equal(t, 1, counts["snippets"])
	assert.Equal(t, 1, counts["troubleshooting"])
	assert.Equal(t, 1, counts["tips"])
	assert.Equal(t, 1, counts["governance"])
}
