package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := New(dir, zerolog.Nop())
	require.NoError(t, err)
	return s
}

type payload struct {
	Ticker string  `json:"ticker"`
	Score  float64 `json:"score"`
}

func TestWriteThenRead(t *testing.T) {
	s := newTestStore(t)
	want := payload{Ticker: "NVDA", Score: 91.5}

	require.NoError(t, s.Write("ranking.json", want))

	var got payload
	s.Read("ranking.json", &got)
	assert.Equal(t, want, got)
}

func TestReadMissingReturnsZeroValue(t *testing.T) {
	s := newTestStore(t)
	var got payload
	s.Read("missing.json", &got)
	assert.Equal(t, payload{}, got)
}

func TestReadMalformedDoesNotPanic(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.baseDir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var got payload
	assert.NotPanics(t, func() {
		s.Read("bad.json", &got)
	})
	assert.Equal(t, payload{}, got)
}

func TestPathTraversalRejected(t *testing.T) {
	s := newTestStore(t)
	err := s.Write("../escape.json", payload{Ticker: "X"})
	assert.Error(t, err)

	err = s.Write("sub/dir.json", payload{Ticker: "X"})
	assert.Error(t, err)

	var got payload
	s.Read("../escape.json", &got)
	assert.Equal(t, payload{}, got)
}

func TestExists(t *testing.T) {
	s := newTestStore(t)
	assert.False(t, s.Exists("artifact.json"))
	require.NoError(t, s.Write("artifact.json", payload{Ticker: "X"}))
	assert.True(t, s.Exists("artifact.json"))
}

func TestAgeSecondsAndIsStale(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Write("artifact.json", payload{Ticker: "X"}))

	assert.Less(t, s.AgeSeconds("artifact.json"), 5.0)
	assert.False(t, s.IsStale("artifact.json", time.Hour))
	assert.True(t, s.IsStale("artifact.json", time.Nanosecond))
	assert.True(t, s.IsStale("missing.json", time.Hour))
}

func TestListExcludesTempFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Write("a.json", payload{Ticker: "A"}))
	require.NoError(t, s.Write("b.json", payload{Ticker: "B"}))

	names, err := s.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.json", "b.json"}, names)
}

func TestDeleteMissingIsNotAnError(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Delete("nope.json"))
}

func TestDeleteRemovesArtifact(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Write("a.json", payload{Ticker: "A"}))
	require.NoError(t, s.Delete("a.json"))
	assert.False(t, s.Exists("a.json"))
}

func TestWriteIsAtomic(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Write("a.json", payload{Ticker: "FIRST"}))
	require.NoError(t, s.Write("a.json", payload{Ticker: "SECOND"}))

	var got payload
	s.Read("a.json", &got)
	assert.Equal(t, "SECOND", got.Ticker)

	entries, err := os.ReadDir(s.baseDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPathResolvesWithinBaseDir(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, filepath.Join(s.baseDir, "log.jsonl"), s.Path("log.jsonl"))
	assert.Equal(t, "", s.Path("../escape.jsonl"))
}
