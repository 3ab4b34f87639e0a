package memory

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAppendAndReadAllRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	s, err := Open(path)
	require.NoError(t, err)

	e1 := NewEvent("sess-1", 1, EventTranscript, "voice", "hello", time.Now())
	e2 := NewEvent("sess-1", 2, EventAction, "", "ran status", time.Now())
	require.NoError(t, s.Append(e1))
	require.NoError(t, s.Append(e2))
	require.NoError(t, s.Close())

	got, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hello", got[0].Text)
	assert.Equal(t, "ran status", got[1].Text)
}

func TestReadAllMissingFileReturnsNil(t *testing.T) {
	got, err := ReadAll(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadAllSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(NewEvent("sess-1", 1, EventTranscript, "voice", "good", time.Now())))
	require.NoError(t, s.Close())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "good", got[0].Text)
}

func TestStoreRotatesWhenOverThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	s, err := Open(path)
	require.NoError(t, err)
	s.bytes = maxFileBytes

	require.NoError(t, s.Append(NewEvent("sess-1", 1, EventTranscript, "voice", "after rotation", time.Now())))
	require.NoError(t, s.Close())

	rotated := rotatedPath(path, 1)
	_, statErr := os.Stat(rotated)
	assert.NoError(t, statErr)

	got, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "after rotation", got[0].Text)
}

func TestEventValid(t *testing.T) {
	e := NewEvent("sess-1", 1, EventTranscript, "voice", "hi", time.Now())
	assert.True(t, e.Valid())

	missingText := e
	missingText.Text = ""
	assert.False(t, missingText.Valid())
}
