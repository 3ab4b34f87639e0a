package sessionmemory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesHeaderOnFreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.md")
	l, err := New(path, "codex", "/tmp/proj")
	require.NoError(t, err)
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(b)
	assert.Contains(t, content, "# VoiceTerm Session Memory")
	assert.Contains(t, content, "backend: codex")
	assert.Contains(t, content, "cwd: /tmp/proj")
}

func TestNewAppendsBannerOnlyOnExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.md")
	l1, err := New(path, "codex", "/tmp/proj")
	require.NoError(t, err)
	require.NoError(t, l1.Close())

	l2, err := New(path, "claude", "/tmp/proj2")
	require.NoError(t, err)
	require.NoError(t, l2.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(b)
	assert.Equal(t, 1, strings.Count(content, "# VoiceTerm Session Memory"))
	assert.Contains(t, content, "backend: claude")
}

func TestRecordUserInputDropsChunksWithEscapeByte(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.md")
	l, err := New(path, "codex", "/tmp")
	require.NoError(t, err)

	l.RecordUserInput([]byte("\x1b[A"))
	l.RecordUserInput([]byte("hello\n"))
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(b)
	assert.Contains(t, content, "- [user] hello")
	assert.NotContains(t, content, "\x1b")
}

func TestRecordBackendOutputFlushesOnNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.md")
	l, err := New(path, "codex", "/tmp")
	require.NoError(t, err)

	l.RecordBackendOutput([]byte("partial"))
	l.RecordBackendOutput([]byte(" line\n"))
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "- [assistant] partial line")
}

func TestFlushPendingWritesUnterminatedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.md")
	l, err := New(path, "codex", "/tmp")
	require.NoError(t, err)

	l.RecordUserInput([]byte("no newline yet"))
	l.FlushPending()
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "- [user] no newline yet")
}

func TestSanitizeTruncatesLongLines(t *testing.T) {
	long := strings.Repeat("a", MaxLineRunes+50)
	got := Sanitize(long)
	assert.True(t, strings.HasSuffix(got, truncatedMarker))
	assert.Len(t, []rune(strings.TrimSuffix(got, " "+truncatedMarker)), MaxLineRunes)
}

func TestSanitizeStripsControlCharacters(t *testing.T) {
	got := Sanitize("hi\x07there")
	assert.Equal(t, "hithere", got)
}
