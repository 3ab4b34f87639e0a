package prompt

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsReadyOnRegexMatch(t *testing.T) {
	tr := New(Config{Regex: regexp.MustCompile(`\$ $`)})
	now := time.Now()
	tr.ObserveOutput([]byte("codex$ "), now)
	assert.True(t, tr.IsReady(now))
}

func TestIsReadyOnIdleThreshold(t *testing.T) {
	tr := New(Config{IdleThreshold: 50 * time.Millisecond})
	now := time.Now()
	tr.ObserveOutput([]byte("working..."), now)
	assert.False(t, tr.IsReady(now))
	assert.True(t, tr.IsReady(now.Add(100*time.Millisecond)))
}

func TestIsReadyMatchBeforeSubmissionDoesNotReFire(t *testing.T) {
	tr := New(Config{Regex: regexp.MustCompile(`> $`), IdleThreshold: time.Hour})
	base := time.Now()
	tr.ObserveOutput([]byte("> "), base)
	require.True(t, tr.IsReady(base))

	tr.ObserveSubmit(base.Add(time.Millisecond))
	assert.False(t, tr.IsReady(base.Add(2*time.Millisecond)))
}

func TestResolveRegexPrecedence(t *testing.T) {
	re, autoLearn, err := ResolveRegex(`^codex> $`, "")
	require.NoError(t, err)
	require.NotNil(t, re)
	assert.False(t, autoLearn)

	re, autoLearn, err = ResolveRegex("", `^> $`)
	require.NoError(t, err)
	require.NotNil(t, re)
	assert.True(t, autoLearn)

	re, autoLearn, err = ResolveRegex("", "")
	require.NoError(t, err)
	assert.Nil(t, re)
	assert.True(t, autoLearn)
}

func TestResolveRegexRejectsInvalid(t *testing.T) {
	_, _, err := ResolveRegex("[", "")
	require.Error(t, err)
}
