package wakeword

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fixedDetector struct{ hit bool }

func (d fixedDetector) Detect(samples []float32) bool { return d.hit }
func (d fixedDetector) Reset()                        {}

func TestListenerFiresOnDetect(t *testing.T) {
	l := New(fixedDetector{hit: true}, time.Second)
	l.Feed(nil, time.Now())

	select {
	case <-l.Events():
	default:
		t.Fatal("expected a wake event")
	}
}

func TestListenerRespectsCooldown(t *testing.T) {
	l := New(fixedDetector{hit: true}, time.Second)
	now := time.Now()
	l.Feed(nil, now)
	<-l.Events()

	l.Feed(nil, now.Add(100*time.Millisecond))
	select {
	case <-l.Events():
		t.Fatal("expected no event within the cooldown window")
	default:
	}

	l.Feed(nil, now.Add(2*time.Second))
	select {
	case <-l.Events():
	default:
		t.Fatal("expected an event once the cooldown elapsed")
	}
}

func TestListenerPauseSuppressesDetection(t *testing.T) {
	l := New(fixedDetector{hit: true}, time.Millisecond)
	l.Pause()
	l.Feed(nil, time.Now())
	select {
	case <-l.Events():
		t.Fatal("expected no event while paused")
	default:
	}

	l.Resume()
	l.Feed(nil, time.Now())
	select {
	case <-l.Events():
	default:
		t.Fatal("expected an event after resume")
	}
}

func TestNormalizeForHotwordMatch(t *testing.T) {
	assert.Equal(t, "hey codex", NormalizeForHotwordMatch("Hey, Codex!!"))
	assert.Equal(t, "", NormalizeForHotwordMatch("   "))
}

func TestCanonicalizeHotwordTokensMergesSplitCodex(t *testing.T) {
	got := CanonicalizeHotwordTokens([]string{"hey", "code", "x"})
	assert.Equal(t, []string{"hey", "codex"}, got)
}

func TestCanonicalizeHotwordTokensRewritesAliases(t *testing.T) {
	got := CanonicalizeHotwordTokens([]string{"kodak"})
	assert.Equal(t, []string{"codex"}, got)
}

func TestContainsHotwordPhrase(t *testing.T) {
	assert.True(t, ContainsHotwordPhrase("okay, let's go hey codex please"))
	assert.True(t, ContainsHotwordPhrase("VoiceTerm wake up"))
	assert.False(t, ContainsHotwordPhrase("just some ordinary text"))
}
