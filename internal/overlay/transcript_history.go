package overlay

import (
	"strings"
	"time"
)

// HistorySource names what produced a TranscriptHistory entry.
type HistorySource string

const (
	SourceVoice     HistorySource = "voice"
	SourcePtyInput  HistorySource = "pty_input"
	SourcePtyOutput HistorySource = "pty_output"
)

// HistoryEntry is one append-only transcript-history record: sequence
// number, source, text, and timestamp.
type HistoryEntry struct {
	Seq  int64
	Source HistorySource
	Text string
	At   time.Time
}

// TranscriptHistory is the append-only log plus the filter/selection state
// the overlay presents over it.
type TranscriptHistory struct {
	entries []HistoryEntry
	filter  string
	panel   *Panel
}

// NewTranscriptHistory opens the overlay over entries, unfiltered.
func NewTranscriptHistory(entries []HistoryEntry, visibleRows int) *TranscriptHistory {
	h := &TranscriptHistory{entries: entries}
	h.rebuild(visibleRows)
	return h
}

// Append records a new entry; the log is append-only and never mutated
// after write.
func (h *TranscriptHistory) Append(e HistoryEntry) {
	h.entries = append(h.entries, e)
	if h.panel != nil {
		h.rebuild(h.panel.VisibleRows)
	}
}

// SetFilter updates the substring filter (case-insensitive) and rebuilds
// the filtered index view.
func (h *TranscriptHistory) SetFilter(filter string, visibleRows int) {
	h.filter = filter
	h.rebuild(visibleRows)
}

func (h *TranscriptHistory) filtered() []HistoryEntry {
	if h.filter == "" {
		return h.entries
	}
	needle := strings.ToLower(h.filter)
	var out []HistoryEntry
	for _, e := range h.entries {
		if strings.Contains(strings.ToLower(e.Text), needle) {
			out = append(out, e)
		}
	}
	return out
}

func (h *TranscriptHistory) rebuild(visibleRows int) {
	matches := h.filtered()
	items := make([]Action, len(matches))
	for i, e := range matches {
		items[i] = Action{Label: string(e.Source), Detail: e.Text, Enabled: true}
	}
	h.panel = NewPanel(KindTranscriptHistory, items, visibleRows)
}

// Move advances the selected index.
func (h *TranscriptHistory) Move(direction int) { h.panel.Move(direction) }

// Panel exposes the shared list-style Panel.
func (h *TranscriptHistory) Panel() *Panel { return h.panel }

// Selected returns the currently-highlighted entry's text within the
// filtered view; Enter replays it as pending input.
func (h *TranscriptHistory) Selected() (HistoryEntry, bool) {
	matches := h.filtered()
	if h.panel == nil || h.panel.Cursor < 0 || h.panel.Cursor >= len(matches) {
		return HistoryEntry{}, false
	}
	return matches[h.panel.Cursor], true
}
