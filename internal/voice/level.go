package voice

import "math"

// Level is an (rms_db, peak_db) pair computed per frame.
type Level struct {
	RmsDB  float32
	PeakDB float32
}

// ComputeLevel derives RMS and peak dBFS from a frame of float32 samples in
// [-1, 1]. An empty frame reports -inf-clamped silence rather than NaN.
func ComputeLevel(samples []float32) Level {
	if len(samples) == 0 {
		return Level{RmsDB: RecommendedFloorDB, PeakDB: RecommendedFloorDB}
	}
	var sumSq float64
	var peak float32
	for _, s := range samples {
		sumSq += float64(s) * float64(s)
		abs := s
		if abs < 0 {
			abs = -abs
		}
		if abs > peak {
			peak = abs
		}
	}
	rms := math.Sqrt(sumSq / float64(len(samples)))
	return Level{
		RmsDB:  toDB(float32(rms)),
		PeakDB: toDB(peak),
	}
}

func toDB(amplitude float32) float32 {
	if amplitude <= 0 {
		return RecommendedFloorDB
	}
	db := float32(20.0 * math.Log10(float64(amplitude)))
	return clamp(db, RecommendedFloorDB, RecommendedCeilingDB)
}

// LevelHistory is a lazy-capped sequence of recent Levels, bounded to the
// HUD sparkline width. Owned exclusively by the voice manager; the HUD
// reads a cloned copy.
type LevelHistory struct {
	items []Level
	width int
}

// NewLevelHistory creates a history capped at width entries.
func NewLevelHistory(width int) *LevelHistory {
	if width < 1 {
		width = 1
	}
	return &LevelHistory{width: width}
}

// Push appends l, evicting the oldest entry once at capacity.
func (h *LevelHistory) Push(l Level) {
	h.items = append(h.items, l)
	if len(h.items) > h.width {
		h.items = h.items[len(h.items)-h.width:]
	}
}

// Snapshot returns an independent copy of the buffered history, safe for
// the HUD meter to hold without aliasing the manager's internal slice.
func (h *LevelHistory) Snapshot() []Level {
	out := make([]Level, len(h.items))
	copy(out, h.items)
	return out
}
