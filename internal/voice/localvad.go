package voice

import "math"

// ThresholdVAD is the local VAD engine: a threshold-to-profile mapping over
// each frame's RMS level in dBFS. It satisfies VadEngine directly, with no
// external process involved, and is the default engine unless a pipeline
// fallback is configured.
type ThresholdVAD struct {
	thresholdDB float32
}

// NewThresholdVAD constructs a ThresholdVAD activating at thresholdDB,
// typically the output of RecommendThreshold.
func NewThresholdVAD(thresholdDB float32) *ThresholdVAD {
	return &ThresholdVAD{thresholdDB: thresholdDB}
}

// ProcessFrame classifies samples by comparing their RMS level in dBFS
// against the configured threshold. An empty frame is always Silence.
func (v *ThresholdVAD) ProcessFrame(samples []float32) Decision {
	if len(samples) == 0 {
		return Silence
	}
	level := RMSDB(samples)
	if level >= v.thresholdDB {
		return Speech
	}
	return Silence
}

// Reset is a no-op: ThresholdVAD carries no per-utterance state.
func (v *ThresholdVAD) Reset() {}

// RMSDB computes the root-mean-square level of samples in dBFS, clamped at
// -120 dB for silence (avoids -Inf from log of zero).
func RMSDB(samples []float32) float32 {
	if len(samples) == 0 {
		return -120.0
	}
	var sumSq float64
	for _, s := range samples {
		sumSq += float64(s) * float64(s)
	}
	rms := math.Sqrt(sumSq / float64(len(samples)))
	if rms <= 0 {
		return -120.0
	}
	db := 20.0 * math.Log10(rms)
	if db < -120.0 {
		db = -120.0
	}
	return float32(db)
}
