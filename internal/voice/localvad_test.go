package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRMSDBEmptyFrameIsFloor(t *testing.T) {
	assert.Equal(t, float32(-120.0), RMSDB(nil))
}

func TestRMSDBSilentFrameIsFloor(t *testing.T) {
	assert.Equal(t, float32(-120.0), RMSDB([]float32{0, 0, 0, 0}))
}

func TestRMSDBFullScaleIsZero(t *testing.T) {
	assert.InDelta(t, 0.0, RMSDB([]float32{1, -1, 1, -1}), 0.01)
}

func TestRMSDBNeverExceedsFullScale(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(rt, "n")
		samples := make([]float32, n)
		for i := range samples {
			samples[i] = float32(rapid.Float64Range(-1, 1).Draw(rt, "sample"))
		}
		if db := RMSDB(samples); db > 0.5 {
			rt.Fatalf("RMSDB %f exceeds full scale", db)
		}
	})
}

func TestThresholdVADEmptyFrameIsSilence(t *testing.T) {
	v := NewThresholdVAD(-30)
	assert.Equal(t, Silence, v.ProcessFrame(nil))
}

func TestThresholdVADLoudFrameIsSpeech(t *testing.T) {
	v := NewThresholdVAD(-30)
	loud := make([]float32, 32)
	for i := range loud {
		loud[i] = 0.9
	}
	assert.Equal(t, Speech, v.ProcessFrame(loud))
}

func TestThresholdVADQuietFrameIsSilence(t *testing.T) {
	v := NewThresholdVAD(-10)
	quiet := make([]float32, 32)
	for i := range quiet {
		quiet[i] = 0.001
	}
	assert.Equal(t, Silence, v.ProcessFrame(quiet))
}

func TestThresholdVADResetIsNoop(t *testing.T) {
	v := NewThresholdVAD(-30)
	v.Reset()
	assert.Equal(t, Silence, v.ProcessFrame(nil))
}
