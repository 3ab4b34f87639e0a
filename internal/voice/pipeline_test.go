package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoScript is a minimal stand-in subprocess: for every request line, it
// emits one canned response line, exercising the pipeline's line-delimited
// JSON contract without depending on a real STT/VAD binary being installed.
const echoScript = `while IFS= read -r line; do printf '{"decision":"speech","text":"hello"}\n'; done`

func newEchoPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewPipeline([]string{"sh", "-c", echoScript})
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestPipelineVADRoundTrip(t *testing.T) {
	p := newEchoPipeline(t)
	vad := NewPipelineVAD(p)
	assert.Equal(t, Speech, vad.ProcessFrame([]float32{0.1, 0.2}))
}

func TestPipelineTranscriberRoundTrip(t *testing.T) {
	p := newEchoPipeline(t)
	tr := NewPipelineTranscriber(p)
	text, err := tr.Transcribe([]float32{0.1, 0.2}, 16000)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestNewPipelineRejectsEmptyCommand(t *testing.T) {
	_, err := NewPipeline(nil)
	assert.Error(t, err)
}

func TestPipelineVADFailsOpenOnDeadProcess(t *testing.T) {
	p, err := NewPipeline([]string{"sh", "-c", "exit 0"})
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	vad := NewPipelineVAD(p)
	// The subprocess exits immediately, so the first call should observe a
	// closed pipe and fail open rather than panicking.
	assert.Equal(t, Uncertain, vad.ProcessFrame([]float32{0.1}))
}

func TestPipelineCallAfterCloseIsError(t *testing.T) {
	p := newEchoPipeline(t)
	require.NoError(t, p.Close())
	_, err := p.call(pipelineRequest{Op: "vad"})
	assert.Error(t, err)
}
