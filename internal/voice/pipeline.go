package voice

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// Pipeline runs a long-lived external process (the "Python fallback") that
// speaks newline-delimited JSON over stdin/stdout: one request line in, one
// response line out, in order. It is shared by PipelineVAD and
// PipelineTranscriber since both are just different request/response
// shapes over the same subprocess contract.
//
// The pipeline never fails closed: once the subprocess dies or a write/read
// errors, every subsequent call returns the engine's safe default (Uncertain
// for VAD, an error for transcription) rather than panicking or blocking.
type Pipeline struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	scanner *bufio.Scanner
	dead    bool
}

// pipelineRequest is the line written to the subprocess's stdin.
type pipelineRequest struct {
	Op      string    `json:"op"`
	Samples []float32 `json:"samples"`
	SampleRate int    `json:"sample_rate,omitempty"`
}

// pipelineResponse is the line read back from the subprocess's stdout.
type pipelineResponse struct {
	Decision string `json:"decision,omitempty"`
	Text     string `json:"text,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewPipeline starts the argv command line, wiring its stdin/stdout as the
// request/response channel. The process's stderr is left connected to
// nothing (discarded) since diagnostics aren't part of the contract.
func NewPipeline(argv []string) (*Pipeline, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("pipeline: empty command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("pipeline: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipeline: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("pipeline: start: %w", err)
	}
	return &Pipeline{
		cmd:     cmd,
		stdin:   stdin,
		scanner: bufio.NewScanner(stdout),
	}, nil
}

// Close terminates the subprocess and releases its pipes.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dead = true
	_ = p.stdin.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	return p.cmd.Wait()
}

// call writes req as a JSON line and reads the next JSON-line response. Any
// failure marks the pipeline dead: subsequent calls short-circuit with an
// error rather than retrying a broken process.
func (p *Pipeline) call(req pipelineRequest) (pipelineResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dead {
		return pipelineResponse{}, fmt.Errorf("pipeline: process unavailable")
	}

	line, err := json.Marshal(req)
	if err != nil {
		return pipelineResponse{}, fmt.Errorf("pipeline: encode request: %w", err)
	}
	if _, err := p.stdin.Write(append(line, '\n')); err != nil {
		p.dead = true
		return pipelineResponse{}, fmt.Errorf("pipeline: write: %w", err)
	}
	if !p.scanner.Scan() {
		p.dead = true
		if err := p.scanner.Err(); err != nil {
			return pipelineResponse{}, fmt.Errorf("pipeline: read: %w", err)
		}
		return pipelineResponse{}, fmt.Errorf("pipeline: process closed stdout")
	}
	var resp pipelineResponse
	if err := json.Unmarshal(p.scanner.Bytes(), &resp); err != nil {
		return pipelineResponse{}, fmt.Errorf("pipeline: decode response: %w", err)
	}
	if resp.Error != "" {
		return pipelineResponse{}, fmt.Errorf("pipeline: %s", resp.Error)
	}
	return resp, nil
}

// PipelineVAD adapts a Pipeline to the VadEngine capability interface.
type PipelineVAD struct {
	p *Pipeline
}

// NewPipelineVAD wraps p as a VadEngine.
func NewPipelineVAD(p *Pipeline) *PipelineVAD { return &PipelineVAD{p: p} }

// ProcessFrame implements VadEngine. On any pipeline failure it returns
// Uncertain rather than propagating an error, per the fail-open contract.
func (v *PipelineVAD) ProcessFrame(samples []float32) Decision {
	resp, err := v.p.call(pipelineRequest{Op: "vad", Samples: samples})
	if err != nil {
		return Uncertain
	}
	switch resp.Decision {
	case "speech":
		return Speech
	case "silence":
		return Silence
	default:
		return Uncertain
	}
}

// Reset is a no-op: statelessness between utterances is the subprocess's
// responsibility, not this adapter's.
func (v *PipelineVAD) Reset() {}

// PipelineTranscriber adapts a Pipeline to the Transcriber capability
// interface.
type PipelineTranscriber struct {
	p *Pipeline
}

// NewPipelineTranscriber wraps p as a Transcriber.
func NewPipelineTranscriber(p *Pipeline) *PipelineTranscriber {
	return &PipelineTranscriber{p: p}
}

// Transcribe implements Transcriber by round-tripping samples through the
// subprocess.
func (t *PipelineTranscriber) Transcribe(samples []float32, sampleRate int) (string, error) {
	resp, err := t.p.call(pipelineRequest{Op: "transcribe", Samples: samples, SampleRate: sampleRate})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
