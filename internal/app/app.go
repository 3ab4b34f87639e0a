// Package app wires every package into one running overlay: it owns the
// PTY session, the writer goroutine, the voice/wake-word pipelines, the
// prompt tracker, the transcript queue, the overlay stack, and the event
// loop that arbitrates between them.
package app

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/shlex"
	"golang.org/x/term"

	"github.com/csheth/voiceterm/internal/backend"
	"github.com/csheth/voiceterm/internal/config"
	"github.com/csheth/voiceterm/internal/devbroker"
	"github.com/csheth/voiceterm/internal/eventloop"
	"github.com/csheth/voiceterm/internal/input"
	"github.com/csheth/voiceterm/internal/memory"
	"github.com/csheth/voiceterm/internal/onboarding"
	"github.com/csheth/voiceterm/internal/overlay"
	"github.com/csheth/voiceterm/internal/prompt"
	"github.com/csheth/voiceterm/internal/ptysession"
	"github.com/csheth/voiceterm/internal/sessionmemory"
	"github.com/csheth/voiceterm/internal/theme"
	"github.com/csheth/voiceterm/internal/transcript"
	"github.com/csheth/voiceterm/internal/voice"
	"github.com/csheth/voiceterm/internal/wakeword"
	"github.com/csheth/voiceterm/internal/writer"
)

// minRows is the smallest terminal height the overlay will run in: one
// status row plus at least a couple rows of wrapped-CLI screen.
const minRows = 4

// App owns every long-lived piece of state for one VoiceTerm run and the
// goroutines reading/writing them. Construct with New, then call Run.
type App struct {
	cfg    config.AppConfig
	runner backend.JobRunner

	session *ptysession.Session
	writer  *writer.Writer
	guard   *writer.RestoreGuard

	writerMsgs  chan writer.Message
	ptyOutputCh chan []byte
	inputRdr    *input.Reader

	voiceMgr *voice.Manager
	wake     *wakeword.Listener
	dev      devbroker.Broker

	promptTracker *prompt.Tracker
	queue         *transcript.Queue
	macros        transcript.MacroTable

	memStore *memory.Store
	sessMem  *sessionmemory.Logger

	history *overlay.TranscriptHistory
	toasts  *overlay.ToastHistory

	sessionID  string
	loop       *eventloop.Loop
	statusStop chan struct{}
}

// New resolves the backend and constructs every subsystem New, wired but
// not yet started: Run spawns goroutines and blocks.
func New(cfg config.AppConfig) (*App, error) {
	runner, err := backend.Resolve(cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("resolve backend: %w", err)
	}

	a := &App{
		cfg:       cfg,
		runner:    runner,
		sessionID: fmt.Sprintf("%s-%d", runner.Name(), os.Getpid()),
	}

	if err := a.setupTheme(); err != nil {
		return nil, err
	}
	if err := a.setupOptionalStores(); err != nil {
		return nil, err
	}
	a.setupVoice()
	a.setupPrompt()

	macros, err := config.LoadMacroTable(config.MacroTablePath())
	if err != nil {
		return nil, fmt.Errorf("load macro table: %w", err)
	}
	a.macros = macros
	a.queue = transcript.NewQueue(32)
	a.toasts = overlay.NewToastHistory(64)
	a.history = overlay.NewTranscriptHistory(nil, 1)

	return a, nil
}

func (a *App) setupTheme() error {
	if a.cfg.NoColor {
		os.Setenv("NO_COLOR", "1")
	}
	sp, err := theme.LoadStylePackEnv()
	if err != nil {
		return fmt.Errorf("load style pack: %w", err)
	}
	if sp != nil {
		theme.SetOverrides(sp)
	}
	return nil
}

// memoryStorePath is the fixed project-relative location of the
// append-only action-audit log, rotated at 10 MB by internal/memory.
func memoryStorePath() string {
	return filepath.Join(currentDir(), ".voiceterm", "memory", "events.jsonl")
}

func (a *App) setupOptionalStores() error {
	if os.Getenv("VOICETERM_MEMORY_LOG") != "" {
		mem, err := memory.Open(memoryStorePath())
		if err != nil {
			return fmt.Errorf("open memory store: %w", err)
		}
		a.memStore = mem
	}
	if path := os.Getenv("VOICETERM_SESSION_MEMORY_PATH"); path != "" {
		logger, err := sessionmemory.New(path, config.ResolveBackendLabel(a.cfg.BackendLabel, a.runner), currentDir())
		if err != nil {
			return fmt.Errorf("open session memory: %w", err)
		}
		a.sessMem = logger
	}
	return nil
}

func currentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

func (a *App) setupVoice() {
	captureCfg := voice.DefaultConfig()
	threshold, _ := voice.RecommendThreshold(-45.0, -20.0)
	engine := voice.VadEngine(voice.NewThresholdVAD(threshold))
	var transcriber voice.Transcriber = noopTranscriber{}

	if line := os.Getenv("VOICETERM_VOICE_PIPELINE_COMMAND"); line != "" {
		if argv, err := shlex.Split(line); err == nil && len(argv) > 0 {
			if pipe, err := voice.NewPipeline(argv); err == nil {
				engine = voice.NewPipelineVAD(pipe)
				transcriber = voice.NewPipelineTranscriber(pipe)
			}
		}
	}

	a.voiceMgr = voice.NewManager(voice.ManagerConfig{
		Capture:      captureCfg,
		Engine:       engine,
		Transcriber:  transcriber,
		SttTimeoutMs: 8000,
		AutoCooldown: time.Duration(a.cfg.AutoVoiceIdleMs) * time.Millisecond,
		WakeCooldown: time.Duration(a.cfg.WakeWordCooldownMs) * time.Millisecond,
		ResultsCap:   64,
	})

	if a.cfg.WakeWord {
		sensitivityDB := float32(-45.0 + (1.0-a.cfg.WakeWordSensitivity)*15.0)
		detector := newLevelDetector(sensitivityDB)
		a.wake = wakeword.New(detector, time.Duration(a.cfg.WakeWordCooldownMs)*time.Millisecond)
	}

	if a.cfg.DevMode {
		a.dev = devbroker.NewLocalBroker()
	}
}

// levelDetector is the default wake-word Detector when no external
// hotword-spotting pipeline is configured: it treats any frame louder
// than thresholdDB as a hit, relying on the manager's cooldown gating to
// keep it from re-firing continuously while the user is simply talking
// to the wrapped CLI's own output.
type levelDetector struct {
	thresholdDB float32
}

func newLevelDetector(thresholdDB float32) *levelDetector {
	return &levelDetector{thresholdDB: thresholdDB}
}

func (d *levelDetector) Detect(samples []float32) bool {
	return voice.RMSDB(samples) >= d.thresholdDB
}

func (d *levelDetector) Reset() {}

// noopTranscriber satisfies voice.Transcriber when no external STT
// pipeline is configured, so VoiceTerm still starts (silently yielding
// empty transcripts) rather than failing to launch.
type noopTranscriber struct{}

func (noopTranscriber) Transcribe(samples []float32, sampleRate int) (string, error) {
	return "", nil
}

func (a *App) setupPrompt() {
	re, allowAutoLearn, err := prompt.ResolveRegex(a.cfg.PromptRegex, a.runner.PromptReadyPattern())
	if err != nil {
		re = nil
	}
	a.promptTracker = prompt.New(prompt.Config{
		IdleThreshold:  time.Duration(a.cfg.TranscriptIdleMs) * time.Millisecond,
		Regex:          re,
		AllowAutoLearn: allowAutoLearn,
	})
}

// Run starts the child process, enters raw mode, launches every worker
// goroutine, and blocks in the event loop until the backend exits or a
// quit is requested.
func (a *App) Run() error {
	fd := int(os.Stdin.Fd())
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return fmt.Errorf("get terminal size (is this a terminal?): %w", err)
	}
	if rows < minRows {
		return fmt.Errorf("terminal too small (need at least %d rows, have %d)", minRows, rows)
	}

	a.session = ptysession.New(ptysession.Config{
		Command: a.runner.Command(),
		Args:    a.runner.Args(),
		Rows:    rows,
		Cols:    cols,
	})
	if err := a.session.Start(); err != nil {
		return err
	}

	a.guard, err = writer.NewRestoreGuard(fd)
	if err != nil {
		a.session.Kill()
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer a.teardown()

	a.writer = writer.New(writer.Stdout)
	a.writerMsgs = make(chan writer.Message, 64)
	a.writer.WriteRaw([]byte(writer.MouseTrackingOn))

	a.inputRdr = input.NewReader(os.Stdin, 64)
	a.ptyOutputCh = make(chan []byte, 64)

	a.loop = a.buildLoop(rows, cols)
	a.loop.SetTerminalSize(rows, cols)

	go func() {
		a.session.PipeOutput(func(chunk []byte) {
			select {
			case a.ptyOutputCh <- chunk:
			default:
			}
		})
		close(a.ptyOutputCh)
	}()
	go a.inputRdr.Run()
	go a.writer.Run(a.session, a.writerMsgs)

	a.statusStop = make(chan struct{})
	go a.runStatusLine(a.statusStop)
	go a.watchResize(fd, a.statusStop)

	a.loop.Run()

	if a.session.ExitError != nil {
		return a.session.ExitError
	}
	return nil
}

// watchResize reads the actual TIOCGWINSZ payload on every SIGWINCH and
// feeds it to the loop: Go's signal delivery carries no winsize, so the
// loop's own SIGWINCH case only recomputes the reserved-row split against
// whatever dimensions were last pushed here.
func (a *App) watchResize(fd int, stop <-chan struct{}) {
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-stop:
			return
		case <-sigCh:
			if cols, rows, err := term.GetSize(fd); err == nil {
				a.loop.SetTerminalSize(rows, cols)
			}
		}
	}
}

func (a *App) teardown() {
	if a.statusStop != nil {
		close(a.statusStop)
	}
	if a.sessMem != nil {
		a.sessMem.Close()
	}
	if a.memStore != nil {
		a.memStore.Close()
	}
	a.session.Quit(2 * time.Second)
	a.session.Close()
	a.guard.Restore()
	writer.Stdout.Write([]byte(writer.FinalSequence))
}

func (a *App) buildLoop(rows, cols int) *eventloop.Loop {
	visibleRows := rows - 1
	if visibleRows < 1 {
		visibleRows = 1
	}

	l := &eventloop.Loop{
		Session:     a.session,
		Writer:      a.writer,
		WriterMsg:   a.writerMsgs,
		InputEvents: a.inputRdr.Events(),
		PTYOutput:   a.ptyOutputCh,
		Voice:       a.voiceMgr,
		WakeWord:    a.wake,
		Dev:         a.dev,
		Prompt:      a.promptTracker,
		Queue:       a.queue,
		Macros:      a.macros,
		Overlays:    &overlay.Stack{},
		MemStore:    a.memStore,
		SessMem:     a.sessMem,
		SessionID:   a.sessionID,
		VisibleRows: visibleRows,

		AutoVoiceEnabled:       a.cfg.AutoVoice,
		AutoVoiceIdleThreshold: time.Duration(a.cfg.AutoVoiceIdleMs) * time.Millisecond,
		TranscriptIdleTimeout:  time.Duration(a.cfg.TranscriptIdleMs) * time.Millisecond,
		TranscriptDebounce:     250 * time.Millisecond,
		DefaultSendMode:        mapConfigSendMode(a.cfg.VoiceSendMode),
	}

	l.OpenHelp = func() *overlay.Panel { return overlay.NewHelp(visibleRows) }
	l.OpenSettings = func() *overlay.Settings {
		return overlay.NewSettings(map[overlay.SettingKey]bool{
			overlay.SettingAutoVoice:      l.AutoVoiceEnabled,
			overlay.SettingWakeWord:       a.wake != nil,
			overlay.SettingHudRightPanel:  a.cfg.HudRightPanel,
			overlay.SettingLatencyDisplay: a.cfg.LatencyDisplay,
			overlay.SettingDevMode:        a.cfg.DevMode,
		}, visibleRows)
	}
	l.OpenThemePicker = func() *overlay.ThemePicker {
		return overlay.NewThemePicker(theme.Name(a.cfg.Theme))
	}
	l.OpenThemeStudio = func() *overlay.ThemeStudio {
		return overlay.NewThemeStudio(theme.ActiveStylePack())
	}
	l.OpenTranscripts = func() *overlay.TranscriptHistory {
		return a.history
	}
	l.OpenToasts = func() *overlay.ToastHistory {
		return a.toasts
	}
	l.OpenMemory = func() *overlay.MemoryBrowser {
		if a.memStore == nil {
			return overlay.NewMemoryBrowser(nil, visibleRows)
		}
		events, _ := memory.ReadAll(memoryStorePath())
		return overlay.NewMemoryBrowser(events, visibleRows)
	}
	l.OpenActionCenter = func() *overlay.ActionCenter {
		return overlay.NewActionCenter(visibleRows)
	}
	l.OpenDevPanel = func() *overlay.DevPanel {
		return overlay.NewDevPanel()
	}
	l.RunDevCommand = func(kind devbroker.CommandKind) {
		if a.dev != nil {
			a.dev.Run(kind)
		}
	}
	l.ApplyTheme = func(name string) {
		a.cfg.Theme = name
	}

	l.Handlers = eventloop.Handlers{
		OnTranscript: func(text string) {
			a.history.Append(overlay.HistoryEntry{Text: text, Source: overlay.SourceVoice, At: time.Now()})
			a.toasts.Record(time.Now(), "Transcript: "+text)
			onboarding.MarkFirstCaptureComplete()
		},
	}

	return l
}

func mapConfigSendMode(m config.SendMode) transcript.SendMode {
	if m == config.SendAuto {
		return transcript.Auto
	}
	return transcript.Insert
}
