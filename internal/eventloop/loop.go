// Package eventloop implements the single-threaded arbiter:
// the sole mutator of overlay state, the prompt tracker, the transcript
// queue, and the status-line model. Every other goroutine in the program
// talks to it only through bounded channels or the atomic cancel flag
// voice.Capture already owns.
package eventloop

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/csheth/voiceterm/internal/devbroker"
	"github.com/csheth/voiceterm/internal/input"
	"github.com/csheth/voiceterm/internal/memory"
	"github.com/csheth/voiceterm/internal/overlay"
	"github.com/csheth/voiceterm/internal/prompt"
	"github.com/csheth/voiceterm/internal/ptysession"
	"github.com/csheth/voiceterm/internal/sessionmemory"
	"github.com/csheth/voiceterm/internal/transcript"
	"github.com/csheth/voiceterm/internal/voice"
	"github.com/csheth/voiceterm/internal/wakeword"
	"github.com/csheth/voiceterm/internal/writer"
)

// tickInterval drives every periodic deadline the loop owns: the
// transcript try-flush pass, auto-voice idle evaluation, and the backend
// exit check. The status line is refreshed by its own ticker in
// internal/app. A single ticker is simpler than one timer per deadline and
// well under any of the windows it services.
const tickInterval = 100 * time.Millisecond

// Handlers lets the caller react to events the loop surfaces without the
// loop importing the app package (which owns status-line composition and
// would otherwise create an import cycle).
type Handlers struct {
	// OnTranscript is called once per voice transcript (macro-expanded,
	// nav commands already consumed), before it is delivered or queued, so
	// the caller can record it.
	OnTranscript func(text string)
	// OnOverlayChanged is called after any overlay push/pop so the caller
	// can recompute status-line content and reserved rows.
	OnOverlayChanged func()
	// OnQuit is called once when the loop is about to return because the
	// backend exited or a global quit was requested.
	OnQuit func()
}

// Loop owns every piece of mutable state the arbiter is responsible for:
// one event-loop goroutine performs all state-machine transitions. It is
// constructed by internal/app and never shared outside the goroutine that
// calls Run.
type Loop struct {
	Session   *ptysession.Session
	Writer    *writer.Writer
	WriterMsg chan<- writer.Message

	InputEvents <-chan input.Event
	PTYOutput   <-chan []byte

	Voice    *voice.Manager
	WakeWord *wakeword.Listener // nil when wake-word is disabled
	Dev      devbroker.Broker   // nil when dev mode is disabled

	Prompt    *prompt.Tracker
	Queue     *transcript.Queue
	Macros    transcript.MacroTable
	Overlays  *overlay.Stack
	DevPanel  *overlay.DevPanel // nil when dev mode is disabled
	MemStore  *memory.Store     // nil when memory logging is disabled
	SessMem   *sessionmemory.Logger
	SessionID string

	// Specialized overlay wrappers. Only the ones relevant to the overlay
	// currently on top of Overlays are consulted; each is constructed
	// lazily by openOverlay and stays set after close until the next open
	// of the same kind replaces it.
	Help               *overlay.Panel
	Settings           *overlay.Settings
	ThemePicker        *overlay.ThemePicker
	ThemeStudio        *overlay.ThemeStudio
	TranscriptHistory  *overlay.TranscriptHistory
	ToastHistory       *overlay.ToastHistory
	MemoryBrowser      *overlay.MemoryBrowser
	ActionCenter       *overlay.ActionCenter
	VisibleRows        int // overlay list height budget, set from terminal rows

	OpenActionCenter func() *overlay.ActionCenter
	OpenHelp         func() *overlay.Panel
	OpenSettings     func() *overlay.Settings
	OpenThemePicker  func() *overlay.ThemePicker
	OpenThemeStudio  func() *overlay.ThemeStudio
	OpenTranscripts  func() *overlay.TranscriptHistory
	OpenToasts       func() *overlay.ToastHistory
	OpenMemory       func() *overlay.MemoryBrowser
	OpenDevPanel     func() *overlay.DevPanel
	RunDevCommand    func(kind devbroker.CommandKind)
	ApplyTheme       func(name string)

	AutoVoiceEnabled       bool
	AutoVoiceIdleThreshold time.Duration
	TranscriptIdleTimeout  time.Duration
	TranscriptDebounce     time.Duration
	DefaultSendMode        transcript.SendMode

	Handlers Handlers

	activeKind overlay.Kind

	quit     bool
	lastSend time.Time
	memSeq   int64

	baseChildRows int
	totalRows     int
	totalCols     int
}

// hotkeys maps a raw control byte (ctrl+letter, delivered as a low-value
// rune by internal/input) to the overlay it opens when no overlay is
// already active. Chosen to avoid colliding with bytes Decode already
// gives dedicated Keys (Ctrl-C, Ctrl-D, Enter, Tab, Backspace).
const (
	hotkeyActionCenter      = 0x01 // Ctrl-A
	hotkeyTranscriptHistory = 0x12 // Ctrl-R
	hotkeyThemePicker       = 0x14 // Ctrl-T
	hotkeyToastHistory      = 0x0c // Ctrl-L
	hotkeyHelp              = 0x07 // Ctrl-G
	hotkeyDevPanel          = 0x18 // Ctrl-X
	hotkeyMemoryBrowser     = 0x02 // Ctrl-B
)

// Run blocks, draining every source until the backend exits or a quit is
// requested. It never blocks on a single channel without a deadline: the
// select always includes the shared ticker and the resize signal.
func (l *Loop) Run() {
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for !l.quit {
		select {
		case ev, ok := <-l.InputEvents:
			if !ok {
				l.quit = true
				continue
			}
			l.handleInput(ev)

		case chunk, ok := <-l.PTYOutput:
			if !ok {
				l.quit = true
				continue
			}
			l.handlePTYOutput(chunk)

		case msg, ok := <-l.voiceResults():
			if !ok {
				continue
			}
			l.handleVoiceJob(msg)

		case _, ok := <-l.wakeEvents():
			if !ok {
				continue
			}
			l.handleWake()

		case upd, ok := <-l.devUpdates():
			if !ok {
				continue
			}
			l.handleDevUpdate(upd)

		case <-sigCh:
			l.handleResize()

		case now := <-ticker.C:
			l.handleTick(now)
		}
	}

	if l.Handlers.OnQuit != nil {
		l.Handlers.OnQuit()
	}
}

// voiceResults and wakeEvents/devUpdates guard against a nil Manager/
// Listener/Broker (wake-word and dev mode are optional) by returning a nil
// channel, which never fires in select; the helpers keep the Run loop's
// case arms uniform whether or not each source was constructed.
func (l *Loop) voiceResults() <-chan voice.JobMessage {
	if l.Voice == nil {
		return nil
	}
	return l.Voice.Results()
}

func (l *Loop) wakeEvents() <-chan wakeword.Event {
	if l.WakeWord == nil {
		return nil
	}
	return l.WakeWord.Events()
}

func (l *Loop) devUpdates() <-chan devbroker.Update {
	if l.Dev == nil {
		return nil
	}
	return l.Dev.Updates()
}

// handleInput dispatches one decoded input event: overlay navigation when
// an overlay is active, transcript-queue/voice controls otherwise.
func (l *Loop) handleInput(ev input.Event) {
	if top, ok := l.Overlays.Top(); ok {
		l.handleOverlayInput(top, ev)
		return
	}

	switch ev.Key {
	case input.KeyCtrlC:
		if l.Voice != nil && l.Voice.Busy() {
			l.Voice.Cancel()
			return
		}
		l.quit = true
	case input.KeyCtrlD:
		l.quit = true
	case input.KeyNone:
		if ev.Mouse != nil {
			l.handleMouse(*ev.Mouse)
			return
		}
		if ev.Rune != 0 && l.tryHotkey(ev.Rune) {
			return
		}
		l.forwardToPTY(ev)
	default:
		l.forwardToPTY(ev)
	}
}

// tryHotkey opens an overlay for a recognized ctrl-key byte. Returns false
// (and does nothing) for any other rune, which is then forwarded to the
// wrapped CLI as ordinary typed input.
func (l *Loop) tryHotkey(r rune) bool {
	switch byte(r) {
	case hotkeyActionCenter:
		l.openOverlay(overlay.KindActionCenter)
	case hotkeyTranscriptHistory:
		l.openOverlay(overlay.KindTranscriptHistory)
	case hotkeyThemePicker:
		l.openOverlay(overlay.KindThemePicker)
	case hotkeyToastHistory:
		l.openOverlay(overlay.KindToastHistory)
	case hotkeyHelp:
		l.openOverlay(overlay.KindHelp)
	case hotkeyDevPanel:
		if l.Dev != nil {
			l.openOverlay(overlay.KindDevPanel)
		}
	case hotkeyMemoryBrowser:
		if l.MemStore != nil {
			l.openOverlay(overlay.KindMemoryBrowser)
		}
	default:
		return false
	}
	return true
}

// openOverlay constructs the requested overlay's specialized state via the
// caller-supplied Open* factories (wired by internal/app, which owns theme
// and config access the eventloop package doesn't import), pushes its
// rendering Panel, and triggers a winsize reservation update.
func (l *Loop) openOverlay(kind overlay.Kind) {
	var panel *overlay.Panel
	switch kind {
	case overlay.KindHelp:
		if l.OpenHelp != nil {
			l.Help = l.OpenHelp()
		}
		panel = l.Help
	case overlay.KindSettings:
		if l.OpenSettings != nil {
			l.Settings = l.OpenSettings()
		}
		if l.Settings != nil {
			panel = l.Settings.Panel()
		}
	case overlay.KindThemePicker:
		if l.OpenThemePicker != nil {
			l.ThemePicker = l.OpenThemePicker()
		}
		if l.ThemePicker != nil {
			panel = l.ThemePicker.Panel(l.VisibleRows)
		}
	case overlay.KindThemeStudio:
		if l.OpenThemeStudio != nil {
			l.ThemeStudio = l.OpenThemeStudio()
		}
		panel = themeStudioPanel(l.ThemeStudio, l.VisibleRows)
	case overlay.KindTranscriptHistory:
		if l.OpenTranscripts != nil {
			l.TranscriptHistory = l.OpenTranscripts()
		}
		if l.TranscriptHistory != nil {
			panel = l.TranscriptHistory.Panel()
		}
	case overlay.KindToastHistory:
		if l.OpenToasts != nil {
			l.ToastHistory = l.OpenToasts()
		}
		if l.ToastHistory != nil {
			panel = l.ToastHistory.Panel(l.VisibleRows)
		}
	case overlay.KindDevPanel:
		if l.OpenDevPanel != nil {
			l.DevPanel = l.OpenDevPanel()
		}
		panel = devPanelPanel(l.DevPanel)
	case overlay.KindMemoryBrowser:
		if l.OpenMemory != nil {
			l.MemoryBrowser = l.OpenMemory()
		}
		if l.MemoryBrowser != nil {
			panel = l.MemoryBrowser.Panel()
		}
	case overlay.KindActionCenter:
		if l.OpenActionCenter != nil {
			l.ActionCenter = l.OpenActionCenter()
		}
		if l.ActionCenter != nil {
			panel = l.ActionCenter.Panel()
		}
	}
	if panel == nil {
		return
	}
	l.activeKind = kind
	l.Overlays.Push(panel)
	l.handleResize()
	l.notifyOverlayChanged()
}

// closeOverlay pops the active overlay and restores the default HUD height.
func (l *Loop) closeOverlay() {
	l.Overlays.Pop()
	l.activeKind = overlay.KindNone
	l.handleResize()
	l.notifyOverlayChanged()
}

// refreshWriterOverlay composes the topmost panel's visible rows and pushes
// them to the writer, or clears the overlay region when none is active.
// handleResize calls this on every reserved-row recompute, which covers
// openOverlay/closeOverlay (both call handleResize); refreshOverlayPanel
// calls it directly since it doesn't change the reserved-row budget.
func (l *Loop) refreshWriterOverlay() {
	top, ok := l.Overlays.Top()
	if !ok {
		l.sendWriter(writer.Message{Kind: writer.MsgClearOverlay})
		return
	}
	maxRows := top.Kind.ReservedRows()
	l.sendWriter(writer.Message{
		Kind:          writer.MsgShowOverlay,
		OverlayLines:  overlay.Render(top, maxRows),
		OverlayHeight: maxRows,
	})
}

func (l *Loop) notifyOverlayChanged() {
	if l.Handlers.OnOverlayChanged != nil {
		l.Handlers.OnOverlayChanged()
	}
}

// refreshOverlayPanel rebuilds the Stack's top Panel from the active
// specialized overlay after a mutation (several wrappers, e.g. Settings
// and ThemePicker, hand back a freshly constructed *Panel rather than
// mutating one in place).
func (l *Loop) refreshOverlayPanel() {
	var panel *overlay.Panel
	switch l.activeKind {
	case overlay.KindHelp:
		panel = l.Help
	case overlay.KindSettings:
		if l.Settings != nil {
			panel = l.Settings.Panel()
		}
	case overlay.KindThemePicker:
		if l.ThemePicker != nil {
			panel = l.ThemePicker.Panel(l.VisibleRows)
		}
	case overlay.KindThemeStudio:
		panel = themeStudioPanel(l.ThemeStudio, l.VisibleRows)
	case overlay.KindTranscriptHistory:
		if l.TranscriptHistory != nil {
			panel = l.TranscriptHistory.Panel()
		}
	case overlay.KindToastHistory:
		if l.ToastHistory != nil {
			panel = l.ToastHistory.Panel(l.VisibleRows)
		}
	case overlay.KindDevPanel:
		panel = devPanelPanel(l.DevPanel)
	case overlay.KindMemoryBrowser:
		if l.MemoryBrowser != nil {
			panel = l.MemoryBrowser.Panel()
		}
	case overlay.KindActionCenter:
		if l.ActionCenter != nil {
			panel = l.ActionCenter.Panel()
		}
	}
	if panel == nil {
		return
	}
	l.Overlays.Pop()
	l.Overlays.Push(panel)
	l.refreshWriterOverlay()
	l.notifyOverlayChanged()
}

// handleOverlayInput dispatches one input event while an overlay is on
// top of the stack. Overlay input never reaches the wrapped CLI.
func (l *Loop) handleOverlayInput(top *overlay.Panel, ev input.Event) {
	switch ev.Key {
	case input.KeyEscape:
		l.closeOverlay()
	case input.KeyUp:
		l.moveOverlay(top, -1)
	case input.KeyDown:
		l.moveOverlay(top, 1)
	case input.KeyTab:
		if l.activeKind == overlay.KindThemeStudio && l.ThemeStudio != nil {
			l.ThemeStudio.CyclePage(1)
			l.refreshOverlayPanel()
		}
	case input.KeyEnter:
		l.activateOverlay()
	case input.KeyNone:
		if ev.Mouse != nil {
			l.handleMouse(*ev.Mouse)
		} else if ev.Rune == 'q' {
			l.closeOverlay()
		}
	}
}

// moveOverlay advances the active overlay's cursor. Most overlays keep
// their cursor on the shared Panel object already sitting atop Overlays,
// so top.Move mutates it directly; ThemePicker and ThemeStudio keep their
// own cursor state and hand back a freshly built Panel, so those two
// paths go through refreshOverlayPanel to swap the stack's reference.
func (l *Loop) moveOverlay(top *overlay.Panel, direction int) {
	switch l.activeKind {
	case overlay.KindThemePicker:
		if l.ThemePicker != nil {
			l.ThemePicker.Move(direction)
			l.refreshOverlayPanel()
		}
	case overlay.KindThemeStudio:
		if l.ThemeStudio != nil {
			l.ThemeStudio.MoveCursor(direction, 8)
			l.refreshOverlayPanel()
		}
	case overlay.KindDevPanel:
		if l.DevPanel != nil {
			l.DevPanel.Move(direction)
			l.refreshOverlayPanel()
		}
	default:
		top.Move(direction)
	}
}

// activateOverlay handles Enter within the active overlay: applying a
// theme, toggling a setting, replaying a transcript, or running/confirming
// a dev command.
func (l *Loop) activateOverlay() {
	switch l.activeKind {
	case overlay.KindThemePicker:
		if l.ThemePicker != nil && l.ApplyTheme != nil {
			l.ApplyTheme(string(l.ThemePicker.Selected))
		}
		l.closeOverlay()
	case overlay.KindSettings:
		if l.Settings != nil {
			l.Settings.Toggle()
			l.refreshOverlayPanel()
		}
	case overlay.KindTranscriptHistory:
		if l.TranscriptHistory != nil {
			if entry, ok := l.TranscriptHistory.Selected(); ok {
				transcript.PushPending(l.Queue, transcript.Pending{Text: entry.Text, SendMode: transcript.Insert}, l.status)
			}
		}
		l.closeOverlay()
	case overlay.KindDevPanel:
		if l.DevPanel != nil && l.Dev != nil {
			if kind, run := l.DevPanel.HandleEnter(time.Now()); run {
				if id, err := l.Dev.Run(kind); err == nil {
					l.DevPanel.RecordStart(id, kind, time.Now())
				}
			}
			l.refreshOverlayPanel()
		}
	case overlay.KindActionCenter:
		var action overlay.ActionKind
		ok := false
		if l.ActionCenter != nil {
			action, ok = l.ActionCenter.Selected()
		}
		l.closeOverlay()
		if ok {
			l.runAction(action)
		}
	case overlay.KindHelp, overlay.KindToastHistory, overlay.KindMemoryBrowser:
		l.closeOverlay()
	}
}

func (l *Loop) runAction(action overlay.ActionKind) {
	switch action {
	case overlay.ActionToggleAutoVoice:
		l.AutoVoiceEnabled = !l.AutoVoiceEnabled
	case overlay.ActionToggleWakeWord:
		if l.WakeWord != nil {
			l.WakeWord.Resume()
		}
	case overlay.ActionOpenThemePicker:
		l.openOverlay(overlay.KindThemePicker)
	case overlay.ActionOpenSettings:
		l.openOverlay(overlay.KindSettings)
	case overlay.ActionCaptureImage:
		l.status("Image capture not available in this environment")
	}
}

// forwardToPTY writes a plain rune or recognized control key through to
// the wrapped CLI, recording it in session-memory as user input.
func (l *Loop) forwardToPTY(ev input.Event) {
	var b []byte
	switch ev.Key {
	case input.KeyEnter:
		b = []byte{'\r'}
	case input.KeyTab:
		b = []byte{'\t'}
	case input.KeyBackspace:
		b = []byte{0x7f}
	case input.KeyUp:
		b = []byte("\033[A")
	case input.KeyDown:
		b = []byte("\033[B")
	case input.KeyLeft:
		b = []byte("\033[D")
	case input.KeyRight:
		b = []byte("\033[C")
	case input.KeyNone:
		if ev.Rune != 0 {
			b = []byte(string(ev.Rune))
		}
	}
	if len(b) == 0 {
		return
	}
	l.Session.Write(b, 200*time.Millisecond)
	if l.SessMem != nil {
		l.SessMem.RecordUserInput(b)
	}
	l.Prompt.ObserveSubmit(time.Now())
}

// handleMouse recognizes scroll-wheel events while an overlay is active,
// used for ToastHistory/TranscriptHistory/MemoryBrowser scrolling.
func (l *Loop) handleMouse(m input.MouseEvent) {
	top, ok := l.Overlays.Top()
	if !ok {
		return
	}
	switch m.Button {
	case input.MouseWheelUp:
		top.Move(-1)
	case input.MouseWheelDown:
		top.Move(1)
	}
}

// handlePTYOutput applies the chunk to the prompt tracker before anything
// else observes it, then tees it to
// session-memory and the writer.
func (l *Loop) handlePTYOutput(chunk []byte) {
	now := time.Now()
	l.Prompt.ObserveOutput(chunk, now)
	if l.SessMem != nil {
		l.SessMem.RecordBackendOutput(chunk)
	}
	l.sendWriter(writer.Message{Kind: writer.MsgPtyOutput})
	l.tryFlushPending(now)
}

// handleVoiceJob folds one voice-job result into the transcript queue
// (Transcript delivery / Auto-rearm) and resumes the wake-word
// listener now that the manager is no longer busy.
func (l *Loop) handleVoiceJob(msg voice.JobMessage) {
	now := time.Now()
	if l.WakeWord != nil {
		l.WakeWord.Resume()
	}

	switch msg.Kind {
	case voice.JobTranscript:
		entry := transcript.Pending{Text: msg.Text, SendMode: mapSendMode(l.DefaultSendMode)}
		entry = transcript.ExpandMacro(l.Macros, entry)
		if action, ok := transcript.RecognizeNav(entry.Text); ok {
			l.handleNav(action)
			break
		}
		if l.Handlers.OnTranscript != nil {
			l.Handlers.OnTranscript(entry.Text)
		}
		l.recordMemory(memory.EventTranscript, "voice", entry.Text, now)

		if l.Prompt.IsReady(now) && l.Queue.Empty() {
			l.deliverNow(entry, now)
		} else {
			transcript.PushPending(l.Queue, entry, l.status)
		}

		if entry.SendMode == transcript.Insert && l.Queue.Empty() {
			l.rearm(now)
		} else if entry.SendMode == transcript.Auto && l.Queue.Len() < l.Queue.Capacity() {
			l.rearm(now)
		}
	case voice.JobEmpty:
		l.rearm(now)
	case voice.JobError:
		l.status("Voice job failed")
		l.rearm(now)
	}
}

// rearm starts a new auto-voice capture immediately after a finished job,
// when auto-voice is enabled and the manager is idle.
func (l *Loop) rearm(now time.Time) {
	if l.Voice == nil || !l.AutoVoiceEnabled {
		return
	}
	l.Voice.TriggerAuto(now, true, l.Prompt.IsReady(now), l.Prompt.IdleFor(now), l.AutoVoiceIdleThreshold)
}

func (l *Loop) handleNav(action transcript.NavAction) {
	switch action {
	case transcript.NavSend:
		now := time.Now()
		if entry, ok := l.Queue.Pop(); ok {
			l.deliverNow(entry, now)
		}
	case transcript.NavCancel:
		l.Queue.Pop()
		l.status("Transcript cancelled")
	}
}

func (l *Loop) deliverNow(entry transcript.Pending, now time.Time) {
	sentCR, err := transcript.Deliver(l.Session.Master(), entry)
	if err != nil {
		l.status("Transcript delivery failed")
		return
	}
	if entry.SendMode == transcript.Insert {
		l.status("Transcript inserted")
	} else {
		l.status("Transcript sent")
	}
	if sentCR {
		l.lastSend = now
		l.Prompt.ObserveSubmit(now)
	}
}

// tryFlushPending runs the queue's try-flush pass, called on every
// PTY-output event and every tick.
func (l *Loop) tryFlushPending(now time.Time) {
	newLastSend, delivered := transcript.TryFlush(l.Queue, l.Prompt, now, l.TranscriptIdleTimeout, l.TranscriptDebounce, l.lastSend, l.Session.Master(), l.status)
	if delivered {
		l.lastSend = newLastSend
		l.Prompt.ObserveSubmit(now)
	}
}

func (l *Loop) handleWake() {
	if l.Voice == nil {
		return
	}
	now := time.Now()
	if l.Voice.TriggerWake(now) && l.WakeWord != nil {
		l.WakeWord.Pause()
	}
}

func (l *Loop) handleDevUpdate(u devbroker.Update) {
	if l.DevPanel != nil {
		l.DevPanel.ApplyUpdate(u)
	}
}

// handleResize recomputes the PTY winsize from the last known terminal
// dimensions and the active overlay's reserved-row budget, then asks the
// writer to redraw at the new child-row count.
func (l *Loop) handleResize() {
	reserved := 1 // status line always reserved
	if !l.Overlays.Empty() {
		reserved += l.Overlays.ActiveReservedRows()
	}
	childRows := l.totalRows - reserved
	if childRows < 1 {
		childRows = 1
	}
	l.baseChildRows = childRows
	l.Session.Resize(l.totalRows, l.totalCols, childRows)
	l.sendWriter(writer.Message{Kind: writer.MsgResize, Rows: l.totalRows, Cols: l.totalCols, ChildRows: childRows})
	l.refreshWriterOverlay()
}

// SetTerminalSize is called once at startup and again on every SIGWINCH
// payload resolved by the caller (Go has no portable winsize-in-signal, so
// internal/app reads TIOCGWINSZ itself and calls this before handleResize
// fires from the signal channel).
func (l *Loop) SetTerminalSize(rows, cols int) {
	l.totalRows, l.totalCols = rows, cols
	l.handleResize()
}

// handleTick runs the periodic deadlines — transcript try-flush and
// auto-voice idle triggering — consolidated onto one ticker rather than
// one timer per deadline.
func (l *Loop) handleTick(now time.Time) {
	l.tryFlushPending(now)
	if l.Voice != nil && l.AutoVoiceEnabled && !l.Voice.Busy() {
		l.Voice.TriggerAuto(now, true, l.Prompt.IsReady(now), l.Prompt.IdleFor(now), l.AutoVoiceIdleThreshold)
	}
	if exited, _ := l.Session.TryWait(); exited {
		l.quit = true
	}
}

// status reports a transient status-line message to the writer.
func (l *Loop) status(text string) {
	l.sendWriter(writer.Message{Kind: writer.MsgStatus, Status: text})
}

func (l *Loop) sendWriter(msg writer.Message) {
	select {
	case l.WriterMsg <- msg:
	default:
	}
}

// recordMemory appends one audit event if a memory store is configured; a
// disabled store (MemStore == nil) is a silent no-op, since memory logging
// is opt-in.
func (l *Loop) recordMemory(typ memory.EventType, role, text string, now time.Time) {
	if l.MemStore == nil {
		return
	}
	l.memSeq++
	e := memory.NewEvent(l.SessionID, l.memSeq, typ, role, text, now)
	l.MemStore.Append(e)
}

func mapSendMode(m transcript.SendMode) transcript.SendMode { return m }
