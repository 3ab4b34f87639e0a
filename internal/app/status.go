package app

import (
	"fmt"
	"time"

	"github.com/csheth/voiceterm/internal/config"
	"github.com/csheth/voiceterm/internal/theme"
	"github.com/csheth/voiceterm/internal/writer"
)

// statusTickInterval drives the HUD line's own refresh, independent of the
// transient one-off messages the event loop posts through Loop.status.
const statusTickInterval = 250 * time.Millisecond

// runStatusLine periodically composes the persistent HUD line (backend
// identity, voice indicator, prompt state) and posts it to the writer,
// until stop is closed.
func (a *App) runStatusLine(stop <-chan struct{}) {
	ticker := time.NewTicker(statusTickInterval)
	defer ticker.Stop()

	colors := theme.Resolve(theme.Name(a.cfg.Theme), theme.ActiveStylePack(), "status")
	label := config.ResolveBackendLabel(a.cfg.BackendLabel, a.runner)

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			text := composeStatusLine(colors, label, a.loop.Voice.Busy(), a.loop.Prompt.State(now))
			select {
			case a.writerMsgs <- writer.Message{Kind: writer.MsgStatus, Status: text}:
			default:
			}
		}
	}
}

func composeStatusLine(c theme.Colors, label string, voiceBusy bool, state interface{ String() string }) string {
	indicator := c.IndicatorIdle
	if voiceBusy {
		indicator = c.IndicatorRecording
	}
	return fmt.Sprintf("%s %s [%s]", indicator, label, state.String())
}
