package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/Dragon-GCS/lolhelper/internal/event"
	"github.com/Dragon-GCS/lolhelper/internal/state"
)

// onGameFlow applies one phase report. Repeated reports of the stored phase
// are ignored.
func (e *Engine) onGameFlow(ev event.GameFlowSession) {
	prev := e.store.Phase()
	if prev == ev.Phase {
		return
	}

	if prev == event.PhaseReadyCheck {
		e.cancelPendingAccept()
	}

	switch ev.Phase {
	case event.PhaseLobby, event.PhaseNone:
		e.store.Reset()
		e.log.Debug("game state reset")
	case event.PhaseMatchmaking:
		if e.store.Accepted().State() != state.NotStarted {
			e.store.Accepted().Reset()
		}
		e.store.ResetChampSelect()
	}

	fields := logrus.Fields{"from": prev, "to": ev.Phase}
	if ev.GameMode != "" && ev.GameMode != e.store.GameMode() {
		fields["mode"] = ev.GameMode
	}
	e.log.WithFields(fields).Info("game phase changed")

	e.store.SetPhase(ev.Phase)
	e.store.SetGameMode(ev.GameMode)
}
