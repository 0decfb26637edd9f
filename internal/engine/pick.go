package engine

import (
	"context"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/Dragon-GCS/lolhelper/internal/event"
)

type pickPath string

const (
	pathSubset pickPath = "subset"
	pathBench  pickPath = "bench"
	pathDirect pickPath = "direct"
)

// autoPick tries the user's priorities against the subset pool, then the
// bench, then the player's own pick action. At most one call succeeds per
// episode; a round with no success leaves the latch open for the next
// session update.
func (e *Engine) autoPick(ctx context.Context, cs event.ChampSelect) {
	cfg := e.store.AutoPick()
	if !cfg.Enabled || len(cfg.Selected) == 0 {
		return
	}
	if e.store.ChampionID() != 0 {
		return
	}
	gen, ok := e.store.Picked().Begin()
	if !ok {
		return
	}
	committed := false
	defer func() {
		if !committed {
			e.store.Picked().Abort(gen)
		}
	}()

	ctx = context.WithoutCancel(ctx)
	priorities := cfg.Priorities()

	champion, path, ok := e.tryPick(ctx, cs, priorities)
	if !ok {
		return
	}
	e.store.SetChampionID(champion)
	committed = e.store.Picked().Commit(gen)
	e.log.WithFields(logrus.Fields{"champion": champion, "path": path}).Info("champion picked")
}

func (e *Engine) tryPick(ctx context.Context, cs event.ChampSelect, priorities []uint16) (uint16, pickPath, bool) {
	if subset := e.store.SubsetChampions(); len(subset) > 0 {
		actionID := cs.LocalPlayerCellID
		if a, ok := cs.OwnPickAction(); ok {
			actionID = a.ID
		}
		for _, id := range priorities {
			if !slices.Contains(subset, id) {
				continue
			}
			if e.pick(ctx, actionID, id) {
				return id, pathSubset, true
			}
		}
	}

	if cs.BenchEnabled {
		for _, id := range priorities {
			if !cs.OnBench(id) {
				continue
			}
			if err := e.api.SwapBenchChampion(ctx, id); err != nil {
				e.log.WithError(err).WithField("champion", id).Warn("bench swap failed")
				continue
			}
			return id, pathBench, true
		}
	}

	action, ok := cs.OwnPickAction()
	if !ok {
		return 0, "", false
	}
	for _, id := range priorities {
		if e.pick(ctx, action.ID, id) {
			return id, pathDirect, true
		}
	}
	return 0, "", false
}

func (e *Engine) pick(ctx context.Context, actionID int, champion uint16) bool {
	if err := e.api.PickChampion(ctx, actionID, champion); err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{"champion": champion, "action": actionID}).Warn("pick failed")
		return false
	}
	return true
}
