package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dragon-GCS/lolhelper/internal/event"
)

// onReadyCheck accepts a pending ready-check once per episode, after the
// configured delay.
func (e *Engine) onReadyCheck(ctx context.Context, rc event.ReadyCheck) {
	if rc.PlayerResponse != event.ResponseNone {
		// Answered by hand, or the check is over.
		e.cancelPendingAccept()
		return
	}
	if !rc.Pending() {
		return
	}
	gen, ok := e.store.Accepted().Begin()
	if !ok {
		return
	}

	delay := time.Duration(e.store.AcceptDelaySeconds()) * time.Second
	if delay <= 0 {
		e.accept(ctx, gen)
		return
	}

	taskCtx, cancel := context.WithCancel(ctx)
	task := &pendingAccept{cancel: cancel}
	e.mu.Lock()
	if e.pending != nil {
		e.pending.cancel()
	}
	e.pending = task
	e.mu.Unlock()

	e.store.SetAcceptAt(time.Now().Add(delay))
	e.log.WithField("delay", delay).Info("ready check found, accepting soon")

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()

		t := time.NewTimer(delay)
		defer t.Stop()

		select {
		case <-taskCtx.Done():
			e.store.Accepted().Abort(gen)
			e.store.SetAcceptAt(time.Time{})
			e.log.Debug("scheduled accept cancelled")
			return
		case <-t.C:
		}

		e.mu.Lock()
		if e.pending == task {
			e.pending = nil
		}
		e.mu.Unlock()
		e.accept(taskCtx, gen)
	}()
}

// accept posts the acceptance and commits the latch whatever the outcome.
// A failed accept lets the check expire upstream.
func (e *Engine) accept(ctx context.Context, gen uint64) {
	defer e.store.SetAcceptAt(time.Time{})
	if err := e.api.AcceptReadyCheck(context.WithoutCancel(ctx)); err != nil {
		e.log.WithError(err).Error("failed to accept ready check")
	} else {
		e.log.Info("ready check accepted")
	}
	if !e.store.Accepted().Commit(gen) {
		e.log.WithFields(logrus.Fields{"generation": gen}).Debug("accept finished after episode ended")
	}
}

type pendingAccept struct {
	cancel context.CancelFunc
}

func (e *Engine) cancelPendingAccept() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending != nil {
		e.pending.cancel()
		e.pending = nil
	}
}
