// Package engine turns decoded client events into store updates and
// follow-up commands: game-flow tracking, auto-accept, auto-pick and the
// teammate analysis post.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dragon-GCS/lolhelper/internal/event"
	"github.com/Dragon-GCS/lolhelper/internal/lcu"
	"github.com/Dragon-GCS/lolhelper/internal/state"
)

// Commander is the part of the client API the engine calls. *lcu.Client
// implements it.
type Commander interface {
	AcceptReadyCheck(ctx context.Context) error
	SwapBenchChampion(ctx context.Context, championID uint16) error
	PickChampion(ctx context.Context, actionID int, championID uint16) error
	CurrentSummoner(ctx context.Context) (lcu.Summoner, error)
	SummonerByPUUID(ctx context.Context, puuid string) (lcu.Summoner, error)
	OwnedChampions(ctx context.Context) ([]lcu.OwnedChampion, error)
	MatchHistory(ctx context.Context, puuid string, begin, count int) ([]lcu.MatchRecord, error)
	SendChatMessage(ctx context.Context, conversationID, body string) error
}

// FrameSource yields raw websocket frames in arrival order.
type FrameSource interface {
	ReadFrame() ([]byte, error)
}

// Options tune the analysis engine.
type Options struct {
	// MaxMatches is how many recent matches are fetched per teammate.
	MaxMatches int
	// PostInterval separates consecutive chat posts.
	PostInterval time.Duration
	// Concurrency bounds parallel match-history fetches.
	Concurrency int
}

// DefaultOptions returns the values used when no config overrides them.
func DefaultOptions() Options {
	return Options{
		MaxMatches:   lcu.MaxMatches,
		PostInterval: time.Second,
		Concurrency:  4,
	}
}

// Engine handles the events of one client connection.
type Engine struct {
	store *state.Store
	api   Commander
	log   logrus.FieldLogger
	opts  Options

	mu      sync.Mutex
	pending *pendingAccept // scheduled accept, nil if none

	wg sync.WaitGroup // scheduled accepts and analysis posts
}

// New creates an engine bound to one connection's API.
func New(store *state.Store, api Commander, log logrus.FieldLogger, opts Options) *Engine {
	def := DefaultOptions()
	if opts.MaxMatches <= 0 {
		opts.MaxMatches = def.MaxMatches
	}
	if opts.PostInterval < 0 {
		opts.PostInterval = 0
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = def.Concurrency
	}
	return &Engine{store: store, api: api, log: log, opts: opts}
}

// Run handles frames strictly in arrival order until the source fails or
// ctx is cancelled. Closing the source is the caller's job; a read error
// after cancellation is reported as nil.
func (e *Engine) Run(ctx context.Context, frames FrameSource) error {
	defer e.cancelPendingAccept()
	for {
		data, err := frames.ReadFrame()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		e.HandleFrame(ctx, data)
	}
}

// HandleFrame decodes and dispatches one frame. A malformed frame is
// logged and dropped.
func (e *Engine) HandleFrame(ctx context.Context, data []byte) {
	ev, err := event.Decode(data)
	if err != nil {
		e.log.WithError(err).Warn("dropping malformed frame")
		return
	}
	if ev == nil {
		return
	}
	e.Dispatch(ctx, ev)
}

// Dispatch routes one event to its handler.
func (e *Engine) Dispatch(ctx context.Context, ev event.Event) {
	switch ev := ev.(type) {
	case event.GameFlowSession:
		e.onGameFlow(ev)
	case event.MatchmakingReadyCheck:
		if ev.Check != nil {
			e.onReadyCheck(ctx, *ev.Check)
		}
	case event.LobbyMatchmaking:
		e.log.WithFields(logrus.Fields{"queue": ev.QueueID, "search": ev.SearchState}).Debug("matchmaking update")
		if ev.ReadyCheck != nil {
			e.onReadyCheck(ctx, *ev.ReadyCheck)
		}
	case event.ChampSelectSession:
		e.onChampSelect(ctx, ev.Session)
	case event.SubsetChampionList:
		if e.store.SetSubsetIfEmpty(ev.Champions) {
			e.log.WithField("count", len(ev.Champions)).Debug("subset champion list received")
		}
	case event.CurrentChampion:
		if ev.Type == event.Create {
			e.store.SetChampionID(ev.ChampionID)
			e.log.WithField("champion", ev.ChampionID).Debug("current champion assigned")
		}
	case event.ChatConversation:
		e.onChat(ctx, ev)
	case event.Other:
		e.log.WithFields(logrus.Fields{"uri": ev.URI, "type": ev.Type}).Trace("unhandled event")
	}
}

// Wait blocks until scheduled accepts and analysis posts have finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) onChampSelect(ctx context.Context, cs event.ChampSelect) {
	if e.store.SetRosterIfEmpty(cs.MyTeam) {
		e.log.WithField("players", len(cs.MyTeam)).Debug("team roster recorded")
	}
	e.maybeAnalyze(ctx)
	e.autoPick(ctx, cs)
}
