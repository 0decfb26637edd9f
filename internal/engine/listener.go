package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dragon-GCS/lolhelper/internal/lcu"
	"github.com/Dragon-GCS/lolhelper/internal/state"
)

// Stream is an open event stream.
type Stream interface {
	FrameSource
	Close() error
}

// ConnectFunc opens one session against the running client.
type ConnectFunc func(ctx context.Context) (Commander, Stream, error)

// ConnectLCU discovers the local client and subscribes to topics.
func ConnectLCU(topics []string) ConnectFunc {
	return func(ctx context.Context) (Commander, Stream, error) {
		meta, err := lcu.Discover(ctx)
		if err != nil {
			return nil, nil, err
		}
		stream, err := lcu.Connect(ctx, meta, topics)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to client on port %d: %w", meta.Port, err)
		}
		return lcu.NewClient(meta), stream, nil
	}
}

// subsetSource is implemented by clients that can fetch the subset pool
// directly, for sessions joined in the middle of champion select.
type subsetSource interface {
	SubsetChampionList(ctx context.Context) ([]uint16, error)
}

// Listener runs engines over successive client sessions.
type Listener struct {
	Store   *state.Store
	Log     logrus.FieldLogger
	Options Options
	Connect ConnectFunc
}

// Listen runs one session: connect, load the profile, then handle events
// until the stream ends or ctx is cancelled. The store reports listening
// for the duration.
func (l *Listener) Listen(ctx context.Context) error {
	l.Store.SetListening(true)
	defer l.Store.SetListening(false)

	api, stream, err := l.Connect(ctx)
	if err != nil {
		return err
	}

	log := l.Log.WithField("run", uuid.NewString())
	log.Info("connected to client")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		stream.Close()
	}()

	l.bootstrap(ctx, api, log)

	eng := New(l.Store, api, log, l.Options)
	err = eng.Run(ctx, stream)
	cancel()
	eng.Wait()
	if err != nil {
		log.WithError(err).Warn("event stream closed")
		return err
	}
	log.Info("listener stopped")
	return nil
}

// Serve calls Listen until ctx is cancelled, waiting retry between
// attempts. A missing client is logged at debug level only.
func (l *Listener) Serve(ctx context.Context, retry time.Duration) error {
	for {
		err := l.Listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		switch {
		case errors.Is(err, lcu.ErrClientNotFound):
			l.Log.Debug("client not running, retrying")
		case err != nil:
			l.Log.WithError(err).Warn("listener failed, retrying")
		}

		t := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

// bootstrap loads the player's profile and champion pool for the session.
func (l *Listener) bootstrap(ctx context.Context, api Commander, log logrus.FieldLogger) {
	ctx = context.WithoutCancel(ctx)
	summoner, err := api.CurrentSummoner(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to load current summoner")
	} else {
		l.Store.SetSummoner(summoner)
		log.WithField("summoner", summoner.Name()).Info("summoner loaded")
	}

	if src, ok := api.(subsetSource); ok {
		ids, err := src.SubsetChampionList(ctx)
		switch {
		case err != nil:
			log.WithError(err).Debug("no subset champion list")
		case l.Store.SetSubsetIfEmpty(ids):
			log.WithField("count", len(ids)).Debug("subset champion list loaded")
		}
	}

	cfg := l.Store.AutoPick()
	if len(cfg.Selected) > 0 || len(cfg.Unselected) > 0 {
		return
	}
	owned, err := api.OwnedChampions(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to load owned champions")
		return
	}
	pool := make([]state.Champion, 0, len(owned))
	for _, c := range owned {
		pool = append(pool, state.Champion{ID: c.ID, Name: c.DisplayName()})
	}
	l.Store.UpdateAutoPick(func(c *state.AutoPickConfig) { c.SetOwned(pool) })
	log.WithField("count", len(pool)).Info("owned champions loaded")
}
