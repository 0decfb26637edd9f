package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Dragon-GCS/lolhelper/internal/analysis"
	"github.com/Dragon-GCS/lolhelper/internal/event"
)

// modeTFT has no comparable match stats.
const modeTFT = "TFT"

// onChat tracks the champ-select lobby conversation. The system join
// message is the earliest point the lobby accepts posts. Deleting a single
// message leaves the conversation in place.
func (e *Engine) onChat(ctx context.Context, ev event.ChatConversation) {
	switch ev.Type {
	case event.Delete:
		if !ev.Message {
			e.store.SetConversationID("")
		}
		return
	case event.Create:
		if e.store.SetConversationID(ev.ConversationID) {
			e.log.WithField("conversation", ev.ConversationID).Debug("lobby conversation found")
		}
		if ev.Joined {
			e.maybeAnalyze(ctx)
		}
	}
}

// maybeAnalyze starts the teammate summary for the current conversation
// unless one was already sent or is being sent. Without a roster it waits
// for the next champ-select update.
func (e *Engine) maybeAnalyze(ctx context.Context) {
	if !e.store.AutoSendAnalysis() {
		return
	}
	mode := e.store.GameMode()
	if mode == "" || mode == modeTFT {
		return
	}
	conversation := e.store.ConversationID()
	if conversation == "" {
		return
	}
	roster := e.store.Roster()
	if len(roster) == 0 {
		return
	}
	gen, ok := e.store.AnalysisSent().Begin()
	if !ok {
		return
	}

	log := e.log.WithFields(logrus.Fields{"conversation": conversation, "mode": mode})

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		scores := e.scoreTeam(ctx, roster, mode, log)
		e.store.SetReport(scores)
		if e.postScores(ctx, conversation, scores, log) {
			e.store.AnalysisSent().Commit(gen)
			log.WithField("players", len(scores)).Info("team analysis sent")
			return
		}
		e.store.AnalysisSent().Abort(gen)
	}()
}

// scoreTeam fetches every teammate's recent matches with bounded
// concurrency. The result keeps roster order. Teammates whose name or
// history cannot be fetched are left out.
func (e *Engine) scoreTeam(ctx context.Context, roster []event.Teammate, mode string, log logrus.FieldLogger) []analysis.PlayerScore {
	ctx = context.WithoutCancel(ctx)
	results := make([]*analysis.PlayerScore, len(roster))

	var g errgroup.Group
	g.SetLimit(e.opts.Concurrency)
	for i, tm := range roster {
		if tm.PUUID == "" {
			continue
		}
		g.Go(func() error {
			s, err := e.api.SummonerByPUUID(ctx, tm.PUUID)
			if err != nil {
				log.WithError(err).WithField("cell", tm.CellID).Warn("summoner lookup failed")
				return nil
			}
			name := s.Name()
			if name == "" {
				name = fmt.Sprintf("Player %d", tm.CellID+1)
			}
			matches, err := e.api.MatchHistory(ctx, tm.PUUID, 0, e.opts.MaxMatches)
			if err != nil {
				log.WithError(err).WithField("player", name).Warn("match history fetch failed")
				return nil
			}
			score := analysis.Compute(name, mode, matches)
			results[i] = &score
			return nil
		})
	}
	_ = g.Wait()

	scores := make([]analysis.PlayerScore, 0, len(results))
	for _, s := range results {
		if s != nil {
			scores = append(scores, *s)
		}
	}
	return scores
}

// postScores sends one message per player, spaced by the post interval. It
// stops early, returning false, when the listener stops or the lobby
// conversation changes.
func (e *Engine) postScores(ctx context.Context, conversation string, scores []analysis.PlayerScore, log logrus.FieldLogger) bool {
	for i, s := range scores {
		if i > 0 && e.opts.PostInterval > 0 {
			t := time.NewTimer(e.opts.PostInterval)
			select {
			case <-ctx.Done():
				t.Stop()
				return false
			case <-t.C:
			}
		}
		if e.store.ConversationID() != conversation {
			log.Debug("conversation changed, analysis abandoned")
			return false
		}
		if err := e.api.SendChatMessage(context.WithoutCancel(ctx), conversation, s.String()); err != nil {
			log.WithError(err).WithField("player", s.Name).Warn("failed to post analysis")
		}
	}
	return true
}
