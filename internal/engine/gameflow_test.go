package engine

import (
	"context"
	"testing"

	"github.com/Dragon-GCS/lolhelper/internal/event"
	"github.com/Dragon-GCS/lolhelper/internal/state"
)

// seedEpisode fills the per-game fields a full reset clears.
func seedEpisode(s *state.Store) {
	s.SetChampionID(5)
	s.SetRosterIfEmpty([]event.Teammate{{CellID: 1, PUUID: "p"}})
	s.SetSubsetIfEmpty([]uint16{1})
	s.SetConversationID("lobby@champ-select.lol-champ-select.pvp.net")
	gen, _ := s.AnalysisSent().Begin()
	s.AnalysisSent().Commit(gen)
}

func wasReset(s *state.Store) bool {
	return s.ChampionID() == 0 &&
		len(s.Roster()) == 0 &&
		len(s.SubsetChampions()) == 0 &&
		s.ConversationID() == "" &&
		s.AnalysisSent().State() == state.NotStarted
}

func TestGameFlowResetOnlyOnLobbyOrNoneEntry(t *testing.T) {
	flow := func(p event.GamePhase) event.GameFlowSession {
		return event.GameFlowSession{Type: event.Update, Phase: p}
	}
	tests := []struct {
		name      string
		sequence  []event.GameFlowSession
		wantPhase event.GamePhase
		// wantReset[i] reports whether event i triggers a full reset.
		wantReset []bool
	}{
		{
			name:      "initial none is a duplicate",
			sequence:  []event.GameFlowSession{flow(event.PhaseNone), flow(event.PhaseLobby)},
			wantPhase: event.PhaseLobby,
			wantReset: []bool{false, true},
		},
		{
			name:      "duplicate lobby does nothing",
			sequence:  []event.GameFlowSession{flow(event.PhaseLobby), flow(event.PhaseLobby)},
			wantPhase: event.PhaseLobby,
			wantReset: []bool{true, false},
		},
		{
			name: "full cycle",
			sequence: []event.GameFlowSession{
				flow(event.PhaseLobby), flow(event.PhaseMatchmaking), flow(event.PhaseReadyCheck),
				flow(event.PhaseChampSelect), flow(event.PhaseGameStart), flow(event.PhaseInProgress),
				flow(event.PhasePreEndOfGame), flow(event.PhaseOther), flow(event.PhaseLobby),
			},
			wantPhase: event.PhaseLobby,
			wantReset: []bool{true, false, false, false, false, false, false, false, true},
		},
		{
			name:      "client closing to none",
			sequence:  []event.GameFlowSession{flow(event.PhaseInProgress), flow(event.PhaseNone), flow(event.PhaseNone)},
			wantPhase: event.PhaseNone,
			wantReset: []bool{false, true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := state.NewStore(state.Preferences{})
			eng := newTestEngine(store, &fakeAPI{})
			for i, ev := range tt.sequence {
				seedEpisode(store)
				eng.Dispatch(context.Background(), ev)
				if got := wasReset(store); got != tt.wantReset[i] {
					t.Errorf("event %d (%v): reset = %v, want %v", i, ev.Phase, got, tt.wantReset[i])
				}
			}
			if got := store.Phase(); got != tt.wantPhase {
				t.Errorf("Phase() = %v, want %v", got, tt.wantPhase)
			}
		})
	}
}

func TestGameFlowStoresMode(t *testing.T) {
	store := state.NewStore(state.Preferences{})
	eng := newTestEngine(store, &fakeAPI{})
	ctx := context.Background()

	eng.Dispatch(ctx, event.GameFlowSession{Type: event.Update, Phase: event.PhaseMatchmaking, GameMode: "ARAM"})
	if got := store.GameMode(); got != "ARAM" {
		t.Errorf("GameMode() = %q, want ARAM", got)
	}

	// Same phase with a different mode is still a duplicate.
	eng.Dispatch(ctx, event.GameFlowSession{Type: event.Update, Phase: event.PhaseMatchmaking, GameMode: "CLASSIC"})
	if got := store.GameMode(); got != "ARAM" {
		t.Errorf("GameMode() after duplicate = %q, want ARAM", got)
	}
}

func TestGameFlowMatchmakingClearsAccepted(t *testing.T) {
	store := state.NewStore(state.Preferences{})
	eng := newTestEngine(store, &fakeAPI{})
	ctx := context.Background()

	eng.Dispatch(ctx, event.GameFlowSession{Phase: event.PhaseReadyCheck})
	gen, _ := store.Accepted().Begin()
	store.Accepted().Commit(gen)
	pgen, _ := store.Picked().Begin()
	store.Picked().Commit(pgen)
	store.SetChampionID(22)

	eng.Dispatch(ctx, event.GameFlowSession{Phase: event.PhaseMatchmaking})

	if got := store.Accepted().State(); got != state.NotStarted {
		t.Errorf("Accepted() = %v, want not_started", got)
	}
	if got := store.Picked().State(); got != state.NotStarted {
		t.Errorf("Picked() = %v, want not_started", got)
	}
	if got := store.ChampionID(); got != 0 {
		t.Errorf("ChampionID() = %d, want 0", got)
	}
}

func TestGameFlowRequeueClearsPickEpisodeOnly(t *testing.T) {
	store := state.NewStore(state.Preferences{})
	eng := newTestEngine(store, &fakeAPI{})
	ctx := context.Background()

	eng.Dispatch(ctx, event.GameFlowSession{Phase: event.PhaseChampSelect, GameMode: "ARAM"})
	seedEpisode(store)

	// A dodge sends the lobby back to the queue.
	eng.Dispatch(ctx, event.GameFlowSession{Phase: event.PhaseMatchmaking, GameMode: "ARAM"})

	if got := store.ChampionID(); got != 0 {
		t.Errorf("ChampionID() = %d, want 0", got)
	}
	if got := len(store.Roster()); got != 0 {
		t.Errorf("Roster() has %d players, want 0", got)
	}
	if got := len(store.SubsetChampions()); got != 0 {
		t.Errorf("SubsetChampions() has %d ids, want 0", got)
	}
	if got := store.ConversationID(); got == "" {
		t.Error("ConversationID() should survive a requeue")
	}
	if !store.AnalysisSent().Done() {
		t.Error("AnalysisSent() should survive a requeue")
	}
	if got := store.GameMode(); got != "ARAM" {
		t.Errorf("GameMode() = %q, want ARAM", got)
	}
	if wasReset(store) {
		t.Error("Matchmaking must not trigger a full reset")
	}
}
