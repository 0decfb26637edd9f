package state

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/Dragon-GCS/lolhelper/internal/analysis"
	"github.com/Dragon-GCS/lolhelper/internal/event"
	"github.com/Dragon-GCS/lolhelper/internal/lcu"
)

func TestNewStorePreferences(t *testing.T) {
	prefs := Preferences{
		AutoPick:           AutoPickConfig{Selected: []Champion{{ID: 1, Name: "Annie"}}, Enabled: true},
		AcceptDelaySeconds: 5,
		AutoSendAnalysis:   true,
	}
	s := NewStore(prefs)

	got := s.Preferences()
	if got.AcceptDelaySeconds != 5 || !got.AutoSendAnalysis || !got.AutoPick.Enabled {
		t.Errorf("Preferences() = %+v", got)
	}

	prefs.AutoPick.Selected[0].Name = "mutated"
	if s.AutoPick().Selected[0].Name != "Annie" {
		t.Error("NewStore did not copy the pick config")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := NewStore(Preferences{})
	s.SetRosterIfEmpty([]event.Teammate{{CellID: 1, PUUID: "a"}})
	s.SetSubsetIfEmpty([]uint16{1, 2})

	r := s.Roster()
	r[0].PUUID = "mutated"
	if s.Roster()[0].PUUID != "a" {
		t.Error("Roster() leaked internal slice")
	}

	sub := s.SubsetChampions()
	sub[0] = 99
	if s.SubsetChampions()[0] != 1 {
		t.Error("SubsetChampions() leaked internal slice")
	}

	ap := s.AutoPick()
	ap.Selected = append(ap.Selected, Champion{ID: 5})
	if len(s.AutoPick().Selected) != 0 {
		t.Error("AutoPick() leaked internal slice")
	}
}

func TestSetRosterIfEmpty(t *testing.T) {
	s := NewStore(Preferences{})
	if s.SetRosterIfEmpty(nil) {
		t.Error("empty roster should not be stored")
	}
	if !s.SetRosterIfEmpty([]event.Teammate{{PUUID: "a"}}) {
		t.Fatal("first roster not stored")
	}
	if s.SetRosterIfEmpty([]event.Teammate{{PUUID: "b"}}) {
		t.Error("second roster replaced the first")
	}
	if s.Roster()[0].PUUID != "a" {
		t.Errorf("roster = %+v", s.Roster())
	}
}

func TestSetSubsetIfEmpty(t *testing.T) {
	s := NewStore(Preferences{})
	if !s.SetSubsetIfEmpty([]uint16{3}) {
		t.Fatal("first subset not stored")
	}
	if s.SetSubsetIfEmpty([]uint16{4}) {
		t.Error("second subset replaced the first")
	}
}

func TestSetConversationResetsAnalysisLatch(t *testing.T) {
	s := NewStore(Preferences{})
	if !s.SetConversationID("room-1") {
		t.Fatal("new conversation id reported unchanged")
	}
	gen, _ := s.AnalysisSent().Begin()
	s.AnalysisSent().Commit(gen)

	if s.SetConversationID("room-1") {
		t.Error("same conversation id reported changed")
	}
	if !s.AnalysisSent().Done() {
		t.Error("same conversation id cleared the analysis latch")
	}

	s.SetConversationID("room-2")
	if s.AnalysisSent().State() != NotStarted {
		t.Error("new conversation id did not clear the analysis latch")
	}
}

func TestReset(t *testing.T) {
	s := NewStore(Preferences{AcceptDelaySeconds: 3, AutoSendAnalysis: true})
	s.SetChampionID(157)
	s.SetRosterIfEmpty([]event.Teammate{{PUUID: "a"}})
	s.SetSubsetIfEmpty([]uint16{1})
	s.SetConversationID("room")
	s.SetGameMode("ARAM")
	s.SetPhase(event.PhaseChampSelect)
	s.SetSummoner(lcu.Summoner{GameName: "me"})
	s.SetAcceptAt(time.Now())
	for _, l := range []*Latch{s.Picked(), s.Accepted(), s.AnalysisSent()} {
		gen, _ := l.Begin()
		l.Commit(gen)
	}

	s.Reset()

	if s.ChampionID() != 0 {
		t.Errorf("ChampionID = %d, want 0", s.ChampionID())
	}
	if len(s.Roster()) != 0 || len(s.SubsetChampions()) != 0 {
		t.Error("roster or subset not cleared")
	}
	if s.ConversationID() != "" || s.GameMode() != "" {
		t.Error("conversation or game mode not cleared")
	}
	if !s.AcceptAt().IsZero() {
		t.Error("pending accept time not cleared")
	}
	for name, l := range map[string]*Latch{"picked": s.Picked(), "accepted": s.Accepted(), "analysisSent": s.AnalysisSent()} {
		if l.State() != NotStarted {
			t.Errorf("%s latch = %v after Reset, want not_started", name, l.State())
		}
	}

	// Settings, phase and profile are not part of the reset set.
	if s.AcceptDelaySeconds() != 3 || !s.AutoSendAnalysis() {
		t.Error("Reset cleared preferences")
	}
	if s.Phase() != event.PhaseChampSelect {
		t.Error("Reset changed the phase")
	}
	if s.Summoner().GameName != "me" {
		t.Error("Reset cleared the summoner")
	}
}

func TestSnapshotJSON(t *testing.T) {
	s := NewStore(Preferences{AcceptDelaySeconds: 2})
	s.SetPhase(event.PhaseReadyCheck)
	s.SetReport([]analysis.PlayerScore{{Name: "a", Total: 1}})

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if got["phase"] != "ReadyCheck" {
		t.Errorf("phase = %v, want ReadyCheck", got["phase"])
	}
	if got["picked"] != "not_started" {
		t.Errorf("picked = %v, want not_started", got["picked"])
	}
	if _, ok := got["acceptAt"]; ok {
		t.Error("zero acceptAt should be omitted")
	}
	if got["acceptDelaySeconds"] != float64(2) {
		t.Errorf("acceptDelaySeconds = %v", got["acceptDelaySeconds"])
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore(Preferences{})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			s.SetChampionID(uint16(n))
			s.SetGameMode("ARAM")
			s.UpdateAutoPick(func(c *AutoPickConfig) { c.Enabled = n%2 == 0 })
			s.Reset()
		}(i)
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
}

func TestResetChampSelect(t *testing.T) {
	s := NewStore(Preferences{})
	s.SetChampionID(7)
	s.SetRosterIfEmpty([]event.Teammate{{CellID: 1}})
	s.SetSubsetIfEmpty([]uint16{1})
	s.SetConversationID("lobby")
	gen, _ := s.Picked().Begin()
	s.Picked().Commit(gen)

	s.ResetChampSelect()

	if s.ChampionID() != 0 || len(s.Roster()) != 0 || len(s.SubsetChampions()) != 0 {
		t.Errorf("pick episode not cleared: champion=%d roster=%v subset=%v", s.ChampionID(), s.Roster(), s.SubsetChampions())
	}
	if s.Picked().State() != NotStarted {
		t.Errorf("Picked() = %v, want not_started", s.Picked().State())
	}
	if s.ConversationID() != "lobby" {
		t.Errorf("ConversationID() = %q, want lobby", s.ConversationID())
	}
}
