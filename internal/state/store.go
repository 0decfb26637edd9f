// Package state holds the shared match-flow record read and written by the
// engine handlers and the UI.
//
// Every field is synchronised on its own; there are no cross-field
// transactions. Accessors return copies, so no caller holds a lock while it
// talks to the network.
package state

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Dragon-GCS/lolhelper/internal/analysis"
	"github.com/Dragon-GCS/lolhelper/internal/event"
	"github.com/Dragon-GCS/lolhelper/internal/lcu"
)

// Store is the game-state handle shared by the engine, the UI and the
// status server. The zero value is not usable; call NewStore.
type Store struct {
	listening  atomic.Bool
	championID atomic.Uint32
	acceptAt   atomic.Int64 // unix nanos of the scheduled accept, 0 = none

	summonerMu sync.RWMutex
	summoner   lcu.Summoner

	rosterMu sync.RWMutex
	roster   []event.Teammate

	phaseMu sync.RWMutex
	phase   event.GamePhase

	modeMu   sync.RWMutex
	gameMode string

	convMu         sync.RWMutex
	conversationID string

	subsetMu sync.RWMutex
	subset   []uint16

	reportMu sync.RWMutex
	report   []analysis.PlayerScore

	picked       Latch
	accepted     Latch
	analysisSent Latch

	acceptDelay atomic.Int64
	autoSend    atomic.Bool

	autoPickMu sync.RWMutex
	autoPick   AutoPickConfig
}

// Preferences are the user settings the store is seeded with.
type Preferences struct {
	AutoPick           AutoPickConfig
	AcceptDelaySeconds int
	AutoSendAnalysis   bool
}

// NewStore creates a store holding defaults plus the given preferences.
func NewStore(p Preferences) *Store {
	s := &Store{}
	s.autoPick = p.AutoPick.Clone()
	s.acceptDelay.Store(int64(p.AcceptDelaySeconds))
	s.autoSend.Store(p.AutoSendAnalysis)
	return s
}

// Preferences returns the current user settings.
func (s *Store) Preferences() Preferences {
	return Preferences{
		AutoPick:           s.AutoPick(),
		AcceptDelaySeconds: s.AcceptDelaySeconds(),
		AutoSendAnalysis:   s.AutoSendAnalysis(),
	}
}

func (s *Store) Listening() bool     { return s.listening.Load() }
func (s *Store) SetListening(v bool) { s.listening.Store(v) }

func (s *Store) ChampionID() uint16      { return uint16(s.championID.Load()) }
func (s *Store) SetChampionID(id uint16) { s.championID.Store(uint32(id)) }

// AcceptAt returns when the scheduled ready-check accept fires, or the zero
// time when none is pending.
func (s *Store) AcceptAt() time.Time {
	n := s.acceptAt.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

func (s *Store) SetAcceptAt(t time.Time) {
	if t.IsZero() {
		s.acceptAt.Store(0)
		return
	}
	s.acceptAt.Store(t.UnixNano())
}

func (s *Store) Summoner() lcu.Summoner {
	s.summonerMu.RLock()
	defer s.summonerMu.RUnlock()
	return s.summoner
}

func (s *Store) SetSummoner(v lcu.Summoner) {
	s.summonerMu.Lock()
	defer s.summonerMu.Unlock()
	s.summoner = v
}

func (s *Store) Roster() []event.Teammate {
	s.rosterMu.RLock()
	defer s.rosterMu.RUnlock()
	return slices.Clone(s.roster)
}

// SetRosterIfEmpty records the team roster once per episode.
func (s *Store) SetRosterIfEmpty(team []event.Teammate) bool {
	if len(team) == 0 {
		return false
	}
	s.rosterMu.Lock()
	defer s.rosterMu.Unlock()
	if len(s.roster) > 0 {
		return false
	}
	s.roster = slices.Clone(team)
	return true
}

func (s *Store) Phase() event.GamePhase {
	s.phaseMu.RLock()
	defer s.phaseMu.RUnlock()
	return s.phase
}

func (s *Store) SetPhase(p event.GamePhase) {
	s.phaseMu.Lock()
	defer s.phaseMu.Unlock()
	s.phase = p
}

func (s *Store) GameMode() string {
	s.modeMu.RLock()
	defer s.modeMu.RUnlock()
	return s.gameMode
}

func (s *Store) SetGameMode(mode string) {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	s.gameMode = mode
}

func (s *Store) ConversationID() string {
	s.convMu.RLock()
	defer s.convMu.RUnlock()
	return s.conversationID
}

// SetConversationID records the lobby conversation. A different id starts
// a new analysis episode; it reports whether the id changed.
func (s *Store) SetConversationID(id string) bool {
	s.convMu.Lock()
	defer s.convMu.Unlock()
	if s.conversationID == id {
		return false
	}
	s.conversationID = id
	s.analysisSent.Reset()
	return true
}

func (s *Store) SubsetChampions() []uint16 {
	s.subsetMu.RLock()
	defer s.subsetMu.RUnlock()
	return slices.Clone(s.subset)
}

// SetSubsetIfEmpty records the eligible pool unless one is already known.
func (s *Store) SetSubsetIfEmpty(ids []uint16) bool {
	s.subsetMu.Lock()
	defer s.subsetMu.Unlock()
	if len(s.subset) > 0 || len(ids) == 0 {
		return false
	}
	s.subset = slices.Clone(ids)
	return true
}

func (s *Store) Report() []analysis.PlayerScore {
	s.reportMu.RLock()
	defer s.reportMu.RUnlock()
	return slices.Clone(s.report)
}

func (s *Store) SetReport(scores []analysis.PlayerScore) {
	s.reportMu.Lock()
	defer s.reportMu.Unlock()
	s.report = slices.Clone(scores)
}

// Picked guards the one pick or swap of a champ-select episode.
func (s *Store) Picked() *Latch { return &s.picked }

// Accepted guards the one accept of a ready-check episode.
func (s *Store) Accepted() *Latch { return &s.accepted }

// AnalysisSent guards the one analysis post of a conversation.
func (s *Store) AnalysisSent() *Latch { return &s.analysisSent }

func (s *Store) AcceptDelaySeconds() int     { return int(s.acceptDelay.Load()) }
func (s *Store) SetAcceptDelaySeconds(n int) { s.acceptDelay.Store(int64(n)) }

func (s *Store) AutoSendAnalysis() bool     { return s.autoSend.Load() }
func (s *Store) SetAutoSendAnalysis(v bool) { s.autoSend.Store(v) }

func (s *Store) AutoPick() AutoPickConfig {
	s.autoPickMu.RLock()
	defer s.autoPickMu.RUnlock()
	return s.autoPick.Clone()
}

func (s *Store) SetAutoPick(c AutoPickConfig) {
	s.autoPickMu.Lock()
	defer s.autoPickMu.Unlock()
	s.autoPick = c.Clone()
}

// UpdateAutoPick applies fn to the pick config under the write lock and
// returns the result.
func (s *Store) UpdateAutoPick(fn func(*AutoPickConfig)) AutoPickConfig {
	s.autoPickMu.Lock()
	defer s.autoPickMu.Unlock()
	fn(&s.autoPick)
	return s.autoPick.Clone()
}

// Reset clears all per-game state at an episode boundary. Preferences and
// the summoner profile survive.
func (s *Store) Reset() {
	s.SetChampionID(0)
	s.SetAcceptAt(time.Time{})

	s.rosterMu.Lock()
	s.roster = nil
	s.rosterMu.Unlock()

	s.subsetMu.Lock()
	s.subset = nil
	s.subsetMu.Unlock()

	s.convMu.Lock()
	s.conversationID = ""
	s.convMu.Unlock()

	s.SetGameMode("")

	s.analysisSent.Reset()
	s.accepted.Reset()
	s.picked.Reset()
}

// ResetChampSelect clears the pick episode: the picked latch, the assigned
// champion, the roster and the subset pool. A requeue after a dodged champ
// select goes through here instead of a full Reset.
func (s *Store) ResetChampSelect() {
	s.SetChampionID(0)

	s.rosterMu.Lock()
	s.roster = nil
	s.rosterMu.Unlock()

	s.subsetMu.Lock()
	s.subset = nil
	s.subsetMu.Unlock()

	s.picked.Reset()
}

// Snapshot is a point-in-time copy for display. Fields are read one at a
// time, so it is not a transaction.
type Snapshot struct {
	Listening          bool                   `json:"listening"`
	Phase              event.GamePhase        `json:"phase"`
	GameMode           string                 `json:"gameMode"`
	ChampionID         uint16                 `json:"championId"`
	Summoner           lcu.Summoner           `json:"summoner"`
	Roster             []event.Teammate       `json:"roster"`
	ConversationID     string                 `json:"conversationId"`
	SubsetChampions    []uint16               `json:"subsetChampions"`
	Picked             LatchState             `json:"picked"`
	Accepted           LatchState             `json:"accepted"`
	AnalysisSent       LatchState             `json:"analysisSent"`
	AcceptAt           time.Time              `json:"acceptAt,omitzero"`
	AcceptDelaySeconds int                    `json:"acceptDelaySeconds"`
	AutoSendAnalysis   bool                   `json:"autoSendAnalysis"`
	AutoPick           AutoPickConfig         `json:"autoPick"`
	Report             []analysis.PlayerScore `json:"report,omitempty"`
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Listening:          s.Listening(),
		Phase:              s.Phase(),
		GameMode:           s.GameMode(),
		ChampionID:         s.ChampionID(),
		Summoner:           s.Summoner(),
		Roster:             s.Roster(),
		ConversationID:     s.ConversationID(),
		SubsetChampions:    s.SubsetChampions(),
		Picked:             s.picked.State(),
		Accepted:           s.accepted.State(),
		AnalysisSent:       s.analysisSent.State(),
		AcceptAt:           s.AcceptAt(),
		AcceptDelaySeconds: s.AcceptDelaySeconds(),
		AutoSendAnalysis:   s.AutoSendAnalysis(),
		AutoPick:           s.AutoPick(),
		Report:             s.Report(),
	}
}
