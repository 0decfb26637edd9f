// Package event decodes the client's websocket frames into a closed set of
// typed events. Only the fields the automation needs are decoded.
package event

import "encoding/json"

// Type is the change kind reported with every event.
type Type string

const (
	Create Type = "Create"
	Update Type = "Update"
	Delete Type = "Delete"
)

// Endpoint URIs carried in the payload's "uri" field.
const (
	URIGameFlowSession    = "/lol-gameflow/v1/session"
	URIReadyCheck         = "/lol-matchmaking/v1/ready-check"
	URILobbyMatchmaking   = "/lol-lobby-team-builder/v1/matchmaking"
	URIChampSelectSession = "/lol-champ-select/v1/session"
	URISubsetChampions    = "/lol-lobby-team-builder/champ-select/v1/subset-champion-list"
	URICurrentChampion    = "/lol-lobby-team-builder/champ-select/v1/current-champion"
)

// Event is one decoded frame. The set of implementations is closed.
type Event interface {
	Kind() Type
	isEvent()
}

// GameFlowSession reports the client's match-flow phase.
type GameFlowSession struct {
	Type     Type
	Phase    GamePhase
	GameMode string
}

// ReadyResponse is the local player's answer to a ready-check.
type ReadyResponse string

const (
	ResponseNone     ReadyResponse = "None"
	ResponseAccepted ReadyResponse = "Accepted"
	ResponseDeclined ReadyResponse = "Declined"
)

// ReadyCheck is the state of a pending ready-check.
type ReadyCheck struct {
	PlayerResponse ReadyResponse `json:"playerResponse"`
	State          string        `json:"state"`
	Timer          float64       `json:"timer"`
}

// Pending reports whether the check is live and still awaiting the local
// player's answer. The lobby endpoint reports state "Invalid" while merely
// searching.
func (r ReadyCheck) Pending() bool {
	if r.PlayerResponse != ResponseNone {
		return false
	}
	return r.State == "" || r.State == "InProgress"
}

// MatchmakingReadyCheck is emitted by the matchmaking ready-check endpoint.
// Check is nil when the ready-check was removed.
type MatchmakingReadyCheck struct {
	Type  Type
	Check *ReadyCheck
}

// LobbyMatchmaking is emitted while searching for a match. ReadyCheck is nil
// when the payload carries no ready-check.
type LobbyMatchmaking struct {
	Type        Type
	QueueID     int
	SearchState string
	ReadyCheck  *ReadyCheck
}

// Action is one pick or ban turn in champ select.
type Action struct {
	ActorCellID  int    `json:"actorCellId"`
	ChampionID   uint16 `json:"championId"`
	Completed    bool   `json:"completed"`
	ID           int    `json:"id"`
	IsInProgress bool   `json:"isInProgress"`
	Type         string `json:"type"`
}

// Teammate is one entry of the local team roster.
type Teammate struct {
	CellID     int    `json:"cellId"`
	PUUID      string `json:"puuid"`
	SummonerID uint64 `json:"summonerId"`
	ChampionID uint16 `json:"championId"`
}

// ChampSelect is the decoded champ-select session.
type ChampSelect struct {
	BenchChampions    []uint16
	BenchEnabled      bool
	Actions           []Action
	LocalPlayerCellID int
	MyTeam            []Teammate
}

// OwnPickAction returns the local player's in-progress pick action.
func (c ChampSelect) OwnPickAction() (Action, bool) {
	for _, a := range c.Actions {
		if a.ActorCellID == c.LocalPlayerCellID && a.Type == "pick" && a.IsInProgress {
			return a, true
		}
	}
	return Action{}, false
}

// OnBench reports whether the champion is available for a bench swap.
func (c ChampSelect) OnBench(championID uint16) bool {
	for _, id := range c.BenchChampions {
		if id == championID {
			return true
		}
	}
	return false
}

// ChampSelectSession carries a champ-select session update.
type ChampSelectSession struct {
	Type    Type
	Session ChampSelect
}

// SubsetChampionList carries the eligible pool of draft-less modes.
type SubsetChampionList struct {
	Type      Type
	Champions []uint16
}

// CurrentChampion reports the champion assigned to the local player.
type CurrentChampion struct {
	Type       Type
	ChampionID uint16
}

// ChatConversation is a champ-select lobby chat event. Message is set when
// the event concerns one message rather than the conversation. Joined is set
// when the body is the system "joined_room" message.
type ChatConversation struct {
	Type           Type
	ConversationID string
	Message        bool
	Joined         bool
}

// Other is any payload the engine does not consume.
type Other struct {
	URI  string
	Type Type
	Raw  json.RawMessage
}

func (e GameFlowSession) Kind() Type       { return e.Type }
func (e MatchmakingReadyCheck) Kind() Type { return e.Type }
func (e LobbyMatchmaking) Kind() Type      { return e.Type }
func (e ChampSelectSession) Kind() Type    { return e.Type }
func (e SubsetChampionList) Kind() Type    { return e.Type }
func (e CurrentChampion) Kind() Type       { return e.Type }
func (e ChatConversation) Kind() Type      { return e.Type }
func (e Other) Kind() Type                 { return e.Type }

func (GameFlowSession) isEvent()       {}
func (MatchmakingReadyCheck) isEvent() {}
func (LobbyMatchmaking) isEvent()      {}
func (ChampSelectSession) isEvent()    {}
func (SubsetChampionList) isEvent()    {}
func (CurrentChampion) isEvent()       {}
func (ChatConversation) isEvent()      {}
func (Other) isEvent()                 {}
