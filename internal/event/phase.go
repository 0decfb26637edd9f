package event

import "encoding/json"

// GamePhase is the client's match-flow phase. The zero value is PhaseNone.
type GamePhase int

const (
	PhaseNone GamePhase = iota
	PhaseLobby
	PhaseMatchmaking
	PhaseReadyCheck
	PhaseChampSelect
	PhaseGameStart
	PhaseInProgress
	PhasePreEndOfGame
	PhaseOther // any phase string not listed above
)

var phaseNames = map[GamePhase]string{
	PhaseNone:         "None",
	PhaseLobby:        "Lobby",
	PhaseMatchmaking:  "Matchmaking",
	PhaseReadyCheck:   "ReadyCheck",
	PhaseChampSelect:  "ChampSelect",
	PhaseGameStart:    "GameStart",
	PhaseInProgress:   "InProgress",
	PhasePreEndOfGame: "PreEndOfGame",
	PhaseOther:        "Other",
}

var phaseFromName = map[string]GamePhase{
	"None":         PhaseNone,
	"Lobby":        PhaseLobby,
	"Matchmaking":  PhaseMatchmaking,
	"ReadyCheck":   PhaseReadyCheck,
	"ChampSelect":  PhaseChampSelect,
	"GameStart":    PhaseGameStart,
	"InProgress":   PhaseInProgress,
	"PreEndOfGame": PhasePreEndOfGame,
}

func (p GamePhase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "Other"
}

// ParsePhase maps a phase string to its constant; unknown names are
// PhaseOther.
func ParsePhase(s string) GamePhase {
	if p, ok := phaseFromName[s]; ok {
		return p
	}
	return PhaseOther
}

func (p GamePhase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *GamePhase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = ParsePhase(s)
	return nil
}
