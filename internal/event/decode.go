package event

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// opEvent is the opcode of server-pushed event frames.
const opEvent = 8

// DecodeError reports a frame that is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding frame: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type payload struct {
	URI       string          `json:"uri"`
	EventType Type            `json:"eventType"`
	Data      json.RawMessage `json:"data"`
}

// Decode parses one websocket frame of the form
// [opcode, tag, {uri, eventType, data}].
//
// Invalid JSON is the only error. Valid frames that are not event frames
// return a nil Event; event payloads the engine does not consume decode to
// Other.
func Decode(raw []byte) (Event, error) {
	var frame []json.RawMessage
	if err := json.Unmarshal(raw, &frame); err != nil {
		if json.Valid(raw) {
			return nil, nil
		}
		return nil, &DecodeError{Err: err}
	}
	if len(frame) < 3 {
		return nil, nil
	}
	var op int
	if err := json.Unmarshal(frame[0], &op); err != nil || op != opEvent {
		return nil, nil
	}

	var p payload
	if err := json.Unmarshal(frame[2], &p); err != nil {
		return Other{Raw: frame[2]}, nil
	}
	return decodePayload(p), nil
}

func decodePayload(p payload) Event {
	var (
		ev  Event
		err error
	)
	switch p.URI {
	case URIGameFlowSession:
		ev, err = decodeGameFlow(p)
	case URIReadyCheck:
		ev, err = decodeReadyCheck(p)
	case URILobbyMatchmaking:
		ev, err = decodeLobbyMatchmaking(p)
	case URIChampSelectSession:
		ev, err = decodeChampSelect(p)
	case URISubsetChampions:
		ev, err = decodeSubset(p)
	case URICurrentChampion:
		ev, err = decodeCurrentChampion(p)
	default:
		if id, message, ok := ParseConversationURI(p.URI); ok {
			return ChatConversation{Type: p.EventType, ConversationID: id, Message: message, Joined: isJoinedRoom(p.Data)}
		}
	}
	if ev == nil || err != nil {
		return Other{URI: p.URI, Type: p.EventType, Raw: p.Data}
	}
	return ev
}

func isNull(data json.RawMessage) bool {
	return len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

func decodeGameFlow(p payload) (Event, error) {
	if isNull(p.Data) {
		return nil, nil
	}
	var data struct {
		Phase GamePhase `json:"phase"`
		Map   struct {
			GameMode string `json:"gameMode"`
		} `json:"map"`
	}
	if err := json.Unmarshal(p.Data, &data); err != nil {
		return nil, err
	}
	return GameFlowSession{Type: p.EventType, Phase: data.Phase, GameMode: data.Map.GameMode}, nil
}

func decodeReadyCheck(p payload) (Event, error) {
	if isNull(p.Data) {
		return MatchmakingReadyCheck{Type: p.EventType}, nil
	}
	var rc ReadyCheck
	if err := json.Unmarshal(p.Data, &rc); err != nil {
		return nil, err
	}
	return MatchmakingReadyCheck{Type: p.EventType, Check: &rc}, nil
}

func decodeLobbyMatchmaking(p payload) (Event, error) {
	if isNull(p.Data) {
		return LobbyMatchmaking{Type: p.EventType}, nil
	}
	var data struct {
		QueueID     int         `json:"queueId"`
		SearchState string      `json:"searchState"`
		ReadyCheck  *ReadyCheck `json:"readyCheck"`
	}
	if err := json.Unmarshal(p.Data, &data); err != nil {
		return nil, err
	}
	return LobbyMatchmaking{
		Type:        p.EventType,
		QueueID:     data.QueueID,
		SearchState: data.SearchState,
		ReadyCheck:  data.ReadyCheck,
	}, nil
}

type championRef struct {
	ChampionID uint16 `json:"championId"`
}

func decodeChampSelect(p payload) (Event, error) {
	if isNull(p.Data) {
		return nil, nil
	}
	var data struct {
		BenchChampions    []championRef `json:"benchChampions"`
		BenchEnabled      bool          `json:"benchEnabled"`
		Actions           [][]Action    `json:"actions"`
		LocalPlayerCellID int           `json:"localPlayerCellId"`
		MyTeam            []Teammate    `json:"myTeam"`
	}
	if err := json.Unmarshal(p.Data, &data); err != nil {
		return nil, err
	}
	return ChampSelectSession{
		Type: p.EventType,
		Session: ChampSelect{
			BenchChampions:    championIDs(data.BenchChampions),
			BenchEnabled:      data.BenchEnabled,
			Actions:           flattenActions(data.Actions),
			LocalPlayerCellID: data.LocalPlayerCellID,
			MyTeam:            data.MyTeam,
		},
	}, nil
}

func decodeSubset(p payload) (Event, error) {
	var ids []uint16
	if !isNull(p.Data) {
		if err := json.Unmarshal(p.Data, &ids); err != nil {
			return nil, err
		}
	}
	return SubsetChampionList{Type: p.EventType, Champions: ids}, nil
}

func decodeCurrentChampion(p payload) (Event, error) {
	if isNull(p.Data) {
		return nil, nil
	}
	var id uint16
	if err := json.Unmarshal(p.Data, &id); err != nil {
		return nil, err
	}
	return CurrentChampion{Type: p.EventType, ChampionID: id}, nil
}

// championIDs extracts the id from each {championId} wrapper.
func championIDs(refs []championRef) []uint16 {
	ids := make([]uint16, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ChampionID)
	}
	return ids
}

// flattenActions joins the per-turn action groups into one ordered slice.
func flattenActions(groups [][]Action) []Action {
	var n int
	for _, g := range groups {
		n += len(g)
	}
	out := make([]Action, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
