package event

import (
	"errors"
	"fmt"
	"testing"
)

func frame(uri string, eventType Type, data string) []byte {
	return []byte(fmt.Sprintf(`[8,"OnJsonApiEvent",{"uri":%q,"eventType":%q,"data":%s}]`, uri, eventType, data))
}

func TestDecodeGameFlow(t *testing.T) {
	ev, err := Decode(frame(URIGameFlowSession, Update,
		`{"phase":"ChampSelect","map":{"gameMode":"ARAM"},"gameData":{"teamOne":[],"teamTwo":[]}}`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	gf, ok := ev.(GameFlowSession)
	if !ok {
		t.Fatalf("Decode() = %T, want GameFlowSession", ev)
	}
	if gf.Phase != PhaseChampSelect || gf.GameMode != "ARAM" || gf.Kind() != Update {
		t.Errorf("unexpected event: %+v", gf)
	}
}

func TestDecodeUnknownPhase(t *testing.T) {
	ev, _ := Decode(frame(URIGameFlowSession, Update, `{"phase":"WaitingForStats","map":{"gameMode":"CLASSIC"}}`))
	gf, ok := ev.(GameFlowSession)
	if !ok {
		t.Fatalf("Decode() = %T, want GameFlowSession", ev)
	}
	if gf.Phase != PhaseOther {
		t.Errorf("Phase = %v, want Other", gf.Phase)
	}
}

func TestDecodeReadyCheck(t *testing.T) {
	ev, err := Decode(frame(URIReadyCheck, Update, `{"playerResponse":"None","state":"InProgress","timer":3.5}`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	rc, ok := ev.(MatchmakingReadyCheck)
	if !ok || rc.Check == nil {
		t.Fatalf("Decode() = %#v, want MatchmakingReadyCheck with a check", ev)
	}
	if rc.Check.PlayerResponse != ResponseNone || rc.Check.Timer != 3.5 {
		t.Errorf("unexpected check: %+v", rc.Check)
	}

	ev, _ = Decode(frame(URIReadyCheck, Delete, `null`))
	rc, ok = ev.(MatchmakingReadyCheck)
	if !ok || rc.Check != nil {
		t.Errorf("null ready-check should decode with nil Check, got %#v", ev)
	}
}

func TestDecodeLobbyMatchmaking(t *testing.T) {
	ev, _ := Decode(frame(URILobbyMatchmaking, Update,
		`{"queueId":450,"searchState":"Found","readyCheck":{"playerResponse":"Accepted","timer":1}}`))
	lm, ok := ev.(LobbyMatchmaking)
	if !ok {
		t.Fatalf("Decode() = %T, want LobbyMatchmaking", ev)
	}
	if lm.QueueID != 450 || lm.SearchState != "Found" || lm.ReadyCheck == nil || lm.ReadyCheck.PlayerResponse != ResponseAccepted {
		t.Errorf("unexpected event: %+v", lm)
	}
}

func TestDecodeChampSelect(t *testing.T) {
	data := `{
		"benchChampions":[{"championId":1},{"championId":157}],
		"benchEnabled":true,
		"actions":[
			[{"actorCellId":0,"championId":0,"completed":true,"id":1,"isInProgress":false,"type":"ban"}],
			[{"actorCellId":2,"championId":0,"completed":false,"id":7,"isInProgress":true,"type":"pick"},
			 {"actorCellId":3,"championId":0,"completed":false,"id":8,"isInProgress":true,"type":"pick"}]
		],
		"localPlayerCellId":2,
		"myTeam":[{"cellId":2,"puuid":"p-2","summonerId":22,"championId":0},{"cellId":3,"puuid":"","summonerId":0,"championId":0}]
	}`
	ev, err := Decode(frame(URIChampSelectSession, Update, data))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	cs, ok := ev.(ChampSelectSession)
	if !ok {
		t.Fatalf("Decode() = %T, want ChampSelectSession", ev)
	}
	s := cs.Session
	if len(s.BenchChampions) != 2 || s.BenchChampions[1] != 157 || !s.BenchEnabled {
		t.Errorf("bench = %v enabled=%v", s.BenchChampions, s.BenchEnabled)
	}
	if len(s.Actions) != 3 {
		t.Fatalf("flattened %d actions, want 3", len(s.Actions))
	}
	if s.Actions[2].ID != 8 {
		t.Errorf("actions out of order: %+v", s.Actions)
	}
	if len(s.MyTeam) != 2 || s.MyTeam[0].PUUID != "p-2" {
		t.Errorf("myTeam = %+v", s.MyTeam)
	}
	a, ok := s.OwnPickAction()
	if !ok || a.ID != 7 {
		t.Errorf("OwnPickAction() = %+v, %v; want action 7", a, ok)
	}
	if !s.OnBench(157) || s.OnBench(2) {
		t.Error("OnBench reported wrong membership")
	}
}

func TestDecodeChampSelectEmptyActions(t *testing.T) {
	for _, actions := range []string{`[]`, `null`, `[[]]`} {
		ev, err := Decode(frame(URIChampSelectSession, Update,
			`{"benchChampions":[],"benchEnabled":false,"actions":`+actions+`,"localPlayerCellId":0,"myTeam":[]}`))
		if err != nil {
			t.Fatalf("Decode(actions=%s) error: %v", actions, err)
		}
		cs, ok := ev.(ChampSelectSession)
		if !ok {
			t.Fatalf("Decode(actions=%s) = %T, want ChampSelectSession", actions, ev)
		}
		if len(cs.Session.Actions) != 0 {
			t.Errorf("actions=%s flattened to %d actions, want 0", actions, len(cs.Session.Actions))
		}
		if _, ok := cs.Session.OwnPickAction(); ok {
			t.Errorf("actions=%s: OwnPickAction found an action", actions)
		}
	}
}

func TestDecodeSubsetAndCurrentChampion(t *testing.T) {
	ev, _ := Decode(frame(URISubsetChampions, Create, `[10,20,30]`))
	sub, ok := ev.(SubsetChampionList)
	if !ok || len(sub.Champions) != 3 || sub.Champions[0] != 10 {
		t.Errorf("subset decode = %#v", ev)
	}

	ev, _ = Decode(frame(URICurrentChampion, Create, `157`))
	cc, ok := ev.(CurrentChampion)
	if !ok || cc.ChampionID != 157 || cc.Kind() != Create {
		t.Errorf("current champion decode = %#v", ev)
	}
}

func TestDecodeChat(t *testing.T) {
	uri := "/lol-chat/v1/conversations/room1@lol-champ-select.pvp.net/messages/5"
	ev, _ := Decode(frame(uri, Create, `{"body":"joined_room","type":"system"}`))
	chat, ok := ev.(ChatConversation)
	if !ok {
		t.Fatalf("Decode() = %T, want ChatConversation", ev)
	}
	if chat.ConversationID != "room1@lol-champ-select.pvp.net" || !chat.Joined || !chat.Message || chat.Kind() != Create {
		t.Errorf("unexpected chat event: %+v", chat)
	}

	ev, _ = Decode(frame("/lol-chat/v1/conversations/room1@lol-champ-select.pvp.net", Delete, `null`))
	if chat, ok := ev.(ChatConversation); !ok || chat.Message || chat.Kind() != Delete {
		t.Errorf("conversation delete decoded to %#v", ev)
	}

	ev, _ = Decode(frame("/lol-chat/v1/conversations/friend@eu.pvp.net", Create, `{}`))
	if _, ok := ev.(Other); !ok {
		t.Errorf("non lobby conversation decoded to %T, want Other", ev)
	}
}

func TestDecodeOther(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"unknown uri", frame("/lol-store/v1/wallet", Update, `{"ip":1}`)},
		{"known uri wrong shape", frame(URIChampSelectSession, Update, `{"actions":"nope"}`)},
		{"current champion not a number", frame(URICurrentChampion, Create, `"x"`)},
		{"gameflow deleted", frame(URIGameFlowSession, Delete, `null`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode(tt.raw)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if _, ok := ev.(Other); !ok {
				t.Errorf("Decode() = %T, want Other", ev)
			}
		})
	}
}

func TestDecodeNonEventFrames(t *testing.T) {
	for _, raw := range []string{`[5,"OnJsonApiEvent"]`, `{"hello":1}`, `[0,"welcome",{}]`, `""`} {
		ev, err := Decode([]byte(raw))
		if err != nil || ev != nil {
			t.Errorf("Decode(%s) = %v, %v; want nil, nil", raw, ev, err)
		}
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	ev, err := Decode([]byte(`[8,"OnJsonApiEvent",{"uri":`))
	if ev != nil {
		t.Errorf("Decode() returned event %v for invalid JSON", ev)
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Decode() error = %v, want DecodeError", err)
	}
}

func TestPhaseStringRoundTrip(t *testing.T) {
	for p := PhaseNone; p <= PhaseOther; p++ {
		if p == PhaseOther {
			continue
		}
		if got := ParsePhase(p.String()); got != p {
			t.Errorf("ParsePhase(%q) = %v, want %v", p.String(), got, p)
		}
	}
	if ParsePhase("Reconnect") != PhaseOther {
		t.Error("unknown phase should parse to Other")
	}
}

func TestReadyCheckPending(t *testing.T) {
	tests := []struct {
		check ReadyCheck
		want  bool
	}{
		{ReadyCheck{PlayerResponse: ResponseNone, State: "InProgress"}, true},
		{ReadyCheck{PlayerResponse: ResponseNone}, true},
		{ReadyCheck{PlayerResponse: ResponseNone, State: "Invalid"}, false},
		{ReadyCheck{PlayerResponse: ResponseAccepted, State: "InProgress"}, false},
		{ReadyCheck{PlayerResponse: ResponseDeclined, State: "InProgress"}, false},
	}
	for _, tt := range tests {
		if got := tt.check.Pending(); got != tt.want {
			t.Errorf("%+v.Pending() = %v, want %v", tt.check, got, tt.want)
		}
	}
}
