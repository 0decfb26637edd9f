// Package mock plays a scripted game so the engine, the status server and
// the TUI can be exercised without a running client.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Dragon-GCS/lolhelper/internal/engine"
	"github.com/Dragon-GCS/lolhelper/internal/event"
	"github.com/Dragon-GCS/lolhelper/internal/lcu"
)

const (
	selfPUUID    = "mock-self"
	conversation = "mock-lobby@champ-select.lol-champ-select.pvp.net"
	gameMode     = "ARAM"

	// readyCheckTimeout mirrors the client declining on the player's behalf.
	readyCheckTimeout = 12 * time.Second
)

var owned = []lcu.OwnedChampion{
	{ID: 103, Name: "Ahri", Title: "the Nine-Tailed Fox"},
	{ID: 1, Name: "Annie", Title: "the Dark Child"},
	{ID: 63, Name: "Brand", Title: "the Burning Vengeance"},
	{ID: 99, Name: "Lux", Title: "the Lady of Luminosity"},
	{ID: 21, Name: "Miss Fortune", Title: "the Bounty Hunter"},
	{ID: 350, Name: "Yuumi", Title: "the Magical Cat"},
	{ID: 238, Name: "Zed", Title: "the Master of Shadows"},
}

var teammates = []struct {
	puuid, name string
}{
	{selfPUUID, "Demo"},
	{"mock-2", "Yuumi enjoyer"},
	{"mock-3", "Baron steal"},
	{"mock-4", "Tower diver"},
	{"mock-5", "Ward bot"},
}

// Connect returns a connector that plays the script, pausing step between
// events.
func Connect(step time.Duration) engine.ConnectFunc {
	return func(ctx context.Context) (engine.Commander, engine.Stream, error) {
		c := newClient(step)
		go c.play(ctx)
		return c, c, nil
	}
}

// Client serves both the command API and the event stream of one scripted
// session.
type Client struct {
	step     time.Duration
	frames   chan []byte
	accepted chan struct{}
	closed   chan struct{}
	once     sync.Once

	mu    sync.Mutex
	calls []string
}

func newClient(step time.Duration) *Client {
	return &Client{
		step:     step,
		frames:   make(chan []byte),
		accepted: make(chan struct{}, 1),
		closed:   make(chan struct{}),
	}
}

// Calls returns the commands received so far.
func (c *Client) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *Client) record(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
}

// ReadFrame blocks until the script emits the next frame.
func (c *Client) ReadFrame() ([]byte, error) {
	select {
	case f := <-c.frames:
		return f, nil
	case <-c.closed:
		return nil, &lcu.ChannelError{Err: io.EOF}
	}
}

func (c *Client) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *Client) AcceptReadyCheck(ctx context.Context) error {
	c.record("accept")
	select {
	case c.accepted <- struct{}{}:
	default:
	}
	return nil
}

func (c *Client) SwapBenchChampion(ctx context.Context, championID uint16) error {
	c.record("swap %d", championID)
	return nil
}

func (c *Client) PickChampion(ctx context.Context, actionID int, championID uint16) error {
	c.record("pick %d %d", actionID, championID)
	return nil
}

func (c *Client) CurrentSummoner(ctx context.Context) (lcu.Summoner, error) {
	return lcu.Summoner{GameName: "Demo", SummonerLevel: 30, PUUID: selfPUUID}, nil
}

func (c *Client) SummonerByPUUID(ctx context.Context, puuid string) (lcu.Summoner, error) {
	for _, t := range teammates {
		if t.puuid == puuid {
			return lcu.Summoner{GameName: t.name, PUUID: puuid}, nil
		}
	}
	return lcu.Summoner{}, &lcu.ResponseError{Method: "GET", Path: "/lol-summoner/v2/summoners/puuid/" + puuid, Status: 404}
}

func (c *Client) OwnedChampions(ctx context.Context) ([]lcu.OwnedChampion, error) {
	return append([]lcu.OwnedChampion(nil), owned...), nil
}

// MatchHistory generates a stable history per player.
func (c *Client) MatchHistory(ctx context.Context, puuid string, begin, count int) ([]lcu.MatchRecord, error) {
	h := fnv.New64a()
	h.Write([]byte(puuid))
	rng := rand.New(rand.NewPCG(h.Sum64(), uint64(begin)))

	out := make([]lcu.MatchRecord, 0, count)
	for range count {
		out = append(out, lcu.MatchRecord{
			GameMode:    gameMode,
			DurationSec: 900 + rng.IntN(900),
			Kills:       rng.IntN(15),
			Deaths:      rng.IntN(12),
			Assists:     rng.IntN(30),
			Win:         rng.IntN(2) == 0,
			Damage:      8000 + rng.IntN(30000),
		})
	}
	return out, nil
}

func (c *Client) SendChatMessage(ctx context.Context, conversationID, body string) error {
	c.record("chat %s", conversationID)
	return nil
}

func (c *Client) SubsetChampionList(ctx context.Context) ([]uint16, error) {
	return nil, nil
}

// play loops the script until the stream is closed or ctx is done.
func (c *Client) play(ctx context.Context) {
	for {
		for _, s := range script() {
			if !c.wait(ctx, s.pause) {
				return
			}
			if s.awaitAccept && !c.waitAccept(ctx) {
				return
			}
			select {
			case c.frames <- s.frame:
			case <-c.closed:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

// wait sleeps n steps.
func (c *Client) wait(ctx context.Context, n int) bool {
	t := time.NewTimer(time.Duration(n) * c.step)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-c.closed:
		return false
	case <-ctx.Done():
		return false
	}
}

// waitAccept holds the script at the ready check until it is accepted or
// times out.
func (c *Client) waitAccept(ctx context.Context) bool {
	t := time.NewTimer(readyCheckTimeout)
	defer t.Stop()
	select {
	case <-c.accepted:
	case <-t.C:
	case <-c.closed:
		return false
	case <-ctx.Done():
		return false
	}
	return true
}

type scriptStep struct {
	pause       int
	awaitAccept bool
	frame       []byte
}

func script() []scriptStep {
	members := make([]event.Teammate, 0, len(teammates))
	for i, t := range teammates {
		members = append(members, event.Teammate{CellID: i, PUUID: t.puuid})
	}
	session := map[string]any{
		"benchEnabled":      true,
		"benchChampions":    []map[string]uint16{{"championId": 99}, {"championId": 350}},
		"localPlayerCellId": 0,
		"myTeam":            members,
		"actions": [][]event.Action{{
			{ID: 1, ActorCellID: 0, Type: "pick", IsInProgress: true},
		}},
	}

	return []scriptStep{
		{pause: 1, frame: frame(event.URIGameFlowSession, event.Update, gameFlow(event.PhaseLobby))},
		{pause: 2, frame: frame(event.URIGameFlowSession, event.Update, gameFlow(event.PhaseMatchmaking))},
		{pause: 3, frame: frame(event.URIGameFlowSession, event.Update, gameFlow(event.PhaseReadyCheck))},
		{pause: 0, frame: frame(event.URIReadyCheck, event.Update, event.ReadyCheck{
			PlayerResponse: event.ResponseNone, State: "InProgress", Timer: 0,
		})},
		{pause: 0, awaitAccept: true, frame: frame(event.URIReadyCheck, event.Update, event.ReadyCheck{
			PlayerResponse: event.ResponseAccepted, State: "EveryoneReady",
		})},
		{pause: 1, frame: frame(event.URIGameFlowSession, event.Update, gameFlow(event.PhaseChampSelect))},
		{pause: 1, frame: frame("/lol-chat/v1/conversations/"+conversation, event.Create, map[string]string{
			"body": "joined_room", "type": "system",
		})},
		{pause: 1, frame: frame(event.URIChampSelectSession, event.Update, session)},
		{pause: 4, frame: frame(event.URIGameFlowSession, event.Update, gameFlow(event.PhaseGameStart))},
		{pause: 1, frame: frame("/lol-chat/v1/conversations/"+conversation, event.Delete, nil)},
		{pause: 1, frame: frame(event.URIGameFlowSession, event.Update, gameFlow(event.PhaseInProgress))},
		{pause: 8, frame: frame(event.URIGameFlowSession, event.Update, gameFlow(event.PhasePreEndOfGame))},
	}
}

func gameFlow(p event.GamePhase) map[string]any {
	return map[string]any{
		"phase": p.String(),
		"map":   map[string]string{"gameMode": gameMode},
	}
}

func frame(uri string, eventType event.Type, data any) []byte {
	b, err := json.Marshal([]any{8, "OnJsonApiEvent", map[string]any{
		"uri":       uri,
		"eventType": eventType,
		"data":      data,
	}})
	if err != nil {
		panic(fmt.Sprintf("mock: encoding frame for %s: %v", uri, err))
	}
	return b
}
