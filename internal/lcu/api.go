package lcu

import (
	"context"
	"fmt"
	"net/url"
)

// MaxMatches is the number of recent matches fetched per player.
const MaxMatches = 20

const (
	pathReadyCheckAccept = "/lol-matchmaking/v1/ready-check/accept"
	pathBenchSwap        = "/lol-champ-select/v1/session/bench/swap/%d"
	pathSessionAction    = "/lol-champ-select/v1/session/actions/%d"
	pathCurrentSummoner  = "/lol-summoner/v1/current-summoner"
	pathSummonerByPUUID  = "/lol-summoner/v2/summoners/puuid/%s"
	pathOwnedChampions   = "/lol-champions/v1/owned-champions-minimal"
	pathMatchHistory     = "/lol-match-history/v1/products/lol/%s/matches?begIndex=%d&endIndex=%d"
	pathConversationMsgs = "/lol-chat/v1/conversations/%s/messages"
	pathSubsetChampions  = "/lol-lobby-team-builder/champ-select/v1/subset-champion-list"
)

// Summoner is the subset of a summoner profile the helper displays.
type Summoner struct {
	GameName      string `json:"gameName"`
	DisplayName   string `json:"displayName,omitempty"`
	SummonerID    uint64 `json:"summonerId"`
	SummonerLevel int    `json:"summonerLevel"`
	PUUID         string `json:"puuid"`
}

// Name returns the Riot ID game name, falling back to the legacy display
// name on older clients.
func (s Summoner) Name() string {
	if s.GameName != "" {
		return s.GameName
	}
	return s.DisplayName
}

// OwnedChampion is one entry of the owned-champions list.
type OwnedChampion struct {
	ID    uint16 `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// DisplayName is the "name-title" label shown in pick lists.
func (c OwnedChampion) DisplayName() string {
	return c.Name + "-" + c.Title
}

// MatchRecord is one match from the perspective of the queried player.
type MatchRecord struct {
	GameMode    string
	DurationSec int
	Kills       int
	Deaths      int
	Assists     int
	Win         bool
	Damage      int
}

type participantStats struct {
	Kills                       int  `json:"kills"`
	Deaths                      int  `json:"deaths"`
	Assists                     int  `json:"assists"`
	Win                         bool `json:"win"`
	TotalDamageDealtToChampions int  `json:"totalDamageDealtToChampions"`
}

type matchHistoryResponse struct {
	Games struct {
		Games []struct {
			GameMode     string `json:"gameMode"`
			GameDuration int    `json:"gameDuration"`
			Participants []struct {
				Stats participantStats `json:"stats"`
			} `json:"participants"`
		} `json:"games"`
	} `json:"games"`
}

// AcceptReadyCheck accepts the pending ready-check.
func (c *Client) AcceptReadyCheck(ctx context.Context) error {
	return c.post(ctx, pathReadyCheckAccept, nil, nil)
}

// SwapBenchChampion swaps the player's champion with one on the bench.
func (c *Client) SwapBenchChampion(ctx context.Context, championID uint16) error {
	return c.post(ctx, fmt.Sprintf(pathBenchSwap, championID), nil, nil)
}

// PickChampion completes a pick action with the given champion.
func (c *Client) PickChampion(ctx context.Context, actionID int, championID uint16) error {
	body := map[string]any{
		"championId": championID,
		"completed":  true,
		"type":       "pick",
	}
	return c.patch(ctx, fmt.Sprintf(pathSessionAction, actionID), body, nil)
}

// CurrentSummoner fetches the logged-in summoner.
func (c *Client) CurrentSummoner(ctx context.Context) (Summoner, error) {
	var s Summoner
	err := c.get(ctx, pathCurrentSummoner, &s)
	return s, err
}

// SummonerByPUUID fetches another player's profile.
func (c *Client) SummonerByPUUID(ctx context.Context, puuid string) (Summoner, error) {
	var s Summoner
	err := c.get(ctx, fmt.Sprintf(pathSummonerByPUUID, url.PathEscape(puuid)), &s)
	return s, err
}

// OwnedChampions lists champions the player can pick.
func (c *Client) OwnedChampions(ctx context.Context) ([]OwnedChampion, error) {
	var out []OwnedChampion
	if err := c.get(ctx, pathOwnedChampions, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MatchHistory fetches count matches starting at begin, most recent first.
// Only the first participant's stats are kept; that is the queried player.
func (c *Client) MatchHistory(ctx context.Context, puuid string, begin, count int) ([]MatchRecord, error) {
	if count <= 0 {
		return nil, nil
	}
	var resp matchHistoryResponse
	path := fmt.Sprintf(pathMatchHistory, url.PathEscape(puuid), begin, begin+count-1)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}

	records := make([]MatchRecord, 0, len(resp.Games.Games))
	for _, g := range resp.Games.Games {
		if len(g.Participants) == 0 {
			continue
		}
		st := g.Participants[0].Stats
		records = append(records, MatchRecord{
			GameMode:    g.GameMode,
			DurationSec: g.GameDuration,
			Kills:       st.Kills,
			Deaths:      st.Deaths,
			Assists:     st.Assists,
			Win:         st.Win,
			Damage:      st.TotalDamageDealtToChampions,
		})
	}
	return records, nil
}

// SendChatMessage posts a chat message into a conversation.
func (c *Client) SendChatMessage(ctx context.Context, conversationID, body string) error {
	msg := map[string]string{"body": body, "type": "chat"}
	return c.post(ctx, fmt.Sprintf(pathConversationMsgs, url.PathEscape(conversationID)), msg, nil)
}

// SubsetChampionList fetches the eligible champion pool of draft-less modes.
func (c *Client) SubsetChampionList(ctx context.Context) ([]uint16, error) {
	var out []uint16
	if err := c.get(ctx, pathSubsetChampions, &out); err != nil {
		return nil, err
	}
	return out, nil
}
