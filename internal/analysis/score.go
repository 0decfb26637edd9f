// Package analysis aggregates a player's recent match history into a
// PlayerScore and formats it for the lobby chat.
package analysis

import (
	"fmt"
	"strings"

	"github.com/Dragon-GCS/lolhelper/internal/lcu"
)

// PlayerScore summarises one player's recent matches in a single mode.
type PlayerScore struct {
	Name   string  `json:"name"`
	Mode   string  `json:"mode"`
	KDA    float64 `json:"kda"`
	DPM    float64 `json:"dpm"`
	Streak int     `json:"streak"` // >0 win streak, <0 loss streak
	Wins   int     `json:"wins"`
	Total  int     `json:"total"`
}

// Compute aggregates matches (most recent first) played in mode. Matches in
// other modes are ignored; with none left the score is zero.
func Compute(name, mode string, matches []lcu.MatchRecord) PlayerScore {
	score := PlayerScore{Name: name, Mode: mode}

	filtered := make([]lcu.MatchRecord, 0, len(matches))
	for _, m := range matches {
		if m.GameMode == mode {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) == 0 {
		return score
	}

	var kills, deaths, assists, damage, duration int
	for _, m := range filtered {
		kills += m.Kills
		deaths += m.Deaths
		assists += m.Assists
		damage += m.Damage
		duration += m.DurationSec
		if m.Win {
			score.Wins++
		}
	}
	score.Total = len(filtered)
	score.KDA = float64(kills+assists) / float64(deaths+1)
	if duration > 0 {
		score.DPM = float64(damage) / float64(duration) * 60
	}
	score.Streak = streak(filtered)
	return score
}

// streak counts the leading run of matches sharing the latest outcome.
func streak(matches []lcu.MatchRecord) int {
	latest := matches[0].Win
	n := 0
	for _, m := range matches {
		if m.Win != latest {
			break
		}
		n++
	}
	if !latest {
		return -n
	}
	return n
}

// StreakText renders the streak as "3 win streak" or "2 loss streak".
func (s PlayerScore) StreakText() string {
	if s.Streak > 0 {
		return fmt.Sprintf("%d win streak", s.Streak)
	}
	return fmt.Sprintf("%d loss streak", -s.Streak)
}

// String is the chat message posted for the player.
func (s PlayerScore) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s recent games:\n", s.Name)
	if s.Total == 0 {
		fmt.Fprintf(&b, "no recent %s games", s.Mode)
		return b.String()
	}
	fmt.Fprintf(&b, "kda=%.2f, dpm=%.2f\n", s.KDA, s.DPM)
	fmt.Fprintf(&b, "wins=%d/%d, %s", s.Wins, s.Total, s.StreakText())
	return b.String()
}
