package analysis

import (
	"fmt"
	"strings"
)

// Markdown renders scores as a table for the terminal report view.
func Markdown(mode string, scores []PlayerScore) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Team report (%s)\n\n", fallback(mode, "unknown mode"))
	if len(scores) == 0 {
		b.WriteString("_No teammates analysed yet._\n")
		return b.String()
	}

	b.WriteString("| Player | KDA | DPM | Wins | Streak |\n")
	b.WriteString("|---|---:|---:|---:|---|\n")
	for _, s := range scores {
		if s.Total == 0 {
			fmt.Fprintf(&b, "| %s | - | - | 0/0 | - |\n", escapeCell(s.Name))
			continue
		}
		fmt.Fprintf(&b, "| %s | %.2f | %.1f | %d/%d | %s |\n",
			escapeCell(s.Name), s.KDA, s.DPM, s.Wins, s.Total, s.StreakText())
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
