package state

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/quickswitch/internal/palette"
	"github.com/Paintersrp/quickswitch/internal/vault"
)

// IndexPollInterval is how often the switcher samples the vault index.
const IndexPollInterval = 2 * time.Second

// IndexStatsMsg carries one sample of the vault index counters.
type IndexStatsMsg struct {
	Stats vault.Stats
}

// IndexHeartbeatCmd samples the index after delay, or at once for a zero
// delay. It is nil before the vault is opened.
func (s *State) IndexHeartbeatCmd(delay time.Duration) tea.Cmd {
	if s == nil || s.Index == nil {
		return nil
	}

	sample := func() tea.Msg {
		return IndexStatsMsg{Stats: s.Index.Stats()}
	}
	if delay <= 0 {
		return sample
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return sample() })
}

// StatusLine describes what the palette is showing. Counts come from the
// palette itself so they match the columns; the index only contributes its
// backlog and the time of the last full walk.
func StatusLine(counts palette.Counts, stats vault.Stats) string {
	parts := []string{plural(counts.Notes, "note")}
	if counts.Tabs > 0 {
		parts = append(parts, plural(counts.Tabs, "tab"))
	}
	if counts.Bookmarks > 0 {
		parts = append(parts, plural(counts.Bookmarks, "bookmark"))
	}
	if stats.Pending > 0 {
		parts = append(parts, fmt.Sprintf("%d pending", stats.Pending))
	}
	if !stats.LastRebuild.IsZero() {
		parts = append(parts, "indexed "+stats.LastRebuild.Local().Format("15:04"))
	}

	return strings.Join(parts, " · ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
