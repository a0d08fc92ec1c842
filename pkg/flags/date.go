package flags

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"
)

func AddDate(cmd *cobra.Command) {
	cmd.Flags().
		StringP(
			"date",
			"d",
			"",
			"Resolve daily notes relative to this date instead of today (e.g. 2024-01-10, \"Jan 10 2024\")",
		)
}

// HandleDate parses the --date flag. ok is false when the flag was not set.
func HandleDate(cmd *cobra.Command) (at time.Time, ok bool, err error) {
	raw, err := cmd.Flags().GetString("date")
	if err != nil {
		return time.Time{}, false, fmt.Errorf("error retrieving date flag: %w", err)
	}
	return ParseDate(raw)
}

// ParseDate accepts anything dateparse understands plus the words
// yesterday, today and tomorrow.
func ParseDate(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, nil
	}

	now := time.Now()
	switch strings.ToLower(raw) {
	case "today":
		return now, true, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), true, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), true, nil
	}

	t, err := dateparse.ParseLocal(raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return t, true, nil
}
