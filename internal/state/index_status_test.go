package state

import (
	"testing"
	"time"

	"github.com/Paintersrp/quickswitch/internal/palette"
	"github.com/Paintersrp/quickswitch/internal/vault"
)

type stubIndexService struct {
	stats vault.Stats
}

func (s stubIndexService) QueueUpdate(string)  {}
func (s stubIndexService) Stats() vault.Stats { return s.stats }
func (s stubIndexService) Close() error       { return nil }

func TestStatusLine(t *testing.T) {
	t.Parallel()

	rebuilt := time.Date(2024, time.March, 5, 17, 42, 0, 0, time.Local)

	tests := []struct {
		name   string
		counts palette.Counts
		stats  vault.Stats
		want   string
	}{
		{"notes only", palette.Counts{Notes: 4}, vault.Stats{}, "4 notes"},
		{"singular", palette.Counts{Notes: 1, Tabs: 1, Bookmarks: 1}, vault.Stats{}, "1 note · 1 tab · 1 bookmark"},
		{
			"everything",
			palette.Counts{Notes: 120, Tabs: 3, Bookmarks: 2},
			vault.Stats{Files: 121, Pending: 3, LastRebuild: rebuilt},
			"120 notes · 3 tabs · 2 bookmarks · 3 pending · indexed 17:42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusLine(tt.counts, tt.stats); got != tt.want {
				t.Fatalf("StatusLine mismatch: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIndexHeartbeatNilWithoutIndex(t *testing.T) {
	t.Parallel()

	if cmd := (&State{}).IndexHeartbeatCmd(0); cmd != nil {
		t.Fatalf("expected no heartbeat before the vault is opened")
	}
}

func TestIndexHeartbeatSamplesStats(t *testing.T) {
	t.Parallel()

	svc := stubIndexService{stats: vault.Stats{Files: 2, Pending: 7}}
	st := &State{Index: svc}

	cmd := st.IndexHeartbeatCmd(0)
	if cmd == nil {
		t.Fatalf("expected heartbeat command")
	}

	msg, ok := cmd().(IndexStatsMsg)
	if !ok {
		t.Fatalf("expected IndexStatsMsg")
	}
	if msg.Stats != svc.stats {
		t.Fatalf("expected %+v, got %+v", svc.stats, msg.Stats)
	}
}
