package daily

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	date := time.Date(2024, time.March, 3, 14, 5, 9, 0, time.UTC)

	tests := []struct {
		format string
		want   string
	}{
		{"YYYY-MM-DD", "2024-03-03"},
		{"YY/M/D", "24/3/3"},
		{"dddd, MMMM Do", "Sunday, March 3rd"},
		{"ddd MMM DD", "Sun Mar 03"},
		{"[Week] ww", "Week 09"},
		{"HH:mm:ss", "14:05:09"},
		{"hh A", "02 PM"},
		{"DDDD", "063"},
		{"YYYY/[Journal]/YYYY-MM-DD", "2024/Journal/2024-03-03"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := Format(date, tt.format); got != tt.want {
				t.Fatalf("Format(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd", 31: "31st"}
	for n, want := range cases {
		if got := ordinal(n); got != want {
			t.Fatalf("ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestCandidates(t *testing.T) {
	now := time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)
	existing := map[string]bool{"Daily/2024-01-01.md": true}

	notes := Candidates(now, "", "Daily/", func(p string) bool { return existing[p] })
	if len(notes) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(notes))
	}

	want := []struct {
		label  Label
		path   string
		exists bool
	}{
		{Yesterday, "Daily/2023-12-31.md", false},
		{Today, "Daily/2024-01-01.md", true},
		{Tomorrow, "Daily/2024-01-02.md", false},
	}
	for i, w := range want {
		n := notes[i]
		if n.Label != w.label || n.Path != w.path || n.Exists != w.exists {
			t.Fatalf("candidate %d = %+v, want label=%v path=%s exists=%v", i, n, w.label, w.path, w.exists)
		}
		if n.Date.Hour() != 0 {
			t.Fatalf("candidate %d date not truncated to midnight: %v", i, n.Date)
		}
	}
	if notes[1].Title != "2024-01-01" {
		t.Fatalf("unexpected title %q", notes[1].Title)
	}
}

func TestResolveRootFolderAndNestedFormat(t *testing.T) {
	now := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)

	n := Resolve(now, 0, "YYYY/MM/YYYY-MM-DD", "")
	if n.Path != "2024/05/2024-05-10.md" {
		t.Fatalf("unexpected path %q", n.Path)
	}
	if n.Title != "2024-05-10" {
		t.Fatalf("unexpected title %q", n.Title)
	}
}

func TestContentEmbeddedTemplate(t *testing.T) {
	n := Resolve(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), 0, "", "")

	body, err := Content(n, "", time.Now(), nil)
	if err != nil {
		t.Fatalf("Content returned error: %v", err)
	}
	if !strings.Contains(body, "# 2024-06-01") {
		t.Fatalf("expected rendered title in %q", body)
	}
	if !strings.Contains(body, "date: 2024-06-01") {
		t.Fatalf("expected rendered date in %q", body)
	}
}

func TestContentUserTemplate(t *testing.T) {
	n := Resolve(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), 1, "", "Daily")
	at := time.Date(2024, time.June, 1, 8, 15, 0, 0, time.UTC)

	var requested string
	read := func(p string) (string, error) {
		requested = p
		return "{{title}} / {{date:dddd}} / {{time}} / {{.Label}}", nil
	}

	body, err := Content(n, "Templates/daily", at, read)
	if err != nil {
		t.Fatalf("Content returned error: %v", err)
	}
	if requested != "Templates/daily.md" {
		t.Fatalf("expected .md extension appended, got %q", requested)
	}
	if want := "2024-06-02 / Sunday / 08:15 / Tomorrow"; body != want {
		t.Fatalf("Content = %q, want %q", body, want)
	}
}

func TestContentUserTemplateWithUnknownPlaceholders(t *testing.T) {
	n := Resolve(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), 0, "", "")
	read := func(string) (string, error) {
		return "# {{title}}\n{{weekday}} {{ .Missing }}", nil
	}

	body, err := Content(n, "tmpl.md", time.Now(), read)
	if err != nil {
		t.Fatalf("Content returned error: %v", err)
	}
	if want := "# 2024-06-01\n{{weekday}} {{ .Missing }}"; body != want {
		t.Fatalf("Content = %q, want %q", body, want)
	}
}

func TestContentTemplateReadFailure(t *testing.T) {
	n := Resolve(time.Now(), 0, "", "")
	boom := errors.New("boom")

	_, err := Content(n, "missing.md", time.Now(), func(string) (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}
