package palette

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func items(paths ...string) []Item {
	out := make([]Item, 0, len(paths))
	for _, p := range paths {
		out = append(out, newFileItem(KindSearchResult, p, ""))
	}
	return out
}

func TestMatches(t *testing.T) {
	item := newFileItem(KindBookmark, "Projects/Alpha.md", "")
	item.Tags = []string{"#Work", "#golang"}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"alpha", true},
		{"PROJECTS/", true},
		{"#work", true},
		{"lang", true},
		{"beta", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.query), func(t *testing.T) {
			if got := Matches(item, tt.query); got != tt.want {
				t.Fatalf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilterSectionEmptyQueryIsIdentity(t *testing.T) {
	in := items("b.md", "a.md", "c/d.md")
	require.Equal(t, in, FilterSection(in, ""))
}

func TestFilterSectionIdempotent(t *testing.T) {
	in := items("Projects/alpha.md", "Notes/projection.md", "Notes/random.md", "proj.md")
	for _, q := range []string{"proj", "notes", "x", "", "MD"} {
		once := FilterSection(in, q)
		require.Equal(t, once, FilterSection(once, q), "query %q", q)
	}
}

func TestFilterSectionPreservesOrder(t *testing.T) {
	in := items("z-proj.md", "a.md", "m-proj.md")
	got := FilterSection(in, "proj")
	require.Len(t, got, 2)
	require.Equal(t, "z-proj.md", got[0].Path)
	require.Equal(t, "m-proj.md", got[1].Path)
}

func TestFilterVaultSearchProjScenario(t *testing.T) {
	files := []File{
		{Path: "Projects/alpha.md", Name: "alpha"},
		{Path: "Projects/beta.md", Name: "beta"},
		{Path: "Notes/random.md", Name: "random"},
	}

	got := FilterVaultSearch(files, "proj", 50, func(string) []string { return nil })
	require.Len(t, got, 2)
	require.Equal(t, "Projects/alpha.md", got[0].Path)
	require.Equal(t, "Projects/beta.md", got[1].Path)
	require.Equal(t, KindSearchResult, got[0].Kind)
}

func TestFilterVaultSearchEmptyQuery(t *testing.T) {
	files := []File{{Path: "a.md", Name: "a"}}
	require.Empty(t, FilterVaultSearch(files, "", 50, nil))
	require.Equal(t, SearchIdle, StateFor("", nil))
	require.Equal(t, SearchNoResults, StateFor("zzz", nil))
	require.Equal(t, SearchResults, StateFor("a", items("a.md")))
}

func TestFilterVaultSearchLimit(t *testing.T) {
	files := make([]File, 0, 60)
	for i := 0; i < 60; i++ {
		files = append(files, File{Path: fmt.Sprintf("notes/n%02d.md", i), Name: fmt.Sprintf("n%02d", i)})
	}

	got := FilterVaultSearch(files, "notes", 50, nil)
	require.Len(t, got, 50)
	require.Equal(t, "notes/n00.md", got[0].Path)
	require.Equal(t, "notes/n49.md", got[49].Path)
}

func TestFilterVaultSearchTags(t *testing.T) {
	files := []File{
		{Path: "a.md", Name: "a"},
		{Path: "b.md", Name: "b"},
	}
	tags := map[string][]string{"b.md": {"#Meeting"}}

	var looked []string
	lookup := func(p string) []string {
		looked = append(looked, p)
		return tags[p]
	}

	got := FilterVaultSearch(files, "meet", 50, lookup)
	require.Len(t, got, 1)
	require.Equal(t, "b.md", got[0].Path)
	require.Equal(t, []string{"#Meeting"}, got[0].Tags)
	require.Equal(t, []string{"a.md", "b.md"}, looked)

	require.Empty(t, FilterVaultSearch(files, "meet", 50, nil))
}
