package palette

import (
	"slices"
	"strings"
)

// TagLookup returns the normalised tags of a vault file.
type TagLookup func(path string) []string

// Matches reports whether item satisfies query. An empty query matches
// everything; otherwise the lowercased query must be a substring of the
// name, the full path or any tag.
func Matches(item Item, query string) bool {
	q := normalizeQuery(query)
	if q == "" {
		return true
	}
	return matchesText(item.Name, item.Path, q) || matchesTags(item.Tags, q)
}

// FilterSection narrows items by query, keeping their relative order.
func FilterSection(items []Item, query string) []Item {
	q := normalizeQuery(query)
	if q == "" {
		return slices.Clone(items)
	}

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if matchesText(item.Name, item.Path, q) || matchesTags(item.Tags, q) {
			out = append(out, item)
		}
	}
	return out
}

// FilterVaultSearch returns at most limit search results for query, in the
// order of files. Tags are only looked up for files whose name and path do
// not already match, and for the results themselves. An empty query yields
// no results.
func FilterVaultSearch(files []File, query string, limit int, lookup TagLookup) []Item {
	q := normalizeQuery(query)
	if q == "" || limit <= 0 {
		return nil
	}

	out := make([]Item, 0, min(limit, len(files)))
	for _, f := range files {
		if len(out) >= limit {
			break
		}

		var tags []string
		tagsLoaded := false
		if !matchesText(f.Name, f.Path, q) {
			if lookup == nil {
				continue
			}
			tags, tagsLoaded = lookup(f.Path), true
			if !matchesTags(tags, q) {
				continue
			}
		}
		if !tagsLoaded && lookup != nil {
			tags = lookup(f.Path)
		}

		item := newFileItem(KindSearchResult, f.Path, f.Name)
		item.Tags = tags
		out = append(out, item)
	}
	return out
}

type SearchState int

const (
	// SearchIdle means no query has been typed.
	SearchIdle SearchState = iota
	SearchResults
	SearchNoResults
)

// StateFor distinguishes "no query" from "no matches" for the renderer.
func StateFor(query string, results []Item) SearchState {
	switch {
	case normalizeQuery(query) == "":
		return SearchIdle
	case len(results) == 0:
		return SearchNoResults
	default:
		return SearchResults
	}
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func matchesText(name, path, q string) bool {
	return strings.Contains(strings.ToLower(name), q) ||
		strings.Contains(strings.ToLower(path), q)
}

func matchesTags(tags []string, q string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
