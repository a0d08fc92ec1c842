package palette

// Row is one rendered line of a section. Separator rows mark the start of
// the recently-closed group and carry no item.
type Row struct {
	Item      Item
	Index     int
	Selected  bool
	Separator bool
}

type SectionView struct {
	ID       SectionID
	Title    string
	Active   bool
	Selected int
	Rows     []Row
	// Empty is the placeholder shown when Rows is empty.
	Empty string
}

// Snapshot is the render model handed to the presentation layer.
type Snapshot struct {
	Open     bool
	Query    string
	Search   SearchState
	Sections []SectionView
	ShowTags bool
	ShowPath bool
	Creating bool
	// Confirm is the path awaiting creation confirmation, if any.
	Confirm string
}

func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		Open:     c.open,
		Query:    c.query,
		Search:   StateFor(c.query, c.search),
		Sections: make([]SectionView, 0, len(c.enabled)),
		ShowTags: c.settings.ShowTags,
		ShowPath: c.settings.ShowPath,
		Creating: c.creating,
	}
	if c.pending != nil {
		snap.Confirm = c.pending.Path
	}

	for _, id := range c.enabled {
		items := c.items(id)
		view := SectionView{
			ID:       id,
			Title:    id.Title(),
			Active:   id == c.active,
			Selected: c.selected[id],
			Rows:     make([]Row, 0, len(items)+1),
		}

		for i, item := range items {
			if id == SectionTabs && i == c.closedStart {
				view.Rows = append(view.Rows, Row{Index: -1, Separator: true})
			}
			view.Rows = append(view.Rows, Row{
				Item:     item,
				Index:    i,
				Selected: view.Active && i == c.selected[id],
			})
		}
		if len(items) == 0 {
			view.Empty = emptyMessage(id, snap.Search)
		}

		snap.Sections = append(snap.Sections, view)
	}

	return snap
}

func emptyMessage(id SectionID, search SearchState) string {
	switch id {
	case SectionSearch:
		if search == SearchIdle {
			return "Type to search..."
		}
		return "No results found"
	case SectionTabs:
		return "No open tabs"
	case SectionBookmarks:
		return "No bookmarks"
	default:
		return "No daily notes"
	}
}

// Counts summarises the lists the palette currently holds.
type Counts struct {
	Notes     int
	Tabs      int
	Bookmarks int
	Closed    int
}

func (c *Controller) Counts() Counts {
	return Counts{
		Notes:     len(c.files),
		Tabs:      c.closedStart,
		Bookmarks: len(c.bookmarkItems),
		Closed:    len(c.tabs) - c.closedStart,
	}
}
