package palette

import "fmt"

type SectionID int

const (
	SectionSearch SectionID = iota
	SectionTabs
	SectionBookmarks
	SectionDailyNotes

	sectionCount
)

// sectionOrder is the left-to-right arrangement before enable flags apply.
var sectionOrder = [...]SectionID{SectionSearch, SectionTabs, SectionBookmarks, SectionDailyNotes}

// initialPriority decides which section is active right after Open.
var initialPriority = [...]SectionID{SectionTabs, SectionBookmarks, SectionDailyNotes, SectionSearch}

func (id SectionID) valid() bool {
	return id >= 0 && id < sectionCount
}

func (id SectionID) String() string {
	switch id {
	case SectionSearch:
		return "search"
	case SectionTabs:
		return "tabs"
	case SectionBookmarks:
		return "bookmarks"
	case SectionDailyNotes:
		return "daily-notes"
	}
	return fmt.Sprintf("SectionID(%d)", int(id))
}

// Title is the column heading.
func (id SectionID) Title() string {
	switch id {
	case SectionSearch:
		return "Vault Search"
	case SectionTabs:
		return "Open Tabs"
	case SectionBookmarks:
		return "Bookmarks"
	case SectionDailyNotes:
		return "Daily Notes"
	}
	return id.String()
}

type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

type edge uint8

const (
	edgeFirst edge = 1 << iota
	edgeLast
)

type landing uint8

const (
	landFirst landing = iota
	landLast
)

type wrapKey struct {
	from  SectionID
	at    edge
	delta int
}

type wrapTarget struct {
	to   SectionID
	land landing
}

// wrapTable lists every cross-section transfer of MoveSelection. Anything
// not listed clamps inside its own section.
var wrapTable = map[wrapKey]wrapTarget{
	{SectionBookmarks, edgeLast, 1}:    {SectionDailyNotes, landFirst},
	{SectionDailyNotes, edgeFirst, -1}: {SectionBookmarks, landLast},
}

// sectionLen reports the filtered length of a section and whether it is
// enabled.
type sectionLen func(SectionID) (n int, enabled bool)

// step moves delta rows from index inside from, applying wrapTable at the
// boundaries. A transfer only happens from a non-empty section into an
// enabled, non-empty one.
func step(from SectionID, index, delta int, lengths sectionLen) (SectionID, int) {
	n, _ := lengths(from)
	if n == 0 {
		return from, 0
	}

	var at edge
	if index <= 0 {
		at |= edgeFirst
	}
	if index >= n-1 {
		at |= edgeLast
	}

	for _, e := range [...]edge{edgeFirst, edgeLast} {
		if at&e == 0 {
			continue
		}
		target, ok := wrapTable[wrapKey{from: from, at: e, delta: sign(delta)}]
		if !ok {
			continue
		}
		tn, enabled := lengths(target.to)
		if !enabled || tn == 0 {
			continue
		}
		if target.land == landLast {
			return target.to, tn - 1
		}
		return target.to, 0
	}

	return from, clamp(index+delta, n)
}

func clamp(index, length int) int {
	if length <= 0 || index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
