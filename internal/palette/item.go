package palette

import (
	"github.com/Paintersrp/quickswitch/internal/daily"
	"github.com/Paintersrp/quickswitch/internal/pathutil"
)

type Kind int

const (
	KindTab Kind = iota
	KindBookmark
	KindSearchResult
	KindDailyNote
)

func (k Kind) String() string {
	switch k {
	case KindTab:
		return "tab"
	case KindBookmark:
		return "bookmark"
	case KindSearchResult:
		return "search"
	case KindDailyNote:
		return "daily"
	}
	return "unknown"
}

// Item is the common read-only projection of every row the palette shows.
// Kind specific data sits behind the accessors below.
type Item struct {
	Path       string
	Name       string
	Dir        string
	Tags       []string
	Kind       Kind
	Bookmarked bool

	tab   tabPayload
	daily daily.Note
}

type tabPayload struct {
	handle Handle
	pinned bool
	closed bool
}

func newTabItem(v View, path string) Item {
	return Item{
		Path: path,
		Name: pathutil.Stem(path),
		Dir:  pathutil.Dir(path),
		Kind: KindTab,
		tab:  tabPayload{handle: v.Handle, pinned: v.Pinned},
	}
}

func newClosedItem(ct ClosedTab) Item {
	name := ct.Title
	if name == "" {
		name = pathutil.Stem(ct.Path)
	}
	return Item{
		Path: ct.Path,
		Name: name,
		Dir:  pathutil.Dir(ct.Path),
		Kind: KindTab,
		tab:  tabPayload{closed: true},
	}
}

func newFileItem(kind Kind, path, name string) Item {
	if name == "" {
		name = pathutil.Stem(path)
	}
	return Item{
		Path: path,
		Name: name,
		Dir:  pathutil.Dir(path),
		Kind: kind,
	}
}

func newDailyItem(n daily.Note) Item {
	return Item{
		Path:  n.Path,
		Name:  n.Title,
		Dir:   pathutil.Dir(n.Path),
		Kind:  KindDailyNote,
		daily: n,
	}
}

// Handle returns the live view behind a tab. Recently closed tabs have none.
func (i Item) Handle() (Handle, bool) {
	if i.Kind != KindTab || i.tab.closed || i.tab.handle == "" {
		return "", false
	}
	return i.tab.handle, true
}

func (i Item) Pinned() bool {
	return i.Kind == KindTab && !i.tab.closed && i.tab.pinned
}

func (i Item) RecentlyClosed() bool {
	return i.Kind == KindTab && i.tab.closed
}

// Exists reports whether the backing file is present. Only daily notes can
// be missing.
func (i Item) Exists() bool {
	if i.Kind == KindDailyNote {
		return i.daily.Exists
	}
	return true
}

func (i Item) DailyNote() (daily.Note, bool) {
	if i.Kind != KindDailyNote {
		return daily.Note{}, false
	}
	return i.daily, true
}
