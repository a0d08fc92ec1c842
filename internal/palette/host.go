package palette

import (
	"errors"
	"time"

	"github.com/Paintersrp/quickswitch/internal/constants"
)

var (
	// ErrStale is returned by collaborators when a handle or path no longer
	// resolves. The controller treats it as nothing to do.
	ErrStale = errors.New("palette: stale reference")
	// ErrCreationInFlight guards the single asynchronous daily-note creation.
	ErrCreationInFlight = errors.New("palette: a daily note is already being created")
	// ErrNoSections is returned when settings leave every section disabled.
	ErrNoSections = errors.New("palette: no sections enabled")
	// ErrClosed is returned by operations that need an open palette.
	ErrClosed = errors.New("palette: not open")
)

// Handle identifies a live view owned by the ViewManager.
type Handle string

// View is one open document as reported by the ViewManager.
type View struct {
	Handle     Handle
	Path       string
	Pinned     bool
	LastActive time.Time
	// Order is the position the view was opened in.
	Order int
}

// OpenTarget tells the ViewManager where a file should be opened. When
// NewTab is false and Reuse is set, the file replaces the content of that
// view.
type OpenTarget struct {
	NewTab bool
	Reuse  Handle
}

type ViewManager interface {
	ListOpenViews() []View
	ActiveView() (Handle, bool)
	Focus(h Handle) error
	Detach(h Handle) error
	SetPinned(h Handle, pinned bool) error
	OpenFile(path string, target OpenTarget) (Handle, error)
}

type BookmarkStore interface {
	ListFileBookmarks() []string
	AddBookmark(path, title string) error
	RemoveBookmark(path string) error
}

// File is an indexable vault file.
type File struct {
	Path string
	Name string
}

type FileIndex interface {
	ListAllFiles() []File
	TagsFor(path string) []string
	Exists(path string) bool
	CreateFile(path, content string) error
	ReadFile(path string) (string, error)
}

// ClosedTab is one entry of the recently-closed ring.
type ClosedTab struct {
	Path      string `yaml:"path"`
	Title     string `yaml:"title"`
	Extension string `yaml:"extension"`
}

// HistoryStore persists the recently-closed ring between sessions.
type HistoryStore interface {
	RecentlyClosed() []ClosedTab
	SaveRecentlyClosed(entries []ClosedTab) error
}

type SortOrder string

const (
	SortRecency      SortOrder = "recency"
	SortOpeningOrder SortOrder = "opening-order"
)

// SectionFlags enables sections independently.
type SectionFlags struct {
	Search     bool
	Tabs       bool
	Bookmarks  bool
	DailyNotes bool
}

func (f SectionFlags) enabled(id SectionID) bool {
	switch id {
	case SectionSearch:
		return f.Search
	case SectionTabs:
		return f.Tabs
	case SectionBookmarks:
		return f.Bookmarks
	case SectionDailyNotes:
		return f.DailyNotes
	}
	return false
}

// Any reports whether at least one section is enabled.
func (f SectionFlags) Any() bool {
	return f.Search || f.Tabs || f.Bookmarks || f.DailyNotes
}

// Settings is the configuration the controller reads on Open and
// Reconfigure.
type Settings struct {
	ExcludedFolders    []string
	ShowTags           bool
	ShowPath           bool
	SortOrder          SortOrder
	AlwaysOpenInNewTab bool
	Sections           SectionFlags

	DailyFormat   string
	DailyFolder   string
	DailyTemplate string

	SearchLimit int
}

func DefaultSettings() Settings {
	return Settings{
		ExcludedFolders: []string{"attachments", "Attachments"},
		ShowTags:        true,
		ShowPath:        true,
		SortOrder:       SortRecency,
		Sections: SectionFlags{
			Search:     true,
			Tabs:       true,
			Bookmarks:  true,
			DailyNotes: true,
		},
		DailyFormat: constants.DefaultDailyFormat,
		SearchLimit: constants.SearchLimit,
	}
}

func (s Settings) normalized() Settings {
	if s.SearchLimit <= 0 {
		s.SearchLimit = constants.SearchLimit
	}
	if s.SortOrder != SortOpeningOrder {
		s.SortOrder = SortRecency
	}
	if s.DailyFormat == "" {
		s.DailyFormat = constants.DefaultDailyFormat
	}
	return s
}
