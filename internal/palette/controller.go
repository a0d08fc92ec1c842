// Package palette holds the quick-switcher core: the filter engine and the
// controller that owns section, selection and history state. It talks to
// the outside world only through the ViewManager, BookmarkStore, FileIndex
// and HistoryStore interfaces.
package palette

import (
	"cmp"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/Paintersrp/quickswitch/internal/constants"
	"github.com/Paintersrp/quickswitch/internal/daily"
	"github.com/Paintersrp/quickswitch/internal/pathutil"
)

type OutcomeKind int

const (
	// OutcomeNone means the palette stays open and nothing else happens.
	OutcomeNone OutcomeKind = iota
	// OutcomeClose means the palette closed after focusing or opening Handle.
	OutcomeClose
	// OutcomeConfirm asks the user to confirm creating the note at Path.
	OutcomeConfirm
	// OutcomeBusy means a creation is in flight and the request was refused.
	OutcomeBusy
	// OutcomeFocusQuery asks the presentation layer to focus the query input.
	OutcomeFocusQuery
	// OutcomeNotice carries a transient message in Notice.
	OutcomeNotice
)

// Outcome is what an operation asks the presentation layer to do next.
type Outcome struct {
	Kind   OutcomeKind
	Handle Handle
	Path   string
	Notice string
}

func notice(format string, args ...any) Outcome {
	return Outcome{Kind: OutcomeNotice, Notice: fmt.Sprintf(format, args...)}
}

type Option func(*Controller)

// WithBookmarks sets the bookmark store. Without one, bookmark operations
// report a notice.
func WithBookmarks(store BookmarkStore) Option {
	return func(c *Controller) { c.bookmarks = store }
}

// WithHistory persists the recently-closed ring. Without one it only lives
// as long as the controller.
func WithHistory(store HistoryStore) Option {
	return func(c *Controller) { c.history = store }
}

// WithClock replaces time.Now for daily-note resolution.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller owns all palette state. It is not safe for concurrent use; every
// method is expected to run on the presentation layer's event loop.
type Controller struct {
	views     ViewManager
	index     FileIndex
	bookmarks BookmarkStore
	history   HistoryStore
	now       func() time.Time

	settings Settings
	open     bool

	enabled  []SectionID
	active   SectionID
	selected [sectionCount]int

	rawViews     []View
	rawBookmarks []string
	files        []File
	closed       []ClosedTab

	tabs          []Item
	closedStart   int
	bookmarkItems []Item
	search        []Item
	dailyItems    []Item
	query         string

	launchedFrom Handle
	hasLaunched  bool

	pending   *daily.Note
	creating  bool
	composing bool
}

func New(views ViewManager, index FileIndex, opts ...Option) *Controller {
	c := &Controller{
		views: views,
		index: index,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) IsOpen() bool {
	return c.open
}

func (c *Controller) Settings() Settings {
	return c.settings
}

// Open pulls every list from the collaborators and resets selection. It may
// be called again while open to rebuild from scratch.
func (c *Controller) Open(settings Settings) error {
	if !settings.Sections.Any() {
		return ErrNoSections
	}
	if c.creating {
		return ErrCreationInFlight
	}

	c.settings = settings.normalized()
	c.launchedFrom, c.hasLaunched = c.views.ActiveView()

	c.rawViews = c.views.ListOpenViews()
	c.files = c.index.ListAllFiles()
	c.rawBookmarks = nil
	if c.bookmarks != nil {
		c.rawBookmarks = c.bookmarks.ListFileBookmarks()
	}
	if c.history != nil {
		c.closed = slices.Clone(c.history.RecentlyClosed())
	}
	if c.pruneHistory() {
		c.persistHistory()
	}

	c.query = ""
	c.search = nil
	c.pending = nil
	c.composing = false
	c.rebuild()

	c.enabled = c.enabledSections()
	c.selected = [sectionCount]int{}
	c.active = c.initialSection()
	c.open = true

	c.check()
	return nil
}

// Close closes the palette. It is refused while a creation is in flight.
func (c *Controller) Close() error {
	if c.creating {
		return ErrCreationInFlight
	}
	c.open = false
	c.pending = nil
	return nil
}

// Reconfigure applies new settings to the already fetched data without
// another round trip to the collaborators.
func (c *Controller) Reconfigure(settings Settings) error {
	if !settings.Sections.Any() {
		return ErrNoSections
	}

	c.settings = settings.normalized()
	c.rebuild()
	c.search = FilterVaultSearch(c.files, c.query, c.settings.SearchLimit, c.index.TagsFor)

	c.enabled = c.enabledSections()
	if !c.settings.Sections.enabled(c.active) {
		c.active = c.nearestEnabled(c.active)
	}
	c.clampAll()

	c.check()
	return nil
}

// Refresh re-reads views, files and bookmarks after the vault changed. The
// query, active section and selections survive, clamped to the new lists.
func (c *Controller) Refresh() {
	if !c.open || c.creating {
		return
	}

	c.rawViews = c.views.ListOpenViews()
	c.files = c.index.ListAllFiles()
	if c.bookmarks != nil {
		c.rawBookmarks = c.bookmarks.ListFileBookmarks()
	}
	if c.pruneHistory() {
		c.persistHistory()
	}
	c.search = FilterVaultSearch(c.files, c.query, c.settings.SearchLimit, c.index.TagsFor)
	c.rebuild()
	c.clampAll()

	c.check()
}

// SetQuery narrows the vault search section. Tabs and bookmarks are never
// filtered.
func (c *Controller) SetQuery(text string) {
	c.query = text
	c.search = FilterVaultSearch(c.files, text, c.settings.SearchLimit, c.index.TagsFor)
	c.applyBookmarkFlags(c.search)
	c.selected[SectionSearch] = 0
	c.clampAll()
	c.check()
}

func (c *Controller) Query() string {
	return c.query
}

// MoveSelection moves the selection delta rows inside the active section,
// transferring between Bookmarks and Daily Notes at their shared boundary.
func (c *Controller) MoveSelection(delta int) {
	if !c.open || delta == 0 {
		return
	}
	id, idx := step(c.active, c.selected[c.active], delta, c.sectionLen)
	c.active = id
	c.selected[id] = idx
	c.check()
}

// SwitchSection moves one section left or right, clamped at the ends.
func (c *Controller) SwitchSection(dir Direction) Outcome {
	if !c.open || len(c.enabled) == 0 {
		return Outcome{}
	}
	pos := slices.Index(c.enabled, c.active)
	pos = clamp(pos+int(dir), len(c.enabled))
	return c.activate(c.enabled[pos])
}

// SwitchTo makes id active if it is enabled. Unknown ids panic.
func (c *Controller) SwitchTo(id SectionID) Outcome {
	if !id.valid() {
		panic(fmt.Sprintf("palette: unknown section %d", int(id)))
	}
	if !c.open || !c.settings.Sections.enabled(id) {
		return Outcome{}
	}
	return c.activate(id)
}

func (c *Controller) activate(id SectionID) Outcome {
	if id == c.active {
		return Outcome{}
	}
	c.active = id
	c.check()
	if id == SectionSearch {
		return Outcome{Kind: OutcomeFocusQuery}
	}
	return Outcome{}
}

// Select points the selection at index of section id, as a click does. It
// reports false when the row no longer exists.
func (c *Controller) Select(id SectionID, index int) bool {
	if !id.valid() {
		panic(fmt.Sprintf("palette: unknown section %d", int(id)))
	}
	if !c.open || !c.settings.Sections.enabled(id) {
		return false
	}
	if index < 0 || index >= len(c.items(id)) {
		return false
	}
	c.active = id
	c.selected[id] = index
	c.check()
	return true
}

func (c *Controller) Active() SectionID {
	return c.active
}

func (c *Controller) SelectedIndex(id SectionID) int {
	return c.selected[id]
}

// Selected returns the item under the cursor of the active section.
func (c *Controller) Selected() (Item, bool) {
	items := c.items(c.active)
	if len(items) == 0 {
		return Item{}, false
	}
	return items[c.selected[c.active]], true
}

// SelectedPath returns the vault path of the selected item.
func (c *Controller) SelectedPath() (string, bool) {
	item, ok := c.Selected()
	if !ok {
		return "", false
	}
	return item.Path, true
}

// SetComposing marks an input composition session. Activation is ignored
// while one is open.
func (c *Controller) SetComposing(composing bool) {
	c.composing = composing
}

// ActivateSelected resolves the selected item to an action.
func (c *Controller) ActivateSelected() Outcome {
	if !c.open || c.composing {
		return Outcome{}
	}
	if c.creating {
		return Outcome{Kind: OutcomeBusy}
	}

	item, ok := c.Selected()
	if !ok {
		return Outcome{}
	}

	if h, live := item.Handle(); live {
		if err := c.views.Focus(h); err != nil {
			if errors.Is(err, ErrStale) {
				return Outcome{}
			}
			return notice("Failed to focus %s: %v", item.Path, err)
		}
		c.open = false
		return Outcome{Kind: OutcomeClose, Handle: h, Path: item.Path}
	}

	if note, isDaily := item.DailyNote(); isDaily && !note.Exists {
		c.pending = &note
		return Outcome{Kind: OutcomeConfirm, Path: note.Path}
	}

	out := c.openFile(item.Path)
	if out.Kind == OutcomeClose && item.RecentlyClosed() {
		c.forgetClosed(item.Path)
	}
	return out
}

func (c *Controller) openFile(path string) Outcome {
	target := OpenTarget{NewTab: c.settings.AlwaysOpenInNewTab}
	if !target.NewTab {
		if c.hasLaunched {
			target.Reuse = c.launchedFrom
		} else {
			target.NewTab = true
		}
	}

	h, err := c.views.OpenFile(path, target)
	if errors.Is(err, ErrStale) && target.Reuse != "" {
		h, err = c.views.OpenFile(path, OpenTarget{NewTab: true})
	}
	if err != nil {
		if errors.Is(err, ErrStale) {
			return Outcome{}
		}
		return notice("Failed to open %s: %v", path, err)
	}

	c.open = false
	return Outcome{Kind: OutcomeClose, Handle: h, Path: path}
}

// CloseSelected detaches the selected live tab and records it in the
// recently-closed ring.
func (c *Controller) CloseSelected() Outcome {
	if !c.open || c.active != SectionTabs {
		return Outcome{}
	}
	item, ok := c.Selected()
	if !ok {
		return Outcome{}
	}
	h, live := item.Handle()
	if !live {
		return Outcome{}
	}

	if err := c.views.Detach(h); err != nil {
		if errors.Is(err, ErrStale) {
			return Outcome{}
		}
		return notice("Failed to close %s: %v", item.Path, err)
	}

	c.rawViews = slices.DeleteFunc(c.rawViews, func(v View) bool { return v.Handle == h })
	if c.hasLaunched && c.launchedFrom == h {
		c.hasLaunched = false
		c.launchedFrom = ""
	}

	if !c.pathOpen(item.Path) {
		c.pushClosed(ClosedTab{
			Path:      item.Path,
			Title:     item.Name,
			Extension: pathutil.Ext(item.Path),
		})
		c.persistHistory()
	}

	c.tabs, c.closedStart = c.buildTabs()
	c.clampAll()
	c.check()
	return Outcome{}
}

// PinSelected toggles the pin of the selected live tab.
func (c *Controller) PinSelected() Outcome {
	if !c.open || c.active != SectionTabs {
		return Outcome{}
	}
	idx := c.selected[SectionTabs]
	item, ok := c.Selected()
	if !ok {
		return Outcome{}
	}
	h, live := item.Handle()
	if !live {
		return Outcome{}
	}

	pinned := !item.Pinned()
	if err := c.views.SetPinned(h, pinned); err != nil {
		if errors.Is(err, ErrStale) {
			return Outcome{}
		}
		return notice("Failed to pin %s: %v", item.Path, err)
	}

	c.tabs[idx].tab.pinned = pinned
	for i := range c.rawViews {
		if c.rawViews[i].Handle == h {
			c.rawViews[i].Pinned = pinned
		}
	}
	return Outcome{}
}

// ToggleBookmarkSelected adds or removes a bookmark for the selected file
// and refreshes every bookmarked flag from the store.
func (c *Controller) ToggleBookmarkSelected() Outcome {
	if !c.open {
		return Outcome{}
	}
	if c.bookmarks == nil {
		return notice("Bookmarks are not available")
	}

	item, ok := c.Selected()
	if !ok || !item.Exists() {
		return Outcome{}
	}

	var (
		err error
		msg string
	)
	if slices.Contains(c.rawBookmarks, item.Path) {
		err = c.bookmarks.RemoveBookmark(item.Path)
		msg = fmt.Sprintf("Removed bookmark %s", item.Name)
	} else {
		err = c.bookmarks.AddBookmark(item.Path, item.Name)
		msg = fmt.Sprintf("Bookmarked %s", item.Name)
	}
	if err != nil {
		if errors.Is(err, ErrStale) {
			return Outcome{}
		}
		return notice("Failed to update bookmark %s: %v", item.Path, err)
	}

	c.rawBookmarks = c.bookmarks.ListFileBookmarks()
	c.bookmarkItems = c.buildBookmarks()
	c.applyBookmarkFlags(c.tabs)
	c.applyBookmarkFlags(c.search)
	c.applyBookmarkFlags(c.dailyItems)
	c.clampAll()
	c.check()

	return notice("%s", msg)
}

// RecentlyClosed returns a copy of the ring, most recent first.
func (c *Controller) RecentlyClosed() []ClosedTab {
	return slices.Clone(c.closed)
}

func (c *Controller) rebuild() {
	c.tabs, c.closedStart = c.buildTabs()
	c.bookmarkItems = c.buildBookmarks()
	c.dailyItems = c.buildDaily()
	c.applyBookmarkFlags(c.search)
}

func (c *Controller) buildTabs() ([]Item, int) {
	views := slices.Clone(c.rawViews)
	if c.settings.SortOrder == SortOpeningOrder {
		slices.SortStableFunc(views, func(a, b View) int { return cmp.Compare(a.Order, b.Order) })
	} else {
		slices.SortStableFunc(views, func(a, b View) int { return b.LastActive.Compare(a.LastActive) })
	}

	items := make([]Item, 0, len(views)+len(c.closed))
	open := make(map[string]bool, len(views))
	for _, v := range views {
		path := pathutil.CleanRel(v.Path)
		open[path] = true
		if !c.visible(path) {
			continue
		}
		items = append(items, c.withTags(newTabItem(v, path)))
	}
	closedStart := len(items)

	for _, ct := range c.closed {
		if open[ct.Path] || !c.visible(ct.Path) {
			continue
		}
		items = append(items, c.withTags(newClosedItem(ct)))
	}

	c.applyBookmarkFlags(items)
	return items, closedStart
}

func (c *Controller) buildBookmarks() []Item {
	items := make([]Item, 0, len(c.rawBookmarks))
	seen := make(map[string]bool, len(c.rawBookmarks))
	for _, raw := range c.rawBookmarks {
		path := pathutil.CleanRel(raw)
		if seen[path] || !c.visible(path) {
			continue
		}
		seen[path] = true
		item := c.withTags(newFileItem(KindBookmark, path, ""))
		item.Bookmarked = true
		items = append(items, item)
	}
	return items
}

func (c *Controller) buildDaily() []Item {
	notes := daily.Candidates(c.now(), c.settings.DailyFormat, c.settings.DailyFolder, c.index.Exists)
	items := make([]Item, 0, len(notes))
	for _, n := range notes {
		item := newDailyItem(n)
		if n.Exists {
			item = c.withTags(item)
		}
		items = append(items, item)
	}
	c.applyBookmarkFlags(items)
	return items
}

func (c *Controller) visible(path string) bool {
	return path != "" && !pathutil.IsExcluded(path, c.settings.ExcludedFolders) && c.index.Exists(path)
}

func (c *Controller) withTags(item Item) Item {
	if c.settings.ShowTags {
		item.Tags = c.index.TagsFor(item.Path)
	}
	return item
}

func (c *Controller) applyBookmarkFlags(items []Item) {
	for i := range items {
		items[i].Bookmarked = items[i].Exists() && slices.Contains(c.rawBookmarks, items[i].Path)
	}
}

func (c *Controller) pathOpen(path string) bool {
	return slices.ContainsFunc(c.rawViews, func(v View) bool {
		return pathutil.CleanRel(v.Path) == path
	})
}

// pushClosed prepends entry, dropping any older entry with the same path and
// anything past the ring bound.
func (c *Controller) pushClosed(entry ClosedTab) {
	rest := slices.DeleteFunc(slices.Clone(c.closed), func(ct ClosedTab) bool { return ct.Path == entry.Path })
	c.closed = append([]ClosedTab{entry}, rest...)
	if len(c.closed) > constants.RecentlyClosedLimit {
		c.closed = c.closed[:constants.RecentlyClosedLimit]
	}
}

// forgetClosed removes path from the ring once it has been reopened.
func (c *Controller) forgetClosed(path string) {
	n := len(c.closed)
	c.closed = slices.DeleteFunc(c.closed, func(ct ClosedTab) bool { return ct.Path == path })
	if len(c.closed) != n {
		c.persistHistory()
	}
}

// pruneHistory drops entries that are open again, duplicated or past the
// bound. It reports whether anything changed.
func (c *Controller) pruneHistory() bool {
	seen := make(map[string]bool, len(c.closed))
	kept := make([]ClosedTab, 0, len(c.closed))
	for _, ct := range c.closed {
		ct.Path = pathutil.CleanRel(ct.Path)
		if ct.Path == "" || seen[ct.Path] || c.pathOpen(ct.Path) {
			continue
		}
		seen[ct.Path] = true
		kept = append(kept, ct)
	}
	if len(kept) > constants.RecentlyClosedLimit {
		kept = kept[:constants.RecentlyClosedLimit]
	}

	changed := !slices.Equal(kept, c.closed)
	c.closed = kept
	return changed
}

func (c *Controller) persistHistory() {
	if c.history == nil {
		return
	}
	if err := c.history.SaveRecentlyClosed(slices.Clone(c.closed)); err != nil {
		log.Printf("palette: saving recently closed: %v", err)
	}
}

func (c *Controller) enabledSections() []SectionID {
	enabled := make([]SectionID, 0, len(sectionOrder))
	for _, id := range sectionOrder {
		if c.settings.Sections.enabled(id) {
			enabled = append(enabled, id)
		}
	}
	return enabled
}

func (c *Controller) initialSection() SectionID {
	for _, id := range initialPriority {
		if c.settings.Sections.enabled(id) && len(c.items(id)) > 0 {
			return id
		}
	}
	for _, id := range initialPriority {
		if c.settings.Sections.enabled(id) {
			return id
		}
	}
	panic("palette: no enabled section")
}

// nearestEnabled finds the enabled section closest to id in display order,
// looking right first on ties.
func (c *Controller) nearestEnabled(id SectionID) SectionID {
	for dist := 1; dist < int(sectionCount); dist++ {
		for _, cand := range [...]SectionID{id + SectionID(dist), id - SectionID(dist)} {
			if cand.valid() && c.settings.Sections.enabled(cand) {
				return cand
			}
		}
	}
	return c.enabled[0]
}

func (c *Controller) items(id SectionID) []Item {
	switch id {
	case SectionSearch:
		return c.search
	case SectionTabs:
		return c.tabs
	case SectionBookmarks:
		return c.bookmarkItems
	case SectionDailyNotes:
		return c.dailyItems
	}
	panic(fmt.Sprintf("palette: unknown section %d", int(id)))
}

func (c *Controller) sectionLen(id SectionID) (int, bool) {
	return len(c.items(id)), c.settings.Sections.enabled(id)
}

func (c *Controller) clampAll() {
	for _, id := range sectionOrder {
		c.selected[id] = clamp(c.selected[id], len(c.items(id)))
	}
}

// check panics when a state transition broke an invariant.
func (c *Controller) check() {
	if !c.open {
		return
	}
	if !c.settings.Sections.enabled(c.active) {
		panic(fmt.Sprintf("palette: active section %s is disabled", c.active))
	}
	for _, id := range sectionOrder {
		n, idx := len(c.items(id)), c.selected[id]
		if idx < 0 || (n == 0 && idx != 0) || (n > 0 && idx >= n) {
			panic(fmt.Sprintf("palette: selection %d out of range for %s (%d items)", idx, id, n))
		}
	}
	for _, item := range c.tabs {
		if item.RecentlyClosed() && item.tab.handle != "" {
			panic(fmt.Sprintf("palette: closed tab %s carries a handle", item.Path))
		}
	}
	if len(c.closed) > constants.RecentlyClosedLimit {
		panic(fmt.Sprintf("palette: recently closed holds %d entries", len(c.closed)))
	}
	for _, ct := range c.closed {
		if c.pathOpen(ct.Path) {
			panic(fmt.Sprintf("palette: recently closed contains open path %s", ct.Path))
		}
	}
}
