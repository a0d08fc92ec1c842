package palette

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/Paintersrp/quickswitch/internal/pathutil"
)

type fakeViews struct {
	views    []View
	active   Handle
	focused  []Handle
	opened   []OpenTarget
	next     int
	focusErr error
}

func (f *fakeViews) ListOpenViews() []View { return slices.Clone(f.views) }

func (f *fakeViews) ActiveView() (Handle, bool) { return f.active, f.active != "" }

func (f *fakeViews) find(h Handle) int {
	return slices.IndexFunc(f.views, func(v View) bool { return v.Handle == h })
}

func (f *fakeViews) Focus(h Handle) error {
	if f.focusErr != nil {
		return f.focusErr
	}
	if f.find(h) < 0 {
		return ErrStale
	}
	f.focused = append(f.focused, h)
	f.active = h
	return nil
}

func (f *fakeViews) Detach(h Handle) error {
	i := f.find(h)
	if i < 0 {
		return ErrStale
	}
	f.views = slices.Delete(f.views, i, i+1)
	return nil
}

func (f *fakeViews) SetPinned(h Handle, pinned bool) error {
	i := f.find(h)
	if i < 0 {
		return ErrStale
	}
	f.views[i].Pinned = pinned
	return nil
}

func (f *fakeViews) OpenFile(path string, target OpenTarget) (Handle, error) {
	f.opened = append(f.opened, target)
	if !target.NewTab && target.Reuse != "" {
		i := f.find(target.Reuse)
		if i < 0 {
			return "", ErrStale
		}
		f.views[i].Path = path
		return target.Reuse, nil
	}
	f.next++
	h := Handle(fmt.Sprintf("new-%d", f.next))
	f.views = append(f.views, View{Handle: h, Path: path, Order: len(f.views)})
	return h, nil
}

type fakeBookmarks struct {
	paths []string
	err   error
}

func (f *fakeBookmarks) ListFileBookmarks() []string { return slices.Clone(f.paths) }

func (f *fakeBookmarks) AddBookmark(path, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.paths = append(f.paths, path)
	return nil
}

func (f *fakeBookmarks) RemoveBookmark(path string) error {
	if f.err != nil {
		return f.err
	}
	f.paths = slices.DeleteFunc(f.paths, func(p string) bool { return p == path })
	return nil
}

type fakeIndex struct {
	files     map[string]string
	tags      map[string][]string
	created   []string
	createErr error
	lookups   int
}

func newFakeIndex(paths ...string) *fakeIndex {
	idx := &fakeIndex{files: map[string]string{}, tags: map[string][]string{}}
	for _, p := range paths {
		idx.files[p] = ""
	}
	return idx
}

func (f *fakeIndex) ListAllFiles() []File {
	paths := make([]string, 0, len(f.files))
	for p := range f.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		files = append(files, File{Path: p, Name: pathutil.Stem(p)})
	}
	return files
}

func (f *fakeIndex) TagsFor(path string) []string {
	f.lookups++
	return f.tags[path]
}

func (f *fakeIndex) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *fakeIndex) CreateFile(path, content string) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.files[path]; ok {
		return errors.New("file exists")
	}
	f.files[path] = content
	f.created = append(f.created, path)
	return nil
}

func (f *fakeIndex) ReadFile(path string) (string, error) {
	content, ok := f.files[path]
	if !ok {
		return "", fmt.Errorf("read %s: not found", path)
	}
	return content, nil
}

type fakeHistory struct {
	entries []ClosedTab
	saves   int
}

func (f *fakeHistory) RecentlyClosed() []ClosedTab { return slices.Clone(f.entries) }

func (f *fakeHistory) SaveRecentlyClosed(entries []ClosedTab) error {
	f.entries = slices.Clone(entries)
	f.saves++
	return nil
}

var fixedNow = time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)

func view(h, path string, lastActive int) View {
	return View{
		Handle:     Handle(h),
		Path:       path,
		LastActive: fixedNow.Add(time.Duration(lastActive) * time.Minute),
		Order:      lastActive,
	}
}
