// Package workspace keeps the set of open views ("tabs") between runs and
// launches the editor on the focused one.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"

	"github.com/Paintersrp/quickswitch/internal/palette"
	"github.com/Paintersrp/quickswitch/internal/pathutil"
)

// ErrUnknownView is returned for handles that are not part of the session.
// It matches palette.ErrStale.
var ErrUnknownView = fmt.Errorf("%w: unknown view", palette.ErrStale)

const sessionKey = "session"

type record struct {
	Views     []palette.View `json:"views"`
	Active    palette.Handle `json:"active"`
	NextOrder int            `json:"next_order"`
}

// Session is the persistent list of open views. It implements
// palette.ViewManager.
type Session struct {
	mu    sync.Mutex
	store *diskv.Diskv
	rec   record

	now       func() time.Time
	newHandle func() palette.Handle
}

// Open loads the session stored under dir, starting empty when none exists.
func Open(dir string) (*Session, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	s := &Session{
		store: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 64 * 1024,
		}),
		now:       time.Now,
		newHandle: func() palette.Handle { return palette.Handle(uuid.NewString()) },
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) load() error {
	if !s.store.Has(sessionKey) {
		return nil
	}

	data, err := s.store.Read(sessionKey)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if err := json.Unmarshal(data, &s.rec); err != nil {
		return fmt.Errorf("failed to decode session: %w", err)
	}
	return nil
}

func (s *Session) save() error {
	data, err := json.Marshal(s.rec)
	if err != nil {
		return err
	}
	return s.store.Write(sessionKey, data)
}

func (s *Session) ListOpenViews() []palette.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.rec.Views)
}

func (s *Session) ActiveView() (palette.Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(s.rec.Active) < 0 {
		return "", false
	}
	return s.rec.Active, true
}

// Active returns the focused view.
func (s *Session) Active() (palette.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(s.rec.Active)
	if i < 0 {
		return palette.View{}, false
	}
	return s.rec.Views[i], true
}

func (s *Session) Focus(h palette.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(h)
	if i < 0 {
		return ErrUnknownView
	}
	s.touch(i)
	return s.save()
}

func (s *Session) Detach(h palette.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(h)
	if i < 0 {
		return ErrUnknownView
	}
	s.rec.Views = slices.Delete(s.rec.Views, i, i+1)
	if s.rec.Active == h {
		s.rec.Active = s.mostRecent()
	}
	return s.save()
}

func (s *Session) SetPinned(h palette.Handle, pinned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(h)
	if i < 0 {
		return ErrUnknownView
	}
	s.rec.Views[i].Pinned = pinned
	return s.save()
}

// OpenFile shows path in the reused view, or in a new view when asked to or
// when the reused view is pinned.
func (s *Session) OpenFile(path string, target palette.OpenTarget) (palette.Handle, error) {
	path = pathutil.CleanRel(path)
	if path == "" {
		return "", errors.New("path must be provided")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !target.NewTab && target.Reuse != "" {
		i := s.find(target.Reuse)
		if i < 0 {
			return "", ErrUnknownView
		}
		if !s.rec.Views[i].Pinned {
			s.rec.Views[i].Path = path
			s.touch(i)
			return target.Reuse, s.save()
		}
	}

	v := palette.View{
		Handle: s.newHandle(),
		Path:   path,
		Order:  s.rec.NextOrder,
	}
	s.rec.NextOrder++
	s.rec.Views = append(s.rec.Views, v)
	s.touch(len(s.rec.Views) - 1)
	return v.Handle, s.save()
}

// Next focuses the view opened after the active one, wrapping around.
func (s *Session) Next() (palette.View, error) {
	return s.cycle(1)
}

// Previous focuses the view opened before the active one, wrapping around.
func (s *Session) Previous() (palette.View, error) {
	return s.cycle(-1)
}

func (s *Session) cycle(delta int) (palette.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.rec.Views) == 0 {
		return palette.View{}, errors.New("no open tabs")
	}

	ordered := slices.Clone(s.rec.Views)
	slices.SortStableFunc(ordered, func(a, b palette.View) int { return a.Order - b.Order })

	pos := slices.IndexFunc(ordered, func(v palette.View) bool { return v.Handle == s.rec.Active })
	if pos < 0 {
		pos = 0
	} else {
		pos = (pos + delta + len(ordered)) % len(ordered)
	}

	i := s.find(ordered[pos].Handle)
	s.touch(i)
	return s.rec.Views[i], s.save()
}

// Reconcile drops views whose file no longer exists and reports how many
// were removed. Running it twice changes nothing the second time.
func (s *Session) Reconcile(exists func(string) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.rec.Views)
	s.rec.Views = slices.DeleteFunc(s.rec.Views, func(v palette.View) bool { return !exists(v.Path) })
	removed := before - len(s.rec.Views)
	if removed == 0 {
		return 0, nil
	}
	if s.find(s.rec.Active) < 0 {
		s.rec.Active = s.mostRecent()
	}
	return removed, s.save()
}

func (s *Session) find(h palette.Handle) int {
	if h == "" {
		return -1
	}
	return slices.IndexFunc(s.rec.Views, func(v palette.View) bool { return v.Handle == h })
}

func (s *Session) touch(i int) {
	s.rec.Views[i].LastActive = s.now()
	s.rec.Active = s.rec.Views[i].Handle
}

func (s *Session) mostRecent() palette.Handle {
	var (
		best palette.Handle
		at   time.Time
	)
	for _, v := range s.rec.Views {
		if best == "" || v.LastActive.After(at) {
			best, at = v.Handle, v.LastActive
		}
	}
	return best
}
