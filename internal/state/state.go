// Package state holds the pagination state: the current page list, the
// current visible page, and the total page count. The store is the single
// source of truth consumed by navigation, thumbnails, and export; only the
// calculator writes the page list and only the navigator writes the current
// page.
package state

import (
	"sync"

	"github.com/jobast/palimpsest/internal/paginate"
)

// Snapshot is a consistent read of the pagination state. The slices are
// copies; readers never observe a mix of old and new pages.
type Snapshot struct {
	Pages       []paginate.PageInfo
	Breaks      []paginate.PageBreak
	CurrentPage int
	TotalPages  int
}

// Store is the pagination state store. The page list is always replaced
// atomically, never merged; current-page tracking is decoupled from page
// recomputation, so scrolling never resets the page list and recalculation
// never resets the scroll position.
type Store struct {
	mu      sync.RWMutex
	pages   []paginate.PageInfo
	breaks  []paginate.PageBreak
	current int
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewStore creates an empty store positioned on page 1 of a single empty
// page.
func NewStore() *Store {
	s := &Store{subs: make(map[int]func(Snapshot))}
	s.Reset(0)
	return s
}

// SetPages atomically replaces the page and break lists. The current page is
// clamped into the new range but otherwise preserved.
func (s *Store) SetPages(pages []paginate.PageInfo, breaks []paginate.PageBreak) {
	s.mu.Lock()
	s.pages = append([]paginate.PageInfo(nil), pages...)
	s.breaks = append([]paginate.PageBreak(nil), breaks...)
	if s.current < 1 {
		s.current = 1
	}
	if s.current > len(s.pages) {
		s.current = len(s.pages)
	}
	s.mu.Unlock()
	s.publish()
}

// SetCurrentPage records the page currently visible in the viewport.
// Out-of-range values are clamped.
func (s *Store) SetCurrentPage(n int) {
	s.mu.Lock()
	if n < 1 {
		n = 1
	}
	if n > len(s.pages) {
		n = len(s.pages)
	}
	changed := n != s.current
	s.current = n
	s.mu.Unlock()
	if changed {
		s.publish()
	}
}

// Reset replaces the state with a single empty page covering the whole
// document. It is the degraded state after a calculation failure and the
// short-circuit for an empty document.
func (s *Store) Reset(docSize int) {
	s.mu.Lock()
	s.pages = []paginate.PageInfo{{Number: 1, StartPos: 0, EndPos: docSize}}
	s.breaks = nil
	s.current = 1
	s.mu.Unlock()
	s.publish()
}

// Snapshot returns a consistent copy of the full state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Pages:       append([]paginate.PageInfo(nil), s.pages...),
		Breaks:      append([]paginate.PageBreak(nil), s.breaks...),
		CurrentPage: s.current,
		TotalPages:  len(s.pages),
	}
}

// CurrentPage returns the 1-based current page number.
func (s *Store) CurrentPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// TotalPages returns the total page count.
func (s *Store) TotalPages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function cancels the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) publish() {
	snap := s.Snapshot()
	s.mu.RLock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(snap)
	}
}
