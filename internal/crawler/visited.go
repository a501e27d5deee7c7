package crawler

import (
	"sync"
	"sync/atomic"
)

// VisitedSet is the set of URLs claimed during one crawl.
// It only grows; there is no way to remove a URL once claimed.
type VisitedSet struct {
	urls sync.Map
	size atomic.Int64
}

// NewVisitedSet returns an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{}
}

// Claim inserts pageURL and reports whether this call inserted it.
// When several goroutines claim the same URL concurrently exactly one of
// them gets true.
func (s *VisitedSet) Claim(pageURL string) bool {
	if _, loaded := s.urls.LoadOrStore(pageURL, struct{}{}); loaded {
		return false
	}
	s.size.Add(1)
	return true
}

// Contains reports whether pageURL has been claimed.
func (s *VisitedSet) Contains(pageURL string) bool {
	_, ok := s.urls.Load(pageURL)
	return ok
}

// Len returns the number of claimed URLs.
func (s *VisitedSet) Len() int {
	return int(s.size.Load())
}
