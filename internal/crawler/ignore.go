package crawler

import (
	"errors"
	"fmt"
	"regexp"
)

// IgnoreFilter rejects URLs that fully match one of its patterns.
// It is read-only after construction and safe for concurrent use.
type IgnoreFilter struct {
	patterns []*regexp.Regexp
}

// NewIgnoreFilter compiles patterns in order.
// Each pattern is anchored at both ends, so "http://example\.com/.*"
// rejects every page of example.com while "example" rejects nothing but
// the literal URL "example".
func NewIgnoreFilter(patterns []string) (*IgnoreFilter, error) {
	f := &IgnoreFilter{
		patterns: make([]*regexp.Regexp, 0, len(patterns)),
	}

	for _, p := range patterns {
		re, err := regexp.Compile(`^(?:` + p + `)$`)
		if err != nil {
			return nil, errors.Join(ErrInvalidIgnorePattern, fmt.Errorf("pattern %q: %w", p, err))
		}
		f.patterns = append(f.patterns, re)
	}

	return f, nil
}

// Match reports whether pageURL fully matches any pattern.
// A nil filter matches nothing.
func (f *IgnoreFilter) Match(pageURL string) bool {
	if f == nil {
		return false
	}
	for _, re := range f.patterns {
		if re.MatchString(pageURL) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns.
func (f *IgnoreFilter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.patterns)
}
