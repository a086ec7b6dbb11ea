// Package scroll tracks which page section the reader is looking at and
// derives the fade/scale style of every section from the scroll position.
package scroll

import (
	"errors"
	"fmt"
)

var (
	ErrNoSections       = errors.New("scroll: no sections")
	ErrEmptySectionID   = errors.New("scroll: empty section id")
	ErrDuplicateSection = errors.New("scroll: duplicate section id")
)

// Section is one scrollable block of the page.
type Section struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// ValidateSections checks that the list is non-empty and ids are unique.
func ValidateSections(sections []Section) error {
	if len(sections) == 0 {
		return ErrNoSections
	}
	seen := make(map[string]struct{}, len(sections))
	for i, s := range sections {
		if s.ID == "" {
			return fmt.Errorf("section %d: %w", i, ErrEmptySectionID)
		}
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("section %q: %w", s.ID, ErrDuplicateSection)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

func cloneSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}
