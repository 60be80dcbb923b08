// Package selection tracks which order ids are selected for bulk actions.
// Ids are global: changing the visible page or filter never changes the set.
package selection

import "sort"

// Set is a set of selected order ids. Not safe for concurrent use.
type Set struct {
	ids map[string]struct{}
}

// New creates an empty selection
func New() *Set {
	return &Set{ids: make(map[string]struct{})}
}

// Toggle flips the selection state of id and returns the new state
func (s *Set) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// SelectAll adds the given ids, typically the ones visible at click time
func (s *Set) SelectAll(ids []string) {
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the selection
func (s *Set) Clear() {
	s.ids = make(map[string]struct{})
}

// IsSelected reports whether id is selected
func (s *Set) IsSelected(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in sorted order
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Retain drops every id for which present returns false and returns how many
// were dropped
func (s *Set) Retain(present func(id string) bool) int {
	dropped := 0
	for id := range s.ids {
		if !present(id) {
			delete(s.ids, id)
			dropped++
		}
	}
	return dropped
}
