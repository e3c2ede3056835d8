// Package filter derives the visible subset of a collection from the user's
// current search and filter inputs. Everything here is pure: applying a
// filter never mutates the collection or the state it reads.
package filter

import "strings"

// State is the record of filter inputs for one screen: a free-text term,
// zero or more categorical selectors keyed by name, and an optional numeric
// range. All constraints are conjunctive.
//
// Selectors can be declared dependent on one another (module depends on
// course); changing a parent resets its children, since a stale child value
// could reference an entity outside the new parent's scope.
type State struct {
	search    string
	selectors map[string]string
	children  map[string][]string
	min, max  *float64
}

func NewState() *State {
	return &State{
		selectors: make(map[string]string),
		children:  make(map[string][]string),
	}
}

// DependsOn declares child to be scoped by parent.
func (s *State) DependsOn(child, parent string) {
	s.children[parent] = append(s.children[parent], child)
}

// SetSearch sets the free-text term. Matching is case-insensitive.
func (s *State) SetSearch(term string) { s.search = term }

// Search returns the current free-text term.
func (s *State) Search() string { return s.search }

// Select sets a categorical selector. The empty value means "no constraint".
// Any selectors declared dependent on key are reset, transitively.
func (s *State) Select(key, value string) {
	if s.selectors[key] == value {
		return
	}
	if value == "" {
		delete(s.selectors, key)
	} else {
		s.selectors[key] = value
	}
	s.resetChildren(key)
}

func (s *State) resetChildren(parent string) {
	for _, child := range s.children[parent] {
		delete(s.selectors, child)
		s.resetChildren(child)
	}
}

// Selected returns the current value of a categorical selector, "" if unset.
func (s *State) Selected(key string) string { return s.selectors[key] }

// SetRange sets inclusive numeric bounds. Nil means unbounded on that side.
func (s *State) SetRange(min, max *float64) {
	s.min, s.max = min, max
}

// Reset clears every input.
func (s *State) Reset() {
	s.search = ""
	s.selectors = make(map[string]string)
	s.min, s.max = nil, nil
}

// Clone returns an independent copy of the state.
func (s *State) Clone() *State {
	c := NewState()
	c.search = s.search
	for k, v := range s.selectors {
		c.selectors[k] = v
	}
	for k, v := range s.children {
		c.children[k] = append([]string(nil), v...)
	}
	c.min, c.max = s.min, s.max
	return c
}

// Spec declares how one entity type is matched against a State. Zero-value
// fields mean the entity does not participate in that constraint.
type Spec[E any] struct {
	// Text returns the attributes the free-text term searches over.
	Text func(E) []string
	// Categorical maps selector names to the attribute they compare with.
	Categorical map[string]func(E) string
	// Numeric returns the attribute bounded by the range; ok=false exempts
	// the entity from range filtering.
	Numeric func(E) (value float64, ok bool)
}

// Matches reports whether the entity satisfies every active constraint.
func (spec Spec[E]) Matches(e E, s *State) bool {
	if term := strings.ToLower(strings.TrimSpace(s.search)); term != "" {
		if spec.Text == nil {
			return false
		}
		found := false
		for _, attr := range spec.Text(e) {
			if strings.Contains(strings.ToLower(attr), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for key, want := range s.selectors {
		accessor, ok := spec.Categorical[key]
		if !ok {
			return false
		}
		if accessor(e) != want {
			return false
		}
	}

	if s.min != nil || s.max != nil {
		if spec.Numeric == nil {
			return true
		}
		v, ok := spec.Numeric(e)
		if !ok {
			return true
		}
		if s.min != nil && v < *s.min {
			return false
		}
		if s.max != nil && v > *s.max {
			return false
		}
	}

	return true
}

// Apply returns the entities matching the state, in input order. The input
// slice is never modified.
func Apply[E any](xs []E, spec Spec[E], s *State) []E {
	out := make([]E, 0, len(xs))
	for _, e := range xs {
		if spec.Matches(e, s) {
			out = append(out, e)
		}
	}
	return out
}
