// Package selection tracks which body-part filters a session has active.
//
// A State is never empty: the default selection is {Total}. Selecting any
// specific part while on the default replaces it, toggling Total always
// resets to the default, and removing the last part falls back to it.
package selection

import (
	"dexadash/domain/scan"
)

// State is one session's set of selected body parts
type State struct {
	selected map[scan.BodyPart]bool
}

// NewState returns the default {Total} selection
func NewState() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset collapses the selection to {Total}
func (s *State) Reset() {
	s.selected = map[scan.BodyPart]bool{scan.Total: true}
}

// IsDefault reports whether only Total is selected
func (s *State) IsDefault() bool {
	return len(s.selected) == 1 && s.selected[scan.Total]
}

// Toggle applies one button press for part and returns the new selection
func (s *State) Toggle(part scan.BodyPart) []scan.BodyPart {
	switch {
	case part == scan.Total:
		s.Reset()
	case s.IsDefault():
		s.selected = map[scan.BodyPart]bool{part: true}
	case s.selected[part]:
		delete(s.selected, part)
	default:
		s.selected[part] = true
	}

	if len(s.selected) == 0 {
		s.Reset()
	}
	return s.Selected()
}

// Contains reports whether part is selected
func (s *State) Contains(part scan.BodyPart) bool {
	return s.selected[part]
}

// Selected returns the selection in catalog order
func (s *State) Selected() []scan.BodyPart {
	out := make([]scan.BodyPart, 0, len(s.selected))
	for _, p := range scan.AllBodyParts() {
		if s.selected[p] {
			out = append(out, p)
		}
	}
	return out
}

// FromParts builds a state holding exactly parts; an empty list yields the
// default selection. Unknown labels are rejected.
func FromParts(labels []string) (*State, error) {
	s := &State{selected: make(map[scan.BodyPart]bool)}
	for _, label := range labels {
		part, err := scan.ParseBodyPart(label)
		if err != nil {
			return nil, err
		}
		s.selected[part] = true
	}
	if len(s.selected) == 0 || s.selected[scan.Total] {
		s.Reset()
	}
	return s, nil
}
