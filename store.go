package mural

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bodgit/mural/grid"
	"github.com/bodgit/mural/palette"
)

const (
	keyMurals   = "_murals"
	keySelected = "_mural"
	keyOverlays = "_overlays"
)

var errUnknownMural = errors.New("mural: not in store")

// Store holds the murals along with which one is selected and which are
// shown as overlays. Every mural is validated and rendered against the
// palette before it is accepted.
type Store struct {
	db      *DB
	palette *palette.Palette

	murals   []*Mural
	pixels   map[*Mural]int
	selected int
	overlays []int
}

// NewStore returns an empty store persisted in db.
func NewStore(db *DB, p *palette.Palette) *Store {
	return &Store{
		db:       db,
		palette:  p,
		pixels:   make(map[*Mural]int),
		selected: -1,
	}
}

// count validates m and returns its number of painted pixels
func (s *Store) count(m *Mural) (int, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	_, n, err := grid.ToImage(m.Pixels, s.palette, 1)
	return n, err
}

// Load replaces the contents of the store with what is in the database.
func (s *Store) Load() error {
	var raw []json.RawMessage
	if _, err := s.db.Get(keyMurals, &raw); err != nil {
		return err
	}

	s.murals = s.murals[:0]
	s.pixels = make(map[*Mural]int)
	for i, b := range raw {
		v, err := decodeValue(b)
		if err != nil {
			return err
		}
		if err := Validate(v); err != nil {
			return fmt.Errorf("stored mural %d: %w", i, err)
		}
		m := fromValue(v)
		n, err := s.count(m)
		if err != nil {
			return fmt.Errorf("stored mural %d: %w", i, err)
		}
		s.murals = append(s.murals, m)
		s.pixels[m] = n
	}

	s.selected = -1
	if ok, err := s.db.Get(keySelected, &s.selected); err != nil {
		return err
	} else if !ok || s.selected >= len(s.murals) || s.selected < 0 {
		s.selected = -1
	}

	var overlays []int
	if _, err := s.db.Get(keyOverlays, &overlays); err != nil {
		return err
	}
	s.overlays = s.overlays[:0]
	seen := make(map[int]bool)
	for _, i := range overlays {
		if i >= 0 && i < len(s.murals) && !seen[i] {
			seen[i] = true
			s.overlays = append(s.overlays, i)
		}
	}

	return nil
}

// Save writes the contents of the store to the database. Nothing is
// written if any mural no longer validates.
func (s *Store) Save() error {
	for i, m := range s.murals {
		if _, err := s.count(m); err != nil {
			return fmt.Errorf("mural %d: %w", i, err)
		}
	}

	murals := s.murals
	if murals == nil {
		murals = []*Mural{}
	}
	if err := s.db.Set(keyMurals, murals); err != nil {
		return err
	}
	if err := s.db.Set(keySelected, s.selected); err != nil {
		return err
	}
	overlays := s.overlays
	if overlays == nil {
		overlays = []int{}
	}
	return s.db.Set(keyOverlays, overlays)
}

func (s *Store) index(m *Mural) int {
	for i, mural := range s.murals {
		if mural == m {
			return i
		}
	}
	return -1
}

// Murals returns the murals in the order they were added.
func (s *Store) Murals() []*Mural {
	return append([]*Mural(nil), s.murals...)
}

// Find returns the first mural called name.
func (s *Store) Find(name string) (*Mural, bool) {
	for _, m := range s.murals {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// PixelCount returns the number of non-transparent pixels in m.
func (s *Store) PixelCount(m *Mural) int {
	return s.pixels[m]
}

// Add validates m and appends it to the store.
func (s *Store) Add(m *Mural) error {
	n, err := s.count(m)
	if err != nil {
		return err
	}
	s.murals = append(s.murals, m)
	s.pixels[m] = n
	return s.Save()
}

// Update replaces the contents of m with next. m is left unchanged if next
// does not validate.
func (s *Store) Update(m *Mural, next Mural) error {
	if s.index(m) == -1 {
		return errUnknownMural
	}
	n, err := s.count(&next)
	if err != nil {
		return err
	}
	*m = next
	s.pixels[m] = n
	return s.Save()
}

// Remove deletes m from the store, along with any selection or overlay
// referring to it.
func (s *Store) Remove(m *Mural) error {
	i := s.index(m)
	if i == -1 {
		return errUnknownMural
	}

	s.murals = append(s.murals[:i], s.murals[i+1:]...)
	delete(s.pixels, m)

	switch {
	case s.selected == i:
		s.selected = -1
	case s.selected > i:
		s.selected--
	}

	overlays := s.overlays[:0]
	for _, o := range s.overlays {
		switch {
		case o < i:
			overlays = append(overlays, o)
		case o > i:
			overlays = append(overlays, o-1)
		}
	}
	s.overlays = overlays

	return s.Save()
}

// Select makes m the selected mural, a nil m clears the selection.
func (s *Store) Select(m *Mural) error {
	if m == nil {
		s.selected = -1
		return s.Save()
	}
	i := s.index(m)
	if i == -1 {
		return errUnknownMural
	}
	s.selected = i
	return s.Save()
}

// Selected returns the selected mural or nil.
func (s *Store) Selected() *Mural {
	if s.selected < 0 {
		return nil
	}
	return s.murals[s.selected]
}

// AddOverlay shows m as an overlay.
func (s *Store) AddOverlay(m *Mural) error {
	i := s.index(m)
	if i == -1 {
		return errUnknownMural
	}
	if !s.HasOverlay(m) {
		s.overlays = append(s.overlays, i)
	}
	return s.Save()
}

// RemoveOverlay stops showing m as an overlay.
func (s *Store) RemoveOverlay(m *Mural) error {
	i := s.index(m)
	if i == -1 {
		return errUnknownMural
	}
	for j, o := range s.overlays {
		if o == i {
			s.overlays = append(s.overlays[:j], s.overlays[j+1:]...)
			break
		}
	}
	return s.Save()
}

// HasOverlay reports whether m is shown as an overlay.
func (s *Store) HasOverlay(m *Mural) bool {
	i := s.index(m)
	if i == -1 {
		return false
	}
	for _, o := range s.overlays {
		if o == i {
			return true
		}
	}
	return false
}

// Overlays returns the murals shown as overlays in the order they were
// added.
func (s *Store) Overlays() []*Mural {
	murals := make([]*Mural, 0, len(s.overlays))
	for _, o := range s.overlays {
		murals = append(murals, s.murals[o])
	}
	return murals
}
