package notes

import (
	"errors"
	"sync"

	"keynotes/keymap"
)

// ErrPoisoned is returned by every Cell operation after a previous
// operation panicked while holding the lock. The state may be half-applied
// at that point, so there is no recovery.
var ErrPoisoned = errors.New("notes: state poisoned by an earlier panic")

// Snapshot is a copy of the state at one instant.
type Snapshot struct {
	Recording   bool     `json:"recording"`
	CurrentNote string   `json:"current_note"`
	Notes       []string `json:"notes"`
}

// Cell owns the State and serializes all access to it. The key ingestion
// loop calls Mutate or Update; readers call Snapshot and ClearNotes.
type Cell struct {
	mu       sync.Mutex
	state    State
	poisoned bool
}

func (s *State) snapshot() Snapshot {
	return Snapshot{
		Recording:   s.Recording,
		CurrentNote: string(s.Current),
		Notes:       append(make([]string, 0, len(s.Notes)), s.Notes...),
	}
}

func New() *Cell {
	return &Cell{}
}

// with runs fn under the lock. A panic in fn poisons the cell and keeps
// propagating.
func (c *Cell) with(fn func(s *State)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.poisoned {
		return ErrPoisoned
	}
	done := false
	defer func() {
		if !done {
			c.poisoned = true
		}
	}()
	fn(&c.state)
	done = true
	return nil
}

// Mutate applies one key event.
func (c *Cell) Mutate(ev keymap.Event) (Outcome, error) {
	var out Outcome
	err := c.with(func(s *State) {
		out = s.Apply(ev)
	})
	return out, err
}

// Update applies one key event and returns the resulting state, both under
// the same lock, so the snapshot reflects exactly this transition.
func (c *Cell) Update(ev keymap.Event) (Outcome, Snapshot, error) {
	var (
		out  Outcome
		snap Snapshot
	)
	err := c.with(func(s *State) {
		out = s.Apply(ev)
		snap = s.snapshot()
	})
	return out, snap, err
}

// Snapshot returns a deep copy; later mutations do not affect it.
func (c *Cell) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := c.with(func(s *State) {
		snap = s.snapshot()
	})
	return snap, err
}

// ClearNotes empties the committed notes. The recording flag and the
// in-progress buffer are left alone.
func (c *Cell) ClearNotes() error {
	return c.with(func(s *State) {
		s.Notes = nil
	})
}
