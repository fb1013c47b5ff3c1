package notes

import (
	"strings"

	"keynotes/keymap"
)

// Outcome reports what Apply did to the state.
type Outcome int

const (
	Unchanged Outcome = iota
	Edited
	Started
	Committed
	Discarded // stopped with a blank buffer
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Edited:
		return "edited"
	case Started:
		return "started"
	case Committed:
		return "committed"
	case Discarded:
		return "discarded"
	case Cancelled:
		return "cancelled"
	default:
		return "unchanged"
	}
}

// State is the recording state. The zero value is the startup state:
// not recording, empty buffer, no notes.
type State struct {
	Recording bool
	Current   []rune
	Notes     []string
}

// Apply performs one transition. Toggle and cancel are handled regardless
// of the recording flag; every other event is dropped unless recording.
func (s *State) Apply(ev keymap.Event) Outcome {
	switch ev.Kind {
	case keymap.ToggleRecording:
		s.Recording = !s.Recording
		if s.Recording {
			return Started
		}
		note := string(s.Current)
		s.Current = s.Current[:0]
		if strings.TrimSpace(note) == "" {
			return Discarded
		}
		s.Notes = append(s.Notes, note)
		return Committed

	case keymap.Cancel:
		wasActive := s.Recording || len(s.Current) > 0
		s.Recording = false
		s.Current = s.Current[:0]
		if wasActive {
			return Cancelled
		}
		return Unchanged
	}

	if !s.Recording {
		return Unchanged
	}

	switch ev.Kind {
	case keymap.Newline:
		s.Current = append(s.Current, '\n')
	case keymap.Space:
		s.Current = append(s.Current, ' ')
	case keymap.DeleteLast:
		if len(s.Current) == 0 {
			return Unchanged
		}
		s.Current = s.Current[:len(s.Current)-1]
	case keymap.Arrow, keymap.Char:
		s.Current = append(s.Current, ev.Rune)
	default:
		return Unchanged
	}
	return Edited
}
