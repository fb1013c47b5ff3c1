package notes

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"keynotes/keymap"
)

func mutateAll(t *testing.T, c *Cell, evs ...keymap.Event) {
	t.Helper()
	for _, ev := range evs {
		if _, err := c.Mutate(ev); err != nil {
			t.Fatalf("Mutate(%v): %v", ev.Kind, err)
		}
	}
}

func TestCellSnapshotIsIndependent(t *testing.T) {
	c := New()
	mutateAll(t, c, toggle, char('a'), toggle, toggle, char('b'))

	snap, err := c.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	mutateAll(t, c, char('c'), toggle)

	if !snap.Recording || snap.CurrentNote != "b" || !slices.Equal(snap.Notes, []string{"a"}) {
		t.Errorf("snapshot changed after mutation: %+v", snap)
	}
	snap.Notes[0] = "tampered"
	again, _ := c.Snapshot()
	if !slices.Equal(again.Notes, []string{"a", "bc"}) {
		t.Errorf("notes = %q, want [a bc]", again.Notes)
	}
}

func TestCellEmptySnapshotHasNonNilNotes(t *testing.T) {
	snap, err := New().Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Notes == nil {
		t.Error("Notes is nil, want empty slice")
	}
}

func TestCellClearNotesLeavesRecording(t *testing.T) {
	c := New()
	mutateAll(t, c, toggle, char('a'), toggle, toggle, char('b'), toggle, toggle, char('x'))

	before, _ := c.Snapshot()
	if !slices.Equal(before.Notes, []string{"a", "b"}) {
		t.Fatalf("setup notes = %q", before.Notes)
	}
	if err := c.ClearNotes(); err != nil {
		t.Fatal(err)
	}
	after, _ := c.Snapshot()
	if len(after.Notes) != 0 {
		t.Errorf("notes = %q, want empty", after.Notes)
	}
	if after.Recording != before.Recording || after.CurrentNote != before.CurrentNote {
		t.Errorf("clear touched recording state: before %+v after %+v", before, after)
	}
}

func TestCellPoisonedAfterPanic(t *testing.T) {
	c := New()
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		c.with(func(*State) { panic("boom") })
	}()

	if _, err := c.Mutate(toggle); !errors.Is(err, ErrPoisoned) {
		t.Errorf("Mutate err = %v, want ErrPoisoned", err)
	}
	if _, err := c.Snapshot(); !errors.Is(err, ErrPoisoned) {
		t.Errorf("Snapshot err = %v, want ErrPoisoned", err)
	}
	if err := c.ClearNotes(); !errors.Is(err, ErrPoisoned) {
		t.Errorf("ClearNotes err = %v, want ErrPoisoned", err)
	}
}

// Readers running alongside the writer must only ever see states reachable
// from a complete prefix of the event sequence.
func TestCellConcurrentReadersSeeWholeTransitions(t *testing.T) {
	c := New()
	const rounds = 500

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap, err := c.Snapshot()
				if err != nil {
					t.Error(err)
					return
				}
				if !snap.Recording && snap.CurrentNote != "" {
					t.Errorf("idle snapshot with buffer %q", snap.CurrentNote)
					return
				}
				if len(snap.CurrentNote) > 2 {
					t.Errorf("buffer %q longer than any reachable state", snap.CurrentNote)
					return
				}
				for _, n := range snap.Notes {
					if n != "ok" {
						t.Errorf("unexpected note %q", n)
						return
					}
				}
			}
		}()
	}

	for i := 0; i < rounds; i++ {
		mutateAll(t, c, toggle, char('o'), char('k'), toggle)
		if i%50 == 0 {
			if err := c.ClearNotes(); err != nil {
				t.Fatal(err)
			}
		}
	}
	close(stop)
	wg.Wait()

	snap, _ := c.Snapshot()
	if snap.Recording || snap.CurrentNote != "" {
		t.Errorf("final state %+v", snap)
	}
}

func TestCellUpdateReturnsResultingState(t *testing.T) {
	c := New()
	mutateAll(t, c, toggle, char('h'), char('i'))

	out, snap, err := c.Update(toggle)
	if err != nil {
		t.Fatal(err)
	}
	if out != Committed {
		t.Errorf("outcome = %v, want committed", out)
	}
	if snap.Recording || snap.CurrentNote != "" || !slices.Equal(snap.Notes, []string{"hi"}) {
		t.Errorf("snapshot = %+v", snap)
	}
}
