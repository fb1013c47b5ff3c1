package main

import (
	"context"
	"fmt"

	"keynotes/keymap"
	"keynotes/notes"
)

// ingest applies key presses to cell one at a time, in the order they
// arrive on keys, until ctx is done or keys is closed. The only error is a
// poisoned cell, which ends the loop.
func ingest(ctx context.Context, keys <-chan keymap.Key, cell *notes.Cell, sink EventSink) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			if !ok {
				return nil
			}
			if err := applyKey(cell, sink, k); err != nil {
				return err
			}
		}
	}
}

func applyKey(cell *notes.Cell, sink EventSink, k keymap.Key) error {
	out, snap, err := cell.Update(keymap.Classify(k))
	if err != nil {
		return fmt.Errorf("applying %v: %w", k, err)
	}
	if out != notes.Unchanged && sink != nil {
		sink.Changed(out, snap)
	}
	return nil
}
