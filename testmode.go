package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"keynotes/keymap"
	"keynotes/log"
	"keynotes/notes"
)

// runScript drives the cell from r instead of a keyboard, one command per
// line:
//
//	<key name>   press a key, e.g. F9, A, SPACE, BACKSPACE, ESC
//	SLEEP <ms>   pause
//	STATE        write the current snapshot to w as one JSON line
//	CLEAR        clear the committed notes
//	QUIT         stop reading
//
// Blank lines and lines starting with # are skipped. Presses are applied
// synchronously, so STATE always reflects every key before it.
func runScript(ctx context.Context, r io.Reader, w io.Writer, cell *notes.Cell, sink EventSink) error {
	enc := json.NewEncoder(w)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if ctx.Err() != nil {
			return nil
		}
		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "" || strings.HasPrefix(cmd, "#") {
			continue
		}

		switch {
		case cmd == "QUIT":
			return nil
		case cmd == "STATE":
			snap, err := cell.Snapshot()
			if err != nil {
				return err
			}
			if err := enc.Encode(snap); err != nil {
				return err
			}
		case cmd == "CLEAR":
			if err := cell.ClearNotes(); err != nil {
				return err
			}
			log.NotesCleared("script")
		case strings.HasPrefix(cmd, "SLEEP "):
			ms, err := strconv.Atoi(strings.TrimSpace(cmd[6:]))
			if err != nil {
				return fmt.Errorf("line %d: bad SLEEP %q", lineNo, cmd[6:])
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Duration(ms) * time.Millisecond):
			}
		default:
			k, err := keymap.ParseKey(cmd)
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			if err := applyKey(cell, sink, k); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}
