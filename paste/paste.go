// Package paste types a committed note into the focused window by putting it
// on the clipboard and sending the platform paste shortcut.
package paste

import (
	"errors"
	"time"

	"keynotes/clipboard"
)

// ErrUnsupported is returned where no paste keystroke is available.
var ErrUnsupported = errors.New("paste: not supported on this platform")

// settle gives the clipboard owner time to publish before the keystroke.
const settle = 50 * time.Millisecond

// Note copies text to the clipboard and pastes it.
func Note(text string) error {
	if err := clipboard.Copy(text); err != nil {
		return err
	}
	time.Sleep(settle)
	return send()
}
