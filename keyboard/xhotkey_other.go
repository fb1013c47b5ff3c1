//go:build !linux

package keyboard

import (
	"golang.design/x/hotkey"

	"keynotes/keymap"
)

type xHotkeySource struct {
	hk   *hotkey.Hotkey
	keys chan keymap.Key
	stop chan struct{}
}

// New creates a source using golang.design/x/hotkey (X11/Cocoa/Win32).
// Only the toggle key can be grabbed this way, so text capture is not
// available on these platforms.
func New() Source {
	return &xHotkeySource{
		hk:   hotkey.New(nil, hotkey.KeyF9),
		keys: make(chan keymap.Key, 1),
		stop: make(chan struct{}),
	}
}

func (s *xHotkeySource) Register() error {
	if err := s.hk.Register(); err != nil {
		return err
	}
	go func() {
		for {
			select {
			case <-s.hk.Keydown():
			case <-s.stop:
				return
			}
			select {
			case s.keys <- keymap.ToggleKey:
			case <-s.stop:
				return
			}
		}
	}()
	return nil
}

func (s *xHotkeySource) Unregister() {
	select {
	case <-s.stop:
		return
	default:
	}
	close(s.stop)
	s.hk.Unregister()
}

func (s *xHotkeySource) Keys() <-chan keymap.Key {
	return s.keys
}

// Diagnose checks hotkey availability and returns a status message.
func Diagnose() (string, error) {
	return "hotkey support available (F9 toggle only; text capture requires Linux evdev)", nil
}
