// Package keyboard delivers global key presses from the operating system.
package keyboard

import "keynotes/keymap"

// Source provides a stream of key presses. Presses are delivered on a
// single channel in the order they were read; releases are not reported.
type Source interface {
	Register() error
	Unregister()
	Keys() <-chan keymap.Key
}
