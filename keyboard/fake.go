package keyboard

import "keynotes/keymap"

type Fake struct {
	keys chan keymap.Key
}

func NewFake() *Fake {
	return &Fake{keys: make(chan keymap.Key, 64)}
}

func (f *Fake) Register() error         { return nil }
func (f *Fake) Unregister()             {}
func (f *Fake) Keys() <-chan keymap.Key { return f.keys }

func (f *Fake) SimPress(keys ...keymap.Key) {
	for _, k := range keys {
		f.keys <- k
	}
}
