package keymap

import (
	"fmt"
	"strings"
)

// Key is a raw key code. Values follow the Linux input-event numbering
// (KEY_* in linux/input-event-codes.h); sources on other platforms
// translate into it.
type Key uint16

const (
	KeyEsc        Key = 1
	Key1          Key = 2
	Key2          Key = 3
	Key3          Key = 4
	Key4          Key = 5
	Key5          Key = 6
	Key6          Key = 7
	Key7          Key = 8
	Key8          Key = 9
	Key9          Key = 10
	Key0          Key = 11
	KeyMinus      Key = 12
	KeyEqual      Key = 13
	KeyBackspace  Key = 14
	KeyTab        Key = 15
	KeyQ          Key = 16
	KeyW          Key = 17
	KeyE          Key = 18
	KeyR          Key = 19
	KeyT          Key = 20
	KeyY          Key = 21
	KeyU          Key = 22
	KeyI          Key = 23
	KeyO          Key = 24
	KeyP          Key = 25
	KeyLeftBrace  Key = 26
	KeyRightBrace Key = 27
	KeyEnter      Key = 28
	KeyLeftCtrl   Key = 29
	KeyA          Key = 30
	KeyS          Key = 31
	KeyD          Key = 32
	KeyF          Key = 33
	KeyG          Key = 34
	KeyH          Key = 35
	KeyJ          Key = 36
	KeyK          Key = 37
	KeyL          Key = 38
	KeySemicolon  Key = 39
	KeyApostrophe Key = 40
	KeyGrave      Key = 41
	KeyLeftShift  Key = 42
	KeyBackslash  Key = 43
	KeyZ          Key = 44
	KeyX          Key = 45
	KeyC          Key = 46
	KeyV          Key = 47
	KeyB          Key = 48
	KeyN          Key = 49
	KeyM          Key = 50
	KeyComma      Key = 51
	KeyDot        Key = 52
	KeySlash      Key = 53
	KeyRightShift Key = 54
	KeyLeftAlt    Key = 56
	KeySpace      Key = 57
	KeyCapsLock   Key = 58
	KeyF1         Key = 59
	KeyF2         Key = 60
	KeyF3         Key = 61
	KeyF4         Key = 62
	KeyF5         Key = 63
	KeyF6         Key = 64
	KeyF7         Key = 65
	KeyF8         Key = 66
	KeyF9         Key = 67
	KeyF10        Key = 68
	KeyKP7        Key = 71
	KeyKP8        Key = 72
	KeyKP9        Key = 73
	KeyKP4        Key = 75
	KeyKP5        Key = 76
	KeyKP6        Key = 77
	KeyKP1        Key = 79
	KeyKP2        Key = 80
	KeyKP3        Key = 81
	KeyKP0        Key = 82
	KeyKPEnter    Key = 96
	KeyRightCtrl  Key = 97
	KeyRightAlt   Key = 100
	KeyUp         Key = 103
	KeyLeft       Key = 105
	KeyRight      Key = 106
	KeyDown       Key = 108
)

var keyNames = map[Key]string{
	KeyEsc: "ESC", KeyMinus: "MINUS", KeyEqual: "EQUAL", KeyBackspace: "BACKSPACE",
	KeyTab: "TAB", KeyLeftBrace: "LEFTBRACE", KeyRightBrace: "RIGHTBRACE",
	KeyEnter: "ENTER", KeyLeftCtrl: "LEFTCTRL", KeySemicolon: "SEMICOLON",
	KeyApostrophe: "APOSTROPHE", KeyGrave: "GRAVE", KeyLeftShift: "LEFTSHIFT",
	KeyBackslash: "BACKSLASH", KeyComma: "COMMA", KeyDot: "DOT", KeySlash: "SLASH",
	KeyRightShift: "RIGHTSHIFT", KeyLeftAlt: "LEFTALT", KeySpace: "SPACE",
	KeyCapsLock: "CAPSLOCK", KeyKPEnter: "KPENTER", KeyRightCtrl: "RIGHTCTRL",
	KeyRightAlt: "RIGHTALT", KeyUp: "UP", KeyLeft: "LEFT", KeyRight: "RIGHT", KeyDown: "DOWN",
}

var keysByName map[string]Key

func init() {
	for r, k := range letterKeys {
		keyNames[k] = strings.ToUpper(string(r))
	}
	for d, k := range digitKeys {
		keyNames[k] = string(d)
	}
	for d, k := range keypadKeys {
		keyNames[k] = "KP" + string(d)
	}
	for i := Key(0); i < 10; i++ {
		keyNames[KeyF1+i] = fmt.Sprintf("F%d", i+1)
	}

	keysByName = make(map[string]Key, len(keyNames))
	for k, name := range keyNames {
		keysByName[name] = k
	}
}

// String returns the evdev-style name without the KEY_ prefix, or the
// numeric code for keys without a name.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KEY(%d)", uint16(k))
}

// ParseKey is the inverse of Key.String for named keys. Matching is
// case-insensitive.
func ParseKey(name string) (Key, error) {
	k, ok := keysByName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown key %q", name)
	}
	return k, nil
}
