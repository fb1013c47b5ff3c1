package keymap

// Kind tags the variant carried by an Event.
type Kind int

const (
	Ignored Kind = iota
	ToggleRecording
	Cancel
	Newline
	Space
	DeleteLast
	Arrow
	Char
)

func (k Kind) String() string {
	switch k {
	case ToggleRecording:
		return "toggle"
	case Cancel:
		return "cancel"
	case Newline:
		return "newline"
	case Space:
		return "space"
	case DeleteLast:
		return "delete"
	case Arrow:
		return "arrow"
	case Char:
		return "char"
	default:
		return "ignored"
	}
}

// Event is the meaning of a single key press. Rune is set only for Arrow
// (the direction glyph) and Char (the printed character).
type Event struct {
	Kind Kind
	Rune rune
}

// The hotkeys are fixed.
const (
	ToggleKey = KeyF9
	CancelKey = KeyEsc
)

var arrowGlyphs = map[Key]rune{
	KeyUp:    '↑',
	KeyDown:  '↓',
	KeyLeft:  '←',
	KeyRight: '→',
}

var letterKeys = map[rune]Key{
	'a': KeyA, 'b': KeyB, 'c': KeyC, 'd': KeyD, 'e': KeyE, 'f': KeyF,
	'g': KeyG, 'h': KeyH, 'i': KeyI, 'j': KeyJ, 'k': KeyK, 'l': KeyL,
	'm': KeyM, 'n': KeyN, 'o': KeyO, 'p': KeyP, 'q': KeyQ, 'r': KeyR,
	's': KeyS, 't': KeyT, 'u': KeyU, 'v': KeyV, 'w': KeyW, 'x': KeyX,
	'y': KeyY, 'z': KeyZ,
}

var digitKeys = map[rune]Key{
	'0': Key0, '1': Key1, '2': Key2, '3': Key3, '4': Key4,
	'5': Key5, '6': Key6, '7': Key7, '8': Key8, '9': Key9,
}

var keypadKeys = map[rune]Key{
	'0': KeyKP0, '1': KeyKP1, '2': KeyKP2, '3': KeyKP3, '4': KeyKP4,
	'5': KeyKP5, '6': KeyKP6, '7': KeyKP7, '8': KeyKP8, '9': KeyKP9,
}

var punctKeys = map[rune]Key{
	'-': KeyMinus, '=': KeyEqual, '[': KeyLeftBrace, ']': KeyRightBrace,
	';': KeySemicolon, '\'': KeyApostrophe, '`': KeyGrave, '\\': KeyBackslash,
	',': KeyComma, '.': KeyDot, '/': KeySlash,
}

// printable is built once from the tables above; both digit rows collapse
// onto the same character.
var printable = func() map[Key]rune {
	m := make(map[Key]rune, len(letterKeys)+len(digitKeys)+len(keypadKeys)+len(punctKeys))
	for _, table := range []map[rune]Key{letterKeys, digitKeys, keypadKeys, punctKeys} {
		for r, k := range table {
			m[k] = r
		}
	}
	return m
}()

// Classify maps a key press to its Event. Every key yields exactly one
// Event; unmapped keys yield Ignored. The result does not depend on
// whether recording is active.
//
// Letters are always lowercase: shift and caps lock are not tracked.
func Classify(k Key) Event {
	switch k {
	case ToggleKey:
		return Event{Kind: ToggleRecording}
	case CancelKey:
		return Event{Kind: Cancel}
	case KeyEnter:
		return Event{Kind: Newline}
	case KeySpace:
		return Event{Kind: Space}
	case KeyBackspace:
		return Event{Kind: DeleteLast}
	}
	if g, ok := arrowGlyphs[k]; ok {
		return Event{Kind: Arrow, Rune: g}
	}
	if r, ok := printable[k]; ok {
		return Event{Kind: Char, Rune: r}
	}
	return Event{Kind: Ignored}
}
