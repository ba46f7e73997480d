package computer

// Key is a canonical key identifier understood by InputDevice
// implementations.
type Key int

const (
	KeyUnknown Key = iota

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	KeyNum0
	KeyNum1
	KeyNum2
	KeyNum3
	KeyNum4
	KeyNum5
	KeyNum6
	KeyNum7
	KeyNum8
	KeyNum9

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyF21
	KeyF22
	KeyF23
	KeyF24

	KeySpace
	KeyEscape
	KeyTab
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyCapsLock
	KeyNumLock
	KeyScrollLock
	KeyPrint
	KeyPause
	KeyMenu

	KeyLeftShift
	KeyRightShift
	KeyLeftControl
	KeyRightControl
	KeyLeftAlt
	KeyRightAlt
	KeyLeftCmd
	KeyRightCmd
	KeyLeftSuper
	KeyRightSuper
	KeyFn

	KeyGrave
	KeyMinus
	KeyEqual
	KeyLeftBracket
	KeyRightBracket
	KeyBackslash
	KeySemicolon
	KeyQuote
	KeyComma
	KeyPeriod
	KeySlash

	KeyAdd
	KeySubtract
	KeyMultiply
	KeyDivide
	KeyDecimal
	KeyNumPad0
	KeyNumPad1
	KeyNumPad2
	KeyNumPad3
	KeyNumPad4
	KeyNumPad5
	KeyNumPad6
	KeyNumPad7
	KeyNumPad8
	KeyNumPad9

	KeyAudioMute
	KeyAudioVolDown
	KeyAudioVolUp
	KeyAudioPlay
	KeyAudioStop
	KeyAudioPrev
	KeyAudioNext

	keyCount
)

// keyNames holds the enumeration name of every Key. The fallback lookup in
// KeyResolver matches capitalized tokens against these names.
var keyNames = [keyCount]string{
	KeyUnknown: "Unknown",

	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F", KeyG: "G",
	KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L", KeyM: "M", KeyN: "N",
	KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R", KeyS: "S", KeyT: "T", KeyU: "U",
	KeyV: "V", KeyW: "W", KeyX: "X", KeyY: "Y", KeyZ: "Z",

	KeyNum0: "Num0", KeyNum1: "Num1", KeyNum2: "Num2", KeyNum3: "Num3", KeyNum4: "Num4",
	KeyNum5: "Num5", KeyNum6: "Num6", KeyNum7: "Num7", KeyNum8: "Num8", KeyNum9: "Num9",

	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5", KeyF6: "F6",
	KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10", KeyF11: "F11", KeyF12: "F12",
	KeyF13: "F13", KeyF14: "F14", KeyF15: "F15", KeyF16: "F16", KeyF17: "F17", KeyF18: "F18",
	KeyF19: "F19", KeyF20: "F20", KeyF21: "F21", KeyF22: "F22", KeyF23: "F23", KeyF24: "F24",

	KeySpace:      "Space",
	KeyEscape:     "Escape",
	KeyTab:        "Tab",
	KeyEnter:      "Enter",
	KeyBackspace:  "Backspace",
	KeyDelete:     "Delete",
	KeyInsert:     "Insert",
	KeyHome:       "Home",
	KeyEnd:        "End",
	KeyPageUp:     "PageUp",
	KeyPageDown:   "PageDown",
	KeyLeft:       "Left",
	KeyRight:      "Right",
	KeyUp:         "Up",
	KeyDown:       "Down",
	KeyCapsLock:   "CapsLock",
	KeyNumLock:    "NumLock",
	KeyScrollLock: "ScrollLock",
	KeyPrint:      "Print",
	KeyPause:      "Pause",
	KeyMenu:       "Menu",

	KeyLeftShift:    "LeftShift",
	KeyRightShift:   "RightShift",
	KeyLeftControl:  "LeftControl",
	KeyRightControl: "RightControl",
	KeyLeftAlt:      "LeftAlt",
	KeyRightAlt:     "RightAlt",
	KeyLeftCmd:      "LeftCmd",
	KeyRightCmd:     "RightCmd",
	KeyLeftSuper:    "LeftSuper",
	KeyRightSuper:   "RightSuper",
	KeyFn:           "Fn",

	KeyGrave:        "Grave",
	KeyMinus:        "Minus",
	KeyEqual:        "Equal",
	KeyLeftBracket:  "LeftBracket",
	KeyRightBracket: "RightBracket",
	KeyBackslash:    "Backslash",
	KeySemicolon:    "Semicolon",
	KeyQuote:        "Quote",
	KeyComma:        "Comma",
	KeyPeriod:       "Period",
	KeySlash:        "Slash",

	KeyAdd:      "Add",
	KeySubtract: "Subtract",
	KeyMultiply: "Multiply",
	KeyDivide:   "Divide",
	KeyDecimal:  "Decimal",
	KeyNumPad0:  "NumPad0", KeyNumPad1: "NumPad1", KeyNumPad2: "NumPad2", KeyNumPad3: "NumPad3",
	KeyNumPad4: "NumPad4", KeyNumPad5: "NumPad5", KeyNumPad6: "NumPad6", KeyNumPad7: "NumPad7",
	KeyNumPad8: "NumPad8", KeyNumPad9: "NumPad9",

	KeyAudioMute:    "AudioMute",
	KeyAudioVolDown: "AudioVolDown",
	KeyAudioVolUp:   "AudioVolUp",
	KeyAudioPlay:    "AudioPlay",
	KeyAudioStop:    "AudioStop",
	KeyAudioPrev:    "AudioPrev",
	KeyAudioNext:    "AudioNext",
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "Unknown"
	}
	return keyNames[k]
}

// keysByName indexes keyNames; KeyUnknown is left out so it never resolves.
var keysByName = func() map[string]Key {
	m := make(map[string]Key, keyCount)
	for k := KeyUnknown + 1; k < keyCount; k++ {
		m[keyNames[k]] = k
	}
	return m
}()

// keyAliases is the KeyNameTable: lower-case alias to key. "ctrl" maps to the
// command key on purpose, matching what remote callers expect on macOS hosts.
var keyAliases = map[string]Key{
	"return":    KeyEnter,
	"enter":     KeyEnter,
	"ctrl":      KeyLeftCmd,
	"control":   KeyLeftCmd,
	"cmd":       KeyLeftCmd,
	"command":   KeyLeftCmd,
	"meta":      KeyLeftCmd,
	"shift":     KeyLeftShift,
	"alt":       KeyLeftAlt,
	"option":    KeyLeftAlt,
	"super":     KeyLeftSuper,
	"win":       KeyLeftSuper,
	"space":     KeySpace,
	"backspace": KeyBackspace,
	"tab":       KeyTab,
	"esc":       KeyEscape,
	"del":       KeyDelete,
	"page down": KeyPageDown,
	"pagedown":  KeyPageDown,
	"page_down": KeyPageDown,
	"page up":   KeyPageUp,
	"pageup":    KeyPageUp,
	"page_up":   KeyPageUp,

	"1": KeyNum1,
	"2": KeyNum2,
	"3": KeyNum3,
	"4": KeyNum4,
	"5": KeyNum5,
	"6": KeyNum6,
	"7": KeyNum7,
	"8": KeyNum8,
	"9": KeyNum9,
	"0": KeyNum0,
	"-": KeyMinus,
	"=": KeyEqual,
	"+": KeyAdd,
}

// LookupAlias consults only the alias table.
func LookupAlias(name string) (Key, bool) {
	k, ok := keyAliases[name]
	return k, ok
}

// LookupKeyName consults only the enumeration names, e.g. "F5" or "Escape".
func LookupKeyName(name string) (Key, bool) {
	k, ok := keysByName[name]
	return k, ok
}
