package devices

import (
	"fmt"

	"github.com/mobile-next/desktopcli/computer"
)

// robotgoKeys maps canonical keys to the key names robotgo understands.
// Keys without an entry cannot be synthesized on this backend.
var robotgoKeys = map[computer.Key]string{
	computer.KeySpace:      "space",
	computer.KeyEscape:     "esc",
	computer.KeyTab:        "tab",
	computer.KeyEnter:      "enter",
	computer.KeyBackspace:  "backspace",
	computer.KeyDelete:     "delete",
	computer.KeyInsert:     "insert",
	computer.KeyHome:       "home",
	computer.KeyEnd:        "end",
	computer.KeyPageUp:     "pageup",
	computer.KeyPageDown:   "pagedown",
	computer.KeyLeft:       "left",
	computer.KeyRight:      "right",
	computer.KeyUp:         "up",
	computer.KeyDown:       "down",
	computer.KeyCapsLock:   "capslock",
	computer.KeyNumLock:    "num_lock",
	computer.KeyPrint:      "printscreen",
	computer.KeyMenu:       "menu",

	computer.KeyLeftShift:    "lshift",
	computer.KeyRightShift:   "rshift",
	computer.KeyLeftControl:  "lctrl",
	computer.KeyRightControl: "rctrl",
	computer.KeyLeftAlt:      "lalt",
	computer.KeyRightAlt:     "ralt",
	computer.KeyLeftCmd:      "lcmd",
	computer.KeyRightCmd:     "rcmd",
	computer.KeyLeftSuper:    "lcmd",
	computer.KeyRightSuper:   "rcmd",

	computer.KeyGrave:        "`",
	computer.KeyMinus:        "-",
	computer.KeyEqual:        "=",
	computer.KeyLeftBracket:  "[",
	computer.KeyRightBracket: "]",
	computer.KeyBackslash:    "\\",
	computer.KeySemicolon:    ";",
	computer.KeyQuote:        "'",
	computer.KeyComma:        ",",
	computer.KeyPeriod:       ".",
	computer.KeySlash:        "/",

	computer.KeyAdd:      "num+",
	computer.KeySubtract: "num-",
	computer.KeyMultiply: "num*",
	computer.KeyDivide:   "num/",
	computer.KeyDecimal:  "num.",

	computer.KeyAudioMute:    "audio_mute",
	computer.KeyAudioVolDown: "audio_vol_down",
	computer.KeyAudioVolUp:   "audio_vol_up",
	computer.KeyAudioPlay:    "audio_play",
	computer.KeyAudioStop:    "audio_stop",
	computer.KeyAudioPrev:    "audio_prev",
	computer.KeyAudioNext:    "audio_next",
}

// robotgoButtons maps buttons to robotgo mouse names. robotgo calls the
// middle button "center" and falls back to left for names it does not know.
var robotgoButtons = map[computer.Button]string{
	computer.ButtonLeft:   "left",
	computer.ButtonRight:  "right",
	computer.ButtonMiddle: "center",
}

func init() {
	for k := computer.KeyA; k <= computer.KeyZ; k++ {
		robotgoKeys[k] = string(rune('a' + int(k-computer.KeyA)))
	}
	for k := computer.KeyNum0; k <= computer.KeyNum9; k++ {
		robotgoKeys[k] = string(rune('0' + int(k-computer.KeyNum0)))
	}
	for k := computer.KeyNumPad0; k <= computer.KeyNumPad9; k++ {
		robotgoKeys[k] = fmt.Sprintf("num%d", int(k-computer.KeyNumPad0))
	}
	for k := computer.KeyF1; k <= computer.KeyF24; k++ {
		robotgoKeys[k] = fmt.Sprintf("f%d", int(k-computer.KeyF1)+1)
	}
}

func keyName(k computer.Key) (string, error) {
	name, ok := robotgoKeys[k]
	if !ok {
		return "", fmt.Errorf("key %s is not supported by the input backend", k)
	}
	return name, nil
}

func buttonName(b computer.Button) (string, error) {
	name, ok := robotgoButtons[b]
	if !ok {
		return "", fmt.Errorf("button %s is not supported by the input backend", b)
	}
	return name, nil
}

func keyNames(keys []computer.Key) ([]string, error) {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		name, err := keyName(k)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}
