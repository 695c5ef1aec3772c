package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/talis-fb/RequestTUI/internal/keybinds"
)

// namedKeys maps special tcell keys to the names used in keymap files
var namedKeys = map[tcell.Key]keybinds.Key{
	tcell.KeyEnter:      "enter",
	tcell.KeyEscape:     "esc",
	tcell.KeyTab:        "tab",
	tcell.KeyBacktab:    "shift+tab",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyDelete:     "delete",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyPgUp:       "pgup",
	tcell.KeyPgDn:       "pgdown",
}

// KeyName converts a tcell key event into a keymap key name.
// Events with no name (function keys, bare modifiers) report false.
func KeyName(ev *tcell.EventKey) (keybinds.Key, bool) {
	if name, ok := namedKeys[ev.Key()]; ok {
		return name, true
	}

	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		name := keybinds.Key(string(r))
		if r == ' ' {
			name = "space"
		}
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return "alt+" + name, true
		}
		return name, true
	}

	// KeyCtrlA..KeyCtrlZ share values with the control characters 1..26
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return keybinds.Key("ctrl+" + string(rune('a'+k-tcell.KeyCtrlA))), true
	}
	return "", false
}
