package hotkey

import "fmt"

// Modifier - абстрактный модификатор, который платформа отображает на свой код.
type Modifier int

const (
	ModCtrl Modifier = iota
	ModShift
	ModAlt
	ModSuper
)

// modifierTokens - все имена модификаторов, которые встречаются у разных платформ.
var modifierTokens = map[Token]Modifier{
	"CTRL":       ModCtrl,
	"CONTROL":    ModCtrl,
	"LEFTCTRL":   ModCtrl,
	"RIGHTCTRL":  ModCtrl,
	"LCONTROL":   ModCtrl,
	"RCONTROL":   ModCtrl,
	"SHIFT":      ModShift,
	"LEFTSHIFT":  ModShift,
	"RIGHTSHIFT": ModShift,
	"LSHIFT":     ModShift,
	"RSHIFT":     ModShift,
	"ALT":        ModAlt,
	"LEFTALT":    ModAlt,
	"RIGHTALT":   ModAlt,
	"OPTION":     ModAlt,
	"MENU":       ModAlt,
	"SUPER":      ModSuper,
	"META":       ModSuper,
	"LEFTMETA":   ModSuper,
	"RIGHTMETA":  ModSuper,
	"WIN":        ModSuper,
	"CMD":        ModSuper,
	"COMMAND":    ModSuper,
}

// Chord - комбинация, разложенная на модификаторы и одну основную клавишу.
type Chord struct {
	Mods  []Token
	Kinds []Modifier
	Key   Token
}

// SplitChord раскладывает Spec для API, которые регистрируют "модификаторы + клавиша".
func SplitChord(spec Spec) (Chord, error) {
	var c Chord
	for _, t := range spec {
		if kind, ok := modifierTokens[t]; ok {
			c.Mods = append(c.Mods, t)
			c.Kinds = append(c.Kinds, kind)
			continue
		}
		if c.Key != "" {
			return Chord{}, fmt.Errorf("%w: more than one non-modifier key in %s", ErrUnsupportedKey, spec)
		}
		c.Key = t
	}
	if c.Key == "" {
		return Chord{}, fmt.Errorf("%w: %s has no main key", ErrUnsupportedKey, spec)
	}
	return c, nil
}
