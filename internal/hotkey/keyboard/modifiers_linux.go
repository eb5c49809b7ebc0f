//go:build linux

package keyboard

import (
	"golang.design/x/hotkey"

	keys "keyscribe/internal/hotkey"
)

// modifierMap маппинг keys.Modifier -> hotkey.Modifier для X11
var modifierMap = map[keys.Modifier]hotkey.Modifier{
	keys.ModCtrl:  hotkey.ModCtrl,
	keys.ModShift: hotkey.ModShift,
	keys.ModAlt:   hotkey.Mod1, // Alt = Mod1 на X11
	keys.ModSuper: hotkey.Mod4, // Super/Win = Mod4 на X11
}
