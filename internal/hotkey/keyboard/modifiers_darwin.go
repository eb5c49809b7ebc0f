//go:build darwin

package keyboard

import (
	"golang.design/x/hotkey"

	keys "keyscribe/internal/hotkey"
)

// modifierMap маппинг keys.Modifier -> hotkey.Modifier для macOS
var modifierMap = map[keys.Modifier]hotkey.Modifier{
	keys.ModCtrl:  hotkey.ModCtrl,
	keys.ModShift: hotkey.ModShift,
	keys.ModAlt:   hotkey.ModOption,
	keys.ModSuper: hotkey.ModCmd,
}
