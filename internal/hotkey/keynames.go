package hotkey

import "fmt"

// WindowsKeyName возвращает читаемое имя виртуального кода клавиши Windows.
// Неизвестный код даёт пустую строку, Machine такие события игнорирует.
func WindowsKeyName(vk uint32) string {
	switch {
	case vk >= 'A' && vk <= 'Z', vk >= '0' && vk <= '9':
		return string(rune(vk))
	case vk >= 0x60 && vk <= 0x69:
		return fmt.Sprintf("NUMPAD %d", vk-0x60)
	case vk >= 0x70 && vk <= 0x87:
		return fmt.Sprintf("F%d", vk-0x70+1)
	}
	if name, ok := vkNames[vk]; ok {
		return name
	}
	return ""
}

var vkNames = map[uint32]string{
	0x08: "BACKSPACE",
	0x09: "TAB",
	0x0D: "ENTER",
	0x10: "SHIFT",
	0x11: "CTRL",
	0x12: "ALT",
	0x13: "PAUSE",
	0x14: "CAPS LOCK",
	0x1B: "ESC",
	0x20: "SPACE",
	0x21: "PAGE UP",
	0x22: "PAGE DOWN",
	0x23: "END",
	0x24: "HOME",
	0x25: "LEFT",
	0x26: "UP",
	0x27: "RIGHT",
	0x28: "DOWN",
	0x2C: "PRINT SCREEN",
	0x2D: "INSERT",
	0x2E: "DELETE",
	0x5B: "LEFT WIN",
	0x5C: "RIGHT WIN",
	0x5D: "APPS",
	0x6A: "MULTIPLY",
	0x6B: "ADD",
	0x6D: "SUBTRACT",
	0x6E: "DECIMAL",
	0x6F: "DIVIDE",
	0x90: "NUM LOCK",
	0x91: "SCROLL LOCK",
	0xA0: "LEFT SHIFT",
	0xA1: "RIGHT SHIFT",
	0xA2: "LEFT CTRL",
	0xA3: "RIGHT CTRL",
	0xA4: "LEFT ALT",
	0xA5: "RIGHT ALT",
}

// windowsGenericName возвращает общее имя для левого/правого модификатора,
// чтобы комбинация "Ctrl+Space" срабатывала от любой из двух клавиш Ctrl.
func windowsGenericName(vk uint32) string {
	switch vk {
	case 0xA0, 0xA1:
		return "SHIFT"
	case 0xA2, 0xA3:
		return "CTRL"
	case 0xA4, 0xA5:
		return "ALT"
	case 0x5B, 0x5C:
		return "WIN"
	}
	return ""
}

// ModifierTracker переводит виртуальные коды Windows в имена событий.
// Левый и правый варианты модификатора дополнительно дают общее имя ("CTRL"),
// причём Up общего имени выдаётся только когда отпущены оба варианта.
// Не потокобезопасен: вызывается из потока хука.
type ModifierTracker struct {
	held map[uint32]struct{}
}

// Names возвращает имена событий для нажатия или отпускания vk.
func (t *ModifierTracker) Names(state KeyState, vk uint32) []string {
	var names []string
	if name := WindowsKeyName(vk); name != "" {
		names = append(names, name)
	}
	generic := windowsGenericName(vk)
	if generic == "" {
		return names
	}
	if t.held == nil {
		t.held = make(map[uint32]struct{})
	}

	if state == Down {
		t.held[vk] = struct{}{}
		return append(names, generic)
	}

	delete(t.held, vk)
	for other := range t.held {
		if windowsGenericName(other) == generic {
			return names
		}
	}
	return append(names, generic)
}
