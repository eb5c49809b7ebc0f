package dialog

import (
	"strings"
	"testing"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a, b ,c", "a|b|c"},
		{"a\nb;a", "a|b"},
		{"  ", ""},
		{"AIza-1", "AIza-1"},
	}
	for _, tt := range tests {
		if got := strings.Join(ParseKeys(tt.in), "|"); got != tt.want {
			t.Errorf("ParseKeys(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSettingItemsCoverAllSettings(t *testing.T) {
	seen := map[Setting]bool{}
	for _, s := range settingKeys {
		seen[s.setting] = true
	}
	for s := SettingHotkey; s <= SettingUILanguage; s++ {
		if !seen[s] {
			t.Errorf("setting %d has no menu item", s)
		}
	}
}
