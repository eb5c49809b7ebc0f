package i18n

import "testing"

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range translations[RU] {
		if _, ok := translations[EN][key]; !ok {
			t.Errorf("EN is missing %q", key)
		}
	}
	for key := range translations[EN] {
		if _, ok := translations[RU][key]; !ok {
			t.Errorf("RU is missing %q", key)
		}
	}
}

func TestTranslate(t *testing.T) {
	defer SetLanguage(GetLanguage())

	SetLanguage(EN)
	if got := T("tray_quit"); got != "Quit" {
		t.Errorf("T = %q", got)
	}
	if got := Tf("tray_usage", 1, "m", 3, 20); got != "Today: key #1, m - 3/20" {
		t.Errorf("Tf = %q", got)
	}
	if got := T("no_such_key"); got != "no_such_key" {
		t.Errorf("missing key = %q", got)
	}

	SetLanguage("de")
	if GetLanguage() != RU {
		t.Errorf("unknown language should fall back to RU, got %s", GetLanguage())
	}
}
