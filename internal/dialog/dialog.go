// Package dialog предоставляет GUI диалоги для настройки приложения.
package dialog

import (
	"strings"

	"github.com/ncruces/zenity"

	"keyscribe/internal/hotkey"
	"keyscribe/internal/i18n"
)

// ErrCanceled возвращается, когда пользователь закрыл диалог.
var ErrCanceled = zenity.ErrCanceled

// Setting - пункт меню настроек.
type Setting int

const (
	SettingHotkey Setting = iota
	SettingAPIKeys
	SettingModel
	SettingRewriteModel
	SettingOutput
	SettingUILanguage
)

var settingKeys = []struct {
	setting Setting
	key     string
}{
	{SettingHotkey, "settings_hotkey"},
	{SettingAPIKeys, "settings_api_keys"},
	{SettingModel, "settings_model"},
	{SettingRewriteModel, "settings_rewrite_model"},
	{SettingOutput, "settings_output"},
	{SettingUILanguage, "settings_ui_language"},
}

// ChooseSetting показывает список настроек и возвращает выбранную.
func ChooseSetting() (Setting, error) {
	items := make([]string, len(settingKeys))
	for i, s := range settingKeys {
		items[i] = i18n.T(s.key)
	}
	choice, err := zenity.List(i18n.T("settings_prompt"), items,
		zenity.Title(i18n.T("settings_title")),
		zenity.DisallowEmpty())
	if err != nil {
		return 0, err
	}
	for i, item := range items {
		if item == choice {
			return settingKeys[i].setting, nil
		}
	}
	return 0, ErrCanceled
}

// EditHotkey запрашивает комбинацию текстом ("Ctrl+Shift+Space").
// Пустая строка означает отключение горячей клавиши.
func EditHotkey(current hotkey.Spec) (hotkey.Spec, error) {
	text, err := zenity.Entry(i18n.T("settings_hotkey_prompt"),
		zenity.Title(i18n.T("settings_hotkey")),
		zenity.EntryText(current.String()))
	if err != nil {
		return current, err
	}
	return hotkey.ParseSpec(text), nil
}

// EditAPIKeys запрашивает список ключей через запятую.
func EditAPIKeys(current []string) ([]string, error) {
	text, err := zenity.Entry(i18n.T("settings_api_keys_prompt"),
		zenity.Title(i18n.T("settings_api_keys")),
		zenity.EntryText(strings.Join(current, ", ")))
	if err != nil {
		return current, err
	}
	return ParseKeys(text), nil
}

// ParseKeys разбирает ключи, разделённые запятыми, пробелами или переводами строк.
func ParseKeys(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// SelectModel предлагает выбрать модель из списка.
func SelectModel(title, current string, models []string) (string, error) {
	items := models
	if current != "" && !contains(models, current) {
		items = append([]string{current}, models...)
	}
	choice, err := zenity.List(i18n.T("settings_model_prompt"), items,
		zenity.Title(title),
		zenity.DefaultItems(current),
		zenity.DisallowEmpty())
	if err != nil {
		return current, err
	}
	return choice, nil
}

// SelectOutputMode предлагает выбрать способ вставки ("type" или "paste").
func SelectOutputMode(current string) (string, error) {
	labels := map[string]string{
		"type":  i18n.T("settings_output_type"),
		"paste": i18n.T("settings_output_paste"),
	}
	choice, err := zenity.List(i18n.T("settings_output"),
		[]string{labels["type"], labels["paste"]},
		zenity.Title(i18n.T("settings_output")),
		zenity.DefaultItems(labels[current]),
		zenity.DisallowEmpty())
	if err != nil {
		return current, err
	}
	if choice == labels["paste"] {
		return "paste", nil
	}
	return "type", nil
}

// SelectUILanguage предлагает выбрать язык интерфейса.
func SelectUILanguage(current i18n.Language) (i18n.Language, error) {
	langs := i18n.AvailableLanguages()
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = i18n.LanguageName(l)
	}
	choice, err := zenity.List(i18n.T("settings_ui_language"), names,
		zenity.Title(i18n.T("settings_ui_language")),
		zenity.DefaultItems(i18n.LanguageName(current)),
		zenity.DisallowEmpty())
	if err != nil {
		return current, err
	}
	for i, name := range names {
		if name == choice {
			return langs[i], nil
		}
	}
	return current, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ShowInfo показывает информационное сообщение.
func ShowInfo(title, message string) {
	zenity.Info(message, zenity.Title(title))
}

// ShowError показывает сообщение об ошибке.
func ShowError(title, message string) {
	zenity.Error(message, zenity.Title(title), zenity.ErrorIcon)
}
