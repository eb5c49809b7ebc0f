// Package i18n provides internationalization support.
package i18n

import (
	"fmt"
	"sync"
)

// Language represents a UI language.
type Language string

const (
	RU Language = "ru"
	EN Language = "en"
)

var (
	mu      sync.RWMutex
	current = RU // Default language
)

// Translations for all supported languages.
var translations = map[Language]map[string]string{
	RU: {
		// App
		"app_name":    "keyscribe",
		"app_tooltip": "keyscribe - голосовой ввод",

		// Tray menu
		"tray_ready":              "Готов к работе",
		"tray_recording":          "Запись...",
		"tray_processing":         "Распознавание...",
		"tray_no_hotkey":          "Горячая клавиша не задана",
		"tray_no_keys":            "Нет ключей API",
		"tray_hotkey":             "Клавиша: %s",
		"tray_usage":              "Сегодня: ключ #%d, %s - %d/%d",
		"tray_usage_none":         "Сегодня запросов не было",
		"tray_language":           "Язык",
		"tray_lang_select":        "Выбор языка распознавания",
		"tray_lang_ru":            "Русский",
		"tray_lang_ru_hint":       "Распознавание на русском",
		"tray_lang_en":            "English",
		"tray_lang_en_hint":       "Распознавание на английском",
		"tray_lang_auto":          "Авто",
		"tray_lang_auto_hint":     "Смешанная русская и английская речь",
		"tray_rewrite":            "Исправлять текст",
		"tray_rewrite_hint":       "Исправлять распознанный текст моделью",
		"tray_notifications":      "Уведомления",
		"tray_notifications_hint": "Показывать уведомления",
		"tray_settings":           "Настройки...",
		"tray_settings_hint":      "Горячая клавиша, ключи API, модели",
		"tray_clear_hotkey":       "Сбросить горячую клавишу",
		"tray_clear_hotkey_hint":  "Отключить запись по горячей клавише",
		"tray_quit":               "Выход",
		"tray_quit_hint":          "Закрыть приложение",

		// Notifications
		"notify_recording":       "Запись...",
		"notify_recording_hint":  "Говорите в микрофон",
		"notify_processing":      "Распознаю...",
		"notify_processing_hint": "Пожалуйста, подождите",
		"notify_done":            "Готово",
		"notify_empty":           "Не удалось распознать",
		"notify_empty_hint":      "Попробуйте ещё раз",
		"notify_too_short":       "Запись слишком короткая",
		"notify_error":           "Ошибка",
		"notify_ready":           "keyscribe готов к работе",

		// Settings dialogs
		"settings_title":           "Настройки",
		"settings_prompt":          "Что изменить?",
		"settings_hotkey":          "Горячая клавиша",
		"settings_hotkey_prompt":   "Комбинация через \"+\", например Ctrl+Shift+Space. Пусто - отключить.",
		"settings_api_keys":        "Ключи API",
		"settings_api_keys_prompt": "Ключи через запятую, в порядке использования:",
		"settings_model":           "Модель распознавания",
		"settings_model_prompt":    "Модель, которая пробуется первой:",
		"settings_rewrite_model":   "Модель исправления текста",
		"settings_output":          "Способ вставки",
		"settings_output_type":     "Печатать",
		"settings_output_paste":    "Вставлять через буфер обмена",
		"settings_ui_language":     "Язык интерфейса",

		// Errors
		"error_recording":       "Ошибка записи",
		"error_recognition":     "Ошибка распознавания",
		"error_input":           "Ошибка ввода",
		"error_hotkey_register": "Не удалось зарегистрировать горячую клавишу",
		"error_no_keys":         "Не заданы ключи API",
		"error_rate_limited":    "Все ключи исчерпали дневной лимит",
		"error_provider":        "Ошибка сервиса",
		"error_history":         "Не удалось открыть историю",
	},

	EN: {
		// App
		"app_name":    "keyscribe",
		"app_tooltip": "keyscribe - voice input",

		// Tray menu
		"tray_ready":              "Ready",
		"tray_recording":          "Recording...",
		"tray_processing":         "Processing...",
		"tray_no_hotkey":          "No hotkey set",
		"tray_no_keys":            "No API keys",
		"tray_hotkey":             "Hotkey: %s",
		"tray_usage":              "Today: key #%d, %s - %d/%d",
		"tray_usage_none":         "No requests today",
		"tray_language":           "Language",
		"tray_lang_select":        "Select recognition language",
		"tray_lang_ru":            "Русский",
		"tray_lang_ru_hint":       "Russian recognition",
		"tray_lang_en":            "English",
		"tray_lang_en_hint":       "English recognition",
		"tray_lang_auto":          "Auto",
		"tray_lang_auto_hint":     "Mixed Russian and English speech",
		"tray_rewrite":            "Rewrite text",
		"tray_rewrite_hint":       "Clean up the transcript with a text model",
		"tray_notifications":      "Notifications",
		"tray_notifications_hint": "Show notifications",
		"tray_settings":           "Settings...",
		"tray_settings_hint":      "Hotkey, API keys, models",
		"tray_clear_hotkey":       "Clear hotkey",
		"tray_clear_hotkey_hint":  "Disable hotkey recording",
		"tray_quit":               "Quit",
		"tray_quit_hint":          "Close application",

		// Notifications
		"notify_recording":       "Recording...",
		"notify_recording_hint":  "Speak into the microphone",
		"notify_processing":      "Processing...",
		"notify_processing_hint": "Please wait",
		"notify_done":            "Done",
		"notify_empty":           "Could not recognize",
		"notify_empty_hint":      "Please try again",
		"notify_too_short":       "Recording too short",
		"notify_error":           "Error",
		"notify_ready":           "keyscribe is ready",

		// Settings dialogs
		"settings_title":           "Settings",
		"settings_prompt":          "What do you want to change?",
		"settings_hotkey":          "Hotkey",
		"settings_hotkey_prompt":   "Keys joined with \"+\", e.g. Ctrl+Shift+Space. Empty disables the hotkey.",
		"settings_api_keys":        "API keys",
		"settings_api_keys_prompt": "Comma separated keys, in order of use:",
		"settings_model":           "Transcription model",
		"settings_model_prompt":    "Model to try first:",
		"settings_rewrite_model":   "Rewrite model",
		"settings_output":          "Output mode",
		"settings_output_type":     "Type",
		"settings_output_paste":    "Paste via clipboard",
		"settings_ui_language":     "Interface language",

		// Errors
		"error_recording":       "Recording error",
		"error_recognition":     "Recognition error",
		"error_input":           "Input error",
		"error_hotkey_register": "Failed to register hotkey",
		"error_no_keys":         "No API keys configured",
		"error_rate_limited":    "All keys hit their daily limit",
		"error_provider":        "Service error",
		"error_history":         "Failed to open history",
	},
}

// T returns the translation for the given key.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if strings, ok := translations[current]; ok {
		if s, ok := strings[key]; ok {
			return s
		}
	}
	// Fallback to key itself
	return key
}

// Tf formats the translation for key with args.
func Tf(key string, args ...any) string {
	return fmt.Sprintf(T(key), args...)
}

// SetLanguage sets the current UI language. Unknown languages fall back to RU.
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := translations[lang]; !ok {
		lang = RU
	}
	current = lang
}

// GetLanguage returns the current UI language.
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// AvailableLanguages returns list of supported languages.
func AvailableLanguages() []Language {
	return []Language{RU, EN}
}

// LanguageName returns display name for a language.
func LanguageName(lang Language) string {
	switch lang {
	case RU:
		return "Русский"
	case EN:
		return "English"
	default:
		return string(lang)
	}
}
