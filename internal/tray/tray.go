// Package tray предоставляет системный трей с меню.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"keyscribe/embedded"
	"keyscribe/internal/hotkey"
	"keyscribe/internal/i18n"
	"keyscribe/internal/usage"
)

// State представляет состояние приложения для отображения в трее.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateProcessing
	// StateDisabled - нет горячей клавиши или ключей API.
	StateDisabled
)

// Callbacks содержит обработчики событий меню.
type Callbacks struct {
	OnLanguage            func(lang string)
	OnRewriteToggle       func() bool
	OnNotificationsToggle func() bool
	OnSettingsClick       func()
	OnClearHotkey         func()
	OnQuit                func()
}

// Options - начальное состояние пунктов меню.
type Options struct {
	Language      string
	Rewrite       bool
	Notifications bool
	Hotkey        hotkey.Spec
}

// Tray управляет иконкой в системном трее.
type Tray struct {
	callbacks Callbacks
	opts      Options

	mu       sync.Mutex
	state    State
	reason   string
	lastUse  *usage.Update
	capLimit int

	status      *systray.MenuItem
	hotkeyItem  *systray.MenuItem
	usageItem   *systray.MenuItem
	langMenu    *systray.MenuItem
	langItems   map[string]*systray.MenuItem
	rewrite     *systray.MenuItem
	notifyOn    *systray.MenuItem
	settingsBtn *systray.MenuItem
	clearBtn    *systray.MenuItem
	quitBtn     *systray.MenuItem
}

// New создаёт новый Tray. capLimit - дневной лимит для строки учёта.
func New(callbacks Callbacks, opts Options, capLimit int) *Tray {
	return &Tray{callbacks: callbacks, opts: opts, capLimit: capLimit}
}

// Run запускает системный трей. Блокирующая функция.
func (t *Tray) Run(onReady, onExit func()) {
	systray.Run(func() {
		t.onReady()
		if onReady != nil {
			onReady()
		}
	}, func() {
		if onExit != nil {
			onExit()
		}
	})
}

func (t *Tray) onReady() {
	systray.SetIcon(embedded.IconIdle)
	systray.SetTitle(i18n.T("app_name"))
	systray.SetTooltip(i18n.T("app_tooltip"))

	t.status = systray.AddMenuItem(i18n.T("tray_ready"), "")
	t.status.Disable()
	t.hotkeyItem = systray.AddMenuItem("", "")
	t.hotkeyItem.Disable()
	t.usageItem = systray.AddMenuItem(i18n.T("tray_usage_none"), "")
	t.usageItem.Disable()

	systray.AddSeparator()

	t.langMenu = systray.AddMenuItem(i18n.T("tray_language"), i18n.T("tray_lang_select"))
	t.langItems = map[string]*systray.MenuItem{
		"ru":   t.langMenu.AddSubMenuItemCheckbox(i18n.T("tray_lang_ru"), i18n.T("tray_lang_ru_hint"), t.opts.Language == "ru"),
		"en":   t.langMenu.AddSubMenuItemCheckbox(i18n.T("tray_lang_en"), i18n.T("tray_lang_en_hint"), t.opts.Language == "en"),
		"auto": t.langMenu.AddSubMenuItemCheckbox(i18n.T("tray_lang_auto"), i18n.T("tray_lang_auto_hint"), t.opts.Language == "auto"),
	}
	t.rewrite = systray.AddMenuItemCheckbox(i18n.T("tray_rewrite"), i18n.T("tray_rewrite_hint"), t.opts.Rewrite)
	t.notifyOn = systray.AddMenuItemCheckbox(i18n.T("tray_notifications"), i18n.T("tray_notifications_hint"), t.opts.Notifications)
	t.settingsBtn = systray.AddMenuItem(i18n.T("tray_settings"), i18n.T("tray_settings_hint"))
	t.clearBtn = systray.AddMenuItem(i18n.T("tray_clear_hotkey"), i18n.T("tray_clear_hotkey_hint"))

	systray.AddSeparator()
	t.quitBtn = systray.AddMenuItem(i18n.T("tray_quit"), i18n.T("tray_quit_hint"))

	t.SetHotkey(t.opts.Hotkey)
	t.mu.Lock()
	t.render()
	t.mu.Unlock()

	for lang, item := range t.langItems {
		go t.handleLanguage(lang, item)
	}
	go t.handleMenuEvents()
}

func (t *Tray) handleLanguage(lang string, item *systray.MenuItem) {
	for range item.ClickedCh {
		for l, it := range t.langItems {
			if l == lang {
				it.Check()
			} else {
				it.Uncheck()
			}
		}
		if t.callbacks.OnLanguage != nil {
			t.callbacks.OnLanguage(lang)
		}
	}
}

func (t *Tray) handleMenuEvents() {
	for {
		select {
		case <-t.rewrite.ClickedCh:
			if t.callbacks.OnRewriteToggle != nil {
				setChecked(t.rewrite, t.callbacks.OnRewriteToggle())
			}

		case <-t.notifyOn.ClickedCh:
			if t.callbacks.OnNotificationsToggle != nil {
				setChecked(t.notifyOn, t.callbacks.OnNotificationsToggle())
			}

		case <-t.settingsBtn.ClickedCh:
			if t.callbacks.OnSettingsClick != nil {
				t.callbacks.OnSettingsClick()
			}

		case <-t.clearBtn.ClickedCh:
			if t.callbacks.OnClearHotkey != nil {
				t.callbacks.OnClearHotkey()
			}

		case <-t.quitBtn.ClickedCh:
			if t.callbacks.OnQuit != nil {
				t.callbacks.OnQuit()
			}
			systray.Quit()
			return
		}
	}
}

func setChecked(item *systray.MenuItem, on bool) {
	if on {
		item.Check()
	} else {
		item.Uncheck()
	}
}

// SetState устанавливает состояние приложения и обновляет иконку.
// Для StateDisabled reason - ключ i18n с причиной.
func (t *Tray) SetState(state State, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
	t.reason = reason
	t.render()
}

// SetHotkey обновляет строку с текущей комбинацией.
func (t *Tray) SetHotkey(spec hotkey.Spec) {
	if t.hotkeyItem == nil {
		t.opts.Hotkey = spec
		return
	}
	if spec.Empty() {
		t.hotkeyItem.SetTitle(i18n.T("tray_no_hotkey"))
		t.clearBtn.Disable()
		return
	}
	t.hotkeyItem.SetTitle(i18n.Tf("tray_hotkey", spec.String()))
	t.clearBtn.Enable()
}

// SetUsage показывает последнее изменение учёта.
func (t *Tray) SetUsage(u usage.Update) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastUse = &u
	t.render()
}

// render вызывается под t.mu.
func (t *Tray) render() {
	if t.status == nil {
		return
	}

	title := StatusText(t.state, t.reason)
	t.status.SetTitle(title)
	systray.SetTooltip(i18n.T("app_name") + " - " + title)

	switch t.state {
	case StateRecording:
		systray.SetIcon(embedded.IconRecording)
	case StateProcessing:
		systray.SetIcon(embedded.IconProcessing)
	default:
		systray.SetIcon(embedded.IconIdle)
	}

	t.usageItem.SetTitle(UsageText(t.lastUse, t.capLimit))
}

// StatusText возвращает подпись строки статуса.
func StatusText(state State, reason string) string {
	switch state {
	case StateRecording:
		return i18n.T("tray_recording")
	case StateProcessing:
		return i18n.T("tray_processing")
	case StateDisabled:
		if reason != "" {
			return i18n.T(reason)
		}
	}
	return i18n.T("tray_ready")
}

// UsageText возвращает подпись строки учёта.
func UsageText(u *usage.Update, capLimit int) string {
	if u == nil {
		return i18n.T("tray_usage_none")
	}
	return i18n.Tf("tray_usage", u.KeyIndex+1, u.Model, u.Count, capLimit)
}

// Quit закрывает системный трей.
func (t *Tray) Quit() {
	systray.Quit()
}

// RefreshUI обновляет все тексты меню на текущем языке.
func (t *Tray) RefreshUI() {
	if t.quitBtn == nil {
		return
	}
	systray.SetTitle(i18n.T("app_name"))
	t.langMenu.SetTitle(i18n.T("tray_language"))
	t.langItems["ru"].SetTitle(i18n.T("tray_lang_ru"))
	t.langItems["en"].SetTitle(i18n.T("tray_lang_en"))
	t.langItems["auto"].SetTitle(i18n.T("tray_lang_auto"))
	t.rewrite.SetTitle(i18n.T("tray_rewrite"))
	t.rewrite.SetTooltip(i18n.T("tray_rewrite_hint"))
	t.notifyOn.SetTitle(i18n.T("tray_notifications"))
	t.notifyOn.SetTooltip(i18n.T("tray_notifications_hint"))
	t.settingsBtn.SetTitle(i18n.T("tray_settings"))
	t.settingsBtn.SetTooltip(i18n.T("tray_settings_hint"))
	t.clearBtn.SetTitle(i18n.T("tray_clear_hotkey"))
	t.clearBtn.SetTooltip(i18n.T("tray_clear_hotkey_hint"))
	t.quitBtn.SetTitle(i18n.T("tray_quit"))
	t.quitBtn.SetTooltip(i18n.T("tray_quit_hint"))

	t.mu.Lock()
	t.render()
	t.mu.Unlock()
}
