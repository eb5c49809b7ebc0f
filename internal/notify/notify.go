// Package notify показывает системные уведомления.
package notify

import (
	"sync"

	"github.com/gen2brain/beeep"

	"keyscribe/internal/i18n"
	"keyscribe/internal/logger"
)

const maxMessageRunes = 100

// Notifier отправляет системные уведомления.
type Notifier struct {
	mu      sync.RWMutex
	enabled bool
	send    func(title, message string) error
}

// New создаёт Notifier поверх beeep.
func New(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// SetEnabled включает/выключает уведомления.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// Recording - начало записи.
func (n *Notifier) Recording() {
	n.notify(i18n.T("notify_recording"), i18n.T("notify_recording_hint"))
}

// Processing - запись отправлена на распознавание.
func (n *Notifier) Processing() {
	n.notify(i18n.T("notify_processing"), i18n.T("notify_processing_hint"))
}

// Success показывает начало распознанного текста.
func (n *Notifier) Success(text string) {
	n.notify(i18n.T("notify_done"), truncate(text))
}

// Empty - модель вернула пустой текст.
func (n *Notifier) Empty() {
	n.notify(i18n.T("notify_empty"), i18n.T("notify_empty_hint"))
}

// Error показывает уведомление об ошибке.
func (n *Notifier) Error(msg string) {
	n.notify(i18n.T("notify_error"), truncate(msg))
}

// Info показывает уведомление без заголовка.
func (n *Notifier) Info(msg string) {
	n.notify("", truncate(msg))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxMessageRunes {
		return s
	}
	return string(r[:maxMessageRunes]) + "..."
}

func (n *Notifier) notify(title, message string) {
	n.mu.RLock()
	enabled, send := n.enabled, n.send
	n.mu.RUnlock()
	if !enabled {
		return
	}

	full := i18n.T("app_name")
	if title != "" {
		full += ": " + title
	}
	if err := send(full, message); err != nil {
		logger.Debug("notification failed", "error", err)
	}
}
