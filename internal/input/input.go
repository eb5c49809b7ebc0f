// Package input вставляет текст в активное поле: посимвольным вводом или через буфер обмена.
package input

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"

	"keyscribe/internal/logger"
)

// Mode - способ вставки текста.
type Mode string

const (
	// ModeType - синтетический ввод символов.
	ModeType Mode = "type"
	// ModePaste - запись в буфер обмена и сочетание "вставить".
	ModePaste Mode = "paste"
)

// ParseMode возвращает Mode; неизвестное значение даёт ModeType.
func ParseMode(s string) Mode {
	if Mode(s) == ModePaste {
		return ModePaste
	}
	return ModeType
}

// Typer вводит текст в активное поле ввода.
type Typer interface {
	Type(text string) error
}

// New создаёт Typer для режима mode.
func New(mode Mode) (Typer, error) {
	if mode == ModePaste {
		return NewPaster(), nil
	}
	return newTyper()
}

// Paster вставляет текст через буфер обмена и восстанавливает прежнее содержимое.
type Paster struct {
	read         func() (string, error)
	write        func(string) error
	chord        func() error
	restoreDelay time.Duration
}

// NewPaster создаёт Paster на системном буфере обмена.
func NewPaster() *Paster {
	return &Paster{
		read:         clipboard.ReadAll,
		write:        clipboard.WriteAll,
		chord:        pasteChord,
		restoreDelay: 300 * time.Millisecond,
	}
}

// Type кладёт text в буфер обмена и нажимает сочетание вставки.
func (p *Paster) Type(text string) error {
	if text == "" {
		return nil
	}
	prev, readErr := p.read()

	if err := p.write(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	if err := p.chord(); err != nil {
		return fmt.Errorf("paste chord: %w", err)
	}

	if readErr != nil {
		return nil
	}
	// Приложению нужно время, чтобы прочитать буфер до восстановления.
	time.Sleep(p.restoreDelay)
	if err := p.write(prev); err != nil {
		logger.Warn("clipboard restore failed", "error", err)
	}
	return nil
}
