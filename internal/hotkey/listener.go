// Package hotkey описывает горячие клавиши push-to-talk: имена клавиш, комбинации,
// автомат сессий записи и цикл обработки событий. Платформенные источники
// событий находятся в пакете keyboard.
package hotkey

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"keyscribe/internal/logger"
)

// ErrUnsupportedKey возвращается источником, который не умеет зарегистрировать комбинацию.
var ErrUnsupportedKey = errors.New("hotkey: unsupported key")

// Source поставляет события клавиатуры в порядке поступления.
type Source interface {
	// Events возвращает канал событий. Канал закрывается после Close.
	Events() <-chan Event
	// Watch сообщает источнику актуальную комбинацию.
	// Источники с полным перехватом клавиатуры могут её игнорировать.
	Watch(spec Spec) error
	// Close останавливает перехват.
	Close() error
}

// Listener владеет Machine и обрабатывает события в одной горутине.
type Listener struct {
	machine *Machine
	source  Source
	specCh  chan Spec
	signals chan Signal
}

// NewListener создаёт Listener для источника и начальной комбинации.
func NewListener(source Source, spec Spec) *Listener {
	return &Listener{
		machine: NewMachine(spec),
		source:  source,
		specCh:  make(chan Spec, 4),
		signals: make(chan Signal, 16),
	}
}

// Signals возвращает канал сигналов SessionStart/SessionStop.
func (l *Listener) Signals() <-chan Signal {
	return l.signals
}

// SetHotkey заменяет комбинацию. Применяется перед следующим событием.
// Ошибка источника не мешает Machine получить новую комбинацию.
func (l *Listener) SetHotkey(spec Spec) error {
	err := l.source.Watch(spec)
	if err != nil {
		logger.Warn("hotkey source rejected spec", "spec", spec.String(), "error", err)
	}
	l.pushSpec(spec)
	return err
}

// pushSpec кладёт комбинацию в очередь, вытесняя устаревшие: важна только последняя.
func (l *Listener) pushSpec(spec Spec) {
	for {
		select {
		case l.specCh <- spec:
			return
		default:
			select {
			case <-l.specCh:
			default:
			}
		}
	}
}

// Run обрабатывает события до отмены ctx или закрытия источника.
func (l *Listener) Run(ctx context.Context) error {
	defer close(l.signals)

	if err := l.source.Watch(l.machine.Spec()); err != nil {
		logger.Warn("hotkey source rejected spec", "spec", l.machine.Spec().String(), "error", err)
	}

	events := l.source.Events()
	for {
		// Перенастройка имеет приоритет над уже ожидающими событиями.
		select {
		case spec := <-l.specCh:
			l.applySpec(spec)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case spec := <-l.specCh:
			l.applySpec(spec)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			sig := l.handle(ev)
			if sig == nil {
				continue
			}
			select {
			case l.signals <- sig:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (l *Listener) applySpec(spec Spec) {
	l.machine.SetSpec(spec)
	logger.Info("hotkey configured", "spec", spec.String(), "running", l.machine.Running())
}

// handle не даёт панике в обработке одного события остановить перехват.
func (l *Listener) handle(ev Event) (sig Signal) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("hotkey event panic",
				"event", fmt.Sprintf("%s %q", ev.State, ev.Name),
				"panic", r,
				"stack", string(debug.Stack()))
			sig = nil
		}
	}()

	logger.Debug("key event", "state", ev.State.String(), "name", ev.Name)
	return l.machine.Handle(ev)
}
