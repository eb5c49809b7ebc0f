//go:build linux || darwin

// Package keyboard поставляет события клавиатуры от операционной системы.
package keyboard

import (
	"fmt"
	"sync"
	"time"

	"golang.design/x/hotkey"

	keys "keyscribe/internal/hotkey"
	"keyscribe/internal/logger"
)

// chordSource регистрирует ровно одну комбинацию через системный API горячих клавиш.
// Отдельные клавиши он не видит, поэтому нажатие комбинации превращается
// в серию Down по всем её клавишам, а отпускание - в серию Up.
type chordSource struct {
	out *keys.Emitter

	mu     sync.Mutex
	hk     *hotkey.Hotkey
	spec   keys.Spec
	stopCh chan struct{}
	closed bool
}

// NewSource создаёт платформенный источник событий клавиатуры.
func NewSource() (keys.Source, error) {
	return &chordSource{out: keys.NewEmitter(64)}, nil
}

func (s *chordSource) Events() <-chan keys.Event {
	return s.out.Events()
}

// Watch перерегистрирует горячую клавишу.
func (s *chordSource) Watch(spec keys.Spec) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if s.spec.Equal(spec) && (s.hk != nil || spec.Empty()) {
		s.mu.Unlock()
		return nil
	}
	oldHk := s.detachLocked()
	s.mu.Unlock()

	unregisterWithTimeout(oldHk)

	if spec.Empty() {
		s.mu.Lock()
		s.spec = nil
		s.mu.Unlock()
		logger.Info("hotkey disabled")
		return nil
	}

	c, err := keys.SplitChord(spec)
	if err != nil {
		return err
	}

	mods := make([]hotkey.Modifier, 0, len(c.Kinds))
	for _, kind := range c.Kinds {
		mods = append(mods, modifierMap[kind])
	}
	key, ok := keyMap[c.Key]
	if !ok {
		return fmt.Errorf("%w: %s", keys.ErrUnsupportedKey, c.Key)
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register %s: %w", spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		unregisterWithTimeout(hk)
		return nil
	}
	stopCh := make(chan struct{})
	if !s.out.Go(func() { s.listen(hk, c, stopCh) }) {
		unregisterWithTimeout(hk)
		return nil
	}
	s.hk = hk
	s.spec = spec
	s.stopCh = stopCh
	logger.Info("hotkey registered", "spec", spec.String())
	return nil
}

// detachLocked останавливает listener и возвращает старую регистрацию.
func (s *chordSource) detachLocked() *hotkey.Hotkey {
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
	hk := s.hk
	s.hk = nil
	return hk
}

// unregisterWithTimeout снимает регистрацию; на некоторых платформах вызов может зависнуть.
func unregisterWithTimeout(hk *hotkey.Hotkey) {
	if hk == nil {
		return
	}
	done := make(chan struct{})
	go func() {
		if err := hk.Unregister(); err != nil {
			logger.Warn("hotkey unregister failed", "error", err)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		logger.Warn("hotkey unregister timeout")
	}
}

func (s *chordSource) listen(hk *hotkey.Hotkey, c keys.Chord, stopCh chan struct{}) {
	down := make([]keys.Event, 0, len(c.Mods)+1)
	for _, m := range c.Mods {
		down = append(down, keys.Event{State: keys.Down, Name: string(m)})
	}
	down = append(down, keys.Event{State: keys.Down, Name: string(c.Key)})

	up := make([]keys.Event, 0, len(down))
	for i := len(down) - 1; i >= 0; i-- {
		up = append(up, keys.Event{State: keys.Up, Name: down[i].Name})
	}

	for {
		select {
		case <-stopCh:
			return
		case _, ok := <-hk.Keydown():
			if !ok || !s.emit(down, stopCh) {
				return
			}
		case _, ok := <-hk.Keyup():
			if !ok || !s.emit(up, stopCh) {
				return
			}
		}
	}
}

func (s *chordSource) emit(events []keys.Event, stopCh chan struct{}) bool {
	for _, ev := range events {
		if !s.out.Send(ev, stopCh) {
			return false
		}
	}
	return true
}

// Close отменяет регистрацию, дожидается listener и закрывает канал событий.
func (s *chordSource) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	hk := s.detachLocked()
	s.mu.Unlock()

	unregisterWithTimeout(hk)
	s.out.Close()
	return nil
}

// keyMap маппинг Token -> hotkey.Key
var keyMap = map[keys.Token]hotkey.Key{
	"SPACE":  hotkey.KeySpace,
	"RETURN": hotkey.KeyReturn,
	"ENTER":  hotkey.KeyReturn,
	"TAB":    hotkey.KeyTab,
	"ESCAPE": hotkey.KeyEscape,
	"ESC":    hotkey.KeyEscape,
	"DELETE": hotkey.KeyDelete,
	"LEFT":   hotkey.KeyLeft,
	"RIGHT":  hotkey.KeyRight,
	"UP":     hotkey.KeyUp,
	"DOWN":   hotkey.KeyDown,
	"0":      hotkey.Key0,
	"1":      hotkey.Key1,
	"2":      hotkey.Key2,
	"3":      hotkey.Key3,
	"4":      hotkey.Key4,
	"5":      hotkey.Key5,
	"6":      hotkey.Key6,
	"7":      hotkey.Key7,
	"8":      hotkey.Key8,
	"9":      hotkey.Key9,
	"A":      hotkey.KeyA,
	"B":      hotkey.KeyB,
	"C":      hotkey.KeyC,
	"D":      hotkey.KeyD,
	"E":      hotkey.KeyE,
	"F":      hotkey.KeyF,
	"G":      hotkey.KeyG,
	"H":      hotkey.KeyH,
	"I":      hotkey.KeyI,
	"J":      hotkey.KeyJ,
	"K":      hotkey.KeyK,
	"L":      hotkey.KeyL,
	"M":      hotkey.KeyM,
	"N":      hotkey.KeyN,
	"O":      hotkey.KeyO,
	"P":      hotkey.KeyP,
	"Q":      hotkey.KeyQ,
	"R":      hotkey.KeyR,
	"S":      hotkey.KeyS,
	"T":      hotkey.KeyT,
	"U":      hotkey.KeyU,
	"V":      hotkey.KeyV,
	"W":      hotkey.KeyW,
	"X":      hotkey.KeyX,
	"Y":      hotkey.KeyY,
	"Z":      hotkey.KeyZ,
	"F1":     hotkey.KeyF1,
	"F2":     hotkey.KeyF2,
	"F3":     hotkey.KeyF3,
	"F4":     hotkey.KeyF4,
	"F5":     hotkey.KeyF5,
	"F6":     hotkey.KeyF6,
	"F7":     hotkey.KeyF7,
	"F8":     hotkey.KeyF8,
	"F9":     hotkey.KeyF9,
	"F10":    hotkey.KeyF10,
	"F11":    hotkey.KeyF11,
	"F12":    hotkey.KeyF12,
}
