package hotkey

import (
	"sort"
	"time"
)

// KeyState - направление события клавиши.
type KeyState int

const (
	Down KeyState = iota
	Up
)

// String возвращает "DOWN" или "UP".
func (s KeyState) String() string {
	if s == Up {
		return "UP"
	}
	return "DOWN"
}

// Event - одно событие глобального перехвата клавиатуры.
type Event struct {
	State KeyState
	Name  string // сырое имя от платформы
}

// Signal - сигнал сессии записи, выдаваемый Machine.
type Signal interface {
	isSignal()
}

// SessionStart означает, что комбинация зажата и запись должна начаться.
type SessionStart struct {
	Keys Spec
	Time time.Time
}

// SessionStop означает, что одна из клавиш комбинации отпущена.
type SessionStop struct {
	Keys        Spec
	ReleaseTime time.Time
	Duration    time.Duration
}

func (SessionStart) isSignal() {}
func (SessionStop) isSignal()  {}

// Machine отслеживает нажатые клавиши и выдаёт ровно одну пару
// SessionStart/SessionStop на каждый физический цикл нажатия.
//
// Machine не потокобезопасна: события подаются из одной горутины (см. Listener).
type Machine struct {
	required   Spec
	active     Spec // комбинация, с которой началась текущая сессия
	pressed    map[Token]struct{}
	running    bool
	pressStart time.Time
	now        func() time.Time
}

// NewMachine создаёт автомат для комбинации spec.
func NewMachine(spec Spec) *Machine {
	return &Machine{
		required: spec,
		pressed:  make(map[Token]struct{}),
		now:      time.Now,
	}
}

// SetClock подменяет источник времени (для тестов).
func (m *Machine) SetClock(now func() time.Time) {
	m.now = now
}

// SetSpec заменяет комбинацию целиком. Активная сессия не прерывается.
func (m *Machine) SetSpec(spec Spec) {
	m.required = spec
}

// Spec возвращает текущую комбинацию.
func (m *Machine) Spec() Spec {
	return m.required
}

// Running возвращает true если сессия активна.
func (m *Machine) Running() bool {
	return m.running
}

// Pressed возвращает отсортированный список зажатых клавиш.
func (m *Machine) Pressed() []Token {
	out := make([]Token, 0, len(m.pressed))
	for t := range m.pressed {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Handle применяет событие и возвращает сигнал или nil.
func (m *Machine) Handle(ev Event) Signal {
	tok := Normalize(ev.Name)
	if tok == "" {
		return nil
	}

	switch ev.State {
	case Down:
		m.pressed[tok] = struct{}{}
		if m.running || m.required.Empty() || !m.holdsAll(m.required) {
			return nil
		}
		start := m.now()
		m.running = true
		m.active = m.required
		m.pressStart = start
		return SessionStart{Keys: m.active, Time: start}

	case Up:
		delete(m.pressed, tok)
		if !m.running {
			return nil
		}
		// После перенастройки сессию завершает и клавиша старой комбинации.
		if !m.required.Contains(tok) && !m.active.Contains(tok) {
			return nil
		}
		release := m.now()
		stop := SessionStop{
			Keys:        m.active,
			ReleaseTime: release,
			Duration:    release.Sub(m.pressStart),
		}
		m.running = false
		m.active = nil
		m.pressStart = time.Time{}
		return stop
	}
	return nil
}

func (m *Machine) holdsAll(spec Spec) bool {
	for _, t := range spec {
		if _, ok := m.pressed[t]; !ok {
			return false
		}
	}
	return true
}
