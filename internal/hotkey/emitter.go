package hotkey

import "sync"

// Emitter - канал событий источника с учётом горутин-производителей.
// Close закрывает канал только после выхода всех производителей,
// поэтому отправка в закрытый канал невозможна.
type Emitter struct {
	events chan Event

	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

// NewEmitter создаёт Emitter с буфером size.
func NewEmitter(size int) *Emitter {
	return &Emitter{events: make(chan Event, size)}
}

// Events возвращает канал событий.
func (e *Emitter) Events() <-chan Event {
	return e.events
}

// Go запускает производителя. После Close возвращает false и fn не запускает.
func (e *Emitter) Go(fn func()) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		fn()
	}()
	return true
}

// Send отправляет событие, пока stop не закрыт. Вызывается только из производителя.
func (e *Emitter) Send(ev Event, stop <-chan struct{}) bool {
	select {
	case <-stop:
		return false
	default:
	}
	select {
	case e.events <- ev:
		return true
	case <-stop:
		return false
	}
}

// Close ждёт завершения производителей и закрывает канал.
// Производители должны быть остановлены через их stop до вызова Close.
func (e *Emitter) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.wg.Wait()
	close(e.events)
}
