// Package audio записывает микрофон и упаковывает запись в WAV.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"keyscribe/internal/logger"
)

const (
	// SampleRate - частота дискретизации, которую принимают облачные модели.
	SampleRate = 16000
	// Channels - количество каналов (mono).
	Channels = 1
	// FramesPerBuffer - размер буфера.
	FramesPerBuffer = 1024
	// MaxDuration ограничивает длину одной записи.
	MaxDuration = 5 * time.Minute
)

// Clip - завершённая запись.
type Clip struct {
	Samples    []float32
	SampleRate int
	StartedAt  time.Time
}

// Duration возвращает длительность записи по числу сэмплов.
func (c Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// WAV возвращает запись в формате WAV (16 бит PCM).
func (c Clip) WAV() []byte {
	return EncodeWAV(c.Samples, c.SampleRate)
}

// Recorder записывает аудио с микрофона через portaudio.
type Recorder struct {
	mu        sync.Mutex
	stream    *portaudio.Stream
	buffer    []float32
	samples   []float32
	startedAt time.Time
	running   bool
	done      chan struct{}
}

// New инициализирует portaudio и создаёт Recorder.
func New() (*Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	return &Recorder{buffer: make([]float32, FramesPerBuffer)}, nil
}

// Start открывает поток по умолчанию и начинает запись. Повторный вызов ничего не делает.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil
	}

	stream, err := portaudio.OpenDefaultStream(Channels, 0, SampleRate, FramesPerBuffer, r.buffer)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("start input stream: %w", err)
	}

	r.stream = stream
	r.samples = make([]float32, 0, SampleRate*30)
	r.startedAt = time.Now()
	r.done = make(chan struct{})
	r.running = true

	go r.readLoop(stream, r.done)
	return nil
}

// readLoop забирает буферы, пока запись не остановлена.
func (r *Recorder) readLoop(stream *portaudio.Stream, done chan struct{}) {
	defer close(done)

	limit := int(MaxDuration.Seconds()) * SampleRate
	for r.IsRecording() {
		available, err := stream.AvailableToRead()
		if err != nil || available < FramesPerBuffer {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if err := stream.Read(); err != nil {
			logger.Debug("audio read failed", "error", err)
			time.Sleep(10 * time.Millisecond)
			continue
		}

		r.mu.Lock()
		if r.running && len(r.samples) < limit {
			r.samples = append(r.samples, r.buffer...)
		}
		r.mu.Unlock()
	}
}

// Stop завершает запись и возвращает её. Без активной записи возвращает пустой Clip.
func (r *Recorder) Stop() Clip {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return Clip{SampleRate: SampleRate}
	}
	r.running = false
	stream := r.stream
	r.stream = nil
	clip := Clip{Samples: r.samples, SampleRate: SampleRate, StartedAt: r.startedAt}
	r.samples = nil
	done := r.done
	r.mu.Unlock()

	// readLoop проверяет running каждые 10ms.
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		logger.Warn("audio read loop did not stop in time")
	}

	if stream != nil {
		if err := stream.Stop(); err != nil {
			logger.Warn("audio stream stop failed", "error", err)
		}
		stream.Close()
	}
	return clip
}

// IsRecording возвращает true если идёт запись.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Close останавливает запись и освобождает portaudio.
func (r *Recorder) Close() {
	r.Stop()
	if err := portaudio.Terminate(); err != nil {
		logger.Warn("portaudio terminate failed", "error", err)
	}
}
