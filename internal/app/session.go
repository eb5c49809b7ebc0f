package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"keyscribe/internal/audio"
	"keyscribe/internal/hotkey"
	"keyscribe/internal/i18n"
	"keyscribe/internal/logger"
	"keyscribe/internal/tray"
)

const (
	// MinRecordingDuration - минимальная длительность записи для распознавания
	MinRecordingDuration = 500 * time.Millisecond

	queueSize = 16
)

// Recorder - источник записи с микрофона.
type Recorder interface {
	Start() error
	Stop() audio.Clip
	IsRecording() bool
}

// StatusView отображает состояние приложения.
type StatusView interface {
	SetState(state tray.State, reason string)
}

// SessionNotifier сообщает о ходе сессии.
type SessionNotifier interface {
	Recording()
	Processing()
	Error(msg string)
	Info(msg string)
}

// queue - очередь записей с одним обработчиком; порядок вставки сохраняется.
type queue struct {
	jobs chan Job
}

func newQueue(size int) *queue {
	return &queue{jobs: make(chan Job, size)}
}

// Submit ставит запись в очередь, не блокируясь.
func (q *queue) Submit(job Job) bool {
	select {
	case q.jobs <- job:
		return true
	default:
		logger.Warn("processing queue full, dropping clip", "session", job.SessionID)
		return false
	}
}

// Run обрабатывает записи по одной до отмены ctx.
func (q *queue) Run(ctx context.Context, fn func(context.Context, Job)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case job := <-q.jobs:
			fn(ctx, job)
		}
	}
}

// Pending возвращает число записей в очереди.
func (q *queue) Pending() int {
	return len(q.jobs)
}

// sessions переводит сигналы горячей клавиши в запись и постановку в очередь.
type sessions struct {
	recorder Recorder
	status   StatusView
	notifier SessionNotifier
	keys     func() []string
	submit   func(Job) bool
	newID    func() string

	current string
}

func newSessions(rec Recorder, status StatusView, n SessionNotifier,
	keys func() []string, submit func(Job) bool) *sessions {
	return &sessions{
		recorder: rec,
		status:   status,
		notifier: n,
		keys:     keys,
		submit:   submit,
		newID:    uuid.NewString,
	}
}

// Run читает сигналы до закрытия канала или отмены ctx.
func (s *sessions) Run(ctx context.Context, signals <-chan hotkey.Signal) error {
	for {
		select {
		case <-ctx.Done():
			s.abort()
			return nil
		case sig, ok := <-signals:
			if !ok {
				s.abort()
				return nil
			}
			s.handle(sig)
		}
	}
}

func (s *sessions) handle(sig hotkey.Signal) {
	switch sig := sig.(type) {
	case hotkey.SessionStart:
		s.start(sig)
	case hotkey.SessionStop:
		s.stop(sig)
	}
}

func (s *sessions) start(sig hotkey.SessionStart) {
	if len(s.keys()) == 0 {
		s.status.SetState(tray.StateDisabled, "tray_no_keys")
		s.notifier.Error(i18n.T("error_no_keys"))
		return
	}
	if s.recorder.IsRecording() {
		return
	}
	if err := s.recorder.Start(); err != nil {
		logger.Error("recording start failed", "error", err)
		s.notifier.Error(i18n.T("error_recording") + ": " + err.Error())
		return
	}
	s.current = s.newID()
	logger.Info("session started", "session", s.current, "keys", sig.Keys.String())
	s.status.SetState(tray.StateRecording, "")
	s.notifier.Recording()
}

func (s *sessions) stop(sig hotkey.SessionStop) {
	if s.current == "" {
		return
	}
	id := s.current
	s.current = ""
	clip := s.recorder.Stop()

	if sig.Duration < MinRecordingDuration {
		logger.Info("session too short, discarded", "session", id, "duration", sig.Duration)
		s.status.SetState(tray.StateIdle, "")
		s.notifier.Info(i18n.T("notify_too_short"))
		return
	}

	logger.Info("session stopped", "session", id, "duration", sig.Duration, "samples", len(clip.Samples))
	if !s.submit(Job{SessionID: id, Clip: clip, Duration: sig.Duration}) {
		s.status.SetState(tray.StateIdle, "")
		return
	}
	s.status.SetState(tray.StateProcessing, "")
	s.notifier.Processing()
}

// abort останавливает незавершённую запись при выходе.
func (s *sessions) abort() {
	if s.current == "" {
		return
	}
	s.current = ""
	s.recorder.Stop()
}
