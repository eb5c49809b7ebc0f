package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"keyscribe/internal/audio"
	"keyscribe/internal/config"
	"keyscribe/internal/history"
	"keyscribe/internal/rotate"
	"keyscribe/internal/tray"
)

type fakeSettings struct {
	keys    []string
	model   string
	rewrite config.RewriteConfig
}

func (s *fakeSettings) APIKeys() []string             { return s.keys }
func (s *fakeSettings) TranscribeModel() string       { return s.model }
func (s *fakeSettings) Rewrite() config.RewriteConfig { return s.rewrite }
func (s *fakeSettings) Language() string              { return "ru" }
func (s *fakeSettings) MaxRetries() int               { return rotate.DefaultMaxRetries }
func (s *fakeSettings) RequestTimeout() time.Duration { return 0 }

type fakeSpeech struct {
	mu    sync.Mutex
	calls []rotate.Selection
	fn    func(sel rotate.Selection) (string, error)
}

func (f *fakeSpeech) Transcribe(_ context.Context, sel rotate.Selection, wav []byte, _ string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, sel)
	f.mu.Unlock()
	if len(wav) == 0 {
		return "", errors.New("empty wav")
	}
	return f.fn(sel)
}

type fakeRewriter struct {
	calls []rotate.Selection
	fn    func(text string) (string, error)
}

func (f *fakeRewriter) Rewrite(_ context.Context, sel rotate.Selection, text, _ string) (string, error) {
	f.calls = append(f.calls, sel)
	return f.fn(text)
}

type fakeTyper struct {
	typed []string
	err   error
}

func (f *fakeTyper) Type(text string) error {
	if f.err != nil {
		return f.err
	}
	f.typed = append(f.typed, text)
	return nil
}

type fakeHistory struct {
	entries []history.Entry
}

func (f *fakeHistory) Add(_ context.Context, e history.Entry) (int64, error) {
	f.entries = append(f.entries, e)
	return int64(len(f.entries)), nil
}

// fakeNotifier записывает вызовы в виде "метод" или "метод:текст".
type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) add(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, s)
}

func (f *fakeNotifier) Recording()          { f.add("recording") }
func (f *fakeNotifier) Processing()         { f.add("processing") }
func (f *fakeNotifier) Success(text string) { f.add("success:" + text) }
func (f *fakeNotifier) Empty()              { f.add("empty") }
func (f *fakeNotifier) Error(msg string)    { f.add("error:" + msg) }
func (f *fakeNotifier) Info(msg string)     { f.add("info:" + msg) }

func (f *fakeNotifier) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return ""
	}
	return f.events[len(f.events)-1]
}

type fakeRecorder struct {
	recording bool
	startErr  error
	starts    int
	stops     int
}

func (r *fakeRecorder) Start() error {
	if r.startErr != nil {
		return r.startErr
	}
	r.starts++
	r.recording = true
	return nil
}

func (r *fakeRecorder) Stop() audio.Clip {
	r.stops++
	r.recording = false
	return testClip()
}

func (r *fakeRecorder) IsRecording() bool { return r.recording }

type stateChange struct {
	state  tray.State
	reason string
}

type fakeStatus struct {
	changes []stateChange
}

func (s *fakeStatus) SetState(state tray.State, reason string) {
	s.changes = append(s.changes, stateChange{state, reason})
}

func (s *fakeStatus) last() stateChange {
	if len(s.changes) == 0 {
		return stateChange{state: -1}
	}
	return s.changes[len(s.changes)-1]
}

func testClip() audio.Clip {
	return audio.Clip{
		Samples:    make([]float32, audio.SampleRate),
		SampleRate: audio.SampleRate,
		StartedAt:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}
