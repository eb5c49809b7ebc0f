package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"keyscribe/internal/hotkey"
	"keyscribe/internal/i18n"
	"keyscribe/internal/tray"
)

type sessionFixture struct {
	s        *sessions
	recorder *fakeRecorder
	status   *fakeStatus
	notifier *fakeNotifier
	keys     []string
	jobs     []Job
	accept   bool
}

func newSessionFixture() *sessionFixture {
	f := &sessionFixture{
		recorder: &fakeRecorder{},
		status:   &fakeStatus{},
		notifier: &fakeNotifier{},
		keys:     []string{"k1"},
		accept:   true,
	}
	f.s = newSessions(f.recorder, f.status, f.notifier,
		func() []string { return f.keys },
		func(j Job) bool {
			if !f.accept {
				return false
			}
			f.jobs = append(f.jobs, j)
			return true
		})
	f.s.newID = func() string { return "id-1" }
	return f
}

var chord = hotkey.ParseSpec("Ctrl+Space")

func TestSessionSubmitsClip(t *testing.T) {
	f := newSessionFixture()

	f.s.handle(hotkey.SessionStart{Keys: chord, Time: time.Now()})
	if !f.recorder.recording || f.status.last().state != tray.StateRecording {
		t.Fatalf("recording = %v, state = %+v", f.recorder.recording, f.status.last())
	}

	f.s.handle(hotkey.SessionStop{Keys: chord, Duration: 2 * time.Second})
	if len(f.jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(f.jobs))
	}
	if j := f.jobs[0]; j.SessionID != "id-1" || j.Duration != 2*time.Second || len(j.Clip.Samples) == 0 {
		t.Errorf("job = %+v", j)
	}
	if f.status.last().state != tray.StateProcessing {
		t.Errorf("state = %+v", f.status.last())
	}
	if f.notifier.last() != "processing" {
		t.Errorf("notifier = %q", f.notifier.last())
	}
}

func TestSessionDiscardsShortClip(t *testing.T) {
	f := newSessionFixture()

	f.s.handle(hotkey.SessionStart{Keys: chord})
	f.s.handle(hotkey.SessionStop{Keys: chord, Duration: MinRecordingDuration - time.Millisecond})

	if len(f.jobs) != 0 {
		t.Fatalf("jobs = %d, want 0", len(f.jobs))
	}
	if f.recorder.stops != 1 || f.recorder.recording {
		t.Errorf("recorder stops = %d, recording = %v", f.recorder.stops, f.recorder.recording)
	}
	if f.status.last().state != tray.StateIdle {
		t.Errorf("state = %+v", f.status.last())
	}
	if f.notifier.last() != "info:"+i18n.T("notify_too_short") {
		t.Errorf("notifier = %q", f.notifier.last())
	}
}

func TestSessionWithoutKeysIsDisabled(t *testing.T) {
	f := newSessionFixture()
	f.keys = nil

	f.s.handle(hotkey.SessionStart{Keys: chord})
	f.s.handle(hotkey.SessionStop{Keys: chord, Duration: time.Second})

	if f.recorder.starts != 0 || len(f.jobs) != 0 {
		t.Errorf("starts = %d, jobs = %d", f.recorder.starts, len(f.jobs))
	}
	if got := f.status.last(); got.state != tray.StateDisabled || got.reason != "tray_no_keys" {
		t.Errorf("state = %+v", got)
	}
}

func TestSessionStopWithoutStart(t *testing.T) {
	f := newSessionFixture()

	f.s.handle(hotkey.SessionStop{Keys: chord, Duration: time.Second})
	if f.recorder.stops != 0 || len(f.jobs) != 0 || len(f.status.changes) != 0 {
		t.Errorf("unexpected activity: stops=%d jobs=%d states=%v", f.recorder.stops, len(f.jobs), f.status.changes)
	}
}

func TestSessionRecorderStartError(t *testing.T) {
	f := newSessionFixture()
	f.recorder.startErr = errors.New("no device")

	f.s.handle(hotkey.SessionStart{Keys: chord})
	f.s.handle(hotkey.SessionStop{Keys: chord, Duration: time.Second})

	if len(f.jobs) != 0 || f.recorder.stops != 0 {
		t.Errorf("jobs = %d, stops = %d", len(f.jobs), f.recorder.stops)
	}
	if got := f.notifier.last(); got != "error:"+i18n.T("error_recording")+": no device" {
		t.Errorf("notifier = %q", got)
	}
}

func TestSessionQueueFull(t *testing.T) {
	f := newSessionFixture()
	f.accept = false

	f.s.handle(hotkey.SessionStart{Keys: chord})
	f.s.handle(hotkey.SessionStop{Keys: chord, Duration: time.Second})

	if f.status.last().state != tray.StateIdle {
		t.Errorf("state = %+v", f.status.last())
	}
}

func TestSessionRunAbortsOnClose(t *testing.T) {
	f := newSessionFixture()
	signals := make(chan hotkey.Signal, 1)
	signals <- hotkey.SessionStart{Keys: chord}
	close(signals)

	if err := f.s.Run(context.Background(), signals); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.recorder.recording || f.recorder.stops != 1 {
		t.Errorf("recording = %v, stops = %d", f.recorder.recording, f.recorder.stops)
	}
	if len(f.jobs) != 0 {
		t.Errorf("aborted session submitted %d jobs", len(f.jobs))
	}
}

func TestQueueKeepsOrder(t *testing.T) {
	q := newQueue(4)
	for _, id := range []string{"a", "b", "c"} {
		if !q.Submit(Job{SessionID: id}) {
			t.Fatalf("Submit(%s) rejected", id)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	var got []string
	err := q.Run(ctx, func(_ context.Context, j Job) {
		got = append(got, j.SessionID)
		if len(got) == 3 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("order = %v", got)
	}
}

func TestQueueSubmitDoesNotBlock(t *testing.T) {
	q := newQueue(1)
	if !q.Submit(Job{SessionID: "a"}) {
		t.Fatal("first Submit rejected")
	}
	if q.Submit(Job{SessionID: "b"}) {
		t.Fatal("Submit on full queue accepted")
	}
	if q.Pending() != 1 {
		t.Errorf("Pending = %d", q.Pending())
	}
}
