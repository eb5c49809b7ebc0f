package app

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"keyscribe/internal/config"
	"keyscribe/internal/i18n"
	"keyscribe/internal/input"
	"keyscribe/internal/rotate"
	"keyscribe/internal/usage"
)

type pipelineFixture struct {
	p        *Pipeline
	settings *fakeSettings
	speech   *fakeSpeech
	rewriter *fakeRewriter
	typer    *fakeTyper
	history  *fakeHistory
	notifier *fakeNotifier
	ledger   *usage.Ledger
}

func newPipelineFixture(t *testing.T, keys ...string) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{
		settings: &fakeSettings{keys: keys, model: "m1"},
		speech:   &fakeSpeech{fn: func(rotate.Selection) (string, error) { return "привет", nil }},
		rewriter: &fakeRewriter{fn: func(text string) (string, error) { return strings.ToUpper(text), nil }},
		typer:    &fakeTyper{},
		history:  &fakeHistory{},
		notifier: &fakeNotifier{},
		ledger:   usage.NewLedger(filepath.Join(t.TempDir(), "usage.json")),
	}
	f.p = &Pipeline{
		usage:    f.ledger,
		settings: f.settings,
		speech:   f.speech,
		rewriter: f.rewriter,
		typer:    func() input.Typer { return f.typer },
		history:  f.history,
		notifier: f.notifier,
	}
	return f
}

func (f *pipelineFixture) run(t *testing.T) Result {
	t.Helper()
	return f.p.Process(context.Background(), Job{SessionID: "s1", Clip: testClip(), Duration: time.Second})
}

func rateLimited() error {
	return &rotate.ProviderError{StatusCode: http.StatusTooManyRequests, Err: errors.New("resource exhausted")}
}

func TestProcessTypesTranscript(t *testing.T) {
	f := newPipelineFixture(t, "k1")
	f.speech.fn = func(rotate.Selection) (string, error) { return "  привет мир \n", nil }

	res := f.run(t)
	if res.Err != nil {
		t.Fatalf("Process error: %v", res.Err)
	}
	if len(f.typer.typed) != 1 || f.typer.typed[0] != "привет мир" {
		t.Fatalf("typed = %q", f.typer.typed)
	}
	if got := f.ledger.Read().Count(0, "m1"); got != 1 {
		t.Errorf("ledger count = %d, want 1", got)
	}
	if len(f.history.entries) != 1 {
		t.Fatalf("history entries = %d", len(f.history.entries))
	}
	e := f.history.entries[0]
	if e.SessionID != "s1" || e.Model != "m1" || e.Text != "привет мир" || e.Failed() {
		t.Errorf("history entry = %+v", e)
	}
	if e.Duration != time.Second || !e.StartedAt.Equal(testClip().StartedAt) {
		t.Errorf("history timing = %v at %v", e.Duration, e.StartedAt)
	}
	if got := f.notifier.last(); got != "success:привет мир" {
		t.Errorf("notifier = %q", got)
	}
}

func TestProcessRotatesOnRateLimit(t *testing.T) {
	f := newPipelineFixture(t, "k1", "k2")
	f.speech.fn = func(sel rotate.Selection) (string, error) {
		if sel.Model == "m1" {
			return "", rateLimited()
		}
		return "ok", nil
	}

	res := f.run(t)
	if res.Err != nil {
		t.Fatalf("Process error: %v", res.Err)
	}
	if len(f.speech.calls) != 2 {
		t.Fatalf("calls = %v", f.speech.calls)
	}
	want := rotate.Selection{KeyIndex: 0, Key: "k1", Model: rotate.DefaultModels[0]}
	if res.Selection != want {
		t.Errorf("selection = %+v, want %+v", res.Selection, want)
	}
	d := f.ledger.Read()
	if d.Count(0, "m1") != rotate.DailyCap {
		t.Errorf("rate limited pair = %d, want cap", d.Count(0, "m1"))
	}
	if d.Count(0, rotate.DefaultModels[0]) != 1 {
		t.Errorf("successful pair = %d, want 1", d.Count(0, rotate.DefaultModels[0]))
	}
	if f.typer.typed[0] != "ok" {
		t.Errorf("typed = %q", f.typer.typed)
	}
}

func TestProcessExhaustedInsertsMessage(t *testing.T) {
	f := newPipelineFixture(t, "k1")
	f.speech.fn = func(rotate.Selection) (string, error) { return "", rateLimited() }

	res := f.run(t)
	var exhausted *rotate.ExhaustedError
	if !errors.As(res.Err, &exhausted) {
		t.Fatalf("err = %v, want ExhaustedError", res.Err)
	}
	want := "[" + i18n.T("error_rate_limited") + "]"
	if len(f.typer.typed) != 1 || f.typer.typed[0] != want {
		t.Fatalf("typed = %q, want %q", f.typer.typed, want)
	}
	if !f.history.entries[0].Failed() {
		t.Error("history entry not marked failed")
	}
	if got := f.notifier.last(); got != "error:"+want {
		t.Errorf("notifier = %q", got)
	}
}

func TestProcessProviderErrorFailsFast(t *testing.T) {
	f := newPipelineFixture(t, "k1", "k2")
	f.speech.fn = func(rotate.Selection) (string, error) {
		return "", &rotate.ProviderError{StatusCode: http.StatusBadRequest, Err: errors.New("bad audio")}
	}

	f.run(t)
	if len(f.speech.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(f.speech.calls))
	}
	if got := f.typer.typed[0]; !strings.HasPrefix(got, "["+i18n.T("error_provider")+": ") {
		t.Errorf("typed = %q", got)
	}
	if got := len(f.ledger.Read().Keys); got != 0 {
		t.Errorf("ledger changed: %d keys", got)
	}
}

func TestProcessNoKeys(t *testing.T) {
	f := newPipelineFixture(t)

	res := f.run(t)
	if !errors.Is(res.Err, rotate.ErrNoKeys) {
		t.Fatalf("err = %v", res.Err)
	}
	if len(f.speech.calls) != 0 {
		t.Errorf("speech called %d times", len(f.speech.calls))
	}
	if want := "[" + i18n.T("error_no_keys") + "]"; f.typer.typed[0] != want {
		t.Errorf("typed = %q, want %q", f.typer.typed[0], want)
	}
}

func TestProcessRewrite(t *testing.T) {
	f := newPipelineFixture(t, "k1")
	f.settings.rewrite = config.RewriteConfig{Enabled: true}

	res := f.run(t)
	if res.Text != "ПРИВЕТ" || f.typer.typed[0] != "ПРИВЕТ" {
		t.Fatalf("text = %q, typed = %q", res.Text, f.typer.typed)
	}
	if len(f.rewriter.calls) != 1 || f.rewriter.calls[0].Model != config.DefaultRewriteModel {
		t.Errorf("rewrite calls = %+v", f.rewriter.calls)
	}
	if f.history.entries[0].RewriteModel != config.DefaultRewriteModel {
		t.Errorf("rewrite model = %q", f.history.entries[0].RewriteModel)
	}
	d := f.ledger.Read()
	if d.Count(0, "m1") != 1 || d.Count(0, config.DefaultRewriteModel) != 1 {
		t.Errorf("ledger = %+v", d.Keys)
	}
}

func TestProcessRewriteFailureKeepsTranscript(t *testing.T) {
	f := newPipelineFixture(t, "k1")
	f.settings.rewrite = config.RewriteConfig{Enabled: true, Model: "fixer"}
	f.rewriter.fn = func(string) (string, error) { return "", errors.New("boom") }

	res := f.run(t)
	if res.Err != nil {
		t.Fatalf("err = %v", res.Err)
	}
	if f.typer.typed[0] != "привет" {
		t.Errorf("typed = %q", f.typer.typed)
	}
	if res.RewriteModel != "" {
		t.Errorf("rewrite model = %q, want empty", res.RewriteModel)
	}
}

func TestProcessEmptyTranscript(t *testing.T) {
	f := newPipelineFixture(t, "k1")
	f.settings.rewrite = config.RewriteConfig{Enabled: true}
	f.speech.fn = func(rotate.Selection) (string, error) { return "   ", nil }

	f.run(t)
	if len(f.typer.typed) != 0 {
		t.Errorf("typed = %q", f.typer.typed)
	}
	if len(f.rewriter.calls) != 0 {
		t.Error("rewrite called for empty transcript")
	}
	if f.notifier.last() != "empty" {
		t.Errorf("notifier = %q", f.notifier.last())
	}
	if len(f.history.entries) != 1 {
		t.Errorf("history entries = %d", len(f.history.entries))
	}
}

func TestProcessTyperError(t *testing.T) {
	f := newPipelineFixture(t, "k1")
	f.typer.err = errors.New("no display")

	f.run(t)
	if got := f.notifier.last(); !strings.HasPrefix(got, "error:"+i18n.T("error_input")) {
		t.Errorf("notifier = %q", got)
	}
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no keys", rotate.ErrNoKeys, "[" + i18n.T("error_no_keys") + "]"},
		{"exhausted", &rotate.ExhaustedError{Attempts: 3, MaxRetries: 3, Last: rateLimited()}, "[" + i18n.T("error_rate_limited") + "]"},
		{"provider", &rotate.ProviderError{StatusCode: 500, Err: errors.New("down")},
			"[" + i18n.T("error_provider") + ": provider status 500: down]"},
		{"other", errors.New("timeout"), "[" + i18n.T("error_recognition") + ": timeout]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorText(tt.err); got != tt.want {
				t.Errorf("ErrorText() = %q, want %q", got, tt.want)
			}
		})
	}
}
