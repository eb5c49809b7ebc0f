package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"keyscribe/internal/audio"
	"keyscribe/internal/config"
	"keyscribe/internal/history"
	"keyscribe/internal/i18n"
	"keyscribe/internal/input"
	"keyscribe/internal/logger"
	"keyscribe/internal/rotate"
)

// Transcriber распознаёт WAV на выбранной паре ключ/модель.
type Transcriber interface {
	Transcribe(ctx context.Context, sel rotate.Selection, wav []byte, lang string) (string, error)
}

// Rewriter исправляет распознанный текст.
type Rewriter interface {
	Rewrite(ctx context.Context, sel rotate.Selection, text, prompt string) (string, error)
}

// HistoryWriter сохраняет результат сессии.
type HistoryWriter interface {
	Add(ctx context.Context, e history.Entry) (int64, error)
}

// Settings - настройки, которые читаются на каждую сессию.
type Settings interface {
	APIKeys() []string
	TranscribeModel() string
	Rewrite() config.RewriteConfig
	Language() string
	MaxRetries() int
	RequestTimeout() time.Duration
}

// Notifier сообщает пользователю о результате.
type Notifier interface {
	Success(text string)
	Empty()
	Error(msg string)
}

// Job - запись, ожидающая обработки.
type Job struct {
	SessionID string
	Clip      audio.Clip
	Duration  time.Duration
}

// Result - итог обработки одной записи.
type Result struct {
	Text         string
	Selection    rotate.Selection
	RewriteModel string
	Err          error
}

// Pipeline превращает запись в текст и вставляет его в активное окно.
type Pipeline struct {
	usage    rotate.UsageRecorder
	settings Settings
	speech   Transcriber
	rewriter Rewriter
	typer    func() input.Typer
	history  HistoryWriter
	notifier Notifier
}

// Process обрабатывает одну запись. Ошибка распознавания вставляется
// текстом вместо результата.
func (p *Pipeline) Process(ctx context.Context, job Job) Result {
	res := p.recognize(ctx, job)

	out := res.Text
	if res.Err != nil {
		out = ErrorText(res.Err)
		p.notifier.Error(out)
	}

	if out != "" {
		if err := p.typer().Type(out); err != nil {
			logger.Error("text input failed", "session", job.SessionID, "error", err)
			p.notifier.Error(i18n.T("error_input") + ": " + err.Error())
		} else if res.Err == nil {
			p.notifier.Success(out)
		}
	} else {
		p.notifier.Empty()
	}

	p.record(ctx, job, res)
	return res
}

func (p *Pipeline) orchestrator() *rotate.Orchestrator {
	return rotate.NewOrchestrator(p.usage,
		rotate.WithMaxRetries(p.settings.MaxRetries()),
		rotate.WithAttemptTimeout(p.settings.RequestTimeout()))
}

func (p *Pipeline) recognize(ctx context.Context, job Job) Result {
	keys := p.settings.APIKeys()
	if len(keys) == 0 {
		return Result{Err: rotate.ErrNoKeys}
	}

	orch := p.orchestrator()
	wav := job.Clip.WAV()
	lang := p.settings.Language()

	text, sel, err := rotate.Call(ctx, orch, keys, p.settings.TranscribeModel(),
		func(ctx context.Context, sel rotate.Selection) (string, error) {
			return p.speech.Transcribe(ctx, sel, wav, lang)
		})
	if err != nil {
		return Result{Selection: sel, Err: err}
	}
	text = strings.TrimSpace(text)
	logger.Info("transcribed", "session", job.SessionID, "key_index", sel.KeyIndex,
		"model", sel.Model, "chars", len([]rune(text)))

	res := Result{Text: text, Selection: sel}
	rw := p.settings.Rewrite()
	if !rw.Enabled || text == "" || p.rewriter == nil {
		return res
	}

	model := rw.Model
	if model == "" {
		model = config.DefaultRewriteModel
	}
	fixed, rsel, err := rotate.Call(ctx, orch, keys, model,
		func(ctx context.Context, sel rotate.Selection) (string, error) {
			return p.rewriter.Rewrite(ctx, sel, text, rw.Prompt)
		})
	if err != nil {
		// Распознанный текст не теряем.
		logger.Warn("rewrite failed, using transcript", "session", job.SessionID, "error", err)
		return res
	}
	res.Text = strings.TrimSpace(fixed)
	res.RewriteModel = rsel.Model
	return res
}

func (p *Pipeline) record(ctx context.Context, job Job, res Result) {
	if p.history == nil {
		return
	}
	e := history.Entry{
		SessionID:    job.SessionID,
		StartedAt:    job.Clip.StartedAt,
		Duration:     job.Duration,
		KeyIndex:     res.Selection.KeyIndex,
		Model:        res.Selection.Model,
		RewriteModel: res.RewriteModel,
		Text:         res.Text,
	}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	if _, err := p.history.Add(ctx, e); err != nil {
		logger.Warn("history write failed", "session", job.SessionID, "error", err)
	}
}

// ErrorText формирует сообщение, которое вставляется вместо текста.
func ErrorText(err error) string {
	var exhausted *rotate.ExhaustedError
	var perr *rotate.ProviderError
	switch {
	case errors.Is(err, rotate.ErrNoKeys):
		return "[" + i18n.T("error_no_keys") + "]"
	case errors.As(err, &exhausted):
		return "[" + i18n.T("error_rate_limited") + "]"
	case errors.As(err, &perr):
		return "[" + i18n.T("error_provider") + ": " + perr.Error() + "]"
	default:
		return "[" + i18n.T("error_recognition") + ": " + err.Error() + "]"
	}
}
