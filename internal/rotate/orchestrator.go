package rotate

import (
	"context"
	"time"

	"keyscribe/internal/logger"
)

// DefaultMaxRetries - число попыток по умолчанию.
const DefaultMaxRetries = 3

// UsageRecorder изменяет дневной учёт.
type UsageRecorder interface {
	UsageReader
	Increment(keyIndex int, model string)
	ForceCap(keyIndex int, model string, limit int)
}

// Orchestrator выполняет запрос с ротацией пар при отказах по квоте.
type Orchestrator struct {
	rotator        *Rotator
	usage          UsageRecorder
	maxRetries     int
	attemptTimeout time.Duration
}

// Option настраивает Orchestrator.
type Option func(*Orchestrator)

// WithMaxRetries задаёт число попыток (минимум 1).
func WithMaxRetries(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxRetries = n
		}
	}
}

// WithAttemptTimeout ограничивает одну попытку. Ноль - без ограничения.
func WithAttemptTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.attemptTimeout = d
	}
}

// WithModels задаёт модели по умолчанию для ротации.
func WithModels(models []string) Option {
	return func(o *Orchestrator) {
		if len(models) > 0 {
			o.rotator = o.rotator.WithModels(models)
		}
	}
}

// NewOrchestrator создаёт Orchestrator поверх учёта u.
func NewOrchestrator(u UsageRecorder, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		rotator:    NewRotator(u),
		usage:      u,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Rotator возвращает используемый Rotator.
func (o *Orchestrator) Rotator() *Rotator {
	return o.rotator
}

// MaxRetries возвращает число попыток.
func (o *Orchestrator) MaxRetries() int {
	return o.maxRetries
}

// Call выполняет fn на выбранной паре. Каждая попытка выбирает пару заново.
// Успех увеличивает счётчик пары; отказ по квоте помечает пару исчерпанной
// и переходит к следующей попытке; любая другая ошибка возвращается сразу.
func Call[T any](ctx context.Context, o *Orchestrator, keys []string, preferred string,
	fn func(ctx context.Context, sel Selection) (T, error)) (T, Selection, error) {
	var zero T
	var last error
	var sel Selection

	for attempt := 1; attempt <= o.maxRetries; attempt++ {
		var ok bool
		sel, ok = o.rotator.Select(keys, preferred)
		if !ok {
			return zero, Selection{}, ErrNoKeys
		}
		if err := ctx.Err(); err != nil {
			return zero, sel, err
		}

		res, err := runAttempt(ctx, o.attemptTimeout, sel, fn)
		if err == nil {
			o.usage.Increment(sel.KeyIndex, sel.Model)
			logger.Debug("provider call succeeded", "attempt", attempt, "key_index", sel.KeyIndex, "model", sel.Model)
			return res, sel, nil
		}

		if !IsRateLimited(err) {
			logger.Warn("provider call failed", "attempt", attempt, "key_index", sel.KeyIndex, "model", sel.Model, "error", err)
			return zero, sel, err
		}

		logger.Warn("provider rate limited, rotating",
			"attempt", attempt, "max", o.maxRetries, "key_index", sel.KeyIndex, "model", sel.Model, "error", err)
		o.usage.ForceCap(sel.KeyIndex, sel.Model, o.rotator.Cap())
		last = err
	}

	return zero, sel, &ExhaustedError{Attempts: o.maxRetries, MaxRetries: o.maxRetries, Last: last}
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, sel Selection,
	fn func(ctx context.Context, sel Selection) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx, sel)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx, sel)
}
