package rotate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestCallRotatesOnRateLimit(t *testing.T) {
	u := newMemUsage()
	o := NewOrchestrator(u, WithModels([]string{"modelA", "modelB"}))

	var calls []Selection
	res, sel, err := Call(context.Background(), o, []string{"key0", "key1"}, "",
		func(ctx context.Context, s Selection) (string, error) {
			calls = append(calls, s)
			if len(calls) == 1 {
				return "", &ProviderError{StatusCode: http.StatusTooManyRequests, Err: errors.New("slow down")}
			}
			return "hello", nil
		})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res != "hello" {
		t.Errorf("result = %q", res)
	}
	if len(calls) != 2 {
		t.Fatalf("attempts = %d, want 2", len(calls))
	}
	if calls[0] != (Selection{0, "key0", "modelA"}) {
		t.Errorf("first attempt = %+v", calls[0])
	}
	if sel != (Selection{0, "key0", "modelB"}) {
		t.Errorf("second attempt = %+v", sel)
	}
	if got := u.counts[0]["modelA"]; got != DailyCap {
		t.Errorf("modelA count = %d, want %d", got, DailyCap)
	}
	if got := u.counts[0]["modelB"]; got != 1 {
		t.Errorf("modelB count = %d, want 1", got)
	}
}

func TestCallQuotaMessage(t *testing.T) {
	u := newMemUsage()
	o := NewOrchestrator(u)
	attempts := 0
	_, _, err := Call(context.Background(), o, []string{"k"}, "p",
		func(ctx context.Context, s Selection) (int, error) {
			attempts++
			if attempts == 1 {
				return 0, errors.New("Resource has been exhausted (e.g. check QUOTA).")
			}
			return 1, nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if u.counts[0]["p"] != DailyCap {
		t.Errorf("preferred not forced to cap: %v", u.counts)
	}
}

func TestCallNonRateLimitFailsFast(t *testing.T) {
	u := newMemUsage()
	o := NewOrchestrator(u)
	boom := &ProviderError{StatusCode: http.StatusBadRequest, Err: errors.New("bad audio")}

	attempts := 0
	_, _, err := Call(context.Background(), o, []string{"k0", "k1"}, "p",
		func(ctx context.Context, s Selection) (string, error) {
			attempts++
			return "", boom
		})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if len(u.counts) != 0 {
		t.Errorf("ledger mutated: %v", u.counts)
	}
}

func TestCallExhausted(t *testing.T) {
	u := newMemUsage()
	o := NewOrchestrator(u, WithMaxRetries(3))

	attempts := 0
	_, _, err := Call(context.Background(), o, []string{"k0"}, "",
		func(ctx context.Context, s Selection) (string, error) {
			attempts++
			return "", &ProviderError{StatusCode: http.StatusTooManyRequests, Err: fmt.Errorf("attempt %d", attempts)}
		})

	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("err = %T %v, want *ExhaustedError", err, err)
	}
	if ex.Attempts != 3 || ex.MaxRetries != 3 {
		t.Errorf("exhausted = %+v", ex)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d", attempts)
	}
	if !IsRateLimited(err) {
		t.Error("exhausted error should still read as rate limited")
	}
	for _, m := range DefaultModels {
		if u.counts[0][m] != DailyCap {
			t.Errorf("%s count = %d, want cap", m, u.counts[0][m])
		}
	}
}

func TestCallNoKeys(t *testing.T) {
	o := NewOrchestrator(newMemUsage())
	called := false
	_, _, err := Call(context.Background(), o, nil, "",
		func(ctx context.Context, s Selection) (string, error) {
			called = true
			return "", nil
		})
	if !errors.Is(err, ErrNoKeys) {
		t.Errorf("err = %v, want ErrNoKeys", err)
	}
	if called {
		t.Error("fn called without keys")
	}
}

func TestCallAttemptTimeout(t *testing.T) {
	u := newMemUsage()
	o := NewOrchestrator(u, WithAttemptTimeout(20*time.Millisecond))

	attempts := 0
	_, _, err := Call(context.Background(), o, []string{"k"}, "",
		func(ctx context.Context, s Selection) (string, error) {
			attempts++
			<-ctx.Done()
			return "", ctx.Err()
		})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if attempts != 1 {
		t.Errorf("timeout should not rotate, attempts = %d", attempts)
	}
}

func TestCallNoTimeoutByDefault(t *testing.T) {
	o := NewOrchestrator(newMemUsage())
	_, _, err := Call(context.Background(), o, []string{"k"}, "",
		func(ctx context.Context, s Selection) (string, error) {
			if _, ok := ctx.Deadline(); ok {
				return "", errors.New("unexpected deadline")
			}
			return "ok", nil
		})
	if err != nil {
		t.Fatal(err)
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("boom"), false},
		{errors.New("Quota exceeded for metric"), true},
		{&ProviderError{StatusCode: 429, Err: errors.New("x")}, true},
		{&ProviderError{StatusCode: 500, Err: errors.New("x")}, false},
		{fmt.Errorf("wrapped: %w", &ProviderError{StatusCode: 429, Err: errors.New("x")}), true},
	}
	for _, tt := range tests {
		if got := IsRateLimited(tt.err); got != tt.want {
			t.Errorf("IsRateLimited(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
