package rotate

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoKeys возвращается, когда не настроен ни один ключ API.
var ErrNoKeys = errors.New("rotate: no API keys configured")

// ProviderError - ошибка ответа провайдера с HTTP статусом.
type ProviderError struct {
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("provider status %d: %v", e.StatusCode, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ExhaustedError возвращается, когда все попытки упёрлись в лимиты.
type ExhaustedError struct {
	Attempts   int
	MaxRetries int
	Last       error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d/%d attempts rate limited: %v", e.Attempts, e.MaxRetries, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// IsRateLimited сообщает, что ошибка означает исчерпание квоты:
// HTTP 429 или слово "quota" в тексте ошибки.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) && pe.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "quota")
}
