// Package provider создаёт клиентов OpenAI-совместимого API и переводит
// их ошибки в ошибки ротации.
package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"keyscribe/internal/rotate"
)

// DefaultBaseURL - OpenAI-совместимый endpoint Gemini.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// Options - общие настройки клиентов.
type Options struct {
	BaseURL string
	// Timeout HTTP-клиента; ноль - без ограничения.
	Timeout time.Duration
}

// NewClient создаёт клиента для одного ключа.
// Повторы SDK отключены: отказ по квоте обрабатывает ротация.
func NewClient(apiKey string, o Options) oai.Client {
	base := o.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(base),
		option.WithMaxRetries(0),
	}
	if hc := HTTPClient(o); hc != nil {
		opts = append(opts, option.WithHTTPClient(hc))
	}
	return oai.NewClient(opts...)
}

// HTTPClient возвращает HTTP-клиента с лимитом o.Timeout.
// Без лимита возвращает nil: SDK использует клиента по умолчанию без таймаута.
func HTTPClient(o Options) *http.Client {
	if o.Timeout <= 0 {
		return nil
	}
	return &http.Client{Timeout: o.Timeout}
}

// TranslateError оборачивает ошибку SDK в rotate.ProviderError с HTTP статусом.
func TranslateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		return &rotate.ProviderError{StatusCode: apiErr.StatusCode, Err: fmt.Errorf("%s: %w", op, err)}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// FirstChoice возвращает текст первого варианта ответа.
func FirstChoice(resp *oai.ChatCompletion) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("empty choices in response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
