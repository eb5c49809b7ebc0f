// Package llm переписывает распознанный текст моделью генерации текста.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"keyscribe/internal/logger"
	"keyscribe/internal/provider"
	"keyscribe/internal/rotate"
)

// DefaultPrompt - инструкция по умолчанию для исправления текста.
const DefaultPrompt = "Исправь ошибки распознавания речи и расставь знаки препинания. " +
	"Верни ТОЛЬКО исправленный текст без пояснений."

// Client исправляет текст через chat completions.
type Client struct {
	opts provider.Options
}

// New создаёт клиента.
func New(opts provider.Options) *Client {
	return &Client{opts: opts}
}

// Rewrite исправляет text на паре sel. Пустой prompt заменяется DefaultPrompt.
func (c *Client) Rewrite(ctx context.Context, sel rotate.Selection, text, prompt string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}

	client := provider.NewClient(sel.Key, c.opts)
	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(sel.Model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(prompt),
			oai.UserMessage(text),
		},
		Temperature: param.NewOpt(0.1),
	}

	start := time.Now()
	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", provider.TranslateError("rewrite", err)
	}
	out, err := provider.FirstChoice(resp)
	if err != nil {
		return "", fmt.Errorf("rewrite: %w", err)
	}
	if out == "" {
		return text, nil
	}

	logger.Info("rewritten",
		"key_index", sel.KeyIndex,
		"model", sel.Model,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return out, nil
}
