// Package speech распознаёт речь облачной моделью через OpenAI-совместимый API.
package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"keyscribe/internal/logger"
	"keyscribe/internal/provider"
	"keyscribe/internal/rotate"
)

// Client отправляет WAV в chat completions как input_audio.
type Client struct {
	opts provider.Options
}

// New создаёт клиента распознавания.
func New(opts provider.Options) *Client {
	return &Client{opts: opts}
}

// Prompt возвращает инструкцию для модели с учётом языка ("auto" - автоопределение).
func Prompt(lang string) string {
	p := "Transcribe this audio recording verbatim. Output only the transcript text, without any commentary."
	switch lang {
	case "", "auto":
		return p + " The speech may mix Russian and English; keep each word in the language it was spoken."
	default:
		return fmt.Sprintf("%s The language is %q.", p, lang)
	}
}

// Transcribe распознаёт запись на паре sel.
func (c *Client) Transcribe(ctx context.Context, sel rotate.Selection, wav []byte, lang string) (string, error) {
	client := provider.NewClient(sel.Key, c.opts)

	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(sel.Model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.UserMessage([]oai.ChatCompletionContentPartUnionParam{
				oai.TextContentPart(Prompt(lang)),
				oai.InputAudioContentPart(oai.ChatCompletionContentPartInputAudioInputAudioParam{
					Data:   base64.StdEncoding.EncodeToString(wav),
					Format: "wav",
				}),
			}),
		},
	}

	start := time.Now()
	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", provider.TranslateError("transcribe", err)
	}
	text, err := provider.FirstChoice(resp)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	logger.Info("transcribed",
		"key_index", sel.KeyIndex,
		"model", sel.Model,
		"bytes", len(wav),
		"chars", len([]rune(text)),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return text, nil
}
