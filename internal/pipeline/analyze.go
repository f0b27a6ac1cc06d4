package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/answerscope/internal/brand"
	"github.com/hyperifyio/answerscope/internal/cache"
	"github.com/hyperifyio/answerscope/internal/extract"
	"github.com/hyperifyio/answerscope/internal/normalize"
	"github.com/hyperifyio/answerscope/internal/serp"
)

const systemPrompt = "You are a precise GEO analyst. You respond with a single JSON object and never include prose outside it."

// sleepFunc allows tests to inject a deterministic sleep hook measured in
// milliseconds. When nil, defaultSleep is used.
var sleepFunc func(ms int)

func defaultSleep(ms int) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// analyze sends the evidence bundle to the model and normalizes the reply.
// Every failure mode degrades into a fallback-safe Analysis so the caller
// never sees an error from this stage.
func (p *Pipeline) analyze(ctx context.Context, overview serp.Context, cleaned extract.Cleaned, b brand.Context) normalize.Analysis {
	if p.Model == nil || p.ModelName == "" {
		return normalize.Default("Error: model client not configured")
	}

	prompt := BuildPrompt(b, overview, cleaned.CleanText)
	raw, err := p.completion(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("model request failed")
		return normalize.Default("API Error: model request failed")
	}
	return normalize.Payload(raw)
}

// completion issues the chat call with an optional prompt cache in front and
// one short-backoff retry behind.
func (p *Pipeline) completion(ctx context.Context, prompt string) (string, error) {
	key := cache.KeyFrom(p.ModelName, prompt)
	if p.Cache != nil {
		if b, ok, err := p.Cache.Get(ctx, key); err == nil && ok {
			log.Debug().Str("key", key).Msg("model response served from cache")
			return string(b), nil
		}
	}

	req := openai.ChatCompletionRequest{
		Model: p.ModelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.1,
		N:           1,
	}

	resp, err := p.Model.CreateChatCompletion(ctx, req)
	if err != nil {
		// Single retry after a short fixed sleep; the context deadline still
		// bounds the second attempt.
		if sleeper := sleepFunc; sleeper != nil {
			sleeper(100)
		} else {
			defaultSleep(100)
		}
		resp, err = p.Model.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("analysis call (after retry): %w", err)
		}
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("analysis call: empty choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("analysis call: empty content")
	}

	if p.Cache != nil {
		if err := p.Cache.Save(ctx, key, []byte(content)); err != nil {
			log.Warn().Err(err).Msg("failed to cache model response")
		}
	}
	return content, nil
}
