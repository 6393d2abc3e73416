package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/luminareads/lingopress"
)

// OpenAI translates segments through a chat-completion model. Responses are
// requested as a JSON object so batch order survives the round trip.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	runner      *runner
}

// OpenAIConfig holds configuration for the OpenAI backend.
type OpenAIConfig struct {
	APIKey      string  // API key
	Model       string  // model to use (default: "gpt-4o-mini")
	Temperature float32 // generation temperature (default: 0.3)
	BaseURL     string  // custom base URL for compatible services (optional)
	Policy      *Policy // batching/pacing/retry policy (default: DefaultPolicy)
}

// NewOpenAI creates an OpenAI backend.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	policy := DefaultPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}

	return &OpenAI{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
		runner:      newRunner(policy),
	}
}

// Name returns "openai".
func (o *OpenAI) Name() string {
	return "openai"
}

// Translate translates segments in batches.
func (o *OpenAI) Translate(ctx context.Context, req lingopress.TranslateRequest) ([]string, error) {
	systemPrompt := o.buildSystemPrompt(req)

	return o.runner.run(ctx, req, func(ctx context.Context, batch []string) ([]string, error) {
		userMessage, _ := json.Marshal(batch)

		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: string(userMessage)},
			},
			Temperature: o.temperature,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		if err != nil {
			return nil, &lingopress.BackendError{
				Backend:     o.Name(),
				Message:     "chat completion failed",
				Cause:       err,
				Retryable:   isRetryableError(err),
				RateLimited: isRateLimitError(err),
			}
		}

		if len(resp.Choices) == 0 {
			return nil, &lingopress.BackendError{
				Backend:   o.Name(),
				Message:   "empty completion response",
				Retryable: true,
			}
		}

		return o.parseResponse(resp.Choices[0].Message.Content, len(batch))
	})
}

func (o *OpenAI) buildSystemPrompt(req lingopress.TranslateRequest) string {
	targetName := lingopress.GetLanguageName(req.TargetLang)

	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert native translator. Translate the provided texts into idiomatic %s.`, targetName)
	if req.SourceLang != "" {
		fmt.Fprintf(&b, "\nThe source language is %s.", lingopress.GetLanguageName(req.SourceLang))
	}

	b.WriteString(`

Rules:
- Preserve placeholder tokens of the form {TAG_0}, {URL_1}, {EMAIL_2}, {NUM_3} EXACTLY as they appear. Never translate, reorder digits in, drop or invent them; reposition them only as the target grammar requires.
- Avoid literal translations; rephrase so the result reads naturally to a native speaker.
- Preserve the meaning and register of the source.`)

	if req.SystemHint != "" {
		b.WriteString("\n\n")
		b.WriteString(req.SystemHint)
	}

	b.WriteString(`

Return a valid JSON object with a single key "translations" containing an array of strings in the exact same order as the input.
Example: { "translations": ["translated string 1", "translated string 2"] }
Do NOT wrap the output in Markdown code blocks.`)

	return b.String()
}

// parseResponse accepts the requested object form plus the common deviations
// (any object with a lone array value, or a bare array).
func (o *OpenAI) parseResponse(content string, expectedCount int) ([]string, error) {
	var objResult map[string]interface{}
	if err := json.Unmarshal([]byte(content), &objResult); err == nil {
		if translations, ok := objResult["translations"]; ok {
			if arr, ok := translations.([]interface{}); ok {
				return toStringSlice(arr, expectedCount)
			}
		}
		for _, v := range objResult {
			if arr, ok := v.([]interface{}); ok {
				return toStringSlice(arr, expectedCount)
			}
		}
	}

	var arrResult []interface{}
	if err := json.Unmarshal([]byte(content), &arrResult); err == nil {
		return toStringSlice(arrResult, expectedCount)
	}

	return nil, &lingopress.BackendError{
		Backend:   o.Name(),
		Message:   "invalid response format",
		Retryable: false,
	}
}

func toStringSlice(arr []interface{}, expectedCount int) ([]string, error) {
	result := make([]string, len(arr))
	for i, v := range arr {
		if s, ok := v.(string); ok {
			result[i] = s
		} else {
			result[i] = fmt.Sprintf("%v", v)
		}
	}

	if len(result) != expectedCount {
		return nil, &lingopress.CountMismatchError{
			Expected: expectedCount,
			Got:      len(result),
		}
	}

	return result, nil
}

func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"connection reset",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

func isRateLimitError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "429")
}

// Verify OpenAI implements Backend
var _ lingopress.Backend = (*OpenAI)(nil)
