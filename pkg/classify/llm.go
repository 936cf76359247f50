package classify

import (
	"context"
	"encoding/json"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const systemPrompt = `You route a short healthcare request to exactly one provider category: dental, primary_care, urgent_care, optometrist, mental_health. Respond with a valid JSON object: {"provider_type": "<category>"}`

// llmClassifier classifies via the Anthropic Messages API, with a keyword
// pre-pass so obvious requests skip the network call.
type llmClassifier struct {
	client sdk.Client
	model  string
}

// LLMOption configures the LLM classifier.
type LLMOption func(*llmClassifier)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) LLMOption {
	return func(c *llmClassifier) {
		c.client = sdk.NewClient(
			append(c.client.Options, option.WithBaseURL(url))...,
		)
	}
}

// NewLLMClassifier creates a classifier backed by the Anthropic API.
func NewLLMClassifier(apiKey, model string, opts ...LLMOption) Classifier {
	c := &llmClassifier{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *llmClassifier) Classify(ctx context.Context, text string) (Category, error) {
	if category, ok := matchKeywords(text); ok {
		return category, nil
	}

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: 64,
		System: []sdk.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(text)),
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "classify: create message")
	}

	return parseResponse(msg), nil
}

// parseResponse extracts the category label, applying the documented
// fallback when the response is absent or outside the closed set.
func parseResponse(msg *sdk.Message) Category {
	var raw string
	for _, block := range msg.Content {
		if block.Type == "text" {
			raw = block.Text
			break
		}
	}
	if raw == "" {
		zap.L().Warn("classify: empty response, using fallback",
			zap.String("fallback", string(FallbackCategory)))
		return FallbackCategory
	}

	var parsed struct {
		ProviderType string `json:"provider_type"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		zap.L().Warn("classify: unparseable response, using fallback",
			zap.String("response", raw))
		return FallbackCategory
	}

	if category, ok := ValidCategory(parsed.ProviderType); ok {
		return category
	}
	zap.L().Warn("classify: label outside closed set, using fallback",
		zap.String("label", parsed.ProviderType))
	return FallbackCategory
}

// extractJSON pulls the first JSON object out of a response that may wrap it
// in prose or a code fence.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
