package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"blog-agent/internal/domain"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGenerator implements domain.GenerationClient with the chat completions API.
type OpenAIGenerator struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIGenerator builds a generator. The API key is required.
func NewOpenAIGenerator(apiKey, baseURL, model string, timeout time.Duration, logger *slog.Logger, extra ...option.RequestOption) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai api key", domain.ErrConfigMissing)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: openai model", domain.ErrConfigMissing)
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	opts = append(opts, extra...)
	return &OpenAIGenerator{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}, nil
}

// Generate sends one chat completion request.
func (g *OpenAIGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}

	var msgs []openai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		msgs = append(msgs, openai.SystemMessage(req.SystemPrompt))
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    msgs,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: empty choices")
	}
	choice := resp.Choices[0]

	g.logger.Info("openai_generation_completed",
		slog.String("model", resp.Model),
		slog.String("finish_reason", choice.FinishReason),
		slog.Int64("prompt_tokens", resp.Usage.PromptTokens),
		slog.Int64("completion_tokens", resp.Usage.CompletionTokens),
		slog.Duration("elapsed", time.Since(start)))

	return &domain.GenerationResponse{
		Text:       strings.TrimSpace(choice.Message.Content),
		StopReason: openAIStopReason(choice.FinishReason),
		Usage: domain.TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
		Model: resp.Model,
	}, nil
}

// Version returns the configured model name.
func (g *OpenAIGenerator) Version() string {
	return "openai:" + g.model
}

func openAIStopReason(finish string) domain.StopReason {
	switch finish {
	case "stop":
		return domain.StopReasonEndTurn
	case "length":
		return domain.StopReasonMaxTokens
	case "content_filter":
		return domain.StopReasonRefusal
	case "tool_calls", "function_call":
		return domain.StopReasonStopSequence
	default:
		return domain.StopReasonUnknown
	}
}

var _ domain.GenerationClient = (*OpenAIGenerator)(nil)
