package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"blog-agent/internal/domain"
)

const keepAlive = "10m"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string                 `json:"model"`
	Messages  []chatMessage          `json:"messages"`
	Stream    bool                   `json:"stream"`
	KeepAlive string                 `json:"keep_alive,omitempty"`
	Options   map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done            bool   `json:"done"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int64  `json:"prompt_eval_count"`
	EvalCount       int64  `json:"eval_count"`
}

// OllamaGenerator sends prompts to Ollama's chat endpoint.
type OllamaGenerator struct {
	BaseURL string
	Model   string
	Client  *http.Client
	logger  *slog.Logger
}

// NewOllamaGenerator constructs a generator for the given endpoint and model.
// A nil client gets a dedicated one with the given timeout.
func NewOllamaGenerator(baseURL, model string, client *http.Client, timeout time.Duration, logger *slog.Logger) *OllamaGenerator {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &OllamaGenerator{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  client,
		logger:  logger,
	}
}

// Generate sends the prompt to Ollama and waits for the full reply.
func (g *OllamaGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error) {
	model := req.Model
	if model == "" {
		model = g.Model
	}

	var msgs []chatMessage
	if req.SystemPrompt != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: req.Prompt})

	reqBody := chatRequest{
		Model:     model,
		Messages:  msgs,
		Stream:    false,
		KeepAlive: keepAlive,
		Options: map[string]interface{}{
			"temperature": req.Temperature,
		},
	}
	if req.MaxTokens > 0 {
		reqBody.Options["num_predict"] = req.MaxTokens
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", g.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call generation endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("generation endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}

	g.logger.Info("ollama_generation_completed",
		slog.String("model", model),
		slog.String("done_reason", chatResp.DoneReason),
		slog.Int64("prompt_eval_count", chatResp.PromptEvalCount),
		slog.Int64("eval_count", chatResp.EvalCount),
		slog.Duration("elapsed", time.Since(start)))

	respModel := chatResp.Model
	if respModel == "" {
		respModel = model
	}
	return &domain.GenerationResponse{
		Text:       strings.TrimSpace(chatResp.Message.Content),
		StopReason: ollamaStopReason(chatResp.Done, chatResp.DoneReason),
		Usage: domain.TokenUsage{
			InputTokens:  chatResp.PromptEvalCount,
			OutputTokens: chatResp.EvalCount,
		},
		Model: respModel,
	}, nil
}

// Version returns the wrapped model name.
func (g *OllamaGenerator) Version() string {
	return "ollama:" + g.Model
}

func ollamaStopReason(done bool, reason string) domain.StopReason {
	switch reason {
	case "stop":
		return domain.StopReasonEndTurn
	case "length":
		return domain.StopReasonMaxTokens
	case "":
		if done {
			return domain.StopReasonEndTurn
		}
	}
	return domain.StopReasonUnknown
}

var _ domain.GenerationClient = (*OllamaGenerator)(nil)
