package domain

import "context"

// StopReason explains why text generation ended.
type StopReason string

const (
	StopReasonEndTurn      StopReason = "end_turn"
	StopReasonMaxTokens    StopReason = "max_tokens"
	StopReasonStopSequence StopReason = "stop_sequence"
	StopReasonRefusal      StopReason = "refusal"
	StopReasonUnknown      StopReason = "unknown"
)

// TokenUsage carries the token accounting reported by the provider.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// GenerationRequest is one synchronous completion call.
type GenerationRequest struct {
	Prompt       string
	SystemPrompt string
	Model        string
	MaxTokens    int
	Temperature  float64
}

// GenerationResponse carries the generated text and completion metadata.
type GenerationResponse struct {
	Text       string
	StopReason StopReason
	Usage      TokenUsage
	Model      string
}

// GenerationClient sends a prompt to an LLM and returns the completion.
type GenerationClient interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error)
	Version() string
}
