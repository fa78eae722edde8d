package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"blog-agent/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "blog-agent/usecase"

// ContextGatherer collects the reference context for one request.
type ContextGatherer interface {
	Gather(ctx context.Context, req domain.ContentRequest) (*PromptContext, error)
}

// GenerationOptions are the model parameters sent with every request.
type GenerationOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// PromptPreview is a rendered prompt together with the context it was built from.
type PromptPreview struct {
	SystemPrompt string         `json:"system_prompt"`
	Prompt       string         `json:"prompt"`
	Context      *PromptContext `json:"-"`
}

// GeneratePostUsecase runs the full blog generation pipeline.
type GeneratePostUsecase interface {
	Execute(ctx context.Context, req domain.ContentRequest) (*domain.GeneratedContent, error)
	Preview(ctx context.Context, req domain.ContentRequest) (*PromptPreview, error)
}

type generatePostUsecase struct {
	gatherer      ContextGatherer
	promptBuilder PromptBuilder
	client        domain.GenerationClient
	parser        *ResponseParser
	opts          GenerationOptions
	logger        *slog.Logger
}

// NewGeneratePostUsecase wires the pipeline stages.
func NewGeneratePostUsecase(
	gatherer ContextGatherer,
	promptBuilder PromptBuilder,
	client domain.GenerationClient,
	parser *ResponseParser,
	opts GenerationOptions,
	logger *slog.Logger,
) GeneratePostUsecase {
	return &generatePostUsecase{
		gatherer:      gatherer,
		promptBuilder: promptBuilder,
		client:        client,
		parser:        parser,
		opts:          opts,
		logger:        logger,
	}
}

// Preview gathers context and renders the prompt without calling the generator.
func (u *generatePostUsecase) Preview(ctx context.Context, req domain.ContentRequest) (*PromptPreview, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}
	pc, err := u.gather(ctx, req)
	if err != nil {
		return nil, err
	}
	prompt, err := u.buildPrompt(ctx, req, pc)
	if err != nil {
		return nil, err
	}
	return &PromptPreview{SystemPrompt: u.promptBuilder.SystemPrompt(), Prompt: prompt, Context: pc}, nil
}

// Execute gathers context, builds the prompt, calls the generator and parses the result.
// A truncated generation is returned with CompletionStatus.IsComplete set to false.
func (u *generatePostUsecase) Execute(ctx context.Context, req domain.ContentRequest) (*domain.GeneratedContent, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}
	generationID := uuid.NewString()
	start := time.Now()

	pc, err := u.gather(ctx, req)
	if err != nil {
		return nil, err
	}
	prompt, err := u.buildPrompt(ctx, req, pc)
	if err != nil {
		return nil, err
	}

	resp, err := u.generate(ctx, generationID, prompt)
	if err != nil {
		return nil, err
	}

	content := u.parse(ctx, resp.Text)
	content.Metadata.Platform = req.Platform
	content.Metadata.Model = resp.Model
	content.Metadata.GenerationID = generationID
	content.Metadata.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	if len(content.Metadata.Keywords) == 0 && len(req.Keywords) > 0 {
		content.Metadata.Keywords = append([]string{}, req.Keywords...)
	}
	content.CompletionStatus = domain.CompletionStatus{
		IsComplete: isComplete(resp.StopReason),
		StopReason: resp.StopReason,
		TokenUsage: resp.Usage,
	}

	if !content.CompletionStatus.IsComplete {
		u.logger.WarnContext(ctx, "generation_incomplete",
			slog.String("generation_id", generationID),
			slog.String("stop_reason", string(resp.StopReason)),
			slog.Int64("output_tokens", resp.Usage.OutputTokens))
	}
	u.logger.InfoContext(ctx, "post_generated",
		slog.String("generation_id", generationID),
		slog.String("topic", req.Topic),
		slog.String("platform", string(req.Platform)),
		slog.String("model", resp.Model),
		slog.Int("word_count", content.Metadata.WordCount),
		slog.Bool("parse_fallback", content.Metadata.ParseFallback),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return &content, nil
}

func (u *generatePostUsecase) gather(ctx context.Context, req domain.ContentRequest) (*PromptContext, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "gather_context")
	defer span.End()
	span.SetAttributes(attribute.String("blog.topic", req.Topic), attribute.Int("blog.search_queries", len(req.SearchQueries)))

	pc, err := u.gatherer.Gather(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "gather failed")
		return nil, fmt.Errorf("gather context: %w", err)
	}
	span.SetAttributes(attribute.Int("blog.posts", len(pc.Posts)), attribute.Int("blog.materials", len(pc.Materials)))
	return pc, nil
}

func (u *generatePostUsecase) buildPrompt(ctx context.Context, req domain.ContentRequest, pc *PromptContext) (string, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "build_prompt")
	defer span.End()

	prompt, err := u.promptBuilder.Build(req, *pc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		return "", fmt.Errorf("build prompt: %w", err)
	}
	span.SetAttributes(attribute.Int("blog.prompt_length", len(prompt)))
	return prompt, nil
}

func (u *generatePostUsecase) generate(ctx context.Context, generationID, prompt string) (*domain.GenerationResponse, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "generate_text")
	defer span.End()
	span.SetAttributes(attribute.String("blog.generation_id", generationID), attribute.String("llm.model", u.opts.Model))

	resp, err := u.client.Generate(ctx, domain.GenerationRequest{
		Prompt:       prompt,
		SystemPrompt: u.promptBuilder.SystemPrompt(),
		Model:        u.opts.Model,
		MaxTokens:    u.opts.MaxTokens,
		Temperature:  u.opts.Temperature,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		u.logger.ErrorContext(ctx, "generation_failed",
			slog.String("generation_id", generationID),
			slog.String("client", u.client.Version()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	span.SetAttributes(
		attribute.String("llm.stop_reason", string(resp.StopReason)),
		attribute.Int64("llm.input_tokens", resp.Usage.InputTokens),
		attribute.Int64("llm.output_tokens", resp.Usage.OutputTokens))
	return resp, nil
}

func (u *generatePostUsecase) parse(ctx context.Context, text string) domain.GeneratedContent {
	_, span := otel.Tracer(tracerName).Start(ctx, "parse_response")
	defer span.End()

	content := u.parser.Parse(text)
	span.SetAttributes(attribute.Bool("blog.parse_fallback", content.Metadata.ParseFallback))
	return content
}

// isComplete is false when the generator was cut off or declined.
func isComplete(reason domain.StopReason) bool {
	return reason != domain.StopReasonMaxTokens && reason != domain.StopReasonRefusal
}

func normalizeRequest(req domain.ContentRequest) (domain.ContentRequest, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return req, domain.ErrEmptyTopic
	}
	req.Platform = domain.ParsePlatform(string(req.Platform))
	switch strings.ToLower(req.Length) {
	case domain.LengthShort, domain.LengthLong:
		req.Length = strings.ToLower(req.Length)
	default:
		req.Length = domain.LengthMedium
	}
	return req, nil
}
