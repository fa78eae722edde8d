package blog_http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"blog-agent/internal/domain"
	"blog-agent/internal/infra/logger"
	"blog-agent/internal/usecase"
)

// StyleMerger merges per-post styles into one guide.
type StyleMerger interface {
	Merge(styles []domain.WritingStyle) domain.WritingStyle
}

// ReadinessCheck reports whether backing stores are reachable.
type ReadinessCheck func(ctx context.Context) error

type Handler struct {
	generateUsecase usecase.GeneratePostUsecase
	merger          StyleMerger
	ready           ReadinessCheck
	logger          *slog.Logger
}

func NewHandler(
	generateUsecase usecase.GeneratePostUsecase,
	merger StyleMerger,
	ready ReadinessCheck,
	log *slog.Logger,
) *Handler {
	return &Handler{
		generateUsecase: generateUsecase,
		merger:          merger,
		ready:           ready,
		logger:          log,
	}
}

// Register mounts the blog routes and health checks on e.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/v1/blog/posts", h.GeneratePost)
	e.POST("/v1/blog/prompt", h.PreviewPrompt)
	e.POST("/v1/blog/style", h.AnalyzeStyle)
	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)
}

// GeneratePost runs the full pipeline
// (POST /v1/blog/posts)
func (h *Handler) GeneratePost(c echo.Context) error {
	var req domain.ContentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	content, err := h.generateUsecase.Execute(requestContext(c), req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, content)
}

// PromptResponse is the dry-run output of the prompt assembler.
type PromptResponse struct {
	SystemPrompt     string `json:"system_prompt"`
	Prompt           string `json:"prompt"`
	StyleDescription string `json:"style_description"`
	PostCount        int    `json:"post_count"`
	MaterialCount    int    `json:"material_count"`
	WebResultCount   int    `json:"web_result_count"`
}

// PreviewPrompt gathers context and returns the prompt without generating
// (POST /v1/blog/prompt)
func (h *Handler) PreviewPrompt(c echo.Context) error {
	var req domain.ContentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	preview, err := h.generateUsecase.Preview(requestContext(c), req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	resp := PromptResponse{
		SystemPrompt: preview.SystemPrompt,
		Prompt:       preview.Prompt,
	}
	if pc := preview.Context; pc != nil {
		resp.StyleDescription = usecase.DescribeStyle(pc.StyleGuide)
		resp.PostCount = len(pc.Posts)
		resp.MaterialCount = len(pc.Materials)
		resp.WebResultCount = len(pc.WebResults)
	}
	return c.JSON(http.StatusOK, resp)
}

type styleRequest struct {
	Samples []string `json:"samples"`
}

type styleResponse struct {
	Style       domain.WritingStyle `json:"style"`
	Description string              `json:"description"`
}

// AnalyzeStyle analyzes sample posts and returns the merged style
// (POST /v1/blog/style)
func (h *Handler) AnalyzeStyle(c echo.Context) error {
	var req styleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	styles := make([]domain.WritingStyle, 0, len(req.Samples))
	for _, s := range req.Samples {
		styles = append(styles, domain.AnalyzeStyle(s))
	}
	merged := h.merger.Merge(styles)
	return c.JSON(http.StatusOK, styleResponse{Style: merged, Description: usecase.DescribeStyle(merged)})
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(c echo.Context) error {
	if h.ready != nil {
		if err := h.ready(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

// requestContext carries the echo request ID into usecase logs.
func requestContext(c echo.Context) context.Context {
	ctx := logger.WithRequestID(c.Request().Context(), c.Response().Header().Get(echo.HeaderXRequestID))
	return logger.WithEntryPoint(ctx, "http")
}

func (h *Handler) errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyTopic):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrGenerationFailed):
		h.logger.ErrorContext(requestContext(c), "generation_failed", slog.String("error", err.Error()))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		h.logger.ErrorContext(requestContext(c), "request_failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
