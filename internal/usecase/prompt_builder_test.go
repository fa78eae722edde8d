package usecase_test

import (
	"strings"
	"testing"

	"blog-agent/internal/domain"
	"blog-agent/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatePromptBuilder_Build_WithContext(t *testing.T) {
	builder := usecase.NewTemplatePromptBuilder(nil, nil)
	req := domain.ContentRequest{
		Topic:          "Go 동시성",
		TargetAudience: "주니어 개발자",
		Length:         domain.LengthShort,
		Platform:       domain.PlatformNaver,
		Keywords:       []string{"goroutine", "channel"},
	}
	pc := usecase.PromptContext{
		Request: req,
		Posts: []domain.ReferencePost{
			{Title: "이전 글", Content: strings.Repeat("가", 800)},
		},
		Materials: []domain.ReferenceMaterial{
			{Title: "Effective Go", Content: "Share memory by communicating.", Relevance: 0.92},
		},
		WebResults: []domain.WebResult{
			{Title: "Go blog", URL: "https://go.dev/blog", Snippet: "Concurrency is not parallelism."},
		},
		StyleGuide: withEnding(baseStyle(domain.ToneConversational, 12), 0.6),
	}

	prompt, err := builder.Build(req, pc)
	require.NoError(t, err)

	assert.NotContains(t, prompt, "{{")
	assert.Contains(t, prompt, `Write a blog post about "Go 동시성".`)
	assert.Contains(t, prompt, "주니어 개발자")
	assert.Contains(t, prompt, "800-1200 words")
	assert.Contains(t, prompt, "goroutine, channel")
	assert.Contains(t, prompt, "Korean sentence endings:")
	assert.Contains(t, prompt, "## Priority")
	assert.Contains(t, prompt, "안녕하세요! 오늘은 주니어 개발자분들을 위해 Go 동시성에 대해 알아보겠습니다.")
	assert.Contains(t, prompt, strings.Repeat("가", 500)+"...")
	assert.NotContains(t, prompt, strings.Repeat("가", 501))
	assert.Contains(t, prompt, "relevance 0.92")
	assert.Contains(t, prompt, "https://go.dev/blog")
	assert.Contains(t, prompt, "```json")
}

func TestTemplatePromptBuilder_Build_EmptyCategoriesUsePlaceholders(t *testing.T) {
	builder := usecase.NewTemplatePromptBuilder(nil, nil)
	req := domain.ContentRequest{Topic: "testing", Platform: domain.PlatformNone}

	prompt, err := builder.Build(req, usecase.PromptContext{Request: req})
	require.NoError(t, err)

	assert.Contains(t, prompt, "No previous posts are available.")
	assert.Contains(t, prompt, "No reference materials were found")
	assert.Contains(t, prompt, "No web search results were collected.")
	assert.Contains(t, prompt, usecase.NoPlatformGuidance)
	assert.Contains(t, prompt, "1500-2500 words")
	assert.Contains(t, prompt, "general readers")
}

func TestTemplatePromptBuilder_Build_InjectsConfiguredKoreanPreferences(t *testing.T) {
	builder := usecase.NewTemplatePromptBuilder(nil, &domain.KoreanPreferences{PreferFormalEndings: true})
	req := domain.ContentRequest{Topic: "배포 자동화", Platform: domain.PlatformNaver}

	prompt, err := builder.Build(req, usecase.PromptContext{
		Request:    req,
		StyleGuide: withEnding(baseStyle(domain.ToneConversational, 12), 0.5),
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Sentence endings (strict)")
	assert.Contains(t, prompt, "Write 85% of sentences")
}

func TestTemplatePromptBuilder_Build_RequiresTopic(t *testing.T) {
	builder := usecase.NewTemplatePromptBuilder(nil, nil)
	_, err := builder.Build(domain.ContentRequest{Topic: "  "}, usecase.PromptContext{})
	assert.ErrorIs(t, err, domain.ErrEmptyTopic)
}
