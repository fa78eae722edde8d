package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"blog-agent/internal/domain"
)

const (
	excerptLength     = 500
	excerptSeparator  = "\n\n---\n\n"
	noPostsText       = "No previous posts are available. Rely on the writing style guidance only."
	noMaterialsText   = "No reference materials were found for this topic."
	noWebResultsText  = "No web search results were collected."
	defaultAudience   = "general readers"
	blogSystemMessage = "You are a professional blog writer. You write in the voice of the user whose posts are shown, follow platform rules exactly, and answer with a single JSON object."
)

// PromptContext is everything gathered for one generation request.
type PromptContext struct {
	Request    domain.ContentRequest
	Posts      []domain.ReferencePost
	Materials  []domain.ReferenceMaterial
	WebResults []domain.WebResult
	StyleGuide domain.WritingStyle
}

// PromptBuilder renders the generation prompt for a request.
type PromptBuilder interface {
	Build(req domain.ContentRequest, pc PromptContext) (string, error)
	SystemPrompt() string
}

// TemplatePromptBuilder fills a fixed template via literal placeholder substitution.
type TemplatePromptBuilder struct {
	rules             map[domain.Platform]domain.PlatformRules
	koreanPreferences *domain.KoreanPreferences
	template          string
}

// NewTemplatePromptBuilder creates a builder. A nil rules map uses the built-in platform rules.
func NewTemplatePromptBuilder(rules map[domain.Platform]domain.PlatformRules, koreanPreferences *domain.KoreanPreferences) *TemplatePromptBuilder {
	if rules == nil {
		rules = domain.DefaultPlatformRules()
	}
	return &TemplatePromptBuilder{
		rules:             rules,
		koreanPreferences: koreanPreferences,
		template:          blogPromptTemplate,
	}
}

// SystemPrompt returns the fixed system message sent with every prompt.
func (b *TemplatePromptBuilder) SystemPrompt() string {
	return blogSystemMessage
}

// Build renders the prompt.
func (b *TemplatePromptBuilder) Build(req domain.ContentRequest, pc PromptContext) (string, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return "", domain.ErrEmptyTopic
	}
	rules, err := domain.RulesFor(b.rules, req.Platform)
	if err != nil {
		return "", fmt.Errorf("select platform rules: %w", err)
	}

	style := pc.StyleGuide
	if style.KoreanPreferences == nil {
		style.KoreanPreferences = b.koreanPreferences
	}
	minWords, maxWords := rules.WordBounds(req.Length)

	audience := req.TargetAudience
	if audience == "" {
		audience = defaultAudience
	}
	length := req.Length
	if length == "" {
		length = domain.LengthMedium
	}

	replacer := strings.NewReplacer(
		"{{TOPIC}}", req.Topic,
		"{{AUDIENCE}}", audience,
		"{{LENGTH}}", length,
		"{{PLATFORM}}", string(rules.Platform),
		"{{KEYWORDS}}", joinOrNone(req.Keywords),
		"{{MIN_WORDS}}", strconv.Itoa(minWords),
		"{{MAX_WORDS}}", strconv.Itoa(maxWords),
		"{{STYLE_DESCRIPTION}}", DescribeStyle(style),
		"{{PLATFORM_GUIDANCE}}", GenerateStyleGuidance(style, rules, req.Platform),
		"{{OPENING_EXAMPLE}}", exampleOrNone(rules.OpeningExample(req)),
		"{{CLOSING_EXAMPLE}}", exampleOrNone(rules.ClosingExample(req)),
		"{{REFERENCE_POSTS}}", formatPosts(pc.Posts),
		"{{REFERENCE_MATERIALS}}", formatMaterials(pc.Materials),
		"{{WEB_RESULTS}}", formatWebResults(pc.WebResults),
	)
	return replacer.Replace(b.template), nil
}

func formatPosts(posts []domain.ReferencePost) string {
	if len(posts) == 0 {
		return noPostsText
	}
	parts := make([]string, len(posts))
	for i, p := range posts {
		parts[i] = fmt.Sprintf("### %s\n%s", p.Title, excerpt(p.Content))
	}
	return strings.Join(parts, excerptSeparator)
}

func formatMaterials(materials []domain.ReferenceMaterial) string {
	if len(materials) == 0 {
		return noMaterialsText
	}
	parts := make([]string, len(materials))
	for i, m := range materials {
		parts[i] = fmt.Sprintf("### %s (relevance %.2f)\n%s", m.Title, m.Relevance, excerpt(m.Content))
	}
	return strings.Join(parts, excerptSeparator)
}

func formatWebResults(results []domain.WebResult) string {
	if len(results) == 0 {
		return noWebResultsText
	}
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("### %s\nURL: %s\n%s", r.Title, r.URL, excerpt(r.Snippet))
	}
	return strings.Join(parts, excerptSeparator)
}

func excerpt(s string) string {
	return truncateRunes(strings.TrimSpace(s), excerptLength)
}

func exampleOrNone(s string) string {
	if s == "" {
		return "(no fixed example for this platform)"
	}
	return s
}

const blogPromptTemplate = `Write a blog post about "{{TOPIC}}".

# Request
- Target audience: {{AUDIENCE}}
- Length: {{LENGTH}} ({{MIN_WORDS}}-{{MAX_WORDS}} words)
- Platform: {{PLATFORM}}
- Keywords: {{KEYWORDS}}

# User writing style
{{STYLE_DESCRIPTION}}

# Platform guidance
{{PLATFORM_GUIDANCE}}

# Opening and closing examples
- Opening: {{OPENING_EXAMPLE}}
- Closing: {{CLOSING_EXAMPLE}}

# The user's previous posts
{{REFERENCE_POSTS}}

# Reference materials
{{REFERENCE_MATERIALS}}

# Web search results
{{WEB_RESULTS}}

# Output format
Respond with one JSON object inside a ` + "```json" + ` code block:
{
  "title": "post title",
  "content": "full post body in Markdown",
  "outline": ["section 1", "section 2", "section 3"],
  "references": ["source URL or title"],
  "metadata": {
    "word_count": 0,
    "reading_time": 0,
    "keywords": ["keyword"]
  }
}
`
