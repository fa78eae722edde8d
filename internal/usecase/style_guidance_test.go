package usecase_test

import (
	"strings"
	"testing"

	"blog-agent/internal/domain"
	"blog-agent/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func fullStyle() domain.WritingStyle {
	s := withEnding(baseStyle(domain.ToneConversational, 14), 0.7)
	s.CommonPhrases = []string{"정리하자면", "hello world", "그럼 시작해볼까요", "참고로", "마지막으로", "extra"}
	s.EmojiUsage = &domain.EmojiUsage{Frequency: domain.EmojiFrequencyMedium, CommonEmojis: []string{"✨", "💡"}}
	s.HeadingStyle = &domain.HeadingStyle{UsesNumbers: true, UsesEmojisInHeadings: true, AverageHeadingLength: 12}
	s.EngagementStyle = &domain.EngagementStyle{QuestionsPerSection: 1.5, HasCTA: true, CTAType: "comment"}
	s.StructurePreferences = &domain.StructurePreferences{AverageParagraphLength: 3, UsesBulletPoints: true, HasIntroGreeting: true}
	return s
}

func TestDescribeStyle_MinimalStyle(t *testing.T) {
	var text string
	assert.NotPanics(t, func() { text = usecase.DescribeStyle(domain.WritingStyle{}) })
	assert.Contains(t, text, "Tone: unspecified")
	assert.NotContains(t, text, "Korean")
	assert.NotContains(t, text, "Headings")
}

func TestDescribeStyle_BlocksInOrder(t *testing.T) {
	text := usecase.DescribeStyle(fullStyle())

	order := []string{"Tone:", "Complexity:", "Signature expressions:", "Emoji usage:", "Korean sentence endings:", "Headings:", "Engagement:", "Structure:"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(text, marker)
		assert.Greater(t, idx, last, marker)
		last = idx
	}
	assert.Contains(t, text, "70%")
	assert.Contains(t, text, "30%")
	assert.Contains(t, text, `"합니다"`)
	// only the top 5 phrases are described
	assert.NotContains(t, text, "extra")
	assert.Contains(t, text, "comment call to action")
}

func TestDescribeStyle_LegacyKoreanPatterns(t *testing.T) {
	s := baseStyle(domain.ToneConversational, 10)
	s.KoreanPatterns = &domain.KoreanPatterns{UsesJondaemal: true, HasEmpathy: true}

	text := usecase.DescribeStyle(s)
	assert.Contains(t, text, "Korean writing patterns:")
	assert.Contains(t, text, "존댓말")
	assert.Contains(t, text, "empathetic")
	assert.NotContains(t, text, "Korean sentence endings:")
}

func TestGenerateStyleGuidance_NonePassthrough(t *testing.T) {
	rules := domain.DefaultPlatformRules()
	for _, s := range []domain.WritingStyle{{}, fullStyle(), withEnding(baseStyle(domain.ToneAcademic, 30), 0.1)} {
		assert.Equal(t, usecase.NoPlatformGuidance, usecase.GenerateStyleGuidance(s, rules[domain.PlatformNone], domain.PlatformNone))
	}
}

func TestGenerateStyleGuidance_CommonBlocksInOrder(t *testing.T) {
	rules := domain.DefaultPlatformRules()
	text := usecase.GenerateStyleGuidance(fullStyle(), rules[domain.PlatformMedium], domain.PlatformMedium)

	priority := strings.Index(text, "## Priority")
	structure := strings.Index(text, "## Mandatory structure")
	teacher := strings.Index(text, "## Expert-teacher tone")
	assert.True(t, priority >= 0 && priority < structure && structure < teacher)
	assert.Contains(t, text, "exactly 3 entries")
}

func TestGenerateStyleGuidance_NaverNoEmojis(t *testing.T) {
	s := baseStyle(domain.ToneConversational, 10)
	s.EmojiUsage = &domain.EmojiUsage{Frequency: domain.EmojiFrequencyNone, CommonEmojis: []string{}}

	text := usecase.GenerateStyleGuidance(s, domain.DefaultPlatformRules()[domain.PlatformNaver], domain.PlatformNaver)
	assert.Contains(t, text, "no emojis")
	assert.NotContains(t, text, "emoji frequency")
}

func TestGenerateStyleGuidance_NaverEmojiDensity(t *testing.T) {
	text := usecase.GenerateStyleGuidance(fullStyle(), domain.DefaultPlatformRules()[domain.PlatformNaver], domain.PlatformNaver)
	assert.Contains(t, text, "medium emoji frequency")
	assert.NotContains(t, text, "no emojis")
	assert.Contains(t, text, "## Opening and closing")
	assert.Contains(t, text, `"정리하자면", "그럼 시작해볼까요", "참고로"`)
	assert.NotContains(t, text, `"마지막으로"`)
}

func TestGenerateStyleGuidance_FormalEndingEnforcementVsPreservation(t *testing.T) {
	rules := domain.DefaultPlatformRules()

	preserved := usecase.GenerateStyleGuidance(fullStyle(), rules[domain.PlatformNaver], domain.PlatformNaver)
	assert.Contains(t, preserved, "Sentence endings (preserve)")
	assert.Contains(t, preserved, "about 70% formal")
	assert.NotContains(t, preserved, "Sentence endings (strict)")

	s := fullStyle()
	s.KoreanPreferences = &domain.KoreanPreferences{PreferFormalEndings: true, TargetFormalRatio: ratio(0.9)}
	for _, p := range []domain.Platform{domain.PlatformNaver, domain.PlatformMedium} {
		enforced := usecase.GenerateStyleGuidance(s, rules[p], p)
		assert.Contains(t, enforced, "Sentence endings (strict)")
		assert.Contains(t, enforced, "Write 90% of sentences")
		assert.Contains(t, enforced, "examples and reassuring the reader")
	}
}

func TestGenerateStyleGuidance_NoEndingProfileSkipsRatioRules(t *testing.T) {
	text := usecase.GenerateStyleGuidance(baseStyle(domain.ToneConversational, 10), domain.DefaultPlatformRules()[domain.PlatformNaver], domain.PlatformNaver)
	assert.NotContains(t, text, "Sentence endings")
}

func TestGenerateStyleGuidance_MediumLayers(t *testing.T) {
	rules := domain.DefaultPlatformRules()[domain.PlatformMedium]

	s := baseStyle(domain.ToneAcademic, 25)
	s.Vocabulary = domain.VocabularyAdvanced
	s.StructurePreferences = &domain.StructurePreferences{UsesBulletPoints: true}
	text := usecase.GenerateStyleGuidance(s, rules, domain.PlatformMedium)
	assert.Contains(t, text, "Raise formality")
	assert.Contains(t, text, "Explain each specialized term inline")
	assert.Contains(t, text, "## Lists")
	assert.Contains(t, text, "## SEO")

	plain := usecase.GenerateStyleGuidance(baseStyle(domain.ToneConversational, 10), rules, domain.PlatformMedium)
	assert.NotContains(t, plain, "Raise formality")
	assert.NotContains(t, plain, "## Vocabulary")
	assert.NotContains(t, plain, "## Lists")
	assert.NotContains(t, plain, "## Emojis")
}

func TestGenerateStyleGuidance_NaverUnrecordedEmojiProfile(t *testing.T) {
	s := baseStyle(domain.ToneConversational, 10)
	s.EmojiUsage = nil

	text := usecase.GenerateStyleGuidance(s, domain.DefaultPlatformRules()[domain.PlatformNaver], domain.PlatformNaver)
	assert.Contains(t, text, "No emoji habit was recorded")
	assert.NotContains(t, text, "emoji frequency")
	assert.NotContains(t, text, "Use no emojis at all")
}
