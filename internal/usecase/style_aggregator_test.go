package usecase_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"blog-agent/internal/domain"
	"blog-agent/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ratio(v float64) *float64 { return &v }

func baseStyle(tone string, sentenceLength int) domain.WritingStyle {
	return domain.WritingStyle{
		Tone:                  tone,
		Complexity:            domain.ComplexityMedium,
		Perspective:           domain.PerspectiveFirstPerson,
		AverageSentenceLength: sentenceLength,
		Vocabulary:            domain.VocabularyIntermediate,
		CommonPhrases:         []string{},
	}
}

func withEnding(s domain.WritingStyle, formal float64) domain.WritingStyle {
	s.KoreanPatterns = &domain.KoreanPatterns{
		UsesJondaemal: true,
		EndingStyle: &domain.EndingStyle{
			FormalRatio:         formal,
			ConversationalRatio: 1 - formal,
			DominantEnding:      domain.DominantEndingMixed,
			UsageContext: domain.UsageContext{
				FormalContexts:         []string{"설명"},
				ConversationalContexts: []string{"예시"},
			},
			Examples: domain.EndingExamples{
				Formal:              []string{"합니다"},
				Conversational:      []string{"해요"},
				FormalCount:         3,
				ConversationalCount: 2,
			},
		},
	}
	return s
}

func TestStyleAggregator_Empty_ReturnsDefaultWithSyntheticKoreanPatterns(t *testing.T) {
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{}, discardLogger())

	merged := agg.Merge(nil)

	assert.Equal(t, 15, merged.AverageSentenceLength)
	assert.Empty(t, merged.CommonPhrases)
	require.NotNil(t, merged.KoreanPatterns)
	require.NotNil(t, merged.KoreanPatterns.EndingStyle)
	ending := merged.KoreanPatterns.EndingStyle
	assert.Equal(t, 1.0, ending.FormalRatio+ending.ConversationalRatio)
	assert.Equal(t, domain.DefaultTargetFormalRatio, ending.FormalRatio)
	assert.Equal(t, domain.DominantEndingFormal, ending.DominantEnding)
	assert.Equal(t, domain.DefaultFormalContexts(), ending.UsageContext.FormalContexts)
	assert.Zero(t, ending.Examples.FormalCount)
	assert.Zero(t, ending.Examples.ConversationalCount)
	assert.Nil(t, merged.EmojiUsage)
	assert.Nil(t, merged.HeadingStyle)
}

func TestStyleAggregator_Empty_AppliesConfiguredPreferences(t *testing.T) {
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{
		DefaultStyle: usecase.DefaultWritingStyle(),
		Preferences:  domain.WritingStyle{Tone: domain.ToneAcademic, CommonPhrases: []string{"in short"}},
		KoreanPreferences: &domain.KoreanPreferences{
			PreferFormalEndings: true,
			TargetFormalRatio:   ratio(0.7),
		},
	}, discardLogger())

	merged := agg.Merge([]domain.WritingStyle{})

	assert.Equal(t, domain.ToneAcademic, merged.Tone)
	assert.Equal(t, []string{"in short"}, merged.CommonPhrases)
	assert.Equal(t, domain.ComplexityMedium, merged.Complexity)
	assert.InDelta(t, 0.7, merged.KoreanPatterns.EndingStyle.FormalRatio, 1e-9)
	assert.Equal(t, domain.DominantEndingMixed, merged.KoreanPatterns.EndingStyle.DominantEnding)
}

func TestStyleAggregator_SingleInput_IsIdentity(t *testing.T) {
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{
		KoreanPreferences: &domain.KoreanPreferences{PreferFormalEndings: true, TargetFormalRatio: ratio(0.9)},
	}, discardLogger())

	only := withEnding(baseStyle(domain.ToneAcademic, 22), 0.4)
	only.CommonPhrases = []string{"a", "b"}
	only.EmojiUsage = &domain.EmojiUsage{Frequency: domain.EmojiFrequencyHigh, CommonEmojis: []string{"🔥"}}

	assert.Equal(t, only, agg.Merge([]domain.WritingStyle{only}))
}

func TestStyleAggregator_ToneMajority(t *testing.T) {
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{}, discardLogger())

	merged := agg.Merge([]domain.WritingStyle{
		baseStyle(domain.ToneConversational, 10),
		baseStyle(domain.ToneConversational, 10),
		baseStyle(domain.ToneAcademic, 10),
	})

	assert.Equal(t, domain.ToneConversational, merged.Tone)
}

func TestStyleAggregator_UniformToneIsPreserved(t *testing.T) {
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{}, discardLogger())

	for _, tone := range []string{domain.ToneAcademic, domain.ToneProfessional, domain.ToneConversational} {
		merged := agg.Merge([]domain.WritingStyle{baseStyle(tone, 5), baseStyle(tone, 9), baseStyle(tone, 12), baseStyle(tone, 30)})
		assert.Equal(t, tone, merged.Tone)
	}
}

func TestStyleAggregator_TieBreaksOnFirstOccurrence(t *testing.T) {
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{}, discardLogger())

	merged := agg.Merge([]domain.WritingStyle{
		baseStyle(domain.ToneAcademic, 10),
		baseStyle(domain.ToneProfessional, 10),
	})
	assert.Equal(t, domain.ToneAcademic, merged.Tone)

	merged = agg.Merge([]domain.WritingStyle{
		baseStyle(domain.ToneProfessional, 10),
		baseStyle(domain.ToneAcademic, 10),
	})
	assert.Equal(t, domain.ToneProfessional, merged.Tone)
}

func TestStyleAggregator_SentenceLengthMean(t *testing.T) {
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{}, discardLogger())

	merged := agg.Merge([]domain.WritingStyle{baseStyle(domain.ToneAcademic, 10), baseStyle(domain.ToneAcademic, 20)})
	assert.Equal(t, 15, merged.AverageSentenceLength)

	merged = agg.Merge([]domain.WritingStyle{baseStyle(domain.ToneAcademic, 10), baseStyle(domain.ToneAcademic, 11)})
	assert.Equal(t, 11, merged.AverageSentenceLength)
}

func TestStyleAggregator_CommonPhrasesByFrequency(t *testing.T) {
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{}, discardLogger())

	first := baseStyle(domain.ToneAcademic, 10)
	first.CommonPhrases = []string{"great job", "hello world"}
	second := baseStyle(domain.ToneAcademic, 10)
	second.CommonPhrases = []string{"hello world"}

	merged := agg.Merge([]domain.WritingStyle{first, second})
	assert.Equal(t, []string{"hello world", "great job"}, merged.CommonPhrases)
}

func TestStyleAggregator_CommonPhrasesCappedAtTen(t *testing.T) {
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{}, discardLogger())

	first := baseStyle(domain.ToneAcademic, 10)
	first.CommonPhrases = []string{"a", "b", "c", "d", "e", "f", "g"}
	second := baseStyle(domain.ToneAcademic, 10)
	second.CommonPhrases = []string{"h", "i", "j", "k", "l"}

	merged := agg.Merge([]domain.WritingStyle{first, second})
	assert.Len(t, merged.CommonPhrases, 10)
	assert.Equal(t, "a", merged.CommonPhrases[0])
}

func TestStyleAggregator_EmojiUsage(t *testing.T) {
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{}, discardLogger())

	a := baseStyle(domain.ToneAcademic, 10)
	a.EmojiUsage = &domain.EmojiUsage{Frequency: domain.EmojiFrequencyLow, CommonEmojis: []string{"😀", "🔥", "✨"}}
	b := baseStyle(domain.ToneAcademic, 10)
	c := baseStyle(domain.ToneAcademic, 10)
	c.EmojiUsage = &domain.EmojiUsage{Frequency: domain.EmojiFrequencyLow, CommonEmojis: []string{"🔥", "💡", "👍", "🎉"}}

	merged := agg.Merge([]domain.WritingStyle{a, b, c})
	require.NotNil(t, merged.EmojiUsage)
	assert.Equal(t, domain.EmojiFrequencyLow, merged.EmojiUsage.Frequency)
	assert.Equal(t, []string{"😀", "🔥", "✨", "💡", "👍"}, merged.EmojiUsage.CommonEmojis)

	merged = agg.Merge([]domain.WritingStyle{b, baseStyle(domain.ToneAcademic, 10)})
	assert.Nil(t, merged.EmojiUsage)
}

func TestStyleAggregator_PreferFormalOverridesDetectedRatio(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{
		KoreanPreferences: &domain.KoreanPreferences{PreferFormalEndings: true, TargetFormalRatio: ratio(0.9)},
	}, logger)

	for _, detected := range [][]float64{{0.1, 0.3}, {0.95, 0.99}, {0.5, 0.5, 0.2}} {
		var styles []domain.WritingStyle
		for _, r := range detected {
			styles = append(styles, withEnding(baseStyle(domain.ToneConversational, 10), r))
		}
		merged := agg.Merge(styles)
		assert.Equal(t, 0.9, merged.KoreanPatterns.EndingStyle.FormalRatio)
		assert.InDelta(t, 0.1, merged.KoreanPatterns.EndingStyle.ConversationalRatio, 1e-9)
		assert.Equal(t, domain.DominantEndingFormal, merged.KoreanPatterns.EndingStyle.DominantEnding)
	}
	assert.Contains(t, logs.String(), "korean_ratio_override")
	assert.Contains(t, logs.String(), "detected_formal_ratio")
}

func TestStyleAggregator_EnforcesMinimumFormalRatio(t *testing.T) {
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{
		KoreanPreferences: &domain.KoreanPreferences{EnforceMinimumFormalRatio: ratio(0.6)},
	}, discardLogger())

	low := agg.Merge([]domain.WritingStyle{
		withEnding(baseStyle(domain.ToneAcademic, 10), 0.2),
		withEnding(baseStyle(domain.ToneAcademic, 10), 0.4),
	})
	assert.Equal(t, 0.6, low.KoreanPatterns.EndingStyle.FormalRatio)
	assert.InDelta(t, 0.4, low.KoreanPatterns.EndingStyle.ConversationalRatio, 1e-9)
	assert.Equal(t, domain.DominantEndingMixed, low.KoreanPatterns.EndingStyle.DominantEnding)

	high := agg.Merge([]domain.WritingStyle{
		withEnding(baseStyle(domain.ToneAcademic, 10), 0.8),
		withEnding(baseStyle(domain.ToneAcademic, 10), 0.9),
	})
	assert.InDelta(t, 0.85, high.KoreanPatterns.EndingStyle.FormalRatio, 1e-9)
	assert.Equal(t, domain.DominantEndingFormal, high.KoreanPatterns.EndingStyle.DominantEnding)
}

func TestStyleAggregator_DetectedRatioMergesContextsAndExamples(t *testing.T) {
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{}, discardLogger())

	a := withEnding(baseStyle(domain.ToneAcademic, 10), 0.5)
	b := withEnding(baseStyle(domain.ToneAcademic, 10), 0.7)
	b.KoreanPatterns.EndingStyle.UsageContext.FormalContexts = []string{"설명", "결론"}
	b.KoreanPatterns.EndingStyle.Examples.Formal = []string{"합니다", "입니다", "됩니다", "있습니다", "없습니다", "같습니다"}
	c := baseStyle(domain.ToneAcademic, 10)

	merged := agg.Merge([]domain.WritingStyle{a, b, c})
	ending := merged.KoreanPatterns.EndingStyle
	assert.InDelta(t, 0.6, ending.FormalRatio, 1e-9)
	assert.InDelta(t, 0.4, ending.ConversationalRatio, 1e-9)
	assert.Equal(t, []string{"설명", "결론"}, ending.UsageContext.FormalContexts)
	assert.Equal(t, []string{"합니다", "입니다", "됩니다", "있습니다", "없습니다"}, ending.Examples.Formal)
	assert.Equal(t, 6, ending.Examples.FormalCount)
	assert.Equal(t, 4, ending.Examples.ConversationalCount)
	// 2 of 3 inputs set UsesJondaemal.
	assert.True(t, merged.KoreanPatterns.UsesJondaemal)
	assert.False(t, merged.KoreanPatterns.HasEmpathy)
}

func TestStyleAggregator_LegacyOnlyInputsGetSyntheticRatio(t *testing.T) {
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{}, discardLogger())

	a := baseStyle(domain.ToneAcademic, 10)
	a.KoreanPatterns = &domain.KoreanPatterns{UsesJondaemal: true, HasEmpathy: true}
	b := baseStyle(domain.ToneAcademic, 10)
	b.KoreanPatterns = &domain.KoreanPatterns{UsesJondaemal: false, HasEmpathy: true}

	merged := agg.Merge([]domain.WritingStyle{a, b})
	require.NotNil(t, merged.KoreanPatterns.EndingStyle)
	assert.Equal(t, domain.DefaultTargetFormalRatio, merged.KoreanPatterns.EndingStyle.FormalRatio)
	assert.False(t, merged.KoreanPatterns.UsesJondaemal, "1 of 2 is not a strict majority")
	assert.True(t, merged.KoreanPatterns.HasEmpathy)
}

func TestStyleAggregator_OptionalSubProfiles(t *testing.T) {
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{}, discardLogger())

	a := baseStyle(domain.ToneAcademic, 10)
	a.HeadingStyle = &domain.HeadingStyle{UsesNumbers: true, AverageHeadingLength: 10}
	a.EngagementStyle = &domain.EngagementStyle{QuestionsPerSection: 1, HasCTA: true}
	a.StructurePreferences = &domain.StructurePreferences{AverageParagraphLength: 3, UsesBulletPoints: true}
	b := baseStyle(domain.ToneAcademic, 10)
	b.HeadingStyle = &domain.HeadingStyle{UsesNumbers: true, AverageHeadingLength: 15}
	b.EngagementStyle = &domain.EngagementStyle{QuestionsPerSection: 0.5, HasCTA: true, CTAType: "comment"}
	b.StructurePreferences = &domain.StructurePreferences{AverageParagraphLength: 4, UsesBulletPoints: true, HasClosingRemarks: true}
	c := baseStyle(domain.ToneAcademic, 10)

	merged := agg.Merge([]domain.WritingStyle{a, b, c})

	require.NotNil(t, merged.HeadingStyle)
	assert.True(t, merged.HeadingStyle.UsesNumbers)
	assert.Equal(t, 13, merged.HeadingStyle.AverageHeadingLength)

	require.NotNil(t, merged.EngagementStyle)
	assert.InDelta(t, 0.75, merged.EngagementStyle.QuestionsPerSection, 1e-9)
	assert.True(t, merged.EngagementStyle.HasCTA)
	assert.Equal(t, "comment", merged.EngagementStyle.CTAType)

	require.NotNil(t, merged.StructurePreferences)
	assert.InDelta(t, 3.5, merged.StructurePreferences.AverageParagraphLength, 1e-9)
	assert.True(t, merged.StructurePreferences.UsesBulletPoints)
	assert.False(t, merged.StructurePreferences.HasClosingRemarks)

	bare := agg.Merge([]domain.WritingStyle{c, baseStyle(domain.ToneAcademic, 10)})
	assert.Nil(t, bare.HeadingStyle)
	assert.Nil(t, bare.EngagementStyle)
	assert.Nil(t, bare.StructurePreferences)
	assert.NotNil(t, bare.KoreanPatterns)
}

func TestStyleAggregator_Empty_KeepsConfiguredKoreanPatterns(t *testing.T) {
	configured := &domain.KoreanPatterns{UsesJondaemal: true, HasEmpathy: true}
	agg := usecase.NewStyleAggregator(usecase.StyleConfig{
		Preferences: domain.WritingStyle{KoreanPatterns: configured},
	}, discardLogger())

	merged := agg.Merge(nil)

	require.NotNil(t, merged.KoreanPatterns)
	assert.True(t, merged.KoreanPatterns.UsesJondaemal)
	assert.True(t, merged.KoreanPatterns.HasEmpathy)
	require.NotNil(t, merged.KoreanPatterns.EndingStyle)
	assert.Equal(t, domain.DefaultTargetFormalRatio, merged.KoreanPatterns.EndingStyle.FormalRatio)
	assert.Nil(t, configured.EndingStyle)
}
