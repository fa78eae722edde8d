package usecase

import (
	"log/slog"
	"math"
	"sort"

	"blog-agent/internal/domain"
)

const (
	maxMergedPhrases = 10
	maxMergedEmojis  = 5
	maxEndingSamples = 5
)

// StyleConfig is the static style configuration injected at construction.
type StyleConfig struct {
	// DefaultStyle is returned when no reference posts are available.
	DefaultStyle domain.WritingStyle
	// Preferences overlays non-zero fields onto DefaultStyle.
	Preferences domain.WritingStyle
	// KoreanPreferences is the formal-ending override policy. May be nil.
	KoreanPreferences *domain.KoreanPreferences
}

// DefaultWritingStyle is the style used when nothing else is configured.
func DefaultWritingStyle() domain.WritingStyle {
	return domain.WritingStyle{
		Tone:                  domain.ToneConversational,
		Complexity:            domain.ComplexityMedium,
		Perspective:           domain.PerspectiveFirstPerson,
		AverageSentenceLength: 15,
		Vocabulary:            domain.VocabularyIntermediate,
		CommonPhrases:         []string{},
	}
}

// StyleAggregator merges per-post writing styles into one representative style.
type StyleAggregator struct {
	cfg    StyleConfig
	logger *slog.Logger
}

// NewStyleAggregator creates an aggregator for the given static configuration.
func NewStyleAggregator(cfg StyleConfig, logger *slog.Logger) *StyleAggregator {
	if cfg.DefaultStyle.Tone == "" {
		cfg.DefaultStyle = DefaultWritingStyle()
	}
	return &StyleAggregator{cfg: cfg, logger: logger}
}

// Merge combines styles. Categorical fields take the mode (first occurrence
// wins ties), numeric fields the mean, booleans a strict majority. Optional
// sub-profiles absent from every input stay absent, except KoreanPatterns
// which is always populated. With no input, a configured KoreanPatterns is
// kept and only a missing ending profile is synthesized.
func (a *StyleAggregator) Merge(styles []domain.WritingStyle) domain.WritingStyle {
	switch len(styles) {
	case 0:
		merged := overlayStyle(a.cfg.DefaultStyle, a.cfg.Preferences)
		switch {
		case merged.KoreanPatterns == nil:
			merged.KoreanPatterns = a.mergeKoreanPatterns(nil)
		case merged.KoreanPatterns.EndingStyle == nil:
			patterns := *merged.KoreanPatterns
			patterns.EndingStyle = a.syntheticEndingStyle()
			merged.KoreanPatterns = &patterns
		}
		merged.KoreanPreferences = a.cfg.KoreanPreferences
		return merged
	case 1:
		return styles[0]
	}

	tones := make([]string, len(styles))
	complexities := make([]string, len(styles))
	perspectives := make([]string, len(styles))
	vocabularies := make([]string, len(styles))
	sentenceLengths := make([]float64, len(styles))
	for i, s := range styles {
		tones[i] = s.Tone
		complexities[i] = s.Complexity
		perspectives[i] = s.Perspective
		vocabularies[i] = s.Vocabulary
		sentenceLengths[i] = float64(s.AverageSentenceLength)
	}

	merged := domain.WritingStyle{
		Tone:                  mode(tones),
		Complexity:            mode(complexities),
		Perspective:           mode(perspectives),
		AverageSentenceLength: int(math.Round(mean(sentenceLengths))),
		Vocabulary:            mode(vocabularies),
		CommonPhrases:         mergePhrases(styles),
		EmojiUsage:            mergeEmojiUsage(styles),
		KoreanPatterns:        a.mergeKoreanPatterns(styles),
		KoreanPreferences:     a.cfg.KoreanPreferences,
		HeadingStyle:          mergeHeadingStyle(styles),
		EngagementStyle:       mergeEngagementStyle(styles),
		StructurePreferences:  mergeStructurePreferences(styles),
	}
	return merged
}

func mergePhrases(styles []domain.WritingStyle) []string {
	counts := make(map[string]int)
	var order []string
	for _, s := range styles {
		for _, p := range s.CommonPhrases {
			if counts[p] == 0 {
				order = append(order, p)
			}
			counts[p]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > maxMergedPhrases {
		order = order[:maxMergedPhrases]
	}
	if order == nil {
		order = []string{}
	}
	return order
}

func mergeEmojiUsage(styles []domain.WritingStyle) *domain.EmojiUsage {
	var freqs, emojis []string
	for _, s := range styles {
		if s.EmojiUsage == nil {
			continue
		}
		freqs = append(freqs, s.EmojiUsage.Frequency)
		for _, e := range s.EmojiUsage.CommonEmojis {
			emojis = appendDistinct(emojis, e, maxMergedEmojis)
		}
	}
	if len(freqs) == 0 {
		return nil
	}
	if emojis == nil {
		emojis = []string{}
	}
	return &domain.EmojiUsage{Frequency: mode(freqs), CommonEmojis: emojis}
}

func (a *StyleAggregator) mergeKoreanPatterns(styles []domain.WritingStyle) *domain.KoreanPatterns {
	jondaemal := make([]bool, len(styles))
	gueoChae := make([]bool, len(styles))
	empathy := make([]bool, len(styles))
	var endings []*domain.EndingStyle
	for i, s := range styles {
		if s.KoreanPatterns == nil {
			continue
		}
		jondaemal[i] = s.KoreanPatterns.UsesJondaemal
		gueoChae[i] = s.KoreanPatterns.UsesGueoChae
		empathy[i] = s.KoreanPatterns.HasEmpathy
		if s.KoreanPatterns.EndingStyle != nil {
			endings = append(endings, s.KoreanPatterns.EndingStyle)
		}
	}

	patterns := &domain.KoreanPatterns{
		UsesJondaemal: majority(jondaemal),
		UsesGueoChae:  majority(gueoChae),
		HasEmpathy:    majority(empathy),
	}
	if len(endings) == 0 {
		patterns.EndingStyle = a.syntheticEndingStyle()
		return patterns
	}
	patterns.EndingStyle = a.mergeEndingStyles(endings)
	return patterns
}

func (a *StyleAggregator) syntheticEndingStyle() *domain.EndingStyle {
	formal := a.cfg.KoreanPreferences.Target()
	return &domain.EndingStyle{
		FormalRatio:         formal,
		ConversationalRatio: 1 - formal,
		DominantEnding:      aggregateDominantEnding(formal),
		UsageContext: domain.UsageContext{
			FormalContexts:         domain.DefaultFormalContexts(),
			ConversationalContexts: domain.DefaultConversationalContexts(),
		},
		Examples: domain.EndingExamples{Formal: []string{}, Conversational: []string{}},
	}
}

func (a *StyleAggregator) mergeEndingStyles(endings []*domain.EndingStyle) *domain.EndingStyle {
	formalRatios := make([]float64, len(endings))
	conversationalRatios := make([]float64, len(endings))
	var formalContexts, conversationalContexts []string
	examples := domain.EndingExamples{Formal: []string{}, Conversational: []string{}}
	for i, e := range endings {
		formalRatios[i] = e.FormalRatio
		conversationalRatios[i] = e.ConversationalRatio
		for _, c := range e.UsageContext.FormalContexts {
			formalContexts = appendDistinct(formalContexts, c, 0)
		}
		for _, c := range e.UsageContext.ConversationalContexts {
			conversationalContexts = appendDistinct(conversationalContexts, c, 0)
		}
		for _, ex := range e.Examples.Formal {
			examples.Formal = appendDistinct(examples.Formal, ex, maxEndingSamples)
		}
		for _, ex := range e.Examples.Conversational {
			examples.Conversational = appendDistinct(examples.Conversational, ex, maxEndingSamples)
		}
		examples.FormalCount += e.Examples.FormalCount
		examples.ConversationalCount += e.Examples.ConversationalCount
	}

	formal := mean(formalRatios)
	conversational := mean(conversationalRatios)
	prefs := a.cfg.KoreanPreferences
	switch {
	case prefs != nil && prefs.PreferFormalEndings:
		target := prefs.Target()
		a.logger.Info("korean_ratio_override",
			slog.Float64("detected_formal_ratio", formal),
			slog.Float64("override_formal_ratio", target))
		formal = target
		conversational = 1 - target
	case prefs != nil && prefs.EnforceMinimumFormalRatio != nil && formal < *prefs.EnforceMinimumFormalRatio:
		minimum := *prefs.EnforceMinimumFormalRatio
		a.logger.Info("korean_ratio_minimum_enforced",
			slog.Float64("detected_formal_ratio", formal),
			slog.Float64("minimum_formal_ratio", minimum))
		formal = minimum
		conversational = 1 - minimum
	}

	if formalContexts == nil {
		formalContexts = []string{}
	}
	if conversationalContexts == nil {
		conversationalContexts = []string{}
	}
	return &domain.EndingStyle{
		FormalRatio:         formal,
		ConversationalRatio: conversational,
		DominantEnding:      aggregateDominantEnding(formal),
		UsageContext: domain.UsageContext{
			FormalContexts:         formalContexts,
			ConversationalContexts: conversationalContexts,
		},
		Examples: examples,
	}
}

func aggregateDominantEnding(formal float64) string {
	if formal >= domain.FormalDominanceThreshold {
		return domain.DominantEndingFormal
	}
	return domain.DominantEndingMixed
}

func mergeHeadingStyle(styles []domain.WritingStyle) *domain.HeadingStyle {
	var numbers, emojis []bool
	var lengths []float64
	for _, s := range styles {
		if s.HeadingStyle == nil {
			continue
		}
		numbers = append(numbers, s.HeadingStyle.UsesNumbers)
		emojis = append(emojis, s.HeadingStyle.UsesEmojisInHeadings)
		lengths = append(lengths, float64(s.HeadingStyle.AverageHeadingLength))
	}
	if len(lengths) == 0 {
		return nil
	}
	return &domain.HeadingStyle{
		UsesNumbers:          majority(numbers),
		UsesEmojisInHeadings: majority(emojis),
		AverageHeadingLength: int(math.Round(mean(lengths))),
	}
}

func mergeEngagementStyle(styles []domain.WritingStyle) *domain.EngagementStyle {
	var questions []float64
	var ctas []bool
	var ctaTypes []string
	for _, s := range styles {
		if s.EngagementStyle == nil {
			continue
		}
		questions = append(questions, s.EngagementStyle.QuestionsPerSection)
		ctas = append(ctas, s.EngagementStyle.HasCTA)
		if s.EngagementStyle.CTAType != "" {
			ctaTypes = append(ctaTypes, s.EngagementStyle.CTAType)
		}
	}
	if len(questions) == 0 {
		return nil
	}
	return &domain.EngagementStyle{
		QuestionsPerSection: mean(questions),
		HasCTA:              majority(ctas),
		CTAType:             mode(ctaTypes),
	}
}

func mergeStructurePreferences(styles []domain.WritingStyle) *domain.StructurePreferences {
	var paragraphs []float64
	var bullets, numbered, greeting, closing []bool
	for _, s := range styles {
		p := s.StructurePreferences
		if p == nil {
			continue
		}
		paragraphs = append(paragraphs, p.AverageParagraphLength)
		bullets = append(bullets, p.UsesBulletPoints)
		numbered = append(numbered, p.UsesNumberedLists)
		greeting = append(greeting, p.HasIntroGreeting)
		closing = append(closing, p.HasClosingRemarks)
	}
	if len(paragraphs) == 0 {
		return nil
	}
	return &domain.StructurePreferences{
		AverageParagraphLength: mean(paragraphs),
		UsesBulletPoints:       majority(bullets),
		UsesNumberedLists:      majority(numbered),
		HasIntroGreeting:       majority(greeting),
		HasClosingRemarks:      majority(closing),
	}
}

// overlayStyle copies the non-zero fields of over onto base.
func overlayStyle(base, over domain.WritingStyle) domain.WritingStyle {
	out := base
	if over.Tone != "" {
		out.Tone = over.Tone
	}
	if over.Complexity != "" {
		out.Complexity = over.Complexity
	}
	if over.Perspective != "" {
		out.Perspective = over.Perspective
	}
	if over.AverageSentenceLength > 0 {
		out.AverageSentenceLength = over.AverageSentenceLength
	}
	if over.Vocabulary != "" {
		out.Vocabulary = over.Vocabulary
	}
	if len(over.CommonPhrases) > 0 {
		out.CommonPhrases = over.CommonPhrases
	}
	if over.EmojiUsage != nil {
		out.EmojiUsage = over.EmojiUsage
	}
	if over.KoreanPatterns != nil {
		out.KoreanPatterns = over.KoreanPatterns
	}
	if over.HeadingStyle != nil {
		out.HeadingStyle = over.HeadingStyle
	}
	if over.EngagementStyle != nil {
		out.EngagementStyle = over.EngagementStyle
	}
	if over.StructurePreferences != nil {
		out.StructurePreferences = over.StructurePreferences
	}
	if out.CommonPhrases == nil {
		out.CommonPhrases = []string{}
	}
	return out
}

// mode returns the most frequent value; the earliest value wins ties.
func mode(values []string) string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := "", 0
	for _, v := range values {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// majority is true when strictly more than half of values are true.
func majority(values []bool) bool {
	trues := 0
	for _, v := range values {
		if v {
			trues++
		}
	}
	return trues*2 > len(values)
}

// appendDistinct appends v unless present; limit <= 0 means unbounded.
func appendDistinct(list []string, v string, limit int) []string {
	if limit > 0 && len(list) >= limit {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
