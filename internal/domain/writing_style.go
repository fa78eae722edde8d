package domain

// Tone values produced by the style analyzer.
const (
	ToneConversational = "conversational"
	ToneAcademic       = "academic"
	ToneProfessional   = "professional"
)

// Complexity values.
const (
	ComplexityLow    = "low"
	ComplexityMedium = "medium"
	ComplexityHigh   = "high"
)

// Perspective values.
const (
	PerspectiveFirstPerson  = "first-person"
	PerspectiveSecondPerson = "second-person"
	PerspectiveThirdPerson  = "third-person"
)

// Vocabulary values.
const (
	VocabularyBasic        = "basic"
	VocabularyIntermediate = "intermediate"
	VocabularyAdvanced     = "advanced"
)

// Emoji frequency values.
const (
	EmojiFrequencyNone   = "none"
	EmojiFrequencyLow    = "low"
	EmojiFrequencyMedium = "medium"
	EmojiFrequencyHigh   = "high"
)

// Dominant Korean sentence-ending classifications.
const (
	DominantEndingFormal         = "formal"
	DominantEndingConversational = "conversational"
	DominantEndingMixed          = "mixed"
)

// WritingStyle is the stylistic fingerprint of one or more reference posts.
type WritingStyle struct {
	Tone                  string   `json:"tone" yaml:"tone"`
	Complexity            string   `json:"complexity" yaml:"complexity"`
	Perspective           string   `json:"perspective" yaml:"perspective"`
	AverageSentenceLength int      `json:"average_sentence_length" yaml:"average_sentence_length"`
	Vocabulary            string   `json:"vocabulary" yaml:"vocabulary"`
	CommonPhrases         []string `json:"common_phrases" yaml:"common_phrases"`

	EmojiUsage           *EmojiUsage           `json:"emoji_usage,omitempty" yaml:"emoji_usage,omitempty"`
	KoreanPatterns       *KoreanPatterns       `json:"korean_patterns,omitempty" yaml:"korean_patterns,omitempty"`
	KoreanPreferences    *KoreanPreferences    `json:"korean_preferences,omitempty" yaml:"korean_preferences,omitempty"`
	HeadingStyle         *HeadingStyle         `json:"heading_style,omitempty" yaml:"heading_style,omitempty"`
	EngagementStyle      *EngagementStyle      `json:"engagement_style,omitempty" yaml:"engagement_style,omitempty"`
	StructurePreferences *StructurePreferences `json:"structure_preferences,omitempty" yaml:"structure_preferences,omitempty"`
}

// EmojiUsage describes how often and which emojis a writer uses.
type EmojiUsage struct {
	Frequency    string   `json:"frequency" yaml:"frequency"`
	CommonEmojis []string `json:"common_emojis" yaml:"common_emojis"`
}

// KoreanPatterns is the Korean-language sub-profile. EndingStyle is the
// ratio-based profile; the boolean fields are kept for older stored styles
// that predate it.
type KoreanPatterns struct {
	EndingStyle *EndingStyle `json:"ending_style,omitempty" yaml:"ending_style,omitempty"`

	UsesJondaemal bool `json:"uses_jondaemal" yaml:"uses_jondaemal"`
	UsesGueoChae  bool `json:"uses_gueo_chae" yaml:"uses_gueo_chae"`
	HasEmpathy    bool `json:"has_empathy" yaml:"has_empathy"`
}

// EndingStyle holds the formal/conversational sentence-ending split.
// FormalRatio + ConversationalRatio == 1.
type EndingStyle struct {
	FormalRatio         float64        `json:"formal_ratio" yaml:"formal_ratio"`
	ConversationalRatio float64        `json:"conversational_ratio" yaml:"conversational_ratio"`
	DominantEnding      string         `json:"dominant_ending" yaml:"dominant_ending"`
	UsageContext        UsageContext   `json:"usage_context" yaml:"usage_context"`
	Examples            EndingExamples `json:"examples" yaml:"examples"`
}

// UsageContext lists which textual contexts favor which register.
type UsageContext struct {
	FormalContexts         []string `json:"formal_contexts" yaml:"formal_contexts"`
	ConversationalContexts []string `json:"conversational_contexts" yaml:"conversational_contexts"`
}

// EndingExamples carries concrete detected endings and how often each register occurred.
type EndingExamples struct {
	Formal              []string `json:"formal" yaml:"formal"`
	Conversational      []string `json:"conversational" yaml:"conversational"`
	FormalCount         int      `json:"formal_count" yaml:"formal_count"`
	ConversationalCount int      `json:"conversational_count" yaml:"conversational_count"`
}

// KoreanPreferences is a user-supplied override policy for the formal ending ratio.
type KoreanPreferences struct {
	PreferFormalEndings       bool     `json:"prefer_formal_endings" yaml:"prefer_formal_endings"`
	TargetFormalRatio         *float64 `json:"target_formal_ratio,omitempty" yaml:"target_formal_ratio,omitempty"`
	EnforceMinimumFormalRatio *float64 `json:"enforce_minimum_formal_ratio,omitempty" yaml:"enforce_minimum_formal_ratio,omitempty"`
}

// DefaultTargetFormalRatio is used when preferences do not name a target.
const DefaultTargetFormalRatio = 0.85

// FormalDominanceThreshold is the ratio at which the formal register is considered dominant.
const FormalDominanceThreshold = 0.8

// Target returns the configured target formal ratio or the default.
func (p *KoreanPreferences) Target() float64 {
	if p == nil || p.TargetFormalRatio == nil {
		return DefaultTargetFormalRatio
	}
	return *p.TargetFormalRatio
}

// HeadingStyle describes heading conventions.
type HeadingStyle struct {
	UsesNumbers          bool `json:"uses_numbers" yaml:"uses_numbers"`
	UsesEmojisInHeadings bool `json:"uses_emojis_in_headings" yaml:"uses_emojis_in_headings"`
	AverageHeadingLength int  `json:"average_heading_length" yaml:"average_heading_length"`
}

// EngagementStyle describes how a writer engages readers.
type EngagementStyle struct {
	QuestionsPerSection float64 `json:"questions_per_section" yaml:"questions_per_section"`
	HasCTA              bool    `json:"has_cta" yaml:"has_cta"`
	CTAType             string  `json:"cta_type,omitempty" yaml:"cta_type,omitempty"`
}

// StructurePreferences describes paragraph and list habits.
type StructurePreferences struct {
	AverageParagraphLength float64 `json:"average_paragraph_length" yaml:"average_paragraph_length"`
	UsesBulletPoints       bool    `json:"uses_bullet_points" yaml:"uses_bullet_points"`
	UsesNumberedLists      bool    `json:"uses_numbered_lists" yaml:"uses_numbered_lists"`
	HasIntroGreeting       bool    `json:"has_intro_greeting" yaml:"has_intro_greeting"`
	HasClosingRemarks      bool    `json:"has_closing_remarks" yaml:"has_closing_remarks"`
}

// HasEndingStyle reports whether the style carries a ratio-based Korean ending profile.
func (s WritingStyle) HasEndingStyle() bool {
	return s.KoreanPatterns != nil && s.KoreanPatterns.EndingStyle != nil
}

// PrefersFormalEndings reports whether the override policy demands formal endings.
func (s WritingStyle) PrefersFormalEndings() bool {
	return s.KoreanPreferences != nil && s.KoreanPreferences.PreferFormalEndings
}

// DefaultFormalContexts are the contexts where formal endings are expected.
func DefaultFormalContexts() []string {
	return []string{"정보 전달", "설명", "결론", "기술적 내용"}
}

// DefaultConversationalContexts are the contexts where conversational endings are acceptable.
func DefaultConversationalContexts() []string {
	return []string{"예시", "공감 표현", "독자 안심"}
}
