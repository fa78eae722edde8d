package usecase

import (
	"fmt"
	"strings"

	"blog-agent/internal/domain"
)

// NoPlatformGuidance is returned when no target platform is selected.
const NoPlatformGuidance = "No target platform is selected. Follow the user's writing style described above as-is, without platform-specific adjustments."

const signatureKoreanPhraseLimit = 3

// guidanceInput is what every guidance rule is evaluated against.
type guidanceInput struct {
	style    domain.WritingStyle
	rules    domain.PlatformRules
	platform domain.Platform
}

// guidanceRule emits one instruction fragment when its condition holds.
// A nil when means the rule always applies.
type guidanceRule struct {
	name   string
	when   func(in guidanceInput) bool
	render func(in guidanceInput) string
}

var commonGuidanceRules = []guidanceRule{
	{
		name: "priority",
		render: func(guidanceInput) string {
			return `## Priority
1. Platform rules come first: structure, headings and length requirements of the target platform are mandatory.
2. The user's voice comes second: keep the tone, expressions and sentence rhythm described in the writing style.
3. When the two conflict, keep the platform's structure and express it in the user's voice.`
		},
	},
	{
		name: "structure",
		render: func(guidanceInput) string {
			return `## Mandatory structure
- Begin the post with a table of contents containing exactly 3 entries.
- Each table of contents entry must match one main section heading in the body, in the same order.`
		},
	},
	{
		name: "expert_teacher_tone",
		render: func(guidanceInput) string {
			return `## Expert-teacher tone
- Write as an experienced practitioner teaching a motivated learner.
- Define each technical term the first time it appears.
- Back every claim with a concrete example, number or step.
- Keep paragraphs short and move from concept to practice.`
		},
	},
}

var formalEndingRules = []guidanceRule{
	{
		name: "formal_endings_enforced",
		when: func(in guidanceInput) bool { return in.style.HasEndingStyle() && in.style.PrefersFormalEndings() },
		render: func(in guidanceInput) string {
			target := percent(in.style.KoreanPreferences.Target())
			return fmt.Sprintf(`## Sentence endings (strict)
- Write %d%% of sentences with formal endings (-습니다/-입니다) and at most %d%% with conversational endings (-요/-죠).
- Formal: "이 설정은 성능을 크게 개선합니다." / "다음 단계는 배포입니다."
- Conversational: "처음엔 헷갈릴 수 있어요."
- Limit conversational endings to examples and reassuring the reader. Everything else uses formal endings.`,
				target, 100-target)
		},
	},
	{
		name: "formal_endings_preserved",
		when: func(in guidanceInput) bool { return in.style.HasEndingStyle() && !in.style.PrefersFormalEndings() },
		render: func(in guidanceInput) string {
			e := in.style.KoreanPatterns.EndingStyle
			return fmt.Sprintf(`## Sentence endings (preserve)
- Keep the user's detected mix: about %d%% formal endings and %d%% conversational endings.
- Formal endings for: %s
- Conversational endings for: %s
- Do not shift the ratio toward a fixed target.`,
				percent(e.FormalRatio), percent(e.ConversationalRatio),
				joinOrNone(e.UsageContext.FormalContexts), joinOrNone(e.UsageContext.ConversationalContexts))
		},
	},
}

var naverGuidanceRules = []guidanceRule{
	{
		name: "no_emojis",
		when: func(in guidanceInput) bool { return emojiFrequency(in.style) == domain.EmojiFrequencyNone },
		render: func(guidanceInput) string {
			return "## Emojis\n- Use no emojis at all, even though emojis are common on this platform. The user does not use them."
		},
	},
	{
		name: "emoji_density",
		when: func(in guidanceInput) bool {
			freq := emojiFrequency(in.style)
			return freq != "" && freq != domain.EmojiFrequencyNone
		},
		render: func(in guidanceInput) string {
			freq := emojiFrequency(in.style)
			line := fmt.Sprintf("## Emojis\n- Match the user's %s emoji frequency.", freq)
			if in.style.EmojiUsage != nil && len(in.style.EmojiUsage.CommonEmojis) > 0 {
				line += " Prefer " + strings.Join(in.style.EmojiUsage.CommonEmojis, " ") + "."
			}
			if in.rules.EmojiNorm != "" {
				line += "\n- Platform norm: " + in.rules.EmojiNorm
			}
			return line
		},
	},
	{
		name: "emoji_unrecorded",
		when: func(in guidanceInput) bool { return emojiFrequency(in.style) == "" },
		render: func(in guidanceInput) string {
			line := "## Emojis\n- No emoji habit was recorded for the user. Use emojis sparingly."
			if in.rules.EmojiNorm != "" {
				line += "\n- Platform norm: " + in.rules.EmojiNorm
			}
			return line
		},
	},
	{
		name: "greeting_and_cta",
		render: func(guidanceInput) string {
			return `## Opening and closing
- Open with a greeting to the reader, following the opening example.
- Close with a short summary and a call to action asking for likes and comments, following the closing example.`
		},
	},
	{
		name: "signature_phrases",
		when: func(in guidanceInput) bool { return len(koreanPhrases(in.style)) > 0 },
		render: func(in guidanceInput) string {
			return "## Signature expressions\n- Work these expressions in naturally: " + quoteJoin(koreanPhrases(in.style))
		},
	},
}

var mediumGuidanceRules = []guidanceRule{
	{
		name: "academic_tone",
		when: func(in guidanceInput) bool { return in.style.Tone == domain.ToneAcademic },
		render: func(guidanceInput) string {
			return "## Tone\n- Raise formality one step above the platform default: precise terminology, measured claims, cited sources."
		},
	},
	{
		name: "professional_tone",
		when: func(in guidanceInput) bool { return in.style.Tone != domain.ToneAcademic },
		render: func(guidanceInput) string {
			return "## Tone\n- Professional and direct. Keep the user's voice but avoid slang."
		},
	},
	{
		name: "advanced_vocabulary",
		when: func(in guidanceInput) bool { return in.style.Vocabulary == domain.VocabularyAdvanced },
		render: func(guidanceInput) string {
			return "## Vocabulary\n- Advanced vocabulary is allowed. Explain each specialized term inline on first use."
		},
	},
	{
		name: "bullet_points",
		when: func(in guidanceInput) bool {
			return in.style.StructurePreferences != nil && in.style.StructurePreferences.UsesBulletPoints
		},
		render: func(guidanceInput) string {
			return "## Lists\n- Use bullet points for steps, options and key takeaways."
		},
	},
	{
		name: "seo",
		render: func(in guidanceInput) string {
			heading := in.rules.HeadingFormat
			if heading == "" {
				heading = "H2 headings"
			}
			return fmt.Sprintf("## SEO\n- Headings: %s\n- Put the main keyword in the title, the first paragraph and at least one heading.", heading)
		},
	},
}

// GenerateStyleGuidance reconciles a writing style with the content rules of
// a target platform. It is pure and evaluates its rule tables in order.
func GenerateStyleGuidance(style domain.WritingStyle, rules domain.PlatformRules, platform domain.Platform) string {
	var platformRules []guidanceRule
	switch platform {
	case domain.PlatformNaver:
		platformRules = append(append([]guidanceRule{}, formalEndingRules...), naverGuidanceRules...)
	case domain.PlatformMedium:
		platformRules = append(append([]guidanceRule{}, formalEndingRules...), mediumGuidanceRules...)
	default:
		return NoPlatformGuidance
	}

	in := guidanceInput{style: style, rules: rules, platform: platform}
	fragments := evaluateGuidance(commonGuidanceRules, in)
	fragments = append(fragments, evaluateGuidance(platformRules, in)...)
	return strings.Join(fragments, "\n\n")
}

func evaluateGuidance(rules []guidanceRule, in guidanceInput) []string {
	var out []string
	for _, r := range rules {
		if r.when != nil && !r.when(in) {
			continue
		}
		out = append(out, r.render(in))
	}
	return out
}

// emojiFrequency returns "" for a style without a recorded emoji profile.
func emojiFrequency(style domain.WritingStyle) string {
	if style.EmojiUsage == nil {
		return ""
	}
	return style.EmojiUsage.Frequency
}

func koreanPhrases(style domain.WritingStyle) []string {
	var out []string
	for _, p := range style.CommonPhrases {
		if domain.HasHangul(p) {
			out = append(out, p)
			if len(out) == signatureKoreanPhraseLimit {
				break
			}
		}
	}
	return out
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none specified"
	}
	return strings.Join(values, ", ")
}
