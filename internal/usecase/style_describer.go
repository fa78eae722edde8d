package usecase

import (
	"fmt"
	"strings"

	"blog-agent/internal/domain"
)

const describedPhraseLimit = 5

// DescribeStyle renders a writing style as prompt guidance. Each populated
// optional sub-profile contributes one block.
func DescribeStyle(style domain.WritingStyle) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("- Tone: %s, written from a %s perspective.\n", orUnset(style.Tone), orUnset(style.Perspective)))
	b.WriteString(fmt.Sprintf("- Complexity: %s, with sentences averaging about %d words and %s vocabulary.\n",
		orUnset(style.Complexity), style.AverageSentenceLength, orUnset(style.Vocabulary)))

	if len(style.CommonPhrases) > 0 {
		phrases := style.CommonPhrases
		if len(phrases) > describedPhraseLimit {
			phrases = phrases[:describedPhraseLimit]
		}
		b.WriteString(fmt.Sprintf("- Signature expressions: %s\n", quoteJoin(phrases)))
	}

	if e := style.EmojiUsage; e != nil {
		if e.Frequency == domain.EmojiFrequencyNone || len(e.CommonEmojis) == 0 {
			b.WriteString(fmt.Sprintf("- Emoji usage: %s.\n", e.Frequency))
		} else {
			b.WriteString(fmt.Sprintf("- Emoji usage: %s, favoring %s.\n", e.Frequency, strings.Join(e.CommonEmojis, " ")))
		}
	}

	if k := style.KoreanPatterns; k != nil {
		b.WriteString("\n")
		if k.EndingStyle != nil {
			writeEndingStyle(&b, k.EndingStyle)
		} else {
			writeLegacyKorean(&b, k)
		}
	}

	if h := style.HeadingStyle; h != nil {
		b.WriteString("\n- Headings: ")
		var parts []string
		if h.UsesNumbers {
			parts = append(parts, "numbered")
		}
		if h.UsesEmojisInHeadings {
			parts = append(parts, "decorated with emojis")
		}
		parts = append(parts, fmt.Sprintf("about %d characters long", h.AverageHeadingLength))
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(".\n")
	}

	if e := style.EngagementStyle; e != nil {
		b.WriteString(fmt.Sprintf("- Engagement: about %.1f reader questions per section", e.QuestionsPerSection))
		if e.HasCTA {
			cta := e.CTAType
			if cta == "" {
				cta = "general"
			}
			b.WriteString(fmt.Sprintf("; closes with a %s call to action", cta))
		}
		b.WriteString(".\n")
	}

	if p := style.StructurePreferences; p != nil {
		b.WriteString(fmt.Sprintf("- Structure: paragraphs of about %.0f sentences", p.AverageParagraphLength))
		if p.UsesBulletPoints {
			b.WriteString(", bullet points")
		}
		if p.UsesNumberedLists {
			b.WriteString(", numbered lists")
		}
		if p.HasIntroGreeting {
			b.WriteString(", opens with a greeting")
		}
		if p.HasClosingRemarks {
			b.WriteString(", ends with closing remarks")
		}
		b.WriteString(".\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeEndingStyle(b *strings.Builder, e *domain.EndingStyle) {
	formalPct := percent(e.FormalRatio)
	conversationalPct := percent(e.ConversationalRatio)

	b.WriteString("Korean sentence endings:\n")
	b.WriteString(fmt.Sprintf("- Formal endings (-습니다/-입니다): %d%%\n", formalPct))
	b.WriteString(fmt.Sprintf("- Conversational endings (-요/-죠): %d%%\n", conversationalPct))
	b.WriteString(fmt.Sprintf("- Dominant register: %s\n", e.DominantEnding))
	if n := e.Examples.FormalCount + e.Examples.ConversationalCount; n > 0 {
		b.WriteString(fmt.Sprintf("- Detected endings: %d formal, %d conversational\n", e.Examples.FormalCount, e.Examples.ConversationalCount))
	}
	if len(e.UsageContext.FormalContexts) > 0 {
		b.WriteString(fmt.Sprintf("- Use formal endings for: %s\n", strings.Join(e.UsageContext.FormalContexts, ", ")))
	}
	if len(e.UsageContext.ConversationalContexts) > 0 {
		b.WriteString(fmt.Sprintf("- Use conversational endings for: %s\n", strings.Join(e.UsageContext.ConversationalContexts, ", ")))
	}

	formalExamples := e.Examples.Formal
	if len(formalExamples) == 0 {
		formalExamples = []string{"이 기능은 데이터를 자동으로 정리합니다.", "설정 방법은 다음과 같습니다."}
	}
	conversationalExamples := e.Examples.Conversational
	if len(conversationalExamples) == 0 {
		conversationalExamples = []string{"처음엔 어렵게 느껴질 수 있어요.", "걱정하지 않으셔도 괜찮아요."}
	}
	b.WriteString(fmt.Sprintf("- Formal example: %s\n", quoteJoin(formalExamples)))
	b.WriteString(fmt.Sprintf("- Conversational example: %s\n", quoteJoin(conversationalExamples)))
	b.WriteString(fmt.Sprintf("- Out of every 10 sentences, write about %d with formal endings and %d with conversational endings.\n",
		(formalPct+5)/10, 10-(formalPct+5)/10))
}

func writeLegacyKorean(b *strings.Builder, k *domain.KoreanPatterns) {
	b.WriteString("Korean writing patterns:\n")
	if k.UsesJondaemal {
		b.WriteString("- Uses polite speech (존댓말)\n")
	} else {
		b.WriteString("- Uses plain speech (반말)\n")
	}
	if k.UsesGueoChae {
		b.WriteString("- Uses spoken-style phrasing (구어체)\n")
	}
	if k.HasEmpathy {
		b.WriteString("- Includes empathetic expressions toward the reader\n")
	}
}

func percent(ratio float64) int {
	return int(ratio*100 + 0.5)
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}

func orUnset(s string) string {
	if s == "" {
		return "unspecified"
	}
	return s
}
