package domain

import (
	"fmt"
	"strings"
)

// Platform identifies the publishing surface a post is written for.
type Platform string

const (
	PlatformNone   Platform = "none"
	PlatformNaver  Platform = "naver"
	PlatformMedium Platform = "medium"
)

// ParsePlatform normalizes a platform identifier. Unknown or empty values map to PlatformNone.
func ParsePlatform(s string) Platform {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformNaver:
		return PlatformNaver
	case PlatformMedium:
		return PlatformMedium
	default:
		return PlatformNone
	}
}

// PlatformRules is a fixed per-platform content-rule record.
type PlatformRules struct {
	Platform      Platform `yaml:"platform"`
	Language      string   `yaml:"language"`
	Tone          string   `yaml:"tone"`
	Perspective   string   `yaml:"perspective"`
	HeadingFormat string   `yaml:"heading_format"`
	EmojiNorm     string   `yaml:"emoji_norm"`
	MinWords      int      `yaml:"min_words"`
	MaxWords      int      `yaml:"max_words"`
	// Opening and closing templates may reference {topic} and {audience}.
	OpeningTemplate string `yaml:"opening_template"`
	ClosingTemplate string `yaml:"closing_template"`
}

// OpeningExample renders the literal opening example for a request.
func (r PlatformRules) OpeningExample(req ContentRequest) string {
	return renderExample(r.OpeningTemplate, req)
}

// ClosingExample renders the literal closing example for a request.
func (r PlatformRules) ClosingExample(req ContentRequest) string {
	return renderExample(r.ClosingTemplate, req)
}

func renderExample(tmpl string, req ContentRequest) string {
	audience := req.TargetAudience
	if audience == "" {
		audience = "readers"
	}
	return strings.NewReplacer("{topic}", req.Topic, "{audience}", audience).Replace(tmpl)
}

// WordBounds returns the target word range for a length preset, letting
// platform bounds narrow the preset when set.
func (r PlatformRules) WordBounds(length string) (int, int) {
	lo, hi := LengthBounds(length)
	if r.MinWords > 0 && r.MinWords > lo {
		lo = r.MinWords
	}
	if r.MaxWords > 0 && r.MaxWords < hi {
		hi = r.MaxWords
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

// LengthBounds maps a length preset to word bounds. Unknown presets are medium.
func LengthBounds(length string) (int, int) {
	switch strings.ToLower(length) {
	case LengthShort:
		return 800, 1200
	case LengthLong:
		return 3000, 4500
	default:
		return 1500, 2500
	}
}

// DefaultPlatformRules returns the built-in content rules keyed by platform.
func DefaultPlatformRules() map[Platform]PlatformRules {
	return map[Platform]PlatformRules{
		PlatformNone: {
			Platform:        PlatformNone,
			Language:        "auto",
			OpeningTemplate: "",
			ClosingTemplate: "",
		},
		PlatformNaver: {
			Platform:        PlatformNaver,
			Language:        "ko",
			Tone:            "친근하지만 전문적인 설명체",
			Perspective:     PerspectiveFirstPerson,
			HeadingFormat:   "## 1. 소제목 형식의 번호 매긴 헤딩",
			EmojiNorm:       "헤딩과 핵심 문장에 이모지를 적당히 사용",
			MinWords:        0,
			MaxWords:        0,
			OpeningTemplate: "안녕하세요! 오늘은 {audience}분들을 위해 {topic}에 대해 알아보겠습니다.",
			ClosingTemplate: "오늘 {topic}에 대해 알아봤습니다. 도움이 되셨다면 공감과 댓글 부탁드립니다!",
		},
		PlatformMedium: {
			Platform:        PlatformMedium,
			Language:        "en",
			Tone:            ToneProfessional,
			Perspective:     PerspectiveFirstPerson,
			HeadingFormat:   "## Title Case H2 headings with keyword-rich phrasing",
			EmojiNorm:       "no emojis in headings",
			OpeningTemplate: "If you work with {topic}, this guide walks {audience} through what matters and why.",
			ClosingTemplate: "That is the core of {topic}. Follow for more practical guides, and share your experience in the comments.",
		},
	}
}

// RulesFor returns the rules for a platform, falling back to PlatformNone.
func RulesFor(rules map[Platform]PlatformRules, p Platform) (PlatformRules, error) {
	if r, ok := rules[p]; ok {
		return r, nil
	}
	if r, ok := rules[PlatformNone]; ok {
		return r, nil
	}
	return PlatformRules{}, fmt.Errorf("no content rules for platform %q", p)
}
