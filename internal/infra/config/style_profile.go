package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"blog-agent/internal/domain"
)

// StyleProfile is the optional YAML file that seeds the style aggregator and
// overrides built-in platform rules.
//
//	default_style:
//	  tone: conversational
//	preferences:
//	  perspective: first-person
//	korean_preferences:
//	  prefer_formal_endings: true
//	  target_formal_ratio: 0.9
//	platforms:
//	  - platform: naver
//	    max_words: 2000
type StyleProfile struct {
	DefaultStyle      *domain.WritingStyle      `yaml:"default_style"`
	Preferences       domain.WritingStyle       `yaml:"preferences"`
	KoreanPreferences *domain.KoreanPreferences `yaml:"korean_preferences"`
	Platforms         []domain.PlatformRules    `yaml:"platforms"`
}

// LoadStyleProfile reads a profile. An empty path yields an empty profile.
func LoadStyleProfile(path string) (*StyleProfile, error) {
	profile := &StyleProfile{}
	if path == "" {
		return profile, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read style profile: %w", err)
	}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse style profile %s: %w", path, err)
	}
	if err := profile.validate(); err != nil {
		return nil, fmt.Errorf("invalid style profile %s: %w", path, err)
	}
	return profile, nil
}

func (p *StyleProfile) validate() error {
	if k := p.KoreanPreferences; k != nil {
		for name, v := range map[string]*float64{
			"target_formal_ratio":          k.TargetFormalRatio,
			"enforce_minimum_formal_ratio": k.EnforceMinimumFormalRatio,
		} {
			if v != nil && (*v < 0 || *v > 1) {
				return fmt.Errorf("%s must be within [0, 1], got %v", name, *v)
			}
		}
	}
	for _, r := range p.Platforms {
		if domain.ParsePlatform(string(r.Platform)) != r.Platform {
			return fmt.Errorf("unknown platform %q", r.Platform)
		}
	}
	return nil
}

// PlatformRules returns base with the profile's platform entries replacing
// the built-in ones field by field.
func (p *StyleProfile) PlatformRules(base map[domain.Platform]domain.PlatformRules) map[domain.Platform]domain.PlatformRules {
	out := make(map[domain.Platform]domain.PlatformRules, len(base))
	for k, v := range base {
		out[k] = v
	}
	for _, o := range p.Platforms {
		r := out[o.Platform]
		r.Platform = o.Platform
		setIf(&r.Language, o.Language)
		setIf(&r.Tone, o.Tone)
		setIf(&r.Perspective, o.Perspective)
		setIf(&r.HeadingFormat, o.HeadingFormat)
		setIf(&r.EmojiNorm, o.EmojiNorm)
		setIf(&r.OpeningTemplate, o.OpeningTemplate)
		setIf(&r.ClosingTemplate, o.ClosingTemplate)
		if o.MinWords > 0 {
			r.MinWords = o.MinWords
		}
		if o.MaxWords > 0 {
			r.MaxWords = o.MaxWords
		}
		out[o.Platform] = r
	}
	return out
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
