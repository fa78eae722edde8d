package domain

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	formalSuffixes         = []string{"니다", "니까", "십시오", "시오"}
	conversationalSuffixes = []string{"요", "죠", "지요"}

	firstPersonMarkers  = []string{"i", "i'm", "i've", "me", "my", "we", "our", "us", "저는", "제가", "저의", "저도", "우리", "나는", "내가"}
	secondPersonMarkers = []string{"you", "your", "you're", "여러분", "당신", "여러분들"}

	empathyMarkers  = []string{"공감", "그렇죠", "맞아요", "걱정", "힘드셨", "어려우셨"}
	greetingMarkers = []string{"안녕하세요", "반갑습니다", "hello", "hi ", "hey", "welcome"}
	closingMarkers  = []string{"감사합니다", "마치며", "마무리", "thanks", "thank you", "in summary", "to wrap up", "conclusion"}

	ctaMarkers = []struct {
		kind     string
		keywords []string
	}{
		{"subscribe", []string{"subscribe", "구독"}},
		{"comment", []string{"comment", "댓글"}},
		{"share", []string{"share", "공유"}},
		{"follow", []string{"follow", "팔로우", "이웃추가"}},
	}

	numberedLineRe = regexp.MustCompile(`^\d+[.)]\s`)
	headingNumRe   = regexp.MustCompile(`^\d+`)
)

// AnalyzeStyle derives a WritingStyle from the text of a single post.
func AnalyzeStyle(content string) WritingStyle {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	var headings, bodyLines []string
	usesBullets, usesNumbered := false, false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "#"):
			headings = append(headings, strings.TrimSpace(strings.TrimLeft(line, "#")))
			bodyLines = append(bodyLines, "")
			continue
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "), strings.HasPrefix(line, "• "):
			usesBullets = true
		case numberedLineRe.MatchString(line):
			usesNumbered = true
		}
		bodyLines = append(bodyLines, line)
	}
	body := strings.Join(bodyLines, "\n")

	sentences := splitSentences(body)
	totalWords := 0
	questions, exclamations := 0, 0
	for _, s := range sentences {
		totalWords += len(strings.Fields(s))
		switch {
		case strings.HasSuffix(s, "?"):
			questions++
		case strings.HasSuffix(s, "!"):
			exclamations++
		}
	}
	avgSentence := 0
	if len(sentences) > 0 {
		avgSentence = int(math.Round(float64(totalWords) / float64(len(sentences))))
	}

	words := normalizedWords(body)
	style := WritingStyle{
		Complexity:            complexityFor(avgSentence),
		Perspective:           perspectiveFor(words),
		AverageSentenceLength: avgSentence,
		Vocabulary:            vocabularyFor(words),
		CommonPhrases:         commonBigrams(words, 10),
	}

	style.EmojiUsage = analyzeEmoji(content, len(sentences))
	style.KoreanPatterns = analyzeKorean(content, sentences)

	lively := len(sentences) > 0 && float64(questions+exclamations)/float64(len(sentences)) > 0.2
	conversationalKorean := style.HasEndingStyle() && style.KoreanPatterns.EndingStyle.ConversationalRatio > 0.5
	switch {
	case lively || conversationalKorean:
		style.Tone = ToneConversational
	case avgSentence >= 25 || style.Vocabulary == VocabularyAdvanced:
		style.Tone = ToneAcademic
	default:
		style.Tone = ToneProfessional
	}

	if len(headings) > 0 {
		style.HeadingStyle = analyzeHeadings(headings)
	}

	paragraphs := splitParagraphs(bodyLines)
	sections := len(headings)
	if sections == 0 {
		sections = 1
	}
	style.EngagementStyle = &EngagementStyle{
		QuestionsPerSection: math.Round(float64(questions)/float64(sections)*100) / 100,
	}
	if cta := detectCTA(paragraphs); cta != "" {
		style.EngagementStyle.HasCTA = true
		style.EngagementStyle.CTAType = cta
	}

	if len(paragraphs) > 0 {
		paraWords := 0
		for _, p := range paragraphs {
			paraWords += len(strings.Fields(p))
		}
		style.StructurePreferences = &StructurePreferences{
			AverageParagraphLength: math.Round(float64(paraWords)/float64(len(paragraphs))*10) / 10,
			UsesBulletPoints:       usesBullets,
			UsesNumberedLists:      usesNumbered,
			HasIntroGreeting:       containsAny(strings.ToLower(paragraphs[0]), greetingMarkers),
			HasClosingRemarks:      containsAny(strings.ToLower(paragraphs[len(paragraphs)-1]), closingMarkers),
		}
	}

	return style
}

func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}
	for _, r := range text {
		if r == '\n' {
			flush()
			continue
		}
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '。' {
			flush()
		}
	}
	flush()
	return sentences
}

func splitParagraphs(lines []string) []string {
	var paragraphs []string
	var current []string
	for _, line := range lines {
		if line == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, strings.Join(current, " "))
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}
	return paragraphs
}

func normalizedWords(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

func complexityFor(avgSentence int) string {
	switch {
	case avgSentence < 10:
		return ComplexityLow
	case avgSentence < 20:
		return ComplexityMedium
	default:
		return ComplexityHigh
	}
}

func vocabularyFor(words []string) string {
	if len(words) == 0 {
		return VocabularyIntermediate
	}
	runes := 0
	for _, w := range words {
		runes += utf8.RuneCountInString(w)
	}
	avg := float64(runes) / float64(len(words))
	switch {
	case avg < 4.5:
		return VocabularyBasic
	case avg < 6:
		return VocabularyIntermediate
	default:
		return VocabularyAdvanced
	}
}

func perspectiveFor(words []string) string {
	first, second := 0, 0
	for _, w := range words {
		if hasMarkerPrefix(w, firstPersonMarkers) {
			first++
		}
		if hasMarkerPrefix(w, secondPersonMarkers) {
			second++
		}
	}
	switch {
	case first > 0 && first >= second:
		return PerspectiveFirstPerson
	case second > 0:
		return PerspectiveSecondPerson
	default:
		return PerspectiveThirdPerson
	}
}

// hasMarkerPrefix matches English markers exactly and Korean markers as
// prefixes, since Korean particles attach to the pronoun.
func hasMarkerPrefix(word string, markers []string) bool {
	for _, m := range markers {
		if word == m {
			return true
		}
		r, _ := utf8.DecodeRuneInString(m)
		if unicode.Is(unicode.Hangul, r) && strings.HasPrefix(word, m) {
			return true
		}
	}
	return false
}

func commonBigrams(words []string, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for i := 0; i+1 < len(words); i++ {
		phrase := words[i] + " " + words[i+1]
		if counts[phrase] == 0 {
			order = append(order, phrase)
		}
		counts[phrase]++
	}
	var phrases []string
	for _, p := range order {
		if counts[p] >= 2 {
			phrases = append(phrases, p)
		}
	}
	sort.SliceStable(phrases, func(i, j int) bool {
		return counts[phrases[i]] > counts[phrases[j]]
	})
	if len(phrases) > limit {
		phrases = phrases[:limit]
	}
	if phrases == nil {
		phrases = []string{}
	}
	return phrases
}

// IsEmoji reports whether r falls in the common emoji blocks.
func IsEmoji(r rune) bool {
	return (r >= 0x1F300 && r <= 0x1FAFF) || (r >= 0x2600 && r <= 0x27BF) || (r >= 0x1F000 && r <= 0x1F2FF)
}

func analyzeEmoji(content string, sentences int) *EmojiUsage {
	counts := make(map[string]int)
	var order []string
	total := 0
	for _, r := range content {
		if !IsEmoji(r) {
			continue
		}
		e := string(r)
		if counts[e] == 0 {
			order = append(order, e)
		}
		counts[e]++
		total++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > 5 {
		order = order[:5]
	}
	if order == nil {
		order = []string{}
	}

	freq := EmojiFrequencyNone
	if total > 0 {
		perSentence := float64(total)
		if sentences > 0 {
			perSentence /= float64(sentences)
		}
		switch {
		case perSentence < 0.1:
			freq = EmojiFrequencyLow
		case perSentence < 0.3:
			freq = EmojiFrequencyMedium
		default:
			freq = EmojiFrequencyHigh
		}
	}
	return &EmojiUsage{Frequency: freq, CommonEmojis: order}
}

// HasHangul reports whether s contains any Hangul syllable or jamo.
func HasHangul(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}

func analyzeKorean(content string, sentences []string) *KoreanPatterns {
	if !HasHangul(content) {
		return nil
	}

	examples := EndingExamples{Formal: []string{}, Conversational: []string{}}
	for _, s := range sentences {
		trimmed := strings.TrimRightFunc(s, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) || IsEmoji(r)
		})
		fields := strings.Fields(trimmed)
		if len(fields) == 0 {
			continue
		}
		last := fields[len(fields)-1]
		if suffix, ok := matchSuffix(last, formalSuffixes); ok {
			examples.FormalCount++
			examples.Formal = appendUnique(examples.Formal, endingOf(last, suffix), 5)
			continue
		}
		if suffix, ok := matchSuffix(last, conversationalSuffixes); ok {
			examples.ConversationalCount++
			examples.Conversational = appendUnique(examples.Conversational, endingOf(last, suffix), 5)
		}
	}

	kp := &KoreanPatterns{
		UsesJondaemal: examples.FormalCount+examples.ConversationalCount > 0,
		UsesGueoChae:  examples.ConversationalCount > 0,
		HasEmpathy:    containsAny(content, empathyMarkers),
	}

	total := examples.FormalCount + examples.ConversationalCount
	if total == 0 {
		return kp
	}
	formal := float64(examples.FormalCount) / float64(total)
	kp.EndingStyle = &EndingStyle{
		FormalRatio:         formal,
		ConversationalRatio: 1 - formal,
		DominantEnding:      dominantEndingFor(formal),
		UsageContext: UsageContext{
			FormalContexts:         DefaultFormalContexts(),
			ConversationalContexts: DefaultConversationalContexts(),
		},
		Examples: examples,
	}
	return kp
}

func dominantEndingFor(formal float64) string {
	switch {
	case formal >= FormalDominanceThreshold:
		return DominantEndingFormal
	case formal <= 1-FormalDominanceThreshold:
		return DominantEndingConversational
	default:
		return DominantEndingMixed
	}
}

func matchSuffix(word string, suffixes []string) (string, bool) {
	for _, s := range suffixes {
		if strings.HasSuffix(word, s) {
			return s, true
		}
	}
	return "", false
}

// endingOf returns the suffix plus one preceding syllable, e.g. "습니다" or "해요".
func endingOf(word, suffix string) string {
	stem := []rune(strings.TrimSuffix(word, suffix))
	if len(stem) == 0 {
		return suffix
	}
	return string(stem[len(stem)-1]) + suffix
}

func analyzeHeadings(headings []string) *HeadingStyle {
	numbered, withEmoji, runes := 0, 0, 0
	for _, h := range headings {
		if headingNumRe.MatchString(h) {
			numbered++
		}
		if strings.IndexFunc(h, IsEmoji) >= 0 {
			withEmoji++
		}
		runes += utf8.RuneCountInString(h)
	}
	return &HeadingStyle{
		UsesNumbers:          numbered*2 > len(headings),
		UsesEmojisInHeadings: withEmoji > 0,
		AverageHeadingLength: int(math.Round(float64(runes) / float64(len(headings)))),
	}
}

func detectCTA(paragraphs []string) string {
	start := len(paragraphs) - 3
	if start < 0 {
		start = 0
	}
	tail := strings.ToLower(strings.Join(paragraphs[start:], " "))
	for _, m := range ctaMarkers {
		if containsAny(tail, m.keywords) {
			return m.kind
		}
	}
	return ""
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, v string, limit int) []string {
	if len(list) >= limit {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
