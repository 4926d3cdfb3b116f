package domain

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// sentenceEndRe splits text on runs of sentence terminators.
	sentenceEndRe = regexp.MustCompile(`[.!?]+`)

	// wordRe tokenizes text into word characters for frequency scoring.
	wordRe = regexp.MustCompile(`\w+`)
)

// stopWords are excluded from frequency scoring. Short connective words
// would otherwise dominate the counts and flatten sentence rankings.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {},
}

type scoredSentence struct {
	text  string
	score float64
	order int
}

// Summarize produces an extractive summary: sentences are scored by the mean
// corpus frequency of their words and the top scorers are re-emitted in their
// original order. Text of two sentences or fewer comes back verbatim, as does
// any summary that would undershoot minLength. A summary over maxLength is
// cut at the last word boundary and suffixed with "...".
func Summarize(text string, maxLength, minLength int) string {
	sentences := splitSentences(text)
	if len(sentences) <= 2 {
		return text
	}

	freq := wordFrequency(text)

	// Duplicate sentences collapse to their first occurrence before ranking.
	seen := make(map[string]struct{}, len(sentences))
	unique := make([]scoredSentence, 0, len(sentences))
	for _, s := range sentences {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		unique = append(unique, scoredSentence{text: s, score: scoreSentence(s, freq), order: len(unique)})
	}

	// Half the sentence count, clamped to one through three. The count
	// includes duplicates so repetitive text still summarizes down.
	limit := max(1, min(3, len(sentences)/2))
	limit = min(limit, len(unique))

	ranked := make([]scoredSentence, len(unique))
	copy(ranked, unique)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	keep := make(map[int]struct{}, limit)
	for _, s := range ranked[:limit] {
		keep[s.order] = struct{}{}
	}

	selected := make([]string, 0, limit)
	for _, s := range unique {
		if _, ok := keep[s.order]; ok {
			selected = append(selected, s.text)
		}
	}

	summary := strings.Join(selected, " ")
	if len(summary) > maxLength {
		summary = truncateAtWord(summary, maxLength)
	}
	if len(summary) < minLength {
		return text
	}
	return summary
}

// splitSentences breaks text on sentence terminators, trimming whitespace
// and dropping empty fragments.
func splitSentences(text string) []string {
	parts := sentenceEndRe.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// wordFrequency counts word occurrences across the whole text, skipping stop
// words and words of two characters or fewer.
func wordFrequency(text string) map[string]int {
	freq := make(map[string]int)
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) <= 2 {
			continue
		}
		if _, ok := stopWords[w]; ok {
			continue
		}
		freq[w]++
	}
	return freq
}

// scoreSentence is the mean corpus frequency of the sentence's words.
// Stop words score zero but still count toward the mean's denominator.
func scoreSentence(sentence string, freq map[string]int) float64 {
	words := wordRe.FindAllString(strings.ToLower(sentence), -1)
	if len(words) == 0 {
		return 0
	}
	total := 0
	for _, w := range words {
		total += freq[w]
	}
	return float64(total) / float64(len(words))
}

// truncateAtWord cuts s at maxLength, backs up to the previous word
// boundary, and marks the cut with an ellipsis.
func truncateAtWord(s string, maxLength int) string {
	cut := s[:maxLength]
	if i := strings.LastIndex(cut, " "); i >= 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
