package signals

import (
	"sort"
	"strings"
	"unicode"

	"github.com/spacesedan/trendflow/internal/textutil"
)

const (
	// MaxKeywords is the default cap on extracted phrases per post.
	MaxKeywords = 10

	minKeywordTextLength = 20
	minPhraseLength      = 3
)

// ExtractKeywords pulls ranked keyword phrases out of normalized text using
// RAKE-style scoring: candidate phrases are the runs of content words between
// stop words and punctuation, ranked by the summed degree/frequency score of
// their member words. Texts under 20 characters carry too little signal and
// yield an empty list.
func ExtractKeywords(text string, maxKeywords int) []string {
	if len(text) < minKeywordTextLength {
		return nil
	}
	if maxKeywords <= 0 {
		maxKeywords = MaxKeywords
	}

	phrases := candidatePhrases(text)
	if len(phrases) == 0 {
		return nil
	}

	// Word co-occurrence scores: degree(w)/freq(w), where degree counts the
	// words sharing a phrase with w (including itself).
	freq := make(map[string]int)
	degree := make(map[string]int)
	for _, phrase := range phrases {
		for _, word := range phrase {
			freq[word]++
			degree[word] += len(phrase)
		}
	}

	type scored struct {
		phrase string
		score  float64
		order  int
	}

	seen := make(map[string]bool)
	ranked := make([]scored, 0, len(phrases))
	for i, phrase := range phrases {
		text := strings.Join(phrase, " ")
		if len(text) < minPhraseLength || seen[text] {
			continue
		}
		seen[text] = true

		var score float64
		for _, word := range phrase {
			score += float64(degree[word]) / float64(freq[word])
		}
		ranked = append(ranked, scored{phrase: text, score: score, order: i})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	if len(ranked) > maxKeywords {
		ranked = ranked[:maxKeywords]
	}

	keywords := make([]string, 0, len(ranked))
	for _, r := range ranked {
		keywords = append(keywords, r.phrase)
	}
	return keywords
}

// candidatePhrases splits text into runs of lowercase content words, breaking
// on punctuation and stop words.
func candidatePhrases(text string) [][]string {
	segments := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' && r != '\''
	})

	var phrases [][]string
	var current []string

	flush := func() {
		if len(current) > 0 {
			phrases = append(phrases, current)
			current = nil
		}
	}

	for _, segment := range segments {
		for _, word := range strings.Fields(segment) {
			word = strings.Trim(word, "'")
			if word == "" || textutil.IsStopWord(word) {
				flush()
				continue
			}
			current = append(current, word)
		}
		flush()
	}
	flush()

	return phrases
}
