package textutil

import (
	"strings"
	"unicode"
)

// Tokenize splits text into lowercase word tokens, dropping punctuation.
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	splitter := func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}

	return strings.FieldsFunc(text, splitter)
}

// IsStopWord reports whether the lowercase token is an english stop word.
func IsStopWord(word string) bool {
	return stopWords[word]
}

var stopWords = buildStopWords()

func buildStopWords() map[string]bool {
	words := []string{
		"the", "a", "an", "and", "or", "but", "if", "in", "on", "at", "to",
		"for", "of", "with", "by", "from", "as", "is", "was", "are", "were",
		"been", "be", "being", "have", "has", "had", "do", "does", "did",
		"will", "would", "could", "should", "may", "might", "must", "shall",
		"can", "cannot", "need", "ought", "about", "above", "after", "again",
		"against", "because", "before", "below", "between", "both", "during",
		"each", "few", "further", "into", "more", "most", "other", "out",
		"over", "own", "same", "some", "such", "than", "then", "through",
		"under", "until", "up", "down", "while", "this", "that", "these",
		"those", "i", "me", "my", "we", "our", "you", "your", "he", "him",
		"his", "she", "her", "it", "its", "they", "them", "their", "what",
		"which", "who", "whom", "whose", "where", "when", "why", "how",
		"all", "any", "every", "no", "nor", "not", "only", "so", "too",
		"very", "just", "also", "now", "here", "there", "am", "itself",
		"himself", "herself", "themselves", "myself", "yourself", "off",
		"once", "don", "t", "s", "re", "ve", "ll", "d", "m",
	}

	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
