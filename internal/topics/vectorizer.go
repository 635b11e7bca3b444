package topics

import (
	"math"
	"sort"
	"strings"

	"github.com/spacesedan/trendflow/internal/textutil"
)

const (
	MAX_FEATURES = 100
	MIN_DOC_FREQ = 2
)

// Vectorizer turns a window of documents into l2-normalized tf-idf rows over
// a vocabulary of unigrams and bigrams. The vocabulary is rebuilt per window;
// terms are only comparable within one extraction run.
type Vectorizer struct {
	Terms   []string
	termIdx map[string]int
	idf     []float64
}

// termsOf tokenizes a document into its unigrams and bigrams.
func termsOf(text string) []string {
	tokens := textutil.Tokenize(text)
	kept := tokens[:0]
	for _, tok := range tokens {
		if textutil.IsStopWord(tok) || len(tok) <= 1 {
			continue
		}
		kept = append(kept, tok)
	}

	terms := make([]string, 0, len(kept)*2)
	terms = append(terms, kept...)
	for i := 0; i+1 < len(kept); i++ {
		terms = append(terms, kept[i]+" "+kept[i+1])
	}
	return terms
}

// Vectorize fits the vocabulary on docs and returns one row per document.
// Documents whose terms all fall outside the vocabulary produce zero rows.
func Vectorize(docs []string) (*Vectorizer, [][]float64) {
	counts := make([]map[string]int, len(docs))
	docFreq := make(map[string]int)
	totalFreq := make(map[string]int)

	for i, doc := range docs {
		tf := make(map[string]int)
		for _, term := range termsOf(strings.ToLower(doc)) {
			tf[term]++
			totalFreq[term]++
		}
		for term := range tf {
			docFreq[term]++
		}
		counts[i] = tf
	}

	candidates := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= MIN_DOC_FREQ {
			candidates = append(candidates, term)
		}
	}
	// Keep the most frequent terms; alphabetical tie-break keeps the
	// vocabulary stable across identical inputs.
	sort.Slice(candidates, func(i, j int) bool {
		if totalFreq[candidates[i]] != totalFreq[candidates[j]] {
			return totalFreq[candidates[i]] > totalFreq[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > MAX_FEATURES {
		candidates = candidates[:MAX_FEATURES]
	}
	sort.Strings(candidates)

	v := &Vectorizer{
		Terms:   candidates,
		termIdx: make(map[string]int, len(candidates)),
		idf:     make([]float64, len(candidates)),
	}
	for i, term := range candidates {
		v.termIdx[term] = i
		// Smoothed idf, so a term present in every document still carries
		// a small positive weight.
		v.idf[i] = math.Log(float64(1+len(docs))/float64(1+docFreq[term])) + 1
	}

	rows := make([][]float64, len(docs))
	for i, tf := range counts {
		row := make([]float64, len(candidates))
		for term, n := range tf {
			if j, ok := v.termIdx[term]; ok {
				row[j] = float64(n) * v.idf[j]
			}
		}
		normalize(row)
		rows[i] = row
	}
	return v, rows
}

func normalize(row []float64) {
	var sum float64
	for _, x := range row {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range row {
		row[i] /= norm
	}
}
