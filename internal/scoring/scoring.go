// Package scoring computes bag-of-words similarity between resume text and reference keywords.
package scoring

import (
	"math"
	"strings"
)

// Score returns the cosine similarity between the filtered words of text and
// the keyword list, as a percentage in [0, 100] rounded to two decimals.
//
// Text is lowercased before comparison; keywords are used as given, so a
// capitalised keyword never matches. Keyword order does not matter.
// Whitespace-only text scores 0.
func Score(text string, keywords []string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	textDoc := strings.Join(FilterTokens(text), " ")
	keywordDoc := strings.Join(keywords, " ")

	a, b := countVectors(terms(textDoc), terms(keywordDoc))
	return roundTo2(cosineSimilarity(a, b) * 100)
}

// countVectors builds raw term-frequency vectors for two documents over
// their shared vocabulary.
func countVectors(docA, docB []string) ([]float64, []float64) {
	index := make(map[string]int, len(docA)+len(docB))
	for _, doc := range [][]string{docA, docB} {
		for _, term := range doc {
			if _, ok := index[term]; !ok {
				index[term] = len(index)
			}
		}
	}

	a := make([]float64, len(index))
	b := make([]float64, len(index))
	for _, term := range docA {
		a[index[term]]++
	}
	for _, term := range docB {
		b[index[term]]++
	}
	return a, b
}

// cosineSimilarity returns 0 when either vector has no weight.
func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(0, math.Min(1, sim))
}

// Average returns the arithmetic mean of scores rounded to two decimals.
// Every section carries equal weight.
func Average(scores ...float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return roundTo2(sum / float64(len(scores)))
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
