package scoring

import (
	"fmt"

	"github.com/jonathan/resume-scorer/internal/types"
)

// Scorer scores resume sections against an injected keyword set.
type Scorer struct {
	keywords types.KeywordSet
}

// NewScorer creates a Scorer over a copy of ks. The set must contain every category.
func NewScorer(ks types.KeywordSet) (*Scorer, error) {
	if err := ks.Validate(); err != nil {
		return nil, fmt.Errorf("invalid keyword set: %w", err)
	}
	return &Scorer{keywords: ks.Clone()}, nil
}

// ScoreSection scores text against the keywords configured for category.
func (s *Scorer) ScoreSection(category types.Category, text string) float64 {
	return Score(text, s.keywords.Keywords(category))
}

// Keywords returns a copy of the keyword set the scorer was built with.
func (s *Scorer) Keywords() types.KeywordSet {
	return s.keywords.Clone()
}
