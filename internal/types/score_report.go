package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SectionScore is the result of scoring one extracted resume section.
type SectionScore struct {
	Category Category `json:"category" validate:"required,oneof=SKILLS EXPERIENCE ACHIEVEMENTS PROJECTS"`
	Text     string   `json:"text"`
	Score    float64  `json:"score" validate:"gte=0,lte=100"`
}

// ScoreReport holds the four section scores and their average for one document.
type ScoreReport struct {
	ID        uuid.UUID      `json:"id" validate:"required"`
	Source    string         `json:"source"`
	Sections  []SectionScore `json:"sections" validate:"len=4,dive"`
	Total     float64        `json:"total" validate:"gte=0,lte=100"`
	CreatedAt time.Time      `json:"created_at" validate:"required"`
}

// Validate validates the ScoreReport using the validator.
func (r *ScoreReport) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Section returns the score for a category, or nil if the report does not contain it.
func (r *ScoreReport) Section(c Category) *SectionScore {
	for i := range r.Sections {
		if r.Sections[i].Category == c {
			return &r.Sections[i]
		}
	}
	return nil
}

// ScoreTextRequest is the JSON body accepted by the text scoring endpoint.
type ScoreTextRequest struct {
	Source string `json:"source,omitempty" validate:"max=255"`
	Text   string `json:"text" validate:"required"`
}

// Validate validates the ScoreTextRequest using the validator.
func (r *ScoreTextRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
