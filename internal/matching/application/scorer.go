// Package application evaluates adoption application forms against a fixed
// weighted rubric.
package application

import (
	"math"
	"strings"

	"adoption-workers/internal/common/logger"
	"adoption-workers/internal/models"
)

// EligibilityThreshold is the minimum percentage of an eligible application.
const EligibilityThreshold = 70

// NotSpecified is stored as the value of unanswered criteria.
const NotSpecified = "no especificado"

type Option func(*Scorer)

func WithLogger(l logger.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}

type Scorer struct {
	logger logger.Logger
}

func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{logger: logger.NewNoOpLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score rates form for an animal of the given age. Unanswered or unknown
// answers earn nothing but still count toward the total weight.
func (s *Scorer) Score(form models.ApplicationForm, age models.AnimalAge) models.ApplicationScore {
	puppy := age.IsPuppy()
	out := models.ApplicationScore{
		Details: make(map[string]models.CriterionDetail, len(rubric)),
	}

	var earned, total float64
	for _, c := range rubric {
		if c.puppyOnly && !puppy {
			out.ExcludedCriteria = append(out.ExcludedCriteria, c.name)
			continue
		}
		total += c.weight

		value := strings.TrimSpace(c.answer(form))
		multiplier := c.options[value]
		contribution := c.weight * multiplier
		earned += contribution

		if value == "" {
			value = NotSpecified
		}
		out.Details[c.name] = models.CriterionDetail{
			Value:        value,
			Weight:       c.weight,
			Multiplier:   multiplier,
			Contribution: round4(contribution),
		}
	}

	if total > 0 {
		out.Percentage = int(math.Round(100 * earned / total))
	}
	out.Eligible = out.Percentage >= EligibilityThreshold

	s.logger.Debug("application scored", map[string]interface{}{
		"percentage": out.Percentage,
		"eligible":   out.Eligible,
		"puppy":      puppy,
	})
	return out
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
