// internal/workers/matching/calculate-compatibility/models.go
package calculatecompatibility

import (
	"adoption-workers/internal/models"
	"adoption-workers/internal/workers/matching/resolve"
)

type Input struct {
	resolve.Subject
	resolve.Candidates
	Limit int `json:"limit,omitempty"`
}

type Output struct {
	RunID      string                       `json:"runId"`
	Results    []models.CompatibilityResult `json:"results"`
	TotalCount int                          `json:"totalCount"`
	BestScore  float64                      `json:"bestScore"`
}
