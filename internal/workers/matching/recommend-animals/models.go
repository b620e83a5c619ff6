// internal/workers/matching/recommend-animals/models.go
package recommendanimals

import (
	"adoption-workers/internal/matching"
	"adoption-workers/internal/workers/matching/resolve"
)

type Input struct {
	resolve.Subject
	resolve.Candidates
	Strategy string `json:"strategy,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type Output struct {
	RunID      string            `json:"runId"`
	Strategy   string            `json:"strategy"`
	Matches    []matching.Ranked `json:"matches"`
	TotalCount int               `json:"totalCount"`
}
