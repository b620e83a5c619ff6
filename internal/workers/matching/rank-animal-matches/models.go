// internal/workers/matching/rank-animal-matches/models.go
package rankanimalmatches

import (
	"adoption-workers/internal/models"
	"adoption-workers/internal/workers/matching/resolve"
)

type Input struct {
	resolve.Subject
	resolve.Candidates
	K         int    `json:"k,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type Output struct {
	RunID         string               `json:"runId"`
	RequestID     string               `json:"requestId,omitempty"`
	TopMatches    []models.MatchResult `json:"topMatches"`
	AllMatches    []models.MatchResult `json:"allMatches"`
	K             int                  `json:"k"`
	TotalCount    int                  `json:"totalCount"`
	Metric        string               `json:"metric"`
	ScalerVersion string               `json:"scalerVersion,omitempty"`
	Cached        bool                 `json:"cached"`
}
