// internal/workers/matching/explain-match/models.go
package explainmatch

import (
	"adoption-workers/internal/matching/knn"
	"adoption-workers/internal/models"
	"adoption-workers/internal/workers/matching/resolve"
)

type Input struct {
	resolve.Subject
	AnimalID string                `json:"animalId,omitempty"`
	Animal   *models.AnimalProfile `json:"animal,omitempty"`
}

type Output struct {
	RunID         string                     `json:"runId"`
	Explanation   *knn.Explanation           `json:"explanation"`
	Compatibility models.CompatibilityResult `json:"compatibility"`
}
