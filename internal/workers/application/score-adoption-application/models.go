// internal/workers/application/score-adoption-application/models.go
package scoreadoptionapplication

import "adoption-workers/internal/models"

// Input carries the form and the age of the requested animal, either
// inline or through animalId. Inline age wins.
type Input struct {
	ApplicationID string                 `json:"applicationId,omitempty"`
	Form          models.ApplicationForm `json:"form"`
	AnimalID      string                 `json:"animalId,omitempty"`
	AnimalAge     *models.AnimalAge      `json:"animalAge,omitempty"`
}

type Output struct {
	ApplicationID    string                            `json:"applicationId,omitempty"`
	Percentage       int                               `json:"percentage"`
	Eligible         bool                              `json:"eligible"`
	Threshold        int                               `json:"threshold"`
	Details          map[string]models.CriterionDetail `json:"details"`
	ExcludedCriteria []string                          `json:"excludedCriteria,omitempty"`
}
