// internal/workers/application/validate-adoption-application/models.go
package validateadoptionapplication

import (
	"adoption-workers/internal/matching/application"
	"adoption-workers/internal/models"
)

type Input struct {
	ApplicationID string                 `json:"applicationId,omitempty"`
	Form          models.ApplicationForm `json:"form"`
	AnimalID      string                 `json:"animalId,omitempty"`
	AnimalAge     *models.AnimalAge      `json:"animalAge,omitempty"`
}

// Output reports whether the form is complete enough to score. Invalid forms
// complete the job with IsValid false so the process can ask the adopter for
// corrections.
type Output struct {
	ApplicationID    string                  `json:"applicationId,omitempty"`
	IsValid          bool                    `json:"isValid"`
	ValidationErrors []application.FormIssue `json:"validationErrors"`
	Answered         int                     `json:"answered"`
	Required         int                     `json:"required"`
}
