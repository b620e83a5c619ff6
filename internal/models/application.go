// internal/models/application.go
package models

// ApplicationForm is a submitted adoption application. Every answer is a
// discrete value from the form's option list; empty means unanswered.
type ApplicationForm struct {
	FamilyDecision      string `json:"familyDecision,omitempty"`
	MonthlyBudget       string `json:"monthlyBudget,omitempty"`
	AllowVisits         string `json:"allowVisits,omitempty"`
	AcceptSterilization string `json:"acceptSterilization,omitempty"`
	Housing             string `json:"housing,omitempty"`
	RelationAnimals     string `json:"relationAnimals,omitempty"`
	TravelPlans         string `json:"travelPlans,omitempty"`
	BehaviorResponse    string `json:"behaviorResponse,omitempty"`
	CareCommitment      string `json:"careCommitment,omitempty"`
}

// ApplicationScore is the rubric evaluation of an ApplicationForm.
type ApplicationScore struct {
	Percentage       int                        `json:"percentage"`
	Eligible         bool                       `json:"eligible"`
	Details          map[string]CriterionDetail `json:"details"`
	ExcludedCriteria []string                   `json:"excludedCriteria,omitempty"`
}

// CriterionDetail records what was submitted for one criterion and what it
// contributed to the weighted sum.
type CriterionDetail struct {
	Value        string  `json:"value"`
	Weight       float64 `json:"weight"`
	Multiplier   float64 `json:"multiplier"`
	Contribution float64 `json:"contribution"`
}
