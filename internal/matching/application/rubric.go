package application

import "adoption-workers/internal/models"

// Criterion names, as they appear in score details.
const (
	CriterionFamilyDecision      = "familyDecision"
	CriterionMonthlyBudget       = "monthlyBudget"
	CriterionAllowVisits         = "allowVisits"
	CriterionAcceptSterilization = "acceptSterilization"
	CriterionHousing             = "housing"
	CriterionRelationAnimals     = "relationAnimals"
	CriterionTravelPlans         = "travelPlans"
	CriterionBehaviorResponse    = "behaviorResponse"
	CriterionCareCommitment      = "careCommitment"
)

type criterion struct {
	name    string
	weight  float64
	answer  func(models.ApplicationForm) string
	options map[string]float64
	// puppyOnly criteria are dropped from both sides of the ratio for adult
	// animals.
	puppyOnly bool
}

// rubric weights sum to 1.0.
var rubric = []criterion{
	{
		name:   CriterionFamilyDecision,
		weight: 0.12,
		answer: func(f models.ApplicationForm) string { return f.FamilyDecision },
		options: map[string]float64{
			"agree":     1.0,
			"undecided": 0.5,
			"disagree":  0.0,
		},
	},
	{
		name:   CriterionMonthlyBudget,
		weight: 0.12,
		answer: func(f models.ApplicationForm) string { return f.MonthlyBudget },
		options: map[string]float64{
			"high":   1.0,
			"medium": 0.7,
			"low":    0.3,
		},
	},
	{
		name:   CriterionAllowVisits,
		weight: 0.10,
		answer: func(f models.ApplicationForm) string { return f.AllowVisits },
		options: map[string]float64{
			"yes": 1.0,
			"no":  0.0,
		},
	},
	{
		name:      CriterionAcceptSterilization,
		weight:    0.10,
		answer:    func(f models.ApplicationForm) string { return f.AcceptSterilization },
		puppyOnly: true,
		options: map[string]float64{
			"yes": 1.0,
			"no":  0.0,
		},
	},
	{
		name:   CriterionHousing,
		weight: 0.10,
		answer: func(f models.ApplicationForm) string { return f.Housing },
		options: map[string]float64{
			"Casa urbana":   1.0,
			"Casa de campo": 1.0,
			"Departamento":  0.7,
			"Habitación":    0.3,
			"Otro":          0.5,
		},
	},
	{
		name:   CriterionRelationAnimals,
		weight: 0.11,
		answer: func(f models.ApplicationForm) string { return f.RelationAnimals },
		options: map[string]float64{
			"positive":  1.0,
			"noAnimals": 0.8,
			"neutral":   0.6,
			"negative":  0.0,
		},
	},
	{
		name:   CriterionTravelPlans,
		weight: 0.10,
		answer: func(f models.ApplicationForm) string { return f.TravelPlans },
		options: map[string]float64{
			"withOwner":  1.0,
			"withFamily": 0.8,
			"petHotel":   0.6,
			"noPlan":     0.0,
		},
	},
	{
		name:   CriterionBehaviorResponse,
		weight: 0.12,
		answer: func(f models.ApplicationForm) string { return f.BehaviorResponse },
		options: map[string]float64{
			"trainOrAccept": 1.0,
			"seekHelp":      0.8,
			"punish":        0.1,
			"giveUp":        0.0,
		},
	},
	{
		name:   CriterionCareCommitment,
		weight: 0.13,
		answer: func(f models.ApplicationForm) string { return f.CareCommitment },
		options: map[string]float64{
			"fullCare":    1.0,
			"partialCare": 0.5,
			"noCare":      0.0,
		},
	},
}
