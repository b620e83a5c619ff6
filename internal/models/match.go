// internal/models/match.go
package models

// MatchResult is one candidate ranked by the nearest-neighbour ranker.
// Lower Distance is better.
type MatchResult struct {
	AnimalID       string    `json:"animalId"`
	AnimalName     string    `json:"animalName"`
	Distance       float64   `json:"distance"`
	Score          float64   `json:"score"`
	Rank           int       `json:"rank"`
	IsTopK         bool      `json:"isTopK"`
	RawFeatures    []float64 `json:"rawFeatures"`
	ScaledFeatures []float64 `json:"scaledFeatures"`
}

// CompatibilityResult is one candidate scored by the rule-weighted
// compatibility scorer. Higher MatchScore is better.
type CompatibilityResult struct {
	AnimalID   string               `json:"animalId"`
	AnimalName string               `json:"animalName"`
	MatchScore float64              `json:"matchScore"`
	Factors    CompatibilityFactors `json:"factors"`
	Reasons    []string             `json:"reasons"`
	Distance   float64              `json:"distance"`
}

// CompatibilityFactors are the per-dimension distances, each in [0,1] with
// 0 meaning perfect alignment.
type CompatibilityFactors struct {
	Size        float64 `json:"size"`
	Energy      float64 `json:"energy"`
	Coexistence float64 `json:"coexistence"`
	Personality float64 `json:"personality"`
	Lifestyle   float64 `json:"lifestyle"`
}
