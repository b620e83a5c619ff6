// Package matching exposes the two animal matching algorithms behind one
// capability. The algorithms keep their own formulas and feature spaces;
// only their outputs are normalized to a best-first list.
package matching

import (
	"context"

	"adoption-workers/internal/matching/compatibility"
	"adoption-workers/internal/matching/knn"
	"adoption-workers/internal/models"
)

const (
	StrategyKNN           = "knn"
	StrategyCompatibility = "compatibility"
)

// Ranked is one candidate in a strategy's best-first output.
type Ranked struct {
	AnimalID   string   `json:"animalId"`
	AnimalName string   `json:"animalName"`
	Score      float64  `json:"score"`
	Rank       int      `json:"rank"`
	Reasons    []string `json:"reasons,omitempty"`
}

// Strategy scores candidates for an adopter, best match first.
type Strategy interface {
	Name() string
	Match(ctx context.Context, prefs models.AdopterPreferences, animals []models.AnimalProfile) ([]Ranked, error)
}

type knnStrategy struct {
	ranker *knn.Ranker
}

// NewKNNStrategy adapts the distance ranker. Its ordering is ascending
// distance.
func NewKNNStrategy(r *knn.Ranker) Strategy {
	return &knnStrategy{ranker: r}
}

func (s *knnStrategy) Name() string { return StrategyKNN }

func (s *knnStrategy) Match(ctx context.Context, prefs models.AdopterPreferences, animals []models.AnimalProfile) ([]Ranked, error) {
	res, err := s.ranker.Rank(ctx, prefs, animals, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Ranked, len(res.AllMatches))
	for i, m := range res.AllMatches {
		out[i] = Ranked{
			AnimalID:   m.AnimalID,
			AnimalName: m.AnimalName,
			Score:      m.Score,
			Rank:       m.Rank,
		}
	}
	return out, nil
}

type compatibilityStrategy struct {
	scorer *compatibility.Scorer
}

// NewCompatibilityStrategy adapts the rule-weighted scorer. Its ordering is
// descending score.
func NewCompatibilityStrategy(s *compatibility.Scorer) Strategy {
	return &compatibilityStrategy{scorer: s}
}

func (s *compatibilityStrategy) Name() string { return StrategyCompatibility }

func (s *compatibilityStrategy) Match(ctx context.Context, prefs models.AdopterPreferences, animals []models.AnimalProfile) ([]Ranked, error) {
	res, err := s.scorer.Score(ctx, prefs, animals)
	if err != nil {
		return nil, err
	}
	out := make([]Ranked, len(res))
	for i, r := range res {
		out[i] = Ranked{
			AnimalID:   r.AnimalID,
			AnimalName: r.AnimalName,
			Score:      r.MatchScore,
			Rank:       i + 1,
			Reasons:    r.Reasons,
		}
	}
	return out, nil
}
