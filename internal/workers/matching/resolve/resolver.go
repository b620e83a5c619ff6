// Package resolve turns the common matching job variables into an adopter
// questionnaire and a candidate list, and maps lookup failures onto job
// error codes.
package resolve

import (
	"context"
	stderrors "errors"

	"adoption-workers/internal/catalog"
	"adoption-workers/internal/common/errors"
	"adoption-workers/internal/matching/knn"
	"adoption-workers/internal/matching/scaler"
	"adoption-workers/internal/models"
)

// Catalog is the read side of catalog.Store.
type Catalog interface {
	GetAnimals(ctx context.Context, ids []string) ([]models.AnimalProfile, error)
	GetAdopterPreferences(ctx context.Context, userID string) (*models.AdopterPreferences, error)
	ListAdoptable(ctx context.Context, limit int) ([]models.AnimalProfile, error)
}

// Searcher is satisfied by catalog.Search.
type Searcher interface {
	FindAdoptable(ctx context.Context, f catalog.Filter) ([]models.AnimalProfile, error)
	Index() string
}

// Subject identifies the adopter, by id or inline.
type Subject struct {
	AdopterID   string                     `json:"adopterId,omitempty"`
	Preferences *models.AdopterPreferences `json:"preferences,omitempty"`
}

// Candidates selects the animals to score. Inline animals win over ids, ids
// over a search filter. With none of them all adoptable animals are used.
type Candidates struct {
	AnimalIDs []string               `json:"animalIds,omitempty"`
	Animals   []models.AnimalProfile `json:"animals,omitempty"`
	Search    *catalog.Filter        `json:"search,omitempty"`
}

type Resolver struct {
	catalog       Catalog
	search        Searcher
	maxCandidates int
}

// New builds a resolver. search may be nil.
func New(c Catalog, search Searcher, maxCandidates int) *Resolver {
	if maxCandidates <= 0 {
		maxCandidates = 500
	}
	return &Resolver{catalog: c, search: search, maxCandidates: maxCandidates}
}

// Preferences returns completed adopter preferences or a job error.
func (r *Resolver) Preferences(ctx context.Context, s Subject) (models.AdopterPreferences, error) {
	var prefs *models.AdopterPreferences
	switch {
	case s.Preferences != nil:
		prefs = s.Preferences
	case s.AdopterID != "":
		if r.catalog == nil {
			return models.AdopterPreferences{}, errors.NewInputValidationFailedError("adopter lookup is not available, pass preferences inline")
		}
		p, err := r.catalog.GetAdopterPreferences(ctx, s.AdopterID)
		if err != nil {
			return models.AdopterPreferences{}, r.MapLookupError("adopter_preferences", err)
		}
		prefs = p
	default:
		return models.AdopterPreferences{}, errors.NewInputValidationFailedError("either adopterId or preferences is required")
	}

	if !prefs.Completed {
		id := prefs.UserID
		if id == "" {
			id = s.AdopterID
		}
		return models.AdopterPreferences{}, errors.NewPreferencesIncompleteError(id)
	}
	return *prefs, nil
}

// Animals resolves the candidate list.
func (r *Resolver) Animals(ctx context.Context, c Candidates) ([]models.AnimalProfile, error) {
	if c.Animals != nil {
		return c.Animals, nil
	}

	if r.catalog == nil && (len(c.AnimalIDs) > 0 || r.search == nil) {
		return nil, errors.NewInputValidationFailedError("animal catalog is not available, pass animals inline")
	}

	if len(c.AnimalIDs) > 0 {
		if len(c.AnimalIDs) > r.maxCandidates {
			return nil, errors.NewInputValidationFailedError("too many animalIds")
		}
		animals, err := r.catalog.GetAnimals(ctx, c.AnimalIDs)
		if err != nil {
			return nil, r.MapLookupError("animals", err)
		}
		return animals, nil
	}

	filter := catalog.Filter{}
	if c.Search != nil {
		filter = *c.Search
	}
	if filter.Limit <= 0 || filter.Limit > r.maxCandidates {
		filter.Limit = r.maxCandidates
	}

	if r.search == nil {
		animals, err := r.catalog.ListAdoptable(ctx, filter.Limit)
		if err != nil {
			return nil, r.MapLookupError("adoptable_animals", err)
		}
		return animals, nil
	}

	animals, err := r.search.FindAdoptable(ctx, filter)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewSearchTimeoutError(r.search.Index())
		}
		return nil, errors.NewSearchQueryFailedError(r.search.Index(), err)
	}
	return animals, nil
}

// MapLookupError converts a catalog error into a job error.
func (r *Resolver) MapLookupError(queryType string, err error) error {
	var std *errors.StandardError
	if stderrors.As(err, &std) {
		return std
	}

	var nf *catalog.NotFoundError
	switch {
	case stderrors.As(err, &nf) && nf.Entity == "adopter":
		return errors.NewAdopterNotFoundError(nf.ID)
	case stderrors.As(err, &nf):
		return errors.NewAnimalNotFoundError(nf.ID)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewQueryTimeoutError(queryType)
	default:
		return errors.NewQueryExecutionFailedError(queryType, err)
	}
}

// MapScoringError converts an error from the matching core into a job error.
func MapScoringError(err error) error {
	var std *errors.StandardError
	switch {
	case stderrors.As(err, &std):
		return std
	case stderrors.Is(err, knn.ErrDimensionMismatch):
		return errors.NewFeatureDimensionMismatchError(err)
	case stderrors.Is(err, scaler.ErrInvalidConfig):
		return errors.NewScalerConfigInvalidError(err)
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		return errors.NewScoringTimeoutError(err)
	default:
		return errors.NewInternalError(err)
	}
}

// AnimalAge returns the inline age when given, else the catalog age of
// animalID. With neither the zero age is returned, which counts as a puppy.
func (r *Resolver) AnimalAge(ctx context.Context, animalID string, inline *models.AnimalAge) (models.AnimalAge, error) {
	switch {
	case inline != nil:
		return *inline, nil
	case animalID != "":
		animals, err := r.Animals(ctx, Candidates{AnimalIDs: []string{animalID}})
		if err != nil {
			return models.AnimalAge{}, err
		}
		return models.AnimalAge{Months: animals[0].AgeMonths, Years: animals[0].AgeYears}, nil
	default:
		return models.AnimalAge{}, nil
	}
}
