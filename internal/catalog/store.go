// Package catalog reads animal profiles and adopter questionnaires from the
// shelter database, caching them in redis.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"adoption-workers/internal/common/logger"
	"adoption-workers/internal/common/metrics"
	"adoption-workers/internal/models"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("not found")

// NotFoundError names the missing record. It matches ErrNotFound.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

const (
	animalKeyPrefix  = "animal:profile:"
	adopterKeyPrefix = "adopter:preferences:"

	animalColumns = `id, name, age_months, age_years, size, breed, gender, energy_level,
		good_with_children, good_with_cats, good_with_dogs,
		personality, compatibility, clinical, photos`
)

type Store struct {
	db     *sql.DB
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewStore(db *sql.DB, rdb *redis.Client, ttl time.Duration, log logger.Logger) *Store {
	return &Store{
		db:     db,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "catalog"}),
	}
}

// GetAnimals returns the profiles in the order of ids. Any unknown id fails
// the whole lookup with a NotFoundError.
func (s *Store) GetAnimals(ctx context.Context, ids []string) ([]models.AnimalProfile, error) {
	if len(ids) == 0 {
		return []models.AnimalProfile{}, nil
	}

	found := s.cachedAnimals(ctx, ids)

	var misses []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			misses = append(misses, id)
		}
	}

	if len(misses) > 0 {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+animalColumns+` FROM animals WHERE id = ANY($1)`, pq.Array(misses))
		if err != nil {
			return nil, fmt.Errorf("query animals: %w", err)
		}
		loaded, err := scanAnimals(rows)
		if err != nil {
			return nil, err
		}
		for _, a := range loaded {
			found[a.ID] = a
		}
		s.cacheAnimals(ctx, loaded)
	}

	out := make([]models.AnimalProfile, 0, len(ids))
	for _, id := range ids {
		a, ok := found[id]
		if !ok {
			return nil, &NotFoundError{Entity: "animal", ID: id}
		}
		out = append(out, a)
	}
	return out, nil
}

// ListAdoptable returns available animals straight from postgres, used when
// candidate search is not configured.
func (s *Store) ListAdoptable(ctx context.Context, limit int) ([]models.AnimalProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+animalColumns+` FROM animals WHERE status = 'AVAILABLE' ORDER BY id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list adoptable animals: %w", err)
	}
	return scanAnimals(rows)
}

// GetAdopterPreferences loads the questionnaire of userID.
func (s *Store) GetAdopterPreferences(ctx context.Context, userID string) (*models.AdopterPreferences, error) {
	key := adopterKeyPrefix + userID
	if val, err := s.redis.Get(ctx, key).Bytes(); err == nil {
		var prefs models.AdopterPreferences
		if err := json.Unmarshal(val, &prefs); err == nil {
			metrics.CacheLookups.WithLabelValues("adopter", "hit").Inc()
			return &prefs, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.cacheError("read", key, err)
	}
	metrics.CacheLookups.WithLabelValues("adopter", "miss").Inc()

	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, preferred_size, preferred_energy, has_children, other_pets,
		       dwelling_type, experience, activity_level, space_size,
		       available_time, grooming_commitment, completed
		FROM adopter_preferences WHERE user_id = $1`, userID)

	var (
		prefs                                    models.AdopterPreferences
		size, energy, pets, dwelling, experience sql.NullString
		activity, space, availableTime, grooming sql.NullString
	)
	err := row.Scan(&prefs.UserID, &size, &energy, &prefs.HasChildren, &pets,
		&dwelling, &experience, &activity, &space, &availableTime, &grooming, &prefs.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "adopter", ID: userID}
	}
	if err != nil {
		return nil, fmt.Errorf("query adopter preferences: %w", err)
	}

	prefs.PreferredSize = models.SizeClass(size.String)
	prefs.PreferredEnergy = models.EnergyClass(energy.String)
	prefs.OtherPets = models.OtherPets(pets.String)
	prefs.DwellingType = dwelling.String
	prefs.Experience = models.ExperienceLevel(experience.String)
	prefs.ActivityLevel = models.ActivityLevel(activity.String)
	prefs.SpaceSize = models.SizeClass(space.String)
	prefs.AvailableTime = models.Level(availableTime.String)
	prefs.GroomingCommitment = models.Level(grooming.String)

	if data, err := json.Marshal(prefs); err == nil {
		if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.cacheError("write", key, err)
		}
	}
	return &prefs, nil
}

func (s *Store) cachedAnimals(ctx context.Context, ids []string) map[string]models.AnimalProfile {
	found := make(map[string]models.AnimalProfile, len(ids))

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = animalKeyPrefix + id
	}
	vals, err := s.redis.MGet(ctx, keys...).Result()
	if err != nil {
		s.cacheError("read", animalKeyPrefix+"*", err)
		return found
	}

	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var a models.AnimalProfile
		if err := json.Unmarshal([]byte(str), &a); err == nil && a.ID != "" {
			found[a.ID] = a
		}
	}
	metrics.CacheLookups.WithLabelValues("animal", "hit").Add(float64(len(found)))
	metrics.CacheLookups.WithLabelValues("animal", "miss").Add(float64(len(ids) - len(found)))
	return found
}

func (s *Store) cacheAnimals(ctx context.Context, animals []models.AnimalProfile) {
	if len(animals) == 0 {
		return
	}
	pipe := s.redis.Pipeline()
	for _, a := range animals {
		data, err := json.Marshal(a)
		if err != nil {
			continue
		}
		pipe.Set(ctx, animalKeyPrefix+a.ID, data, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.cacheError("write", animalKeyPrefix+"*", err)
	}
}

func (s *Store) cacheError(op, key string, err error) {
	metrics.CacheLookups.WithLabelValues("cache", "error").Inc()
	s.logger.Warn("catalog cache "+op+" failed", map[string]interface{}{
		"key":   key,
		"error": err.Error(),
	})
}

func scanAnimals(rows *sql.Rows) ([]models.AnimalProfile, error) {
	defer rows.Close()

	var animals []models.AnimalProfile
	for rows.Next() {
		var (
			a                                 models.AnimalProfile
			name, size, breed, gender, energy sql.NullString
			ageMonths, ageYears               sql.NullInt64
			personality, compat, clinical     []byte
			photos                            []string
		)
		if err := rows.Scan(&a.ID, &name, &ageMonths, &ageYears, &size, &breed, &gender, &energy,
			&a.GoodWithChildren, &a.GoodWithCats, &a.GoodWithDogs,
			&personality, &compat, &clinical, pq.Array(&photos)); err != nil {
			return nil, fmt.Errorf("scan animal: %w", err)
		}

		a.Name = name.String
		a.Size = models.SizeClass(size.String)
		a.Breed = breed.String
		a.Gender = gender.String
		a.Energy = models.EnergyClass(energy.String)
		a.Photos = photos
		if ageMonths.Valid {
			v := int(ageMonths.Int64)
			a.AgeMonths = &v
		}
		if ageYears.Valid {
			v := int(ageYears.Int64)
			a.AgeYears = &v
		}

		if err := unmarshalOptional(personality, &a.Personality); err != nil {
			return nil, fmt.Errorf("animal %s personality: %w", a.ID, err)
		}
		if err := unmarshalOptional(compat, &a.Compatibility); err != nil {
			return nil, fmt.Errorf("animal %s compatibility: %w", a.ID, err)
		}
		if err := unmarshalOptional(clinical, &a.Clinical); err != nil {
			return nil, fmt.Errorf("animal %s clinical: %w", a.ID, err)
		}
		animals = append(animals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate animals: %w", err)
	}
	return animals, nil
}

// unmarshalOptional leaves dst nil for SQL NULL.
func unmarshalOptional[T any](data []byte, dst **T) error {
	if len(data) == 0 {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*dst = &v
	return nil
}
