// Package features encodes animals and adopter preferences into the shared
// nine-dimension feature space used by the nearest-neighbour ranker.
//
// Encoding is total: missing fields resolve to documented defaults and never
// produce an error.
package features

import (
	"strings"

	"adoption-workers/internal/matching/scaler"
	"adoption-workers/internal/models"
)

// Vector indices, in scaler.FeatureNames order.
const (
	IdxAgeMonths = iota
	IdxMaturitySize
	IdxFurLength
	IdxHealth
	IdxVaccinated
	IdxDewormed
	IdxSterilized
	IdxFee
	IdxPhotoAmt
)

const (
	codeYes     = 1
	codeNo      = 2
	codeNotSure = 3

	healthHealthy = 1
	healthMinor   = 2

	// Adoption carries no fee in this domain.
	adoptionFee = 0

	preferredPhotoCount = 5
)

// Adopter age target, in months.
const (
	baseAgeTarget   = 36
	noviceAgeTarget = 48
	expertAgeTarget = 18
	minAgeTarget    = 12
	maxAgeTarget    = 84
)

var activityAgeShift = map[models.ActivityLevel]int{
	models.ActivityVeryHigh:  -24,
	models.ActivityHigh:      -12,
	models.ActivityModerate:  0,
	models.ActivityLow:       12,
	models.ActivitySedentary: 24,
}

// EncodeAnimal builds the feature vector of an animal profile.
func EncodeAnimal(a models.AnimalProfile) []float64 {
	v := make([]float64, scaler.Dimension)

	v[IdxAgeMonths] = float64(a.AgeInMonths())
	v[IdxMaturitySize] = sizeCode(a.Size)
	v[IdxFurLength] = FurLengthCode(a.Breed)
	v[IdxHealth] = healthHealthy
	v[IdxVaccinated] = codeNotSure
	v[IdxDewormed] = codeNotSure
	v[IdxSterilized] = codeNotSure

	if c := a.Clinical; c != nil {
		if strings.TrimSpace(c.Conditions) != "" {
			v[IdxHealth] = healthMinor
		}
		// Deworming is not tracked separately; it follows vaccination.
		if c.LastVaccination != nil && strings.TrimSpace(*c.LastVaccination) != "" {
			v[IdxVaccinated] = codeYes
			v[IdxDewormed] = codeYes
		}
		if c.Sterilized != nil {
			if *c.Sterilized {
				v[IdxSterilized] = codeYes
			} else {
				v[IdxSterilized] = codeNo
			}
		}
	}

	v[IdxFee] = adoptionFee
	v[IdxPhotoAmt] = float64(max(len(a.Photos), 1))
	return v
}

// EncodeAdopter projects adopter preferences into the animal feature space:
// the result describes the animal the adopter would ideally match.
func EncodeAdopter(p models.AdopterPreferences) []float64 {
	v := make([]float64, scaler.Dimension)

	v[IdxAgeMonths] = float64(AgeTarget(p))
	v[IdxMaturitySize] = sizeCode(p.PreferredSize)
	v[IdxFurLength] = FurMedium
	if p.AvailableTime == models.LevelLow {
		v[IdxFurLength] = FurShort
	}
	v[IdxHealth] = healthHealthy
	v[IdxVaccinated] = codeYes
	v[IdxDewormed] = codeYes
	v[IdxSterilized] = codeYes
	if p.Experience == models.ExperienceExpert {
		v[IdxSterilized] = codeNo
	}
	v[IdxFee] = adoptionFee
	v[IdxPhotoAmt] = preferredPhotoCount
	return v
}

// AgeTarget is the preferred animal age in months for an adopter.
func AgeTarget(p models.AdopterPreferences) int {
	target := baseAgeTarget
	switch p.Experience {
	case models.ExperienceNone, models.ExperienceBeginner:
		target = noviceAgeTarget
	case models.ExperienceExpert:
		target = expertAgeTarget
	}
	target += activityAgeShift[p.ActivityLevel]
	return min(max(target, minAgeTarget), maxAgeTarget)
}
