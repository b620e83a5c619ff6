package compatibility

import (
	"strings"

	"adoption-workers/internal/models"
)

// Class indices on a 0..2 scale. Unspecified classes sit in the middle.
var sizeIndex = map[models.SizeClass]float64{
	models.SizeSmall:  0,
	models.SizeMedium: 1,
	models.SizeLarge:  2,
}

var energyIndex = map[models.EnergyClass]float64{
	models.EnergyLow:    0,
	models.EnergyMedium: 1,
	models.EnergyHigh:   2,
}

var levelIndex = map[models.Level]float64{
	models.LevelLow:    0,
	models.LevelMedium: 1,
	models.LevelHigh:   2,
}

// experienceNeed is how much an adopter needs an easy-to-train animal, 1 for
// no experience down to 0 for experts.
var experienceNeed = map[models.ExperienceLevel]float64{
	models.ExperienceNone:         1,
	models.ExperienceBeginner:     2.0 / 3,
	models.ExperienceIntermediate: 1.0 / 3,
	models.ExperienceExpert:       0,
}

var activityNorm = map[models.ActivityLevel]float64{
	models.ActivitySedentary: 0,
	models.ActivityLow:       0.25,
	models.ActivityModerate:  0.5,
	models.ActivityHigh:      0.75,
	models.ActivityVeryHigh:  1,
}

// highMaintenanceBreeds need regular professional grooming.
var highMaintenanceBreeds = []string{
	"poodle",
	"caniche",
	"shih tzu",
	"yorkshire",
	"maltes",
	"maltese",
	"bichon",
	"schnauzer",
	"lhasa",
	"afgano",
	"afghan",
	"pomerania",
	"pomeranian",
	"chow chow",
	"samoyedo",
	"samoyed",
	"cocker",
	"persa",
	"persian",
}

const (
	midIndex        = 1.0
	lowSociability  = 3
	neutralTrait    = 3
	groomingLowCost = 1.0
	groomingMidCost = 0.5
	defaultNeed     = 2.0 / 3
	defaultActivity = 0.5
)

func indexOf[K comparable](table map[K]float64, key K) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return midIndex
}

func sizeDiff(p models.AdopterPreferences, a models.AnimalProfile) float64 {
	return abs(indexOf(sizeIndex, p.PreferredSize)-indexOf(sizeIndex, a.Size)) / 2
}

func energyDiff(p models.AdopterPreferences, a models.AnimalProfile) float64 {
	return abs(indexOf(energyIndex, p.PreferredEnergy)-indexOf(energyIndex, a.Energy)) / 2
}

// coexistencePenalty is the fraction of applicable household checks the
// animal fails. Each unmet check counts in full.
func coexistencePenalty(p models.AdopterPreferences, a models.AnimalProfile) float64 {
	var applicable, failed int
	check := func(ok bool) {
		applicable++
		if !ok {
			failed++
		}
	}

	var flags models.CompatibilityFlags
	if a.Compatibility != nil {
		flags = *a.Compatibility
	}

	if p.HasChildren {
		check(flagOr(flags.Kids, a.GoodWithChildren))
	}
	switch p.OtherPets {
	case models.OtherPetsDog:
		check(flagOr(flags.Dogs, a.GoodWithDogs))
	case models.OtherPetsCat:
		check(flagOr(flags.Cats, a.GoodWithCats))
	case models.OtherPetsBoth:
		check(flagOr(flags.Dogs, a.GoodWithDogs))
		check(flagOr(flags.Cats, a.GoodWithCats))
	}
	if isApartment(p.DwellingType) {
		check(flagOr(flags.Apartment, a.Size != models.SizeLarge))
	}

	if applicable == 0 {
		return 0
	}
	return float64(failed) / float64(applicable)
}

// personalityDiff averages the trainability gap, the activity gap and the
// low-sociability-with-children penalty.
func personalityDiff(p models.AdopterPreferences, a models.AnimalProfile) float64 {
	trainability := trait(a.Personality, func(t *models.Personality) int { return t.Trainability })
	need, ok := experienceNeed[p.Experience]
	if !ok {
		need = defaultNeed
	}
	trainGap := max(0, need-(float64(trainability)-1)/4)

	activity, ok := activityNorm[p.ActivityLevel]
	if !ok {
		activity = defaultActivity
	}
	var energy float64
	if a.Personality != nil && a.Personality.Energy > 0 {
		energy = (float64(clampTrait(a.Personality.Energy)) - 1) / 4
	} else {
		energy = indexOf(energyIndex, a.Energy) / 2
	}
	activityGap := abs(activity - energy)

	var childPenalty float64
	if p.HasChildren {
		sociability := trait(a.Personality, func(t *models.Personality) int { return t.Sociability })
		if sociability < lowSociability {
			childPenalty = 1
		}
	}

	return (trainGap + activityGap + childPenalty) / 3
}

// lifestyleDiff averages the space, time and grooming penalties. Space and
// time only penalize shortfalls.
func lifestyleDiff(p models.AdopterPreferences, a models.AnimalProfile) float64 {
	var space float64
	if userSpace, ok := sizeIndex[p.SpaceSize]; ok {
		if need := indexOf(sizeIndex, a.Size); userSpace < need {
			space = (need - userSpace) / 2
		}
	}

	var timePenalty float64
	if available, ok := levelIndex[p.AvailableTime]; ok {
		if need := indexOf(energyIndex, a.Energy); available < need {
			timePenalty = (need - available) / 2
		}
	}

	var grooming float64
	if isHighMaintenance(a.Breed) {
		switch p.GroomingCommitment {
		case models.LevelLow:
			grooming = groomingLowCost
		case models.LevelMedium:
			grooming = groomingMidCost
		}
	}

	return (space + timePenalty + grooming) / 3
}

func trait(p *models.Personality, get func(*models.Personality) int) int {
	if p == nil || get(p) == 0 {
		return neutralTrait
	}
	return clampTrait(get(p))
}

func clampTrait(v int) int {
	return min(max(v, 1), 5)
}

func flagOr(flag *bool, fallback bool) bool {
	if flag != nil {
		return *flag
	}
	return fallback
}

func isApartment(dwelling string) bool {
	d := strings.ToLower(strings.TrimSpace(dwelling))
	return d == "apartment" || d == "departamento" || d == "apartamento" || d == "flat"
}

func isHighMaintenance(breed string) bool {
	b := strings.ToLower(breed)
	if b == "" {
		return false
	}
	for _, hb := range highMaintenanceBreeds {
		if strings.Contains(b, hb) {
			return true
		}
	}
	return false
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
