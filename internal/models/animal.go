// internal/models/animal.go
package models

// SizeClass is the maturity size of an animal, also used for adopter size
// preferences and dwelling space.
type SizeClass string

const (
	SizeSmall  SizeClass = "SMALL"
	SizeMedium SizeClass = "MEDIUM"
	SizeLarge  SizeClass = "LARGE"
)

// EnergyClass is the energy level of an animal.
type EnergyClass string

const (
	EnergyLow    EnergyClass = "LOW"
	EnergyMedium EnergyClass = "MEDIUM"
	EnergyHigh   EnergyClass = "HIGH"
)

// AnimalProfile is an adoptable animal as published by the animal catalog.
// Every field except ID is optional.
type AnimalProfile struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	AgeMonths *int        `json:"ageMonths,omitempty"`
	AgeYears  *int        `json:"ageYears,omitempty"`
	Size      SizeClass   `json:"size,omitempty"`
	Breed     string      `json:"breed,omitempty"`
	Gender    string      `json:"gender,omitempty"`
	Energy    EnergyClass `json:"energy,omitempty"`

	GoodWithChildren bool `json:"goodWithChildren"`
	GoodWithCats     bool `json:"goodWithCats"`
	GoodWithDogs     bool `json:"goodWithDogs"`

	Personality   *Personality        `json:"personality,omitempty"`
	Compatibility *CompatibilityFlags `json:"compatibility,omitempty"`
	Clinical      *ClinicalInfo       `json:"clinical,omitempty"`

	Photos []string `json:"photos,omitempty"`
}

// Personality holds shelter-assessed traits on a 1-5 scale. Zero means the
// trait was not assessed.
type Personality struct {
	Sociability  int `json:"sociability,omitempty"`
	Energy       int `json:"energy,omitempty"`
	Trainability int `json:"trainability,omitempty"`
	Adaptability int `json:"adaptability,omitempty"`
}

// CompatibilityFlags override the plain coexistence flags when present.
type CompatibilityFlags struct {
	Kids      *bool `json:"kids,omitempty"`
	Cats      *bool `json:"cats,omitempty"`
	Dogs      *bool `json:"dogs,omitempty"`
	Apartment *bool `json:"apartment,omitempty"`
}

type ClinicalInfo struct {
	Sterilized      *bool   `json:"sterilized,omitempty"`
	LastVaccination *string `json:"lastVaccination,omitempty"`
	Conditions      string  `json:"conditions,omitempty"`
}

// AgeInMonths resolves the animal age: explicit months first, then years*12,
// otherwise 0.
func (a AnimalProfile) AgeInMonths() int {
	return AnimalAge{Months: a.AgeMonths, Years: a.AgeYears}.InMonths()
}

// AnimalAge is the age class input of application scoring.
type AnimalAge struct {
	Months *int `json:"ageMonths,omitempty"`
	Years  *int `json:"ageYears,omitempty"`
}

func (a AnimalAge) InMonths() int {
	if a.Months != nil {
		return *a.Months
	}
	if a.Years != nil {
		return *a.Years * 12
	}
	return 0
}

// PuppyMaxMonths is the inclusive upper bound of the puppy age class.
const PuppyMaxMonths = 12

// IsPuppy reports whether the age falls in the puppy class.
func (a AnimalAge) IsPuppy() bool {
	return a.InMonths() <= PuppyMaxMonths
}
