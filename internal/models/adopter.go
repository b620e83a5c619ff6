// internal/models/adopter.go
package models

// ExperienceLevel is the adopter's self-declared experience with animals.
type ExperienceLevel string

const (
	ExperienceNone         ExperienceLevel = "NONE"
	ExperienceBeginner     ExperienceLevel = "BEGINNER"
	ExperienceIntermediate ExperienceLevel = "INTERMEDIATE"
	ExperienceExpert       ExperienceLevel = "EXPERT"
)

type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "SEDENTARY"
	ActivityLow       ActivityLevel = "LOW"
	ActivityModerate  ActivityLevel = "MODERATE"
	ActivityHigh      ActivityLevel = "HIGH"
	ActivityVeryHigh  ActivityLevel = "VERY_HIGH"
)

// OtherPets describes which animals already live with the adopter.
type OtherPets string

const (
	OtherPetsNone OtherPets = "none"
	OtherPetsDog  OtherPets = "dog"
	OtherPetsCat  OtherPets = "cat"
	OtherPetsBoth OtherPets = "both"
)

// Level is a coarse LOW/MEDIUM/HIGH scale used for available time and
// grooming commitment.
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

const (
	DwellingHouse     = "HOUSE"
	DwellingApartment = "APARTMENT"
)

// AdopterPreferences is the preference questionnaire of a registered adopter.
// Callers must not rank with a preferences record whose Completed flag is
// false.
type AdopterPreferences struct {
	UserID             string          `json:"userId,omitempty"`
	PreferredSize      SizeClass       `json:"preferredSize,omitempty"`
	PreferredEnergy    EnergyClass     `json:"preferredEnergy,omitempty"`
	HasChildren        bool            `json:"hasChildren"`
	OtherPets          OtherPets       `json:"otherPets,omitempty"`
	DwellingType       string          `json:"dwellingType,omitempty"`
	Experience         ExperienceLevel `json:"experience,omitempty"`
	ActivityLevel      ActivityLevel   `json:"activityLevel,omitempty"`
	SpaceSize          SizeClass       `json:"spaceSize,omitempty"`
	AvailableTime      Level           `json:"availableTime,omitempty"`
	GroomingCommitment Level           `json:"groomingCommitment,omitempty"`
	Completed          bool            `json:"completed"`
}
