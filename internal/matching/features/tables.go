package features

import (
	"strings"

	"adoption-workers/internal/models"
)

// NotSpecified is the code of every categorical field with no value.
const NotSpecified = 0

// SizeCodes maps maturity size to its code. Unknown sizes encode as
// NotSpecified.
var SizeCodes = map[models.SizeClass]float64{
	models.SizeSmall:  1,
	models.SizeMedium: 2,
	models.SizeLarge:  3,
}

// GenderCodes maps gender labels to codes. Anything else is GenderUnknown.
var GenderCodes = map[string]float64{
	"male":   1,
	"macho":  1,
	"female": 2,
	"hembra": 2,
}

const GenderUnknown = 3

const (
	FurShort  = 1
	FurMedium = 2
	FurLong   = 3
)

// shortCoatBreeds and longCoatBreeds are matched as lower-case substrings of
// the breed label.
var shortCoatBreeds = []string{
	"beagle",
	"boxer",
	"bulldog",
	"chihuahua",
	"dachshund",
	"salchicha",
	"dalmata",
	"dalmatian",
	"doberman",
	"greyhound",
	"galgo",
	"labrador",
	"pinscher",
	"pitbull",
	"pit bull",
	"pug",
	"rottweiler",
	"terrier",
	"whippet",
	"siames",
	"siamese",
}

var longCoatBreeds = []string{
	"afgano",
	"afghan",
	"chow chow",
	"collie",
	"cocker",
	"golden",
	"husky",
	"lhasa",
	"maltes",
	"maltese",
	"pomerania",
	"pomeranian",
	"poodle",
	"caniche",
	"samoyedo",
	"samoyed",
	"shih tzu",
	"yorkshire",
	"persa",
	"persian",
	"maine coon",
}

// FurLengthCode guesses coat length from the breed label. A breed matching
// both lists, or neither, is FurMedium.
func FurLengthCode(breed string) float64 {
	b := strings.ToLower(strings.TrimSpace(breed))
	if b == "" {
		return FurMedium
	}
	short := containsAny(b, shortCoatBreeds)
	long := containsAny(b, longCoatBreeds)
	switch {
	case short && !long:
		return FurShort
	case long && !short:
		return FurLong
	default:
		return FurMedium
	}
}

// GenderCode returns the code of a gender label.
func GenderCode(gender string) float64 {
	if code, ok := GenderCodes[strings.ToLower(strings.TrimSpace(gender))]; ok {
		return code
	}
	return GenderUnknown
}

func sizeCode(size models.SizeClass) float64 {
	if code, ok := SizeCodes[models.SizeClass(strings.ToUpper(string(size)))]; ok {
		return code
	}
	return NotSpecified
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
