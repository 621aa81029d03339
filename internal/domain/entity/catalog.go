package entity

import (
	"fmt"
	"strings"
)

// Category classifies a skincare product. The set is closed.
type Category string

const (
	CategoryBodyLotion    Category = "body lotion"
	CategoryCleanser      Category = "cleanser"
	CategoryHerbalRemedy  Category = "herbal remedy"
	CategoryMist          Category = "mist"
	CategoryMoisturizer   Category = "moisturizer"
	CategoryOil           Category = "oil"
	CategoryPeeling       Category = "peeling"
	CategorySerum         Category = "serum"
	CategorySoap          Category = "soap"
	CategorySpotTreatment Category = "spot-treatment"
	CategorySunscreen     Category = "sunscreen"
	CategoryOther         Category = "other"
)

var categories = []Category{
	CategoryBodyLotion,
	CategoryCleanser,
	CategoryHerbalRemedy,
	CategoryMist,
	CategoryMoisturizer,
	CategoryOil,
	CategoryPeeling,
	CategorySerum,
	CategorySoap,
	CategorySpotTreatment,
	CategorySunscreen,
	CategoryOther,
}

// Routine is the time of day a product is meant for.
type Routine string

const (
	RoutineMorning Routine = "morning"
	RoutineNight   Routine = "night"
)

var routines = []Routine{RoutineMorning, RoutineNight}

// Categories returns the closed category list in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Routines returns all routines in display order.
func Routines() []Routine {
	out := make([]Routine, len(routines))
	copy(out, routines)
	return out
}

func (c Category) Valid() bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}

func (r Routine) Valid() bool {
	return r == RoutineMorning || r == RoutineNight
}

// ParseCategory accepts a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// ParseRoutine accepts a routine name case-insensitively.
func ParseRoutine(s string) (Routine, error) {
	r := Routine(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown routine %q", s)
	}
	return r, nil
}
