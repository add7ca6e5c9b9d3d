package domain

import "strings"

// Category is one of the fixed expense labels
type Category string

const (
	CategoryTaxi       Category = "Taxi"
	CategoryMetro      Category = "Metro"
	CategoryRestaurant Category = "Restaurant"
	CategoryGrocery    Category = "Grocery"
	CategoryRent       Category = "Rent"
	CategoryHealth     Category = "Health"
	CategoryPhone      Category = "Phone"
	CategoryApp        Category = "App"
	CategoryOther      Category = "Other"
)

// AllCategories lists the labels in display order
var AllCategories = []Category{
	CategoryTaxi,
	CategoryMetro,
	CategoryRestaurant,
	CategoryGrocery,
	CategoryRent,
	CategoryHealth,
	CategoryPhone,
	CategoryApp,
	CategoryOther,
}

// IsValid reports whether c is one of the fixed labels
func (c Category) IsValid() bool {
	return c.Index() >= 0
}

// Index returns the display position of c, or -1 for unknown labels
func (c Category) Index() int {
	for i, known := range AllCategories {
		if known == c {
			return i
		}
	}
	return -1
}

// ParseCategory matches s against the fixed labels, ignoring case and surrounding space
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range AllCategories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}
