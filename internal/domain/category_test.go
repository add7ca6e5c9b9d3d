package domain

import (
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Category
		wantErr  bool
	}{
		{"exact label", "Rent", CategoryRent, false},
		{"lower case", "taxi", CategoryTaxi, false},
		{"surrounding space", "  Grocery ", CategoryGrocery, false},
		{"unknown label", "Travel", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				if err != ErrInvalidCategory {
					t.Errorf("ParseCategory(%q) error = %v, want ErrInvalidCategory", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCategory(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseCategory(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCategoryValuesMatchDatabaseConstraint(t *testing.T) {
	// Must match CHECK (category IN (...)) in the migrations
	expected := []string{"Taxi", "Metro", "Restaurant", "Grocery", "Rent", "Health", "Phone", "App", "Other"}
	if len(AllCategories) != len(expected) {
		t.Fatalf("Expected %d categories, got %d", len(expected), len(AllCategories))
	}
	for i, c := range AllCategories {
		if string(c) != expected[i] {
			t.Errorf("AllCategories[%d] = %s, want %s", i, c, expected[i])
		}
		if c.Index() != i {
			t.Errorf("%s.Index() = %d, want %d", c, c.Index(), i)
		}
	}
	if Category("Bogus").IsValid() {
		t.Error("Unknown category should not be valid")
	}
}
