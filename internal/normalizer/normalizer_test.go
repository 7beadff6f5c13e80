package normalizer

import "testing"

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "CaseFold",
			input:    "TAGAYTAY CITY",
			expected: "tagaytay",
		},
		{
			name:     "CityOfPrefix",
			input:    "City of Bacoor",
			expected: "bacoor",
		},
		{
			name:     "BarangayPrefix",
			input:    "Brgy. Sungay",
			expected: "sungay",
		},
		{
			name:     "BarangayWord",
			input:    "Barangay Iruhin East",
			expected: "iruhin east",
		},
		{
			name:     "Parenthetical",
			input:    "Sungay (Pob.)",
			expected: "sungay",
		},
		{
			name:     "Diacritics",
			input:    "Peñablanca",
			expected: "penablanca",
		},
		{
			name:     "SaintAbbreviation",
			input:    "Sta. Rosa",
			expected: "santa rosa",
		},
		{
			name:     "SanAbbreviation",
			input:    "St. Bernard",
			expected: "san bernard",
		},
		{
			name:     "ProvinceOfPrefix",
			input:    "Province of Cavite",
			expected: "cavite",
		},
		{
			name:     "RegionHeader",
			input:    "REGION IV-A",
			expected: "iva",
		},
		{
			name:     "Asterisk",
			input:    "Poblacion *",
			expected: "poblacion",
		},
		{
			name:     "WhitespaceCollapse",
			input:    "  San   Jose  ",
			expected: "san jose",
		},
		{
			name:     "Empty",
			input:    "",
			expected: "",
		},
		{
			name:     "NoiseOnly",
			input:    "Barangay",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.input)
			if got != tc.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"City of Peñablanca",
		"REGION IV-A",
		"Sta. Rosa City",
		"District IV",
		"Brgy. Sungay (Pob.)",
		"GRAND TOTAL",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalize_RomanNumerals(t *testing.T) {
	pairs := [][2]string{
		{"District IV", "District 4"},
		{"District I", "District 1"},
		{"Poblacion XIII", "Poblacion 13"},
		{"Zone VIII", "Zone 8"},
	}
	for _, p := range pairs {
		roman, arabic := Normalize(p[0]), Normalize(p[1])
		if roman != arabic {
			t.Errorf("Normalize(%q)=%q and Normalize(%q)=%q should be equal", p[0], roman, p[1], arabic)
		}
	}
}

func TestIsBlank(t *testing.T) {
	for _, blank := range []string{"", "   ", "None", "nan"} {
		if !IsBlank(blank) {
			t.Errorf("IsBlank(%q) should be true", blank)
		}
	}
	for _, notBlank := range []string{"Tagaytay City", "0", "-"} {
		if IsBlank(notBlank) {
			t.Errorf("IsBlank(%q) should be false", notBlank)
		}
	}
}

func TestIsUpperCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{"CAVITE", true},
		{"REGION IV-A", true},
		{"Tagaytay City", false},
		{"cavite", false},
		{"123", false},
		{"", false},
	}
	for _, tc := range testCases {
		if got := IsUpperCase(tc.input); got != tc.expected {
			t.Errorf("IsUpperCase(%q) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}
