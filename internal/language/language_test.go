package language

import "testing"

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"en-US", "en"},
		{"fr_CA", "fr"},
		{"eng", "en"},
		{"fre", "fr"},
		{"ger", "de"},
		{"english", "en"},
		{"Spanish", "es"},
		{"ase", ""},
		{"xy", "xy"},
		{"", ""},
		{" ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToISO2(tt.input); got != tt.expected {
				t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"EN", "en", true},
		{"en-us", "en-US", true},
		{"ase", "ase", true},
		{"", "", false},
		{"not a tag!", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Normalize(tt.input)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"fra", "French"},
		{"ase", "American Sign Language"},
		{"ASL", "American Sign Language"},
		{"fsl", "French Sign Language"},
		{"", "Unknown"},
		{"xyz", "XYZ"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsSignLanguage(t *testing.T) {
	if !IsSignLanguage("ase") {
		t.Fatal("expected ase to be a sign language")
	}
	if IsSignLanguage("en") {
		t.Fatal("expected en to be spoken")
	}
	if IsSignLanguage("zz") {
		t.Fatal("unknown code should not be a sign language")
	}
}
