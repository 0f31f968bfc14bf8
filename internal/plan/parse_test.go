package plan

import "testing"

// TestParseEquipment verifies keyword extraction from free-text
// equipment descriptions in French and English.
func TestParseEquipment(t *testing.T) {
	tests := []struct {
		input string
		want  Equipment
	}{
		{"", Equipment{}},
		{"aucun", Equipment{}},
		{"none", Equipment{}},
		{"tapis", Equipment{Specified: true, Mat: true}},
		{"tapis et une chaise", Equipment{Specified: true, Mat: true, Chair: true}},
		{"haltères et bandes élastiques", Equipment{Specified: true, Weights: true, Bands: true}},
		{"dumbbells, yoga mat", Equipment{Specified: true, Mat: true, Weights: true}},
		{"un vélo d'appartement", Equipment{Specified: true}},
	}
	for _, tt := range tests {
		got := ParseEquipment(tt.input)
		if got != tt.want {
			t.Errorf("ParseEquipment(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

// TestEquipmentHas verifies the category check, including that
// equipment-free exercises are always available.
func TestEquipmentHas(t *testing.T) {
	e := Equipment{Specified: true, Mat: true}
	if !e.Has(equipMat) {
		t.Error("Has(mat) = false, want true")
	}
	if e.Has(equipWeights) {
		t.Error("Has(weights) = true, want false")
	}
	if !e.Has(equipNone) {
		t.Error("Has(none) = false, want true")
	}
}

// TestFirstInt verifies integer extraction from free-text frequency
// answers.
func TestFirstInt(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"3 fois par semaine", 3, true},
		{"environ 2-3 séances", 2, true},
		{"jamais", 0, false},
		{"", 0, false},
		{"5", 5, true},
	}
	for _, tt := range tests {
		got, ok := FirstInt(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("FirstInt(%q) = %d, %v, want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}
