package menumatch

import (
	"testing"

	"github.com/tavola-pos/api/internal/model"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "mixed case",
			input:    "Spaghetti Carbonara",
			expected: "spaghetti carbonara",
		},
		{
			name:     "multiple spaces",
			input:    "Panna   Cotta",
			expected: "panna cotta",
		},
		{
			name:     "punctuation",
			input:    "Tiramisu (house-made)!",
			expected: "tiramisu house made",
		},
		{
			name:     "accents kept",
			input:    "Crème Brûlée",
			expected: "crème brûlée",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalize(tt.input)
			if result != tt.expected {
				t.Errorf("normalize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestExtractQuantity(t *testing.T) {
	tests := []struct {
		name         string
		tokens       []string
		expectedQty  int
		expectedRest []string
	}{
		{"prefix 2x", []string{"2x", "margherita"}, 2, []string{"margherita"}},
		{"suffix x3", []string{"cola", "x3"}, 3, []string{"cola"}},
		{"bare number", []string{"4", "espresso"}, 4, []string{"espresso"}},
		{"zero is not a quantity", []string{"0", "cola"}, 1, []string{"0", "cola"}},
		{"no quantity", []string{"panna", "cotta"}, 1, []string{"panna", "cotta"}},
		{"lone x", []string{"x", "cola"}, 1, []string{"x", "cola"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qty, rest := extractQuantity(tt.tokens)
			if qty != tt.expectedQty {
				t.Errorf("extractQuantity(%v) qty = %d, want %d", tt.tokens, qty, tt.expectedQty)
			}
			if len(rest) != len(tt.expectedRest) {
				t.Fatalf("extractQuantity(%v) rest = %v, want %v", tt.tokens, rest, tt.expectedRest)
			}
			for i, r := range rest {
				if r != tt.expectedRest[i] {
					t.Errorf("extractQuantity(%v) rest[%d] = %q, want %q", tt.tokens, i, r, tt.expectedRest[i])
				}
			}
		})
	}
}

var testMenu = []model.MenuItem{
	{ID: "m1", Name: "Spaghetti Carbonara"},
	{ID: "m2", Name: "Spaghetti Bolognese"},
	{ID: "m3", Name: "Cola"},
	{ID: "m4", Name: "Diet Cola"},
	{ID: "m5", Name: "Risotto ai Funghi"},
}

func TestMatch_SingleMatch(t *testing.T) {
	result := New(testMenu).Match("2x Spaghetti Carbonara")

	if result.Status != Matched {
		t.Fatalf("Match status = %v, want Matched", result.Status)
	}
	if result.Item.ID != "m1" {
		t.Errorf("matched item = %q, want m1", result.Item.ID)
	}
	if result.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", result.Quantity)
	}
}

func TestMatch_Ambiguous(t *testing.T) {
	result := New(testMenu).Match("spaghetti")

	if result.Status != Ambiguous {
		t.Errorf("Match status = %v, want Ambiguous", result.Status)
	}
	if len(result.Candidates) != 2 {
		t.Errorf("Candidates count = %d, want 2", len(result.Candidates))
	}
}

func TestMatch_Unmatched(t *testing.T) {
	result := New(testMenu).Match("sushi platter")

	if result.Status != Unmatched {
		t.Errorf("Match status = %v, want Unmatched", result.Status)
	}
}

func TestMatch_FullNamePreferred(t *testing.T) {
	m := New(testMenu)

	tests := []struct {
		input string
		want  string
	}{
		{"a cold cola", "m3"},
		{"Diet Cola", "m4"},
		{"Try the risotto with funghi", "m5"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := m.Match(tt.input)
			if result.Status != Matched {
				t.Fatalf("Match(%q) status = %v, want Matched", tt.input, result.Status)
			}
			if result.Item.ID != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.input, result.Item.ID, tt.want)
			}
		})
	}
}
