package namematch

import "testing"

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"identical", "The Null Pointers", "The Null Pointers", 1, 1},
		{"case and spacing", "the  null pointers", "The Null Pointers", 1, 1},
		{"substring short-circuit", "Null Pointers", "The Null Pointers live", 1, 1},
		{"one edit", "Kernel Panic", "Kernal Panic", 0.9, 1},
		{"unrelated", "Stack Overflow", "Garbage Collectors", 0, 0.4},
		{"empty", "", "The Null Pointers", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if got < tt.min || got > tt.max {
				t.Errorf("Similarity(%q, %q) = %v, want in [%v, %v]", tt.a, tt.b, got, tt.min, tt.max)
			}
		})
	}
}

func TestMatchesThreshold(t *testing.T) {
	if !Matches("Kernel Panic", "Kernal Panik") {
		t.Error("expected near-identical names to match")
	}
	if Matches("Kernel Panic", "The Deadlocks") {
		t.Error("expected unrelated names not to match")
	}
}

func TestBestMatch(t *testing.T) {
	candidates := []Candidate{
		{ID: 1, Name: "The Null Pointers"},
		{ID: 2, Name: "Kernel Panic"},
		{ID: 3, Name: "The Deadlocks"},
	}

	id, ok := BestMatch("kernel panik", candidates)
	if !ok || id != 2 {
		t.Errorf("BestMatch = (%d, %v), want (2, true)", id, ok)
	}

	if _, ok := BestMatch("Completely Different Name", candidates); ok {
		t.Error("expected no match below threshold")
	}

	if _, ok := BestMatch("anything", nil); ok {
		t.Error("expected no match with no candidates")
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
