// Package namematch associates externally derived name strings (EXIF/XMP
// hints, video titles) with existing event, band, and photographer rows.
package namematch

import "strings"

// SimilarityThreshold is the minimum similarity for a match.
const SimilarityThreshold = 0.6

// normalize lowercases and collapses whitespace so that formatting
// differences don't count against the edit distance.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// levenshtein computes the edit distance between a and b.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, minInt(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity returns a 0..1 score for how alike two names are. Substring
// containment short-circuits to 1 before any edit distance is computed.
func Similarity(a, b string) float64 {
	na := normalize(a)
	nb := normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 1
	}

	maxLen := len([]rune(na))
	if l := len([]rune(nb)); l > maxLen {
		maxLen = l
	}
	return 1 - float64(levenshtein(na, nb))/float64(maxLen)
}

// Matches reports whether two names are similar enough to be the same thing.
func Matches(a, b string) bool {
	return Similarity(a, b) >= SimilarityThreshold
}

// Candidate is anything with a name and a database ID.
type Candidate struct {
	ID   uint
	Name string
}

// BestMatch scans candidates linearly and returns the ID of the most similar
// candidate at or above the threshold. The second return is false when
// nothing qualifies.
func BestMatch(name string, candidates []Candidate) (uint, bool) {
	bestScore := 0.0
	var bestID uint
	found := false
	for _, c := range candidates {
		score := Similarity(name, c.Name)
		if score >= SimilarityThreshold && score > bestScore {
			bestScore = score
			bestID = c.ID
			found = true
		}
	}
	return bestID, found
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
