package scoring

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeScoresWeightsAndNormalization(t *testing.T) {
	version, err := LookupVersion("2024")
	if err != nil {
		t.Fatalf("LookupVersion: %v", err)
	}

	inputs := []BandInput{
		{
			BandID:   1,
			BandName: "Kernel Panic",
			CategoryAverages: map[string]float64{
				CategoryPerformance:   8,
				CategoryMusicality:    6,
				CategoryStagePresence: 10,
			},
			VoteCount: 50,
		},
		{
			BandID:   2,
			BandName: "The Null Pointers",
			CategoryAverages: map[string]float64{
				CategoryPerformance:   9,
				CategoryMusicality:    9,
				CategoryStagePresence: 9,
			},
			VoteCount: 100,
		},
	}

	scores := ComputeScores(version, inputs)

	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}

	// Null Pointers: judge = 9*0.5 + 9*0.3 + 9*0.2 = 9, crowd = 100/100*10 = 10
	if scores[0].BandID != 2 {
		t.Fatalf("expected band 2 ranked first, got band %d", scores[0].BandID)
	}
	if !almostEqual(scores[0].JudgeScore, 9) {
		t.Errorf("judge score = %v, want 9", scores[0].JudgeScore)
	}
	if !almostEqual(scores[0].CrowdScore, 10) {
		t.Errorf("crowd score = %v, want 10", scores[0].CrowdScore)
	}
	if !almostEqual(scores[0].TotalScore, 19) {
		t.Errorf("total score = %v, want 19", scores[0].TotalScore)
	}

	// Kernel Panic: judge = 8*0.5 + 6*0.3 + 10*0.2 = 7.8, crowd = 50/100*10 = 5
	if !almostEqual(scores[1].JudgeScore, 7.8) {
		t.Errorf("judge score = %v, want 7.8", scores[1].JudgeScore)
	}
	if !almostEqual(scores[1].CrowdScore, 5) {
		t.Errorf("crowd score = %v, want 5", scores[1].CrowdScore)
	}

	if scores[0].Rank != 1 || scores[1].Rank != 2 {
		t.Errorf("ranks = %d, %d, want 1, 2", scores[0].Rank, scores[1].Rank)
	}
}

func TestComputeScoresVersionGating(t *testing.T) {
	v2024, _ := LookupVersion("2024")
	v2025, _ := LookupVersion("2025")

	averages := map[string]float64{
		CategoryPerformance:     10,
		CategoryMusicality:      10,
		CategoryStagePresence:   10,
		CategoryCrowdEngagement: 0,
	}
	inputs := []BandInput{{BandID: 1, BandName: "Solo", CategoryAverages: averages, VoteCount: 1}}

	// 2024 ignores crowd_engagement entirely
	s2024 := ComputeScores(v2024, inputs)
	if !almostEqual(s2024[0].JudgeScore, 10) {
		t.Errorf("2024 judge score = %v, want 10", s2024[0].JudgeScore)
	}

	// 2025 weights it at 0.15, so a zero there caps the judge component at 8.5
	s2025 := ComputeScores(v2025, inputs)
	if !almostEqual(s2025[0].JudgeScore, 8.5) {
		t.Errorf("2025 judge score = %v, want 8.5", s2025[0].JudgeScore)
	}
}

func TestComputeScoresNoVotes(t *testing.T) {
	version, _ := LookupVersion("2024")
	inputs := []BandInput{
		{BandID: 1, BandName: "A", CategoryAverages: map[string]float64{CategoryPerformance: 5}},
		{BandID: 2, BandName: "B", CategoryAverages: map[string]float64{CategoryPerformance: 5}},
	}

	scores := ComputeScores(version, inputs)
	for _, s := range scores {
		if s.CrowdScore != 0 {
			t.Errorf("band %d crowd score = %v, want 0 when nobody voted", s.BandID, s.CrowdScore)
		}
	}
}

func TestComputeScoresTieOrderDeterministic(t *testing.T) {
	version, _ := LookupVersion("2024")
	inputs := []BandInput{
		{BandID: 7, BandName: "Zebra Crossing", VoteCount: 10},
		{BandID: 3, BandName: "Abort Retry Fail", VoteCount: 10},
	}

	scores := ComputeScores(version, inputs)
	if scores[0].BandID != 3 || scores[0].Rank != 1 {
		t.Errorf("expected tie broken by name: got band %d at rank %d first", scores[0].BandID, scores[0].Rank)
	}
	if scores[1].Rank != 2 {
		t.Errorf("expected sequential ranks on tie, got %d", scores[1].Rank)
	}
}

func TestLookupVersionUnknown(t *testing.T) {
	if _, err := LookupVersion("1999"); err == nil {
		t.Error("expected error for unknown version tag")
	}
}

func TestVersionWeightsSumToOne(t *testing.T) {
	for _, tag := range []string{"2024", "2025"} {
		v, err := LookupVersion(tag)
		if err != nil {
			t.Fatalf("LookupVersion(%s): %v", tag, err)
		}
		var sum float64
		for _, cw := range v.Categories {
			sum += cw.Weight
		}
		if !almostEqual(sum, 1) {
			t.Errorf("version %s weights sum to %v, want 1", tag, sum)
		}
	}
}
