package scoring

import "sort"

// BandInput aggregates everything scoring needs for one band: per-category
// judge averages (0..10) and the crowd vote count.
type BandInput struct {
	BandID           uint
	BandName         string
	CategoryAverages map[string]float64
	VoteCount        int64
}

// BandScore is the computed result for one band.
type BandScore struct {
	BandID     uint
	BandName   string
	JudgeScore float64
	CrowdScore float64
	TotalScore float64
	VoteCount  int64
	Rank       int
}

// ComputeScores applies the version's weights to each band's judge category
// averages, adds the normalized crowd term (band votes / max votes, scaled to
// CrowdPoints), sorts by total descending, and assigns sequential ranks.
// Categories a version doesn't name are ignored; missing categories count as
// zero.
func ComputeScores(version Version, inputs []BandInput) []BandScore {
	var maxVotes int64
	for _, in := range inputs {
		if in.VoteCount > maxVotes {
			maxVotes = in.VoteCount
		}
	}

	scores := make([]BandScore, 0, len(inputs))
	for _, in := range inputs {
		var judge float64
		for _, cw := range version.Categories {
			judge += cw.Weight * in.CategoryAverages[cw.Category]
		}

		var crowd float64
		if maxVotes > 0 {
			crowd = float64(in.VoteCount) / float64(maxVotes) * CrowdPoints
		}

		scores = append(scores, BandScore{
			BandID:     in.BandID,
			BandName:   in.BandName,
			JudgeScore: judge,
			CrowdScore: crowd,
			TotalScore: judge + crowd,
			VoteCount:  in.VoteCount,
		})
	}

	// ties get sequential ranks in name order so reruns are deterministic
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].TotalScore != scores[j].TotalScore {
			return scores[i].TotalScore > scores[j].TotalScore
		}
		return scores[i].BandName < scores[j].BandName
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}

	return scores
}
