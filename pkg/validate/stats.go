package validate

import "math"

// Stats summarizes a batch of validated trends for dashboards.
type Stats struct {
	Total              int     `json:"total"`
	Validated          int     `json:"validated"`
	Unvalidated        int     `json:"unvalidated"`
	ValidationRate     int     `json:"validation_rate"`
	AvgSourceCount     float64 `json:"avg_source_count"`
	AvgValidationScore int     `json:"avg_validation_score"`
}

// ValidatedOnly filters trends down to those corroborated by enough
// distinct sources.
func ValidatedOnly(trends []ValidatedTrend) []ValidatedTrend {
	out := make([]ValidatedTrend, 0, len(trends))
	for _, t := range trends {
		if t.IsValidated {
			out = append(out, t)
		}
	}
	return out
}

// ComputeStats derives summary statistics. All fields are zero for an
// empty input.
func ComputeStats(trends []ValidatedTrend) Stats {
	stats := Stats{Total: len(trends)}
	if stats.Total == 0 {
		return stats
	}

	totalSources := 0
	totalScore := 0
	for _, t := range trends {
		if t.IsValidated {
			stats.Validated++
		}
		totalSources += t.SourceCount
		totalScore += t.ValidationScore
	}
	stats.Unvalidated = stats.Total - stats.Validated

	n := float64(stats.Total)
	stats.ValidationRate = int(math.Round(float64(stats.Validated) / n * 100))
	stats.AvgSourceCount = math.Round(float64(totalSources)/n*10) / 10
	stats.AvgValidationScore = int(math.Round(float64(totalScore) / n))

	return stats
}
