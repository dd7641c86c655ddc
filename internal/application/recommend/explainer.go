package recommend

import "github.com/savoria/engine/internal/domain/recommendation"

// Explain decomposes a scored candidate into its named additive
// contributions. The base plus the contributions always reproduces the
// composite score exactly, because both are assembled from the same
// parts; a user with no usable history shows a user_history contribution
// of zero rather than failing.
func Explain(c recommendation.Candidate) recommendation.Explanation {
	return recommendation.Explanation{
		ItemID:          c.Item.ID,
		ItemName:        c.Item.Name,
		PredictedRating: c.PredictedRating,
		Base:            c.BaseValue,
		Contributions: map[string]float64{
			recommendation.TermUserHistory: c.HistoryDelta,
			recommendation.TermTimeOfDay:   c.TimeDelta,
			recommendation.TermWeather:     c.WeatherDelta,
			recommendation.TermPrice:       c.PriceDelta,
		},
		Score: c.Score,
	}
}

// ExplainAll maps Explain over a selection, keyed by item ID.
func ExplainAll(items []recommendation.Candidate) map[int64]recommendation.Explanation {
	out := make(map[int64]recommendation.Explanation, len(items))
	for _, c := range items {
		out[c.Item.ID] = Explain(c)
	}
	return out
}
