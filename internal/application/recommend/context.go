package recommend

import "github.com/savoria/engine/internal/domain/menu"

// ContextWeights weights the situational indicator matches. With the
// default half/half split the combined context score is a bounded
// additive delta in [0,1].
type ContextWeights struct {
	Time    float64
	Weather float64
}

// DefaultContextWeights mirrors the historical relevance formula
// (rating + 0.5*time_match + 0.5*weather_match).
func DefaultContextWeights() ContextWeights {
	return ContextWeights{Time: 0.5, Weather: 0.5}
}

// Deltas returns the per-dimension additive contributions for an item in
// the given situation. Pure and stateless; each dimension is a binary
// indicator so there are no ties to break.
func (w ContextWeights) Deltas(item menu.Item, timeOfDay menu.TimeOfDay, weather menu.Weather) (timeDelta, weatherDelta float64) {
	if item.Availability.MatchesTime(timeOfDay) {
		timeDelta = w.Time
	}
	if item.Availability.MatchesWeather(weather) {
		weatherDelta = w.Weather
	}
	return timeDelta, weatherDelta
}

// Score is the combined context adjustment for an item.
func (w ContextWeights) Score(item menu.Item, timeOfDay menu.TimeOfDay, weather menu.Weather) float64 {
	t, wx := w.Deltas(item, timeOfDay, weather)
	return t + wx
}
