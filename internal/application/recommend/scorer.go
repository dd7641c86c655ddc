package recommend

import (
	"github.com/google/uuid"
	"github.com/savoria/engine/internal/domain/menu"
	"github.com/savoria/engine/internal/domain/recommendation"
)

// Weights is the engine's score configuration. It is engine configuration,
// never user input.
type Weights struct {
	Context ContextWeights

	// Price is the budget-utilization bias: a small positive coefficient
	// on price nudges the selector toward using the granted budget, the
	// behavior the legacy optimizer exhibited through its budget-slack
	// objective term. Kept separable so the explainer can attribute it.
	Price float64
}

// DefaultWeights returns the production score configuration.
func DefaultWeights() Weights {
	return Weights{
		Context: DefaultContextWeights(),
		Price:   0.02,
	}
}

// ScoreCandidate fuses the rating model's prediction with the context
// adjustment and the price bias into one composite score. The composite
// is assembled additively:
//
//	score = base + history + time + weather + price
//
// where base is the item's population mean, history is the personal lift
// over it, and the remaining terms are the weighted indicators. Identical
// inputs always produce identical output; the parts are retained on the
// candidate for the explainer. The composite is monotonically
// non-decreasing in both the predicted rating and the context score.
func ScoreCandidate(m *Model, w Weights, userID uuid.UUID, item menu.Item, timeOfDay menu.TimeOfDay, weather menu.Weather) recommendation.Candidate {
	predicted := m.Predict(userID, item.ID)
	base := clampRating(m.ItemBase(item.ID))
	timeDelta, weatherDelta := w.Context.Deltas(item, timeOfDay, weather)
	priceDelta := w.Price * item.Price

	c := recommendation.Candidate{
		Item:            item,
		PredictedRating: predicted,
		TimeMatch:       item.Availability.MatchesTime(timeOfDay),
		WeatherMatch:    item.Availability.MatchesWeather(weather),
		BaseValue:       base,
		HistoryDelta:    predicted - base,
		TimeDelta:       timeDelta,
		WeatherDelta:    weatherDelta,
		PriceDelta:      priceDelta,
		Group:           item.BaseName(),
		Family:          item.Family(),
	}
	c.Score = c.BaseValue + c.HistoryDelta + c.TimeDelta + c.WeatherDelta + c.PriceDelta
	return c
}
