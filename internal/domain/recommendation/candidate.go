// Package recommendation contains the request-scoped value objects of the
// recommendation engine: scored candidates, selections and score
// explanations. Everything here is constructed fresh per request and
// discarded with the response.
package recommendation

import (
	"math"

	"github.com/savoria/engine/internal/domain/menu"
)

// Candidate is a catalog item scored for one (user, request) pair.
// Score is a pure function of its inputs; the parts are kept so the
// explainer can attribute them independently.
type Candidate struct {
	Item            menu.Item
	PredictedRating float64
	TimeMatch       bool
	WeatherMatch    bool

	// Score components, additive: Score = BaseValue + HistoryDelta +
	// TimeDelta + WeatherDelta + PriceDelta.
	BaseValue    float64
	HistoryDelta float64
	TimeDelta    float64
	WeatherDelta float64
	PriceDelta   float64
	Score        float64

	// Group is the portion-exclusivity group (item base name); at most
	// one candidate per group may be selected. Family is the dish family
	// used for the diversity cap.
	Group  string
	Family string
}

// SelectionStatus labels why a selection is (or is not) empty.
type SelectionStatus string

// Selection statuses
const (
	// SelectionOK holds at least one item within budget.
	SelectionOK SelectionStatus = "ok"
	// SelectionNoFeasible means no non-empty selection fits the budget.
	// This is distinct from an Infeasible error: no hard constraint was
	// violated, nothing fit.
	SelectionNoFeasible SelectionStatus = "no_feasible_selection"
)

// Selection is the chosen candidate subset. TotalCost never exceeds the
// requested budget.
type Selection struct {
	Items     []Candidate
	TotalCost float64
	Status    SelectionStatus
}

// Contribution names used in explanations.
const (
	TermUserHistory = "user_history"
	TermTimeOfDay   = "time_of_day"
	TermWeather     = "weather"
	TermPrice       = "price"
)

// Explanation decomposes a candidate's score into a base value plus named
// additive contributions. Base + sum of contributions reproduces the
// composite score within Tolerance.
type Explanation struct {
	ItemID          int64              `json:"item_id"`
	ItemName        string             `json:"item_name"`
	PredictedRating float64            `json:"predicted_rating"`
	Base            float64            `json:"base_value"`
	Contributions   map[string]float64 `json:"contributions"`
	Score           float64            `json:"score"`
}

// Tolerance is the absolute tolerance for the additive-reconstruction
// invariant.
const Tolerance = 1e-6

// Reconstructs reports whether base + contributions reproduce the score.
func (e Explanation) Reconstructs() bool {
	sum := e.Base
	for _, delta := range e.Contributions {
		sum += delta
	}
	return math.Abs(sum-e.Score) <= Tolerance
}
