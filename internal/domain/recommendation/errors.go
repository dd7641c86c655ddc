package recommendation

import "errors"

// Domain errors for the recommendation engine

var (
	// Request validation errors
	ErrInvalidBudget      = errors.New("budget must be greater than zero")
	ErrNoCategorySelected = errors.New("at least one category must be selected")
	ErrInvalidTimeOfDay   = errors.New("unknown time of day")
	ErrInvalidWeather     = errors.New("unknown weather condition")

	// Model errors
	ErrInsufficientData = errors.New("no ratings available to train the model")
	ErrModelNotTrained  = errors.New("rating model has not been trained")

	// Selection errors
	ErrInfeasible = errors.New("no selection satisfies the hard constraints within budget")
)
