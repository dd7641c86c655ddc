// Package inbound defines the interfaces for inbound ports (primary/driving adapters).
// These are the use cases the engine exposes to HTTP handlers and other
// driving adapters.
package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/savoria/engine/internal/domain/recommendation"
	"github.com/savoria/engine/internal/ports/outbound"
)

// RecommenderService defines the recommendation engine use cases.
type RecommenderService interface {
	// Train rebuilds the rating model from the current ratings source and
	// atomically swaps it in. Idempotent; concurrent readers keep using
	// the prior snapshot until the swap completes.
	Train(ctx context.Context) (TrainResult, error)

	// Recommend computes a budget-constrained selection with per-item
	// explanations.
	Recommend(ctx context.Context, req recommendation.Request) (*RecommendationResult, error)

	// Rate upserts a user's rating for an item. Does not retrain.
	Rate(ctx context.Context, cmd RateCommand) error

	// Info reports the persisted model artifacts.
	Info(ctx context.Context) map[string]outbound.ArtifactInfo

	// Catalog queries
	Cuisines(ctx context.Context) ([]string, error)
	CategoryAnalysis(ctx context.Context, cuisine string) (*CategoryAnalysis, error)
	UserRatings(ctx context.Context, userID uuid.UUID) ([]UserRatingDTO, error)
}

// TrainResult summarizes a training run.
type TrainResult struct {
	Users    int    `json:"users"`
	Items    int    `json:"items"`
	Ratings  int    `json:"ratings"`
	Message  string `json:"message"`
	Duration string `json:"duration"`
}

// RateCommand carries a rating upsert.
type RateCommand struct {
	UserID uuid.UUID `json:"user_id"`
	ItemID int64     `json:"item_id"`
	Rating float64   `json:"rating"`
}

// RecommendedItemDTO is one selected item in a recommendation response.
type RecommendedItemDTO struct {
	ItemID          int64   `json:"item_id"`
	ItemName        string  `json:"item_name"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price"`
	Cuisine         string  `json:"cuisine"`
	Category        string  `json:"category"`
	PredictedRating float64 `json:"predicted_rating"`
	Score           float64 `json:"score"`
}

// RecommendationResult is the engine's answer to one request.
type RecommendationResult struct {
	Items        []RecommendedItemDTO               `json:"recommendations"`
	Explanations map[int64]recommendation.Explanation `json:"explanations"`
	TotalCost    float64                            `json:"total_cost"`
	Status       recommendation.SelectionStatus     `json:"status"`
}

// CategoryAnalysis reports a cuisine's native categories and the
// categories supplemented from the International cuisine.
type CategoryAnalysis struct {
	Cuisine                string   `json:"cuisine"`
	NativeCategories       []string `json:"native_categories"`
	SupplementedCategories []string `json:"supplemented_categories"`
	WarningNeeded          bool     `json:"warning_needed"`
	TotalCategories        []string `json:"total_categories"`
}

// UserRatingDTO is one rating joined with item metadata.
type UserRatingDTO struct {
	ItemID   int64   `json:"item_id"`
	ItemName string  `json:"item_name"`
	Category string  `json:"category"`
	Cuisine  string  `json:"cuisine"`
	Rating   float64 `json:"rating"`
	Date     string  `json:"date"`
}
