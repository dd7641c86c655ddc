// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/savoria/engine/internal/domain/menu"
	"github.com/savoria/engine/internal/domain/recommendation"
	"github.com/savoria/engine/internal/ports/inbound"
	apperrors "github.com/savoria/engine/pkg/errors"
)

// EngineHandlers handles REST API requests against the recommendation
// engine.
type EngineHandlers struct {
	engine   inbound.RecommenderService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewEngineHandlers creates a new handlers instance
func NewEngineHandlers(engine inbound.RecommenderService, logger *zap.Logger) *EngineHandlers {
	return &EngineHandlers{
		engine:   engine,
		validate: validator.New(),
		logger:   logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Train handles POST /api/v1/train
func (h *EngineHandlers) Train(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.Train(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
		Message: "Model trained successfully",
	})
}

// recommendRequest is the JSON body of POST /api/v1/recommend.
type recommendRequest struct {
	UserID              string   `json:"user_id" validate:"required"`
	Budget              float64  `json:"budget"`
	Cuisine             string   `json:"cuisine" validate:"required"`
	Categories          []string `json:"categories"`
	CategoryPriority    []string `json:"category_priority"`
	RequireEachCategory bool     `json:"require_each_category"`
	TimeOfDay           string   `json:"time_of_day" validate:"required"`
	Weather             string   `json:"weather" validate:"required"`
}

// Recommend handles POST /api/v1/recommend
func (h *EngineHandlers) Recommend(w http.ResponseWriter, r *http.Request) {
	var body recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeAppError(w, r, apperrors.NewBadRequestError("Invalid JSON body"))
		return
	}
	if err := h.validate.Struct(body); err != nil {
		h.writeAppError(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	userID, err := uuid.Parse(body.UserID)
	if err != nil {
		h.writeAppError(w, r, apperrors.NewUnknownUserError(body.UserID))
		return
	}

	result, err := h.engine.Recommend(r.Context(), recommendation.Request{
		UserID:              userID,
		Budget:              body.Budget,
		Cuisine:             body.Cuisine,
		Categories:          body.Categories,
		CategoryPriority:    body.CategoryPriority,
		RequireEachCategory: body.RequireEachCategory,
		TimeOfDay:           menu.TimeOfDay(body.TimeOfDay),
		Weather:             menu.Weather(body.Weather),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

// rateRequest is the JSON body of POST /api/v1/rate.
type rateRequest struct {
	UserID string  `json:"user_id" validate:"required"`
	ItemID int64   `json:"item_id" validate:"required"`
	Rating float64 `json:"rating" validate:"required"`
}

// Rate handles POST /api/v1/rate
func (h *EngineHandlers) Rate(w http.ResponseWriter, r *http.Request) {
	var body rateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeAppError(w, r, apperrors.NewBadRequestError("Invalid JSON body"))
		return
	}
	if err := h.validate.Struct(body); err != nil {
		h.writeAppError(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	userID, err := uuid.Parse(body.UserID)
	if err != nil {
		h.writeAppError(w, r, apperrors.NewUnknownUserError(body.UserID))
		return
	}

	if err := h.engine.Rate(r.Context(), inbound.RateCommand{
		UserID: userID,
		ItemID: body.ItemID,
		Rating: body.Rating,
	}); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Message: "Rating saved successfully",
	})
}

// Info handles GET /api/v1/info
func (h *EngineHandlers) Info(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    h.engine.Info(r.Context()),
	})
}

// Cuisines handles GET /api/v1/cuisines
func (h *EngineHandlers) Cuisines(w http.ResponseWriter, r *http.Request) {
	cuisines, err := h.engine.Cuisines(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: cuisines})
}

// Categories handles GET /api/v1/categories?cuisine=...
func (h *EngineHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	cuisine := r.URL.Query().Get("cuisine")
	if cuisine == "" {
		h.writeAppError(w, r, apperrors.NewBadRequestError("cuisine query parameter is required"))
		return
	}
	analysis, err := h.engine.CategoryAnalysis(r.Context(), cuisine)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: analysis})
}

// UserRatings handles GET /api/v1/users/{id}/ratings
func (h *EngineHandlers) UserRatings(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	userID, err := uuid.Parse(raw)
	if err != nil {
		h.writeAppError(w, r, apperrors.NewUnknownUserError(raw))
		return
	}

	ratings, err := h.engine.UserRatings(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: ratings})
}

// HealthCheck handles GET /health
func (h *EngineHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		},
		Message: "Service is healthy",
	})
}

// mapError translates domain errors into structured API errors.
func mapError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, recommendation.ErrInvalidBudget):
		return apperrors.NewAppError(apperrors.CodeInvalidBudget,
			"Budget must be greater than zero", "")
	case errors.Is(err, recommendation.ErrNoCategorySelected):
		return apperrors.NewNoCategorySelectedError()
	case errors.Is(err, recommendation.ErrInsufficientData):
		return apperrors.NewInsufficientDataError()
	case errors.Is(err, recommendation.ErrInfeasible):
		return apperrors.NewInfeasibleError("")
	case errors.Is(err, recommendation.ErrInvalidTimeOfDay):
		return apperrors.NewBadRequestError("time_of_day must be morning, afternoon or evening")
	case errors.Is(err, recommendation.ErrInvalidWeather):
		return apperrors.NewBadRequestError("weather must be sunny or rainy")
	case errors.Is(err, menu.ErrItemNotFound):
		return apperrors.NewAppError(apperrors.CodeUnknownItem, "Unknown menu item", "")
	case errors.Is(err, menu.ErrUserNotFound):
		return apperrors.NewAppError(apperrors.CodeUnknownUser, "Unknown user", "")
	case errors.Is(err, menu.ErrInvalidRating):
		return apperrors.NewAppError(apperrors.CodeInvalidRating,
			"Rating must be between 1 and 5", "")
	default:
		return apperrors.Wrap(err, "request failed")
	}
}

func (h *EngineHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := mapError(err)
	if appErr.StatusCode() >= 500 {
		h.logger.Error("Request failed",
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	h.writeAppError(w, r, appErr)
}

func (h *EngineHandlers) writeAppError(w http.ResponseWriter, r *http.Request, appErr *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	requestID := chimiddleware.GetReqID(r.Context())
	if err := json.NewEncoder(w).Encode(apperrors.ToErrorResponse(appErr, requestID)); err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

// writeJSON writes a JSON response
func (h *EngineHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}
