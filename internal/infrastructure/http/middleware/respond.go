package middleware

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/savoria/engine/pkg/errors"
)

// WriteError writes a structured error response.
func WriteError(w http.ResponseWriter, r *http.Request, appErr *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	requestID := chimiddleware.GetReqID(r.Context())
	_ = json.NewEncoder(w).Encode(apperrors.ToErrorResponse(appErr, requestID))
}
