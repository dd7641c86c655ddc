package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/savoria/engine/internal/application/recommend"
	"github.com/savoria/engine/internal/domain/menu"
	"github.com/savoria/engine/internal/infrastructure/persistence/memory"
	"github.com/savoria/engine/test/testutils"
)

type apiFixture struct {
	router *chi.Mux
	alice  menu.User
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	factory := testutils.NewMenuFactory(7)

	items := memory.NewItemRepository(
		factory.NamedItem("Kung Pao Chicken", "Chinese", "Main", 14.50),
		factory.NamedItem("Sweet Corn Soup", "Chinese", "Soup", 6.50),
		factory.NamedItem("Vanilla Ice Cream", "International", "Dessert", 4.50),
	)
	alice := factory.User()
	users := memory.NewUserRepository(alice)
	engine := recommend.NewEngine(items, memory.NewRatingRepository(), users, nil, nil, nil, zap.NewNop())

	h := NewEngineHandlers(engine, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/api/v1/train", h.Train)
	r.Post("/api/v1/recommend", h.Recommend)
	r.Post("/api/v1/rate", h.Rate)
	r.Get("/api/v1/info", h.Info)
	r.Get("/api/v1/cuisines", h.Cuisines)
	r.Get("/api/v1/categories", h.Categories)
	r.Get("/api/v1/users/{id}/ratings", h.UserRatings)
	r.Get("/health", h.HealthCheck)

	return &apiFixture{router: r, alice: alice}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func recommendBody(userID string) map[string]any {
	return map[string]any{
		"user_id":               userID,
		"budget":                50,
		"cuisine":               "Chinese",
		"categories":            []string{"Main", "Soup"},
		"require_each_category": true,
		"time_of_day":           "evening",
		"weather":               "sunny",
	}
}

func TestRecommendEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/recommend", recommendBody(f.alice.ID.String()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Recommendations []struct {
				ItemID int64   `json:"item_id"`
				Score  float64 `json:"score"`
			} `json:"recommendations"`
			TotalCost float64 `json:"total_cost"`
			Status    string  `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ok", resp.Data.Status)
	assert.NotEmpty(t, resp.Data.Recommendations)
	assert.LessOrEqual(t, resp.Data.TotalCost, 50.0)
}

func TestRecommendEndpointErrors(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("invalid budget", func(t *testing.T) {
		body := recommendBody(f.alice.ID.String())
		body["budget"] = 0
		rec := f.do(t, http.MethodPost, "/api/v1/recommend", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_BUDGET")
	})

	t.Run("no categories", func(t *testing.T) {
		body := recommendBody(f.alice.ID.String())
		body["categories"] = []string{}
		rec := f.do(t, http.MethodPost, "/api/v1/recommend", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "NO_CATEGORY_SELECTED")
	})

	t.Run("unknown user", func(t *testing.T) {
		body := recommendBody("2d9f0f6e-6f7a-4b0e-9a3e-0a6c1f2b3c4d")
		rec := f.do(t, http.MethodPost, "/api/v1/recommend", body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "UNKNOWN_USER")
	})

	t.Run("malformed user id", func(t *testing.T) {
		body := recommendBody("not-a-uuid")
		rec := f.do(t, http.MethodPost, "/api/v1/recommend", body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("infeasible budget", func(t *testing.T) {
		body := recommendBody(f.alice.ID.String())
		body["budget"] = 3
		rec := f.do(t, http.MethodPost, "/api/v1/recommend", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "INFEASIBLE_SELECTION")
	})

	t.Run("bad json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTrainEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("empty ratings", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/train", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INSUFFICIENT_DATA")
	})

	t.Run("after rating", func(t *testing.T) {
		rate := f.do(t, http.MethodPost, "/api/v1/rate", map[string]any{
			"user_id": f.alice.ID.String(),
			"item_id": 1,
			"rating":  4.5,
		})
		require.Equal(t, http.StatusCreated, rate.Code, rate.Body.String())

		rec := f.do(t, http.MethodPost, "/api/v1/train", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"ratings":1`)
	})
}

func TestRateEndpointErrors(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("unknown item", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/rate", map[string]any{
			"user_id": f.alice.ID.String(), "item_id": 999, "rating": 4,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "UNKNOWN_ITEM")
	})

	t.Run("invalid rating value", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/rate", map[string]any{
			"user_id": f.alice.ID.String(), "item_id": 1, "rating": 7,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_RATING")
	})
}

func TestCatalogEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("cuisines", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/cuisines", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Chinese")
		assert.Contains(t, rec.Body.String(), "International")
	})

	t.Run("categories", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/categories?cuisine=Chinese", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"warning_needed":true`)
	})

	t.Run("categories without cuisine", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/categories", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("info", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/info", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("user ratings", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%s/ratings", f.alice.ID), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("user ratings bad id", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/users/nope/ratings", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
