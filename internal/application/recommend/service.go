package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/savoria/engine/internal/domain/menu"
	"github.com/savoria/engine/internal/domain/recommendation"
	"github.com/savoria/engine/internal/ports/inbound"
	"github.com/savoria/engine/internal/ports/outbound"
)

// modelArtifact is the name under which the trained snapshot is persisted.
const modelArtifact = "rating_model.gob"

// defaultCacheTTL bounds how long a cached recommendation stays valid
// without an explicit invalidation.
const defaultCacheTTL = 5 * time.Minute

// Engine implements the recommendation use cases. The trained model is an
// atomic snapshot pointer: Recommend loads it lock-free, Train builds a
// replacement off to the side and swaps it in. trainMu only serializes
// trainers against each other.
type Engine struct {
	items   outbound.ItemRepository
	ratings outbound.RatingRepository
	users   outbound.UserRepository
	cache   outbound.RecommendationCache
	store   outbound.ModelStore
	metrics outbound.EngineMetrics
	logger  *zap.Logger

	weights   Weights
	cacheTTL  time.Duration
	maxItems  int
	familyCap int

	model   atomic.Pointer[Model]
	trainMu sync.Mutex
}

// Options tunes the engine beyond its defaults. Zero values keep the
// default behavior.
type Options struct {
	CacheTTL  time.Duration
	MaxItems  int
	FamilyCap int
}

var _ inbound.RecommenderService = (*Engine)(nil)

// NewEngine wires the engine. cache, store and metrics may be nil; the
// engine degrades to uncached, unpersisted operation. A previously
// persisted model snapshot is restored if the store holds one.
func NewEngine(
	items outbound.ItemRepository,
	ratings outbound.RatingRepository,
	users outbound.UserRepository,
	cache outbound.RecommendationCache,
	store outbound.ModelStore,
	metrics outbound.EngineMetrics,
	logger *zap.Logger,
) *Engine {
	e := &Engine{
		items:    items,
		ratings:  ratings,
		users:    users,
		cache:    cache,
		store:    store,
		metrics:  metrics,
		logger:   logger,
		weights:  DefaultWeights(),
		cacheTTL: defaultCacheTTL,
	}
	e.restoreModel()
	return e
}

// WithOptions applies deployment tuning to the engine. Intended to be
// called once, right after construction.
func (e *Engine) WithOptions(opts Options) *Engine {
	if opts.CacheTTL > 0 {
		e.cacheTTL = opts.CacheTTL
	}
	e.maxItems = opts.MaxItems
	e.familyCap = opts.FamilyCap
	return e
}

func (e *Engine) restoreModel() {
	if e.store == nil {
		return
	}
	data, err := e.store.Load(modelArtifact)
	if err != nil {
		e.logger.Info("no persisted model to restore", zap.Error(err))
		return
	}
	m, err := DecodeModel(data)
	if err != nil {
		e.logger.Warn("discarding unreadable model artifact", zap.Error(err))
		return
	}
	e.model.Store(m)
	e.logger.Info("restored model snapshot",
		zap.Int("ratings", m.RatingCount),
		zap.Time("trained_at", m.TrainedAt))
}

// Train rebuilds the model from the full ratings dump and swaps it in.
func (e *Engine) Train(ctx context.Context) (inbound.TrainResult, error) {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	start := time.Now()

	all, err := e.ratings.FindAll(ctx)
	if err != nil {
		return inbound.TrainResult{}, fmt.Errorf("loading ratings: %w", err)
	}

	m, err := BuildModel(all)
	if err != nil {
		e.logger.Warn("training skipped", zap.Error(err), zap.Int("ratings", len(all)))
		return inbound.TrainResult{}, err
	}

	if e.store != nil {
		if data, encErr := m.Encode(); encErr != nil {
			e.logger.Warn("model snapshot not persisted", zap.Error(encErr))
		} else if saveErr := e.store.Save(modelArtifact, data); saveErr != nil {
			e.logger.Warn("model snapshot not persisted", zap.Error(saveErr))
		}
	}

	e.model.Store(m)
	e.invalidateCache(ctx)

	elapsed := time.Since(start)
	if e.metrics != nil {
		e.metrics.RecordTraining(elapsed, len(m.UserIndex), len(m.ItemIndex), m.RatingCount)
	}
	e.logger.Info("model trained",
		zap.Int("users", len(m.UserIndex)),
		zap.Int("items", len(m.ItemIndex)),
		zap.Int("ratings", m.RatingCount),
		zap.Duration("duration", elapsed))

	return inbound.TrainResult{
		Users:    len(m.UserIndex),
		Items:    len(m.ItemIndex),
		Ratings:  m.RatingCount,
		Message:  "model trained",
		Duration: elapsed.String(),
	}, nil
}

// Recommend scores the candidate pool for the request, solves the
// budget-constrained selection and attaches per-item explanations.
func (e *Engine) Recommend(ctx context.Context, req recommendation.Request) (*inbound.RecommendationResult, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Normalize()

	if e.users != nil {
		ok, err := e.users.Exists(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("checking user: %w", err)
		}
		if !ok {
			return nil, menu.ErrUserNotFound
		}
	}

	key := cacheKey(req)
	if cached := e.cachedResult(ctx, key); cached != nil {
		return cached, nil
	}

	pool, err := e.candidatePool(ctx, req)
	if err != nil {
		return nil, err
	}

	m := e.model.Load()
	candidates := make([]recommendation.Candidate, 0, len(pool))
	for _, item := range pool {
		candidates = append(candidates, ScoreCandidate(m, e.weights, req.UserID, item, req.TimeOfDay, req.Weather))
	}

	selection, err := Select(candidates, SelectionConstraints{
		Budget:              req.Budget,
		Categories:          req.Categories,
		CategoryPriority:    req.CategoryPriority,
		RequireEachCategory: req.RequireEachCategory,
		FamilyCap:           e.familyCap,
		MaxItems:            e.maxItems,
	})
	if err != nil {
		return nil, err
	}

	result := &inbound.RecommendationResult{
		Items:        make([]inbound.RecommendedItemDTO, 0, len(selection.Items)),
		Explanations: ExplainAll(selection.Items),
		TotalCost:    selection.TotalCost,
		Status:       selection.Status,
	}
	for _, c := range selection.Items {
		result.Items = append(result.Items, inbound.RecommendedItemDTO{
			ItemID:          c.Item.ID,
			ItemName:        c.Item.Name,
			Description:     c.Item.Description,
			Price:           c.Item.Price,
			Cuisine:         c.Item.Cuisine,
			Category:        c.Item.Category,
			PredictedRating: c.PredictedRating,
			Score:           c.Score,
		})
	}

	e.storeResult(ctx, key, result)
	if e.metrics != nil {
		e.metrics.RecordRecommendation(string(selection.Status), time.Since(start))
	}
	e.logger.Debug("recommendation computed",
		zap.String("user_id", req.UserID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("selected", len(selection.Items)),
		zap.Float64("total_cost", selection.TotalCost))

	return result, nil
}

// candidatePool gathers the request's candidate items: the cuisine's own
// items for the requested categories, supplemented from the International
// cuisine for categories the cuisine does not cover.
func (e *Engine) candidatePool(ctx context.Context, req recommendation.Request) ([]menu.Item, error) {
	native, err := e.items.FindByCuisineAndCategories(ctx, req.Cuisine, req.Categories)
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}

	covered := make(map[string]bool, len(req.Categories))
	for _, item := range native {
		covered[item.Category] = true
	}

	var missing []string
	for _, cat := range req.Categories {
		if !covered[cat] {
			missing = append(missing, cat)
		}
	}
	if len(missing) == 0 || req.Cuisine == menu.InternationalCuisine {
		return native, nil
	}

	supplements, err := e.items.FindByCuisineAndCategories(ctx, menu.InternationalCuisine, missing)
	if err != nil {
		return nil, fmt.Errorf("loading supplements: %w", err)
	}
	if len(supplements) > 0 {
		e.logger.Debug("supplementing categories",
			zap.String("cuisine", req.Cuisine),
			zap.Strings("categories", missing),
			zap.Int("supplements", len(supplements)))
	}
	return append(native, supplements...), nil
}

// Rate validates and upserts a rating. The model is not retrained; the
// new rating takes effect on the next Train.
func (e *Engine) Rate(ctx context.Context, cmd inbound.RateCommand) error {
	if e.users != nil {
		ok, err := e.users.Exists(ctx, cmd.UserID)
		if err != nil {
			return fmt.Errorf("checking user: %w", err)
		}
		if !ok {
			return menu.ErrUserNotFound
		}
	}
	if _, err := e.items.FindByID(ctx, cmd.ItemID); err != nil {
		return err
	}

	rating, err := menu.NewRating(cmd.UserID, cmd.ItemID, cmd.Rating)
	if err != nil {
		return err
	}
	if err := e.ratings.Save(ctx, rating); err != nil {
		return fmt.Errorf("saving rating: %w", err)
	}

	e.invalidateCache(ctx)
	if e.metrics != nil {
		e.metrics.RecordRating()
	}
	e.logger.Info("rating saved",
		zap.String("user_id", cmd.UserID.String()),
		zap.Int64("item_id", cmd.ItemID),
		zap.Float64("rating", cmd.Rating))
	return nil
}

// Info reports the persisted model artifacts.
func (e *Engine) Info(ctx context.Context) map[string]outbound.ArtifactInfo {
	if e.store == nil {
		return map[string]outbound.ArtifactInfo{}
	}
	return e.store.Info()
}

// Cuisines lists the catalog's cuisines.
func (e *Engine) Cuisines(ctx context.Context) ([]string, error) {
	return e.items.Cuisines(ctx)
}

// CategoryAnalysis reports which of a cuisine's categories come from its
// own menu and which would be supplemented from the International
// cuisine.
func (e *Engine) CategoryAnalysis(ctx context.Context, cuisine string) (*inbound.CategoryAnalysis, error) {
	native, err := e.items.Categories(ctx, cuisine)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	analysis := &inbound.CategoryAnalysis{
		Cuisine:          cuisine,
		NativeCategories: native,
	}
	if cuisine != menu.InternationalCuisine {
		intl, err := e.items.Categories(ctx, menu.InternationalCuisine)
		if err != nil {
			return nil, fmt.Errorf("loading categories: %w", err)
		}
		covered := make(map[string]bool, len(native))
		for _, cat := range native {
			covered[cat] = true
		}
		for _, cat := range intl {
			if !covered[cat] {
				analysis.SupplementedCategories = append(analysis.SupplementedCategories, cat)
			}
		}
	}
	analysis.WarningNeeded = len(native) <= 3 && len(analysis.SupplementedCategories) > 0
	analysis.TotalCategories = append(append([]string(nil), native...), analysis.SupplementedCategories...)
	return analysis, nil
}

// UserRatings lists a user's ratings joined with item metadata.
func (e *Engine) UserRatings(ctx context.Context, userID uuid.UUID) ([]inbound.UserRatingDTO, error) {
	if e.users != nil {
		ok, err := e.users.Exists(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("checking user: %w", err)
		}
		if !ok {
			return nil, menu.ErrUserNotFound
		}
	}

	ratings, err := e.ratings.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading ratings: %w", err)
	}

	out := make([]inbound.UserRatingDTO, 0, len(ratings))
	for _, r := range ratings {
		dto := inbound.UserRatingDTO{
			ItemID: r.ItemID,
			Rating: r.Value,
			Date:   r.CreatedAt.Format(time.RFC3339),
		}
		if item, err := e.items.FindByID(ctx, r.ItemID); err == nil {
			dto.ItemName = item.Name
			dto.Category = item.Category
			dto.Cuisine = item.Cuisine
		}
		out = append(out, dto)
	}
	return out, nil
}

// Model exposes the current snapshot; nil before the first training.
func (e *Engine) Model() *Model {
	return e.model.Load()
}

const cachePrefix = "recommend:"

// cacheKey hashes the normalized request so equivalent requests share a
// cache entry.
func cacheKey(req recommendation.Request) string {
	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return cachePrefix + hex.EncodeToString(sum[:])
}

func (e *Engine) cachedResult(ctx context.Context, key string) *inbound.RecommendationResult {
	if e.cache == nil {
		return nil
	}
	data, err := e.cache.Get(ctx, key)
	if err != nil || data == nil {
		if e.metrics != nil {
			e.metrics.RecordCacheMiss()
		}
		return nil
	}
	var result inbound.RecommendationResult
	if err := json.Unmarshal(data, &result); err != nil {
		e.logger.Warn("dropping unreadable cache entry", zap.String("key", key), zap.Error(err))
		return nil
	}
	if e.metrics != nil {
		e.metrics.RecordCacheHit()
	}
	return &result
}

func (e *Engine) storeResult(ctx context.Context, key string, result *inbound.RecommendationResult) {
	if e.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, key, data, e.cacheTTL); err != nil {
		e.logger.Warn("recommendation not cached", zap.Error(err))
	}
}

func (e *Engine) invalidateCache(ctx context.Context) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Invalidate(ctx, cachePrefix+"*"); err != nil {
		e.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}
