// Package recommend implements the recommendation engine: the
// collaborative-filtering rating model, contextual scoring, the
// budget-constrained selector and the score explainer.
package recommend

import (
	"bytes"
	"encoding/gob"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/savoria/engine/internal/domain/menu"
	"github.com/savoria/engine/internal/domain/recommendation"
)

// neutralRating is the prediction of last resort, the midpoint of the
// rating scale.
const neutralRating = 3.0

// Model is an immutable snapshot of the trained collaborative-filtering
// state. A snapshot is built wholesale by Train and swapped in atomically;
// readers never observe a partially built model.
type Model struct {
	GlobalMean float64
	ItemMeans  map[int64]float64

	UserIndex map[uuid.UUID]int
	ItemIndex map[int64]int

	// Matrix is the dense user x item rating matrix; zero means
	// unobserved, matching the sparse source.
	Matrix [][]float64

	// Similarity is the user x user cosine similarity over rating rows.
	Similarity [][]float64

	RatingCount int
	TrainedAt   time.Time
}

// BuildModel constructs a model snapshot from a full ratings dump.
// Later duplicates of a (user, item) pair overwrite earlier ones, so an
// upserted rating wins regardless of source ordering.
func BuildModel(ratings []menu.Rating) (*Model, error) {
	if len(ratings) == 0 {
		return nil, recommendation.ErrInsufficientData
	}

	userSet := make(map[uuid.UUID]bool)
	itemSet := make(map[int64]bool)
	for _, r := range ratings {
		userSet[r.UserID] = true
		itemSet[r.ItemID] = true
	}

	// Sorted index assignment keeps the matrix layout deterministic for
	// identical input sets.
	users := make([]uuid.UUID, 0, len(userSet))
	for u := range userSet {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].String() < users[j].String() })

	items := make([]int64, 0, len(itemSet))
	for it := range itemSet {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })

	m := &Model{
		ItemMeans:   make(map[int64]float64, len(items)),
		UserIndex:   make(map[uuid.UUID]int, len(users)),
		ItemIndex:   make(map[int64]int, len(items)),
		RatingCount: len(ratings),
		TrainedAt:   time.Now(),
	}
	for i, u := range users {
		m.UserIndex[u] = i
	}
	for i, it := range items {
		m.ItemIndex[it] = i
	}

	m.Matrix = make([][]float64, len(users))
	for i := range m.Matrix {
		m.Matrix[i] = make([]float64, len(items))
	}
	for _, r := range ratings {
		m.Matrix[m.UserIndex[r.UserID]][m.ItemIndex[r.ItemID]] = r.Value
	}

	var globalSum float64
	var globalN int
	for _, it := range items {
		col := m.ItemIndex[it]
		var sum float64
		var n int
		for row := range m.Matrix {
			if v := m.Matrix[row][col]; v > 0 {
				sum += v
				n++
			}
		}
		if n > 0 {
			m.ItemMeans[it] = sum / float64(n)
		}
		globalSum += sum
		globalN += n
	}
	m.GlobalMean = globalSum / float64(globalN)

	m.Similarity = cosineSimilarity(m.Matrix)

	return m, nil
}

// cosineSimilarity computes pairwise cosine similarity between rows.
func cosineSimilarity(rows [][]float64) [][]float64 {
	n := len(rows)
	norms := make([]float64, n)
	for i, row := range rows {
		var sq float64
		for _, v := range row {
			sq += v * v
		}
		norms[i] = math.Sqrt(sq)
	}

	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if norms[i] == 0 || norms[j] == 0 {
				continue
			}
			var dot float64
			for k := range rows[i] {
				dot += rows[i][k] * rows[j][k]
			}
			s := dot / (norms[i] * norms[j])
			sim[i][j] = s
			sim[j][i] = s
		}
	}
	return sim
}

// ItemBase returns the population baseline for an item: its mean observed
// rating, falling back to the global mean. A nil model yields the neutral
// midpoint, so cold starts never produce NaN.
func (m *Model) ItemBase(itemID int64) float64 {
	if m == nil {
		return neutralRating
	}
	if mean, ok := m.ItemMeans[itemID]; ok {
		return mean
	}
	return m.GlobalMean
}

// Predict estimates the rating the user would give the item, clamped to
// [1,5]. Cold-start fallback: unknown user or item degrades to the item's
// population mean, then the global mean, then the neutral midpoint.
func (m *Model) Predict(userID uuid.UUID, itemID int64) float64 {
	if m == nil {
		return neutralRating
	}

	uIdx, userKnown := m.UserIndex[userID]
	iIdx, itemKnown := m.ItemIndex[itemID]

	if !userKnown || !itemKnown {
		return clampRating(m.ItemBase(itemID))
	}

	// A user's own rating is authoritative.
	if v := m.Matrix[uIdx][iIdx]; v > 0 {
		return clampRating(v)
	}

	// Similarity-weighted vote of users who rated this item.
	var weighted, weights float64
	for other, s := range m.Similarity[uIdx] {
		if other == uIdx || s <= 0 {
			continue
		}
		if v := m.Matrix[other][iIdx]; v > 0 {
			weighted += s * v
			weights += s
		}
	}
	if weights > 0 {
		return clampRating(weighted / weights)
	}
	return clampRating(m.ItemBase(itemID))
}

func clampRating(v float64) float64 {
	if math.IsNaN(v) {
		return neutralRating
	}
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// Encode serializes the model snapshot for the artifact store.
func (m *Model) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeModel restores a model snapshot persisted by Encode.
func DecodeModel(data []byte) (*Model, error) {
	var m Model
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
