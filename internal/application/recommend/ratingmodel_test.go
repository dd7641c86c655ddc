package recommend

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savoria/engine/internal/domain/menu"
	"github.com/savoria/engine/internal/domain/recommendation"
)

func rating(userID uuid.UUID, itemID int64, value float64) menu.Rating {
	return menu.Rating{UserID: userID, ItemID: itemID, Value: value}
}

func TestBuildModelEmpty(t *testing.T) {
	_, err := BuildModel(nil)
	assert.ErrorIs(t, err, recommendation.ErrInsufficientData)
}

func TestBuildModelBasics(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	m, err := BuildModel([]menu.Rating{
		rating(alice, 1, 4),
		rating(alice, 2, 2),
		rating(bob, 1, 5),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, m.RatingCount)
	assert.Len(t, m.UserIndex, 2)
	assert.Len(t, m.ItemIndex, 2)
	assert.InDelta(t, 4.5, m.ItemMeans[1], 1e-9)
	assert.InDelta(t, 2.0, m.ItemMeans[2], 1e-9)
	assert.InDelta(t, (4.0+2.0+5.0)/3.0, m.GlobalMean, 1e-9)
}

func TestBuildModelDuplicateRatingsLastWins(t *testing.T) {
	alice := uuid.New()

	m, err := BuildModel([]menu.Rating{
		rating(alice, 1, 2),
		rating(alice, 1, 5),
	})
	require.NoError(t, err)

	assert.InDelta(t, 5.0, m.Predict(alice, 1), 1e-9)
}

func TestPredictOwnRatingAuthoritative(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	m, err := BuildModel([]menu.Rating{
		rating(alice, 1, 2),
		rating(bob, 1, 5),
	})
	require.NoError(t, err)

	assert.InDelta(t, 2.0, m.Predict(alice, 1), 1e-9)
}

func TestPredictSimilarityWeighted(t *testing.T) {
	// Alice and Bob agree on items 1 and 2; Bob has also rated item 3.
	// Alice's prediction for item 3 should lean on Bob's rating.
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	m, err := BuildModel([]menu.Rating{
		rating(alice, 1, 5),
		rating(alice, 2, 4),
		rating(bob, 1, 5),
		rating(bob, 2, 4),
		rating(bob, 3, 5),
		rating(carol, 3, 1),
	})
	require.NoError(t, err)

	p := m.Predict(alice, 3)
	assert.Greater(t, p, 3.0, "prediction should follow the similar user")
	assert.LessOrEqual(t, p, 5.0)
}

func TestPredictColdStart(t *testing.T) {
	alice := uuid.New()
	m, err := BuildModel([]menu.Rating{rating(alice, 1, 4)})
	require.NoError(t, err)

	t.Run("unknown user falls back to item mean", func(t *testing.T) {
		assert.InDelta(t, 4.0, m.Predict(uuid.New(), 1), 1e-9)
	})

	t.Run("unknown item falls back to global mean", func(t *testing.T) {
		assert.InDelta(t, m.GlobalMean, m.Predict(alice, 99), 1e-9)
	})

	t.Run("nil model is neutral", func(t *testing.T) {
		var m *Model
		assert.Equal(t, neutralRating, m.Predict(uuid.New(), 1))
		assert.Equal(t, neutralRating, m.ItemBase(1))
	})
}

func TestPredictBounds(t *testing.T) {
	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	items := []int64{1, 2, 3, 4}
	var ratings []menu.Rating
	values := []float64{1, 5, 3, 4, 2, 5, 1, 3, 4, 5, 2, 1}
	i := 0
	for _, u := range users {
		for _, it := range items {
			ratings = append(ratings, rating(u, it, values[i]))
			i++
		}
	}

	m, err := BuildModel(ratings)
	require.NoError(t, err)

	for _, u := range append(users, uuid.New()) {
		for _, it := range append(items, 99) {
			p := m.Predict(u, it)
			assert.GreaterOrEqual(t, p, 1.0)
			assert.LessOrEqual(t, p, 5.0)
		}
	}
}

func TestBuildModelDeterministic(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	ratings := []menu.Rating{
		rating(alice, 1, 4),
		rating(bob, 2, 3),
		rating(alice, 2, 5),
	}

	m1, err := BuildModel(ratings)
	require.NoError(t, err)
	m2, err := BuildModel(ratings)
	require.NoError(t, err)

	assert.Equal(t, m1.UserIndex, m2.UserIndex)
	assert.Equal(t, m1.ItemIndex, m2.ItemIndex)
	assert.Equal(t, m1.Matrix, m2.Matrix)
	assert.Equal(t, m1.Similarity, m2.Similarity)
}

func TestModelEncodeDecode(t *testing.T) {
	alice := uuid.New()
	m, err := BuildModel([]menu.Rating{
		rating(alice, 1, 4),
		rating(alice, 2, 2),
	})
	require.NoError(t, err)

	data, err := m.Encode()
	require.NoError(t, err)

	restored, err := DecodeModel(data)
	require.NoError(t, err)

	assert.Equal(t, m.RatingCount, restored.RatingCount)
	assert.Equal(t, m.ItemMeans, restored.ItemMeans)
	assert.InDelta(t, m.Predict(alice, 2), restored.Predict(alice, 2), 1e-9)
}

func TestDecodeModelGarbage(t *testing.T) {
	_, err := DecodeModel([]byte("not a model"))
	assert.Error(t, err)
}
