package menu

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemBaseName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dash small", "Chicken Fried Rice - Small", "Chicken Fried Rice"},
		{"dash large", "Chicken Fried Rice - Large", "Chicken Fried Rice"},
		{"bracket letter", "Sweet Corn Soup (L)", "Sweet Corn Soup"},
		{"bracket word", "Veg Noodles (Regular)", "Veg Noodles"},
		{"no marker", "Tom Yum Soup", "Tom Yum Soup"},
		{"dash in dish name", "Stir-Fried Tofu", "Stir-Fried Tofu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := Item{Name: tt.in}
			assert.Equal(t, tt.want, item.BaseName())
		})
	}
}

func TestItemBaseNameGroupsPortionVariants(t *testing.T) {
	small := Item{Name: "Chicken Fried Rice - Small"}
	large := Item{Name: "Chicken Fried Rice - Large"}
	other := Item{Name: "Veg Fried Rice - Small"}

	assert.Equal(t, small.BaseName(), large.BaseName())
	assert.NotEqual(t, small.BaseName(), other.BaseName())
}

func TestItemFamily(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sweet Corn Soup", "sweet_corn_soup"},
		{"Tom Yum Soup", "tom_yum_soup"},
		{"Hot and Sour Soup", "soup"},
		{"Chilli Chicken", "chilli_chicken"},
		{"Kung Pao Chicken", "chicken_dish"},
		{"Egg Fried Rice", "fried_rice"},
		{"Steamed Rice", "rice_dish"},
		{"Hakka Noodles", "noodle_dish"},
		{"Vanilla Ice Cream", "ice_cream"},
		{"Quinoa Bowl", "generic_quinoa"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			item := Item{Name: tt.in}
			assert.Equal(t, tt.want, item.Family())
		})
	}
}

func TestAvailabilityMatching(t *testing.T) {
	a := Availability{Morning: true, Evening: true, Sunny: true}

	assert.True(t, a.MatchesTime(Morning))
	assert.False(t, a.MatchesTime(Afternoon))
	assert.True(t, a.MatchesTime(Evening))
	assert.True(t, a.MatchesWeather(Sunny))
	assert.False(t, a.MatchesWeather(Rainy))

	assert.False(t, a.MatchesTime(TimeOfDay("midnight")))
	assert.False(t, a.MatchesWeather(Weather("snowy")))
}

func TestTimeOfDayAndWeatherValid(t *testing.T) {
	assert.True(t, Morning.Valid())
	assert.True(t, Afternoon.Valid())
	assert.True(t, Evening.Valid())
	assert.False(t, TimeOfDay("brunch").Valid())

	assert.True(t, Sunny.Valid())
	assert.True(t, Rainy.Valid())
	assert.False(t, Weather("windy").Valid())
}

func TestNewRating(t *testing.T) {
	userID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		r, err := NewRating(userID, 7, 4.5)
		require.NoError(t, err)
		assert.Equal(t, userID, r.UserID)
		assert.Equal(t, int64(7), r.ItemID)
		assert.Equal(t, 4.5, r.Value)
		assert.False(t, r.CreatedAt.IsZero())
	})

	t.Run("boundaries", func(t *testing.T) {
		_, err := NewRating(userID, 1, 1)
		assert.NoError(t, err)
		_, err = NewRating(userID, 1, 5)
		assert.NoError(t, err)
	})

	t.Run("invalid rating", func(t *testing.T) {
		_, err := NewRating(userID, 1, 0.5)
		assert.ErrorIs(t, err, ErrInvalidRating)
		_, err = NewRating(userID, 1, 5.1)
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("invalid user", func(t *testing.T) {
		_, err := NewRating(uuid.Nil, 1, 3)
		assert.ErrorIs(t, err, ErrInvalidUser)
	})

	t.Run("invalid item", func(t *testing.T) {
		_, err := NewRating(userID, 0, 3)
		assert.ErrorIs(t, err, ErrInvalidItem)
	})
}
