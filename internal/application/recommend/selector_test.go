package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savoria/engine/internal/domain/menu"
	"github.com/savoria/engine/internal/domain/recommendation"
)

// cand builds a scored candidate directly; selector tests only exercise
// the selection constraints, not the scoring pipeline.
func cand(id int64, name, category string, price, score float64) recommendation.Candidate {
	item := menu.Item{
		ID:       id,
		Name:     name,
		Price:    price,
		Cuisine:  "Chinese",
		Category: category,
	}
	return recommendation.Candidate{
		Item:   item,
		Score:  score,
		Group:  item.BaseName(),
		Family: item.Family(),
	}
}

func defaultConstraints(budget float64, categories ...string) SelectionConstraints {
	return SelectionConstraints{
		Budget:           budget,
		Categories:       categories,
		CategoryPriority: categories,
	}
}

func TestSelectValidation(t *testing.T) {
	cands := []recommendation.Candidate{cand(1, "Fried Rice", "Main", 10, 4)}

	t.Run("zero budget", func(t *testing.T) {
		_, err := Select(cands, defaultConstraints(0, "Main"))
		assert.ErrorIs(t, err, recommendation.ErrInvalidBudget)
	})

	t.Run("negative budget", func(t *testing.T) {
		_, err := Select(cands, defaultConstraints(-5, "Main"))
		assert.ErrorIs(t, err, recommendation.ErrInvalidBudget)
	})

	t.Run("no categories", func(t *testing.T) {
		_, err := Select(cands, SelectionConstraints{Budget: 50})
		assert.ErrorIs(t, err, recommendation.ErrNoCategorySelected)
	})
}

func TestSelectRespectsBudget(t *testing.T) {
	cands := []recommendation.Candidate{
		cand(1, "Kung Pao Chicken", "Main", 14.50, 4.8),
		cand(2, "Ma Po Tofu", "Main", 11.00, 4.2),
		cand(3, "Sweet Corn Soup", "Soup", 6.50, 4.0),
		cand(4, "Hot and Sour Soup", "Soup", 7.00, 3.8),
		cand(5, "Spring Rolls", "Starter", 5.00, 3.5),
	}

	sel, err := Select(cands, defaultConstraints(20, "Main", "Soup", "Starter"))
	require.NoError(t, err)

	assert.LessOrEqual(t, sel.TotalCost, 20.0)
	assert.Equal(t, recommendation.SelectionOK, sel.Status)
	assert.NotEmpty(t, sel.Items)

	var total float64
	for _, c := range sel.Items {
		total += c.Item.Price
	}
	assert.InDelta(t, total, sel.TotalCost, 1e-9)
}

func TestSelectPortionExclusivity(t *testing.T) {
	cands := []recommendation.Candidate{
		cand(1, "Chicken Fried Rice - Small", "Main", 8, 4.0),
		cand(2, "Chicken Fried Rice - Large", "Main", 12, 4.5),
		cand(3, "Veg Noodles", "Main", 9, 3.9),
	}

	sel, err := Select(cands, defaultConstraints(100, "Main"))
	require.NoError(t, err)

	groups := make(map[string]int)
	for _, c := range sel.Items {
		groups[c.Group]++
	}
	for group, n := range groups {
		assert.Equal(t, 1, n, "group %q selected more than once", group)
	}
}

func TestSelectRequireEachCategory(t *testing.T) {
	t.Run("all represented under tight budget", func(t *testing.T) {
		cands := []recommendation.Candidate{
			cand(1, "Kung Pao Chicken", "Main", 6, 4.8),
			cand(2, "Sweet Corn Soup", "Soup", 4, 3.0),
		}
		cons := defaultConstraints(10, "Main", "Soup")
		cons.RequireEachCategory = true

		sel, err := Select(cands, cons)
		require.NoError(t, err)

		categories := make(map[string]bool)
		for _, c := range sel.Items {
			categories[c.Item.Category] = true
		}
		assert.True(t, categories["Main"])
		assert.True(t, categories["Soup"])
		assert.LessOrEqual(t, sel.TotalCost, 10.0)
	})

	t.Run("category without candidates is infeasible", func(t *testing.T) {
		cands := []recommendation.Candidate{
			cand(1, "Kung Pao Chicken", "Main", 6, 4.8),
		}
		cons := defaultConstraints(100, "Main", "Soup")
		cons.RequireEachCategory = true

		_, err := Select(cands, cons)
		assert.ErrorIs(t, err, recommendation.ErrInfeasible)
	})

	t.Run("cheapest representatives exceed budget", func(t *testing.T) {
		cands := []recommendation.Candidate{
			cand(1, "Kung Pao Chicken", "Main", 8, 4.8),
			cand(2, "Sweet Corn Soup", "Soup", 5, 3.0),
		}
		cons := defaultConstraints(10, "Main", "Soup")
		cons.RequireEachCategory = true

		_, err := Select(cands, cons)
		assert.ErrorIs(t, err, recommendation.ErrInfeasible)
	})

	t.Run("priority skew never strands a required category", func(t *testing.T) {
		// The first-priority category offers a tempting expensive item;
		// taking it would leave too little for the required Soup. The
		// selector must fall back to the cheaper Main instead of
		// reporting the feasible request infeasible.
		cands := []recommendation.Candidate{
			cand(1, "Kung Pao Chicken", "Main", 6, 5.0),
			cand(2, "Ma Po Tofu", "Main", 4, 3.0),
			cand(3, "Hot and Sour Soup", "Soup", 5, 3.0),
		}
		cons := defaultConstraints(10, "Main", "Soup")
		cons.RequireEachCategory = true

		sel, err := Select(cands, cons)
		require.NoError(t, err)

		categories := make(map[string]bool)
		for _, c := range sel.Items {
			categories[c.Item.Category] = true
		}
		assert.True(t, categories["Main"])
		assert.True(t, categories["Soup"])
		assert.LessOrEqual(t, sel.TotalCost, 10.0)
	})

	t.Run("without the flag a missing category is tolerated", func(t *testing.T) {
		cands := []recommendation.Candidate{
			cand(1, "Kung Pao Chicken", "Main", 6, 4.8),
		}
		sel, err := Select(cands, defaultConstraints(100, "Main", "Soup"))
		require.NoError(t, err)
		assert.Equal(t, recommendation.SelectionOK, sel.Status)
	})
}

func TestSelectExclusivityAcrossCategories(t *testing.T) {
	// Portion variants listed under different categories still share one
	// exclusivity group; at most one may be selected.
	cands := []recommendation.Candidate{
		cand(1, "Wonton Soup - Small", "Starter", 4, 4.5),
		cand(2, "Wonton Soup - Large", "Soup", 7, 4.0),
		cand(3, "Kung Pao Chicken", "Main", 9, 4.2),
	}

	sel, err := Select(cands, defaultConstraints(100, "Starter", "Soup", "Main"))
	require.NoError(t, err)

	groups := make(map[string]int)
	for _, c := range sel.Items {
		groups[c.Group]++
	}
	assert.Equal(t, 1, groups["Wonton Soup"])
}

func TestSelectFamilyCap(t *testing.T) {
	cands := []recommendation.Candidate{
		cand(1, "Hakka Noodles", "Main", 8, 4.9),
		cand(2, "Singapore Noodles", "Main", 8, 4.8),
		cand(3, "Schezwan Noodles", "Main", 8, 4.7),
		cand(4, "Kung Pao Chicken", "Main", 9, 4.0),
	}

	sel, err := Select(cands, defaultConstraints(100, "Main"))
	require.NoError(t, err)

	families := make(map[string]int)
	for _, c := range sel.Items {
		families[c.Family]++
	}
	assert.LessOrEqual(t, families["noodle_dish"], 2)
}

func TestSelectPriorityFavorsFirstCategory(t *testing.T) {
	// The budget fits only one of the two equally priced items; priority
	// should decide which category gets it.
	cands := []recommendation.Candidate{
		cand(1, "Kung Pao Chicken", "Main", 10, 4.0),
		cand(2, "Sweet Corn Soup", "Soup", 10, 4.0),
	}

	cons := defaultConstraints(10, "Main", "Soup")
	cons.CategoryPriority = []string{"Soup", "Main"}

	sel, err := Select(cands, cons)
	require.NoError(t, err)
	require.Len(t, sel.Items, 1)
	assert.Equal(t, "Soup", sel.Items[0].Item.Category)
}

func TestSelectNoFeasibleSelection(t *testing.T) {
	cands := []recommendation.Candidate{
		cand(1, "Kung Pao Chicken", "Main", 50, 4.8),
	}

	sel, err := Select(cands, defaultConstraints(10, "Main"))
	require.NoError(t, err)
	assert.Empty(t, sel.Items)
	assert.Equal(t, recommendation.SelectionNoFeasible, sel.Status)
	assert.Zero(t, sel.TotalCost)
}

func TestSelectMaxItems(t *testing.T) {
	var cands []recommendation.Candidate
	names := []string{
		"Kung Pao Chicken", "Sweet Corn Soup", "Hakka Noodles", "Spring Rolls",
		"Ma Po Tofu", "Egg Fried Rice", "Beef Broccoli", "Prawn Toast",
		"Vanilla Ice Cream", "Lemon Tea", "Mango Shake", "Green Salad",
	}
	for i, name := range names {
		cands = append(cands, cand(int64(i+1), name, "Main", 2, 4.0))
	}

	cons := defaultConstraints(1000, "Main")
	cons.MaxItems = 5

	sel, err := Select(cands, cons)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(sel.Items), 5)
}

func TestSelectDeterministic(t *testing.T) {
	cands := []recommendation.Candidate{
		cand(3, "Schezwan Noodles", "Main", 8, 4.0),
		cand(1, "Hakka Noodles", "Main", 8, 4.0),
		cand(2, "Singapore Noodles", "Main", 8, 4.0),
		cand(4, "Sweet Corn Soup", "Soup", 6, 3.5),
	}
	cons := defaultConstraints(20, "Main", "Soup")

	first, err := Select(cands, cons)
	require.NoError(t, err)
	second, err := Select(cands, cons)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSelectCanonicalOrder(t *testing.T) {
	cands := []recommendation.Candidate{
		cand(1, "Kung Pao Chicken", "Main", 9, 4.0),
		cand(2, "Sweet Corn Soup", "Soup", 6, 4.6),
		cand(3, "Spring Rolls", "Starter", 5, 4.3),
	}

	sel, err := Select(cands, defaultConstraints(100, "Main", "Soup", "Starter"))
	require.NoError(t, err)
	require.Len(t, sel.Items, 3)

	for i := 1; i < len(sel.Items); i++ {
		assert.GreaterOrEqual(t, sel.Items[i-1].Score, sel.Items[i].Score)
	}
}
