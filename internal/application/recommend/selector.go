package recommend

import (
	"math"
	"sort"

	"github.com/savoria/engine/internal/domain/recommendation"
)

// SelectionConstraints carries the hard and soft constraints of one
// selection run. Categories and CategoryPriority are expected to be
// normalized (priority covers every requested category, in order).
type SelectionConstraints struct {
	Budget              float64
	Categories          []string
	CategoryPriority    []string
	RequireEachCategory bool

	// FamilyCap limits how many selected items may share a dish family,
	// preventing a bundle of near-identical dishes. Zero means the
	// default of 2.
	FamilyCap int

	// MaxItems bounds the bundle size. Zero means the default of 8.
	MaxItems int
}

// dpResolution bounds the knapsack weight grid per category. Prices are
// rounded up to the grid, so a solution can be slightly conservative but
// never exceeds its budget.
const dpResolution = 10000

// Select solves the 0/1 selection: maximize total composite score subject
// to the budget, at most one item per exclusivity group, at most
// FamilyCap items per dish family, and (when RequireEachCategory) at
// least one item per requested category.
//
// Budget is distributed as soft per-category sub-budgets proportional to
// priority rank; each category's sub-selection is solved exactly over its
// exclusivity groups, then leftover budget is reconciled across
// categories in priority order. Ties break deterministically by
// descending score, then ascending price, then ascending item ID.
func Select(candidates []recommendation.Candidate, cons SelectionConstraints) (recommendation.Selection, error) {
	if cons.Budget <= 0 {
		return recommendation.Selection{}, recommendation.ErrInvalidBudget
	}
	if len(cons.Categories) == 0 {
		return recommendation.Selection{}, recommendation.ErrNoCategorySelected
	}
	if cons.FamilyCap <= 0 {
		cons.FamilyCap = 2
	}
	if cons.MaxItems <= 0 {
		cons.MaxItems = 8
	}

	budgetCents := toCents(cons.Budget)
	ranked := rankCandidates(candidates)

	byCategory := make(map[string][]recommendation.Candidate)
	for _, c := range ranked {
		byCategory[c.Item.Category] = append(byCategory[c.Item.Category], c)
	}

	var cheapestCost map[string]int64
	if cons.RequireEachCategory {
		var err error
		cheapestCost, err = checkFeasibility(byCategory, cons.Categories, budgetCents)
		if err != nil {
			return recommendation.Selection{}, err
		}
	}

	fractions := priorityFractions(cons.CategoryPriority)

	sel := newSelectionState(cons, budgetCents)

	// Phase 1: per-category sub-budgets, exact over exclusivity groups.
	for i, cat := range cons.CategoryPriority {
		cands := byCategory[cat]
		if len(cands) == 0 {
			continue
		}
		subBudget := int64(math.Floor(float64(budgetCents) * fractions[cat]))
		if subBudget > sel.remaining {
			subBudget = sel.remaining
		}

		// Reserve the cheapest-representative cost of every required
		// category still waiting its turn, so a tempting expensive pick
		// here can never strand a later required category. The
		// feasibility pre-check guarantees the reservations fit.
		var reserved int64
		if cons.RequireEachCategory {
			for _, later := range cons.CategoryPriority[i+1:] {
				if sel.categoryCount[later] == 0 {
					reserved += cheapestCost[later]
				}
			}
			if ceiling := sel.remaining - reserved; subBudget > ceiling {
				subBudget = ceiling
			}
		}

		chosen := solveCategory(cands, subBudget)
		if len(chosen) == 0 && cons.RequireEachCategory {
			// The sub-budget was too tight; fall back to the cheapest
			// item of the category against the unreserved remainder.
			cheapest := cheapestCandidate(cands)
			if toCents(cheapest.Item.Price) > sel.remaining-reserved {
				return recommendation.Selection{}, recommendation.ErrInfeasible
			}
			chosen = []recommendation.Candidate{cheapest}
		}
		for _, c := range chosen {
			sel.add(c)
		}
	}

	sel.enforceFamilyCap()
	sel.enforceMaxItems()

	// Phase 2: reconcile leftover budget across categories in priority
	// order, admitting additional items that still satisfy every cap.
	for _, cat := range cons.CategoryPriority {
		for _, c := range byCategory[cat] {
			if len(sel.items) >= cons.MaxItems {
				break
			}
			sel.tryAdd(c)
		}
	}

	if cons.RequireEachCategory {
		for _, cat := range cons.Categories {
			if sel.categoryCount[cat] == 0 {
				return recommendation.Selection{}, recommendation.ErrInfeasible
			}
		}
	}

	return sel.finish(), nil
}

// rankCandidates returns candidates in canonical deterministic order:
// score descending, price ascending, item ID ascending.
func rankCandidates(candidates []recommendation.Candidate) []recommendation.Candidate {
	ranked := append([]recommendation.Candidate(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Item.Price != ranked[j].Item.Price {
			return ranked[i].Item.Price < ranked[j].Item.Price
		}
		return ranked[i].Item.ID < ranked[j].Item.ID
	})
	return ranked
}

// checkFeasibility verifies that every required category has candidates
// and that the cheapest representative of each fits the budget together,
// returning the per-category cheapest cost for budget reservations.
func checkFeasibility(byCategory map[string][]recommendation.Candidate, categories []string, budgetCents int64) (map[string]int64, error) {
	cheapest := make(map[string]int64, len(categories))
	var minTotal int64
	for _, cat := range categories {
		cands := byCategory[cat]
		if len(cands) == 0 {
			return nil, recommendation.ErrInfeasible
		}
		cost := toCents(cheapestCandidate(cands).Item.Price)
		cheapest[cat] = cost
		minTotal += cost
	}
	if minTotal > budgetCents {
		return nil, recommendation.ErrInfeasible
	}
	return cheapest, nil
}

// priorityFractions allocates budget fractions proportional to priority
// rank: with priorities [A, B, C] the weights are 3, 2, 1.
func priorityFractions(priority []string) map[string]float64 {
	fractions := make(map[string]float64, len(priority))
	var total float64
	for idx := range priority {
		total += float64(len(priority) - idx)
	}
	for idx, cat := range priority {
		fractions[cat] = float64(len(priority)-idx) / total
	}
	return fractions
}

func cheapestCandidate(cands []recommendation.Candidate) recommendation.Candidate {
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Item.Price < best.Item.Price {
			best = c
			continue
		}
		if c.Item.Price == best.Item.Price {
			if c.Score > best.Score || (c.Score == best.Score && c.Item.ID < best.Item.ID) {
				best = c
			}
		}
	}
	return best
}

// solveCategory finds the score-maximal subset of one category within a
// sub-budget with at most one item per exclusivity group. Group-wise 0/1
// knapsack with a bounded weight grid; reconstruction walks the layer
// tables backwards.
func solveCategory(cands []recommendation.Candidate, budgetCents int64) []recommendation.Candidate {
	if budgetCents <= 0 {
		return nil
	}

	groups := groupByExclusivity(cands)

	unit := (budgetCents + dpResolution - 1) / dpResolution
	if unit < 1 {
		unit = 1
	}
	capacity := int(budgetCents / unit)
	if capacity == 0 {
		return nil
	}

	weightOf := func(c recommendation.Candidate) int {
		cents := toCents(c.Item.Price)
		return int((cents + unit - 1) / unit)
	}

	layers := make([][]float64, len(groups)+1)
	choices := make([][]int32, len(groups))
	layers[0] = make([]float64, capacity+1)

	for g, members := range groups {
		prev := layers[g]
		next := make([]float64, capacity+1)
		copy(next, prev)
		choice := make([]int32, capacity+1)
		for i := range choice {
			choice[i] = -1
		}
		for mi, c := range members {
			w := weightOf(c)
			if w > capacity {
				continue
			}
			for cap := capacity; cap >= w; cap-- {
				if v := prev[cap-w] + c.Score; v > next[cap] {
					next[cap] = v
					choice[cap] = int32(mi)
				}
			}
		}
		layers[g+1] = next
		choices[g] = choice
	}

	// Best value at the lowest capacity achieving it.
	final := layers[len(groups)]
	bestCap := 0
	for cap := 1; cap <= capacity; cap++ {
		if final[cap] > final[bestCap] {
			bestCap = cap
		}
	}
	if final[bestCap] <= 0 {
		return nil
	}

	var chosen []recommendation.Candidate
	cap := bestCap
	for g := len(groups) - 1; g >= 0; g-- {
		if layers[g+1][cap] == layers[g][cap] {
			continue
		}
		mi := choices[g][cap]
		if mi < 0 {
			continue
		}
		c := groups[g][mi]
		chosen = append(chosen, c)
		cap -= weightOf(c)
	}
	return chosen
}

// groupByExclusivity partitions candidates into their portion-exclusivity
// groups, preserving canonical order within and across groups.
func groupByExclusivity(cands []recommendation.Candidate) [][]recommendation.Candidate {
	index := make(map[string]int)
	var groups [][]recommendation.Candidate
	for _, c := range cands {
		gi, ok := index[c.Group]
		if !ok {
			gi = len(groups)
			index[c.Group] = gi
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], c)
	}
	return groups
}

// selectionState tracks the growing selection and its caps.
type selectionState struct {
	cons          SelectionConstraints
	items         []recommendation.Candidate
	remaining     int64
	groupUsed     map[string]bool
	familyCount   map[string]int
	categoryCount map[string]int
}

func newSelectionState(cons SelectionConstraints, budgetCents int64) *selectionState {
	return &selectionState{
		cons:          cons,
		remaining:     budgetCents,
		groupUsed:     make(map[string]bool),
		familyCount:   make(map[string]int),
		categoryCount: make(map[string]int),
	}
}

// add admits a candidate, skipping any whose exclusivity group is
// already represented. The per-category solver enforces the group
// constraint within a category, but a base name shared across two
// requested categories would otherwise slip through.
func (s *selectionState) add(c recommendation.Candidate) {
	if s.groupUsed[c.Group] {
		return
	}
	s.items = append(s.items, c)
	s.remaining -= toCents(c.Item.Price)
	s.groupUsed[c.Group] = true
	s.familyCount[c.Family]++
	s.categoryCount[c.Item.Category]++
}

// tryAdd admits a candidate only if every constraint still holds.
func (s *selectionState) tryAdd(c recommendation.Candidate) {
	if s.groupUsed[c.Group] {
		return
	}
	if s.familyCount[c.Family] >= s.cons.FamilyCap {
		return
	}
	if price := toCents(c.Item.Price); price > s.remaining {
		return
	}
	s.add(c)
}

// enforceFamilyCap drops the lowest-ranked excess items of any
// over-represented dish family, returning their cost to the budget. The
// last representative of a required category is never dropped.
func (s *selectionState) enforceFamilyCap() {
	ranked := rankCandidates(s.items)

	required := make(map[string]bool)
	if s.cons.RequireEachCategory {
		for _, cat := range s.cons.Categories {
			required[cat] = true
		}
	}

	seen := make(map[string]int)
	keep := make(map[int64]bool, len(ranked))
	for _, c := range ranked {
		if seen[c.Family] >= s.cons.FamilyCap &&
			!(required[c.Item.Category] && s.categoryCount[c.Item.Category] == 1) {
			s.remaining += toCents(c.Item.Price)
			s.familyCount[c.Family]--
			s.categoryCount[c.Item.Category]--
			delete(s.groupUsed, c.Group)
			continue
		}
		seen[c.Family]++
		keep[c.Item.ID] = true
	}

	kept := s.items[:0]
	for _, c := range s.items {
		if keep[c.Item.ID] {
			kept = append(kept, c)
		}
	}
	s.items = kept
}

// enforceMaxItems trims the selection to the bundle-size bound, dropping
// the lowest-ranked items first. A required category's sole
// representative survives the trim even when that keeps the bundle at
// the bound's edge.
func (s *selectionState) enforceMaxItems() {
	if len(s.items) <= s.cons.MaxItems {
		return
	}
	ranked := rankCandidates(s.items)

	required := make(map[string]bool)
	if s.cons.RequireEachCategory {
		for _, cat := range s.cons.Categories {
			required[cat] = true
		}
	}

	keep := make(map[int64]bool, s.cons.MaxItems)
	kept := 0
	for _, c := range ranked {
		if kept >= s.cons.MaxItems &&
			!(required[c.Item.Category] && s.categoryCount[c.Item.Category] == 1) {
			s.remaining += toCents(c.Item.Price)
			s.familyCount[c.Family]--
			s.categoryCount[c.Item.Category]--
			delete(s.groupUsed, c.Group)
			continue
		}
		keep[c.Item.ID] = true
		kept++
	}

	filtered := s.items[:0]
	for _, c := range s.items {
		if keep[c.Item.ID] {
			filtered = append(filtered, c)
		}
	}
	s.items = filtered
}

// finish freezes the state into a Selection in canonical order.
func (s *selectionState) finish() recommendation.Selection {
	items := rankCandidates(s.items)
	var totalCents int64
	for _, c := range items {
		totalCents += toCents(c.Item.Price)
	}
	status := recommendation.SelectionOK
	if len(items) == 0 {
		status = recommendation.SelectionNoFeasible
	}
	return recommendation.Selection{
		Items:     items,
		TotalCost: fromCents(totalCents),
		Status:    status,
	}
}

// toCents converts a price to integer cents for exact budget arithmetic.
func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}
