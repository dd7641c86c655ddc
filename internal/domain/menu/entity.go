// Package menu contains the core domain model for the menu catalog:
// items, users and ratings, plus the naming rules that group portion-size
// variants and dish families.
package menu

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeOfDay is a request-time bucket an item can be suited to.
type TimeOfDay string

// Time-of-day buckets
const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// Valid reports whether t is a known time-of-day bucket.
func (t TimeOfDay) Valid() bool {
	switch t {
	case Morning, Afternoon, Evening:
		return true
	}
	return false
}

// Weather is a situational weather condition.
type Weather string

// Weather conditions
const (
	Sunny Weather = "sunny"
	Rainy Weather = "rainy"
)

// Valid reports whether w is a known weather condition.
func (w Weather) Valid() bool {
	switch w {
	case Sunny, Rainy:
		return true
	}
	return false
}

// Availability holds an item's situational applicability flags.
type Availability struct {
	Morning   bool
	Afternoon bool
	Evening   bool
	Sunny     bool
	Rainy     bool
}

// MatchesTime reports whether the item is flagged for the given bucket.
func (a Availability) MatchesTime(t TimeOfDay) bool {
	switch t {
	case Morning:
		return a.Morning
	case Afternoon:
		return a.Afternoon
	case Evening:
		return a.Evening
	}
	return false
}

// MatchesWeather reports whether the item is flagged for the given condition.
func (a Availability) MatchesWeather(w Weather) bool {
	switch w {
	case Sunny:
		return a.Sunny
	case Rainy:
		return a.Rainy
	}
	return false
}

// InternationalCuisine supplements categories a cuisine does not cover.
const InternationalCuisine = "International"

// Item is a catalog entry. Items are immutable from the engine's
// perspective; the catalog collaborator owns their lifecycle.
type Item struct {
	ID           int64
	Name         string
	Description  string
	Price        float64
	Cuisine      string
	Category     string
	Availability Availability
}

// sizeSuffixes strips portion-size markers so "Fried Rice (L)" and
// "Fried Rice - Small" land in the same exclusivity group.
var sizeSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*-\s*(small|large|medium|regular|mini|xl|extra\s*large).*$`),
	regexp.MustCompile(`(?i)\s*\([srlmx]\).*$`),
	regexp.MustCompile(`(?i)\s*\((small|large|medium|regular|mini)\).*$`),
}

// BaseName returns the item name without portion-size indicators.
// Items sharing a base name are portion variants of the same dish.
func (i Item) BaseName() string {
	name := i.Name
	for _, re := range sizeSuffixes {
		name = re.ReplaceAllString(name, "")
	}
	return strings.TrimSpace(name)
}

// dishPatterns maps name fragments to dish families, most specific first.
var dishPatterns = []struct {
	re     *regexp.Regexp
	family string
}{
	{regexp.MustCompile(`sweet corn soup`), "sweet_corn_soup"},
	{regexp.MustCompile(`tom yum`), "tom_yum_soup"},
	{regexp.MustCompile(`seafood soup`), "seafood_soup"},
	{regexp.MustCompile(`cream of`), "cream_soup"},
	{regexp.MustCompile(`soup`), "soup"},
	{regexp.MustCompile(`chilli chicken`), "chilli_chicken"},
	{regexp.MustCompile(`pepper chicken`), "pepper_chicken"},
	{regexp.MustCompile(`lemon chicken`), "lemon_chicken"},
	{regexp.MustCompile(`sweet and sour chicken`), "sweet_sour_chicken"},
	{regexp.MustCompile(`chicken`), "chicken_dish"},
	{regexp.MustCompile(`beef`), "beef_dish"},
	{regexp.MustCompile(`pork`), "pork_dish"},
	{regexp.MustCompile(`prawn|shrimp`), "prawn_dish"},
	{regexp.MustCompile(`fish`), "fish_dish"},
	{regexp.MustCompile(`seafood`), "seafood_dish"},
	{regexp.MustCompile(`mushroom`), "mushroom_dish"},
	{regexp.MustCompile(`mixed vegetables`), "mixed_veg_dish"},
	{regexp.MustCompile(`fried rice`), "fried_rice"},
	{regexp.MustCompile(`rice`), "rice_dish"},
	{regexp.MustCompile(`fried noodles|chow mein`), "fried_noodles"},
	{regexp.MustCompile(`noodles`), "noodle_dish"},
	{regexp.MustCompile(`omelette`), "omelette"},
	{regexp.MustCompile(`curry`), "curry"},
	{regexp.MustCompile(`salad`), "salad"},
	{regexp.MustCompile(`ice cream`), "ice_cream"},
	{regexp.MustCompile(`cake`), "cake"},
	{regexp.MustCompile(`tea`), "tea"},
	{regexp.MustCompile(`coffee`), "coffee"},
	{regexp.MustCompile(`juice`), "juice"},
	{regexp.MustCompile(`shake|smoothie`), "shake"},
}

// Family returns the dish family used for diversity caps, so a selection
// does not fill up with near-identical dishes.
func (i Item) Family() string {
	name := strings.ToLower(i.Name)
	for _, p := range dishPatterns {
		if p.re.MatchString(name) {
			return p.family
		}
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "generic_unknown"
	}
	return "generic_" + fields[0]
}

// User is a registered account, read-only to the engine.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
}

// Rating is a single user's score for an item, unique per (user, item).
type Rating struct {
	UserID    uuid.UUID
	ItemID    int64
	Value     float64
	CreatedAt time.Time
}

// NewRating validates and constructs a Rating.
func NewRating(userID uuid.UUID, itemID int64, value float64) (Rating, error) {
	if userID == uuid.Nil {
		return Rating{}, ErrInvalidUser
	}
	if itemID <= 0 {
		return Rating{}, ErrInvalidItem
	}
	if value < 1 || value > 5 {
		return Rating{}, ErrInvalidRating
	}
	return Rating{
		UserID:    userID,
		ItemID:    itemID,
		Value:     value,
		CreatedAt: time.Now(),
	}, nil
}
