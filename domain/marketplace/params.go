package marketplace

import (
	"math"

	"github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/domain/tokenmanager"
)

type OrderCategory = string

const (
	OrderCategoryRecentlyListed OrderCategory = "recently_listed"
	OrderCategoryPriceAsc                     = "price_low_to_high"
	OrderCategoryPriceDesc                    = "price_high_to_low"
	OrderCategoryRateAsc                      = "rate_low_to_high"
	OrderCategoryRateDesc                     = "rate_high_to_low"
	OrderCategoryDurationAsc                  = "duration_low_to_high"
	OrderCategoryDurationDesc                 = "duration_high_to_low"
)

var orderCategories = map[OrderCategory]bool{
	OrderCategoryRecentlyListed: true,
	OrderCategoryPriceAsc:       true,
	OrderCategoryPriceDesc:      true,
	OrderCategoryRateAsc:        true,
	OrderCategoryRateDesc:       true,
	OrderCategoryDurationAsc:    true,
	OrderCategoryDurationDesc:   true,
}

func IsValidOrderCategory(value OrderCategory) bool {
	return orderCategories[value]
}

// DurationBounds is an inclusive duration window in seconds.
// Max may be +inf for an unbounded window.
type DurationBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (b DurationBounds) IsUnbounded() bool {
	return math.IsInf(b.Max, 1)
}

// DurationBoundSteps maps slider stop positions to seconds
var DurationBoundSteps = map[int]float64{
	0:   0,
	20:  3600,    // 1 hour
	40:  86400,   // 1 day
	60:  604800,  // 1 week
	80:  2419200, // 4 weeks
	100: math.Inf(1),
}

// FilterState is the immutable browse filter selection. Transition
// helpers return a fresh copy and never mutate the receiver.
type FilterState struct {
	OrderCategory OrderCategory       `json:"orderCategory"`
	Duration      DurationBounds      `json:"duration"`
	Selected      map[string][]string `json:"selected"`
}

func DefaultFilterState() FilterState {
	return FilterState{
		OrderCategory: OrderCategoryRateAsc,
		Duration:      DurationBounds{Min: 0, Max: math.Inf(1)},
		Selected:      map[string][]string{},
	}
}

func (f FilterState) clone() FilterState {
	selected := make(map[string][]string, len(f.Selected))
	for trait, values := range f.Selected {
		selected[trait] = append([]string(nil), values...)
	}
	f.Selected = selected
	return f
}

// WithFilter returns a copy with the (trait, value) pair selected or
// deselected. Deselecting the last value of a trait removes the trait.
func (f FilterState) WithFilter(traitType, value string, selected bool) FilterState {
	next := f.clone()
	values := next.Selected[traitType]
	idx := -1
	for i, v := range values {
		if v == value {
			idx = i
			break
		}
	}
	if selected && idx < 0 {
		next.Selected[traitType] = append(values, value)
	} else if !selected && idx >= 0 {
		values = append(values[:idx], values[idx+1:]...)
		if len(values) == 0 {
			delete(next.Selected, traitType)
		} else {
			next.Selected[traitType] = values
		}
	}
	return next
}

// WithOrderCategory returns a copy sorted by the given category.
// Unknown categories leave the state unchanged.
func (f FilterState) WithOrderCategory(category OrderCategory) FilterState {
	next := f.clone()
	if IsValidOrderCategory(category) {
		next.OrderCategory = category
	}
	return next
}

// WithDurationBounds returns a copy with the duration window replaced
func (f FilterState) WithDurationBounds(min, max float64) FilterState {
	next := f.clone()
	next.Duration = DurationBounds{Min: min, Max: max}
	return next
}

// SelectedCount returns the number of selected (trait, value) pairs
func (f FilterState) SelectedCount() int {
	n := 0
	for _, values := range f.Selected {
		n += len(values)
	}
	return n
}

// TraitValues is one trait with its known values in first seen order
type TraitValues struct {
	TraitType string   `json:"traitType"`
	Values    []string `json:"values"`
}

// Section is a group of listings under one browse header
type Section struct {
	Id          string                    `json:"id"`
	Header      string                    `json:"header"`
	Icon        string                    `json:"icon,omitempty"`
	Description string                    `json:"description,omitempty"`
	Tokens      []*tokenmanager.TokenData `json:"tokens"`
}

// BrowseView is the full computed browse result for one project
type BrowseView struct {
	Sections    []Section                 `json:"sections"`
	Listings    []*tokenmanager.TokenData `json:"listings"`
	FloorPrice  float64                   `json:"floorPrice"`
	Attributes  []TraitValues             `json:"attributes"`
	TotalListed int                       `json:"totalListed"`
}

type UseCase interface {
	Browse(c ctx.Ctx, projectId string, state FilterState) (*BrowseView, error)
}
