package marketplace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFilterState(t *testing.T) {
	f := DefaultFilterState()
	assert.Equal(t, OrderCategoryRateAsc, f.OrderCategory)
	assert.Equal(t, float64(0), f.Duration.Min)
	assert.True(t, f.Duration.IsUnbounded())
	assert.Equal(t, 0, f.SelectedCount())
}

func TestWithFilterDoesNotMutate(t *testing.T) {
	base := DefaultFilterState()
	next := base.WithFilter("Background", "Blue", true)

	assert.Equal(t, 0, base.SelectedCount())
	assert.Equal(t, 1, next.SelectedCount())
	assert.Equal(t, []string{"Blue"}, next.Selected["Background"])
}

func TestWithFilterToggle(t *testing.T) {
	f := DefaultFilterState().
		WithFilter("Background", "Blue", true).
		WithFilter("Background", "Red", true).
		WithFilter("Eyes", "Laser", true)
	assert.Equal(t, 3, f.SelectedCount())

	f = f.WithFilter("Background", "Blue", false)
	assert.Equal(t, []string{"Red"}, f.Selected["Background"])

	// removing the last value drops the trait entirely
	f = f.WithFilter("Eyes", "Laser", false)
	_, ok := f.Selected["Eyes"]
	assert.False(t, ok)

	// deselecting an unselected pair is a no-op
	g := f.WithFilter("Fur", "Gold", false)
	assert.Equal(t, f.SelectedCount(), g.SelectedCount())
}

func TestWithFilterIdempotentSelect(t *testing.T) {
	f := DefaultFilterState().
		WithFilter("Background", "Blue", true).
		WithFilter("Background", "Blue", true)
	assert.Equal(t, []string{"Blue"}, f.Selected["Background"])
}

func TestWithOrderCategory(t *testing.T) {
	f := DefaultFilterState().WithOrderCategory(OrderCategoryDurationDesc)
	assert.Equal(t, OrderCategoryDurationDesc, f.OrderCategory)

	// unknown categories are ignored
	g := f.WithOrderCategory("most_recently_rugged")
	assert.Equal(t, OrderCategoryDurationDesc, g.OrderCategory)
}

func TestWithDurationBounds(t *testing.T) {
	base := DefaultFilterState()
	next := base.WithDurationBounds(DurationBoundSteps[20], DurationBoundSteps[60])

	assert.Equal(t, float64(3600), next.Duration.Min)
	assert.Equal(t, float64(604800), next.Duration.Max)
	assert.False(t, next.Duration.IsUnbounded())
	assert.True(t, base.Duration.IsUnbounded())
}

func TestDurationBoundSteps(t *testing.T) {
	assert.Equal(t, float64(0), DurationBoundSteps[0])
	assert.Equal(t, float64(3600), DurationBoundSteps[20])
	assert.Equal(t, float64(86400), DurationBoundSteps[40])
	assert.Equal(t, float64(604800), DurationBoundSteps[60])
	assert.Equal(t, float64(2419200), DurationBoundSteps[80])
	assert.True(t, math.IsInf(DurationBoundSteps[100], 1))
}

func TestIsValidOrderCategory(t *testing.T) {
	for _, category := range []OrderCategory{
		OrderCategoryRecentlyListed,
		OrderCategoryPriceAsc,
		OrderCategoryPriceDesc,
		OrderCategoryRateAsc,
		OrderCategoryRateDesc,
		OrderCategoryDurationAsc,
		OrderCategoryDurationDesc,
	} {
		assert.True(t, IsValidOrderCategory(category), category)
	}
	assert.False(t, IsValidOrderCategory("floor_low_to_high"))
}
