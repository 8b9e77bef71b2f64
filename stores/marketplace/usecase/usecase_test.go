package usecase

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rentable-xyz/goapi/base/ptr"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/marketplace"
	"github.com/rentable-xyz/goapi/domain/project"
	"github.com/rentable-xyz/goapi/domain/tokenmanager"
)

var (
	usdcMint = domain.Address("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	testMints = map[domain.Address]*domain.PaymentMint{
		usdcMint: {Mint: usdcMint, Symbol: "USDC", Decimals: 6},
	}

	testNow = time.Unix(1_000_000, 0)
)

func addrPtr(a domain.Address) *domain.Address { return &a }

func rateListing(extAmount uint64, extDuration int64, maxExpiration *int64) *tokenmanager.TokenData {
	return &tokenmanager.TokenData{
		TokenManager: &tokenmanager.TokenManager{State: tokenmanager.StateIssued},
		TimeInvalidator: &tokenmanager.TimeInvalidator{
			DurationSeconds:          ptr.Int64(0),
			ExtensionDurationSeconds: &extDuration,
			ExtensionPaymentAmount:   &extAmount,
			ExtensionPaymentMint:     addrPtr(usdcMint),
			MaxExpiration:            maxExpiration,
		},
	}
}

func fixedListing(amount uint64, durationSeconds *int64, expiration, maxExpiration *int64) *tokenmanager.TokenData {
	return &tokenmanager.TokenData{
		TokenManager:  &tokenmanager.TokenManager{State: tokenmanager.StateIssued},
		ClaimApprover: &tokenmanager.ClaimApprover{PaymentMint: usdcMint, PaymentAmount: amount},
		TimeInvalidator: &tokenmanager.TimeInvalidator{
			DurationSeconds: durationSeconds,
			Expiration:      expiration,
			MaxExpiration:   maxExpiration,
		},
	}
}

func TestRateOf(t *testing.T) {
	cases := []struct {
		name string
		td   *tokenmanager.TokenData
		unit int64
		want float64
	}{
		{
			name: "rate listing scaled to unit",
			td:   rateListing(10_000_000, 3600, nil),
			unit: 86400,
			want: 240,
		},
		{
			name: "rate listing at its own unit",
			td:   rateListing(10_000_000, 3600, nil),
			unit: 3600,
			want: 10,
		},
		{
			name: "zero extension duration guarded",
			td:   rateListing(10_000_000, 0, nil),
			unit: 3600,
			want: 0,
		},
		{
			name: "missing extension terms",
			td: &tokenmanager.TokenData{
				TokenManager:    &tokenmanager.TokenManager{State: tokenmanager.StateIssued},
				TimeInvalidator: &tokenmanager.TimeInvalidator{DurationSeconds: ptr.Int64(0)},
			},
			unit: 3600,
			want: 0,
		},
		{
			name: "fixed listing price over duration",
			td:   fixedListing(10_000_000, ptr.Int64(7200), nil, nil),
			unit: 3600,
			want: 5,
		},
		{
			name: "fixed listing without price",
			td:   fixedListing(0, ptr.Int64(7200), nil, nil),
			unit: 3600,
			want: 0,
		},
		{
			name: "fixed listing duration from expiration",
			td:   fixedListing(10_000_000, nil, ptr.Int64(testNow.Unix()+7200), nil),
			unit: 3600,
			want: 5,
		},
		{
			name: "fixed listing capped by max expiration",
			td:   fixedListing(10_000_000, ptr.Int64(7200), nil, ptr.Int64(testNow.Unix()+3600)),
			unit: 3600,
			want: 10,
		},
		{
			name: "fixed listing without any duration",
			td:   fixedListing(10_000_000, nil, nil, nil),
			unit: 3600,
			want: 0,
		},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, rateOf(testMints, c.td, c.unit, testNow), c.name)
	}
}

func TestDurationOf(t *testing.T) {
	cases := []struct {
		name string
		td   *tokenmanager.TokenData
		want float64
	}{
		{
			name: "fixed duration seconds",
			td:   fixedListing(1, ptr.Int64(7200), nil, nil),
			want: 7200,
		},
		{
			name: "expiration wins over duration seconds",
			td:   fixedListing(1, ptr.Int64(7200), ptr.Int64(testNow.Unix()+60), nil),
			want: 60,
		},
		{
			name: "max expiration as fallback",
			td:   fixedListing(1, nil, nil, ptr.Int64(testNow.Unix()+600)),
			want: 600,
		},
		{
			name: "rate listing with max expiration",
			td:   rateListing(1, 3600, ptr.Int64(testNow.Unix()+600)),
			want: 600,
		},
		{
			name: "rate listing falls back to expiration",
			td: func() *tokenmanager.TokenData {
				td := rateListing(1, 3600, nil)
				td.TimeInvalidator.Expiration = ptr.Int64(testNow.Unix() + 600)
				return td
			}(),
			want: 600,
		},
		{
			name: "rate listing without any expiry",
			td:   rateListing(1, 3600, nil),
			want: math.Inf(1),
		},
		{
			name: "no invalidator terms",
			td: &tokenmanager.TokenData{
				TokenManager: &tokenmanager.TokenManager{State: tokenmanager.StateIssued},
			},
			want: math.Inf(1),
		},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, durationOf(c.td, testNow), c.name)
	}
}

func TestSortListings(t *testing.T) {
	cheap := fixedListing(1_000_000, ptr.Int64(3600), nil, nil)
	pricy := fixedListing(9_000_000, ptr.Int64(3600), nil, nil)
	endless := rateListing(1_000_000, 3600, nil)
	endless.TokenManager.StateChangedAt = 30
	cheap.TokenManager.StateChangedAt = 20
	pricy.TokenManager.StateChangedAt = 10

	listings := []*tokenmanager.TokenData{pricy, endless, cheap}

	sorted := sortListings(listings, marketplace.OrderCategoryPriceAsc, testMints, 1, testNow)
	assert.Equal(t, []*tokenmanager.TokenData{endless, cheap, pricy}, sorted)
	// input untouched
	assert.Equal(t, []*tokenmanager.TokenData{pricy, endless, cheap}, listings)

	sorted = sortListings(listings, marketplace.OrderCategoryPriceDesc, testMints, 1, testNow)
	assert.Equal(t, []*tokenmanager.TokenData{pricy, cheap, endless}, sorted)

	sorted = sortListings(listings, marketplace.OrderCategoryRecentlyListed, testMints, 1, testNow)
	assert.Equal(t, []*tokenmanager.TokenData{pricy, cheap, endless}, sorted)

	// unbounded duration sorts last ascending
	sorted = sortListings(listings, marketplace.OrderCategoryDurationAsc, testMints, 1, testNow)
	assert.Equal(t, endless, sorted[2])
}

func TestSortListingsStable(t *testing.T) {
	a := fixedListing(1_000_000, ptr.Int64(3600), nil, nil)
	b := fixedListing(1_000_000, ptr.Int64(3600), nil, nil)
	c := fixedListing(1_000_000, ptr.Int64(3600), nil, nil)

	sorted := sortListings([]*tokenmanager.TokenData{a, b, c}, marketplace.OrderCategoryPriceAsc, testMints, 1, testNow)
	assert.Equal(t, []*tokenmanager.TokenData{a, b, c}, sorted)
}

func withAttributes(td *tokenmanager.TokenData, attrs ...tokenmanager.Attribute) *tokenmanager.TokenData {
	td.Metadata = &tokenmanager.Metadata{Attributes: attrs}
	return td
}

func TestFilterListingsDuration(t *testing.T) {
	short := fixedListing(1, ptr.Int64(3600), nil, nil)
	long := fixedListing(1, ptr.Int64(86400), nil, nil)
	endless := rateListing(1, 3600, nil)

	listings := []*tokenmanager.TokenData{short, long, endless}

	cases := []struct {
		name string
		min  float64
		max  float64
		want []*tokenmanager.TokenData
	}{
		{
			name: "unbounded keeps everything",
			min:  0, max: math.Inf(1),
			want: listings,
		},
		{
			name: "bounds are inclusive",
			min:  3600, max: 86400,
			want: []*tokenmanager.TokenData{short, long},
		},
		{
			name: "unresolved duration only passes unbounded max",
			min:  86400, max: 604800,
			want: []*tokenmanager.TokenData{long},
		},
		{
			name: "min excludes shorter listings",
			min:  86401, max: math.Inf(1),
			want: []*tokenmanager.TokenData{endless},
		},
	}

	for _, c := range cases {
		state := marketplace.DefaultFilterState().WithDurationBounds(c.min, c.max)
		assert.Equal(t, c.want, filterListings(listings, state, testNow), c.name)
	}
}

func TestFilterListingsAttributes(t *testing.T) {
	red := withAttributes(fixedListing(1, ptr.Int64(3600), nil, nil),
		tokenmanager.Attribute{TraitType: "color", Value: "red"})
	blueRare := withAttributes(fixedListing(2, ptr.Int64(3600), nil, nil),
		tokenmanager.Attribute{TraitType: "color", Value: "blue"},
		tokenmanager.Attribute{TraitType: "rarity", Value: "rare"})
	bare := fixedListing(3, ptr.Int64(3600), nil, nil)

	listings := []*tokenmanager.TokenData{red, blueRare, bare}

	// empty selection is identity
	assert.Equal(t, listings, filterListings(listings, marketplace.DefaultFilterState(), testNow))

	// single pair
	state := marketplace.DefaultFilterState().WithFilter("color", "red", true)
	assert.Equal(t, []*tokenmanager.TokenData{red}, filterListings(listings, state, testNow))

	// union across pairs, not intersection
	state = state.WithFilter("rarity", "rare", true)
	assert.Equal(t, []*tokenmanager.TokenData{red, blueRare}, filterListings(listings, state, testNow))

	// listings without metadata never match a selection
	state = marketplace.DefaultFilterState().WithFilter("color", "missing", true)
	assert.Equal(t, []*tokenmanager.TokenData{}, filterListings(listings, state, testNow))
}

func TestGroupListings(t *testing.T) {
	issued := fixedListing(1, ptr.Int64(3600), nil, nil)
	claimed := fixedListing(2, ptr.Int64(3600), nil, nil)
	claimed.TokenManager.State = tokenmanager.StateClaimed
	invalidated := fixedListing(3, ptr.Int64(3600), nil, nil)
	invalidated.TokenManager.State = tokenmanager.StateInvalidated

	listings := []*tokenmanager.TokenData{issued, claimed, invalidated}

	groups := groupListings(listings, project.DefaultSections())
	assert.Len(t, groups, 2)
	assert.Equal(t, []*tokenmanager.TokenData{issued}, groups[0].Tokens)
	assert.Equal(t, []*tokenmanager.TokenData{claimed}, groups[1].Tokens)

	// first matching section wins
	all := project.SectionFilter{
		Type: project.SectionFilterTypeState,
		Values: []string{
			tokenmanager.StateIssued.String(),
			tokenmanager.StateClaimed.String(),
		},
	}
	sections := []project.Section{
		{Id: "everything", Filter: all},
		{Id: "claimed", Filter: project.DefaultSections()[1].Filter},
	}
	groups = groupListings(listings, sections)
	assert.Equal(t, []*tokenmanager.TokenData{issued, claimed}, groups[0].Tokens)
	assert.Empty(t, groups[1].Tokens)
}

func TestFloorPrice(t *testing.T) {
	hourly := project.RateUnitHours
	rateCfg := &project.Config{Id: "p", MarketplaceRate: &hourly}
	noRateCfg := &project.Config{Id: "p"}

	cheap := rateListing(1_000_000, 3600, nil)
	pricy := rateListing(5_000_000, 3600, nil)
	fixed := fixedListing(100, ptr.Int64(60), nil, nil)
	broken := rateListing(1, 0, nil)

	cases := []struct {
		name     string
		cfg      *project.Config
		listings []*tokenmanager.TokenData
		want     float64
	}{
		{
			name:     "minimum over rate listings",
			cfg:      rateCfg,
			listings: []*tokenmanager.TokenData{pricy, cheap, fixed},
			want:     1,
		},
		{
			name:     "no marketplace rate unit",
			cfg:      noRateCfg,
			listings: []*tokenmanager.TokenData{cheap},
			want:     0,
		},
		{
			name:     "no rate listings",
			cfg:      rateCfg,
			listings: []*tokenmanager.TokenData{fixed},
			want:     0,
		},
		{
			name:     "empty set",
			cfg:      rateCfg,
			listings: []*tokenmanager.TokenData{},
			want:     0,
		},
		{
			name:     "zero extension duration skipped",
			cfg:      rateCfg,
			listings: []*tokenmanager.TokenData{broken, cheap},
			want:     1,
		},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, floorPrice(testMints, c.listings, c.cfg), c.name)
	}
}

func TestAttributeValues(t *testing.T) {
	listings := []*tokenmanager.TokenData{
		withAttributes(fixedListing(1, ptr.Int64(3600), nil, nil),
			tokenmanager.Attribute{TraitType: "color", Value: "red"},
			tokenmanager.Attribute{TraitType: "rarity", Value: "rare"}),
		withAttributes(fixedListing(2, ptr.Int64(3600), nil, nil),
			tokenmanager.Attribute{TraitType: "color", Value: "blue"},
			tokenmanager.Attribute{TraitType: "color", Value: "red"}),
		fixedListing(3, ptr.Int64(3600), nil, nil),
	}

	assert.Equal(t, []marketplace.TraitValues{
		{TraitType: "color", Values: []string{"red", "blue"}},
		{TraitType: "rarity", Values: []string{"rare"}},
	}, attributeValues(listings))

	assert.Equal(t, []marketplace.TraitValues{}, attributeValues(nil))
}

func TestComputeView(t *testing.T) {
	hourly := project.RateUnitHours
	cfg := &project.Config{Id: "p", MarketplaceRate: &hourly}

	issued := rateListing(2_000_000, 3600, nil)
	issued.TokenManager.StateChangedAt = 2
	claimed := rateListing(1_000_000, 3600, nil)
	claimed.TokenManager.State = tokenmanager.StateClaimed
	claimed.TokenManager.StateChangedAt = 1

	view := ComputeView(cfg, testMints, []*tokenmanager.TokenData{issued, claimed},
		marketplace.DefaultFilterState(), testNow)

	assert.Equal(t, 2, view.TotalListed)
	assert.Equal(t, float64(1), view.FloorPrice)
	// rate ascending by default
	assert.Equal(t, []*tokenmanager.TokenData{claimed, issued}, view.Listings)
	assert.Len(t, view.Sections, 2)
	assert.Equal(t, []*tokenmanager.TokenData{issued}, view.Sections[0].Tokens)
	assert.Equal(t, []*tokenmanager.TokenData{claimed}, view.Sections[1].Tokens)
}

func TestComputeViewFloorPriceFollowsFilter(t *testing.T) {
	hourly := project.RateUnitHours
	cfg := &project.Config{Id: "p", MarketplaceRate: &hourly}

	cheap := withAttributes(rateListing(1_000_000, 3600, nil),
		tokenmanager.Attribute{TraitType: "color", Value: "red"})
	pricy := withAttributes(rateListing(5_000_000, 3600, nil),
		tokenmanager.Attribute{TraitType: "color", Value: "blue"})
	listings := []*tokenmanager.TokenData{cheap, pricy}

	state := marketplace.DefaultFilterState().WithFilter("color", "blue", true)
	view := ComputeView(cfg, testMints, listings, state, testNow)

	// floor reflects the filtered listings, while the vocabulary and the
	// total keep covering the whole snapshot
	assert.Equal(t, float64(5), view.FloorPrice)
	assert.Equal(t, []*tokenmanager.TokenData{pricy}, view.Listings)
	assert.Equal(t, 2, view.TotalListed)
	assert.Equal(t, []marketplace.TraitValues{
		{TraitType: "color", Values: []string{"red", "blue"}},
	}, view.Attributes)
}
