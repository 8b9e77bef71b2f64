package usecase

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	bCtx "github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/log"
	"github.com/rentable-xyz/goapi/base/metrics"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/marketplace"
	"github.com/rentable-xyz/goapi/domain/project"
	"github.com/rentable-xyz/goapi/domain/tokenmanager"
)

type MarketplaceUseCaseCfg struct {
	TokenManagerRepo tokenmanager.Repo
	ProjectRepo      project.Repo
	PaymentMintRepo  domain.PaymentMintRepo
	Metrics          metrics.Service
}

type marketplaceUseCase struct {
	tokenManagerRepo tokenmanager.Repo
	projectRepo      project.Repo
	paymentMintRepo  domain.PaymentMintRepo
	met              metrics.Service
	timeNow          func() time.Time
}

func New(cfg *MarketplaceUseCaseCfg) marketplace.UseCase {
	return &marketplaceUseCase{
		tokenManagerRepo: cfg.TokenManagerRepo,
		projectRepo:      cfg.ProjectRepo,
		paymentMintRepo:  cfg.PaymentMintRepo,
		met:              cfg.Metrics,
		timeNow:          time.Now,
	}
}

func (u *marketplaceUseCase) Browse(c bCtx.Ctx, projectId string, state marketplace.FilterState) (*marketplace.BrowseView, error) {
	defer u.met.BumpTime("browse.time", "project", projectId).End()

	cfg, err := u.projectRepo.FindOne(c, projectId)
	if err == domain.ErrNotFound {
		cfg = project.DefaultConfig(projectId)
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"projectId": projectId,
		}).Error("projectRepo.FindOne failed")
		return nil, err
	}

	mints, err := u.paymentMintRepo.FindAll(c)
	if err != nil {
		c.WithField("err", err).Error("paymentMintRepo.FindAll failed")
		return nil, err
	}
	mintMap := make(map[domain.Address]*domain.PaymentMint, len(mints))
	for _, m := range mints {
		mintMap[m.Mint] = m
	}

	listings, err := u.tokenManagerRepo.FindAll(c,
		tokenmanager.WithProjectId(projectId),
		tokenmanager.WithStates(tokenmanager.StateIssued, tokenmanager.StateClaimed),
	)
	if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"projectId": projectId,
		}).Error("tokenManagerRepo.FindAll failed")
		return nil, err
	}

	return ComputeView(cfg, mintMap, listings, state, u.timeNow()), nil
}

// ComputeView derives the whole browse view from immutable listing
// snapshots. It never mutates its inputs.
func ComputeView(cfg *project.Config, mints map[domain.Address]*domain.PaymentMint, listings []*tokenmanager.TokenData, state marketplace.FilterState, now time.Time) *marketplace.BrowseView {
	sections := cfg.Sections
	if len(sections) == 0 {
		sections = project.DefaultSections()
	}

	unit := cfg.RateSeconds()
	if unit == 0 {
		unit = 1
	}

	filtered := filterListings(listings, state, now)
	sorted := sortListings(filtered, state.OrderCategory, mints, unit, now)

	return &marketplace.BrowseView{
		Sections:    groupListings(sorted, sections),
		Listings:    sorted,
		FloorPrice:  floorPrice(mints, sorted, cfg),
		Attributes:  attributeValues(listings),
		TotalListed: len(listings),
	}
}

// displayAmount converts a raw token amount by the mint's decimals.
// Unknown mints are rendered at face value.
func displayAmount(mints map[domain.Address]*domain.PaymentMint, mint domain.Address, amount uint64) float64 {
	decimals := int32(0)
	if m, ok := mints[mint]; ok {
		decimals = m.Decimals
	}
	return decimal.New(int64(amount), -decimals).InexactFloat64()
}

// priceOf is the up-front claim price in display units, 0 when the
// listing has no claim approver
func priceOf(mints map[domain.Address]*domain.PaymentMint, td *tokenmanager.TokenData) float64 {
	if td.ClaimApprover == nil {
		return 0
	}
	return displayAmount(mints, td.ClaimApprover.PaymentMint, td.ClaimApprover.PaymentAmount)
}

// rateOf is the price per unitSeconds. Rate listings derive it from the
// extension terms, fixed listings from price over remaining duration.
// Any unresolvable input yields 0, never an error.
func rateOf(mints map[domain.Address]*domain.PaymentMint, td *tokenmanager.TokenData, unitSeconds int64, now time.Time) float64 {
	ti := td.TimeInvalidator

	if td.IsRateListing() {
		if ti.ExtensionPaymentAmount == nil || ti.ExtensionPaymentMint == nil || ti.ExtensionDurationSeconds == nil {
			return 0
		}
		if *ti.ExtensionDurationSeconds == 0 {
			return 0
		}
		amount := displayAmount(mints, *ti.ExtensionPaymentMint, *ti.ExtensionPaymentAmount)
		return amount / float64(*ti.ExtensionDurationSeconds) * float64(unitSeconds)
	}

	price := priceOf(mints, td)
	if price == 0 {
		return 0
	}

	duration := int64(0)
	if ti != nil {
		if ti.DurationSeconds != nil && *ti.DurationSeconds > 0 {
			duration = *ti.DurationSeconds
		} else if ti.Expiration != nil {
			duration = *ti.Expiration - now.Unix()
		}
		if ti.MaxExpiration != nil {
			if remaining := *ti.MaxExpiration - now.Unix(); duration == 0 || remaining < duration {
				duration = remaining
			}
		}
	}
	if duration <= 0 {
		return 0
	}
	return price / float64(duration) * float64(unitSeconds)
}

// durationOf is the remaining rental window in seconds, +inf when the
// listing never expires
func durationOf(td *tokenmanager.TokenData, now time.Time) float64 {
	ti := td.TimeInvalidator

	if td.IsRateListing() {
		if ti.MaxExpiration != nil {
			return float64(*ti.MaxExpiration - now.Unix())
		}
		if ti.Expiration != nil {
			return float64(*ti.Expiration - now.Unix())
		}
		return math.Inf(1)
	}

	if ti != nil {
		if ti.Expiration != nil {
			return float64(*ti.Expiration - now.Unix())
		}
		if ti.DurationSeconds != nil {
			return float64(*ti.DurationSeconds)
		}
		if ti.MaxExpiration != nil {
			return float64(*ti.MaxExpiration - now.Unix())
		}
	}
	return math.Inf(1)
}

func rawPriceOf(td *tokenmanager.TokenData) uint64 {
	if td.ClaimApprover == nil {
		return 0
	}
	return td.ClaimApprover.PaymentAmount
}

// sortListings stable sorts a copy, leaving the input order untouched
func sortListings(listings []*tokenmanager.TokenData, category marketplace.OrderCategory, mints map[domain.Address]*domain.PaymentMint, unitSeconds int64, now time.Time) []*tokenmanager.TokenData {
	sorted := append([]*tokenmanager.TokenData(nil), listings...)

	var less func(i, j int) bool
	switch category {
	case marketplace.OrderCategoryRecentlyListed:
		less = func(i, j int) bool {
			return sorted[i].TokenManager.StateChangedAt < sorted[j].TokenManager.StateChangedAt
		}
	case marketplace.OrderCategoryPriceAsc:
		less = func(i, j int) bool { return rawPriceOf(sorted[i]) < rawPriceOf(sorted[j]) }
	case marketplace.OrderCategoryPriceDesc:
		less = func(i, j int) bool { return rawPriceOf(sorted[i]) > rawPriceOf(sorted[j]) }
	case marketplace.OrderCategoryRateAsc:
		less = func(i, j int) bool {
			return rateOf(mints, sorted[i], unitSeconds, now) < rateOf(mints, sorted[j], unitSeconds, now)
		}
	case marketplace.OrderCategoryRateDesc:
		less = func(i, j int) bool {
			return rateOf(mints, sorted[i], unitSeconds, now) > rateOf(mints, sorted[j], unitSeconds, now)
		}
	case marketplace.OrderCategoryDurationAsc:
		less = func(i, j int) bool {
			return durationOf(sorted[i], now) < durationOf(sorted[j], now)
		}
	case marketplace.OrderCategoryDurationDesc:
		less = func(i, j int) bool {
			return durationOf(sorted[i], now) > durationOf(sorted[j], now)
		}
	default:
		return sorted
	}

	sort.SliceStable(sorted, less)
	return sorted
}

// filterListings applies the duration window first, then the attribute
// selection as a union across all selected trait value pairs
func filterListings(listings []*tokenmanager.TokenData, state marketplace.FilterState, now time.Time) []*tokenmanager.TokenData {
	res := []*tokenmanager.TokenData{}
	for _, td := range listings {
		d := durationOf(td, now)
		if d < state.Duration.Min {
			continue
		}
		if !state.Duration.IsUnbounded() && d > state.Duration.Max {
			continue
		}
		if state.SelectedCount() > 0 && !matchesSelection(td, state.Selected) {
			continue
		}
		res = append(res, td)
	}
	return res
}

func matchesSelection(td *tokenmanager.TokenData, selected map[string][]string) bool {
	if td.Metadata == nil {
		return false
	}
	for _, attr := range td.Metadata.Attributes {
		for _, v := range selected[attr.TraitType] {
			if v == attr.Value {
				return true
			}
		}
	}
	return false
}

// groupListings assigns each listing to the first section whose filter
// matches. Listings matching no section stay out of every group.
func groupListings(listings []*tokenmanager.TokenData, sections []project.Section) []marketplace.Section {
	res := make([]marketplace.Section, len(sections))
	for i, s := range sections {
		res[i] = marketplace.Section{
			Id:          s.Id,
			Header:      s.Header,
			Icon:        s.Icon,
			Description: s.Description,
			Tokens:      []*tokenmanager.TokenData{},
		}
	}
	for _, td := range listings {
		for i := range sections {
			if sections[i].Filter.Matches(td) {
				res[i].Tokens = append(res[i].Tokens, td)
				break
			}
		}
	}
	return res
}

// floorPrice is the minimum extension rate at the configured unit. It
// is only defined for projects with a marketplace rate unit.
func floorPrice(mints map[domain.Address]*domain.PaymentMint, listings []*tokenmanager.TokenData, cfg *project.Config) float64 {
	unit := cfg.RateSeconds()
	if unit == 0 {
		return 0
	}

	floor := math.Inf(1)
	found := false
	for _, td := range listings {
		if !td.IsRateListing() {
			continue
		}
		ti := td.TimeInvalidator
		if ti.ExtensionPaymentAmount == nil || ti.ExtensionPaymentMint == nil || ti.ExtensionDurationSeconds == nil {
			continue
		}
		if *ti.ExtensionDurationSeconds == 0 {
			continue
		}
		rate := displayAmount(mints, *ti.ExtensionPaymentMint, *ti.ExtensionPaymentAmount) /
			float64(*ti.ExtensionDurationSeconds) * float64(unit)
		if rate < floor {
			floor = rate
			found = true
		}
	}
	if !found {
		return 0
	}
	return floor
}

// attributeValues collects the trait vocabulary in first seen order
func attributeValues(listings []*tokenmanager.TokenData) []marketplace.TraitValues {
	res := []marketplace.TraitValues{}
	traitIdx := map[string]int{}
	seen := map[string]map[string]bool{}

	for _, td := range listings {
		if td.Metadata == nil {
			continue
		}
		for _, attr := range td.Metadata.Attributes {
			idx, ok := traitIdx[attr.TraitType]
			if !ok {
				idx = len(res)
				traitIdx[attr.TraitType] = idx
				seen[attr.TraitType] = map[string]bool{}
				res = append(res, marketplace.TraitValues{TraitType: attr.TraitType})
			}
			if !seen[attr.TraitType][attr.Value] {
				seen[attr.TraitType][attr.Value] = true
				res[idx].Values = append(res[idx].Values, attr.Value)
			}
		}
	}
	return res
}
