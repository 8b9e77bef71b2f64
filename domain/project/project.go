package project

import (
	"github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/tokenmanager"
)

// RateUnit is the display unit used to normalize extension rates
type RateUnit string

const (
	RateUnitSeconds RateUnit = "seconds"
	RateUnitMinutes RateUnit = "minutes"
	RateUnitHours   RateUnit = "hours"
	RateUnitDays    RateUnit = "days"
	RateUnitWeeks   RateUnit = "weeks"
)

var rateUnitToSeconds = map[RateUnit]int64{
	RateUnitSeconds: 1,
	RateUnitMinutes: 60,
	RateUnitHours:   3600,
	RateUnitDays:    86400,
	RateUnitWeeks:   604800,
}

func (r RateUnit) Seconds() int64 {
	if secs, ok := rateUnitToSeconds[r]; ok {
		return secs
	}
	return 1
}

func (r RateUnit) IsValid() bool {
	_, ok := rateUnitToSeconds[r]
	return ok
}

type SectionFilterType string

const (
	SectionFilterTypeState  SectionFilterType = "state"
	SectionFilterTypeIssuer SectionFilterType = "issuer"
)

// SectionFilter is the membership predicate of one browse section
type SectionFilter struct {
	Type   SectionFilterType `bson:"type" json:"type"`
	Values []string          `bson:"values" json:"values"`
}

func (f *SectionFilter) Matches(td *tokenmanager.TokenData) bool {
	if td == nil || td.TokenManager == nil {
		return false
	}
	switch f.Type {
	case SectionFilterTypeState:
		for _, v := range f.Values {
			if td.TokenManager.State.String() == v {
				return true
			}
		}
	case SectionFilterTypeIssuer:
		for _, v := range f.Values {
			if td.TokenManager.Issuer.Equals(domain.Address(v)) {
				return true
			}
		}
	}
	return false
}

// Section is one configured browse section in declared order
type Section struct {
	Id          string        `bson:"id" json:"id"`
	Header      string        `bson:"header" json:"header"`
	Icon        string        `bson:"icon" json:"icon"`
	Description string        `bson:"description" json:"description"`
	Filter      SectionFilter `bson:"filter" json:"filter"`
}

// CreatorRule is one claim eligibility rule, evaluated in declared order
type CreatorRule struct {
	Address               domain.Address `bson:"address" json:"address"`
	PreventMultipleClaims bool           `bson:"preventMultipleClaims" json:"preventMultipleClaims"`
	EnforceTwitter        bool           `bson:"enforceTwitter" json:"enforceTwitter"`
}

// Config is the explicit per project marketplace configuration. It is
// passed into the engine entry points, never read from ambient state.
type Config struct {
	Id                 string        `bson:"id" json:"id"`
	Name               string        `bson:"name" json:"name"`
	MarketplaceRate    *RateUnit     `bson:"marketplaceRate" json:"marketplaceRate"`
	Sections           []Section     `bson:"sections" json:"sections"`
	AllowOneByCreators []CreatorRule `bson:"allowOneByCreators" json:"allowOneByCreators"`
	HideFilters        bool          `bson:"hideFilters" json:"hideFilters"`
}

type ConfigId struct {
	Id string `bson:"id"`
}

func (c *Config) ToId() *ConfigId {
	return &ConfigId{Id: c.Id}
}

// RateSeconds returns the configured rate unit in seconds, or 0 when no
// marketplace rate is configured
func (c *Config) RateSeconds() int64 {
	if c.MarketplaceRate == nil {
		return 0
	}
	return c.MarketplaceRate.Seconds()
}

// DefaultSections are used when a project configures none
func DefaultSections() []Section {
	return []Section{
		{
			Id:     "available",
			Header: "Available",
			Filter: SectionFilter{
				Type:   SectionFilterTypeState,
				Values: []string{tokenmanager.StateIssued.String()},
			},
		},
		{
			Id:     "claimed",
			Header: "Claimed",
			Icon:   "featured",
			Filter: SectionFilter{
				Type:   SectionFilterTypeState,
				Values: []string{tokenmanager.StateClaimed.String()},
			},
		},
	}
}

// DefaultConfig is the fallback when a project has no stored config
func DefaultConfig(id string) *Config {
	return &Config{
		Id:       id,
		Name:     id,
		Sections: DefaultSections(),
	}
}

type Repo interface {
	FindOne(ctx.Ctx, string) (*Config, error)
	FindAll(ctx.Ctx) ([]*Config, error)
	Upsert(ctx.Ctx, *Config) error
}
