package tokenmanager

import (
	"time"

	"github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/domain"
)

// State is the token manager lifecycle state recorded on chain
type State int32

const (
	StateInitialized State = 0
	StateIssued      State = 1
	StateClaimed     State = 2
	StateInvalidated State = 3
)

var stateNames = map[State]string{
	StateInitialized: "initialized",
	StateIssued:      "issued",
	StateClaimed:     "claimed",
	StateInvalidated: "invalidated",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) IsValid() bool {
	_, ok := stateNames[s]
	return ok
}

// ClaimApprover holds the up-front payment terms of a listing
type ClaimApprover struct {
	PaymentMint   domain.Address `bson:"paymentMint" json:"paymentMint"`
	PaymentAmount uint64         `bson:"paymentAmount" json:"paymentAmount"`
}

// TimeInvalidator holds the time based expiry terms of a listing.
// All timestamps are unix seconds. Nil means the field is not set on chain.
type TimeInvalidator struct {
	DurationSeconds          *int64          `bson:"durationSeconds" json:"durationSeconds"`
	ExtensionDurationSeconds *int64          `bson:"extensionDurationSeconds" json:"extensionDurationSeconds"`
	ExtensionPaymentAmount   *uint64         `bson:"extensionPaymentAmount" json:"extensionPaymentAmount"`
	ExtensionPaymentMint     *domain.Address `bson:"extensionPaymentMint" json:"extensionPaymentMint"`
	MaxExpiration            *int64          `bson:"maxExpiration" json:"maxExpiration"`
	Expiration               *int64          `bson:"expiration" json:"expiration"`
}

// UseInvalidator holds the usage based expiry terms of a listing
type UseInvalidator struct {
	Usages    uint64  `bson:"usages" json:"usages"`
	MaxUsages *uint64 `bson:"maxUsages" json:"maxUsages"`
}

type Attribute struct {
	TraitType string `bson:"traitType" json:"trait_type"`
	Value     string `bson:"value" json:"value"`
}

type Metadata struct {
	Name       string      `bson:"name" json:"name"`
	Image      string      `bson:"image" json:"image"`
	Attributes []Attribute `bson:"attributes" json:"attributes"`
}

// TokenManager is the indexed snapshot of a token manager account
type TokenManager struct {
	Address        domain.Address `bson:"address" json:"address"`
	ProjectId      string         `bson:"projectId" json:"projectId"`
	State          State          `bson:"state" json:"state"`
	StateChangedAt int64          `bson:"stateChangedAt" json:"stateChangedAt"`
	Issuer         domain.Address `bson:"issuer" json:"issuer"`
	Mint           domain.Address `bson:"mint" json:"mint"`
}

// TokenData aggregates a token manager snapshot with its invalidators and metadata
type TokenData struct {
	TokenManager    *TokenManager    `bson:"tokenManager" json:"tokenManager"`
	ClaimApprover   *ClaimApprover   `bson:"claimApprover" json:"claimApprover"`
	TimeInvalidator *TimeInvalidator `bson:"timeInvalidator" json:"timeInvalidator"`
	UseInvalidator  *UseInvalidator  `bson:"useInvalidator" json:"useInvalidator"`
	Metadata        *Metadata        `bson:"metadata" json:"metadata"`
	RecipientOwner  domain.Address   `bson:"recipientOwner" json:"recipientOwner"`
}

type TokenDataId struct {
	Address domain.Address `bson:"tokenManager.address"`
}

func (td *TokenData) ToId() *TokenDataId {
	return &TokenDataId{Address: td.TokenManager.Address}
}

// IsRateListing reports whether the listing is priced by extension rate
// instead of a fixed rental window
func (td *TokenData) IsRateListing() bool {
	return td.TimeInvalidator != nil &&
		td.TimeInvalidator.DurationSeconds != nil &&
		*td.TimeInvalidator.DurationSeconds == 0
}

// ShouldTimeInvalidate reports whether the time invalidator terms have
// expired at `now`, making the listing revocable by anyone
func (td *TokenData) ShouldTimeInvalidate(now time.Time) bool {
	ti := td.TimeInvalidator
	if ti == nil || td.TokenManager == nil {
		return false
	}
	n := now.Unix()
	if ti.MaxExpiration != nil && *ti.MaxExpiration <= n {
		return true
	}
	if td.TokenManager.State != StateClaimed {
		return false
	}
	if ti.Expiration != nil {
		return *ti.Expiration <= n
	}
	if ti.DurationSeconds != nil && *ti.DurationSeconds > 0 {
		return td.TokenManager.StateChangedAt+*ti.DurationSeconds <= n
	}
	return false
}

// ShouldUseInvalidate reports whether the usage allowance is exhausted
func (td *TokenData) ShouldUseInvalidate() bool {
	ui := td.UseInvalidator
	return ui != nil && ui.MaxUsages != nil && ui.Usages >= *ui.MaxUsages
}

type FindAllOptions struct {
	ProjectId      *string
	States         *[]State
	Issuer         *domain.Address
	RecipientOwner *domain.Address
	ClaimApprover  *domain.Address
}

type FindAllOptionsFunc func(*FindAllOptions) error

func ParseFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithProjectId(projectId string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ProjectId = &projectId
		return nil
	}
}

func WithStates(states ...State) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.States = &states
		return nil
	}
}

func WithIssuer(issuer domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Issuer = &issuer
		return nil
	}
}

func WithRecipientOwner(owner domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.RecipientOwner = &owner
		return nil
	}
}

func WithClaimApprover(mint domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ClaimApprover = &mint
		return nil
	}
}

// Repo is the listing snapshot repository fed by the external indexer
type Repo interface {
	FindOne(ctx.Ctx, domain.Address) (*TokenData, error)
	FindAll(ctx.Ctx, ...FindAllOptionsFunc) ([]*TokenData, error)
	Count(ctx.Ctx, ...FindAllOptionsFunc) (int, error)
	Upsert(ctx.Ctx, *TokenData) error
}

// Source fetches the freshest snapshot of a token manager, bypassing
// the local repository
type Source interface {
	Fetch(ctx.Ctx, domain.Address) (*TokenData, error)
}
