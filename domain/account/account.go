package account

import (
	"errors"
	"time"

	"github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/domain"
)

// Account is a wallet account stored in database
type Account struct {
	Address   domain.Address `bson:"address"`
	Nonce     int32          `bson:"nonce"`
	Twitter   string         `bson:"twitter"`
	CreatedAt time.Time      `bson:"createdAt,omitempty"`
	UpdatedAt time.Time      `bson:"updatedAt,omitempty"`
}

func unixMilli(t time.Time) int64 {
	return t.Unix()*1e3 + int64(t.Nanosecond())/1e6
}

func (a *Account) ToInfo() *Info {
	return &Info{
		Address:     a.Address,
		Twitter:     a.Twitter,
		CreatedAtMs: unixMilli(a.CreatedAt),
		UpdatedAtMs: unixMilli(a.UpdatedAt),
	}
}

// Info is the account struct returned to clients
type Info struct {
	Address     domain.Address `json:"address"`
	Twitter     string         `json:"twitter"`
	CreatedAtMs int64          `json:"createdAtMs,omitempty"`
	UpdatedAtMs int64          `json:"updatedAtMs,omitempty"`
}

// Updater to update account info
type Updater struct {
	Nonce     *int32    `json:"-" bson:"nonce"`
	Twitter   *string   `json:"twitter" bson:"twitter"`
	UpdatedAt time.Time `json:"-" bson:"updatedAt,omitempty"`
}

var (
	// ErrInvalidNonce occured when validating a signature but the nonce of the address has not generated
	ErrInvalidNonce = errors.New("invalid nonce")
	// ErrInvalidSignature occured when a signature is invalid
	ErrInvalidSignature = errors.New("invalid signature")
)

type Repo interface {
	Get(c ctx.Ctx, address domain.Address) (*Account, error)
	Insert(c ctx.Ctx, account *Account) error
	Update(c ctx.Ctx, address domain.Address, updater *Updater) error
}

// Usecase is account usecase
type Usecase interface {
	Create(c ctx.Ctx, address domain.Address) (*Info, error)
	Get(c ctx.Ctx, address domain.Address) (*Info, error)
	GenerateNonce(c ctx.Ctx, address domain.Address) (int32, error)
	ValidateSignature(c ctx.Ctx, address domain.Address, signature string) error
	LinkTwitter(c ctx.Ctx, address domain.Address, handle string) error
	HasLinkedTwitter(c ctx.Ctx, address domain.Address) (bool, error)
}
