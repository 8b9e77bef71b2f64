package domain

import (
	"github.com/rentable-xyz/goapi/base/ctx"
)

// PaymentMint is an spl token accepted as rental payment
type PaymentMint struct {
	Mint            Address `bson:"mint" json:"mint"`
	Name            string  `bson:"name" json:"name"`
	Symbol          string  `bson:"symbol" json:"symbol"`
	Decimals        int32   `bson:"decimals" json:"decimals"`
	IsWrappedNative bool    `bson:"isWrappedNative" json:"isWrappedNative"`
}

type PaymentMintId struct {
	Mint Address `bson:"mint"`
}

func (m *PaymentMint) ToId() *PaymentMintId {
	return &PaymentMintId{
		Mint: m.Mint,
	}
}

type PaymentMintRepo interface {
	FindOne(ctx.Ctx, Address) (*PaymentMint, error)
	FindAll(ctx.Ctx) ([]*PaymentMint, error)
	Upsert(ctx.Ctx, *PaymentMint) error
}
