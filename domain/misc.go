package domain

import (
	"github.com/mr-tron/base58"
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

// Address is a base58 encoded solana account address
type Address string

// WrappedSolMint is the mint address of the wrapped native token
const WrappedSolMint = Address("So11111111111111111111111111111111111111112")

const EmptyAddress = Address("")

func (a Address) String() string {
	return string(a)
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return string(a) == string(b)
}

func (a Address) Ptr() *Address {
	res := a
	return &res
}

// IsValid reports whether the address decodes to a 32 byte public key
func (a Address) IsValid() bool {
	raw, err := base58.Decode(string(a))
	if err != nil {
		return false
	}
	return len(raw) == 32
}

// Bytes decodes the address into its raw public key form
func (a Address) Bytes() ([]byte, error) {
	raw, err := base58.Decode(string(a))
	if err != nil {
		return nil, ErrInvalidAddress
	}
	if len(raw) != 32 {
		return nil, ErrInvalidAddress
	}
	return raw, nil
}
