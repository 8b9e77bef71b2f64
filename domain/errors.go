package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput            = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat      = errors.New("invalid number format")
	ErrInvalidOrderCategory     = errors.New("invalid order category")
	ErrInvalidDurationBounds    = errors.New("invalid duration bounds")
	ErrUnknownProject           = errors.New("unknown project")
	ErrUnknownPaymentMint       = errors.New("unknown payment mint")
	ErrListingNotClaimable      = errors.New("listing is not claimable")
	ErrListingNotRevocable      = errors.New("listing is not revocable")
	ErrTransactionFailed        = errors.New("transaction failed")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")

	ErrDeprecated     = errors.New("deprecated")
	ErrNotImplemented = errors.New("not implemented")
)
