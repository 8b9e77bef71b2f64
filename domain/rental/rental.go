package rental

import (
	"github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/domain"
)

// ClaimRejection carries a user facing reason for a refused claim.
// It is returned before any transaction is submitted.
type ClaimRejection struct {
	Reason string
}

func (e *ClaimRejection) Error() string {
	return e.Reason
}

type ClaimParams struct {
	ProjectId           string         `json:"projectId"`
	TokenManager        domain.Address `json:"tokenManager"`
	Wallet              domain.Address `json:"wallet"`
	SessionId           string         `json:"sessionId"`
	PaymentTokenBalance uint64         `json:"paymentTokenBalance"`
}

type RevokeParams struct {
	TokenManager domain.Address `json:"tokenManager"`
	Wallet       domain.Address `json:"wallet"`
}

// Receipt is returned once the transaction is confirmed
type Receipt struct {
	TokenManager domain.Address `json:"tokenManager"`
	TxSignature  string         `json:"txSignature"`
}

type SubmitClaimRequest struct {
	TokenManager domain.Address `json:"tokenManager"`
	Claimer      domain.Address `json:"claimer"`
	// WrapLamports is the native amount to wrap before paying with the
	// wrapped native mint. Zero skips the wrap pre step.
	WrapLamports uint64 `json:"wrapLamports,omitempty"`
}

type SubmitRevokeRequest struct {
	TokenManager domain.Address `json:"tokenManager"`
	Revoker      domain.Address `json:"revoker"`
}

type SubmitResult struct {
	TxSignature string `json:"txSignature"`
}

// TransactionClient builds, signs for relay, and confirms the rental
// transactions through the transaction service
type TransactionClient interface {
	SubmitClaim(ctx.Ctx, *SubmitClaimRequest) (*SubmitResult, error)
	SubmitRevoke(ctx.Ctx, *SubmitRevokeRequest) (*SubmitResult, error)
}

type UseCase interface {
	Claim(ctx.Ctx, *ClaimParams) (*Receipt, error)
	Revoke(ctx.Ctx, *RevokeParams) (*Receipt, error)
}
