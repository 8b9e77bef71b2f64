package usecase

import (
	"sync"
	"time"

	bCtx "github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/log"
	"github.com/rentable-xyz/goapi/base/metrics"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/account"
	"github.com/rentable-xyz/goapi/domain/project"
	"github.com/rentable-xyz/goapi/domain/rental"
	"github.com/rentable-xyz/goapi/domain/tokenmanager"
)

const (
	reasonClaimInFlight   = "claim already in progress for this session"
	reasonTwitterRequired = "a linked twitter account is required to rent from this creator"
	reasonOnePerCreator   = "wallet already rents a token from this creator"
	reasonNotClaimable    = "token is not available to claim"
)

type RentalUseCaseCfg struct {
	TokenManagerRepo tokenmanager.Repo
	TokenSource      tokenmanager.Source
	ProjectRepo      project.Repo
	PaymentMintRepo  domain.PaymentMintRepo
	AccountUC        account.Usecase
	Transactions     rental.TransactionClient
	Metrics          metrics.Service
}

type rentalUseCase struct {
	tokenManagerRepo tokenmanager.Repo
	tokenSource      tokenmanager.Source
	projectRepo      project.Repo
	paymentMintRepo  domain.PaymentMintRepo
	accountUC        account.Usecase
	transactions     rental.TransactionClient
	met              metrics.Service
	timeNow          func() time.Time

	mu       sync.Mutex
	inFlight map[string]bool
}

func New(cfg *RentalUseCaseCfg) rental.UseCase {
	return &rentalUseCase{
		tokenManagerRepo: cfg.TokenManagerRepo,
		tokenSource:      cfg.TokenSource,
		projectRepo:      cfg.ProjectRepo,
		paymentMintRepo:  cfg.PaymentMintRepo,
		accountUC:        cfg.AccountUC,
		transactions:     cfg.Transactions,
		met:              cfg.Metrics,
		timeNow:          time.Now,
		inFlight:         map[string]bool{},
	}
}

// acquireSession marks the session as having a pending claim. A second
// claim for the same session is rejected, never queued.
func (u *rentalUseCase) acquireSession(sessionId string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.inFlight[sessionId] {
		return false
	}
	u.inFlight[sessionId] = true
	return true
}

func (u *rentalUseCase) releaseSession(sessionId string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.inFlight, sessionId)
}

func (u *rentalUseCase) Claim(c bCtx.Ctx, params *rental.ClaimParams) (*rental.Receipt, error) {
	defer u.met.BumpTime("claim.time", "project", params.ProjectId).End()

	td, err := u.tokenManagerRepo.FindOne(c, params.TokenManager)
	if err != nil {
		c.WithFields(log.Fields{
			"err":          err,
			"tokenManager": params.TokenManager,
		}).Error("tokenManagerRepo.FindOne failed")
		return nil, err
	}
	if td.TokenManager == nil || td.TokenManager.State != tokenmanager.StateIssued {
		return nil, &rental.ClaimRejection{Reason: reasonNotClaimable}
	}

	cfg, err := u.projectRepo.FindOne(c, params.ProjectId)
	if err == domain.ErrNotFound {
		cfg = project.DefaultConfig(params.ProjectId)
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"projectId": params.ProjectId,
		}).Error("projectRepo.FindOne failed")
		return nil, err
	}

	if rejection, err := u.checkCreatorRules(c, cfg, td, params); err != nil {
		return nil, err
	} else if rejection != nil {
		u.met.BumpSum("claim.rejected", 1, "project", params.ProjectId)
		return nil, rejection
	}

	if !u.acquireSession(params.SessionId) {
		u.met.BumpSum("claim.rejected", 1, "project", params.ProjectId)
		return nil, &rental.ClaimRejection{Reason: reasonClaimInFlight}
	}
	defer func() {
		u.releaseSession(params.SessionId)
		u.refetch(c, params.TokenManager)
	}()

	req := &rental.SubmitClaimRequest{
		TokenManager: params.TokenManager,
		Claimer:      params.Wallet,
	}
	if lamports, err := u.wrapLamports(c, td, params.PaymentTokenBalance); err != nil {
		return nil, err
	} else {
		req.WrapLamports = lamports
	}

	res, err := u.transactions.SubmitClaim(c, req)
	if err != nil {
		c.WithFields(log.Fields{
			"err":          err,
			"tokenManager": params.TokenManager,
		}).Error("transactions.SubmitClaim failed")
		return nil, err
	}

	return &rental.Receipt{
		TokenManager: params.TokenManager,
		TxSignature:  res.TxSignature,
	}, nil
}

// checkCreatorRules walks the configured creator rules in declared
// order and returns the first rejection
func (u *rentalUseCase) checkCreatorRules(c bCtx.Ctx, cfg *project.Config, td *tokenmanager.TokenData, params *rental.ClaimParams) (*rental.ClaimRejection, error) {
	for _, rule := range cfg.AllowOneByCreators {
		if !td.TokenManager.Issuer.Equals(rule.Address) {
			continue
		}

		if rule.PreventMultipleClaims {
			u.mu.Lock()
			pending := u.inFlight[params.SessionId]
			u.mu.Unlock()
			if pending {
				return &rental.ClaimRejection{Reason: reasonClaimInFlight}, nil
			}
		}

		if rule.EnforceTwitter {
			linked, err := u.accountUC.HasLinkedTwitter(c, params.Wallet)
			if err != nil {
				c.WithFields(log.Fields{
					"err":    err,
					"wallet": params.Wallet,
				}).Error("accountUC.HasLinkedTwitter failed")
				return nil, err
			}
			if !linked {
				return &rental.ClaimRejection{Reason: reasonTwitterRequired}, nil
			}
		}

		cnt, err := u.tokenManagerRepo.Count(c,
			tokenmanager.WithIssuer(rule.Address),
			tokenmanager.WithStates(tokenmanager.StateClaimed),
			tokenmanager.WithRecipientOwner(params.Wallet),
		)
		if err != nil {
			c.WithFields(log.Fields{
				"err":    err,
				"issuer": rule.Address,
			}).Error("tokenManagerRepo.Count failed")
			return nil, err
		}
		if cnt > 0 {
			return &rental.ClaimRejection{Reason: reasonOnePerCreator}, nil
		}
	}
	return nil, nil
}

// wrapLamports computes the native amount to wrap when paying with the
// wrapped native mint and the token balance falls short
func (u *rentalUseCase) wrapLamports(c bCtx.Ctx, td *tokenmanager.TokenData, balance uint64) (uint64, error) {
	if td.ClaimApprover == nil {
		return 0, nil
	}
	mint, err := u.paymentMintRepo.FindOne(c, td.ClaimApprover.PaymentMint)
	if err == domain.ErrNotFound {
		return 0, nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"mint": td.ClaimApprover.PaymentMint,
		}).Error("paymentMintRepo.FindOne failed")
		return 0, err
	}
	if !mint.IsWrappedNative || balance >= td.ClaimApprover.PaymentAmount {
		return 0, nil
	}
	return td.ClaimApprover.PaymentAmount - balance, nil
}

// refetch pulls the freshest snapshot after a submit attempt so a failed
// transaction cannot leave a stale claimable listing behind
func (u *rentalUseCase) refetch(c bCtx.Ctx, tokenManager domain.Address) {
	td, err := u.tokenSource.Fetch(c, tokenManager)
	if err != nil {
		c.WithFields(log.Fields{
			"err":          err,
			"tokenManager": tokenManager,
		}).Warn("tokenSource.Fetch failed")
		return
	}
	if err := u.tokenManagerRepo.Upsert(c, td); err != nil {
		c.WithFields(log.Fields{
			"err":          err,
			"tokenManager": tokenManager,
		}).Warn("tokenManagerRepo.Upsert failed")
	}
}

func (u *rentalUseCase) Revoke(c bCtx.Ctx, params *rental.RevokeParams) (*rental.Receipt, error) {
	defer u.met.BumpTime("revoke.time").End()

	td, err := u.tokenManagerRepo.FindOne(c, params.TokenManager)
	if err != nil {
		c.WithFields(log.Fields{
			"err":          err,
			"tokenManager": params.TokenManager,
		}).Error("tokenManagerRepo.FindOne failed")
		return nil, err
	}

	if !u.canRevoke(td, params.Wallet) {
		return nil, domain.ErrListingNotRevocable
	}

	defer u.refetch(c, params.TokenManager)

	res, err := u.transactions.SubmitRevoke(c, &rental.SubmitRevokeRequest{
		TokenManager: params.TokenManager,
		Revoker:      params.Wallet,
	})
	if err != nil {
		c.WithFields(log.Fields{
			"err":          err,
			"tokenManager": params.TokenManager,
		}).Error("transactions.SubmitRevoke failed")
		return nil, err
	}

	return &rental.Receipt{
		TokenManager: params.TokenManager,
		TxSignature:  res.TxSignature,
	}, nil
}

// canRevoke permits the issuer at any time, and anyone once the time or
// usage terms have run out
func (u *rentalUseCase) canRevoke(td *tokenmanager.TokenData, wallet domain.Address) bool {
	if td.TokenManager == nil {
		return false
	}
	if td.TokenManager.Issuer.Equals(wallet) {
		return true
	}
	if td.ShouldTimeInvalidate(u.timeNow()) {
		return true
	}
	return td.ShouldUseInvalidate()
}
