package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	bCtx "github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/metrics"
	"github.com/rentable-xyz/goapi/base/ptr"
	"github.com/rentable-xyz/goapi/domain"
	mAccount "github.com/rentable-xyz/goapi/domain/account/mocks"
	mDomain "github.com/rentable-xyz/goapi/domain/mocks"
	"github.com/rentable-xyz/goapi/domain/project"
	mProject "github.com/rentable-xyz/goapi/domain/project/mocks"
	"github.com/rentable-xyz/goapi/domain/rental"
	mRental "github.com/rentable-xyz/goapi/domain/rental/mocks"
	"github.com/rentable-xyz/goapi/domain/tokenmanager"
	mTokenManager "github.com/rentable-xyz/goapi/domain/tokenmanager/mocks"
)

var (
	mockCtx = bCtx.Background()

	issuer       = domain.Address("issuer-address")
	wallet       = domain.Address("wallet-address")
	tokenAddress = domain.Address("token-manager-address")
	solMint      = domain.WrappedSolMint
)

type testEnv struct {
	uc               *rentalUseCase
	tokenManagerRepo *mTokenManager.Repo
	tokenSource      *mTokenManager.Source
	projectRepo      *mProject.Repo
	paymentMintRepo  *mDomain.PaymentMintRepo
	accountUC        *mAccount.Usecase
	transactions     *mRental.TransactionClient
}

func newTestEnv() *testEnv {
	env := &testEnv{
		tokenManagerRepo: &mTokenManager.Repo{},
		tokenSource:      &mTokenManager.Source{},
		projectRepo:      &mProject.Repo{},
		paymentMintRepo:  &mDomain.PaymentMintRepo{},
		accountUC:        &mAccount.Usecase{},
		transactions:     &mRental.TransactionClient{},
	}
	env.uc = New(&RentalUseCaseCfg{
		TokenManagerRepo: env.tokenManagerRepo,
		TokenSource:      env.tokenSource,
		ProjectRepo:      env.projectRepo,
		PaymentMintRepo:  env.paymentMintRepo,
		AccountUC:        env.accountUC,
		Transactions:     env.transactions,
		Metrics:          metrics.New("test"),
	}).(*rentalUseCase)
	return env
}

func issuedToken() *tokenmanager.TokenData {
	return &tokenmanager.TokenData{
		TokenManager: &tokenmanager.TokenManager{
			Address:   tokenAddress,
			ProjectId: "proj",
			State:     tokenmanager.StateIssued,
			Issuer:    issuer,
		},
		ClaimApprover: &tokenmanager.ClaimApprover{
			PaymentMint:   solMint,
			PaymentAmount: 1_000_000_000,
		},
	}
}

func claimParams() *rental.ClaimParams {
	return &rental.ClaimParams{
		ProjectId:           "proj",
		TokenManager:        tokenAddress,
		Wallet:              wallet,
		SessionId:           "session-1",
		PaymentTokenBalance: 2_000_000_000,
	}
}

func expectRefetch(env *testEnv, td *tokenmanager.TokenData) {
	env.tokenSource.On("Fetch", mock.Anything, tokenAddress).Return(td, nil)
	env.tokenManagerRepo.On("Upsert", mock.Anything, td).Return(nil)
}

func TestClaim(t *testing.T) {
	env := newTestEnv()
	td := issuedToken()

	env.tokenManagerRepo.On("FindOne", mock.Anything, tokenAddress).Return(td, nil)
	env.projectRepo.On("FindOne", mock.Anything, "proj").Return(nil, domain.ErrNotFound)
	env.paymentMintRepo.On("FindOne", mock.Anything, solMint).
		Return(&domain.PaymentMint{Mint: solMint, Decimals: 9, IsWrappedNative: true}, nil)
	env.transactions.On("SubmitClaim", mock.Anything, &rental.SubmitClaimRequest{
		TokenManager: tokenAddress,
		Claimer:      wallet,
	}).Return(&rental.SubmitResult{TxSignature: "sig"}, nil)
	expectRefetch(env, td)

	receipt, err := env.uc.Claim(mockCtx, claimParams())
	assert.NoError(t, err)
	assert.Equal(t, &rental.Receipt{TokenManager: tokenAddress, TxSignature: "sig"}, receipt)
	env.tokenSource.AssertCalled(t, "Fetch", mock.Anything, tokenAddress)
	env.tokenManagerRepo.AssertCalled(t, "Upsert", mock.Anything, td)
}

func TestClaimWrapsShortBalance(t *testing.T) {
	env := newTestEnv()
	td := issuedToken()

	env.tokenManagerRepo.On("FindOne", mock.Anything, tokenAddress).Return(td, nil)
	env.projectRepo.On("FindOne", mock.Anything, "proj").Return(nil, domain.ErrNotFound)
	env.paymentMintRepo.On("FindOne", mock.Anything, solMint).
		Return(&domain.PaymentMint{Mint: solMint, Decimals: 9, IsWrappedNative: true}, nil)
	env.transactions.On("SubmitClaim", mock.Anything, &rental.SubmitClaimRequest{
		TokenManager: tokenAddress,
		Claimer:      wallet,
		WrapLamports: 400_000_000,
	}).Return(&rental.SubmitResult{TxSignature: "sig"}, nil)
	expectRefetch(env, td)

	params := claimParams()
	params.PaymentTokenBalance = 600_000_000

	_, err := env.uc.Claim(mockCtx, params)
	assert.NoError(t, err)
	env.transactions.AssertExpectations(t)
}

func TestClaimRejectsNotClaimable(t *testing.T) {
	env := newTestEnv()
	td := issuedToken()
	td.TokenManager.State = tokenmanager.StateClaimed

	env.tokenManagerRepo.On("FindOne", mock.Anything, tokenAddress).Return(td, nil)

	_, err := env.uc.Claim(mockCtx, claimParams())
	rejection := &rental.ClaimRejection{}
	assert.ErrorAs(t, err, &rejection)
	env.transactions.AssertNotCalled(t, "SubmitClaim", mock.Anything, mock.Anything)
}

func TestClaimGateTwitterRequired(t *testing.T) {
	env := newTestEnv()
	td := issuedToken()

	cfg := project.DefaultConfig("proj")
	cfg.AllowOneByCreators = []project.CreatorRule{
		{Address: issuer, EnforceTwitter: true},
	}

	env.tokenManagerRepo.On("FindOne", mock.Anything, tokenAddress).Return(td, nil)
	env.projectRepo.On("FindOne", mock.Anything, "proj").Return(cfg, nil)
	env.accountUC.On("HasLinkedTwitter", mock.Anything, wallet).Return(false, nil)

	_, err := env.uc.Claim(mockCtx, claimParams())
	rejection := &rental.ClaimRejection{}
	assert.ErrorAs(t, err, &rejection)
	assert.Equal(t, reasonTwitterRequired, rejection.Reason)
	env.transactions.AssertNotCalled(t, "SubmitClaim", mock.Anything, mock.Anything)
	env.tokenSource.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestClaimGateOnePerCreator(t *testing.T) {
	env := newTestEnv()
	td := issuedToken()

	cfg := project.DefaultConfig("proj")
	cfg.AllowOneByCreators = []project.CreatorRule{
		{Address: issuer, PreventMultipleClaims: true},
	}

	env.tokenManagerRepo.On("FindOne", mock.Anything, tokenAddress).Return(td, nil)
	env.projectRepo.On("FindOne", mock.Anything, "proj").Return(cfg, nil)
	env.tokenManagerRepo.On("Count", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(1, nil)

	_, err := env.uc.Claim(mockCtx, claimParams())
	rejection := &rental.ClaimRejection{}
	assert.ErrorAs(t, err, &rejection)
	assert.Equal(t, reasonOnePerCreator, rejection.Reason)
	env.transactions.AssertNotCalled(t, "SubmitClaim", mock.Anything, mock.Anything)
}

func TestClaimRejectsInFlightSession(t *testing.T) {
	env := newTestEnv()
	td := issuedToken()

	env.tokenManagerRepo.On("FindOne", mock.Anything, tokenAddress).Return(td, nil)
	env.projectRepo.On("FindOne", mock.Anything, "proj").Return(nil, domain.ErrNotFound)

	assert.True(t, env.uc.acquireSession("session-1"))

	_, err := env.uc.Claim(mockCtx, claimParams())
	rejection := &rental.ClaimRejection{}
	assert.ErrorAs(t, err, &rejection)
	assert.Equal(t, reasonClaimInFlight, rejection.Reason)
	env.transactions.AssertNotCalled(t, "SubmitClaim", mock.Anything, mock.Anything)
}

func TestClaimRefetchesAfterFailure(t *testing.T) {
	env := newTestEnv()
	td := issuedToken()

	env.tokenManagerRepo.On("FindOne", mock.Anything, tokenAddress).Return(td, nil)
	env.projectRepo.On("FindOne", mock.Anything, "proj").Return(nil, domain.ErrNotFound)
	env.paymentMintRepo.On("FindOne", mock.Anything, solMint).
		Return(&domain.PaymentMint{Mint: solMint, Decimals: 9, IsWrappedNative: true}, nil)
	env.transactions.On("SubmitClaim", mock.Anything, mock.Anything).
		Return(nil, errors.New("transaction failed"))
	expectRefetch(env, td)

	_, err := env.uc.Claim(mockCtx, claimParams())
	assert.Error(t, err)
	env.tokenSource.AssertCalled(t, "Fetch", mock.Anything, tokenAddress)
	env.tokenManagerRepo.AssertCalled(t, "Upsert", mock.Anything, td)

	// session is released, the next attempt reaches the client again
	env.transactions.AssertNumberOfCalls(t, "SubmitClaim", 1)
	_, err = env.uc.Claim(mockCtx, claimParams())
	assert.Error(t, err)
	env.transactions.AssertNumberOfCalls(t, "SubmitClaim", 2)
}

func TestRevoke(t *testing.T) {
	expired := int64(100)

	cases := []struct {
		name    string
		mutate  func(td *tokenmanager.TokenData)
		wallet  domain.Address
		wantErr error
	}{
		{
			name:   "issuer can always revoke",
			mutate: func(td *tokenmanager.TokenData) {},
			wallet: issuer,
		},
		{
			name:    "stranger cannot revoke a live listing",
			mutate:  func(td *tokenmanager.TokenData) {},
			wallet:  wallet,
			wantErr: domain.ErrListingNotRevocable,
		},
		{
			name: "anyone can revoke past max expiration",
			mutate: func(td *tokenmanager.TokenData) {
				td.TimeInvalidator = &tokenmanager.TimeInvalidator{MaxExpiration: &expired}
			},
			wallet: wallet,
		},
		{
			name: "anyone can revoke an exhausted use allowance",
			mutate: func(td *tokenmanager.TokenData) {
				td.UseInvalidator = &tokenmanager.UseInvalidator{Usages: 3, MaxUsages: ptr.Uint64(3)}
			},
			wallet: wallet,
		},
	}

	for _, c := range cases {
		env := newTestEnv()
		env.uc.timeNow = func() time.Time { return time.Unix(1_000_000, 0) }

		td := issuedToken()
		c.mutate(td)

		env.tokenManagerRepo.On("FindOne", mock.Anything, tokenAddress).Return(td, nil)
		env.transactions.On("SubmitRevoke", mock.Anything, &rental.SubmitRevokeRequest{
			TokenManager: tokenAddress,
			Revoker:      c.wallet,
		}).Return(&rental.SubmitResult{TxSignature: "sig"}, nil)
		expectRefetch(env, td)

		receipt, err := env.uc.Revoke(mockCtx, &rental.RevokeParams{
			TokenManager: tokenAddress,
			Wallet:       c.wallet,
		})
		if c.wantErr != nil {
			assert.Equal(t, c.wantErr, err, c.name)
			env.transactions.AssertNotCalled(t, "SubmitRevoke", mock.Anything, mock.Anything)
		} else {
			assert.NoError(t, err, c.name)
			assert.Equal(t, "sig", receipt.TxSignature, c.name)
		}
	}
}
