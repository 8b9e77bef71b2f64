package usecase

import (
	"crypto/ed25519"
	"fmt"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	bCtx "github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/ptr"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/account"
	mAccount "github.com/rentable-xyz/goapi/domain/account/mocks"
)

const testSignatureMsg = "Sign to prove wallet ownership. Nonce: %s"

func newTestUsecase(repo *mAccount.Repo) *impl {
	return New(&AccountUseCaseCfg{
		Repo:         repo,
		SignatureMsg: testSignatureMsg,
	}).(*impl)
}

func TestGenerateNonceCreatesMissingAccount(t *testing.T) {
	mockCtx := bCtx.Background()
	repo := &mAccount.Repo{}
	im := newTestUsecase(repo)

	address := domain.Address("wallet-1")
	repo.On("Get", mock.Anything, address).Return(nil, domain.ErrNotFound).Once()
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("Update", mock.Anything, address, mock.Anything).Return(nil).Once()

	nonce, err := im.GenerateNonce(mockCtx, address)
	assert.NoError(t, err)
	assert.True(t, nonce >= 0 && nonce < nonceRange)
	repo.AssertExpectations(t)
}

func TestGenerateNonceExistingAccount(t *testing.T) {
	mockCtx := bCtx.Background()
	repo := &mAccount.Repo{}
	im := newTestUsecase(repo)

	address := domain.Address("wallet-1")
	repo.On("Get", mock.Anything, address).Return(&account.Account{Address: address, Nonce: invalidNonce}, nil).Once()
	repo.On("Update", mock.Anything, address, mock.Anything).Return(nil).Once()

	_, err := im.GenerateNonce(mockCtx, address)
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestValidateSignature(t *testing.T) {
	mockCtx := bCtx.Background()

	pub, priv, err := ed25519.GenerateKey(nil)
	assert.NoError(t, err)
	address := domain.Address(base58.Encode(pub))
	nonce := int32(42)
	sig := ed25519.Sign(priv, []byte(fmt.Sprintf(testSignatureMsg, "42")))

	repo := &mAccount.Repo{}
	im := newTestUsecase(repo)
	repo.On("Get", mock.Anything, address).Return(&account.Account{Address: address, Nonce: nonce}, nil).Once()
	repo.On("Update", mock.Anything, address, &account.Updater{Nonce: ptr.Int32(invalidNonce)}).Return(nil).Once()

	err = im.ValidateSignature(mockCtx, address, base58.Encode(sig))
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestValidateSignatureWrongKey(t *testing.T) {
	mockCtx := bCtx.Background()

	pub, _, err := ed25519.GenerateKey(nil)
	assert.NoError(t, err)
	_, otherPriv, err := ed25519.GenerateKey(nil)
	assert.NoError(t, err)
	address := domain.Address(base58.Encode(pub))
	sig := ed25519.Sign(otherPriv, []byte(fmt.Sprintf(testSignatureMsg, "42")))

	repo := &mAccount.Repo{}
	im := newTestUsecase(repo)
	repo.On("Get", mock.Anything, address).Return(&account.Account{Address: address, Nonce: 42}, nil).Once()
	repo.On("Update", mock.Anything, address, mock.Anything).Return(nil).Once()

	err = im.ValidateSignature(mockCtx, address, base58.Encode(sig))
	assert.Equal(t, account.ErrInvalidSignature, err)
	// nonce still burned after a failed validation
	repo.AssertExpectations(t)
}

func TestValidateSignatureWithoutNonce(t *testing.T) {
	mockCtx := bCtx.Background()

	repo := &mAccount.Repo{}
	im := newTestUsecase(repo)
	address := domain.Address("wallet-1")
	repo.On("Get", mock.Anything, address).Return(&account.Account{Address: address, Nonce: invalidNonce}, nil).Once()

	err := im.ValidateSignature(mockCtx, address, "sig")
	assert.Equal(t, account.ErrInvalidNonce, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestHasLinkedTwitter(t *testing.T) {
	mockCtx := bCtx.Background()

	cases := []struct {
		name    string
		account *account.Account
		err     error
		want    bool
	}{
		{"linked", &account.Account{Twitter: "builder"}, nil, true},
		{"not linked", &account.Account{}, nil, false},
		{"missing account", nil, domain.ErrNotFound, false},
	}
	for _, c := range cases {
		repo := &mAccount.Repo{}
		im := newTestUsecase(repo)
		address := domain.Address("wallet-1")
		repo.On("Get", mock.Anything, address).Return(c.account, c.err).Once()

		got, err := im.HasLinkedTwitter(mockCtx, address)
		assert.NoError(t, err, c.name)
		assert.Equal(t, c.want, got, c.name)
	}
}

func TestLinkTwitter(t *testing.T) {
	mockCtx := bCtx.Background()

	repo := &mAccount.Repo{}
	im := newTestUsecase(repo)
	address := domain.Address("wallet-1")
	repo.On("Update", mock.Anything, address, mock.MatchedBy(func(u *account.Updater) bool {
		return u.Twitter != nil && *u.Twitter == "builder" && !u.UpdatedAt.IsZero()
	})).Return(nil).Once()

	err := im.LinkTwitter(mockCtx, address, "builder")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
