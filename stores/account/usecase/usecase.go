package usecase

import (
	"crypto/ed25519"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/mr-tron/base58"

	"github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/log"
	"github.com/rentable-xyz/goapi/base/ptr"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/account"
)

const (
	nonceRange   = int32(9999999)
	invalidNonce = int32(-1)
)

type AccountUseCaseCfg struct {
	Repo         account.Repo
	SignatureMsg string
}

type impl struct {
	repo         account.Repo
	signatureMsg string
}

// New creates account usecase
func New(cfg *AccountUseCaseCfg) account.Usecase {
	return &impl{
		repo:         cfg.Repo,
		signatureMsg: cfg.SignatureMsg,
	}
}

func (im *impl) Get(c ctx.Ctx, address domain.Address) (*account.Info, error) {
	a, err := im.repo.Get(c, address)
	if err != nil {
		if err != domain.ErrNotFound {
			c.WithFields(log.Fields{
				"address": address,
				"err":     err,
			}).Error("get address error")
		}
		return nil, err
	}
	return a.ToInfo(), nil
}

func (im *impl) Create(c ctx.Ctx, address domain.Address) (*account.Info, error) {
	c = ctx.WithValue(c, "address", address)
	now := time.Now()
	new := &account.Account{
		Address:   address,
		Nonce:     invalidNonce,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := im.repo.Insert(c, new); err != nil {
		c.WithField("err", err).Error("repo.Insert failed")
		return nil, err
	}
	return new.ToInfo(), nil
}

func (im *impl) GenerateNonce(c ctx.Ctx, address domain.Address) (int32, error) {
	c = ctx.WithValue(c, "address", address)
	if _, err := im.Get(c, address); err != nil && err != domain.ErrNotFound {
		c.WithField("err", err).Error("get account failed")
		return 0, err
	} else if err == domain.ErrNotFound {
		// if the account doesn't exist, create an empty account
		if _, err := im.Create(c, address); err != nil {
			c.WithField("err", err).Error("im.Create account failed")
			return 0, err
		}
		c.Info("created new account")
	}

	nonce := im.genNonce()
	if err := im.repo.Update(c, address, &account.Updater{
		Nonce: ptr.Int32(nonce),
	}); err != nil {
		c.WithField("err", err).Error("repo.Update failed")
		return 0, err
	}
	return nonce, nil
}

func (im *impl) genNonce() int32 {
	return rand.Int31n(nonceRange)
}

func (im *impl) makeMessageWithNonce(nonce string) []byte {
	return []byte(fmt.Sprintf(im.signatureMsg, nonce))
}

func (im *impl) ValidateSignature(c ctx.Ctx, address domain.Address, signature string) error {
	c = ctx.WithValues(c, map[string]interface{}{
		"address":   address,
		"signature": signature,
	})

	// get nonce and check is it valid
	a, err := im.repo.Get(c, address)
	if err != nil {
		c.WithField("err", err).Error("get address failed")
		return err
	}
	if a.Nonce == invalidNonce {
		return account.ErrInvalidNonce
	}

	// reset nonce after validated the signature
	defer im.repo.Update(c, address, &account.Updater{
		Nonce: ptr.Int32(invalidNonce),
	})

	pubkey, err := address.Bytes()
	if err != nil {
		c.WithField("err", err).Error("address.Bytes failed")
		return err
	}
	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return account.ErrInvalidSignature
	}

	msg := im.makeMessageWithNonce(strconv.Itoa(int(a.Nonce)))
	if !ed25519.Verify(ed25519.PublicKey(pubkey), msg, sig) {
		return account.ErrInvalidSignature
	}
	return nil
}

func (im *impl) LinkTwitter(c ctx.Ctx, address domain.Address, handle string) error {
	if err := im.repo.Update(c, address, &account.Updater{
		Twitter:   &handle,
		UpdatedAt: time.Now(),
	}); err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("repo.Update failed")
		return err
	}
	return nil
}

func (im *impl) HasLinkedTwitter(c ctx.Ctx, address domain.Address) (bool, error) {
	a, err := im.repo.Get(c, address)
	if err == domain.ErrNotFound {
		return false, nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("repo.Get failed")
		return false, err
	}
	return a.Twitter != "", nil
}
