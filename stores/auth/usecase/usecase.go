package usecase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/account"
)

const tokenTTL = 24 * time.Hour

type authUseCase struct {
	jwtSecret []byte
	account   account.Usecase
}

func New(jwtSecret string, account account.Usecase) domain.AuthUsecase {
	return &authUseCase{
		jwtSecret: []byte(jwtSecret),
		account:   account,
	}
}

// SignToken issues a jwt for a wallet that passed signature validation,
// creating the account record on first sign-in.
func (u *authUseCase) SignToken(c ctx.Ctx, address domain.Address) (string, error) {
	if _, err := u.account.Get(c, address); err == domain.ErrNotFound {
		if _, err := u.account.Create(c, address); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	claims := domain.JwtCustomClaims{
		Address: string(address),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenTTL).Unix(),
		},
	}

	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.jwtSecret)
	if err != nil {
		c.WithField("err", err).Error("token.SignedString failed")
		return "", err
	}
	return ss, nil
}

func (u *authUseCase) ParseToken(c ctx.Ctx, str string) (string, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return u.jwtSecret, nil
	})
	// malformed input yields a nil token alongside the error
	if err != nil || token == nil {
		return "", err
	}

	if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid {
		return claims.Address, nil
	}
	return "", err
}
