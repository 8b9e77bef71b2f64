package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/delivery"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/rental"
	authMiddleware "github.com/rentable-xyz/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	rentalUC rental.UseCase
}

// New will initialize the rental endpoints
func New(e *echo.Echo, rentalUC rental.UseCase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{rentalUC}
	g := e.Group("/rentals")
	g.POST("/claim", h.claim, authMiddleware.Auth())
	g.POST("/revoke", h.revoke, authMiddleware.Auth())
}

// claim
//
//	@Summary		Claim a listing
//	@Description	Rents the listed token for the signed in wallet
//	@Tags			rental
//	@Accept			json
//	@Produce		json
//	@Param			params	body		http.claim.params	true	"params"
//	@Success		200		{object}	object{data=rental.Receipt}
//	@Failure		400
//	@Failure		409
//	@Failure		500
//	@Security		ApiKeyAuth
//	@Router			/rentals/claim [post]
func (h *handler) claim(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	wallet := c.Get("address").(domain.Address)

	type params struct {
		ProjectId           string         `json:"projectId" validate:"required"`
		TokenManager        domain.Address `json:"tokenManager" validate:"required,address"`
		SessionId           string         `json:"sessionId" validate:"required"`
		PaymentTokenBalance uint64         `json:"paymentTokenBalance"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	receipt, err := h.rentalUC.Claim(ctx, &rental.ClaimParams{
		ProjectId:           p.ProjectId,
		TokenManager:        p.TokenManager,
		Wallet:              wallet,
		SessionId:           p.SessionId,
		PaymentTokenBalance: p.PaymentTokenBalance,
	})

	rejection := &rental.ClaimRejection{}
	if errors.As(err, &rejection) {
		return delivery.MakeJsonResp(c, http.StatusConflict, rejection.Reason)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, receipt)
}

// revoke
//
//	@Summary		Revoke a listing
//	@Description	Invalidates the listing when the signed in wallet is allowed to
//	@Tags			rental
//	@Accept			json
//	@Produce		json
//	@Param			params	body		http.revoke.params	true	"params"
//	@Success		200		{object}	object{data=rental.Receipt}
//	@Failure		400
//	@Failure		500
//	@Security		ApiKeyAuth
//	@Router			/rentals/revoke [post]
func (h *handler) revoke(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	wallet := c.Get("address").(domain.Address)

	type params struct {
		TokenManager domain.Address `json:"tokenManager" validate:"required,address"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	receipt, err := h.rentalUC.Revoke(ctx, &rental.RevokeParams{
		TokenManager: p.TokenManager,
		Wallet:       wallet,
	})
	if err == domain.ErrListingNotRevocable {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	} else if err == domain.ErrNotFound {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, receipt)
}
