package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/delivery"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/account"
	"github.com/rentable-xyz/goapi/middleware"
	authMiddleware "github.com/rentable-xyz/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	au account.Usecase
}

// New will initialize the account endpoints
func New(e *echo.Echo, au account.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{au}
	g := e.Group("/account")
	g.GET("/:account", h.getAccount, middleware.IsValidAddress("account"))
	g.POST("/:account/nonce", h.generateNonce, middleware.IsValidAddress("account"))

	// self
	g.POST("/twitter", h.linkTwitter, authMiddleware.Auth())
}

// getAccount
//
//	@Summary		Get account
//	@Description	Public profile of a wallet account
//	@Tags			account
//	@Accept			json
//	@Produce		json
//	@Param			account	path	string	true	"account address"
//	@Success		200	{object}	object{data=account.Info}
//	@Failure		404
//	@Failure		500
//	@Router			/account/{account} [get]
func (h *handler) getAccount(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := domain.Address(c.Param("account"))
	info, err := h.au.Get(ctx, address)
	if err == domain.ErrNotFound {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, info)
}

// generateNonce
//
//	@Summary		Generate signing nonce
//	@Description	Generates the one time nonce to embed into the signing message
//	@Tags			account
//	@Accept			json
//	@Produce		json
//	@Param			account	path	string	true	"account address"
//	@Success		201	{object}	object{data=int32}
//	@Failure		500
//	@Router			/account/{account}/nonce [post]
func (h *handler) generateNonce(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := domain.Address(c.Param("account"))
	nonce, err := h.au.GenerateNonce(ctx, address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, nonce)
}

// linkTwitter
//
//	@Summary		Link twitter handle
//	@Description	Stores the twitter handle of the signed in wallet
//	@Tags			account
//	@Accept			json
//	@Produce		json
//	@Param			params	body	http.linkTwitter.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Security		ApiKeyAuth
//	@Router			/account/twitter [post]
func (h *handler) linkTwitter(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	address := c.Get("address").(domain.Address)

	type params struct {
		Handle string `json:"handle" validate:"required"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.au.LinkTwitter(ctx, address, p.Handle); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
