package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/delivery"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/tokenmanager"
)

type handler struct {
	tokenManagerRepo tokenmanager.Repo
}

func New(e *echo.Echo, tokenManagerRepo tokenmanager.Repo) {
	h := &handler{tokenManagerRepo}
	g := e.Group("/tokenManagers")
	g.GET("", h.find)
	g.GET("/:address", h.get)
}

// find
//
//	@Summary		List token managers
//	@Description	Token manager snapshots filtered by state and project
//	@Tags			tokenmanager
//	@Accept			json
//	@Produce		json
//	@Param			state		query	int		false	"token manager state"
//	@Param			projectId	query	string	false	"project id"
//	@Success		200	{object}	object{data=[]tokenmanager.TokenData}
//	@Failure		400
//	@Failure		500
//	@Router			/tokenManagers [get]
func (h *handler) find(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		State     *tokenmanager.State `query:"state"`
		ProjectId string              `query:"projectId"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []tokenmanager.FindAllOptionsFunc{}
	if p.State != nil {
		if !p.State.IsValid() {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		opts = append(opts, tokenmanager.WithStates(*p.State))
	}
	if p.ProjectId != "" {
		opts = append(opts, tokenmanager.WithProjectId(p.ProjectId))
	}

	res, err := h.tokenManagerRepo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("tokenManagerRepo.FindAll failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// get
//
//	@Summary		Get token manager
//	@Description	One token manager snapshot by address
//	@Tags			tokenmanager
//	@Accept			json
//	@Produce		json
//	@Param			address	path	string	true	"token manager address"
//	@Success		200	{object}	object{data=tokenmanager.TokenData}
//	@Failure		404
//	@Failure		500
//	@Router			/tokenManagers/{address} [get]
func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Address domain.Address `param:"address"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.tokenManagerRepo.FindOne(ctx, p.Address)
	if err == domain.ErrNotFound {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	} else if err != nil {
		ctx.WithField("err", err).Error("tokenManagerRepo.FindOne failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
