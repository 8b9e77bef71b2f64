package http

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/delivery"
	"github.com/rentable-xyz/goapi/domain/marketplace"
	"github.com/rentable-xyz/goapi/middleware"
)

type handler struct {
	marketplace marketplace.UseCase
}

func New(e *echo.Echo, marketplaceUC marketplace.UseCase) {
	h := &handler{marketplaceUC}
	g := e.Group("/projects")
	g.GET("/:projectId/browse", h.browse, middleware.CacheHttp(10*time.Second))
}

// browse
//
//	@Summary		Browse project listings
//	@Description	Computed browse view: grouped sections, filtered and sorted listings, floor price and trait vocabulary
//	@Tags			marketplace
//	@Accept			json
//	@Produce		json
//	@Param			projectId		path	string		true	"project id"
//	@Param			orderCategory	query	string		false	"order category"
//	@Param			durationMin		query	number		false	"min duration in seconds"
//	@Param			durationMax		query	number		false	"max duration in seconds, unbounded when omitted"
//	@Param			attribute		query	[]string	false	"trait:value pair, repeatable"
//	@Success		200	{object}	object{data=marketplace.BrowseView}
//	@Failure		500
//	@Router			/projects/{projectId}/browse [get]
func (h *handler) browse(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		ProjectId     string   `param:"projectId"`
		OrderCategory string   `query:"orderCategory"`
		DurationMin   *float64 `query:"durationMin"`
		DurationMax   *float64 `query:"durationMax"`
		Attributes    []string `query:"attribute"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	state := marketplace.DefaultFilterState()
	if p.OrderCategory != "" {
		state = state.WithOrderCategory(p.OrderCategory)
	}
	if p.DurationMin != nil || p.DurationMax != nil {
		min := float64(0)
		max := math.Inf(1)
		if p.DurationMin != nil {
			min = *p.DurationMin
		}
		if p.DurationMax != nil {
			max = *p.DurationMax
		}
		state = state.WithDurationBounds(min, max)
	}
	for _, attr := range p.Attributes {
		if pair := strings.SplitN(attr, ":", 2); len(pair) == 2 {
			state = state.WithFilter(pair[0], pair[1], true)
		}
	}

	view, err := h.marketplace.Browse(ctx, p.ProjectId, state)
	if err != nil {
		ctx.WithField("err", err).Error("marketplace.Browse failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, view)
}
