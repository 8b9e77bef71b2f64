package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/delivery"
	"github.com/rentable-xyz/goapi/domain/statistic"
	"github.com/rentable-xyz/goapi/middleware"
	authMiddleware "github.com/rentable-xyz/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	statisticUC statistic.UseCase
}

func New(e *echo.Echo, statisticUC statistic.UseCase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{statisticUC}
	g := e.Group("/projects")
	g.GET("/:projectId/stats", h.getProjectStats, middleware.CacheHttp(1*time.Minute))
	g.POST("/:projectId/stats/refresh", h.refreshProjectStats, authMiddleware.Auth(), authMiddleware.IsAdmin())
}

// getProjectStats
//
//	@Summary		Get project rental stats
//	@Description	All time rental count, rented seconds and volume of a project
//	@Tags			statistic
//	@Accept			json
//	@Produce		json
//	@Param			projectId	path	string	true	"project id"
//	@Success		200	{object}	object{data=statistic.ProjectStats}
//	@Failure		500
//	@Router			/projects/{projectId}/stats [get]
func (h *handler) getProjectStats(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	stats, err := h.statisticUC.Get(ctx, c.Param("projectId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, stats)
}

// refreshProjectStats
//
//	@Summary		Refresh project rental stats
//	@Description	Recomputes the stats from the current listing snapshots
//	@Tags			statistic
//	@Accept			json
//	@Produce		json
//	@Param			projectId	path	string	true	"project id"
//	@Success		200
//	@Failure		500
//	@Security		ApiKeyAuth
//	@Router			/projects/{projectId}/stats/refresh [post]
func (h *handler) refreshProjectStats(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if err := h.statisticUC.Refresh(ctx, c.Param("projectId")); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
