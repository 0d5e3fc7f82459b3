package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"condy-http-service/internal/domain/services"
	"condy-http-service/internal/domain/services/container"
	"condy-http-service/internal/error/code"
	"condy-http-service/internal/error/response"
)

// CondoSearchController handles condo discovery for the mobile apps.
type CondoSearchController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCondoSearchController creates a new condo search controller.
func NewCondoSearchController(ctx *gin.Context, container *container.ServiceContainer) *CondoSearchController {
	return &CondoSearchController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleCondoSearchFunc returns a gin handler dispatching to the condo
// search controller.
func HandleCondoSearchFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCondoSearchController(ctx, container)

		switch method {
		case "search":
			controller.Search()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// Search resolves a free-text query into ranked condo candidates
// @Summary Search condos
// @Description Merges the local registry with the external places index. Candidates with in_local_registry=false are informational only and cannot be used as request targets.
// @Tags CondoSearch
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param q query string true "Free-text query"
// @Param lat query number false "User latitude"
// @Param lng query number false "User longitude"
// @Param filter query string false "all, nearby or recent"
// @Param search_type query string false "all, name, address or id"
// @Param max query int false "Maximum results"
// @Param include_inactive query bool false "Include inactive condos"
// @Success 200 {object} map[string]interface{}
// @Router /condos/search [get]
func (c *CondoSearchController) Search() {
	claims, ok := currentClaims(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx)
		return
	}

	query := c.Ctx.Query("q")

	opts := services.ResolveOptions{
		FilterType: c.Ctx.DefaultQuery("filter", services.FilterAll),
		SearchType: c.Ctx.DefaultQuery("search_type", services.SearchAll),
		UserID:     claims.UserID,
	}

	if raw := c.Ctx.Query("max"); raw != "" {
		if max, err := strconv.Atoi(raw); err == nil && max > 0 {
			opts.MaxResults = max
		}
	}
	if raw := c.Ctx.Query("include_inactive"); raw != "" {
		if include, err := strconv.ParseBool(raw); err == nil {
			opts.IncludeInactive = include
		}
	}

	latRaw, lngRaw := c.Ctx.Query("lat"), c.Ctx.Query("lng")
	if latRaw != "" && lngRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lng, lngErr := strconv.ParseFloat(lngRaw, 64)
		if latErr != nil || lngErr != nil {
			response.ParamError(c.Ctx, "invalid lat/lng")
			return
		}
		opts.UserLocation = &services.GeoPoint{Latitude: lat, Longitude: lng}
	}

	resolver := c.Container.GetService("condo_resolver").(services.InterfaceCondoResolverService)
	candidates, err := resolver.Resolve(query, opts)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "condo search failed: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total": len(candidates),
		"data":  candidates,
	})
}
