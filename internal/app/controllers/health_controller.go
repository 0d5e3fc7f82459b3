package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"condy-http-service/internal/app/middleware"
	"condy-http-service/internal/domain/services"
	"condy-http-service/internal/domain/services/container"
	"condy-http-service/internal/error/code"
	"condy-http-service/internal/error/response"
)

// HealthController handles health probes.
type HealthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHealthController creates a new health controller.
func NewHealthController(ctx *gin.Context, container *container.ServiceContainer) *HealthController {
	return &HealthController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleHealthFunc returns a gin handler dispatching to the health
// controller.
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		case "cacheStats":
			controller.CacheStats()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1. Ping is a liveness probe
// @Summary Ping
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ping [get]
func (c *HealthController) Ping() {
	response.Success(c.Ctx, gin.H{"message": "pong", "time": time.Now().Format(time.RFC3339)})
}

// 2. Status reports dependency connectivity
// @Summary Health status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/status [get]
func (c *HealthController) Status() {
	dbStatus := "ok"
	if db := c.Container.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "down"
		}
	} else {
		dbStatus = "down"
	}

	redisStatus := "ok"
	if redisService, ok := c.Container.GetService("redis").(services.InterfaceRedisService); ok {
		if err := redisService.HealthCheck(); err != nil {
			redisStatus = "down"
		}
	}

	mqttStatus := "down"
	if notificationService, ok := c.Container.GetService("notification").(services.InterfaceNotificationService); ok {
		if notificationService.Connected() {
			mqttStatus = "ok"
		}
	}

	response.Success(c.Ctx, gin.H{
		"database": dbStatus,
		"redis":    redisStatus,
		"mqtt":     mqttStatus,
		"time":     time.Now().Format(time.RFC3339),
	})
}

// 3. CacheStats reports response cache statistics
// @Summary Cache stats
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache-stats [get]
func (c *HealthController) CacheStats() {
	response.Success(c.Ctx, middleware.CacheStats())
}
