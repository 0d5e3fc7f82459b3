package container

import (
	"sync"

	"gorm.io/gorm"

	"condy-http-service/internal/domain/services"
	"condy-http-service/internal/infrastructure/config"
	Logger "condy-http-service/pkg/logger"
)

// ServiceContainer wires all services together. The store handle and config
// are injected here once at startup instead of living as package globals,
// which is what lets tests substitute a different database.
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// Base services
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService

	// Collaborators
	placesService       services.InterfacePlacesService
	notificationService services.InterfaceNotificationService

	// Business services
	accessRequestService services.InterfaceAccessRequestService
	condoResolverService services.InterfaceCondoResolverService
	condoService         services.InterfaceCondoService
	residentService      services.InterfaceResidentService
	driverService        services.InterfaceDriverService
	adminService         services.InterfaceAdminService

	mu sync.RWMutex
}

// NewServiceContainer creates the container and initializes all services.
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices()
	return container
}

// initializeServices constructs every service with its dependencies.
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.jwtService = services.NewJWTService(c.config, c.db)
	c.redisService = services.NewRedisService(c.config)

	c.placesService = services.NewPlacesService(c.config)
	c.notificationService = services.NewNotificationService(c.config)

	// A broker outage must not keep the service from starting; the workflow
	// degrades to logged, undelivered notifications.
	if err := c.notificationService.Connect(); err != nil {
		Logger.Warning("MQTT connection failed at startup: %v", err)
	}

	c.accessRequestService = services.NewAccessRequestService(c.db, c.config, c.notificationService, c.redisService)
	c.condoResolverService = services.NewCondoResolverService(c.db, c.config, c.placesService, c.redisService)
	c.condoService = services.NewCondoService(c.db, c.config)
	c.residentService = services.NewResidentService(c.db, c.config)
	c.driverService = services.NewDriverService(c.db, c.config)
	c.adminService = services.NewAdminService(c.db, c.config)
}

// GetService returns a service by name.
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "places":
		return c.placesService
	case "notification":
		return c.notificationService
	case "access_request":
		return c.accessRequestService
	case "condo_resolver":
		return c.condoResolverService
	case "condo":
		return c.condoService
	case "resident":
		return c.residentService
	case "driver":
		return c.driverService
	case "admin":
		return c.adminService
	default:
		return nil
	}
}

// GetDB returns the database handle.
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
