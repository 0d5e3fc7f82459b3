package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"condy-http-service/internal/app/controllers"
	"condy-http-service/internal/app/middleware"
	"condy-http-service/internal/domain/services"
	"condy-http-service/internal/domain/services/container"
	"condy-http-service/internal/infrastructure/config"
)

// SetupRouter builds the gin engine with all middleware and routes.
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Accept", "Cache-Control", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	serviceContainer := container.NewServiceContainer(db, cfg)
	middleware.InitAuthMiddleware(cfg, db)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes configures all API routes.
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	api := r.Group("/api")
	registerPublicRoutes(api, container)
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes registers routes that require no token.
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 10 requests per second per IP, bursts up to 20
	api.Use(middleware.IPRateLimiter(10, 20))

	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "ping"))

	healthGroup := api.Group("/health")
	healthGroup.GET("/status", controllers.HandleHealthFunc(container, "status"))
	healthGroup.GET("/cache-stats", controllers.HandleHealthFunc(container, "cacheStats"))

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.PathRateLimiter(5, 10))
	authGroup.POST("/login", controllers.HandleJWTFunc(container, "login"))
}

// registerAuthenticatedRoutes registers token-protected routes.
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	auth := api.Group("/")
	auth.Use(middleware.AuthenticateAny())
	auth.Use(middleware.IPRateLimiter(30, 50))

	// Access request workflow. Any authenticated role; scoping happens in
	// the service from the caller's claims.
	requestGroup := auth.Group("/requests")
	requestGroup.POST("", controllers.HandleAccessRequestFunc(container, "createRequest"))
	requestGroup.GET("", controllers.HandleAccessRequestFunc(container, "listRequests"))
	requestGroup.GET("/:id", controllers.HandleAccessRequestFunc(container, "getRequest"))
	requestGroup.PUT("/:id/status", controllers.HandleAccessRequestFunc(container, "updateRequestStatus"))

	// Condo search. Cached briefly since repeated keystrokes produce the
	// same query within a session.
	condoGroup := auth.Group("/condos")
	condoGroup.GET("/search", middleware.Cache(middleware.CacheConfig{Expiration: 10 * time.Second}), controllers.HandleCondoSearchFunc(container, "search"))
	condoGroup.GET("", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleCondoFunc(container, "getCondos"))
	condoGroup.GET("/:id", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleCondoFunc(container, "getCondo"))
	condoGroup.GET("/:id/residents", controllers.HandleResidentFunc(container, "getResidentsByCondo"))

	// Registry administration
	adminOnly := api.Group("/")
	adminOnly.Use(middleware.AuthenticateAdmin())
	adminOnly.Use(middleware.IPRateLimiter(30, 50))

	adminCondoGroup := adminOnly.Group("/condos")
	adminCondoGroup.POST("", controllers.HandleCondoFunc(container, "createCondo"))
	adminCondoGroup.POST("/from-place", controllers.HandleCondoFunc(container, "createCondoFromPlace"))
	adminCondoGroup.PUT("/:id", controllers.HandleCondoFunc(container, "updateCondo"))
	adminCondoGroup.DELETE("/:id", controllers.HandleCondoFunc(container, "deleteCondo"))

	adminGroup := adminOnly.Group("/admins")
	adminGroup.GET("", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleAdminFunc(container, "getAdmins"))
	adminGroup.GET("/:id", controllers.HandleAdminFunc(container, "getAdmin"))
	adminGroup.POST("", controllers.HandleAdminFunc(container, "createAdmin"))
	adminGroup.PUT("/:id", controllers.HandleAdminFunc(container, "updateAdmin"))
	adminGroup.DELETE("/:id", controllers.HandleAdminFunc(container, "deleteAdmin"))

	// Residents are managed by admins and by the gatehouse account of
	// their own condo.
	residentManage := api.Group("/residents")
	residentManage.Use(middleware.AuthenticateRole(services.RoleAdmin, services.RoleCondo))
	residentManage.Use(middleware.IPRateLimiter(30, 50))
	residentManage.GET("", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleResidentFunc(container, "getResidents"))
	residentManage.GET("/:id", controllers.HandleResidentFunc(container, "getResident"))
	residentManage.POST("", controllers.HandleResidentFunc(container, "createResident"))
	residentManage.PUT("/:id", controllers.HandleResidentFunc(container, "updateResident"))
	residentManage.DELETE("/:id", controllers.HandleResidentFunc(container, "deleteResident"))

	driverGroup := adminOnly.Group("/drivers")
	driverGroup.GET("", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleDriverFunc(container, "getDrivers"))
	driverGroup.GET("/:id", controllers.HandleDriverFunc(container, "getDriver"))
	driverGroup.POST("", controllers.HandleDriverFunc(container, "createDriver"))
	driverGroup.PUT("/:id", controllers.HandleDriverFunc(container, "updateDriver"))
	driverGroup.DELETE("/:id", controllers.HandleDriverFunc(container, "deleteDriver"))
}
