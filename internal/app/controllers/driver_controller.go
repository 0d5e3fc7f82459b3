package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"condy-http-service/internal/domain/models"
	"condy-http-service/internal/domain/services"
	"condy-http-service/internal/domain/services/container"
	"condy-http-service/internal/error/code"
	"condy-http-service/internal/error/response"
)

// DriverController handles driver account administration.
type DriverController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDriverController creates a new driver controller.
func NewDriverController(ctx *gin.Context, container *container.ServiceContainer) *DriverController {
	return &DriverController{
		Ctx:       ctx,
		Container: container,
	}
}

// DriverRequest is the create payload.
type DriverRequest struct {
	Name         string `json:"name" binding:"required" example:"João Pereira"`
	Phone        string `json:"phone" binding:"required" example:"+5511988887777"`
	Email        string `json:"email"`
	Username     string `json:"username" example:"joao.pereira"`
	Password     string `json:"password"`
	VehiclePlate string `json:"vehicle_plate" example:"BRA2E19"`
	VehicleModel string `json:"vehicle_model" example:"Fiat Strada"`
	Type         string `json:"type" example:"driver"` // driver, delivery
}

// HandleDriverFunc returns a gin handler dispatching to the driver
// controller.
func HandleDriverFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDriverController(ctx, container)

		switch method {
		case "getDrivers":
			controller.GetDrivers()
		case "getDriver":
			controller.GetDriver()
		case "createDriver":
			controller.CreateDriver()
		case "updateDriver":
			controller.UpdateDriver()
		case "deleteDriver":
			controller.DeleteDriver()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1. GetDrivers lists drivers
// @Summary List drivers
// @Tags Driver
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, default 1"
// @Param page_size query int false "Page size, default 10"
// @Success 200 {object} map[string]interface{}
// @Router /drivers [get]
func (c *DriverController) GetDrivers() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	driverService := c.Container.GetService("driver").(services.InterfaceDriverService)
	drivers, total, err := driverService.GetAllDrivers(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "failed to list drivers: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        drivers,
	})
}

// 2. GetDriver fetches a driver
// @Summary Get driver
// @Tags Driver
// @Produce json
// @Security BearerAuth
// @Param id path int true "Driver ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /drivers/{id} [get]
func (c *DriverController) GetDriver() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid driver id")
		return
	}

	driverService := c.Container.GetService("driver").(services.InterfaceDriverService)
	driver, err := driverService.GetDriverByID(uint(id))
	if err != nil {
		response.Fail(c.Ctx, code.ErrUserNotFound, nil)
		return
	}

	response.Success(c.Ctx, driver)
}

// 3. CreateDriver creates a driver account
// @Summary Create driver
// @Tags Driver
// @Accept json
// @Produce json
// @Param body body DriverRequest true "Driver data"
// @Success 200 {object} map[string]interface{}
// @Router /drivers [post]
func (c *DriverController) CreateDriver() {
	var req DriverRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid driver payload: "+err.Error(), nil)
		return
	}

	driver := &models.Driver{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Username:     req.Username,
		Password:     req.Password,
		VehiclePlate: req.VehiclePlate,
		VehicleModel: req.VehicleModel,
		Type:         models.RequestType(req.Type),
		Status:       "active",
	}

	driverService := c.Container.GetService("driver").(services.InterfaceDriverService)
	if err := driverService.CreateDriver(driver); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrUserAlreadyExist, "failed to create driver: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, driver)
}

// 4. UpdateDriver applies partial updates
// @Summary Update driver
// @Tags Driver
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Driver ID"
// @Success 200 {object} map[string]interface{}
// @Router /drivers/{id} [put]
func (c *DriverController) UpdateDriver() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid driver id")
		return
	}

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid update payload: "+err.Error(), nil)
		return
	}

	driverService := c.Container.GetService("driver").(services.InterfaceDriverService)
	driver, err := driverService.UpdateDriver(uint(id), updates)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "failed to update driver: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, driver)
}

// 5. DeleteDriver removes a driver account
// @Summary Delete driver
// @Tags Driver
// @Produce json
// @Security BearerAuth
// @Param id path int true "Driver ID"
// @Success 200 {object} map[string]interface{}
// @Router /drivers/{id} [delete]
func (c *DriverController) DeleteDriver() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid driver id")
		return
	}

	driverService := c.Container.GetService("driver").(services.InterfaceDriverService)
	if err := driverService.DeleteDriver(uint(id)); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "failed to delete driver: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{"deleted": id})
}
