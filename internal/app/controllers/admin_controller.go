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

// AdminController handles administrator account management.
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminController creates a new admin controller.
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
	}
}

// AdminRequest is the create payload.
type AdminRequest struct {
	Username string `json:"username" binding:"required" example:"admin2"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" example:"system_admin"`
}

// HandleAdminFunc returns a gin handler dispatching to the admin controller.
func HandleAdminFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container)

		switch method {
		case "getAdmins":
			controller.GetAdmins()
		case "getAdmin":
			controller.GetAdmin()
		case "createAdmin":
			controller.CreateAdmin()
		case "updateAdmin":
			controller.UpdateAdmin()
		case "deleteAdmin":
			controller.DeleteAdmin()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1. GetAdmins lists administrators
// @Summary List admins
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /admin [get]
func (c *AdminController) GetAdmins() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admins, total, err := adminService.GetAllAdmins(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "failed to list admins: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      admins,
	})
}

// 2. GetAdmin fetches an administrator
// @Summary Get admin
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/{id} [get]
func (c *AdminController) GetAdmin() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid admin id")
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admin, err := adminService.GetAdminByID(uint(id))
	if err != nil {
		response.Fail(c.Ctx, code.ErrUserNotFound, nil)
		return
	}

	response.Success(c.Ctx, admin)
}

// 3. CreateAdmin creates an administrator
// @Summary Create admin
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AdminRequest true "Admin data"
// @Success 200 {object} map[string]interface{}
// @Router /admin [post]
func (c *AdminController) CreateAdmin() {
	var req AdminRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid admin payload: "+err.Error(), nil)
		return
	}

	admin := &models.Admin{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Status:   "active",
	}
	if admin.Role == "" {
		admin.Role = "system_admin"
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	if err := adminService.CreateAdmin(admin); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrUserAlreadyExist, "failed to create admin: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, admin)
}

// 4. UpdateAdmin applies partial updates
// @Summary Update admin
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/{id} [put]
func (c *AdminController) UpdateAdmin() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid admin id")
		return
	}

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid update payload: "+err.Error(), nil)
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admin, err := adminService.UpdateAdmin(uint(id), updates)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "failed to update admin: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, admin)
}

// 5. DeleteAdmin removes an administrator
// @Summary Delete admin
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/{id} [delete]
func (c *AdminController) DeleteAdmin() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid admin id")
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	if err := adminService.DeleteAdmin(uint(id)); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "failed to delete admin: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{"deleted": id})
}
