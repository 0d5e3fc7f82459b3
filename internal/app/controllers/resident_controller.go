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

// ResidentController handles resident account administration.
type ResidentController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewResidentController creates a new resident controller.
func NewResidentController(ctx *gin.Context, container *container.ServiceContainer) *ResidentController {
	return &ResidentController{
		Ctx:       ctx,
		Container: container,
	}
}

// ResidentRequest is the create payload.
type ResidentRequest struct {
	Name     string `json:"name" binding:"required" example:"Maria Silva"`
	Phone    string `json:"phone" binding:"required" example:"+5511999990000"`
	Email    string `json:"email" example:"maria@example.com"`
	Username string `json:"username" example:"maria.silva"`
	Password string `json:"password"`
	CondoID  uint   `json:"condo_id" binding:"required" example:"1"`
	Unit     string `json:"unit" example:"101"`
	Block    string `json:"block" example:"A"`
}

// HandleResidentFunc returns a gin handler dispatching to the resident
// controller.
func HandleResidentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewResidentController(ctx, container)

		switch method {
		case "getResidents":
			controller.GetResidents()
		case "getResident":
			controller.GetResident()
		case "getResidentsByCondo":
			controller.GetResidentsByCondo()
		case "createResident":
			controller.CreateResident()
		case "updateResident":
			controller.UpdateResident()
		case "deleteResident":
			controller.DeleteResident()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1. GetResidents lists residents
// @Summary List residents
// @Tags Resident
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, default 1"
// @Param page_size query int false "Page size, default 10"
// @Success 200 {object} map[string]interface{}
// @Router /residents [get]
func (c *ResidentController) GetResidents() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	residents, total, err := residentService.GetAllResidents(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "failed to list residents: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        residents,
	})
}

// 2. GetResident fetches a resident
// @Summary Get resident
// @Tags Resident
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resident ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /residents/{id} [get]
func (c *ResidentController) GetResident() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid resident id")
		return
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	resident, err := residentService.GetResidentByID(uint(id))
	if err != nil {
		response.Fail(c.Ctx, code.ErrUserNotFound, nil)
		return
	}

	response.Success(c.Ctx, resident)
}

// 3. GetResidentsByCondo lists the residents of a condo for the gatehouse
// @Summary List condo residents
// @Tags Resident
// @Produce json
// @Security BearerAuth
// @Param id path int true "Condo ID"
// @Success 200 {object} map[string]interface{}
// @Router /condos/{id}/residents [get]
func (c *ResidentController) GetResidentsByCondo() {
	condoID, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid condo id")
		return
	}

	// Gatehouse accounts may only list their own residents.
	if claims, ok := currentClaims(c.Ctx); ok && claims.Role == services.RoleCondo && claims.UserID != uint(condoID) {
		response.Forbidden(c.Ctx)
		return
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	residents, err := residentService.GetResidentsByCondo(uint(condoID))
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "failed to list residents: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total": len(residents),
		"data":  residents,
	})
}

// 4. CreateResident creates a resident account
// @Summary Create resident
// @Tags Resident
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ResidentRequest true "Resident data"
// @Success 200 {object} map[string]interface{}
// @Router /residents [post]
func (c *ResidentController) CreateResident() {
	var req ResidentRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid resident payload: "+err.Error(), nil)
		return
	}

	resident := &models.Resident{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		CondoID:  req.CondoID,
		Unit:     req.Unit,
		Block:    req.Block,
		Status:   "active",
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	if err := residentService.CreateResident(resident); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrUserAlreadyExist, "failed to create resident: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, resident)
}

// 5. UpdateResident applies partial updates
// @Summary Update resident
// @Tags Resident
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resident ID"
// @Success 200 {object} map[string]interface{}
// @Router /residents/{id} [put]
func (c *ResidentController) UpdateResident() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid resident id")
		return
	}

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid update payload: "+err.Error(), nil)
		return
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	resident, err := residentService.UpdateResident(uint(id), updates)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "failed to update resident: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, resident)
}

// 6. DeleteResident removes a resident account
// @Summary Delete resident
// @Tags Resident
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resident ID"
// @Success 200 {object} map[string]interface{}
// @Router /residents/{id} [delete]
func (c *ResidentController) DeleteResident() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid resident id")
		return
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	if err := residentService.DeleteResident(uint(id)); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "failed to delete resident: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{"deleted": id})
}
