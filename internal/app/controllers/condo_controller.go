package controllers

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"condy-http-service/internal/domain/models"
	"condy-http-service/internal/domain/services"
	"condy-http-service/internal/domain/services/container"
	"condy-http-service/internal/error/code"
	"condy-http-service/internal/error/response"
)

// InterfaceCondoController defines the condo registry controller.
type InterfaceCondoController interface {
	GetCondos()
	GetCondo()
	CreateCondo()
	CreateCondoFromPlace()
	UpdateCondo()
	DeleteCondo()
}

// CondoController handles condo registry administration.
type CondoController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCondoController creates a new condo controller.
func NewCondoController(ctx *gin.Context, container *container.ServiceContainer) *CondoController {
	return &CondoController{
		Ctx:       ctx,
		Container: container,
	}
}

// CondoRequest is the create/update payload.
type CondoRequest struct {
	Name      string   `json:"name" binding:"required" example:"Residencial Jardim Real"`
	Address   string   `json:"address" example:"Rua das Flores, 120 - São Paulo"`
	PlaceID   *string  `json:"place_id"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Status    string   `json:"status" example:"active"` // active, inactive
	Username  string   `json:"username" example:"gatehouse.jardimreal"`
	Password  string   `json:"password"`
}

// CondoFromPlaceRequest registers a condo from an external candidate.
type CondoFromPlaceRequest struct {
	PlaceID  string `json:"place_id" binding:"required"`
	Name     string `json:"name" example:"overrides the place name when set"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleCondoFunc returns a gin handler dispatching to the condo controller.
func HandleCondoFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCondoController(ctx, container)

		switch method {
		case "getCondos":
			controller.GetCondos()
		case "getCondo":
			controller.GetCondo()
		case "createCondo":
			controller.CreateCondo()
		case "createCondoFromPlace":
			controller.CreateCondoFromPlace()
		case "updateCondo":
			controller.UpdateCondo()
		case "deleteCondo":
			controller.DeleteCondo()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1. GetCondos lists condos
// @Summary List condos
// @Tags Condo
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, default 1"
// @Param page_size query int false "Page size, default 10"
// @Success 200 {object} map[string]interface{}
// @Router /condos [get]
func (c *CondoController) GetCondos() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	condoService := c.Container.GetService("condo").(services.InterfaceCondoService)
	condos, total, err := condoService.GetAllCondos(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "failed to list condos: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        condos,
	})
}

// 2. GetCondo fetches a condo
// @Summary Get condo
// @Tags Condo
// @Produce json
// @Security BearerAuth
// @Param id path int true "Condo ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /condos/{id} [get]
func (c *CondoController) GetCondo() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid condo id")
		return
	}

	condoService := c.Container.GetService("condo").(services.InterfaceCondoService)
	condo, err := condoService.GetCondoByID(uint(id))
	if err != nil {
		response.Fail(c.Ctx, code.ErrCondoNotFound, nil)
		return
	}

	response.Success(c.Ctx, condo)
}

// 3. CreateCondo registers a condo
// @Summary Create condo
// @Tags Condo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CondoRequest true "Condo data"
// @Success 200 {object} map[string]interface{}
// @Router /condos [post]
func (c *CondoController) CreateCondo() {
	var req CondoRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid condo payload: "+err.Error(), nil)
		return
	}

	condo := &models.Condo{
		Name:      req.Name,
		Address:   req.Address,
		PlaceID:   req.PlaceID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Status:    req.Status,
		Username:  req.Username,
		Password:  req.Password,
	}
	if condo.Status == "" {
		condo.Status = "active"
	}

	condoService := c.Container.GetService("condo").(services.InterfaceCondoService)
	if err := condoService.CreateCondo(condo); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrCondoAlreadyExist, "failed to create condo: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, condo)
}

// 4. CreateCondoFromPlace registers a condo from an external candidate
// @Summary Create condo from place
// @Description Fetches the place details from the external index and registers it, turning an external-only candidate into a valid request target
// @Tags Condo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CondoFromPlaceRequest true "Place reference"
// @Success 200 {object} map[string]interface{}
// @Router /condos/from-place [post]
func (c *CondoController) CreateCondoFromPlace() {
	var req CondoFromPlaceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid payload: "+err.Error(), nil)
		return
	}

	placesService := c.Container.GetService("places").(services.InterfacePlacesService)
	place, err := placesService.Details(req.PlaceID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrPlacesDegraded, "failed to load place details: "+err.Error(), nil)
		return
	}

	condo := &models.Condo{
		Name:      place.Name,
		Address:   place.Address,
		PlaceID:   &place.PlaceID,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
		Status:    "active",
		Username:  req.Username,
		Password:  req.Password,
	}
	if req.Name != "" {
		condo.Name = req.Name
	}
	if place.AddressDetail != nil {
		if raw, err := json.Marshal(place.AddressDetail); err == nil {
			condo.AddressComponents = datatypes.JSON(raw)
		}
	}

	condoService := c.Container.GetService("condo").(services.InterfaceCondoService)
	if err := condoService.CreateCondo(condo); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrCondoAlreadyExist, "failed to create condo: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, condo)
}

// 5. UpdateCondo applies partial updates
// @Summary Update condo
// @Tags Condo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Condo ID"
// @Success 200 {object} map[string]interface{}
// @Router /condos/{id} [put]
func (c *CondoController) UpdateCondo() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid condo id")
		return
	}

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid update payload: "+err.Error(), nil)
		return
	}

	condoService := c.Container.GetService("condo").(services.InterfaceCondoService)
	condo, err := condoService.UpdateCondo(uint(id), updates)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "failed to update condo: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, condo)
}

// 6. DeleteCondo removes a condo
// @Summary Delete condo
// @Tags Condo
// @Produce json
// @Security BearerAuth
// @Param id path int true "Condo ID"
// @Success 200 {object} map[string]interface{}
// @Router /condos/{id} [delete]
func (c *CondoController) DeleteCondo() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid condo id")
		return
	}

	condoService := c.Container.GetService("condo").(services.InterfaceCondoService)
	if err := condoService.DeleteCondo(uint(id)); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "failed to delete condo: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{"deleted": id})
}
