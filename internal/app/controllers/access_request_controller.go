package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"condy-http-service/internal/domain/models"
	"condy-http-service/internal/domain/services"
	"condy-http-service/internal/domain/services/container"
	"condy-http-service/internal/error/code"
	"condy-http-service/internal/error/response"
)

// InterfaceAccessRequestController defines the access request controller.
type InterfaceAccessRequestController interface {
	CreateRequest()
	ListRequests()
	GetRequest()
	UpdateRequestStatus()
}

// AccessRequestController handles access request endpoints.
type AccessRequestController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAccessRequestController creates a new access request controller.
func NewAccessRequestController(ctx *gin.Context, container *container.ServiceContainer) *AccessRequestController {
	return &AccessRequestController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateAccessRequestBody is the create payload. Resident-originated
// requests must carry resident_id; driver-originated requests must carry
// unit (and usually block) instead.
type CreateAccessRequestBody struct {
	CondoID    uint   `json:"condo_id" binding:"required" example:"1"`
	ResidentID *uint  `json:"resident_id" example:"10"`
	DriverID   *uint  `json:"driver_id" example:"7"`
	Type       string `json:"type" binding:"required" example:"delivery"` // driver, delivery
	Unit       string `json:"unit" example:"101"`
	Block      string `json:"block" example:"A"`
	Comment    string `json:"comment" example:"iFood order"`
}

// UpdateRequestStatusBody is the status transition payload.
type UpdateRequestStatusBody struct {
	Status  string `json:"status" binding:"required" example:"authorized"`
	Comment string `json:"comment" example:"released by gatehouse"`
}

// HandleAccessRequestFunc returns a gin handler dispatching to the access
// request controller.
func HandleAccessRequestFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAccessRequestController(ctx, container)

		switch method {
		case "createRequest":
			controller.CreateRequest()
		case "listRequests":
			controller.ListRequests()
		case "getRequest":
			controller.GetRequest()
		case "updateRequestStatus":
			controller.UpdateRequestStatus()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// failFromWorkflowError maps workflow sentinel errors onto error codes.
func (c *AccessRequestController) failFromWorkflowError(err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTransition):
		response.Fail(c.Ctx, code.ErrInvalidTransition, nil)
	case errors.Is(err, services.ErrRequestNotFound):
		response.Fail(c.Ctx, code.ErrRequestNotFound, nil)
	case errors.Is(err, services.ErrUnknownCondo):
		response.Fail(c.Ctx, code.ErrCondoNotFound, nil)
	case errors.Is(err, services.ErrMissingOrigin):
		response.Fail(c.Ctx, code.ErrRequestOrigin, nil)
	case errors.Is(err, services.ErrRoleNotAllowed):
		response.Fail(c.Ctx, code.ErrPermissionDenied, nil)
	default:
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
	}
}

// 1. CreateRequest opens a new access request
// @Summary Create access request
// @Description Opens a pending access request targeting a condo, originated by a resident or a driver
// @Tags AccessRequest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAccessRequestBody true "Request data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /requests [post]
func (c *AccessRequestController) CreateRequest() {
	claims, ok := currentClaims(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx)
		return
	}

	var body CreateAccessRequestBody
	if err := c.Ctx.ShouldBindJSON(&body); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid request payload: "+err.Error(), nil)
		return
	}

	input := services.CreateRequestInput{
		CondoID:    body.CondoID,
		ResidentID: body.ResidentID,
		DriverID:   body.DriverID,
		Type:       models.RequestType(body.Type),
		Unit:       body.Unit,
		Block:      body.Block,
		Comment:    body.Comment,
	}

	// Actors fill in their own side of the request from their token.
	switch claims.Role {
	case services.RoleResident:
		residentID := claims.UserID
		input.ResidentID = &residentID
		if claims.CondoID != nil {
			input.CondoID = *claims.CondoID
		}
	case services.RoleDriver:
		driverID := claims.UserID
		input.DriverID = &driverID
	}

	requestService := c.Container.GetService("access_request").(services.InterfaceAccessRequestService)
	request, err := requestService.Create(input, claims.Role)
	if err != nil {
		c.failFromWorkflowError(err)
		return
	}

	response.Success(c.Ctx, request)
}

// 2. ListRequests lists the requests visible to the caller
// @Summary List access requests
// @Description Lists requests scoped to the caller's role, most recent first
// @Tags AccessRequest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Router /requests [get]
func (c *AccessRequestController) ListRequests() {
	claims, ok := currentClaims(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx)
		return
	}

	var statusFilter *models.RequestStatus
	if raw := c.Ctx.Query("status"); raw != "" {
		status := models.RequestStatus(raw)
		if !status.IsValid() {
			response.ParamError(c.Ctx, "unknown status "+raw)
			return
		}
		statusFilter = &status
	}

	requestService := c.Container.GetService("access_request").(services.InterfaceAccessRequestService)
	requests, err := requestService.ListFor(claims.UserID, claims.Role, statusFilter)
	if err != nil {
		c.failFromWorkflowError(err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total": len(requests),
		"data":  requests,
	})
}

// 3. GetRequest fetches a single request
// @Summary Get access request
// @Description Fetches one request; the caller must be a party to it
// @Tags AccessRequest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /requests/{id} [get]
func (c *AccessRequestController) GetRequest() {
	claims, ok := currentClaims(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx)
		return
	}

	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid request id")
		return
	}

	requestService := c.Container.GetService("access_request").(services.InterfaceAccessRequestService)
	request, err := requestService.GetByID(uint(id))
	if err != nil {
		c.failFromWorkflowError(err)
		return
	}

	if !requestVisibleTo(request, claims) {
		response.Forbidden(c.Ctx)
		return
	}

	response.Success(c.Ctx, request)
}

// 4. UpdateRequestStatus applies a status transition
// @Summary Update request status
// @Description Applies a whitelisted status transition; illegal edges are rejected
// @Tags AccessRequest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body UpdateRequestStatusBody true "New status"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /requests/{id}/status [put]
func (c *AccessRequestController) UpdateRequestStatus() {
	claims, ok := currentClaims(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx)
		return
	}

	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c.Ctx, "invalid request id")
		return
	}

	var body UpdateRequestStatusBody
	if err := c.Ctx.ShouldBindJSON(&body); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid status payload: "+err.Error(), nil)
		return
	}

	requestService := c.Container.GetService("access_request").(services.InterfaceAccessRequestService)

	request, err := requestService.GetByID(uint(id))
	if err != nil {
		c.failFromWorkflowError(err)
		return
	}
	if !requestVisibleTo(request, claims) {
		response.Forbidden(c.Ctx)
		return
	}

	updated, err := requestService.UpdateStatus(uint(id), models.RequestStatus(body.Status), claims.UserID, body.Comment)
	if err != nil {
		c.failFromWorkflowError(err)
		return
	}

	response.Success(c.Ctx, updated)
}

// requestVisibleTo applies the same role scoping as ListFor to a single
// record.
func requestVisibleTo(request *models.AccessRequest, claims *services.JWTClaims) bool {
	switch claims.Role {
	case services.RoleAdmin:
		return true
	case services.RoleCondo:
		return request.CondoID == claims.UserID
	case services.RoleResident:
		return request.ResidentID != nil && *request.ResidentID == claims.UserID
	case services.RoleDriver:
		return request.DriverID != nil && *request.DriverID == claims.UserID
	}
	return false
}
