package controllers

import (
	"github.com/gin-gonic/gin"

	"condy-http-service/internal/domain/services"
	"condy-http-service/internal/domain/services/container"
	"condy-http-service/internal/error/code"
	"condy-http-service/internal/error/response"
)

// JWTController handles authentication requests.
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController creates a new auth controller.
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"maria.silva"`
	Password string `json:"password" binding:"required" example:"secret"`
	Role     string `json:"role" binding:"required" example:"resident"` // admin, condo, resident, driver
}

// HandleJWTFunc returns a gin handler dispatching to the auth controller.
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// Login authenticates an account and returns a token
// @Summary Login
// @Description Authenticates an admin, gatehouse, resident or driver account and returns a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "invalid login payload: "+err.Error(), nil)
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	result, err := jwtService.Login(req.Username, req.Password, req.Role)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrUserPasswordIncorrect, "login failed: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, result)
}
