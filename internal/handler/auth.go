package handler

import (
	"context"
	"net/http"

	"workorder-api/internal/middleware"
	"workorder-api/internal/models"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail" example:"Work order not found"`
}

// AuthHandler serves the /auth routes.
type AuthHandler struct {
	service AuthService
}

// AuthService interface for dependency injection
type AuthService interface {
	SignUp(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	SignIn(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
	SignOut(ctx context.Context, accessToken string) models.MessageResponse
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// SignUp godoc
// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      models.Credentials  true  "Email and password"
// @Success      200          {object}  models.AuthResponse
// @Failure      400          {object}  ErrorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var creds models.Credentials
	if !bindJSON(c, &creds) {
		return
	}

	resp, err := h.service.SignUp(c.Request.Context(), creds)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SignIn godoc
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      models.Credentials  true  "Email and password"
// @Success      200          {object}  models.AuthResponse
// @Failure      400          {object}  ErrorResponse
// @Failure      401          {object}  ErrorResponse
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var creds models.Credentials
	if !bindJSON(c, &creds) {
		return
	}

	resp, err := h.service.SignIn(c.Request.Context(), creds)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  body      models.TokenRefresh  true  "Refresh token"
// @Success      200    {object}  models.AuthResponse
// @Failure      401    {object}  ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.TokenRefresh
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SignOut godoc
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.SignOut(c.Request.Context(), middleware.AccessToken(c)))
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
