package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/share2teach-api/internal/middleware"
	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/internal/service"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
	"github.com/noah-isme/share2teach-api/pkg/response"
)

type authService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error)
	Logout(ctx context.Context, userID int64) error
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
	AssignRole(ctx context.Context, actor *service.Caller, req models.AssignRoleRequest) (*models.User, error)
	ActiveUser(ctx context.Context, userID int64) (*models.ActiveUserResponse, error)
}

type sessionDestroyer interface {
	Destroy(c *gin.Context)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service  authService
	sessions sessionDestroyer
}

// NewAuthHandler creates a new handler. sessions may be nil.
func NewAuthHandler(svc authService, sessions sessionDestroyer) *AuthHandler {
	return &AuthHandler{service: svc, sessions: sessions}
}

// Register godoc
// @Summary Register account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} response.Message
// @Failure 401 {object} response.Message
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} response.Message
// @Failure 401 {object} response.Message
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// Logout godoc
// @Summary Logout
// @Description Invalidates every outstanding token of the caller
// @Tags Authentication
// @Produce json
// @Security JWTToken
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Message
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrMissingToken)
		return
	}
	if err := h.service.Logout(c.Request.Context(), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	if h.sessions != nil {
		h.sessions.Destroy(c)
	}
	response.Msg(c, http.StatusOK, "Successfully logged out. Token is now invalid.")
}

// ForgotPassword godoc
// @Summary Forgot password
// @Description Emails a one-hour reset link
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.ForgotPasswordRequest true "Forgot password"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Message
// @Router /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.ForgotPassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Msg(c, http.StatusOK, fmt.Sprintf("Password reset link sent to %s", strings.TrimSpace(req.Email)))
}

// ResetPassword godoc
// @Summary Reset password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param payload body models.ResetPasswordRequest true "New password"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Message
// @Router /reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Token = c.Param("token")
	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Msg(c, http.StatusOK, "Password successfully reset")
}

// AssignRole godoc
// @Summary Assign role
// @Tags Administration
// @Accept json
// @Produce json
// @Security JWTToken
// @Param payload body models.AssignRoleRequest true "Role assignment"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Message
// @Failure 403 {object} response.Message
// @Failure 404 {object} response.Message
// @Router /admin/assign-role [put]
func (h *AuthHandler) AssignRole(c *gin.Context) {
	var req models.AssignRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.AssignRole(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"msg": fmt.Sprintf("User role updated to %s", user.Role), "user": user})
}

// ActiveUser godoc
// @Summary Current user
// @Tags Authentication
// @Produce json
// @Security JWTToken
// @Success 200 {object} models.ActiveUserResponse
// @Router /active_user [post]
func (h *AuthHandler) ActiveUser(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrMissingToken)
		return
	}
	res, err := h.service.ActiveUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}
