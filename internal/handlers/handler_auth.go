package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/pm_dashboard_app/internal/core/ports/services"
	"github.com/SscSPs/pm_dashboard_app/internal/dto"
	"github.com/SscSPs/pm_dashboard_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	memberService portssvc.MemberSvcFacade
	tokenService  portssvc.TokenSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(ms portssvc.MemberSvcFacade, ts portssvc.TokenSvcFacade) *AuthHandler {
	return &AuthHandler{memberService: ms, tokenService: ts}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(r *gin.Engine, auth, loginLimit gin.HandlerFunc, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.Member, services.Token)

	group := r.Group("/auth")
	{
		group.POST("/login", loginLimit, h.Login)
		group.GET("/whoami", auth, h.WhoAmI)
	}
}

// Login godoc
// @Summary User login
// @Description Authenticates a member and returns a JWT token. Suspended members are refused.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	user, err := h.memberService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	token, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt, User: dto.ToUserResponse(user)})
}

// WhoAmI godoc
// @Summary Current administrator
// @Description Returns the stored profile of the calling MASTER or ADMIN.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/whoami [get]
func (h *AuthHandler) WhoAmI(c *gin.Context) {
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	user, err := h.memberService.WhoAmI(c.Request.Context(), callerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
