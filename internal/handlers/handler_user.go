package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	portssvc "github.com/SscSPs/pm_dashboard_app/internal/core/ports/services"
	"github.com/SscSPs/pm_dashboard_app/internal/dto"
	"github.com/SscSPs/pm_dashboard_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// provisioningHandler serves the create-user function.
type provisioningHandler struct {
	memberService portssvc.MemberSvcFacade
}

func newProvisioningHandler(ms portssvc.MemberSvcFacade) *provisioningHandler {
	return &provisioningHandler{memberService: ms}
}

// registerProvisioningRoutes registers the provisioning function under /functions.
func registerProvisioningRoutes(r *gin.Engine, auth, limit gin.HandlerFunc, memberService portssvc.MemberSvcFacade) {
	h := newProvisioningHandler(memberService)

	functions := r.Group("/functions", limit, auth)
	functions.POST("/create-user", h.createUser)
}

// createUser godoc
// @Summary Provision a new user
// @Description Creates an authenticated identity and its member profile. ADMIN callers are always pinned to their own company.
// @Tags functions
// @Accept  json
// @Produce  json
// @Param   user body dto.CreateUserRequest true "New user"
// @Success 201 {object} dto.CreateUserResponse
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid fields"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Caller may not provision users or grant the role"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Security BearerAuth
// @Router /functions/create-user [post]
func (h *provisioningHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind create user request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.memberService.ProvisionUser(c.Request.Context(), callerID, req.ToDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCreateUserResponse(created))
}

// respondError writes err as {"error": message} with the status its kind maps to.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Request failed", slog.String("error", err.Error()))
	}
	msg := apperrors.UserMessage(err)
	// Server-side auth failures carry a precise reason, e.g. bad credentials.
	var appErr *apperrors.AppError
	if apperrors.KindOf(err) == apperrors.KindAuth && errors.As(err, &appErr) && appErr.Message != "" {
		msg = appErr.Message
	}
	c.JSON(status, gin.H{"error": msg})
}
