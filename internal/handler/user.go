package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"planhub/internal/middleware"
	"planhub/internal/model"
	"planhub/internal/service"
)

// UserHandler handles account and roster HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// AddMember handles POST /api/users. The acting org-admin comes from
// the session token, not the request body.
func (h *UserHandler) AddMember(c *gin.Context) {
	var req model.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if msg := validateProfile(req.Name, req.Email, req.Password); msg != "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(msg, ""))
		return
	}

	actingID := c.GetString(middleware.ContextUserID)
	member, err := h.userService.AddMember(c.Request.Context(), actingID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member.ToResponse())
}

// UpdatePlan handles PUT /api/users/update-plan
func (h *UserHandler) UpdatePlan(c *gin.Context) {
	var req model.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}

	if err := h.userService.UpdatePlan(c.Request.Context(), req.UserID, req.NewPlanID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse("Plan updated successfully.", nil))
}

// ListOrganizations handles GET /api/users/organizations
func (h *UserHandler) ListOrganizations(c *gin.Context) {
	orgs, err := h.userService.ListOrganizations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orgs)
}

// ListMembers handles GET /api/users/otherUsers. The roster owner comes
// from the session token.
func (h *UserHandler) ListMembers(c *gin.Context) {
	actingID := c.GetString(middleware.ContextUserID)

	members, err := h.userService.ListMembers(c.Request.Context(), actingID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]model.UserResponse, len(members))
	for i, m := range members {
		responses[i] = m.ToResponse()
	}
	c.JSON(http.StatusOK, responses)
}
