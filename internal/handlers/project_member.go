package handlers

import (
	"github.com/dzhou/taskboard/internal/middleware"
	"github.com/dzhou/taskboard/internal/services"
	"github.com/dzhou/taskboard/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProjectMemberHandler provides membership endpoints for a project.
type ProjectMemberHandler struct {
	membershipService *services.MembershipService
}

func NewProjectMemberHandler(db *gorm.DB) *ProjectMemberHandler {
	return &ProjectMemberHandler{
		membershipService: services.NewMembershipService(db),
	}
}

type AddMemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// List returns all members of a project the caller may read
// GET /api/projects/:id/members
func (h *ProjectMemberHandler) List(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.membershipService.List(middleware.GetUserID(c), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, members)
}

// Add adds a user to a project as a member. Owner only.
// POST /api/projects/:id/members
func (h *ProjectMemberHandler) Add(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.membershipService.Add(middleware.GetUserID(c), projectID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, member)
}

// Remove removes a member from a project. Owner only; the owner membership
// itself can never be removed.
// DELETE /api/projects/:id/members/:userID
func (h *ProjectMemberHandler) Remove(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userID")
	if !ok {
		return
	}

	if err := h.membershipService.Remove(middleware.GetUserID(c), projectID, userID); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "member removed"})
}
