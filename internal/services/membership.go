package services

import (
	"errors"
	"fmt"

	"github.com/dzhou/taskboard/internal/access"
	"github.com/dzhou/taskboard/internal/models"
	"gorm.io/gorm"
)

type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// List returns the memberships of a project the principal may read.
func (s *MembershipService) List(principalID, projectID uint) ([]models.Membership, error) {
	if _, err := access.EvaluateProject(s.db, principalID, access.ActionReadProject, projectID); err != nil {
		return nil, err
	}

	var members []models.Membership
	if err := s.db.Where("project_id = ?", projectID).
		Preload("User").
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Add grants targetUserID a member-role membership. Owner only. The
// permission check, duplicate check, and insert run in a single transaction
// so an ownership change between check and write cannot slip through.
func (s *MembershipService) Add(principalID, projectID, targetUserID uint) (*models.Membership, error) {
	var membership models.Membership

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := access.EvaluateProject(tx, principalID, access.ActionManageMembers, projectID); err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, targetUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d: %w", targetUserID, access.ErrNotFound)
			}
			return err
		}

		role, err := access.RoleOf(tx, projectID, targetUserID)
		if err != nil {
			return err
		}
		if role != access.RoleNone {
			return access.ErrAlreadyMember
		}

		membership = models.Membership{
			ProjectID: projectID,
			UserID:    targetUserID,
			Role:      models.RoleMember,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&membership, membership.ID).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// Remove revokes targetUserID's membership. Owner only; the owner's own
// membership can never be removed, even by the owner. Task assignments are
// deliberately left untouched (stale assignees are handled read-side).
func (s *MembershipService) Remove(principalID, projectID, targetUserID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		project, err := access.EvaluateProject(tx, principalID, access.ActionManageMembers, projectID)
		if err != nil {
			return err
		}

		if targetUserID == project.OwnerID {
			return access.ErrCannotRemoveOwner
		}

		result := tx.Where("project_id = ? AND user_id = ?", projectID, targetUserID).
			Delete(&models.Membership{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return access.ErrNotAMember
		}
		return nil
	})
}

// RoleOf returns the target user's role in the project, or access.RoleNone.
// Pure lookup, no permission gate: callers use it for display only.
func (s *MembershipService) RoleOf(projectID, userID uint) (string, error) {
	return access.RoleOf(s.db, projectID, userID)
}
