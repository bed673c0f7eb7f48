package access

import (
	"github.com/dzhou/taskboard/internal/models"
	"gorm.io/gorm"
)

// Task lifecycle rules, applied after the permission evaluation passes.
// Status transitions are deliberately unordered and priority/status are
// independent; the only referential rule is that an assignee must be a
// current project member at write time.

func ValidateStatus(status string) error {
	switch status {
	case models.StatusTodo, models.StatusInProgress, models.StatusDone:
		return nil
	}
	return ErrInvalidStatus
}

func ValidatePriority(priority string) error {
	switch priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return nil
	}
	return ErrInvalidPriority
}

// ValidateAssignee rejects assignment to a user with no current membership in
// the project. Revoking a membership later does not clear existing
// assignments; the check runs only at write time.
func ValidateAssignee(db *gorm.DB, projectID, userID uint) error {
	role, err := RoleOf(db, projectID, userID)
	if err != nil {
		return err
	}
	if role == RoleNone {
		return ErrInvalidAssignee
	}
	return nil
}
