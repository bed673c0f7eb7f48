package access

import (
	"errors"

	"github.com/dzhou/taskboard/internal/models"
	"gorm.io/gorm"
)

// RoleNone is returned by RoleOf when the user holds no membership in the
// project. It is a distinct outcome, not an error.
const RoleNone = ""

// RoleOf returns the user's role within a project, or RoleNone when the user
// holds no membership. Roles are always read fresh; callers must not cache
// the result across requests.
func RoleOf(db *gorm.DB, projectID, userID uint) (string, error) {
	var m models.Membership
	err := db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleNone, nil
		}
		return RoleNone, err
	}
	return m.Role, nil
}
