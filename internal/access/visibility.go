package access

import "gorm.io/gorm"

// Visibility scopes restrict listing queries to rows the principal may
// enumerate. They are plain GORM scopes so callers can compose them with
// additional filters; they must be applied before any caller-supplied filter
// so out-of-scope rows never reach later clauses.

// VisibleProjects scopes a project query to projects the user holds any
// membership in (owner or member).
func VisibleProjects(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"projects.id IN (SELECT project_id FROM memberships WHERE user_id = ?)",
			userID,
		)
	}
}

// VisibleTasks scopes a task query to tasks whose parent project is visible
// to the user. Visibility is membership-transitive: being the assignee grants
// nothing beyond what membership already does.
func VisibleTasks(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"tasks.project_id IN (SELECT project_id FROM memberships WHERE user_id = ?)",
			userID,
		)
	}
}
