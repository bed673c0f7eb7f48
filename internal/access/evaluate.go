package access

import (
	"errors"

	"github.com/dzhou/taskboard/internal/models"
	"gorm.io/gorm"
)

// Action identifies an operation being evaluated against a target resource.
type Action string

const (
	ActionReadProject    Action = "read_project"
	ActionUpdateProject  Action = "update_project"
	ActionDeleteProject  Action = "delete_project"
	ActionManageMembers  Action = "manage_members"
	ActionCreateTask     Action = "create_task"
	ActionReadTask       Action = "read_task"
	ActionUpdateTask     Action = "update_task"          // title, description, priority, due date
	ActionUpdateTaskFlow Action = "update_task_flow"     // status and assignee
	ActionDeleteTask     Action = "delete_task"
)

// EvaluateProject decides whether the principal may perform action on the
// project and returns the loaded project on allow.
//
// Existence masking: a principal with no membership in the project receives
// ErrNotFound, never a permission reason, so probing an id reveals nothing
// about whether the project exists.
func EvaluateProject(db *gorm.DB, principalID uint, action Action, projectID uint) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	role, err := RoleOf(db, projectID, principalID)
	if err != nil {
		return nil, err
	}
	if role == RoleNone {
		return nil, ErrNotFound
	}

	switch action {
	case ActionReadProject, ActionCreateTask:
		return &project, nil
	case ActionUpdateProject, ActionDeleteProject, ActionManageMembers:
		if role != models.RoleOwner {
			return nil, ErrNotOwner
		}
		return &project, nil
	default:
		return nil, ErrNotOwner
	}
}

// EvaluateTask decides whether the principal may perform action on the task
// and returns the loaded task on allow. The same existence masking as
// EvaluateProject applies: non-members of the task's project get ErrNotFound.
//
// Creator and assignee rights require a current membership; a creator or
// assignee removed from the project falls out at the masking step.
func EvaluateTask(db *gorm.DB, principalID uint, action Action, taskID uint) (*models.Task, error) {
	var task models.Task
	if err := db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	role, err := RoleOf(db, task.ProjectID, principalID)
	if err != nil {
		return nil, err
	}
	if role == RoleNone {
		return nil, ErrNotFound
	}

	if role == models.RoleOwner {
		return &task, nil
	}

	switch action {
	case ActionReadTask, ActionUpdateTask:
		return &task, nil
	case ActionUpdateTaskFlow:
		if task.CreatedBy == principalID {
			return &task, nil
		}
		if task.AssigneeID != nil && *task.AssigneeID == principalID {
			return &task, nil
		}
		return nil, ErrNotAssigneeOrCreator
	case ActionDeleteTask:
		return nil, ErrNotOwner
	default:
		return nil, ErrNotOwner
	}
}
