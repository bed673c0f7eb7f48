package services

import (
	"fmt"
	"time"

	"github.com/dzhou/taskboard/internal/access"
	"github.com/dzhou/taskboard/internal/models"
	"gorm.io/gorm"
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

type TaskListRequest struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	ProjectID *uint  `form:"project_id"`
	Status    string `form:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority  string `form:"priority" binding:"omitempty,oneof=low medium high"`
}

type TaskListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.Task `json:"items"`
}

type CreateTaskRequest struct {
	ProjectID   uint   `json:"project_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	AssigneeID  *uint  `json:"assignee_id"`
	DueDate     string `json:"due_date"` // YYYY-MM-DD
}

type UpdateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"due_date"` // YYYY-MM-DD, empty string clears
}

// AssignTaskRequest sets or clears a task's assignee. A null user_id
// unassigns the task.
type AssignTaskRequest struct {
	UserID *uint `json:"user_id"`
}

func parseDueDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", value, access.ErrInvalidDueDate)
	}
	return &d, nil
}

// List returns the tasks visible to the principal. The visibility scope runs
// before the project/status/priority filters: a filter on a foreign project
// id yields an empty page, indistinguishable from a project with no tasks.
func (s *TaskService) List(principalID uint, req *TaskListRequest) (*TaskListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var tasks []models.Task
	var total int64

	query := s.db.Model(&models.Task{}).Scopes(access.VisibleTasks(principalID))

	if req.ProjectID != nil {
		query = query.Where("project_id = ?", *req.ProjectID)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Priority != "" {
		query = query.Where("priority = ?", req.Priority)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").
		Preload("Assignee").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return &TaskListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    tasks,
	}, nil
}

// Create creates a task in a project the principal is a member of.
func (s *TaskService) Create(principalID uint, req *CreateTaskRequest) (*models.Task, error) {
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	if req.Status == "" {
		req.Status = models.StatusTodo
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	task := models.Task{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     dueDate,
		CreatedBy:   principalID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := access.EvaluateProject(tx, principalID, access.ActionCreateTask, req.ProjectID); err != nil {
			return err
		}
		if err := access.ValidateStatus(task.Status); err != nil {
			return err
		}
		if err := access.ValidatePriority(task.Priority); err != nil {
			return err
		}
		if req.AssigneeID != nil {
			if err := access.ValidateAssignee(tx, req.ProjectID, *req.AssigneeID); err != nil {
				return err
			}
			task.AssigneeID = req.AssigneeID
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// Get returns a task the principal may read.
func (s *TaskService) Get(principalID, taskID uint) (*models.Task, error) {
	task, err := access.EvaluateTask(s.db, principalID, access.ActionReadTask, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Preload("Assignee").First(task, task.ID).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// Update updates task fields. Title, description, priority, and due date are
// open to any project member; a status change additionally requires the
// principal to be the owner, the creator, or the current assignee. Check and
// mutation share one transaction.
func (s *TaskService) Update(principalID, taskID uint, req *UpdateTaskRequest) (*models.Task, error) {
	var task *models.Task

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		task, err = access.EvaluateTask(tx, principalID, access.ActionUpdateTask, taskID)
		if err != nil {
			return err
		}

		updates := make(map[string]interface{})

		if req.Title != "" {
			updates["title"] = req.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Priority != "" {
			if err := access.ValidatePriority(req.Priority); err != nil {
				return err
			}
			updates["priority"] = req.Priority
		}
		if req.DueDate != nil {
			dueDate, err := parseDueDate(*req.DueDate)
			if err != nil {
				return err
			}
			updates["due_date"] = dueDate
		}
		if req.Status != "" && req.Status != task.Status {
			if _, err := access.EvaluateTask(tx, principalID, access.ActionUpdateTaskFlow, taskID); err != nil {
				return err
			}
			if err := access.ValidateStatus(req.Status); err != nil {
				return err
			}
			updates["status"] = req.Status
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(task).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// Assign sets or clears the task's assignee. Owner, creator, or current
// assignee only. A non-nil assignee must hold a current membership in the
// task's project.
func (s *TaskService) Assign(principalID, taskID uint, req *AssignTaskRequest) (*models.Task, error) {
	var task *models.Task

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		task, err = access.EvaluateTask(tx, principalID, access.ActionUpdateTaskFlow, taskID)
		if err != nil {
			return err
		}

		if req.UserID != nil {
			if err := access.ValidateAssignee(tx, task.ProjectID, *req.UserID); err != nil {
				return err
			}
		}
		return tx.Model(task).Update("assignee_id", req.UserID).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Assignee").First(task, task.ID).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// Delete deletes a task. Project owner only.
func (s *TaskService) Delete(principalID, taskID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		task, err := access.EvaluateTask(tx, principalID, access.ActionDeleteTask, taskID)
		if err != nil {
			return err
		}
		return tx.Delete(task).Error
	})
}
