package services

import (
	"github.com/dzhou/taskboard/internal/access"
	"github.com/dzhou/taskboard/internal/models"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type ProjectListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Name     string `form:"name"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// List returns the projects visible to the principal, paginated. The
// visibility scope is applied before the caller's name filter so filters can
// never reveal the existence of out-of-scope projects.
func (s *ProjectService) List(principalID uint, req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var projects []models.Project
	var total int64

	query := s.db.Model(&models.Project{}).Scopes(access.VisibleProjects(principalID))

	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

// Create creates a project owned by the principal. The owner-role membership
// is created in the same transaction so the one-owner invariant holds from
// the first moment the project is observable.
func (s *ProjectService) Create(principalID uint, req *CreateProjectRequest) (*models.Project, error) {
	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     principalID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		membership := models.Membership{
			ProjectID: project.ID,
			UserID:    principalID,
			Role:      models.RoleOwner,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// Get returns a project the principal may read.
func (s *ProjectService) Get(principalID, projectID uint) (*models.Project, error) {
	return access.EvaluateProject(s.db, principalID, access.ActionReadProject, projectID)
}

// Update updates a project. Owner only; permission check and mutation run in
// one transaction.
func (s *ProjectService) Update(principalID, projectID uint, req *UpdateProjectRequest) (*models.Project, error) {
	var project *models.Project

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		project, err = access.EvaluateProject(tx, principalID, access.ActionUpdateProject, projectID)
		if err != nil {
			return err
		}

		updates := make(map[string]interface{})
		if req.Name != "" {
			updates["name"] = req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(project).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

// Delete destroys a project and cascades to its tasks and memberships. Owner
// only; the whole cascade is one transaction.
func (s *ProjectService) Delete(principalID, projectID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		project, err := access.EvaluateProject(tx, principalID, access.ActionDeleteProject, projectID)
		if err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
}
