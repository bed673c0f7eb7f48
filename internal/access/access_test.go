package access

import (
	"path/filepath"
	"testing"

	"github.com/dzhou/taskboard/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Project{}, &models.Membership{}, &models.Task{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return &user
}

// createProject creates a project plus its owner-role membership, mirroring
// what the project service does at creation time.
func createProject(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Project {
	t.Helper()
	project := models.Project{Name: name, OwnerID: owner.ID}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	m := models.Membership{ProjectID: project.ID, UserID: owner.ID, Role: models.RoleOwner}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("create owner membership: %v", err)
	}
	return &project
}

func addMember(t *testing.T, db *gorm.DB, project *models.Project, user *models.User) {
	t.Helper()
	m := models.Membership{ProjectID: project.ID, UserID: user.ID, Role: models.RoleMember}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("add member: %v", err)
	}
}

func createTask(t *testing.T, db *gorm.DB, project *models.Project, creator *models.User, title string) *models.Task {
	t.Helper()
	task := models.Task{
		ProjectID: project.ID,
		Title:     title,
		Status:    models.StatusTodo,
		Priority:  models.PriorityLow,
		CreatedBy: creator.ID,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("create task %s: %v", title, err)
	}
	return &task
}
