package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dzhou/taskboard/internal/middleware"
	"github.com/dzhou/taskboard/internal/models"
	"github.com/dzhou/taskboard/internal/services"
	"github.com/dzhou/taskboard/pkg/response"
	"github.com/gin-gonic/gin"
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

// asUser stands in for AuthRequired so routing tests exercise the handlers and
// the error mapping without JWT plumbing.
func asUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}
}

func newTestRouter(t *testing.T, db *gorm.DB, userID uint) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	projectHandler := NewProjectHandler(db)
	memberHandler := NewProjectMemberHandler(db)
	taskHandler := NewTaskHandler(db)

	api := r.Group("/api", asUser(userID))
	api.GET("/projects/:id", projectHandler.GetByID)
	api.PUT("/projects/:id", projectHandler.Update)
	api.DELETE("/projects/:id/members/:userID", memberHandler.Remove)
	api.GET("/tasks/:id", taskHandler.GetByID)
	api.POST("/tasks", taskHandler.Create)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, *response.Response) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
	return w, &resp
}

func seedProject(t *testing.T, db *gorm.DB) (owner, member, outsider *models.User, project *models.Project) {
	t.Helper()
	owner = &models.User{Username: "owner"}
	member = &models.User{Username: "member"}
	outsider = &models.User{Username: "outsider"}
	for _, u := range []*models.User{owner, member, outsider} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	p, err := services.NewProjectService(db).Create(owner.ID, &services.CreateProjectRequest{Name: "p1"})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	if _, err := services.NewMembershipService(db).Add(owner.ID, p.ID, member.ID); err != nil {
		t.Fatalf("seed membership: %v", err)
	}
	return owner, member, outsider, p
}

func TestProjectRead_MaskedForOutsider(t *testing.T) {
	db := newTestDB(t)
	_, _, outsider, project := seedProject(t, db)
	r := newTestRouter(t, db, outsider.ID)

	// Foreign and nonexistent ids produce byte-identical bodies.
	wForeign, _ := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), "")
	wMissing, _ := doRequest(t, r, http.MethodGet, "/api/projects/424242", "")

	if wForeign.Code != http.StatusNotFound {
		t.Errorf("foreign project status = %d, expected 404", wForeign.Code)
	}
	if wMissing.Code != http.StatusNotFound {
		t.Errorf("missing project status = %d, expected 404", wMissing.Code)
	}
	if wForeign.Body.String() != wMissing.Body.String() {
		t.Errorf("masked responses differ: %q vs %q", wForeign.Body.String(), wMissing.Body.String())
	}
}

func TestProjectUpdate_GenericForbidden(t *testing.T) {
	db := newTestDB(t)
	_, member, _, project := seedProject(t, db)
	r := newTestRouter(t, db, member.ID)

	w, resp := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/projects/%d", project.ID), `{"name":"hijacked"}`)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, expected 403", w.Code)
	}
	// The body must not leak the denial reason.
	if resp.Message != "forbidden" {
		t.Errorf("message = %q, expected the generic %q", resp.Message, "forbidden")
	}
}

func TestMemberRemove_OwnerConflict(t *testing.T) {
	db := newTestDB(t)
	owner, _, _, project := seedProject(t, db)
	r := newTestRouter(t, db, owner.ID)

	w, _ := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/projects/%d/members/%d", project.ID, owner.ID), "")

	if w.Code != http.StatusConflict {
		t.Errorf("removing the owner: status = %d, expected 409", w.Code)
	}
}

func TestTaskCreate_MalformedDueDate(t *testing.T) {
	db := newTestDB(t)
	owner, _, _, project := seedProject(t, db)
	r := newTestRouter(t, db, owner.ID)

	body := fmt.Sprintf(`{"project_id":%d,"title":"t","due_date":"yesterday"}`, project.ID)
	w, resp := doRequest(t, r, http.MethodPost, "/api/tasks", body)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", w.Code)
	}
	if !strings.Contains(resp.Message, "due date") {
		t.Errorf("message = %q, expected a due date validation message", resp.Message)
	}
}

func TestTaskRead_MaskedForOutsider(t *testing.T) {
	db := newTestDB(t)
	owner, _, outsider, project := seedProject(t, db)

	task, err := services.NewTaskService(db).Create(owner.ID, &services.CreateTaskRequest{
		ProjectID: project.ID,
		Title:     "hidden",
	})
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}

	r := newTestRouter(t, db, outsider.ID)
	w, resp := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), "")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", w.Code)
	}
	if resp.Message != "not found" {
		t.Errorf("message = %q, expected %q", resp.Message, "not found")
	}
}
