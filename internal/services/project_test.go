package services

import (
	"errors"
	"testing"

	"github.com/dzhou/taskboard/internal/access"
	"github.com/dzhou/taskboard/internal/models"
)

func TestProjectService_Create_OwnerMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)
	alice := createUser(t, db, "alice")

	project, err := svc.Create(alice.ID, &CreateProjectRequest{Name: "launch"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if project.OwnerID != alice.ID {
		t.Errorf("OwnerID = %d, expected %d", project.OwnerID, alice.ID)
	}

	role, err := access.RoleOf(db, project.ID, alice.ID)
	if err != nil {
		t.Fatalf("RoleOf() error = %v", err)
	}
	if role != models.RoleOwner {
		t.Errorf("creator's role = %q, expected owner membership to be auto-created", role)
	}

	var count int64
	db.Model(&models.Membership{}).Where("project_id = ? AND role = ?", project.ID, models.RoleOwner).Count(&count)
	if count != 1 {
		t.Errorf("owner memberships = %d, expected exactly 1", count)
	}
}

func TestProjectService_List_MembershipScoped(t *testing.T) {
	db := newTestDB(t)
	projectSvc := NewProjectService(db)
	memberSvc := NewMembershipService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	solo, _ := projectSvc.Create(alice.ID, &CreateProjectRequest{Name: "solo"})
	shared, _ := projectSvc.Create(alice.ID, &CreateProjectRequest{Name: "shared"})
	if _, err := memberSvc.Add(alice.ID, shared.ID, bob.ID); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	listFor := func(userID uint) map[uint]bool {
		resp, err := projectSvc.List(userID, &ProjectListRequest{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		ids := make(map[uint]bool)
		for _, p := range resp.Items {
			ids[p.ID] = true
		}
		return ids
	}

	aliceSees := listFor(alice.ID)
	if !aliceSees[solo.ID] || !aliceSees[shared.ID] {
		t.Error("alice should list both projects she owns")
	}

	bobSees := listFor(bob.ID)
	if !bobSees[shared.ID] {
		t.Error("bob should list the project he is a member of")
	}
	if bobSees[solo.ID] {
		t.Error("bob should not list alice's solo project")
	}

	if carolSees := listFor(carol.ID); len(carolSees) != 0 {
		t.Errorf("carol should list nothing, got %d projects", len(carolSees))
	}
}

func TestProjectService_Get_Masked(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	project, _ := svc.Create(alice.ID, &CreateProjectRequest{Name: "private"})

	_, errForeign := svc.Get(bob.ID, project.ID)
	_, errMissing := svc.Get(bob.ID, 9999)

	if !errors.Is(errForeign, access.ErrNotFound) || !errors.Is(errMissing, access.ErrNotFound) {
		t.Errorf("foreign and missing must both be ErrNotFound, got %v and %v", errForeign, errMissing)
	}
}

func TestProjectService_Update_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	projectSvc := NewProjectService(db)
	memberSvc := NewMembershipService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	project, _ := projectSvc.Create(alice.ID, &CreateProjectRequest{Name: "old"})
	memberSvc.Add(alice.ID, project.ID, bob.ID)

	if _, err := projectSvc.Update(bob.ID, project.ID, &UpdateProjectRequest{Name: "hijacked"}); !errors.Is(err, access.ErrNotOwner) {
		t.Errorf("member update: error = %v, expected ErrNotOwner", err)
	}

	updated, err := projectSvc.Update(alice.ID, project.ID, &UpdateProjectRequest{Name: "new"})
	if err != nil {
		t.Fatalf("owner update: error = %v", err)
	}

	var reloaded models.Project
	db.First(&reloaded, updated.ID)
	if reloaded.Name != "new" {
		t.Errorf("name = %q, expected %q", reloaded.Name, "new")
	}
}

func TestProjectService_Delete_Cascades(t *testing.T) {
	db := newTestDB(t)
	projectSvc := NewProjectService(db)
	memberSvc := NewMembershipService(db)
	taskSvc := NewTaskService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	project, _ := projectSvc.Create(alice.ID, &CreateProjectRequest{Name: "doomed"})
	memberSvc.Add(alice.ID, project.ID, bob.ID)
	task, err := taskSvc.Create(alice.ID, &CreateTaskRequest{ProjectID: project.ID, Title: "t"})
	if err != nil {
		t.Fatalf("Create task: %v", err)
	}

	if err := projectSvc.Delete(bob.ID, project.ID); !errors.Is(err, access.ErrNotOwner) {
		t.Fatalf("member delete: error = %v, expected ErrNotOwner", err)
	}

	if err := projectSvc.Delete(alice.ID, project.ID); err != nil {
		t.Fatalf("owner delete: error = %v", err)
	}

	// Subsequent reads by anyone return not-found.
	if _, err := projectSvc.Get(alice.ID, project.ID); !errors.Is(err, access.ErrNotFound) {
		t.Errorf("owner read after delete: error = %v, expected ErrNotFound", err)
	}
	if _, err := taskSvc.Get(bob.ID, task.ID); !errors.Is(err, access.ErrNotFound) {
		t.Errorf("member task read after delete: error = %v, expected ErrNotFound", err)
	}

	var memberships int64
	db.Model(&models.Membership{}).Where("project_id = ?", project.ID).Count(&memberships)
	if memberships != 0 {
		t.Errorf("memberships after delete = %d, expected 0", memberships)
	}

	var tasks int64
	db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&tasks)
	if tasks != 0 {
		t.Errorf("tasks after delete = %d, expected 0", tasks)
	}
}
