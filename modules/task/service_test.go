package task

import (
	"context"
	"errors"
	"strings"
	"testing"

	domain "github.com/AleksKostadinov/todo-app/domain/task"
	"github.com/AleksKostadinov/todo-app/modules/database"
)

func newTestService(t *testing.T) *TaskService {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", false)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return NewTaskService(database.NewGormTaskRepository(db), nil, &mockLogger{})
}

func mustCreate(t *testing.T, svc *TaskService, owner, title string) *domain.Task {
	t.Helper()
	created, err := svc.CreateTask(context.Background(), owner, CreateInput{Title: title})
	if err != nil {
		t.Fatalf("CreateTask(%q) error = %v", title, err)
	}
	return created
}

func TestTaskService_CreateTask(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "alice", CreateInput{Title: "  Buy milk  "})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if created.ID == 0 {
		t.Error("CreateTask() did not assign an ID")
	}
	if created.Title != "Buy milk" {
		t.Errorf("Title = %q, want %q", created.Title, "Buy milk")
	}
	if created.OwnerID != "alice" {
		t.Errorf("OwnerID = %q, want %q", created.OwnerID, "alice")
	}
	if created.Complete {
		t.Error("new task is complete")
	}
	if created.CreatedDate.IsZero() {
		t.Error("CreatedDate not set")
	}
}

func TestTaskService_CreateTaskValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, "alice", "Buy milk")

	tests := []struct {
		name    string
		owner   string
		title   string
		wantErr error
	}{
		{name: "empty title", owner: "alice", title: "", wantErr: domain.ErrTitleRequired},
		{name: "blank title", owner: "alice", title: "   ", wantErr: domain.ErrTitleRequired},
		{name: "too long", owner: "alice", title: strings.Repeat("x", domain.MaxTitleLength+1), wantErr: domain.ErrTitleTooLong},
		{name: "duplicate title", owner: "alice", title: "Buy milk", wantErr: domain.ErrTitleTaken},
		{name: "duplicate across owners", owner: "bob", title: "Buy milk", wantErr: domain.ErrTitleTaken},
		{name: "no owner", owner: "", title: "Walk dog", wantErr: ErrOwnerRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateTask(ctx, tt.owner, CreateInput{Title: tt.title}); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateTask() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskService_ListTasks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, "alice", "First")
	second := mustCreate(t, svc, "alice", "Second")
	mustCreate(t, svc, "bob", "Bob's task")

	if _, err := svc.UpdateTask(ctx, second.ID, "alice", domain.Changes{Title: "Second", Complete: true}); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}

	list, err := svc.ListTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(list.Tasks) != 2 {
		t.Fatalf("len(Tasks) = %d, want 2", len(list.Tasks))
	}
	if list.Tasks[0].Title != "Second" {
		t.Errorf("Tasks[0].Title = %q, want newest first", list.Tasks[0].Title)
	}
	if list.Incomplete != 1 {
		t.Errorf("Incomplete = %d, want 1", list.Incomplete)
	}
	for _, task := range list.Tasks {
		if task.OwnerID != "alice" {
			t.Errorf("list for alice contains task owned by %q", task.OwnerID)
		}
	}

	empty, err := svc.ListTasks(ctx, "carol")
	if err != nil {
		t.Fatalf("ListTasks(carol) error = %v", err)
	}
	if empty.Tasks == nil || len(empty.Tasks) != 0 || empty.Incomplete != 0 {
		t.Errorf("ListTasks(carol) = %+v, want empty non-nil list", empty)
	}
}

func TestTaskService_Ownership(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	bobs := mustCreate(t, svc, "bob", "Bob's task")

	if _, err := svc.GetTask(ctx, bobs.ID, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetTask() error = %v, want %v", err, domain.ErrNotFound)
	}
	if _, err := svc.UpdateTask(ctx, bobs.ID, "alice", domain.Changes{Title: "Hijacked"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("UpdateTask() error = %v, want %v", err, domain.ErrNotFound)
	}
	if _, err := svc.UpdateTask(ctx, bobs.ID, "alice", domain.Changes{Title: ""}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("UpdateTask(invalid) error = %v, want not-found before validation", err)
	}
	if err := svc.DeleteTask(ctx, bobs.ID, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteTask() error = %v, want %v", err, domain.ErrNotFound)
	}
	if _, err := svc.GetTask(ctx, bobs.ID, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetTask(no owner) error = %v, want %v", err, domain.ErrNotFound)
	}

	still, err := svc.GetTask(ctx, bobs.ID, "bob")
	if err != nil {
		t.Fatalf("GetTask(bob) error = %v", err)
	}
	if still.Title != "Bob's task" {
		t.Errorf("bob's task was modified: %q", still.Title)
	}
}

func TestTaskService_UpdateTask(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	created := mustCreate(t, svc, "alice", "Buy milk")
	mustCreate(t, svc, "alice", "Walk dog")

	updated, err := svc.UpdateTask(ctx, created.ID, "alice", domain.Changes{
		Title:       " Buy oat milk ",
		Description: "2 litres",
		Complete:    true,
	})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if updated.Title != "Buy oat milk" || updated.Description != "2 litres" || !updated.Complete {
		t.Errorf("UpdateTask() = %+v", updated)
	}
	if !updated.CreatedDate.Equal(created.CreatedDate) {
		t.Errorf("CreatedDate changed from %v to %v", created.CreatedDate, updated.CreatedDate)
	}

	if _, err := svc.UpdateTask(ctx, created.ID, "alice", domain.Changes{Title: "Buy oat milk"}); err != nil {
		t.Errorf("keeping its own title failed: %v", err)
	}
	if _, err := svc.UpdateTask(ctx, created.ID, "alice", domain.Changes{Title: "Walk dog"}); !errors.Is(err, domain.ErrTitleTaken) {
		t.Errorf("UpdateTask(taken title) error = %v, want %v", err, domain.ErrTitleTaken)
	}
	if _, err := svc.UpdateTask(ctx, created.ID, "alice", domain.Changes{Title: strings.Repeat("x", 51)}); !errors.Is(err, domain.ErrTitleTooLong) {
		t.Errorf("UpdateTask(long title) error = %v, want %v", err, domain.ErrTitleTooLong)
	}
}

func TestTaskService_ToggleComplete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	created := mustCreate(t, svc, "alice", "Buy milk")

	for _, complete := range []bool{true, false, true, false} {
		updated, err := svc.UpdateTask(ctx, created.ID, "alice", domain.Changes{Title: "Buy milk", Complete: complete})
		if err != nil {
			t.Fatalf("UpdateTask(complete=%v) error = %v", complete, err)
		}
		got, err := svc.GetTask(ctx, created.ID, "alice")
		if err != nil {
			t.Fatalf("GetTask() error = %v", err)
		}
		if updated.Complete != complete || got.Complete != complete {
			t.Errorf("complete = %v/%v, want %v", updated.Complete, got.Complete, complete)
		}
	}
}

func TestTaskService_DeleteTask(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	created := mustCreate(t, svc, "alice", "Buy milk")

	if err := svc.DeleteTask(ctx, created.ID, "alice"); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if _, err := svc.GetTask(ctx, created.ID, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetTask() after delete error = %v, want %v", err, domain.ErrNotFound)
	}
	if err := svc.DeleteTask(ctx, created.ID, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second DeleteTask() error = %v, want %v", err, domain.ErrNotFound)
	}
}

func TestTaskService_DeleteCompleted(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	done := mustCreate(t, svc, "alice", "Done")
	mustCreate(t, svc, "alice", "Open")
	bobsDone := mustCreate(t, svc, "bob", "Bob done")

	for _, tc := range []struct {
		task  *domain.Task
		owner string
	}{{done, "alice"}, {bobsDone, "bob"}} {
		if _, err := svc.UpdateTask(ctx, tc.task.ID, tc.owner, domain.Changes{Title: tc.task.Title, Complete: true}); err != nil {
			t.Fatalf("UpdateTask() error = %v", err)
		}
	}

	n, err := svc.DeleteCompleted(ctx, "alice")
	if err != nil {
		t.Fatalf("DeleteCompleted() error = %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteCompleted() = %d, want 1", n)
	}

	n, err = svc.DeleteCompleted(ctx, "alice")
	if err != nil {
		t.Fatalf("second DeleteCompleted() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second DeleteCompleted() = %d, want 0", n)
	}

	list, err := svc.ListTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(list.Tasks) != 1 || list.Tasks[0].Title != "Open" {
		t.Errorf("remaining tasks = %+v, want only Open", list.Tasks)
	}

	if _, err := svc.GetTask(ctx, bobsDone.ID, "bob"); err != nil {
		t.Errorf("bob's completed task was removed: %v", err)
	}
}

func TestTaskService_RequiresOwner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ListTasks(ctx, ""); !errors.Is(err, ErrOwnerRequired) {
		t.Errorf("ListTasks(\"\") error = %v, want %v", err, ErrOwnerRequired)
	}
	if _, err := svc.DeleteCompleted(ctx, ""); !errors.Is(err, ErrOwnerRequired) {
		t.Errorf("DeleteCompleted(\"\") error = %v, want %v", err, ErrOwnerRequired)
	}
}
