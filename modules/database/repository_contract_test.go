package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AleksKostadinov/todo-app/domain/task"
	"github.com/AleksKostadinov/todo-app/domain/user"
)

// runTaskRepositoryContract exercises the behaviour every task.Repository
// implementation must share. prefix keeps titles unique across runs against
// a persistent database.
func runTaskRepositoryContract(t *testing.T, stores Stores, prefix string) {
	t.Helper()
	ctx := context.Background()

	alice := &user.User{ID: prefix + "alice", Username: prefix + "alice", PasswordHash: "x"}
	bob := &user.User{ID: prefix + "bob", Username: prefix + "bob", PasswordHash: "x"}
	for _, u := range []*user.User{alice, bob} {
		if err := stores.Users.Create(ctx, u); err != nil {
			t.Fatalf("Users.Create(%s) error = %v", u.Username, err)
		}
	}

	repo := stores.Tasks
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	newTask := func(title, owner string, offset time.Duration) *task.Task {
		t.Helper()
		tk := &task.Task{Title: prefix + title, OwnerID: owner, CreatedDate: base.Add(offset)}
		if err := repo.Create(ctx, tk); err != nil {
			t.Fatalf("Create(%s) error = %v", title, err)
		}
		if tk.ID == 0 {
			t.Fatalf("Create(%s) did not assign an ID", title)
		}
		return tk
	}

	older := newTask("older", alice.ID, 0)
	newer := newTask("newer", alice.ID, time.Minute)
	bobs := newTask("bobs", bob.ID, 2*time.Minute)

	t.Run("duplicate title rejected globally", func(t *testing.T) {
		err := repo.Create(ctx, &task.Task{Title: prefix + "bobs", OwnerID: alice.ID, CreatedDate: base})
		if !errors.Is(err, task.ErrTitleTaken) {
			t.Fatalf("Create(duplicate) error = %v, want %v", err, task.ErrTitleTaken)
		}
		list, err := repo.ListByOwner(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListByOwner() error = %v", err)
		}
		if len(list) != 2 {
			t.Errorf("alice has %d tasks after rejected duplicate, want 2", len(list))
		}
	})

	t.Run("list is owner scoped and newest first", func(t *testing.T) {
		list, err := repo.ListByOwner(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListByOwner() error = %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("len(list) = %d, want 2", len(list))
		}
		if list[0].ID != newer.ID || list[1].ID != older.ID {
			t.Errorf("order = [%d %d], want [%d %d]", list[0].ID, list[1].ID, newer.ID, older.ID)
		}
		for _, tk := range list {
			if tk.ID == bobs.ID {
				t.Error("alice's list contains bob's task")
			}
		}
	})

	t.Run("get by other owner is not found", func(t *testing.T) {
		if _, err := repo.GetByIDAndOwner(ctx, bobs.ID, alice.ID); !errors.Is(err, task.ErrNotFound) {
			t.Errorf("GetByIDAndOwner(bob's task, alice) error = %v, want %v", err, task.ErrNotFound)
		}
		if _, err := repo.GetByIDAndOwner(ctx, 999999, alice.ID); !errors.Is(err, task.ErrNotFound) {
			t.Errorf("GetByIDAndOwner(missing) error = %v, want %v", err, task.ErrNotFound)
		}
		got, err := repo.GetByIDAndOwner(ctx, bobs.ID, bob.ID)
		if err != nil {
			t.Fatalf("GetByIDAndOwner(own) error = %v", err)
		}
		if got.Title != prefix+"bobs" {
			t.Errorf("Title = %q, want %q", got.Title, prefix+"bobs")
		}
	})

	t.Run("update writes fields and keeps created date", func(t *testing.T) {
		updated, err := repo.UpdateByIDAndOwner(ctx, older.ID, alice.ID, task.Changes{
			Title:       prefix + "older renamed",
			Description: "with notes",
			Complete:    true,
		})
		if err != nil {
			t.Fatalf("UpdateByIDAndOwner() error = %v", err)
		}
		if updated.Title != prefix+"older renamed" || updated.Description != "with notes" || !updated.Complete {
			t.Errorf("updated = %+v", updated)
		}
		if !updated.CreatedDate.Equal(older.CreatedDate) {
			t.Errorf("CreatedDate = %v, want %v", updated.CreatedDate, older.CreatedDate)
		}
		if updated.OwnerID != alice.ID {
			t.Errorf("OwnerID = %q, want %q", updated.OwnerID, alice.ID)
		}
	})

	t.Run("update toggles complete back", func(t *testing.T) {
		updated, err := repo.UpdateByIDAndOwner(ctx, older.ID, alice.ID, task.Changes{
			Title: prefix + "older renamed",
		})
		if err != nil {
			t.Fatalf("UpdateByIDAndOwner() error = %v", err)
		}
		if updated.Complete {
			t.Error("Complete = true after writing false")
		}
	})

	t.Run("update of other owner's task is not found", func(t *testing.T) {
		_, err := repo.UpdateByIDAndOwner(ctx, bobs.ID, alice.ID, task.Changes{Title: prefix + "hijack"})
		if !errors.Is(err, task.ErrNotFound) {
			t.Fatalf("UpdateByIDAndOwner(bob's task, alice) error = %v, want %v", err, task.ErrNotFound)
		}
		got, err := repo.GetByIDAndOwner(ctx, bobs.ID, bob.ID)
		if err != nil {
			t.Fatalf("GetByIDAndOwner() error = %v", err)
		}
		if got.Title != prefix+"bobs" {
			t.Errorf("bob's task title changed to %q", got.Title)
		}
	})

	t.Run("update to a taken title", func(t *testing.T) {
		_, err := repo.UpdateByIDAndOwner(ctx, newer.ID, alice.ID, task.Changes{Title: prefix + "bobs"})
		if !errors.Is(err, task.ErrTitleTaken) {
			t.Errorf("UpdateByIDAndOwner(taken title) error = %v, want %v", err, task.ErrTitleTaken)
		}
	})

	t.Run("title exists", func(t *testing.T) {
		exists, err := repo.TitleExists(ctx, prefix+"bobs", 0)
		if err != nil || !exists {
			t.Errorf("TitleExists(bobs, 0) = %v, %v; want true, nil", exists, err)
		}
		exists, err = repo.TitleExists(ctx, prefix+"bobs", bobs.ID)
		if err != nil || exists {
			t.Errorf("TitleExists(bobs, self) = %v, %v; want false, nil", exists, err)
		}
	})

	t.Run("incomplete count and bulk delete", func(t *testing.T) {
		if _, err := repo.UpdateByIDAndOwner(ctx, bobs.ID, bob.ID, task.Changes{Title: prefix + "bobs", Complete: true}); err != nil {
			t.Fatalf("complete bob's task: %v", err)
		}
		if _, err := repo.UpdateByIDAndOwner(ctx, newer.ID, alice.ID, task.Changes{Title: prefix + "newer", Complete: true}); err != nil {
			t.Fatalf("complete alice's task: %v", err)
		}

		count, err := repo.CountIncompleteByOwner(ctx, alice.ID)
		if err != nil {
			t.Fatalf("CountIncompleteByOwner() error = %v", err)
		}
		if count != 1 {
			t.Errorf("incomplete = %d, want 1", count)
		}

		deleted, err := repo.DeleteCompletedByOwner(ctx, alice.ID)
		if err != nil {
			t.Fatalf("DeleteCompletedByOwner() error = %v", err)
		}
		if deleted != 1 {
			t.Errorf("deleted = %d, want 1", deleted)
		}

		deleted, err = repo.DeleteCompletedByOwner(ctx, alice.ID)
		if err != nil {
			t.Fatalf("second DeleteCompletedByOwner() error = %v", err)
		}
		if deleted != 0 {
			t.Errorf("second run deleted = %d, want 0", deleted)
		}

		if _, err := repo.GetByIDAndOwner(ctx, bobs.ID, bob.ID); err != nil {
			t.Errorf("bob's completed task was removed: %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.DeleteByIDAndOwner(ctx, bobs.ID, alice.ID); !errors.Is(err, task.ErrNotFound) {
			t.Errorf("DeleteByIDAndOwner(bob's task, alice) error = %v, want %v", err, task.ErrNotFound)
		}
		if err := repo.DeleteByIDAndOwner(ctx, older.ID, alice.ID); err != nil {
			t.Fatalf("DeleteByIDAndOwner() error = %v", err)
		}
		if err := repo.DeleteByIDAndOwner(ctx, older.ID, alice.ID); !errors.Is(err, task.ErrNotFound) {
			t.Errorf("second DeleteByIDAndOwner() error = %v, want %v", err, task.ErrNotFound)
		}
	})
}

func runUserRepositoryContract(t *testing.T, repo user.Repository, prefix string) {
	t.Helper()
	ctx := context.Background()

	u := &user.User{ID: prefix + "u1", Username: prefix + "carol1", PasswordHash: "hash"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dup := &user.User{ID: prefix + "u2", Username: prefix + "carol1", PasswordHash: "hash"}
	if err := repo.Create(ctx, dup); !errors.Is(err, user.ErrUserExists) {
		t.Errorf("Create(duplicate) error = %v, want %v", err, user.ErrUserExists)
	}

	got, err := repo.FindByUsername(ctx, prefix+"carol1")
	if err != nil {
		t.Fatalf("FindByUsername() error = %v", err)
	}
	if got.ID != u.ID || got.PasswordHash != "hash" {
		t.Errorf("FindByUsername() = %+v", got)
	}

	if _, err := repo.FindByID(ctx, u.ID); err != nil {
		t.Errorf("FindByID() error = %v", err)
	}
	if _, err := repo.FindByID(ctx, prefix+"nobody"); !errors.Is(err, user.ErrUserNotFound) {
		t.Errorf("FindByID(missing) error = %v, want %v", err, user.ErrUserNotFound)
	}

	exists, err := repo.UsernameExists(ctx, prefix+"carol1")
	if err != nil || !exists {
		t.Errorf("UsernameExists(carol1) = %v, %v", exists, err)
	}
	exists, err = repo.UsernameExists(ctx, prefix+"dave1")
	if err != nil || exists {
		t.Errorf("UsernameExists(dave1) = %v, %v", exists, err)
	}
}
