package service

import (
	"context"
	"errors"
	"testing"

	"github.com/arvel/taskhub-go/internal/core/domain"
	"github.com/arvel/taskhub-go/internal/storage/memory"
)

func strPtr(s string) *string { return &s }

func TestTaskService_Create(t *testing.T) {
	svc := NewTaskService(memory.NewStore())
	ctx := context.Background()

	task, err := svc.Create(ctx, &CreateTaskRequest{OwnerID: 1, Title: "write report"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.ID == 0 {
		t.Error("created task has no ID")
	}
	if task.Status != domain.StatusPending {
		t.Errorf("status = %q, want %q", task.Status, domain.StatusPending)
	}
	if task.Description != nil {
		t.Errorf("description = %v, want nil", *task.Description)
	}

	withDesc, err := svc.Create(ctx, &CreateTaskRequest{
		OwnerID:     1,
		Title:       "buy milk",
		Description: strPtr("two liters"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if withDesc.Description == nil || *withDesc.Description != "two liters" {
		t.Errorf("description = %v, want two liters", withDesc.Description)
	}

	if _, err := svc.Create(ctx, &CreateTaskRequest{OwnerID: 1, Title: ""}); err == nil {
		t.Error("Create() with empty title succeeded")
	}
}

func TestTaskService_Update(t *testing.T) {
	svc := NewTaskService(memory.NewStore())
	ctx := context.Background()

	task, err := svc.Create(ctx, &CreateTaskRequest{OwnerID: 1, Title: "write report"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	done := domain.StatusCompleted
	updated, err := svc.Update(ctx, &UpdateTaskRequest{
		OwnerID: 1,
		TaskID:  task.ID,
		Patch:   domain.TaskPatch{Status: &done},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Status != domain.StatusCompleted {
		t.Errorf("status = %q, want completed", updated.Status)
	}
	if updated.Title != "write report" {
		t.Errorf("title = %q, want unchanged", updated.Title)
	}

	// Patch validation runs before any repository access.
	bad := domain.Status("archived")
	if _, err := svc.Update(ctx, &UpdateTaskRequest{
		OwnerID: 1,
		TaskID:  task.ID,
		Patch:   domain.TaskPatch{Status: &bad},
	}); err == nil {
		t.Error("Update() with invalid status succeeded")
	}

	if _, err := svc.Update(ctx, &UpdateTaskRequest{
		OwnerID: 1,
		TaskID:  task.ID,
		Patch:   domain.TaskPatch{Title: strPtr("")},
	}); err == nil {
		t.Error("Update() with empty title succeeded")
	}

	// Non-owned tasks are reported as missing.
	if _, err := svc.Update(ctx, &UpdateTaskRequest{
		OwnerID: 2,
		TaskID:  task.ID,
		Patch:   domain.TaskPatch{Status: &done},
	}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("cross-owner Update() error = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskService_Delete(t *testing.T) {
	svc := NewTaskService(memory.NewStore())
	ctx := context.Background()

	task, err := svc.Create(ctx, &CreateTaskRequest{OwnerID: 1, Title: "write report"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, 2, task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("cross-owner Delete() error = %v, want ErrTaskNotFound", err)
	}

	if err := svc.Delete(ctx, 1, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Repeated delete of the same ID is not idempotent success.
	if err := svc.Delete(ctx, 1, task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("repeat Delete() error = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskService_ListAndGet(t *testing.T) {
	svc := NewTaskService(memory.NewStore())
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := svc.Create(ctx, &CreateTaskRequest{OwnerID: 1, Title: title}); err != nil {
			t.Fatalf("Create(%q) error = %v", title, err)
		}
	}

	tasks, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len(tasks) = %d, want 3", len(tasks))
	}
	for i, want := range []string{"first", "second", "third"} {
		if tasks[i].Title != want {
			t.Errorf("tasks[%d].Title = %q, want %q", i, tasks[i].Title, want)
		}
	}

	got, err := svc.Get(ctx, 1, tasks[1].ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "second" {
		t.Errorf("title = %q, want second", got.Title)
	}

	if _, err := svc.Get(ctx, 2, tasks[1].ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("cross-owner Get() error = %v, want ErrTaskNotFound", err)
	}

	empty, err := svc.List(ctx, 99)
	if err != nil {
		t.Fatalf("List(empty owner) error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("List(empty owner) = %v, want non-nil empty slice", empty)
	}
}
