package service

import (
	"context"

	"github.com/arvel/taskhub-go/internal/core/domain"
)

// TaskRepository defines the storage interface for task operations.
//
// Every read and mutation is filtered by both the task ID and the owner ID;
// a task owned by another user is indistinguishable from a nonexistent one.
// UpdateTask and DeleteTask must execute their read-then-write filter as a
// single transactional unit.
type TaskRepository interface {
	// CreateTask persists a new task and assigns its ID.
	CreateTask(ctx context.Context, task *domain.Task) error

	// GetTask retrieves a task by ID for the given owner.
	// Returns domain.ErrTaskNotFound when absent or owned by someone else.
	GetTask(ctx context.Context, ownerID, taskID uint64) (*domain.Task, error)

	// ListTasks retrieves all tasks for the given owner in insertion order.
	ListTasks(ctx context.Context, ownerID uint64) ([]*domain.Task, error)

	// UpdateTask applies a patch to a task atomically with its ownership
	// check and returns the updated task.
	// Returns domain.ErrTaskNotFound when absent or owned by someone else.
	UpdateTask(ctx context.Context, ownerID, taskID uint64, patch *domain.TaskPatch) (*domain.Task, error)

	// DeleteTask deletes a task atomically with its ownership check.
	// Returns domain.ErrTaskNotFound when absent or owned by someone else,
	// including on repeated deletes of the same ID.
	DeleteTask(ctx context.Context, ownerID, taskID uint64) error
}

// TaskService handles task lifecycle operations for a single owner identity.
type TaskService struct {
	repo TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// CreateTaskRequest contains parameters for task creation.
type CreateTaskRequest struct {
	OwnerID     uint64
	Title       string  // Required, non-empty
	Description *string // Optional
}

// Create creates a new task with status pending.
func (s *TaskService) Create(ctx context.Context, req *CreateTaskRequest) (*domain.Task, error) {
	task, err := domain.NewTask(req.OwnerID, req.Title, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// List returns all tasks owned by the given user.
func (s *TaskService) List(ctx context.Context, ownerID uint64) ([]*domain.Task, error) {
	return s.repo.ListTasks(ctx, ownerID)
}

// Get returns a single task owned by the given user.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID uint64) (*domain.Task, error) {
	return s.repo.GetTask(ctx, ownerID, taskID)
}

// UpdateTaskRequest contains parameters for a partial task update.
type UpdateTaskRequest struct {
	OwnerID uint64
	TaskID  uint64
	Patch   domain.TaskPatch
}

// Update applies a partial update. Only fields present in the patch are
// overwritten; updated_at is refreshed on every successful call, even when
// the patch is empty.
func (s *TaskService) Update(ctx context.Context, req *UpdateTaskRequest) (*domain.Task, error) {
	if err := req.Patch.Validate(); err != nil {
		return nil, err
	}

	return s.repo.UpdateTask(ctx, req.OwnerID, req.TaskID, &req.Patch)
}

// Delete removes a task. Deleting an already-deleted ID reports
// domain.ErrTaskNotFound rather than success.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID uint64) error {
	return s.repo.DeleteTask(ctx, ownerID, taskID)
}
