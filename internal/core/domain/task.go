// Package domain defines the core domain models for TaskHub.
package domain

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a task.
//
// Transitions are free-form: any status may be set via update at any time.
type Status string

const (
	// StatusPending is the initial status of every task.
	StatusPending Status = "pending"

	// StatusInProgress marks a task that has been started.
	StatusInProgress Status = "in_progress"

	// StatusCompleted marks a finished task.
	StatusCompleted Status = "completed"
)

// ValidStatuses returns all valid task statuses.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// IsValidStatus checks if a string is a valid task status.
func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// MaxTitleLength is the maximum accepted task title length.
const MaxTitleLength = 256

// Task represents a task owned by exactly one user.
type Task struct {
	// ID is the unique task identifier.
	ID uint64 `json:"id"`

	// OwnerID references the owning user. Every read and mutation is
	// filtered by both ID and OwnerID.
	OwnerID uint64 `json:"owner_id"`

	// Title is the required task title.
	Title string `json:"title"`

	// Description is optional; nil means unset.
	Description *string `json:"description"`

	// Status is the task lifecycle state.
	Status Status `json:"status"`

	// CreatedAt is the creation timestamp (Unix MS).
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is refreshed on every successful mutation (Unix MS).
	UpdatedAt int64 `json:"updated_at"`
}

// NewTask creates a Task with status pending and creation timestamps set.
// The ID is assigned by the store on insert.
func NewTask(ownerID uint64, title string, description *string) (*Task, error) {
	now := currentTimeMillis()
	t := &Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate validates the task fields.
func (t *Task) Validate() error {
	var violations []string

	if t.OwnerID == 0 {
		violations = append(violations, "owner_id is required")
	}
	if t.Title == "" {
		violations = append(violations, "title is required")
	}
	if len(t.Title) > MaxTitleLength {
		violations = append(violations, "title exceeds 256 characters")
	}
	if !IsValidStatus(string(t.Status)) {
		violations = append(violations, "invalid status")
	}

	if len(violations) > 0 {
		return ErrTaskValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// Clone creates a deep copy of the task.
func (t *Task) Clone() *Task {
	clone := *t
	if t.Description != nil {
		desc := *t.Description
		clone.Description = &desc
	}
	return &clone
}

// CreatedAtTime returns CreatedAt as time.Time.
func (t *Task) CreatedAtTime() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

// UpdatedAtTime returns UpdatedAt as time.Time.
func (t *Task) UpdatedAtTime() time.Time {
	return time.UnixMilli(t.UpdatedAt)
}

// TaskPatch is a partial update. Nil fields are left untouched; set fields
// overwrite the current value. Presence is carried by the pointer, so there
// is no reflective field walking anywhere in the update path.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *Status
}

// Validate validates the fields present in the patch.
func (p *TaskPatch) Validate() error {
	var violations []string

	if p.Title != nil {
		if *p.Title == "" {
			violations = append(violations, "title cannot be empty")
		}
		if len(*p.Title) > MaxTitleLength {
			violations = append(violations, "title exceeds 256 characters")
		}
	}
	if p.Status != nil && !IsValidStatus(string(*p.Status)) {
		violations = append(violations, "invalid status")
	}

	if len(violations) > 0 {
		return ErrTaskValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// IsEmpty reports whether the patch carries no fields.
func (p *TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// Apply overwrites the fields present in the patch and refreshes UpdatedAt.
// UpdatedAt is refreshed even when the patch is empty or changes nothing.
func (t *Task) Apply(p *TaskPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		desc := *p.Description
		t.Description = &desc
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = currentTimeMillis()
}
