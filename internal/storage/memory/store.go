package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/arvel/taskhub-go/internal/core/domain"
)

// Store is an in-memory implementation of service.UserRepository and
// service.TaskRepository.
type Store struct {
	mu sync.RWMutex

	users       map[uint64]*domain.User
	usersByName map[string]uint64
	tasks       map[uint64]*domain.Task

	nextUserID uint64
	nextTaskID uint64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:       make(map[uint64]*domain.User),
		usersByName: make(map[string]uint64),
		tasks:       make(map[uint64]*domain.Task),
	}
}

// CreateUser persists a new user, assigning its ID.
// Returns domain.ErrUsernameTaken when the username already exists.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByName[user.Username]; exists {
		return domain.ErrUsernameTaken.WithDetails("username: " + user.Username)
	}

	s.nextUserID++
	user.ID = s.nextUserID

	s.users[user.ID] = user.Clone()
	s.usersByName[user.Username] = user.ID

	return nil
}

// GetUserByUsername looks up a user by username.
// Returns domain.ErrUserNotFound when absent.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.usersByName[username]
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	return s.users[id].Clone(), nil
}

// CreateTask persists a new task, assigning its ID.
func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTaskID++
	task.ID = s.nextTaskID
	s.tasks[task.ID] = task.Clone()

	return nil
}

// GetTask retrieves a task scoped to its owner.
// Returns domain.ErrTaskNotFound when absent or owned by someone else.
func (s *Store) GetTask(ctx context.Context, ownerID, taskID uint64) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists || task.OwnerID != ownerID {
		return nil, domain.ErrTaskNotFound
	}
	return task.Clone(), nil
}

// ListTasks returns all tasks for an owner in ascending ID order.
func (s *Store) ListTasks(ctx context.Context, ownerID uint64) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*domain.Task, 0)
	for _, task := range s.tasks {
		if task.OwnerID == ownerID {
			tasks = append(tasks, task.Clone())
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})

	return tasks, nil
}

// UpdateTask applies a patch under the store lock and returns the updated task.
// Returns domain.ErrTaskNotFound when absent or owned by someone else.
func (s *Store) UpdateTask(ctx context.Context, ownerID, taskID uint64, patch *domain.TaskPatch) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[taskID]
	if !exists || task.OwnerID != ownerID {
		return nil, domain.ErrTaskNotFound
	}

	task.Apply(patch)
	return task.Clone(), nil
}

// DeleteTask removes a task under the store lock.
// Returns domain.ErrTaskNotFound when absent or owned by someone else.
func (s *Store) DeleteTask(ctx context.Context, ownerID, taskID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[taskID]
	if !exists || task.OwnerID != ownerID {
		return domain.ErrTaskNotFound
	}

	delete(s.tasks, taskID)
	return nil
}

// Close is a no-op; it exists so the memory store satisfies the same
// lifecycle as the Badger store.
func (s *Store) Close() error {
	return nil
}
