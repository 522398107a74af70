package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/arvel/taskhub-go/internal/core/domain"
)

// ErrClosed is returned when operating on a closed store.
var ErrClosed = errors.New("storage: store closed")

// Key prefixes. Task keys embed the owner ID before the task ID so that a
// single prefix scan yields exactly one user's tasks.
var (
	prefixUserByID   = []byte("u:id:")
	prefixUserByName = []byte("u:name:")
	prefixTask       = []byte("t:")

	seqKeyUser = []byte("seq:user")
	seqKeyTask = []byte("seq:task")
)

const seqBandwidth = 64

// userRecord is the persisted form of domain.User. The domain type excludes
// the password hash from JSON, so storage carries its own encoding.
type userRecord struct {
	ID           uint64 `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    int64  `json:"created_at"`
}

func recordFromUser(u *domain.User) *userRecord {
	return &userRecord{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (r *userRecord) toUser() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

// Config holds Badger store configuration.
type Config struct {
	// Dir is the data directory. Required.
	Dir string

	// SyncWrites forces fsync on every write.
	SyncWrites bool

	// GCInterval controls the background value-log GC period.
	// Zero disables background GC.
	GCInterval time.Duration

	// GCThreshold is the value-log rewrite ratio passed to Badger GC.
	// Defaults to 0.5.
	GCThreshold float64
}

// BadgerStore implements service.UserRepository and service.TaskRepository
// backed by Badger v3.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger

	userSeq *badger.Sequence
	taskSeq *badger.Sequence

	// Serializes CreateUser so the username uniqueness check and the
	// insert cannot race between two registrations.
	createMu sync.Mutex

	gcThreshold float64

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBadgerStore opens the database and starts the background GC loop.
func NewBadgerStore(cfg Config, logger *slog.Logger) (*BadgerStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.GCThreshold == 0 {
		cfg.GCThreshold = 0.5
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{logger: logger}
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	userSeq, err := db.GetSequence(seqKeyUser, seqBandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("badger: user sequence: %w", err)
	}
	taskSeq, err := db.GetSequence(seqKeyTask, seqBandwidth)
	if err != nil {
		userSeq.Release()
		db.Close()
		return nil, fmt.Errorf("badger: task sequence: %w", err)
	}

	store := &BadgerStore{
		db:          db,
		logger:      logger,
		userSeq:     userSeq,
		taskSeq:     taskSeq,
		gcThreshold: cfg.GCThreshold,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}

	go store.gcLoop(cfg.GCInterval)

	logger.Info("badger store opened",
		"dir", cfg.Dir,
		"sync_writes", cfg.SyncWrites,
		"gc_interval", cfg.GCInterval)

	return store, nil
}

// CreateUser persists a new user, assigning its ID.
// Returns domain.ErrUsernameTaken when the username already exists.
func (s *BadgerStore) CreateUser(ctx context.Context, user *domain.User) error {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	nameKey := userNameKey(user.Username)

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(nameKey)
		if err == nil {
			return domain.ErrUsernameTaken.WithDetails("username: " + user.Username)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("badger: check username: %w", err)
		}

		id, err := s.nextID(s.userSeq)
		if err != nil {
			return fmt.Errorf("badger: user id: %w", err)
		}
		user.ID = id

		data, err := json.Marshal(recordFromUser(user))
		if err != nil {
			return fmt.Errorf("badger: marshal user: %w", err)
		}

		if err := txn.Set(userIDKey(id), data); err != nil {
			return fmt.Errorf("badger: put user: %w", err)
		}
		if err := txn.Set(nameKey, encodeID(id)); err != nil {
			return fmt.Errorf("badger: put username index: %w", err)
		}
		return nil
	})
}

// GetUserByUsername looks up a user via the username index.
// Returns domain.ErrUserNotFound when absent.
func (s *BadgerStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var rec userRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userNameKey(username))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("badger: get username index: %w", err)
		}

		idBytes, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("badger: read username index: %w", err)
		}

		item, err = txn.Get(append(prefixUserByID, idBytes...))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				// Index points at a missing record. Treat as not found.
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("badger: get user: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}

	return rec.toUser(), nil
}

// CreateTask persists a new task, assigning its ID.
func (s *BadgerStore) CreateTask(ctx context.Context, task *domain.Task) error {
	return s.db.Update(func(txn *badger.Txn) error {
		id, err := s.nextID(s.taskSeq)
		if err != nil {
			return fmt.Errorf("badger: task id: %w", err)
		}
		task.ID = id

		data, err := json.Marshal(task)
		if err != nil {
			return fmt.Errorf("badger: marshal task: %w", err)
		}

		if err := txn.Set(taskKey(task.OwnerID, id), data); err != nil {
			return fmt.Errorf("badger: put task: %w", err)
		}
		return nil
	})
}

// GetTask retrieves a task scoped to its owner.
// Returns domain.ErrTaskNotFound when absent or owned by someone else.
func (s *BadgerStore) GetTask(ctx context.Context, ownerID, taskID uint64) (*domain.Task, error) {
	var task domain.Task

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(taskKey(ownerID, taskID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrTaskNotFound
			}
			return fmt.Errorf("badger: get task: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &task)
		})
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// ListTasks returns all tasks for an owner in ascending ID order.
func (s *BadgerStore) ListTasks(ctx context.Context, ownerID uint64) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	prefix := taskOwnerPrefix(ownerID)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// Task IDs are big-endian in the key, so Badger's lexicographic
		// iteration order is ascending ID order.
		for it.Rewind(); it.Valid(); it.Next() {
			var task domain.Task
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &task)
			})
			if err != nil {
				return fmt.Errorf("badger: read task: %w", err)
			}
			tasks = append(tasks, &task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// UpdateTask applies a patch inside a single update transaction and returns
// the updated task.
// Returns domain.ErrTaskNotFound when absent or owned by someone else.
func (s *BadgerStore) UpdateTask(ctx context.Context, ownerID, taskID uint64, patch *domain.TaskPatch) (*domain.Task, error) {
	var task domain.Task
	key := taskKey(ownerID, taskID)

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrTaskNotFound
			}
			return fmt.Errorf("badger: get task: %w", err)
		}

		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &task)
		})
		if err != nil {
			return fmt.Errorf("badger: read task: %w", err)
		}

		task.Apply(patch)

		data, err := json.Marshal(&task)
		if err != nil {
			return fmt.Errorf("badger: marshal task: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// DeleteTask removes a task inside a single update transaction.
// Returns domain.ErrTaskNotFound when absent or owned by someone else.
func (s *BadgerStore) DeleteTask(ctx context.Context, ownerID, taskID uint64) error {
	key := taskKey(ownerID, taskID)

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrTaskNotFound
			}
			return fmt.Errorf("badger: get task: %w", err)
		}
		return txn.Delete(key)
	})
}

// Close releases sequences and shuts the database down.
func (s *BadgerStore) Close() error {
	s.logger.Info("closing badger store")

	close(s.stopCh)
	<-s.doneCh

	if err := s.userSeq.Release(); err != nil {
		s.logger.Warn("release user sequence", "error", err)
	}
	if err := s.taskSeq.Release(); err != nil {
		s.logger.Warn("release task sequence", "error", err)
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("badger: close db: %w", err)
	}

	s.logger.Info("badger store closed")
	return nil
}

// nextID returns the next sequence value, offset so IDs start at 1.
func (s *BadgerStore) nextID(seq *badger.Sequence) (uint64, error) {
	num, err := seq.Next()
	if err != nil {
		return 0, err
	}
	return num + 1, nil
}

// gcLoop runs periodic value-log garbage collection.
func (s *BadgerStore) gcLoop(interval time.Duration) {
	defer close(s.doneCh)

	if interval <= 0 {
		<-s.stopCh
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for {
				err := s.db.RunValueLogGC(s.gcThreshold)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						s.logger.Error("value log gc failed", "error", err)
					}
					break
				}
			}
		case <-s.stopCh:
			return
		}
	}
}

func encodeID(id uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}

func userIDKey(id uint64) []byte {
	return append(append([]byte{}, prefixUserByID...), encodeID(id)...)
}

func userNameKey(username string) []byte {
	return append(append([]byte{}, prefixUserByName...), username...)
}

func taskOwnerPrefix(ownerID uint64) []byte {
	key := append(append([]byte{}, prefixTask...), encodeID(ownerID)...)
	return append(key, ':')
}

func taskKey(ownerID, taskID uint64) []byte {
	return append(taskOwnerPrefix(ownerID), encodeID(taskID)...)
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
