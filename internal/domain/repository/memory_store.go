package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"taskzone/internal/common"
	"taskzone/internal/domain/model"
	"time"
)

// MemoryStore keeps users and tasks in process memory. It enforces the same
// unique constraints and delete cascade as the Postgres schema and is used
// for local runs and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	now        func() time.Time
	users      map[int64]model.User
	tasks      map[int64]model.Task
	nextUserID int64
	nextTaskID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:   func() time.Time { return time.Now().UTC() },
		users: make(map[int64]model.User),
		tasks: make(map[int64]model.Task),
	}
}

func (s *MemoryStore) Users() UserRepository { return memoryUserRepository{s} }

func (s *MemoryStore) Tasks() TaskRepository { return memoryTaskRepository{s} }

// PingContext always succeeds.
func (s *MemoryStore) PingContext(ctx context.Context) error { return ctx.Err() }

type memoryUserRepository struct{ s *MemoryStore }

func (r memoryUserRepository) Create(ctx context.Context, user *model.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(0, user.Username, user.Email); err != nil {
		return err
	}
	s.nextUserID++
	now := s.now()
	user.ID = s.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (r memoryUserRepository) Update(ctx context.Context, user *model.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID]
	if !ok {
		return common.ErrNotFound
	}
	if err := s.checkUnique(user.ID, user.Username, user.Email); err != nil {
		return err
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.HashedPassword = user.HashedPassword
	stored.UpdatedAt = s.now()
	s.users[user.ID] = stored
	*user = stored
	return nil
}

func (r memoryUserRepository) Delete(ctx context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(s.users, id)
	for taskID, task := range s.tasks {
		if task.UserID == id {
			delete(s.tasks, taskID)
		}
	}
	return nil
}

func (r memoryUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ID == id })
}

func (r memoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email })
}

func (r memoryUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Username == username })
}

func (r memoryUserRepository) find(match func(model.User) bool) (*model.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r memoryUserRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return paginate(users, &offset, &limit), nil
}

// checkUnique must be called with s.mu held. selfID excludes the row being updated.
func (s *MemoryStore) checkUnique(selfID int64, username, email string) error {
	for _, u := range s.users {
		if u.ID != selfID && u.Username == username {
			return common.ErrUsernameTaken
		}
	}
	for _, u := range s.users {
		if u.ID != selfID && u.Email == email {
			return common.ErrEmailTaken
		}
	}
	return nil
}

type memoryTaskRepository struct{ s *MemoryStore }

func (r memoryTaskRepository) Create(ctx context.Context, task *model.Task) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[task.UserID]; !ok {
		return common.Errorf("task owner %d does not exist: %w", task.UserID, common.ErrNotFound)
	}
	s.nextTaskID++
	now := s.now()
	task.ID = s.nextTaskID
	task.CreatedAt = now
	task.UpdatedAt = now
	s.tasks[task.ID] = *task
	return nil
}

func (r memoryTaskRepository) FindByIDAndOwner(ctx context.Context, id, userID int64) (*model.Task, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return nil, common.ErrNotFound
	}
	return &task, nil
}

func (r memoryTaskRepository) List(ctx context.Context, userID int64, filter model.TaskFilter) ([]model.Task, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := []model.Task{}
	for _, t := range s.tasks {
		if t.UserID != userID {
			continue
		}
		if filter.Title != "" && !strings.Contains(t.Title, filter.Title) {
			continue
		}
		if filter.Description != "" && !strings.Contains(t.Description, filter.Description) {
			continue
		}
		if filter.State != "" && t.State != filter.State {
			continue
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return paginate(tasks, filter.Offset, filter.Limit), nil
}

func (r memoryTaskRepository) Update(ctx context.Context, task *model.Task) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tasks[task.ID]
	if !ok || stored.UserID != task.UserID {
		return common.ErrNotFound
	}
	stored.Title = task.Title
	stored.Description = task.Description
	stored.State = task.State
	stored.UpdatedAt = s.now()
	s.tasks[task.ID] = stored
	*task = stored
	return nil
}

func (r memoryTaskRepository) Delete(ctx context.Context, id, userID int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return common.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func paginate[T any](items []T, offset, limit *int) []T {
	if offset != nil && *offset > 0 {
		if *offset >= len(items) {
			return items[:0]
		}
		items = items[*offset:]
	}
	if limit != nil && *limit >= 0 && *limit < len(items) {
		items = items[:*limit]
	}
	return items
}
