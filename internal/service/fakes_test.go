package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tasktrack/tasktrack/internal/model"
	"github.com/tasktrack/tasktrack/internal/repository"
)

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, username, hash string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[username]; ok {
		return nil, repository.ErrUsernameExists
	}
	f.nextID++
	u := &model.User{ID: f.nextID, Username: username, PasswordHash: hash, CreatedAt: time.Now()}
	f.users[username] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[username]
	return ok, nil
}

// plainHasher stores "hashed:<password>" and counts verifications.
type plainHasher struct {
	mu       sync.Mutex
	verifies int
}

func (h *plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *plainHasher) Verify(password, digest string) (bool, error) {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return strings.TrimPrefix(digest, "hashed:") == password && strings.HasPrefix(digest, "hashed:"), nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(user *model.User) (string, time.Time, error) {
	return "token-for-" + user.Username, time.Now().Add(time.Hour), nil
}

type fakeRevoker struct {
	revoked map[string]time.Time
}

func (r *fakeRevoker) Revoke(_ context.Context, id string, exp time.Time) error {
	if r.revoked == nil {
		r.revoked = make(map[string]time.Time)
	}
	r.revoked[id] = exp
	return nil
}

type fakeTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*model.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[int64]*model.Task)}
}

func (f *fakeTaskStore) ListTasks(_ context.Context, ownerID int64) ([]*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Task{}
	for _, t := range f.tasks {
		if t.UserID == ownerID {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeTaskStore) CreateTask(_ context.Context, ownerID int64, fields model.TaskFields) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	now := time.Now()
	t := &model.Task{
		ID:          f.nextID,
		Title:       fields.Title,
		Description: fields.Description,
		IsComplete:  fields.IsComplete,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Priority:    model.DefaultPriority,
	}
	if fields.Priority != nil {
		t.Priority = *fields.Priority
	}
	f.tasks[t.ID] = t
	c := *t
	return &c, nil
}

func (f *fakeTaskStore) UpdateTask(_ context.Context, ownerID, id int64, fields model.TaskFields) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, repository.ErrTaskNotFound
	}
	t.Title = fields.Title
	t.Description = fields.Description
	t.IsComplete = fields.IsComplete
	if fields.Priority != nil {
		t.Priority = *fields.Priority
	}
	t.UpdatedAt = time.Now()
	c := *t
	return &c, nil
}

func (f *fakeTaskStore) DeleteTask(_ context.Context, ownerID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok || t.UserID != ownerID {
		return repository.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}
