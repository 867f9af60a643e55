package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tasktrack/tasktrack/internal/auth"
	"github.com/tasktrack/tasktrack/internal/cache"
	"github.com/tasktrack/tasktrack/internal/metrics"
	"github.com/tasktrack/tasktrack/internal/middleware"
	"github.com/tasktrack/tasktrack/internal/model"
	"github.com/tasktrack/tasktrack/internal/repository"
	"github.com/tasktrack/tasktrack/internal/service"
)

// memStore is an in-memory user and task store with repository semantics.
type memStore struct {
	mu         sync.Mutex
	users      map[string]*model.User
	tasks      map[int64]*model.Task
	nextUserID int64
	nextTaskID int64
	failWith   error
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*model.User{}, tasks: map[int64]*model.Task{}}
}

func (m *memStore) CreateUser(_ context.Context, username, hash string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; ok {
		return nil, repository.ErrUsernameExists
	}
	m.nextUserID++
	u := &model.User{ID: m.nextUserID, Username: username, PasswordHash: hash, CreatedAt: time.Now()}
	m.users[username] = u
	return u, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) UsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[username]
	return ok, nil
}

func (m *memStore) ListTasks(_ context.Context, ownerID int64) ([]*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []*model.Task{}
	for _, t := range m.tasks {
		if t.UserID == ownerID {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) CreateTask(_ context.Context, ownerID int64, f model.TaskFields) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTaskID++
	now := time.Now()
	t := &model.Task{
		ID: m.nextTaskID, Title: f.Title, Description: f.Description, IsComplete: f.IsComplete,
		UserID: ownerID, CreatedAt: now, UpdatedAt: now, Priority: model.DefaultPriority,
	}
	if f.Priority != nil {
		t.Priority = *f.Priority
	}
	m.tasks[t.ID] = t
	c := *t
	return &c, nil
}

func (m *memStore) UpdateTask(_ context.Context, ownerID, id int64, f model.TaskFields) (*model.Task, error) {
	if err := checkInt4(id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, repository.ErrTaskNotFound
	}
	t.Title, t.Description, t.IsComplete = f.Title, f.Description, f.IsComplete
	if f.Priority != nil {
		t.Priority = *f.Priority
	}
	t.UpdatedAt = time.Now()
	c := *t
	return &c, nil
}

func (m *memStore) DeleteTask(_ context.Context, ownerID, id int64) error {
	if err := checkInt4(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.UserID != ownerID {
		return repository.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// checkInt4 mirrors pgx refusing to encode an out-of-range int4 argument.
func checkInt4(id int64) error {
	if id > math.MaxInt32 || id < math.MinInt32 {
		return fmt.Errorf("%d is greater than maximum value for int4", id)
	}
	return nil
}

type testEnv struct {
	store   *memStore
	tokens  *auth.TokenManager
	router  http.Handler
	metrics *metrics.InMemoryRecorder
	logs    *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, nil))
	store := newMemStore()
	rec := metrics.NewInMemory()
	revocations := cache.NewMemoryRevocations()

	tokens, err := auth.NewTokenManager("handler-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	hasher := auth.NewHasher(auth.Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 16})

	authHandler := NewAuthHandler(service.NewAuthService(store, hasher, tokens, revocations, rec), logger)
	taskHandler := NewTaskHandler(service.NewTaskService(store, rec), logger)
	gate := middleware.Auth(middleware.AuthConfig{Logger: logger, Verifier: tokens, Revocations: revocations, Metrics: rec})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.With(gate).Post("/auth/logout", authHandler.Logout)
	r.Route("/tasks", func(r chi.Router) {
		r.Use(gate)
		r.Get("/", taskHandler.List)
		r.Post("/", taskHandler.Create)
		r.Put("/{id}", taskHandler.Update)
		r.Delete("/{id}", taskHandler.Delete)
	})

	return &testEnv{store: store, tokens: tokens, router: r, metrics: rec, logs: logs}
}

// do sends a JSON request and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			rdr = bytes.NewBufferString(s)
		} else {
			b, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			rdr = bytes.NewReader(b)
		}
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// login registers (if needed) and logs in, returning the token.
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()

	e.do(t, http.MethodPost, "/auth/register", "", map[string]string{"username": username, "password": password})
	rec := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": password})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, rec.Code, rec.Body.String())
	}
	var body map[string]any
	decodeBody(t, rec, &body)
	return body["token"].(string)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}
