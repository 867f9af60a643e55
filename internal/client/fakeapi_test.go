package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tasktrack/tasktrack/internal/handler/dto"
	"github.com/tasktrack/tasktrack/internal/model"
)

// fakeAPI mimics the server's auth and task endpoints for one user store.
type fakeAPI struct {
	mu        sync.Mutex
	users     map[string]string
	tokens    map[string]int64
	userIDs   map[string]int64
	tasks     []model.Task
	nextID    int64
	authSeen  []string
	loggedOut []string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{
		users:   map[string]string{},
		tokens:  map[string]int64{},
		userIDs: map[string]int64{},
	}
	srv := httptest.NewServer(api.routes())
	t.Cleanup(srv.Close)
	return api, srv
}

func writeJSONT(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req dto.CredentialsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.users[req.Username]; ok {
			writeJSONT(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Username already exists"})
			return
		}
		f.users[req.Username] = req.Password
		f.userIDs[req.Username] = int64(len(f.userIDs) + 1)
		writeJSONT(w, http.StatusCreated, dto.UserResponse{ID: f.userIDs[req.Username], Username: req.Username})
	})

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.CredentialsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		if pw, ok := f.users[req.Username]; !ok || pw != req.Password {
			writeJSONT(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid credentials"})
			return
		}
		token := "tok-" + req.Username + "-" + strconv.Itoa(len(f.tokens))
		f.tokens[token] = f.userIDs[req.Username]
		writeJSONT(w, http.StatusOK, dto.TokenResponse{Token: token, ExpiresAt: time.Now().Add(time.Hour)})
	})

	mux.HandleFunc("POST /auth/logout", f.gated(func(w http.ResponseWriter, r *http.Request, token string, _ int64) {
		delete(f.tokens, token)
		f.loggedOut = append(f.loggedOut, token)
		writeJSONT(w, http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
	}))

	mux.HandleFunc("GET /tasks", f.gated(func(w http.ResponseWriter, r *http.Request, _ string, uid int64) {
		out := []model.Task{}
		for _, t := range f.tasks {
			if t.UserID == uid {
				out = append([]model.Task{t}, out...)
			}
		}
		writeJSONT(w, http.StatusOK, out)
	}))

	mux.HandleFunc("POST /tasks", f.gated(func(w http.ResponseWriter, r *http.Request, _ string, uid int64) {
		var req dto.CreateTaskRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if strings.TrimSpace(req.Title) == "" {
			writeJSONT(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Title is required"})
			return
		}
		f.nextID++
		p := model.DefaultPriority
		if req.Priority != "" {
			p = model.Priority(req.Priority)
		}
		now := time.Now()
		t := model.Task{ID: f.nextID, Title: req.Title, Description: req.Description, UserID: uid, CreatedAt: now, UpdatedAt: now, Priority: p}
		f.tasks = append(f.tasks, t)
		writeJSONT(w, http.StatusCreated, t)
	}))

	mux.HandleFunc("PUT /tasks/{id}", f.gated(func(w http.ResponseWriter, r *http.Request, _ string, uid int64) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var req dto.UpdateTaskRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for i := range f.tasks {
			if f.tasks[i].ID == id && f.tasks[i].UserID == uid {
				f.tasks[i].Title = req.Title
				f.tasks[i].Description = req.Description
				f.tasks[i].IsComplete = req.Complete()
				if req.Priority != "" {
					f.tasks[i].Priority = model.Priority(req.Priority)
				}
				f.tasks[i].UpdatedAt = time.Now()
				writeJSONT(w, http.StatusOK, f.tasks[i])
				return
			}
		}
		writeJSONT(w, http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
	}))

	mux.HandleFunc("DELETE /tasks/{id}", f.gated(func(w http.ResponseWriter, r *http.Request, _ string, uid int64) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		for i := range f.tasks {
			if f.tasks[i].ID == id && f.tasks[i].UserID == uid {
				f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
				writeJSONT(w, http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
				return
			}
		}
		writeJSONT(w, http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
	}))

	return mux
}

func (f *fakeAPI) gated(next func(w http.ResponseWriter, r *http.Request, token string, uid int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		header := r.Header.Get("Authorization")
		f.authSeen = append(f.authSeen, header)
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" {
			writeJSONT(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Access token required"})
			return
		}
		uid, ok := f.tokens[token]
		if !ok {
			writeJSONT(w, http.StatusForbidden, dto.ErrorResponse{Error: "Invalid token"})
			return
		}
		next(w, r, token, uid)
	}
}
