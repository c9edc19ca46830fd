// AngelaMos | 2026
// handler_test.go

package reminder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/leadflow/internal/core"
	"github.com/carterperez-dev/leadflow/internal/middleware"
	"github.com/carterperez-dev/leadflow/internal/policy"
)

const (
	ownerID    = "5d3e0c7a-1111-4b7b-8a5e-0000000000a1"
	strangerID = "5d3e0c7a-2222-4b7b-8a5e-0000000000a2"
	adminID    = "5d3e0c7a-3333-4b7b-8a5e-0000000000a3"
	reminderID = "5d3e0c7a-4444-4b7b-8a5e-0000000000a4"
)

type memRepo struct {
	mu        sync.Mutex
	reminders map[string]*Reminder
}

func newMemRepo(seed ...Reminder) *memRepo {
	m := &memRepo{reminders: make(map[string]*Reminder)}
	for i := range seed {
		r := seed[i]
		m.reminders[r.ID] = &r
	}
	return m
}

func (m *memRepo) ListByUser(_ context.Context, userID string) ([]Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Reminder{}
	for _, r := range m.reminders {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reminders[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) Create(_ context.Context, reminder *Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *reminder
	m.reminders[reminder.ID] = &cp
	return nil
}

func (m *memRepo) Update(_ context.Context, reminder *Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *reminder
	m.reminders[reminder.ID] = &cp
	return nil
}

func (m *memRepo) Toggle(_ context.Context, id string) (*Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reminders[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	r.Completed = !r.Completed
	cp := *r
	return &cp, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reminders[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.reminders, id)
	return nil
}

func (m *memRepo) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reminders), nil
}

// asUser stands in for the bearer authenticator.
func asUser(id, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithIdentity(r.Context(), &middleware.Identity{ID: id, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestRouter(repo Repository, id, role string) http.Handler {
	r := chi.NewRouter()
	NewHandler(NewService(repo, policy.New())).RegisterRoutes(r, asUser(id, role))
	return r
}

func seeded() *memRepo {
	return newMemRepo(Reminder{
		ID:     reminderID,
		UserID: ownerID,
		Type:   TypeCall,
		Title:  "Call Acme",
		Date:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	})
}

func TestReminderOwnership(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		role       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"owner reads", ownerID, policy.RoleEmployee, http.MethodGet, "/reminders/" + reminderID, "", http.StatusOK},
		{"stranger reads", strangerID, policy.RoleEmployee, http.MethodGet, "/reminders/" + reminderID, "", http.StatusForbidden},
		{"manager is not owner", strangerID, policy.RoleManager, http.MethodGet, "/reminders/" + reminderID, "", http.StatusForbidden},
		{"admin reads", adminID, policy.RoleAdmin, http.MethodGet, "/reminders/" + reminderID, "", http.StatusOK},
		{"owner updates", ownerID, policy.RoleEmployee, http.MethodPut, "/reminders/" + reminderID, `{"title":"Call Acme again"}`, http.StatusOK},
		{"stranger updates", strangerID, policy.RoleEmployee, http.MethodPut, "/reminders/" + reminderID, `{"title":"x"}`, http.StatusForbidden},
		{"stranger toggles", strangerID, policy.RoleEmployee, http.MethodPatch, "/reminders/" + reminderID + "/toggle", "", http.StatusForbidden},
		{"stranger deletes", strangerID, policy.RoleEmployee, http.MethodDelete, "/reminders/" + reminderID, "", http.StatusForbidden},
		{"owner deletes", ownerID, policy.RoleEmployee, http.MethodDelete, "/reminders/" + reminderID, "", http.StatusOK},
		{"malformed id", ownerID, policy.RoleEmployee, http.MethodGet, "/reminders/not-an-id", "", http.StatusNotFound},
		{"unknown id", ownerID, policy.RoleEmployee, http.MethodGet, "/reminders/5d3e0c7a-9999-4b7b-8a5e-0000000000ff", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(seeded(), tt.userID, tt.role)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			var resp core.Response
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Success != (tt.wantStatus == http.StatusOK) {
				t.Errorf("success = %v for status %d", resp.Success, rec.Code)
			}
		})
	}
}

func TestReminderToggle(t *testing.T) {
	repo := seeded()
	router := newTestRouter(repo, ownerID, policy.RoleEmployee)

	req := httptest.NewRequest(http.MethodPatch, "/reminders/"+reminderID+"/toggle", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string           `json:"message"`
		Data    ReminderResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Data.Completed || resp.Message != "Reminder marked as completed" {
		t.Errorf("got completed=%v message=%q", resp.Data.Completed, resp.Message)
	}
}

func TestReminderCreateDefaultsAndOwner(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo, ownerID, policy.RoleEmployee)

	body := `{"title":"Demo","date":"2026-04-02T15:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/reminders/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data ReminderResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.UserID != ownerID {
		t.Errorf("userId = %q, want %q", resp.Data.UserID, ownerID)
	}
	if resp.Data.Type != TypeMeeting {
		t.Errorf("type = %q, want %q", resp.Data.Type, TypeMeeting)
	}
}

func TestReminderCreateRequiresTitleAndDate(t *testing.T) {
	router := newTestRouter(newMemRepo(), ownerID, policy.RoleEmployee)

	req := httptest.NewRequest(http.MethodPost, "/reminders/", strings.NewReader(`{"notes":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
