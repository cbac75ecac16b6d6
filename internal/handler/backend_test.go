package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/connect-web/internal/model"
)

const testPassword = "secret"

// fakeBackend is an in-memory stand-in for the REST backend.
type fakeBackend struct {
	mu           sync.Mutex
	users        map[string]model.AdminUser
	news         []model.News
	events       []model.Event
	regs         map[int64]*model.EventRegistrations
	newsDown     bool
	eventsDenied bool
	writesDown   bool
	profileCalls int
	newsPosts    int
	removeCalls  int
	nextID       int64
}

func newFakeBackend() *fakeBackend {
	joined := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	b := &fakeBackend{
		users: map[string]model.AdminUser{
			"ada": {UserProfile: model.UserProfile{ID: 1, Username: "ada", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", IsStaff: true, DateJoined: joined}},
			"bob": {UserProfile: model.UserProfile{ID: 2, Username: "bob", FirstName: "Bob", LastName: "Stone", Email: "bob@example.com", CanCreateContent: true, DateJoined: joined}},
			"eve": {UserProfile: model.UserProfile{ID: 3, Username: "eve", Email: "eve@example.com", DateJoined: joined}},
		},
		news: []model.News{{
			ID: 10, Title: "Live article", Content: "Body of the **live** article.", Category: "Updates",
			AuthorName: "Ada Lovelace", CreatedAt: time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC), Views: 1247,
		}},
		events: []model.Event{{
			ID: 20, Title: "Live meetup", Description: "Meet the team.", Category: "Community",
			Date: time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC), Location: "Hall A", Capacity: 50, RegisteredCount: 2,
		}},
		regs: map[int64]*model.EventRegistrations{
			20: {EventID: 20, EventTitle: "Live meetup", Capacity: 50, RegisteredCount: 2, Registrations: []model.EventRegistration{
				{ID: 1, EventID: 20, UserID: 2, UserName: "bob", UserEmail: "bob@example.com"},
				{ID: 2, EventID: 20, UserID: 3, UserName: "eve", UserEmail: "eve@example.com"},
			}},
		},
		nextID: 100,
	}
	return b
}

func (b *fakeBackend) start(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login/", b.login)
	mux.HandleFunc("GET /api/auth/profile/", b.profile)
	mux.HandleFunc("GET /api/content/news/{$}", b.listNews)
	mux.HandleFunc("POST /api/content/news/{$}", b.createNews)
	mux.HandleFunc("GET /api/content/news/{id}/", b.getNews)
	mux.HandleFunc("GET /api/content/events/{$}", b.listEvents)
	mux.HandleFunc("GET /api/content/events/{id}/{$}", b.getEvent)
	mux.HandleFunc("GET /api/content/events/{id}/registrations/{$}", b.listRegs)
	mux.HandleFunc("DELETE /api/content/events/{id}/registrations/{uid}/", b.removeReg)
	mux.HandleFunc("GET /api/content/admin/users/{$}", b.adminUsers)
	mux.HandleFunc("GET /api/content/admin/events/{$}", b.adminEvents)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// caller returns the user owning the bearer token, if any.
func (b *fakeBackend) caller(r *http.Request) (model.AdminUser, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer tok-")
	u, ok := b.users[token]
	return u, ok
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	_ = json.NewDecoder(r.Body).Decode(&creds)

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[creds.Username]
	if !ok || creds.Password != testPassword {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {"Unable to log in with provided credentials."}})
		return
	}
	writeJSON(w, http.StatusOK, model.AuthResponse{
		Tokens: model.Tokens{Access: "tok-" + u.Username, Refresh: "refresh-" + u.Username},
		User:   u.UserProfile,
	})
}

func (b *fakeBackend) profile(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profileCalls++
	u, ok := b.caller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
		return
	}
	writeJSON(w, http.StatusOK, u.UserProfile)
}

func (b *fakeBackend) listNews(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.newsDown {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "down"})
		return
	}
	writeJSON(w, http.StatusOK, b.news)
}

func (b *fakeBackend) createNews(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.newsPosts++
	if b.writesDown {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "Service unavailable."})
		return
	}
	var in model.NewsInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	b.nextID++
	n := model.News{ID: b.nextID, Title: in.Title, Content: in.Content, Category: in.Category, CreatedAt: time.Now().UTC()}
	b.news = append([]model.News{n}, b.news...)
	writeJSON(w, http.StatusCreated, n)
}

func (b *fakeBackend) getNews(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range b.news {
		if n.ID == id {
			writeJSON(w, http.StatusOK, n)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (b *fakeBackend) listEvents(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.eventsDenied {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
		return
	}
	writeJSON(w, http.StatusOK, b.events)
}

func (b *fakeBackend) getEvent(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.events {
		if e.ID == id {
			writeJSON(w, http.StatusOK, e)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (b *fakeBackend) listRegs(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	regs, ok := b.regs[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, regs)
}

func (b *fakeBackend) removeReg(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	uid, _ := strconv.ParseInt(r.PathValue("uid"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeCalls++
	regs, ok := b.regs[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	if i := regs.Find(uid); i >= 0 {
		*regs = regs.Without(i)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *fakeBackend) adminUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.caller(r)
	if !ok || !u.IsStaff {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
		return
	}
	out := make([]model.AdminUser, 0, len(b.users))
	for _, name := range []string{"ada", "bob", "eve"} {
		out = append(out, b.users[name])
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *fakeBackend) adminEvents(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.EventSummary, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, model.EventSummary{
			ID: e.ID, Title: e.Title, Date: e.Date, Capacity: e.Capacity,
			CurrentRegistrations:   e.RegisteredCount,
			RegistrationPercentage: float64(e.RegisteredCount) * 100 / float64(e.Capacity),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
