package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"photo-contest-backend/authentication"
	"photo-contest-backend/config"
	"photo-contest-backend/contest"
	"photo-contest-backend/entry"
	"photo-contest-backend/live"
	"photo-contest-backend/models"
	"photo-contest-backend/testutil"
	"photo-contest-backend/users"
	"photo-contest-backend/version"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testServer struct {
	router   *gin.Engine
	contests *testutil.MemoryContests
	entries  *testutil.MemoryEntries
	users    *testutil.MemoryUsers
	uploader *testutil.FakeUploader
}

func newTestServer(jwtSecret []byte, ping pingFunc) *testServer {
	s := &testServer{
		contests: testutil.NewMemoryContests(),
		entries:  testutil.NewMemoryEntries(),
		users:    testutil.NewMemoryUsers(),
		uploader: &testutil.FakeUploader{URL: "https://img.example.com/photo.jpg"},
	}
	if ping == nil {
		ping = func(context.Context) error { return nil }
	}
	hub := live.NewHub()
	s.router = SetupRouter(Handlers{
		Contest: contest.NewHandler(s.contests, s.uploader, hub),
		Entry:   entry.NewHandler(s.entries, s.uploader, hub),
		Users:   users.NewHandler(s.users, len(jwtSecret) > 0),
		Auth:    authentication.NewHandler(s.users, jwtSecret),
		Version: version.NewHandler(config.Default()),
		Live:    hub,
		Health:  ping,
	})
	return s
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestRoot(t *testing.T) {
	s := newTestServer(nil, nil)

	w := s.do(testutil.MakeRequest(http.MethodGet, "/", nil, nil))
	if w.Code != http.StatusOK || w.Body.String() != "Hello World" {
		t.Errorf("Expected Hello World, got %d %q", w.Code, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	testCases := []struct {
		name       string
		ping       pingFunc
		wantStatus int
	}{
		{name: "healthy", ping: func(context.Context) error { return nil }, wantStatus: http.StatusOK},
		{name: "database down", ping: func(context.Context) error { return errors.New("no primary") }, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(nil, tc.ping)
			w := s.do(testutil.MakeRequest(http.MethodGet, "/health", nil, nil))
			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(nil, nil)

	t.Run("preflight", func(t *testing.T) {
		w := s.do(testutil.MakeRequest(http.MethodOptions, "/vote/abc", nil, map[string]string{"Origin": "http://localhost:3000"}))
		if w.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d", w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("Expected wildcard origin")
		}
		if w.Header().Get("Access-Control-Allow-Methods") == "" {
			t.Error("Expected allowed methods")
		}
	})

	t.Run("regular request", func(t *testing.T) {
		w := s.do(testutil.MakeRequest(http.MethodGet, "/contest", nil, nil))
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("Expected wildcard origin on regular responses")
		}
	})
}

func TestContestLifecycle(t *testing.T) {
	s := newTestServer(nil, nil)

	// Create a contest.
	w := s.do(testutil.MultipartRequest(t, http.MethodPost, "/createcontest", map[string]string{"title": "Night"}, []byte("cover")))
	if w.Code != http.StatusOK {
		t.Fatalf("Create contest: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var created models.InsertResult
	testutil.DecodeJSON(t, w, &created)
	contestID := created.InsertedID.(string)

	w = s.do(testutil.MakeRequest(http.MethodGet, "/contest/"+contestID, nil, nil))
	var contestDoc map[string]interface{}
	testutil.DecodeJSON(t, w, &contestDoc)
	if contestDoc["image"] != s.uploader.URL {
		t.Errorf("Expected contest image %q, got %v", s.uploader.URL, contestDoc["image"])
	}

	// Submit an entry and vote on it.
	w = s.do(testutil.MultipartRequest(t, http.MethodPost, "/contest/"+contestID+"/ann@example.com/image", nil, []byte("entry")))
	if w.Code != http.StatusOK {
		t.Fatalf("Upload entry: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var entryResult models.InsertResult
	testutil.DecodeJSON(t, w, &entryResult)
	entryID := entryResult.InsertedID.(string)

	for _, voter := range []string{"v1@example.com", "v2@example.com"} {
		w = s.do(testutil.MakeRequest(http.MethodPatch, "/vote/"+entryID, gin.H{"email": voter}, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Vote: expected 200, got %d", w.Code)
		}
	}

	w = s.do(testutil.MakeRequest(http.MethodGet, "/entry/"+contestID+"/ann@example.com", nil, nil))
	var got models.Entry
	testutil.DecodeJSON(t, w, &got)
	if len(got.Vote) != 2 || got.Vote[0] != "v1@example.com" || got.Vote[1] != "v2@example.com" {
		t.Errorf("Expected votes in call order, got %v", got.Vote)
	}

	// Deleting the contest keeps its entries.
	w = s.do(testutil.MakeRequest(http.MethodDelete, "/contest/"+contestID, nil, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Delete contest: expected 200, got %d", w.Code)
	}
	w = s.do(testutil.MakeRequest(http.MethodGet, "/contest/"+contestID, nil, nil))
	if w.Body.String() != "null" {
		t.Errorf("Expected deleted contest to be null, got %s", w.Body.String())
	}
	w = s.do(testutil.MakeRequest(http.MethodGet, "/entries/"+contestID, nil, nil))
	var orphans []models.Entry
	testutil.DecodeJSON(t, w, &orphans)
	if len(orphans) != 1 {
		t.Errorf("Expected the entry to survive contest deletion, got %d entries", len(orphans))
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	secret := []byte("router-secret")
	s := newTestServer(secret, nil)
	s.users.Insert(context.Background(), bson.M{"email": "boss@example.com", "role": "admin"})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "boss@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	auth := map[string]string{"Authorization": "Bearer " + token}

	testCases := []struct {
		name       string
		req        func() *http.Request
		wantStatus int
	}{
		{
			name: "promote without token",
			req: func() *http.Request {
				return testutil.MakeRequest(http.MethodPut, "/users", gin.H{"email": "x@example.com"}, nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "promote with admin token",
			req: func() *http.Request {
				return testutil.MakeRequest(http.MethodPut, "/users", gin.H{"email": "x@example.com"}, auth)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "create contest without token",
			req: func() *http.Request {
				return testutil.MultipartRequest(t, http.MethodPost, "/createcontest", nil, []byte("c"))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "public route stays open",
			req:        func() *http.Request { return testutil.MakeRequest(http.MethodGet, "/users", nil, nil) },
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(tc.req())
			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}
		})
	}

	if s.uploader.Uploads() != 0 {
		t.Errorf("Expected no uploads for rejected requests, got %d", s.uploader.Uploads())
	}
}

func TestAdminRoleCannotBeSelfAssigned(t *testing.T) {
	secret := []byte("router-secret")
	s := newTestServer(secret, nil)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "mallory@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	auth := map[string]string{"Authorization": "Bearer " + token}
	promote := func() *httptest.ResponseRecorder {
		return s.do(testutil.MakeRequest(http.MethodPut, "/users", gin.H{"email": "mallory@example.com"}, auth))
	}

	if w := promote(); w.Code != http.StatusForbidden {
		t.Fatalf("Expected status 403 before any write, got %d", w.Code)
	}

	writes := []struct {
		name   string
		method string
	}{
		{name: "create user with role", method: http.MethodPost},
		{name: "replace user with role", method: http.MethodPut},
	}
	for _, wr := range writes {
		t.Run(wr.name, func(t *testing.T) {
			w := s.do(testutil.MakeRequest(wr.method, "/user", gin.H{"email": "mallory@example.com", "role": "admin"}, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
			}

			if w := promote(); w.Code != http.StatusForbidden {
				t.Errorf("Expected status 403 after %s, got %d", wr.name, w.Code)
			}
			w = s.do(testutil.MakeRequest(http.MethodGet, "/users/mallory@example.com", nil, nil))
			if w.Body.String() != `{"admin":false}` {
				t.Errorf("Expected non-admin, got %s", w.Body.String())
			}
		})
	}
}

func TestUserRoutesKeepRoleWithoutGuard(t *testing.T) {
	s := newTestServer(nil, nil)

	w := s.do(testutil.MakeRequest(http.MethodPut, "/user", gin.H{"email": "ann@example.com", "role": "admin"}, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	w = s.do(testutil.MakeRequest(http.MethodGet, "/users/ann@example.com", nil, nil))
	if w.Body.String() != `{"admin":true}` {
		t.Errorf("Expected role from body to be stored, got %s", w.Body.String())
	}
}
