package entry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"photo-contest-backend/live"
	"photo-contest-backend/models"
	"photo-contest-backend/testutil"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.POST("/contest/:id/:email/image", h.HandleUploadEntry)
	r.GET("/entries/:id", h.HandleGetContestEntries)
	r.GET("/entries", h.HandleGetEntries)
	r.GET("/entry/:id/:email", h.HandleGetUserEntry)
	r.PATCH("/vote/:id", h.HandleVote)
	return r
}

func TestHandleUploadEntry(t *testing.T) {
	entries := testutil.NewMemoryEntries()
	uploader := &testutil.FakeUploader{URL: "https://img.example.com/entry.jpg"}
	events := &testutil.RecordingPublisher{}
	router := newTestRouter(NewHandler(entries, uploader, events))

	req := testutil.MultipartRequest(t, http.MethodPost, "/contest/c1/ann@example.com/image", nil, []byte("photo"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	stored, _ := entries.FindForUser(req.Context(), "c1", "ann@example.com")
	if stored == nil {
		t.Fatal("Expected entry to be stored")
	}
	if stored.ContestImage != uploader.URL {
		t.Errorf("Expected contestImage %q, got %q", uploader.URL, stored.ContestImage)
	}
	if stored.Vote == nil || len(stored.Vote) != 0 {
		t.Errorf("Expected empty vote list, got %v", stored.Vote)
	}

	var result models.InsertResult
	testutil.DecodeJSON(t, w, &result)
	if result.InsertedID != stored.ID.Hex() {
		t.Errorf("Expected insertedId %s, got %v", stored.ID.Hex(), result.InsertedID)
	}

	if len(events.Events) != 1 {
		t.Fatalf("Expected one event, got %v", events.Types())
	}
	event := events.Events[0]
	if event.Type != live.EventEntrySubmitted || event.ContestID != "c1" || event.Email != "ann@example.com" || event.EntryID != stored.ID.Hex() {
		t.Errorf("Unexpected event %+v", event)
	}
}

func TestHandleUploadEntry_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		image      []byte
		uploadErr  error
		storeErr   error
		wantStatus int
	}{
		{name: "missing image", wantStatus: http.StatusBadRequest},
		{name: "upload failure", image: []byte("x"), uploadErr: errors.New("host down"), wantStatus: http.StatusInternalServerError},
		{name: "store failure", image: []byte("x"), storeErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entries := testutil.NewMemoryEntries()
			entries.Err = tc.storeErr
			events := &testutil.RecordingPublisher{}
			router := newTestRouter(NewHandler(entries, &testutil.FakeUploader{URL: "u", Err: tc.uploadErr}, events))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, testutil.MultipartRequest(t, http.MethodPost, "/contest/c1/a@example.com/image", nil, tc.image))

			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
			if len(events.Events) != 0 {
				t.Errorf("Expected no events, got %v", events.Types())
			}
		})
	}
}

func TestHandleGetEntries(t *testing.T) {
	entries := testutil.NewMemoryEntries(
		*models.NewEntry("c1", "a@example.com", "https://img/a.jpg"),
		*models.NewEntry("c2", "b@example.com", "https://img/b.jpg"),
		*models.NewEntry("c1", "c@example.com", "https://img/c.jpg"),
	)
	router := newTestRouter(NewHandler(entries, &testutil.FakeUploader{}, &testutil.RecordingPublisher{}))

	testCases := []struct {
		name       string
		path       string
		wantEmails []string
	}{
		{name: "all entries", path: "/entries", wantEmails: []string{"a@example.com", "b@example.com", "c@example.com"}},
		{name: "entries for contest", path: "/entries/c1", wantEmails: []string{"a@example.com", "c@example.com"}},
		{name: "unknown contest", path: "/entries/none", wantEmails: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, testutil.MakeRequest(http.MethodGet, tc.path, nil, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			var got []models.Entry
			testutil.DecodeJSON(t, w, &got)
			if len(got) != len(tc.wantEmails) {
				t.Fatalf("Expected %d entries, got %d", len(tc.wantEmails), len(got))
			}
			for i, email := range tc.wantEmails {
				if got[i].UserEmail != email {
					t.Errorf("Entry %d: expected %s, got %s", i, email, got[i].UserEmail)
				}
			}
		})
	}
}

func TestHandleGetUserEntry(t *testing.T) {
	first := models.NewEntry("c1", "a@example.com", "https://img/first.jpg")
	second := models.NewEntry("c1", "a@example.com", "https://img/second.jpg")
	entries := testutil.NewMemoryEntries(*first, *second)
	router := newTestRouter(NewHandler(entries, &testutil.FakeUploader{}, &testutil.RecordingPublisher{}))

	t.Run("returns first match", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, testutil.MakeRequest(http.MethodGet, "/entry/c1/a@example.com", nil, nil))

		var got models.Entry
		testutil.DecodeJSON(t, w, &got)
		if got.ContestImage != "https://img/first.jpg" {
			t.Errorf("Expected first entry, got %s", got.ContestImage)
		}
	})

	t.Run("unknown email returns null userEmail", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, testutil.MakeRequest(http.MethodGet, "/entry/c1/nobody@example.com", nil, nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if w.Body.String() != `{"userEmail":null}` {
			t.Errorf("Expected {\"userEmail\":null}, got %s", w.Body.String())
		}
	})
}

func TestHandleVote(t *testing.T) {
	entry := models.NewEntry("c1", "owner@example.com", "https://img/a.jpg")
	entry.ID = primitive.NewObjectID()
	entries := testutil.NewMemoryEntries(*entry)
	events := &testutil.RecordingPublisher{}
	router := newTestRouter(NewHandler(entries, &testutil.FakeUploader{}, events))

	for _, voter := range []string{"x@example.com", "y@example.com", "x@example.com"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, testutil.MakeRequest(http.MethodPatch, "/vote/"+entry.ID.Hex(), gin.H{"email": voter}, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var result models.UpdateResult
		testutil.DecodeJSON(t, w, &result)
		if result.MatchedCount != 1 || result.ModifiedCount != 1 {
			t.Errorf("Expected one matched and modified document, got %+v", result)
		}
	}

	stored, _ := entries.FindForUser(context.Background(), "c1", "owner@example.com")
	want := []string{"x@example.com", "y@example.com", "x@example.com"}
	if len(stored.Vote) != len(want) {
		t.Fatalf("Expected votes %v, got %v", want, stored.Vote)
	}
	for i := range want {
		if stored.Vote[i] != want[i] {
			t.Errorf("Vote %d: expected %s, got %s", i, want[i], stored.Vote[i])
		}
	}

	if len(events.Events) != 3 || events.Events[0].Type != live.EventVoteCast || events.Events[0].EntryID != entry.ID.Hex() {
		t.Errorf("Unexpected events %+v", events.Events)
	}
}

func TestHandleVote_Errors(t *testing.T) {
	router := newTestRouter(NewHandler(testutil.NewMemoryEntries(), &testutil.FakeUploader{}, &testutil.RecordingPublisher{}))

	testCases := []struct {
		name       string
		path       string
		body       interface{}
		wantStatus int
	}{
		{name: "malformed id", path: "/vote/xyz", body: gin.H{"email": "a@example.com"}, wantStatus: http.StatusBadRequest},
		{name: "missing email", path: "/vote/" + primitive.NewObjectID().Hex(), body: gin.H{}, wantStatus: http.StatusBadRequest},
		{name: "no body", path: "/vote/" + primitive.NewObjectID().Hex(), body: nil, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, testutil.MakeRequest(http.MethodPatch, tc.path, tc.body, nil))
			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
		})
	}
}

func TestHandleVote_UnknownEntryUpserts(t *testing.T) {
	entries := testutil.NewMemoryEntries()
	router := newTestRouter(NewHandler(entries, &testutil.FakeUploader{}, &testutil.RecordingPublisher{}))

	id := primitive.NewObjectID()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest(http.MethodPatch, "/vote/"+id.Hex(), gin.H{"email": "a@example.com"}, nil))

	var result models.UpdateResult
	testutil.DecodeJSON(t, w, &result)
	if result.UpsertedCount != 1 || result.UpsertedID != id.Hex() {
		t.Errorf("Expected upsert of %s, got %+v", id.Hex(), result)
	}
}
