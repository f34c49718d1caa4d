package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hungertracker/hungerd/internal/middleware"
)

func authedRequest(t *testing.T, method, target, userID string, body *bytes.Buffer) *http.Request {
	t.Helper()

	if body == nil {
		body = new(bytes.Buffer)
	}
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestProfileHandlerMe(t *testing.T) {
	users := newInMemoryUserStore()
	user := seedUser(t, users, "ada@example.com", "supersafe", "+15550000001")

	profiles := newInMemoryProfileStore()
	if err := profiles.Create(context.Background(), user.ID); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	handler := ProfileHandler{Users: users, Profiles: profiles}

	req := authedRequest(t, http.MethodGet, "/api/v1/profiles/me", user.ID, nil)
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var resp profilePayload
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != user.ID {
		t.Fatalf("expected user id %q got %q", user.ID, resp.ID)
	}
}

func TestProfileHandlerUpdate(t *testing.T) {
	users := newInMemoryUserStore()
	user := seedUser(t, users, "ada@example.com", "supersafe", "+15550000001")

	profiles := newInMemoryProfileStore()
	handler := ProfileHandler{Users: users, Profiles: profiles}

	name := "Ada L."
	bio := "eats bytes"
	req := authedRequest(t, http.MethodPatch, "/api/v1/profiles/me", user.ID, postJSON(t, updateProfileRequest{Name: &name, Bio: &bio}))
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	updated, err := users.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if updated.Name != name || updated.Bio != bio {
		t.Fatalf("expected updated name and bio, got %q %q", updated.Name, updated.Bio)
	}
	if updated.Username != user.Username {
		t.Fatal("username should be untouched when omitted")
	}
}

func TestProfileHandlerUpdateRejectsEmptyUsername(t *testing.T) {
	users := newInMemoryUserStore()
	user := seedUser(t, users, "ada@example.com", "supersafe", "+15550000001")

	handler := ProfileHandler{Users: users, Profiles: newInMemoryProfileStore()}

	empty := "  "
	req := authedRequest(t, http.MethodPatch, "/api/v1/profiles/me", user.ID, postJSON(t, updateProfileRequest{Username: &empty}))
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestProfileHandlerUploadImage(t *testing.T) {
	users := newInMemoryUserStore()
	user := seedUser(t, users, "ada@example.com", "supersafe", "+15550000001")

	profiles := newInMemoryProfileStore()
	if err := profiles.Create(context.Background(), user.ID); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	images := newMemoryImageStore()
	handler := ProfileHandler{Users: users, Profiles: profiles, Images: images}

	body := new(bytes.Buffer)
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile("image", "selfie.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("jpeg-bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := form.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req := authedRequest(t, http.MethodPost, "/api/v1/profiles/me/image", user.ID, body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.UploadImage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(images.objects) != 1 {
		t.Fatalf("expected one stored object, got %d", len(images.objects))
	}
	for key := range images.objects {
		if !strings.HasPrefix(key, "profile_images/"+user.ID+"/") {
			t.Fatalf("unexpected object key %q", key)
		}
	}

	profile, err := profiles.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if profile.ImageURL == "" {
		t.Fatal("expected profile image url persisted")
	}
}

func TestProfileHandlerToggleHungryNotifiesFriends(t *testing.T) {
	users := newInMemoryUserStore()
	user := seedUser(t, users, "ada@example.com", "supersafe", "+15550000001")

	profiles := newInMemoryProfileStore()
	if err := profiles.Create(context.Background(), user.ID); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	notifier := &recordingNotifier{}
	handler := ProfileHandler{Users: users, Profiles: profiles, Notify: notifier}

	req := authedRequest(t, http.MethodPost, "/api/v1/profiles/me/hungry", user.ID, nil)
	rec := httptest.NewRecorder()

	handler.ToggleHungry(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp["is_hungry"] {
		t.Fatal("expected hungry flag flipped on")
	}
	if len(notifier.fanout) != 1 || notifier.fanout[0] != user.ID {
		t.Fatalf("expected hungry fanout for %q, got %v", user.ID, notifier.fanout)
	}

	// Toggling off should not notify again.
	req = authedRequest(t, http.MethodPost, "/api/v1/profiles/me/hungry", user.ID, nil)
	rec = httptest.NewRecorder()

	handler.ToggleHungry(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if len(notifier.fanout) != 1 {
		t.Fatalf("expected no fanout when going not-hungry, got %v", notifier.fanout)
	}
}
