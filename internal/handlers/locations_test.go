package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hungertracker/hungerd/internal/models"
)

func TestLocationHandlerUpdateMine(t *testing.T) {
	locations := newInMemoryLocationStore()
	handler := LocationHandler{Locations: locations}

	req := authedRequest(t, http.MethodPut, "/api/v1/locations/me", "ada", postJSON(t, locationUpdateBody{Latitude: 40.7, Longitude: -74.0, DisplayName: "NYC"}))
	rec := httptest.NewRecorder()

	handler.UpdateMine(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	share, err := locations.Get(context.Background(), "ada")
	if err != nil {
		t.Fatalf("reload share: %v", err)
	}
	if share.Latitude != 40.7 || share.Longitude != -74.0 {
		t.Fatalf("unexpected coordinates %v", share)
	}
	if share.SharingMode != models.SharingAllFriends {
		t.Fatalf("expected new shares to default to all_friends, got %q", share.SharingMode)
	}
}

func TestLocationHandlerUpdateMineRejectsBadCoordinates(t *testing.T) {
	handler := LocationHandler{Locations: newInMemoryLocationStore()}

	cases := []locationUpdateBody{
		{Latitude: 91, Longitude: 0},
		{Latitude: -91, Longitude: 0},
		{Latitude: 0, Longitude: 181},
		{Latitude: 0, Longitude: -181},
	}

	for _, body := range cases {
		req := authedRequest(t, http.MethodPut, "/api/v1/locations/me", "ada", postJSON(t, body))
		rec := httptest.NewRecorder()

		handler.UpdateMine(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400 for %+v got %d", body, rec.Code)
		}
	}
}

func TestLocationHandlerSetSharing(t *testing.T) {
	locations := newInMemoryLocationStore()
	seedLocation(t, locations, "ada", 40.7, -74.0)

	handler := LocationHandler{Locations: locations}

	req := authedRequest(t, http.MethodPut, "/api/v1/locations/me/sharing", "ada", postJSON(t, sharingUpdateBody{Mode: models.SharingSelectFriends, AllowList: []string{"grace"}}))
	rec := httptest.NewRecorder()

	handler.SetSharing(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	share, err := locations.Get(context.Background(), "ada")
	if err != nil {
		t.Fatalf("reload share: %v", err)
	}
	if share.SharingMode != models.SharingSelectFriends || len(share.AllowList) != 1 {
		t.Fatalf("unexpected sharing state %+v", share)
	}

	// Switching to all_friends clears the allow list.
	req = authedRequest(t, http.MethodPut, "/api/v1/locations/me/sharing", "ada", postJSON(t, sharingUpdateBody{Mode: models.SharingAllFriends, AllowList: []string{"grace"}}))
	rec = httptest.NewRecorder()

	handler.SetSharing(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	share, _ = locations.Get(context.Background(), "ada")
	if len(share.AllowList) != 0 {
		t.Fatalf("expected allow list cleared, got %v", share.AllowList)
	}
}

func TestLocationHandlerSetSharingUnknownMode(t *testing.T) {
	handler := LocationHandler{Locations: newInMemoryLocationStore()}

	req := authedRequest(t, http.MethodPut, "/api/v1/locations/me/sharing", "ada", postJSON(t, sharingUpdateBody{Mode: "everyone"}))
	rec := httptest.NewRecorder()

	handler.SetSharing(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestLocationHandlerFriendLocations(t *testing.T) {
	locations := newInMemoryLocationStore()
	seedLocation(t, locations, "grace", 37.7, -122.4)
	seedLocation(t, locations, "linus", 59.3, 18.0)
	seedLocation(t, locations, "stranger", 51.5, 0.1)

	if err := locations.SetSharing(context.Background(), "grace", models.SharingAllFriends, nil); err != nil {
		t.Fatalf("set sharing: %v", err)
	}
	// linus shares with a select list that excludes the viewer.
	if err := locations.SetSharing(context.Background(), "linus", models.SharingSelectFriends, []string{"someone-else"}); err != nil {
		t.Fatalf("set sharing: %v", err)
	}
	if err := locations.SetSharing(context.Background(), "stranger", models.SharingAllFriends, nil); err != nil {
		t.Fatalf("set sharing: %v", err)
	}

	friends := newInMemoryFriendStore()
	seedFriendship(t, friends, "f-1", "ada", "grace", models.FriendshipAccepted)
	seedFriendship(t, friends, "f-2", "ada", "linus", models.FriendshipAccepted)

	handler := LocationHandler{Locations: locations, Friends: friends}

	req := authedRequest(t, http.MethodGet, "/api/v1/locations/friends", "ada", nil)
	rec := httptest.NewRecorder()

	handler.FriendLocations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string][]locationPayload
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp["locations"]) != 1 {
		t.Fatalf("expected exactly grace's location, got %v", resp["locations"])
	}
	if resp["locations"][0].UserID != "grace" {
		t.Fatalf("expected grace, got %q", resp["locations"][0].UserID)
	}
}

func seedLocation(t *testing.T, store *inMemoryLocationStore, userID string, lat, lon float64) {
	t.Helper()

	share := models.LocationShare{UserID: userID, Latitude: lat, Longitude: lon}
	if err := store.Upsert(context.Background(), share); err != nil {
		t.Fatalf("seed location: %v", err)
	}
}
