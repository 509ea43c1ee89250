package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// fakePresenceReader serves canned presence-store answers.
type fakePresenceReader struct {
	online map[uint]bool
	all    []uint
}

func (p *fakePresenceReader) IsUserOnline(userID uint) bool {
	return p.online[userID]
}

func (p *fakePresenceReader) GetOnlineUsers() ([]uint, error) {
	return p.all, nil
}

// fakeConnectionChecker stands in for the local connection registry.
type fakeConnectionChecker struct {
	online map[uint]bool
}

func (c *fakeConnectionChecker) IsOnline(userID uint) bool {
	return c.online[userID]
}

func presenceTestApp(presence PresenceReader, connections ConnectionChecker) *fiber.App {
	app := fiber.New()
	handler := NewPresenceHandler(presence, connections)
	app.Get("/users/online", handler.GetOnlineUsers)
	app.Get("/users/:id/online", handler.GetUserOnline)
	return app
}

func TestGetOnlineUsers(t *testing.T) {
	app := presenceTestApp(&fakePresenceReader{all: []uint{3, 7}}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/users/online", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var body struct {
		UserIDs []uint `json:"user_ids"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.UserIDs) != 2 || body.UserIDs[0] != 3 || body.UserIDs[1] != 7 {
		t.Errorf("user_ids = %v, want [3 7]", body.UserIDs)
	}
}

func TestGetOnlineUsersEmpty(t *testing.T) {
	app := presenceTestApp(&fakePresenceReader{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/users/online", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		UserIDs []uint `json:"user_ids"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.UserIDs == nil {
		t.Errorf("user_ids is null, want empty array")
	}
}

func TestGetUserOnline(t *testing.T) {
	presence := &fakePresenceReader{online: map[uint]bool{3: true}}
	connections := &fakeConnectionChecker{online: map[uint]bool{5: true}}

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantOnline bool
	}{
		{"Online in presence store", "/users/3/online", fiber.StatusOK, true},
		{"Online via local registry fallback", "/users/5/online", fiber.StatusOK, true},
		{"Offline everywhere", "/users/9/online", fiber.StatusOK, false},
		{"Invalid id", "/users/abc/online", fiber.StatusBadRequest, false},
	}

	app := presenceTestApp(presence, connections)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus != fiber.StatusOK {
				return
			}

			var body struct {
				UserID   uint `json:"user_id"`
				IsOnline bool `json:"is_online"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.IsOnline != tt.wantOnline {
				t.Errorf("is_online = %v, want %v", body.IsOnline, tt.wantOnline)
			}
		})
	}
}
