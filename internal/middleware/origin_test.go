package middleware

import (
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func originTestApp() *fiber.App {
	app := fiber.New()
	app.Use(OriginAllowed())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestOriginAllowed(t *testing.T) {
	os.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")
	defer os.Unsetenv("ALLOWED_ORIGINS")
	app := originTestApp()

	tests := []struct {
		name       string
		origin     string
		wantStatus int
	}{
		{"Allowed origin", "https://app.example.com", fiber.StatusOK},
		{"Second allowed origin", "https://staging.example.com", fiber.StatusOK},
		{"Unlisted origin", "https://evil.example.com", fiber.StatusForbidden},
		{"No origin header", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.origin != "" {
				req.Header.Set(fiber.HeaderOrigin, tt.origin)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestOriginAllowedUnconfigured(t *testing.T) {
	os.Unsetenv("ALLOWED_ORIGINS")
	app := originTestApp()

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://anything.example.com")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d with empty allow-list, want %d", resp.StatusCode, fiber.StatusOK)
	}
}
