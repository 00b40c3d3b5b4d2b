package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("RATE_LIMIT_CHECK", "42")

	config := LoadRateLimitConfig()
	if config.CheckMax != 42 {
		t.Errorf("Expected CheckMax 42, got %d", config.CheckMax)
	}
	if config.CheckExpiration != time.Minute {
		t.Errorf("Expected 1m expiration, got %v", config.CheckExpiration)
	}
}

func TestLoadRateLimitConfig_IgnoresInvalid(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("RATE_LIMIT_CHECK", "-5")

	if config := LoadRateLimitConfig(); config.CheckMax != 120 {
		t.Errorf("Expected default 120, got %d", config.CheckMax)
	}
}

func TestLoadRateLimitConfig_Development(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("RATE_LIMIT_CHECK", "")

	if config := LoadRateLimitConfig(); config.CheckMax != 1000 {
		t.Errorf("Expected relaxed limit 1000, got %d", config.CheckMax)
	}
}

func TestVersionCheckRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Use(VersionCheckRateLimiter(&RateLimitConfig{CheckMax: 2, CheckExpiration: time.Minute}))
	app.Post("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
		if err != nil {
			t.Fatalf("Failed to send request: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i+1, resp.StatusCode)
		}
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("Expected 429 after the limit, got %d", resp.StatusCode)
	}
}
