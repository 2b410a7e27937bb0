package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

type memStore struct {
	held     map[string]bool
	released []string
	err      error
}

func (m *memStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.held[key] {
		return false, nil
	}
	m.held[key] = true
	return true, nil
}

func (m *memStore) Release(ctx context.Context, key string) error {
	delete(m.held, key)
	m.released = append(m.released, key)
	return nil
}

func TestIdempotency(t *testing.T) {
	store := &memStore{held: map[string]bool{}}
	calls := 0
	fail := false

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(LocalUserID, "u1")
		return c.Next()
	})
	app.Use(Idempotency(store, time.Minute))
	app.Post("/posts", func(c *fiber.Ctx) error {
		calls++
		if fail {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.SendStatus(fiber.StatusCreated)
	})
	app.Get("/posts", func(c *fiber.Ctx) error {
		calls++
		return c.SendStatus(fiber.StatusOK)
	})

	send := func(method, key string) int {
		req := httptest.NewRequest(method, "/posts", nil)
		if key != "" {
			req.Header.Set(IdempotencyHeader, key)
		}
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		return resp.StatusCode
	}

	tests := []struct {
		name      string
		method    string
		key       string
		fail      bool
		want      int
		wantCalls int
	}{
		{"first submission", http.MethodPost, "k1", false, fiber.StatusCreated, 1},
		{"duplicate rejected", http.MethodPost, "k1", false, fiber.StatusConflict, 1},
		{"no key passes", http.MethodPost, "", false, fiber.StatusCreated, 2},
		{"reads ignored", http.MethodGet, "k1", false, fiber.StatusOK, 3},
		{"failed request", http.MethodPost, "k2", true, fiber.StatusBadRequest, 4},
		{"retry after failure", http.MethodPost, "k2", false, fiber.StatusCreated, 5},
	}
	for _, tt := range tests {
		fail = tt.fail
		if got := send(tt.method, tt.key); got != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, got, tt.want)
		}
		if calls != tt.wantCalls {
			t.Errorf("%s: handler calls = %d, want %d", tt.name, calls, tt.wantCalls)
		}
	}
	if len(store.released) != 1 || store.released[0] != "idem:u1:k2" {
		t.Errorf("released = %v", store.released)
	}
}

func TestIdempotencyStoreDown(t *testing.T) {
	app := fiber.New()
	app.Use(Idempotency(&memStore{err: errors.New("dial tcp: refused")}, time.Minute))
	app.Post("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(IdempotencyHeader, "k1")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}
}
