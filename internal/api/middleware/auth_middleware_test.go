package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/internal/transfer"
	"github.com/maheshrc27/contentflow/pkg/utils"
)

type fakeKeys struct{ owners map[string]string }

func (f fakeKeys) Create(ctx context.Context, userID string) (*models.ApiKey, error) { return nil, nil }
func (f fakeKeys) List(ctx context.Context, userID string) ([]*models.ApiKey, error) {
	return nil, nil
}
func (f fakeKeys) RemoveAPIKey(ctx context.Context, userID string, keyID int64) error { return nil }
func (f fakeKeys) GetUserID(ctx context.Context, apiKey string) (string, error) {
	if id, ok := f.owners[apiKey]; ok {
		return id, nil
	}
	return "", service.ErrNotFound
}

type fakeUsers struct{ users map[string]*models.User }

func (f fakeUsers) GetUserInfo(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, service.ErrNotFound
}
func (f fakeUsers) ListTeam(ctx context.Context, actor models.Actor) ([]*models.User, error) {
	return nil, nil
}
func (f fakeUsers) CreateMember(ctx context.Context, req transfer.CreateUserRequest, actor models.Actor) (*models.User, error) {
	return nil, nil
}
func (f fakeUsers) UpdateMember(ctx context.Context, id string, req transfer.UpdateUserRequest, actor models.Actor) (*models.User, error) {
	return nil, nil
}
func (f fakeUsers) RemoveUser(ctx context.Context, id string, actor models.Actor) error { return nil }

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{SecretKey: "secret", CookieName: "session", TokenTTL: time.Hour}
	acme := "Acme"
	users := fakeUsers{users: map[string]*models.User{
		"u3": {ID: "u3", Name: "Alice", Role: models.RoleClientAdmin, ClientID: &acme},
		"u9": {ID: "u9", Name: "Old", Role: "owner"},
	}}
	keys := fakeKeys{owners: map[string]string{"key-alice": "u3"}}

	app := fiber.New()
	app.Use(NewAuthMiddleware(cfg, keys, users).AuthMiddleware())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		actor := c.Locals(LocalActor).(models.Actor)
		return c.SendString(actor.Name + "@" + actor.TenantScope())
	})

	good, _ := utils.GenerateToken("secret", "u3", time.Hour)
	forged, _ := utils.GenerateToken("other", "u3", time.Hour)
	gone, _ := utils.GenerateToken("secret", "u404", time.Hour)
	legacy, _ := utils.GenerateToken("secret", "u9", time.Hour)

	tests := []struct {
		name   string
		cookie string
		header string
		query  string
		want   int
	}{
		{"anonymous", "", "", "", fiber.StatusUnauthorized},
		{"session cookie", good, "", "", fiber.StatusOK},
		{"forged cookie", forged, "", "", fiber.StatusUnauthorized},
		{"deleted user", gone, "", "", fiber.StatusUnauthorized},
		{"unknown role", legacy, "", "", fiber.StatusForbidden},
		{"api key header", "", "key-alice", "", fiber.StatusOK},
		{"api key query", "", "", "key-alice", fiber.StatusOK},
		{"bad api key", "", "nope", "", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/whoami"
			if tt.query != "" {
				target += "?api_key=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
