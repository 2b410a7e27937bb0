package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/policy"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/pkg/logging"
	"github.com/maheshrc27/contentflow/pkg/utils"
	"go.uber.org/zap"
)

const (
	LocalUserID = "user_id"
	LocalActor  = "actor"

	apiKeyHeader = "X-API-Key"
)

type AuthMiddleware struct {
	keys  service.ApiKeyService
	users service.UserService
	cfg   *config.Config
	log   *zap.Logger
}

func NewAuthMiddleware(cfg *config.Config, keys service.ApiKeyService, users service.UserService) *AuthMiddleware {
	return &AuthMiddleware{
		keys:  keys,
		users: users,
		cfg:   cfg,
		log:   logging.WithComponent("auth-middleware"),
	}
}

func (m *AuthMiddleware) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:   m.cfg.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// AuthMiddleware resolves the caller from an API key or the session cookie and
// stores the user id and models.Actor in Locals.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(m.cfg.CookieName)
		apiKey := c.Get(apiKeyHeader)
		if apiKey == "" {
			apiKey = c.Query("api_key")
		}

		if tokenString == "" && apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing API key or session cookie",
			})
		}

		var userID string
		if apiKey != "" {
			id, err := m.keys.GetUserID(c.Context(), apiKey)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid API key",
				})
			}
			userID = id
		} else {
			claims, err := utils.ValidateToken(m.cfg.SecretKey, tokenString)
			if err != nil {
				m.clearCookie(c)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid or expired token",
				})
			}
			userID = claims.UserID
		}

		user, err := m.users.GetUserInfo(c.Context(), userID)
		if errors.Is(err, service.ErrNotFound) {
			m.clearCookie(c)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Account no longer exists",
			})
		}
		if err != nil {
			m.log.Error("resolve user", zap.String("user_id", userID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong",
			})
		}
		if !policy.Known(user.Role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Unknown role",
			})
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalActor, user.Actor())
		return c.Next()
	}
}
