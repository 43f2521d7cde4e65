package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/pkg/utils"
)

const (
	// TenantKeyLocal is the Locals slot handlers read the resolved key from.
	TenantKeyLocal = "tenant_key"

	HeaderTelegramUserID = "X-Telegram-User-Id"
	HeaderTenantKey      = "X-Tenant-Key"
	SessionCookieName    = "session_token"
)

// Identity resolves a tenant key for every request, first match wins:
// Telegram user header, explicit tenant-key header, signed session cookie,
// then a freshly minted cookie (or an address hash if even that fails).
//
// The key partitions data per caller; it proves nothing about the caller and
// must not be treated as authentication.
func Identity(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := strings.TrimSpace(c.Get(HeaderTelegramUserID)); id != "" {
			c.Locals(TenantKeyLocal, "tg_"+id)
			return c.Next()
		}

		if key := strings.TrimSpace(c.Get(HeaderTenantKey)); key != "" {
			c.Locals(TenantKeyLocal, key)
			return c.Next()
		}

		if cookie := c.Cookies(SessionCookieName); cookie != "" {
			if sessionID, err := utils.ParseSessionToken(cookie, secret); err == nil {
				c.Locals(TenantKeyLocal, "web_"+sessionID)
				return c.Next()
			}
			// Tampered or expired cookie: fall through and mint a new one.
		}

		sessionID := uuid.NewString()
		token, err := utils.GenerateSessionToken(sessionID, secret)
		if err != nil {
			c.Locals(TenantKeyLocal, "web_"+utils.OriginHash(c.IP()))
			return c.Next()
		}

		c.Cookie(&fiber.Cookie{
			Name:     SessionCookieName,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(365 * 24 * time.Hour),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(TenantKeyLocal, "web_"+sessionID)
		return c.Next()
	}
}

// TenantKey reads the key resolved by Identity.
func TenantKey(c *fiber.Ctx) string {
	key, _ := c.Locals(TenantKeyLocal).(string)
	return key
}
