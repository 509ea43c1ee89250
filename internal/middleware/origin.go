package middleware

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/danny15002/doubleb/internal/httpx"
)

// OriginAllowed rejects cross-site browser requests whose Origin header is
// not on the ALLOWED_ORIGINS list. Requests without an Origin header pass
// through untouched (native clients and same-origin fetches do not send
// one), as does everything when no list is configured. The allow-list is
// read once at wiring time.
func OriginAllowed() fiber.Handler {
	allowed := parseOriginList(os.Getenv("ALLOWED_ORIGINS"))
	return func(c *fiber.Ctx) error {
		origin := strings.TrimSpace(c.Get(fiber.HeaderOrigin))
		if origin == "" || len(allowed) == 0 {
			return c.Next()
		}
		if _, ok := allowed[origin]; !ok {
			return httpx.Forbidden(c, "origin_not_allowed", "Origin not allowed")
		}
		return c.Next()
	}
}

func parseOriginList(raw string) map[string]struct{} {
	allowed := make(map[string]struct{})
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = struct{}{}
		}
	}
	return allowed
}
