package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"accredapi/internal/auth"
	"accredapi/internal/model"
)

// ActorLocalKey is the Fiber locals key holding the authenticated model.Actor.
const ActorLocalKey = "actor"

// Authenticate verifies the bearer token and stores the caller under ActorLocalKey.
// The token is read from the Authorization header, or from the access_token query
// parameter for clients such as EventSource that cannot set headers.
func Authenticate(secret []byte, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Query("access_token")
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		actor, err := auth.ParseToken(secret, issuer, token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				return fiber.NewError(fiber.StatusUnauthorized, "token expired")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		SetActor(c, actor)
		return c.Next()
	}
}

// SetActor stores actor on the request.
func SetActor(c *fiber.Ctx, actor model.Actor) {
	c.Locals(ActorLocalKey, actor)
}

// ActorFrom returns the actor stored by Authenticate.
func ActorFrom(c *fiber.Ctx) (model.Actor, bool) {
	actor, ok := c.Locals(ActorLocalKey).(model.Actor)
	return actor, ok
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
