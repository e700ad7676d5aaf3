package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/submission-validator/internal/services"
)

const callerLocalsKey = "caller"

// RequireCaller rejects requests whose Authorization header the verifier
// does not accept.
func RequireCaller(verifier services.CallerVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get(fiber.HeaderAuthorization)
		if authorization == "" {
			return writeError(c, services.ErrUnauthorized)
		}

		caller, err := verifier.Verify(c.UserContext(), authorization)
		if err != nil {
			return writeError(c, services.ErrUnauthorized)
		}

		c.Locals(callerLocalsKey, caller)
		return c.Next()
	}
}

// callerID returns the ID of the caller RequireCaller stored on c, or "" for
// routes outside the secured group.
func callerID(c *fiber.Ctx) string {
	caller, ok := c.Locals(callerLocalsKey).(*services.Caller)
	if !ok || caller == nil {
		return ""
	}
	return caller.ID
}
