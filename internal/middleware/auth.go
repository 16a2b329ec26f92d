package middleware

import (
	"github.com/gofiber/fiber/v3"
)

// RequesterHeader carries the opaque requester id set by the upstream
// identity layer after it has verified the session.
const RequesterHeader = "X-Requester-Id"

// RequesterIDKey is the Locals key handlers read the requester id from.
const RequesterIDKey = "requesterID"

// RequireRequester rejects requests without an upstream-verified requester id.
func RequireRequester(c fiber.Ctx) error {
	id := c.Get(RequesterHeader)
	if id == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "missing requester identity",
		})
	}
	c.Locals(RequesterIDKey, id)
	return c.Next()
}

// RequesterID returns the requester id set by RequireRequester.
func RequesterID(c fiber.Ctx) string {
	id, _ := c.Locals(RequesterIDKey).(string)
	return id
}
