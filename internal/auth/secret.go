package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/flowbit/flowbit-api/pkg/util"
)

// CallbackSecretHeader carries the shared secret on workflow-engine callbacks.
const CallbackSecretHeader = "X-Flowbit-Secret"

// RequireCallbackSecret gates the service callback route. The caller is a
// trusted service, not an end user: no token is verified here, and the
// tenant it asserts comes from the request body. An end-user token is
// never accepted on this path, and the secret grants nothing elsewhere.
func RequireCallbackSecret(expected string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		presented := c.Get(CallbackSecretHeader)
		if expected == "" || presented == "" ||
			subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) != 1 {
			return apperrors.NewForbidden("unauthorized webhook call")
		}
		return c.Next()
	}
}
