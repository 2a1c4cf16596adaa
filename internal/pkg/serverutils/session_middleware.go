package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const SessionCookieName = "session_uuid"

// SessionMiddleware guarantees every caller has a writing session identity.
// First contact mints a UUID and sets it as an HTTP-only cookie; subsequent
// requests reuse it. The resolved ID lands in ctx.Locals("session_uuid").
func SessionMiddleware(ctx *fiber.Ctx) error {
	sessionID := ctx.Cookies(SessionCookieName)

	if _, err := uuid.Parse(sessionID); err != nil {
		sessionID = uuid.New().String()
		ctx.Cookie(&fiber.Cookie{
			Name:     SessionCookieName,
			Value:    sessionID,
			Expires:  time.Now().Add(30 * 24 * time.Hour),
			HTTPOnly: true,
			SameSite: "Lax",
			Path:     "/",
		})
	}

	ctx.Locals("session_uuid", sessionID)
	return ctx.Next()
}

// SessionUuid reads the session identity resolved by SessionMiddleware.
func SessionUuid(ctx *fiber.Ctx) (uuid.UUID, bool) {
	raw, _ := ctx.Locals("session_uuid").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// UserSessionUuid derives the stable writing-session id for an account, so
// history follows a user across devices and logins.
func UserSessionUuid(userId uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("writing-session:"+userId.String()))
}

// BindUserSession swaps the caller's session cookie to the account-derived
// session id after login.
func BindUserSession(ctx *fiber.Ctx, userId uuid.UUID) uuid.UUID {
	sessionID := UserSessionUuid(userId)
	ctx.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID.String(),
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	ctx.Locals("session_uuid", sessionID.String())
	return sessionID
}
