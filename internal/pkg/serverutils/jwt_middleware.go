package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func extractToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) >= 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	// Browser clients carry the token as an HTTP-only cookie instead.
	return ctx.Cookies("access_token")
}

func parseUserID(tokenStr string) (string, bool) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func JwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr := extractToken(ctx)
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
	}

	userID, ok := parseUserID(tokenStr)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	ctx.Locals("user_id", userID)
	return ctx.Next()
}

// OptionalJwtMiddleware resolves the user when a valid token is present but
// lets anonymous requests through. Session-scoped endpoints use this so the
// same routes serve both logged-in and guest writers.
func OptionalJwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr := extractToken(ctx)
	if tokenStr != "" {
		if userID, ok := parseUserID(tokenStr); ok {
			ctx.Locals("user_id", userID)
		}
	}
	return ctx.Next()
}
