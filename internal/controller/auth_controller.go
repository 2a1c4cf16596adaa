package controller

import (
	"context"
	"errors"
	"time"

	"ai-writing-be/internal/dto"
	"ai-writing-be/internal/pkg/serverutils"
	"ai-writing-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	ForgotPassword(ctx *fiber.Ctx) error
	ResetPassword(ctx *fiber.Ctx) error
}

type authController struct {
	service  service.IAuthService
	sessions service.ISessionService
}

func NewAuthController(service service.IAuthService, sessions service.ISessionService) IAuthController {
	return &authController{service: service, sessions: sessions}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Post("/logout", c.Logout)
	h.Get("/status", c.Status)
	h.Post("/forgot-password", c.ForgotPassword)
	h.Post("/reset-password", c.ResetPassword)

	// Short aliases kept for older clients.
	r.Post("/register", c.Register)
	r.Post("/login", c.Login)
	r.Post("/logout", c.Logout)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"user":   res,
	})
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.Context(), &req, ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return err
	}

	setAuthCookies(ctx, res)

	// Logging in swaps the anonymous cookie session for the account-derived
	// one so history follows the user.
	userId, _ := uuid.Parse(res.UserId)
	sessionUuid := serverutils.BindUserSession(ctx, userId)

	// Stamp ownership and warm the session cache before the app's first
	// current_pos fetch. Best-effort, off the request path.
	go func() {
		_ = c.sessions.AdoptSession(context.Background(), sessionUuid, userId)
	}()

	return ctx.JSON(fiber.Map{
		"status":       "success",
		"user":         res.User,
		"access_token": res.AccessToken,
		"session_uuid": sessionUuid.String(),
	})
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	refreshToken := ctx.Cookies("refresh_token")
	// Revocation is best-effort; the client forgets its cookies regardless.
	_ = c.service.Logout(ctx.Context(), refreshToken)

	clearCookie(ctx, "access_token")
	clearCookie(ctx, "refresh_token")

	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *authController) Status(ctx *fiber.Ctx) error {
	var userId *uuid.UUID
	if raw, ok := ctx.Locals("user_id").(string); ok && raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			userId = &id
		}
	}

	res, err := c.service.Status(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"status":        "success",
		"authenticated": res.Authenticated,
		"email":         res.Email,
	})
}

func (c *authController) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.ForgotPassword(ctx.Context(), &req); err != nil {
		return err
	}

	// Same answer whether the account exists or not.
	return ctx.JSON(fiber.Map{
		"status":  "success",
		"message": "If the email exists, a reset token was sent",
	})
}

func (c *authController) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.ResetPassword(ctx.Context(), &req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

func setAuthCookies(ctx *fiber.Ctx, res *dto.LoginResponse) {
	ctx.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    res.AccessToken,
		Expires:  time.Now().Add(1 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	ctx.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    res.RefreshToken,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/api/auth",
	})
}

func clearCookie(ctx *fiber.Ctx, name string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})
}
