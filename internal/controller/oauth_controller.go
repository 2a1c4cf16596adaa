package controller

import (
	"context"
	"fmt"
	"os"

	"ai-writing-be/internal/pkg/serverutils"
	"ai-writing-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service  service.IOAuthService
	sessions service.ISessionService
}

func NewOAuthController(service service.IOAuthService, sessions service.ISessionService) IOAuthController {
	return &oauthController{service: service, sessions: sessions}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	if !c.service.Enabled() {
		return
	}
	h := r.Group("/auth")
	h.Get("/:provider", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	url, err := c.service.GetLoginURL(ctx.Params("provider"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return ctx.Redirect(url)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	code := ctx.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing code")
	}

	res, err := c.service.HandleCallback(ctx.Context(), provider, code)
	if err != nil {
		return err
	}

	setAuthCookies(ctx, res)
	userId, _ := uuid.Parse(res.UserId)
	sessionUuid := serverutils.BindUserSession(ctx, userId)
	go func() {
		_ = c.sessions.AdoptSession(context.Background(), sessionUuid, userId)
	}()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}
	return ctx.Redirect(fmt.Sprintf("%s/app?token=%s", frontendURL, res.AccessToken), fiber.StatusTemporaryRedirect)
}
