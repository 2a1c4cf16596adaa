package controller

import (
	"bufio"
	"context"
	"errors"

	"ai-writing-be/internal/constant"
	"ai-writing-be/internal/dto"
	"ai-writing-be/internal/pkg/serverutils"
	"ai-writing-be/internal/service"
	"ai-writing-be/pkg/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IGenerateController interface {
	RegisterRoutes(r fiber.Router)
	Outlines(ctx *fiber.Ctx) error
	DemoOutline(ctx *fiber.Ctx) error
	Articles(ctx *fiber.Ctx) error
}

type generateController struct {
	generationService service.IGenerationService
}

func NewGenerateController(generationService service.IGenerationService) IGenerateController {
	return &generateController{
		generationService: generationService,
	}
}

func (c *generateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generate")
	h.Post("outlines", c.Outlines)
	h.Post("demooutline", c.DemoOutline)
	h.Post("articles", c.Articles)
}

// Outlines answers with the outline text itself, not a JSON envelope; the
// editor drops the body straight into the outline pane.
func (c *generateController) Outlines(ctx *fiber.Ctx) error {
	sessionUuid, ok := serverutils.SessionUuid(ctx)
	if !ok {
		return fiber.ErrBadRequest
	}

	var req dto.OutlineGenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	text, err := c.generationService.GenerateOutline(ctx.Context(), sessionUuid, &req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownOperation) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return ctx.SendString(text)
}

func (c *generateController) DemoOutline(ctx *fiber.Ctx) error {
	sessionUuid, ok := serverutils.SessionUuid(ctx)
	if !ok {
		return fiber.ErrBadRequest
	}

	var req dto.DemoOutlineRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	text, err := c.generationService.GenerateDemoOutline(ctx.Context(), sessionUuid, &req)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return ctx.SendString(text)
}

// Articles dispatches on the operation type: full runs stream the tagged
// line protocol, the rewrite operations answer with plain JSON.
func (c *generateController) Articles(ctx *fiber.Ctx) error {
	sessionUuid, ok := serverutils.SessionUuid(ctx)
	if !ok {
		return fiber.ErrBadRequest
	}

	var req dto.ArticleGenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	switch req.Type {
	case constant.ArticleOpGenerate, constant.ArticleOpContinue:
		return c.streamArticle(ctx, sessionUuid, &req)

	case constant.ArticleOpSingleChapter:
		chapter, err := c.generationService.GenerateSingleChapter(ctx.Context(), sessionUuid, &req)
		if err != nil {
			return err
		}
		return ctx.JSON(fiber.Map{
			"status":  "success",
			"chapter": chapter,
		})

	case constant.ArticleOpModifyArticle, constant.ArticleOpPolishArticle:
		text, err := c.generationService.RewriteArticle(ctx.Context(), sessionUuid, &req)
		if err != nil {
			return err
		}
		return ctx.JSON(fiber.Map{
			"status":  "success",
			"article": text,
		})

	case constant.ArticleOpModifySection, constant.ArticleOpPolishSection:
		text, err := c.generationService.RewriteSection(ctx.Context(), sessionUuid, &req)
		if err != nil {
			return err
		}
		return ctx.JSON(fiber.Map{
			"status":  "success",
			"section": text,
		})

	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown generation operation")
	}
}

func (c *generateController) streamArticle(ctx *fiber.Ctx, sessionUuid uuid.UUID, req *dto.ArticleGenerateRequest) error {
	ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set("X-Accel-Buffering", "no")

	svc := c.generationService

	// The stream function runs after this handler returns and the fiber
	// context is recycled, so nothing from ctx may be touched inside it.
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		writer := stream.NewWriter(w)
		// Errors after this point ride the stream as CHAPTER_ERROR lines.
		_ = svc.StreamArticle(context.Background(), sessionUuid, req, writer)
	}))
	return nil
}
