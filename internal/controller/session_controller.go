package controller

import (
	"errors"

	"ai-writing-be/internal/dto"
	"ai-writing-be/internal/pkg/serverutils"
	"ai-writing-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	GetCurrentPos(ctx *fiber.Ctx) error
	SetCurrentPos(ctx *fiber.Ctx) error
	ListRecords(ctx *fiber.Ctx) error
	GetRecord(ctx *fiber.Ctx) error
	SaveOutline(ctx *fiber.Ctx) error
	SaveArticle(ctx *fiber.Ctx) error
	ChapterReferences(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session")
	h.Get("current_pos", c.GetCurrentPos)
	h.Post("current_pos", c.SetCurrentPos)
	h.Get("records", c.ListRecords)
	h.Get("records/:pos<int>", c.GetRecord)
	h.Post("outline", c.SaveOutline)
	h.Post("article", c.SaveArticle)
	h.Get("chapter_references", c.ChapterReferences)
}

func (c *sessionController) GetCurrentPos(ctx *fiber.Ctx) error {
	sessionUuid, ok := serverutils.SessionUuid(ctx)
	if !ok {
		return fiber.ErrBadRequest
	}

	pos, err := c.sessionService.GetCurrentPos(ctx.Context(), sessionUuid)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"status":       "success",
		"current_pos":  pos,
		"session_uuid": sessionUuid.String(),
	})
}

func (c *sessionController) SetCurrentPos(ctx *fiber.Ctx) error {
	sessionUuid, ok := serverutils.SessionUuid(ctx)
	if !ok {
		return fiber.ErrBadRequest
	}

	var req dto.SetPositionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.sessionService.SetCurrentPos(ctx.Context(), sessionUuid, *req.Pos); err != nil {
		return sessionError(ctx, err)
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *sessionController) ListRecords(ctx *fiber.Ctx) error {
	sessionUuid, ok := serverutils.SessionUuid(ctx)
	if !ok {
		return fiber.ErrBadRequest
	}

	records, currentPos, err := c.sessionService.ListRecords(ctx.Context(), sessionUuid)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"status":       "success",
		"records":      records,
		"total":        len(records),
		"session_uuid": sessionUuid.String(),
		"current_pos":  currentPos,
	})
}

func (c *sessionController) GetRecord(ctx *fiber.Ctx) error {
	sessionUuid, ok := serverutils.SessionUuid(ctx)
	if !ok {
		return fiber.ErrBadRequest
	}

	pos, err := ctx.ParamsInt("pos")
	if err != nil {
		return fiber.ErrBadRequest
	}

	record, err := c.sessionService.GetRecord(ctx.Context(), sessionUuid, pos)
	if err != nil {
		return sessionError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"status": "success",
		"record": record,
	})
}

func (c *sessionController) SaveOutline(ctx *fiber.Ctx) error {
	sessionUuid, ok := serverutils.SessionUuid(ctx)
	if !ok {
		return fiber.ErrBadRequest
	}

	var req dto.SaveOutlineRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.sessionService.SaveOutline(ctx.Context(), sessionUuid, *req.Pos, req.OutlineContent); err != nil {
		return sessionError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"status":  "success",
		"message": "Outline saved",
	})
}

func (c *sessionController) SaveArticle(ctx *fiber.Ctx) error {
	sessionUuid, ok := serverutils.SessionUuid(ctx)
	if !ok {
		return fiber.ErrBadRequest
	}

	var req dto.SaveArticleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err := c.sessionService.SaveArticle(ctx.Context(), sessionUuid, *req.Pos, req.Mode, req.ArticleContent, req.References)
	if err != nil {
		return sessionError(ctx, err)
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *sessionController) ChapterReferences(ctx *fiber.Ctx) error {
	sessionUuid, ok := serverutils.SessionUuid(ctx)
	if !ok {
		return fiber.ErrBadRequest
	}

	pos := ctx.QueryInt("pos", -1)
	chapterIndex := ctx.QueryInt("chapter_index", -1)
	if pos < 0 || chapterIndex < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "pos and chapter_index are required")
	}

	refs, err := c.sessionService.ChapterReferences(ctx.Context(), sessionUuid, pos, chapterIndex)
	if err != nil {
		return sessionError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"status":     "success",
		"references": refs,
	})
}

// sessionError maps the session service sentinels onto HTTP statuses while
// keeping the flat {status, message} body the clients parse.
func sessionError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrPositionOutOfRange), errors.Is(err, service.ErrInvalidMode):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrPositionConflict):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrRecordNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	default:
		return err
	}
}
