package controller

import (
	"errors"

	"ai-writing-be/internal/dto"
	"ai-writing-be/internal/pkg/serverutils"
	"ai-writing-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILibraryController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type libraryController struct {
	libraryService service.ILibraryService
}

func NewLibraryController(libraryService service.ILibraryService) ILibraryController {
	return &libraryController{
		libraryService: libraryService,
	}
}

// The private-library routes sit flat under /api, matching what the editor
// client calls.
func (c *libraryController) RegisterRoutes(r fiber.Router) {
	r.Post("upload_private_files", c.Upload)
	r.Get("get_private_files", c.List)
	r.Post("delete_private_file", c.Delete)
}

func (c *libraryController) Upload(ctx *fiber.Ctx) error {
	sessionUuid, ok := serverutils.SessionUuid(ctx)
	if !ok {
		return fiber.ErrBadRequest
	}

	var req dto.UploadPrivateFilesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	result, err := c.libraryService.Upload(ctx.Context(), sessionUuid, req.Files)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"status":   "success",
		"uploaded": result.Uploaded,
		"skipped":  result.Skipped,
	})
}

func (c *libraryController) List(ctx *fiber.Ctx) error {
	sessionUuid, ok := serverutils.SessionUuid(ctx)
	if !ok {
		return fiber.ErrBadRequest
	}

	files, err := c.libraryService.List(ctx.Context(), sessionUuid)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"status": "success",
		"files":  files,
	})
}

func (c *libraryController) Delete(ctx *fiber.Ctx) error {
	sessionUuid, ok := serverutils.SessionUuid(ctx)
	if !ok {
		return fiber.ErrBadRequest
	}

	var req dto.DeletePrivateFileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.libraryService.Delete(ctx.Context(), sessionUuid, req.Name); err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return err
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}
