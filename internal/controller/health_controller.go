package controller

import (
	"time"

	"ai-writing-be/pkg/llm"
	"ai-writing-be/pkg/search"
	"ai-writing-be/pkg/vectorstore"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	db          *gorm.DB
	llmProvider llm.LLMProvider
	webProvider search.Provider
	vectors     vectorstore.VectorStore
}

func NewHealthController(db *gorm.DB, llmProvider llm.LLMProvider, webProvider search.Provider, vectors vectorstore.VectorStore) IHealthController {
	return &healthController{
		db:          db,
		llmProvider: llmProvider,
		webProvider: webProvider,
		vectors:     vectors,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	components := fiber.Map{
		"database":     c.databaseStatus(),
		"llm":          configured(c.llmProvider != nil),
		"search":       configured(c.webProvider != nil),
		"vector_store": configured(c.vectors != nil),
	}

	status := "healthy"
	if components["database"] != "ok" {
		status = "degraded"
	}

	return ctx.JSON(fiber.Map{
		"status":     status,
		"timestamp":  time.Now().Format(time.RFC3339),
		"components": components,
	})
}

func (c *healthController) databaseStatus() string {
	if c.db == nil {
		return "not_configured"
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return "error"
	}
	if err := sqlDB.Ping(); err != nil {
		return "error"
	}
	return "ok"
}

func configured(ok bool) string {
	if ok {
		return "ok"
	}
	return "not_configured"
}
