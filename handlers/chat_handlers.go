package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"pagechat/answer"
	"pagechat/chat"
	"pagechat/logger"
	"pagechat/metrics"
	"pagechat/models"
)

// Handler serves the HTTP API over a chat session.
type Handler struct {
	session *chat.Session
	engine  *answer.Engine
	metrics *metrics.Metrics
	log     logger.Logger
}

func New(session *chat.Session, engine *answer.Engine, m *metrics.Metrics, log logger.Logger) *Handler {
	return &Handler{session: session, engine: engine, metrics: m, log: log}
}

// ScrapePayload is the expected payload for the Scrape handler
type ScrapePayload struct {
	URL string `json:"url"`
}

// AskPayload is the expected payload for the Ask handler
type AskPayload struct {
	Message string   `json:"message"`
	URLs    []string `json:"urls"`
}

// Chat answers a question from contexts supplied in the request. It is the
// completion endpoint the proxy strategy calls.
func (h *Handler) Chat(c *fiber.Ctx) error {
	payload := new(answer.ChatRequest)
	if err := c.BodyParser(payload); err != nil || strings.TrimSpace(payload.Message) == "" || len(payload.Contexts) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}

	entries := make([]models.ContextEntry, len(payload.Contexts))
	for i, ctx := range payload.Contexts {
		entries[i] = models.ContextEntry{
			URL:   ctx.URL,
			Title: ctx.Title,
			Text:  models.Truncate(ctx.Text, models.MaxContextChars),
			Body:  ctx.Text,
		}
	}

	result := h.engine.AnswerEntries(c.UserContext(), payload.Message, entries)
	if !result.Success {
		msg := "Failed to process request"
		if errors.Is(result.Err, models.ErrEmptyResponse) {
			msg = "No response from model"
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": msg,
		})
	}
	return c.JSON(answer.ChatResponse{Response: result.Response})
}

// Scrape fetches a page and stores it
func (h *Handler) Scrape(c *fiber.Ctx) error {
	payload := new(ScrapePayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON payload",
		})
	}

	record, err := h.session.Scrape(c.UserContext(), payload.URL)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// ListContents returns every cached page, most recent first
func (h *Handler) ListContents(c *fiber.Ctx) error {
	return c.JSON(h.session.Contents())
}

// ClearContents drops every cached page
func (h *Handler) ClearContents(c *fiber.Ctx) error {
	if err := h.session.ClearContents(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Ask answers a question about cached pages and records the exchange
func (h *Handler) Ask(c *fiber.Ctx) error {
	payload := new(AskPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON payload",
		})
	}

	result, _ := h.session.Ask(c.UserContext(), payload.Message, payload.URLs)
	if !result.Success {
		return c.Status(statusFor(result.Err)).JSON(result)
	}
	return c.JSON(result)
}

// ListHistory returns the transcript, oldest first
func (h *Handler) ListHistory(c *fiber.Ctx) error {
	return c.JSON(h.session.History())
}

// ClearHistory drops the transcript
func (h *Handler) ClearHistory(c *fiber.Ctx) error {
	if err := h.session.ClearHistory(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Health reports liveness and the active answer strategy
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"strategy": h.engine.Strategy().Name(),
	})
}

func methodNotAllowed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
		"error": "Method not allowed",
	})
}

// statusFor maps an error class to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrNoContext):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrFetchFailed), errors.Is(err, models.ErrUpstreamFailure):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// SetupRoutes configures the API routes for the application
func SetupRoutes(app *fiber.App, h *Handler) {
	app.Get("/healthz", h.Health)
	if h.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))
	}

	api := app.Group("/api") // Base path for API routes

	api.Post("/chat", h.Chat)
	api.All("/chat", methodNotAllowed)

	api.Post("/scrape", h.Scrape)

	api.Get("/contents", h.ListContents)
	api.Delete("/contents", h.ClearContents)

	api.Post("/ask", h.Ask)

	api.Get("/history", h.ListHistory)
	api.Delete("/history", h.ClearHistory)
}
