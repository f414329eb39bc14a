package board

import (
	"context"
	"errors"

	"diffing-research/core/logger"
	"diffing-research/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for boards.
type Handler struct {
	registry *Registry
}

// NewHandler creates a new HTTP handler.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// RegisterRoutes registers the board routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/boards")
	group.Get("/", h.HandleList)
	group.Get("/:name", h.HandleGet)
	group.Get("/:name/history", h.HandleHistory)
	group.Post("/:name/reload", h.request((*Board).Reload))
	group.Post("/:name/update", h.request((*Board).Update))
	group.Post("/:name/attach", h.request((*Board).Attach))
	group.Post("/:name/detach", h.request((*Board).Detach))
}

func (h *Handler) board(c *fiber.Ctx) (*Board, error) {
	b, err := h.registry.Get(c.Params("name"))
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return b, nil
}

// HandleList lists every board.
// @Summary List Boards
// @Description Lists every board with its current state.
// @Tags boards
// @Produce json
// @Success 200 {object} map[string]interface{} "Boards"
// @Router /boards [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	boards := h.registry.Boards()
	states := make([]State, len(boards))
	for i, b := range boards {
		states[i] = b.State()
	}
	return c.JSON(fiber.Map{"boards": states})
}

// HandleGet returns one board.
// @Summary Get Board
// @Description Returns the board's stats, visible rows and last outcome.
// @Tags boards
// @Produce json
// @Param name path string true "Board name"
// @Success 200 {object} State
// @Failure 404 {object} map[string]string "Unknown board"
// @Router /boards/{name} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	b, err := h.board(c)
	if b == nil {
		return err
	}
	return c.JSON(b.State())
}

// HandleHistory returns the board's recent batches.
// @Summary Board History
// @Description Returns the most recent batches the board's view accepted, oldest first.
// @Tags boards
// @Produce json
// @Param name path string true "Board name"
// @Success 200 {object} map[string]interface{} "Batches"
// @Failure 404 {object} map[string]string "Unknown board"
// @Router /boards/{name}/history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	b, err := h.board(c)
	if b == nil {
		return err
	}
	return c.JSON(fiber.Map{"board": b.Name(), "batches": b.History()})
}

// request adapts a board request to a handler that waits for the outcome.
// @Summary Board Request
// @Description Reloads, updates, attaches or detaches a board and returns the outcome. A request superseded by a newer one reports a stale result.
// @Tags boards
// @Produce json
// @Param name path string true "Board name"
// @Param action path string true "reload, update, attach or detach"
// @Success 200 {object} Outcome
// @Failure 404 {object} map[string]string "Unknown board"
// @Failure 502 {object} Outcome "No catalog pages"
// @Failure 500 {object} Outcome "Request failed"
// @Router /boards/{name}/{action} [post]
func (h *Handler) request(fn func(*Board, context.Context) <-chan Outcome) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, err := h.board(c)
		if b == nil {
			return err
		}

		o := <-fn(b, c.Context())
		l := logger.WithRayID(h.registry.logger, c).With(
			zap.String("board", b.Name()),
			zap.String("request_id", o.RequestID),
		)

		switch {
		case errors.Is(o.Err, catalog.ErrNoPages):
			l.Warn("Board request found no catalog pages")
			return c.Status(fiber.StatusBadGateway).JSON(o)
		case o.Err != nil:
			l.Error("Board request failed", zap.Error(o.Err))
			return c.Status(fiber.StatusInternalServerError).JSON(o)
		}

		l.Info("Board request completed", zap.String("kind", o.Kind), zap.String("mode", string(o.Result.Mode)))
		return c.JSON(o)
	}
}
