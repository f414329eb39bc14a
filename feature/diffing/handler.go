package diffing

import (
	"errors"

	"diffing-research/core/diff"
	"diffing-research/core/logger"
	"diffing-research/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Request is the body of a diff request.
type Request struct {
	Source diff.Snapshot[catalog.MovieViewModel] `json:"source"`
	Target diff.Snapshot[catalog.MovieViewModel] `json:"target"`
	Verify bool                                  `json:"verify"`
}

// Handler handles HTTP requests for snapshot diffs.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

// RegisterRoutes registers the diff routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/diff", h.HandleDiff)
}

// HandleDiff computes the staged changeset between two snapshots.
// @Summary Diff Snapshots
// @Description Computes the staged changeset transforming source into target. With verify set the changeset is replayed and checked against target.
// @Tags diff
// @Accept json
// @Produce json
// @Param request body Request true "Source and target snapshots"
// @Success 200 {object} Report
// @Failure 400 {object} map[string]string "Invalid body"
// @Failure 422 {object} map[string]string "Duplicate identity"
// @Failure 500 {object} map[string]string "Verification failed"
// @Router /diff [post]
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	report, err := Compare(req.Source, req.Target, req.Verify)
	switch {
	case errors.Is(err, diff.ErrDuplicateIdentity):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		logger.WithRayID(h.logger, c).Error("Diff verification failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	logger.WithRayID(h.logger, c).Debug("Diff computed",
		zap.Int("stages", report.Summary.Stages),
		zap.Int("changes", report.Summary.TotalChanges),
	)
	return c.JSON(report)
}
