package integrity

import (
	"errors"

	"diffing-research/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/archive", h.HandleArchiveCheck)
}

func statusFor(err error) int {
	if errors.Is(err, ErrStorageDisabled) || errors.Is(err, ErrDatabaseDisabled) {
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func section(report any, err error) any {
	if err != nil {
		return map[string]any{"status": "error", "error": err.Error()}
	}
	return report
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs every integrity check (Storage, Schema, Archive). Disabled backends are reported as errors.
// @Tags integrity
// @Produce json
// @Param board query string false "Board whose archive is checked (default table)"
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]any)

	report["storage"] = section(h.service.CheckStorage(ctx))
	report["schema"] = section(h.service.CheckSchema())
	report["archive"] = section(h.service.CheckArchive(ctx, c.Query("board", "table")))

	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the archive bucket.
// @Summary Check Storage
// @Description Checks that the archive bucket exists and counts archived snapshots. Optionally creates the bucket.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket when missing"
// @Success 200 {object} checks.StorageReport "Storage Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Storage disabled"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckStorage(c.Context())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.Exists {
		l.Warn("Archive bucket missing", zap.String("bucket", report.Bucket))

		if fix {
			if err := h.service.FixStorage(c.Context()); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to create bucket",
					"details": err.Error(),
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"bucket": report.Bucket,
			})
		}
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks the page cache schema.
// @Summary Check Schema
// @Description Checks that the page cache table holds every column the catalog uses.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Database disabled"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Page cache schema mismatch", zap.Strings("missing", report.MissingColumns))
	}

	return c.JSON(report)
}

// HandleArchiveCheck replays the archived snapshots of a board.
// @Summary Check Archive
// @Description Walks a board's archived snapshots oldest first. Each must hold unique identities and each consecutive pair must replay to its target.
// @Tags integrity
// @Produce json
// @Param board query string false "Board name (default table)"
// @Success 200 {object} checks.ArchiveReport "Archive Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Storage disabled"
// @Router /integrity/archive [get]
func (h *Handler) HandleArchiveCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	board := c.Query("board", "table")
	l.Info("Starting archive check", zap.String("board", board))

	report, err := h.service.CheckArchive(c.Context(), board)
	if err != nil {
		l.Error("Archive check failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Archive check completed",
		zap.Int("snapshots", report.Snapshots),
		zap.Int("failures", len(report.Failures)),
	)
	return c.JSON(report)
}
