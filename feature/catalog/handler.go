package catalog

import (
	"errors"
	"net/url"
	"time"

	"diffing-research/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PageInfo summarises one cached page.
type PageInfo struct {
	Category  string    `json:"category"`
	Movies    int       `json:"movies"`
	Cached    bool      `json:"cached"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
	archive *Archive
}

// NewHandler creates a new HTTP handler. archive may be nil.
func NewHandler(service *Service, archive *Archive) *Handler {
	return &Handler{service: service, archive: archive}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/pages", h.HandleListPages)
	group.Post("/refresh", h.HandleRefresh)
	group.Get("/snapshots", h.HandleListSnapshots)
	group.Get("/snapshots/*", h.HandleGetSnapshot)
}

func pageInfos(pages []Page) []PageInfo {
	infos := make([]PageInfo, len(pages))
	for i, p := range pages {
		infos[i] = PageInfo{Category: p.Category, Movies: len(p.Movies), Cached: p.Cached, FetchedAt: p.FetchedAt}
	}
	return infos
}

// HandleListPages lists the cached category pages.
// @Summary List Catalog Pages
// @Description Lists the category pages currently held in the page cache.
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{} "Pages"
// @Router /catalog/pages [get]
func (h *Handler) HandleListPages(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"pages": pageInfos(h.service.Pages())})
}

// HandleRefresh refetches every category.
// @Summary Refresh Catalog
// @Description Refetches every category from TMDB, falling back to stored pages for failed categories.
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{} "Pages"
// @Failure 502 {object} map[string]string "No page could be fetched"
// @Router /catalog/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	pages, err := h.service.Refresh(c.Context())
	if err != nil {
		l.Error("Catalog refresh failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if len(pages) == 0 {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": ErrNoPages.Error()})
	}

	l.Info("Catalog refreshed", zap.Int("pages", len(pages)))
	return c.JSON(fiber.Map{"pages": pageInfos(pages)})
}

// HandleListSnapshots lists archived snapshots.
// @Summary List Archived Snapshots
// @Description Lists snapshots archived by boards, optionally for one board.
// @Tags catalog
// @Produce json
// @Param board query string false "Board name"
// @Success 200 {object} map[string]interface{} "Snapshots"
// @Failure 503 {object} map[string]string "Archive disabled"
// @Router /catalog/snapshots [get]
func (h *Handler) HandleListSnapshots(c *fiber.Ctx) error {
	if h.archive == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "snapshot archive is disabled"})
	}

	prefix := ""
	if board := c.Query("board"); board != "" {
		prefix = board + "/"
	}

	entries, err := h.archive.List(c.Context(), prefix)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Listing snapshots failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"snapshots": entries})
}

// HandleGetSnapshot returns one archived snapshot.
// @Summary Get Archived Snapshot
// @Tags catalog
// @Produce json
// @Param name path string true "Snapshot name, e.g. table/20260101T000000.000Z-<request id>"
// @Success 200 {object} ArchivedSnapshot
// @Failure 404 {object} map[string]string "Not found"
// @Failure 503 {object} map[string]string "Archive disabled"
// @Router /catalog/snapshots/{name} [get]
func (h *Handler) HandleGetSnapshot(c *fiber.Ctx) error {
	if h.archive == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "snapshot archive is disabled"})
	}

	name, err := url.PathUnescape(c.Params("*"))
	if err != nil || name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid snapshot name"})
	}

	doc, err := h.archive.Get(c.Context(), name)
	if errors.Is(err, ErrSnapshotNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Reading snapshot failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(doc)
}
