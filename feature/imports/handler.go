package imports

import (
	"context"
	"errors"
	"io"

	"stock-importer/core/logger"
	"stock-importer/feature/imports/models"
	"stock-importer/feature/imports/state"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHeader carries the acting operator label.
const UserHeader = "X-User"

// Handler handles HTTP requests for imports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the import routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/imports")
	group.Post("/upload", h.HandleUpload)
	group.Post("/lines/:id/match", h.HandleManualMatch)
	group.Post("/relate", h.HandleRelate)
	group.Post("/shipments/:id/emit", h.HandleEmitShipment)
	group.Post("/batches/:id/emit", h.HandleEmitBatch)
	group.Get("/progress/:batch", h.HandleProgress)
}

// MatchBody is the payload of a manual match.
type MatchBody struct {
	SKU        string `json:"sku"`
	LearnAlias bool   `json:"learn_alias"`
	AliasText  string `json:"alias_text"`
}

// HandleUpload ingests a spreadsheet.
// @Summary Upload Spreadsheet
// @Description Ingest an order or shipment export, persist its lines and run the matcher.
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet (.xlsx or .csv)"
// @Param kind formData string true "order_export or shipment_export"
// @Param client formData string true "Client name or id"
// @Param shipment_number formData string false "Shipment number (defaults to the file name)"
// @Param import_date formData string false "Date used for rows without one"
// @Param batch_id formData string false "Client-chosen batch id (uuid) for progress polling"
// @Success 200 {object} UploadResult "Upload summary"
// @Failure 400 {object} map[string]string "Validation Error"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /imports/upload [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return h.fail(c, l, "Failed to open upload", err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return h.fail(c, l, "Failed to read upload", err)
	}

	req := UploadRequest{
		Filename:       fh.Filename,
		Content:        content,
		Kind:           models.Kind(c.FormValue("kind")),
		Client:         c.FormValue("client"),
		ShipmentNumber: c.FormValue("shipment_number"),
		ImportDate:     c.FormValue("import_date"),
		BatchID:        c.FormValue("batch_id"),
		User:           c.Get(UserHeader),
	}

	// The run finishes even if the client disconnects.
	ctx := context.WithoutCancel(c.UserContext())
	res, err := h.service.Upload(ctx, req)
	if err != nil {
		return h.fail(c, l, "Upload failed", err)
	}
	return c.JSON(res)
}

// HandleManualMatch resolves a line to a SKU.
// @Summary Match Line
// @Description Resolve a line manually, propagate to identical pending lines and optionally learn an alias.
// @Tags imports
// @Accept json
// @Produce json
// @Param id path string true "Line ID"
// @Param body body MatchBody true "Resolution"
// @Success 200 {object} MatchResult "Match result"
// @Failure 400 {object} map[string]string "Validation Error"
// @Failure 404 {object} map[string]string "Line Not Found"
// @Router /imports/lines/{id}/match [post]
func (h *Handler) HandleManualMatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var body MatchBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	res, err := h.service.ManualMatch(c.UserContext(), MatchRequest{
		LineID:     c.Params("id"),
		SKU:        body.SKU,
		LearnAlias: body.LearnAlias,
		AliasText:  body.AliasText,
		User:       c.Get(UserHeader),
	})
	if err != nil {
		return h.fail(c, l, "Manual match failed", err)
	}
	return c.JSON(res)
}

// HandleRelate re-runs automatic matching.
// @Summary Auto Relate
// @Description Re-run the matcher over pending lines of a shipment, batch or client.
// @Tags imports
// @Accept json
// @Produce json
// @Param body body RelateRequest true "Scope"
// @Success 200 {object} RelateResult "Pending counts"
// @Failure 400 {object} map[string]string "Validation Error"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /imports/relate [post]
func (h *Handler) HandleRelate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req RelateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	req.User = c.Get(UserHeader)

	res, err := h.service.AutoRelate(c.UserContext(), req)
	if err != nil {
		return h.fail(c, l, "Auto-relate failed", err)
	}
	return c.JSON(res)
}

// HandleEmitShipment posts a shipment.
// @Summary Emit Shipment
// @Description Normalize a shipment and post it to the ledger in one transaction.
// @Tags imports
// @Produce json
// @Param id path string true "Shipment ID"
// @Success 200 {object} emit.ShipmentResult "Emission result"
// @Failure 400 {object} map[string]string "Already Emitted"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 422 {object} map[string]string "Nothing To Emit"
// @Router /imports/shipments/{id}/emit [post]
func (h *Handler) HandleEmitShipment(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.EmitShipment(c.UserContext(), c.Params("id"), c.Get(UserHeader))
	if err != nil {
		return h.fail(c, l, "Shipment emission failed", err)
	}
	return c.JSON(res)
}

// HandleEmitBatch posts an order-export batch.
// @Summary Emit Batch
// @Description Emit every order of a batch; with dry_run=true only the plan is returned.
// @Tags imports
// @Produce json
// @Param id path string true "Batch ID"
// @Param dry_run query bool false "Return the plan without applying it"
// @Success 200 {object} emit.BatchResult "Emission counts"
// @Failure 400 {object} map[string]string "Validation Error"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 422 {object} map[string]string "Nothing To Emit"
// @Router /imports/batches/{id}/emit [post]
func (h *Handler) HandleEmitBatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ctx := context.WithoutCancel(c.UserContext())

	if c.QueryBool("dry_run") {
		plan, err := h.service.PlanBatch(ctx, c.Params("id"))
		if err != nil {
			return h.fail(c, l, "Emission planning failed", err)
		}
		return c.JSON(plan)
	}

	res, err := h.service.EmitBatch(ctx, c.Params("id"), c.Get(UserHeader))
	if err != nil {
		return h.fail(c, l, "Batch emission failed", err)
	}
	return c.JSON(res)
}

// HandleProgress returns the live progress of a batch.
// @Summary Import Progress
// @Description Poll the stage of a running upload or emission. Terminal stages are completed and error.
// @Tags imports
// @Produce json
// @Param batch path string true "Batch ID"
// @Success 200 {object} progress.Value "Progress"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /imports/progress/{batch} [get]
func (h *Handler) HandleProgress(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	v, err := h.service.Progress(c.UserContext(), c.Params("batch"))
	if err != nil {
		return h.fail(c, l, "Progress lookup failed", err)
	}
	return c.JSON(v)
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// StatusFor maps pipeline errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrLineNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrNothingToEmit), errors.Is(err, state.ErrInvalidTransition), errors.Is(err, state.ErrTerminal):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
