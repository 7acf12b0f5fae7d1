package transport

import (
	"net/http"

	"linkshelf/internal/middleware"
	"linkshelf/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ImportHandler handles the CSV bulk import endpoint
type ImportHandler struct {
	importer service.ImportService
	maxBytes int64
	logger   *zap.Logger
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importer service.ImportService, maxBytes int64, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{
		importer: importer,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// RegisterRoutes registers the import route
func (h *ImportHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/api/import", h.Import)
	})
}

// Import takes a CSV upload and runs the all-or-nothing batch import.
// A result with row errors still responds 200: the scan succeeded, the
// batch was just vetoed.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	file, _, err := r.FormFile("csv")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	result, err := h.importer.ImportCSV(r.Context(), file)
	if err != nil {
		h.logger.Error("CSV import failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "csv import failed: "+err.Error())
		return
	}

	h.logger.Info("CSV import finished",
		zap.Int("inserted", result.InsertedCount),
		zap.Int("row_errors", len(result.Errors)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, result)
}
