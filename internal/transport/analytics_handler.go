package transport

import (
	"net/http"

	"linkshelf/internal/middleware"
	"linkshelf/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AnalyticsHandler handles the click report and the jobs placeholder
type AnalyticsHandler struct {
	analytics service.AnalyticsService
	logger    *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analytics service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger,
	}
}

// RegisterRoutes registers the analytics routes
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/api/analytics", h.Report)
		r.Get("/api/jobs", h.Jobs)
	})
}

// Report returns per-product click counts for the trailing 7 days
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.analytics.Report(r.Context())
	if err != nil {
		h.logger.Error("Failed to build click report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, report)
}

// Jobs is an inert placeholder. No scheduler exists; the timestamps
// are always null.
func (h *AnalyticsHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"last_price_sync":  nil,
		"next_price_sync":  nil,
		"last_auto_import": nil,
		"last_auto_delete": nil,
	})
}
