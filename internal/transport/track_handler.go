package transport

import (
	"errors"
	"net/http"

	"linkshelf/internal/middleware"
	"linkshelf/internal/repository"
	"linkshelf/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TrackHandler handles the click-tracking redirect endpoint
type TrackHandler struct {
	tracking service.TrackingService
	logger   *zap.Logger
}

// NewTrackHandler creates a new TrackHandler
func NewTrackHandler(tracking service.TrackingService, logger *zap.Logger) *TrackHandler {
	return &TrackHandler{
		tracking: tracking,
		logger:   logger,
	}
}

// RegisterRoutes registers the tracking route
func (h *TrackHandler) RegisterRoutes(r chi.Router) {
	r.Get("/track/{id}", h.Track)
}

// Track records a click for the product and redirects to its external
// link. The click is committed before the redirect is issued; if the
// product is unknown nothing is recorded and the response is 404.
// There is no third outcome.
func (h *TrackHandler) Track(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	link, err := h.tracking.RecordClick(r.Context(), id, r.RemoteAddr, r.UserAgent())
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to record click", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to record click")
		return
	}

	http.Redirect(w, r, link, http.StatusFound)
}
