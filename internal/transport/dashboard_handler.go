package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DashboardHandler serves the admin dashboard aggregates
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// RegisterRoutes registers the dashboard routes behind auth + admin checks
func (h *DashboardHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/dashboard", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Get("/stats", h.Stats)
		r.Get("/recent-orders", h.RecentOrders)
	})
}

// Stats returns the aggregate sales statistics
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to load dashboard stats", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load dashboard stats")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

// RecentOrders returns the newest orders
func (h *DashboardHandler) RecentOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.dashboardService.RecentOrders(r.Context())
	if err != nil {
		h.logger.Error("Failed to load recent orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load recent orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}
