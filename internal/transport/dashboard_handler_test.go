package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockDashboardService struct {
	stats  *repository.DashboardStats
	orders []*domain.Order
}

func (m *mockDashboardService) Stats(ctx context.Context) (*repository.DashboardStats, error) {
	return m.stats, nil
}

func (m *mockDashboardService) RecentOrders(ctx context.Context) ([]*domain.Order, error) {
	return m.orders, nil
}

const dashboardTestSecret = "test-secret"

func newDashboardRouter(svc *mockDashboardService) chi.Router {
	logger := zap.NewNop()
	handler := NewDashboardHandler(svc, logger)
	r := chi.NewRouter()
	handler.RegisterRoutes(r,
		middleware.AuthMiddleware(dashboardTestSecret, logger),
		middleware.RequireAdmin(logger),
	)
	return r
}

func signedToken(t *testing.T, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": uuid.New().String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(dashboardTestSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func TestDashboardStats_RequiresAuth(t *testing.T) {
	router := newDashboardRouter(&mockDashboardService{stats: &repository.DashboardStats{}})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}
}

func TestDashboardStats_RejectsNonAdmin(t *testing.T) {
	router := newDashboardRouter(&mockDashboardService{stats: &repository.DashboardStats{}})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for customer token, got %d", w.Code)
	}
}

func TestDashboardStats_ReturnsAggregates(t *testing.T) {
	router := newDashboardRouter(&mockDashboardService{
		stats: &repository.DashboardStats{
			Summary: repository.StatsSummary{
				TotalRevenue: 120.50,
				PaidOrders:   3,
			},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "admin"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got repository.DashboardStats
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Could not decode response: %v", err)
	}
	if got.Summary.TotalRevenue != 120.50 || got.Summary.PaidOrders != 3 {
		t.Errorf("Unexpected summary: %+v", got.Summary)
	}
}

func TestRecentOrders_ReturnsOrders(t *testing.T) {
	router := newDashboardRouter(&mockDashboardService{
		orders: []*domain.Order{
			{ID: uuid.New(), Status: domain.OrderStatusProcessing, Paid: true},
			{ID: uuid.New(), Status: domain.OrderStatusPendingPayment},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/recent-orders", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "admin"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var got []domain.Order
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Could not decode response: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 orders, got %d", len(got))
	}
}
