package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

const recentOrderLimit = 10

// DashboardService is the read-only statistics layer behind the admin console
type DashboardService interface {
	Stats(ctx context.Context) (*repository.DashboardStats, error)
	RecentOrders(ctx context.Context) ([]*domain.Order, error)
}

type dashboardService struct {
	stats  repository.StatsRepository
	orders repository.OrderRepository
}

// NewDashboardService creates a new instance of DashboardService
func NewDashboardService(stats repository.StatsRepository, orders repository.OrderRepository) DashboardService {
	return &dashboardService{
		stats:  stats,
		orders: orders,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.stats.DashboardStats(ctx)
}

func (s *dashboardService) RecentOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListRecent(ctx, recentOrderLimit)
}
