package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// CatalogService exposes read-only projections over the catalog
type CatalogService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, slug string) (*domain.Category, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, slug string) (*domain.Product, error)
	ListProductsByCategory(ctx context.Context, categorySlug string) ([]*domain.Product, error)
}

type catalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(categories repository.CategoryRepository, products repository.ProductRepository) CatalogService {
	return &catalogService{
		categories: categories,
		products:   products,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *catalogService) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	return s.categories.FindBySlug(ctx, slug)
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.ListAvailable(ctx)
}

func (s *catalogService) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	return s.products.FindBySlug(ctx, slug)
}

func (s *catalogService) ListProductsByCategory(ctx context.Context, categorySlug string) ([]*domain.Product, error) {
	return s.products.ListByCategorySlug(ctx, categorySlug)
}
