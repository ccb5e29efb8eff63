package services

import (
	"context"

	"BeykushStoreAPI/internal/model"
)

// CatalogClient is the slice of the commerce backend the product
// service needs
type CatalogClient interface {
	Products(ctx context.Context, first int, after, category string) (model.ProductPage, error)
	ProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
}

// ProductService is a pass-through to the commerce backend's catalog
type ProductService struct {
	Commerce CatalogClient
}

func NewProductService(commerce CatalogClient) *ProductService {
	return &ProductService{Commerce: commerce}
}

func (s *ProductService) List(ctx context.Context, first int, after, category string) (model.ProductPage, error) {
	return s.Commerce.Products(ctx, first, after, category)
}

func (s *ProductService) BySlug(ctx context.Context, slug string) (*model.Product, error) {
	return s.Commerce.ProductBySlug(ctx, slug)
}

func (s *ProductService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.Commerce.Categories(ctx)
}
