package services

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/keysncaps/keysncaps/app/models"
	"github.com/keysncaps/keysncaps/app/repositories"
	"github.com/keysncaps/keysncaps/pkg/cache"
	"github.com/keysncaps/keysncaps/pkg/logger"
	"github.com/keysncaps/keysncaps/pkg/storage"
)

const (
	catalogCacheTTL = 5 * time.Minute
	catalogCacheKey = "catalog:first_page"

	// LowStockThreshold is the stock level at which a product is flagged
	// for restocking.
	LowStockThreshold = 5
)

// ProductService wraps catalog reads with a Redis cache and handles admin
// writes with cache invalidation and image storage.
type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService(products *repositories.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// cachedPage is the cache entry for the unfiltered first catalog page.
type cachedPage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// List returns the public catalog. The unfiltered first page is served from
// cache when available since it backs the storefront landing page.
func (s *ProductService) List(ctx context.Context, filter repositories.ProductFilter, page, limit int) ([]models.Product, int64, error) {
	filter.ActiveOnly = true

	cacheable := page <= 1 && filter.Category == "" && filter.MaxPrice == 0 && filter.SearchTerm == ""
	if cacheable {
		var entry cachedPage
		if cache.Get(catalogCacheKey, &entry) {
			return entry.Products, entry.Total, nil
		}
	}

	products, total, err := s.products.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		if err := cache.Set(catalogCacheKey, cachedPage{Products: products, Total: total}, catalogCacheTTL); err != nil {
			logger.Warn("product: catalog cache write failed", "error", err)
		}
	}
	return products, total, nil
}

// Get returns a single product.
func (s *ProductService) Get(ctx context.Context, id string) (models.Product, error) {
	return s.products.FindByID(ctx, id)
}

// Create persists a new product and invalidates the catalog cache.
func (s *ProductService) Create(ctx context.Context, p *models.Product) error {
	if err := s.products.Create(ctx, p); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Update overwrites a product and invalidates the catalog cache.
func (s *ProductService) Update(ctx context.Context, p *models.Product) error {
	if err := s.products.Update(ctx, p); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// SetStock updates a product's inventory counter.
func (s *ProductService) SetStock(ctx context.Context, id string, stock int) error {
	if err := s.products.SetStock(ctx, id, stock); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Deactivate soft-deletes a product.
func (s *ProductService) Deactivate(ctx context.Context, id string) error {
	if err := s.products.Deactivate(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// AttachImage stores an uploaded product image on the configured disk and
// records its public URL on the product.
func (s *ProductService) AttachImage(ctx context.Context, id, filename string, data []byte) (string, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("products/%s%s", id, path.Ext(filename))
	if err := storage.Put(key, data); err != nil {
		return "", fmt.Errorf("product: store image: %w", err)
	}

	product.ImageURL = storage.URL(key)
	if err := s.products.Update(ctx, &product); err != nil {
		return "", err
	}

	s.invalidate()
	return product.ImageURL, nil
}

// WarmCatalogCache preloads the first catalog page. Run from the scheduler.
func (s *ProductService) WarmCatalogCache(ctx context.Context) error {
	s.invalidate()
	_, _, err := s.List(ctx, repositories.ProductFilter{}, 1, 20)
	return err
}

// LowStock returns active products at or below the restock threshold.
func (s *ProductService) LowStock(ctx context.Context) ([]models.Product, error) {
	return s.products.LowStock(ctx, LowStockThreshold)
}

func (s *ProductService) invalidate() {
	if err := cache.Forget(catalogCacheKey); err != nil {
		logger.Warn("product: catalog cache invalidation failed", "error", err)
	}
}
