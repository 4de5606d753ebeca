package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/app/repositories"
	"github.com/storefront/backend/pkg/apperr"
	"github.com/storefront/backend/pkg/authz"
	"github.com/storefront/backend/pkg/cache"
	"github.com/storefront/backend/pkg/logger"
	"github.com/storefront/backend/pkg/storage"
)

const (
	cacheKeyProducts = "products:all"
	productCacheTTL  = 5 * time.Minute
)

func productCacheKey(id primitive.ObjectID) string {
	return "products:" + id.Hex()
}

// invalidateProductCache drops the list key plus any per-product keys.
// Called after every write that changes catalogue state, including the
// stock adjustments made by the order workflow. Package var so tests can
// observe the calls, like timeNow.
var invalidateProductCache = func(ids ...primitive.ObjectID) {
	keys := []string{cacheKeyProducts}
	for _, id := range ids {
		keys = append(keys, productCacheKey(id))
	}
	if err := cache.Del(keys...); err != nil {
		logger.L.Warn("product cache invalidation failed", "error", err)
	}
}

// ProductService manages the catalogue.
type ProductService struct {
	products ProductRepo
}

func NewProductService(products ProductRepo) *ProductService {
	return &ProductService{products: products}
}

// List returns every product, cache-aside with a short TTL.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	var cached []models.Product
	if cache.Get(cacheKeyProducts, &cached) {
		return cached, nil
	}

	products, err := s.products.All(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(cacheKeyProducts, products, productCacheTTL); err != nil {
		logger.L.Warn("product cache store failed", "error", err)
	}
	return products, nil
}

// Get returns a single product by id, cache-aside.
func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var cached models.Product
	if cache.Get(productCacheKey(id), &cached) {
		return &cached, nil
	}

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Product not found")
		}
		return nil, err
	}
	if err := cache.Set(productCacheKey(id), p, productCacheTTL); err != nil {
		logger.L.Warn("product cache store failed", "error", err)
	}
	return p, nil
}

type ProductInput struct {
	Name        string                `json:"name" validate:"required,max=100"`
	Description string                `json:"description" validate:"required,max=2000"`
	Price       float64               `json:"price" validate:"required,gte=0,lte=1000000"`
	Stock       int                   `json:"stock" validate:"nullable,gte=0"`
	Category    string                `json:"category" validate:"required"`
	Images      []models.ProductImage `json:"images"`
}

// Create adds a product owned by the acting admin.
func (s *ProductService) Create(ctx context.Context, principal authz.Principal, in ProductInput) (*models.Product, error) {
	if !models.ValidCategory(in.Category) {
		return nil, apperr.New(apperr.InvalidInput, "Invalid category %q", in.Category)
	}

	p := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    in.Category,
		Images:      in.Images,
		User:        principal.ID,
	}
	if p.Images == nil {
		p.Images = []models.ProductImage{}
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}

	invalidateProductCache()
	return p, nil
}

// Update applies the input to an existing product. Only the owning admin
// (or any admin, per the owner-or-admin rule) may update.
func (s *ProductService) Update(ctx context.Context, principal authz.Principal, id primitive.ObjectID, in ProductInput) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Product not found")
		}
		return nil, err
	}
	if err := authz.CanAccess(principal, p.User, "Not authorized to update this product"); err != nil {
		return nil, err
	}
	if !models.ValidCategory(in.Category) {
		return nil, apperr.New(apperr.InvalidInput, "Invalid category %q", in.Category)
	}

	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.Category = in.Category
	if in.Images != nil {
		p.Images = in.Images
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}

	invalidateProductCache(id)
	return p, nil
}

// Delete removes a product and, best-effort, its stored images.
func (s *ProductService) Delete(ctx context.Context, principal authz.Principal, id primitive.ObjectID) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.New(apperr.NotFound, "Product not found")
		}
		return err
	}
	if err := authz.CanAccess(principal, p.User, "Not authorized to delete this product"); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	if disk, diskErr := storage.Default(); diskErr == nil {
		for _, img := range p.Images {
			if img.PublicID == "" {
				continue
			}
			if err := disk.Delete(img.PublicID); err != nil {
				logger.L.Warn("product image cleanup failed",
					"product", id.Hex(), "public_id", img.PublicID, "error", err)
			}
		}
	}

	invalidateProductCache(id)
	return nil
}
