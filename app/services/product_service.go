package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/cache"
)

const productCacheTTL = 10 * time.Minute

// ProductStore is the slice of the product repository the catalogue
// service needs.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	List(ctx context.Context, filter repositories.ProductFilter, page, limit int) ([]models.Product, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProductService struct {
	products ProductStore
}

func NewProductService(products ProductStore) *ProductService {
	return &ProductService{products: products}
}

// ProductUpdate carries the optional fields of a product edit. Absent
// fields keep their stored value.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Stock       *int
	ImageURL    *string
}

func (s *ProductService) Create(ctx context.Context, p *models.Product) error {
	return s.products.Create(ctx, p)
}

func (s *ProductService) List(ctx context.Context, filter repositories.ProductFilter, page, limit int) ([]models.Product, int64, error) {
	page, limit = clampPage(page, limit)
	return s.products.List(ctx, filter, page, limit)
}

// ByID serves single-product reads through the redis cache. A cache
// miss falls through to MongoDB and repopulates the entry.
func (s *ProductService) ByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	key := productCacheKey(id)

	var cached models.Product
	if cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	cache.Set(ctx, key, product, productCacheTTL)
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, upd ProductUpdate) (models.Product, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Stock != nil {
		set["stock"] = *upd.Stock
	}
	if upd.ImageURL != nil {
		set["image_url"] = *upd.ImageURL
	}

	product, err := s.products.Update(ctx, id, set)
	if err != nil {
		return models.Product{}, err
	}
	cache.Del(ctx, productCacheKey(id))
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	cache.Del(ctx, productCacheKey(id))
	return nil
}

// RefreshRatings writes a recomputed mean rating onto the product and
// drops its cache entry.
func (s *ProductService) RefreshRatings(ctx context.Context, id primitive.ObjectID, avg float64) error {
	_, err := s.products.Update(ctx, id, bson.M{
		"ratings":    avg,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	cache.Del(ctx, productCacheKey(id))
	return nil
}

func productCacheKey(id primitive.ObjectID) string {
	return "product:" + id.Hex()
}
