package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
)

// casRetries bounds how often a cart write is retried after losing a
// version race before giving up with ErrCartBusy.
const casRetries = 3

// CartStore is the slice of the cart repository the cart service needs.
type CartStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	Save(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context, id primitive.ObjectID, version int64) error
}

// ProductChecker is the read-only product access the cart service needs.
type ProductChecker interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
}

type CartService struct {
	carts    CartStore
	products ProductChecker
}

func NewCartService(carts CartStore, products ProductChecker) *CartService {
	return &CartService{carts: carts, products: products}
}

// CartLine is one (product, quantity) pair of a cart write request.
// Lines are validated by resolveLines, where the quantity floor depends
// on the operation (adds need at least 1, absolute sets allow 0).
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartLineView is a cart line resolved against the catalogue.
type CartLineView struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Subtotal float64        `json:"subtotal"`
}

// CartView is the cart as presented to clients.
type CartView struct {
	ID    primitive.ObjectID `json:"id"`
	Items []CartLineView     `json:"items"`
	Total float64            `json:"total"`
}

// AddItems merges lines into the user's cart with increment semantics.
// The whole batch is validated before any mutation: every product must
// exist and every quantity must be at least 1, otherwise nothing is
// applied.
func (s *CartService) AddItems(ctx context.Context, userID primitive.ObjectID, lines []CartLine) (models.Cart, error) {
	resolved, err := s.resolveLines(ctx, lines, 1)
	if err != nil {
		return models.Cart{}, err
	}

	return s.withRetry(ctx, userID, func(cart *models.Cart) {
		for _, l := range resolved {
			cart.AddItem(l.id, l.qty)
		}
	})
}

// UpdateItems applies absolute-set semantics: each line's quantity
// replaces the stored one, and quantity 0 removes the line. As with
// AddItems the batch is validated up front.
func (s *CartService) UpdateItems(ctx context.Context, userID primitive.ObjectID, lines []CartLine) (models.Cart, error) {
	resolved, err := s.resolveLines(ctx, lines, 0)
	if err != nil {
		return models.Cart{}, err
	}

	return s.withRetry(ctx, userID, func(cart *models.Cart) {
		for _, l := range resolved {
			cart.SetItem(l.id, l.qty)
		}
	})
}

// RemoveItem deletes a single line. Removing an absent product is a
// no-op so the operation is idempotent.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (models.Cart, error) {
	return s.withRetry(ctx, userID, func(cart *models.Cart) {
		cart.RemoveItem(productID)
	})
}

// Get returns the cart resolved against the catalogue. Lines whose
// product has since been deleted are omitted from the view. A user
// without a cart gets an empty view.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (CartView, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return CartView{Items: []CartLineView{}}, nil
	}
	if err != nil {
		return CartView{}, err
	}

	view := CartView{ID: cart.ID, Items: []CartLineView{}}
	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if errors.Is(err, repositories.ErrNotFound) {
			continue
		}
		if err != nil {
			return CartView{}, err
		}
		sub := product.Price * float64(item.Quantity)
		view.Items = append(view.Items, CartLineView{
			Product:  product,
			Quantity: item.Quantity,
			Subtotal: sub,
		})
		view.Total += sub
	}
	return view, nil
}

// Clear empties the user's cart. A missing cart counts as already
// cleared.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	for attempt := 0; attempt < casRetries; attempt++ {
		cart, err := s.carts.FindByUser(ctx, userID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		err = s.carts.Clear(ctx, cart.ID, cart.Version)
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return err
		}
	}
	return ErrCartBusy
}

type resolvedLine struct {
	id  primitive.ObjectID
	qty int
}

// resolveLines parses and validates a write batch. minQty is 1 for adds
// and 0 for absolute sets (where 0 means remove).
func (s *CartService) resolveLines(ctx context.Context, lines []CartLine, minQty int) ([]resolvedLine, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no items given", ErrInvalidCartLine)
	}

	resolved := make([]resolvedLine, 0, len(lines))
	for _, l := range lines {
		id, err := primitive.ObjectIDFromHex(l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad product id %q", ErrInvalidCartLine, l.ProductID)
		}
		if l.Quantity < minQty {
			return nil, fmt.Errorf("%w: bad quantity %d for product %s", ErrInvalidCartLine, l.Quantity, l.ProductID)
		}
		ok, err := s.products.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("product %s: %w", l.ProductID, repositories.ErrNotFound)
		}
		resolved = append(resolved, resolvedLine{id: id, qty: l.Quantity})
	}
	return resolved, nil
}

// withRetry loads the user's cart (creating it on first use), applies
// mutate, and saves under the version guard. A lost race re-reads and
// reapplies up to casRetries times.
func (s *CartService) withRetry(ctx context.Context, userID primitive.ObjectID, mutate func(*models.Cart)) (models.Cart, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		cart, err := s.carts.FindByUser(ctx, userID)
		if errors.Is(err, repositories.ErrNotFound) {
			cart = models.Cart{UserID: userID, Items: []models.CartItem{}}
			mutate(&cart)
			err = s.carts.Create(ctx, &cart)
			if errors.Is(err, repositories.ErrDuplicate) {
				continue // lost the create race, re-read and merge
			}
			return cart, err
		}
		if err != nil {
			return models.Cart{}, err
		}

		mutate(&cart)
		err = s.carts.Save(ctx, &cart)
		if errors.Is(err, repositories.ErrVersionConflict) {
			continue
		}
		return cart, err
	}
	return models.Cart{}, ErrCartBusy
}
