package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/dukaan/app/jobs"
	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/collection"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
	"github.com/shashiranjanraj/dukaan/pkg/metrics"
	"github.com/shashiranjanraj/dukaan/pkg/queue"
)

// OrderStore is the slice of the order repository the order service
// needs.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) (models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// OrderNotifier receives order lifecycle events for fan-out to
// connected admin clients. Implementations must not block.
type OrderNotifier interface {
	OrderPlaced(order models.Order)
	OrderStatusChanged(order models.Order)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) OrderPlaced(models.Order)       {}
func (NopNotifier) OrderStatusChanged(models.Order) {}

type OrderService struct {
	orders   OrderStore
	carts    CartStore
	products ProductChecker
	users    UserStore
	notify   OrderNotifier
}

func NewOrderService(orders OrderStore, carts CartStore, products ProductChecker, users UserStore, notify OrderNotifier) *OrderService {
	if notify == nil {
		notify = NopNotifier{}
	}
	return &OrderService{orders: orders, carts: carts, products: products, users: users, notify: notify}
}

// Place turns the user's cart into a pending order. Each line snapshots
// the product's name and current price, so the order is immune to later
// catalogue edits. On success the cart is emptied under its version
// guard; if the clear loses a concurrent race the order is deleted
// again and the whole placement fails, so an order and a live cart
// never coexist.
func (s *OrderService) Place(ctx context.Context, userID primitive.ObjectID, addr models.Address) (models.Order, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Order{}, ErrEmptyCart
	}
	if err != nil {
		return models.Order{}, err
	}
	if cart.IsEmpty() {
		return models.Order{}, ErrEmptyCart
	}

	order := models.Order{
		UserID:          userID,
		Items:           make([]models.OrderItem, 0, len(cart.Items)),
		ShippingAddress: addr,
		Status:          models.OrderPending,
	}
	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if errors.Is(err, repositories.ErrNotFound) {
			// Product was deleted after it entered the cart.
			continue
		}
		if err != nil {
			return models.Order{}, err
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})
		order.TotalAmount += product.Price * float64(item.Quantity)
	}
	if len(order.Items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	if err := s.orders.Create(ctx, &order); err != nil {
		return models.Order{}, err
	}

	if err := s.carts.Clear(ctx, cart.ID, cart.Version); err != nil {
		// Undo the order so the failed placement leaves no trace.
		if delErr := s.orders.Delete(ctx, order.ID); delErr != nil {
			logger.WithCtx(ctx).Error("orphaned order after failed cart clear",
				"order_id", order.ID.Hex(), "error", delErr)
		}
		if errors.Is(err, repositories.ErrVersionConflict) {
			return models.Order{}, ErrCartBusy
		}
		return models.Order{}, err
	}

	metrics.OrdersPlaced.Inc()
	metrics.OrderValue.Observe(order.TotalAmount)
	s.notify.OrderPlaced(order)
	s.queueConfirmation(ctx, order)
	return order, nil
}

// queueConfirmation enqueues the confirmation email. Placement already
// succeeded, so failures here only log.
func (s *OrderService) queueConfirmation(ctx context.Context, order models.Order) {
	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		logger.WithCtx(ctx).Warn("skipping confirmation email, user lookup failed",
			"order_id", order.ID.Hex(), "error", err)
		return
	}

	job := jobs.OrderConfirmationJob{
		OrderID: order.ID.Hex(),
		Email:   user.Email,
		Name:    user.Name,
		Total:   order.TotalAmount,
		ItemRows: collection.Map(order.Items, func(it models.OrderItem) jobs.OrderItemRow {
			return jobs.OrderItemRow{Name: it.Name, Quantity: it.Quantity, Price: it.UnitPrice}
		}),
	}
	if err := queue.Dispatch(job); err != nil {
		logger.WithCtx(ctx).Warn("confirmation email dispatch failed",
			"order_id", order.ID.Hex(), "error", err)
	}
}

// MyOrders lists the user's own orders, newest first.
func (s *OrderService) MyOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// ByID fetches an order for its owner. Admins may read any order;
// anyone else touching a stranger's order gets ErrForbidden.
func (s *OrderService) ByID(ctx context.Context, id, userID primitive.ObjectID, isAdmin bool) (models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if !isAdmin && order.UserID != userID {
		return models.Order{}, ErrForbidden
	}
	return order, nil
}

// All lists every order (admin only, enforced at the route).
func (s *OrderService) All(ctx context.Context) ([]models.Order, error) {
	return s.orders.FindAll(ctx)
}

// ForUser lists a given user's orders (admin only, enforced at the
// route).
func (s *OrderService) ForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// UpdateStatus moves an order through the status state machine.
// Transitions outside the machine return ErrInvalidTransition. The
// write is guarded on the status the transition was validated against,
// so two concurrent updates cannot both race past the check; a lost
// race re-reads and re-validates.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, next models.OrderStatus) (models.Order, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		order, err := s.orders.FindByID(ctx, id)
		if err != nil {
			return models.Order{}, err
		}
		if !order.Status.CanTransition(next) {
			return models.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
		}

		updated, err := s.orders.UpdateStatus(ctx, id, order.Status, next)
		if errors.Is(err, repositories.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return models.Order{}, err
		}
		s.notify.OrderStatusChanged(updated)
		return updated, nil
	}
	return models.Order{}, ErrOrderBusy
}
