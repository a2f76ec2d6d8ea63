package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/services"
)

func testAddress() models.Address {
	return models.Address{
		Name:       "Asha",
		Line1:      "12 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560001",
		Country:    "India",
	}
}

type orderFixture struct {
	orders   *fakeOrderStore
	carts    *fakeCartStore
	products *fakeProductStore
	users    *fakeUserStore
	notify   *recordingNotifier
	svc      *services.OrderService
	user     models.User
}

func newOrderFixture(products ...models.Product) *orderFixture {
	f := &orderFixture{
		orders:   newFakeOrderStore(),
		carts:    newFakeCartStore(),
		products: newFakeProductStore(products...),
		users:    newFakeUserStore(),
		notify:   &recordingNotifier{},
	}
	f.user = seedUser(f.users, "asha@example.com")
	f.svc = services.NewOrderService(f.orders, f.carts, f.products, f.users, f.notify)
	return f
}

func (f *orderFixture) fillCart(t *testing.T, lines ...services.CartLine) {
	t.Helper()
	cartSvc := services.NewCartService(f.carts, f.products)
	_, err := cartSvc.AddItems(context.Background(), f.user.ID, lines)
	require.NoError(t, err)
}

func TestPlaceEmptyCart(t *testing.T) {
	f := newOrderFixture()

	_, err := f.svc.Place(context.Background(), f.user.ID, testAddress())
	assert.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestPlaceSnapshotsPrices(t *testing.T) {
	soap := sampleProduct("Soap", 40)
	tea := sampleProduct("Tea", 250)
	f := newOrderFixture(soap, tea)
	f.fillCart(t,
		services.CartLine{ProductID: soap.ID.Hex(), Quantity: 3},
		services.CartLine{ProductID: tea.ID.Hex(), Quantity: 1},
	)

	// A price change between carting and placement is reflected, but a
	// change after placement must not be.
	f.products.setPrice(soap.ID, 50)

	order, err := f.svc.Place(context.Background(), f.user.ID, testAddress())
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 400.0, order.TotalAmount)

	byProduct := map[primitive.ObjectID]models.OrderItem{}
	for _, it := range order.Items {
		byProduct[it.ProductID] = it
	}
	assert.Equal(t, "Soap", byProduct[soap.ID].Name)
	assert.Equal(t, 50.0, byProduct[soap.ID].UnitPrice)
	assert.Equal(t, 250.0, byProduct[tea.ID].UnitPrice)

	f.products.setPrice(soap.ID, 999)
	stored, err := f.orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 400.0, stored.TotalAmount)

	// The cart was emptied as part of placement.
	cart, err := f.carts.FindByUser(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	require.Len(t, f.notify.placed, 1)
	assert.Equal(t, order.ID, f.notify.placed[0].ID)
}

func TestPlaceSkipsDeletedProducts(t *testing.T) {
	soap := sampleProduct("Soap", 40)
	tea := sampleProduct("Tea", 250)
	f := newOrderFixture(soap, tea)
	f.fillCart(t,
		services.CartLine{ProductID: soap.ID.Hex(), Quantity: 1},
		services.CartLine{ProductID: tea.ID.Hex(), Quantity: 1},
	)

	f.products.remove(tea.ID)

	order, err := f.svc.Place(context.Background(), f.user.ID, testAddress())
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, soap.ID, order.Items[0].ProductID)
	assert.Equal(t, 40.0, order.TotalAmount)
}

func TestPlaceAllProductsGone(t *testing.T) {
	soap := sampleProduct("Soap", 40)
	f := newOrderFixture(soap)
	f.fillCart(t, services.CartLine{ProductID: soap.ID.Hex(), Quantity: 1})

	f.products.remove(soap.ID)

	_, err := f.svc.Place(context.Background(), f.user.ID, testAddress())
	assert.ErrorIs(t, err, services.ErrEmptyCart)
}

// When the cart clear loses its version race the freshly created order
// is rolled back, so no order coexists with a live cart.
func TestPlaceCompensatesFailedClear(t *testing.T) {
	soap := sampleProduct("Soap", 40)
	f := newOrderFixture(soap)
	f.fillCart(t, services.CartLine{ProductID: soap.ID.Hex(), Quantity: 1})

	f.carts.clearConflicts = 10

	_, err := f.svc.Place(context.Background(), f.user.ID, testAddress())
	assert.ErrorIs(t, err, services.ErrCartBusy)

	all, err := f.orders.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all, "the created order must be deleted again")
	assert.Len(t, f.orders.deleted, 1)
	assert.Empty(t, f.notify.placed)
}

func TestOrderByIDOwnership(t *testing.T) {
	soap := sampleProduct("Soap", 40)
	f := newOrderFixture(soap)
	f.fillCart(t, services.CartLine{ProductID: soap.ID.Hex(), Quantity: 1})

	order, err := f.svc.Place(context.Background(), f.user.ID, testAddress())
	require.NoError(t, err)

	// Owner sees it.
	got, err := f.svc.ByID(context.Background(), order.ID, f.user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// Another customer is denied access.
	_, err = f.svc.ByID(context.Background(), order.ID, primitive.NewObjectID(), false)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// An admin sees any order.
	_, err = f.svc.ByID(context.Background(), order.ID, primitive.NewObjectID(), true)
	assert.NoError(t, err)
}

func TestUpdateStatusTransitions(t *testing.T) {
	soap := sampleProduct("Soap", 40)
	f := newOrderFixture(soap)
	f.fillCart(t, services.CartLine{ProductID: soap.ID.Hex(), Quantity: 1})

	order, err := f.svc.Place(context.Background(), f.user.ID, testAddress())
	require.NoError(t, err)

	// pending -> delivered skips shipped and must be rejected.
	_, err = f.svc.UpdateStatus(context.Background(), order.ID, models.OrderDelivered)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, updated.Status)

	updated, err = f.svc.UpdateStatus(context.Background(), order.ID, models.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, updated.Status)

	// Delivered is terminal.
	_, err = f.svc.UpdateStatus(context.Background(), order.ID, models.OrderCancelled)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	require.Len(t, f.notify.changed, 2)
	assert.Equal(t, models.OrderDelivered, f.notify.changed[1].Status)
}

// Two admins racing on the same order must not both get past the
// transition check: the write is guarded on the status it was validated
// against.
func TestUpdateStatusConcurrentWrites(t *testing.T) {
	place := func(t *testing.T) (*orderFixture, models.Order) {
		t.Helper()
		soap := sampleProduct("Soap", 40)
		f := newOrderFixture(soap)
		f.fillCart(t, services.CartLine{ProductID: soap.ID.Hex(), Quantity: 1})
		order, err := f.svc.Place(context.Background(), f.user.ID, testAddress())
		require.NoError(t, err)
		return f, order
	}

	t.Run("retry revalidates and succeeds", func(t *testing.T) {
		f, order := place(t)

		// A concurrent admin ships the order mid-flight; cancelling is
		// still legal from shipped, so the retry goes through.
		f.orders.raceStatus = models.OrderShipped
		updated, err := f.svc.UpdateStatus(context.Background(), order.ID, models.OrderCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.OrderCancelled, updated.Status)
	})

	t.Run("retry revalidates and rejects", func(t *testing.T) {
		f, order := place(t)

		// A concurrent admin delivers the order mid-flight; delivered is
		// terminal, so the late cancellation must be rejected.
		f.orders.raceStatus = models.OrderDelivered
		_, err := f.svc.UpdateStatus(context.Background(), order.ID, models.OrderCancelled)
		assert.ErrorIs(t, err, services.ErrInvalidTransition)

		stored, err := f.orders.FindByID(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderDelivered, stored.Status)
	})
}
