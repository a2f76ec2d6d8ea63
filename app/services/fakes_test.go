package services_test

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
)

// fakeUserStore is an in-memory UserAdminStore.
type fakeUserStore struct {
	mu        sync.Mutex
	users     map[primitive.ObjectID]models.User
	lastPage  int
	lastLimit int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[primitive.ObjectID]models.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, id primitive.ObjectID, set bson.M) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	if v, ok := set["name"].(string); ok {
		u.Name = v
	}
	if v, ok := set["address"].(string); ok {
		u.Address = v
	}
	if v, ok := set["phone"].(string); ok {
		u.Phone = v
	}
	s.users[id] = u
	return u, nil
}

func (s *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) List(_ context.Context, page, limit int) ([]models.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPage, s.lastLimit = page, limit
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

// fakeProductStore implements ProductChecker and the catalogue slice
// the order tests need.
type fakeProductStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
}

func newFakeProductStore(products ...models.Product) *fakeProductStore {
	s := &fakeProductStore{products: map[primitive.ObjectID]models.Product{}}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeProductStore) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.products[id]
	return ok, nil
}

func (s *fakeProductStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, repositories.ErrNotFound
	}
	return p, nil
}

func (s *fakeProductStore) setPrice(id primitive.ObjectID, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.products[id]
	p.Price = price
	s.products[id] = p
}

func (s *fakeProductStore) remove(id primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

// fakeCartStore mimics the version-guarded cart persistence. Set
// saveConflicts / clearConflicts to make the next n writes lose their
// version race.
type fakeCartStore struct {
	mu             sync.Mutex
	carts          map[primitive.ObjectID]models.Cart // by user id
	saveConflicts  int
	clearConflicts int
	saveCalls      int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[primitive.ObjectID]models.Cart{}}
}

func (s *fakeCartStore) FindByUser(_ context.Context, userID primitive.ObjectID) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return models.Cart{}, repositories.ErrNotFound
	}
	// Copy the items slice so callers cannot mutate stored state.
	c.Items = append([]models.CartItem(nil), c.Items...)
	return c, nil
}

func (s *fakeCartStore) Create(_ context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[cart.UserID]; ok {
		return repositories.ErrDuplicate
	}
	cart.ID = primitive.NewObjectID()
	cart.Version = 1
	s.carts[cart.UserID] = *cart
	return nil
}

func (s *fakeCartStore) Save(_ context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.saveConflicts > 0 {
		s.saveConflicts--
		// Simulate the concurrent writer that won the race.
		stored := s.carts[cart.UserID]
		stored.Version++
		s.carts[cart.UserID] = stored
		return repositories.ErrVersionConflict
	}
	stored, ok := s.carts[cart.UserID]
	if !ok || stored.Version != cart.Version {
		return repositories.ErrVersionConflict
	}
	stored.Items = append([]models.CartItem(nil), cart.Items...)
	stored.Version++
	s.carts[cart.UserID] = stored
	cart.Version++
	return nil
}

func (s *fakeCartStore) Clear(_ context.Context, id primitive.ObjectID, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearConflicts > 0 {
		s.clearConflicts--
		return repositories.ErrVersionConflict
	}
	for userID, c := range s.carts {
		if c.ID == id {
			if c.Version != version {
				return repositories.ErrVersionConflict
			}
			c.Items = nil
			c.Version++
			s.carts[userID] = c
			return nil
		}
	}
	return repositories.ErrVersionConflict
}

// fakeOrderStore is an in-memory OrderStore. Setting raceStatus makes
// the next UpdateStatus lose its guard: the stored order flips to that
// status as if a concurrent admin had just written it.
type fakeOrderStore struct {
	mu         sync.Mutex
	orders     map[primitive.ObjectID]models.Order
	deleted    []primitive.ObjectID
	raceStatus models.OrderStatus
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[primitive.ObjectID]models.Order{}}
}

func (s *fakeOrderStore) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = primitive.NewObjectID()
	if order.Status == "" {
		order.Status = models.OrderPending
	}
	s.orders[order.ID] = *order
	return nil
}

func (s *fakeOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, repositories.ErrNotFound
	}
	return o, nil
}

func (s *fakeOrderStore) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) FindAll(_ context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.OrderStatus) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, repositories.ErrNotFound
	}
	if s.raceStatus != "" {
		o.Status = s.raceStatus
		s.orders[id] = o
		s.raceStatus = ""
		return models.Order{}, repositories.ErrVersionConflict
	}
	if o.Status != from {
		return models.Order{}, repositories.ErrVersionConflict
	}
	o.Status = to
	s.orders[id] = o
	return o, nil
}

func (s *fakeOrderStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.orders, id)
	s.deleted = append(s.deleted, id)
	return nil
}

// recordingNotifier captures order events.
type recordingNotifier struct {
	mu      sync.Mutex
	placed  []models.Order
	changed []models.Order
}

func (n *recordingNotifier) OrderPlaced(o models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.placed = append(n.placed, o)
}

func (n *recordingNotifier) OrderStatusChanged(o models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, o)
}

func seedUser(s *fakeUserStore, email string) models.User {
	u := models.User{
		Name:  strings.Split(email, "@")[0],
		Email: email,
		Role:  models.RoleCustomer,
	}
	_ = s.Create(context.Background(), &u)
	return u
}
