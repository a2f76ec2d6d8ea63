package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/dukaan/app/models"
)

// UserAdminStore extends UserStore with the admin-facing operations.
type UserAdminStore interface {
	UserStore
	UpdateProfile(ctx context.Context, id primitive.ObjectID, set bson.M) (models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, page, limit int) ([]models.User, int64, error)
}

type UserService struct {
	users UserAdminStore
}

func NewUserService(users UserAdminStore) *UserService {
	return &UserService{users: users}
}

// ProfileUpdate carries the fields a user may change on their own
// account. Email, password and role are deliberately absent.
type ProfileUpdate struct {
	Name    *string `json:"name" validate:"nullable,min=2,max=100"`
	Address *string `json:"address" validate:"nullable,max=500"`
	Phone   *string `json:"phone" validate:"nullable,max=20"`
}

func (s *UserService) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	page, limit = clampPage(page, limit)
	return s.users.List(ctx, page, limit)
}

func (s *UserService) ByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile applies only the whitelisted fields that were present
// in the request. Nil pointers mean "leave unchanged".
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = strings.TrimSpace(*upd.Name)
	}
	if upd.Address != nil {
		set["address"] = strings.TrimSpace(*upd.Address)
	}
	if upd.Phone != nil {
		set["phone"] = strings.TrimSpace(*upd.Phone)
	}
	return s.users.UpdateProfile(ctx, id, set)
}

func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.users.Delete(ctx, id)
}

// clampPage normalises pagination input: page starts at 1, limit
// defaults to 10 and is capped at 100.
func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
