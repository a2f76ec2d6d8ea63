package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/auth"
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates a customer account and signs the user in. The email
// is normalised to lowercase before storage so lookups are
// case-insensitive.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, "", err
	}

	user := models.User{
		Name:     strings.TrimSpace(name),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: hash,
		Role:     models.RoleCustomer,
		IsActive: true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.User{}, "", ErrEmailTaken
		}
		return models.User{}, "", err
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a signed token. Unknown email
// and wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}
	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// Me resolves the authenticated user's own record.
func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (models.User, error) {
	return s.users.FindByID(ctx, userID)
}
