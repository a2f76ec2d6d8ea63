package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dukaan/app/services"
)

func strptr(s string) *string { return &s }

// Only whitelisted fields reach the store; email, password and role
// cannot be changed through a profile update.
func TestUpdateProfileWhitelist(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(store, "asha@example.com")
	svc := services.NewUserService(store)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, services.ProfileUpdate{
		Name:  strptr("  Asha K  "),
		Phone: strptr("9000000000"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Asha K", updated.Name, "values are trimmed")
	assert.Equal(t, "9000000000", updated.Phone)
	assert.Equal(t, "", updated.Address, "absent fields stay unchanged")
	assert.Equal(t, "asha@example.com", updated.Email)
	assert.Equal(t, user.Role, updated.Role)
}

func TestUpdateProfileNilFieldsAreNoops(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(store, "asha@example.com")
	svc := services.NewUserService(store)

	before, err := svc.ByID(context.Background(), user.ID)
	require.NoError(t, err)

	after, err := svc.UpdateProfile(context.Background(), user.ID, services.ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.Phone, after.Phone)
}

func TestListClampsPagination(t *testing.T) {
	store := newFakeUserStore()
	seedUser(store, "a@example.com")
	seedUser(store, "b@example.com")
	svc := services.NewUserService(store)

	users, total, err := svc.List(context.Background(), -3, 100000)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 1, store.lastPage)
	assert.Equal(t, 100, store.lastLimit)
}
