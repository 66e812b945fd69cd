package service

import (
	"context"
	"testing"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/model"
	"bookstore-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAddressService(t *testing.T) (AddressService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewAddressService(
		db,
		repository.NewAddressRepository(db),
		repository.NewUserRepository(db),
	)
	return svc, db
}

func TestResolveShippingFromSavedAddress(t *testing.T) {
	svc, db := newAddressService(t)
	ctx := context.Background()

	user := seedUser(t, db, "reader@example.com")
	saved, err := svc.Create(ctx, user.UserID, inlineAddress())
	require.NoError(t, err)

	snapshot, err := svc.ResolveShipping(ctx, db, user.UserID, &saved.AddressID, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "Toronto", snapshot.City)
	assert.Equal(t, "12 Main St", snapshot.Street)
}

func TestResolveShippingRejectsForeignAddress(t *testing.T) {
	svc, db := newAddressService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com")
	intruder := seedUser(t, db, "intruder@example.com")

	saved, err := svc.Create(ctx, owner.UserID, inlineAddress())
	require.NoError(t, err)

	_, err = svc.ResolveShipping(ctx, db, intruder.UserID, &saved.AddressID, nil, false)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestResolveShippingInlineWithoutPersist(t *testing.T) {
	svc, db := newAddressService(t)
	ctx := context.Background()

	user := seedUser(t, db, "reader@example.com")

	snapshot, err := svc.ResolveShipping(ctx, db, user.UserID, nil, inlineAddress(), false)
	require.NoError(t, err)
	assert.Equal(t, "Toronto", snapshot.City)
	assert.Zero(t, count[model.Address](t, db), "inline address is not saved unless requested")
}

func TestResolveShippingInlineWithPersist(t *testing.T) {
	svc, db := newAddressService(t)
	ctx := context.Background()

	user := seedUser(t, db, "reader@example.com")

	_, err := svc.ResolveShipping(ctx, db, user.UserID, nil, inlineAddress(), true)
	require.NoError(t, err)

	addresses, err := svc.ListByUser(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.Equal(t, "Toronto", addresses[0].City)
}

func TestResolveShippingWithoutInput(t *testing.T) {
	svc, db := newAddressService(t)

	_, err := svc.ResolveShipping(context.Background(), db, 1, nil, nil, false)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSnapshotSurvivesAddressEdit(t *testing.T) {
	svc, db := newAddressService(t)
	ctx := context.Background()

	user := seedUser(t, db, "reader@example.com")
	saved, err := svc.Create(ctx, user.UserID, inlineAddress())
	require.NoError(t, err)

	snapshot, err := svc.ResolveShipping(ctx, db, user.UserID, &saved.AddressID, nil, false)
	require.NoError(t, err)

	_, err = svc.Update(ctx, user.UserID, saved.AddressID, &dto.AddressPayload{City: "Vancouver"})
	require.NoError(t, err)

	assert.Equal(t, "Toronto", snapshot.City, "snapshot is a copy, not a reference")
}
