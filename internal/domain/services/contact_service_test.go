package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
	"github.com/kingnahee2-droid/CareWell/internal/realtime"
	"github.com/kingnahee2-droid/CareWell/internal/test/testutil"
)

func TestContactService_AddIsSymmetricAndIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	relay := testutil.NewRecordingRelay()
	s := NewContactService(db, &config.Config{}, relay, relay)
	ctx := context.Background()

	grandma := testutil.CreateUser(t, db, "Grandma", "0811111111", models.RoleElderly)
	son := testutil.CreateUser(t, db, "Son", "0822222222", models.RoleFamily)
	relay.Online[grandma.ID] = true

	_, err := s.AddContactByPhone(ctx, son, "082-222-2222 ")
	require.Error(t, err)
	assert.True(t, code.Is(err, code.ErrCannotAddSelf))

	view, err := s.AddContactByPhone(ctx, son, "0811111111")
	require.NoError(t, err)
	assert.Equal(t, grandma.ID, view.ID)
	assert.True(t, view.Online)

	_, err = s.AddContactByPhone(ctx, son, "0811111111")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Contact{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	ok, err := s.IsContact(ctx, grandma.ID, son.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	added := relay.Events(realtime.EventContactAdded)
	require.Len(t, added, 2)
	assert.Equal(t, grandma.ID, added[0].UserID)
	assert.Equal(t, son.ID, added[0].Payload.(ContactAddedEvent).Contact.ID)
}

func TestContactService_AddUnknownPhone(t *testing.T) {
	db := testutil.NewDB(t)
	relay := testutil.NewRecordingRelay()
	s := NewContactService(db, &config.Config{}, relay, relay)
	me := testutil.CreateUser(t, db, "Me", "0811111111", models.RoleFamily)

	_, err := s.AddContactByPhone(context.Background(), me, "0899999999")
	assert.True(t, code.Is(err, code.ErrUserNotFound))

	_, err = s.AddContactByPhone(context.Background(), me, "")
	assert.True(t, code.Is(err, code.ErrPhoneRequired))
	assert.Empty(t, relay.Deliveries())
}

func TestContactService_ListOrderedByNameWithPresence(t *testing.T) {
	db := testutil.NewDB(t)
	relay := testutil.NewRecordingRelay()
	s := NewContactService(db, &config.Config{}, relay, relay)

	me := testutil.CreateUser(t, db, "Me", "0811111111", models.RoleFamily)
	zoe := testutil.CreateUser(t, db, "Zoe", "0822222222", models.RoleElderly)
	anna := testutil.CreateUser(t, db, "Anna", "0833333333", models.RoleFamily)
	testutil.CreateUser(t, db, "Stranger", "0844444444", models.RoleFamily)
	testutil.Link(t, db, me.ID, zoe.ID)
	testutil.Link(t, db, me.ID, anna.ID)
	relay.Online[zoe.ID] = true

	contacts, err := s.ListContacts(context.Background(), me.ID)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Anna", contacts[0].Name)
	assert.False(t, contacts[0].Online)
	assert.Equal(t, "Zoe", contacts[1].Name)
	assert.True(t, contacts[1].Online)

	elderly, err := s.ContactsWithRole(context.Background(), me.ID, models.RoleElderly)
	require.NoError(t, err)
	require.Len(t, elderly, 1)
	assert.Equal(t, zoe.ID, elderly[0].ID)
}
