package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
	"github.com/kingnahee2-droid/CareWell/internal/realtime"
	"github.com/kingnahee2-droid/CareWell/internal/test/testutil"
)

type failingSettings struct{}

func (failingSettings) GetSettings(context.Context, uint) (*models.Settings, error) {
	return nil, dbError(errors.New("connection reset"))
}

func (failingSettings) UpdateSettings(context.Context, uint, SettingsUpdate) (*models.Settings, error) {
	return nil, dbError(errors.New("connection reset"))
}

func TestExerciseCompleted_SettingsErrorDisablesFanOut(t *testing.T) {
	db := testutil.NewDB(t)
	relay := testutil.NewRecordingRelay()
	contacts := NewContactService(db, &config.Config{}, relay, relay)
	s := NewNotifyService(contacts, failingSettings{}, relay)

	parent := testutil.CreateUser(t, db, "Grandma", "0811111111", models.RoleElderly)
	child := testutil.CreateUser(t, db, "Son", "0822222222", models.RoleFamily)
	testutil.Link(t, db, parent.ID, child.ID)

	n := s.ExerciseCompleted(context.Background(), parent, &models.ExerciseRecord{Type: "walk"})
	assert.Zero(t, n)
	assert.Empty(t, relay.Deliveries())
}

func TestExerciseCompleted_OnlyFamilyContacts(t *testing.T) {
	db := testutil.NewDB(t)
	relay := testutil.NewRecordingRelay()
	cfg := &config.Config{}
	contacts := NewContactService(db, cfg, relay, relay)
	s := NewNotifyService(contacts, NewSettingsService(db, cfg), relay)

	parent := testutil.CreateUser(t, db, "Grandma", "0811111111", models.RoleElderly)
	son := testutil.CreateUser(t, db, "Son", "0822222222", models.RoleFamily)
	daughter := testutil.CreateUser(t, db, "Daughter", "0833333333", models.RoleFamily)
	friend := testutil.CreateUser(t, db, "Friend", "0844444444", models.RoleElderly)
	testutil.Link(t, db, parent.ID, son.ID)
	testutil.Link(t, db, parent.ID, daughter.ID)
	testutil.Link(t, db, parent.ID, friend.ID)

	n := s.ExerciseCompleted(context.Background(), parent, &models.ExerciseRecord{Type: "walk", Duration: 20})
	assert.Equal(t, 2, n)

	var targets []uint
	for _, d := range relay.Events(realtime.EventExerciseCompleted) {
		targets = append(targets, d.UserID)
	}
	assert.ElementsMatch(t, []uint{son.ID, daughter.ID}, targets)
}

func TestRemindParents(t *testing.T) {
	db := testutil.NewDB(t)
	relay := testutil.NewRecordingRelay()
	cfg := &config.Config{}
	contacts := NewContactService(db, cfg, relay, relay)
	settings := NewSettingsService(db, cfg)
	s := NewNotifyService(contacts, settings, relay)
	ctx := context.Background()

	child := testutil.CreateUser(t, db, "Son", "0811111111", models.RoleFamily)
	mom := testutil.CreateUser(t, db, "Mom", "0822222222", models.RoleElderly)
	dad := testutil.CreateUser(t, db, "Dad", "0833333333", models.RoleElderly)
	stranger := testutil.CreateUser(t, db, "Stranger", "0844444444", models.RoleElderly)
	testutil.Link(t, db, child.ID, mom.ID)
	testutil.Link(t, db, child.ID, dad.ID)

	n, err := s.RemindParents(ctx, child, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	reminders := relay.Events(realtime.EventExerciseReminder)
	require.Len(t, reminders, 2)
	assert.Equal(t, DefaultReminderMessage, reminders[0].Payload.(ExerciseReminderEvent).Message)

	n, err = s.RemindParents(ctx, child, dad.ID, "Go for a walk")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.RemindParents(ctx, child, stranger.ID, "")
	assert.True(t, code.Is(err, code.ErrNotAContact))

	_, err = s.RemindParents(ctx, mom, 0, "")
	assert.True(t, code.Is(err, code.ErrForbidden))

	off := false
	_, err = settings.UpdateSettings(ctx, mom.ID, SettingsUpdate{ExerciseReminder: &off})
	require.NoError(t, err)
	n, err = s.RemindParents(ctx, child, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
