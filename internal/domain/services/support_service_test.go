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

func TestCannedReply(t *testing.T) {
	assert.Contains(t, CannedReply("I never got my OTP"), "request a new one")
	assert.Contains(t, CannedReply("Login is broken"), "request a new one")
	assert.Contains(t, CannedReply("How do I log EXERCISE?"), "Exercise tab")
	assert.Contains(t, CannedReply("add my family"), "Contacts")
	assert.Contains(t, CannedReply("chat not working"), "Messages are delivered")
	assert.Equal(t, defaultSupportReply, CannedReply("hello"))
}

func TestSupport_AskStoresBothSidesAndPushesReply(t *testing.T) {
	db := testutil.NewDB(t)
	relay := testutil.NewRecordingRelay()
	s := NewSupportService(db, &config.Config{}, relay)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "Grandma", "0811111111", models.RoleElderly)

	reply, err := s.Ask(ctx, u.ID, "where is my code?")
	require.NoError(t, err)
	assert.False(t, reply.FromUser)

	thread, err := s.Thread(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.True(t, thread[0].FromUser)
	assert.Equal(t, "where is my code?", thread[0].Content)
	assert.Equal(t, reply.Content, thread[1].Content)

	pushes := relay.Events(realtime.EventSupportReply)
	require.Len(t, pushes, 1)
	assert.Equal(t, u.ID, pushes[0].UserID)

	_, err = s.Ask(ctx, u.ID, " ")
	assert.True(t, code.Is(err, code.ErrContentRequired))
}
