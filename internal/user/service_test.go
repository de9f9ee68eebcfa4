package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedalmate/pedalmate/internal/user"
)

type recordingEvents struct {
	deleted []string
}

func (e *recordingEvents) UserDeleted(_ context.Context, userID string) {
	e.deleted = append(e.deleted, userID)
}

func newService() (*user.Service, *recordingEvents) {
	events := &recordingEvents{}
	svc := user.NewService(user.ServiceConfig{
		Repository: user.NewInMemoryRepository(),
		Events:     events,
	})
	return svc, events
}

func TestService_CreateUser(t *testing.T) {
	svc, _ := newService()

	u, err := svc.CreateUser(context.Background(), "usr_anna", "Anna")
	require.NoError(t, err)

	assert.Equal(t, "usr_anna", u.ID)
	assert.Equal(t, "Anna", u.DisplayName)
	assert.Equal(t, "nl-NL", u.Locale)
	assert.Zero(t, u.Reputation.UsersHelped)
}

func TestService_CreateUser_ExistingUserIsReturned(t *testing.T) {
	svc, _ := newService()

	first, err := svc.CreateUser(context.Background(), "usr_anna", "Anna")
	require.NoError(t, err)

	again, err := svc.CreateUser(context.Background(), "usr_anna", "Somebody Else")
	require.NoError(t, err)
	assert.Equal(t, first.DisplayName, again.DisplayName)
}

func TestService_Update(t *testing.T) {
	svc, _ := newService()
	_, err := svc.CreateUser(context.Background(), "usr_anna", "Anna")
	require.NoError(t, err)

	name := "Anna B."
	locale := "en-GB"
	updated, err := svc.Update(context.Background(), "usr_anna", user.UpdateInput{
		DisplayName: &name,
		Locale:      &locale,
	})
	require.NoError(t, err)

	assert.Equal(t, "Anna B.", updated.DisplayName)
	assert.Equal(t, "en-GB", updated.Locale)
}

func TestService_Update_RejectsEmptyDisplayName(t *testing.T) {
	svc, _ := newService()
	_, err := svc.CreateUser(context.Background(), "usr_anna", "Anna")
	require.NoError(t, err)

	empty := ""
	_, err = svc.Update(context.Background(), "usr_anna", user.UpdateInput{DisplayName: &empty})
	assert.Error(t, err)
}

func TestService_DeleteUser_PublishesEvent(t *testing.T) {
	svc, events := newService()
	_, err := svc.CreateUser(context.Background(), "usr_anna", "Anna")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), "usr_anna"))

	assert.Equal(t, []string{"usr_anna"}, events.deleted)
	_, err = svc.Get(context.Background(), "usr_anna")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
