package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinemood/internal/identity"
	"github.com/iliyamo/cinemood/internal/model"
)

func TestToggleTwiceRestoresList(t *testing.T) {
	users := newMemUsers()
	events := &recordingEvents{}
	svc := NewFavoriteService(users, newMemShows(comedy("1", 1)), events)
	ctx := context.Background()

	on, err := svc.Toggle(ctx, caller, "1")
	require.NoError(t, err)
	assert.True(t, on)

	u, err := users.GetByExternalID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, u.Favorites)
	assert.Equal(t, "ana@example.com", u.Email)

	off, err := svc.Toggle(ctx, caller, "1")
	require.NoError(t, err)
	assert.False(t, off)

	u, err = users.GetByExternalID(ctx, "user_1")
	require.NoError(t, err)
	assert.Empty(t, u.Favorites)
	assert.Equal(t, 1, users.creates)

	require.Len(t, events.toggled, 2)
	assert.True(t, events.toggled[0].Favorited)
	assert.False(t, events.toggled[1].Favorited)
}

func TestToggleKeepsInsertionOrder(t *testing.T) {
	users := newMemUsers()
	svc := NewFavoriteService(users, newMemShows(comedy("1", 1), comedy("2", 2), comedy("3", 3)), nil)
	ctx := context.Background()

	for _, id := range []string{"3", "1", "2", "1"} {
		_, err := svc.Toggle(ctx, caller, id)
		require.NoError(t, err)
	}
	list, err := svc.List(ctx, caller)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"3", "2"}, ids)
}

func TestToggleErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewFavoriteService(newMemUsers(), newMemShows(), nil).Toggle(ctx, nil, "1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = NewFavoriteService(newMemUsers(), newMemShows(), nil).Toggle(ctx, caller, "bogus")
	assert.ErrorIs(t, err, ErrNotFound)

	users := newMemUsers()
	users.failSet = errStoreDown
	_, err = NewFavoriteService(users, newMemShows(comedy("1", 1)), nil).Toggle(ctx, caller, "1")
	assert.ErrorIs(t, err, ErrUpdateFailed)

	users = newMemUsers()
	users.failGet = errStoreDown
	_, err = NewFavoriteService(users, newMemShows(comedy("1", 1)), nil).Toggle(ctx, caller, "1")
	assert.ErrorIs(t, err, ErrUpdateFailed)
}

func TestToggleWithoutPrimaryEmail(t *testing.T) {
	users := newMemUsers()
	anon := &identity.User{ID: "user_2"}
	_, err := NewFavoriteService(users, newMemShows(comedy("1", 1)), nil).Toggle(context.Background(), anon, "1")
	require.NoError(t, err)
	u, _ := users.GetByExternalID(context.Background(), "user_2")
	assert.Equal(t, "", u.Email)
}

func TestListFavorites(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	svc := NewFavoriteService(users, newMemShows(comedy("1", 1)), nil)

	_, err := svc.List(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	list, err := svc.List(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, []model.Show{}, list)

	u, _ := users.Create(ctx, "user_1", "")
	require.NoError(t, users.SaveFavorites(ctx, u.ID, []string{"1", "77"}))
	list, err = svc.List(ctx, caller)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID)

	users.failGet = errStoreDown
	_, err = svc.List(ctx, caller)
	assert.ErrorIs(t, err, ErrQueryFailed)
}

func TestBatchCheck(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	svc := NewFavoriteService(users, newMemShows(), nil)

	got, err := svc.BatchCheck(ctx, nil, []string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"1": false, "2": false}, got)

	got, err = svc.BatchCheck(ctx, caller, []string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"1": false, "2": false}, got)

	got, err = svc.BatchCheck(ctx, caller, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	u, _ := users.Create(ctx, "user_1", "")
	require.NoError(t, users.SaveFavorites(ctx, u.ID, []string{"2", "5"}))

	got, err = svc.BatchCheck(ctx, caller, []string{"1", "2", "2", "5"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"1": false, "2": true, "5": true}, got)
}

func TestEnsureUserCreatesOnce(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	svc := NewFavoriteService(users, newMemShows(), nil)

	a, err := svc.EnsureUser(ctx, caller)
	require.NoError(t, err)
	b, err := svc.EnsureUser(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, 1, users.creates)

	_, err = svc.EnsureUser(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
