package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/cinemood/internal/identity"
	"github.com/iliyamo/cinemood/internal/logging"
	"github.com/iliyamo/cinemood/internal/metrics"
	"github.com/iliyamo/cinemood/internal/model"
	"github.com/iliyamo/cinemood/internal/queue"
	"github.com/iliyamo/cinemood/internal/repository"
)

// FavoriteService manages a caller's favorite shows.
//
// Toggle reads the whole list, flips one entry and writes the whole list
// back, so two concurrent toggles by the same caller can lose one of the
// updates.
type FavoriteService struct {
	users  UserStore
	shows  ShowStore
	events EventPublisher
}

// NewFavoriteService wires the service.  events may be nil.
func NewFavoriteService(users UserStore, shows ShowStore, events EventPublisher) *FavoriteService {
	return &FavoriteService{users: users, shows: shows, events: events}
}

// EnsureUser returns the caller's local record, creating it on first use.
func (s *FavoriteService) EnsureUser(ctx context.Context, caller *identity.User) (model.User, error) {
	if caller == nil {
		return model.User{}, ErrUnauthorized
	}
	u, err := s.lookup(ctx, caller)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.User{}, fmt.Errorf("%w: load user: %v", ErrQueryFailed, err)
	}

	start := time.Now()
	u, err = s.users.Create(ctx, caller.ID, caller.PrimaryEmail())
	metrics.RecordStoreOp("users.create", start, err)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: create user: %v", ErrUpdateFailed, err)
	}
	logging.Ctx(ctx).Info().Str("user_id", caller.ID).Msg("local user created")
	return u, nil
}

func (s *FavoriteService) lookup(ctx context.Context, caller *identity.User) (model.User, error) {
	start := time.Now()
	u, err := s.users.GetByExternalID(ctx, caller.ID)
	metrics.RecordStoreOp("users.get", start, ignoreNotFound(err))
	return u, err
}

// Toggle adds showID to the caller's favorites if absent, removes it if
// present, and returns whether it is a favorite afterwards.
func (s *FavoriteService) Toggle(ctx context.Context, caller *identity.User, showID string) (bool, error) {
	if caller == nil {
		return false, ErrUnauthorized
	}
	if err := s.checkShow(ctx, showID); err != nil {
		return false, err
	}

	u, err := s.EnsureUser(ctx, caller)
	if err != nil {
		if errors.Is(err, ErrQueryFailed) {
			return false, fmt.Errorf("%w: %v", ErrUpdateFailed, err)
		}
		return false, err
	}

	favs := make([]string, 0, len(u.Favorites)+1)
	favorited := false
	if i := u.IndexOfFavorite(showID); i >= 0 {
		favs = append(favs, u.Favorites[:i]...)
		favs = append(favs, u.Favorites[i+1:]...)
	} else {
		favs = append(favs, u.Favorites...)
		favs = append(favs, showID)
		favorited = true
	}

	start := time.Now()
	err = s.users.SaveFavorites(ctx, u.ID, favs)
	metrics.RecordStoreOp("users.save_favorites", start, err)
	if err != nil {
		return false, fmt.Errorf("%w: save favorites: %v", ErrUpdateFailed, err)
	}
	metrics.RecordFavoriteToggle(favorited)

	if s.events != nil {
		sctx, cancel := detached(ctx)
		defer cancel()
		ev := queue.NewFavoriteToggled(showID, caller.ID, favorited)
		if err := s.events.PublishFavoriteToggled(sctx, ev); err != nil {
			metrics.RecordPublishFailure(queue.FavoriteToggledQueue)
			logging.Ctx(ctx).Warn().Err(err).Str("event_id", ev.EventID).Msg("favorite.toggled not published")
		}
	}
	return favorited, nil
}

// checkShow rejects ids that are malformed for the backend.  A well formed
// id of a show that does not exist is accepted; such references are
// skipped when listing.
func (s *FavoriteService) checkShow(ctx context.Context, showID string) error {
	_, err := s.shows.HasEmotions(ctx, showID)
	if errors.Is(err, repository.ErrInvalidID) {
		return fmt.Errorf("%w: show %s", ErrNotFound, showID)
	}
	if err != nil {
		return fmt.Errorf("%w: check show %s: %v", ErrUpdateFailed, showID, err)
	}
	return nil
}

// List returns the caller's favorite shows in the order they were added.
func (s *FavoriteService) List(ctx context.Context, caller *identity.User) ([]model.Show, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	u, err := s.lookup(ctx, caller)
	if errors.Is(err, repository.ErrNotFound) {
		return []model.Show{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load user: %v", ErrQueryFailed, err)
	}
	if len(u.Favorites) == 0 {
		return []model.Show{}, nil
	}

	start := time.Now()
	shows, err := s.shows.GetMany(ctx, u.Favorites)
	metrics.RecordStoreOp("shows.get_many", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: load favorites: %v", ErrQueryFailed, err)
	}
	if shows == nil {
		shows = []model.Show{}
	}
	return shows, nil
}

// BatchCheck reports, for each distinct id, whether it is among the
// caller's favorites.  Anonymous callers and callers without a record get
// false for every id.
func (s *FavoriteService) BatchCheck(ctx context.Context, caller *identity.User, ids []string) (map[string]bool, error) {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = false
	}
	if caller == nil || len(ids) == 0 {
		return out, nil
	}

	u, err := s.lookup(ctx, caller)
	if errors.Is(err, repository.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load user: %v", ErrQueryFailed, err)
	}

	favs := make(map[string]struct{}, len(u.Favorites))
	for _, f := range u.Favorites {
		favs[f] = struct{}{}
	}
	for id := range out {
		_, out[id] = favs[id]
	}
	return out, nil
}
