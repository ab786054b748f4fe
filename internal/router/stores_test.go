package router

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/iliyamo/cinemood/internal/model"
	"github.com/iliyamo/cinemood/internal/repository"
)

type showStore struct {
	mu    sync.Mutex
	shows map[string]model.Show
}

func (s *showStore) get(id string) (model.Show, error) {
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return model.Show{}, repository.ErrInvalidID
	}
	sh, ok := s.shows[id]
	if !ok {
		return model.Show{}, repository.ErrNotFound
	}
	return sh, nil
}

func (s *showStore) GetByID(_ context.Context, id string) (model.Show, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *showStore) ReplaceEmotions(_ context.Context, id string, emotions []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, err := s.get(id)
	if err != nil {
		return err
	}
	sh.Emotions = append([]string{}, emotions...)
	s.shows[id] = sh
	return nil
}

func (s *showStore) HasEmotions(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return false, repository.ErrInvalidID
	}
	return len(s.shows[id].Emotions) > 0, nil
}

func (s *showStore) tagged(e string) []model.Show {
	var out []model.Show
	for _, sh := range s.shows {
		if sh.HasEmotion(e) {
			out = append(out, sh)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Popularity != out[j].Popularity {
			return out[i].Popularity > out[j].Popularity
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *showStore) CountByEmotion(_ context.Context, e string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.tagged(e))), nil
}

func (s *showStore) ListByEmotion(_ context.Context, e string, skip, limit int) ([]model.Show, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.tagged(e)
	if skip >= len(all) {
		return []model.Show{}, nil
	}
	return all[skip:min(skip+limit, len(all))], nil
}

func (s *showStore) GetMany(_ context.Context, ids []string) ([]model.Show, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Show{}
	for _, id := range ids {
		if sh, ok := s.shows[id]; ok {
			out = append(out, sh)
		}
	}
	return out, nil
}

type userStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func (s *userStore) GetByExternalID(_ context.Context, ext string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[ext]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *userStore) Create(_ context.Context, ext, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[ext]; ok {
		return u, nil
	}
	u := model.User{ID: strconv.Itoa(len(s.users) + 1), ExternalID: ext, Email: email, Favorites: []string{}}
	s.users[ext] = u
	return u, nil
}

func (s *userStore) SaveFavorites(_ context.Context, userID string, favs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ext, u := range s.users {
		if u.ID == userID {
			u.Favorites = append([]string{}, favs...)
			s.users[ext] = u
			return nil
		}
	}
	return repository.ErrNotFound
}

type catalogStore struct {
	items map[model.ContentType][]model.ContentItem
	err   error
}

func (s *catalogStore) Count(_ context.Context, kind model.ContentType) (int64, error) {
	return int64(len(s.items[kind])), s.err
}

func (s *catalogStore) ListByPopularity(_ context.Context, kind model.ContentType, skip, limit int) ([]model.ContentItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	all := s.items[kind]
	if skip >= len(all) {
		return []model.ContentItem{}, nil
	}
	return all[skip:min(skip+limit, len(all))], nil
}
