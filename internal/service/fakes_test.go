package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/iliyamo/cinemood/internal/model"
	"github.com/iliyamo/cinemood/internal/queue"
	"github.com/iliyamo/cinemood/internal/repository"
)

var errStoreDown = errors.New("store down")

func checkID(id string) error {
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return repository.ErrInvalidID
	}
	return nil
}

type memShows struct {
	mu      sync.Mutex
	shows   map[string]model.Show
	failAll error
	// failReplace, when set, is returned by ReplaceEmotions only.
	failReplace error
	replaces    int
}

func newMemShows(shows ...model.Show) *memShows {
	m := &memShows{shows: map[string]model.Show{}}
	for _, s := range shows {
		if s.Emotions == nil {
			s.Emotions = []string{}
		}
		m.shows[s.ID] = s
	}
	return m
}

func (m *memShows) GetByID(_ context.Context, id string) (model.Show, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return model.Show{}, m.failAll
	}
	if err := checkID(id); err != nil {
		return model.Show{}, err
	}
	s, ok := m.shows[id]
	if !ok {
		return model.Show{}, repository.ErrNotFound
	}
	return s, nil
}

func (m *memShows) ReplaceEmotions(_ context.Context, id string, emotions []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaces++
	if m.failReplace != nil {
		return m.failReplace
	}
	s, ok := m.shows[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Emotions = append([]string{}, emotions...)
	m.shows[id] = s
	return nil
}

func (m *memShows) HasEmotions(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return false, m.failAll
	}
	if err := checkID(id); err != nil {
		return false, err
	}
	return len(m.shows[id].Emotions) > 0, nil
}

func (m *memShows) matching(emotion string) []model.Show {
	var out []model.Show
	for _, s := range m.shows {
		if s.HasEmotion(emotion) {
			out = append(out, s)
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

func (m *memShows) CountByEmotion(_ context.Context, emotion string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return 0, m.failAll
	}
	return int64(len(m.matching(emotion))), nil
}

func (m *memShows) ListByEmotion(_ context.Context, emotion string, skip, limit int) ([]model.Show, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	all := m.matching(emotion)
	if skip >= len(all) {
		return []model.Show{}, nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], nil
}

func (m *memShows) GetMany(_ context.Context, ids []string) ([]model.Show, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	out := []model.Show{}
	for _, id := range ids {
		if s, ok := m.shows[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type memUsers struct {
	mu      sync.Mutex
	byExt   map[string]model.User
	nextID  int
	failGet error
	failSet error
	creates int
}

func newMemUsers() *memUsers { return &memUsers{byExt: map[string]model.User{}} }

func (m *memUsers) GetByExternalID(_ context.Context, ext string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return model.User{}, m.failGet
	}
	u, ok := m.byExt[ext]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	u.Favorites = append([]string{}, u.Favorites...)
	return u, nil
}

func (m *memUsers) Create(_ context.Context, ext, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byExt[ext]; ok {
		return u, nil
	}
	m.nextID++
	m.creates++
	u := model.User{ID: strconv.Itoa(m.nextID), ExternalID: ext, Email: email, Favorites: []string{}}
	m.byExt[ext] = u
	return u, nil
}

func (m *memUsers) SaveFavorites(_ context.Context, userID string, favs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	for ext, u := range m.byExt {
		if u.ID == userID {
			u.Favorites = append([]string{}, favs...)
			m.byExt[ext] = u
			return nil
		}
	}
	return repository.ErrNotFound
}

type memCatalog struct {
	items     map[model.ContentType][]model.ContentItem
	failCount error
	failList  error

	mu     sync.Mutex
	limits []int
}

func (m *memCatalog) Count(_ context.Context, kind model.ContentType) (int64, error) {
	if m.failCount != nil {
		return 0, m.failCount
	}
	return int64(len(m.items[kind])), nil
}

func (m *memCatalog) ListByPopularity(ctx context.Context, kind model.ContentType, skip, limit int) ([]model.ContentItem, error) {
	m.mu.Lock()
	m.limits = append(m.limits, limit)
	m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := append([]model.ContentItem{}, m.items[kind]...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].PopularityOrZero() > all[j].PopularityOrZero() })
	if skip >= len(all) {
		return []model.ContentItem{}, nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], nil
}

type recordingEvents struct {
	mu       sync.Mutex
	updated  []queue.EmotionsUpdatedEvent
	toggled  []queue.FavoriteToggledEvent
	failWith error
}

func (r *recordingEvents) PublishEmotionsUpdated(_ context.Context, ev queue.EmotionsUpdatedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, ev)
	return r.failWith
}

func (r *recordingEvents) PublishFavoriteToggled(_ context.Context, ev queue.FavoriteToggledEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toggled = append(r.toggled, ev)
	return r.failWith
}

type recordingCache struct {
	namespaces []string
}

func (r *recordingCache) Invalidate(_ context.Context, ns string) error {
	r.namespaces = append(r.namespaces, ns)
	return nil
}
