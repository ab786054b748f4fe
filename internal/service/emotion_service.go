package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/iliyamo/cinemood/internal/emotion"
	"github.com/iliyamo/cinemood/internal/identity"
	"github.com/iliyamo/cinemood/internal/logging"
	"github.com/iliyamo/cinemood/internal/metrics"
	"github.com/iliyamo/cinemood/internal/model"
	"github.com/iliyamo/cinemood/internal/queue"
	"github.com/iliyamo/cinemood/internal/repository"
)

// EmotionPage is one page of shows carrying an emotion.
type EmotionPage struct {
	Items      []model.Show `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	TotalPages int64        `json:"total_pages"`
}

// EmotionService classifies shows and serves emotion-based listings.
type EmotionService struct {
	shows  ShowStore
	events EventPublisher
	cache  CacheInvalidator
}

// NewEmotionService wires the service.  events and cache may be nil.
func NewEmotionService(shows ShowStore, events EventPublisher, cache CacheInvalidator) *EmotionService {
	return &EmotionService{shows: shows, events: events, cache: cache}
}

// UpdateEmotions recomputes the emotions of showID and replaces the stored
// set with the result.  Running it twice on an unchanged show yields the
// same set.
func (s *EmotionService) UpdateEmotions(ctx context.Context, caller *identity.User, showID string) ([]emotion.Emotion, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}

	start := time.Now()
	show, err := s.shows.GetByID(ctx, showID)
	metrics.RecordStoreOp("shows.get", start, ignoreNotFound(err))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, fmt.Errorf("%w: show %s", ErrNotFound, showID)
		}
		return nil, fmt.Errorf("%w: load show %s: %v", ErrUpdateFailed, showID, err)
	}

	labels := emotion.Classify(emotion.Input{
		Overview:         show.Overview,
		Name:             show.Name,
		GenreIDs:         show.GenreIDs,
		VoteAverage:      show.VoteAverage,
		OriginalLanguage: show.OriginalLanguage,
	})
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}

	start = time.Now()
	err = s.shows.ReplaceEmotions(ctx, show.ID, strs)
	metrics.RecordStoreOp("shows.replace_emotions", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: show %s: %v", ErrUpdateFailed, showID, err)
	}
	metrics.RecordEmotions(strs)

	logging.Ctx(ctx).Info().
		Str("show_id", show.ID).
		Str("user_id", caller.ID).
		Strs("emotions", strs).
		Msg("emotions updated")

	s.afterUpdate(ctx, caller, show, strs)
	return labels, nil
}

func (s *EmotionService) afterUpdate(ctx context.Context, caller *identity.User, show model.Show, labels []string) {
	if s.cache == nil && s.events == nil {
		return
	}
	sctx, cancel := detached(ctx)
	defer cancel()

	if s.cache != nil {
		if err := s.cache.Invalidate(sctx, EmotionsCacheNamespace); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("emotion listing cache invalidation failed")
		}
	}
	if s.events != nil {
		ev := queue.NewEmotionsUpdated(show.ID, show.Name, caller.ID, labels)
		if err := s.events.PublishEmotionsUpdated(sctx, ev); err != nil {
			metrics.RecordPublishFailure(queue.EmotionsUpdatedQueue)
			logging.Ctx(ctx).Warn().Err(err).Str("event_id", ev.EventID).Msg("emotions.updated not published")
		}
	}
}

// ListByEmotion returns page (1-based) of the shows tagged with label,
// most popular first.
func (s *EmotionService) ListByEmotion(ctx context.Context, label string, page, pageSize int) (EmotionPage, error) {
	e, ok := emotion.Parse(label)
	if !ok {
		return EmotionPage{}, fmt.Errorf("%w: unknown emotion %q", ErrInvalidArgument, label)
	}
	if page < 1 || pageSize < 1 {
		return EmotionPage{}, fmt.Errorf("%w: page and page size must be positive", ErrInvalidArgument)
	}
	if page-1 > math.MaxInt/pageSize {
		return EmotionPage{}, fmt.Errorf("%w: page %d out of range", ErrInvalidArgument, page)
	}

	start := time.Now()
	total, err := s.shows.CountByEmotion(ctx, string(e))
	metrics.RecordStoreOp("shows.count_by_emotion", start, err)
	if err != nil {
		return EmotionPage{}, fmt.Errorf("%w: count %s: %v", ErrQueryFailed, e, err)
	}

	start = time.Now()
	items, err := s.shows.ListByEmotion(ctx, string(e), (page-1)*pageSize, pageSize)
	metrics.RecordStoreOp("shows.list_by_emotion", start, err)
	if err != nil {
		return EmotionPage{}, fmt.Errorf("%w: list %s: %v", ErrQueryFailed, e, err)
	}
	if items == nil {
		items = []model.Show{}
	}

	pages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pages++
	}
	return EmotionPage{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: pages,
	}, nil
}

// AllEmotions returns the closed emotion enumeration in canonical order.
func (s *EmotionService) AllEmotions() []emotion.Emotion {
	return emotion.All()
}

// IsTagged reports whether showID carries at least one emotion.  An
// anonymous caller always gets false and the store is not consulted.
func (s *EmotionService) IsTagged(ctx context.Context, caller *identity.User, showID string) (bool, error) {
	if caller == nil {
		return false, nil
	}
	start := time.Now()
	ok, err := s.shows.HasEmotions(ctx, showID)
	metrics.RecordStoreOp("shows.has_emotions", start, ignoreNotFound(err))
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return false, fmt.Errorf("%w: show %s", ErrNotFound, showID)
		}
		return false, fmt.Errorf("%w: show %s: %v", ErrQueryFailed, showID, err)
	}
	return ok, nil
}

// ignoreNotFound keeps expected misses out of the store error counter.
func ignoreNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
		return nil
	}
	return err
}
