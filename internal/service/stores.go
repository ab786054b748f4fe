package service

import (
	"context"
	"time"

	"github.com/iliyamo/cinemood/internal/model"
	"github.com/iliyamo/cinemood/internal/queue"
)

// ShowStore is the persistence the emotion and favorites services need.
type ShowStore interface {
	GetByID(ctx context.Context, id string) (model.Show, error)
	ReplaceEmotions(ctx context.Context, id string, emotions []string) error
	HasEmotions(ctx context.Context, id string) (bool, error)
	CountByEmotion(ctx context.Context, emotion string) (int64, error)
	ListByEmotion(ctx context.Context, emotion string, skip, limit int) ([]model.Show, error)
	// GetMany returns the shows named by ids in the order given, skipping
	// ids that do not resolve.
	GetMany(ctx context.Context, ids []string) ([]model.Show, error)
}

// UserStore persists local user records and their favorites.
type UserStore interface {
	GetByExternalID(ctx context.Context, externalID string) (model.User, error)
	// Create inserts a user or, if one with externalID exists, returns it.
	Create(ctx context.Context, externalID, email string) (model.User, error)
	SaveFavorites(ctx context.Context, userID string, favorites []string) error
}

// CatalogStore reads the movie and TV collections.
type CatalogStore interface {
	Count(ctx context.Context, kind model.ContentType) (int64, error)
	ListByPopularity(ctx context.Context, kind model.ContentType, skip, limit int) ([]model.ContentItem, error)
}

// EventPublisher emits domain events.  A nil publisher disables events.
type EventPublisher interface {
	PublishEmotionsUpdated(ctx context.Context, ev queue.EmotionsUpdatedEvent) error
	PublishFavoriteToggled(ctx context.Context, ev queue.FavoriteToggledEvent) error
}

// CacheInvalidator drops cached responses of a namespace.  A nil
// invalidator disables invalidation.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, namespace string) error
}

// EmotionsCacheNamespace groups the cached emotion listings.
const EmotionsCacheNamespace = "emotions"

// sideEffectTimeout bounds event publishing and cache invalidation, which
// run after the write committed and must not hold the request hostage.
const sideEffectTimeout = 2 * time.Second

func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
}
