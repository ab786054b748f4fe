// Package queue defines the domain events exchanged over RabbitMQ, the
// publisher the services use and the activity-log consumer.
package queue

import (
    "time"

    "github.com/google/uuid"
)

// Queue names double as routing keys on the default exchange.
const (
    EmotionsUpdatedQueue = "emotions.updated"
    FavoriteToggledQueue = "favorite.toggled"
)

// EmotionsUpdatedEvent is published after a show's emotions were replaced.
type EmotionsUpdatedEvent struct {
    EventID   string   `json:"event_id"`
    ShowID    string   `json:"show_id"`
    ShowName  string   `json:"show_name"`
    UserID    string   `json:"user_id"`
    Emotions  []string `json:"emotions"`
    UpdatedAt string   `json:"updated_at"`
}

// FavoriteToggledEvent is published after a favorite was added or removed.
type FavoriteToggledEvent struct {
    EventID   string `json:"event_id"`
    ShowID    string `json:"show_id"`
    UserID    string `json:"user_id"`
    Favorited bool   `json:"favorited"`
    ToggledAt string `json:"toggled_at"`
}

// NewEmotionsUpdated stamps an event with a fresh id and the current time.
func NewEmotionsUpdated(showID, showName, userID string, emotions []string) EmotionsUpdatedEvent {
    return EmotionsUpdatedEvent{
        EventID:   uuid.NewString(),
        ShowID:    showID,
        ShowName:  showName,
        UserID:    userID,
        Emotions:  emotions,
        UpdatedAt: time.Now().UTC().Format(time.RFC3339),
    }
}

// NewFavoriteToggled stamps an event with a fresh id and the current time.
func NewFavoriteToggled(showID, userID string, favorited bool) FavoriteToggledEvent {
    return FavoriteToggledEvent{
        EventID:   uuid.NewString(),
        ShowID:    showID,
        UserID:    userID,
        Favorited: favorited,
        ToggledAt: time.Now().UTC().Format(time.RFC3339),
    }
}
