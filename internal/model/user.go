package model

import "time"

// User is the local record of an identity-provider user.  It is created
// lazily the first time an identity touches favorites and never deleted.
//
// Fields:
//  ID         – internal storage identifier.
//  ExternalID – opaque user id issued by the identity provider (unique).
//  Email      – primary verified address at creation time, may be empty.
//  Favorites  – show ids in insertion order, no duplicates.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type User struct {
    ID         string
    ExternalID string
    Email      string
    Favorites  []string
    CreatedAt  time.Time
    UpdatedAt  time.Time
}

// IndexOfFavorite returns the position of showID in the favorites list,
// or -1 when absent.
func (u *User) IndexOfFavorite(showID string) int {
    for i, id := range u.Favorites {
        if id == showID {
            return i
        }
    }
    return -1
}
