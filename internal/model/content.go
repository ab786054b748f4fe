package model

import "time"

// ContentType discriminates the two catalog collections.
type ContentType string

const (
    ContentMovie ContentType = "movie"
    ContentTV    ContentType = "tv"
)

// ParseContentType returns the content type named by s and whether s named
// one at all.  Anything other than "movie" or "tv" means "no filter".
func ParseContentType(s string) (ContentType, bool) {
    switch ContentType(s) {
    case ContentMovie:
        return ContentMovie, true
    case ContentTV:
        return ContentTV, true
    }
    return "", false
}

// Images groups poster and backdrop path references.
type Images struct {
    Posters   []string `json:"posters,omitempty" bson:"posters,omitempty"`
    Backdrops []string `json:"backdrops,omitempty" bson:"backdrops,omitempty"`
}

// Genre is a TMDB genre reference.
type Genre struct {
    ID   int    `json:"id" bson:"id"`
    Name string `json:"name" bson:"name"`
}

// Keyword is a TMDB keyword reference.
type Keyword struct {
    ID   int    `json:"id" bson:"id"`
    Name string `json:"name" bson:"name"`
}

// CastMember and CrewMember make up the credits block of an item.
type CastMember struct {
    ID        int    `json:"id" bson:"id"`
    Name      string `json:"name" bson:"name"`
    Character string `json:"character,omitempty" bson:"character,omitempty"`
    Order     int    `json:"order" bson:"order"`
}

type CrewMember struct {
    ID         int    `json:"id" bson:"id"`
    Name       string `json:"name" bson:"name"`
    Job        string `json:"job,omitempty" bson:"job,omitempty"`
    Department string `json:"department,omitempty" bson:"department,omitempty"`
}

type Credits struct {
    Cast []CastMember `json:"cast,omitempty" bson:"cast,omitempty"`
    Crew []CrewMember `json:"crew,omitempty" bson:"crew,omitempty"`
}

// Provider is one streaming/rent/buy offer for an item in a region.
type Provider struct {
    ProviderID      int    `json:"provider_id" bson:"provider_id"`
    ProviderName    string `json:"provider_name" bson:"provider_name"`
    LogoPath        string `json:"logo_path,omitempty" bson:"logo_path,omitempty"`
    DisplayPriority int    `json:"display_priority" bson:"display_priority"`
}

// RegionProviders lists provider availability for a single region.
type RegionProviders struct {
    Link      string     `json:"link,omitempty" bson:"link,omitempty"`
    Streaming []Provider `json:"streaming,omitempty" bson:"streaming,omitempty"`
    Rent      []Provider `json:"rent,omitempty" bson:"rent,omitempty"`
    Buy       []Provider `json:"buy,omitempty" bson:"buy,omitempty"`
    Free      []Provider `json:"free,omitempty" bson:"free,omitempty"`
    Ads       []Provider `json:"ads,omitempty" bson:"ads,omitempty"`
}

// ContentItem is a movie or TV series catalog entry.  ID is the internal
// storage identifier; ExternalID is the TMDB id, unique within the item's
// type collection.  Items are created by an external ingestion process and
// only read here.
//
// Popularity is a pointer because ingested documents may lack it; listing
// code treats a nil popularity as zero when ordering.
type ContentItem struct {
    ID               string                     `json:"_id" bson:"-"`
    ExternalID       int64                      `json:"id" bson:"id"`
    Type             ContentType                `json:"type" bson:"type"`
    Title            string                     `json:"title" bson:"title"`
    OriginalTitle    string                     `json:"originalTitle,omitempty" bson:"originalTitle,omitempty"`
    ReleaseDate      *time.Time                 `json:"releaseDate,omitempty" bson:"releaseDate,omitempty"`
    Status           string                     `json:"status,omitempty" bson:"status,omitempty"`
    Overview         string                     `json:"overview,omitempty" bson:"overview,omitempty"`
    Tagline          string                     `json:"tagline,omitempty" bson:"tagline,omitempty"`
    Popularity       *float64                   `json:"popularity,omitempty" bson:"popularity,omitempty"`
    VoteAverage      float64                    `json:"voteAverage,omitempty" bson:"voteAverage,omitempty"`
    VoteCount        int64                      `json:"voteCount,omitempty" bson:"voteCount,omitempty"`
    PosterPath       string                     `json:"posterPath,omitempty" bson:"posterPath,omitempty"`
    BackdropPath     string                     `json:"backdropPath,omitempty" bson:"backdropPath,omitempty"`
    Images           *Images                    `json:"images,omitempty" bson:"images,omitempty"`
    Genres           []Genre                    `json:"genres,omitempty" bson:"genres,omitempty"`
    Keywords         []Keyword                  `json:"keywords,omitempty" bson:"keywords,omitempty"`
    OriginalLanguage string                     `json:"originalLanguage,omitempty" bson:"originalLanguage,omitempty"`
    Credits          *Credits                   `json:"credits,omitempty" bson:"credits,omitempty"`
    Providers        map[string]RegionProviders `json:"streamingProviders,omitempty" bson:"streamingProviders,omitempty"`
    LastUpdated      time.Time                  `json:"lastUpdated" bson:"lastUpdated"`
}

// PopularityOrZero returns the item's popularity, or 0 when absent.
func (c ContentItem) PopularityOrZero() float64 {
    if c.Popularity == nil {
        return 0
    }
    return *c.Popularity
}
