package model

// Show is the emotion-taggable item stored in the `shows` table (the
// `posts` collection on the document backend).  Emotions is the only field
// this service mutates; it is replaced wholesale on every classification.
//
// Fields:
//  ID               – internal storage identifier.
//  ExternalID       – TMDB id, unique across shows.
//  Name             – display name.
//  Overview         – free-text synopsis fed to the classifier.
//  GenreIDs         – TMDB genre ids.
//  VoteAverage      – mean user rating on a 0–10 scale.
//  OriginalLanguage – ISO 639-1 code of the original language.
//  Popularity       – TMDB popularity score used for ordering.
//  Emotions         – labels from the closed emotion enumeration.
type Show struct {
    ID               string   `json:"_id" bson:"-"`
    ExternalID       int64    `json:"id" bson:"id"`
    Adult            bool     `json:"adult" bson:"adult"`
    Name             string   `json:"name" bson:"name"`
    OriginalName     string   `json:"original_name" bson:"original_name"`
    Overview         string   `json:"overview" bson:"overview"`
    GenreIDs         []int    `json:"genre_ids" bson:"genre_ids"`
    OriginCountry    []string `json:"origin_country" bson:"origin_country"`
    OriginalLanguage string   `json:"original_language" bson:"original_language"`
    Popularity       float64  `json:"popularity" bson:"popularity"`
    PosterPath       string   `json:"poster_path" bson:"poster_path"`
    BackdropPath     string   `json:"backdrop_path" bson:"backdrop_path"`
    FirstAirDate     string   `json:"first_air_date" bson:"first_air_date"`
    VoteAverage      float64  `json:"vote_average" bson:"vote_average"`
    VoteCount        int64    `json:"vote_count" bson:"vote_count"`
    Emotions         []string `json:"emotions" bson:"emotions"`
}

// HasEmotion reports whether e is among the show's labels.
func (s Show) HasEmotion(e string) bool {
    for _, have := range s.Emotions {
        if have == e {
            return true
        }
    }
    return false
}
