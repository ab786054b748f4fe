package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/cinemood/internal/model"
)

// catalogColumns is the projection used by catalog listings.  Heavy JSON
// blocks (credits, keywords, providers) are left out of list views.
const catalogColumns = `id, external_id, type, title, original_title, release_date,
	overview, popularity, vote_average, vote_count, poster_path, backdrop_path,
	original_language, images, genres, last_updated`

// CatalogRepo reads the movies and tv_series tables.
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo constructs a CatalogRepo with the given DB handle.
func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func catalogTable(kind model.ContentType) (string, error) {
	switch kind {
	case model.ContentMovie:
		return "movies", nil
	case model.ContentTV:
		return "tv_series", nil
	}
	return "", fmt.Errorf("unknown content type %q", kind)
}

// Count returns the number of items of kind.
func (r *CatalogRepo) Count(ctx context.Context, kind model.ContentType) (int64, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return 0, err
	}
	var total int64
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&total)
	return total, err
}

// ListByPopularity returns items of kind ordered by popularity descending.
// Rows without a popularity sort last, which matches treating them as 0
// for a non-negative score.
func (r *CatalogRepo) ListByPopularity(ctx context.Context, kind model.ContentType, skip, limit int) ([]model.ContentItem, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + catalogColumns + ` FROM ` + table + `
		ORDER BY COALESCE(popularity, 0) DESC, id ASC
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, q, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.ContentItem{}
	for rows.Next() {
		it, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanContentItem(row rowScanner) (model.ContentItem, error) {
	var (
		it            model.ContentItem
		id            uint64
		kind          string
		originalTitle sql.NullString
		releaseDate   sql.NullTime
		overview      sql.NullString
		popularity    sql.NullFloat64
		voteAverage   sql.NullFloat64
		voteCount     sql.NullInt64
		poster        sql.NullString
		backdrop      sql.NullString
		language      sql.NullString
		images        []byte
		genres        []byte
	)
	err := row.Scan(&id, &it.ExternalID, &kind, &it.Title, &originalTitle, &releaseDate,
		&overview, &popularity, &voteAverage, &voteCount, &poster, &backdrop,
		&language, &images, &genres, &it.LastUpdated)
	if err != nil {
		return model.ContentItem{}, err
	}
	it.ID = formatID(id)
	it.Type = model.ContentType(kind)
	it.OriginalTitle = originalTitle.String
	if releaseDate.Valid {
		d := releaseDate.Time
		it.ReleaseDate = &d
	}
	it.Overview = overview.String
	if popularity.Valid {
		p := popularity.Float64
		it.Popularity = &p
	}
	it.VoteAverage = voteAverage.Float64
	it.VoteCount = voteCount.Int64
	it.PosterPath = poster.String
	it.BackdropPath = backdrop.String
	it.OriginalLanguage = language.String
	if len(images) > 0 {
		it.Images = &model.Images{}
		if err := decodeJSON(images, it.Images); err != nil {
			return model.ContentItem{}, err
		}
	}
	if err := decodeJSON(genres, &it.Genres); err != nil {
		return model.ContentItem{}, err
	}
	return it, nil
}
