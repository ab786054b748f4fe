package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/iliyamo/cinemood/internal/model"
)

// showColumns selects a show with its emotions folded into one column.
// GROUP_CONCAT orders ENUM values by declaration index, which is the
// canonical emotion order.
const showColumns = `s.id, s.external_id, s.adult, s.name, s.original_name, s.overview,
	s.genre_ids, s.origin_country, s.original_language, s.popularity,
	s.poster_path, s.backdrop_path, s.first_air_date, s.vote_average, s.vote_count,
	(SELECT GROUP_CONCAT(e.emotion ORDER BY e.emotion SEPARATOR ',')
	   FROM show_emotions e WHERE e.show_id = s.id) AS emotions`

// ShowRepo manages persistence for emotion-taggable shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShow(row rowScanner) (model.Show, error) {
	var (
		s         model.Show
		id        uint64
		genres    []byte
		countries []byte
		emotions  sql.NullString
	)
	err := row.Scan(&id, &s.ExternalID, &s.Adult, &s.Name, &s.OriginalName, &s.Overview,
		&genres, &countries, &s.OriginalLanguage, &s.Popularity,
		&s.PosterPath, &s.BackdropPath, &s.FirstAirDate, &s.VoteAverage, &s.VoteCount,
		&emotions)
	if err != nil {
		return model.Show{}, err
	}
	s.ID = formatID(id)
	if err := decodeJSON(genres, &s.GenreIDs); err != nil {
		return model.Show{}, err
	}
	if err := decodeJSON(countries, &s.OriginCountry); err != nil {
		return model.Show{}, err
	}
	s.Emotions = splitEmotions(emotions)
	return s, nil
}

// decodeJSON unmarshals a nullable JSON column; NULL leaves dst untouched.
func decodeJSON(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func splitEmotions(v sql.NullString) []string {
	if !v.Valid || v.String == "" {
		return []string{}
	}
	return strings.Split(v.String, ",")
}

// GetByID retrieves a show by its id.  It returns ErrNotFound if there is
// no matching row and ErrInvalidID if id is not a MySQL id.
func (r *ShowRepo) GetByID(ctx context.Context, id string) (model.Show, error) {
	n, err := parseID(id)
	if err != nil {
		return model.Show{}, err
	}
	s, err := scanShow(r.db.QueryRowContext(ctx, `SELECT `+showColumns+` FROM shows s WHERE s.id = ?`, n))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Show{}, ErrNotFound
	}
	return s, err
}

// GetMany loads the shows named by ids and returns them in the order of
// ids.  Malformed and missing ids are skipped.
func (r *ShowRepo) GetMany(ctx context.Context, ids []string) ([]model.Show, error) {
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		if n, err := parseID(id); err == nil {
			args = append(args, n)
		}
	}
	if len(args) == 0 {
		return []model.Show{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+showColumns+` FROM shows s WHERE s.id IN (`+placeholders(len(args))+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]model.Show, len(args))
	for rows.Next() {
		s, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]model.Show, 0, len(byID))
	for _, id := range ids {
		if s, ok := byID[strings.TrimSpace(id)]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// ReplaceEmotions overwrites the emotion set of a show in one transaction.
// The show row is locked first so a concurrent delete either happens
// before (ErrNotFound) or waits for the commit.
func (r *ShowRepo) ReplaceEmotions(ctx context.Context, id string, emotions []string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var locked uint64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM shows WHERE id = ? FOR UPDATE`, n).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM show_emotions WHERE show_id = ?`, n); err != nil {
		return err
	}
	if len(emotions) > 0 {
		values := make([]string, 0, len(emotions))
		args := make([]any, 0, 2*len(emotions))
		for _, e := range emotions {
			values = append(values, "(?, ?)")
			args = append(args, n, e)
		}
		q := `INSERT INTO show_emotions (show_id, emotion) VALUES ` + strings.Join(values, ", ")
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// HasEmotions reports whether the show carries at least one emotion.
func (r *ShowRepo) HasEmotions(ctx context.Context, id string) (bool, error) {
	n, err := parseID(id)
	if err != nil {
		return false, err
	}
	var ok bool
	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM show_emotions WHERE show_id = ?)`, n).Scan(&ok)
	return ok, err
}
