package repository

import (
	"context"

	"github.com/iliyamo/cinemood/internal/model"
)

// CountByEmotion returns how many shows carry emotion.
func (r *ShowRepo) CountByEmotion(ctx context.Context, emotion string) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM show_emotions WHERE emotion = ?`, emotion).Scan(&total)
	return total, err
}

// ListByEmotion returns one page of shows carrying emotion, most popular
// first.  Ties on popularity fall back to id so pages never overlap.
func (r *ShowRepo) ListByEmotion(ctx context.Context, emotion string, skip, limit int) ([]model.Show, error) {
	const q = `SELECT ` + showColumns + `
		FROM shows s
		JOIN show_emotions f ON f.show_id = s.id AND f.emotion = ?
		ORDER BY s.popularity DESC, s.id ASC
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, q, emotion, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Show{}
	for rows.Next() {
		s, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
