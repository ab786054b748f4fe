package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/cinemood/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key clash.
const mysqlDuplicateEntry = 1062

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// GetByExternalID fetches a user and its favorites by identity-provider id.
func (r *UserRepo) GetByExternalID(ctx context.Context, externalID string) (model.User, error) {
	var (
		u  model.User
		id uint64
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,external_id,email,created_at,updated_at FROM users WHERE external_id=? LIMIT 1",
		externalID).Scan(&id, &u.ExternalID, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.ID = formatID(id)

	favs, err := r.favorites(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	u.Favorites = favs
	return u, nil
}

func (r *UserRepo) favorites(ctx context.Context, userID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT show_id FROM user_favorites WHERE user_id=? ORDER BY position ASC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var showID uint64
		if err := rows.Scan(&showID); err != nil {
			return nil, err
		}
		out = append(out, formatID(showID))
	}
	return out, rows.Err()
}

// Create inserts a user with an empty favorites list.  When another request
// created the same external id first, the existing record is returned.
func (r *UserRepo) Create(ctx context.Context, externalID, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (external_id, email) VALUES (?,?)", externalID, email)
	if err != nil && !isDuplicate(err) {
		return model.User{}, err
	}
	return r.GetByExternalID(ctx, externalID)
}

// SaveFavorites replaces the user's favorites with favs, keeping order.
// Ids that are not MySQL ids are dropped.
func (r *UserRepo) SaveFavorites(ctx context.Context, userID string, favs []string) error {
	uid, err := parseID(userID)
	if err != nil {
		return err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
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
	if err := tx.QueryRowContext(ctx, "SELECT id FROM users WHERE id=? FOR UPDATE", uid).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE users SET updated_at=? WHERE id=?", time.Now().UTC(), uid); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_favorites WHERE user_id=?", uid); err != nil {
		return err
	}

	values := make([]string, 0, len(favs))
	args := make([]any, 0, 3*len(favs))
	seen := make(map[uint64]struct{}, len(favs))
	for _, f := range favs {
		sid, err := parseID(f)
		if err != nil {
			continue
		}
		if _, dup := seen[sid]; dup {
			continue
		}
		seen[sid] = struct{}{}
		values = append(values, "(?,?,?)")
		args = append(args, uid, sid, len(values)-1)
	}
	if len(values) > 0 {
		q := "INSERT INTO user_favorites (user_id, show_id, position) VALUES " + strings.Join(values, ",")
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
