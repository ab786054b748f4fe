package repository

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinemood/internal/model"
)

func TestParseID(t *testing.T) {
	n, err := parseID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), n)

	for _, bad := range []string{"", "0", "-1", "abc", "65f1c0ffee", "1.5"} {
		_, err := parseID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}

func TestSplitEmotions(t *testing.T) {
	assert.Equal(t, []string{}, splitEmotions(sql.NullString{}))
	assert.Equal(t, []string{}, splitEmotions(sql.NullString{Valid: true}))
	assert.Equal(t, []string{"happy", "sad"}, splitEmotions(sql.NullString{String: "happy,sad", Valid: true}))
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, isDuplicate(&mysql.MySQLError{Number: 1062}))
	assert.False(t, isDuplicate(&mysql.MySQLError{Number: 1213}))
	assert.False(t, isDuplicate(errors.New("1062 in text only")))
}

func TestCatalogTable(t *testing.T) {
	table, err := catalogTable(model.ContentMovie)
	require.NoError(t, err)
	assert.Equal(t, "movies", table)

	table, err = catalogTable(model.ContentTV)
	require.NoError(t, err)
	assert.Equal(t, "tv_series", table)

	_, err = catalogTable("anime")
	assert.Error(t, err)
}

type fakeRow struct{ vals []any }

func (f fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *uint64:
			*p = f.vals[i].(uint64)
		case *int64:
			*p = f.vals[i].(int64)
		case *bool:
			*p = f.vals[i].(bool)
		case *string:
			*p = f.vals[i].(string)
		case *float64:
			*p = f.vals[i].(float64)
		case *[]byte:
			if f.vals[i] != nil {
				*p = f.vals[i].([]byte)
			}
		case *sql.NullString:
			*p = f.vals[i].(sql.NullString)
		}
	}
	return nil
}

func TestScanShow(t *testing.T) {
	row := fakeRow{vals: []any{
		uint64(7), int64(1399), false, "Thrones", "Thrones", "dragons",
		[]byte(`[18,10765]`), []byte(`["US"]`), "en", 99.5,
		"/p.jpg", "/b.jpg", "2011-04-17", 8.4, int64(2000),
		sql.NullString{String: "tense,thoughtful", Valid: true},
	}}
	s, err := scanShow(row)
	require.NoError(t, err)
	assert.Equal(t, "7", s.ID)
	assert.Equal(t, []int{18, 10765}, s.GenreIDs)
	assert.Equal(t, []string{"US"}, s.OriginCountry)
	assert.Equal(t, []string{"tense", "thoughtful"}, s.Emotions)
	assert.True(t, s.HasEmotion("tense"))
}
