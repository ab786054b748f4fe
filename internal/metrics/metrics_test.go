package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/v1/catalog", "200"))
	RecordAPIRequest("GET", "/v1/catalog", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/v1/catalog", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordStoreOp(t *testing.T) {
	before := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("shows.get"))
	RecordStoreOp("shows.get", time.Now(), nil)
	assert.Equal(t, before, testutil.ToFloat64(StoreQueryErrors.WithLabelValues("shows.get")))
	RecordStoreOp("shows.get", time.Now(), errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(StoreQueryErrors.WithLabelValues("shows.get")))
}

func TestRecordEmotions(t *testing.T) {
	before := testutil.ToFloat64(EmotionLabelsAssigned.WithLabelValues("tense"))
	RecordEmotions([]string{"tense", "sad", "tense"})
	assert.Equal(t, before+2, testutil.ToFloat64(EmotionLabelsAssigned.WithLabelValues("tense")))
}

func TestRecordFavoriteToggle(t *testing.T) {
	added := testutil.ToFloat64(FavoriteToggles.WithLabelValues("added"))
	removed := testutil.ToFloat64(FavoriteToggles.WithLabelValues("removed"))
	RecordFavoriteToggle(true)
	RecordFavoriteToggle(false)
	RecordFavoriteToggle(false)
	assert.Equal(t, added+1, testutil.ToFloat64(FavoriteToggles.WithLabelValues("added")))
	assert.Equal(t, removed+2, testutil.ToFloat64(FavoriteToggles.WithLabelValues("removed")))
}
