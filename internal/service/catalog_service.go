package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/cinemood/internal/logging"
	"github.com/iliyamo/cinemood/internal/metrics"
	"github.com/iliyamo/cinemood/internal/model"
)

// CatalogPage is one page of the catalog.  On failure Items is empty,
// Total is zero and Err describes what went wrong.
type CatalogPage struct {
	Items []model.ContentItem
	Total int64
	Err   error
}

// CatalogService lists movies and TV series by popularity.
type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// List returns page (1-based) of the catalog.  typeFilter "movie" or "tv"
// reads a single collection; any other value mixes both.
//
// A mixed page takes pageSize/2 items from each collection at offset
// skip/2 and re-sorts them, so an odd pageSize yields a short page.
func (s *CatalogService) List(ctx context.Context, page, pageSize int, typeFilter string) CatalogPage {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	skip := (page - 1) * pageSize

	var (
		items []model.ContentItem
		total int64
		err   error
	)
	start := time.Now()
	if kind, ok := model.ParseContentType(typeFilter); ok {
		items, total, err = s.single(ctx, kind, skip, pageSize)
	} else {
		items, total, err = s.mixed(ctx, skip, pageSize)
	}
	metrics.RecordStoreOp("catalog.list", start, err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("type", typeFilter).Msg("catalog listing failed")
		return CatalogPage{Items: []model.ContentItem{}, Total: 0, Err: fmt.Errorf("%w: %v", ErrQueryFailed, err)}
	}
	return CatalogPage{Items: items, Total: total}
}

func (s *CatalogService) single(ctx context.Context, kind model.ContentType, skip, limit int) ([]model.ContentItem, int64, error) {
	var (
		items []model.ContentItem
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = s.store.ListByPopularity(gctx, kind, skip, limit)
		return err
	})
	g.Go(func() (err error) {
		total, err = s.store.Count(gctx, kind)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []model.ContentItem{}
	}
	return items, total, nil
}

func (s *CatalogService) mixed(ctx context.Context, skip, pageSize int) ([]model.ContentItem, int64, error) {
	half, halfSkip := pageSize/2, skip/2
	var (
		movies, tv          []model.ContentItem
		movieTotal, tvTotal int64
	)
	g, gctx := errgroup.WithContext(ctx)
	// A zero half means an empty page; stores may read limit 0 as unbounded.
	if half > 0 {
		g.Go(func() (err error) {
			movies, err = s.store.ListByPopularity(gctx, model.ContentMovie, halfSkip, half)
			return err
		})
		g.Go(func() (err error) {
			tv, err = s.store.ListByPopularity(gctx, model.ContentTV, halfSkip, half)
			return err
		})
	}
	g.Go(func() (err error) {
		movieTotal, err = s.store.Count(gctx, model.ContentMovie)
		return err
	})
	g.Go(func() (err error) {
		tvTotal, err = s.store.Count(gctx, model.ContentTV)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	items := make([]model.ContentItem, 0, len(movies)+len(tv))
	items = append(items, movies...)
	items = append(items, tv...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PopularityOrZero() > items[j].PopularityOrZero()
	})
	return items, movieTotal + tvTotal, nil
}
