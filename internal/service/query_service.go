package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/media-lookup-api/internal/models"
)

// PageSize is the fixed number of assets per result page. Not client
// configurable.
const PageSize = 50

type snapshotProvider interface {
	Current() (*models.Snapshot, error)
}

// QueryServiceParams groups constructor dependencies.
type QueryServiceParams struct {
	Store   snapshotProvider
	Cache   *CacheService
	Metrics *MetricsService
	Logger  *zap.Logger
}

// QueryService filters and paginates the current snapshot. Stateless per
// request; all state lives in the snapshot store.
type QueryService struct {
	store   snapshotProvider
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewQueryService constructs a QueryService.
func NewQueryService(params QueryServiceParams) *QueryService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{
		store:   params.Store,
		cache:   params.Cache,
		metrics: params.Metrics,
		logger:  logger,
	}
}

type cachedPage struct {
	Resources    []models.AssetView `json:"resources"`
	Continuation *string            `json:"continuation"`
}

// Find returns one page of assets matching every term in searchText, plus
// a continuation cursor when more results remain. The boolean reports
// whether the page came from cache. Returns ErrNotReady before the first
// ingest completes.
func (s *QueryService) Find(ctx context.Context, searchText, cursor string) ([]models.AssetView, *string, bool, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, nil, false, err
	}

	terms := strings.Fields(strings.ToLower(strings.TrimSpace(searchText)))
	offset := parseCursor(cursor)

	// Terms cannot contain whitespace after strings.Fields, so a space join
	// keys distinct term lists to distinct cache entries.
	cacheKey := fmt.Sprintf("search:g%d:%s:%d", snap.Generation, strings.Join(terms, " "), offset)
	var cached cachedPage
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached.Resources, cached.Continuation, true, nil
	}

	start := time.Now()
	filtered := filterAssets(snap.Assets, terms)

	var page []models.AssetView
	var continuation *string
	if offset < len(filtered) {
		end := offset + PageSize
		if end > len(filtered) {
			end = len(filtered)
		}
		page = filtered[offset:end]
		if offset+PageSize < len(filtered) {
			next := strconv.Itoa(offset + PageSize)
			continuation = &next
		}
	}
	if page == nil {
		page = []models.AssetView{}
	}
	s.metrics.ObserveSearch(time.Since(start))

	if err := s.cache.Set(ctx, cacheKey, cachedPage{Resources: page, Continuation: continuation}, 0); err != nil {
		s.logger.Debug("search page cache write failed", zap.String("key", cacheKey), zap.Error(err))
	}

	return page, continuation, false, nil
}

// filterAssets keeps snapshot order and requires every term to be a
// substring of the asset's searchable text. No terms matches everything.
func filterAssets(assets []models.AssetView, terms []string) []models.AssetView {
	if len(terms) == 0 {
		return assets
	}

	filtered := make([]models.AssetView, 0, len(assets))
	for _, asset := range assets {
		if matchesAll(asset.Searchable, terms) {
			filtered = append(filtered, asset)
		}
	}
	return filtered
}

func matchesAll(searchable string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(searchable, term) {
			return false
		}
	}
	return true
}

// parseCursor decodes the decimal offset cursor. Malformed or negative
// cursors degrade to offset 0 instead of failing the request.
func parseCursor(cursor string) int {
	if cursor == "" {
		return 0
	}
	offset, err := strconv.Atoi(cursor)
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}
