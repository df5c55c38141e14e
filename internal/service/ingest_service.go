package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/media-lookup-api/internal/models"
)

// assetLister is the one capability of the rate-limited upstream listing:
// fetch a page of raw records for a cursor. An empty returned cursor marks
// exhaustion.
type assetLister interface {
	ListPage(ctx context.Context, cursor string, maxResults int) ([]models.RawAsset, string, error)
}

// IngestServiceParams groups constructor dependencies.
type IngestServiceParams struct {
	Lister   assetLister
	Builder  *AssetViewBuilder
	Store    *SnapshotStore
	Cache    *CacheService
	Metrics  *MetricsService
	Logger   *zap.Logger
	PageSize int
}

// IngestService drains the upstream paginated listing into a complete
// snapshot and installs it exactly once per run.
type IngestService struct {
	lister   assetLister
	builder  *AssetViewBuilder
	store    *SnapshotStore
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	pageSize int

	mu  sync.Mutex
	ran bool
}

// NewIngestService constructs an IngestService with sane defaults.
func NewIngestService(params IngestServiceParams) *IngestService {
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 500
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{
		lister:   params.Lister,
		builder:  params.Builder,
		store:    params.Store,
		cache:    params.Cache,
		metrics:  params.Metrics,
		logger:   logger,
		pageSize: pageSize,
	}
}

// Run executes the ingestion protocol to completion: page through the
// upstream listing, build a view for every record, then install the whole
// sequence in one atomic step. Any upstream failure discards what was
// collected so far and installs an empty snapshot instead, so the service
// answers queries with zero results rather than staying unready forever.
// Run refuses to execute more than once per process.
func (s *IngestService) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.ran {
		s.mu.Unlock()
		return fmt.Errorf("ingest already ran")
	}
	s.ran = true
	s.mu.Unlock()

	runID := uuid.NewString()
	start := time.Now()
	log := s.logger.With(zap.String("run_id", runID))
	log.Info("ingest run starting", zap.Int("page_size", s.pageSize))

	views := make([]models.AssetView, 0, s.pageSize)
	cursor := ""
	pages := 0

	for {
		records, next, err := s.lister.ListPage(ctx, cursor, s.pageSize)
		if err != nil {
			log.Error("upstream listing failed, installing empty snapshot",
				zap.Int("pages_fetched", pages),
				zap.Int("assets_discarded", len(views)),
				zap.Error(err),
			)
			s.install(ctx, nil, start, log)
			return err
		}

		pages++
		s.metrics.RecordIngestPage()
		for _, record := range records {
			views = append(views, s.builder.Build(record))
		}

		if next == "" {
			break
		}
		cursor = next
	}

	s.install(ctx, views, start, log)
	log.Info("ingest run complete",
		zap.Int("pages", pages),
		zap.Int("assets", len(views)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *IngestService) install(ctx context.Context, views []models.AssetView, start time.Time, log *zap.Logger) {
	snap := s.store.Install(views)
	s.metrics.RecordIngestRun(len(snap.Assets), time.Since(start))

	// Pages cached against an earlier generation are unreachable by key but
	// would otherwise linger until TTL.
	if snap.Generation > 1 {
		pattern := fmt.Sprintf("search:g%d:*", snap.Generation-1)
		if err := s.cache.Invalidate(ctx, pattern); err != nil {
			log.Warn("stale search cache purge failed", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}
