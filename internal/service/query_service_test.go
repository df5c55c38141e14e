package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/media-lookup-api/internal/models"
	appErrors "github.com/noah-isme/media-lookup-api/pkg/errors"
)

type stubCacheRepo struct {
	mu      sync.Mutex
	data    map[string][]byte
	purged  []string
	getErr  error
	setErr  error
}

func newStubCacheRepo() *stubCacheRepo {
	return &stubCacheRepo{data: map[string][]byte{}}
}

func (r *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return r.getErr
	}
	raw, ok := r.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (r *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.data[key] = raw
	return nil
}

func (r *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purged = append(r.purged, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range r.data {
		if strings.HasPrefix(key, prefix) {
			delete(r.data, key)
		}
	}
	return nil
}

func newTestQueryService(store snapshotProvider, cache *CacheService) *QueryService {
	return NewQueryService(QueryServiceParams{
		Store:  store,
		Cache:  cache,
		Logger: zap.NewNop(),
	})
}

func installedStore(t *testing.T, assets []models.AssetView) *SnapshotStore {
	t.Helper()
	store := NewSnapshotStore()
	store.Install(assets)
	return store
}

func builtAssets(n int) []models.AssetView {
	builder := NewAssetViewBuilder(fakeURLBuilder{})
	assets := make([]models.AssetView, 0, n)
	for i := 0; i < n; i++ {
		assets = append(assets, builder.Build(models.RawAsset{
			PublicID:     fmt.Sprintf("bulk/asset_%03d", i),
			ResourceType: "image",
			Format:       "jpg",
		}))
	}
	return assets
}

func TestQueryServiceNotReady(t *testing.T) {
	svc := newTestQueryService(NewSnapshotStore(), nil)

	_, _, _, err := svc.Find(context.Background(), "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotReady)
}

func TestQueryServiceAndSemantics(t *testing.T) {
	builder := NewAssetViewBuilder(fakeURLBuilder{})
	cat := builder.Build(models.RawAsset{
		PublicID:     "cat_photo",
		ResourceType: "image",
		Format:       "jpg",
		Tags:         []string{"tag1", "tag2"},
	})
	dog := builder.Build(models.RawAsset{
		PublicID:     "dog_clip",
		ResourceType: "video",
		Format:       "mp4",
	})
	svc := newTestQueryService(installedStore(t, []models.AssetView{cat, dog}), nil)

	page, _, _, err := svc.Find(context.Background(), "cat image", "")
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "cat_photo", page[0].ID)

	page, _, _, err = svc.Find(context.Background(), "cat dog", "")
	require.NoError(t, err)
	assert.Empty(t, page, "every term must match")

	page, _, _, err = svc.Find(context.Background(), "  ", "")
	require.NoError(t, err)
	assert.Len(t, page, 2, "blank search matches everything")
}

func TestQueryServicePaginationRoundTrip(t *testing.T) {
	assets := builtAssets(120)
	svc := newTestQueryService(installedStore(t, assets), nil)
	ctx := context.Background()

	page1, cursor1, _, err := svc.Find(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, page1, 50)
	require.NotNil(t, cursor1)
	assert.Equal(t, "50", *cursor1)

	page2, cursor2, _, err := svc.Find(ctx, "", *cursor1)
	require.NoError(t, err)
	require.Len(t, page2, 50)
	require.NotNil(t, cursor2)
	assert.Equal(t, "100", *cursor2)

	page3, cursor3, _, err := svc.Find(ctx, "", *cursor2)
	require.NoError(t, err)
	require.Len(t, page3, 20)
	assert.Nil(t, cursor3, "exhausted result set ends the cursor chain")

	var combined []models.AssetView
	combined = append(combined, page1...)
	combined = append(combined, page2...)
	combined = append(combined, page3...)
	require.Len(t, combined, 120)
	for i, asset := range combined {
		assert.Equal(t, assets[i].ID, asset.ID, "order preserved, each asset served exactly once")
	}
}

func TestQueryServiceMalformedCursor(t *testing.T) {
	assets := builtAssets(3)
	svc := newTestQueryService(installedStore(t, assets), nil)
	ctx := context.Background()

	for _, cursor := range []string{"abc", "-5", "12.7", ""} {
		page, _, _, err := svc.Find(ctx, "", cursor)
		require.NoError(t, err, "cursor %q", cursor)
		require.Len(t, page, 3, "cursor %q degrades to offset 0", cursor)
		assert.Equal(t, assets[0].ID, page[0].ID)
	}
}

func TestQueryServiceOffsetPastEnd(t *testing.T) {
	svc := newTestQueryService(installedStore(t, builtAssets(10)), nil)

	page, continuation, _, err := svc.Find(context.Background(), "", "500")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Empty(t, page)
	assert.Nil(t, continuation)
}

func TestQueryServiceCachesPages(t *testing.T) {
	repo := newStubCacheRepo()
	cacheSvc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
	svc := newTestQueryService(installedStore(t, builtAssets(5)), cacheSvc)
	ctx := context.Background()

	page1, cont1, hit, err := svc.Find(ctx, "bulk", "")
	require.NoError(t, err)
	assert.False(t, hit)

	page2, cont2, hit, err := svc.Find(ctx, "bulk", "")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, len(page1), len(page2))
	assert.Equal(t, cont1, cont2)
}

func TestQueryServiceCacheKeySeparatesCommaTerms(t *testing.T) {
	builder := NewAssetViewBuilder(fakeURLBuilder{})
	commaAsset := builder.Build(models.RawAsset{
		PublicID:     "alpha,beta",
		ResourceType: "image",
		Format:       "jpg",
	})
	taggedAsset := builder.Build(models.RawAsset{
		PublicID:     "alpha",
		ResourceType: "image",
		Format:       "jpg",
		Tags:         []string{"beta"},
	})

	repo := newStubCacheRepo()
	cacheSvc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
	svc := newTestQueryService(installedStore(t, []models.AssetView{commaAsset, taggedAsset}), cacheSvc)
	ctx := context.Background()

	page, _, _, err := svc.Find(ctx, "alpha beta", "")
	require.NoError(t, err)
	require.Len(t, page, 2)

	// A comma inside a single term must not collide with the cached
	// two-term page above.
	page, _, hit, err := svc.Find(ctx, "alpha,beta", "")
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, page, 1)
	assert.Equal(t, "alpha,beta", page[0].ID)
}

func TestQueryServiceCacheKeyedByGeneration(t *testing.T) {
	repo := newStubCacheRepo()
	cacheSvc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
	store := installedStore(t, builtAssets(5))
	svc := newTestQueryService(store, cacheSvc)
	ctx := context.Background()

	_, _, _, err := svc.Find(ctx, "bulk", "")
	require.NoError(t, err)

	store.Install(builtAssets(2))

	page, _, hit, err := svc.Find(ctx, "bulk", "")
	require.NoError(t, err)
	assert.False(t, hit, "new generation must not reuse old cached pages")
	assert.Len(t, page, 2)
}
