package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/media-lookup-api/internal/models"
	appErrors "github.com/noah-isme/media-lookup-api/pkg/errors"
)

type fakeFinder struct {
	resources    []models.AssetView
	continuation *string
	cacheHit     bool
	err          error
	lastSearch   string
	lastCursor   string
}

func (f *fakeFinder) Find(_ context.Context, searchText, cursor string) ([]models.AssetView, *string, bool, error) {
	f.lastSearch = searchText
	f.lastCursor = cursor
	return f.resources, f.continuation, f.cacheHit, f.err
}

type envelope struct {
	Type         string             `json:"type"`
	Resources    []models.AssetView `json:"resources"`
	Continuation *string            `json:"continuation"`
	Message      string             `json:"message"`
}

func performSearch(t *testing.T, h *SearchHandler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)

	h.List(c)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestSearchHandlerSuccess(t *testing.T) {
	next := "50"
	finder := &fakeFinder{
		resources:    []models.AssetView{{ID: "cat", Kind: models.KindImage}},
		continuation: &next,
	}
	handler := NewSearchHandler(finder)

	rec, env := performSearch(t, handler, "/media/assets?searchText=cat&cursor=0")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SUCCESS", env.Type)
	require.Len(t, env.Resources, 1)
	assert.Equal(t, "cat", env.Resources[0].ID)
	require.NotNil(t, env.Continuation)
	assert.Equal(t, "50", *env.Continuation)
	assert.Equal(t, "cat", finder.lastSearch)
	assert.Equal(t, "0", finder.lastCursor)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
}

func TestSearchHandlerCacheHitHeader(t *testing.T) {
	handler := NewSearchHandler(&fakeFinder{cacheHit: true})

	rec, _ := performSearch(t, handler, "/media/assets")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}

func TestSearchHandlerLastPageHasNullContinuation(t *testing.T) {
	handler := NewSearchHandler(&fakeFinder{resources: []models.AssetView{{ID: "only"}}})

	rec, env := performSearch(t, handler, "/media/assets")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, env.Continuation)
	assert.Contains(t, rec.Body.String(), `"continuation":null`)
}

func TestSearchHandlerNotReady(t *testing.T) {
	handler := NewSearchHandler(&fakeFinder{err: appErrors.ErrNotReady})

	rec, env := performSearch(t, handler, "/media/assets?searchText=cat")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "ERROR", env.Type)
	require.NotNil(t, env.Resources)
	assert.Empty(t, env.Resources)
	assert.NotEmpty(t, env.Message)
}

func TestSearchHandlerInternalError(t *testing.T) {
	handler := NewSearchHandler(&fakeFinder{err: appErrors.ErrInternal})

	rec, env := performSearch(t, handler, "/media/assets")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "ERROR", env.Type)
	assert.Empty(t, env.Resources)
}

func TestSearchHandlerNilService(t *testing.T) {
	handler := NewSearchHandler(nil)

	rec, env := performSearch(t, handler, "/media/assets")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "ERROR", env.Type)
}
