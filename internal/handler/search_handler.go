package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/media-lookup-api/internal/dto"
	"github.com/noah-isme/media-lookup-api/internal/models"
	appErrors "github.com/noah-isme/media-lookup-api/pkg/errors"
	"github.com/noah-isme/media-lookup-api/pkg/response"
)

type assetFinder interface {
	Find(ctx context.Context, searchText, cursor string) ([]models.AssetView, *string, bool, error)
}

// SearchHandler wires the query service to HTTP endpoints.
type SearchHandler struct {
	service assetFinder
}

// NewSearchHandler constructs the handler.
func NewSearchHandler(service assetFinder) *SearchHandler {
	return &SearchHandler{service: service}
}

// List godoc
// @Summary Search the media snapshot
// @Tags Media
// @Produce json
// @Param searchText query string false "Free-text search terms (AND semantics)"
// @Param cursor query string false "Continuation cursor from a previous page"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /media/assets [get]
func (h *SearchHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}

	resources, continuation, cacheHit, err := h.service.Find(c.Request.Context(), query.SearchText, query.Cursor)
	if err != nil {
		response.Error(c, err)
		return
	}

	if cacheHit {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	response.Success(c, resources, continuation)
}
