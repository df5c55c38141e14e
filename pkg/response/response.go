package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/media-lookup-api/internal/models"
	appErrors "github.com/noah-isme/media-lookup-api/pkg/errors"
)

// Envelope is the fixed contract served to the media library client.
// Resources is always present (possibly empty) and Continuation is null
// once the result set is exhausted.
type Envelope struct {
	Type         string             `json:"type"`
	Resources    []models.AssetView `json:"resources"`
	Continuation *string            `json:"continuation"`
	Message      string             `json:"message,omitempty"`
}

const (
	typeSuccess = "SUCCESS"
	typeError   = "ERROR"
)

// Success sends a SUCCESS envelope with the served page.
func Success(c *gin.Context, resources []models.AssetView, continuation *string) {
	if resources == nil {
		resources = []models.AssetView{}
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, Envelope{
		Type:         typeSuccess,
		Resources:    resources,
		Continuation: continuation,
	})
}

// Error sends an ERROR envelope with the status carried by the error.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{
		Type:      typeError,
		Resources: []models.AssetView{},
		Message:   appErr.Message,
	})
}
