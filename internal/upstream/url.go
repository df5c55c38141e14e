package upstream

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/noah-isme/media-lookup-api/internal/models"
	"github.com/noah-isme/media-lookup-api/pkg/config"
)

// URLBuilder derives deterministic delivery URLs for an asset. The same
// public ID and transform always yield the same URL, so built URLs can be
// embedded in the snapshot at ingest time.
type URLBuilder struct {
	deliveryBase string
	cloudName    string
	apiSecret    string
	signURLs     bool
}

// NewURLBuilder constructs a builder for the configured account.
func NewURLBuilder(cfg config.UpstreamConfig) *URLBuilder {
	base := strings.TrimRight(cfg.DeliveryURL, "/")
	if base == "" {
		base = "https://res.cloudinary.com"
	}
	return &URLBuilder{
		deliveryBase: base,
		cloudName:    cfg.CloudName,
		apiSecret:    cfg.APISecret,
		signURLs:     cfg.SignURLs,
	}
}

// DisplayURL builds the delivery URL for the asset under the given
// transform. A zero transform yields the canonical full-fidelity URL.
func (b *URLBuilder) DisplayURL(publicID, resourceType string, t models.Transform) string {
	segments := []string{b.deliveryBase, b.cloudName, resourceType, "upload"}

	transform := encodeTransform(t)
	if b.signURLs {
		segments = append(segments, b.signature(transform, publicID))
	}
	if transform != "" {
		segments = append(segments, transform)
	}
	segments = append(segments, publicID)

	return strings.Join(segments, "/")
}

func encodeTransform(t models.Transform) string {
	if t.IsZero() {
		return ""
	}

	parts := make([]string, 0, 4)
	if t.Crop != "" {
		parts = append(parts, "c_"+t.Crop)
	}
	if t.Width > 0 {
		parts = append(parts, fmt.Sprintf("w_%d", t.Width))
	}
	if t.Height > 0 {
		parts = append(parts, fmt.Sprintf("h_%d", t.Height))
	}
	if t.Quality != "" {
		parts = append(parts, "q_"+t.Quality)
	}

	return strings.Join(parts, ",")
}

// signature produces the delivery signature segment over the transform and
// public ID, keyed by the account secret.
func (b *URLBuilder) signature(transform, publicID string) string {
	toSign := publicID
	if transform != "" {
		toSign = transform + "/" + publicID
	}

	sum := sha1.Sum([]byte(toSign + b.apiSecret))
	encoded := base64.RawURLEncoding.EncodeToString(sum[:])

	return "s--" + encoded[:8] + "--"
}
