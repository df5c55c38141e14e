package service

import (
	"strings"

	"github.com/noah-isme/media-lookup-api/internal/models"
)

type displayURLBuilder interface {
	DisplayURL(publicID, resourceType string, t models.Transform) string
}

const (
	defaultWidth  = 400
	defaultHeight = 300

	fallbackContentType = "application/octet-stream"

	// Audio has no visual preview; a fixed placeholder keeps tile layouts
	// uniform.
	audioThumbnailURL = "https://placehold.co/200x200?text=audio"
	audioPreviewURL   = "https://placehold.co/400x300?text=audio"
)

var (
	thumbnailTransform = models.Transform{Width: 200, Height: 200, Crop: "limit", Quality: "auto:low"}
	previewTransform   = models.Transform{Width: 800, Height: 600, Crop: "limit", Quality: "auto:low"}
)

// audioFormats are the raw-resource formats reclassified as AUDIO.
var audioFormats = map[string]struct{}{
	"mp3":  {},
	"wav":  {},
	"ogg":  {},
	"m4a":  {},
	"flac": {},
	"aac":  {},
}

// contentTypes maps (effective resource kind, format) to an exact MIME
// string. Any miss falls back to application/octet-stream.
var contentTypes = map[string]map[string]string{
	models.ResourceImage: {
		"jpg":  "image/jpeg",
		"jpeg": "image/jpeg",
		"png":  "image/png",
		"gif":  "image/gif",
		"webp": "image/webp",
		"svg":  "image/svg+xml",
		"avif": "image/avif",
		"tiff": "image/tiff",
	},
	models.ResourceVideo: {
		"mp4":  "video/mp4",
		"mov":  "video/quicktime",
		"avi":  "video/x-msvideo",
		"mkv":  "video/x-matroska",
		"webm": "video/webm",
		"flv":  "video/x-flv",
	},
	models.ResourceAudio: {
		"mp3":  "audio/mpeg",
		"wav":  "audio/wav",
		"ogg":  "audio/ogg",
		"m4a":  "audio/mp4",
		"flac": "audio/flac",
		"aac":  "audio/aac",
	},
}

// AssetViewBuilder turns raw upstream records into display-ready views.
// Pure transformation, no I/O.
type AssetViewBuilder struct {
	urls displayURLBuilder
}

// NewAssetViewBuilder constructs a builder over the given URL derivation.
func NewAssetViewBuilder(urls displayURLBuilder) *AssetViewBuilder {
	return &AssetViewBuilder{urls: urls}
}

// Build derives the view model for one raw record.
func (b *AssetViewBuilder) Build(raw models.RawAsset) models.AssetView {
	format := strings.ToLower(raw.Format)
	kind, effectiveType := classify(raw.ResourceType, format)

	width := raw.Width
	if width <= 0 {
		width = defaultWidth
	}
	height := raw.Height
	if height <= 0 {
		height = defaultHeight
	}

	tags := raw.Tags
	if tags == nil {
		tags = []string{}
	}

	view := models.AssetView{
		ID:          raw.PublicID,
		Name:        displayName(raw.PublicID),
		Kind:        kind,
		ContentType: contentTypeFor(effectiveType, format),
		Format:      raw.Format,
		Tags:        tags,
		Width:       width,
		Height:      height,
		Searchable:  searchableText(raw.PublicID, raw.Tags, kind, raw.Format),
	}

	if kind == models.KindAudio {
		view.ThumbnailURL = audioThumbnailURL
		view.PreviewURL = audioPreviewURL
	} else {
		view.ThumbnailURL = b.urls.DisplayURL(raw.PublicID, raw.ResourceType, thumbnailTransform)
		view.PreviewURL = b.urls.DisplayURL(raw.PublicID, raw.ResourceType, previewTransform)
	}

	// The original must match what the upstream store serves byte for byte;
	// the record's own URL wins over a rebuilt one.
	if raw.SecureURL != "" {
		view.OriginalURL = raw.SecureURL
	} else {
		view.OriginalURL = b.urls.DisplayURL(raw.PublicID, raw.ResourceType, models.Transform{})
	}

	return view
}

// classify applies the ordered classification rules and returns the kind
// plus the effective resource type used for content-type lookup.
func classify(resourceType, format string) (models.Kind, string) {
	switch resourceType {
	case models.ResourceImage:
		return models.KindImage, models.ResourceImage
	case models.ResourceVideo:
		return models.KindVideo, models.ResourceVideo
	case models.ResourceRaw:
		if _, ok := audioFormats[format]; ok {
			return models.KindAudio, models.ResourceAudio
		}
	}
	return models.KindFile, resourceType
}

func contentTypeFor(effectiveType, format string) string {
	if table, ok := contentTypes[effectiveType]; ok {
		if mime, ok := table[format]; ok {
			return mime
		}
	}
	return fallbackContentType
}

func displayName(publicID string) string {
	if idx := strings.LastIndex(publicID, "/"); idx >= 0 {
		return publicID[idx+1:]
	}
	return publicID
}

func searchableText(publicID string, tags []string, kind models.Kind, format string) string {
	parts := []string{publicID, strings.Join(tags, " "), string(kind), format}
	return strings.ToLower(strings.Join(parts, " "))
}
