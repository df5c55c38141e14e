package models

// Kind classifies an asset for display purposes.
type Kind string

const (
	KindImage Kind = "IMAGE"
	KindVideo Kind = "VIDEO"
	KindAudio Kind = "AUDIO"
	KindFile  Kind = "FILE"
)

// Resource type tokens used by the upstream media API.
const (
	ResourceImage = "image"
	ResourceVideo = "video"
	ResourceRaw   = "raw"
	ResourceAudio = "audio"
)

// RawAsset is one record as returned by the upstream listing. Read-only
// input to the view builder; the upstream owns its semantics.
type RawAsset struct {
	PublicID     string
	ResourceType string
	Format       string
	Tags         []string
	Width        int
	Height       int
	SecureURL    string
}

// Transform describes a delivery URL transformation. The zero value means
// no transformation (full-fidelity original).
type Transform struct {
	Width   int
	Height  int
	Crop    string
	Quality string
}

// IsZero reports whether the transform requests the untouched original.
func (t Transform) IsZero() bool {
	return t == Transform{}
}

// AssetView is the normalized, display-ready representation of one
// upstream asset. Immutable once built.
type AssetView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Kind         Kind     `json:"kind"`
	ContentType  string   `json:"contentType"`
	Format       string   `json:"format"`
	Tags         []string `json:"tags"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	PreviewURL   string   `json:"previewUrl"`
	OriginalURL  string   `json:"originalUrl"`

	// Searchable is the lower-cased concatenation of id, tags, kind and
	// format. The query engine relies on every token being a substring.
	Searchable string `json:"-"`
}

// Snapshot is the complete materialized collection served to queries.
// A snapshot is never mutated after install; readers see one generation
// in full or the next one in full.
type Snapshot struct {
	Assets     []AssetView
	Generation uint64
}
