package dto

// SearchQuery binds the media search query string. Both parameters are
// optional: absent search text matches everything and an absent or
// malformed cursor starts from the first page.
type SearchQuery struct {
	SearchText string `form:"searchText"`
	Cursor     string `form:"cursor"`
}
