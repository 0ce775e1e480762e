package pagination

// OffsetRequest represents an offset-based pagination request
type OffsetRequest struct {
	Page int `json:"page" query:"page"`
	Size int `json:"size" query:"size"`
}

// Validate normalizes offset pagination parameters: a missing page becomes 1
// and the size is clamped to [1, PageMaxSize].
func (r *OffsetRequest) Validate() error {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 {
		r.Size = PageDefaultSize
	}
	if r.Size > PageMaxSize {
		r.Size = PageMaxSize
	}
	return nil
}

// Offset is the number of items before the requested page.
func (r *OffsetRequest) Offset() int {
	return (r.Page - 1) * r.Size
}
