package dto

// WebResponse is a generic API response structure
type WebResponse[T any] struct {
	Data T         `json:"data"`
	Meta *ListMeta `json:"meta,omitempty"` // Set on collection responses only
}

// ListMeta describes a collection response. Source names the read path that produced it,
// so clients can tell a possibly stale cached listing from a fresh one.
type ListMeta struct {
	Count  int    `json:"count"`
	Source string `json:"source"`
}

// Read paths reported in ListMeta.Source.
const (
	SourceProjection = "projection"
	SourceRelational = "relational"
	SourceCache      = "cache"
	SourceSession    = "session"
	SourceBuffered   = "buffered"
	SourceStreaming  = "streaming"
	SourceReport     = "report"
)

// NewListResponse wraps items with their count and source.
func NewListResponse[T any](items []T, source string) WebResponse[[]T] {
	return WebResponse[[]T]{
		Data: items,
		Meta: &ListMeta{Count: len(items), Source: source},
	}
}
