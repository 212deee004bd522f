package feed

import "time"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func ClampPageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// Page is the cursor-pagination response shape shared by the memory, post,
// comment and activity listings. NextCursor, when set, is the createdAt of
// the last returned item and continues with strictly older results.
type Page[T any] struct {
	Items      []T        `json:"items"`
	NextCursor *time.Time `json:"nextCursor"`
	HasMore    bool       `json:"hasMore"`
}

// PageOf truncates an over-fetched (pageSize+1) slice to the page size and
// derives hasMore and the next cursor from the last retained item.
func PageOf[T any](items []T, pageSize int, createdAt func(T) time.Time) Page[T] {
	page := Page[T]{Items: items}
	if len(items) > pageSize {
		page.HasMore = true
		page.Items = items[:pageSize]
		last := createdAt(page.Items[len(page.Items)-1])
		page.NextCursor = &last
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page
}
