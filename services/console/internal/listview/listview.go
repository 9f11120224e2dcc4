// Package listview projects a loaded collection into a filtered, paginated
// window the way every console screen presents its records.
package listview

import "strings"

// WindowSize is the maximum number of page links shown at once.
const WindowSize = 5

// Matcher returns the text fields a query is matched against.
type Matcher[T any] func(T) []string

// IDFunc extracts the record id used by Remove.
type IDFunc[T any] func(T) int64

// List is not safe for concurrent use; screens guard it with their own lock.
type List[T any] struct {
	items    []T
	query    string
	page     int
	pageSize int
	match    Matcher[T]
	id       IDFunc[T]
}

// New builds a list. pageSize <= 0 disables pagination.
func New[T any](pageSize int, match Matcher[T], id IDFunc[T]) *List[T] {
	return &List[T]{pageSize: pageSize, page: 1, match: match, id: id}
}

// SetItems replaces the loaded records and keeps the current query.
func (l *List[T]) SetItems(items []T) {
	l.items = append([]T(nil), items...)
	l.page = l.clamp(l.page)
}

func (l *List[T]) Items() []T { return append([]T(nil), l.items...) }

func (l *List[T]) Len() int { return len(l.items) }

func (l *List[T]) Query() string { return l.query }

// SetQuery applies a search query and returns to the first page.
func (l *List[T]) SetQuery(q string) {
	l.query = q
	l.page = 1
}

// Filtered returns the records matching the current query.
func (l *List[T]) Filtered() []T {
	return Filter(l.items, l.query, l.match)
}

// Filter keeps items where any matcher field contains the trimmed query,
// ignoring case. A blank query keeps everything.
func Filter[T any](items []T, query string, match Matcher[T]) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || match == nil {
		return append([]T(nil), items...)
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, field := range match(it) {
			if strings.Contains(strings.ToLower(field), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// TotalPages is ceil(filtered/pageSize); zero when nothing matches.
func (l *List[T]) TotalPages() int {
	n := len(l.Filtered())
	if l.pageSize <= 0 {
		if n == 0 {
			return 0
		}
		return 1
	}
	return (n + l.pageSize - 1) / l.pageSize
}

// Page is the current page, always within [1, max(1, TotalPages)].
func (l *List[T]) Page() int { return l.clamp(l.page) }

func (l *List[T]) clamp(p int) int {
	total := l.TotalPages()
	if p > total {
		p = total
	}
	if p < 1 {
		p = 1
	}
	return p
}

func (l *List[T]) GoTo(p int) { l.page = l.clamp(p) }

func (l *List[T]) Next() { l.GoTo(l.Page() + 1) }

func (l *List[T]) Prev() { l.GoTo(l.Page() - 1) }

// Visible returns the records on the current page.
func (l *List[T]) Visible() []T {
	filtered := l.Filtered()
	if l.pageSize <= 0 {
		return filtered
	}
	start := (l.Page() - 1) * l.pageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + l.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// PageNumbers returns the page links around the current page.
func (l *List[T]) PageNumbers() []int {
	return PageWindow(l.Page(), l.TotalPages())
}

// PageWindow centres a window of at most WindowSize pages on page.
func PageWindow(page, total int) []int {
	if total <= 0 {
		return nil
	}
	start := max(1, page-WindowSize/2)
	end := min(total, start+WindowSize-1)
	start = max(1, end-WindowSize+1)
	out := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		out = append(out, p)
	}
	return out
}

// Remove drops the record with id. Unknown ids leave the list unchanged.
func (l *List[T]) Remove(id int64) bool {
	if l.id == nil {
		return false
	}
	for i, it := range l.items {
		if l.id(it) == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			l.page = l.clamp(l.page)
			return true
		}
	}
	return false
}

// Find returns the record with id.
func (l *List[T]) Find(id int64) (T, bool) {
	var zero T
	if l.id == nil {
		return zero, false
	}
	for _, it := range l.items {
		if l.id(it) == id {
			return it, true
		}
	}
	return zero, false
}

// NextID is max(ids)+1, or 1 for an empty set.
func NextID(ids []int64) int64 {
	var highest int64
	for _, id := range ids {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}

// IDs collects the ids of items.
func IDs[T any](items []T, id IDFunc[T]) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}
