package view

// Paginate returns the window [page*size, page*size+size) of items, clipped to
// its length. Out of range pages and non-positive sizes give an empty slice.
func Paginate[T any](items []T, page, size int) []T {
	if page < 0 || size <= 0 || page > len(items)/size {
		return []T{}
	}
	start := page * size
	if start >= len(items) {
		return []T{}
	}
	end := min(start+size, len(items))
	return items[start:end:end]
}

// PageCount is the number of pages needed for total items.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
