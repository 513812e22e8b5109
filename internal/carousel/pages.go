package carousel

// TotalPages returns ceil(n/size), or 0 for an empty collection.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Wrap reduces i modulo total into [0, total-1]. It returns 0 when total is 0.
func Wrap(i, total int) int {
	if total <= 0 {
		return 0
	}
	return ((i % total) + total) % total
}

// Clamp limits i to [0, total-1]. It returns 0 when total is 0.
// Callers use it at the boundary before GotoPage.
func Clamp(i, total int) int {
	switch {
	case total <= 0 || i < 0:
		return 0
	case i >= total:
		return total - 1
	default:
		return i
	}
}

// pageBounds returns the [start, end) slice bounds of page within n items.
func pageBounds(page, size, n int) (int, int) {
	start := page * size
	if start > n {
		start = n
	}
	end := start + size
	if end > n {
		end = n
	}
	return start, end
}
