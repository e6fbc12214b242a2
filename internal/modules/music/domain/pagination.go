package domain

import (
	"fmt"
	"iter"
)

// DefaultPageSize is the number of queue entries shown per page.
const DefaultPageSize = 10

// QueuePage is one bounded window of rendered queue entries.
type QueuePage struct {
	Number  int // 1-based page number
	Total   int // total number of pages
	Entries []string
}

// QueuePages returns a lazy, restartable iterator over pages of rendered
// entries for the given tracks. The input is a point-in-time snapshot:
// the view does not reflect later queue mutation.
func QueuePages(tracks []*Track, pageSize int) iter.Seq[QueuePage] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	entries := make([]string, len(tracks))
	for i, track := range tracks {
		entries[i] = fmt.Sprintf("[%s](%s)", track.Title, track.URI)
	}
	total := PageCount(len(entries), pageSize)

	return func(yield func(QueuePage) bool) {
		for start, number := 0, 1; start < len(entries); start, number = start+pageSize, number+1 {
			end := min(start+pageSize, len(entries))
			page := QueuePage{
				Number:  number,
				Total:   total,
				Entries: entries[start:end],
			}
			if !yield(page) {
				return
			}
		}
	}
}

// PageCount returns the number of pages needed for total entries.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return (total + pageSize - 1) / pageSize
}
