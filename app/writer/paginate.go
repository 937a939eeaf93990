package writer

// Page is a 1-based page number paired with the half-open [Start, Stop)
// key range it covers. Stop may exceed the key count on the last page.
type Page struct {
	Number int
	Start  int
	Stop   int
}

// PaginateKeys partitions a sorted key list into contiguous chunks of
// pageSize keys. A pageSize of 0 disables pagination: one page spans the
// whole range.
func PaginateKeys(keys []string, pageSize int) []Page {
	if pageSize == 0 {
		return []Page{{Number: 1, Start: 0, Stop: len(keys)}}
	}
	var pages []Page
	number := 1
	for start := 0; start < len(keys); start += pageSize {
		pages = append(pages, Page{Number: number, Start: start, Stop: start + pageSize})
		number++
	}
	return pages
}
