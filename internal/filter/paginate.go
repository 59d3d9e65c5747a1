package filter

const DefaultPageSize = 20

// Page is one slice of a filtered table. Number is 1-based.
type Page[T any] struct {
	Rows   []T `json:"rows"`
	Number int `json:"page"`
	Size   int `json:"pageSize"`
	Total  int `json:"total"`
	Pages  int `json:"pages"`
}

// Paginate clamps page into range, so a filter change that shrinks the table never
// leaves the caller on an empty page past the end.
func Paginate[T any](rows []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(rows)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	return Page[T]{
		Rows:   rows[start:end],
		Number: page,
		Size:   size,
		Total:  total,
		Pages:  pages,
	}
}

func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.Pages }
