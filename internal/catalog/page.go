package catalog

// Page describes one page of a listing. Numbers start at 1.
type Page struct {
	Number int
	Size   int
	Total  int
	Count  int // number of pages, at least 1
}

// NewPage clamps number into the valid range the way a lenient paginator
// does: anything below 1 becomes the first page, anything past the end the
// last one.
func NewPage(number, size, total int) Page {
	count := 1
	if total > 0 {
		count = (total + size - 1) / size
	}
	if number < 1 {
		number = 1
	}
	if number > count {
		number = count
	}
	return Page{Number: number, Size: size, Total: total, Count: count}
}

func (p Page) Offset() int { return (p.Number - 1) * p.Size }

func (p Page) HasPrev() bool { return p.Number > 1 }

func (p Page) HasNext() bool { return p.Number < p.Count }

func (p Page) Prev() int { return p.Number - 1 }

func (p Page) Next() int { return p.Number + 1 }
