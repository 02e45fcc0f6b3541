package element

import "sync"

// Card owns its own pagination independent of the enclosing ScriptPage
// (§4.5): either explicit <page> children become fixed pages, or a flat
// child list is auto-paginated by maxItems/maxRows using the same
// row-grouping algorithm ComponentFactory applies at the page level.
type Card struct {
	*Base

	mu      sync.Mutex
	pages   [][]MenuElement
	current int
}

// NewCard builds a Card from pre-split pages (either the explicit <page>
// children, or the result of PaginateByLimit over a flat child list).
func NewCard(base *Base, pages [][]MenuElement) *Card {
	c := &Card{Base: base, pages: pages}
	if len(c.pages) == 0 {
		c.pages = [][]MenuElement{nil}
	}
	c.RegisterMethod("goToPage", func(args []any) (any, error) {
		if len(args) == 0 {
			return nil, nil
		}
		idx, _ := args[0].(float64)
		return nil, c.GoToPage(int(idx))
	})
	c.RegisterProp("currentPage", func() (any, bool) { return float64(c.CurrentPage()), true })
	c.RegisterProp("pageCount", func() (any, bool) { return float64(c.PageCount()), true })
	return c
}

// CurrentPage implements Pager.
func (c *Card) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// PageCount implements Pager.
func (c *Card) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pages)
}

// GoToPage implements Pager.
func (c *Card) GoToPage(index int) error {
	c.mu.Lock()
	if index < 0 || index >= len(c.pages) {
		c.mu.Unlock()
		return nil
	}
	c.current = index
	c.mu.Unlock()
	return nil
}

// CurrentPageElements returns the live elements of the page currently in
// view, for the keyboard assembler to expand inline.
func (c *Card) CurrentPageElements() []MenuElement {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages[c.current]
}

// Build returns no buttons of its own; its children are spliced into the
// keyboard by the assembler at Card's rowIndex, not as Card's own buttons.
func (c *Card) Build() []Button { return nil }

// Dispose tears down every page's elements, not only the current one.
func (c *Card) Dispose() {
	c.Base.Dispose()
	for _, p := range c.pages {
		for _, el := range p {
			el.Dispose()
		}
	}
}

// PaginateByLimit splits a flat, ordered element list into pages so that no
// page exceeds maxItems elements or maxRows distinct rowIndex values —
// whichever limit is set (0 means unbounded for that dimension). Mirrors
// the page-level auto-pagination algorithm in factory.go, since §4.5
// describes Card's own pagination as using "maxItems or maxRows" the same
// way.
func PaginateByLimit(elements []MenuElement, maxItems, maxRows int) [][]MenuElement {
	if maxItems <= 0 && maxRows <= 0 {
		return [][]MenuElement{elements}
	}
	var pages [][]MenuElement
	var cur []MenuElement
	rows := map[int]bool{}
	for _, el := range elements {
		wouldExceedItems := maxItems > 0 && len(cur)+1 > maxItems
		newRow := !rows[el.RowIndex()]
		wouldExceedRows := maxRows > 0 && newRow && len(rows)+1 > maxRows
		if len(cur) > 0 && (wouldExceedItems || wouldExceedRows) {
			pages = append(pages, cur)
			cur = nil
			rows = map[int]bool{}
		}
		cur = append(cur, el)
		rows[el.RowIndex()] = true
	}
	if len(cur) > 0 || len(pages) == 0 {
		pages = append(pages, cur)
	}
	return pages
}
