package element

import "sort"

// Keyboard is the row/column grouped result of AssembleKeyboard, ready for
// a transport adapter to translate into its own inline-keyboard shape.
type Keyboard [][]Button

// BackButton is appended as Keyboard's final row when backToParent applies
// (§4.4's keyboard assembly).
type BackButton struct {
	Title string
	Token string
}

// AssembleKeyboard groups visible elements by rowIndex in ascending order,
// calls Build on each, and splits each group into sub-rows whenever the
// running count within that rowIndex reaches the element's own Columns. A
// Split element forces an immediate sub-row break regardless of count. An
// element that exposes CurrentPageElements (Card, AutoCard) contributes the
// visible elements of its current page at its own rowIndex instead of
// itself. back, when non-nil, is appended as a final row.
func AssembleKeyboard(elements []MenuElement, back *BackButton) Keyboard {
	byRow := map[int][]MenuElement{}
	var rows []int
	seen := map[int]bool{}
	for _, el := range elements {
		if el.Hidden() {
			continue
		}
		r := el.RowIndex()
		if !seen[r] {
			seen[r] = true
			rows = append(rows, r)
		}
		if c, ok := el.(interface{ CurrentPageElements() []MenuElement }); ok {
			for _, child := range c.CurrentPageElements() {
				if !child.Hidden() {
					byRow[r] = append(byRow[r], child)
				}
			}
			continue
		}
		byRow[r] = append(byRow[r], el)
	}
	sort.Ints(rows)

	var kb Keyboard
	for _, r := range rows {
		kb = append(kb, assembleRow(byRow[r])...)
	}

	if back != nil {
		kb = append(kb, []Button{{Text: back.Title, CallbackToken: back.Token}})
	}
	return kb
}

// assembleRow splits one rowIndex group's elements into sub-rows, breaking
// either on a Split marker or when an element's own Columns limit would be
// exceeded by appending its buttons to the current sub-row.
func assembleRow(elements []MenuElement) Keyboard {
	var kb Keyboard
	var cur []Button
	colLimit := 0

	flush := func() {
		if len(cur) > 0 {
			kb = append(kb, cur)
			cur = nil
		}
		colLimit = 0
	}

	for _, el := range elements {
		if _, isSplit := el.(*Split); isSplit {
			flush()
			continue
		}
		buttons := el.Build()
		if len(buttons) == 0 {
			continue
		}
		colLimit = el.Columns()
		for _, b := range buttons {
			if colLimit > 0 && len(cur) >= colLimit {
				kb = append(kb, cur)
				cur = nil
			}
			cur = append(cur, b)
		}
	}
	flush()
	return kb
}
