package element

// AutoCard binds to an `items` array and expands a `<template #item>` once
// per element (§4.5): unlike Card, its children are generated at build
// time from live script data rather than declared statically in the page.
// Each generated child is a full MenuElement, frozen with its item/index.
type AutoCard struct {
	*Card

	itemsExpr string
	expand    func(item any, index int) []MenuElement
}

// NewAutoCard builds an AutoCard. expand is supplied by ComponentFactory:
// given one array element and its index, it runs the directive-expansion
// algorithm over the `<template #item>` children with those loop variables
// frozen, producing that iteration's MenuElements.
func NewAutoCard(base *Base, itemsExpr string, expand func(item any, index int) []MenuElement, maxItems, maxRows int) *AutoCard {
	ac := &AutoCard{Card: NewCard(base, nil), itemsExpr: itemsExpr, expand: expand}
	ac.Refresh(maxItems, maxRows)
	return ac
}

// Refresh re-evaluates the bound items array and regenerates pages.
// NewAutoCard calls it once at construction; ScriptPage.Refresh (UI.refresh)
// does not call it, so later changes to the source array are not picked up
// unless a caller invokes Refresh directly.
func (ac *AutoCard) Refresh(maxItems, maxRows int) {
	items, err := ac.Context().EvaluateAny(ac.itemsExpr)
	if err != nil {
		ac.Card.pages = [][]MenuElement{nil}
		return
	}
	list, _ := items.([]any)
	var flat []MenuElement
	for i, item := range list {
		flat = append(flat, ac.expand(item, i)...)
	}
	ac.Card.pages = PaginateByLimit(flat, maxItems, maxRows)
	if len(ac.Card.pages) == 0 {
		ac.Card.pages = [][]MenuElement{nil}
	}
	ac.Card.current = 0
}
