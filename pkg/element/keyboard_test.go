package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeElement struct {
	id       string
	rowIndex int
	hidden   bool
	columns  int
	buttons  []Button
}

func (f *fakeElement) ID() string       { return f.id }
func (f *fakeElement) RowIndex() int    { return f.rowIndex }
func (f *fakeElement) Hidden() bool     { return f.hidden }
func (f *fakeElement) Columns() int     { return f.columns }
func (f *fakeElement) Build() []Button  { return f.buttons }
func (f *fakeElement) Dispose()         {}
func (f *fakeElement) Call(method string, args []any) (any, error) { return nil, nil }
func (f *fakeElement) Get(prop string) (any, bool)                 { return nil, false }

func btn(text string) Button { return Button{Text: text} }

func TestAssembleKeyboard_GroupsByRowAscending(t *testing.T) {
	a := &fakeElement{id: "a", rowIndex: 1, columns: 1, buttons: []Button{btn("A")}}
	b := &fakeElement{id: "b", rowIndex: 0, columns: 1, buttons: []Button{btn("B")}}
	kb := AssembleKeyboard([]MenuElement{a, b}, nil)
	assert.Equal(t, Keyboard{{btn("B")}, {btn("A")}}, kb)
}

func TestAssembleKeyboard_SplitsSubRowsByColumns(t *testing.T) {
	x := &fakeElement{id: "x", rowIndex: 0, columns: 2, buttons: []Button{btn("1"), btn("2"), btn("3")}}
	kb := AssembleKeyboard([]MenuElement{x}, nil)
	assert.Equal(t, Keyboard{{btn("1"), btn("2")}, {btn("3")}}, kb)
}

func TestAssembleKeyboard_SplitElementForcesRowBreak(t *testing.T) {
	a := &fakeElement{id: "a", rowIndex: 0, columns: 5, buttons: []Button{btn("A")}}
	sep := &Split{Base: &Base{}}
	c := &fakeElement{id: "c", rowIndex: 0, columns: 5, buttons: []Button{btn("C")}}
	kb := AssembleKeyboard([]MenuElement{a, sep, c}, nil)
	assert.Equal(t, Keyboard{{btn("A")}, {btn("C")}}, kb)
}

func TestAssembleKeyboard_HiddenElementOmitted(t *testing.T) {
	a := &fakeElement{id: "a", rowIndex: 0, columns: 1, hidden: true, buttons: []Button{btn("A")}}
	b := &fakeElement{id: "b", rowIndex: 0, columns: 1, buttons: []Button{btn("B")}}
	kb := AssembleKeyboard([]MenuElement{a, b}, nil)
	assert.Equal(t, Keyboard{{btn("B")}}, kb)
}

func TestAssembleKeyboard_AppendsBackButtonRow(t *testing.T) {
	a := &fakeElement{id: "a", rowIndex: 0, columns: 1, buttons: []Button{btn("A")}}
	kb := AssembleKeyboard([]MenuElement{a}, &BackButton{Title: "Back", Token: "tok"})
	assert.Equal(t, Keyboard{{btn("A")}, {{Text: "Back", CallbackToken: "tok"}}}, kb)
}

func TestPaginateByLimit_SplitsOnMaxItems(t *testing.T) {
	els := []MenuElement{
		&fakeElement{id: "1", rowIndex: 0},
		&fakeElement{id: "2", rowIndex: 1},
		&fakeElement{id: "3", rowIndex: 2},
	}
	pages := PaginateByLimit(els, 2, 0)
	assert.Len(t, pages, 2)
	assert.Len(t, pages[0], 2)
	assert.Len(t, pages[1], 1)
}

func TestPaginateByLimit_SplitsOnMaxRows(t *testing.T) {
	els := []MenuElement{
		&fakeElement{id: "1", rowIndex: 0},
		&fakeElement{id: "2", rowIndex: 0},
		&fakeElement{id: "3", rowIndex: 1},
	}
	pages := PaginateByLimit(els, 0, 1)
	require := assert.New(t)
	require.Len(pages, 2)
	require.Len(pages[0], 2, "both row-0 elements share the first page")
	require.Len(pages[1], 1)
}

func TestPaginateByLimit_NoLimitsReturnsSinglePage(t *testing.T) {
	els := []MenuElement{&fakeElement{id: "1"}, &fakeElement{id: "2"}}
	pages := PaginateByLimit(els, 0, 0)
	assert.Len(t, pages, 1)
	assert.Len(t, pages[0], 2)
}
