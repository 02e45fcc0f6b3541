package element

import (
	"strconv"
	"testing"

	"github.com/veydlin-go/botui/pkg/page"
	"github.com/veydlin-go/botui/pkg/script"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePageElement is a minimal page.Element with no attributes, no
// children, and no inner text — enough for the common protocol to resolve
// every prop to its default.
type fakePageElement struct{ tag string }

func (f *fakePageElement) TagName() string { return f.tag }
func (f *fakePageElement) Attr(name string) (string, page.AttrKind, bool) {
	return "", page.AttrStatic, false
}
func (f *fakePageElement) Children() []page.Element { return nil }
func (f *fakePageElement) InnerText() string        { return "" }
func (f *fakePageElement) InnerTemplate() string    { return "" }

type factoryTestHost struct{}

func (factoryTestHost) Refresh() error                                         { return nil }
func (factoryTestHost) Navigate(string, bool, map[string]any) error            { return nil }
func (factoryTestHost) NavigateFresh(string, bool, map[string]any) error       { return nil }
func (factoryTestHost) SendPage(string) error                                  { return nil }
func (factoryTestHost) Back() error                                            { return nil }
func (factoryTestHost) Close() error                                           { return nil }
func (factoryTestHost) Dispose() error                                         { return nil }
func (factoryTestHost) ClearKeyboard() error                                   { return nil }
func (factoryTestHost) Toast(string) error                                     { return nil }
func (factoryTestHost) Alert(string) error                                     { return nil }
func (factoryTestHost) Status(string) error                                    { return nil }
func (factoryTestHost) NextPage() error                                        { return nil }
func (factoryTestHost) PrevPage() error                                        { return nil }
func (factoryTestHost) GoToPage(int) error                                     { return nil }
func (factoryTestHost) GetPageCount() int                                     { return 1 }
func (factoryTestHost) GetCurrentPage() int                                   { return 0 }

func newFactoryTestContext(t *testing.T) *script.ScriptContext {
	t.Helper()
	sc, err := script.NewScriptContext(factoryTestHost{}, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	t.Cleanup(sc.Close)
	return sc
}

func commandDef(id string, vif *page.VIf) *page.ComponentDefinition {
	return &page.ComponentDefinition{
		TagName: "command",
		ID:      id,
		Element: &fakePageElement{tag: "command"},
		VIf:     vif,
	}
}

func newTestFactory(sc *script.ScriptContext) *ComponentFactory {
	f := NewComponentFactory(sc, nil, nil)
	f.Register("command", func(base *Base, def *page.ComponentDefinition) (MenuElement, error) {
		return NewCommand(base, nil), nil
	})
	return f
}

// TestExpand_IfElseIfElseChain verifies §8's chain-tracking property: for
// every boolean vector over (a, b, c), the rendered branch is the
// lowest-index true condition in the If/ElseIf/ElseIf/Else chain, falling
// through to Else when all three are false.
func TestExpand_IfElseIfElseChain(t *testing.T) {
	defs := []*page.ComponentDefinition{
		commandDef("branch-if", &page.VIf{Type: page.VIfIf, Condition: "a"}),
		commandDef("branch-elseif1", &page.VIf{Type: page.VIfElseIf, Condition: "b"}),
		commandDef("branch-elseif2", &page.VIf{Type: page.VIfElseIf, Condition: "c"}),
		commandDef("branch-else", &page.VIf{Type: page.VIfElse}),
	}

	sc := newFactoryTestContext(t)
	factory := newTestFactory(sc)

	for _, a := range []bool{false, true} {
		for _, b := range []bool{false, true} {
			for _, c := range []bool{false, true} {
				sc.PublishGlobal("a", a)
				sc.PublishGlobal("b", b)
				sc.PublishGlobal("c", c)

				out, err := factory.Expand(defs)
				require.NoError(t, err)
				require.Len(t, out, 1, "exactly one branch of the chain must render for a=%v b=%v c=%v", a, b, c)

				want := "branch-else"
				switch {
				case a:
					want = "branch-if"
				case b:
					want = "branch-elseif1"
				case c:
					want = "branch-elseif2"
				}
				assert.Equal(t, want, out[0].ID(), "a=%v b=%v c=%v", a, b, c)
			}
		}
	}
}

// TestExpand_SiblingWithoutVIfResetsChain checks that a definition with no
// VIf at all resets previousIfWasTrue, so a later independent if/else pair
// is not accidentally suppressed by an earlier unrelated chain.
func TestExpand_SiblingWithoutVIfResetsChain(t *testing.T) {
	defs := []*page.ComponentDefinition{
		commandDef("first-if", &page.VIf{Type: page.VIfIf, Condition: "true"}),
		commandDef("plain", nil),
		commandDef("second-else-if", &page.VIf{Type: page.VIfElseIf, Condition: "true"}),
	}
	sc := newFactoryTestContext(t)
	factory := newTestFactory(sc)

	out, err := factory.Expand(defs)
	require.NoError(t, err)
	var ids []string
	for _, el := range out {
		ids = append(ids, el.ID())
	}
	assert.Equal(t, []string{"first-if", "plain", "second-else-if"}, ids)
}

// TestExpand_VForFreezesEachIterationIndependently verifies the closure
// property §9 calls out: N generated elements from one v-for definition
// must each keep their own captured item/index, not all observe the final
// loop value once the shared engine's globals have moved on.
func TestExpand_VForFreezesEachIterationIndependently(t *testing.T) {
	def := &page.ComponentDefinition{
		TagName: "command",
		ID:      "item-{{ idx }}",
		Element: &fakePageElement{tag: "command"},
		VFor: &page.VFor{
			ItemName:   "item",
			IndexName:  "idx",
			Expression: "items",
		},
		BindAttrs: map[string]string{"title": "item"},
	}

	sc := newFactoryTestContext(t)
	sc.PublishGlobal("items", []any{"x", "y", "z"})
	factory := newTestFactory(sc)

	out, err := factory.Expand([]*page.ComponentDefinition{def})
	require.NoError(t, err)
	require.Len(t, out, 3)

	for i, want := range []string{"x", "y", "z"} {
		assert.Equal(t, "item-"+strconv.Itoa(i), out[i].ID())
		title := out[i].(*Command).GetProp("title", "", "")
		assert.Equal(t, want, title, "iteration %d must keep its own frozen title after the loop ends", i)
	}

	// After expansion, the shared engine's loop variables must be cleared
	// (§4.4): referencing them outside any component context is nil/"".
	assert.Equal(t, "", sc.Evaluate("item"))
	assert.Equal(t, "", sc.Evaluate("idx"))
}
