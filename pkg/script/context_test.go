package script

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHost struct {
	refreshed  bool
	navigated  string
	navProps   map[string]any
	pageCount  int
	currentIdx int
}

func (h *stubHost) Refresh() error { h.refreshed = true; return nil }
func (h *stubHost) Navigate(pageID string, subPage bool, props map[string]any) error {
	h.navigated = pageID
	h.navProps = props
	return nil
}
func (h *stubHost) NavigateFresh(pageID string, subPage bool, props map[string]any) error {
	return h.Navigate(pageID, subPage, props)
}
func (h *stubHost) SendPage(pageID string) error  { return nil }
func (h *stubHost) Back() error                   { return nil }
func (h *stubHost) Close() error                  { return nil }
func (h *stubHost) Dispose() error                { return nil }
func (h *stubHost) ClearKeyboard() error          { return nil }
func (h *stubHost) Toast(text string) error        { return nil }
func (h *stubHost) Alert(text string) error        { return nil }
func (h *stubHost) Status(statusType string) error { return nil }
func (h *stubHost) NextPage() error                { return nil }
func (h *stubHost) PrevPage() error                { return nil }
func (h *stubHost) GoToPage(index int) error        { h.currentIdx = index; return nil }
func (h *stubHost) GetPageCount() int               { return h.pageCount }
func (h *stubHost) GetCurrentPage() int             { return h.currentIdx }

type stubUser struct {
	sent   string
	chatID int64
}

func (u *stubUser) Send(text string) error { u.sent = text; return nil }
func (u *stubUser) Edit(text string) error { u.sent = text; return nil }
func (u *stubUser) Delete() error          { return nil }
func (u *stubUser) Localize(key string) string { return "loc:" + key }
func (u *stubUser) ChatID() int64          { return u.chatID }

type stubBase struct{ id, title, parent, dir string }

func (b *stubBase) PageID() string        { return b.id }
func (b *stubBase) Title() string         { return b.title }
func (b *stubBase) Parent() string        { return b.parent }
func (b *stubBase) PageDirectory() string { return b.dir }

type stubElement struct {
	props map[string]any
	calls []string
}

func (e *stubElement) Call(method string, args []any) (any, error) {
	e.calls = append(e.calls, method)
	if method == "unknown" {
		return nil, errors.New("no such method")
	}
	return "called:" + method, nil
}
func (e *stubElement) Get(prop string) (any, bool) {
	v, ok := e.props[prop]
	return v, ok
}

type stubLookup struct{ elems map[string]ScriptObject }

func (l *stubLookup) Component(id string) (ScriptObject, bool) {
	e, ok := l.elems[id]
	return e, ok
}

func newTestContext(t *testing.T) (*ScriptContext, *stubHost, *stubUser) {
	t.Helper()
	h := &stubHost{pageCount: 3}
	u := &stubUser{chatID: 42}
	b := &stubBase{id: "home", title: "Home", parent: "", dir: "/pages"}
	lookup := &stubLookup{elems: map[string]ScriptObject{
		"counter": &stubElement{props: map[string]any{"value": float64(5)}},
	}}
	sc, err := NewScriptContext(h, u, b, lookup, func(k string) string { return "t:" + k }, nil)
	require.NoError(t, err)
	t.Cleanup(sc.Close)
	return sc, h, u
}

func TestEvaluate_ArithmeticExpression(t *testing.T) {
	sc, _, _ := newTestContext(t)
	assert.Equal(t, "7", sc.Evaluate("3 + 4"))
}

func TestEvaluate_DecodesXMLEntities(t *testing.T) {
	sc, _, _ := newTestContext(t)
	assert.Equal(t, "true", sc.Evaluate("1 &lt; 2"))
}

func TestEvaluateBool_Truthiness(t *testing.T) {
	sc, _, _ := newTestContext(t)
	assert.True(t, sc.EvaluateBool("true"))
	assert.False(t, sc.EvaluateBool("false"))
	assert.False(t, sc.EvaluateBool("nil"))
}

func TestUIGlobal_RefreshAndNavigate(t *testing.T) {
	sc, h, _ := newTestContext(t)
	require.NoError(t, sc.ExecuteStatements(`UI.refresh()`))
	assert.True(t, h.refreshed)

	require.NoError(t, sc.ExecuteStatements(`UI.navigate("detail", false, {id = 9})`))
	assert.Equal(t, "detail", h.navigated)
	assert.True(t, sc.ConsumeNavigated())
	assert.False(t, sc.ConsumeNavigated(), "flag must clear after consumption")
}

func TestUIGlobal_PageCount(t *testing.T) {
	sc, _, _ := newTestContext(t)
	assert.Equal(t, "3", sc.Evaluate("UI.getPageCount()"))
}

func TestUserGlobal_SendAndLocalize(t *testing.T) {
	sc, _, u := newTestContext(t)
	require.NoError(t, sc.ExecuteStatements(`User.send("hi")`))
	assert.Equal(t, "hi", u.sent)
	assert.Equal(t, "loc:greeting", sc.Evaluate(`User.localize("greeting")`))
}

func TestBaseGlobal_ReadOnlyMetadata(t *testing.T) {
	sc, _, _ := newTestContext(t)
	assert.Equal(t, "home", sc.Evaluate("Base.pageId"))
	assert.Equal(t, "Home", sc.Evaluate("Base.title"))
}

func TestComponentLookup_PropertyAndMethod(t *testing.T) {
	sc, _, _ := newTestContext(t)
	assert.Equal(t, "5", sc.Evaluate(`component("counter").value`))
	assert.Equal(t, "called:toggle", sc.Evaluate(`component("counter"):toggle()`))
	assert.Equal(t, "", sc.Evaluate(`component("missing")`))
}

func TestLifecycleHooks_RunInRegistrationOrder(t *testing.T) {
	sc, _, _ := newTestContext(t)
	require.NoError(t, sc.ExecuteStatements(`
		order = {}
		onMounted(function() table.insert(order, "first") end)
		onMounted(function() table.insert(order, "second") end)
	`))
	sc.RunMounted()
	assert.Equal(t, "first,second", sc.Evaluate(`table.concat(order, ",")`))
}

func TestReportError_FallsBackToLoggerWhenUnhandled(t *testing.T) {
	sc, _, _ := newTestContext(t)
	// No VModel error handler registered: ReportError must not panic.
	sc.ReportError(errors.New("boom"))
}

func TestComponentContext_ScopesSelfAndRestores(t *testing.T) {
	sc, _, _ := newTestContext(t)
	el := &stubElement{props: map[string]any{"isSelected": true}}
	cc := sc.NewComponentContext("checkbox1", el)

	require.NoError(t, sc.ExecuteStatements(`self = nil`))
	result := cc.Evaluate("self.isSelected")
	assert.Equal(t, "true", result)

	// self must be restored to its outer value (nil) after Evaluate returns.
	assert.Equal(t, "nil", sc.Evaluate("tostring(self)"))
}

func TestSandbox_BlocksFilesystemAndProcessEscapes(t *testing.T) {
	sc, _, _ := newTestContext(t)
	for _, expr := range []string{"dofile", "loadfile", "os", "io"} {
		assert.Equal(t, "", sc.Evaluate(expr), "global %q must not be reachable", expr)
	}
}
