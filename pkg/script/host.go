package script

// Host is the UI-namespace façade a ScriptContext publishes into its script
// engine as the global `UI` table. Every method is exposed in both sync and
// async flavours to the script (§4.2): both forms call the same method
// synchronously and return the same result (see installUI). ScriptPage is
// the concrete implementation (pkg/runtime).
type Host interface {
	Refresh() error
	Navigate(pageID string, subPage bool, props map[string]any) error
	NavigateFresh(pageID string, subPage bool, props map[string]any) error
	SendPage(pageID string) error
	Back() error
	Close() error
	Dispose() error
	ClearKeyboard() error
	Toast(text string) error
	Alert(text string) error
	Status(statusType string) error
	NextPage() error
	PrevPage() error
	GoToPage(index int) error
	GetPageCount() int
	GetCurrentPage() int
}

// UserHost is the façade published as the global `User`: the chat-facing
// operations a script may invoke directly on the bot user session.
type UserHost interface {
	Send(text string) error
	Edit(text string) error
	Delete() error
	Localize(key string) string
	ChatID() int64
}

// BaseHost is the façade published as the global `Base`: read-only metadata
// about the page currently executing the script.
type BaseHost interface {
	PageID() string
	Title() string
	Parent() string
	PageDirectory() string
}

// ComponentLookup resolves `component(id)` calls to a previously registered
// element. Implemented by ScriptPage (pkg/runtime), which owns the live
// component tree, not by this package, to avoid a script → element import
// cycle.
type ComponentLookup interface {
	Component(id string) (ScriptObject, bool)
}

// ScriptObject is the subset of a live MenuElement a script is allowed to
// touch via `component(id).method(...)` or `component(id).prop`. Concrete
// element types (pkg/element) implement this directly; ScriptContext never
// assumes anything about the element beyond this interface.
type ScriptObject interface {
	// Call invokes a script-exposed method (e.g. "toggle", "select",
	// "cycleNext") and returns its result, or an error if the method name
	// is not recognised by this element.
	Call(method string, args []any) (any, error)
	// Get reads a script-exposed read-only property (e.g. "isSelected").
	Get(prop string) (any, bool)
}

// ErrorHandler is the view-model error hook: `VModel.handleErrorAsync` in
// spec terms. §7 routes a script/event error here first, falling back to
// the bot user's handler only if this returns false (unhandled) or is nil.
type ErrorHandler interface {
	HandleError(err error) (handled bool)
}
