// Package page holds the compiled, immutable data model that an XML page
// parser must emit: PageDefinition and ComponentDefinition. Nothing in this
// package touches a script engine, a transport, or live component state —
// it is pure data, built once at startup and never mutated afterwards.
package page

// VIfKind distinguishes the three positions a conditional directive can take
// in a v-if/v-else-if/v-else chain.
type VIfKind int

const (
	// VIfNone marks a definition with no conditional directive at all; it
	// always resets the surrounding chain tracker.
	VIfNone VIfKind = iota
	VIfIf
	VIfElseIf
	VIfElse
)

// VIf is the conditional-rendering directive attached to a ComponentDefinition.
// Condition is the raw (unevaluated) script expression; it is empty for
// VIfElse, which never carries its own condition.
type VIf struct {
	Type      VIfKind
	Condition string
}

// VFor is the list-expansion directive: `v-for="(item[, index]) in expr"`.
type VFor struct {
	ItemName   string
	IndexName  string // empty when no index variable was named
	Expression string
}

// AttrKind distinguishes how a ComponentDefinition attribute was written in
// the source page: static text, a one-way script binding, or an event handler.
type AttrKind int

const (
	AttrStatic AttrKind = iota
	AttrBind
	AttrEvent
)

// Element is the opaque AST node produced by the XML parser for a single
// component tag. The page runtime never inspects its internals directly —
// it only asks ComponentFactory to turn it into attribute maps — but it is
// carried on MenuElement for option parsing (e.g. CheckboxList's <option>
// children) that the concrete element types perform themselves.
type Element interface {
	// TagName is the lowercase component tag, e.g. "checkbox", "navigate-panel".
	TagName() string
	// Attr returns the raw attribute value and whether it was present,
	// honouring the name / :name / v-bind:name spelling variants.
	Attr(name string) (string, AttrKind, bool)
	// Children returns the nested Element nodes of this tag in document order.
	Children() []Element
	// InnerText returns the element's non-markup text content, used as the
	// prop-source-of-last-resort for `title`.
	InnerText() string
	// InnerTemplate returns the element's inner markup as a raw template
	// string, used when a prop is supplied via a child element instead of
	// an attribute (e.g. <checkbox><title>{{ self.label }}</title></checkbox>).
	InnerTemplate() string
}

// ComponentDefinition is one compiled <component> node: a tag name, its
// three attribute sets, and the directives that control whether/how many
// times it is realised into a live MenuElement.
type ComponentDefinition struct {
	TagName string
	ID      string // raw id template; may itself contain `{{ }}` under v-for
	Element Element

	RowIndex int
	Hide     string // raw boolean template; empty means "never hidden"
	Columns  string // raw int template; empty means 1 column

	VIf  *VIf  // nil when the definition carries no conditional directive
	VFor *VFor // nil when the definition is not repeated

	// StaticAttrs, BindAttrs and EventAttrs hold an attribute's raw text
	// keyed by its prop name. A given prop name must appear in at most one
	// of these three maps — collisions are a compile-time (ComponentFactory
	// construction time) error, see element.ErrDuplicatePropSource.
	StaticAttrs map[string]string
	BindAttrs   map[string]string
	EventAttrs  map[string]string

	// Children are nested ComponentDefinitions — used by Card's explicit
	// <page> children, CheckboxList/Radio/Switch's <option> lists, and
	// AutoCard's <template #item>.
	Children []*ComponentDefinition
}

// MessageCondition is one branch of a PageDefinition.Message's conditions
// list: `<message v-if="cond">...</message>` style alternation. The first
// branch whose Condition evaluates true (or the unconditional last branch,
// Condition == "") wins.
type MessageCondition struct {
	Condition string
	Content   string
}

// Message is the compiled <message> block of a page.
type Message struct {
	// InlineContent is used when the page has exactly one unconditional
	// message body. Conditions is used when the page alternates between
	// several bodies by v-if/v-else-if/v-else. Exactly one of the two is
	// populated for a given compiled PageDefinition.
	InlineContent string
	Conditions    []MessageCondition
	LoadResource  string // resource-loader path; ScriptPage's renderer does not read it

	MD            bool // render as Markdown
	Pre           bool // wrap in a preformatted block
	WallpaperURL  string
}

// Media describes a page's attached photo/document/audio/video, sent
// instead of (or alongside) the text message.
type Media struct {
	Type MediaType
	Src  string
}

type MediaType int

const (
	MediaNone MediaType = iota
	MediaPhoto
	MediaDocument
	MediaAudio
	MediaVideo
)

// Title is a template-or-localisation-key pair, used for both
// PageDefinition.Title and PageDefinition.BackTitle.
type Title struct {
	Content string
	Lang    string // localisation key; when set, Content is ignored
}

// NavigateDefinition is a standalone navigation-panel definition not bound
// to any particular Card — PageDefinition.Navigate.
type NavigateDefinition struct {
	Carousel       bool
	HideBoundary   bool
	BoundaryMessage string
}

// PageDefinition is the compiled, immutable description of one page. It is
// produced once at startup by the (out of scope) XML parser and never
// mutated afterwards; PageManager and ScriptPage only ever read from it.
type PageDefinition struct {
	ID string

	Title     *Title
	BackTitle *Title

	Message *Message
	Media   *Media

	Components []*ComponentDefinition

	// MenuPages, when non-nil, is an explicit set of pages (each itself a
	// component list) that overrides auto-pagination entirely. Mutually
	// exclusive with MaxItems/MaxRows driving auto-pagination: a
	// PageDefinition is expected to set at most one of the two.
	MenuPages [][]*ComponentDefinition

	Script string // optional embedded script source, run once per ScriptPage

	VModel      string // view-model type name, resolved by PageManager
	VModelProps map[string]any

	WebPreview   bool
	BackToParent bool

	MaxItems int // 0 means "no auto-pagination by item count"
	MaxRows  int // 0 means "no auto-pagination by row count"

	Navigate *NavigateDefinition
}

// UsesAutoPagination reports whether this page should be split into pages
// by ComponentFactory rather than rendering all Components at once — true
// when MenuPages was not supplied explicitly and at least one limit is set.
func (p *PageDefinition) UsesAutoPagination() bool {
	return len(p.MenuPages) == 0 && (p.MaxItems > 0 || p.MaxRows > 0)
}
