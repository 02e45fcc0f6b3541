package element

// OpenKind distinguishes Open's three button flavours (§4.5).
type OpenKind int

const (
	OpenPage OpenKind = iota
	OpenLink
	OpenApp
)

// Open is a button that either navigates within the page tree (page), opens
// an external URL (link), or launches a platform web-app (app).
type Open struct {
	*Base
	kind        OpenKind
	target      string
	subPage     bool
	navigateTo  func(target string, subPage bool) error
}

// NewOpen builds an Open element. navigateTo is called for OpenPage clicks
// that have no explicit @click handler of their own — the default
// "scriptPage.navigateTo(target, subPage)" behaviour §4.5 describes.
func NewOpen(base *Base, kind OpenKind, subPage bool, navigateTo func(string, bool) error) *Open {
	o := &Open{Base: base, kind: kind, subPage: subPage, navigateTo: navigateTo}
	o.target = o.GetProp("target", "", "")
	o.RegisterProp("target", func() (any, bool) { return o.target, true })
	return o
}

func (o *Open) title() string {
	def := o.target
	return o.GetProp("title", o.GetRawProp("lang"), def)
}

// Click runs the page-navigation default when no explicit @click handler
// exists for this button; link/app buttons never reach here since their
// Build emits a URL/web-app button the transport handles without a
// callback round-trip.
func (o *Open) Click(callbackQueryID string) error {
	if o.HasEvent("click") {
		return o.InvokeEvent("click", callbackQueryID)
	}
	if o.navigateTo != nil {
		return o.navigateTo(o.target, o.subPage)
	}
	return nil
}

func (o *Open) Build() []Button {
	title := o.title()
	switch o.kind {
	case OpenLink:
		return []Button{{Text: title, URL: o.target}}
	case OpenApp:
		return []Button{{Text: title, URL: o.target, WebApp: true}}
	default:
		token := o.IssueToken(func(queryID string, messageID int, chatID int64) error {
			return o.Click(queryID)
		})
		return []Button{{Text: title, CallbackToken: token}}
	}
}
