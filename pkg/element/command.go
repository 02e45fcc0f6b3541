package element

// Command is a single button. Clicking it runs the onClick host callback
// (if one was passed to NewCommand) and the @click script handler; if
// neither navigated the page, the caller re-renders the parent page (§4.5).
type Command struct {
	*Base
	titleTpl string
	onClick  func() error
}

// NewCommand builds a Command from its definition. onClick is the host-side
// hook applications wire in Go rather than script (the "C# onClick
// property" the spec describes, translated to an idiomatic Go callback).
func NewCommand(base *Base, onClick func() error) *Command {
	c := &Command{Base: base, onClick: onClick}
	c.RegisterMethod("click", func(args []any) (any, error) {
		return nil, c.Click("")
	})
	return c
}

// Click runs this Command's click sequence: invoke the host hook, then the
// @click handler, publishing callbackQueryID to script code first.
func (c *Command) Click(callbackQueryID string) error {
	if c.onClick != nil {
		if err := c.onClick(); err != nil {
			return err
		}
	}
	return c.InvokeEvent("click", callbackQueryID)
}

// Build renders this Command as a single callback button, issuing a fresh
// token through IssueToken whose handler runs Click with the query id it
// receives.
func (c *Command) Build() []Button {
	title := c.GetProp("title", c.GetRawProp("lang"), c.ID())
	token := c.IssueToken(func(queryID string, messageID int, chatID int64) error {
		return c.Click(queryID)
	})
	return []Button{{Text: title, CallbackToken: token}}
}
