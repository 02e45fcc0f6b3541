package element

import "sync"

// Checkbox is a toggled boolean button. Its own selected-state field is
// guarded by a dedicated mutex (§5) so a click and a programmatic
// `:selected` sync cannot interleave a torn read; the onUpdate/@update
// handler bodies run outside that lock.
type Checkbox struct {
	*Base

	mu       sync.Mutex
	selected bool

	onUpdate func(selected bool) error
}

// NewCheckbox builds a Checkbox, seeding its initial state from the
// `:selected` binding if one was supplied.
func NewCheckbox(base *Base, onUpdate func(bool) error) *Checkbox {
	c := &Checkbox{Base: base, onUpdate: onUpdate}
	if v, err := base.Context().EvaluateAny(base.GetRawProp("selected")); err == nil {
		if b, ok := v.(bool); ok {
			c.selected = b
		}
	}

	c.RegisterMethod("toggle", func(args []any) (any, error) { return nil, c.Toggle() })
	c.RegisterMethod("select", func(args []any) (any, error) {
		if len(args) == 0 {
			return nil, nil
		}
		b, _ := args[0].(bool)
		return nil, c.Select(b)
	})
	c.RegisterProp("isSelected", func() (any, bool) { return c.IsSelected(), true })
	c.RegisterProp("title", func() (any, bool) { return c.title(), true })
	return c
}

// IsSelected reads the current toggle state.
func (c *Checkbox) IsSelected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

func (c *Checkbox) title() string {
	return c.GetProp("title", c.GetRawProp("lang"), c.ID())
}

func (c *Checkbox) label() string {
	prefix := ""
	if c.IsSelected() {
		prefix = "✅ "
	}
	return prefix + c.title()
}

// Toggle flips the state, then runs onUpdate and @update, per §4.5.
func (c *Checkbox) Toggle() error {
	c.mu.Lock()
	c.selected = !c.selected
	c.mu.Unlock()
	return c.publish()
}

// Select forces the state to v (used by both the script `select(bool)` API
// and the `:selected` one-way binding refresh).
func (c *Checkbox) Select(v bool) error {
	c.mu.Lock()
	changed := c.selected != v
	c.selected = v
	c.mu.Unlock()
	if !changed {
		return nil
	}
	return c.publish()
}

func (c *Checkbox) publish() error {
	if c.onUpdate != nil {
		if err := c.onUpdate(c.IsSelected()); err != nil {
			return err
		}
	}
	if c.HasEvent("update") {
		return c.InvokeEvent("update", "")
	}
	return nil
}

// Build renders the checkbox as a single toggle button.
func (c *Checkbox) Build() []Button {
	token := c.IssueToken(func(queryID string, messageID int, chatID int64) error {
		return c.Toggle()
	})
	return []Button{{Text: c.label(), CallbackToken: token}}
}
