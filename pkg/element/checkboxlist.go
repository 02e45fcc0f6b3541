package element

import (
	"strings"
	"sync"
)

// optionItem is one <option> of a CheckboxList/Radio/Switch, already
// directive-expanded by ComponentFactory (so a v-for on <option> has
// already become N sibling Base instances by the time CheckboxList is
// constructed).
type optionItem struct {
	base  *Base
	id    string
	title string
}

func buildOptions(children []*Base) []optionItem {
	opts := make([]optionItem, 0, len(children))
	for _, b := range children {
		opts = append(opts, optionItem{
			base:  b,
			id:    b.GetProp("id", "", b.ID()),
			title: b.GetProp("title", b.GetRawProp("lang"), b.ID()),
		})
	}
	return opts
}

// CheckboxList is a multi-select over an options list. selectedIds is
// guarded by a dedicated mutex, mirroring Checkbox (§5, §4.5).
type CheckboxList struct {
	*Base

	options []optionItem

	mu          sync.Mutex
	selectedIds map[string]bool

	onUpdate func(selected []string) error
}

// NewCheckboxList builds a CheckboxList. selected seeds the initial
// selection from a comma-separated `:selected` binding value.
func NewCheckboxList(base *Base, optionBases []*Base, onUpdate func([]string) error) *CheckboxList {
	l := &CheckboxList{
		Base:        base,
		options:     buildOptions(optionBases),
		selectedIds: make(map[string]bool),
		onUpdate:    onUpdate,
	}
	if raw := base.GetRawProp("selected"); raw != "" {
		for _, id := range strings.Split(base.Context().Evaluate(raw), ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				l.selectedIds[id] = true
			}
		}
	}

	l.RegisterMethod("toggle", func(args []any) (any, error) {
		if len(args) == 0 {
			return nil, nil
		}
		id, _ := args[0].(string)
		return nil, l.Toggle(id)
	})
	l.RegisterMethod("setChecked", func(args []any) (any, error) {
		return nil, l.setCheckedArgs(args)
	})
	l.RegisterProp("selectedIds", func() (any, bool) { return l.SelectedIDs(), true })
	return l
}

func (l *CheckboxList) setCheckedArgs(args []any) error {
	if len(args) == 0 {
		return nil
	}
	if ids, ok := args[0].([]any); ok {
		strs := make([]string, 0, len(ids))
		for _, v := range ids {
			if s, ok := v.(string); ok {
				strs = append(strs, s)
			}
		}
		return l.SetChecked(strs)
	}
	id, _ := args[0].(string)
	checked := true
	if len(args) > 1 {
		checked, _ = args[1].(bool)
	}
	return l.SetCheckedOne(id, checked)
}

// SelectedIDs returns a stable-ordered snapshot of the current selection.
func (l *CheckboxList) SelectedIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, 0, len(l.selectedIds))
	for _, o := range l.options {
		if l.selectedIds[o.id] {
			ids = append(ids, o.id)
		}
	}
	return ids
}

// Toggle flips a single option's membership.
func (l *CheckboxList) Toggle(id string) error {
	l.mu.Lock()
	l.selectedIds[id] = !l.selectedIds[id]
	l.mu.Unlock()
	return l.publish()
}

// SetCheckedOne forces a single option's membership to checked.
func (l *CheckboxList) SetCheckedOne(id string, checked bool) error {
	l.mu.Lock()
	l.selectedIds[id] = checked
	l.mu.Unlock()
	return l.publish()
}

// SetChecked replaces the whole selection with ids.
func (l *CheckboxList) SetChecked(ids []string) error {
	l.mu.Lock()
	l.selectedIds = make(map[string]bool, len(ids))
	for _, id := range ids {
		l.selectedIds[id] = true
	}
	l.mu.Unlock()
	return l.publish()
}

func (l *CheckboxList) publish() error {
	if l.onUpdate != nil {
		if err := l.onUpdate(l.SelectedIDs()); err != nil {
			return err
		}
	}
	if l.HasEvent("update") {
		return l.InvokeEvent("update", "")
	}
	return nil
}

// Build renders one button per option, marked when selected.
func (l *CheckboxList) Build() []Button {
	buttons := make([]Button, 0, len(l.options))
	for _, o := range l.options {
		id := o.id
		prefix := ""
		l.mu.Lock()
		if l.selectedIds[id] {
			prefix = "✅ "
		}
		l.mu.Unlock()
		token := l.IssueToken(func(queryID string, messageID int, chatID int64) error {
			return l.Toggle(id)
		})
		buttons = append(buttons, Button{Text: prefix + o.title, CallbackToken: token})
	}
	return buttons
}
