package element

import "sync"

// Radio is a single-select option list: selecting one option clears any
// previous selection, parallel to CheckboxList but bounded to zero-or-one
// member (§4.5).
type Radio struct {
	*Base

	options []optionItem

	mu         sync.Mutex
	selectedID string
	hasSel     bool

	onUpdate func(id string, ok bool) error
}

// NewRadio builds a Radio. Per SPEC_FULL.md's Open Question resolution, the
// selection is nullable-safe: SelectedID's second return reports whether
// anything is selected at all, rather than forcing callers to treat "" as
// a valid id.
func NewRadio(base *Base, optionBases []*Base, onUpdate func(string, bool) error) *Radio {
	r := &Radio{Base: base, options: buildOptions(optionBases), onUpdate: onUpdate}
	if raw := base.GetRawProp("selected"); raw != "" {
		if id := base.Context().Evaluate(raw); id != "" {
			r.selectedID, r.hasSel = id, true
		}
	}

	r.RegisterMethod("select", func(args []any) (any, error) {
		if len(args) == 0 {
			return nil, nil
		}
		id, _ := args[0].(string)
		return nil, r.Select(id)
	})
	r.RegisterProp("selectedId", func() (any, bool) { return r.SelectedID() })
	return r
}

// SelectedID returns the currently selected option id and whether one is
// selected at all.
func (r *Radio) SelectedID() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selectedID, r.hasSel
}

// Select sets the selection to id, replacing any prior selection.
func (r *Radio) Select(id string) error {
	r.mu.Lock()
	r.selectedID, r.hasSel = id, true
	r.mu.Unlock()
	if r.onUpdate != nil {
		if err := r.onUpdate(id, true); err != nil {
			return err
		}
	}
	if r.HasEvent("update") {
		return r.InvokeEvent("update", "")
	}
	return nil
}

// Build renders one button per option, marking the selected one.
func (r *Radio) Build() []Button {
	cur, ok := r.SelectedID()
	buttons := make([]Button, 0, len(r.options))
	for _, o := range r.options {
		id := o.id
		prefix := ""
		if ok && cur == id {
			prefix = "🔘 "
		}
		token := r.IssueToken(func(queryID string, messageID int, chatID int64) error {
			return r.Select(id)
		})
		buttons = append(buttons, Button{Text: prefix + o.title, CallbackToken: token})
	}
	return buttons
}
