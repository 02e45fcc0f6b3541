package element

// ModalOption is one option of a Radio/CheckboxModal, carrying its own
// optional message/webPreview override surfaced instead of the owning
// page's message while the modal sub-page is open (§4.5).
type ModalOption struct {
	optionItem
	Message    string
	WebPreview bool
}

// ID and Title expose this option's resolved id/title to callers outside
// the package (a ModalOpener rendering the sub-page's rows), since
// optionItem's fields are unexported.
func (o ModalOption) ID() string    { return o.id }
func (o ModalOption) Title() string { return o.title }

// NewModalOption builds a ModalOption from one <option> child's Base,
// resolving its id/title the same way buildOptions does for
// CheckboxList/Radio/Switch. message/webPreview come from attributes
// RadioModal/CheckboxModal-specific to a modal option that plain option
// lists don't carry.
func NewModalOption(base *Base, message string, webPreview bool) ModalOption {
	return ModalOption{
		optionItem: optionItem{
			base:  base,
			id:    base.GetProp("id", "", base.ID()),
			title: base.GetProp("title", base.GetRawProp("lang"), base.ID()),
		},
		Message:    message,
		WebPreview: webPreview,
	}
}

// ModalOpener is implemented by the owning ScriptPage/PageHandle: opening a
// modal transitions the current message to a temporary sub-page, closing
// it (via the back button) returns to the owning page.
type ModalOpener interface {
	OpenModal(pageID string, onClose func()) error
}

// RadioModal is a single button whose click opens a temporary sub-page
// listing options radio-style; selecting one closes the modal and reports
// the choice back to the owning page.
type RadioModal struct {
	*Base

	options []ModalOption
	opener  ModalOpener
	onPick  func(id string) error

	selectedID string
	hasSel     bool
}

// NewRadioModal builds a RadioModal.
func NewRadioModal(base *Base, options []ModalOption, opener ModalOpener, onPick func(string) error) *RadioModal {
	m := &RadioModal{Base: base, options: options, opener: opener, onPick: onPick}
	m.RegisterMethod("open", func(args []any) (any, error) { return nil, m.Open() })
	m.RegisterProp("selectedId", func() (any, bool) { return m.selectedID, m.hasSel })
	return m
}

// Open transitions the owning message to the modal sub-page.
func (m *RadioModal) Open() error {
	if m.opener == nil {
		return nil
	}
	return m.opener.OpenModal(m.ID()+"__modal", nil)
}

// Options exposes this modal's option list so a ModalOpener can render the
// sub-page's selectable rows without knowing RadioModal's internals.
func (m *RadioModal) Options() []ModalOption { return m.options }

// SelectedID reports the currently picked option id, if any.
func (m *RadioModal) SelectedID() (string, bool) { return m.selectedID, m.hasSel }

// Pick records the chosen option and runs onPick, called by the option
// buttons ScriptPage.OpenModal renders for this modal.
func (m *RadioModal) Pick(id string) error {
	m.selectedID, m.hasSel = id, true
	if m.onPick != nil {
		return m.onPick(id)
	}
	return nil
}

func (m *RadioModal) title() string {
	if m.hasSel {
		for _, o := range m.options {
			if o.id == m.selectedID {
				return o.title
			}
		}
	}
	return m.GetProp("title", m.GetRawProp("lang"), m.ID())
}

// Build renders a single button that opens the modal.
func (m *RadioModal) Build() []Button {
	token := m.IssueToken(func(queryID string, messageID int, chatID int64) error {
		return m.Open()
	})
	return []Button{{Text: m.title(), CallbackToken: token}}
}

// CheckboxModal is RadioModal's multi-select counterpart: opening it shows
// a CheckboxList-style sub-page instead of a single-select one.
type CheckboxModal struct {
	*Base

	options []ModalOption
	opener  ModalOpener
	onPick  func(ids []string) error

	selectedIds map[string]bool
}

// NewCheckboxModal builds a CheckboxModal.
func NewCheckboxModal(base *Base, options []ModalOption, opener ModalOpener, onPick func([]string) error) *CheckboxModal {
	m := &CheckboxModal{Base: base, options: options, opener: opener, onPick: onPick, selectedIds: map[string]bool{}}
	m.RegisterMethod("open", func(args []any) (any, error) { return nil, m.Open() })
	m.RegisterProp("selectedIds", func() (any, bool) { return m.SelectedIDs(), true })
	return m
}

// Open transitions the owning message to the modal sub-page.
func (m *CheckboxModal) Open() error {
	if m.opener == nil {
		return nil
	}
	return m.opener.OpenModal(m.ID()+"__modal", nil)
}

// Options exposes this modal's option list so a ModalOpener can render the
// sub-page's selectable rows without knowing CheckboxModal's internals.
func (m *CheckboxModal) Options() []ModalOption { return m.options }

// Toggle flips one option's membership, called by the option buttons
// ScriptPage.OpenModal renders for this modal.
func (m *CheckboxModal) Toggle(id string) error {
	m.selectedIds[id] = !m.selectedIds[id]
	if m.onPick != nil {
		return m.onPick(m.SelectedIDs())
	}
	return nil
}

// SelectedIDs returns a stable-ordered snapshot of the current selection.
func (m *CheckboxModal) SelectedIDs() []string {
	ids := make([]string, 0, len(m.selectedIds))
	for _, o := range m.options {
		if m.selectedIds[o.id] {
			ids = append(ids, o.id)
		}
	}
	return ids
}

// Build renders a single button that opens the modal.
func (m *CheckboxModal) Build() []Button {
	token := m.IssueToken(func(queryID string, messageID int, chatID int64) error {
		return m.Open()
	})
	return []Button{{Text: m.GetProp("title", m.GetRawProp("lang"), m.ID()), CallbackToken: token}}
}
