package element

// Split emits no buttons; the keyboard assembler treats its presence as a
// forced row break within the current rowIndex group (§4.5).
type Split struct {
	*Base
}

// NewSplit builds a Split marker element.
func NewSplit(base *Base) *Split { return &Split{Base: base} }

// Build always returns no buttons.
func (s *Split) Build() []Button { return nil }
