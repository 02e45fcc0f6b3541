package element

import "sync"

// Switch is a single button cycling an ordered option list (§4.5). Its
// template is rendered with self.{id,title,index,count}, so Switch exposes
// those as script-readable props alongside cycleNext/cycleTo.
type Switch struct {
	*Base

	options []optionItem

	mu  sync.Mutex
	idx int

	onChange func(id string, index int) error
}

// NewSwitch builds a Switch starting at index 0, or at the option whose id
// matches an initial `:selected` binding if supplied.
func NewSwitch(base *Base, optionBases []*Base, onChange func(string, int) error) *Switch {
	s := &Switch{Base: base, options: buildOptions(optionBases), onChange: onChange}
	if raw := base.GetRawProp("selected"); raw != "" {
		want := base.Context().Evaluate(raw)
		for i, o := range s.options {
			if o.id == want {
				s.idx = i
				break
			}
		}
	}

	s.RegisterMethod("cycleNext", func(args []any) (any, error) { return nil, s.CycleNext() })
	s.RegisterMethod("cycleTo", func(args []any) (any, error) {
		if len(args) == 0 {
			return nil, nil
		}
		id, _ := args[0].(string)
		return nil, s.CycleTo(id)
	})
	s.RegisterProp("id", func() (any, bool) { return s.current().id, true })
	s.RegisterProp("title", func() (any, bool) { return s.current().title, true })
	s.RegisterProp("index", func() (any, bool) { return float64(s.Index()), true })
	s.RegisterProp("count", func() (any, bool) { return float64(len(s.options)), true })
	return s
}

func (s *Switch) current() optionItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.options) == 0 {
		return optionItem{}
	}
	return s.options[s.idx]
}

// Index returns the current option's position.
func (s *Switch) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx
}

// CycleNext advances to the next option modulo the option count.
func (s *Switch) CycleNext() error {
	s.mu.Lock()
	if n := len(s.options); n > 0 {
		s.idx = (s.idx + 1) % n
	}
	s.mu.Unlock()
	return s.publish()
}

// CycleTo jumps to the option with the given id, a no-op if not found.
func (s *Switch) CycleTo(id string) error {
	s.mu.Lock()
	found := -1
	for i, o := range s.options {
		if o.id == id {
			found = i
			break
		}
	}
	if found < 0 {
		s.mu.Unlock()
		return nil
	}
	s.idx = found
	s.mu.Unlock()
	return s.publish()
}

func (s *Switch) publish() error {
	cur := s.current()
	if s.onChange != nil {
		if err := s.onChange(cur.id, s.Index()); err != nil {
			return err
		}
	}
	if s.HasEvent("update") {
		return s.InvokeEvent("update", "")
	}
	return nil
}

// Build renders the current option as a single button.
func (s *Switch) Build() []Button {
	token := s.IssueToken(func(queryID string, messageID int, chatID int64) error {
		return s.CycleNext()
	})
	return []Button{{Text: s.current().title, CallbackToken: token}}
}
