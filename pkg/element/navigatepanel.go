package element

import "strconv"

// Pager is implemented by Card/AutoCard (and ScriptPage, for a page-level
// navigate panel) so a NavigatePanel can drive pagination without knowing
// the concrete container type.
type Pager interface {
	CurrentPage() int
	PageCount() int
	GoToPage(index int) error
}

// NavigatePanel is three buttons — prev, counter, next — driving a bound
// Pager (§4.5). carousel wraps index arithmetic; hideBoundary omits the
// arrow at an edge instead of disabling it; boundaryMessage, when set,
// toasts instead of silently no-opping a blocked edge press.
type NavigatePanel struct {
	*Base

	target          Pager
	onPageChange    func(int) error
	carousel        bool
	hideBoundary    bool
	boundaryMessage string
	toast           func(text string) error
}

// NewNavigatePanel builds a NavigatePanel. toast is called for a blocked
// edge press when boundaryMessage is set.
func NewNavigatePanel(base *Base, target Pager, onPageChange func(int) error, carousel, hideBoundary bool, boundaryMessage string, toast func(string) error) *NavigatePanel {
	return &NavigatePanel{
		Base:            base,
		target:          target,
		onPageChange:    onPageChange,
		carousel:        carousel,
		hideBoundary:    hideBoundary,
		boundaryMessage: boundaryMessage,
		toast:           toast,
	}
}

func (n *NavigatePanel) current() (page, count int) {
	if n.target != nil {
		return n.target.CurrentPage(), n.target.PageCount()
	}
	return 0, 1
}

func (n *NavigatePanel) goTo(index int) error {
	page, count := n.current()
	if count <= 0 {
		count = 1
	}
	if index < 0 || index >= count {
		if n.carousel {
			index = ((index % count) + count) % count
		} else {
			if n.toast != nil && n.boundaryMessage != "" {
				return n.toast(n.boundaryMessage)
			}
			return nil
		}
	}
	if index == page {
		return nil
	}
	if n.target != nil {
		if err := n.target.GoToPage(index); err != nil {
			return err
		}
	}
	if n.onPageChange != nil {
		return n.onPageChange(index)
	}
	return nil
}

func (n *NavigatePanel) counterText() string {
	page, count := n.current()
	return n.GetProp("counter", "", defaultCounterText(page, count))
}

func defaultCounterText(page, count int) string {
	return strconv.Itoa(page+1) + "/" + strconv.Itoa(count)
}

// Build renders the prev/counter/next row, omitting an edge arrow when
// hideBoundary is set and carousel is not.
func (n *NavigatePanel) Build() []Button {
	page, count := n.current()
	atStart := page <= 0 && !n.carousel
	atEnd := page >= count-1 && !n.carousel

	var buttons []Button
	if !(n.hideBoundary && atStart) {
		prevToken := n.IssueToken(func(queryID string, messageID int, chatID int64) error {
			return n.goTo(page - 1)
		})
		buttons = append(buttons, Button{Text: "«", CallbackToken: prevToken})
	}
	counterToken := n.IssueToken(func(queryID string, messageID int, chatID int64) error { return nil })
	buttons = append(buttons, Button{Text: n.counterText(), CallbackToken: counterToken})
	if !(n.hideBoundary && atEnd) {
		nextToken := n.IssueToken(func(queryID string, messageID int, chatID int64) error {
			return n.goTo(page + 1)
		})
		buttons = append(buttons, Button{Text: "»", CallbackToken: nextToken})
	}
	return buttons
}
