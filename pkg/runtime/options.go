package runtime

import (
	"github.com/veydlin-go/botui/pkg/element"
	"github.com/veydlin-go/botui/pkg/page"
)

// optionElement wraps a plain element.Base as a no-op MenuElement purely
// so ComponentFactory.Expand's existing v-if/v-for handling can run over
// an <option> list the same way it runs over top-level components,
// instead of this package reimplementing directive expansion a second
// time for options.
type optionElement struct {
	*element.Base
}

func (o *optionElement) Build() []element.Button { return nil }

// buildOptionBases expands children (a checkbox-list/radio/switch's
// <option> definitions) through the factory and returns each option's
// underlying Base, discarding the optionElement wrapper.
func (sp *ScriptPage) buildOptionBases(children []*page.ComponentDefinition) ([]*element.Base, error) {
	els, err := sp.factory.Expand(children)
	if err != nil {
		return nil, err
	}
	bases := make([]*element.Base, 0, len(els))
	for _, el := range els {
		if oe, ok := el.(*optionElement); ok {
			bases = append(bases, oe.Base)
		}
	}
	return bases, nil
}

// buildModalOptions is buildOptionBases' counterpart for radio-modal/
// checkbox-modal, additionally resolving each option's own message/
// web-preview override (§4.5).
func (sp *ScriptPage) buildModalOptions(children []*page.ComponentDefinition) ([]element.ModalOption, error) {
	bases, err := sp.buildOptionBases(children)
	if err != nil {
		return nil, err
	}
	opts := make([]element.ModalOption, 0, len(bases))
	for _, b := range bases {
		message := b.GetProp("message", b.GetRawProp("message-lang"), "")
		webPreview := b.GetRawProp("web-preview") == "true"
		opts = append(opts, element.NewModalOption(b, message, webPreview))
	}
	return opts, nil
}

// expandChildPages expands Card's explicit <page> children: each child
// definition's own Children are one fixed page's worth of components.
func (sp *ScriptPage) expandChildPages(pages []*page.ComponentDefinition) ([][]element.MenuElement, error) {
	out := make([][]element.MenuElement, 0, len(pages))
	for _, pageDef := range pages {
		elems, err := sp.factory.Expand(pageDef.Children)
		if err != nil {
			return nil, err
		}
		out = append(out, elems)
	}
	return out, nil
}

// expandTemplateItem expands AutoCard's <template #item> children once per
// bound array element, publishing "item"/"index" as script globals for
// the duration of expansion — AutoCard's per-iteration counterpart to
// ComponentFactory's own v-for loop-variable handling.
func (sp *ScriptPage) expandTemplateItem(template *page.ComponentDefinition, item any, index int) ([]element.MenuElement, error) {
	sp.sc.PublishGlobal("item", item)
	sp.sc.PublishGlobal("index", index)
	defer func() {
		sp.sc.ClearGlobal("item")
		sp.sc.ClearGlobal("index")
	}()
	return sp.factory.Expand(template.Children)
}

// navigateTo implements Open's default page-navigation click behaviour:
// navigate to target, as a sub-page when subPage is set.
func (sp *ScriptPage) navigateTo(target string, subPage bool) error {
	return sp.Navigate(target, subPage, nil)
}

// onNavPanelPageChange is NavigatePanel's onPageChange hook: re-render the
// current message so the new content page and updated counter are shown.
func (sp *ScriptPage) onNavPanelPageChange(index int) error {
	return sp.renderCurrent()
}
