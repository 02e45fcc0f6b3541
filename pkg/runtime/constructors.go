package runtime

import (
	"strings"

	"github.com/veydlin-go/botui/pkg/element"
	"github.com/veydlin-go/botui/pkg/page"
)

// registerConstructors binds the full component tag vocabulary (§4.5) to
// sp's ComponentFactory. Every constructor closure's only job is to read
// the compile-time directives a concrete element type needs beyond the
// common Base/def contract (e.g. Open's "type"/"sub-page" attributes)
// and wire sp's own interfaces (Pager, ModalOpener, navigation) in as the
// element's host-side collaborator.
func registerConstructors(factory *element.ComponentFactory, sp *ScriptPage) {
	factory.Register("command", func(base *element.Base, def *page.ComponentDefinition) (element.MenuElement, error) {
		return element.NewCommand(base, nil), nil
	})

	factory.Register("open", func(base *element.Base, def *page.ComponentDefinition) (element.MenuElement, error) {
		kindAttr, _, _ := def.Element.Attr("type")
		subPageAttr, _, _ := def.Element.Attr("sub-page")
		kind := element.OpenPage
		switch strings.ToLower(kindAttr) {
		case "link":
			kind = element.OpenLink
		case "app", "web-app", "webapp":
			kind = element.OpenApp
		}
		subPage := subPageAttr == "true"
		return element.NewOpen(base, kind, subPage, sp.navigateTo), nil
	})

	factory.Register("split", func(base *element.Base, def *page.ComponentDefinition) (element.MenuElement, error) {
		return element.NewSplit(base), nil
	})

	factory.Register("navigate-panel", func(base *element.Base, def *page.ComponentDefinition) (element.MenuElement, error) {
		carousel, _, _ := def.Element.Attr("carousel")
		hideBoundary, _, _ := def.Element.Attr("hide-boundary")
		boundaryMsg, _, _ := def.Element.Attr("boundary-message")
		return element.NewNavigatePanel(base, sp, sp.onNavPanelPageChange, carousel == "true", hideBoundary == "true", boundaryMsg, sp.Toast), nil
	})

	factory.Register("card", func(base *element.Base, def *page.ComponentDefinition) (element.MenuElement, error) {
		if len(def.Children) > 0 {
			pages, err := sp.expandChildPages(def.Children)
			if err != nil {
				return nil, err
			}
			return element.NewCard(base, pages), nil
		}
		return element.NewCard(base, nil), nil
	})

	factory.Register("auto-card", func(base *element.Base, def *page.ComponentDefinition) (element.MenuElement, error) {
		itemsExpr := base.GetRawProp("items")
		var template *page.ComponentDefinition
		if len(def.Children) > 0 {
			template = def.Children[0]
		}
		expand := func(item any, index int) []element.MenuElement {
			if template == nil {
				return nil
			}
			els, err := sp.expandTemplateItem(template, item, index)
			if err != nil {
				return nil
			}
			return els
		}
		return element.NewAutoCard(base, itemsExpr, expand, sp.def.MaxItems, sp.def.MaxRows), nil
	})

	factory.Register("checkbox-list", func(base *element.Base, def *page.ComponentDefinition) (element.MenuElement, error) {
		opts, err := sp.buildOptionBases(def.Children)
		if err != nil {
			return nil, err
		}
		return element.NewCheckboxList(base, opts, nil), nil
	})

	factory.Register("radio", func(base *element.Base, def *page.ComponentDefinition) (element.MenuElement, error) {
		opts, err := sp.buildOptionBases(def.Children)
		if err != nil {
			return nil, err
		}
		return element.NewRadio(base, opts, nil), nil
	})

	factory.Register("switch", func(base *element.Base, def *page.ComponentDefinition) (element.MenuElement, error) {
		opts, err := sp.buildOptionBases(def.Children)
		if err != nil {
			return nil, err
		}
		return element.NewSwitch(base, opts, nil), nil
	})

	factory.Register("checkbox", func(base *element.Base, def *page.ComponentDefinition) (element.MenuElement, error) {
		return element.NewCheckbox(base, nil), nil
	})

	// option is not a standalone component a page author places directly;
	// it is the <option> children of checkbox-list/radio/switch/modals.
	// Registering it lets the factory's existing v-if/v-for expansion run
	// over option lists exactly as it does for top-level components,
	// instead of duplicating that logic here.
	factory.Register("option", func(base *element.Base, def *page.ComponentDefinition) (element.MenuElement, error) {
		return &optionElement{Base: base}, nil
	})

	factory.Register("radio-modal", func(base *element.Base, def *page.ComponentDefinition) (element.MenuElement, error) {
		opts, err := sp.buildModalOptions(def.Children)
		if err != nil {
			return nil, err
		}
		return element.NewRadioModal(base, opts, sp, nil), nil
	})

	factory.Register("checkbox-modal", func(base *element.Base, def *page.ComponentDefinition) (element.MenuElement, error) {
		opts, err := sp.buildModalOptions(def.Children)
		if err != nil {
			return nil, err
		}
		return element.NewCheckboxModal(base, opts, sp, nil), nil
	})
}
