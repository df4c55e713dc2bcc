package behaviors

import (
	"github.com/elix-dev/elix/pkg/behavior"
	"github.com/elix-dev/elix/pkg/dom"
	"github.com/elix-dev/elix/pkg/props"
	"github.com/elix-dev/elix/pkg/state"
	"github.com/elix-dev/elix/pkg/template"
)

// Disclosure part ids.
const (
	DisclosureTogglePart = "toggle"
	DisclosurePanelPart  = "panel"
)

// Disclosure returns the behaviors of a disclosure widget: a toggle button
// labelled label and a panel holding the content, hidden while closed.
// Pressing the toggle opens or closes the panel; presses anywhere else,
// inside the panel included, are left alone. Escape closes it.
func Disclosure(label string) []behavior.Behavior {
	openClose := NewOpenClose()
	return []behavior.Behavior{
		NewExplicitAttributes(),
		&behavior.Func{
			ID: "disclosure",
			TemplateFn: func(t *template.Template) (*template.Template, error) {
				return t.Append(
					dom.NewElement("button", dom.NewText(label)).SetID(DisclosureTogglePart),
					dom.NewElement("div").SetID(DisclosurePanelPart),
				), nil
			},
			PropsFn: func(s state.State) props.Props {
				return props.Part(DisclosurePanelPart, props.Props{
					Attributes: map[string]any{"hidden": !Opened(s)},
				})
			},
			EventFn: func(h behavior.Host, e behavior.Event) bool {
				if e.Type != "mousedown" || e.Button != 0 || e.Target != DisclosureTogglePart {
					return false
				}
				return openClose.Toggle(h) == nil
			},
		},
		openClose,
		NewContentItems(DisclosurePanelPart, nil),
	}
}

// Plain returns the behaviors of an element that only shows its content
// and honours explicit attributes.
func Plain() []behavior.Behavior {
	return []behavior.Behavior{
		NewExplicitAttributes(),
		NewContentItems("", nil),
	}
}
