package behaviors

import (
	"strconv"

	"github.com/elix-dev/elix/pkg/behavior"
	"github.com/elix-dev/elix/pkg/dom"
	"github.com/elix-dev/elix/pkg/props"
	"github.com/elix-dev/elix/pkg/state"
	"github.com/elix-dev/elix/pkg/template"
)

// ListBoxItemsPart is the id of the list box node that holds the items.
const ListBoxItemsPart = "items"

// ListBox returns the behaviors of a single-selection list box, outermost
// first: explicit attributes, tap and keyboard selection over content items,
// rendered into a scrolling container.
func ListBox() []behavior.Behavior {
	return []behavior.Behavior{
		NewExplicitAttributes(),
		&behavior.Func{
			ID: "list-box",
			TemplateFn: func(t *template.Template) (*template.Template, error) {
				return t.Append(dom.NewElement("div").
					SetID(ListBoxItemsPart).
					SetStyle("overflow-y", "auto")), nil
			},
			PropsFn: func(s state.State) props.Props {
				return props.Props{Attributes: map[string]any{
					"role":                  "listbox",
					"tabindex":              "0",
					"aria-activedescendant": activeDescendant(s),
				}}
			},
		},
		NewTapSelection(),
		NewSingleSelection(),
		NewContentItems(ListBoxItemsPart, listBoxItemProps),
	}
}

func listBoxItemProps(s state.State, item *dom.Node, index int, original props.Props) props.Props {
	selected := index == SelectedIndex(s)
	id := "option-" + strconv.Itoa(index)
	if v, ok := original.Attributes["id"].(string); ok && v != "" {
		id = v
	}
	return props.Props{
		Attributes: map[string]any{
			"id":            id,
			"role":          "option",
			"aria-selected": boolString(selected),
		},
		Classes: map[string]bool{"selected": selected},
	}
}

func activeDescendant(s state.State) any {
	items := Items(s)
	index := SelectedIndex(s)
	if index < 0 || index >= len(items) {
		return nil
	}
	if id := items[index].ID(); id != "" {
		return id
	}
	return "option-" + strconv.Itoa(index)
}

// TextItems builds one div per label, for use as list content.
func TextItems(labels ...string) []*dom.Node {
	nodes := make([]*dom.Node, len(labels))
	for i, label := range labels {
		nodes[i] = dom.NewElement("div", dom.NewText(label))
	}
	return nodes
}
