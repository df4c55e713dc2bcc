package props

import (
	"fmt"
	"sort"
	"strings"

	"github.com/elix-dev/elix/internal/errors"
	"github.com/elix-dev/elix/pkg/dom"
)

// ErrPartMissing is matched (via errors.Is) by errors returned when a patch
// names a part that the element's template does not define.
var ErrPartMissing = errors.New("E002")

// Apply writes p to node, and each entry of p.Parts to the node of that
// name in parts. Parts are applied in sorted name order. A part name with no
// node, at any nesting depth, is a structural error and fails before
// anything is written.
func Apply(node *dom.Node, p Props, parts map[string]*dom.Node) error {
	if err := checkParts(p, parts); err != nil {
		return err
	}
	apply(node, p, parts)
	return nil
}

func checkParts(p Props, parts map[string]*dom.Node) error {
	for name, sub := range p.Parts {
		if parts[name] == nil {
			return errors.New("E002").
				WithDetailf("part %q not found in template", name).
				WithSuggestion(fmt.Sprintf("Add an element with id=%q to the template", name))
		}
		if err := checkParts(sub, parts); err != nil {
			return err
		}
	}
	return nil
}

func apply(node *dom.Node, p Props, parts map[string]*dom.Node) {
	applyNode(node, p)

	names := make([]string, 0, len(p.Parts))
	for name := range p.Parts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		apply(parts[name], p.Parts[name], parts)
	}
}

func applyNode(n *dom.Node, p Props) {
	for name, v := range p.Attributes {
		if value, ok := attrValue(v); ok {
			n.SetAttr(name, value)
		} else {
			n.RemoveAttr(name)
		}
	}
	for name, on := range p.Classes {
		n.SetClass(name, on)
	}
	for name, v := range p.Style {
		n.SetStyle(name, v)
	}
	for name, v := range p.Properties {
		n.SetProperty(name, v)
	}
	if p.Content != nil {
		n.SetChildren(p.Content)
	}
}

func attrValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case bool:
		return "", x
	case string:
		return x, true
	case *string:
		if x == nil {
			return "", false
		}
		return *x, true
	default:
		return fmt.Sprint(x), true
	}
}

// Current returns the props a node presently has. Content is not captured.
func Current(n *dom.Node) Props {
	var p Props
	if id := n.ID(); id != "" || len(n.Attrs) > 0 {
		p.Attributes = make(map[string]any, len(n.Attrs)+1)
		for k, v := range n.Attrs {
			p.Attributes[k] = v
		}
		if id != "" {
			p.Attributes["id"] = id
		}
	}
	p.Classes = mergeMap(nil, n.Classes)
	p.Style = mergeMap(nil, n.Style)
	p.Properties = mergeMap(nil, n.Properties)
	return p
}

// ParseClasses turns a space-separated class list like "foo bar" into
// {foo: true, bar: true}.
func ParseClasses(text string) map[string]bool {
	result := make(map[string]bool)
	for _, name := range strings.Fields(text) {
		result[name] = true
	}
	return result
}

// ParseStyle turns CSS declarations like "background: black; color: white"
// into {background: black, color: white}. Malformed declarations are skipped.
func ParseStyle(text string) map[string]string {
	result := make(map[string]string)
	for _, rule := range strings.Split(text, ";") {
		name, value, ok := strings.Cut(rule, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		result[name] = strings.TrimSpace(value)
	}
	return result
}
