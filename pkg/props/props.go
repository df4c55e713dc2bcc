package props

import "github.com/elix-dev/elix/pkg/dom"

// Props is a patch of desired node-facing values.
type Props struct {
	// Attributes maps attribute names to values. A nil value or false removes
	// the attribute, true sets it with an empty value, anything else is
	// stringified.
	Attributes map[string]any

	// Classes maps class names to on/off.
	Classes map[string]bool

	// Style maps style properties to values. An empty value removes the property.
	Style map[string]string

	// Properties are node properties that are not attributes.
	// A nil value removes the property.
	Properties map[string]any

	// Content replaces the node's children when non-nil. An empty, non-nil
	// slice clears them. nil leaves the children alone.
	Content []*dom.Node

	// Parts holds patches for named sub-nodes of the element's template.
	Parts map[string]Props
}

// IsEmpty reports whether the patch would change nothing.
func (p Props) IsEmpty() bool {
	return len(p.Attributes) == 0 &&
		len(p.Classes) == 0 &&
		len(p.Style) == 0 &&
		len(p.Properties) == 0 &&
		p.Content == nil &&
		len(p.Parts) == 0
}

// Attr is shorthand for a Props that sets a single attribute.
func Attr(name string, value any) Props {
	return Props{Attributes: map[string]any{name: value}}
}

// Class is shorthand for a Props that toggles a single class.
func Class(name string, on bool) Props {
	return Props{Classes: map[string]bool{name: on}}
}

// Style is shorthand for a Props that sets a single style property.
func Style(name, value string) Props {
	return Props{Style: map[string]string{name: value}}
}

// Part is shorthand for a Props that patches one named part.
func Part(name string, p Props) Props {
	return Props{Parts: map[string]Props{name: p}}
}
