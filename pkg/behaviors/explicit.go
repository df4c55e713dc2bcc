package behaviors

import (
	"maps"

	"github.com/elix-dev/elix/pkg/behavior"
	"github.com/elix-dev/elix/pkg/props"
	"github.com/elix-dev/elix/pkg/state"
)

// State keys used by ExplicitAttributes.
const (
	KeyExplicitAttributes = "explicitAttributes"
	KeyExplicitClasses    = "explicitClasses"
	KeyExplicitStyle      = "explicitStyle"
)

// ExplicitAttributes tracks the attributes, classes and style that the host
// sets on the element, and reapplies them after every other behavior so the
// host's choices beat behavior defaults. List it outermost.
type ExplicitAttributes struct{}

// NewExplicitAttributes returns an ExplicitAttributes behavior.
func NewExplicitAttributes() *ExplicitAttributes { return &ExplicitAttributes{} }

// Name implements behavior.Behavior.
func (*ExplicitAttributes) Name() string { return "explicit-attributes" }

// DefaultState implements behavior.DefaultStater.
func (*ExplicitAttributes) DefaultState(next func() state.Patch) state.Patch {
	p := next()
	p[KeyExplicitAttributes] = map[string]string(nil)
	p[KeyExplicitClasses] = map[string]bool(nil)
	p[KeyExplicitStyle] = map[string]string(nil)
	return p
}

// Props implements behavior.PropsContributor.
func (*ExplicitAttributes) Props(s state.State, next func() props.Props) props.Props {
	explicit := props.Props{
		Classes: explicitClasses(s),
		Style:   explicitStyle(s),
	}
	if attrs := explicitAttributes(s); len(attrs) > 0 {
		explicit.Attributes = make(map[string]any, len(attrs))
		for k, v := range attrs {
			explicit.Attributes[k] = v
		}
	}
	return props.Merge(next(), explicit)
}

// Capture records the host node's current attributes, classes and style as
// explicit. Call it before the element's first render.
func (*ExplicitAttributes) Capture(h behavior.Host) error {
	root := h.Root()
	patch := state.Patch{}
	current := props.Current(root)
	if len(current.Attributes) > 0 {
		attrs := make(map[string]string, len(current.Attributes))
		for k, v := range current.Attributes {
			attrs[k], _ = v.(string)
		}
		patch[KeyExplicitAttributes] = attrs
	}
	if len(current.Classes) > 0 {
		patch[KeyExplicitClasses] = current.Classes
	}
	if len(current.Style) > 0 {
		patch[KeyExplicitStyle] = current.Style
	}
	return h.SetState(patch)
}

// SetAttribute records an attribute set by the host. "class" and "style"
// values are parsed into the explicit class and style sets.
func (*ExplicitAttributes) SetAttribute(h behavior.Host, name, value string) error {
	switch name {
	case "class":
		return h.SetState(state.Patch{KeyExplicitClasses: props.ParseClasses(value)})
	case "style":
		return h.SetState(state.Patch{KeyExplicitStyle: props.ParseStyle(value)})
	}
	prev := explicitAttributes(h.State())
	if old, ok := prev[name]; ok && old == value {
		return nil
	}
	attrs := maps.Clone(prev)
	if attrs == nil {
		attrs = make(map[string]string)
	}
	attrs[name] = value
	return h.SetState(state.Patch{KeyExplicitAttributes: attrs})
}

// RemoveAttribute forgets an attribute the host set. The attribute is
// removed from the node unless another behavior supplies it.
func (*ExplicitAttributes) RemoveAttribute(h behavior.Host, name string) error {
	root := h.Root()
	switch name {
	case "class":
		for class := range explicitClasses(h.State()) {
			root.SetClass(class, false)
		}
		return h.SetState(state.Patch{KeyExplicitClasses: map[string]bool(nil)})
	case "style":
		for property := range explicitStyle(h.State()) {
			root.SetStyle(property, "")
		}
		return h.SetState(state.Patch{KeyExplicitStyle: map[string]string(nil)})
	}
	prev := explicitAttributes(h.State())
	if _, ok := prev[name]; !ok {
		return nil
	}
	attrs := maps.Clone(prev)
	delete(attrs, name)
	root.RemoveAttr(name)
	return h.SetState(state.Patch{KeyExplicitAttributes: attrs})
}

func explicitAttributes(s state.State) map[string]string {
	m, _ := s.Get(KeyExplicitAttributes).(map[string]string)
	return m
}

func explicitClasses(s state.State) map[string]bool {
	m, _ := s.Get(KeyExplicitClasses).(map[string]bool)
	return m
}

func explicitStyle(s state.State) map[string]string {
	m, _ := s.Get(KeyExplicitStyle).(map[string]string)
	return m
}
