package dom

import "sort"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <button>, etc.
	KindText                // Plain text node
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Node is a single element or text node.
type Node struct {
	Kind       Kind
	Tag        string            // Element tag name
	Text       string            // For KindText
	Attrs      map[string]string // Attributes other than id, class and style
	Classes    map[string]bool   // Class set; false entries are not rendered
	Style      map[string]string // Inline style properties
	Properties map[string]any    // Non-attribute properties (not rendered)
	Children   []*Node

	id     string
	parent *Node
}

// NewElement creates an element node with the given children.
func NewElement(tag string, children ...*Node) *Node {
	n := &Node{Kind: KindElement, Tag: tag}
	n.Append(children...)
	return n
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// ID returns the node's id attribute.
func (n *Node) ID() string {
	return n.id
}

// SetID sets the node's id attribute.
func (n *Node) SetID(id string) *Node {
	n.id = id
	return n
}

// Parent returns the node's parent, or nil for a detached or root node.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool {
	return n != nil && n.Kind == KindElement
}

// Attr returns the value of an attribute and whether it is present.
// "id" is answered from the node's id.
func (n *Node) Attr(name string) (string, bool) {
	if name == "id" {
		return n.id, n.id != ""
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// SetAttr sets an attribute. Setting "id" sets the node id.
func (n *Node) SetAttr(name, value string) *Node {
	if name == "id" {
		n.id = value
		return n
	}
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
	return n
}

// RemoveAttr removes an attribute.
func (n *Node) RemoveAttr(name string) {
	if name == "id" {
		n.id = ""
		return
	}
	delete(n.Attrs, name)
}

// HasClass reports whether the class is set on the node.
func (n *Node) HasClass(name string) bool {
	return n.Classes[name]
}

// SetClass adds or removes a class.
func (n *Node) SetClass(name string, on bool) *Node {
	if !on {
		delete(n.Classes, name)
		return n
	}
	if n.Classes == nil {
		n.Classes = make(map[string]bool)
	}
	n.Classes[name] = true
	return n
}

// SetStyle sets an inline style property. An empty value removes it.
func (n *Node) SetStyle(name, value string) *Node {
	if value == "" {
		delete(n.Style, name)
		return n
	}
	if n.Style == nil {
		n.Style = make(map[string]string)
	}
	n.Style[name] = value
	return n
}

// SetProperty sets a non-attribute property. A nil value removes it.
func (n *Node) SetProperty(name string, value any) *Node {
	if value == nil {
		delete(n.Properties, name)
		return n
	}
	if n.Properties == nil {
		n.Properties = make(map[string]any)
	}
	n.Properties[name] = value
	return n
}

// Append adds children to the end of the node's child list.
func (n *Node) Append(children ...*Node) *Node {
	// children may alias a child list that detach rewrites.
	children = append([]*Node(nil), children...)
	for _, c := range children {
		if c == nil {
			continue
		}
		c.detach()
		c.parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// SetChildren replaces all children of the node.
func (n *Node) SetChildren(children []*Node) {
	for _, c := range n.Children {
		if c.parent == n {
			c.parent = nil
		}
	}
	n.Children = nil
	n.Append(children...)
}

// ReplaceChild swaps old for replacement in n's child list.
// It reports false if old is not a child of n.
func (n *Node) ReplaceChild(old, replacement *Node) bool {
	for i, c := range n.Children {
		if c != old {
			continue
		}
		replacement.detach()
		replacement.parent = n
		n.Children[i] = replacement
		old.parent = nil
		return true
	}
	return false
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c == n {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Substitute puts replacement where target sits in its tree.
// Attributes, classes and style set on target carry over to the replacement
// unless the replacement already sets them, and target's children move into it.
// It reports false when target has no parent.
func Substitute(target, replacement *Node) bool {
	parent := target.parent
	if parent == nil {
		return false
	}
	if replacement.id == "" {
		replacement.id = target.id
	}
	for k, v := range target.Attrs {
		if _, ok := replacement.Attrs[k]; !ok {
			replacement.SetAttr(k, v)
		}
	}
	for k, on := range target.Classes {
		if on {
			replacement.SetClass(k, true)
		}
	}
	for k, v := range target.Style {
		if _, ok := replacement.Style[k]; !ok {
			replacement.SetStyle(k, v)
		}
	}
	children := append([]*Node(nil), target.Children...)
	replacement.Append(children...)
	return parent.ReplaceChild(target, replacement)
}

// Walk visits n and its descendants depth-first. Returning false from fn
// stops the walk below that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindByID returns the first node in the subtree with the given id.
func (n *Node) FindByID(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.id == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// Clone returns a deep copy of the subtree. The copy is detached.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Kind: n.Kind,
		Tag:  n.Tag,
		Text: n.Text,
		id:   n.id,
	}
	if n.Attrs != nil {
		c.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			c.Attrs[k] = v
		}
	}
	if n.Classes != nil {
		c.Classes = make(map[string]bool, len(n.Classes))
		for k, v := range n.Classes {
			c.Classes[k] = v
		}
	}
	if n.Style != nil {
		c.Style = make(map[string]string, len(n.Style))
		for k, v := range n.Style {
			c.Style[k] = v
		}
	}
	if n.Properties != nil {
		c.Properties = make(map[string]any, len(n.Properties))
		for k, v := range n.Properties {
			c.Properties[k] = v
		}
	}
	for _, child := range n.Children {
		cc := child.Clone()
		cc.parent = c
		c.Children = append(c.Children, cc)
	}
	return c
}

// TextContent returns the concatenated text of the subtree.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText {
		return n.Text
	}
	var out string
	for _, c := range n.Children {
		out += c.TextContent()
	}
	return out
}

// ClassNames returns the set classes in sorted order.
func (n *Node) ClassNames() []string {
	names := make([]string, 0, len(n.Classes))
	for k, on := range n.Classes {
		if on {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}
