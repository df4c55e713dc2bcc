package template

import (
	"github.com/elix-dev/elix/internal/errors"
	"github.com/elix-dev/elix/pkg/dom"
)

var (
	// ErrPartMissing is matched by errors for ids that do not resolve.
	ErrPartMissing = errors.New("E002")

	// ErrInvalid is matched by errors from Parse.
	ErrInvalid = errors.New("E003")
)

// fragmentTag is the tag of the container node holding a template's
// top-level nodes.
const fragmentTag = "template"

// Template is a mutable node skeleton.
type Template struct {
	root *dom.Node
}

// New returns a template whose content is nodes. The nodes are moved into
// the template.
func New(nodes ...*dom.Node) *Template {
	return &Template{root: dom.NewElement(fragmentTag, nodes...)}
}

// Must panics if err is non-nil and returns t otherwise.
func Must(t *Template, err error) *Template {
	if err != nil {
		panic(err)
	}
	return t
}

// Content returns the template's top-level nodes.
func (t *Template) Content() []*dom.Node {
	return t.root.Children
}

// Append adds nodes to the end of the template's content.
func (t *Template) Append(nodes ...*dom.Node) *Template {
	t.root.Append(nodes...)
	return t
}

// Find returns the node with the given id, or nil.
func (t *Template) Find(id string) *dom.Node {
	for _, n := range t.root.Children {
		if found := n.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// Replace puts n where the node with the given id sits. The old node's
// attributes, classes, style and children move to n, as does its id when n
// has none.
func (t *Template) Replace(id string, n *dom.Node) error {
	target := t.Find(id)
	if target == nil {
		return errors.New("E002").WithDetailf("cannot replace %q", id)
	}
	dom.Substitute(target, n)
	return nil
}

// Require returns an error naming the first id that does not resolve.
func (t *Template) Require(ids ...string) error {
	for _, id := range ids {
		if t.Find(id) == nil {
			return errors.New("E002").WithDetailf("required part %q", id)
		}
	}
	return nil
}

// Clone returns an independent copy of the template.
func (t *Template) Clone() *Template {
	return &Template{root: t.root.Clone()}
}

// HTML renders the template content, mainly for debugging.
func (t *Template) HTML() string {
	var out string
	for _, n := range t.root.Children {
		out += n.HTML()
	}
	return out
}

// Instance is a live copy of a template.
type Instance struct {
	// Root is the fragment holding the copied content. Moving its children
	// into an element leaves Parts pointing at the moved nodes.
	Root *dom.Node

	// Parts indexes every node in the copy that has an id.
	Parts map[string]*dom.Node
}

// Instantiate deep-copies the template and indexes its parts.
// When two nodes share an id, the first in document order wins.
func (t *Template) Instantiate() Instance {
	root := t.root.Clone()
	parts := make(map[string]*dom.Node)
	root.Walk(func(n *dom.Node) bool {
		if n == root {
			return true
		}
		if id := n.ID(); id != "" {
			if _, seen := parts[id]; !seen {
				parts[id] = n
			}
		}
		return true
	})
	return Instance{Root: root, Parts: parts}
}
