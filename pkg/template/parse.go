package template

import (
	"bytes"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/elix-dev/elix/internal/errors"
	"github.com/elix-dev/elix/pkg/dom"
	"github.com/elix-dev/elix/pkg/props"
)

// nodeSpec is the YAML form of one node. A node is either an element (tag)
// or a text node (text), never both.
type nodeSpec struct {
	Tag      string            `yaml:"tag"`
	ID       string            `yaml:"id"`
	Class    string            `yaml:"class"`
	Style    string            `yaml:"style"`
	Attrs    map[string]string `yaml:"attrs"`
	Text     *string           `yaml:"text"`
	Children []nodeSpec        `yaml:"children"`
}

// Parse builds a template from a YAML description. The document is either a
// list of nodes or a single node.
func Parse(data []byte) (*Template, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New("E003").Wrap(err)
	}
	if len(doc.Content) == 0 {
		return New(), nil
	}

	var specs []nodeSpec
	body := doc.Content[0]
	switch body.Kind {
	case yaml.SequenceNode:
		if err := decodeStrict(data, &specs); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var single nodeSpec
		if err := decodeStrict(data, &single); err != nil {
			return nil, err
		}
		specs = []nodeSpec{single}
	default:
		return nil, errors.New("E003").WithDetailf("line %d: expected a node or a list of nodes", body.Line)
	}

	b := &builder{ids: make(map[string]bool)}
	t := New()
	for i := range specs {
		n, err := b.build(&specs[i], "/")
		if err != nil {
			return nil, err
		}
		t.Append(n)
	}
	return t, nil
}

// decodeStrict decodes data into v, rejecting keys nodeSpec does not know.
// yaml.Node.Decode ignores KnownFields, so this decodes the raw bytes again.
func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return errors.New("E003").Wrap(err)
	}
	return nil
}

// ParseFile reads and parses a YAML template file.
func ParseFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E003").WithDetailf("reading %s", path).Wrap(err)
	}
	return Parse(data)
}

type builder struct {
	ids map[string]bool
}

func (b *builder) build(s *nodeSpec, path string) (*dom.Node, error) {
	if s.Text != nil {
		if s.Tag != "" || s.ID != "" || s.Class != "" || s.Style != "" ||
			len(s.Attrs) > 0 || len(s.Children) > 0 {
			return nil, errors.New("E003").WithDetailf("%s: a text node cannot have a tag, attributes or children", path)
		}
		return dom.NewText(*s.Text), nil
	}
	if s.Tag == "" {
		return nil, errors.New("E003").WithDetailf("%s: node needs a tag or text", path)
	}

	here := path + s.Tag
	n := dom.NewElement(s.Tag)
	if s.ID != "" {
		if b.ids[s.ID] {
			return nil, errors.New("E003").WithDetailf("%s: duplicate id %q", here, s.ID)
		}
		b.ids[s.ID] = true
		n.SetID(s.ID)
		here += "#" + s.ID
	}

	names := make([]string, 0, len(s.Attrs))
	for name := range s.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		switch name {
		case "id", "class", "style":
			return nil, errors.New("E003").WithDetailf("%s: set %q with its own key, not attrs", here, name)
		}
		n.SetAttr(name, s.Attrs[name])
	}
	for name, on := range props.ParseClasses(s.Class) {
		n.SetClass(name, on)
	}
	for name, value := range props.ParseStyle(s.Style) {
		n.SetStyle(name, value)
	}

	for i := range s.Children {
		child, err := b.build(&s.Children[i], here+"/")
		if err != nil {
			return nil, err
		}
		n.Append(child)
	}
	return n, nil
}
