package behaviors

import (
	"github.com/elix-dev/elix/pkg/behavior"
	"github.com/elix-dev/elix/pkg/dom"
	"github.com/elix-dev/elix/pkg/props"
	"github.com/elix-dev/elix/pkg/state"
)

// auxiliaryTags are elements that may appear in content without being items.
var auxiliaryTags = map[string]bool{
	"link":     true,
	"script":   true,
	"style":    true,
	"template": true,
}

// Substantive returns the nodes of content that count as items: elements
// other than link, script, style and template.
func Substantive(content []*dom.Node) []*dom.Node {
	items := make([]*dom.Node, 0, len(content))
	for _, n := range content {
		if n.IsElement() && !auxiliaryTags[n.Tag] {
			items = append(items, n)
		}
	}
	return items
}

// ItemPropsFunc returns the props for one item. original holds the props the
// item had before the first render touched it.
type ItemPropsFunc func(s state.State, item *dom.Node, index int, original props.Props) props.Props

// ContentItems maps content nodes to list items. It derives items from
// content, places content into a template part and, when ItemProps is set,
// applies per-item props on every render.
type ContentItems struct {
	// Part names the template node that holds the content. Empty means the
	// host node itself.
	Part string

	// ItemProps computes props for each item. Optional.
	ItemProps ItemPropsFunc

	original map[*dom.Node]props.Props
}

// NewContentItems returns a ContentItems that puts content into part.
func NewContentItems(part string, itemProps ItemPropsFunc) *ContentItems {
	return &ContentItems{Part: part, ItemProps: itemProps}
}

// Name implements behavior.Behavior.
func (*ContentItems) Name() string { return "content-items" }

// DefaultState implements behavior.DefaultStater.
func (*ContentItems) DefaultState(next func() state.Patch) state.Patch {
	p := next()
	p[KeyContent] = []*dom.Node(nil)
	p[KeyItems] = []*dom.Node(nil)
	return p
}

// Handlers implements behavior.HandlerProvider.
func (*ContentItems) Handlers(next func() []state.Handler) []state.Handler {
	return append(next(), state.Handler{
		Name:  "content-items",
		Watch: []string{KeyContent},
		Fn: func(s state.State) state.Patch {
			content := Content(s)
			if content == nil {
				return state.Patch{KeyItems: []*dom.Node(nil)}
			}
			return state.Patch{KeyItems: Substantive(content)}
		},
	})
}

// Props implements behavior.PropsContributor.
func (c *ContentItems) Props(s state.State, next func() props.Props) props.Props {
	content := Content(s)
	if content == nil {
		return next()
	}
	own := props.Props{Content: content}
	if c.Part != "" {
		own = props.Part(c.Part, own)
	}
	return props.Merge(next(), own)
}

// Render implements behavior.RenderHook.
func (c *ContentItems) Render(h behavior.Host, u behavior.Update, next func() error) error {
	if err := next(); err != nil {
		return err
	}
	if c.ItemProps == nil {
		return nil
	}
	if c.original == nil {
		c.original = make(map[*dom.Node]props.Props)
	}
	s := h.State()
	items := Items(s)
	live := make(map[*dom.Node]bool, len(items))
	for i, item := range items {
		live[item] = true
		original, ok := c.original[item]
		if !ok {
			original = props.Current(item)
			c.original[item] = original
		}
		if err := props.Apply(item, c.ItemProps(s, item, i, original), nil); err != nil {
			return err
		}
	}
	for item := range c.original {
		if !live[item] {
			delete(c.original, item)
		}
	}
	return nil
}

// SetContent replaces the element's content.
func SetContent(h behavior.Host, content ...*dom.Node) error {
	if content == nil {
		content = []*dom.Node{}
	}
	return h.SetState(state.Patch{KeyContent: content})
}
