// Package dom is the small, platform-independent node tree that elix
// elements render into.
//
// A Node is either an element (tag, attributes, classes, style, properties,
// children) or a text node. Props patches from package props are applied to
// nodes, templates from package template are node skeletons, and the tree
// can be serialized to HTML for server rendering and snapshots.
//
// Nodes are not safe for concurrent use. Each tree belongs to the loop of the
// element that owns it.
package dom
