// Package template holds the node skeletons elements render into.
//
// A Template is a detached fragment: a list of top-level nodes, some of which
// carry ids. Nodes with ids are parts; an element's props can address them by
// name. Behaviors build on one another's templates by taking the inner
// template and replacing or requiring parts:
//
//	t, err := next()
//	if err != nil {
//		return nil, err
//	}
//	if err := t.Replace("stage", dom.NewElement("ul").SetID("stage")); err != nil {
//		return nil, err
//	}
//	return t, nil
//
// Templates can also be described in YAML and loaded with Parse:
//
//	- tag: div
//	  id: frame
//	  class: frame dark
//	  style: "display: flex"
//	  attrs: {role: listbox}
//	  children:
//	    - text: Loading
//	    - tag: slot
//
// An element instantiates its template once, on first render, with
// Instantiate. The instance owns a deep copy, so one Template can back any
// number of elements.
package template
