// Package props describes and merges desired node state.
//
// A Props value is a declarative patch: which attributes, classes, style
// properties, free-form properties and children a node should have, plus
// patches for named parts of the element's template. Independently written
// behaviors each contribute a Props value; Merge combines them leaf by leaf
// with the rightmost contribution winning, and Apply writes the result to a
// node tree.
//
//	p := props.Merge(base, props.Props{
//	    Classes: map[string]bool{"opened": true},
//	    Parts: map[string]props.Props{
//	        "frame": {Style: map[string]string{"visibility": "visible"}},
//	    },
//	})
package props
