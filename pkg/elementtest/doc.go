// Package elementtest provides testing helpers for elements.
//
// The elementtest package reduces the boilerplate of standing up a loop, a
// scheduler and an element in tests by providing a fluent builder, event
// shorthands and render assertions.
//
// # Quick Start
//
//	func TestListBoxSelects(t *testing.T) {
//	    h := elementtest.New(behaviors.ListBox()...).
//	        WithContent(behaviors.TextItems("a", "b")...).
//	        Mount(t)
//	    h.Key("ArrowDown")
//	    h.ExpectState("selectedIndex", 0)
//	    h.ExpectAttribute("option-0", "aria-selected", "true")
//	}
//
// # Fluent Builder
//
// The builder chains setup before the first render:
//
//	h := elementtest.New(bs...).
//	    WithTag("my-list").
//	    WithState("selectionWraps", true).
//	    Mount(t)
//
// # Events
//
// Every host event is recorded in order. Events returns them and clears the
// record:
//
//	h.Click(1)
//	h.Press("toggle")
//	got := h.Events()
package elementtest
