// Package behaviors contains reusable element behaviors.
//
// Each behavior is a value that carries its own configuration, so create a
// fresh one per element:
//
//	el, err := element.New("elix-list-box", sched, element.Options{},
//		behaviors.ListBox()...)
//
// Behaviors agree on a small set of state keys:
//
//	content            []*dom.Node  nodes supplied by the host
//	items              []*dom.Node  substantive content, derived from content
//	selectedIndex      int          -1 for no selection
//	selectionRequired  bool
//	selectionWraps     bool
//	opened             bool
//	enableTransitions  bool
//
// Change notifications are emitted only for changes that came from user
// interaction. Programmatic changes made with SetState are silent.
package behaviors

import (
	"github.com/elix-dev/elix/pkg/dom"
	"github.com/elix-dev/elix/pkg/state"
)

// State keys shared between behaviors.
const (
	KeyContent           = "content"
	KeyItems             = "items"
	KeySelectedIndex     = "selectedIndex"
	KeySelectionRequired = "selectionRequired"
	KeySelectionWraps    = "selectionWraps"
	KeyOpened            = "opened"
	KeyEnableTransitions = "enableTransitions"
)

// Items returns the items in s, or nil.
func Items(s state.State) []*dom.Node {
	items, _ := s.Get(KeyItems).([]*dom.Node)
	return items
}

// Content returns the content in s, or nil.
func Content(s state.State) []*dom.Node {
	content, _ := s.Get(KeyContent).([]*dom.Node)
	return content
}

// SelectedIndex returns the selected index in s, or -1.
func SelectedIndex(s state.State) int {
	if i, ok := s.Get(KeySelectedIndex).(int); ok {
		return i
	}
	return -1
}

// Opened reports whether s is open.
func Opened(s state.State) bool {
	opened, _ := s.Get(KeyOpened).(bool)
	return opened
}

func boolValue(s state.State, key string) bool {
	b, _ := s.Get(key).(bool)
	return b
}
