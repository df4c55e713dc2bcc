package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/elix-dev/elix/internal/errors"
	"github.com/elix-dev/elix/pkg/behavior"
	"github.com/elix-dev/elix/pkg/behaviors"
	"github.com/elix-dev/elix/pkg/dom"
	"github.com/elix-dev/elix/pkg/element"
	"github.com/elix-dev/elix/pkg/render"
	"github.com/elix-dev/elix/pkg/state"
)

// Kind is one buildable element kind.
type Kind struct {
	// Name is the registry key, e.g. "list-box".
	Name string

	// Tag is the host node's tag name.
	Tag string

	// Description is a one-line summary for help output.
	Description string

	// Behaviors returns a fresh behavior chain, outermost first. Behaviors
	// may hold per-element state, so each element needs its own.
	Behaviors func() []behavior.Behavior
}

var kinds = map[string]Kind{
	"list-box": {
		Name:        "list-box",
		Tag:         "elix-list-box",
		Description: "Single-selection list with keyboard and tap selection",
		Behaviors:   behaviors.ListBox,
	},
	"disclosure": {
		Name:        "disclosure",
		Tag:         "elix-disclosure",
		Description: "Toggle button that shows and hides a panel",
		Behaviors:   func() []behavior.Behavior { return behaviors.Disclosure("Details") },
	},
	"plain": {
		Name:        "plain",
		Tag:         "elix-plain",
		Description: "Content with explicit attributes and nothing else",
		Behaviors:   behaviors.Plain,
	},
}

// Names returns the registered kind names, sorted.
func Names() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the kind registered as name.
func Lookup(name string) (Kind, error) {
	k, ok := kinds[name]
	if !ok {
		return Kind{}, errors.New("E021").
			WithDetailf("unknown element kind %q", name).
			WithSuggestion(fmt.Sprintf("Use one of: %s", strings.Join(Names(), ", ")))
	}
	return k, nil
}

// DemoContent returns the kind's embedded demo content as fresh nodes.
func (k Kind) DemoContent() ([]*dom.Node, error) {
	return demoContent(k.Name)
}

// New builds an element of this kind on sched and seeds it with content.
// A nil content leaves the element empty.
func (k Kind) New(sched *render.Scheduler, opts element.Options, content []*dom.Node) (*element.Element, error) {
	el, err := element.New(k.Tag, sched, opts, k.Behaviors()...)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return el, nil
	}
	if err := el.SetState(state.Patch{behaviors.KeyContent: content}); err != nil {
		return nil, err
	}
	return el, nil
}
