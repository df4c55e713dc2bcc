package behaviors

import (
	"time"

	"github.com/elix-dev/elix/pkg/behavior"
	"github.com/elix-dev/elix/pkg/props"
	"github.com/elix-dev/elix/pkg/state"
)

// DefaultTransition is the CSS transition used when Transitions.Transition
// is empty.
const DefaultTransition = "transform 0.25s"

// Transitions turns on CSS transitions shortly after the first render, so
// the element's initial appearance is not animated.
type Transitions struct {
	// Delay is how long after mounting transitions are enabled.
	Delay time.Duration

	// Transition is the CSS transition value. Default: DefaultTransition.
	Transition string
}

// NewTransitions returns a Transitions that enables after delay.
func NewTransitions(delay time.Duration) *Transitions {
	return &Transitions{Delay: delay}
}

// Name implements behavior.Behavior.
func (*Transitions) Name() string { return "transitions" }

// DefaultState implements behavior.DefaultStater.
func (*Transitions) DefaultState(next func() state.Patch) state.Patch {
	p := next()
	p[KeyEnableTransitions] = false
	return p
}

// Props implements behavior.PropsContributor.
func (b *Transitions) Props(s state.State, next func() props.Props) props.Props {
	transition := ""
	if boolValue(s, KeyEnableTransitions) {
		transition = b.Transition
		if transition == "" {
			transition = DefaultTransition
		}
	}
	return props.Merge(next(), props.Style("transition", transition))
}

// DidMount implements behavior.Mounter.
func (b *Transitions) DidMount(h behavior.Host, next func()) {
	next()
	h.After(b.Delay, func() {
		if err := h.SetState(state.Patch{KeyEnableTransitions: true}); err != nil {
			h.Report(err)
		}
	})
}
