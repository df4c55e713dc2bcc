package state

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/elix-dev/elix/internal/errors"
)

// DefaultMaxPasses caps the handler passes a single Set may take.
const DefaultMaxPasses = 100

// ErrNotSettled is matched (via errors.Is) by errors returned when change
// handlers keep producing changes past the pass limit.
var ErrNotSettled = errors.New("E001")

// Handler reacts to changes of specific state keys.
type Handler struct {
	// Name identifies the handler in errors and logs.
	Name string

	// Watch lists the keys the handler reacts to. An empty list means any key.
	Watch []string

	// Fn receives the fully merged candidate state, including patches from
	// handlers earlier in the same pass, and returns a patch, or nil
	// when it has nothing to change.
	Fn func(State) Patch
}

func (h Handler) watches(changed map[string]bool) bool {
	if len(h.Watch) == 0 {
		return len(changed) > 0
	}
	for _, k := range h.Watch {
		if changed[k] {
			return true
		}
	}
	return false
}

// Options configures a Store.
type Options struct {
	// MaxPasses caps handler passes per update. Default: DefaultMaxPasses.
	MaxPasses int

	// Logger receives debug output. Default: slog.Default().
	Logger *slog.Logger
}

// Result describes a committed update.
type Result struct {
	// Changed lists, sorted, the keys whose values differ from the state
	// before the update.
	Changed []string

	// Passes counts the handler passes that produced further changes.
	Passes int
}

// Store owns an element's current state.
//
// A Store is not safe for concurrent use; it belongs to its element's loop.
type Store struct {
	state     State
	handlers  []Handler
	maxPasses int
	logger    *slog.Logger
}

// NewStore creates a store whose initial state is initial settled through
// handlers. Handlers run in slice order within each pass.
func NewStore(initial Patch, handlers []Handler, opts Options) (*Store, error) {
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = DefaultMaxPasses
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default().With("component", "state")
	}

	s := &Store{
		handlers:  append([]Handler(nil), handlers...),
		maxPasses: opts.MaxPasses,
		logger:    opts.Logger,
	}

	candidate, changed := State{}.with(initial)
	settled, _, err := s.settle(candidate, changed)
	if err != nil {
		return nil, err
	}
	settled.generation = 1
	settled.settled = true
	s.state = settled
	return s, nil
}

// State returns the current settled snapshot.
func (s *Store) State() State {
	return s.state
}

// Set merges patch into the current state and settles the result.
//
// An empty patch, or one that changes nothing, returns a zero Result and
// leaves the state (and its generation) untouched. When handlers fail to
// settle, Set returns an error matching ErrNotSettled and nothing is
// committed.
func (s *Store) Set(patch Patch) (Result, error) {
	if len(patch) == 0 {
		return Result{}, nil
	}

	prev := s.state
	candidate, changed := prev.with(patch)
	if len(changed) == 0 {
		return Result{}, nil
	}

	settled, passes, err := s.settle(candidate, changed)
	if err != nil {
		return Result{}, err
	}

	final := Diff(prev, settled)
	if len(final) == 0 {
		// Handlers put everything back.
		return Result{Passes: passes}, nil
	}

	settled.generation = prev.generation + 1
	settled.settled = true
	s.state = settled
	return Result{Changed: final, Passes: passes}, nil
}

// settle runs handler passes until one produces no change.
func (s *Store) settle(candidate State, changed []string) (State, int, error) {
	passes := 0
	for len(changed) > 0 && len(s.handlers) > 0 {
		trigger := make(map[string]bool, len(changed))
		for _, k := range changed {
			trigger[k] = true
		}

		// Handlers run in order; each sees the patches of the ones before it.
		start := candidate
		var producers []string
		for _, h := range s.handlers {
			if !h.watches(trigger) {
				continue
			}
			p := h.Fn(candidate)
			if len(p) == 0 {
				continue
			}
			next, d := candidate.with(p)
			if len(d) == 0 {
				continue
			}
			candidate = next
			producers = append(producers, h.Name)
		}

		delta := Diff(start, candidate)
		if len(delta) == 0 {
			break
		}

		passes++
		if passes > s.maxPasses {
			names := uniqueSorted(producers)
			s.logger.Error("state did not settle",
				"passes", s.maxPasses,
				"handlers", names,
				"keys", delta)
			return State{}, passes, errors.New("E001").
				WithDetailf("handlers [%s] still changing %v after %d passes",
					strings.Join(names, ", "), delta, s.maxPasses).
				WithSuggestion("Make change handlers return nil once the state they produce is already in place")
		}

		changed = delta
	}
	return candidate, passes, nil
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			n = "<unnamed>"
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
