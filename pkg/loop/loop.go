// Package loop provides the cooperative, single-goroutine event loop that
// elix elements live on.
//
// Work reaches a loop as tasks. Each task runs as one turn: the task itself,
// then every microtask queued while the turn is in progress, including
// microtasks queued by other microtasks. Nothing from the next task starts
// until the turn's microtask queue is empty. The render scheduler uses
// microtasks to batch every state change made during a turn into one render
// per element.
//
// Post is the only method that may be called from other goroutines.
// Everything else belongs to the goroutine running the loop.
package loop

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/elix-dev/elix/internal/errors"
)

// DefaultQueueSize is the task buffer size used when Options.QueueSize is unset.
const DefaultQueueSize = 256

var (
	// ErrClosed is matched by errors from Post after Close.
	ErrClosed = errors.New("E005")

	// ErrQueueFull is matched by errors from Post when the task buffer is full.
	ErrQueueFull = errors.New("E006")
)

// Options configures a Loop.
type Options struct {
	// QueueSize is the capacity of the posted task buffer.
	// Default: DefaultQueueSize.
	QueueSize int

	// Logger receives panic reports. Default: slog.Default().
	Logger *slog.Logger
}

// Loop is a single-threaded task and microtask queue.
type Loop struct {
	tasks  chan func()
	micro  []func()
	inTurn bool

	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once

	logger *slog.Logger
}

// New creates a Loop. It does nothing until Run or Turn is called.
func New(opts Options) *Loop {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default().With("component", "loop")
	}
	return &Loop{
		tasks:  make(chan func(), opts.QueueSize),
		done:   make(chan struct{}),
		logger: opts.Logger,
	}
}

var (
	defaultLoop     *Loop
	defaultLoopOnce sync.Once
)

// Default returns the process-wide loop.
func Default() *Loop {
	defaultLoopOnce.Do(func() {
		defaultLoop = New(Options{})
	})
	return defaultLoop
}

// Post queues fn to run as a later turn. It is safe to call from any goroutine.
func (l *Loop) Post(fn func()) error {
	if l.closed.Load() {
		return ErrClosed
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	default:
		l.logger.Warn("task queue full, discarding task")
		return ErrQueueFull
	}
}

// QueueMicrotask queues fn to run before the current turn ends.
// Outside a turn, fn runs at the end of the next turn.
func (l *Loop) QueueMicrotask(fn func()) {
	l.micro = append(l.micro, fn)
}

// InTurn reports whether a turn is in progress.
func (l *Loop) InTurn() bool {
	return l.inTurn
}

// Turn runs fn as a turn on the calling goroutine: fn first, then the
// microtask queue until it is empty. A panic in fn or a microtask is
// recovered and logged; the remaining microtasks still run.
//
// Turn must not be called while Run is executing on another goroutine.
// A Turn started from inside a turn just runs fn; the enclosing turn
// drains the microtasks.
func (l *Loop) Turn(fn func()) {
	if l.inTurn {
		l.safeRun("task", fn)
		return
	}
	l.inTurn = true
	defer func() { l.inTurn = false }()

	l.safeRun("task", fn)
	l.drainMicrotasks()
}

func (l *Loop) drainMicrotasks() {
	for len(l.micro) > 0 {
		fn := l.micro[0]
		l.micro[0] = nil
		l.micro = l.micro[1:]
		l.safeRun("microtask", fn)
	}
	l.micro = nil
}

func (l *Loop) safeRun(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error(kind+" panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Run processes posted tasks, one turn each, until ctx is done or the loop
// is closed. It returns ctx.Err() or nil after Close.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-l.tasks:
			l.Turn(fn)
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		}
	}
}

// RunPending runs every task already posted, one turn each, and returns how
// many ran. It does not wait for new tasks. Intended for embedding the loop
// in a host that drives it manually, and for tests.
func (l *Loop) RunPending() int {
	n := 0
	for {
		select {
		case fn := <-l.tasks:
			l.Turn(fn)
			n++
		default:
			return n
		}
	}
}

// AfterFunc posts fn as a turn once d has elapsed. It is the loop's
// timer-equivalent; the returned timer can be stopped before it fires.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(d, func() {
		if err := l.Post(fn); err != nil && !errors.HasCode(err, "E005") {
			l.logger.Warn("timer task dropped", "error", err)
		}
	})
}

// Close stops the loop. Pending tasks are discarded and Post fails afterwards.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.done)
	})
}

// Done returns a channel closed when the loop is closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
