package round

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameRate is the motion update rate in frames per second.
const DefaultFrameRate = 60

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Options
	FrameRate int // Defaults to DefaultFrameRate
}

// Runner drives an Engine in real time on its own goroutine. Pointer moves are
// queued and applied before the next frame; snapshots are published after
// every frame.
type Runner struct {
	engine        *Engine
	frameInterval time.Duration

	pointerCh chan float64
	catchCh   chan Catch
	snapCh    chan State
	snapshot  atomic.Pointer[State]

	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
	started  atomic.Bool
}

// NewRunner creates a runner. Call Run (or use StartRound) to play.
func NewRunner(opts RunnerOptions) *Runner {
	rate := opts.FrameRate
	if rate <= 0 {
		rate = DefaultFrameRate
	}
	r := &Runner{
		engine:        NewEngine(opts.Options),
		frameInterval: time.Second / time.Duration(rate),
		pointerCh:     make(chan float64, 64),
		catchCh:       make(chan Catch, 64),
		snapCh:        make(chan State, 1),
		quit:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	initial := r.engine.State()
	r.snapshot.Store(&initial)
	return r
}

// StartRound creates a runner and starts it on a new goroutine.
func StartRound(ctx context.Context, opts RunnerOptions) *Runner {
	r := NewRunner(opts)
	r.started.Store(true)
	go r.run(ctx)
	return r
}

// Run plays the round. Blocks until the round ends, the context is cancelled
// or Stop is called.
func (r *Runner) Run(ctx context.Context) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	r.run(ctx)
}

func (r *Runner) run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.frameInterval)
	defer ticker.Stop()

	r.engine.Start()
	r.publish()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			r.teardown()
			return
		case <-r.quit:
			r.teardown()
			return
		default:
		}

		select {
		case <-ctx.Done():
			r.teardown()
			return
		case <-r.quit:
			r.teardown()
			return
		case x := <-r.pointerCh:
			r.engine.PointerMove(x)
		case now := <-ticker.C:
			r.engine.Advance(now.Sub(last))
			last = now
			for _, c := range r.engine.Frame() {
				select {
				case r.catchCh <- c:
				default:
					// Nobody draining, drop the effect
				}
			}
			r.publish()
			if r.engine.State().Phase == Ended {
				return
			}
		}
	}
}

func (r *Runner) teardown() {
	r.engine.Stop()
	r.publish()
}

// publish stores the latest snapshot and offers it on the stream, replacing
// any snapshot the consumer has not read yet.
func (r *Runner) publish() {
	s := r.engine.State()
	r.snapshot.Store(&s)
	select {
	case r.snapCh <- s:
		return
	default:
	}
	select {
	case <-r.snapCh:
	default:
	}
	select {
	case r.snapCh <- s:
	default:
	}
}

// PointerMove queues a catcher move. Dropped if the queue is full.
func (r *Runner) PointerMove(fieldX float64) {
	select {
	case r.pointerCh <- fieldX:
	default:
	}
}

// Snapshot returns the most recently published state.
func (r *Runner) Snapshot() State {
	return *r.snapshot.Load()
}

// Snapshots streams published states, latest wins.
func (r *Runner) Snapshots() <-chan State {
	return r.snapCh
}

// Catches streams captures for visual effects. Best effort.
func (r *Runner) Catches() <-chan Catch {
	return r.catchCh
}

// Done is closed once the runner goroutine has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Stop tears the round down and waits for the runner to exit.
func (r *Runner) Stop() {
	r.quitOnce.Do(func() {
		close(r.quit)
	})
	if r.started.Load() {
		<-r.done
	}
}
