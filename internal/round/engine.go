package round

import (
	"math/rand/v2"
	"time"
)

// Options configures an Engine.
type Options struct {
	Rand         Rand            // Defaults to math/rand/v2
	OnEnd        func(score int) // Fired once when the clock reaches zero
	TickInterval time.Duration   // Countdown period, defaults to DefaultTick
	FirstSpawn   time.Duration   // Delay before the first spawn, defaults to DefaultFirstSpawn
}

// Engine owns one round and schedules its clock and spawner against round
// time. It is not safe for concurrent use; a single goroutine drives it (see
// Runner).
type Engine struct {
	state        State
	rand         Rand
	onEnd        func(score int)
	tickInterval time.Duration
	firstSpawn   time.Duration

	now        time.Duration // Round time since Start
	nextTick   time.Duration
	nextSpawn  time.Duration
	spawnArmed bool
	reported   bool
}

// NewEngine creates an engine for a round that has not started.
func NewEngine(opts Options) *Engine {
	r := opts.Rand
	if r == nil {
		r = globalRand{}
	}
	tick := opts.TickInterval
	if tick <= 0 {
		tick = DefaultTick
	}
	first := opts.FirstSpawn
	if first <= 0 {
		first = DefaultFirstSpawn
	}
	return &Engine{
		state:        NewState(),
		rand:         r,
		onEnd:        opts.OnEnd,
		tickInterval: tick,
		firstSpawn:   first,
	}
}

// Start begins the round and arms the clock and spawner.
func (e *Engine) Start() {
	if e.state.Phase != NotStarted {
		return
	}
	e.state = e.state.Start()
	e.now = 0
	e.nextTick = e.tickInterval
	e.nextSpawn = e.firstSpawn
	e.spawnArmed = true
}

// State returns the current round state.
func (e *Engine) State() State {
	return e.state
}

// Now returns round time elapsed since Start.
func (e *Engine) Now() time.Duration {
	return e.now
}

// Advance moves round time forward by d, firing every clock tick and spawn
// that falls due, in order. The clock wins ties. Once the clock ends the
// round nothing else due in d runs.
func (e *Engine) Advance(d time.Duration) {
	if e.state.Phase != Running || d <= 0 {
		return
	}

	end := e.now + d
	for e.state.Phase == Running {
		at := e.nextTick
		spawn := e.spawnArmed && e.nextSpawn < at
		if spawn {
			at = e.nextSpawn
		}
		if at > end {
			break
		}
		e.now = at

		if spawn {
			var delay time.Duration
			e.state, delay = e.state.Spawn(e.rand)
			e.nextSpawn = e.now + delay
			continue
		}

		e.state = e.state.Tick()
		e.nextTick += e.tickInterval
		if e.state.Phase == Ended {
			e.finish()
		}
	}

	if e.state.Phase == Running {
		e.now = end
	}
}

// Frame runs one motion and catch step and returns the captures it made.
func (e *Engine) Frame() []Catch {
	if e.state.Phase != Running {
		return nil
	}
	var catches []Catch
	e.state, catches = e.state.Frame()
	return catches
}

// PointerMove moves the catcher to a field-relative percentage.
func (e *Engine) PointerMove(fieldX float64) {
	e.state = e.state.MoveCatcher(fieldX)
}

// Stop tears the round down without reporting a score.
func (e *Engine) Stop() {
	e.spawnArmed = false
	e.reported = true
	if e.state.Phase == Ended {
		return
	}
	e.state.Phase = Ended
	e.state.Aborted = true
}

func (e *Engine) finish() {
	e.spawnArmed = false
	if e.reported {
		return
	}
	e.reported = true
	if e.onEnd != nil {
		e.onEnd(e.state.Score)
	}
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
