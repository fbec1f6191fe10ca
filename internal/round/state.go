// Package round implements the round engine: spawning, motion, catch
// detection and the countdown for one timed round.
//
// State is a value type. Every transition returns a new State and never writes
// to the Items backing array of its receiver, so a published State can be read
// from other goroutines while the owner keeps advancing.
package round

import (
	"math"
	"slices"
	"time"

	"github.com/tomz197/gonuts/internal/physics"
)

// Phase is the round lifecycle. Ended is terminal.
type Phase int

const (
	NotStarted Phase = iota
	Running
	Ended
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Rand is a source of uniform floats in [0,1).
type Rand interface {
	Float64() float64
}

// State holds all gameplay state for one round.
type State struct {
	Phase         Phase
	Score         int
	Caught        int // Number of captures
	TimeRemaining int // Seconds
	CatcherX      float64
	Items         []Item
	NextID        int  // Last assigned item ID
	Aborted       bool // Ended by teardown, not by the clock
}

// NewState returns a round that has not started yet.
func NewState() State {
	return State{
		Phase:         NotStarted,
		TimeRemaining: RoundSeconds,
		CatcherX:      CatcherStart,
		Items:         []Item{},
	}
}

// Running reports whether the round accepts mutations.
func (s State) Running() bool {
	return s.Phase == Running
}

// Intense reports whether the round is in its second, faster phase.
func (s State) Intense() bool {
	return Intense(s.TimeRemaining)
}

// Intense reports whether timeRemaining falls in the intense phase.
func Intense(timeRemaining int) bool {
	return timeRemaining <= IntenseSeconds
}

// Start moves a NotStarted round to Running.
func (s State) Start() State {
	if s.Phase != NotStarted {
		return s
	}
	s.Phase = Running
	return s
}

// MoveCatcher stores a new catcher position clamped to the catcher range.
// Ignored unless the round is running.
func (s State) MoveCatcher(fieldX float64) State {
	if s.Phase != Running || math.IsNaN(fieldX) {
		return s
	}
	s.CatcherX = physics.Clamp(fieldX, CatcherMin, CatcherMax)
	return s
}

// Tick advances the countdown by one second. Reaching zero ends the round.
func (s State) Tick() State {
	if s.Phase != Running {
		return s
	}
	s.TimeRemaining = physics.ClampInt(s.TimeRemaining-1, 0, RoundSeconds)
	if s.TimeRemaining == 0 {
		s.Phase = Ended
	}
	return s
}

// Frame advances every item by one step, captures items crossing the catch
// zone and drops items that left the field. Caught items keep falling but are
// never scored again.
func (s State) Frame() (State, []Catch) {
	if s.Phase != Running {
		return s, nil
	}

	var catches []Catch
	next := s
	next.Items = make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		it.Y += it.FallSpeed
		it.Rotation += it.RotationSpeed

		if !it.Caught && caughtBy(it, s.CatcherX) {
			it.Caught = true
			pts := it.Category.Points()
			next.Score += pts
			next.Caught++
			catches = append(catches, Catch{
				ItemID:   it.ID,
				Category: it.Category,
				Points:   pts,
				X:        it.X,
				Y:        it.Y,
			})
		}

		if it.Y >= OffFieldY {
			continue
		}
		next.Items = append(next.Items, it)
	}
	return next, catches
}

// caughtBy checks the post-move position against the catch zone and band.
func caughtBy(it Item, catcherX float64) bool {
	return physics.WithinZone(it.X, catcherX, CatchZoneWidth) &&
		physics.InBand(it.Y, CatchBandTop, CatchBandBottom)
}

// Spawn appends one new item and returns the delay until the next spawn.
// Random draws are taken in a fixed order: x, category, speed jitter,
// rotation, rotation speed.
func (s State) Spawn(r Rand) (State, time.Duration) {
	if s.Phase != Running {
		return s, 0
	}

	intense := s.Intense()
	x := SpawnXMin + r.Float64()*SpawnXSpan
	category := RollCategory(r.Float64())
	speed := FallSpeed(s.TimeRemaining, r.Float64()*FallSpeedJitter)
	rotation := r.Float64() * 360
	spread := RotationSpreadNormal
	if intense {
		spread = RotationSpreadIntense
	}
	rotationSpeed := (r.Float64() - 0.5) * spread

	s.NextID++
	item := Item{
		ID:            s.NextID,
		X:             x,
		Y:             SpawnY,
		Size:          category.Size(),
		FallSpeed:     speed,
		Category:      category,
		Rotation:      rotation,
		RotationSpeed: rotationSpeed,
	}
	// Clip forces a fresh backing array so published snapshots stay intact.
	s.Items = append(slices.Clip(s.Items), item)

	return s, SpawnDelay(s.TimeRemaining)
}

// FallSpeed returns the fall speed for an item spawned with timeRemaining
// seconds left, plus the given jitter.
func FallSpeed(timeRemaining int, jitter float64) float64 {
	elapsed := float64(RoundSeconds - timeRemaining)
	multiplier := 1.0
	if Intense(timeRemaining) {
		multiplier = IntenseMultiplier
	}
	return (BaseFallSpeed+elapsed*FallSpeedRamp)*multiplier + jitter
}

// SpawnDelay returns the delay before the next spawn with timeRemaining
// seconds left.
func SpawnDelay(timeRemaining int) time.Duration {
	elapsed := RoundSeconds - timeRemaining
	var ms int
	if Intense(timeRemaining) {
		ms = max(IntenseDelayFloor, IntenseDelayStart-(elapsed-IntenseSeconds)*IntenseDelayStep)
	} else {
		ms = max(NormalDelayFloor, NormalDelayStart-elapsed*NormalDelayStep)
	}
	return time.Duration(ms) * time.Millisecond
}
