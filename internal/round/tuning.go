package round

import "time"

// Round timing. Positions are percentages of the play field.
const (
	RoundSeconds      = 60 // Countdown start
	IntenseSeconds    = 30 // Intense phase once TimeRemaining <= this
	DefaultTick       = time.Second
	DefaultFirstSpawn = 600 * time.Millisecond
)

// Catcher and catch geometry
const (
	CatcherStart    = 50.0
	CatcherMin      = 12.0
	CatcherMax      = 88.0
	CatchZoneWidth  = 24.0 // Catch if |item.X - CatcherX| < width/2
	CatchBandTop    = 62.0
	CatchBandBottom = 74.0
	OffFieldY       = 110.0 // Items at or below this are dropped
)

// Spawning
const (
	SpawnY                = -10.0 // Above the visible field
	SpawnXMin             = 10.0
	SpawnXSpan            = 80.0 // X is uniform in [SpawnXMin, SpawnXMin+SpawnXSpan)
	BaseFallSpeed         = 0.7
	FallSpeedRamp         = 0.02 // Added per elapsed second
	IntenseMultiplier     = 1.8
	FallSpeedJitter       = 0.4
	RotationSpreadNormal  = 8.0
	RotationSpreadIntense = 12.0
)

// Spawn delay (milliseconds)
const (
	NormalDelayStart  = 650
	NormalDelayStep   = 5
	NormalDelayFloor  = 450
	IntenseDelayStart = 400
	IntenseDelayStep  = 10
	IntenseDelayFloor = 180
)

// Item sizes (render diameter)
const (
	SizeRegular = 45
	SizeJackpot = 55
)
