// Package config centralizes all tunable session and rendering parameters.
// Round tuning lives in the round package.
package config

import "time"

// View resolution - the play field in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 120 // Logical field width
	ViewHeight = 80  // Logical field height (in sub-pixels, so 40 terminal rows)
)

// Max render resolution. Larger terminals get a centred, bordered field.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Catcher keyboard control
const (
	KeyNudgePercent = 1.5 // Field percent per frame while an arrow key is held
)

// Effects
const (
	SparkleCount    = 12
	SparkleSpeed    = 40.0 // Field percent per second
	SparkleLifetime = 0.6  // Seconds
)

// Claim form
const (
	MaxNameLength  = 24
	MaxEmailLength = 64
)

// HUD
const (
	HurryUpSeconds = 10 // Timer is highlighted from here down
	IntenseBanner  = 31 // "INTENSE MODE!" shows while exactly this many seconds remain
	MoveHintAbove  = 57 // "MOVE TO CATCH!" shows while more seconds than this remain
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate. The hub only handles registrations and lobby snapshots.
const (
	ServerTickRate = 10
	ServerTickTime = time.Second / ServerTickRate
)
