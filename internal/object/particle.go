package object

import (
	"math"
	"math/rand/v2"
	"sync"
)

const (
	sparkleDrag    = 0.92 // Velocity kept per 60Hz frame
	sparkleGravity = 25.0 // Field percent per second squared
)

var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived sparkle. Position and velocity are in field
// percent (per second for velocity).
type Particle struct {
	X, Y        float64
	VX, VY      float64
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64
}

// NewParticle takes a particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{X: x, Y: y, VX: vx, VY: vy, Lifetime: lifetime, MaxLifetime: lifetime}
	return p
}

// Release returns the particle to the pool.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnSparkles bursts count sparkles out of (x, y), mostly upwards like
// sugar flicked off a donut.
func SpawnSparkles(x, y float64, count int, speed, lifetime float64, spawner Spawner) {
	if spawner == nil {
		return
	}
	for range count {
		angle := -math.Pi * rand.Float64()
		spd := speed * (0.5 + rand.Float64())
		life := lifetime * (0.5 + rand.Float64()*0.5)
		spawner.Spawn(NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life))
	}
}

// Update moves the particle. Reports true once it has burnt out.
func (p *Particle) Update(ctx UpdateContext) bool {
	dt := ctx.Delta.Seconds()
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}

	drag := math.Pow(sparkleDrag, dt*60)
	p.VX *= drag
	p.VY = p.VY*drag + sparkleGravity*dt
	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false
}

// Draw plots the sparkle. In its last quarter it twinkles out.
func (p *Particle) Draw(ctx DrawContext) error {
	if p.MaxLifetime > 0 && p.Lifetime < p.MaxLifetime/4 && !ShouldRenderBlink(p.Lifetime, 20) {
		return nil
	}
	ctx.Canvas.SetInk(ctx.Palette.Sparkle)
	ctx.Canvas.Plot(ctx.Field.Point(p.X, p.Y))
	return nil
}

// Compile-time check that Particle implements Object and Releasable.
var (
	_ Object     = (*Particle)(nil)
	_ Releasable = (*Particle)(nil)
)
