package round

import (
	"testing"
	"time"
)

// seqRand returns prefix values once, then cycles through loop.
type seqRand struct {
	prefix []float64
	loop   []float64
	n      int
}

func (r *seqRand) Float64() float64 {
	defer func() { r.n++ }()
	if r.n < len(r.prefix) {
		return r.prefix[r.n]
	}
	return r.loop[(r.n-len(r.prefix))%len(r.loop)]
}

func runningState() State {
	return NewState().Start()
}

func TestRollCategoryBoundaries(t *testing.T) {
	tests := []struct {
		roll float64
		want Category
	}{
		{0, Common},
		{0.6999, Common},
		{0.70, Uncommon},
		{0.8799, Uncommon},
		{0.88, Rare},
		{0.979999, Rare},
		{0.98, Jackpot},
		{0.9999, Jackpot},
	}
	for _, tt := range tests {
		if got := RollCategory(tt.roll); got != tt.want {
			t.Errorf("RollCategory(%v) = %v, want %v", tt.roll, got, tt.want)
		}
	}
}

func TestCategoryPointsAndSize(t *testing.T) {
	tests := []struct {
		c      Category
		points int
		size   int
	}{
		{Common, 10, 45},
		{Uncommon, 15, 45},
		{Rare, 30, 45},
		{Jackpot, 100, 55},
	}
	for _, tt := range tests {
		if got := tt.c.Points(); got != tt.points {
			t.Errorf("%v.Points() = %d, want %d", tt.c, got, tt.points)
		}
		if got := tt.c.Size(); got != tt.size {
			t.Errorf("%v.Size() = %d, want %d", tt.c, got, tt.size)
		}
	}
}

func TestSpawnDelay(t *testing.T) {
	tests := []struct {
		timeRemaining int
		want          time.Duration
	}{
		{60, 650 * time.Millisecond},
		{50, 600 * time.Millisecond},
		{31, 505 * time.Millisecond},
		{30, 400 * time.Millisecond},
		{20, 300 * time.Millisecond},
		{5, 180 * time.Millisecond},
		{0, 180 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := SpawnDelay(tt.timeRemaining); got != tt.want {
			t.Errorf("SpawnDelay(%d) = %v, want %v", tt.timeRemaining, got, tt.want)
		}
	}
}

func TestFallSpeed(t *testing.T) {
	const eps = 1e-9
	if got := FallSpeed(60, 0); got < 0.7-eps || got > 0.7+eps {
		t.Errorf("FallSpeed(60, 0) = %v, want 0.7", got)
	}
	// elapsed 40, intense: (0.7 + 0.8) * 1.8 + 0.2
	if got, want := FallSpeed(20, 0.2), 2.9; got < want-eps || got > want+eps {
		t.Errorf("FallSpeed(20, 0.2) = %v, want %v", got, want)
	}
}

func TestFrameCatchesItemEnteringBand(t *testing.T) {
	s := runningState()
	s.Items = []Item{{ID: 1, X: 50, Y: 61.9, FallSpeed: 0.2, Category: Common}}

	next, catches := s.Frame()

	if len(catches) != 1 || catches[0].ItemID != 1 || catches[0].Points != 10 {
		t.Fatalf("catches = %+v, want one catch of item 1 worth 10", catches)
	}
	if !next.Items[0].Caught {
		t.Fatalf("item not marked caught")
	}
	if next.Score != 10 || next.Caught != 1 {
		t.Fatalf("score = %d caught = %d, want 10 and 1", next.Score, next.Caught)
	}
}

func TestFrameNeverCatchesOutsideZone(t *testing.T) {
	s := runningState()
	s.CatcherX = 80
	s.Items = []Item{{ID: 1, X: 50, Y: SpawnY, FallSpeed: 0.5, Category: Jackpot}}

	for i := 0; i < 400 && len(s.Items) > 0; i++ {
		var catches []Catch
		s, catches = s.Frame()
		if len(catches) != 0 {
			t.Fatalf("frame %d: unexpected catch %+v", i, catches)
		}
	}
	if s.Score != 0 {
		t.Fatalf("score = %d, want 0", s.Score)
	}
	if len(s.Items) != 0 {
		t.Fatalf("item should have left the field, still have %+v", s.Items)
	}
}

func TestFrameCaptureIsIdempotent(t *testing.T) {
	s := runningState()
	s.Items = []Item{{ID: 7, X: 50, Y: 61, FallSpeed: 1, Category: Rare}}

	total := 0
	for i := 0; i < 100 && len(s.Items) > 0; i++ {
		var catches []Catch
		s, catches = s.Frame()
		total += len(catches)
	}
	if total != 1 {
		t.Fatalf("item captured %d times, want exactly once", total)
	}
	if s.Score != 30 {
		t.Fatalf("score = %d, want 30", s.Score)
	}
}

func TestFrameCaughtItemKeepsFallingUntilOffField(t *testing.T) {
	s := runningState()
	s.Items = []Item{{ID: 1, X: 50, Y: 100, FallSpeed: 5, Caught: true}}

	s, _ = s.Frame()
	if len(s.Items) != 1 || s.Items[0].Y != 105 {
		t.Fatalf("caught item should still fall, got %+v", s.Items)
	}
	s, _ = s.Frame()
	if len(s.Items) != 0 {
		t.Fatalf("item at y=110 should be dropped, got %+v", s.Items)
	}
	if s.Score != 0 {
		t.Fatalf("caught item re-scored: score = %d", s.Score)
	}
}

func TestFrameDoesNotMutatePreviousState(t *testing.T) {
	s := runningState()
	s.Items = []Item{{ID: 1, X: 20, Y: 10, FallSpeed: 1}}

	next, _ := s.Frame()

	if s.Items[0].Y != 10 {
		t.Fatalf("previous state mutated: y = %v", s.Items[0].Y)
	}
	if next.Items[0].Y != 11 {
		t.Fatalf("next y = %v, want 11", next.Items[0].Y)
	}
}

func TestMoveCatcherClamps(t *testing.T) {
	s := runningState()

	if got := s.MoveCatcher(-20).CatcherX; got != CatcherMin {
		t.Errorf("MoveCatcher(-20) = %v, want %v", got, CatcherMin)
	}
	if got := s.MoveCatcher(150).CatcherX; got != CatcherMax {
		t.Errorf("MoveCatcher(150) = %v, want %v", got, CatcherMax)
	}
	if got := s.MoveCatcher(33).CatcherX; got != 33 {
		t.Errorf("MoveCatcher(33) = %v, want 33", got)
	}
}

func TestMoveCatcherIgnoredOutsideRunning(t *testing.T) {
	if got := NewState().MoveCatcher(20).CatcherX; got != CatcherStart {
		t.Errorf("move before start changed catcher to %v", got)
	}
	ended := runningState()
	ended.Phase = Ended
	if got := ended.MoveCatcher(20).CatcherX; got != CatcherStart {
		t.Errorf("move after end changed catcher to %v", got)
	}
}

func TestTickCountsDownToEnded(t *testing.T) {
	s := runningState()
	for want := RoundSeconds - 1; want >= 0; want-- {
		s = s.Tick()
		if s.TimeRemaining != want {
			t.Fatalf("TimeRemaining = %d, want %d", s.TimeRemaining, want)
		}
	}
	if s.Phase != Ended {
		t.Fatalf("phase = %v, want ended", s.Phase)
	}
	if s = s.Tick(); s.TimeRemaining != 0 {
		t.Fatalf("tick after end changed time to %d", s.TimeRemaining)
	}
}

func TestSpawnUsesDrawsInOrder(t *testing.T) {
	r := &seqRand{loop: []float64{0.5, 0.98, 0.25, 0.5, 0.75}}
	s := runningState()

	s, delay := s.Spawn(r)

	if delay != 650*time.Millisecond {
		t.Fatalf("delay = %v, want 650ms", delay)
	}
	if len(s.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(s.Items))
	}
	it := s.Items[0]
	if it.ID != 1 || it.X != 50 || it.Y != SpawnY {
		t.Fatalf("unexpected item placement %+v", it)
	}
	if it.Category != Jackpot || it.Size != SizeJackpot {
		t.Fatalf("category = %v size = %d, want jackpot 55", it.Category, it.Size)
	}
	if want := 0.8; it.FallSpeed < want-1e-9 || it.FallSpeed > want+1e-9 {
		t.Fatalf("fall speed = %v, want %v", it.FallSpeed, want)
	}
	if it.Rotation != 180 || it.RotationSpeed != 2 {
		t.Fatalf("rotation = %v speed = %v, want 180 and 2", it.Rotation, it.RotationSpeed)
	}
}

func TestSpawnAssignsUniqueIDs(t *testing.T) {
	r := &seqRand{loop: []float64{0.1, 0.2, 0.3, 0.4, 0.5}}
	s := runningState()
	prev := s

	for i := 0; i < 20; i++ {
		s, _ = s.Spawn(r)
	}

	seen := make(map[int]bool)
	for _, it := range s.Items {
		if seen[it.ID] {
			t.Fatalf("duplicate id %d", it.ID)
		}
		seen[it.ID] = true
	}
	if len(prev.Items) != 0 {
		t.Fatalf("spawn mutated earlier state")
	}
}

func TestSpawnIgnoredWhenNotRunning(t *testing.T) {
	r := &seqRand{loop: []float64{0.5}}
	s := NewState()
	s.Phase = Ended

	next, delay := s.Spawn(r)
	if len(next.Items) != 0 || delay != 0 {
		t.Fatalf("spawn after end produced %d items, delay %v", len(next.Items), delay)
	}
}
