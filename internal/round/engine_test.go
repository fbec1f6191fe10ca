package round

import (
	"reflect"
	"testing"
	"time"
)

// missRand spawns common items at the far right, out of reach of a centered catcher.
func missRand() *seqRand {
	return &seqRand{loop: []float64{0.999, 0.1, 0, 0, 0.5}}
}

type endRecorder struct {
	calls  int
	scores []int
}

func (r *endRecorder) onEnd(score int) {
	r.calls++
	r.scores = append(r.scores, score)
}

func playToEnd(t *testing.T, e *Engine) {
	t.Helper()
	for i := 0; e.State().Phase == Running; i++ {
		if i > 10000 {
			t.Fatalf("round did not end")
		}
		e.Advance(16 * time.Millisecond)
		e.Frame()
	}
}

func TestEngineRoundWithoutCatchesEndsAtZero(t *testing.T) {
	rec := &endRecorder{}
	e := NewEngine(Options{Rand: missRand(), OnEnd: rec.onEnd})
	e.Start()

	playToEnd(t, e)

	s := e.State()
	if s.Score != 0 || s.TimeRemaining != 0 || s.Phase != Ended || s.Aborted {
		t.Fatalf("final state = %+v", s)
	}
	if rec.calls != 1 || rec.scores[0] != 0 {
		t.Fatalf("OnEnd calls = %d scores = %v, want one call with 0", rec.calls, rec.scores)
	}
}

func TestEngineSingleJackpotCatch(t *testing.T) {
	rec := &endRecorder{}
	r := &seqRand{
		prefix: []float64{0.5, 0.99, 0, 0, 0.5},
		loop:   []float64{0.999, 0.1, 0, 0, 0.5},
	}
	e := NewEngine(Options{Rand: r, OnEnd: rec.onEnd})
	e.Start()

	catches := 0
	for e.State().Phase == Running {
		e.Advance(16 * time.Millisecond)
		catches += len(e.Frame())
	}

	if catches != 1 {
		t.Fatalf("catches = %d, want 1", catches)
	}
	if got := e.State().Score; got != 100 {
		t.Fatalf("score = %d, want 100", got)
	}
	if rec.calls != 1 || rec.scores[0] != 100 {
		t.Fatalf("OnEnd calls = %d scores = %v, want one call with 100", rec.calls, rec.scores)
	}
}

func TestEngineClockDecrementsOncePerInterval(t *testing.T) {
	rec := &endRecorder{}
	e := NewEngine(Options{Rand: missRand(), OnEnd: rec.onEnd})
	e.Start()

	for want := RoundSeconds - 1; want >= 0; want-- {
		e.Advance(time.Second)
		if got := e.State().TimeRemaining; got != want {
			t.Fatalf("TimeRemaining = %d, want %d", got, want)
		}
		if want > 0 && rec.calls != 0 {
			t.Fatalf("OnEnd fired early at %d", want)
		}
	}

	e.Advance(5 * time.Second)
	if got := e.State().TimeRemaining; got != 0 {
		t.Fatalf("TimeRemaining after end = %d, want 0", got)
	}
	if rec.calls != 1 {
		t.Fatalf("OnEnd calls = %d, want 1", rec.calls)
	}
}

func TestEngineFirstSpawnAndCadence(t *testing.T) {
	e := NewEngine(Options{Rand: missRand()})
	e.Start()

	e.Advance(599 * time.Millisecond)
	if n := len(e.State().Items); n != 0 {
		t.Fatalf("items before first spawn = %d", n)
	}
	e.Advance(time.Millisecond)
	if n := len(e.State().Items); n != 1 {
		t.Fatalf("items at 600ms = %d, want 1", n)
	}

	// Second spawn 650ms later, when one second has elapsed it spawns with a 645ms delay.
	e.Advance(650 * time.Millisecond)
	if n := len(e.State().Items); n != 2 {
		t.Fatalf("items at 1250ms = %d, want 2", n)
	}
	e.Advance(644 * time.Millisecond)
	if n := len(e.State().Items); n != 2 {
		t.Fatalf("items at 1894ms = %d, want 2", n)
	}
	e.Advance(time.Millisecond)
	if n := len(e.State().Items); n != 3 {
		t.Fatalf("items at 1895ms = %d, want 3", n)
	}
}

func TestEngineNoMutationAfterEnd(t *testing.T) {
	rec := &endRecorder{}
	e := NewEngine(Options{Rand: missRand(), OnEnd: rec.onEnd})
	e.Start()

	e.Advance(70 * time.Second)
	if e.Now() != RoundSeconds*time.Second {
		t.Fatalf("round time = %v, want 60s", e.Now())
	}
	frozen := e.State()
	if frozen.Phase != Ended || len(frozen.Items) == 0 {
		t.Fatalf("unexpected end state %+v", frozen)
	}

	e.Advance(10 * time.Second)
	for i := 0; i < 100; i++ {
		if c := e.Frame(); c != nil {
			t.Fatalf("frame after end returned catches %+v", c)
		}
	}
	e.PointerMove(20)
	e.Start()

	if !reflect.DeepEqual(e.State(), frozen) {
		t.Fatalf("state changed after end:\n got %+v\nwant %+v", e.State(), frozen)
	}
	if rec.calls != 1 {
		t.Fatalf("OnEnd calls = %d, want 1", rec.calls)
	}
}

func TestEngineStopCancelsEverything(t *testing.T) {
	rec := &endRecorder{}
	e := NewEngine(Options{Rand: missRand(), OnEnd: rec.onEnd})
	e.Start()
	for i := 0; i < 125; i++ {
		e.Advance(16 * time.Millisecond)
		e.Frame()
	}

	e.Stop()
	stopped := e.State()
	if stopped.Phase != Ended || !stopped.Aborted {
		t.Fatalf("phase = %v aborted = %v, want ended and aborted", stopped.Phase, stopped.Aborted)
	}

	e.Advance(90 * time.Second)
	e.Frame()
	e.PointerMove(80)

	if !reflect.DeepEqual(e.State(), stopped) {
		t.Fatalf("state changed after stop")
	}
	if rec.calls != 0 {
		t.Fatalf("OnEnd fired after teardown")
	}
}

func TestEnginePointerMoveReadByNextFrame(t *testing.T) {
	e := NewEngine(Options{Rand: missRand()})
	e.Start()
	e.Advance(600 * time.Millisecond)

	// Park the catcher under the item just above the band.
	e.state.Items[0].Y = 61.5
	e.PointerMove(95)
	if got := e.State().CatcherX; got != CatcherMax {
		t.Fatalf("CatcherX = %v, want %v", got, CatcherMax)
	}

	catches := e.Frame()
	if len(catches) != 1 {
		t.Fatalf("catches = %d, want 1 (item x=%v catcher=%v)", len(catches), e.State().Items[0].X, CatcherMax)
	}
}

func TestEngineIgnoresInputBeforeStart(t *testing.T) {
	e := NewEngine(Options{Rand: missRand()})

	e.PointerMove(20)
	e.Advance(5 * time.Second)
	e.Frame()

	s := e.State()
	if s.Phase != NotStarted || s.CatcherX != CatcherStart || s.TimeRemaining != RoundSeconds || len(s.Items) != 0 {
		t.Fatalf("state changed before start: %+v", s)
	}
}
