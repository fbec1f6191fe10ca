package round

import (
	"context"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunnerEndsRoundAndReportsOnce(t *testing.T) {
	var calls atomic.Int32
	r := StartRound(context.Background(), RunnerOptions{
		Options: Options{
			Rand:         missRand(),
			TickInterval: 2 * time.Millisecond,
			OnEnd:        func(int) { calls.Add(1) },
		},
		FrameRate: 500,
	})

	select {
	case <-r.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("round did not end")
	}

	s := r.Snapshot()
	if s.Phase != Ended || s.TimeRemaining != 0 || s.Aborted {
		t.Fatalf("final snapshot = %+v", s)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("OnEnd calls = %d, want 1", got)
	}

	r.PointerMove(20)
	r.Stop()
	if !reflect.DeepEqual(r.Snapshot(), s) {
		t.Fatalf("snapshot changed after end")
	}
}

func TestRunnerStopFreezesState(t *testing.T) {
	var calls atomic.Int32
	r := StartRound(context.Background(), RunnerOptions{
		Options: Options{
			Rand:       missRand(),
			FirstSpawn: time.Millisecond,
			OnEnd:      func(int) { calls.Add(1) },
		},
	})

	r.PointerMove(30)
	time.Sleep(100 * time.Millisecond)
	r.Stop()

	stopped := r.Snapshot()
	if stopped.Phase != Ended || !stopped.Aborted {
		t.Fatalf("phase = %v aborted = %v, want ended and aborted", stopped.Phase, stopped.Aborted)
	}
	if len(stopped.Items) == 0 {
		t.Fatalf("expected items to have spawned before stop")
	}

	time.Sleep(50 * time.Millisecond)
	if !reflect.DeepEqual(r.Snapshot(), stopped) {
		t.Fatalf("snapshot changed after stop")
	}
	if calls.Load() != 0 {
		t.Fatalf("OnEnd fired after teardown")
	}
}

func TestRunnerContextCancelTearsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := StartRound(ctx, RunnerOptions{Options: Options{Rand: missRand()}})

	cancel()
	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatalf("runner did not exit on cancel")
	}
	if s := r.Snapshot(); !s.Aborted {
		t.Fatalf("snapshot not aborted after cancel: %+v", s)
	}
}

func TestRunnerStreamsSnapshots(t *testing.T) {
	r := StartRound(context.Background(), RunnerOptions{Options: Options{Rand: missRand()}})
	defer r.Stop()

	select {
	case s := <-r.Snapshots():
		if s.Phase != Running {
			t.Fatalf("first snapshot phase = %v, want running", s.Phase)
		}
	case <-time.After(time.Second):
		t.Fatalf("no snapshot published")
	}
}

func TestRunnerStopBeforeRun(t *testing.T) {
	r := NewRunner(RunnerOptions{})
	r.Stop()
	r.Run(context.Background())

	if s := r.Snapshot(); s.Phase != Ended || !s.Aborted {
		t.Fatalf("snapshot = %+v, want aborted", s)
	}
}
