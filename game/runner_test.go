package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
)

func defaultGame(t *testing.T) *Game {
	t.Helper()
	g, err := New(config.Default(), rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

// runAsync starts r and returns a channel receiving Run's result.
func runAsync(ctx context.Context, r *Runner) <-chan error {
	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx) }()
	return errc
}

func next(t *testing.T, r *Runner) Status {
	t.Helper()
	select {
	case st, ok := <-r.Status():
		if !ok {
			t.Fatal("status channel closed")
		}
		return st
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for status")
	}
	return Status{}
}

func wait(t *testing.T, errc <-chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	return nil
}

func TestRunnerStopsAtTickLimit(t *testing.T) {
	r := NewRunner(defaultGame(t), RunnerOptions{MaxTicks: 5, NoSnapshots: true})
	errc := runAsync(context.Background(), r)

	var last Status
	for st := range r.Status() {
		last = st
	}
	if err := wait(t, errc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if last.RunningMode != RunningStateFinished || last.Tick != 5 {
		t.Errorf("last status = %+v, want finished at tick 5", last)
	}
	if last.Snapshot != nil {
		t.Error("snapshot published with NoSnapshots")
	}
}

func TestRunnerFinishesWithoutAnimals(t *testing.T) {
	g := mustBuild(t, DefaultLayout(5))
	r := NewRunner(g, RunnerOptions{})
	errc := runAsync(context.Background(), r)

	var last Status
	for st := range r.Status() {
		last = st
	}
	if err := wait(t, errc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if last.RunningMode != RunningStateFinished || last.Tick != 1 {
		t.Errorf("last status = %+v, want finished after one tick", last)
	}
}

func TestRunnerManualStepping(t *testing.T) {
	g := defaultGame(t)
	r := NewRunner(g, RunnerOptions{StartPaused: true})
	errc := runAsync(context.Background(), r)

	st := next(t, r)
	if st.RunningMode != RunningStateManual || st.Tick != 0 {
		t.Fatalf("initial status = %+v, want paused at tick 0", st)
	}
	if st.Snapshot == nil || st.Snapshot.Size != g.Grid().Size() {
		t.Fatal("initial status has no snapshot of the grid")
	}
	if st.Prey != st.Snapshot.Prey || st.Predators != st.Snapshot.Predators {
		t.Errorf("status counts %d/%d disagree with snapshot %d/%d", st.Prey, st.Predators, st.Snapshot.Prey, st.Snapshot.Predators)
	}

	for want := int32(1); want <= 3; want++ {
		r.Step()
		if st := next(t, r); st.Tick != want || st.RunningMode != RunningStateManual {
			t.Fatalf("after step %d status = tick %d %v", want, st.Tick, st.RunningMode)
		}
	}

	r.Resume()
	for st := next(t, r); st.RunningMode != RunningStateRun; st = next(t, r) {
	}

	r.Close()
	for range r.Status() {
	}
	if err := wait(t, errc); err != nil {
		t.Errorf("Run after Close = %v, want nil", err)
	}
}

func TestRunnerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunner(defaultGame(t), RunnerOptions{StartPaused: true})
	errc := runAsync(ctx, r)

	next(t, r)
	cancel()
	if err := wait(t, errc); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	// Controls after Run returned must not block
	r.Pause()
	r.Step()
}

func TestRunnerIntervalPacing(t *testing.T) {
	g := mustBuild(t, DefaultLayout(5))
	spawn(t, g, components.SpeciesPrey, components.SexFemale, cell(5, 3, 3))
	r := NewRunner(g, RunnerOptions{MaxTicks: 3, Interval: time.Millisecond, NoSnapshots: true})
	errc := runAsync(context.Background(), r)

	var last Status
	for st := range r.Status() {
		last = st
	}
	if err := wait(t, errc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if last.Tick != 3 || last.Prey != 1 {
		t.Errorf("last status = %+v, want tick 3 with one rabbit", last)
	}
}

func TestRunningStateString(t *testing.T) {
	tests := []struct {
		s    RunningState
		want string
	}{
		{RunningStateManual, "paused"},
		{RunningStateRun, "running"},
		{RunningStateFinished, "finished"},
		{RunningState(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
