package clicker

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Nullkernel/Auto-Clicker/internal/input"
	"github.com/Nullkernel/Auto-Clicker/internal/model"
	"github.com/Nullkernel/Auto-Clicker/internal/report"
)

type fakeSimulator struct {
	mu      sync.Mutex
	calls   int
	failAt  int
	onClick func(n int)
}

func (f *fakeSimulator) Click(model.Button) error {
	f.mu.Lock()
	f.calls++
	n := f.calls
	onClick := f.onClick
	failAt := f.failAt
	f.mu.Unlock()

	if failAt > 0 && n >= failAt {
		return errors.New("injection refused")
	}
	if onClick != nil {
		onClick(n)
	}
	return nil
}

func (f *fakeSimulator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestController(t *testing.T, delay time.Duration, sim input.Simulator) (*Controller, *syncBuffer) {
	t.Helper()
	cfg := model.Config{
		Delay:  delay,
		Rate:   float64(time.Second) / float64(delay),
		Button: model.ButtonLeft,
	}
	out := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, sim, report.NewRendererWithColor(false), out, logger), out
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func loopAlive(c *Controller) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loopAlive
}

func TestToggleTransitions(t *testing.T) {
	ctrl, _ := newTestController(t, time.Hour, &fakeSimulator{})

	if got := ctrl.State(); got != model.StateStopped {
		t.Fatalf("initial state = %v, want Stopped", got)
	}
	ctrl.Toggle()
	if got := ctrl.State(); got != model.StateRunning {
		t.Fatalf("state after first toggle = %v, want Running", got)
	}
	ctrl.Toggle()
	if got := ctrl.State(); got != model.StateStopped {
		t.Fatalf("state after second toggle = %v, want Stopped", got)
	}
	ctrl.RequestExit()
}

func TestStartIsIdempotentAndSpawnsOneLoop(t *testing.T) {
	clicked := make(chan int, 8)
	sim := &fakeSimulator{onClick: func(n int) { clicked <- n }}
	ctrl, _ := newTestController(t, time.Hour, sim)

	ctrl.Start()
	ctrl.Start()
	if got := ctrl.State(); got != model.StateRunning {
		t.Fatalf("state = %v, want Running", got)
	}

	select {
	case <-clicked:
	case <-time.After(time.Second):
		t.Fatalf("expected a first click")
	}
	select {
	case n := <-clicked:
		t.Fatalf("unexpected extra click %d; a second emission loop is running", n)
	case <-time.After(100 * time.Millisecond):
	}
	ctrl.RequestExit()
}

func TestStopIsIdempotent(t *testing.T) {
	ctrl, _ := newTestController(t, time.Hour, &fakeSimulator{})

	ctrl.Stop()
	ctrl.Stop()
	if got := ctrl.State(); got != model.StateStopped {
		t.Fatalf("state = %v, want Stopped", got)
	}
}

func TestExitIsSticky(t *testing.T) {
	ctrl, _ := newTestController(t, time.Hour, &fakeSimulator{})

	ctrl.RequestExit()
	select {
	case <-ctrl.Done():
	default:
		t.Fatalf("Done should be closed after RequestExit")
	}

	ctrl.Start()
	if got := ctrl.State(); got != model.StateExited {
		t.Fatalf("state after Start post-exit = %v, want Exited", got)
	}
	ctrl.RequestExit()
}

func TestStatisticsMath(t *testing.T) {
	ctrl, _ := newTestController(t, time.Hour, &fakeSimulator{})

	current := time.Unix(1000, 0)
	ctrl.now = func() time.Time { return current }

	ctrl.mu.Lock()
	ctrl.state = model.StateRunning
	ctrl.startedAt = current
	ctrl.mu.Unlock()
	ctrl.clicks.Store(100)

	current = current.Add(10 * time.Second)
	snap := ctrl.Statistics()
	if snap.Clicks != 100 {
		t.Fatalf("Clicks = %d, want 100", snap.Clicks)
	}
	if snap.Elapsed != 10*time.Second {
		t.Fatalf("Elapsed = %v, want 10s", snap.Elapsed)
	}
	if snap.AverageCPS != 10.0 {
		t.Fatalf("AverageCPS = %v, want 10.0", snap.AverageCPS)
	}
	if snap.State != model.StateRunning {
		t.Fatalf("State = %v, want Running", snap.State)
	}
}

func TestStatisticsWithoutClicks(t *testing.T) {
	ctrl, _ := newTestController(t, time.Hour, &fakeSimulator{})

	snap := ctrl.Statistics()
	if snap.Clicks != 0 || snap.Elapsed != 0 || snap.AverageCPS != 0 {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

func TestFiveClicksThenStop(t *testing.T) {
	sim := &fakeSimulator{}
	ctrl, _ := newTestController(t, time.Millisecond, sim)
	sim.onClick = func(n int) {
		if n == 5 {
			ctrl.Stop()
		}
	}

	ctrl.Start()
	waitFor(t, time.Second, func() bool {
		return ctrl.State() == model.StateStopped
	})

	time.Sleep(50 * time.Millisecond)
	if got := ctrl.Statistics().Clicks; got != 5 {
		t.Fatalf("Clicks = %d, want 5", got)
	}
	if got := sim.callCount(); got != 5 {
		t.Fatalf("simulator calls = %d, want 5", got)
	}
	ctrl.RequestExit()
}

func TestSimulatorFailureStopsClicking(t *testing.T) {
	sim := &fakeSimulator{failAt: 3}
	ctrl, out := newTestController(t, time.Millisecond, sim)

	ctrl.Start()
	waitFor(t, time.Second, func() bool {
		return ctrl.State() == model.StateStopped && !loopAlive(ctrl)
	})

	if got := ctrl.Statistics().Clicks; got != 2 {
		t.Fatalf("Clicks = %d, want 2", got)
	}
	if got := strings.Count(out.String(), "Error during clicking"); got != 1 {
		t.Fatalf("failure reported %d times, want exactly once\noutput:\n%s", got, out.String())
	}
}

func TestRequestExitTerminatesLoop(t *testing.T) {
	ctrl, _ := newTestController(t, time.Hour, &fakeSimulator{})

	ctrl.Start()
	waitFor(t, time.Second, func() bool { return loopAlive(ctrl) })

	ctrl.RequestExit()
	waitFor(t, time.Second, func() bool { return !loopAlive(ctrl) })
}

func TestHandleKeyPauseWhenStopped(t *testing.T) {
	ctrl, out := newTestController(t, time.Hour, &fakeSimulator{})

	ctrl.HandleKey(input.KeyPause)
	if got := ctrl.State(); got != model.StateStopped {
		t.Fatalf("state = %v, want Stopped", got)
	}
	if !strings.Contains(out.String(), "Use '1' to start/resume clicking.") {
		t.Fatalf("expected hint line, got:\n%s", out.String())
	}
}

func TestHandleKeyPauseWhenRunning(t *testing.T) {
	ctrl, out := newTestController(t, time.Hour, &fakeSimulator{})

	ctrl.Start()
	ctrl.HandleKey(input.KeyPause)
	if got := ctrl.State(); got != model.StateStopped {
		t.Fatalf("state = %v, want Stopped", got)
	}
	if !strings.Contains(out.String(), "Paused - press '1' to resume.") {
		t.Fatalf("expected pause message, got:\n%s", out.String())
	}
	ctrl.RequestExit()
}

func TestHandleKeyEscapeExits(t *testing.T) {
	ctrl, out := newTestController(t, time.Hour, &fakeSimulator{})

	ctrl.HandleKey(input.KeyEscape)
	if got := ctrl.State(); got != model.StateExited {
		t.Fatalf("state = %v, want Exited", got)
	}
	if !strings.Contains(out.String(), "Emergency stop!") {
		t.Fatalf("expected emergency stop message, got:\n%s", out.String())
	}
}

func TestHandleKeyIgnoresUnknownKeys(t *testing.T) {
	ctrl, out := newTestController(t, time.Hour, &fakeSimulator{})

	ctrl.HandleKey(input.Key('x'))
	if got := ctrl.State(); got != model.StateStopped {
		t.Fatalf("state = %v, want Stopped", got)
	}
	if out.String() != "" {
		t.Fatalf("expected no output for unknown key, got:\n%s", out.String())
	}
}
