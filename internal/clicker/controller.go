// Package clicker implements the click-control state machine: a single
// session that emits clicks at a fixed rate while running, driven by
// global hotkeys.
package clicker

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Nullkernel/Auto-Clicker/internal/input"
	"github.com/Nullkernel/Auto-Clicker/internal/model"
	"github.com/Nullkernel/Auto-Clicker/internal/report"
)

// idlePoll is how often the emission loop re-checks state while stopped.
const idlePoll = 10 * time.Millisecond

// Controller owns the click session: its state, statistics, and the
// click-emission loop. All state transitions go through one mutex; the
// click counter is written only by the emission loop.
type Controller struct {
	cfg      model.Config
	sim      input.Simulator
	renderer *report.Renderer
	out      io.Writer
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	state     model.State
	startedAt time.Time
	loopAlive bool

	clicks   atomic.Int64
	done     chan struct{}
	doneOnce sync.Once
}

// New builds a Controller in the Stopped state. The emission loop is
// launched lazily on the first Start.
func New(cfg model.Config, sim input.Simulator, renderer *report.Renderer, out io.Writer, logger *slog.Logger) *Controller {
	return &Controller{
		cfg:      cfg,
		sim:      sim,
		renderer: renderer,
		out:      out,
		logger:   logger,
		now:      time.Now,
		state:    model.StateStopped,
		done:     make(chan struct{}),
	}
}

// Start transitions Stopped -> Running and makes sure the emission loop
// is alive. Idempotent while Running; a no-op after exit.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.StateStopped {
		return
	}
	c.state = model.StateRunning
	if c.startedAt.IsZero() {
		c.startedAt = c.now()
	}
	if !c.loopAlive {
		c.loopAlive = true
		go c.clickLoop()
	}
	c.logger.Info("clicking started", "cps", c.cfg.Rate, "button", c.cfg.Button.String())
	c.status("Auto-Clicker STARTED!")
}

// Stop transitions Running -> Stopped. Idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.StateRunning {
		return
	}
	c.state = model.StateStopped
	c.logger.Info("clicking stopped", "clicks", c.clicks.Load())
	c.status("Auto-Clicker STOPPED.")
}

// Toggle stops when running, starts otherwise.
func (c *Controller) Toggle() {
	if c.State() == model.StateRunning {
		c.Stop()
	} else {
		c.Start()
	}
}

// State returns the current session state.
func (c *Controller) State() model.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Statistics returns a point-in-time snapshot. Pure read.
func (c *Controller) Statistics() model.Snapshot {
	c.mu.Lock()
	state := c.state
	startedAt := c.startedAt
	c.mu.Unlock()

	snap := model.Snapshot{Clicks: c.clicks.Load(), State: state}
	if !startedAt.IsZero() {
		snap.Elapsed = c.now().Sub(startedAt)
	}
	if snap.Elapsed > 0 && snap.Clicks > 0 {
		snap.AverageCPS = float64(snap.Clicks) / snap.Elapsed.Seconds()
	}
	return snap
}

// RequestExit moves the session to its terminal state, shows the final
// statistics, and signals the emission loop to terminate. The state is
// sticky: no later Start can resurrect the session.
func (c *Controller) RequestExit() {
	c.mu.Lock()
	if c.state == model.StateExited {
		c.mu.Unlock()
		return
	}
	c.state = model.StateExited
	c.mu.Unlock()

	c.logger.Info("exit requested", "clicks", c.clicks.Load())
	c.status("Shutting down Auto-Clicker...")
	c.renderStatistics()
	c.status("Exiting...")
	c.doneOnce.Do(func() { close(c.done) })
}

// Done is closed once exit has been requested.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// HandleKey dispatches one hotkey press. Safe to call from the key
// source's goroutine. Unknown keys are ignored.
func (c *Controller) HandleKey(key input.Key) {
	switch key {
	case input.KeyToggle:
		c.Toggle()
	case input.KeyPause:
		if c.State() == model.StateRunning {
			c.Stop()
			c.status("Paused - press '1' to resume.")
		} else {
			c.status("Use '1' to start/resume clicking.")
		}
	case input.KeyStats:
		c.renderStatistics()
	case input.KeyExit:
		c.RequestExit()
	case input.KeyEscape:
		c.logger.Warn("emergency stop requested")
		c.status("Emergency stop!")
		c.RequestExit()
	}
}

// clickLoop is the click-emission loop. While running it performs one
// click and sleeps for the configured delay; while stopped it polls.
// A simulation failure stops clicking and terminates the loop; it is
// not retried.
func (c *Controller) clickLoop() {
	defer func() {
		c.mu.Lock()
		c.loopAlive = false
		c.mu.Unlock()
	}()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		if c.State() != model.StateRunning {
			if !c.sleep(idlePoll) {
				return
			}
			continue
		}

		if err := c.sim.Click(c.cfg.Button); err != nil {
			c.logger.Error("click failed", "err", err)
			c.errorLine("Error during clicking: " + err.Error())
			c.Stop()
			return
		}
		c.clicks.Add(1)
		if !c.sleep(c.cfg.Delay) {
			return
		}
	}
}

// sleep waits for d or until exit is requested. Reports false on exit.
func (c *Controller) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-c.done:
		return false
	case <-timer.C:
		return true
	}
}

func (c *Controller) renderStatistics() {
	if err := c.renderer.Statistics(c.out, c.Statistics()); err != nil {
		c.logger.Error("failed to render statistics", "err", err)
	}
}

func (c *Controller) status(msg string) {
	if err := c.renderer.Status(c.out, msg); err != nil {
		c.logger.Error("failed to write status", "err", err)
	}
}

func (c *Controller) errorLine(msg string) {
	if err := c.renderer.Error(c.out, msg); err != nil {
		c.logger.Error("failed to write error", "err", err)
	}
}
