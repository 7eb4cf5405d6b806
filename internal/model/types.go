// Package model defines shared data structures.
package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// MinDelay is the floor for the inter-click delay. Anything shorter
// would saturate the host's input subsystem.
const MinDelay = time.Millisecond

// Button identifies which mouse button to click.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// ParseButton maps a CLI button name to a Button.
func ParseButton(value string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "left":
		return ButtonLeft, nil
	case "right":
		return ButtonRight, nil
	case "middle":
		return ButtonMiddle, nil
	default:
		return ButtonLeft, fmt.Errorf("invalid button %q (expected left|right|middle)", value)
	}
}

// String returns the lower-case button name used by the input backend.
func (b Button) String() string {
	switch b {
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "left"
	}
}

// Display returns the capitalized button name for user-facing output.
func (b Button) Display() string {
	name := b.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// State is the click-session state.
type State int

const (
	StateStopped State = iota
	StateRunning
	StateExited
)

// String returns the user-facing state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateExited:
		return "Exited"
	default:
		return "Stopped"
	}
}

// Config holds the validated click-session settings. Rate and Delay are
// reciprocal; both are fixed for the lifetime of the session.
type Config struct {
	Delay  time.Duration
	Rate   float64
	Button Button
}

// NewConfig derives the click rate from either an explicit inter-click
// delay in seconds or a clicks-per-second value. A positive cps takes
// precedence over delay; the delay never drops below MinDelay.
func NewConfig(delaySeconds, cps float64, button Button) (Config, error) {
	if math.IsNaN(delaySeconds) || math.IsInf(delaySeconds, 0) {
		return Config{}, fmt.Errorf("invalid delay %v", delaySeconds)
	}
	if math.IsNaN(cps) || math.IsInf(cps, 0) {
		return Config{}, fmt.Errorf("invalid cps %v", cps)
	}

	var delay time.Duration
	if cps > 0 {
		delay = time.Duration(float64(time.Second) / cps)
	} else {
		delay = time.Duration(delaySeconds * float64(time.Second))
	}
	if delay < MinDelay {
		delay = MinDelay
	}

	return Config{
		Delay:  delay,
		Rate:   float64(time.Second) / float64(delay),
		Button: button,
	}, nil
}

// Snapshot is a point-in-time statistics read of a click session.
type Snapshot struct {
	Clicks     int64
	Elapsed    time.Duration
	AverageCPS float64
	State      State
}
