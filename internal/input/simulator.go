// Package input wraps the OS-level input facilities: click injection
// and the global keyboard hook.
package input

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/go-vgo/robotgo"

	"github.com/Nullkernel/Auto-Clicker/internal/model"
)

// Simulator performs a single synthetic click of the given button.
type Simulator interface {
	Click(button model.Button) error
}

// Robot injects clicks through the OS via robotgo.
type Robot struct{}

// NewRobot returns the production click simulator.
func NewRobot() *Robot {
	return &Robot{}
}

// Click presses and releases the button at the current cursor position.
// robotgo reports injection failures by panicking inside its C layer, so
// the panic is recovered into an error here.
func (*Robot) Click(button model.Button) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("input injection failed: %v", r)
		}
	}()
	robotgo.Click(button.String(), false)
	return nil
}

// Available reports whether an input-simulation facility is reachable.
// On Linux robotgo needs a display session; without one every click
// would fail, so the program refuses to start.
func Available() error {
	switch runtime.GOOS {
	case "windows", "darwin":
		return nil
	default:
		if strings.TrimSpace(os.Getenv("DISPLAY")) != "" {
			return nil
		}
		if strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY")) != "" {
			return nil
		}
		return fmt.Errorf("no display session found (DISPLAY and WAYLAND_DISPLAY are both empty)")
	}
}
