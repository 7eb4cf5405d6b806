// Package report renders the banner, status lines, and statistics output.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/Nullkernel/Auto-Clicker/internal/model"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

const banner = `
░█████╗░██╗░░░██╗████████╗░█████╗░████████╗░█████╗░██████╗░
██╔══██╗██║░░░██║╚══██╔══╝██╔══██╗╚══██╔══╝██╔══██╗██╔══██╗
███████║██║░░░██║░░░██║░░░██║░░██║░░░██║░░░███████║██████╔╝
██╔══██║██║░░░██║░░░██║░░░██║░░██║░░░██║░░░██╔══██║██╔═══╝░
██║░░██║╚██████╔╝░░░██║░░░╚█████╔╝░░░██║░░░██║░░██║██║░░░░░
╚═╝░░╚═╝░╚═════╝░░░░╚═╝░░░░╚════╝░░░░╚═╝░░░╚═╝░░╚═╝╚═╝░░░░░
`

// Renderer writes user-facing output, optionally styled. Color is
// disabled automatically when stdout is not a terminal.
type Renderer struct {
	color bool
}

// NewRenderer builds a Renderer that styles output when stdout is a terminal.
func NewRenderer() *Renderer {
	return &Renderer{color: isTerminal(os.Stdout)}
}

// NewRendererWithColor builds a Renderer with an explicit color setting.
func NewRendererWithColor(color bool) *Renderer {
	return &Renderer{color: color}
}

// Banner writes the application banner.
func (r *Renderer) Banner(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.render(accentStyle, banner))
	return err
}

// Instructions writes the configuration summary and hotkey controls.
func (r *Renderer) Instructions(w io.Writer, cfg model.Config) error {
	lines := []string{
		r.render(accentStyle, "Configuration:"),
		fmt.Sprintf("  Click Delay:  %.3fs (%.1f clicks/second)", cfg.Delay.Seconds(), cfg.Rate),
		fmt.Sprintf("  Mouse Button: %s", cfg.Button.Display()),
		"",
		r.render(accentStyle, "Controls:"),
		"  '1'  start/stop clicking",
		"  '2'  pause/resume clicking",
		"  '3'  show statistics",
		"  '0'  exit program",
		"  Esc  emergency stop",
		"",
		r.render(mutedStyle, "Status: Ready - press '1' to begin."),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Status writes a single status line.
func (r *Renderer) Status(w io.Writer, msg string) error {
	_, err := fmt.Fprintln(w, r.render(statusStyle, "# "+msg))
	return err
}

// Error writes a single error line.
func (r *Renderer) Error(w io.Writer, msg string) error {
	_, err := fmt.Fprintln(w, r.render(errorStyle, "# "+msg))
	return err
}

// Statistics writes the session statistics table. Sessions that never
// clicked get a hint line instead of a table.
func (r *Renderer) Statistics(w io.Writer, snap model.Snapshot) error {
	if snap.Clicks == 0 && snap.Elapsed <= 0 {
		return r.Status(w, "No statistics available - start clicking first!")
	}

	if _, err := fmt.Fprintln(w, r.render(accentStyle, "Statistics")); err != nil {
		return err
	}
	rows := [][]string{
		{"Total Clicks", fmt.Sprintf("%d", snap.Clicks)},
		{"Runtime", fmt.Sprintf("%.1fs", snap.Elapsed.Seconds())},
		{"Average CPS", fmt.Sprintf("%.1f", snap.AverageCPS)},
		{"Status", snap.State.String()},
	}
	rightAlign := map[int]bool{1: true}
	for _, line := range formatTable(nil, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, "  "+line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) render(style lipgloss.Style, value string) string {
	if !r.color {
		return value
	}
	return style.Render(value)
}

func isTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}
