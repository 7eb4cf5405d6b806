package input

import (
	"log/slog"
	"sync"

	hook "github.com/robotn/gohook"
)

// Key identifies a control hotkey.
type Key rune

const (
	KeyToggle Key = '1'
	KeyPause  Key = '2'
	KeyStats  Key = '3'
	KeyExit   Key = '0'
	KeyEscape Key = 0x1b
)

// String returns the hook registration name of the key.
func (k Key) String() string {
	if k == KeyEscape {
		return "esc"
	}
	return string(rune(k))
}

// KeySource delivers hotkey presses to a handler. Run blocks until the
// source is stopped; after Stop no further presses are delivered.
type KeySource interface {
	Run(handler func(Key)) error
	Stop()
}

// HookSource is a KeySource backed by a global keyboard hook, so the
// hotkeys work regardless of which application has input focus.
type HookSource struct {
	logger   *slog.Logger
	stopOnce sync.Once
}

// NewHookSource returns the production key source.
func NewHookSource(logger *slog.Logger) *HookSource {
	return &HookSource{logger: logger}
}

// Run registers the control hotkeys and blocks processing global key
// events until Stop is called. The handler runs on the hook's own
// goroutine; it must be safe to call from there.
func (s *HookSource) Run(handler func(Key)) error {
	for _, key := range []Key{KeyToggle, KeyPause, KeyStats, KeyExit, KeyEscape} {
		key := key
		hook.Register(hook.KeyDown, []string{key.String()}, func(hook.Event) {
			s.logger.Debug("hotkey pressed", "key", key.String())
			handler(key)
		})
	}

	events := hook.Start()
	<-hook.Process(events)
	s.logger.Debug("keyboard hook stopped")
	return nil
}

// Stop detaches the global hook. Safe to call more than once.
func (s *HookSource) Stop() {
	s.stopOnce.Do(hook.End)
}
