// Package host defines the thin event types the core exchanges with a
// host frontend: keyboard, game-controller, and mouse events. It is
// intentionally data-only — capturing real keystrokes or controller
// state from an OS is a host integration concern, out of scope here
// (spec.md §1); the core only needs a stable vocabulary to carry those
// events across a ClockedQueue to whichever device models a keyboard
// matrix, controller port, or mouse.
package host

// Key names a single keyboard key, independent of any host windowing
// toolkit's own keycode numbering.
type Key string

// KeyEvent reports one key transition.
type KeyEvent struct {
	Key  Key
	Down bool
}
