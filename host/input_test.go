package host

import (
	"testing"

	"github.com/user-none/go-retrocore/clock"
)

func TestEventQueueOrdersByPush(t *testing.T) {
	q := NewEventQueue[KeyEvent]()
	q.Send(clock.START, KeyEvent{Key: "A", Down: true})
	q.Send(clock.START.Add(clock.DurationFromMillis(1)), KeyEvent{Key: "A", Down: false})

	_, ev, ok := q.Receive()
	if !ok || ev.Key != "A" || !ev.Down {
		t.Fatalf("first event = %+v, ok=%v, want key-down A", ev, ok)
	}
	_, ev, ok = q.Receive()
	if !ok || ev.Down {
		t.Fatalf("second event = %+v, ok=%v, want key-up A", ev, ok)
	}
	if _, _, ok := q.Receive(); ok {
		t.Fatal("queue should be empty after draining both events")
	}
}

func TestMouseStateApply(t *testing.T) {
	var s MouseState
	s.Apply(MouseEvent{Type: MouseMove, X: 10, Y: 20})
	if s.X != 10 || s.Y != 20 {
		t.Fatalf("position = (%d,%d), want (10,20)", s.X, s.Y)
	}
	s.Apply(MouseEvent{Type: MouseDown, Button: MouseLeft, X: 10, Y: 20})
	if !s.Buttons[MouseLeft] {
		t.Fatal("left button should be down")
	}
	s.Apply(MouseEvent{Type: MouseUp, Button: MouseLeft, X: 11, Y: 21})
	if s.Buttons[MouseLeft] {
		t.Fatal("left button should be up")
	}
}

func TestControllerEventFields(t *testing.T) {
	ev := ControllerEvent{Device: ControllerA, Input: ButtonStart, Active: true}
	if ev.Device != ControllerA || ev.Input != ButtonStart || !ev.Active {
		t.Fatalf("unexpected event: %+v", ev)
	}
}
