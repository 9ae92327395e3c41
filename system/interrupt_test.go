package system

import "testing"

func TestInterruptControllerHighestWins(t *testing.T) {
	ic := NewInterruptController()
	ic.Raise(2, 0x64)
	ic.Raise(5, 0x67)

	p, ok := ic.Highest()
	if !ok || p != 5 {
		t.Fatalf("Highest() = %d,%v want 5,true", p, ok)
	}
	v, prio, ok := ic.Acknowledge(0)
	if !ok || v != 0x67 || prio != 5 {
		t.Fatalf("Acknowledge = %#x,%d,%v want 0x67,5,true", v, prio, ok)
	}
	p, ok = ic.Highest()
	if !ok || p != 2 {
		t.Fatalf("after ack, Highest() = %d,%v want 2,true", p, ok)
	}
}

func TestInterruptControllerMaskBlocks(t *testing.T) {
	ic := NewInterruptController()
	ic.Raise(3, 0x64)
	if _, _, ok := ic.Acknowledge(4); ok {
		t.Fatal("expected mask 4 to block priority 3")
	}
}

func TestInterruptControllerClear(t *testing.T) {
	ic := NewInterruptController()
	ic.Raise(4, 0x60)
	ic.Clear(4)
	if _, ok := ic.Highest(); ok {
		t.Fatal("expected nothing pending after Clear")
	}
}

func TestInterruptControllerPriorityNonMaskable(t *testing.T) {
	ic := NewInterruptController()
	ic.Raise(7, 0x6F)
	if _, _, ok := ic.Acknowledge(7); !ok {
		t.Fatal("priority 7 must not be maskable")
	}
}
