package debugger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user-none/go-retrocore/clock"
	"github.com/user-none/go-retrocore/cpu/m68k"
	"github.com/user-none/go-retrocore/memory"
	"github.com/user-none/go-retrocore/system"
)

// newTestSystem wires a System with a single m68k CPU over RAM,
// running: MOVEQ #1,D0 ; MOVEQ #2,D0 ; NOP, with the reset vectors
// m68k expects at address 0.
func newTestSystem(t *testing.T) (*system.System, *system.Device) {
	t.Helper()
	sys := system.New()
	ram := memory.NewBlock(0x10000)
	ram.LoadAt(0, []byte{
		0x00, 0x00, 0x10, 0x00, // initial SSP
		0x00, 0x00, 0x04, 0x00, // initial PC
	})
	ram.LoadAt(0x400, []byte{
		0x70, 0x01, // MOVEQ #1,D0
		0x70, 0x02, // MOVEQ #2,D0
		0x4E, 0x71, // NOP
	})
	sys.AddAddressableDevice("ram", 0, 0x10000, ram)

	port := m68k.NewPort(sys.Bus, clock.FrequencyFromMHz(8), sys.Now())
	cpu := m68k.New(port)
	dev := system.NewDevice("cpu", m68k.NewStepDevice(cpu, port))
	sys.AddDevice(dev)
	return sys, &dev
}

func TestKernelBreakpointAddAndRemove(t *testing.T) {
	sys, dev := newTestSystem(t)
	var out bytes.Buffer
	k := New(sys, &out)

	if _, err := k.RunCommand("break 402"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "breakpoint set") {
		t.Fatalf("expected confirmation, got %q", out.String())
	}

	// The first step runs the instruction before the breakpoint.
	if _, err := sys.StepUntilDebuggable(); err != nil {
		t.Fatal(err)
	}
	if _, err := sys.StepUntilDebuggable(); err == nil || !system.IsBreakpoint(err) {
		t.Fatalf("expected a breakpoint error, got %v", err)
	}
	dbg, _ := dev.AsDebuggable()
	if dbg.DebugRegisters()["D0"] != 1 {
		t.Fatalf("D0 = %d, want 1 before the breakpointed instruction runs", dbg.DebugRegisters()["D0"])
	}

	out.Reset()
	if _, err := k.RunCommand("remove 402"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "breakpoint removed") {
		t.Fatalf("expected confirmation, got %q", out.String())
	}
	if _, err := sys.StepUntilDebuggable(); err != nil {
		t.Fatal(err)
	}
	if dbg.DebugRegisters()["D0"] != 2 {
		t.Fatalf("D0 = %d, want 2 after the breakpoint is cleared", dbg.DebugRegisters()["D0"])
	}
}

func TestKernelStepAdvancesOneInstruction(t *testing.T) {
	sys, dev := newTestSystem(t)
	var out bytes.Buffer
	k := New(sys, &out)

	ctrl, err := k.RunCommand("step")
	if err != nil {
		t.Fatal(err)
	}
	if ctrl != Wait {
		t.Fatalf("step should return Wait, got %v", ctrl)
	}
	dbg, _ := dev.AsDebuggable()
	if dbg.DebugRegisters()["D0"] != 1 {
		t.Fatalf("D0 = %d, want 1 after one step", dbg.DebugRegisters()["D0"])
	}
}

func TestKernelContinueReturnsExit(t *testing.T) {
	sys, _ := newTestSystem(t)
	k := New(sys, &bytes.Buffer{})

	ctrl, err := k.RunCommand("continue")
	if err != nil {
		t.Fatal(err)
	}
	if ctrl != Exit {
		t.Fatalf("continue should return Exit, got %v", ctrl)
	}
}

func TestKernelRepeatCountReplaysCommand(t *testing.T) {
	sys, dev := newTestSystem(t)
	k := New(sys, &bytes.Buffer{})

	ctrl, err := k.RunCommand("step 3")
	if err != nil {
		t.Fatal(err)
	}
	if ctrl != Wait {
		t.Fatalf("first step should return Wait, got %v", ctrl)
	}
	dbg, _ := dev.AsDebuggable()
	if dbg.DebugRegisters()["D0"] != 1 {
		t.Fatalf("D0 = %d, want 1 after the first step", dbg.DebugRegisters()["D0"])
	}

	// CheckAutoCommand should replay "step" without new input, twice more.
	ctrl, err = k.CheckAutoCommand()
	if err != nil {
		t.Fatal(err)
	}
	if ctrl != Continue {
		t.Fatalf("expected Continue while a repeat count remains, got %v", ctrl)
	}
	if dbg.DebugRegisters()["D0"] != 2 {
		t.Fatalf("D0 = %d, want 2 after the repeated step", dbg.DebugRegisters()["D0"])
	}

	ctrl, err = k.CheckAutoCommand()
	if err != nil {
		t.Fatal(err)
	}
	if ctrl != Continue {
		t.Fatalf("expected Continue on the final repeat, got %v", ctrl)
	}

	ctrl, err = k.CheckAutoCommand()
	if err != nil {
		t.Fatal(err)
	}
	if ctrl != Wait {
		t.Fatalf("repeat count exhausted, expected Wait, got %v", ctrl)
	}
}

func TestKernelDumpAndSet(t *testing.T) {
	sys, _ := newTestSystem(t)
	var out bytes.Buffer
	k := New(sys, &out)

	if _, err := k.RunCommand("setb 1000 ab"); err != nil {
		t.Fatal(err)
	}
	var got [1]byte
	if err := sys.Bus.Read(sys.Now(), 0x1000, got[:]); err != nil {
		t.Fatal(err)
	}
	if got[0] != 0xab {
		t.Fatalf("byte at 0x1000 = %#x, want 0xab", got[0])
	}

	out.Reset()
	if _, err := k.RunCommand("dump 1000 10"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "ab") {
		t.Fatalf("dump output missing written byte: %q", out.String())
	}
}

func TestKernelRegistersReportsDebuggableState(t *testing.T) {
	sys, _ := newTestSystem(t)
	var out bytes.Buffer
	k := New(sys, &out)

	if _, err := k.RunCommand("registers"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "PC") {
		t.Fatalf("expected PC in register dump, got %q", out.String())
	}
}

func TestKernelUnknownCommandErrors(t *testing.T) {
	sys, _ := newTestSystem(t)
	k := New(sys, &bytes.Buffer{})

	if _, err := k.RunCommand("bogus"); err == nil {
		t.Fatal("expected an error for an unrecognized command")
	}
}

func TestKernelBreakpointOccurredEndsTrace(t *testing.T) {
	sys, _ := newTestSystem(t)
	k := New(sys, &bytes.Buffer{})

	if _, err := k.RunCommand("trace"); err != nil {
		t.Fatal(err)
	}
	ctrl, err := k.CheckAutoCommand()
	if err != nil {
		t.Fatal(err)
	}
	if ctrl != Continue {
		t.Fatalf("trace mode should keep returning Continue, got %v", ctrl)
	}

	k.BreakpointOccurred()
	ctrl, err = k.CheckAutoCommand()
	if err != nil {
		t.Fatal(err)
	}
	if ctrl != Wait {
		t.Fatalf("expected Wait once a breakpoint ends the trace, got %v", ctrl)
	}
}
