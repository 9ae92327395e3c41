package z80

import (
	"testing"

	"github.com/user-none/go-retrocore/clock"
	"github.com/user-none/go-retrocore/memory"
	"github.com/user-none/go-retrocore/system"
)

func newTestSystem(t *testing.T, program []byte) (*system.System, *CPU, *StepDevice) {
	t.Helper()
	sys := system.New()
	ram := memory.NewBlock(0x10000)
	ram.LoadAt(0, program)
	sys.AddAddressableDevice("ram", 0, 0x10000, ram)

	ioBus := system.NewBus()

	mem := NewMemPort(sys.Bus, sys.Now())
	io := NewIOPort(ioBus, sys.Now())
	cpu := New(mem, io)
	dev := NewStepDevice(cpu, mem, io, clock.FrequencyFromMHz(4))
	sys.AddDevice(system.NewDevice("cpu", dev))
	return sys, cpu, dev
}

func TestStepDeviceRunsInstructionsThroughSystemBus(t *testing.T) {
	// LD B,n ; n=0x42
	sys, cpu, _ := newTestSystem(t, []byte{0x06, 0x42})

	if err := sys.StepUntil(sys.Now().Add(clock.DurationFromFemtos(1000))); err != nil {
		t.Fatal(err)
	}
	if cpu.Registers().B != 0x42 {
		t.Fatalf("B = %#x, want 0x42", cpu.Registers().B)
	}
}

func TestStepDeviceUnmappedFetchFaults(t *testing.T) {
	sys := system.New()
	ram := memory.NewBlock(0x100)
	ram.LoadAt(0, []byte{0xC3, 0x00, 0x80}) // JP 0x8000, unmapped
	sys.AddAddressableDevice("ram", 0, 0x100, ram)

	ioBus := system.NewBus()
	mem := NewMemPort(sys.Bus, sys.Now())
	io := NewIOPort(ioBus, sys.Now())
	cpu := New(mem, io)
	dev := NewStepDevice(cpu, mem, io, clock.FrequencyFromMHz(4))
	sys.AddDevice(system.NewDevice("cpu", dev))

	if err := sys.StepUntil(sys.Now().Add(clock.DurationFromFemtos(1000))); err != nil {
		t.Fatal(err)
	}
	// The JP itself completed (whole instruction already fetched from
	// mapped RAM); the fault lands on the subsequent fetch at 0x8000.
	if err := sys.StepUntil(sys.Now().Add(clock.FrequencyFromMHz(4).PeriodDuration().Scale(10))); err == nil {
		t.Fatal("expected a bus error fetching from unmapped memory")
	}
}

func TestStepDeviceBreakpointStopsAtPC(t *testing.T) {
	// LD B,1 ; LD B,2 ; NOP, breakpoint on the second LD B.
	sys, cpu, dev := newTestSystem(t, []byte{0x06, 0x01, 0x06, 0x02, 0x00})
	dev.AddBreakpoint(2)

	// The first step runs the instruction before the breakpoint.
	if _, err := sys.StepUntilDebuggable(); err != nil {
		t.Fatal(err)
	}
	if _, err := sys.StepUntilDebuggable(); err == nil || !system.IsBreakpoint(err) {
		t.Fatalf("expected a breakpoint error, got %v", err)
	}
	if cpu.Registers().B != 1 {
		t.Fatalf("B = %d, want 1 (execution must stop before the breakpointed instruction)", cpu.Registers().B)
	}

	dev.RemoveBreakpoint(2)
	if _, err := sys.StepUntilDebuggable(); err != nil {
		t.Fatal(err)
	}
	if cpu.Registers().B != 2 {
		t.Fatalf("B = %d, want 2 after the breakpoint is cleared", cpu.Registers().B)
	}
}
