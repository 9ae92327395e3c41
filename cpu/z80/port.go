package z80

import (
	"fmt"

	"github.com/user-none/go-retrocore/clock"
	"github.com/user-none/go-retrocore/system"
)

// MemPort adapts a byte-oriented, Instant-timestamped system.Bus to the
// plain Bus interface this interpreter was written against. Cycle 0
// corresponds to base on the System's timeline; Rebase moves that
// origin forward after each Step.
type MemPort struct {
	bus     *system.Bus
	base    clock.Instant
	lastErr error
}

// NewMemPort wraps bus, with cycle-relative accesses initially landing
// at base.
func NewMemPort(bus *system.Bus, base clock.Instant) *MemPort {
	return &MemPort{bus: bus, base: base}
}

// Rebase moves the Port's time origin to now.
func (p *MemPort) Rebase(now clock.Instant) { p.base = now }

func (p *MemPort) Read(addr uint16) uint8 {
	v, err := p.bus.ReadByte(p.base, uint32(addr))
	p.lastErr = err
	return v
}

func (p *MemPort) Write(addr uint16, val uint8) {
	p.lastErr = p.bus.WriteByte(p.base, uint32(addr), val)
}

// LastError returns the error from the most recent access.
func (p *MemPort) LastError() error { return p.lastErr }

var _ Bus = (*MemPort)(nil)

// IOPort adapts a second system.Bus — the Z80's distinct 16-bit I/O
// address space, entirely separate from memory — to the IOBus
// interface.
type IOPort struct {
	bus  *system.Bus
	base clock.Instant
}

// NewIOPort wraps an I/O-space bus.
func NewIOPort(bus *system.Bus, base clock.Instant) *IOPort {
	return &IOPort{bus: bus, base: base}
}

func (p *IOPort) Rebase(now clock.Instant) { p.base = now }

func (p *IOPort) In(port uint16) uint8 {
	v, _ := p.bus.ReadByte(p.base, uint32(port))
	return v
}

func (p *IOPort) Out(port uint16, val uint8) {
	_ = p.bus.WriteByte(p.base, uint32(port), val)
}

var _ IOBus = (*IOPort)(nil)

// StepDevice wraps a CPU and its memory/IO Ports so the trio satisfies
// system.Steppable. I/O port faults are not surfaced here: the Z80 has
// no bus-error exception vector of its own, and reading an unmapped
// peripheral port is routine. Memory faults are surfaced to the
// scheduler as-is. StepDevice also implements system.Debuggable,
// tracking per-PC breakpoints itself.
type StepDevice struct {
	CPU            *CPU
	mem            *MemPort
	io             *IOPort
	freq           clock.Frequency
	breakpoints    map[uint16]bool
	skipBreakpoint bool
}

// NewStepDevice returns a Steppable device driving cpu at freq T-states
// per second, through mem and io.
func NewStepDevice(cpu *CPU, mem *MemPort, io *IOPort, freq clock.Frequency) *StepDevice {
	return &StepDevice{CPU: cpu, mem: mem, io: io, freq: freq, breakpoints: make(map[uint16]bool)}
}

// Step implements system.Steppable. Unlike the 68k, the Z80 has no
// bus-error exception vector: a fault surfaces to the scheduler as
// KindOther rather than being redirected into the CPU itself. If the
// CPU's PC is breakpointed, no instruction executes and a
// KindBreakpoint error is returned instead — except immediately after
// a breakpoint hit, when that one instruction is allowed to run once,
// mirroring the skip_breakpoint counter a debugger's "continue" needs
// to step past its own breakpoint.
func (d *StepDevice) Step(now clock.Instant) (clock.Duration, error) {
	if d.breakpoints[d.CPU.Registers().PC] {
		if d.skipBreakpoint {
			d.skipBreakpoint = false
		} else {
			d.skipBreakpoint = true
			return 0, system.NewBreakpointError("z80: breakpoint at %#x", d.CPU.Registers().PC)
		}
	}
	d.mem.Rebase(now)
	if d.io != nil {
		d.io.Rebase(now)
	}
	tStates := d.CPU.Step()
	if err := d.mem.LastError(); err != nil {
		return d.freq.PeriodDuration(), system.NewOtherError("z80: bus fault: %v", err)
	}
	return d.freq.PeriodDuration().Scale(uint64(tStates)), nil
}

var _ system.Steppable = (*StepDevice)(nil)

// AddBreakpoint implements system.Debuggable.
func (d *StepDevice) AddBreakpoint(addr uint32) { d.breakpoints[uint16(addr)] = true }

// RemoveBreakpoint implements system.Debuggable.
func (d *StepDevice) RemoveBreakpoint(addr uint32) { delete(d.breakpoints, uint16(addr)) }

// DebugRegisters implements system.Debuggable.
func (d *StepDevice) DebugRegisters() map[string]uint64 {
	r := d.CPU.Registers()
	return map[string]uint64{
		"A": uint64(r.A), "F": uint64(r.F),
		"B": uint64(r.B), "C": uint64(r.C),
		"D": uint64(r.D), "E": uint64(r.E),
		"H": uint64(r.H), "L": uint64(r.L),
		"IX": uint64(r.IX), "IY": uint64(r.IY),
		"SP": uint64(r.SP), "PC": uint64(r.PC),
		"I": uint64(r.I), "R": uint64(r.R),
	}
}

// Disassemble implements system.Debuggable with a raw byte dump rather
// than a full mnemonic decoder, for the same reason as the 68k's
// equivalent: per-opcode length depends on prefix bytes this window
// doesn't try to parse.
func (d *StepDevice) Disassemble(addr uint32, count int) []string {
	lines := make([]string, 0, count)
	for i := 0; i < count; i++ {
		a := uint16(addr) + uint16(i)
		lines = append(lines, fmt.Sprintf("%04x: %02x", a, d.mem.Read(a)))
	}
	return lines
}

var _ system.Debuggable = (*StepDevice)(nil)
