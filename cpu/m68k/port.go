package m68k

import (
	"fmt"

	"github.com/user-none/go-retrocore/clock"
	"github.com/user-none/go-retrocore/system"
)

// Port adapts a byte-oriented, Instant-timestamped system.Bus to the
// word/long CycleBus this interpreter was written against, and in turn
// lets a CPU be driven by a system.System's scheduler as a
// system.Steppable device.
//
// Each bus access converts the interpreter's running cycle count into a
// clock.Instant via freq, so devices elsewhere on the System see
// accesses land at the right point on the shared virtual timeline even
// though the CPU core itself only knows about cycle counts.
type Port struct {
	bus     *system.Bus
	freq    clock.Frequency
	base    clock.Instant
	lastErr error
}

// NewPort wraps bus for a CPU core clocked at freq, with cycle 0
// corresponding to base on the System's timeline.
func NewPort(bus *system.Bus, freq clock.Frequency, base clock.Instant) *Port {
	return &Port{bus: bus, freq: freq, base: base}
}

// Rebase moves cycle 0 to a new Instant, called by the Steppable
// adapter after each Step so the next instruction's accesses land at
// the System's current time instead of drifting back to base.
func (p *Port) Rebase(now clock.Instant) {
	p.base = now
}

func (p *Port) instantForCycle(cycle uint64) clock.Instant {
	return p.base.Add(p.freq.PeriodDuration().Scale(cycle))
}

// Reset implements Bus. The bus itself has no reset concept in the
// system package; devices reset independently via their own wiring.
func (p *Port) Reset() {}

// Read implements Bus, using the Port's current base time.
func (p *Port) Read(op Size, addr uint32) uint32 {
	return p.ReadCycle(0, op, addr)
}

// Write implements Bus, using the Port's current base time.
func (p *Port) Write(op Size, addr uint32, val uint32) {
	p.WriteCycle(0, op, addr, val)
}

// ReadCycle implements CycleBus, translating a big-endian word/long
// access at the given cycle into one or more system.Bus byte reads. A
// bus fault is reported to the interpreter as a zero read; callers that
// need to see the fault should check p.LastError after Step returns.
func (p *Port) ReadCycle(cycle uint64, op Size, addr uint32) uint32 {
	now := p.instantForCycle(cycle)
	switch op {
	case Byte:
		v, err := p.bus.ReadByte(now, addr)
		p.lastErr = err
		return uint32(v)
	case Word:
		v, err := p.bus.ReadBEU16(now, addr)
		p.lastErr = err
		return uint32(v)
	default: // Long
		v, err := p.bus.ReadBEU32(now, addr)
		p.lastErr = err
		return v
	}
}

// WriteCycle implements CycleBus.
func (p *Port) WriteCycle(cycle uint64, op Size, addr uint32, val uint32) {
	now := p.instantForCycle(cycle)
	switch op {
	case Byte:
		p.lastErr = p.bus.WriteByte(now, addr, uint8(val))
	case Word:
		p.lastErr = p.bus.WriteBEU16(now, addr, uint16(val))
	default: // Long
		p.lastErr = p.bus.WriteBEU32(now, addr, val)
	}
}

// LastError returns the error from the most recent bus access, if any,
// so the Steppable adapter can turn a fault into a §7 bus-error
// exception instead of silently treating it as a zero read.
func (p *Port) LastError() error { return p.lastErr }

var _ CycleBus = (*Port)(nil)

// StepDevice wraps a CPU and its Port so the pair satisfies
// system.Steppable, driving bus faults into the CPU's own bus-error
// exception vector the way real hardware asserts /BERR. It also
// implements system.Debuggable: breakpoints are tracked here, keyed by
// PC, and checked before every instruction.
type StepDevice struct {
	CPU            *CPU
	port           *Port
	breakpoints    map[uint32]bool
	skipBreakpoint bool
}

// NewStepDevice returns a Steppable device pairing cpu with the Port it
// was constructed against.
func NewStepDevice(cpu *CPU, port *Port) *StepDevice {
	return &StepDevice{CPU: cpu, port: port, breakpoints: make(map[uint32]bool)}
}

// Step implements system.Steppable: executes one instruction, rebases
// the Port to now, and converts the cycle count consumed into a
// clock.Duration via the interpreter's own clock rate. If the CPU's PC
// is breakpointed, no instruction executes and a KindBreakpoint error
// is returned instead — except immediately after a breakpoint hit,
// when the one instruction sitting at that address is allowed to run
// once so a debugger's "continue" can step past its own breakpoint.
func (d *StepDevice) Step(now clock.Instant) (clock.Duration, error) {
	if d.breakpoints[d.CPU.Registers().PC] {
		if d.skipBreakpoint {
			d.skipBreakpoint = false
		} else {
			d.skipBreakpoint = true
			return 0, system.NewBreakpointError("m68k: breakpoint at %#x", d.CPU.Registers().PC)
		}
	}
	d.port.Rebase(now)
	cycles := d.CPU.Step()
	if err := d.port.LastError(); err != nil {
		if serr, ok := err.(*system.Error); ok && serr.Kind == system.KindBusError {
			d.CPU.exception(vecBusError)
		}
	}
	if d.CPU.Halted() {
		return d.port.freq.PeriodDuration(), system.NewAssertionError("m68k: CPU halted on double bus fault at PC=%#x", d.CPU.Registers().PC)
	}
	return d.port.freq.PeriodDuration().Scale(uint64(cycles)), nil
}

var _ system.Steppable = (*StepDevice)(nil)

// AddBreakpoint implements system.Debuggable.
func (d *StepDevice) AddBreakpoint(addr uint32) { d.breakpoints[addr] = true }

// RemoveBreakpoint implements system.Debuggable.
func (d *StepDevice) RemoveBreakpoint(addr uint32) { delete(d.breakpoints, addr) }

// DebugRegisters implements system.Debuggable, naming every
// programmer-visible register.
func (d *StepDevice) DebugRegisters() map[string]uint64 {
	regs := d.CPU.Registers()
	m := map[string]uint64{
		"PC": uint64(regs.PC),
		"SR": uint64(regs.SR),
	}
	for i, v := range regs.D {
		m[fmt.Sprintf("D%d", i)] = uint64(v)
	}
	for i, v := range regs.A {
		m[fmt.Sprintf("A%d", i)] = uint64(v)
	}
	return m
}

// Disassemble implements system.Debuggable with a raw big-endian word
// dump rather than a full mnemonic decoder: the instruction set's
// addressing-mode-dependent length makes a correct disassembler a
// project in its own right, out of scope per the non-goals around
// assembler/debugger tooling. Each line is one 68k instruction word.
func (d *StepDevice) Disassemble(addr uint32, count int) []string {
	lines := make([]string, 0, count)
	for i := 0; i < count; i++ {
		a := addr + uint32(i)*2
		word := d.port.ReadCycle(0, Word, a)
		lines = append(lines, fmt.Sprintf("%08x: %04x", a, uint16(word)))
	}
	return lines
}

var _ system.Debuggable = (*StepDevice)(nil)
