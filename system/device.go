package system

import (
	"sync/atomic"

	"github.com/user-none/go-retrocore/clock"
)

// DeviceId uniquely identifies a device within a System. Ids are assigned
// in registration order starting at 1; 0 is never issued and can be used
// as a "no device" sentinel by callers.
type DeviceId uint32

var nextDeviceId uint64

// NewDeviceId allocates the next DeviceId. Safe for concurrent use,
// though a System's registration phase is not expected to run
// concurrently in practice.
func NewDeviceId() DeviceId {
	return DeviceId(atomic.AddUint64(&nextDeviceId, 1))
}

// Steppable is a device that advances its own internal clock when asked.
// Step runs the device until its next scheduling point and returns how
// much virtual time elapsed, so the caller can compute the device's next
// due Instant.
type Steppable interface {
	// Step advances the device by at least one unit of work starting at
	// now, returning the Duration consumed.
	Step(now clock.Instant) (clock.Duration, error)
}

// Addressable is a device that can be mapped into a Bus address range.
// Addresses passed to Read/Write are already relative to the device's
// base address.
type Addressable interface {
	// Len reports the size in bytes of the device's address space.
	Len() uint32
	Read(now clock.Instant, addr uint32, data []byte) error
	Write(now clock.Instant, addr uint32, data []byte) error
}

// Interruptable is a device that can raise and have acknowledged a
// prioritized interrupt request.
type Interruptable interface {
	// RaiseInterrupt signals a pending interrupt at the given priority.
	RaiseInterrupt(priority uint8)
	// AcknowledgeInterrupt returns the vector for the highest pending
	// interrupt at or above priority, and clears it.
	AcknowledgeInterrupt(priority uint8) (vector uint8, ok bool)
}

// Debuggable is a device willing to expose itself to the debugger
// kernel. Breakpoints are per-device: a Debuggable's own Steppable.Step
// is expected to consult its breakpoint set and return a
// KindBreakpoint Error when the device reaches a breakpointed address,
// which is how StepUntilDebuggable recognizes a hit.
type Debuggable interface {
	DebugRegisters() map[string]uint64
	AddBreakpoint(addr uint32)
	RemoveBreakpoint(addr uint32)
	Disassemble(addr uint32, count int) []string
}

// Inspectable is a device that can render a human-readable summary of
// its current state, for the debugger's "inspect" command.
type Inspectable interface {
	Inspect() string
}

// Device wraps a concrete device implementation with its assigned id
// and display name. A device only needs to implement the capability
// interfaces it supports; System type-asserts against them.
type Device struct {
	Id   DeviceId
	Name string
	Impl any
}

// NewDevice allocates a DeviceId and wraps impl.
func NewDevice(name string, impl any) Device {
	return Device{Id: NewDeviceId(), Name: name, Impl: impl}
}

// AsSteppable type-asserts the device's capability, mirroring the
// transmute-to-trait-object pattern of a capability-oriented device
// model: a device either supports stepping or it doesn't.
func (d Device) AsSteppable() (Steppable, bool) {
	s, ok := d.Impl.(Steppable)
	return s, ok
}

func (d Device) AsAddressable() (Addressable, bool) {
	a, ok := d.Impl.(Addressable)
	return a, ok
}

func (d Device) AsInterruptable() (Interruptable, bool) {
	i, ok := d.Impl.(Interruptable)
	return i, ok
}

func (d Device) AsDebuggable() (Debuggable, bool) {
	dbg, ok := d.Impl.(Debuggable)
	return dbg, ok
}

func (d Device) AsInspectable() (Inspectable, bool) {
	i, ok := d.Impl.(Inspectable)
	return i, ok
}

// Byte-order helpers shared by bus implementations and devices that need
// to assemble multi-byte values from a byte-oriented Addressable.

func ReadBEU16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func ReadLEU16(b []byte) uint16 {
	return uint16(b[1])<<8 | uint16(b[0])
}

func ReadBEU32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func ReadLEU32(b []byte) uint32 {
	return uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
}

func WriteBEU16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

func WriteLEU16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func WriteBEU32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func WriteLEU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
