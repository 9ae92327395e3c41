package system

import (
	"fmt"
	"sort"

	"github.com/user-none/go-retrocore/clock"
)

// busRange maps a half-open address range [Base, Base+Size) to a device.
type busRange struct {
	Base   uint32
	Size   uint32
	Device Addressable
	Name   string
}

func (r busRange) end() uint32 { return r.Base + r.Size }
func (r busRange) contains(addr uint32) bool {
	return addr >= r.Base && addr < r.end()
}

// Watchpoint fires whenever an access touches addr, independent of
// whether any device is mapped there.
type Watchpoint struct {
	Addr  uint32
	Write bool
	Read  bool
}

// WatchHit describes one watchpoint trigger.
type WatchHit struct {
	Addr    uint32
	Write   bool
	Value   byte
	Instant clock.Instant
}

// Bus is the shared address space: an ordered set of non-overlapping
// device ranges, looked up by binary search on access. Addresses that
// fall outside every range either fault with a BusError or, when
// IgnoreUnmapped is set, read as FillByte / discard writes silently —
// the behavior real hardware shows on an open bus versus a decoded
// abort.
type Bus struct {
	ranges         []busRange
	watchpoints    []Watchpoint
	IgnoreUnmapped bool
	FillByte       byte
	onWatch        func(WatchHit)
}

// NewBus returns an empty address space with the conventional open-bus
// fill value.
func NewBus() *Bus {
	return &Bus{FillByte: 0xFF}
}

// Insert maps dev at [base, base+size) under name. It panics if the new
// range overlaps an existing one — that is a wiring bug, not a runtime
// condition callers should recover from.
func (b *Bus) Insert(name string, base, size uint32, dev Addressable) {
	nr := busRange{Base: base, Size: size, Device: dev, Name: name}
	for _, r := range b.ranges {
		if nr.Base < r.end() && r.Base < nr.end() {
			panic(fmt.Sprintf("system: bus range %s [%#x,%#x) overlaps %s [%#x,%#x)",
				name, nr.Base, nr.end(), r.Name, r.Base, r.end()))
		}
	}
	b.ranges = append(b.ranges, nr)
	sort.Slice(b.ranges, func(i, j int) bool { return b.ranges[i].Base < b.ranges[j].Base })
}

// SetWatchHandler installs the callback invoked when an access touches a
// watched address. Pass nil to disable.
func (b *Bus) SetWatchHandler(fn func(WatchHit)) {
	b.onWatch = fn
}

// Watch registers a watchpoint at addr.
func (b *Bus) Watch(addr uint32, onRead, onWrite bool) {
	b.watchpoints = append(b.watchpoints, Watchpoint{Addr: addr, Read: onRead, Write: onWrite})
}

// Unwatch removes any watchpoint at addr.
func (b *Bus) Unwatch(addr uint32) {
	out := b.watchpoints[:0]
	for _, w := range b.watchpoints {
		if w.Addr != addr {
			out = append(out, w)
		}
	}
	b.watchpoints = out
}

func (b *Bus) find(addr uint32) (busRange, bool) {
	i := sort.Search(len(b.ranges), func(i int) bool { return b.ranges[i].end() > addr })
	if i < len(b.ranges) && b.ranges[i].contains(addr) {
		return b.ranges[i], true
	}
	return busRange{}, false
}

func (b *Bus) checkWatch(now clock.Instant, addr uint32, write bool, value byte) {
	if b.onWatch == nil {
		return
	}
	for _, w := range b.watchpoints {
		if w.Addr != addr {
			continue
		}
		if (write && w.Write) || (!write && w.Read) {
			b.onWatch(WatchHit{Addr: addr, Write: write, Value: value, Instant: now})
		}
	}
}

// Read fills data from the bus starting at addr, splitting the access at
// device boundaries as needed. An access that reaches an unmapped
// address returns a BusError unless IgnoreUnmapped is set, in which case
// the unmapped bytes read as FillByte.
func (b *Bus) Read(now clock.Instant, addr uint32, data []byte) error {
	pos := 0
	for pos < len(data) {
		r, ok := b.find(addr + uint32(pos))
		if !ok {
			if b.IgnoreUnmapped {
				data[pos] = b.FillByte
				pos++
				continue
			}
			return NewBusError("read from unmapped address %#x", addr+uint32(pos))
		}
		off := addr + uint32(pos) - r.Base
		n := minInt(len(data)-pos, int(r.Size-off))
		if err := r.Device.Read(now, off, data[pos:pos+n]); err != nil {
			return err
		}
		pos += n
	}
	for i := range data {
		b.checkWatch(now, addr+uint32(i), false, data[i])
	}
	return nil
}

// Write writes data to the bus starting at addr, splitting at device
// boundaries as Read does.
func (b *Bus) Write(now clock.Instant, addr uint32, data []byte) error {
	pos := 0
	for pos < len(data) {
		r, ok := b.find(addr + uint32(pos))
		if !ok {
			if b.IgnoreUnmapped {
				pos++
				continue
			}
			return NewBusError("write to unmapped address %#x", addr+uint32(pos))
		}
		off := addr + uint32(pos) - r.Base
		n := minInt(len(data)-pos, int(r.Size-off))
		if err := r.Device.Write(now, off, data[pos:pos+n]); err != nil {
			return err
		}
		pos += n
	}
	for i := range data {
		b.checkWatch(now, addr+uint32(i), true, data[i])
	}
	return nil
}

func (b *Bus) ReadByte(now clock.Instant, addr uint32) (uint8, error) {
	var buf [1]byte
	if err := b.Read(now, addr, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (b *Bus) WriteByte(now clock.Instant, addr uint32, v uint8) error {
	return b.Write(now, addr, []byte{v})
}

func (b *Bus) ReadBEU16(now clock.Instant, addr uint32) (uint16, error) {
	var buf [2]byte
	if err := b.Read(now, addr, buf[:]); err != nil {
		return 0, err
	}
	return ReadBEU16(buf[:]), nil
}

func (b *Bus) ReadLEU16(now clock.Instant, addr uint32) (uint16, error) {
	var buf [2]byte
	if err := b.Read(now, addr, buf[:]); err != nil {
		return 0, err
	}
	return ReadLEU16(buf[:]), nil
}

func (b *Bus) WriteBEU16(now clock.Instant, addr uint32, v uint16) error {
	var buf [2]byte
	WriteBEU16(buf[:], v)
	return b.Write(now, addr, buf[:])
}

func (b *Bus) WriteLEU16(now clock.Instant, addr uint32, v uint16) error {
	var buf [2]byte
	WriteLEU16(buf[:], v)
	return b.Write(now, addr, buf[:])
}

func (b *Bus) ReadBEU32(now clock.Instant, addr uint32) (uint32, error) {
	var buf [4]byte
	if err := b.Read(now, addr, buf[:]); err != nil {
		return 0, err
	}
	return ReadBEU32(buf[:]), nil
}

func (b *Bus) ReadLEU32(now clock.Instant, addr uint32) (uint32, error) {
	var buf [4]byte
	if err := b.Read(now, addr, buf[:]); err != nil {
		return 0, err
	}
	return ReadLEU32(buf[:]), nil
}

func (b *Bus) WriteBEU32(now clock.Instant, addr uint32, v uint32) error {
	var buf [4]byte
	WriteBEU32(buf[:], v)
	return b.Write(now, addr, buf[:])
}

func (b *Bus) WriteLEU32(now clock.Instant, addr uint32, v uint32) error {
	var buf [4]byte
	WriteLEU32(buf[:], v)
	return b.Write(now, addr, buf[:])
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
