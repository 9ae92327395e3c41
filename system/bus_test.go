package system

import (
	"testing"

	"github.com/user-none/go-retrocore/clock"
)

type ramDevice struct {
	data []byte
}

func (r *ramDevice) Len() uint32 { return uint32(len(r.data)) }

func (r *ramDevice) Read(now clock.Instant, addr uint32, data []byte) error {
	copy(data, r.data[addr:])
	return nil
}

func (r *ramDevice) Write(now clock.Instant, addr uint32, data []byte) error {
	copy(r.data[addr:], data)
	return nil
}

func TestBusReadWriteWithinRange(t *testing.T) {
	b := NewBus()
	ram := &ramDevice{data: make([]byte, 16)}
	b.Insert("ram", 0x1000, 16, ram)

	if err := b.WriteBEU16(clock.START, 0x1002, 0xABCD); err != nil {
		t.Fatal(err)
	}
	got, err := b.ReadBEU16(clock.START, 0x1002)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xABCD {
		t.Fatalf("got %#x want %#x", got, 0xABCD)
	}
}

func TestBusUnmappedFaults(t *testing.T) {
	b := NewBus()
	b.Insert("ram", 0x1000, 16, &ramDevice{data: make([]byte, 16)})

	_, err := b.ReadByte(clock.START, 0x2000)
	if err == nil {
		t.Fatal("expected bus error on unmapped read")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != KindBusError {
		t.Fatalf("expected KindBusError, got %v", err)
	}
}

func TestBusIgnoreUnmappedReadsFillByte(t *testing.T) {
	b := NewBus()
	b.IgnoreUnmapped = true
	v, err := b.ReadByte(clock.START, 0x5000)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xFF {
		t.Fatalf("expected fill byte 0xFF, got %#x", v)
	}

	b.FillByte = 0x00
	v, err = b.ReadByte(clock.START, 0x5000)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Fatalf("expected configured fill byte 0, got %#x", v)
	}
}

func TestBusInsertOverlapPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on overlapping range")
		}
	}()
	b := NewBus()
	b.Insert("a", 0x1000, 0x100, &ramDevice{data: make([]byte, 0x100)})
	b.Insert("b", 0x1080, 0x100, &ramDevice{data: make([]byte, 0x100)})
}

func TestBusBoundarySplitRead(t *testing.T) {
	b := NewBus()
	low := &ramDevice{data: []byte{0x11, 0x22}}
	high := &ramDevice{data: []byte{0x33, 0x44}}
	b.Insert("low", 0, 2, low)
	b.Insert("high", 2, 2, high)

	buf := make([]byte, 4)
	if err := b.Read(clock.START, 0, buf); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x11, 0x22, 0x33, 0x44}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %#x want %#x", i, buf[i], want[i])
		}
	}
}

func TestBusWatchpointFires(t *testing.T) {
	b := NewBus()
	b.Insert("ram", 0, 4, &ramDevice{data: make([]byte, 4)})
	var hits []WatchHit
	b.SetWatchHandler(func(h WatchHit) { hits = append(hits, h) })
	b.Watch(2, true, true)

	if err := b.WriteByte(clock.START, 2, 0x42); err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || !hits[0].Write || hits[0].Value != 0x42 || hits[0].Instant != clock.START {
		t.Fatalf("expected one write hit at (addr=2, value=0x42, instant=START), got %v", hits)
	}
}
