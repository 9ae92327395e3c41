// Package memory provides flat byte-slice Addressable devices for RAM
// and ROM, the simplest possible implementation of system.Addressable.
package memory

import (
	"github.com/user-none/go-retrocore/clock"
	"github.com/user-none/go-retrocore/system"
)

// Block is a contiguous span of bytes mapped onto a Bus. A ReadOnly
// Block ignores writes rather than faulting, matching how a ROM socket
// behaves on real hardware.
type Block struct {
	data     []byte
	ReadOnly bool
}

// NewBlock allocates a zeroed Block of size bytes.
func NewBlock(size uint32) *Block {
	return &Block{data: make([]byte, size)}
}

// NewBlockFromBytes wraps contents directly, without copying. Callers
// that need an independent copy should clone before passing it in.
func NewBlockFromBytes(contents []byte) *Block {
	return &Block{data: contents}
}

// NewROM returns a read-only Block wrapping contents.
func NewROM(contents []byte) *Block {
	return &Block{data: contents, ReadOnly: true}
}

// Len implements system.Addressable.
func (b *Block) Len() uint32 { return uint32(len(b.data)) }

// Bytes exposes the underlying storage, for loaders and tests that need
// to poke data in directly without going through the Bus.
func (b *Block) Bytes() []byte { return b.data }

// LoadAt copies contents into the block starting at offset, growing the
// block's effective bound is not performed — contents must fit.
func (b *Block) LoadAt(offset uint32, contents []byte) {
	copy(b.data[offset:], contents)
}

func (b *Block) Read(now clock.Instant, addr uint32, data []byte) error {
	if int(addr)+len(data) > len(b.data) {
		return system.NewBusError("memory: read past end of block at %#x", addr)
	}
	copy(data, b.data[addr:])
	return nil
}

func (b *Block) Write(now clock.Instant, addr uint32, data []byte) error {
	if b.ReadOnly {
		return nil
	}
	if int(addr)+len(data) > len(b.data) {
		return system.NewBusError("memory: write past end of block at %#x", addr)
	}
	copy(b.data[addr:], data)
	return nil
}
