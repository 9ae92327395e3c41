package video

import (
	"testing"

	"github.com/user-none/go-retrocore/clock"
)

func TestFrameSetPixelClipsOutOfBounds(t *testing.T) {
	f := NewFrame(4, 4, RGBA)
	f.SetPixel(10, 10, RGB(1, 2, 3))
	for _, v := range f.Bitmap {
		if v != 0 {
			t.Fatal("out-of-bounds SetPixel must not write")
		}
	}
}

func TestFrameSetPixelEncodesRGBA(t *testing.T) {
	f := NewFrame(2, 2, RGBA)
	f.SetPixel(1, 0, RGB(0x11, 0x22, 0x33))
	want := uint32(0x11<<24 | 0x22<<16 | 0x33<<8 | 0xFF)
	if got := f.Bitmap[1]; got != want {
		t.Fatalf("Bitmap[1] = %#08x, want %#08x", got, want)
	}
}

func TestFrameMaskPixelLeavesExisting(t *testing.T) {
	f := NewFrame(1, 1, RGBA)
	f.SetPixel(0, 0, RGB(0x10, 0x20, 0x30))
	before := f.Bitmap[0]
	f.SetPixel(0, 0, MaskPixel)
	if f.Bitmap[0] != before {
		t.Fatal("mask pixel must not overwrite existing contents")
	}
}

func TestFrameClear(t *testing.T) {
	f := NewFrame(3, 3, RGBA)
	f.Clear(RGB(1, 1, 1))
	want := RGB(1, 1, 1).Encode(RGBA)
	for _, v := range f.Bitmap {
		if v != want {
			t.Fatalf("Clear left %#08x, want %#08x", v, want)
		}
	}
}

func TestReceiverLatestDropsOlderFrames(t *testing.T) {
	sender, receiver := NewFrameQueue(64, 64)
	sender.Add(clock.START, NewFrame(1, 1, RGBA))
	sender.Add(clock.START.Add(clock.DurationFromMillis(16)), NewFrame(2, 2, RGBA))

	_, f, ok := receiver.Latest()
	if !ok {
		t.Fatal("expected a frame")
	}
	if f.Width != 2 {
		t.Fatalf("got width %d, want 2 (the most recent frame)", f.Width)
	}
	if _, _, ok := receiver.Latest(); ok {
		t.Fatal("Latest should drain the queue")
	}
}
