package loader

import "testing"

func makeSMD(body []byte) []byte {
	header := make([]byte, smdHeaderSize)
	header[smdMagicOffset] = 0xAA
	header[smdMagicOffset+1] = 0xBB
	return append(header, body...)
}

func TestDeinterleaveSMDRoundTrip(t *testing.T) {
	// A real ROM image of one block's worth of bytes.
	want := make([]byte, smdBlockSize)
	for i := range want {
		want[i] = byte(i)
	}

	// Interleave it the way a dumper would, inverse of deinterleaveBlock.
	half := smdBlockSize / 2
	interleaved := make([]byte, smdBlockSize)
	for i := 0; i < half; i++ {
		interleaved[half+i] = want[2*i]
		interleaved[i] = want[2*i+1]
	}

	got, err := DeinterleaveSMD(makeSMD(interleaved))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("length = %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x want %#x", i, got[i], want[i])
		}
	}
}

func TestDeinterleaveSMDBadMagic(t *testing.T) {
	header := make([]byte, smdHeaderSize)
	if _, err := DeinterleaveSMD(header); err == nil {
		t.Fatal("expected error for missing magic")
	}
}

func TestDeinterleaveSMDTooShort(t *testing.T) {
	if _, err := DeinterleaveSMD([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated header")
	}
}
