package clock

import "testing"

func TestPeriodDuration(t *testing.T) {
	tests := []struct {
		hz   uint32
		want Duration
	}{
		{1_000_000_000, 1_000_000},
		{1_000_000, 1_000_000_000},
		{7_159_090, 139_682_557}, // Genesis-ish rate; truncates, doesn't round
	}

	for _, tt := range tests {
		got := FrequencyFromHz(tt.hz).PeriodDuration()
		if got != tt.want {
			t.Errorf("PeriodDuration(%d Hz) = %d, want %d", tt.hz, got, tt.want)
		}
	}
}

func TestDurationCheckedAddOverflow(t *testing.T) {
	max := Duration(^uint64(0))
	if _, ok := max.CheckedAdd(1); ok {
		t.Fatal("CheckedAdd should report overflow at max")
	}
	if sum, ok := Duration(1).CheckedAdd(2); !ok || sum != 3 {
		t.Fatalf("CheckedAdd(1,2) = %d,%v want 3,true", sum, ok)
	}
}

func TestDurationSubPanicsOnUnderflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Sub should panic on underflow")
		}
	}()
	Duration(1).Sub(2)
}

func TestInstantMonotonic(t *testing.T) {
	a := START
	b := a.Add(DurationFromFemtos(100))
	if !a.Before(b) {
		t.Fatal("expected a before b")
	}
	if got := b.DurationSince(a); got != 100 {
		t.Fatalf("DurationSince = %d, want 100", got)
	}
}

func TestDivDuration(t *testing.T) {
	d := DurationFromFemtos(100)
	if got := d.DivDuration(DurationFromFemtos(7)); got != 14 {
		t.Fatalf("DivDuration = %d, want 14", got)
	}
}
