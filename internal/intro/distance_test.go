package intro

import (
	"math"
	"math/rand/v2"
	"testing"
)

func randomWindow(r *rand.Rand, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = r.Uint32()
	}
	return out
}

func TestDistanceKnownValues(t *testing.T) {
	tests := []struct {
		name string
		a, b []uint32
		want int
	}{
		{"empty", nil, nil, 0},
		{"identical", []uint32{0xdeadbeef}, []uint32{0xdeadbeef}, 0},
		{"single bit", []uint32{0}, []uint32{1}, 1},
		{"nibble", []uint32{0}, []uint32{15}, 4},
		{"all bits", []uint32{0}, []uint32{math.MaxUint32}, 32},
		{"summed", []uint32{0, 15}, []uint32{7, 7}, 3 + 1},
		{"high bit", []uint32{1 << 31}, []uint32{0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Fatalf("Distance(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDistanceIsAMetric(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 500; trial++ {
		n := r.IntN(12)
		a, b, c := randomWindow(r, n), randomWindow(r, n), randomWindow(r, n)

		ab, ba := Distance(a, b), Distance(b, a)
		if ab != ba {
			t.Fatalf("asymmetric: d(a,b)=%d d(b,a)=%d", ab, ba)
		}
		if d := Distance(a, a); d != 0 {
			t.Fatalf("d(a,a) = %d, want 0", d)
		}
		if ab < 0 || ab > 32*n {
			t.Fatalf("d(a,b) = %d outside [0, %d]", ab, 32*n)
		}
		if ab > Distance(a, c)+Distance(c, b) {
			t.Fatalf("triangle inequality violated for %v %v %v", a, b, c)
		}
	}
}

func TestDistancePanicsOnLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for mismatched window lengths")
		}
	}()
	Distance([]uint32{1, 2}, []uint32{1})
}
