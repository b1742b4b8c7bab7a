package ddt

import (
	"math/rand/v2"
	"testing"

	"git.gammaspectra.live/P2Pool/sbox-ddt/sbox"
	"lukechampine.com/uint128"
)

// PRESENT block cipher S-box
var present = sbox.SBox{0xc, 0x5, 0x6, 0xb, 0x9, 0x0, 0xa, 0xd, 0x3, 0xe, 0xf, 0x8, 0x4, 0x7, 0x1, 0x2}

// x³ over GF(2³) modulo x³ + x + 1
var cube3 = sbox.SBox{0, 1, 3, 4, 5, 6, 7, 2}

func randomPermutation(bits int, seed uint64) sbox.SBox {
	s, _ := sbox.Identity(bits)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
	return s
}

func mustAccumulate(t *testing.T, s sbox.SBox) Histogram {
	t.Helper()
	h, err := Accumulate(s)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestAccumulate_Literal(t *testing.T) {
	h := mustAccumulate(t, sbox.SBox{0, 1, 2, 3})

	if h.String() != "{4: 3, }" {
		t.Fatalf("expected %s, got %s", "{4: 3, }", h)
	}
	if h.Format(true) != "{0: 9, 4: 3, }" {
		t.Fatalf("expected %s, got %s", "{0: 9, 4: 3, }", h.Format(true))
	}
}

func TestAccumulate_Known(t *testing.T) {
	check := func(name string, s sbox.SBox, expected, expectedWithZero string, uniformity uint64) {
		h := mustAccumulate(t, s)
		if h.String() != expected {
			t.Fatalf("%s: expected %s, got %s", name, expected, h)
		}
		if h.Format(true) != expectedWithZero {
			t.Fatalf("%s: expected %s, got %s", name, expectedWithZero, h.Format(true))
		}
		if h.Max() != uniformity {
			t.Fatalf("%s: expected uniformity %d, got %d", name, uniformity, h.Max())
		}
	}

	check("aes", sbox.AES(), "{2: 32130, 4: 255, }", "{0: 32895, 2: 32130, 4: 255, }", 4)
	check("present", present, "{2: 72, 4: 24, }", "{0: 144, 2: 72, 4: 24, }", 4)
	check("cube", cube3, "{2: 28, }", "{0: 28, 2: 28, }", 2)
	check("constant", sbox.SBox{3, 3, 3, 3}, "{4: 3, }", "{0: 9, 4: 3, }", 4)
	check("swap", sbox.SBox{1, 0}, "{2: 1, }", "{0: 1, 2: 1, }", 2)
}

func TestAccumulate_Identity(t *testing.T) {
	for bits := 1; bits <= 10; bits++ {
		s, err := sbox.Identity(bits)
		if err != nil {
			t.Fatal(err)
		}
		n := uint64(len(s))
		h := mustAccumulate(t, s)

		entries := h.Entries(false)
		if len(entries) != 1 || entries[0].Count != n || entries[0].Cells != n-1 {
			t.Fatalf("bits %d: expected {%d: %d}, got %s", bits, n, n-1, h)
		}
	}
}

func TestAccumulate_Degenerate(t *testing.T) {
	for _, s := range []sbox.SBox{{}, {0}} {
		h := mustAccumulate(t, s)
		if h.String() != "{}" || h.Format(true) != "{}" {
			t.Fatalf("size %d: expected {}, got %s", len(s), h.Format(true))
		}
		if h.Total() != 0 {
			t.Fatalf("size %d: expected no cells, got %d", len(s), h.Total())
		}
		if h.Max() != 0 {
			t.Fatalf("size %d: expected uniformity 0, got %d", len(s), h.Max())
		}
	}
}

func TestAccumulate_Invalid(t *testing.T) {
	if _, err := Accumulate(sbox.SBox{0, 4, 1, 2}); err == nil {
		t.Fatal("expected error for value out of domain")
	}
	if _, err := AccumulateParallel(sbox.SBox{0, 1, 2}, 2); err == nil {
		t.Fatal("expected error for size not a power of two")
	}
}

func TestAccumulate_Invariants(t *testing.T) {
	for _, s := range []sbox.SBox{sbox.AES(), present, cube3, randomPermutation(9, 1), {5, 5, 1, 0, 7, 7, 7, 2}} {
		n := uint64(len(s))
		h := mustAccumulate(t, s)

		if h.Total() != n*(n-1) {
			t.Fatalf("expected %d cells, got %d", n*(n-1), h.Total())
		}
		if !h.Mass().Equals(uint128.From64(n * (n - 1))) {
			t.Fatalf("expected mass %d, got %s", n*(n-1), h.Mass())
		}

		row := make([]uint32, n)
		for dx := uint32(1); uint64(dx) < n; dx++ {
			Row(s, dx, row)
			var sum uint64
			for dy := range row {
				sum += uint64(row[dy])
				row[dy] = 0
			}
			if sum != n {
				t.Fatalf("dx %d: expected row sum %d, got %d", dx, n, sum)
			}
		}
	}
}

func TestAccumulate_Idempotent(t *testing.T) {
	s := randomPermutation(8, 42)
	a := mustAccumulate(t, s)
	b := mustAccumulate(t, s)
	if a.String() != b.String() || !a.Equals(b) {
		t.Fatalf("expected %s, got %s", a, b)
	}
}

func TestAccumulate_Inverse(t *testing.T) {
	// the table of the inverse is the transpose, so the histogram is unchanged
	for seed := uint64(0); seed < 4; seed++ {
		s := randomPermutation(7, seed)
		inv, err := s.Inverse()
		if err != nil {
			t.Fatal(err)
		}
		if a, b := mustAccumulate(t, s), mustAccumulate(t, inv); !a.Equals(b) {
			t.Fatalf("seed %d: expected %s, got %s", seed, a, b)
		}
	}
}

func TestAccumulateParallel(t *testing.T) {
	boxes := []sbox.SBox{{}, {0}, {1, 0}, cube3, present, sbox.AES(), randomPermutation(10, 7)}
	for _, s := range boxes {
		expected := mustAccumulate(t, s)
		for _, routines := range []int{0, 1, 2, 3, 16, 4096} {
			h, err := AccumulateParallel(s, routines)
			if err != nil {
				t.Fatal(err)
			}
			if !h.Equals(expected) {
				t.Fatalf("size %d routines %d: expected %s, got %s", len(s), routines, expected, h)
			}
		}
	}
}

func BenchmarkAccumulate(b *testing.B) {
	s := randomPermutation(12, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Accumulate(s)
	}
}

func BenchmarkAccumulateParallel(b *testing.B) {
	s := randomPermutation(12, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = AccumulateParallel(s, 0)
	}
}
