package entropy

import "testing"

// TestDeterminism verifies that equal seeds yield equal streams.
func TestDeterminism(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("streams diverged at draw %d", i)
		}
	}
}

// TestZeroSeedRandomizes verifies that seed 0 requests a random seed.
func TestZeroSeedRandomizes(t *testing.T) {
	a := NewSource(0)
	b := NewSource(0)
	if a.Seed() == 0 {
		t.Fatal("seed 0 should have been replaced")
	}
	if a.Seed() == b.Seed() {
		t.Fatal("two zero-seeded sources got the same seed")
	}
}

func TestRangeBounds(t *testing.T) {
	s := NewSource(7)
	for i := 0; i < 1000; i++ {
		v := s.Range(10, 20)
		if v < 10 || v >= 20 {
			t.Fatalf("Range(10, 20) = %v, out of bounds", v)
		}
	}
}

func TestIntBetweenInclusive(t *testing.T) {
	s := NewSource(7)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := s.IntBetween(3, 5)
		if v < 3 || v > 5 {
			t.Fatalf("IntBetween(3, 5) = %d, out of bounds", v)
		}
		seen[v] = true
	}
	for want := 3; want <= 5; want++ {
		if !seen[want] {
			t.Errorf("IntBetween(3, 5) never produced %d", want)
		}
	}
}

// TestForkDiverges verifies that a fork produces a different stream but a
// deterministic one given the parent seed.
func TestForkDiverges(t *testing.T) {
	a := NewSource(42)
	fork := a.Fork()
	if fork.Seed() == a.Seed() {
		t.Fatal("fork should carry a new seed")
	}

	b := NewSource(42)
	forkB := b.Fork()
	if fork.Seed() != forkB.Seed() {
		t.Fatal("forks of equal parents should agree")
	}
}

func TestChanceExtremes(t *testing.T) {
	s := NewSource(1)
	for i := 0; i < 100; i++ {
		if s.Chance(0) {
			t.Fatal("Chance(0) fired")
		}
		if !s.Chance(1.0) {
			t.Fatal("Chance(1.0) did not fire")
		}
	}
}
