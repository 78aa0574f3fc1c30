package spatial

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/loolos/Antarctica/internal/entropy"
)

func TestInsertRemove(t *testing.T) {
	g := New(800, 600, 100)

	g.Insert("a", 50, 50)
	g.Insert("b", 750, 550)

	if g.Len() != 2 {
		t.Fatalf("Len = %d, want 2", g.Len())
	}
	if !g.Contains("a") || !g.Contains("b") {
		t.Fatal("inserted ids not found")
	}

	g.Remove("a")
	if g.Contains("a") {
		t.Error("removed id still indexed")
	}
	if g.Len() != 1 {
		t.Errorf("Len = %d, want 1", g.Len())
	}

	// Unknown removal is a no-op.
	g.Remove("ghost")
	if g.Len() != 1 {
		t.Errorf("Len after ghost removal = %d, want 1", g.Len())
	}
}

func TestReinsertReplaces(t *testing.T) {
	g := New(800, 600, 100)
	g.Insert("a", 50, 50)
	g.Insert("a", 750, 550)

	if g.Len() != 1 {
		t.Fatalf("Len = %d, want 1", g.Len())
	}
	got := g.QueryRadius(750, 550, 10, "")
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("query at new position = %v, want [a]", got)
	}
	if ids := g.QueryRadius(50, 50, 10, ""); len(ids) != 0 {
		t.Errorf("query at old position = %v, want empty", ids)
	}
}

func TestRelocate(t *testing.T) {
	g := New(800, 600, 100)
	g.Insert("a", 50, 50)

	// Within the same cell: position refresh only.
	g.Relocate("a", 60, 60)
	if got := g.QueryRadius(60, 60, 5, ""); len(got) != 1 {
		t.Errorf("same-cell relocate lost the id: %v", got)
	}

	// Across cells.
	g.Relocate("a", 450, 350)
	if got := g.QueryRadius(450, 350, 5, ""); len(got) != 1 {
		t.Errorf("cross-cell relocate lost the id: %v", got)
	}
	if got := g.QueryRadius(60, 60, 5, ""); len(got) != 0 {
		t.Errorf("old cell still answers: %v", got)
	}

	// Relocating an unknown id inserts it.
	g.Relocate("b", 10, 10)
	if !g.Contains("b") {
		t.Error("relocate of unknown id did not insert")
	}
}

func TestQueryExcludesSelf(t *testing.T) {
	g := New(800, 600, 100)
	g.Insert("a", 100, 100)
	g.Insert("b", 105, 100)

	got := g.QueryRadius(100, 100, 50, "a")
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("query = %v, want [b]", got)
	}
}

// TestQueryRadiusMatchesBruteForce populates the grid with random points and
// checks QueryRadius against a direct distance scan.
func TestQueryRadiusMatchesBruteForce(t *testing.T) {
	rng := entropy.NewSource(42)
	g := New(800, 600, 100)

	type pt struct{ x, y float64 }
	points := make(map[string]pt)
	for i := 0; i < 300; i++ {
		id := fmt.Sprintf("p%d", i)
		p := pt{rng.Range(0, 800), rng.Range(0, 600)}
		points[id] = p
		g.Insert(id, p.x, p.y)
	}

	for trial := 0; trial < 50; trial++ {
		x := rng.Range(0, 800)
		y := rng.Range(0, 600)
		radius := rng.Range(10, 250)

		var want []string
		for id, p := range points {
			if math.Hypot(p.x-x, p.y-y) <= radius {
				want = append(want, id)
			}
		}
		got := g.QueryRadius(x, y, radius, "")

		sort.Strings(want)
		sort.Strings(got)
		if len(got) != len(want) {
			t.Fatalf("trial %d: got %d ids, want %d", trial, len(got), len(want))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("trial %d: got %v, want %v", trial, got, want)
			}
		}
	}
}

func TestNearest(t *testing.T) {
	g := New(800, 600, 100)
	g.Insert("far", 500, 500)
	g.Insert("near", 110, 100)
	g.Insert("nearer", 105, 100)

	id, ok := g.Nearest(100, 100, []string{"far", "near", "nearer"}, 50)
	if !ok || id != "nearer" {
		t.Errorf("Nearest = %q, %v; want nearer, true", id, ok)
	}

	// Strictly inside maxDist: a candidate exactly at maxDist does not match.
	if _, ok := g.Nearest(100, 100, []string{"far"}, 10); ok {
		t.Error("Nearest found a candidate beyond maxDist")
	}

	// Unknown candidates are skipped.
	id, ok = g.Nearest(100, 100, []string{"ghost", "near"}, 50)
	if !ok || id != "near" {
		t.Errorf("Nearest with ghost = %q, %v; want near, true", id, ok)
	}
}

// TestQueryOrderStable verifies ids come back in insertion order, so runs
// replaying the same mutation sequence see identical neighbor lists.
func TestQueryOrderStable(t *testing.T) {
	g := New(800, 600, 100)
	ids := []string{"c", "a", "d", "b"}
	for i, id := range ids {
		g.Insert(id, 50+float64(i), 50)
	}
	g.Remove("a")
	g.Insert("a", 58, 50)

	want := []string{"c", "d", "b", "a"}
	for trial := 0; trial < 20; trial++ {
		got := g.QueryRadius(50, 50, 30, "")
		if len(got) != len(want) {
			t.Fatalf("trial %d: got %v, want %v", trial, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("trial %d: got %v, want %v", trial, got, want)
			}
		}
	}
}

// TestNoLeakedBuckets verifies cells are released once emptied.
func TestNoLeakedBuckets(t *testing.T) {
	g := New(800, 600, 100)
	for i := 0; i < 100; i++ {
		g.Insert(fmt.Sprintf("p%d", i), float64(i*7%800), float64(i*13%600))
	}
	for i := 0; i < 100; i++ {
		g.Remove(fmt.Sprintf("p%d", i))
	}
	if g.Len() != 0 {
		t.Fatalf("Len = %d, want 0", g.Len())
	}
	if got := g.QueryRadius(400, 300, 1000, ""); len(got) != 0 {
		t.Errorf("empty grid answered %v", got)
	}
	if g.cells.Len() != 0 {
		t.Errorf("cells.Len = %d, want 0", g.cells.Len())
	}
}

// TestOutOfBoundsClamped verifies positions outside the map index into edge
// cells rather than panicking.
func TestOutOfBoundsClamped(t *testing.T) {
	g := New(800, 600, 100)
	g.Insert("a", -10, -10)
	g.Insert("b", 900, 700)

	if got := g.QueryRadius(0, 0, 30, ""); len(got) != 1 || got[0] != "a" {
		t.Errorf("query near origin = %v, want [a]", got)
	}
	if got := g.QueryRadius(899, 699, 30, ""); len(got) != 1 || got[0] != "b" {
		t.Errorf("query past far corner = %v, want [b]", got)
	}
}
