package environment

import (
	"math"
	"testing"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/loolos/Antarctica/internal/config"
	"github.com/loolos/Antarctica/internal/entropy"
)

func TestFloeContains(t *testing.T) {
	tests := []struct {
		name string
		floe Floe
		x, y float64
		want bool
	}{
		{
			name: "circle center",
			floe: Floe{X: 100, Y: 100, Shape: ShapeCircle, Radius: 50, RadiusX: 50, RadiusY: 50},
			x:    100, y: 100,
			want: true,
		},
		{
			name: "circle inside edge",
			floe: Floe{X: 100, Y: 100, Shape: ShapeCircle, Radius: 50, RadiusX: 50, RadiusY: 50},
			x:    149, y: 100,
			want: true,
		},
		{
			name: "circle outside",
			floe: Floe{X: 100, Y: 100, Shape: ShapeCircle, Radius: 50, RadiusX: 50, RadiusY: 50},
			x:    151, y: 100,
			want: false,
		},
		{
			name: "ellipse along major axis",
			floe: Floe{X: 0, Y: 0, Shape: ShapeEllipse, Radius: 100, RadiusX: 100, RadiusY: 50},
			x:    90, y: 0,
			want: true,
		},
		{
			name: "ellipse outside minor axis",
			floe: Floe{X: 0, Y: 0, Shape: ShapeEllipse, Radius: 100, RadiusX: 100, RadiusY: 50},
			x:    0, y: 90,
			want: false,
		},
		{
			name: "rotated ellipse swaps axes",
			floe: Floe{X: 0, Y: 0, Shape: ShapeEllipse, Radius: 100, RadiusX: 100, RadiusY: 50, Rotation: math.Pi / 2},
			x:    0, y: 90,
			want: true,
		},
		{
			name: "irregular center",
			floe: Floe{X: 0, Y: 0, Shape: ShapeIrregular, Radius: 110, RadiusX: 100, RadiusY: 100, Irregularity: 0.3},
			x:    0, y: 0,
			want: true,
		},
		{
			name: "irregular beyond bounding circle",
			floe: Floe{X: 0, Y: 0, Shape: ShapeIrregular, Radius: 110, RadiusX: 100, RadiusY: 100, Irregularity: 0.3},
			x:    200, y: 0,
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.floe.Contains(tc.x, tc.y); got != tc.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	cfg := config.Default()
	env := Generate(cfg, entropy.NewSource(42))

	if env.Width != cfg.World.Width || env.Height != cfg.World.Height {
		t.Errorf("dimensions = %dx%d, want %dx%d",
			env.Width, env.Height, cfg.World.Width, cfg.World.Height)
	}
	if n := len(env.Floes); n < cfg.Floes.MinCount || n > cfg.Floes.MaxCount {
		t.Errorf("floe count = %d, want %d..%d", n, cfg.Floes.MinCount, cfg.Floes.MaxCount)
	}
	for i, f := range env.Floes {
		if f.X < 100 || f.X > float64(env.Width)-100 || f.Y < 100 || f.Y > float64(env.Height)-100 {
			t.Errorf("floe %d center (%v, %v) outside placement margin", i, f.X, f.Y)
		}
		if f.Radius <= 0 {
			t.Errorf("floe %d has non-positive radius", i)
		}
		// A floe center is always land, never sea.
		if !env.IsLand(f.X, f.Y) {
			t.Errorf("floe %d center not reported as land", i)
		}
	}
}

func TestFloeAtAndNearest(t *testing.T) {
	env := &Environment{
		Width: 800, Height: 600,
		Floes: []*Floe{
			{X: 100, Y: 100, Shape: ShapeCircle, Radius: 50, RadiusX: 50, RadiusY: 50},
			{X: 500, Y: 400, Shape: ShapeCircle, Radius: 80, RadiusX: 80, RadiusY: 80},
		},
	}

	if f := env.FloeAt(100, 100); f != env.Floes[0] {
		t.Error("FloeAt should return the containing floe")
	}
	if f := env.FloeAt(300, 300); f != nil {
		t.Error("FloeAt in open water should return nil")
	}
	if f := env.NearestFloe(450, 380); f != env.Floes[1] {
		t.Error("NearestFloe picked the wrong floe")
	}
	if env.IsSea(100, 100) {
		t.Error("floe interior reported as sea")
	}
	if !env.IsSea(790, 10) {
		t.Error("far corner reported as land")
	}
}

// TestSeasonCycle verifies the temperature curve over a full year: spring
// warms from -5 to 0, summer peaks at 5, autumn cools, winter plunges to -10.
func TestSeasonCycle(t *testing.T) {
	env := &Environment{
		Width: 800, Height: 600,
		seasonLength: 10,
		driftNoise:   opensimplex.NewNormalized(1),
	}

	var temps []float64
	var indices []int
	for i := 0; i < 40; i++ {
		env.Tick()
		temps = append(temps, env.Temperature)
		indices = append(indices, env.SeasonIndex())
	}

	// Season index walks 0..3 across the year.
	if indices[0] != 0 || indices[12] != 1 || indices[22] != 2 || indices[32] != 3 {
		t.Errorf("season indices = %d/%d/%d/%d at ticks 1/13/23/33",
			indices[0], indices[12], indices[22], indices[32])
	}
	// Spring warms.
	if temps[8] <= temps[0] {
		t.Errorf("spring should warm: tick1=%v tick9=%v", temps[0], temps[8])
	}
	// Summer is the warmest stretch.
	max := math.Inf(-1)
	maxAt := 0
	for i, v := range temps {
		if v > max {
			max = v
			maxAt = i
		}
	}
	// The curve peaks at the summer/autumn boundary.
	if indices[maxAt] == 0 || indices[maxAt] == 3 {
		t.Errorf("warmest tick fell in season %d, want summer or early autumn", indices[maxAt])
	}
	// Winter is coldest.
	min := math.Inf(1)
	minAt := 0
	for i, v := range temps {
		if v < min {
			min = v
			minAt = i
		}
	}
	if indices[minAt] != 3 {
		t.Errorf("coldest tick fell in season %d, want winter", indices[minAt])
	}

	// The cycle wraps after 4 seasons.
	env.Tick()
	if env.SeasonIndex() != 0 {
		t.Errorf("season index after full year = %d, want 0", env.SeasonIndex())
	}
}

// TestDriftWraps verifies floes drift east and wrap at the map edge.
func TestDriftWraps(t *testing.T) {
	env := &Environment{
		Width: 800, Height: 600,
		seasonLength: 1000,
		driftSpeed:   1.0, // exaggerated for the test
		driftNoise:   opensimplex.NewNormalized(1),
		Floes: []*Floe{
			{X: 799.5, Y: 300, Shape: ShapeCircle, Radius: 50, RadiusX: 50, RadiusY: 50},
		},
	}

	env.Tick()
	f := env.Floes[0]
	if f.X > 799.5 && f.X <= 800 {
		t.Fatalf("floe did not advance: X=%v", f.X)
	}

	env.Tick()
	if f.X > 800 {
		t.Errorf("floe X=%v escaped the map", f.X)
	}
}

func TestIceThickness(t *testing.T) {
	env := &Environment{
		Width: 800, Height: 600,
		Temperature: -20,
		Floes: []*Floe{
			{X: 100, Y: 100, Shape: ShapeCircle, Radius: 50, RadiusX: 50, RadiusY: 50},
		},
	}

	if got := env.IceThickness(100, 100); got != 2.0 {
		t.Errorf("land thickness = %v, want 2.0", got)
	}
	if got := env.IceThickness(700, 500); got <= 0 || got > 1 {
		t.Errorf("cold sea thickness = %v, want (0, 1]", got)
	}
	env.Temperature = 2
	if got := env.IceThickness(700, 500); got != 0 {
		t.Errorf("warm sea thickness = %v, want 0", got)
	}
}
