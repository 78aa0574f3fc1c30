package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loolos/Antarctica/internal/engine"
)

func TestDisabledManagerIsNoOp(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager(\"\"): %v", err)
	}
	if om != nil {
		t.Fatal("empty dir should disable output")
	}
	// All methods tolerate the nil receiver.
	if err := om.Write(Record{Tick: 1}); err != nil {
		t.Errorf("nil Write: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestWriteHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := om.Write(Record{Tick: 100, Penguins: 10, Seals: 5, Fish: 50}); err != nil {
		t.Fatal(err)
	}
	if err := om.Write(Record{Tick: 200, Penguins: 9, Seals: 5, Fish: 47}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "populations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "tick,") {
		t.Errorf("header = %q, want tick first", lines[0])
	}
	if !strings.HasPrefix(lines[1], "100,10,5,50") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if strings.Contains(lines[2], "tick") {
		t.Errorf("header repeated in row 2: %q", lines[2])
	}
}

func TestRecordFromStats(t *testing.T) {
	s := engine.SimStats{
		Tick: 500, Penguins: 8, Seals: 4, Fish: 30,
		Births: 3, Deaths: 10, Kills: 6, Spawns: 2,
		MeanEnergy: 61.5, StdDevEnergy: 12.0,
		Temperature: -4.5, Season: 3,
	}
	r := RecordFromStats(s)
	if r.Tick != 500 || r.Penguins != 8 || r.Kills != 6 || r.Season != 3 {
		t.Errorf("record = %+v, fields lost in conversion", r)
	}
	if r.MeanEnergy != 61.5 || r.Temperature != -4.5 {
		t.Errorf("record = %+v, float fields lost", r)
	}
}
