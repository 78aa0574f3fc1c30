// Package telemetry writes interval observation records to CSV files for
// offline analysis of a run.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/loolos/Antarctica/internal/engine"
)

// Record is one row of population telemetry, written every report interval.
type Record struct {
	Tick         int     `csv:"tick"`
	Penguins     int     `csv:"penguins"`
	Seals        int     `csv:"seals"`
	Fish         int     `csv:"fish"`
	Births       int     `csv:"births"`
	Deaths       int     `csv:"deaths"`
	Kills        int     `csv:"kills"`
	Spawns       int     `csv:"spawns"`
	MeanEnergy   float64 `csv:"mean_energy"`
	StdDevEnergy float64 `csv:"stddev_energy"`
	Temperature  float64 `csv:"temperature"`
	Season       int     `csv:"season"`
}

// RecordFromStats converts an engine summary into a CSV row.
func RecordFromStats(s engine.SimStats) Record {
	return Record{
		Tick:         s.Tick,
		Penguins:     s.Penguins,
		Seals:        s.Seals,
		Fish:         s.Fish,
		Births:       s.Births,
		Deaths:       s.Deaths,
		Kills:        s.Kills,
		Spawns:       s.Spawns,
		MeanEnergy:   s.MeanEnergy,
		StdDevEnergy: s.StdDevEnergy,
		Temperature:  s.Temperature,
		Season:       s.Season,
	}
}

// OutputManager appends telemetry rows to populations.csv under an output
// directory. A nil manager (empty dir) is valid and discards everything.
type OutputManager struct {
	file          *os.File
	headerWritten bool
}

// NewOutputManager creates the output directory and opens the CSV file.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "populations.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating populations.csv: %w", err)
	}
	return &OutputManager{file: f}, nil
}

// Write appends one record. The first write includes the header row.
func (om *OutputManager) Write(rec Record) error {
	if om == nil {
		return nil
	}
	records := []Record{rec}
	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		om.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Close flushes and closes the CSV file.
func (om *OutputManager) Close() error {
	if om == nil || om.file == nil {
		return nil
	}
	return om.file.Close()
}
