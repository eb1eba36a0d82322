// Package export writes session results to files: trace data as JSON or
// CSV, and an SVG rendering of the timeline.
package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/nicosim/internal/pharm"
	"github.com/san-kum/nicosim/internal/sim"
)

// SessionData is the JSON export shape: run settings, final snapshot,
// metrics, and the retained trace points.
type SessionData struct {
	Preset  string             `json:"preset"`
	Seed    int64              `json:"seed,omitempty"`
	SimMin  float64            `json:"sim_min"`
	Params  pharm.Params       `json:"params"`
	Final   pharm.State        `json:"final"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
	Points  []sim.TracePoint   `json:"points"`
}

// NewSessionData captures a driver's current session for export.
func NewSessionData(d *sim.Driver, seed int64) SessionData {
	return SessionData{
		Preset:  string(d.Preset()),
		Seed:    seed,
		SimMin:  d.SimMin(),
		Params:  d.Params(),
		Final:   d.State(),
		Metrics: d.MetricValues(),
		Points:  d.Trace(),
	}
}

// WriteJSON writes the session as indented JSON.
func WriteJSON(w io.Writer, data SessionData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteJSONFile writes the session to a new file at path.
func WriteJSONFile(path string, data SessionData) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(f, data)
}
