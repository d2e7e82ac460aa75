package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/seonet/internal/sim"
)

type ExportData struct {
	Meta     RunMetadata `json:"meta"`
	Times    []float64   `json:"times"`
	Voltages [][]float64 `json:"voltages"`
	Events   []sim.Event `json:"events,omitempty"`
}

// ExportJSON writes a stored run, optionally with its events, to w.
func (s *Store) ExportJSON(w io.Writer, runID string, events []sim.Event) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	voltages, times, err := s.LoadVoltages(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Meta: *meta, Times: times, Voltages: voltages, Events: events})
}

func (s *Store) ExportJSONFile(path, runID string, events []sim.Event) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID, events)
}
