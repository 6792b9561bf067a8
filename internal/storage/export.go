package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/propsim/internal/scenario"
)

type ExportData struct {
	Scenario string             `json:"scenario"`
	Dt       float64            `json:"dt"`
	Seed     int64              `json:"seed"`
	Frames   []scenario.Frame   `json:"frames"`
	Metrics  map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, dt float64, seed int64, result *scenario.Result) error {
	data := ExportData{
		Scenario: result.Scenario,
		Dt:       dt,
		Seed:     seed,
		Frames:   result.Frames,
		Metrics:  result.Metrics,
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONFile(path string, dt float64, seed int64, result *scenario.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, dt, seed, result)
}
