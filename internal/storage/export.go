package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/eomsim/internal/driver"
)

type ExportData struct {
	RunMetadata
	Times    []float64   `json:"times"`
	Position [][]float64 `json:"position"`
	Velocity [][]float64 `json:"velocity"`
	Energy   []float64   `json:"energy"`
}

func NewExportData(meta RunMetadata, samples []driver.Sample) ExportData {
	data := ExportData{
		RunMetadata: meta,
		Times:       make([]float64, len(samples)),
		Position:    make([][]float64, len(samples)),
		Velocity:    make([][]float64, len(samples)),
		Energy:      make([]float64, len(samples)),
	}
	for i, s := range samples {
		data.Times[i] = s.T
		data.Position[i] = s.X
		data.Velocity[i] = s.V
		data.Energy[i] = s.Energy
	}
	return data
}

func ExportJSON(w io.Writer, meta RunMetadata, samples []driver.Sample) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, samples))
}
