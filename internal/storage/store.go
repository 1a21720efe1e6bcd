package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/eomsim/internal/driver"
	"github.com/san-kum/eomsim/internal/eom"
	"github.com/san-kum/eomsim/internal/log"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Model       string             `json:"model"`
	Integrator  string             `json:"integrator"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	SampleEvery float64            `json:"sample_every"`
	Dim         int                `json:"dim"`
	Steps       int                `json:"steps"`
	EnergyDrift float64            `json:"energy_drift"`
	Params      map[string]float64 `json:"params,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding the metadata and the sampled
// trajectory. ID, Timestamp, Dim, Steps, EnergyDrift and Metrics are
// filled from the result; metrics that are NaN or infinite are left out.
//
// The files are written to a hidden staging directory that is renamed
// into place once complete, so a failed save leaves nothing behind.
func (s *Store) Save(meta RunMetadata, result *driver.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%s_%d", meta.Model, meta.Integrator, now.UnixNano())
	meta.Timestamp = now
	meta.Steps = result.Steps
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = finiteMetrics(result.Metrics)
	if len(result.Samples) > 0 {
		meta.Dim = result.Samples[0].X.Dim()
	}

	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	if err := s.Init(); err != nil {
		return "", err
	}
	staging, err := os.MkdirTemp(s.baseDir, "."+meta.ID+"-")
	if err != nil {
		return "", err
	}
	if err := s.fill(staging, metaJSON, result.Samples); err != nil {
		os.RemoveAll(staging)
		return "", err
	}
	if err := os.Rename(staging, filepath.Join(s.baseDir, meta.ID)); err != nil {
		os.RemoveAll(staging)
		return "", err
	}
	return meta.ID, nil
}

func (s *Store) fill(dir string, metaJSON []byte, samples []driver.Sample) error {
	if err := os.Chmod(dir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, metadataFile), append(metaJSON, '\n'), 0644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(dir, trajectoryFile))
	if err != nil {
		return err
	}
	if err := WriteCSV(csvFile, samples); err != nil {
		csvFile.Close()
		return fmt.Errorf("write trajectory: %w", err)
	}
	return csvFile.Close()
}

func finiteMetrics(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for name, val := range in {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			log.Warn("metric %s is %v, not stored", name, val)
			continue
		}
		out[name] = val
	}
	return out
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]driver.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// WriteCSV writes samples as rows of time, x0.., v0.., energy.
func WriteCSV(out io.Writer, samples []driver.Sample) error {
	w := csv.NewWriter(out)

	if len(samples) == 0 {
		w.Flush()
		return w.Error()
	}

	n := samples[0].X.Dim()
	header := make([]string, 0, 2*n+2)
	header = append(header, "time")
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("v%d", i))
	}
	header = append(header, "energy")
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for _, s := range samples {
		row[0] = formatFloat(s.T)
		for i := 0; i < n; i++ {
			row[1+i] = formatFloat(s.X[i])
			row[1+n+i] = formatFloat(s.V[i])
		}
		row[2*n+1] = formatFloat(s.Energy)
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSV parses the format written by WriteCSV.
func ReadCSV(in io.Reader) ([]driver.Sample, error) {
	r := csv.NewReader(in)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []driver.Sample{}, nil
	}

	cols := len(records[0])
	if cols < 2 || cols%2 != 0 {
		return nil, fmt.Errorf("trajectory header has %d columns", cols)
	}
	n := (cols - 2) / 2

	samples := make([]driver.Sample, 0, len(records)-1)
	for line, record := range records[1:] {
		vals := make([]float64, cols)
		for j, field := range record {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("trajectory line %d column %d: %w", line+2, j+1, err)
			}
			vals[j] = val
		}
		samples = append(samples, driver.Sample{
			T:      vals[0],
			X:      eom.Vector(vals[1 : 1+n]).Clone(),
			V:      eom.Vector(vals[1+n : 1+2*n]).Clone(),
			Energy: vals[cols-1],
		})
	}
	return samples, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
