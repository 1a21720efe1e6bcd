package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/eomsim/internal/driver"
	"github.com/san-kum/eomsim/internal/eom"
	"github.com/san-kum/eomsim/internal/integrators"
	"github.com/san-kum/eomsim/internal/metrics"
	"github.com/san-kum/eomsim/internal/models"
	"github.com/stretchr/testify/require"
)

func testResult() *driver.Result {
	return &driver.Result{
		Samples: []driver.Sample{
			{T: 0, X: eom.Vector{1, 0}, V: eom.Vector{0, 0}, Energy: 0},
			{T: 0.125, X: eom.Vector{0.9921875, -0.1}, V: eom.Vector{-0.1, -1.0 / 3}, Energy: 0.1},
		},
		Metrics:     map[string]float64{"energy_drift": 1.5},
		EnergyDrift: 1.5,
		Steps:       128,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save(RunMetadata{Model: "pendulum", Integrator: "rk4", Dt: 1.0 / 1024, Duration: 0.125}, testResult())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(runID, "pendulum_rk4_"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	require.Equal(t, runID, meta.ID)
	require.Equal(t, "pendulum", meta.Model)
	require.Equal(t, 2, meta.Dim)
	require.Equal(t, 128, meta.Steps)
	require.Equal(t, 1.5, meta.Metrics["energy_drift"])

	samples, err := st.LoadSamples(runID)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	require.Equal(t, testResult().Samples, samples, "trajectory must round-trip exactly")
}

func TestStoreTrajectoryHeader(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runID, err := st.Save(RunMetadata{Model: "pendulum", Integrator: "rk4"}, testResult())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, runID, "trajectory.csv"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "time,x0,x1,v0,v1,energy\n"))
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	first, err := st.Save(RunMetadata{Model: "oscillator", Integrator: "euler"}, testResult())
	require.NoError(t, err)
	second, err := st.Save(RunMetadata{Model: "oscillator", Integrator: "rk2"}, testResult())
	require.NoError(t, err)

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, first, runs[0].ID)
	require.Equal(t, second, runs[1].ID)
}

func TestStoreSaveDivergingRun(t *testing.T) {
	// Euler on a stiff spring grows ~10x per step and overflows near step 300.
	osc := models.NewOscillator(1e8, 1)
	x0, v0 := eom.Vector{1}, eom.Vector{0}
	sim := driver.New(osc, integrators.NewEuler(osc, x0))
	sim.AddMetric(metrics.NewEnergyDrift(osc))
	sim.AddMetric(metrics.NewStability(1e6))

	result, err := sim.Run(context.Background(), x0, v0, driver.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	require.False(t, math.IsNaN(result.EnergyDrift) || math.IsInf(result.EnergyDrift, 0))

	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Model: "oscillator", Integrator: "euler"}, result)
	require.NoError(t, err)

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, runID, runs[0].ID)
	require.Contains(t, runs[0].Metrics, "energy_drift")

	samples, err := st.LoadSamples(runID)
	require.NoError(t, err)
	require.Len(t, samples, len(result.Samples))
}

func TestStoreSaveDropsNonFiniteMetrics(t *testing.T) {
	st := New(t.TempDir())
	result := testResult()
	result.Metrics = map[string]float64{"stability": 0.5, "constraint_error": math.Inf(1)}

	runID, err := st.Save(RunMetadata{Model: "pendulum", Integrator: "rk4"}, result)
	require.NoError(t, err)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"stability": 0.5}, meta.Metrics)
}

func TestStoreFailedSaveLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	result := testResult()
	result.EnergyDrift = math.NaN()

	runID, err := st.Save(RunMetadata{Model: "pendulum", Integrator: "rk4"}, result)
	require.Error(t, err)
	require.Empty(t, runID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestStoreListSkipsStaging(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".pendulum_rk4_1-123"), 0755))

	runs, err := st.List()
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestStoreLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("nope")
	require.ErrorIs(t, err, ErrRunNotFound)

	_, err = st.LoadSamples("nope")
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestReadCSVRejectsGarbage(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("time,x0,v0,energy\n0,abc,0,0\n"))
	require.Error(t, err)

	_, err = ReadCSV(strings.NewReader("time,x0,v0\n0,1,0\n"))
	require.Error(t, err)
}

func TestWriteCSVNonFinite(t *testing.T) {
	var buf bytes.Buffer
	samples := []driver.Sample{{T: 1, X: eom.Vector{math.NaN()}, V: eom.Vector{math.Inf(1)}}}
	require.NoError(t, WriteCSV(&buf, samples))

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.True(t, math.IsNaN(back[0].X[0]))
	require.True(t, math.IsInf(back[0].V[0], 1))
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := RunMetadata{ID: "run", Model: "pendulum", Integrator: "rk4"}
	require.NoError(t, ExportJSON(&buf, meta, testResult().Samples))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "pendulum", got["model"])
	require.Equal(t, []any{0.0, 0.125}, got["times"])
	require.Len(t, got["position"], 2)
	require.Len(t, got["energy"], 2)
}
