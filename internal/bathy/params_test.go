package bathy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParamsValid(t *testing.T) {
	params := DefaultParams()
	require.NoError(t, params.Validate())

	assert.Equal(t, 10.0, params.XResolution)
	assert.Equal(t, 0.2, params.ZResolution)
	assert.Equal(t, -50.0, params.ZMin)
	assert.Equal(t, 30.0, params.ZMax)
	assert.Equal(t, 3.5, params.SurfaceNStddev)
	assert.Equal(t, 3.0, params.BathyNStddev)
	assert.Equal(t, 1.0, params.SurfaceMaxDistance)
	assert.Equal(t, 1.0, params.BathyMaxDistance)
	assert.False(t, params.UsePredictions)
}

func TestDerivedMinimums(t *testing.T) {
	params := DefaultParams()
	assert.Equal(t, 5, params.SurfaceMinPhotons())
	assert.Equal(t, 2, params.BathyMinPhotons())

	params.XResolution = 25
	assert.Equal(t, 13, params.SurfaceMinPhotons())
	assert.Equal(t, 5, params.BathyMinPhotons())

	params.MinSurfacePhotonsPerWindow = 40
	params.MinBathyPhotonsPerWindow = 7
	assert.Equal(t, 40, params.SurfaceMinPhotons())
	assert.Equal(t, 7, params.BathyMinPhotons())
}

func TestValidateRejects(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero_x_resolution", func(p *Params) { p.XResolution = 0 }},
		{"negative_z_resolution", func(p *Params) { p.ZResolution = -0.1 }},
		{"inverted_z_band", func(p *Params) { p.ZMin, p.ZMax = 10, -10 }},
		{"inverted_surface_band", func(p *Params) { p.SurfaceZMin, p.SurfaceZMax = 5, -5 }},
		{"zero_vertical_sigma", func(p *Params) { p.VerticalSmoothingSigma = 0 }},
		{"zero_peak_distance", func(p *Params) { p.MinPeakDistance = 0 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			params := DefaultParams()
			tc.mutate(&params)
			assert.Error(t, params.Validate())
		})
	}
}

func TestApplyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.json")
	content := `{
		"x_resolution": 20.0,
		"min_peak_distance": 4,
		"use_predictions": true
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	params := DefaultParams()
	require.NoError(t, params.ApplyFile(path))

	// Overridden keys take the file values.
	assert.Equal(t, 20.0, params.XResolution)
	assert.Equal(t, 4, params.MinPeakDistance)
	assert.True(t, params.UsePredictions)
	// Omitted keys keep their defaults.
	assert.Equal(t, 0.2, params.ZResolution)
	assert.Equal(t, 200.0, params.SurfaceSmoothingSigma)
}

func TestApplyFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("wrong_extension", func(t *testing.T) {
		params := DefaultParams()
		assert.Error(t, params.ApplyFile(filepath.Join(dir, "params.yaml")))
	})

	t.Run("missing_file", func(t *testing.T) {
		params := DefaultParams()
		assert.Error(t, params.ApplyFile(filepath.Join(dir, "absent.json")))
	})

	t.Run("malformed_json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		params := DefaultParams()
		assert.Error(t, params.ApplyFile(path))
	})
}
