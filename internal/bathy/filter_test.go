package bathy

import (
	"math"
	"testing"
)

func TestGaussian1DFilterImpulse(t *testing.T) {
	x := make([]float64, 20)
	x[10] = 1

	y := Gaussian1DFilter(x, 3)

	if y[10] >= 1 {
		t.Errorf("y[10] = %v, want < 1", y[10])
	}
	if math.Abs(y[9]-y[11]) > 0.005 {
		t.Errorf("y[9] = %v and y[11] = %v differ beyond two decimals", y[9], y[11])
	}
	if y[9] <= 0 || y[11] <= 0 {
		t.Errorf("y[9] = %v, y[11] = %v, want both > 0", y[9], y[11])
	}
	if y[9] >= y[10] || y[11] >= y[10] {
		t.Errorf("y[9] = %v, y[11] = %v, want both < y[10] = %v", y[9], y[11], y[10])
	}
}

func TestGaussian1DFilterMassPreserved(t *testing.T) {
	x := make([]float64, 64)
	x[30] = 1
	x[31] = 2
	x[33] = 0.5

	y := Gaussian1DFilter(x, 2)

	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	if math.Abs(sumX-sumY) > 0.01 {
		t.Errorf("mass changed: sum in = %v, sum out = %v", sumX, sumY)
	}
}

func TestGaussian1DFilterDegenerate(t *testing.T) {
	testCases := []struct {
		name  string
		input []float64
		sigma float64
	}{
		{"empty", nil, 1},
		{"zero_sigma", []float64{1, 2, 3}, 0},
		{"negative_sigma", []float64{1, 2, 3}, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			y := Gaussian1DFilter(tc.input, tc.sigma)
			if len(y) != len(tc.input) {
				t.Fatalf("length = %d, want %d", len(y), len(tc.input))
			}
			for i := range tc.input {
				if y[i] != tc.input[i] {
					t.Errorf("y[%d] = %v, want input unchanged %v", i, y[i], tc.input[i])
				}
			}
		})
	}
}

func TestGaussian1DFilterDoesNotMutate(t *testing.T) {
	x := []float64{0, 0, 1, 0, 0}
	Gaussian1DFilter(x, 1)
	want := []float64{0, 0, 1, 0, 0}
	for i := range want {
		if x[i] != want[i] {
			t.Fatalf("filter mutated its input: %v", x)
		}
	}
}

func TestBox1DFilterConstant(t *testing.T) {
	p := []float64{2, 2, 2, 2, 2, 2}
	box1DFilter(p, 3)
	for i, v := range p {
		if math.Abs(v-2) > 1e-12 {
			t.Errorf("p[%d] = %v, want 2", i, v)
		}
	}
}
