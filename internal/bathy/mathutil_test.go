package bathy

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	testCases := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 5},
		{"ascending", []float64{1, 2, 3, 4, 5}, 3},
		{"negative", []float64{-1, -2, -3}, -2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Mean(tc.input); math.Abs(got-tc.expected) > 1e-12 {
				t.Errorf("Mean(%v) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestVariance(t *testing.T) {
	testCases := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 0},
		{"ascending", []float64{1, 2, 3, 4, 5}, 2},
		{"identical", []float64{7, 7, 7, 7}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Variance(tc.input)
			if math.Abs(got-tc.expected) > 1e-12 {
				t.Errorf("Variance(%v) = %v, want %v", tc.input, got, tc.expected)
			}
			if got < 0 {
				t.Errorf("Variance(%v) = %v, want non-negative", tc.input, got)
			}
		})
	}
}

func TestMedian(t *testing.T) {
	testCases := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{"odd", []float64{7, 4, 2, 9, 5}, 5},
		{"seven", []float64{7, 4, 2, 9, 5, 1, -1}, 4},
		{"single", []float64{3}, 3},
		{"even_upper", []float64{1, 2, 3, 4}, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := append([]float64(nil), tc.input...)
			if got := Median(input); got != tc.expected {
				t.Errorf("Median(%v) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestMedianDoesNotMutate(t *testing.T) {
	input := []float64{7, 4, 2, 9, 5}
	Median(input)
	want := []float64{7, 4, 2, 9, 5}
	for i := range want {
		if input[i] != want[i] {
			t.Fatalf("Median mutated its input: %v", input)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]float64{1, 2, 3, 4, 5})
	if got[0] != 0 {
		t.Errorf("Normalize[0] = %v, want 0", got[0])
	}
	if got[4] != 1 {
		t.Errorf("Normalize[4] = %v, want 1", got[4])
	}
	for i, v := range got {
		if v < 0 || v > 1 {
			t.Errorf("Normalize[%d] = %v outside [0, 1]", i, v)
		}
	}
}

func TestConvertToPMF(t *testing.T) {
	testCases := []struct {
		name    string
		input   []int
		wantSum float64
	}{
		{"counts", []int{1, 2, 3, 4}, 1},
		{"all_zero", []int{0, 0, 0}, 0},
		{"empty", nil, 0},
		{"single", []int{10}, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pmf := ConvertToPMF(tc.input)
			if len(pmf) != len(tc.input) {
				t.Fatalf("length = %d, want %d", len(pmf), len(tc.input))
			}
			var sum float64
			for _, v := range pmf {
				sum += v
			}
			if math.Abs(sum-tc.wantSum) > 1e-12 {
				t.Errorf("sum = %v, want %v", sum, tc.wantSum)
			}
		})
	}
}
