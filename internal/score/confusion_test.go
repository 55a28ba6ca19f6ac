package score

import (
	"math"
	"testing"
)

func TestConfusionMatrixCounts(t *testing.T) {
	var cm ConfusionMatrix
	cm.Update(true, true)   // tp
	cm.Update(true, true)   // tp
	cm.Update(true, false)  // fn
	cm.Update(false, true)  // fp
	cm.Update(false, false) // tn
	cm.Update(false, false) // tn

	if cm.TruePositives() != 2 {
		t.Errorf("tp = %d, want 2", cm.TruePositives())
	}
	if cm.TrueNegatives() != 2 {
		t.Errorf("tn = %d, want 2", cm.TrueNegatives())
	}
	if cm.FalsePositives() != 1 {
		t.Errorf("fp = %d, want 1", cm.FalsePositives())
	}
	if cm.FalseNegatives() != 1 {
		t.Errorf("fn = %d, want 1", cm.FalseNegatives())
	}
	if cm.Support() != 3 {
		t.Errorf("support = %d, want 3", cm.Support())
	}
	if cm.Total() != 6 {
		t.Errorf("total = %d, want 6", cm.Total())
	}
}

func TestConfusionMatrixMetrics(t *testing.T) {
	var cm ConfusionMatrix
	for i := 0; i < 8; i++ {
		cm.Update(true, true)
	}
	for i := 0; i < 2; i++ {
		cm.Update(true, false)
	}
	for i := 0; i < 4; i++ {
		cm.Update(false, true)
	}
	for i := 0; i < 86; i++ {
		cm.Update(false, false)
	}

	if got := cm.Accuracy(); math.Abs(got-0.94) > 1e-12 {
		t.Errorf("accuracy = %v, want 0.94", got)
	}
	// F1 = 2*8 / (2*8 + 4 + 2)
	if got := cm.F1(); math.Abs(got-16.0/22.0) > 1e-12 {
		t.Errorf("F1 = %v, want %v", got, 16.0/22.0)
	}
	// bal_acc = (0.8 + 86/90) / 2
	wantBal := (0.8 + 86.0/90.0) / 2.0
	if got := cm.BalancedAccuracy(); math.Abs(got-wantBal) > 1e-12 {
		t.Errorf("balanced accuracy = %v, want %v", got, wantBal)
	}
	// Calibrated F1 scales fp by support/negatives: 4 * 10/90.
	wantCal := 16.0 / (16.0 + 4.0*10.0/90.0 + 2.0)
	if got := cm.CalibratedF1(); math.Abs(got-wantCal) > 1e-12 {
		t.Errorf("calibrated F1 = %v, want %v", got, wantCal)
	}
}

func TestConfusionMatrixUndefined(t *testing.T) {
	var empty ConfusionMatrix
	if !math.IsNaN(empty.Accuracy()) {
		t.Error("empty accuracy should be NaN")
	}
	if !math.IsNaN(empty.F1()) {
		t.Error("empty F1 should be NaN")
	}

	// All negatives: balanced accuracy is undefined.
	var negOnly ConfusionMatrix
	negOnly.Update(false, false)
	if !math.IsNaN(negOnly.BalancedAccuracy()) {
		t.Error("balanced accuracy with no positives should be NaN")
	}
	if !math.IsNaN(negOnly.CalibratedF1()) {
		t.Error("calibrated F1 with no positives should be NaN")
	}
}
