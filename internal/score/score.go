package score

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/banshee-data/bathy.report/internal/photon"
)

// DefaultClasses are the class codes scored by the score tool: unprocessed,
// bathymetry, sea surface.
var DefaultClasses = []uint8{photon.ClassUnprocessed, photon.ClassBathymetry, photon.ClassSeaSurface}

// Result holds the per-class confusion matrices of one scoring run, keyed
// by class code.
type Result struct {
	Classes map[uint8]*ConfusionMatrix
}

// Score builds a one-vs-rest confusion matrix for each listed class from
// the photons' manual labels and predictions.
func Score(photons []photon.Photon, classes []uint8) *Result {
	res := &Result{Classes: make(map[uint8]*ConfusionMatrix, len(classes))}
	for _, cls := range classes {
		cm := &ConfusionMatrix{}
		for i := range photons {
			cm.Update(photons[i].Class == cls, photons[i].Prediction == cls)
		}
		res.Classes[cls] = cm
	}
	return res
}

// Summary holds the support-weighted averages across all scored classes.
type Summary struct {
	WeightedAccuracy         float64
	WeightedF1               float64
	WeightedBalancedAccuracy float64
	WeightedCalibratedF1     float64
}

// Summarize weights each class metric by its support fraction, skipping
// undefined (NaN) entries.
func (r *Result) Summarize() Summary {
	var s Summary
	for _, cm := range r.Classes {
		if cm.Total() == 0 {
			continue
		}
		w := float64(cm.Support()) / float64(cm.Total())
		if v := cm.Accuracy(); !math.IsNaN(v) {
			s.WeightedAccuracy += v * w
		}
		if v := cm.F1(); !math.IsNaN(v) {
			s.WeightedF1 += v * w
		}
		if v := cm.BalancedAccuracy(); !math.IsNaN(v) {
			s.WeightedBalancedAccuracy += v * w
		}
		if v := cm.CalibratedF1(); !math.IsNaN(v) {
			s.WeightedCalibratedF1 += v * w
		}
	}
	return s
}

// Write renders the per-class table and weighted summary in the scoring
// tool's tab-separated format, classes in ascending order.
func (r *Result) Write(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "cls\tacc\tF1\tbal_acc\tcal_F1\ttp\ttn\tfp\tfn\tsupport\ttotal"); err != nil {
		return err
	}

	keys := make([]int, 0, len(r.Classes))
	for cls := range r.Classes {
		keys = append(keys, int(cls))
	}
	sort.Ints(keys)

	for _, k := range keys {
		cm := r.Classes[uint8(k)]
		_, err := fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%.3f\t%d\t%d\t%d\t%d\t%d\t%d\n",
			k,
			cm.Accuracy(),
			cm.F1(),
			cm.BalancedAccuracy(),
			cm.CalibratedF1(),
			cm.TruePositives(),
			cm.TrueNegatives(),
			cm.FalsePositives(),
			cm.FalseNegatives(),
			cm.Support(),
			cm.Total(),
		)
		if err != nil {
			return err
		}
	}

	s := r.Summarize()
	if _, err := fmt.Fprintf(w, "weighted_accuracy = %.3f\n", s.WeightedAccuracy); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "weighted_F1 = %.3f\n", s.WeightedF1); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "weighted_bal_acc = %.3f\n", s.WeightedBalancedAccuracy); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "weighted_cal_F1 = %.3f\n", s.WeightedCalibratedF1); err != nil {
		return err
	}
	return nil
}
