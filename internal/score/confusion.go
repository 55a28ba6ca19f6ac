// Package score compares predicted photon classes against manual labels,
// producing per-class confusion matrices and weighted summary metrics.
package score

import "math"

// ConfusionMatrix accumulates binary agreement counts for one class.
type ConfusionMatrix struct {
	tp int64
	tn int64
	fp int64
	fn int64
}

// Update records one observation. present is whether the manual label is
// the class under test, predicted whether the prediction is.
func (c *ConfusionMatrix) Update(present, predicted bool) {
	switch {
	case present && predicted:
		c.tp++
	case present && !predicted:
		c.fn++
	case !present && predicted:
		c.fp++
	default:
		c.tn++
	}
}

// TruePositives returns the true positive count.
func (c *ConfusionMatrix) TruePositives() int64 { return c.tp }

// TrueNegatives returns the true negative count.
func (c *ConfusionMatrix) TrueNegatives() int64 { return c.tn }

// FalsePositives returns the false positive count.
func (c *ConfusionMatrix) FalsePositives() int64 { return c.fp }

// FalseNegatives returns the false negative count.
func (c *ConfusionMatrix) FalseNegatives() int64 { return c.fn }

// Support is the number of observations whose manual label is this class.
func (c *ConfusionMatrix) Support() int64 { return c.tp + c.fn }

// Total is the number of observations seen.
func (c *ConfusionMatrix) Total() int64 { return c.tp + c.tn + c.fp + c.fn }

// Accuracy is the fraction of observations classified correctly.
func (c *ConfusionMatrix) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return math.NaN()
	}
	return float64(c.tp+c.tn) / float64(total)
}

// F1 is the harmonic mean of precision and recall.
func (c *ConfusionMatrix) F1() float64 {
	denom := 2*c.tp + c.fp + c.fn
	if denom == 0 {
		return math.NaN()
	}
	return 2.0 * float64(c.tp) / float64(denom)
}

// BalancedAccuracy is the mean of the true positive and true negative
// rates.
func (c *ConfusionMatrix) BalancedAccuracy() float64 {
	pos := c.tp + c.fn
	neg := c.tn + c.fp
	if pos == 0 || neg == 0 {
		return math.NaN()
	}
	tpr := float64(c.tp) / float64(pos)
	tnr := float64(c.tn) / float64(neg)
	return (tpr + tnr) / 2.0
}

// CalibratedF1 is F1 with precision calibrated to a 50% reference
// prevalence (Siblini et al., "Master your metrics with calibration",
// 2020), making scores comparable across classes with very different
// supports.
func (c *ConfusionMatrix) CalibratedF1() float64 {
	pos := c.tp + c.fn
	neg := c.tn + c.fp
	if pos == 0 || neg == 0 {
		return math.NaN()
	}
	// Scale the false positives as if positives and negatives were equally
	// prevalent.
	ratio := float64(pos) / float64(neg)
	calFP := float64(c.fp) * ratio
	denom := 2.0*float64(c.tp) + calFP + float64(c.fn)
	if denom == 0 {
		return math.NaN()
	}
	return 2.0 * float64(c.tp) / denom
}
