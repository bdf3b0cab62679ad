package dag

import (
	"fmt"
	"math"
)

// Normalise scales the continuous columns of a sample matrix to [0, 1]
// using the variable bounds. Categorical and binary columns pass through.
func Normalise(samples [][]float64, vars Variables) ([][]float64, error) {
	out := make([][]float64, len(samples))
	for r, row := range samples {
		if len(row) != len(vars) {
			return nil, fmt.Errorf("row %d has %d columns, want %d", r, len(row), len(vars))
		}
		scaled := make([]float64, len(row))
		for c, v := range vars {
			if v.Type == Continuous && v.Upper != v.Lower {
				scaled[c] = (row[c] - v.Lower) / (v.Upper - v.Lower)
			} else {
				scaled[c] = row[c]
			}
		}
		out[r] = scaled
	}
	return out, nil
}

// ATE estimates the average treatment effect E[y|do(x)=a] - E[y] from
// samples of the intervened and the baseline distribution
func ATE(intervened, baseline [][]float64, vars Variables, normalise bool) ([]float64, error) {
	if len(intervened) == 0 || len(baseline) == 0 {
		return nil, fmt.Errorf("ATE needs samples from both distributions")
	}
	if err := checkRowWidths(intervened); err != nil {
		return nil, fmt.Errorf("intervened samples: %s", err)
	}
	if err := checkRowWidths(baseline); err != nil {
		return nil, fmt.Errorf("baseline samples: %s", err)
	}
	if normalise {
		var err error
		if intervened, err = Normalise(intervened, vars); err != nil {
			return nil, err
		}
		if baseline, err = Normalise(baseline, vars); err != nil {
			return nil, err
		}
	}

	intervenedMean := colMeans(intervened)
	baselineMean := colMeans(baseline)
	if len(intervenedMean) != len(baselineMean) {
		return nil, fmt.Errorf("sample widths differ: %d vs %d", len(intervenedMean), len(baselineMean))
	}

	ate := make([]float64, len(intervenedMean))
	for i := range ate {
		ate[i] = intervenedMean[i] - baselineMean[i]
	}
	return ate, nil
}

// ITE is the per-sample treatment effect between paired intervention and
// reference samples. Shapes must match exactly.
func ITE(intervened, reference [][]float64, vars Variables, normalise bool) ([][]float64, error) {
	if len(intervened) != len(reference) {
		return nil, fmt.Errorf("intervention and reference samples must have the same shape")
	}
	if normalise {
		var err error
		if intervened, err = Normalise(intervened, vars); err != nil {
			return nil, err
		}
		if reference, err = Normalise(reference, vars); err != nil {
			return nil, err
		}
	}

	ite := make([][]float64, len(intervened))
	for r := range intervened {
		if len(intervened[r]) != len(reference[r]) {
			return nil, fmt.Errorf("intervention and reference samples must have the same shape")
		}
		row := make([]float64, len(intervened[r]))
		for c := range row {
			row[c] = intervened[r][c] - reference[r][c]
		}
		ite[r] = row
	}
	return ite, nil
}

// RMSE is the root mean squared error between two vectors.
// It is NaN for empty input and for vectors of different lengths.
func RMSE(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.NaN()
	}
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(a)))
}

// GroupRMSE computes the RMSE between two vectors group by group
func GroupRMSE(a, b []float64, vars Variables) ([]float64, error) {
	if len(a) != len(b) || len(a) != len(vars) {
		return nil, fmt.Errorf("GroupRMSE needs two vectors of %d values", len(vars))
	}
	groups := vars.GroupIdxs()
	out := make([]float64, len(groups))
	for g, idxs := range groups {
		ga := make([]float64, len(idxs))
		gb := make([]float64, len(idxs))
		for i, col := range idxs {
			ga[i] = a[col]
			gb[i] = b[col]
		}
		out[g] = RMSE(ga, gb)
	}
	return out, nil
}

// GroupRMSERows applies GroupRMSE row-wise to two sample matrices
func GroupRMSERows(a, b [][]float64, vars Variables) ([][]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("sample matrices must have the same number of rows")
	}
	out := make([][]float64, len(a))
	for r := range a {
		row, err := GroupRMSE(a[r], b[r], vars)
		if err != nil {
			return nil, err
		}
		out[r] = row
	}
	return out, nil
}

// SelectColumns keeps the given columns of every row, in the given order
func SelectColumns(samples [][]float64, idxs []int) [][]float64 {
	out := make([][]float64, len(samples))
	for r, row := range samples {
		selected := make([]float64, len(idxs))
		for i, col := range idxs {
			selected[i] = row[col]
		}
		out[r] = selected
	}
	return out
}

// checkRowWidths rejects ragged sample matrices
func checkRowWidths(samples [][]float64) error {
	width := len(samples[0])
	for r, row := range samples {
		if len(row) != width {
			return fmt.Errorf("row %d has %d columns, want %d", r, len(row), width)
		}
	}
	return nil
}

func colMeans(samples [][]float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	means := make([]float64, len(samples[0]))
	for _, row := range samples {
		for c := range row {
			means[c] += row[c]
		}
	}
	for c := range means {
		means[c] /= float64(len(samples))
	}
	return means
}
