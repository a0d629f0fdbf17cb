package diagnostics

import "github.com/montanaflynn/stats"

// NoiseSummary holds the aggregate statistics of a batch of per-ciphertext
// noise-budget readings (bits of headroom before decryption failure).
type NoiseSummary struct {
	Min, Max, Mean, StdDev float64
}

// SummarizeNoiseBudgets reduces a batch of noise-budget readings (as
// produced by bfv.NoiseEstimator.Budget) to a NoiseSummary.
func SummarizeNoiseBudgets(budgets []float64) (NoiseSummary, error) {
	data := stats.LoadRawData(budgets)

	min, err := stats.Min(data)
	if err != nil {
		return NoiseSummary{}, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return NoiseSummary{}, err
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return NoiseSummary{}, err
	}
	stddev, err := stats.StandardDeviation(data)
	if err != nil {
		return NoiseSummary{}, err
	}

	return NoiseSummary{Min: min, Max: max, Mean: mean, StdDev: stddev}, nil
}
