package scheduler

import "github.com/viant/arbiter/deliberation"

// floorMean returns the coordinate-wise floor mean of samples. Samples must
// all have the same length k; an empty samples slice returns nil.
func floorMean(samples []deliberation.ScoreVector) deliberation.ScoreVector {
	if len(samples) == 0 {
		return nil
	}
	k := len(samples[0])
	out := make(deliberation.ScoreVector, k)
	for i := 0; i < k; i++ {
		var sum int64
		for _, s := range samples {
			sum += s[i]
		}
		out[i] = sum / int64(len(samples))
	}
	return out
}

// weightedAggregate computes a_t = floor(sum_j weight_j * v_j), flooring the
// product at the end of each linear combination rather than mid-sum, then
// normalizes the result to sum exactly to ScoreUnit.
func weightedAggregate(vectors []deliberation.ScoreVector, weights []float64) deliberation.ScoreVector {
	if len(vectors) == 0 {
		return nil
	}
	k := len(vectors[0])
	out := make(deliberation.ScoreVector, k)
	for i := 0; i < k; i++ {
		var sum float64
		for j, v := range vectors {
			sum += weights[j] * float64(v[i])
		}
		out[i] = int64(sum)
	}
	return deliberation.Normalize(out)
}
