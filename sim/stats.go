package sim

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/isolsim/isolsim/sim/cycles"
)

// LatencyStats holds the two summary percentiles reported for a run: the
// median completion latency and the p99 tail, both in microseconds.
type LatencyStats struct {
	MedianUs float64
	TailUs   float64
}

// ComputeLatencyStats converts a set of completion latencies (in cycles) to
// microseconds and reports their median and p99 via linear interpolation on
// the sorted sample.
func ComputeLatencyStats(latenciesCycles []int64) LatencyStats {
	if len(latenciesCycles) == 0 {
		return LatencyStats{}
	}

	us := make([]float64, len(latenciesCycles))
	for i, c := range latenciesCycles {
		us[i] = cycles.ToSeconds(c) * 1e6
	}
	sort.Float64s(us)

	return LatencyStats{
		MedianUs: stat.Quantile(0.5, stat.LinInterp, us, nil),
		TailUs:   stat.Quantile(0.99, stat.LinInterp, us, nil),
	}
}
