package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/isolsim/isolsim/sim/cycles"
)

// CoreReport is a single core's end-of-run summary, in the units the CLI
// prints them in (seconds, percent, req/s).
type CoreReport struct {
	CoreID            uint8
	ThroughputReqSec  float64
	ContextSwitchPct  float64
	ExecutionTimeSec  float64
	CSTimeSec         float64
	TotalTimeSec      float64
	RequestsProcessed uint64
	NumPreemptions    uint64
}

// Simulator owns one Core per configured physical core and drives them in
// round-robin fashion until every core has produced its target number of
// completions. Cores own their own tenants, dispatcher, and RNG streams;
// the Simulator's job is orchestration and reporting, not scheduling.
type Simulator struct {
	Cores    []*Core
	NumResps uint64
}

// NewSimulator wires numCores Cores, each owning a contiguous, disjoint
// [low, high) tenant range sliced out of [1, numTenants+1). The last core
// absorbs any remainder smaller than an even split.
func NewSimulator(key SimulationKey, numCores int, numTenants uint16, tenantSkew float64, ratePerSec float64, numReqs, numResps uint64, isolation IsolationMode, batching bool, distribution string, sharedPolicy func() SchedulerPolicy) *Simulator {
	rng := NewPartitionedRNG(key)
	perCore := numTenants / uint16(numCores)
	if perCore == 0 {
		perCore = 1
	}

	cores := make([]*Core, 0, numCores)
	low := uint16(1)
	lastTenant := numTenants + 1
	for i := 0; i < numCores; i++ {
		high := low + perCore
		if i == numCores-1 || high > lastTenant {
			high = lastTenant
		}
		if low >= high {
			break
		}

		dispatcherRNG := rng.ForSubsystem(SubsystemCore(uint8(i), subsystemDispatcher))
		var dist TenantDistribution
		switch distribution {
		case "Zipf":
			dist = NewZipfDistribution(dispatcherRNG, tenantSkew, high-low)
		default:
			dist = NewUniformDistribution(dispatcherRNG, high-low)
		}

		dispatcher := NewDispatcher(ratePerSec, numReqs, low, high, dist)

		policyFor := func(tenantID uint16) SchedulerPolicy { return NewRoundRobinPolicy() }
		if sharedPolicy != nil {
			shared := sharedPolicy()
			policyFor = func(tenantID uint16) SchedulerPolicy { return shared }
		}

		cores = append(cores, NewCore(uint8(i), low, high, dispatcher, isolation, batching, rng, policyFor))
		low = high
	}

	return &Simulator{Cores: cores, NumResps: numResps}
}

// Run drives every core forward in lockstep scheduling rounds until each
// has produced at least NumResps completions.
func (s *Simulator) Run() {
	for {
		done := true
		for _, c := range s.Cores {
			if c.RequestsProcessed < s.NumResps {
				c.Run()
				done = false
			}
		}
		if done {
			return
		}
	}
}

// Reports summarizes each core's run in the units printed on the CLI.
func (s *Simulator) Reports() []CoreReport {
	reports := make([]CoreReport, 0, len(s.Cores))
	for _, c := range s.Cores {
		totalSec := cycles.ToSeconds(c.Rdtsc)
		csSec := cycles.ToSeconds(c.csTimeCycles())
		execSec := totalSec - csSec

		var pct, throughput float64
		if totalSec > 0 {
			pct = csSec / totalSec * 100
			throughput = float64(c.RequestsProcessed) / totalSec
		}

		reports = append(reports, CoreReport{
			CoreID:            c.CoreID,
			ThroughputReqSec:  throughput,
			ContextSwitchPct:  pct,
			ExecutionTimeSec:  execSec,
			CSTimeSec:         csSec,
			TotalTimeSec:      totalSec,
			RequestsProcessed: c.RequestsProcessed,
			NumPreemptions:    c.NumPreemptions,
		})
	}
	return reports
}

// LatencyStats aggregates completion latencies across every core.
func (s *Simulator) LatencyStats() LatencyStats {
	var all []int64
	for _, c := range s.Cores {
		all = append(all, c.Latencies...)
	}
	return ComputeLatencyStats(all)
}

// Print writes the per-core and aggregate summary to stdout in the format
// consumed by downstream sweep tooling: one line per core, then a final
// latency line. This intentionally bypasses logrus, matching the
// machine-readable stdout contract the CLI documents separately from its
// logging output.
func (s *Simulator) Print() {
	for _, r := range s.Reports() {
		fmt.Printf("Throughput %.2f Context-Switches(%%) %.2f Execution-Time(sec) %.6f CS-Time(sec) %.6f Total-Time(sec) %.6f\n",
			r.ThroughputReqSec, r.ContextSwitchPct, r.ExecutionTimeSec, r.CSTimeSec, r.TotalTimeSec)
	}

	stats := s.LatencyStats()
	fmt.Printf("Latency: Median(us) %.2f Tail(us) %.2f\n", stats.MedianUs, stats.TailUs)

	logrus.Infof("simulation complete: %d cores, %d total completions", len(s.Cores), s.totalProcessed())
}

func (s *Simulator) totalProcessed() uint64 {
	var total uint64
	for _, c := range s.Cores {
		total += c.RequestsProcessed
	}
	return total
}
