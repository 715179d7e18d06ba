package sim

import (
	"math/rand"

	"github.com/isolsim/isolsim/sim/cycles"
	"github.com/sirupsen/logrus"
)

// TenantDistribution samples a tenant offset in [0, n) for a dispatcher's
// arrival stream. Implementations mirror the interface-with-multiple-
// implementations shape used throughout this codebase for pluggable policy
// (compare SchedulerPolicy): Zipf and Uniform are the two built-ins named by
// the config's `distribution` key.
type TenantDistribution interface {
	Sample() uint16
}

// ZipfDistribution skews tenant selection toward low-index tenants, modeling
// a small number of "hot" tenants driving most traffic.
type ZipfDistribution struct {
	z *rand.Zipf
	n uint16
}

// NewZipfDistribution builds a Zipf sampler over [0, n) with exponent s.
// s must be > 1; rng should be a dedicated per-dispatcher stream.
func NewZipfDistribution(rng *rand.Rand, s float64, n uint16) *ZipfDistribution {
	// rand.NewZipf draws k in [0, imax] with weight (v+k)^-s; v=1 makes
	// offset 0 the top-ranked tenant, and the offset then gets added to low.
	z := rand.NewZipf(rng, s, 1.0, uint64(n-1))
	return &ZipfDistribution{z: z, n: n}
}

func (d *ZipfDistribution) Sample() uint16 {
	return uint16(d.z.Uint64())
}

// UniformDistribution selects uniformly among [0, n).
type UniformDistribution struct {
	rng *rand.Rand
	n   uint16
}

// NewUniformDistribution builds a uniform sampler over [0, n).
func NewUniformDistribution(rng *rand.Rand, n uint16) *UniformDistribution {
	return &UniformDistribution{rng: rng, n: n}
}

func (d *UniformDistribution) Sample() uint16 {
	return uint16(d.rng.Intn(int(d.n)))
}

// Dispatcher is a per-core deterministic arrival grid: the k-th arrival is
// due at time k*RateInv. Each call to GenerateRequest either produces the
// tenant id for the next due arrival, or reports that no arrival is due yet.
type Dispatcher struct {
	RateInv     int64 // cycles between successive arrivals
	Sent        uint64
	NumRequests uint64
	NextArrival int64

	Low, High uint16 // tenant range [Low, High) this dispatcher draws from
	Dist      TenantDistribution
}

// NewDispatcher constructs a Dispatcher for the given per-core arrival rate
// (requests/sec), arrival budget, tenant range, and distribution.
func NewDispatcher(ratePerSec float64, numRequests uint64, low, high uint16, dist TenantDistribution) *Dispatcher {
	rateInv := int64(0)
	if ratePerSec > 0 {
		rateInv = int64((1.0 / ratePerSec) * cycles.PerSecond)
	}
	return &Dispatcher{
		RateInv:     rateInv,
		NumRequests: numRequests,
		Low:         low,
		High:        high,
		Dist:        dist,
	}
}

// GenerateRequest produces the tenant id for the next due arrival, if the
// arrival budget is not exhausted and `now` has reached the arrival grid's
// next slot. Arrivals are deterministic: NextArrival == Sent * RateInv.
func (d *Dispatcher) GenerateRequest(now int64) (tenantID uint16, ok bool) {
	if d.Sent >= d.NumRequests {
		return 0, false
	}
	if now < d.NextArrival {
		return 0, false
	}

	offset := d.Dist.Sample()
	tenantID = d.Low + offset
	if tenantID < d.Low || tenantID >= d.High {
		// Programmer-invariant violation: a sampled offset escaped the
		// dispatcher's tenant range. Logged, loop continues (§4.7b).
		logrus.Errorf("dispatcher: sampled tenant %d outside range [%d, %d)", tenantID, d.Low, d.High)
		tenantID = d.Low
	}

	d.Sent++
	d.NextArrival = int64(d.Sent) * d.RateInv
	return tenantID, true
}

// GetNext exposes the next scheduled arrival time so a Core can fast-forward
// its virtual clock through idle gaps.
func (d *Dispatcher) GetNext() int64 {
	return d.NextArrival
}
