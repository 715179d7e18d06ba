package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/isolsim/isolsim/sim"
)

// Config mirrors config.toml exactly: every key the simulator reads from
// the working directory's configuration file.
type Config struct {
	MaxCores     int     `toml:"max_cores" yaml:"max_cores"`
	NumTenants   int     `toml:"num_tenants" yaml:"num_tenants"`
	TenantSkew   float64 `toml:"tenant_skew" yaml:"tenant_skew"`
	NumReqs      uint64  `toml:"num_reqs" yaml:"num_reqs"`
	NumResps     uint64  `toml:"num_resps" yaml:"num_resps"`
	ReqRate      uint64  `toml:"req_rate" yaml:"req_rate"`
	Batching     bool    `toml:"batching" yaml:"batching"`
	Isolation    string  `toml:"isolation" yaml:"isolation"`
	Distribution string  `toml:"distribution" yaml:"distribution"`
}

const configFileName = "config.toml"

// LoadConfig decodes config.toml from the given path, rejecting unknown
// keys so a typo in the file fails loudly instead of silently using a
// zero-valued field.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown keys %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config's structural requirements: the isolation and
// distribution fields must name a mode the simulator actually implements,
// and the core/tenant counts must be able to partition sensibly.
func (c Config) Validate() error {
	if c.MaxCores <= 0 {
		return fmt.Errorf("max_cores must be positive, got %d", c.MaxCores)
	}
	if c.NumTenants <= 0 {
		return fmt.Errorf("num_tenants must be positive, got %d", c.NumTenants)
	}
	if c.NumTenants < c.MaxCores {
		return fmt.Errorf("num_tenants (%d) must be >= max_cores (%d)", c.NumTenants, c.MaxCores)
	}
	switch sim.IsolationMode(c.Isolation) {
	case sim.NoIsolation, sim.PageTable, sim.MPK, sim.VMFunc:
	default:
		return fmt.Errorf("isolation must be one of NoIsolation|PageTableIsolation|MpkIsolation|VmfuncIsolation, got %q", c.Isolation)
	}
	switch c.Distribution {
	case "Zipf", "Uniform":
	default:
		return fmt.Errorf("distribution must be one of Zipf|Uniform, got %q", c.Distribution)
	}
	return nil
}

// BuildSimulator constructs the per-core-partitioned Simulator this config
// describes. Scheduler policy is round-robin per tenant; the MultiQueue and
// Minos policies are reachable via the sweep manifest's policy override.
func (c Config) BuildSimulator(seed int64, sharedPolicy func() sim.SchedulerPolicy) *sim.Simulator {
	return sim.NewSimulator(
		sim.NewSimulationKey(seed),
		c.MaxCores,
		uint16(c.NumTenants),
		c.TenantSkew,
		float64(c.ReqRate),
		c.NumReqs,
		c.NumResps,
		sim.IsolationMode(c.Isolation),
		c.Batching,
		c.Distribution,
		sharedPolicy,
	)
}
