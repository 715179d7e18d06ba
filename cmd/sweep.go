package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/isolsim/isolsim/sim"
)

// SweepVariant overrides a subset of Config fields for one run of a batch
// sweep, plus an optional named scheduler policy not exposed by config.toml
// itself (RoundRobin is config.toml's only reachable policy; MultiQueue and
// Minos are only reachable through a sweep manifest).
type SweepVariant struct {
	Name      string  `yaml:"name"`
	Isolation *string `yaml:"isolation"`
	Batching  *bool   `yaml:"batching"`
	ReqRate   *uint64 `yaml:"req_rate"`
	Policy    string  `yaml:"policy"` // "", "RoundRobin", "MultiQueue", "Minos"
}

// SweepManifest is the top-level sweep.yaml structure: a base config plus a
// list of variants, each run once and reported independently.
type SweepManifest struct {
	Base     Config         `yaml:"base"`
	Variants []SweepVariant `yaml:"variants"`
}

func loadSweepManifest(path string) (SweepManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SweepManifest{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var manifest SweepManifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&manifest); err != nil {
		return SweepManifest{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := manifest.Base.Validate(); err != nil {
		return SweepManifest{}, fmt.Errorf("base config: %w", err)
	}
	return manifest, nil
}

func (v SweepVariant) apply(base Config) Config {
	cfg := base
	if v.Isolation != nil {
		cfg.Isolation = *v.Isolation
	}
	if v.Batching != nil {
		cfg.Batching = *v.Batching
	}
	if v.ReqRate != nil {
		cfg.ReqRate = *v.ReqRate
	}
	return cfg
}

func (v SweepVariant) schedulerPolicy() func() sim.SchedulerPolicy {
	switch v.Policy {
	case "MultiQueue":
		return func() sim.SchedulerPolicy { return sim.NewMultiQueuePolicy() }
	case "Minos":
		return func() sim.SchedulerPolicy { return sim.NewMinosPolicy(sim.SmallCore) }
	default:
		return nil
	}
}

var sweepManifestPath string

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a batch of simulation variants described by a sweep manifest",
	Run: func(cmd *cobra.Command, args []string) {
		manifest, err := loadSweepManifest(sweepManifestPath)
		if err != nil {
			logrus.Errorf("sweep manifest error: %v", err)
			os.Exit(1)
		}

		for _, v := range manifest.Variants {
			cfg := v.apply(manifest.Base)
			if err := cfg.Validate(); err != nil {
				logrus.Errorf("variant %q: %v", v.Name, err)
				continue
			}
			fmt.Printf("=== variant: %s ===\n", v.Name)
			s := cfg.BuildSimulator(seed, v.schedulerPolicy())
			s.Run()
			s.Print()
		}
	},
}

func init() {
	sweepCmd.Flags().StringVar(&sweepManifestPath, "manifest", "sweep.yaml", "Path to the sweep manifest file")
	rootCmd.AddCommand(sweepCmd)
}
