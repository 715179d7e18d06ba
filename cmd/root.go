// cmd/root.go
package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	seed       int64
)

var rootCmd = &cobra.Command{
	Use:   "isolsim",
	Short: "Discrete-event simulator for per-core tenant isolation costs",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the isolation-mode scheduling simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := LoadConfig(configPath)
		if err != nil {
			logrus.Errorf("config error: %v", err)
			os.Exit(1)
		}

		logrus.Infof("starting simulation: %d cores, %d tenants, isolation=%s, distribution=%s",
			cfg.MaxCores, cfg.NumTenants, cfg.Isolation, cfg.Distribution)

		s := cfg.BuildSimulator(seed, nil)
		s.Run()
		s.Print()
	},
}

// Execute runs the root command, exiting non-zero on any command error
// cobra reports. A config load failure does not reach here: runCmd exits
// with status 1 itself.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", configFileName, "Path to the simulation config file")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "RNG seed for reproducibility")

	rootCmd.AddCommand(runCmd)
}
