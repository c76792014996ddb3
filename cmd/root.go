package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/AugustRoad/K-V-Cache-Memory-Manager/sim"
)

var (
	// CLI flags for cache construction and scenario selection
	scenarioPath string // Path to a YAML scenario file (empty = built-in demos)
	logLevel     string // Log verbosity level
	numBlocks    int    // Total number of physical KV blocks
	blockSize    int    // Number of tokens per KV block
	numLayers    int    // Transformer layers backing each block
	numHeads     int    // Attention heads per layer
	headSize     int    // Dimension of each attention head
	device       string // Storage target for the cache buffers
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "kvsim",
	Short: "Paged KV cache memory manager simulation",
}

// runCmd executes scenarios using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run cache scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		scenarios, err := loadScenarios(cmd)
		if err != nil {
			logrus.Fatalf("Loading scenarios: %v", err)
		}
		for _, sc := range scenarios {
			if err := runScenario(sc); err != nil {
				logrus.Fatalf("Scenario failed: %v", err)
			}
		}
	},
}

// loadScenarios returns the scenario named by --scenario, or the three
// built-in demos when no file is given. Cache flags set on the command
// line override the file's cache section.
func loadScenarios(cmd *cobra.Command) ([]sim.Scenario, error) {
	if scenarioPath == "" {
		return []sim.Scenario{
			sim.DemoSimpleRun(),
			sim.DemoFragmentation(),
			sim.DemoHighUtilization(),
		}, nil
	}
	sc, err := LoadScenario(scenarioPath)
	if err != nil {
		return nil, err
	}
	overrideCache(cmd, &sc.Cache)
	return []sim.Scenario{sc}, nil
}

// overrideCache applies explicitly set cache flags over a scenario
// file's cache section.
func overrideCache(cmd *cobra.Command, cfg *sim.CacheConfig) {
	if cmd.Flags().Changed("num-blocks") {
		cfg.NumBlocks = numBlocks
	}
	if cmd.Flags().Changed("block-size") {
		cfg.BlockSize = blockSize
	}
	if cmd.Flags().Changed("num-layers") {
		cfg.NumLayers = numLayers
	}
	if cmd.Flags().Changed("num-heads") {
		cfg.NumHeads = numHeads
	}
	if cmd.Flags().Changed("head-size") {
		cfg.HeadSize = headSize
	}
	if cmd.Flags().Changed("device") {
		cfg.Device = device
	}
}

// runScenario drives one scenario end to end and prints its reports.
func runScenario(sc sim.Scenario) error {
	runner, err := sim.NewRunner(sc)
	if err != nil {
		return err
	}
	fmt.Printf("=== %s ===\n", sc.Name)
	fmt.Printf("Cache: %d blocks x %d tokens, %.2f MB reserved on %s\n",
		sc.Cache.NumBlocks, sc.Cache.BlockSize,
		float64(runner.Store().TotalBytes())/(1<<20), runner.Store().Device())
	if err := runner.Run(); err != nil {
		return err
	}
	for _, snap := range runner.Snapshots() {
		printSnapshot(snap)
	}
	metrics := runner.Metrics()
	metrics.Print()
	fmt.Println()
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "path to a YAML scenario file (default: built-in demos)")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "log verbosity (debug, info, warn, error)")
	runCmd.Flags().IntVar(&numBlocks, "num-blocks", 100, "total physical KV blocks")
	runCmd.Flags().IntVar(&blockSize, "block-size", 16, "tokens per KV block")
	runCmd.Flags().IntVar(&numLayers, "num-layers", 4, "transformer layers")
	runCmd.Flags().IntVar(&numHeads, "num-heads", 8, "attention heads per layer")
	runCmd.Flags().IntVar(&headSize, "head-size", 64, "dimension of each head")
	runCmd.Flags().StringVar(&device, "device", "cpu", "storage target for the cache buffers")
	rootCmd.AddCommand(runCmd)
}
