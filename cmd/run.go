package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/agentic-fairsim/agentic-fairsim/config"
	"github.com/agentic-fairsim/agentic-fairsim/kernel"
	"github.com/agentic-fairsim/agentic-fairsim/metrics"
	"github.com/agentic-fairsim/agentic-fairsim/workload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	horizon      float64
	maxSteps     int
	seed         int64
	jsonOut      bool
	timelinePath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a fair-share simulation from a resource/workload config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := config.Load(configPath)
		if err != nil {
			return err
		}
		capacities, err := f.ResourceTable()
		if err != nil {
			return err
		}

		specs := make([]workload.Spec, 0, len(f.Workloads))
		for _, w := range f.Workloads {
			dagTemplate, err := w.BuildDAG()
			if err != nil {
				return err
			}
			specs = append(specs, workload.Spec{
				RequestType:    w.RequestType,
				DAGTemplate:    dagTemplate,
				ArrivalRateRPM: w.ArrivalRateRPM,
			})
		}

		requests, err := workload.Generate(specs, horizon, workload.NewPartitionedRNG(seed))
		if err != nil {
			return err
		}
		logrus.Infof("cmd: generated %d arrivals over %v simulated seconds", len(requests), horizon)

		collector := metrics.NewCollector(capacities)
		sim := kernel.New(capacities, collector)
		for _, req := range requests {
			if err := sim.Schedule(req); err != nil {
				return err
			}
		}

		summary, err := sim.Run(context.Background(), horizon, maxSteps)
		if err != nil {
			return err
		}

		if timelinePath != "" {
			tf, err := os.Create(timelinePath)
			if err != nil {
				return err
			}
			defer tf.Close()
			if err := metrics.WriteJSON(tf, collector.Timeline()); err != nil {
				return err
			}
			logrus.Infof("cmd: wrote allocation timeline to %s", timelinePath)
		}

		if jsonOut {
			return metrics.WriteJSON(os.Stdout, summary)
		}
		fmt.Printf("completed=%d latency(overall)=%+v throughput(overall)=%+v utilisation=%+v\n",
			summary.Latency.Overall.Count, summary.Latency.Overall, summary.Throughput.Overall, summary.Utilisation)
		return nil
	},
}

var validateDAGCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and validate a resource/workload config file without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if _, err := f.ResourceTable(); err != nil {
			return err
		}
		for _, w := range f.Workloads {
			if _, err := w.BuildDAG(); err != nil {
				return err
			}
		}
		fmt.Printf("config %s is valid: %d workload(s)\n", configPath, len(f.Workloads))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, validateDAGCmd} {
		c.Flags().StringVar(&configPath, "config", "", "Path to the resource/workload YAML config (required)")
		_ = c.MarkFlagRequired("config")
	}
	runCmd.Flags().Float64Var(&horizon, "horizon", 60, "Simulated duration in seconds")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", -1, "Maximum simulation steps (-1 for unlimited)")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "Master seed for Poisson arrival generation")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "Print the metrics summary as JSON")
	runCmd.Flags().StringVar(&timelinePath, "timeline", "", "Write the per-resource allocation timeline as JSON to this path")
}
