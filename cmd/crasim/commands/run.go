package commands

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/himelbrand/crasim/internal/config"
	"github.com/himelbrand/crasim/internal/simrun"
	"github.com/himelbrand/crasim/internal/stats"
	"github.com/himelbrand/crasim/internal/trace"
)

func newRunCommand() *cobra.Command {
	var (
		configPath string
		tracePath  string
		traceFmt   string
		maxSize    uint64
		strategy   string
		sk         string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a trace file through a WindowCA/AdaptiveCA policy and print a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if maxSize > 0 {
				cfg.MaximumSize = maxSize
			}
			if strategy != "" {
				cfg.Strategy = strategy
			}
			if sk != "" {
				cfg.Sketch = sk
			}
			if tracePath != "" {
				cfg.TracePath = tracePath
			}
			if traceFmt != "" {
				cfg.TraceFormat = traceFmt
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			parser, err := trace.ByStrategy(cfg.TraceFormat)
			if err != nil {
				return err
			}
			f, err := os.Open(cfg.TracePath)
			if err != nil {
				return err
			}
			defer f.Close()

			collector := stats.NewCollector()
			p, err := simrun.NewPolicy(cfg, collector)
			if err != nil {
				return err
			}

			src := trace.NewSource(parser, f)
			res, err := simrun.Run(p, src)
			if err != nil {
				color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "run aborted after %d events: %v\n", res.Events, err)
				return err
			}

			label := cfg.Strategy
			if label == "" {
				label = "WindowCA"
			}
			collector.Report(cmd.OutOrStdout(), label)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to a crasim.yaml config file")
	flags.StringVar(&tracePath, "trace", "", "path to the trace file to replay")
	flags.StringVar(&traceFmt, "format", "", "trace format: dns, latency, or address-penalties")
	flags.Uint64Var(&maxSize, "maximum-size", 0, "total cache capacity (overrides config)")
	flags.StringVar(&strategy, "strategy", "", "AdaptiveCA climber: simple, adam, or nadam (empty = plain WindowCA)")
	flags.StringVar(&sk, "sketch", "", "frequency sketch: cm4, bloomfreq, or perfect")

	return cmd
}
