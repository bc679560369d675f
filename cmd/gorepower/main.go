package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Shopify/gorepower/internal/class_config"
	colonistfactory "github.com/Shopify/gorepower/internal/colonist/impl"
	"github.com/Shopify/gorepower/internal/metrics"
	"github.com/Shopify/gorepower/internal/power"
	"github.com/Shopify/gorepower/internal/power/registry"
	"github.com/Shopify/gorepower/internal/simulator"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gorepower",
		Short:         "Demand-driven power allocation for simulated colony buildings",
		SilenceUsage:  true,
	}
	root.AddCommand(newRunCmd(), newClassesCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cfg := runConfig{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the colony simulation with power tracking",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&cfg.classesPath, "classes", "", "YAML class definitions (built-in table when empty)")
	flags.StringVar(&cfg.colonistsPath, "colonists", "", "YAML colonist distribution (built-in when empty)")
	flags.Int64Var(&cfg.numTicks, "ticks", defaultNumTicks, "number of ticks to simulate")
	flags.Float64Var(&cfg.tps, "tps", defaultTicksPerSecond, "ticks per second, 0 for unpaced")
	flags.IntVar(&cfg.rescanBudget, "rescan-budget", defaultRescanBudget, "ticks between periodic rescans")
	flags.IntVar(&cfg.numColonists, "num-colonists", defaultNumColonists, "number of colonists")
	flags.StringVar(&cfg.logLevel, "log-level", defaultLogLevel, "one of: disabled, debug, info, warn")
	flags.StringVar(&cfg.statsdAddr, "statsd-addr", "", "datadog agent address, metrics noop when empty")
	flags.StringVar(&cfg.metricsAddr, "metrics-addr", "", "serve /metrics and /status on this address")
	flags.StringVar(&cfg.redisAddr, "redis-addr", "", "also publish allocations to redis at this address")
	flags.Int64Var(&cfg.seed, "seed", 1, "random seed for colonists and construction")
	return cmd
}

func newClassesCmd() *cobra.Command {
	var classesPath string
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "Print the configured entity classes",
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, err := loadClassConfigs(classesPath)
			if err != nil {
				return err
			}
			return printClasses(cmd.OutOrStdout(), configs)
		},
	}
	cmd.Flags().StringVar(&classesPath, "classes", "", "YAML class definitions (built-in table when empty)")
	return cmd
}

func printClasses(out io.Writer, configs []class_config.ClassConfig) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASS\tIDLE\tACTIVE\tCATEGORIES")
	for _, c := range configs {
		idle, active := "-", "-"
		if c.Managed() {
			idle = fmt.Sprintf("%g", *c.Idle)
			active = fmt.Sprintf("%g", *c.Active)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, idle, active, describeCategories(c.Categories))
	}
	return tw.Flush()
}

func runSimulation(parent context.Context, out io.Writer, cfg runConfig) error {
	if err := setLogging(cfg.logLevel); err != nil {
		return err
	}
	metrics.Configure(cfg.statsdAddr)
	configureExperiment(cfg)

	classes, err := loadClassConfigs(cfg.classesPath)
	if err != nil {
		return err
	}
	distribution, err := loadColonistDistribution(cfg.colonistsPath)
	if err != nil {
		return err
	}

	colony := simulator.MakeColony(simulator.DefaultLayout)
	if err := colony.Build(simulator.DefaultLayout); err != nil {
		return err
	}
	reg, err := registry.Build(classes, colony.World)
	if err != nil {
		return err
	}
	usageTracker, err := makeTracker(trackerType)
	if err != nil {
		return err
	}
	alloc, err := makeAllocator(colony.World, cfg.redisAddr)
	if err != nil {
		return err
	}
	collector, err := metrics.NewTickCollector(prometheus.NewRegistry())
	if err != nil {
		return err
	}
	powerDriver := power.MakePowerDriver(colony.World, reg, usageTracker, alloc, cfg.rescanBudget, collector)

	rng := rand.New(rand.NewSource(cfg.seed))
	colonists, err := makeColonists(distribution, colonistfactory.WorldParams{
		World:  colony.World,
		Marker: powerDriver,
		Rand:   rng,
	}, cfg.numColonists)
	if err != nil {
		return err
	}
	usageRepo, err := makeUsageRepo(usageRepoType)
	if err != nil {
		return err
	}
	sim := makeSimulator(colony, powerDriver, colonists, usageRepo, rng, cfg)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.metricsAddr != "" {
		server := makeMetricsServer(cfg.metricsAddr, collector, usageRepo)
		g.Go(func() error {
			log.Info().Str("addr", cfg.metricsAddr).Msg("serving metrics")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "metrics server")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancelShutdown()
			return server.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancel()
		log.Info().
			Int("managed_classes", reg.ManagedCount()).
			Int("colonists", len(colonists)).
			Int64("ticks", cfg.numTicks).
			Msg("starting simulation")
		snapshot, err := sim.Run(gctx)
		if errors.Is(err, context.Canceled) {
			log.Info().Int64("tick", snapshot.Tick).Msg("simulation interrupted")
			err = nil
		}
		if printErr := printSnapshot(out, snapshot); printErr != nil && err == nil {
			err = printErr
		}
		return err
	})
	return g.Wait()
}

func printSnapshot(out io.Writer, s simulator.Snapshot) error {
	classes := make([]string, 0, len(s.Classes))
	for class := range s.Classes {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	fmt.Fprintf(out, "ticks=%d rescans(population_changed)=%d rescans(periodic)=%d dead_skipped=%d\n",
		s.Ticks, s.Rescans["population_changed"], s.Rescans["periodic"], s.DeadSkipped)
	if s.Ticks > 0 {
		fmt.Fprintf(out, "avg_allocation_per_tick=%.1f\n", s.Energy/float64(s.Ticks))
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASS\tMANAGED_TICKS\tACTIVE_SHARE\tAVG_ALLOCATION")
	for _, class := range classes {
		u := s.Classes[class]
		avg := 0.0
		if u.ManagedTicks > 0 {
			avg = u.Energy / float64(u.ManagedTicks)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.1f\n", class, u.ManagedTicks, u.ActiveShare(), avg)
	}
	return tw.Flush()
}
