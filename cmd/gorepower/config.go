package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v7"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Shopify/gorepower/internal/class_config"
	"github.com/Shopify/gorepower/internal/colonist"
	colonistfactory "github.com/Shopify/gorepower/internal/colonist/impl"
	"github.com/Shopify/gorepower/internal/metrics"
	"github.com/Shopify/gorepower/internal/power"
	"github.com/Shopify/gorepower/internal/power/allocator"
	allocatorfactory "github.com/Shopify/gorepower/internal/power/allocator/impl"
	"github.com/Shopify/gorepower/internal/power/scanner"
	"github.com/Shopify/gorepower/internal/power/tracker"
	trackerfactory "github.com/Shopify/gorepower/internal/power/tracker/impl"
	"github.com/Shopify/gorepower/internal/simulator"
	"github.com/Shopify/gorepower/internal/world_mock"
)

const (
	defaultLogLevel = "info"

	// Type of UsageTracker strategy to execute.
	trackerType = "tick_window"

	// Type of UsageRepo backing the status endpoint.
	usageRepoType = "simple_usage_repo"

	// Number of simulated ticks; the host game runs 60 per second at normal speed.
	defaultNumTicks = 6000

	// Ticks per second; 0 runs unpaced.
	defaultTicksPerSecond = 600

	// Ticks between periodic discovery rescans.
	defaultRescanBudget = scanner.DefaultRescanBudget

	// Number of colonists split across the colonist distribution.
	defaultNumColonists = 12

	// Ticks per in-game day, driving scheduled buildings.
	dayLength = 2400

	// Ticks between random construction or demolition in the colony.
	constructionInterval = 500

	// Ticks between progress logs.
	progressInterval = 1000

	// Prefix of the redis hashes receiving allocations.
	redisKeyPrefix = allocatorfactory.DefaultAllocationKeyPrefix

	metricsShutdownTimeout = 5 * time.Second
)

type runConfig struct {
	classesPath   string
	colonistsPath string
	numTicks      int64
	tps           float64
	rescanBudget  int
	numColonists  int
	logLevel      string
	statsdAddr    string
	metricsAddr   string
	redisAddr     string
	seed          int64
}

func setLogging(logLevel string) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	switch logLevel {
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		return errors.Errorf("log level must be one of: {disabled, debug, info, warn}, got %q", logLevel)
	}
	return nil
}

func configureExperiment(cfg runConfig) {
	classesTag := "classes:default"
	if cfg.classesPath != "" {
		classesTag = fmt.Sprintf("classes:%s", cfg.classesPath)
	}
	metrics.AddGlobalTags([]string{
		classesTag,
		fmt.Sprintf("tracker_type:%s", trackerType),
		fmt.Sprintf("rescan_budget:%d", cfg.rescanBudget),
		fmt.Sprintf("num_colonists:%d", cfg.numColonists),
	})
}

func loadClassConfigs(path string) ([]class_config.ClassConfig, error) {
	if path == "" {
		return class_config.LoadDefault()
	}
	return class_config.LoadFile(path)
}

func loadColonistDistribution(path string) ([]colonist.ColonistConfig, error) {
	if path == "" {
		return colonist.LoadDefaultDistribution()
	}
	return colonist.LoadDistribution(path)
}

func makeTracker(trackerType string) (tracker.Tracker, error) {
	switch trackerType {
	case "tick_window":
		return trackerfactory.MakeTickWindowTracker(), nil
	default:
		return nil, errors.Errorf("tracker type must be one of: {tick_window}, got %q", trackerType)
	}
}

func makeUsageRepo(usageRepoType string) (simulator.UsageRepo, error) {
	switch usageRepoType {
	case "simple_usage_repo":
		return simulator.MakeSimpleUsageRepo(), nil
	default:
		return nil, errors.Errorf("usage repo type must be one of: {simple_usage_repo}, got %q", usageRepoType)
	}
}

func makeRedisClient(redisAddr string) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	_, pingErr := redisClient.Ping().Result()
	return redisClient, pingErr
}

// makeAllocator writes into the simulated world, and into redis as well when
// redisAddr is set.
func makeAllocator(w *world_mock.World, redisAddr string) (allocator.Allocator, error) {
	if redisAddr == "" {
		return w, nil
	}
	redisClient, err := makeRedisClient(redisAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "redis at %s failed to respond a ping request", redisAddr)
	}
	log.Info().Str("addr", redisAddr).Str("prefix", redisKeyPrefix).Msg("publishing allocations to redis")
	return allocatorfactory.MakeFanoutAllocator(w, allocatorfactory.MakeRedisAllocator(redisClient, redisKeyPrefix)), nil
}

func makeColonists(
	distribution []colonist.ColonistConfig,
	params colonistfactory.WorldParams,
	numColonists int,
) ([]colonist.Colonist, error) {
	colonists := make([]colonist.Colonist, 0, numColonists)
	for i, n := range colonist.Counts(distribution, numColonists) {
		for j := 0; j < n; j++ {
			name := fmt.Sprintf("%s #%d", distribution[i].HumanizedLabel, j+1)
			c, err := colonistfactory.MakeColonistFromConfig(distribution[i], params, name)
			if err != nil {
				return nil, err
			}
			colonists = append(colonists, c)
		}
	}
	return colonists, nil
}

func makeLimiter(tps float64) *rate.Limiter {
	if tps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(tps), 1)
}

func makeSimulator(
	colony *simulator.Colony,
	powerDriver *power.PowerDriver,
	colonists []colonist.Colonist,
	usageRepo simulator.UsageRepo,
	rng *rand.Rand,
	cfg runConfig,
) *simulator.SimulationDriver {
	return &simulator.SimulationDriver{
		Colony:               colony,
		PowerDriver:          powerDriver,
		Colonists:            colonists,
		UsageRepo:            usageRepo,
		Rand:                 rng,
		Limiter:              makeLimiter(cfg.tps),
		NumTicks:             cfg.numTicks,
		DayLength:            dayLength,
		ConstructionInterval: constructionInterval,
		ProgressInterval:     progressInterval,
	}
}

func makeMetricsServer(addr string, collector *metrics.TickCollector, usageRepo simulator.UsageRepo) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(usageRepo.Snapshot()); err != nil {
			log.Warn().Err(err).Msg("failed encoding status")
		}
	})
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

func describeCategories(cats []string) string {
	if len(cats) == 0 {
		return "-"
	}
	return strings.Join(cats, ",")
}
