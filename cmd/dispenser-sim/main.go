package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"pastillero-service/client"
	"pastillero-service/logger"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:5000", "Base URL of the pastillero service")
		events   = flag.Int("events", 5, "Dispense events to publish per module")
		modules  = flag.String("modules", "1,2", "Comma separated module numbers")
		delay    = flag.Duration("delay", 2*time.Minute, "Reported time between dispense and pickup")
		interval = flag.Duration("interval", 8*time.Second, "Time between dispenses on one module")
		seed     = flag.Bool("seed", false, "Seed the default pill definitions first")
		clear    = flag.Bool("clear", false, "Clear all statistics at the end")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose  = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	zlog, err := logger.New(level, "console", "dispenser-sim")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to create logger:", err)
		os.Exit(1)
	}
	defer zlog.Sync()

	mods, err := parseModules(*modules)
	if err != nil {
		zlog.Fatal("Invalid -modules", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := client.Simulate(ctx, client.New(*baseURL, *timeout), client.SimulatorConfig{
		Modules:     mods,
		Events:      *events,
		PickupDelay: *delay,
		Interval:    *interval,
		Seed:        *seed,
		Clear:       *clear,
	}, zlog)
	if err != nil {
		zlog.Fatal("Simulation failed", zap.Error(err))
	}

	zlog.Info("Simulation finished",
		zap.Int("seeded", summary.Seeded),
		zap.Int("published", summary.Published),
		zap.Int("failed", summary.Failed),
		zap.Int64("cleared", summary.Cleared),
	)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func parseModules(s string) ([]int, error) {
	var mods []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", part, err)
		}
		mods = append(mods, n)
	}
	if len(mods) == 0 {
		return nil, fmt.Errorf("no modules given")
	}
	return mods, nil
}
