package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/therealutkarshpriyadarshi/vamana/pkg/config"
	"github.com/therealutkarshpriyadarshi/vamana/pkg/dataset"
	"github.com/therealutkarshpriyadarshi/vamana/pkg/observability"
	"github.com/therealutkarshpriyadarshi/vamana/pkg/vamana"
)

const version = "1.0.0"

func main() {
	var (
		configPath  = flag.String("config", "", "path to YAML config file")
		dataPath    = flag.String("data", "", "SQLite database holding the vectors")
		table       = flag.String("table", "", "table to scan")
		column      = flag.String("column", "", "vector column name")
		outPath     = flag.String("out", "graph.vamana", "output path for the built graph")
		r           = flag.Int("r", 0, "out-degree cap (overrides config)")
		l           = flag.Int("l", 0, "search-list size (overrides config)")
		alpha       = flag.Float64("alpha", 0, "prune relaxation factor (overrides config)")
		seed        = flag.Int64("seed", -1, "RNG seed (overrides config)")
		workers     = flag.Int("workers", -1, "prune workers, 0 = all CPUs (overrides config)")
		logLevel    = flag.String("log-level", "", "DEBUG, INFO, WARN or ERROR")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("vamana-build version %s\n", version)
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			fatal(err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	// Flags override file and environment.
	if *dataPath != "" {
		cfg.Dataset.Path = *dataPath
	}
	if *table != "" {
		cfg.Dataset.Table = *table
	}
	if *column != "" {
		cfg.Dataset.Column = *column
	}
	if *r > 0 {
		cfg.Index.R = *r
	}
	if *l > 0 {
		cfg.Index.L = *l
	}
	if *alpha > 0 {
		cfg.Index.Alpha = float32(*alpha)
	}
	if *seed >= 0 {
		cfg.Index.Seed = *seed
	}
	if *workers >= 0 {
		cfg.Index.Workers = *workers
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	logger := observability.NewLogger(observability.ParseLogLevel(cfg.Logging.Level), os.Stderr)
	observability.SetGlobalLogger(logger)

	ds, err := dataset.OpenSQLite(cfg.Dataset.Path, cfg.Dataset.Table)
	if err != nil {
		fatal(err)
	}
	defer ds.Close()
	ds.SetBatchSize(cfg.Dataset.BatchSize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	builder := vamana.NewBuilder(ds, cfg.Dataset.Column, vamana.Params{
		R:       cfg.Index.R,
		L:       cfg.Index.L,
		Alpha:   cfg.Index.Alpha,
		Seed:    cfg.Index.Seed,
		Workers: cfg.Index.Workers,
	})
	builder.SetLogger(logger)
	builder.SetMetrics(observability.NewMetrics(prometheus.DefaultRegisterer))

	graph, err := builder.Build(ctx)
	if err != nil {
		logger.Error("build failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	if err := graph.Save(*outPath); err != nil {
		logger.Error("saving graph failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	logger.Info("graph saved", map[string]interface{}{
		"path":     *outPath,
		"vertices": graph.Len(),
		"medoid":   graph.Medoid(),
	})
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
