package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"winsweep/internal/config"
	"winsweep/internal/dataset"
	"winsweep/internal/exporter"
	"winsweep/internal/features"
	"winsweep/internal/infrastructure"
	"winsweep/internal/sweep"
)

func main() {
	configFile := flag.String("config", "", "optional YAML configuration file")
	dataDir := flag.String("data", "", "dataset directory (defaults to paths.data_dir)")
	featureStoreFile := flag.String("features", "", "feature store JSON file (defaults to paths.feature_store_file)")
	outputDir := flag.String("out", "", "output directory for result tables (defaults to paths.output_dir)")
	noProgress := flag.Bool("no-progress", false, "disable the console progress bar")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Command-line overrides win over file and environment values.
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *featureStoreFile != "" {
		cfg.Paths.FeatureStoreFile = *featureStoreFile
	}
	if *outputDir != "" {
		cfg.Paths.OutputDir = *outputDir
	}

	if err := cfg.EnsureDirs(); err != nil {
		slog.Error("Failed to prepare directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging, cfg.LogFilePath())
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting lookback-window optimization",
		"data_dir", cfg.Paths.DataDir,
		"windows_months", cfg.Sweep.WindowsMonths,
		"seed", cfg.Sweep.Seed,
	)

	// The feature store is a precondition for the whole run; failing to
	// load it is the only hard stop.
	store, err := features.LoadStore(cfg.Paths.FeatureStoreFile)
	if err != nil {
		logger.Error("Failed to load feature store", "error", err)
		os.Exit(1)
	}
	logger.Info("Loaded feature store", "datasets", store.Len())

	files, err := dataset.DiscoverFiles(cfg.Paths.DataDir)
	if err != nil {
		logger.Error("Failed to list dataset files", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Warn("No dataset files found", "data_dir", cfg.Paths.DataDir)
	}

	loader := dataset.NewLoader(cfg.Data, logger)
	preparer := features.NewPreparer(!cfg.Sweep.TrainOnlyScaling, logger)
	evaluator := sweep.NewEvaluator(cfg.Sweep, nil, logger)

	orchestrator := sweep.NewOrchestrator(
		sweep.Windows(cfg.Sweep.WindowsMonths),
		loader, store, preparer, evaluator, logger,
	)
	orchestrator.ShowProgress = !*noProgress

	report, err := orchestrator.Run(context.Background(), files)
	if err != nil {
		logger.Error("Window sweep aborted", "error", err)
		os.Exit(1)
	}

	writer := exporter.NewWriter(cfg.Paths.OutputDir, cfg.Data, logger)
	bestPath, err := writer.WriteBestWindows(report.Best)
	if err != nil {
		logger.Error("Failed to write best-window table", "error", err)
		os.Exit(1)
	}
	metricsPath, err := writer.WriteAllMetrics(report.Metrics)
	if err != nil {
		logger.Error("Failed to write metrics table", "error", err)
		os.Exit(1)
	}

	failed, skipped := 0, 0
	for _, outcome := range report.Outcomes {
		switch outcome.Status {
		case sweep.StatusFailed:
			failed++
		case sweep.StatusSkipped:
			skipped++
		}
	}

	logger.Info("Optimization completed",
		"best_windows", bestPath,
		"all_metrics", metricsPath,
		"datasets", len(files),
		"skipped", skipped,
		"failed", failed,
	)
}
