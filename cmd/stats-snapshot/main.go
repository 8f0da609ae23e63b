package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"library-api/config"
	"library-api/services"
)

// initStderrLogging keeps level and format from cfg but always logs to w,
// since stdout carries the snapshot. LOG_OUTPUT=file|both is ignored.
func initStderrLogging(cfg config.LogConfig, w io.Writer) (io.Closer, error) {
	cfg.Output = "stdout"
	closer, err := config.InitLogging(cfg)
	if err != nil {
		return nil, err
	}
	config.LogWriter = w
	config.Log.SetOutput(w)
	return closer, nil
}

func main() {
	var (
		envFile string
		timeout time.Duration
		indent  bool
	)

	flag.StringVar(&envFile, "env", ".env", "path to the env file to load (optional)")
	flag.DurationVar(&timeout, "timeout", time.Minute, "maximum time allowed for the catalog read")
	flag.BoolVar(&indent, "indent", true, "pretty-print the snapshot")
	flag.Parse()

	if timeout <= 0 {
		log.Fatal("timeout must be greater than 0")
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logCloser, err := initStderrLogging(cfg.Log, os.Stderr)
	if err != nil {
		log.Fatalf("logging setup failed: %v", err)
	}
	defer logCloser.Close()

	store, closeStore, err := services.OpenCatalogStore(cfg)
	if err != nil {
		log.Fatalf("catalog store: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	svc := services.NewAdminStatsService(store, services.AdminStatsOptions{})
	snapshot, _, err := svc.Snapshot(ctx)
	if closeErr := closeStore(context.Background()); closeErr != nil {
		config.Log.WithError(closeErr).Warn("Failed to close catalog store")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch admin statistics: %v\n", err)
		os.Exit(2)
	}

	encoder := json.NewEncoder(os.Stdout)
	if indent {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(snapshot); err != nil {
		log.Fatalf("encode snapshot: %v", err)
	}
}
