package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"CryptoSentinel/internal/config"
	"CryptoSentinel/internal/logging"
	"CryptoSentinel/internal/scheduler"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the YAML config file")
	envFile := flag.String("env", ".env", "path to the .env file")
	runJob := flag.String("run", "", "run one job once and exit (fetch, crypto, quote, business, quiz)")
	flag.Parse()

	boot := logging.New("info", "text")
	cfg, err := config.Load(cfgPath, *envFile)
	if err != nil {
		boot.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("CryptoSentinel starting...")

	names := config.Jobs
	if *runJob != "" {
		names = []string{*runJob}
	}
	for _, name := range names {
		if err := cfg.Validate(name); err != nil {
			logger.Fatalf("config validation: %v", err)
		}
	}

	// Cancelled on SIGINT/SIGTERM, which also ends a pending quiz poll.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newWiring(cfg, logger)
	if err != nil {
		logger.Fatalf("init: %v", err)
	}
	defer w.Close()

	sched := scheduler.NewScheduler(ctx, logger)
	for _, name := range names {
		job, err := w.job(name)
		if err != nil {
			logger.Fatalf("build %s job: %v", name, err)
		}
		spec := ""
		if *runJob == "" {
			spec = cfg.Cron(name)
		}
		if err := sched.Register(job, spec); err != nil {
			logger.Fatalf("register cron tasks: %v", err)
		}
	}

	if *runJob != "" {
		if err := sched.RunOnce(ctx, *runJob); err != nil {
			w.Close()
			logger.WithError(err).Fatalf("%s job failed", *runJob)
		}
		return
	}

	sched.Start()
	defer sched.Stop()

	if cfg.RunOnStart {
		logger.Info("RUN_ON_START enabled, executing every job now")
		go func() {
			if err := sched.RunAll(ctx); err != nil {
				logger.WithError(err).Warn("startup run finished with errors")
			}
		}()
	}

	logger.Info("CryptoSentinel is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	logger.Info("shutdown signal received, stopping...")
}
