package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"zabbix-sla/internal/application"
	"zabbix-sla/internal/config"
	"zabbix-sla/internal/domain"
	"zabbix-sla/internal/infrastructure/zabbix"
	"zabbix-sla/internal/interfaces/report"
	"zabbix-sla/internal/metrics"
)

// Build information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Configuration file path")
	period := flag.String("period", "", "Report period override (day, week, month)")
	groups := flag.String("groups", "", "Comma-separated host group override")
	output := flag.String("output", "", "Explicit output file path (combined mode only)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("Zabbix SLA Report\n")
		fmt.Printf("  Version:    %s\n", Version)
		fmt.Printf("  Commit:     %s\n", Commit)
		fmt.Printf("  Build time: %s\n", BuildTime)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if *period != "" {
		kind, err := domain.NewWindowKind(*period)
		if err != nil {
			logrus.Fatalf("Invalid -period: %v", err)
		}
		cfg.Report.Period = kind.String()
	}
	if *groups != "" {
		cfg.OverrideGroups(splitGroups(*groups))
	}

	setupLogging(cfg.Logging)
	logrus.WithFields(logrus.Fields{
		"version": Version,
		"commit":  Commit,
		"period":  cfg.Report.Period,
	}).Info("Starting Zabbix SLA report run")

	// Cancel the run on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		logrus.WithField("signal", sig.String()).Warn("Shutdown signal received, aborting run")
		cancel()
	}()

	// Initialize Zabbix client
	client := zabbix.New(cfg.Zabbix.URL, cfg.Zabbix.Token, cfg.Zabbix.Timeout)

	version, err := client.APIVersion(ctx)
	if err != nil {
		logrus.Fatalf("Zabbix API unreachable at %s: %v", cfg.Zabbix.URL, err)
	}
	logrus.WithField("api_version", version).Info("Connected to Zabbix")

	// Initialize report service
	service := application.NewReportService(client, cfg)
	service.SetProgressFunc(func(completed, total int) {
		if completed == total || completed%25 == 0 {
			logrus.WithFields(logrus.Fields{
				"completed": completed,
				"total":     total,
			}).Info("Host evaluation progress")
		}
	})

	// Run the report
	started := time.Now()
	runReport, err := service.Run(ctx)
	if err != nil {
		logrus.Fatalf("Report run failed: %v", err)
	}
	duration := time.Since(started)

	// Write artifacts
	opts := report.OptionsFromConfig(cfg)
	opts.Path = *output

	sinks := report.MultiSink{buildFileSink(cfg.Report.Format, opts), report.NewConsoleSink()}
	if err := sinks.Write(ctx, runReport); err != nil {
		logrus.Fatalf("Failed to write reports: %v", err)
	}

	// Push metrics
	pusher := metrics.New(cfg.Metrics.PushGateway)
	pusher.Record(runReport, duration)
	if pusher.Enabled() {
		pushCtx, pushCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pushCancel()
		// non-fatal, already logged inside
		_ = pusher.Push(pushCtx, cfg.Metrics.Job)
	}

	logrus.WithFields(logrus.Fields{
		"run_id":   runReport.RunID,
		"groups":   len(runReport.Groups),
		"hosts":    runReport.TotalHosts,
		"duration": duration.Round(time.Millisecond).String(),
	}).Info("Report run complete")
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func buildFileSink(format string, opts report.Options) domain.ReportSink {
	if format == "csv" {
		return report.NewCSVSink(opts)
	}
	return report.NewJSONSink(opts)
}

func splitGroups(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
