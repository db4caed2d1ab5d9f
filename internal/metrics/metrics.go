package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/sirupsen/logrus"

	"zabbix-sla/internal/domain"
)

// Pusher records run-level gauges and pushes them to a Prometheus
// pushgateway once per run. A batch job cannot be scraped, so the push model
// replaces an exposition endpoint. With no gateway configured every method
// is a no-op.
type Pusher struct {
	gateway  string
	registry *prometheus.Registry

	runDuration   prometheus.Gauge
	hostsTotal    prometheus.Gauge
	hostsSkipped  prometheus.Gauge
	lastRunEpoch  prometheus.Gauge
	groupSLAGauge *prometheus.GaugeVec
}

// New builds a Pusher for the given gateway URL. An empty gateway disables
// metrics entirely.
func New(gateway string) *Pusher {
	if gateway == "" {
		return &Pusher{}
	}

	registry := prometheus.NewRegistry()
	p := &Pusher{
		gateway:  gateway,
		registry: registry,
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sla_report_run_duration_seconds",
			Help: "Wall-clock duration of the last report run.",
		}),
		hostsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sla_report_hosts_evaluated",
			Help: "Hosts successfully evaluated in the last run.",
		}),
		hostsSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sla_report_hosts_skipped",
			Help: "Hosts skipped in the last run because their data could not be fetched.",
		}),
		lastRunEpoch: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sla_report_last_run_timestamp_seconds",
			Help: "Unix time of the last completed report run.",
		}),
		groupSLAGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sla_report_group_overall_sla",
			Help: "Time-weighted overall SLA percentage per host group for the selected period.",
		}, []string{"group", "status"}),
	}

	registry.MustRegister(p.runDuration, p.hostsTotal, p.hostsSkipped, p.lastRunEpoch, p.groupSLAGauge)
	return p
}

// Enabled reports whether a gateway is configured
func (p *Pusher) Enabled() bool {
	return p.gateway != ""
}

// Record fills the gauges from a completed run
func (p *Pusher) Record(report *domain.RunReport, duration time.Duration) {
	if !p.Enabled() {
		return
	}

	p.runDuration.Set(duration.Seconds())
	p.hostsTotal.Set(float64(report.TotalHosts))
	p.lastRunEpoch.Set(float64(report.GeneratedAt.Unix()))

	skipped := 0
	for _, group := range report.Groups {
		skipped += len(group.Summary.SkippedHosts)
		p.groupSLAGauge.WithLabelValues(group.Summary.GroupName, group.Summary.Status.String()).Set(group.Summary.OverallSLA)
	}
	p.hostsSkipped.Set(float64(skipped))
}

// Push sends the recorded gauges to the gateway. Failures are logged, not
// fatal; a report run must not abort because monitoring is down.
func (p *Pusher) Push(ctx context.Context, job string) error {
	if !p.Enabled() {
		return nil
	}

	err := push.New(p.gateway, job).Gatherer(p.registry).PushContext(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Failed to push metrics to gateway")
		return fmt.Errorf("push metrics: %w", err)
	}
	logrus.WithField("gateway", p.gateway).Debug("Metrics pushed")
	return nil
}
