package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"zabbix-sla/internal/config"
	"zabbix-sla/internal/domain"
)

// ReportService orchestrates a report run: it resolves the configured host
// groups, evaluates every eligible host over the three reporting windows
// through a bounded worker pool, and folds the results into per-group
// summaries.
type ReportService struct {
	source     domain.IncidentSource
	cfg        *config.Config
	onProgress func(completed, total int)
}

// NewReportService creates a new ReportService
func NewReportService(source domain.IncidentSource, cfg *config.Config) *ReportService {
	return &ReportService{
		source: source,
		cfg:    cfg,
	}
}

// SetProgressFunc installs a progress callback. It is invoked after each
// completed host evaluation with a monotonically increasing completed count;
// it deliberately counts evaluations, not requests or bytes, so progress
// stays meaningful regardless of fetch cost.
func (s *ReportService) SetProgressFunc(fn func(completed, total int)) {
	s.onProgress = fn
}

// hostJob is one unit of work for the fetch pool
type hostJob struct {
	groupIdx int
	hostIdx  int
	host     domain.Host
	policy   config.GroupPolicy
}

type hostResult struct {
	job    hostJob
	report domain.HostReport
	err    error
}

// groupState accumulates one group's evaluation; reports is write-once per
// slot, filled by the collector before aggregation reads it
type groupState struct {
	group   domain.HostGroup
	policy  config.GroupPolicy
	reports []*domain.HostReport
	skipped []string
}

// Run generates a report for the current instant
func (s *ReportService) Run(ctx context.Context) (*domain.RunReport, error) {
	return s.RunAt(ctx, time.Now())
}

// RunAt generates a report using ref as the reference instant for window
// calculation. All entities are created fresh from freshly fetched data;
// nothing is cached across runs.
func (s *ReportService) RunAt(ctx context.Context, ref time.Time) (*domain.RunReport, error) {
	names := s.cfg.GroupNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("no host groups configured")
	}

	loc, err := s.cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve timezone: %w", err)
	}

	groups, err := s.source.FetchGroups(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("fetch host groups: %w", err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoGroups, names)
	}

	windows := domain.ComputeWindows(ref, loc)
	for _, kind := range domain.WindowKinds() {
		if w := windows.Get(kind); !w.IsValid() {
			return nil, fmt.Errorf("%w: %s %s", domain.ErrWindowInvalid, kind, w)
		}
	}
	period := s.cfg.Period()

	report := &domain.RunReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		Period:      period,
		Windows:     windows,
	}

	report.Warnings = append(report.Warnings, missingGroupWarnings(names, groups)...)

	// Resolve each group's policy exactly once and list its eligible hosts
	// up front, so the pool works over a fixed job set
	states := make([]*groupState, 0, len(groups))
	var jobs []hostJob
	for _, group := range groups {
		policy := s.cfg.Resolve(group.Name)

		hosts, err := s.source.FetchHostsInGroup(ctx, group.ID)
		if err != nil {
			warning := fmt.Sprintf("group %q skipped: %v", group.Name, err)
			logrus.WithField("group", group.Name).WithError(err).Warn("Skipping group, host list unavailable")
			report.Warnings = append(report.Warnings, warning)
			continue
		}

		state := &groupState{group: group, policy: policy}
		for _, host := range hosts {
			if policy.Exclusions.Excludes(host) {
				logrus.WithFields(logrus.Fields{
					"group": group.Name,
					"host":  host.DisplayName,
				}).Debug("Skipping excluded host")
				continue
			}
			jobs = append(jobs, hostJob{
				groupIdx: len(states),
				hostIdx:  len(state.reports),
				host:     host,
				policy:   policy,
			})
			state.reports = append(state.reports, nil)
		}
		states = append(states, state)

		logrus.WithFields(logrus.Fields{
			"group":      group.Name,
			"hosts":      len(state.reports),
			"sla_target": policy.SLATarget,
		}).Info("Processing group")
	}

	if err := s.evaluateAll(ctx, jobs, states, windows, period); err != nil {
		return nil, err
	}

	for _, state := range states {
		var hosts []domain.HostReport
		for _, hostReport := range state.reports {
			if hostReport != nil {
				hosts = append(hosts, *hostReport)
			}
		}
		summary := domain.AggregateGroup(
			state.group.Name, hosts, state.skipped,
			period, state.policy.SLATarget, state.policy.WarnBand,
		)
		report.Groups = append(report.Groups, domain.GroupReport{Summary: summary, Hosts: hosts})
		report.TotalHosts += len(hosts)

		for _, skipped := range state.skipped {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("host %q in group %q skipped: fetch failed", skipped, state.group.Name))
		}
	}

	return report, nil
}

// evaluateAll runs the fetch pool and distributes results into the group
// states. Aggregation happens only after every host of the run completed,
// which is the single ordering dependency of the pipeline.
func (s *ReportService) evaluateAll(ctx context.Context, jobs []hostJob, states []*groupState, windows domain.ReportWindows, period domain.WindowKind) error {
	if len(jobs) == 0 {
		return ctx.Err()
	}

	jobCh := make(chan hostJob)
	resultCh := make(chan hostResult)

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				if ctx.Err() != nil {
					continue
				}
				report, err := s.evaluateHost(ctx, job.host, windows, period, job.policy)
				resultCh <- hostResult{job: job, report: report, err: err}
			}
		}()
	}

	go func() {
		for _, job := range jobs {
			jobCh <- job
		}
		close(jobCh)
		wg.Wait()
		close(resultCh)
	}()

	completed := 0
	for result := range resultCh {
		state := states[result.job.groupIdx]
		if result.err != nil {
			if ctx.Err() != nil {
				continue
			}
			// Failure isolation: one unreachable host must not sink a
			// multi-hundred-host report
			logrus.WithFields(logrus.Fields{
				"group": state.group.Name,
				"host":  result.job.host.DisplayName,
			}).WithError(result.err).Warn("Host evaluation failed, excluding from group")
			state.skipped = append(state.skipped, result.job.host.DisplayName)
		} else {
			hostReport := result.report
			state.reports[result.job.hostIdx] = &hostReport
		}

		completed++
		if s.onProgress != nil {
			s.onProgress(completed, len(jobs))
		}
	}

	// An aborted run produces no report at all rather than partial group
	// summaries
	return ctx.Err()
}

// evaluateHost computes a host's availability for all three windows. Each
// window needs the in-window incidents, a bounded lookback for incidents
// already in progress at window start, and one batched recovery-time fetch.
func (s *ReportService) evaluateHost(ctx context.Context, host domain.Host, windows domain.ReportWindows, period domain.WindowKind, policy config.GroupPolicy) (domain.HostReport, error) {
	availability := make(map[domain.WindowKind]domain.HostAvailability, 3)

	for _, kind := range domain.WindowKinds() {
		w := windows.Get(kind)

		incidents, err := s.source.FetchIncidents(ctx, host.ID, w.Start, w.End)
		if err != nil {
			return domain.HostReport{}, fmt.Errorf("fetch incidents for host %s: %w", host.ID, err)
		}

		before, err := s.source.FetchIncidentsBefore(ctx, host.ID, w.Start.Add(-time.Second), s.cfg.LookbackLimit)
		if err != nil {
			return domain.HostReport{}, fmt.Errorf("fetch prior incidents for host %s: %w", host.ID, err)
		}
		incidents = append(incidents, before...)

		recoveries := map[string]time.Time{}
		if ids := domain.CollectRecoveryIDs(incidents); len(ids) > 0 {
			recoveries, err = s.source.FetchRecoveryTimes(ctx, ids)
			if err != nil {
				return domain.HostReport{}, fmt.Errorf("fetch recovery times for host %s: %w", host.ID, err)
			}
		}

		downtime, missing := domain.DowntimeWithin(w, incidents, recoveries, s.cfg.IncidentSignature)
		if missing > 0 {
			// Data inconsistency, not an error: the incidents count as
			// still open
			logrus.WithFields(logrus.Fields{
				"host":    host.DisplayName,
				"window":  kind.String(),
				"missing": missing,
			}).Warn("Recovery events missing from batched lookup, treating incidents as open")
		}

		availability[kind] = domain.EvaluateHost(host.ID, w, downtime)
	}

	return domain.NewHostReport(host, availability, period, policy.SLATarget, policy.WarnBand), nil
}

func missingGroupWarnings(requested []string, found []domain.HostGroup) []string {
	foundNames := make(map[string]bool, len(found))
	for _, group := range found {
		foundNames[group.Name] = true
	}

	var warnings []string
	for _, name := range requested {
		if !foundNames[name] {
			logrus.WithField("group", name).Warn("Configured host group not found upstream")
			warnings = append(warnings, fmt.Sprintf("group %q not found upstream", name))
		}
	}
	return warnings
}
