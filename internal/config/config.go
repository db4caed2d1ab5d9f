package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"zabbix-sla/internal/domain"
)

// Config is the full process configuration loaded from YAML
type Config struct {
	Zabbix   ZabbixConfig    `yaml:"zabbix"`
	Report   ReportConfig    `yaml:"report"`
	Defaults ThresholdConfig `yaml:"defaults"`

	// IncidentSignature is the case-insensitive substring an incident's
	// category must contain to count as unavailability
	IncidentSignature string `yaml:"incident_signature"`

	// LookbackLimit bounds how many incidents starting before a window are
	// scanned for ongoing downtime. An incident open longer than this horizon
	// before the window start is undercounted; that is a deliberate
	// precision/cost tradeoff, so the bound stays configurable but is never
	// silently extended to full history.
	LookbackLimit int `yaml:"lookback_limit"`

	// Timezone fixes the local-time convention for window boundaries,
	// e.g. "UTC", "Europe/Berlin", or "Local"
	Timezone string `yaml:"timezone"`

	// Workers bounds the host fetch pool
	Workers int `yaml:"workers"`

	GlobalExcludedHosts []string   `yaml:"global_excluded_hosts"`
	HostGroups          HostGroups `yaml:"host_groups"`

	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// ZabbixConfig holds connection settings for the monitoring API
type ZabbixConfig struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// ReportConfig controls output artifacts
type ReportConfig struct {
	// Mode is "combined" (one artifact for all groups) or "separate" (one
	// artifact per group)
	Mode string `yaml:"mode"`

	// Period selects the window driving device SLA and compliance counts
	Period string `yaml:"period"`

	// Format is "json" or "csv"
	Format string `yaml:"format"`

	OutputDir        string `yaml:"output_dir"`
	FilenamePrefix   string `yaml:"filename_prefix"`
	IncludeTimestamp *bool  `yaml:"include_timestamp"`
}

// ThresholdConfig holds the process-wide SLA defaults
type ThresholdConfig struct {
	SLATarget float64 `yaml:"sla_target"`
	WarnBand  float64 `yaml:"warn_band"`
}

// GroupConfig holds per-group overrides; nil fields fall back to defaults
type GroupConfig struct {
	SLATarget     *float64 `yaml:"sla_target"`
	WarnBand      *float64 `yaml:"warn_band"`
	ExcludedHosts []string `yaml:"excluded_hosts"`
}

// MetricsConfig enables pushing run metrics to a Prometheus pushgateway
type MetricsConfig struct {
	PushGateway string `yaml:"push_gateway"`
	Job         string `yaml:"job"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HostGroups maps group names to their overrides. The legacy config format
// was a plain list of names; both shapes are accepted.
type HostGroups map[string]GroupConfig

// UnmarshalYAML accepts either a mapping of name to overrides or a legacy
// sequence of names
func (h *HostGroups) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return fmt.Errorf("host_groups list: %w", err)
		}
		groups := make(HostGroups, len(names))
		for _, name := range names {
			groups[name] = GroupConfig{}
		}
		*h = groups
		return nil
	case yaml.MappingNode:
		groups := make(map[string]GroupConfig)
		if err := value.Decode(&groups); err != nil {
			return fmt.Errorf("host_groups map: %w", err)
		}
		*h = groups
		return nil
	}
	return fmt.Errorf("host_groups must be a list of names or a map of overrides")
}

// GroupPolicy is the fully-resolved, immutable effective configuration for
// one group, computed once per run
type GroupPolicy struct {
	SLATarget  float64
	WarnBand   float64
	Exclusions domain.ExclusionSet
}

// Load reads and validates the configuration file
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	setDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(cfg *Config) {
	if cfg.Zabbix.Timeout == 0 {
		cfg.Zabbix.Timeout = 60 * time.Second
	}
	if cfg.Defaults.SLATarget == 0 {
		cfg.Defaults.SLATarget = 99.9
	}
	if cfg.Defaults.WarnBand == 0 {
		cfg.Defaults.WarnBand = 5.0
	}
	if cfg.IncidentSignature == "" {
		cfg.IncidentSignature = "unavailable by icmp"
	}
	if cfg.LookbackLimit == 0 {
		cfg.LookbackLimit = 50
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if cfg.Workers == 0 {
		cfg.Workers = 8
	}
	if cfg.Report.Mode == "" {
		cfg.Report.Mode = "combined"
	}
	if cfg.Report.Period == "" {
		cfg.Report.Period = "month"
	}
	if cfg.Report.Format == "" {
		cfg.Report.Format = "json"
	}
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "."
	}
	if cfg.Report.FilenamePrefix == "" {
		cfg.Report.FilenamePrefix = "SLA_Report"
	}
	if cfg.Report.IncludeTimestamp == nil {
		yes := true
		cfg.Report.IncludeTimestamp = &yes
	}
	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = "zabbix_sla_report"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func validate(cfg *Config) error {
	if cfg.Zabbix.URL == "" {
		return fmt.Errorf("zabbix.url is required")
	}
	if cfg.Zabbix.Token == "" {
		return fmt.Errorf("zabbix.token is required")
	}
	if cfg.Defaults.SLATarget <= 0 || cfg.Defaults.SLATarget > 100 {
		return fmt.Errorf("defaults.sla_target must be in (0, 100], got %v", cfg.Defaults.SLATarget)
	}
	if cfg.Defaults.WarnBand < 0 {
		return fmt.Errorf("defaults.warn_band must not be negative, got %v", cfg.Defaults.WarnBand)
	}
	if cfg.LookbackLimit < 0 {
		return fmt.Errorf("lookback_limit must not be negative, got %d", cfg.LookbackLimit)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.Report.Mode != "combined" && cfg.Report.Mode != "separate" {
		return fmt.Errorf("report.mode must be combined or separate, got %q", cfg.Report.Mode)
	}
	if _, err := domain.NewWindowKind(cfg.Report.Period); err != nil {
		return fmt.Errorf("report.period: %w", err)
	}
	if cfg.Report.Format != "json" && cfg.Report.Format != "csv" {
		return fmt.Errorf("report.format must be json or csv, got %q", cfg.Report.Format)
	}
	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	for name, group := range cfg.HostGroups {
		if group.SLATarget != nil && (*group.SLATarget <= 0 || *group.SLATarget > 100) {
			return fmt.Errorf("host_groups[%q].sla_target must be in (0, 100], got %v", name, *group.SLATarget)
		}
		if group.WarnBand != nil && *group.WarnBand < 0 {
			return fmt.Errorf("host_groups[%q].warn_band must not be negative, got %v", name, *group.WarnBand)
		}
	}
	return nil
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Period returns the validated selected-period window kind
func (c *Config) Period() domain.WindowKind {
	kind, _ := domain.NewWindowKind(c.Report.Period)
	return kind
}

// GroupNames returns the configured group names in stable order
func (c *Config) GroupNames() []string {
	names := make([]string, 0, len(c.HostGroups))
	for name := range c.HostGroups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OverrideGroups replaces the configured host groups with the given names
// using default thresholds, mirroring the command line group override
func (c *Config) OverrideGroups(names []string) {
	groups := make(HostGroups, len(names))
	for _, name := range names {
		groups[name] = GroupConfig{}
	}
	c.HostGroups = groups
}

// Resolve computes the effective policy for a group: global defaults layered
// under group overrides, exclusions as the strict union of the global and
// group lists. Callers resolve once per group per run and reuse the result
// across all windows.
func (c *Config) Resolve(groupName string) GroupPolicy {
	policy := GroupPolicy{
		SLATarget: c.Defaults.SLATarget,
		WarnBand:  c.Defaults.WarnBand,
	}

	group := c.HostGroups[groupName]
	if group.SLATarget != nil {
		policy.SLATarget = *group.SLATarget
	}
	if group.WarnBand != nil {
		policy.WarnBand = *group.WarnBand
	}
	policy.Exclusions = domain.NewExclusionSet(c.GlobalExcludedHosts, group.ExcludedHosts)

	return policy
}
