package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"zabbix-sla/internal/config"
	"zabbix-sla/internal/domain"
)

const (
	ModeCombined = "combined"
	ModeSeparate = "separate"
)

// Options controls artifact placement and naming, shared by all file sinks
type Options struct {
	OutputDir        string
	FilenamePrefix   string
	Mode             string
	IncludeTimestamp bool

	// Path, when set, overrides the generated name entirely. Only honored
	// in combined mode; separate mode needs per-group names.
	Path string
}

// OptionsFromConfig maps the report configuration onto sink options
func OptionsFromConfig(cfg *config.Config) Options {
	includeTimestamp := true
	if cfg.Report.IncludeTimestamp != nil {
		includeTimestamp = *cfg.Report.IncludeTimestamp
	}
	return Options{
		OutputDir:        cfg.Report.OutputDir,
		FilenamePrefix:   cfg.Report.FilenamePrefix,
		Mode:             cfg.Report.Mode,
		IncludeTimestamp: includeTimestamp,
	}
}

// filename builds <prefix>_[<group>_]<period>[_<timestamp>].<ext>. An empty
// group is omitted; the timestamp comes from the run's generation time.
func (o Options) filename(group string, period domain.WindowKind, generatedAt time.Time, ext string) string {
	parts := []string{o.FilenamePrefix}
	if group != "" {
		parts = append(parts, sanitizeName(group))
	}
	parts = append(parts, period.String())
	if o.IncludeTimestamp {
		parts = append(parts, generatedAt.Format("20060102_150405"))
	}
	return filepath.Join(o.OutputDir, strings.Join(parts, "_")+"."+ext)
}

// target resolves the output path for one artifact, honoring an explicit
// override path in combined mode
func (o Options) target(group string, period domain.WindowKind, generatedAt time.Time, ext string) string {
	if o.Path != "" && o.Mode != ModeSeparate {
		return o.Path
	}
	return o.filename(group, period, generatedAt, ext)
}

func sanitizeName(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-")
	return replacer.Replace(name)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return nil
}
