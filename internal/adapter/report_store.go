package adapter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "reify.dev/pkg/reify/internal/model"
)

// ReportStore persists materialization reports.
type ReportStore interface {
	SaveReports(path m.Path, reports []m.Report) error
	LoadReports(path m.Path) ([]m.Report, error)
}

// YAMLReportStore stores reports as one YAML document per file.
type YAMLReportStore struct{}

// NewYAMLReportStore constructs a YAMLReportStore.
func NewYAMLReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveReports writes reports to path, replacing any previous content.
func (s *YAMLReportStore) SaveReports(path m.Path, reports []m.Report) error {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}

	if dir := filepath.Dir(string(path)); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	if err := os.WriteFile(string(path), buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write reports %s: %w", path, err)
	}

	return nil
}

// LoadReports reads reports written by SaveReports.
func (s *YAMLReportStore) LoadReports(path m.Path) ([]m.Report, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read reports %s: %w", path, err)
	}

	var reports []m.Report
	if err := yaml.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("decode reports %s: %w", path, err)
	}

	return reports, nil
}
