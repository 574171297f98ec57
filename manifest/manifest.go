// Package manifest records what a subsampling run produced.
//
// A Manifest captures everything needed to reproduce or compare a run: the
// seed, partition spec, draw strategy, registry digest and per-table outcomes.
// It is written as YAML next to the outputs and can be published to a NATS
// JetStream KV bucket so downstream jobs can discover the latest run.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/subsample/types"
)

// DefaultFileName is the manifest file written into the output directory.
const DefaultFileName = "_manifest.yaml"

// Primary summarizes the primary-table scan that built the registry.
type Primary struct {
	Table       string `yaml:"table" json:"table"`
	RowsScanned int64  `yaml:"rowsScanned" json:"rowsScanned"`
	Qualifying  int64  `yaml:"qualifying" json:"qualifying"`
	Unsampled   int64  `yaml:"unsampled" json:"unsampled"`
}

// Manifest is the record of one run.
type Manifest struct {
	RunID       string               `yaml:"runId" json:"runId"`
	CreatedAt   time.Time            `yaml:"createdAt" json:"createdAt"`
	Seed        int64                `yaml:"seed" json:"seed"`
	Fractions   []float64            `yaml:"fractions" json:"fractions"`
	Thresholds  []float64            `yaml:"thresholds" json:"thresholds"`
	Strategy    string               `yaml:"strategy" json:"strategy"`
	Compression string               `yaml:"compression" json:"compression"`
	Digest      string               `yaml:"digest" json:"digest"`
	Sizes       []int                `yaml:"sizes" json:"sizes"`
	Primary     Primary              `yaml:"primary" json:"primary"`
	Tables      []types.TableSummary `yaml:"tables" json:"tables"`
	Warnings    []string             `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// New creates a manifest with a fresh random run ID.
func New() *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

// FormatDigest renders a registry digest as 16 hex digits.
func FormatDigest(d uint64) string {
	return fmt.Sprintf("%016x", d)
}

// ParseDigest parses a digest produced by FormatDigest.
func ParseDigest(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}

// Validate checks that the manifest is internally consistent.
func (m *Manifest) Validate() error {
	if _, err := uuid.Parse(m.RunID); err != nil {
		return fmt.Errorf("invalid run id %q: %w", m.RunID, err)
	}
	if len(m.Fractions) == 0 {
		return errors.New("fractions are required")
	}
	if len(m.Sizes) != len(m.Fractions) {
		return fmt.Errorf("sizes has %d entries, want %d", len(m.Sizes), len(m.Fractions))
	}
	if _, err := ParseDigest(m.Digest); err != nil {
		return fmt.Errorf("invalid digest %q: %w", m.Digest, err)
	}
	for _, t := range m.Tables {
		if !t.Skipped && len(t.Outputs) != len(m.Fractions) {
			return fmt.Errorf("table %s has %d outputs, want %d", t.Table, len(t.Outputs), len(m.Fractions))
		}
	}

	return nil
}

// Table returns the summary of the named table.
func (m *Manifest) Table(name string) (types.TableSummary, bool) {
	for _, t := range m.Tables {
		if t.Table == name {
			return t, true
		}
	}

	return types.TableSummary{}, false
}

// Write stores the manifest as YAML at path.
//
// The file is written to a temporary name in the same directory and renamed
// into place, so readers never observe a partial manifest.
func Write(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*")
	if err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Read loads a manifest written by Write.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	return &m, nil
}
