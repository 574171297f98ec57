package subsample

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/subsample/manifest"
	"github.com/arloliu/subsample/sampling"
	"github.com/arloliu/subsample/source"
	"github.com/arloliu/subsample/strategy"
	"github.com/arloliu/subsample/table"
)

// TablesConfig names the primary table and its dependents.
type TablesConfig struct {
	// Primary is scanned once to build the partition registry. Its FlagColumn
	// marks the entities eligible for sampling.
	Primary TableSpec `yaml:"primary"`

	// Dependents reference the primary identifier and are filtered by the registry.
	// A missing dependent input is a warning, not an error.
	Dependents []TableSpec `yaml:"dependents"`
}

// ManifestConfig controls the run manifest written next to the outputs.
type ManifestConfig struct {
	// Enabled writes <OutputDirectory>/<FileName> after a successful run.
	Enabled bool `yaml:"enabled"`

	// FileName is the manifest file name.
	FileName string `yaml:"fileName"`
}

// NATSConfig controls manifest publication to a JetStream KV bucket.
type NATSConfig struct {
	// URL of the NATS server. Empty disables publication.
	URL string `yaml:"url"`

	// Bucket is the KV bucket holding run manifests.
	Bucket string `yaml:"bucket"`

	// Timeout bounds connecting and publishing.
	Timeout time.Duration `yaml:"timeout"`

	// HeartbeatInterval is how often run progress is refreshed in the bucket.
	HeartbeatInterval time.Duration `yaml:"heartbeatInterval"`
}

// MetricsConfig controls pushing run metrics at exit.
type MetricsConfig struct {
	// PushgatewayURL is the Prometheus Pushgateway address. Empty disables pushing.
	PushgatewayURL string `yaml:"pushgatewayUrl"`

	// Job is the Pushgateway job label.
	Job string `yaml:"job"`
}

// Config is the configuration for a Runner.
//
// Zero-valued fields are filled by SetDefaults; the defaults reproduce the
// classic papers/mentions/purpose_assessments subsample at 1% and 5%.
type Config struct {
	// Seed fixes the draw sequence. Equal seeds over equal inputs give equal partitions.
	Seed int64 `yaml:"seed"`

	// PartitionFractions is the partition spec. Each fraction is in (0, 1] and
	// the sum must not exceed 1. Partition i holds about fraction[i] of the qualifiers.
	PartitionFractions []float64 `yaml:"partitionFractions"`

	// BatchSize is the number of rows read per batch.
	BatchSize int `yaml:"batchSize"`

	// InputDirectory holds <table><Extension> input files.
	InputDirectory string `yaml:"inputDirectory"`

	// OutputDirectory receives <table>_<i><Extension> outputs. Created if missing.
	OutputDirectory string `yaml:"outputDirectory"`

	// Extension is the table file extension.
	Extension string `yaml:"extension"`

	// Strategy selects the draw strategy: mt19937, pcg or hash.
	Strategy string `yaml:"strategy"`

	// Concurrency is the number of dependent tables partitioned at once.
	Concurrency int `yaml:"concurrency"`

	// Compression is the output codec: gzip, snappy, zstd or none.
	Compression string `yaml:"compression"`

	// CompressionLevel is the gzip level (1-9).
	CompressionLevel int `yaml:"compressionLevel"`

	// Tables names the primary and dependent tables.
	Tables TablesConfig `yaml:"tables"`

	// Manifest controls the run manifest.
	Manifest ManifestConfig `yaml:"manifest"`

	// NATS controls manifest publication.
	NATS NATSConfig `yaml:"nats"`

	// Metrics controls Pushgateway export.
	Metrics MetricsConfig `yaml:"metrics"`
}

// DefaultConfig returns a Config with the default tables and sampling settings.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Seed:               42,
		PartitionFractions: []float64{0.01, 0.05},
		BatchSize:          table.DefaultBatchSize,
		InputDirectory:     ".",
		OutputDirectory:    "subsample",
		Extension:          source.DefaultExtension,
		Strategy:           strategy.NameMersenneTwister,
		Concurrency:        1,
		Compression:        table.CompressionGzip,
		CompressionLevel:   9,
		Tables: TablesConfig{
			Primary: TableSpec{
				Name:       sampling.DefaultTable,
				IDColumn:   sampling.DefaultIDColumn,
				FlagColumn: sampling.DefaultFlagColumn,
			},
			Dependents: []TableSpec{
				{Name: "mentions", IDColumn: sampling.DefaultIDColumn},
				{Name: "purpose_assessments", IDColumn: sampling.DefaultIDColumn},
			},
		},
		Manifest: ManifestConfig{
			Enabled:  true,
			FileName: manifest.DefaultFileName,
		},
		NATS: NATSConfig{
			Bucket:            manifest.DefaultBucket,
			Timeout:           10 * time.Second,
			HeartbeatInterval: 5 * time.Second,
		},
		Metrics: MetricsConfig{
			Job: "subsample",
		},
	}
}

// SetDefaults fills in missing configuration values with defaults.
//
// Seed 0 is a valid seed and is kept. A nil Dependents list gets the default
// dependents; an explicitly empty list is kept.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.PartitionFractions == nil {
		cfg.PartitionFractions = defaults.PartitionFractions
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.InputDirectory == "" {
		cfg.InputDirectory = defaults.InputDirectory
	}
	if cfg.OutputDirectory == "" {
		cfg.OutputDirectory = defaults.OutputDirectory
	}
	if cfg.Extension == "" {
		cfg.Extension = defaults.Extension
	}
	if cfg.Strategy == "" {
		cfg.Strategy = defaults.Strategy
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = defaults.Concurrency
	}
	if cfg.Compression == "" {
		cfg.Compression = defaults.Compression
	}
	if cfg.CompressionLevel == 0 && cfg.Compression == table.CompressionGzip {
		cfg.CompressionLevel = defaults.CompressionLevel
	}
	if cfg.Tables.Primary.Name == "" {
		cfg.Tables.Primary.Name = defaults.Tables.Primary.Name
	}
	if cfg.Tables.Primary.IDColumn == "" {
		cfg.Tables.Primary.IDColumn = defaults.Tables.Primary.IDColumn
	}
	if cfg.Tables.Primary.FlagColumn == "" {
		cfg.Tables.Primary.FlagColumn = defaults.Tables.Primary.FlagColumn
	}
	if cfg.Tables.Dependents == nil {
		cfg.Tables.Dependents = defaults.Tables.Dependents
	}
	for i := range cfg.Tables.Dependents {
		if cfg.Tables.Dependents[i].IDColumn == "" {
			cfg.Tables.Dependents[i].IDColumn = cfg.Tables.Primary.IDColumn
		}
	}
	if cfg.Manifest.FileName == "" {
		cfg.Manifest.FileName = defaults.Manifest.FileName
	}
	if cfg.NATS.Bucket == "" {
		cfg.NATS.Bucket = defaults.NATS.Bucket
	}
	if cfg.NATS.Timeout == 0 {
		cfg.NATS.Timeout = defaults.NATS.Timeout
	}
	if cfg.NATS.HeartbeatInterval == 0 {
		cfg.NATS.HeartbeatInterval = defaults.NATS.HeartbeatInterval
	}
	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = defaults.Metrics.Job
	}
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - PartitionFractions is a valid partition spec (see sampling.Thresholds)
//   - BatchSize > 0 and Concurrency > 0
//   - Strategy and Compression name known implementations
//   - Primary and dependent table names are non-empty and unique
//   - Input and output directories differ
//
// Returns:
//   - error: Validation error wrapping ErrInvalidConfiguration, nil if valid
func (cfg *Config) Validate() error {
	if _, err := sampling.Thresholds(cfg.PartitionFractions); err != nil {
		return err
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("%w: BatchSize must be > 0, got %d", ErrInvalidConfiguration, cfg.BatchSize)
	}
	if cfg.Concurrency <= 0 {
		return fmt.Errorf("%w: Concurrency must be > 0, got %d", ErrInvalidConfiguration, cfg.Concurrency)
	}
	if _, err := strategy.Parse(cfg.Strategy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	if _, err := table.ParseCompression(cfg.Compression, cfg.CompressionLevel); err != nil {
		return err
	}
	if sameDir(cfg.InputDirectory, cfg.OutputDirectory) {
		return fmt.Errorf("%w: OutputDirectory must differ from InputDirectory (%s)", ErrInvalidConfiguration, cfg.InputDirectory)
	}

	names := []string{cfg.Tables.Primary.Name}
	if cfg.Tables.Primary.Name == "" {
		return fmt.Errorf("%w: primary table name is required", ErrInvalidConfiguration)
	}
	for i, dep := range cfg.Tables.Dependents {
		if dep.Name == "" {
			return fmt.Errorf("%w: dependent table %d has no name", ErrInvalidConfiguration, i)
		}
		if slices.Contains(names, dep.Name) {
			return fmt.Errorf("%w: table %q listed twice", ErrInvalidConfiguration, dep.Name)
		}
		names = append(names, dep.Name)
	}

	return nil
}

// sameDir reports whether a and b name the same directory once cleaned and
// made absolute.
func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}

	return absA == absB
}

// ValidateWithWarnings logs warnings for values that are valid but unusual.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.BatchSize < 1024 {
		logger.Warn(
			"BatchSize is very small, reads will be slow",
			"batchSize", cfg.BatchSize,
			"recommended", table.DefaultBatchSize,
		)
	}

	if cfg.Concurrency > len(cfg.Tables.Dependents) && len(cfg.Tables.Dependents) > 0 {
		logger.Warn(
			"Concurrency exceeds the number of dependent tables",
			"concurrency", cfg.Concurrency,
			"dependents", len(cfg.Tables.Dependents),
		)
	}

	if len(cfg.Tables.Dependents) == 0 {
		logger.Warn("no dependent tables configured, only the primary table is partitioned")
	}

	sum := 0.0
	for _, f := range cfg.PartitionFractions {
		sum += f
	}
	if sum > 0.5 {
		logger.Warn(
			"partitions cover more than half of the qualifying entities",
			"fractionSum", sum,
		)
	}
}

// TestConfig returns a configuration suited to small test fixtures.
//
// Returns:
//   - Config: Configuration with small batches and manifest publication disabled
//
// Example:
//
//	cfg := subsample.TestConfig()
//	cfg.InputDirectory = t.TempDir()
//	cfg.OutputDirectory = t.TempDir()
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.BatchSize = 64
	cfg.CompressionLevel = 1

	return cfg
}

// LoadConfig reads a YAML configuration file and applies defaults.
//
// The file is decoded over DefaultConfig, so keys absent from the file keep
// their default values while explicit zero values such as "seed: 0" are honored.
//
// Parameters:
//   - path: YAML file path
//
// Returns:
//   - Config: Loaded configuration with defaults applied
//   - error: Read or parse failure
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: failed to parse %s: %w", ErrInvalidConfiguration, path, err)
	}
	SetDefaults(&cfg)

	return cfg, nil
}
