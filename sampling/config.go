package sampling

import (
	"errors"

	"github.com/arloliu/subsample/internal/logging"
	"github.com/arloliu/subsample/internal/metrics"
	"github.com/arloliu/subsample/strategy"
	"github.com/arloliu/subsample/types"
)

// Default primary-table column names.
const (
	DefaultTable      = "papers"
	DefaultIDColumn   = "paper_id"
	DefaultFlagColumn = "has_mentions"
)

// Config holds assigner configuration.
//
// Fractions is required. Optional fields are set to defaults if zero-valued.
type Config struct {
	// Required configuration
	Fractions []float64 // Partition spec, in partition order
	Seed      int64     // Draw seed; zero is a valid seed

	// Optional configuration (with defaults)
	Strategy   types.DrawStrategy // Draw strategy (default: MT19937)
	Table      string             // Table name used in errors and metrics (default: "papers")
	IDColumn   string             // Identifier column (default: "paper_id")
	FlagColumn string             // Qualifier flag column (default: "has_mentions")

	// Optional dependencies
	Metrics types.AssignerMetrics // Metrics collector (default: no-op)
	Logger  types.Logger          // Logger (default: no-op)
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if len(c.Fractions) == 0 {
		return errors.New("the Fractions are required")
	}
	_, err := Thresholds(c.Fractions)

	return err
}

// SetDefaults applies default values for optional fields.
func (c *Config) SetDefaults() {
	if c.Strategy == nil {
		c.Strategy = strategy.NewMersenneTwister()
	}
	if c.Table == "" {
		c.Table = DefaultTable
	}
	if c.IDColumn == "" {
		c.IDColumn = DefaultIDColumn
	}
	if c.FlagColumn == "" {
		c.FlagColumn = DefaultFlagColumn
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewNop()
	}
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
}
