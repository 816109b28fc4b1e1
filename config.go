package rangecov

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zyedidia/rangecov/engine"
)

// Config controls a coverage collection session.
type Config struct {
	// Output is the coverage file path.
	Output string `yaml:"output"`
	// Log is the diagnostic log path, or "no" to disable it.
	Log string `yaml:"log"`
	// Precision is "reduced" (per basic block) or "full" (per instruction).
	Precision string `yaml:"precision"`
	// TargetOnly discards events outside the main executable.
	TargetOnly bool `yaml:"target_only"`
	// Pretty writes the diagnostic log as console text instead of JSON.
	Pretty bool `yaml:"pretty"`

	// Record limits; 0 means unlimited. Reaching a limit behaves like the
	// allocator running out of memory.
	MaxRanges  int `yaml:"max_ranges"`
	MaxThreads int `yaml:"max_threads"`
	MaxModules int `yaml:"max_modules"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Output:     "ddph.out",
		Log:        "ddph.log",
		Precision:  "reduced",
		TargetOnly: true,
	}
}

// LoadConfig reads a YAML config file. Keys missing from the file keep their
// default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Granularity returns the capture granularity selected by Precision. Any
// value other than "reduced" selects full precision.
func (c Config) Granularity() engine.Granularity {
	if strings.EqualFold(c.Precision, "reduced") {
		return engine.Block
	}
	return engine.Instruction
}

// LogEnabled returns true if a diagnostic log file should be written.
func (c Config) LogEnabled() bool {
	return c.Log != "" && !strings.EqualFold(c.Log, "no")
}
