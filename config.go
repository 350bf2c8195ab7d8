package mrl

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when no config file can be located by FindConfig.
var ErrConfigNotFound = errors.New("no .nlmaps.yaml found")

// Config represents the .nlmaps.yaml configuration file. Connection details
// for the external CFG validator are passed this way rather than through
// process-global state, so every transformation stays a pure function of
// its explicit inputs.
type Config struct {
	// Dialect names a Dialect (e.g. "nlmaps", "generic"); LoadConfigFile
	// sets it to "nlmaps" when empty. The CLI subcommands do not read it:
	// they take the dialect from their --dialect flag.
	Dialect string `yaml:"dialect"`

	// GrammarPath is the location of the external CFG grammar used by the
	// CFG validator adapter.
	GrammarPath string `yaml:"grammarPath,omitempty"`

	// DecoderPath is the directory holding the external decoder; the CFG
	// validator adapter runs decoder/cdec under it. Empty disables
	// validation.
	DecoderPath string `yaml:"decoderPath,omitempty"`

	// DatabasePath is reserved for a future OSM data source lookup; no
	// operation in this module currently reads it (query execution against
	// a data source is explicitly out of scope).
	DatabasePath string `yaml:"databasePath,omitempty"`

	// Evaluate holds evaluate settings. The evaluate command does not read
	// them: its --metric and --assert flags decide what it does.
	Evaluate EvaluateConfig `yaml:"evaluate,omitempty"`
}

// EvaluateConfig holds settings for scoring a hypothesis corpus.
type EvaluateConfig struct {
	// Metric names the scoring method: "f1" (default) or "accuracy".
	Metric string `yaml:"metric,omitempty"`

	// Assert is an expr-lang expression over the summary metrics.
	Assert string `yaml:"assert,omitempty"`
}

// DefaultConfigNames are the filenames searched for by FindConfig, in order.
var DefaultConfigNames = []string{".nlmaps.yaml", ".nlmaps.yml", "nlmaps.yaml", "nlmaps.yml"}

// LoadConfig finds and loads the nearest config file walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for d := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(d, name)

			_, statErr := os.Stat(path)
			if statErr == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(d)
		if parent == d {
			return "", ErrConfigNotFound
		}

		d = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Dialect == "" {
		cfg.Dialect = "nlmaps"
	}

	if cfg.Evaluate.Metric == "" {
		cfg.Evaluate.Metric = "f1"
	}

	return &cfg, nil
}
