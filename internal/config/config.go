package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	Inputs       int `yaml:"inputs"`
	HiddenLayers int `yaml:"hidden_layers"`
	HiddenWidth  int `yaml:"hidden_width"`
	Outputs      int `yaml:"outputs"`

	LearnRate float64 `yaml:"learn_rate"`
	BatchSize int     `yaml:"batch_size"`
	Epochs    int     `yaml:"epochs"`
	Seed      int64   `yaml:"seed"`
	LogEvery  int     `yaml:"log_every"`

	TrainPath string `yaml:"train_path"`
	TestPath  string `yaml:"test_path"`
	LoadPath  string `yaml:"load_path"`
	SavePath  string `yaml:"save_path"`
}

// Overrides captures CLI supplied values. Zero values, negative
// HiddenLayers and a nil Seed leave the config untouched.
type Overrides struct {
	Inputs       int
	HiddenLayers int
	HiddenWidth  int
	Outputs      int
	LearnRate    float64
	BatchSize    int
	Epochs       int
	Seed         *int64
	LogEvery     int
	TrainPath    string
	TestPath     string
	LoadPath     string
	SavePath     string
}

// Default returns the MNIST configuration: 784 inputs, one hidden layer of
// 15 units and 10 outputs, trained for 30 epochs of batch 10 at rate 3.
func Default() *Config {
	return &Config{
		Inputs:       784,
		HiddenLayers: 1,
		HiddenWidth:  15,
		Outputs:      10,
		LearnRate:    3.0,
		BatchSize:    10,
		Epochs:       30,
		Seed:         42,
		LogEvery:     1,
	}
}

// Load reads a Config from YAML. Keys missing from the file keep their
// Default values. Callers validate after applying overrides.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	cfg, err := parseYAML(f)
	if err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

// ApplyOverrides updates cfg using any set override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Inputs > 0 {
		c.Inputs = o.Inputs
	}
	if o.HiddenLayers >= 0 {
		c.HiddenLayers = o.HiddenLayers
	}
	if o.HiddenWidth > 0 {
		c.HiddenWidth = o.HiddenWidth
	}
	if o.Outputs > 0 {
		c.Outputs = o.Outputs
	}
	if o.LearnRate > 0 {
		c.LearnRate = o.LearnRate
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
	if o.TrainPath != "" {
		c.TrainPath = o.TrainPath
	}
	if o.TestPath != "" {
		c.TestPath = o.TestPath
	}
	if o.LoadPath != "" {
		c.LoadPath = o.LoadPath
	}
	if o.SavePath != "" {
		c.SavePath = o.SavePath
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Inputs <= 0 {
		return errors.Errorf("inputs must be > 0 (got %d)", c.Inputs)
	}
	if c.Outputs <= 0 {
		return errors.Errorf("outputs must be > 0 (got %d)", c.Outputs)
	}
	if c.HiddenLayers < 0 {
		return errors.Errorf("hidden_layers must be >= 0 (got %d)", c.HiddenLayers)
	}
	if c.HiddenLayers > 0 && c.HiddenWidth <= 0 {
		return errors.Errorf("hidden_width must be > 0 (got %d)", c.HiddenWidth)
	}
	if c.TrainPath != "" {
		if c.Epochs <= 0 {
			return errors.Errorf("epochs must be > 0 (got %d)", c.Epochs)
		}
		if c.BatchSize <= 0 {
			return errors.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
		}
		if !(c.LearnRate > 0) {
			return errors.Errorf("learn_rate must be > 0 (got %g)", c.LearnRate)
		}
	}
	if c.TrainPath == "" && c.TestPath == "" {
		return errors.New("at least one of train_path or test_path must be set")
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 1
	}
	return nil
}

func parseYAML(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}
