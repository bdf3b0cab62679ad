package config

import (
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Environ returns the settings from the environment.
func Environ() (*Config, error) {
	cfg := Config{}
	err := envconfig.Process("", &cfg)
	defaults(&cfg)

	return &cfg, err
}

func defaults(c *Config) {
	if c.Host == "" {
		c.Host = ":9000"
	}
	if c.MetricsHost == "" {
		c.MetricsHost = ":9001"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Config == "" {
		c.Database.Config = "causicad.sqlite"
	}
	if c.Registry.CondaURL == "" {
		c.Registry.CondaURL = "https://conda.anaconda.org"
	}
	if c.Registry.PyPIURL == "" {
		c.Registry.PyPIURL = "https://pypi.org"
	}
}

// String returns the configuration in string format.
func (c *Config) String() string {
	out, _ := yaml.Marshal(c)
	return string(out)
}

type Config struct {
	Logging     Logging
	Host        string `envconfig:"HOST"`
	MetricsHost string `envconfig:"METRICS_HOST"`
	Database    Database
	Registry    Registry
	PolicyPath  string `envconfig:"POLICY_PATH"`
}

type Database struct {
	Driver string `envconfig:"DATABASE_DRIVER"`
	Config string `envconfig:"DATABASE_CONFIG"`
}

// Logging provides the logging configuration.
type Logging struct {
	Debug bool `envconfig:"DEBUG"`
	Trace bool `envconfig:"TRACE"`
}

type Registry struct {
	CondaURL string `envconfig:"REGISTRY_CONDA_URL"`
	PyPIURL  string `envconfig:"REGISTRY_PYPI_URL"`
	SkipGit  bool   `envconfig:"REGISTRY_SKIP_GIT"`
}
