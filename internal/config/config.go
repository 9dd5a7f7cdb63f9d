// Package config loads the ALNS parameters and server settings used by
// cmd/lrpalns (§15): a YAML file for the bulk of the record, with
// environment variables overriding secrets and connection strings —
// the same split the teacher's server.go/auth/verifier.go draw between
// file-based config and os.Getenv-sourced deployment secrets.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"lrpalns/internal/model"
	"lrpalns/internal/opt"
)

// Config is the top-level record a YAML file deserializes into.
type Config struct {
	Parameters opt.Parameters `yaml:"parameters"`
	Server     ServerConfig   `yaml:"server"`
}

// ServerConfig holds the §13 HTTP server's settings. DatabaseURL,
// RedisURL, AuthMode and AuthHMACSecret are always taken from the
// environment regardless of what the file says, since those are
// deployment secrets, not tunables.
type ServerConfig struct {
	Port           int    `yaml:"port"`
	DatabaseURL    string `yaml:"-"`
	RedisURL       string `yaml:"-"`
	AuthMode       string `yaml:"-"`
	AuthHMACSecret string `yaml:"-"`
}

// Load reads path as YAML into a Config, defaults Parameters' catalogs
// and weights when the file leaves them empty, and applies environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, model.NewConfigError("parsing %s: %v", path, err)
	}
	applyDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// Default returns a Config with a complete, validated Parameters
// record and no file on disk — used by `lrpalns solve` when no
// --config flag is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	applyEnv(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	p := &cfg.Parameters
	if p.TotalIterations == 0 {
		p.TotalIterations = 5000
	}
	if p.SegmentSize == 0 {
		p.SegmentSize = 100
	}
	if p.LocalSearchCadence == 0 {
		p.LocalSearchCadence = 50
	}
	if p.LocalSearchBudget == 0 {
		p.LocalSearchBudget = 200
	}
	if len(p.DestroyCatalog) == 0 {
		for id := range opt.DestroyRegistry {
			p.DestroyCatalog = append(p.DestroyCatalog, id)
		}
	}
	if len(p.InsertionCatalog) == 0 {
		p.InsertionCatalog = []string{"best", "greedy", "regret2", "regret3"}
	}
	if len(p.LocalSearchCatalog) == 0 {
		for id := range opt.LocalSearchRegistry {
			p.LocalSearchCatalog = append(p.LocalSearchCatalog, id)
		}
	}
	if p.SigmaBest == 0 {
		p.SigmaBest = 33
	}
	if p.SigmaImprove == 0 {
		p.SigmaImprove = 9
	}
	if p.SigmaAccept == 0 {
		p.SigmaAccept = 13
	}
	if p.Omega == 0 {
		p.Omega = 0.05
	}
	if p.Tau == 0 {
		p.Tau = 0.5
	}
	if p.OmegaFloor == 0 {
		p.OmegaFloor = 0.01
	}
	if p.TauFloor == 0 {
		p.TauFloor = 0.01
	}
	if p.Cooling == 0 {
		p.Cooling = 0.99975
	}
	if p.DestroyMinAbs == 0 {
		p.DestroyMinAbs = 5
	}
	if p.DestroyMaxAbs == 0 {
		p.DestroyMaxAbs = 30
	}
	if p.DestroyMinFrac == 0 {
		p.DestroyMinFrac = 0.1
	}
	if p.DestroyMaxFrac == 0 {
		p.DestroyMaxFrac = 0.4
	}
	if p.Reaction == 0 {
		p.Reaction = 0.1
	}
	if p.Weights == (model.Weights{}) {
		p.Weights = model.Weights{Fixed: 1, Operational: 1, Penalty: 1}
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.Server.RedisURL = os.Getenv("REDIS_URL")
	cfg.Server.AuthMode = os.Getenv("AUTH_MODE")
	cfg.Server.AuthHMACSecret = os.Getenv("AUTH_HMAC_SECRET")
	if v := os.Getenv("PORT"); v != "" {
		if n, err := parsePort(v); err == nil {
			cfg.Server.Port = n
		}
	}
}

func parsePort(s string) (int, error) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, model.NewConfigError("invalid PORT %q", s)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
