package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent clausehound configuration stored as
// config.toml in the .clausehound/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version   int             `toml:"version"`
	Index     IndexConfig     `toml:"index"`
	Embedding EmbeddingConfig `toml:"embedding"`
	API       APIConfig       `toml:"api"`
	Client    ClientConfig    `toml:"client"`
	Ask       AskConfig       `toml:"ask"`
	Eval      EvalConfig      `toml:"eval"`
}

// IndexConfig holds vector index settings shared by build, ask and serve.
type IndexConfig struct {
	Engine string `toml:"engine,omitempty"`
	Path   string `toml:"path,omitempty"`

	// FallbackSparse makes build fall back to the sparse engine when the
	// dense embedding backend is unreachable.
	FallbackSparse bool `toml:"fallback_sparse,omitempty"`
}

// EmbeddingConfig holds embedding provider settings for the dense engine.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that talk to a running API
// server. Values are full URLs (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// AskConfig holds question-pipeline settings.
type AskConfig struct {
	K      int     `toml:"k,omitempty"`
	Lambda float64 `toml:"lambda,omitempty"`
	Mode   string  `toml:"mode,omitempty"`
}

// EvalConfig holds benchmark runner settings.
type EvalConfig struct {
	Workers int `toml:"workers,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"index.engine": {
		get: func(c *Config) string { return c.Index.Engine },
		set: func(c *Config, v string) error { c.Index.Engine = v; return nil },
	},
	"index.path": {
		get: func(c *Config) string { return c.Index.Path },
		set: func(c *Config, v string) error { c.Index.Path = v; return nil },
	},
	"index.fallback_sparse": {
		get: func(c *Config) string { return strconv.FormatBool(c.Index.FallbackSparse) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for index.fallback_sparse: %w", err)
			}
			c.Index.FallbackSparse = b
			return nil
		},
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.dimensions": {
		get: func(c *Config) string {
			if c.Embedding.Dimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Embedding.Dimensions), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.dimensions: %w", err)
			}
			c.Embedding.Dimensions = uint(n)
			return nil
		},
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"ask.k": {
		get: func(c *Config) string {
			if c.Ask.K == 0 {
				return ""
			}
			return strconv.Itoa(c.Ask.K)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid value for ask.k: %q", v)
			}
			c.Ask.K = n
			return nil
		},
	},
	"ask.lambda": {
		get: func(c *Config) string {
			if c.Ask.Lambda == 0 {
				return ""
			}
			return strconv.FormatFloat(c.Ask.Lambda, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid value for ask.lambda: %q", v)
			}
			c.Ask.Lambda = f
			return nil
		},
	},
	"ask.mode": {
		get: func(c *Config) string { return c.Ask.Mode },
		set: func(c *Config, v string) error {
			if v != "extractive" && v != "generative" {
				return fmt.Errorf("invalid value for ask.mode: %q (extractive or generative)", v)
			}
			c.Ask.Mode = v
			return nil
		},
	},
	"eval.workers": {
		get: func(c *Config) string {
			if c.Eval.Workers == 0 {
				return ""
			}
			return strconv.Itoa(c.Eval.Workers)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid value for eval.workers: %q", v)
			}
			c.Eval.Workers = n
			return nil
		},
	},
}
