package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/docketlab/clausehound/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the CLAUSEHOUND_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (CLAUSEHOUND_API_LISTEN, CLAUSEHOUND_INDEX_ENGINE, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: CLAUSEHOUND_INDEX_PATH, CLAUSEHOUND_ASK_K, etc.
	v.SetEnvPrefix("CLAUSEHOUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Index
	v.SetDefault("index.engine", d.Index.Engine)
	v.SetDefault("index.path", d.Index.Path)
	v.SetDefault("index.fallback_sparse", d.Index.FallbackSparse)

	// Embedding
	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.target", d.Embedding.Target)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)

	// API
	v.SetDefault("api.listen", d.API.Listen)

	// Client
	v.SetDefault("client.api_target", d.Client.APITarget)

	// Ask
	v.SetDefault("ask.k", d.Ask.K)
	v.SetDefault("ask.lambda", d.Ask.Lambda)
	v.SetDefault("ask.mode", d.Ask.Mode)

	// Eval
	v.SetDefault("eval.workers", d.Eval.Workers)
}
