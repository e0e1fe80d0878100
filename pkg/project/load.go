package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/langpack/pkg/config"
)

// Load reads a project file, applies defaults and validates the result.
// Unknown fields are rejected so typos surface instead of silently falling
// back to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// envOverrides are the LANGPACK_* variables that win over file values.
// Secrets belong here rather than in a committed project file.
type envOverrides struct {
	Source    string `env:"LANGPACK_SOURCE"`
	Output    string `env:"LANGPACK_OUTPUT"`
	OnMissing string `env:"LANGPACK_ON_MISSING"`

	TMSURL     string `env:"LANGPACK_TMS_URL"`
	TMSProject string `env:"LANGPACK_TMS_PROJECT"`
	TMSToken   string `env:"LANGPACK_TMS_TOKEN"`

	MTProvider string `env:"LANGPACK_MT_PROVIDER"`
	MTModel    string `env:"LANGPACK_MT_MODEL"`
	MTAPIKey   string `env:"LANGPACK_MT_API_KEY"`

	S3Bucket    string `env:"LANGPACK_S3_BUCKET"`
	S3Region    string `env:"LANGPACK_S3_REGION"`
	S3Endpoint  string `env:"LANGPACK_S3_ENDPOINT"`
	S3AccessKey string `env:"LANGPACK_S3_ACCESS_KEY"`
	S3SecretKey string `env:"LANGPACK_S3_SECRET_KEY"`

	ServeAddr string `env:"LANGPACK_SERVE_ADDR"`
}

// ApplyEnv overlays LANGPACK_* environment variables onto the configuration.
// TMS and MT sections spring into existence when their variables are set, so
// pull and translate work without touching the project file. The result is
// re-validated.
func ApplyEnv(cfg *Config) error {
	var env envOverrides
	if err := config.Load(&env); err != nil {
		return err
	}

	if env.Source != "" {
		cfg.Source = env.Source
	}
	if env.Output != "" {
		cfg.Output = env.Output
	}
	if env.OnMissing != "" {
		cfg.OnMissing = MissingPolicy(env.OnMissing)
	}

	if env.TMSURL != "" || env.TMSProject != "" || env.TMSToken != "" {
		if cfg.TMS == nil {
			cfg.TMS = &TMSConfig{}
		}
		if env.TMSURL != "" {
			cfg.TMS.URL = env.TMSURL
		}
		if env.TMSProject != "" {
			cfg.TMS.Project = env.TMSProject
		}
		if env.TMSToken != "" {
			cfg.TMS.Token = env.TMSToken
		}
	}

	if env.MTProvider != "" || env.MTModel != "" || env.MTAPIKey != "" {
		if cfg.MT == nil {
			cfg.MT = &MTConfig{}
		}
		if env.MTProvider != "" {
			cfg.MT.Provider = env.MTProvider
		}
		if env.MTModel != "" {
			cfg.MT.Model = env.MTModel
		}
		if env.MTAPIKey != "" {
			cfg.MT.APIKey = env.MTAPIKey
		}
	}

	if cfg.Publish != nil {
		if env.S3Bucket != "" {
			cfg.Publish.S3.Bucket = env.S3Bucket
		}
		if env.S3Region != "" {
			cfg.Publish.S3.Region = env.S3Region
		}
		if env.S3Endpoint != "" {
			cfg.Publish.S3.Endpoint = env.S3Endpoint
		}
		if env.S3AccessKey != "" {
			cfg.Publish.S3.AccessKey = env.S3AccessKey
		}
		if env.S3SecretKey != "" {
			cfg.Publish.S3.SecretKey = env.S3SecretKey
		}
	}

	if env.ServeAddr != "" {
		cfg.Serve.Addr = env.ServeAddr
	}

	cfg.applyDefaults()
	return cfg.Validate()
}

// Scaffold is the project file written by langpack init. Every value shows
// its default.
func Scaffold() []byte {
	return []byte(`# langpack project configuration.
# Every value below shows its default; delete what you do not change.

source: en
catalogs: languages/*.json
entries:
  - src/*.js
output: dist
filename: "[name].[language][ext]"

markers:
  singular: ["__"]
  plural: ["__n"]

# What a build does about untranslated keys: warn | error | ignore.
on_missing: warn

serve:
  addr: ":8080"

# Optional integrations. Secrets come from LANGPACK_* environment
# variables, see the README.
#
# tms:
#   url: https://weblate.example.com
#   project: my-app
#
# mt:
#   provider: openai
#
# publish:
#   storage: s3
#   s3:
#     bucket: my-assets
#     region: us-east-1
`)
}
