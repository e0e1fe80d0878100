package project

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// DefaultConfigFile is the project file name looked up in the working
// directory.
const DefaultConfigFile = ".langpack.yaml"

// MissingPolicy decides what a build does about untranslated keys.
type MissingPolicy string

const (
	// MissingWarn logs each miss and falls back to the source string.
	MissingWarn MissingPolicy = "warn"
	// MissingError fails the build, listing every miss.
	MissingError MissingPolicy = "error"
	// MissingIgnore silently falls back to the source string.
	MissingIgnore MissingPolicy = "ignore"
)

// Config is the parsed project file.
type Config struct {
	// Source is the language the entry sources are written in.
	Source string `yaml:"source"`
	// Languages restricts the build to these targets. Empty means every
	// language a catalog exists for.
	Languages []string `yaml:"languages"`
	// Catalogs are glob patterns locating catalog files.
	Catalogs StringList `yaml:"catalogs"`
	// Entries are glob patterns locating the assets to build.
	Entries StringList `yaml:"entries"`
	// Output is the build directory.
	Output string `yaml:"output"`
	// Filename is the output name template. Tokens: [name], [language],
	// [ext], [contenthash].
	Filename  string        `yaml:"filename"`
	Markers   Markers       `yaml:"markers"`
	OnMissing MissingPolicy `yaml:"on_missing"`
	Check     CheckConfig   `yaml:"check"`

	TMS     *TMSConfig     `yaml:"tms"`
	MT      *MTConfig      `yaml:"mt"`
	Publish *PublishConfig `yaml:"publish"`
	Serve   ServeConfig    `yaml:"serve"`
}

// Markers names the translation function identifiers the scanner looks for.
type Markers struct {
	Singular StringList `yaml:"singular"`
	Plural   StringList `yaml:"plural"`
}

// CheckConfig tunes the check command.
type CheckConfig struct {
	// AllowIncomplete lists languages whose missing translations are
	// reported as warnings instead of errors.
	AllowIncomplete []string `yaml:"allow_incomplete"`
}

// TMSConfig points at a Weblate-compatible translation platform.
type TMSConfig struct {
	URL     string   `yaml:"url"`
	Project string   `yaml:"project"`
	Token   string   `yaml:"token"`
	Timeout Duration `yaml:"timeout"`
}

// MTConfig selects the machine translation provider.
type MTConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	// BatchSize caps how many source strings one request carries.
	BatchSize int `yaml:"batch_size"`
}

// PublishConfig selects where build outputs are shipped.
type PublishConfig struct {
	// Storage is "local" or "s3".
	Storage string       `yaml:"storage"`
	Prefix  string       `yaml:"prefix"`
	Local   LocalPublish `yaml:"local"`
	S3      S3Publish    `yaml:"s3"`
}

// LocalPublish configures filesystem publishing.
type LocalPublish struct {
	Dir     string `yaml:"dir"`
	BaseURL string `yaml:"base_url"`
}

// S3Publish configures S3-compatible publishing. Credentials normally come
// from LANGPACK_S3_ACCESS_KEY / LANGPACK_S3_SECRET_KEY rather than the file.
type S3Publish struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	BaseURL   string `yaml:"base_url"`
	PathStyle bool   `yaml:"path_style"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr string `yaml:"addr"`
	// Language served at the root path; defaults to the source language.
	Language string `yaml:"language"`
}

// Default returns a configuration that builds a conventional project layout
// without a project file.
func Default() Config {
	return Config{
		Source:    "en",
		Catalogs:  StringList{"languages/*.json"},
		Entries:   StringList{"src/*.js"},
		Output:    "dist",
		Filename:  "[name].[language][ext]",
		OnMissing: MissingWarn,
		Markers: Markers{
			Singular: StringList{"__"},
			Plural:   StringList{"__n"},
		},
		Serve: ServeConfig{Addr: ":8080"},
	}
}

// applyDefaults fills every zero field from Default.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Source == "" {
		c.Source = def.Source
	}
	if len(c.Catalogs) == 0 {
		c.Catalogs = def.Catalogs
	}
	if len(c.Entries) == 0 {
		c.Entries = def.Entries
	}
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.Filename == "" {
		c.Filename = def.Filename
	}
	if c.OnMissing == "" {
		c.OnMissing = def.OnMissing
	}
	if len(c.Markers.Singular) == 0 {
		c.Markers.Singular = def.Markers.Singular
	}
	if len(c.Markers.Plural) == 0 {
		c.Markers.Plural = def.Markers.Plural
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = def.Serve.Addr
	}
	if c.TMS != nil && c.TMS.Timeout == 0 {
		c.TMS.Timeout = Duration(30 * time.Second)
	}
	if c.MT != nil && c.MT.BatchSize <= 0 {
		c.MT.BatchSize = 50
	}
}

// Validate checks the configuration and normalizes language codes to their
// canonical tags.
func (c *Config) Validate() error {
	src, err := language.Parse(c.Source)
	if err != nil {
		return fmt.Errorf("%w: source language %q: %v", ErrInvalidConfig, c.Source, err)
	}
	c.Source = src.String()

	for i, lang := range c.Languages {
		tag, err := language.Parse(lang)
		if err != nil {
			return fmt.Errorf("%w: language %q: %v", ErrInvalidConfig, lang, err)
		}
		c.Languages[i] = tag.String()
	}

	switch c.OnMissing {
	case MissingWarn, MissingError, MissingIgnore:
	default:
		return fmt.Errorf("%w: on_missing %q (want warn, error or ignore)", ErrInvalidConfig, c.OnMissing)
	}

	if len(c.Entries) == 0 {
		return fmt.Errorf("%w: no entry globs", ErrInvalidConfig)
	}
	if len(c.Catalogs) == 0 {
		return fmt.Errorf("%w: no catalog globs", ErrInvalidConfig)
	}

	if err := ValidateFilename(c.Filename); err != nil {
		return err
	}

	if p := c.Publish; p != nil {
		switch p.Storage {
		case "local":
			if p.Local.Dir == "" {
				return fmt.Errorf("%w: publish.local.dir is required", ErrInvalidConfig)
			}
		case "s3":
			if p.S3.Bucket == "" {
				return fmt.Errorf("%w: publish.s3.bucket is required", ErrInvalidConfig)
			}
		default:
			return fmt.Errorf("%w: publish.storage %q (want local or s3)", ErrInvalidConfig, p.Storage)
		}
	}

	return nil
}
