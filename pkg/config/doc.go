// Package config provides type-safe environment configuration loading with
// caching for the langpack toolchain.
//
// The package loads environment variables into typed structs using reflection
// and struct tags. Each configuration type is parsed exactly once per process
// and cached, so commands and packages can request the same configuration
// independently without re-reading the environment. A .env file in the
// working directory is honored when present.
//
// # Usage
//
// Define a configuration struct with env tags and load it:
//
//	type TMSConfig struct {
//		BaseURL string `env:"LANGPACK_TMS_URL,required"`
//		Token   string `env:"LANGPACK_TMS_TOKEN,required"`
//		Project string `env:"LANGPACK_TMS_PROJECT" envDefault:"main"`
//	}
//
//	func main() {
//		var cfg TMSConfig
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//		// Use cfg.BaseURL, cfg.Token, etc.
//	}
//
// For configuration that a command cannot run without, use MustLoad:
//
//	var cfg TMSConfig
//	config.MustLoad(&cfg) // Panics on failure
//
// # Environment Variables
//
// The package uses github.com/caarlos0/env for parsing, supporting
// standard tags:
//
//	type MTConfig struct {
//		Provider    string        `env:"LANGPACK_MT_PROVIDER" envDefault:"openai"`
//		APIKey      string        `env:"LANGPACK_MT_API_KEY,required"`
//		Timeout     time.Duration `env:"LANGPACK_MT_TIMEOUT" envDefault:"30s"`
//		Temperature float64       `env:"LANGPACK_MT_TEMPERATURE" envDefault:"0.2"`
//	}
//
// # Caching Behavior
//
// Configurations are cached by type after the first successful load. Distinct
// struct types are cached independently. Tests that need a clean slate call
// Reset between cases.
package config
