// Package config loads application configuration from environment variables
// and optional dotenv files.
//
// It wraps github.com/joho/godotenv for reading .env files and
// github.com/caarlos0/env/v11 for parsing values into tagged structs.
// Dotenv files are read into memory and merged under the process environment,
// so loading never mutates os.Environ and tests can supply their own variables:
//
//	var cfg struct {
//		Lang string `env:"DEFAULT_LANG" envDefault:"en"`
//	}
//	err := config.Load(&cfg,
//		config.WithPrefix("SIEVE_"),
//		config.WithEnvironment(map[string]string{"SIEVE_DEFAULT_LANG": "de"}),
//	)
//
// Errors wrap ErrParsingConfig, ErrLoadingEnvFile or ErrNilPointer.
package config
