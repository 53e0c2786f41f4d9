package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when no files are given. A missing default file is not an error.
const DefaultEnvFile = ".env"

type options struct {
	files       []string
	prefix      string
	environment map[string]string
}

// Option configures Load.
type Option func(*options)

// WithEnvFiles reads the given dotenv files instead of the default one.
// Earlier files win over later ones; every listed file must exist.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.files = files }
}

// WithPrefix prepends prefix to every variable name, e.g. "SIEVE_".
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvironment replaces the process environment as the source of values.
func WithEnvironment(vars map[string]string) Option {
	return func(o *options) { o.environment = vars }
}

// Load parses environment variables into v using `env` struct tags.
// Values from the environment take precedence over dotenv files, which never
// modify the process environment.
//
//	type Config struct {
//		FormsDir string `env:"FORMS_DIR" envDefault:"./forms"`
//		MaxDepth int    `env:"MAX_DEPTH" envDefault:"32"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("SIEVE_")); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	vars, err := readEnvFiles(o.files)
	if err != nil {
		return err
	}
	base := o.environment
	if base == nil {
		base = processEnvironment()
	}
	for k, val := range base {
		vars[k] = val
	}

	if err := env.ParseWithOptions(v, env.Options{
		Environment: vars,
		Prefix:      o.prefix,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func readEnvFiles(files []string) (map[string]string, error) {
	out := make(map[string]string)
	if len(files) == 0 {
		vars, err := godotenv.Read(DefaultEnvFile)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return out, nil
			}
			return nil, errors.Join(ErrLoadingEnvFile, err)
		}
		return vars, nil
	}
	// Reverse order so that the first file wins.
	for i := len(files) - 1; i >= 0; i-- {
		vars, err := godotenv.Read(files[i])
		if err != nil {
			return nil, errors.Join(ErrLoadingEnvFile, fmt.Errorf("%s: %w", files[i], err))
		}
		for k, val := range vars {
			out[k] = val
		}
	}
	return out, nil
}

func processEnvironment() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, val, ok := strings.Cut(kv, "="); ok {
			out[k] = val
		}
	}
	return out
}
