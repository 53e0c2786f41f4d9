package main

import (
	"context"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sieve/pkg/config"
	"github.com/dmitrymomot/sieve/pkg/form"
	"github.com/dmitrymomot/sieve/pkg/httpserver"
	"github.com/dmitrymomot/sieve/pkg/i18n"
	"github.com/dmitrymomot/sieve/pkg/logger"
	"github.com/dmitrymomot/sieve/pkg/ratelimiter"
	"github.com/dmitrymomot/sieve/pkg/redis"
	"github.com/dmitrymomot/sieve/pkg/requestid"
	"github.com/dmitrymomot/sieve/pkg/validator"
)

type appConfig struct {
	FormsDir        string `env:"SIEVE_FORMS_DIR"`
	FormsFile       string `env:"SIEVE_FORMS_FILE"`
	TranslationsDir string `env:"SIEVE_TRANSLATIONS_DIR"`
	DefaultLang     string `env:"SIEVE_DEFAULT_LANG" envDefault:"en"`
	RedisFormsKey   string `env:"SIEVE_REDIS_FORMS_KEY" envDefault:"sieve:forms"`
	TrustProxy      bool   `env:"SIEVE_TRUST_PROXY"`

	Validator validator.Config
	Logger    logger.Config
	HTTP      httpserver.Config
	Redis     redis.Config
	RateLimit ratelimiter.Config
}

type app struct {
	cfg appConfig
	log *slog.Logger
}

type appKey struct{}

func loadAppConfig(cmd *cobra.Command, envFiles []string) error {
	var opts []config.Option
	if len(envFiles) > 0 {
		opts = append(opts, config.WithEnvFiles(envFiles...))
	}
	var cfg appConfig
	if err := config.Load(&cfg, opts...); err != nil {
		return err
	}

	log, err := logger.NewFromConfig(cfg.Logger, "sieve",
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithAttr(slog.String("version", version)),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	if err != nil {
		return err
	}
	cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, &app{cfg: cfg, log: log}))
	return nil
}

func appFrom(cmd *cobra.Command) *app {
	if a, ok := cmd.Context().Value(appKey{}).(*app); ok {
		return a
	}
	return &app{log: slog.New(slog.DiscardHandler)}
}

// translator returns nil when no translations directory is configured.
func (a *app) translator(ctx context.Context) (*i18n.Translator, error) {
	if a.cfg.TranslationsDir == "" {
		return nil, nil
	}
	return i18n.NewTranslator(ctx, i18n.NewDirectoryAdapter(a.cfg.TranslationsDir),
		i18n.WithDefaultLanguage(a.cfg.DefaultLang),
		i18n.WithLogger(a.log),
		i18n.WithMissingTranslationsLogging(true),
	)
}

func (a *app) validator(tr *i18n.Translator) (*validator.Validator, error) {
	opts := []validator.ValidatorOption{validator.WithLogger(a.log)}
	if tr != nil {
		opts = append(opts, validator.WithTranslator(tr))
	}
	return validator.NewFromConfig(a.cfg.Validator, opts...)
}

// redisClient returns nil when Redis is not configured.
func (a *app) redisClient(ctx context.Context) (*goredis.Client, error) {
	if !a.cfg.Redis.Enabled() {
		return nil, nil
	}
	return redis.Connect(ctx, a.cfg.Redis)
}

func (a *app) redisSource(client goredis.UniversalClient) form.RedisSource {
	return form.NewRedisSource(client, a.cfg.RedisFormsKey)
}

// formSources lists the configured sources in override order: file, directory, Redis.
func (a *app) formSources(client *goredis.Client) []form.Source {
	var sources []form.Source
	if a.cfg.FormsFile != "" {
		sources = append(sources, form.FileSource{Path: a.cfg.FormsFile})
	}
	if a.cfg.FormsDir != "" {
		sources = append(sources, form.NewDirectorySource(a.cfg.FormsDir))
	}
	if client != nil {
		sources = append(sources, a.redisSource(client))
	}
	return sources
}

// rateLimiter returns nil when RATE_LIMIT_CAPACITY is unset. Buckets live in
// Redis when a client is available so every instance shares them.
func (a *app) rateLimiter(client *goredis.Client) (*ratelimiter.Bucket, error) {
	if !a.cfg.RateLimit.Enabled() {
		return nil, nil
	}
	var store ratelimiter.Store = ratelimiter.NewMemoryStore()
	if client != nil {
		store = ratelimiter.NewRedisStore(client)
	}
	return ratelimiter.NewBucket(store, a.cfg.RateLimit)
}
