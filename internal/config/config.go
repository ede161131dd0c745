package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" //nolint:revive

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const EnvProduction = "production"

// Schedule интервалы запуска периодических задач.
type Schedule struct {
	ReconcileInterval     time.Duration `env:"RECONCILE_INTERVAL"      envDefault:"10m" validate:"gt=0"`
	StaleCompleteInterval time.Duration `env:"STALE_COMPLETE_INTERVAL" envDefault:"10m" validate:"gt=0"`
}

type Config struct {
	AppEnv        string `env:"APP_ENV"        envDefault:"development"`
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"   validate:"required"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	JWTUserSecret string `env:"JWT_SECRET"     validate:"required"`

	ProviderAPIURL  string        `env:"PROVIDER_API_URL" validate:"required,url"`
	ProviderAPIKey  string        `env:"PROVIDER_API_KEY"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	ProviderRPS     float64       `env:"PROVIDER_RPS"     envDefault:"5"   validate:"gt=0"`
	ProviderBurst   int           `env:"PROVIDER_BURST"   envDefault:"5"   validate:"gte=1"`

	ReconcilePageSize    uint `env:"RECONCILE_PAGE_SIZE"    envDefault:"100" validate:"gte=1"`
	ReconcileWorkers     uint `env:"RECONCILE_WORKERS"      envDefault:"5"   validate:"gte=1"`
	ReconcileMaxAttempts uint `env:"RECONCILE_MAX_ATTEMPTS" envDefault:"0"`

	StaleAfter       time.Duration `env:"STALE_AFTER"       envDefault:"30m"              validate:"gt=0"`
	StaleNetworks    []string      `env:"STALE_NETWORKS"    envDefault:"bigtime,telecel" envSeparator:","`
	StaleBatchSize   uint          `env:"STALE_BATCH_SIZE"  envDefault:"200"              validate:"gte=1"`
	BusinessTimezone string        `env:"BUSINESS_TIMEZONE" envDefault:"Africa/Accra"     validate:"required"`

	StatusMapFile string `env:"STATUS_MAP_FILE"`
	NATSURL       string `env:"NATS_URL"`
	NotifySubject string `env:"NOTIFY_SUBJECT" envDefault:"orders.outcome"`

	RunOnStart bool     `env:"RUN_ON_START" envDefault:"true"`
	Schedule   Schedule `envPrefix:"SCHEDULE_"`
}

// IsProduction сообщает, запущено ли приложение в продакшн окружении.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Location часовой пояс бизнеса.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("business timezone: %w", err)
	}
	return loc, nil
}

// LoadConfig собирает конфиг из .env файла (если есть), переменных окружения и флагов. Переменные окружения
// имеют приоритет над флагами.
func LoadConfig(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %s", err.Error())
	}

	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	if flagsErr := loadFlags(&flagsConfig, args); flagsErr != nil {
		return nil, fmt.Errorf("parse flags: %s", flagsErr.Error())
	}

	conf := mergeConfig(&envConfig, &flagsConfig)
	conf.StaleNetworks = normalizeList(conf.StaleNetworks)

	if err := validator.New().Struct(conf); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if _, err := conf.Location(); err != nil {
		return nil, err
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return config
}

func loadFlags(flagConfig *Config, args []string) error {
	fs := flag.NewFlagSet("reconciler", flag.ContinueOnError)
	fs.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	fs.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	fs.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	fs.StringVar(&flagConfig.ProviderAPIURL, "r", "", "Provider API base URL")

	return fs.Parse(args) //nolint:wrapcheck
}

// mergeConfig берёт значения из окружения, а пустые строки заполняет флагами.
func mergeConfig(envConfig, flagsConfig *Config) *Config {
	conf := *envConfig
	conf.RunAddress = defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress)
	conf.DatabaseDSN = defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN)
	conf.MigrationsDir = defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir)
	conf.ProviderAPIURL = defaultIfBlank(envConfig.ProviderAPIURL, flagsConfig.ProviderAPIURL)
	return &conf
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
