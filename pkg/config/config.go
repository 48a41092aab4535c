package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "smartkart"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	Scanner ScannerConfig
	Lookup  LookupConfig
	Speech  SpeechConfig
	DB      DBConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Scanner.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Speech.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SMARTKART_APP_ENV" default:"dev"`
	Port         string `envconfig:"SMARTKART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SMARTKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SMARTKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ScannerConfig struct {
	// Cooldown is the minimum interval before the same barcode is treated
	// as a fresh scan.
	Cooldown        time.Duration `envconfig:"SMARTKART_SCAN_COOLDOWN" default:"5s"`
	TableMaxEntries int           `envconfig:"SMARTKART_SCAN_TABLE_MAX_ENTRIES" default:"512"`
	// Source selects the detection feed wired in by the daemon: "stdin"
	// reads one barcode per line (development), "none" leaves scan
	// injection to the HTTP layer.
	Source string `envconfig:"SMARTKART_SCAN_SOURCE" default:"none"`
}

func (s ScannerConfig) validate() error {
	if s.Cooldown <= 0 {
		return fmt.Errorf("scan cooldown must be positive, got %s", s.Cooldown)
	}
	switch s.Source {
	case "none", "stdin":
	default:
		return fmt.Errorf("unknown scan source %q", s.Source)
	}
	return nil
}

type LookupConfig struct {
	APIBaseURL  string        `envconfig:"SMARTKART_LOOKUP_API_BASE_URL" default:"https://world.openfoodfacts.org"`
	Timeout     time.Duration `envconfig:"SMARTKART_LOOKUP_TIMEOUT" default:"10s"`
	NegativeTTL time.Duration `envconfig:"SMARTKART_LOOKUP_NEGATIVE_TTL" default:"15m"`
	Allergens   []string      `envconfig:"SMARTKART_LOOKUP_ALLERGENS" default:"peanuts,peanut,nuts,milk,dairy,eggs,egg,soy,wheat,gluten,fish,shellfish,sesame"`
}

type SpeechConfig struct {
	PiperExecutable  string   `envconfig:"SMARTKART_SPEECH_PIPER_EXECUTABLE" default:"piper"`
	PiperModel       string   `envconfig:"SMARTKART_SPEECH_PIPER_MODEL" default:""`
	Players          []string `envconfig:"SMARTKART_SPEECH_PLAYERS" default:"aplay,paplay"`
	EspeakExecutable string   `envconfig:"SMARTKART_SPEECH_ESPEAK_EXECUTABLE" default:"espeak-ng"`
	// Rate is words per minute, Volume a 0.0 to 1.0 gain.
	Rate   int     `envconfig:"SMARTKART_SPEECH_RATE" default:"150"`
	Volume float64 `envconfig:"SMARTKART_SPEECH_VOLUME" default:"0.8"`
}

func (s SpeechConfig) validate() error {
	if s.Rate <= 0 {
		return fmt.Errorf("speech rate must be positive, got %d", s.Rate)
	}
	if s.Volume < 0 || s.Volume > 1 {
		return fmt.Errorf("speech volume must be within [0, 1], got %g", s.Volume)
	}
	return nil
}

type DBConfig struct {
	Path        string `envconfig:"SMARTKART_DB_PATH" default:"data/smartkart.db"`
	AutoMigrate bool   `envconfig:"SMARTKART_DB_AUTO_MIGRATE" default:"true"`
}
