package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/i474232898/fishing-planner/internal/reference"
	"github.com/i474232898/fishing-planner/internal/scheduler"
)

type AppConfig struct {
	// Override providers are enabled only when their key is set.
	OpenWeatherAPIKey string `envconfig:"OWM_API_KEY"`
	StormglassAPIKey  string `envconfig:"STORMGLASS_API_KEY"`

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout        time.Duration `envconfig:"HTTP_TIMEOUT" default:"12s" validate:"gt=0"`
	ProviderMaxRetries int           `envconfig:"PROVIDER_MAX_RETRIES" default:"0" validate:"min=0,max=1"`

	// Timezone for provider timestamps and for "today" checks.
	Timezone string         `envconfig:"PLANNER_TIMEZONE" default:"Africa/Johannesburg" validate:"required"`
	Location *time.Location `ignored:"true"`

	// Conditions collector.
	CollectInterval time.Duration       `envconfig:"COLLECT_INTERVAL" default:"6h" validate:"gte=0"`
	CollectAreas    []string            `envconfig:"COLLECT_AREAS"`
	Areas           []scheduler.AreaRef `ignored:"true"`

	// In-memory snapshot retention.
	StoreMaxHistory int           `envconfig:"STORE_MAX_HISTORY" default:"28"` // max snapshots per area (0 = unlimited)
	StoreMaxAge     time.Duration `envconfig:"STORE_MAX_AGE" default:"168h"`   // max age of snapshots (0 = unlimited)

	Port     string `envconfig:"PORT" default:"8080" validate:"required"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

// Load reads configuration from the environment (and an optional .env file)
// with defaults, then validates it.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish validates cfg and resolves the derived fields.
func (cfg *AppConfig) finish() error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Providers are sent the IANA name; "Local" is not one.
	if cfg.Timezone == "Local" {
		return fmt.Errorf("invalid PLANNER_TIMEZONE %q: use an IANA zone name", cfg.Timezone)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid PLANNER_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	areas, err := parseAreas(cfg.CollectAreas)
	if err != nil {
		return err
	}
	cfg.Areas = areas
	return nil
}

func parseAreas(refs []string) ([]scheduler.AreaRef, error) {
	var areas []scheduler.AreaRef
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		regionID, areaID, ok := reference.ParseAreaRef(ref)
		if !ok {
			return nil, fmt.Errorf("invalid COLLECT_AREAS entry %q: want region/area", ref)
		}
		areas = append(areas, scheduler.AreaRef{RegionID: regionID, AreaID: areaID})
	}
	return areas, nil
}
