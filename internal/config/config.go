// Package config resolves server and tool configuration from the environment,
// an optional .env file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"lg/life-dashboard-go-api/internal/activity"
	"lg/life-dashboard-go-api/internal/cost"
	"lg/life-dashboard-go-api/internal/models"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the resolved configuration.
type Config struct {
	Addr          string
	StoreDriver   string
	DBURL         string
	SQLitePath    string
	OpenAIBaseURL string

	// MealSlots are the meal timeslots a day is expected to have. Their count
	// caps the completed-meal figure on the calendar.
	MealSlots   []string
	Placeholder models.SelectedFood
	Cost        cost.Options
}

// Load reads .env (when present) into the process environment, then resolves
// every key from the environment with defaults for anything unset.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ADDR", "localhost:3000")
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("DB_URL", "")
	v.SetDefault("SQLITE_PATH", "lifedash.db")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com")
	v.SetDefault("MEAL_SLOTS", "6pm,9:30pm")
	v.SetDefault("PLACEHOLDER_FOOD", "Quick meal")
	v.SetDefault("PLACEHOLDER_AMOUNT", 1.0)
	v.SetDefault("COST_WINDOW_DAYS", cost.DefaultOptions.DefaultWindowDays)
	v.SetDefault("CURRENCY", cost.DefaultOptions.Currency)
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Addr:          v.GetString("ADDR"),
		StoreDriver:   strings.ToLower(v.GetString("STORE_DRIVER")),
		DBURL:         v.GetString("DB_URL"),
		SQLitePath:    v.GetString("SQLITE_PATH"),
		OpenAIBaseURL: strings.TrimRight(v.GetString("OPENAI_BASE_URL"), "/"),
		Placeholder: models.SelectedFood{
			Name:   v.GetString("PLACEHOLDER_FOOD"),
			Amount: v.GetFloat64("PLACEHOLDER_AMOUNT"),
		},
		Cost: cost.Options{
			Currency:          v.GetString("CURRENCY"),
			DefaultWindowDays: v.GetInt("COST_WINDOW_DAYS"),
		},
	}

	for _, raw := range splitList(v.GetString("MEAL_SLOTS")) {
		slot, err := activity.ParseSlot(raw)
		if err != nil {
			return nil, fmt.Errorf("MEAL_SLOTS: %w", err)
		}
		cfg.MealSlots = append(cfg.MealSlots, slot)
	}

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DBURL == "" {
			return nil, errors.New("DB_URL is required for the postgres store")
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLITE_PATH is required for the sqlite store")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want postgres or sqlite)", cfg.StoreDriver)
	}
	if cfg.Placeholder.Name == "" || cfg.Placeholder.Amount <= 0 {
		log.Printf("[config.Load] invalid placeholder food, using default")
		cfg.Placeholder = models.SelectedFood{Name: "Quick meal", Amount: 1}
	}
	if cfg.Cost.DefaultWindowDays <= 0 {
		cfg.Cost.DefaultWindowDays = cost.DefaultOptions.DefaultWindowDays
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
