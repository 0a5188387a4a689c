// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables,
// and an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string

	// Config is the path to the Config file.
	Config string

	// LookupURL is the base URL of the product lookup service.
	// Empty disables barcode lookups.
	LookupURL string

	// RecipeURL is the base URL of the recipe suggestion service.
	// Empty disables recipe suggestions.
	RecipeURL string

	// LogLevel sets the zap log level.
	LogLevel string

	// WindowDays is the expiring-soon window in days.
	WindowDays int
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	flag.StringVar(&options.LookupURL, "lookup", "", "product lookup base URL")
	flag.StringVar(&options.RecipeURL, "recipes", "", "recipe service base URL")
	flag.StringVar(&options.LogLevel, "log", "Info", "log level")
	flag.IntVar(&options.WindowDays, "days", 3, "expiring-soon window in days")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	// Load .env if present; real environment variables win.
	_ = godotenv.Load()

	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if lookup := os.Getenv("LOOKUP_URL"); lookup != "" {
		options.LookupURL = lookup
	}
	if recipes := os.Getenv("RECIPE_URL"); recipes != "" {
		options.RecipeURL = recipes
	}

	return options
}
