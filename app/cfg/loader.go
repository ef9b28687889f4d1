package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DataDir   string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory holding the SQLite database and generated output"`
	ConfigDir string `long:"config-dir" env:"CONFIG_DIR" default:"./repos" description:"Directory containing repository configuration files"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl           string `long:"base-url" env:"BASE_URL" description:"Public base URL for generated documents (e.g., https://docs.example.com)"`
	ArchiveSize       int    `long:"archive-size" env:"ARCHIVE_SIZE" default:"100" description:"Number of feed entries per archive chunk"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Regeneration interval in seconds"`
	Force             bool   `long:"force" env:"FORCE" description:"Regenerate output even when the stored data has not changed"`
	RepublishSource   bool   `long:"republish-source" env:"REPUBLISH_SOURCE" description:"Link feed entries to the source documents instead of the generated ones"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"facetnav/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DataDir:           raw.DataDir,
		ConfigDir:         raw.ConfigDir,
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		ArchiveSize:       raw.ArchiveSize,
		SchedulerInterval: raw.SchedulerInterval,
		Force:             raw.Force,
		RepublishSource:   raw.RepublishSource,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
