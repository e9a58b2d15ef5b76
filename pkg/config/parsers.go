package config

import (
	"flag"
	"os"
)

// Flags holds parsed command-line flag values and which were set.
type Flags struct {
	Addr   string
	DB     string
	Config string
	Set    map[string]bool
}

// Effective is the merged result of flags, environment, and config file.
type Effective struct {
	Config *Config
	Addr   string
	DBPath string
	Source string // "flags", "env", or "config"
}

// ParseFlags parses command-line flags.
func ParseFlags() Flags {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./.database", "Pebble DB path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return Flags{Addr: *addrPtr, DB: *dbPtr, Config: *cfgPtr, Set: set}
}

// LoadEffective merges the config file, environment overrides, and flags,
// with flags winning over env winning over the file.
func LoadEffective(flags Flags) (Effective, error) {
	cfgPath := flags.Config
	if !flags.Set["config"] {
		if p := os.Getenv("BIRDFEED_CONFIG"); p != "" {
			cfgPath = p
		}
	}

	cfg := &Config{}
	source := "flags"
	if loaded, err := Load(cfgPath); err == nil {
		cfg = loaded
		source = "config"
	} else if !os.IsNotExist(err) {
		return Effective{}, err
	}
	if ApplyEnv(cfg) {
		source = "env"
	}

	eff := Effective{Config: cfg, Source: source}

	if flags.Set["addr"] {
		eff.Addr = flags.Addr
		eff.Source = "flags"
	} else if cfg.Server.Address != "" || cfg.Server.Port != 0 {
		eff.Addr = cfg.Addr()
	} else {
		eff.Addr = flags.Addr
	}

	if flags.Set["db"] {
		eff.DBPath = flags.DB
		eff.Source = "flags"
	} else if cfg.Storage.DBPath != "" {
		eff.DBPath = cfg.Storage.DBPath
	} else {
		eff.DBPath = flags.DB
	}

	return eff, nil
}
