package app

import (
	"fmt"
	"net"

	"birdfeed/pkg/config"
)

// validateConfig checks the effective config early so startup fails fast
// with a pointed message instead of a mid-run surprise.
func validateConfig(eff config.Effective) error {
	if eff.DBPath == "" {
		return fmt.Errorf("db path must not be empty")
	}
	host, port, err := net.SplitHostPort(eff.Addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", eff.Addr, err)
	}
	if port == "" {
		return fmt.Errorf("listen address %q has no port", eff.Addr)
	}
	if host != "" {
		if ip := net.ParseIP(host); ip == nil && host != "localhost" {
			// hostnames resolve at bind time; only flag obvious garbage
			for _, r := range host {
				if r == '/' || r == ' ' {
					return fmt.Errorf("invalid listen host %q", host)
				}
			}
		}
	}
	if rl := eff.Config.Security.RateLimit; rl.RPS < 0 || rl.Burst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}
	return nil
}
