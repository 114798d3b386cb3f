package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config is read from the environment; flags override it.
type Config struct {
	Customer   string        `env:"SPOKE_CUSTOMER"`
	Key        string        `env:"SPOKE_KEY"`
	Production bool          `env:"SPOKE_PRODUCTION,default=false"`
	URL        string        `env:"SPOKE_URL"`
	Timeout    time.Duration `env:"SPOKE_TIMEOUT,default=30s"`
	LogoURL    string        `env:"SPOKE_LOGO_URL"`
	LogoType   string        `env:"SPOKE_LOGO_TYPE,default=png"`
	LogLevel   string        `env:"SPOKE_LOG_LEVEL,default=info"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// clientParams returns the NewClient parameters for cfg. Unset credentials
// are left out so validation reports them as missing.
func (c Config) clientParams() map[string]any {
	p := map[string]any{"production": c.Production}
	if c.Customer != "" {
		p["Customer"] = c.Customer
	}
	if c.Key != "" {
		p["Key"] = c.Key
	}
	if c.LogoURL != "" {
		p["Logo"] = map[string]any{"ImageType": c.LogoType, "Url": c.LogoURL}
	}
	return p
}
