package server

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tarmac-project/customer-lookup/connection"
	"github.com/tarmac-project/customer-lookup/customer"
)

const (
	defaultListenAddr        = "127.0.0.1:8010"
	defaultShutdownTimeout   = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultToolName          = "customer_lookup"
)

// Config holds the dependencies and listener settings of a Server.
type Config struct {
	Logger     *slog.Logger
	Lookup     *customer.Lookup
	Connection connection.Descriptor

	Version  string
	ToolName string

	// HTTP mode only.
	ListenAddr        string
	AllowedTokens     []string
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
}

// Validate checks required fields and fills in defaults.
func (cfg *Config) Validate() error {
	if cfg.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if cfg.Lookup == nil {
		return fmt.Errorf("lookup is required")
	}
	if _, err := connection.ConnectionString(cfg.Connection); err != nil {
		return fmt.Errorf("connection is required: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.ToolName == "" {
		cfg.ToolName = defaultToolName
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	return nil
}
