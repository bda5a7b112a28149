// Package config handles runtime configuration for sessions and session
// groups: timeouts, framing limits, protocol negotiation, and the
// capabilities a host advertises during handshake.
// file: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dkoosis/mcpsdk/internal/logging"
	"github.com/dkoosis/mcpsdk/internal/mcperror"
	"github.com/dkoosis/mcpsdk/internal/mcptypes"
	"github.com/dkoosis/mcpsdk/pkg/util/stringutil"
	"gopkg.in/yaml.v3"
)

var logger = logging.GetLogger("config")

// DefaultMaxFrameBytes is the spec's stated floor for the maximum message
// size a framing adapter must accept.
const DefaultMaxFrameBytes = 16 * 1024 * 1024

// Config is the configuration surface enumerated in spec §6.
type Config struct {
	HandshakeTimeout          time.Duration          `yaml:"handshake_timeout"`
	CallTimeout               time.Duration          `yaml:"call_timeout"`
	MaxFrameBytes             int                    `yaml:"max_frame_bytes"`
	SupportedProtocolVersions []string               `yaml:"supported_protocol_versions"`
	ServerInfo                mcptypes.Implementation `yaml:"server_info"`
	ClientInfo                mcptypes.Implementation `yaml:"client_info"`
	Capabilities              mcptypes.Capabilities  `yaml:"capabilities"`
	Schema                    SchemaConfig           `yaml:"schema"`
}

// New returns a Config populated with the spec's documented defaults:
// 30s handshake timeout, 60s call timeout, a 16MiB frame ceiling, and a
// single supported protocol version.
func New() *Config {
	logger.Debug("Creating new configuration with defaults.")
	return &Config{
		HandshakeTimeout:          30 * time.Second,
		CallTimeout:               60 * time.Second,
		MaxFrameBytes:             DefaultMaxFrameBytes,
		SupportedProtocolVersions: []string{"2024-11-05"},
		ServerInfo:                mcptypes.Implementation{Name: "mcpsdk", Version: "0.1.0"},
		ClientInfo:                mcptypes.Implementation{Name: "mcpsdk", Version: "0.1.0"},
		Capabilities: mcptypes.Capabilities{
			Tools: &mcptypes.ToolsCapability{ListChanged: false},
		},
	}
}

// Load reads a YAML configuration file, applies it over the defaults, then
// applies environment variable overrides, the way the teacher's
// configuration loader layers env vars over file values.
func Load(path string) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mcperror.ErrorWithDetails(
			err, mcperror.CategoryConfig, mcperror.CodeInternalError,
			map[string]interface{}{"path": path},
		)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, mcperror.ErrorWithDetails(
			err, mcperror.CategoryConfig, mcperror.CodeInternalError,
			map[string]interface{}{"path": path},
		)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides layers a handful of environment variables over whatever
// the file specified, mirroring the teacher's RTM_API_KEY/PORT override
// pattern but against this SDK's own surface.
func applyEnvOverrides(cfg *Config) {
	cfg.ServerInfo.Name = stringutil.CoalesceString(os.Getenv("MCPSDK_SERVER_NAME"), cfg.ServerInfo.Name)
	cfg.ServerInfo.Version = stringutil.CoalesceString(os.Getenv("MCPSDK_SERVER_VERSION"), cfg.ServerInfo.Version)
	if v := os.Getenv("MCPSDK_MAX_FRAME_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFrameBytes = n
		} else {
			logger.Warn("Ignoring malformed MCPSDK_MAX_FRAME_BYTES.", "value", v)
		}
	}
	if v := os.Getenv("MCPSDK_HANDSHAKE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HandshakeTimeout = d
		} else {
			logger.Warn("Ignoring malformed MCPSDK_HANDSHAKE_TIMEOUT.", "value", v)
		}
	}
	if v := os.Getenv("MCPSDK_CALL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CallTimeout = d
		} else {
			logger.Warn("Ignoring malformed MCPSDK_CALL_TIMEOUT.", "value", v)
		}
	}
}

// Validate rejects configurations that violate spec invariants: a non-empty
// protocol version list, positive timeouts, and a frame ceiling at or above
// the spec's 16MiB floor (§4.1: "Maximum line length ... MUST be at least
// 16 MiB").
func (c *Config) Validate() error {
	if len(c.SupportedProtocolVersions) == 0 {
		return mcperror.ErrorWithDetails(
			fmt.Errorf("supported_protocol_versions must not be empty"),
			mcperror.CategoryConfig, mcperror.CodeInternalError, nil,
		)
	}
	if c.HandshakeTimeout <= 0 {
		return mcperror.ErrorWithDetails(
			fmt.Errorf("handshake_timeout must be positive"),
			mcperror.CategoryConfig, mcperror.CodeInternalError, nil,
		)
	}
	if c.CallTimeout <= 0 {
		return mcperror.ErrorWithDetails(
			fmt.Errorf("call_timeout must be positive"),
			mcperror.CategoryConfig, mcperror.CodeInternalError, nil,
		)
	}
	if c.MaxFrameBytes < DefaultMaxFrameBytes {
		return mcperror.ErrorWithDetails(
			fmt.Errorf("max_frame_bytes must be at least %d", DefaultMaxFrameBytes),
			mcperror.CategoryConfig, mcperror.CodeInternalError,
			map[string]interface{}{"configured": c.MaxFrameBytes},
		)
	}
	return nil
}

// BestProtocolVersion returns the highest-dated version both c's supported
// list and offered share, per §6's negotiation rule ("picks the highest
// date both sides advertise"). ok is false if there is no overlap.
func (c *Config) BestProtocolVersion(offered []string) (string, bool) {
	offeredSet := make(map[string]struct{}, len(offered))
	for _, v := range offered {
		offeredSet[v] = struct{}{}
	}
	best := ""
	for _, v := range c.SupportedProtocolVersions {
		if _, ok := offeredSet[v]; ok && v > best {
			best = v
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// SchemaConfig configures the optional JSON Schema validation layer
// (internal/schema). SchemaOverrideURI, when set, is a file:// or http(s)://
// URI to load the schema document from instead of the embedded default.
type SchemaConfig struct {
	SchemaOverrideURI string `yaml:"schema_override_uri"`
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", mcperror.ErrorWithDetails(
			err, mcperror.CategoryConfig, mcperror.CodeInternalError,
			map[string]interface{}{"input_path": path},
		)
	}
	return filepath.Join(home, path[1:]), nil
}
