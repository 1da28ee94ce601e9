// Package settings manages persistent user settings for the netman CLI.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/netman-network/netman/pkg/util"
)

// Defaults applied by the getters when a setting is unset.
const (
	DefaultMode             = "simulation"
	DefaultSimulationDir    = "simulation"
	DefaultInventoryFile    = "data/inventory.json"
	DefaultAnsibleInventory = "data/ansible_inventory.yml"
	DefaultPlaybookDir      = "playbooks"
	DefaultExecTimeout      = 5 * time.Minute
	DefaultRedisPrefix      = "SIM_RESPONSES"
	DefaultSchedule         = "30s"
)

// Settings holds persistent user preferences
type Settings struct {
	// Mode selects the automation runner: "simulation" or "real"
	Mode string `json:"mode,omitempty"`

	// SimulationDir holds the YAML response catalogs
	SimulationDir string `json:"simulation_dir,omitempty"`

	// CatalogSources is an explicit, ordered list of catalog files. When set
	// it replaces the listing of SimulationDir.
	CatalogSources []string `json:"catalog_sources,omitempty"`

	// RedisAddr, when set, appends the Redis catalog source after the files
	RedisAddr   string `json:"redis_addr,omitempty"`
	RedisDB     int    `json:"redis_db,omitempty"`
	RedisPrefix string `json:"redis_prefix,omitempty"`

	// InventoryFile is the device inventory JSON
	InventoryFile string `json:"inventory_file,omitempty"`

	// AnsibleInventory is passed to the automation tool in real mode
	AnsibleInventory string `json:"ansible_inventory,omitempty"`

	// PlaybookDir is where playbooks named without a path are looked up
	PlaybookDir string `json:"playbook_dir,omitempty"`

	// ExecTimeout bounds one real-mode invocation, as a Go duration
	ExecTimeout string `json:"exec_timeout,omitempty"`

	// Seed fixes the connection simulator's random sequence
	Seed *int64 `json:"seed,omitempty"`

	// AuditLog is the JSON-lines audit file
	AuditLog string `json:"audit_log,omitempty"`

	// Schedule is the default interval or cron expression of status --watch
	Schedule string `json:"schedule,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	return filepath.Join(configDir(), "settings.json")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".netman"
	}
	return filepath.Join(home, ".netman")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path. A missing file yields empty
// settings.
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetMode returns the runner mode (with fallback)
func (s *Settings) GetMode() string {
	return orDefault(s.Mode, DefaultMode)
}

// GetSimulationDir returns the catalog directory (with fallback)
func (s *Settings) GetSimulationDir() string {
	return orDefault(s.SimulationDir, DefaultSimulationDir)
}

// GetInventoryFile returns the inventory path (with fallback)
func (s *Settings) GetInventoryFile() string {
	return orDefault(s.InventoryFile, DefaultInventoryFile)
}

// GetAnsibleInventory returns the real-mode inventory path (with fallback)
func (s *Settings) GetAnsibleInventory() string {
	return orDefault(s.AnsibleInventory, DefaultAnsibleInventory)
}

// GetPlaybookDir returns the playbook directory (with fallback)
func (s *Settings) GetPlaybookDir() string {
	return orDefault(s.PlaybookDir, DefaultPlaybookDir)
}

// GetRedisPrefix returns the catalog key prefix (with fallback)
func (s *Settings) GetRedisPrefix() string {
	return orDefault(s.RedisPrefix, DefaultRedisPrefix)
}

// GetAuditLog returns the audit log path, defaulting to audit.log next to
// the settings file.
func (s *Settings) GetAuditLog() string {
	return orDefault(s.AuditLog, filepath.Join(configDir(), "audit.log"))
}

// GetSchedule returns the watch schedule (with fallback)
func (s *Settings) GetSchedule() string {
	return orDefault(s.Schedule, DefaultSchedule)
}

// GetExecTimeout parses ExecTimeout, falling back to DefaultExecTimeout when
// it is unset, malformed or not positive.
func (s *Settings) GetExecTimeout() time.Duration {
	if d, err := time.ParseDuration(s.ExecTimeout); err == nil && d > 0 {
		return d
	}
	return DefaultExecTimeout
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// field binds a settings key to its accessors for Get and Set.
type field struct {
	get func(*Settings) string
	set func(*Settings, string) error
}

var fields = map[string]field{
	"mode": {
		get: func(s *Settings) string { return s.Mode },
		set: func(s *Settings, v string) error {
			switch v {
			case "simulation", "real", "":
				s.Mode = v
				return nil
			}
			return fmt.Errorf("mode must be simulation or real, got %q", v)
		},
	},
	"simulation_dir":    stringField(func(s *Settings) *string { return &s.SimulationDir }),
	"redis_addr":        stringField(func(s *Settings) *string { return &s.RedisAddr }),
	"redis_prefix":      stringField(func(s *Settings) *string { return &s.RedisPrefix }),
	"inventory_file":    stringField(func(s *Settings) *string { return &s.InventoryFile }),
	"ansible_inventory": stringField(func(s *Settings) *string { return &s.AnsibleInventory }),
	"playbook_dir":      stringField(func(s *Settings) *string { return &s.PlaybookDir }),
	"audit_log":         stringField(func(s *Settings) *string { return &s.AuditLog }),
	"catalog_sources": {
		get: func(s *Settings) string { return strings.Join(s.CatalogSources, ",") },
		set: func(s *Settings, v string) error {
			s.CatalogSources = util.SplitCommaSeparated(v)
			return nil
		},
	},
	"redis_db": {
		get: func(s *Settings) string { return strconv.Itoa(s.RedisDB) },
		set: func(s *Settings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("redis_db must be a non-negative integer, got %q", v)
			}
			s.RedisDB = n
			return nil
		},
	},
	"exec_timeout": {
		get: func(s *Settings) string { return s.ExecTimeout },
		set: func(s *Settings, v string) error {
			if v != "" {
				if d, err := time.ParseDuration(v); err != nil || d <= 0 {
					return fmt.Errorf("exec_timeout must be a positive duration, got %q", v)
				}
			}
			s.ExecTimeout = v
			return nil
		},
	},
	"seed": {
		get: func(s *Settings) string {
			if s.Seed == nil {
				return ""
			}
			return strconv.FormatInt(*s.Seed, 10)
		},
		set: func(s *Settings, v string) error {
			if v == "" {
				s.Seed = nil
				return nil
			}
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("seed must be an integer, got %q", v)
			}
			s.Seed = &n
			return nil
		},
	},
	"schedule": stringField(func(s *Settings) *string { return &s.Schedule }),
}

func stringField(ptr func(*Settings) *string) field {
	return field{
		get: func(s *Settings) string { return *ptr(s) },
		set: func(s *Settings, v string) error {
			*ptr(s) = v
			return nil
		},
	}
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the stored value of key, empty when unset.
func (s *Settings) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", unknownKey(key)
	}
	return f.get(s), nil
}

// Set validates and stores value under key. An empty value unsets it.
func (s *Settings) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return unknownKey(key)
	}
	return f.set(s, value)
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown setting: %s (valid: %s)", key, strings.Join(Keys(), ", "))
}
