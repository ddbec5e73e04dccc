package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up inside the data directory.
const FileName = "pocketledger.yaml"

// Config represents the top-level pocketledger.yaml configuration.
type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	Auth     AuthConfig    `yaml:"auth"`
	Report   ReportConfig  `yaml:"report"`
	Accounts []string      `yaml:"accounts,omitempty"` // labels suggested by the menu
	Log      LogConfig     `yaml:"log"`
}

// StorageConfig locates the ledger database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// AuthConfig locates the password sidecar.
type AuthConfig struct {
	PasswordFile string `yaml:"password_file"`
}

// ReportConfig controls exported documents.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
	Title     string `yaml:"title"`
	Currency  string `yaml:"currency"`
	Compress  bool   `yaml:"compress"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a pocketledger.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the file names the ledger has always used.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DBPath: "expenses.db",
		},
		Auth: AuthConfig{
			PasswordFile: "password.txt",
		},
		Report: ReportConfig{
			OutputDir: ".",
			Title:     "Personal Expense Report",
			Currency:  "Rs.",
			Compress:  true,
		},
		Accounts: []string{"BANK", "PB"},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Resolve loads the configuration for a data directory. If configPath is
// empty, <dir>/pocketledger.yaml is used when present and defaults otherwise.
// A .env file in dir and POCKETLEDGER_* variables override file values, and
// relative paths are made absolute against dir.
func Resolve(dir, configPath string) (*Config, error) {
	cfg := Default()

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(dir, FileName)
	}
	loaded, err := Load(configPath)
	switch {
	case err == nil:
		cfg = loaded
	case !explicit && errors.Is(err, fs.ErrNotExist):
		// defaults
	default:
		return nil, err
	}

	// Optional; real environment variables win over .env entries.
	_ = godotenv.Load(filepath.Join(dir, ".env"))
	cfg.applyEnv()
	cfg.resolvePaths(dir)
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Storage.DBPath = getEnv("POCKETLEDGER_DB_PATH", c.Storage.DBPath)
	c.Auth.PasswordFile = getEnv("POCKETLEDGER_PASSWORD_FILE", c.Auth.PasswordFile)
	c.Report.OutputDir = getEnv("POCKETLEDGER_REPORT_DIR", c.Report.OutputDir)
	c.Report.Currency = getEnv("POCKETLEDGER_CURRENCY", c.Report.Currency)
	c.Log.Level = getEnv("POCKETLEDGER_LOG_LEVEL", c.Log.Level)
}

func (c *Config) resolvePaths(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Storage.DBPath = abs(c.Storage.DBPath)
	c.Auth.PasswordFile = abs(c.Auth.PasswordFile)
	c.Report.OutputDir = abs(c.Report.OutputDir)
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Storage.DBPath) == "" {
		problems = append(problems, "storage.db_path cannot be empty")
	}
	if strings.TrimSpace(c.Auth.PasswordFile) == "" {
		problems = append(problems, "auth.password_file cannot be empty")
	}
	if c.Storage.DBPath != "" && c.Storage.DBPath == c.Auth.PasswordFile {
		problems = append(problems, "storage.db_path and auth.password_file must differ")
	}
	if strings.TrimSpace(c.Report.OutputDir) == "" {
		problems = append(problems, "report.output_dir cannot be empty")
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		problems = append(problems, fmt.Sprintf("invalid log.level %q", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
