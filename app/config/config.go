package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"AguaPos/app/security"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const configFileName = "config.json"

// Empty-close modes for closing a day with nothing sold
const (
	EmptyCloseRecord = "record" // Append a zero-total sale record
	EmptyCloseReset  = "reset"  // Clear the session without a record
)

// AppConfig holds all application configuration
type AppConfig struct {
	// Storage Configuration
	Storage StorageConfig `json:"storage"`

	// Logging Configuration
	Logger LoggerConfig `json:"logger"`

	// Business Information
	Business BusinessConfig `json:"business"`

	// Point of sale behaviour
	POS POSConfig `json:"pos"`

	// Automatic backups
	Backup BackupConfig `json:"backup"`

	// First run flag
	FirstRun bool `json:"first_run"`

	// Directory holding config.json; not persisted
	dataDir string
}

// StorageConfig selects where the state document lives
type StorageConfig struct {
	Driver   string         `json:"driver"` // "sqlite" or "postgres"
	Path     string         `json:"path"`   // SQLite file
	Postgres PostgresConfig `json:"postgres"`
}

// PostgresConfig holds optional PostgreSQL connection settings
type PostgresConfig struct {
	DSN      string `json:"dsn,omitempty"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"ssl_mode"`
}

// LoggerConfig holds logging settings
type LoggerConfig struct {
	Level      string `json:"level"`
	FileEnable bool   `json:"file_enable"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// BusinessConfig holds business information
type BusinessConfig struct {
	Name           string `json:"name"`
	CurrencySymbol string `json:"currency_symbol"`
}

// POSConfig holds point of sale settings
type POSConfig struct {
	EmptyCloseMode string `json:"empty_close_mode"`
}

// BackupConfig holds scheduled backup settings
type BackupConfig struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule"` // cron expression
	Dir      string `json:"dir"`
	Keep     int    `json:"keep"`
}

// DataDir returns the directory the config was loaded from
func (cfg *AppConfig) DataDir() string {
	return cfg.dataDir
}

// GetDataDir returns the application data directory.
// AGUAPOS_HOME wins over the user config directory.
func GetDataDir() (string, error) {
	dir := os.Getenv("AGUAPOS_HOME")
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			homeDir, herr := os.UserHomeDir()
			if herr != nil {
				return "", fmt.Errorf("could not determine home directory: %w", herr)
			}
			base = filepath.Join(homeDir, ".config")
		}
		dir = filepath.Join(base, "AguaPos")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create data directory: %w", err)
	}
	return dir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	dir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadEnv loads a .env file if present. A missing file is not an error.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// LoadConfig loads configuration from config.json, applies environment
// overrides and decrypts sensitive fields
func LoadConfig() (*AppConfig, error) {
	cfg, err := readConfigFile()
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.resolvePaths()

	return cfg, nil
}

// readConfigFile returns config.json as stored, with sensitive fields
// decrypted. Environment overrides and path resolution are not applied, so
// the result is safe to hand back to SaveConfig.
func readConfigFile() (*AppConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}
	cfg.dataDir = filepath.Dir(configPath)

	if err := cfg.decryptSensitiveFields(); err != nil {
		return nil, fmt.Errorf("could not decrypt sensitive fields: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to config.json after encrypting sensitive fields
func SaveConfig(cfg *AppConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Encrypt on a copy so the caller keeps plain values
	cfgCopy := *cfg
	cfgCopy.dataDir = filepath.Dir(configPath)
	if err := cfgCopy.encryptSensitiveFields(); err != nil {
		return fmt.Errorf("could not encrypt sensitive fields: %w", err)
	}

	data, err := json.MarshalIndent(&cfgCopy, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("could not write config file: %w", err)
	}

	return nil
}

// ConfigExists checks if config file exists
func ConfigExists() (bool, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return false, err
	}

	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// DefaultConfig returns the built-in defaults without touching disk
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "aguapos.db",
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "aguapos",
				Username: "postgres",
				SSLMode:  "disable",
			},
		},
		Logger: LoggerConfig{
			Level:      "info",
			FileEnable: true,
			MaxSizeMB:  16,
			MaxBackups: 7,
			MaxAgeDays: 30,
		},
		Business: BusinessConfig{
			Name:           "Mi Negocio",
			CurrencySymbol: "$",
		},
		POS: POSConfig{
			EmptyCloseMode: EmptyCloseRecord,
		},
		Backup: BackupConfig{
			Enabled:  false,
			Schedule: "0 22 * * *",
			Dir:      "backups",
			Keep:     14,
		},
		FirstRun: true,
	}
}

// CreateDefaultConfig creates a default configuration file
func CreateDefaultConfig() (*AppConfig, error) {
	cfg := DefaultConfig()

	if err := SaveConfig(cfg); err != nil {
		return nil, err
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	cfg.dataDir = filepath.Dir(configPath)
	cfg.applyEnv()
	cfg.resolvePaths()

	return cfg, nil
}

// MarkSetupComplete marks the first run as complete. Only first_run changes
// on disk; environment overrides are never written back.
func MarkSetupComplete() error {
	cfg, err := readConfigFile()
	if err != nil {
		return err
	}

	cfg.FirstRun = false
	return SaveConfig(cfg)
}

// applyEnv overrides file values with environment variables
func (cfg *AppConfig) applyEnv() {
	if v := os.Getenv("AGUAPOS_DB_DRIVER"); v != "" {
		cfg.Storage.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("AGUAPOS_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Storage.Postgres.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		cfg.Storage.Postgres.Port = cast.ToInt(v)
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Storage.Postgres.Password = v
	}
	if v := os.Getenv("AGUAPOS_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("AGUAPOS_EMPTY_CLOSE"); v != "" {
		cfg.POS.EmptyCloseMode = strings.ToLower(v)
	}
	if v := os.Getenv("AGUAPOS_BACKUP_SCHEDULE"); v != "" {
		cfg.Backup.Schedule = v
		cfg.Backup.Enabled = true
	}
	if v := os.Getenv("AGUAPOS_BACKUP_KEEP"); v != "" {
		cfg.Backup.Keep = cast.ToInt(v)
	}

	if cfg.POS.EmptyCloseMode != EmptyCloseReset {
		cfg.POS.EmptyCloseMode = EmptyCloseRecord
	}
}

// resolvePaths makes relative paths relative to the data directory
func (cfg *AppConfig) resolvePaths() {
	if cfg.dataDir == "" {
		return
	}
	if cfg.Storage.Path != "" && !filepath.IsAbs(cfg.Storage.Path) {
		cfg.Storage.Path = filepath.Join(cfg.dataDir, cfg.Storage.Path)
	}
	if cfg.Backup.Dir != "" && !filepath.IsAbs(cfg.Backup.Dir) {
		cfg.Backup.Dir = filepath.Join(cfg.dataDir, cfg.Backup.Dir)
	}
}

// encryptSensitiveFields encrypts sensitive configuration fields
func (cfg *AppConfig) encryptSensitiveFields() error {
	for _, field := range cfg.sensitiveFields() {
		if *field == "" {
			continue
		}
		encrypted, err := security.Encrypt(cfg.dataDir, *field)
		if err != nil {
			return fmt.Errorf("could not encrypt database credentials: %w", err)
		}
		*field = encrypted
	}
	return nil
}

// decryptSensitiveFields decrypts sensitive configuration fields.
// A value that does not decrypt is kept as plain text (hand-edited config).
func (cfg *AppConfig) decryptSensitiveFields() error {
	for _, field := range cfg.sensitiveFields() {
		if *field == "" {
			continue
		}
		if decrypted, err := security.Decrypt(cfg.dataDir, *field); err == nil {
			*field = decrypted
		}
	}
	return nil
}

// sensitiveFields lists the values stored encrypted in config.json
func (cfg *AppConfig) sensitiveFields() []*string {
	return []*string{
		&cfg.Storage.Postgres.Password,
		&cfg.Storage.Postgres.DSN,
	}
}
